// Package svg draws an upgrade tree view as a standalone SVG document.
//
// Nodes are drawn at their computed coordinates. Layer 0 sits at the bottom
// and deeper layers grow upward, as in the game panel. Node fill and edge
// stroke follow the node and edge states of the view.
package svg

import (
	"bytes"
	"fmt"
	"html"
	"math"

	"github.com/matzehuels/upgradetree/pkg/engine"
	"github.com/matzehuels/upgradetree/pkg/render"
	"github.com/matzehuels/upgradetree/pkg/state"
)

// Options configures SVG output. Zero values select the defaults.
type Options struct {
	Palette    *render.Palette
	NodeRadius float64 // default 18
	Padding    float64 // default 40
	HideLabels bool
	ShowCost   bool
	Arrows     bool // mark each edge with an arrowhead pointing at the dependent
}

func (o Options) withDefaults() Options {
	if o.Palette == nil {
		p := render.DefaultPalette()
		o.Palette = &p
	}
	if o.NodeRadius <= 0 {
		o.NodeRadius = 18
	}
	if o.Padding <= 0 {
		o.Padding = 40
	}
	return o
}

// Render returns the SVG document for v.
func Render(v engine.View, opts Options) []byte {
	opts = opts.withDefaults()
	pal := opts.Palette

	minX, minY, maxX, maxY := bounds(v)
	pad := opts.Padding + opts.NodeRadius
	width := maxX - minX + 2*pad
	height := maxY - minY + 2*pad
	tx := func(x float64) float64 { return x - minX + pad }
	ty := func(y float64) float64 { return y - minY + pad }

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`+"\n",
		width, height, width, height)

	buf.WriteString(`  <g class="edges" stroke-linecap="round">` + "\n")
	for _, e := range v.Edges {
		c := pal.Edge(e.State)
		fmt.Fprintf(&buf, `    <line class="edge %s" data-from="%s" data-to="%s" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-opacity="%.2f" stroke-width="%.2f"/>`+"\n",
			e.State, attr(e.From), attr(e.To),
			tx(e.Segment.X1), ty(e.Segment.Y1), tx(e.Segment.X2), ty(e.Segment.Y2),
			c.Hex(), c.A, pal.EdgeWidth)
		// Edges shorter than a node diameter are hidden under the nodes.
		if opts.Arrows && e.Segment.Length() > 2*opts.NodeRadius {
			mx, my := e.Segment.Midpoint()
			fmt.Fprintf(&buf, `    <path class="arrow" d="M -6 -5 L 6 0 L -6 5 z" transform="translate(%.2f %.2f) rotate(%.2f)" fill="%s" fill-opacity="%.2f"/>`+"\n",
				tx(mx), ty(my), e.Segment.Angle(), c.Hex(), c.A)
		}
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="nodes" font-family="sans-serif" font-size="11" text-anchor="middle">` + "\n")
	for _, n := range v.Nodes {
		writeNode(&buf, n, tx(n.X), ty(n.Y), opts)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writeNode(buf *bytes.Buffer, n engine.ViewNode, x, y float64, opts Options) {
	pal := opts.Palette
	stroke, strokeWidth := "#333333", 1.5
	if n.Purchasable {
		stroke, strokeWidth = pal.Highlight.Hex(), 3
	}

	fmt.Fprintf(buf, `    <g class="node %s" data-id="%s">`+"\n", n.State, attr(n.ID))
	if n.Description != "" {
		fmt.Fprintf(buf, "      <title>%s</title>\n", html.EscapeString(n.Description))
	}
	fmt.Fprintf(buf, `      <circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
		x, y, opts.NodeRadius, pal.Node(n.State).Hex(), stroke, strokeWidth)
	if !opts.HideLabels {
		fmt.Fprintf(buf, `      <text x="%.2f" y="%.2f" fill="%s">%s</text>`+"\n",
			x, y+opts.NodeRadius+13, pal.Text.Hex(), html.EscapeString(n.Label))
	}
	if opts.ShowCost && n.State != state.Unlocked {
		fmt.Fprintf(buf, `      <text class="cost" x="%.2f" y="%.2f" fill="%s">%d</text>`+"\n",
			x, y+4, pal.Text.Hex(), n.Cost)
	}
	buf.WriteString("    </g>\n")
}

// bounds covers every node center and edge endpoint. An empty view yields a
// zero-sized box at the origin.
func bounds(v engine.View) (minX, minY, maxX, maxY float64) {
	if len(v.Nodes) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	grow := func(x, y float64) {
		minX, maxX = min(minX, x), max(maxX, x)
		minY, maxY = min(minY, y), max(maxY, y)
	}
	for _, n := range v.Nodes {
		grow(n.X, n.Y)
	}
	for _, e := range v.Edges {
		grow(e.Segment.X1, e.Segment.Y1)
		grow(e.Segment.X2, e.Segment.Y2)
	}
	return minX, minY, maxX, maxY
}

func attr(s string) string { return html.EscapeString(s) }
