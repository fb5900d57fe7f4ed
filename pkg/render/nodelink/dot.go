package nodelink

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/upgradetree/pkg/engine"
	"github.com/matzehuels/upgradetree/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds the cost and state to node labels.
	Detailed bool

	// Palette overrides the state colors.
	Palette *render.Palette
}

// ToDOT converts a view to Graphviz DOT.
func ToDOT(v engine.View, opts Options) string {
	pal := render.DefaultPalette()
	if opts.Palette != nil {
		pal = *opts.Palette
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=BT;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range v.Nodes {
		attrs := fmt.Sprintf("label=%q, fillcolor=%q", fmtLabel(n, opts.Detailed), pal.Node(n.State).Hex())
		if n.Purchasable {
			attrs += fmt.Sprintf(", color=%q, penwidth=3", pal.Highlight.Hex())
		}
		if n.Description != "" {
			attrs += fmt.Sprintf(", tooltip=%q", n.Description)
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, attrs)
	}

	rows := rowsOf(v)
	if len(rows) > 0 {
		buf.WriteString("\n")
	}
	for _, r := range slices.Sorted(maps.Keys(rows)) {
		ids := rows[r]
		buf.WriteString("  { rank=same;")
		for _, id := range ids {
			fmt.Fprintf(&buf, " %q;", id)
		}
		buf.WriteString(" }\n")
		for i := 1; i < len(ids); i++ {
			fmt.Fprintf(&buf, "  %q -> %q [style=invis];\n", ids[i-1], ids[i])
		}
	}

	if len(v.Edges) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range v.Edges {
		fmt.Fprintf(&buf, "  %q -> %q [color=%q, penwidth=%g];\n",
			e.From, e.To, pal.Edge(e.State).HexA(), pal.EdgeWidth)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// rowsOf groups node IDs by row in their placed order.
func rowsOf(v engine.View) map[int][]string {
	byRow := make(map[int][]engine.ViewNode)
	for _, n := range v.Nodes {
		byRow[n.Row] = append(byRow[n.Row], n)
	}
	rows := make(map[int][]string, len(byRow))
	for r, nodes := range byRow {
		slices.SortFunc(nodes, func(a, b engine.ViewNode) int { return cmp.Compare(a.Index, b.Index) })
		for _, n := range nodes {
			rows[r] = append(rows[r], n.ID)
		}
	}
	return rows
}

func fmtLabel(n engine.ViewNode, detailed bool) string {
	if !detailed {
		return n.Label
	}
	return fmt.Sprintf("%s\n%s · %d gold", n.Label, n.State, n.Cost)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	out, err := renderDOT(ctx, dot, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(out), nil
}

// RenderPNG renders a DOT graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return renderDOT(ctx, dot, graphviz.PNG)
}

func renderDOT(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element with one that scales
// cleanly when embedded.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
