package layout

import (
	"maps"
	"math"
	"slices"

	"github.com/matzehuels/upgradetree/pkg/dag"
)

// Default spacing between layers and between nodes in a layer, in user units.
const (
	DefaultLayerSpacing = 64.0
	DefaultNodeSpacing  = 52.0
)

// Spacing holds the two distances that place nodes on the canvas.
type Spacing struct {
	Layer float64 // vertical distance between consecutive layers
	Node  float64 // horizontal distance between neighbors in a layer
}

// DefaultSpacing returns the default layer and node spacing.
func DefaultSpacing() Spacing {
	return Spacing{Layer: DefaultLayerSpacing, Node: DefaultNodeSpacing}
}

// withDefaults replaces non-positive distances with their defaults.
func (s Spacing) withDefaults() Spacing {
	if s.Layer <= 0 {
		s.Layer = DefaultLayerSpacing
	}
	if s.Node <= 0 {
		s.Node = DefaultNodeSpacing
	}
	return s
}

// Node is a placed node. Layer 0 sits at Y = 0 and deeper layers have
// increasingly negative Y, so the tree grows downward in a Y-up frame.
type Node struct {
	ID    string
	Label string
	Row   int // layer
	Index int // position within the layer
	X, Y  float64
}

// Edge is a straight connection from a prerequisite to a dependent.
type Edge struct {
	From, To string
	Segment  Segment
}

// Segment is a line between two points.
type Segment struct {
	X1, Y1 float64 // prerequisite end
	X2, Y2 float64 // dependent end
}

// Length returns the segment length, never less than 1 so that callers can
// divide by it or scale a sprite by it.
func (s Segment) Length() float64 {
	return max(1, math.Hypot(s.X2-s.X1, s.Y2-s.Y1))
}

// Angle returns the direction from the first point to the second, in degrees
// counter-clockwise from the positive X axis.
func (s Segment) Angle() float64 {
	return math.Atan2(s.Y2-s.Y1, s.X2-s.X1) * 180 / math.Pi
}

// Midpoint returns the center of the segment.
func (s Segment) Midpoint() (x, y float64) {
	return (s.X1 + s.X2) / 2, (s.Y1 + s.Y2) / 2
}

// Layout holds the placed nodes, ordered by row and then by position within
// the row, and the edges between them.
type Layout struct {
	Nodes   []Node
	Edges   []Edge
	Spacing Spacing
}

// Place positions every node of orders. Row r sits at Y = -r*Layer and the
// node at position i of a row with k nodes sits at X = (i - (k-1)/2) * Node,
// which centers each row on X = 0.
//
// Labels come from the DAG when g is non-nil. Edges are computed with
// [Edges]. An empty orders map yields an empty layout.
func Place(g *dag.DAG, orders map[int][]string, spacing Spacing) Layout {
	spacing = spacing.withDefaults()
	l := Layout{Spacing: spacing}

	for _, r := range slices.Sorted(maps.Keys(orders)) {
		ids := orders[r]
		k := len(ids)
		for i, id := range ids {
			n := Node{
				ID:    id,
				Label: id,
				Row:   r,
				Index: i,
				X:     (float64(i) - float64(k-1)/2) * spacing.Node,
				Y:     float64(-r) * spacing.Layer,
			}
			if g != nil {
				if dn, ok := g.Node(id); ok {
					n.Label = dn.DisplayLabel()
				}
			}
			l.Nodes = append(l.Nodes, n)
		}
	}
	if g != nil {
		l.Edges = Edges(g, l.Nodes)
	}
	return l
}

// Edges returns one straight edge per graph edge whose endpoints are both
// placed, in the graph's edge order. Geometry is taken from the given node
// coordinates every time, so moving nodes and calling Edges again yields
// updated segments.
func Edges(g *dag.DAG, nodes []Node) []Edge {
	pos := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		pos[n.ID] = n
	}

	var edges []Edge
	for _, e := range g.Edges() {
		src, okS := pos[e.From]
		dst, okD := pos[e.To]
		if !okS || !okD {
			continue
		}
		edges = append(edges, Edge{
			From: e.From,
			To:   e.To,
			Segment: Segment{
				X1: src.X, Y1: src.Y,
				X2: dst.X, Y2: dst.Y,
			},
		})
	}
	return edges
}

// Node returns the placed node with the given ID.
func (l Layout) Node(id string) (Node, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Bounds returns the bounding box of all node centers. An empty layout
// returns all zeros.
func (l Layout) Bounds() (minX, minY, maxX, maxY float64) {
	if len(l.Nodes) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, n := range l.Nodes {
		minX, maxX = min(minX, n.X), max(maxX, n.X)
		minY, maxY = min(minY, n.Y), max(maxY, n.Y)
	}
	return minX, minY, maxX, maxY
}
