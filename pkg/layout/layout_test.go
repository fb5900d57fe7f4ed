package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/upgradetree/pkg/dag"
)

func diamond(t *testing.T) *dag.DAG {
	t.Helper()
	g := dag.New()
	rows := map[string]int{"A": 0, "B": 1, "C": 1, "D": 2}
	for _, id := range []string{"A", "B", "C", "D"} {
		if err := g.AddNode(dag.Node{ID: id, Label: "upgrade " + id, Row: rows[id]}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range [][2]string{{"A", "B"}, {"A", "C"}, {"B", "D"}, {"C", "D"}} {
		if err := g.AddEdge(dag.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func TestPlace_Coordinates(t *testing.T) {
	g := diamond(t)
	orders := map[int][]string{0: {"A"}, 1: {"B", "C"}, 2: {"D"}}

	l := Place(g, orders, Spacing{Layer: 64, Node: 52})

	want := map[string][2]float64{
		"A": {0, 0},
		"B": {-26, -64},
		"C": {26, -64},
		"D": {0, -128},
	}
	if len(l.Nodes) != len(want) {
		t.Fatalf("len(Nodes) = %d, want %d", len(l.Nodes), len(want))
	}
	for id, xy := range want {
		n, ok := l.Node(id)
		if !ok {
			t.Errorf("node %s not placed", id)
			continue
		}
		if n.X != xy[0] || n.Y != xy[1] {
			t.Errorf("node %s at (%v, %v), want (%v, %v)", id, n.X, n.Y, xy[0], xy[1])
		}
	}
	if n, _ := l.Node("B"); n.Label != "upgrade B" || n.Index != 0 || n.Row != 1 {
		t.Errorf("node B = %+v, want label, index 0, row 1", n)
	}
}

func TestPlace_CentersOddRow(t *testing.T) {
	l := Place(nil, map[int][]string{0: {"a", "b", "c"}}, Spacing{Layer: 10, Node: 10})

	xs := []float64{-10, 0, 10}
	for i, n := range l.Nodes {
		if n.X != xs[i] {
			t.Errorf("Nodes[%d].X = %v, want %v", i, n.X, xs[i])
		}
	}
	if len(l.Edges) != 0 {
		t.Errorf("Edges without a graph = %v, want none", l.Edges)
	}
}

func TestPlace_DefaultSpacing(t *testing.T) {
	l := Place(nil, map[int][]string{0: {"a"}, 1: {"b", "c"}}, Spacing{})

	if l.Spacing != DefaultSpacing() {
		t.Errorf("Spacing = %+v, want %+v", l.Spacing, DefaultSpacing())
	}
	if n, _ := l.Node("b"); n.Y != -DefaultLayerSpacing || n.X != -DefaultNodeSpacing/2 {
		t.Errorf("node b at (%v, %v)", n.X, n.Y)
	}
}

func TestPlace_Empty(t *testing.T) {
	l := Place(dag.New(), nil, DefaultSpacing())

	if len(l.Nodes) != 0 || len(l.Edges) != 0 {
		t.Errorf("Place(empty) = %+v, want empty layout", l)
	}
	if a, b, c, d := l.Bounds(); a != 0 || b != 0 || c != 0 || d != 0 {
		t.Errorf("Bounds() = %v %v %v %v, want zeros", a, b, c, d)
	}
}

func TestEdges_FollowNodes(t *testing.T) {
	g := diamond(t)
	l := Place(g, map[int][]string{0: {"A"}, 1: {"B", "C"}, 2: {"D"}}, DefaultSpacing())

	if len(l.Edges) != 4 {
		t.Fatalf("len(Edges) = %d, want 4", len(l.Edges))
	}
	first := l.Edges[0]
	if first.From != "A" || first.To != "B" {
		t.Errorf("Edges[0] = %s→%s, want A→B", first.From, first.To)
	}

	l.Nodes[0].X = 100
	moved := Edges(g, l.Nodes)
	if moved[0].Segment.X1 != 100 {
		t.Errorf("Segment.X1 after move = %v, want 100", moved[0].Segment.X1)
	}
}

func TestEdges_SkipsUnplaced(t *testing.T) {
	g := diamond(t)
	nodes := []Node{{ID: "A"}, {ID: "B", Y: -64}}

	edges := Edges(g, nodes)

	if len(edges) != 1 || edges[0].To != "B" {
		t.Errorf("Edges() = %v, want only A→B", edges)
	}
}

func TestSegment(t *testing.T) {
	tests := []struct {
		name   string
		seg    Segment
		length float64
		angle  float64
	}{
		{"down", Segment{0, 0, 0, -64}, 64, -90},
		{"right", Segment{0, 0, 3, 0}, 3, 0},
		{"diagonal", Segment{0, 0, 3, 4}, 5, math.Atan2(4, 3) * 180 / math.Pi},
		{"degenerate", Segment{2, 2, 2, 2}, 1, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.seg.Length(); got != tt.length {
				t.Errorf("Length() = %v, want %v", got, tt.length)
			}
			if got := tt.seg.Angle(); math.Abs(got-tt.angle) > 1e-9 {
				t.Errorf("Angle() = %v, want %v", got, tt.angle)
			}
		})
	}
}
