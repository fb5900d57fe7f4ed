package dag

import (
	"errors"
	"slices"
	"testing"
)

func TestAddNode_Errors(t *testing.T) {
	g := New()
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) = %v, want %v", err, ErrInvalidNodeID)
	}
	if err := g.AddNode(Node{ID: "a"}); err != nil {
		t.Fatalf("AddNode(a) = %v", err)
	}
	if err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(a) twice = %v, want %v", err, ErrDuplicateNodeID)
	}
	n, _ := g.Node("a")
	if n.Meta == nil {
		t.Error("Node.Meta = nil, want initialized map")
	}
}

func TestAddEdge_Errors(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})

	if err := g.AddEdge(Edge{From: "x", To: "a"}); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("AddEdge(x→a) = %v, want %v", err, ErrUnknownSourceNode)
	}
	if err := g.AddEdge(Edge{From: "a", To: "x"}); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("AddEdge(a→x) = %v, want %v", err, ErrUnknownTargetNode)
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", g.EdgeCount())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		rows  map[string]int
		edges [][2]string
		want  error
	}{
		{"adjacent rows", map[string]int{"a": 0, "b": 1}, [][2]string{{"a", "b"}}, nil},
		{"spanning edge", map[string]int{"a": 0, "b": 3}, [][2]string{{"a", "b"}}, nil},
		{"same row", map[string]int{"a": 0, "b": 0}, [][2]string{{"a", "b"}}, ErrRowOrder},
		{"upward edge", map[string]int{"a": 2, "b": 1}, [][2]string{{"a", "b"}}, ErrRowOrder},
		{"cycle", map[string]int{"a": 0, "b": 0}, [][2]string{{"a", "b"}, {"b", "a"}}, ErrRowOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New()
			for id, row := range tt.rows {
				_ = g.AddNode(Node{ID: id, Row: row})
			}
			for _, e := range tt.edges {
				_ = g.AddEdge(Edge{From: e[0], To: e[1]})
			}
			if err := g.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDetectCycles(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a"})
	_ = g.AddNode(Node{ID: "b"})
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	_ = g.AddEdge(Edge{From: "b", To: "a"})

	if err := g.detectCycles(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("detectCycles() = %v, want %v", err, ErrGraphHasCycle)
	}
}

func TestSetRows(t *testing.T) {
	g := New()
	for _, id := range []string{"c", "a", "b"} {
		_ = g.AddNode(Node{ID: id})
	}

	g.SetRows(map[string]int{"a": 0, "b": 1, "c": 1})

	if got := NodeIDs(g.NodesInRow(1)); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("NodesInRow(1) = %v, want [b c]", got)
	}
	if got := g.RowIDs(); !slices.Equal(got, []int{0, 1}) {
		t.Errorf("RowIDs() = %v, want [0 1]", got)
	}
}

func TestRowQueries(t *testing.T) {
	g := New()
	_ = g.AddNode(Node{ID: "a", Row: 0})
	_ = g.AddNode(Node{ID: "b", Row: 1})
	_ = g.AddNode(Node{ID: "c", Row: 2})
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	_ = g.AddEdge(Edge{From: "a", To: "c"})
	_ = g.AddEdge(Edge{From: "b", To: "c"})

	if got := g.ChildrenInRow("a", 1); !slices.Equal(got, []string{"b"}) {
		t.Errorf("ChildrenInRow(a, 1) = %v, want [b]", got)
	}
	if got := g.ParentsInRow("c", 1); !slices.Equal(got, []string{"b"}) {
		t.Errorf("ParentsInRow(c, 1) = %v, want [b]", got)
	}
	if !g.HasEdge("a", "c") || g.HasEdge("c", "a") {
		t.Error("HasEdge() direction mismatch")
	}
	if g.InDegree("c") != 2 || g.InDegree("a") != 0 {
		t.Errorf("InDegree(c) = %d, InDegree(a) = %d, want 2, 0", g.InDegree("c"), g.InDegree("a"))
	}
}

func TestCountLayerCrossings(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c", "x", "y", "z"} {
		_ = g.AddNode(Node{ID: id})
	}
	// Complete reversal: a→z, b→y, c→x gives 3 crossings.
	_ = g.AddEdge(Edge{From: "a", To: "z"})
	_ = g.AddEdge(Edge{From: "b", To: "y"})
	_ = g.AddEdge(Edge{From: "c", To: "x"})

	tests := []struct {
		lower []string
		want  int
	}{
		{[]string{"x", "y", "z"}, 3},
		{[]string{"z", "y", "x"}, 0},
		{[]string{"y", "z", "x"}, 1},
		{nil, 0},
	}
	for _, tt := range tests {
		if got := CountLayerCrossings(g, []string{"a", "b", "c"}, tt.lower); got != tt.want {
			t.Errorf("CountLayerCrossings(%v) = %d, want %d", tt.lower, got, tt.want)
		}
	}
}
