package transform

import (
	"maps"
	"slices"
	"testing"
)

func TestAssignLayers_Diamond(t *testing.T) {
	g := buildGraph(t, []string{"A", "B", "C", "D"},
		[][2]string{{"A", "B"}, {"A", "C"}, {"B", "D"}, {"C", "D"}})

	l := AssignLayers(g)

	want := map[string]int{"A": 0, "B": 1, "C": 1, "D": 2}
	if !maps.Equal(l.Rows, want) {
		t.Errorf("Rows = %v, want %v", l.Rows, want)
	}
	if !l.Resolved() {
		t.Errorf("Resolved() = false, unresolved %v", l.Unresolved)
	}
	if l.Layers() != 3 {
		t.Errorf("Layers() = %d, want 3", l.Layers())
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() after AssignLayers: %v", err)
	}
}

func TestAssignLayers_LongestPath(t *testing.T) {
	// d requires a directly and through b → c, so it lands below c.
	g := buildGraph(t, []string{"a", "b", "c", "d"},
		[][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"a", "d"}})

	l := AssignLayers(g)

	if l.Rows["d"] != 3 {
		t.Errorf("Rows[d] = %d, want 3", l.Rows["d"])
	}
	for _, e := range g.Edges() {
		if l.Rows[e.To] <= l.Rows[e.From] {
			t.Errorf("edge %s→%s: row %d not below %d", e.From, e.To, l.Rows[e.To], l.Rows[e.From])
		}
	}
}

func TestAssignLayers_Cycle(t *testing.T) {
	g := buildGraph(t, []string{"P", "Q", "R", "S"},
		[][2]string{{"P", "Q"}, {"Q", "P"}, {"Q", "S"}})

	l := AssignLayers(g)

	if want := []string{"P", "Q", "S"}; !slices.Equal(l.Unresolved, want) {
		t.Errorf("Unresolved = %v, want %v", l.Unresolved, want)
	}
	for _, id := range []string{"P", "Q", "R", "S"} {
		if l.Rows[id] != 0 {
			t.Errorf("Rows[%s] = %d, want 0", id, l.Rows[id])
		}
		n, _ := g.Node(id)
		if n.Row != 0 {
			t.Errorf("node %s Row = %d, want 0", id, n.Row)
		}
	}
	if len(g.NodesInRow(0)) != 4 {
		t.Errorf("NodesInRow(0) = %d nodes, want 4", len(g.NodesInRow(0)))
	}
}

func TestAssignLayers_Empty(t *testing.T) {
	g := buildGraph(t, nil, nil)

	l := AssignLayers(g)

	if len(l.Rows) != 0 || l.Layers() != 0 || !l.Resolved() {
		t.Errorf("AssignLayers(empty) = %+v, want empty resolved layering", l)
	}
}

func TestAssignLayers_Deterministic(t *testing.T) {
	ids := []string{"e", "d", "c", "b", "a"}
	edges := [][2]string{{"a", "c"}, {"b", "c"}, {"c", "d"}, {"b", "e"}}

	first := AssignLayers(buildGraph(t, ids, edges))
	for range 5 {
		again := AssignLayers(buildGraph(t, ids, edges))
		if !maps.Equal(first.Rows, again.Rows) {
			t.Fatalf("Rows differ between runs: %v vs %v", first.Rows, again.Rows)
		}
	}
}
