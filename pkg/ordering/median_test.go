package ordering

import (
	"maps"
	"slices"
	"testing"

	"github.com/matzehuels/upgradetree/pkg/dag"
	"github.com/matzehuels/upgradetree/pkg/dag/transform"
)

func layeredGraph(t *testing.T, ids []string, edges [][2]string) *dag.DAG {
	t.Helper()
	g := dag.New()
	for _, id := range ids {
		if err := g.AddNode(dag.Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%q): %v", id, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(dag.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatalf("AddEdge(%q, %q): %v", e[0], e[1], err)
		}
	}
	transform.AssignLayers(g)
	return g
}

func TestMedian_UntanglesCross(t *testing.T) {
	g := layeredGraph(t, []string{"a", "b", "x", "y"}, [][2]string{{"a", "y"}, {"b", "x"}})

	before := dag.CountCrossings(g, Lexicographic{}.OrderRows(g))
	orders := Median{}.OrderRows(g)
	after := dag.CountCrossings(g, orders)

	if before != 1 {
		t.Errorf("crossings before = %d, want 1", before)
	}
	if after != 0 {
		t.Errorf("crossings after = %d, want 0 (orders %v)", after, orders)
	}
	if want := []string{"y", "x"}; !slices.Equal(orders[1], want) {
		t.Errorf("orders[1] = %v, want %v", orders[1], want)
	}
}

func TestMedian_NeutralKey(t *testing.T) {
	// Only c has a dependent. a and b get the neutral key 0.5 (half of the
	// one-node row below), so c with key 0 moves to the front.
	g := layeredGraph(t, []string{"a", "b", "c", "x"}, [][2]string{{"c", "x"}})

	orders := Median{Passes: 1}.OrderRows(g)

	if want := []string{"c", "a", "b"}; !slices.Equal(orders[0], want) {
		t.Errorf("orders[0] = %v, want %v", orders[0], want)
	}
}

func TestMedian_IgnoresDistantRows(t *testing.T) {
	// k also requires a and b two rows up. Only n, its parent in the row
	// directly above, sets its key, so k stays behind p.
	g := layeredGraph(t,
		[]string{"a", "b", "m", "n", "p", "k"},
		[][2]string{{"a", "m"}, {"b", "n"}, {"m", "p"}, {"n", "k"}, {"a", "k"}, {"b", "k"}},
	)

	orders := Median{Passes: 1}.OrderRows(g)

	if want := []string{"p", "k"}; !slices.Equal(orders[2], want) {
		t.Errorf("orders[2] = %v, want %v", orders[2], want)
	}
	if want := []string{"a", "b"}; !slices.Equal(orders[0], want) {
		t.Errorf("orders[0] = %v, want %v", orders[0], want)
	}
}

func TestMedian_PreservesRows(t *testing.T) {
	g := layeredGraph(t,
		[]string{"A", "B", "C", "D", "E"},
		[][2]string{{"A", "B"}, {"A", "C"}, {"B", "D"}, {"C", "D"}, {"A", "E"}})

	orders := Median{}.OrderRows(g)

	for _, r := range g.RowIDs() {
		want := dag.NodeIDs(g.NodesInRow(r))
		got := slices.Sorted(slices.Values(orders[r]))
		if !slices.Equal(got, want) {
			t.Errorf("row %d holds %v, want %v", r, got, want)
		}
	}
}

func TestMedian_Deterministic(t *testing.T) {
	ids := []string{"r1", "r2", "r3", "m1", "m2", "m3", "l1", "l2"}
	edges := [][2]string{
		{"r1", "m3"}, {"r2", "m1"}, {"r3", "m2"}, {"r1", "m1"},
		{"m1", "l2"}, {"m3", "l1"}, {"m2", "l2"},
	}

	first := Median{}.OrderRows(layeredGraph(t, ids, edges))
	for range 5 {
		again := Median{}.OrderRows(layeredGraph(t, ids, edges))
		if !maps.EqualFunc(first, again, slices.Equal[[]string]) {
			t.Fatalf("OrderRows() not deterministic: %v vs %v", first, again)
		}
	}
}

func TestMedian_Passes(t *testing.T) {
	g := layeredGraph(t, []string{"a", "b", "x", "y"}, [][2]string{{"a", "y"}, {"b", "x"}})

	tests := []struct {
		passes int
		calls  int
	}{
		{0, DefaultPasses},
		{1, 1},
		{7, 7},
		{-1, 0},
	}
	for _, tt := range tests {
		calls := 0
		m := Median{Passes: tt.passes, Progress: func(pass, crossings int) {
			calls++
			if pass != calls {
				t.Errorf("Progress pass = %d, want %d", pass, calls)
			}
		}}
		orders := m.OrderRows(g)
		if calls != tt.calls {
			t.Errorf("Passes=%d: Progress called %d times, want %d", tt.passes, calls, tt.calls)
		}
		if tt.passes < 0 && !slices.Equal(orders[1], []string{"x", "y"}) {
			t.Errorf("Passes=%d: orders[1] = %v, want lexicographic", tt.passes, orders[1])
		}
	}
}

func TestMedian_SortRowTieBreak(t *testing.T) {
	tests := []struct {
		tie  TieBreak
		want []string
	}{
		{TieBreakID, []string{"a", "b", "c"}},
		{TieBreakStable, []string{"c", "a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.tie.String(), func(t *testing.T) {
			orders := map[int][]string{0: {"c", "a", "b"}, 1: {"x", "y"}}
			noNeighbors := func(string, int) []string { return nil }

			Median{TieBreak: tt.tie}.sortRow(orders, 0, 1, noNeighbors)

			if !slices.Equal(orders[0], tt.want) {
				t.Errorf("sortRow() = %v, want %v", orders[0], tt.want)
			}
		})
	}
}

func TestMedianOf(t *testing.T) {
	tests := []struct {
		positions []int
		neutral   float64
		want      float64
	}{
		{nil, 1.5, 1.5},
		{[]int{4}, 0, 4},
		{[]int{3, 0, 1}, 0, 1},
		{[]int{5, 1, 2, 0}, 0, 1.5},
		{[]int{0, 7}, 0, 3.5},
	}
	for _, tt := range tests {
		if got := medianOf(tt.positions, tt.neutral); got != tt.want {
			t.Errorf("medianOf(%v, %v) = %v, want %v", tt.positions, tt.neutral, got, tt.want)
		}
	}
}

func TestParseTieBreak(t *testing.T) {
	tests := []struct {
		in      string
		want    TieBreak
		wantErr bool
	}{
		{"", TieBreakID, false},
		{"id", TieBreakID, false},
		{"Stable", TieBreakStable, false},
		{"random", TieBreakID, true},
	}
	for _, tt := range tests {
		got, err := ParseTieBreak(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTieBreak(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseTieBreak(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
