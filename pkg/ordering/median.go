package ordering

import (
	"cmp"
	"slices"

	"github.com/matzehuels/upgradetree/pkg/dag"
)

// DefaultPasses is the number of forward/backward sweep pairs run by
// [Median] when Passes is zero.
const DefaultPasses = 4

// Median reduces crossings with the median heuristic.
//
// Rows start in lexicographic order. Each pass runs a forward sweep from row 1
// down to the last row, sorting every row by the median position of each
// node's prerequisites in the row immediately above, followed by a backward
// sweep from the second-to-last row up to row 0 that sorts by the median
// position of dependents in the row immediately below. Neighbors in other
// rows are ignored. A node without qualifying neighbors gets half the size of
// the adjacent row as its key, which parks it near the middle.
//
// The result is deterministic for a given graph and configuration.
type Median struct {
	// Passes is the number of sweep pairs. Zero means [DefaultPasses];
	// a negative value disables refinement and returns the initial order.
	Passes int

	// TieBreak orders nodes whose median keys are equal.
	TieBreak TieBreak

	// Progress, if set, is called after each pass with the 1-based pass
	// number and the adjacent-row crossing count of the current order.
	Progress func(pass, crossings int)
}

// OrderRows implements [Orderer].
func (m Median) OrderRows(g *dag.DAG) map[int][]string {
	orders := Lexicographic{}.OrderRows(g)
	rows := g.RowIDs()
	if len(rows) < 2 {
		return orders
	}

	passes := m.Passes
	if passes == 0 {
		passes = DefaultPasses
	}
	for pass := 1; pass <= passes; pass++ {
		for _, r := range rows[1:] {
			m.sortRow(orders, r, r-1, g.ParentsInRow)
		}
		for i := len(rows) - 2; i >= 0; i-- {
			r := rows[i]
			m.sortRow(orders, r, r+1, g.ChildrenInRow)
		}
		if m.Progress != nil {
			m.Progress(pass, dag.CountCrossings(g, orders))
		}
	}
	return orders
}

// sortRow reorders orders[row] by the median position of each node's
// neighbors in refRow, as returned by inRow.
func (m Median) sortRow(orders map[int][]string, row, refRow int, inRow func(id string, row int) []string) {
	ids := orders[row]
	refPos := dag.PosMap(orders[refRow])
	neutral := float64(len(orders[refRow])) * 0.5

	keys := make(map[string]float64, len(ids))
	prev := dag.PosMap(ids)
	for _, id := range ids {
		neighbors := inRow(id, refRow)
		positions := make([]int, 0, len(neighbors))
		for _, nb := range neighbors {
			positions = append(positions, refPos[nb])
		}
		keys[id] = medianOf(positions, neutral)
	}

	slices.SortStableFunc(ids, func(a, b string) int {
		if c := cmp.Compare(keys[a], keys[b]); c != 0 {
			return c
		}
		if m.TieBreak == TieBreakStable {
			return cmp.Compare(prev[a], prev[b])
		}
		return cmp.Compare(a, b)
	})
}

// medianOf returns the median of positions, averaging the two middle values
// for an even count, or neutral when positions is empty.
func medianOf(positions []int, neutral float64) float64 {
	if len(positions) == 0 {
		return neutral
	}
	slices.Sort(positions)
	mid := len(positions) / 2
	if len(positions)%2 == 1 {
		return float64(positions[mid])
	}
	return float64(positions[mid-1]+positions[mid]) * 0.5
}
