package ordering

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/upgradetree/pkg/dag"
)

// Orderer is an interface for horizontal row ordering algorithms.
// An orderer determines the horizontal sequence of nodes in each row
// to reduce edge crossings.
type Orderer interface {
	OrderRows(g *dag.DAG) map[int][]string
}

// TieBreak selects how nodes with equal sort keys are ordered.
type TieBreak int

const (
	// TieBreakID orders tied nodes by ordinal comparison of their IDs.
	TieBreakID TieBreak = iota
	// TieBreakStable keeps tied nodes in their previous relative order.
	TieBreakStable
)

// String returns the configuration name of the tie-break rule.
func (t TieBreak) String() string {
	switch t {
	case TieBreakID:
		return "id"
	case TieBreakStable:
		return "stable"
	default:
		return fmt.Sprintf("TieBreak(%d)", int(t))
	}
}

// ParseTieBreak parses a tie-break name as used in configuration files and
// command-line flags. The empty string selects [TieBreakID].
func ParseTieBreak(s string) (TieBreak, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "id":
		return TieBreakID, nil
	case "stable":
		return TieBreakStable, nil
	default:
		return TieBreakID, fmt.Errorf("unknown tie-break %q (want id or stable)", s)
	}
}

// Lexicographic orders every row by node ID. It is the starting point of
// [Median] and a baseline for comparing crossing counts.
type Lexicographic struct{}

// OrderRows implements [Orderer].
func (Lexicographic) OrderRows(g *dag.DAG) map[int][]string {
	orders := make(map[int][]string, g.RowCount())
	for _, r := range g.RowIDs() {
		ids := dag.NodeIDs(g.NodesInRow(r))
		slices.Sort(ids)
		orders[r] = ids
	}
	return orders
}
