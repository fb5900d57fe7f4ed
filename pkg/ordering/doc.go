// Package ordering provides algorithms for determining the left-to-right
// arrangement of nodes within each row of a layered upgrade graph.
//
// # The Ordering Problem
//
// Once every upgrade has a layer, the drawing is fixed vertically but each
// row can still be permuted. Edges between consecutive rows cross whenever
// their endpoints appear in opposite orders. Finding the ordering with the
// fewest crossings is NP-hard, so this package offers a heuristic.
//
//   - [Lexicographic]: IDs sorted ordinally, the deterministic starting point
//   - [Median]: iterative median heuristic with alternating sweeps
//
// # Median Heuristic
//
// [Median] positions each node at the median position of its neighbors in the
// adjacent row. The median resists being dragged by a single outlying edge,
// producing tighter bundles than the mean. The number of passes and the rule
// for ties are configurable:
//
//	orderer := ordering.Median{Passes: 4, TieBreak: ordering.TieBreakID}
//	orders := orderer.OrderRows(g) // map[row][]nodeID
//
// Use dag.CountCrossings to measure the result.
package ordering
