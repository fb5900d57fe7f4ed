package transform

import (
	"slices"

	"github.com/matzehuels/upgradetree/pkg/dag"
)

// Layering is the result of [AssignLayers].
type Layering struct {
	// Rows maps every node ID to its layer. Unresolved nodes map to 0.
	Rows map[string]int

	// Unresolved lists, in sorted order, the nodes whose in-degree never
	// reached zero. They lie on a cycle or depend on one.
	Unresolved []string
}

// Resolved reports whether every node received a proper layer.
func (l Layering) Resolved() bool { return len(l.Unresolved) == 0 }

// Layers returns the number of layers, counting from row 0 to the highest
// assigned row. An empty layering has zero layers.
func (l Layering) Layers() int {
	if len(l.Rows) == 0 {
		return 0
	}
	maxRow := 0
	for _, r := range l.Rows {
		maxRow = max(maxRow, r)
	}
	return maxRow + 1
}

// AssignLayers assigns nodes to horizontal rows (layers) based on their
// prerequisites and applies the result with [dag.DAG.SetRows].
//
// AssignLayers runs Kahn's algorithm. The queue is seeded with zero in-degree
// nodes in ID order. When a node is dequeued its layer becomes one plus the
// maximum layer of its prerequisites, or 0 if it has none, which ensures that:
//   - Nodes without prerequisites are at row 0
//   - Every prerequisite lies strictly above the nodes that require it
//   - Each node is pushed as deep as its longest prerequisite chain
//
// Existing row assignments in the DAG are overwritten.
//
// # Cycles
//
// Nodes on a cycle, and nodes depending on one, never reach zero in-degree.
// They are listed in [Layering.Unresolved] and pinned to row 0 so that callers
// can still draw them. Such a layering does not satisfy [dag.DAG.Validate].
//
// # Performance
//
// Time complexity is O(V + E), where V is nodes and E is edges.
func AssignLayers(g *dag.DAG) Layering {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	rows := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		inDegree[n.ID] = g.InDegree(n.ID)
	}
	for _, n := range g.Sources() {
		queue = append(queue, n.ID)
	}

	released := make(map[string]bool, len(nodes))
	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]
		released[curr] = true

		row := 0
		for _, p := range g.Parents(curr) {
			row = max(row, rows[p]+1)
		}
		rows[curr] = row

		for _, child := range g.Children(curr) {
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	var unresolved []string
	for _, n := range nodes {
		if !released[n.ID] {
			rows[n.ID] = 0
			unresolved = append(unresolved, n.ID)
		}
	}
	slices.Sort(unresolved)

	g.SetRows(rows)
	return Layering{Rows: rows, Unresolved: unresolved}
}
