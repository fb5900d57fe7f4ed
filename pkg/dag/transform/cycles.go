package transform

import (
	"slices"

	"github.com/matzehuels/upgradetree/pkg/dag"
)

// CycleMembers returns the nodes in among that lie on a directed cycle, in
// sorted order. A node that requires itself counts as a cycle of length one.
// Nodes in among that are only reachable from a cycle are not returned.
//
// among is typically [Layering.Unresolved]. Passing nil considers every node.
//
// The search is Tarjan's strongly connected components algorithm restricted
// to the given subset; every cycle lies entirely within the nodes Kahn's
// algorithm could not release, so restricting the search loses nothing.
func CycleMembers(g *dag.DAG, among []string) []string {
	if among == nil {
		among = dag.NodeIDs(g.Nodes())
	}
	inSet := make(map[string]bool, len(among))
	for _, id := range among {
		inSet[id] = true
	}

	var (
		index   = make(map[string]int, len(among))
		low     = make(map[string]int, len(among))
		onStack = make(map[string]bool, len(among))
		stack   []string
		counter int
		members []string
	)

	var visit func(id string)
	visit = func(id string) {
		index[id] = counter
		low[id] = counter
		counter++
		stack = append(stack, id)
		onStack[id] = true

		for _, child := range g.Children(id) {
			if !inSet[child] {
				continue
			}
			if _, seen := index[child]; !seen {
				visit(child)
				low[id] = min(low[id], low[child])
			} else if onStack[child] {
				low[id] = min(low[id], index[child])
			}
		}

		if low[id] != index[id] {
			return
		}
		var component []string
		for {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[top] = false
			component = append(component, top)
			if top == id {
				break
			}
		}
		if len(component) > 1 || g.HasEdge(id, id) {
			members = append(members, component...)
		}
	}

	for _, id := range slices.Sorted(slices.Values(among)) {
		if _, seen := index[id]; !seen {
			visit(id)
		}
	}
	slices.Sort(members)
	return members
}
