// Package transform provides graph transformations that prepare an upgrade
// DAG for layered drawing.
//
// # Layer Assignment
//
// [AssignLayers] computes the row (layer) for each node from its
// prerequisites using Kahn's algorithm. A node without prerequisites sits on
// row 0; any other node sits one row below its deepest prerequisite. Nodes
// that can never be released because of a cycle are reported as unresolved
// and pinned to row 0.
//
// # Cycle Analysis
//
// [CycleMembers] tells the nodes that actually sit on a cycle apart from
// nodes that merely depend on one, so diagnostics can name the culprits.
//
// # Usage
//
//	layering := transform.AssignLayers(g) // Modifies rows of g in place
//	if !layering.Resolved() {
//	    onCycle := transform.CycleMembers(g, layering.Unresolved)
//	    ...
//	}
package transform
