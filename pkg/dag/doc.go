// Package dag provides a directed acyclic graph (DAG) organized into rows,
// used to lay out upgrade trees as layered drawings.
//
// # Overview
//
// An upgrade tree is a set of upgrades where each upgrade may require others
// to be purchased first. This package stores that relation as a graph whose
// edges point from a prerequisite to the upgrade that requires it, and whose
// nodes are grouped into horizontal rows (layers). Row 0 holds upgrades with
// no prerequisites; every edge points to a strictly higher row.
//
// Unlike a proper layering, edges may skip rows. Crossing counts only look at
// edges between consecutive rows, which is what the median ordering heuristic
// optimizes.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [DAG.AddNode], and edges with
// [DAG.AddEdge]. Nodes must have unique IDs and edges can only connect
// existing nodes:
//
//	g := dag.New()
//	g.AddNode(dag.Node{ID: "U1"})
//	g.AddNode(dag.Node{ID: "U2"})
//	g.AddEdge(dag.Edge{From: "U1", To: "U2"})
//
// Rows are usually assigned afterwards by transform.AssignLayers, which calls
// [DAG.SetRows]. Use [DAG.Validate] to check that a layering is consistent.
//
// # Edge Crossings
//
// [CountCrossings] and [CountLayerCrossings] use a Fenwick tree (binary
// indexed tree) to count inversions in O(E log V) time. The engine reports
// the count before and after ordering so regressions in the heuristic show up
// in logs and tests.
//
// # Metadata
//
// Both nodes and the graph itself support arbitrary metadata via [Metadata] maps.
// Metadata maps are never nil after creation - empty maps are automatically
// initialized.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Callers must synchronize access
// if multiple goroutines read or modify the same graph.
//
// The [transform] subpackage provides layer assignment and cycle analysis.
//
// [transform]: github.com/matzehuels/upgradetree/pkg/dag/transform
package dag
