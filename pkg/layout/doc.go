// Package layout turns ordered rows into 2D coordinates.
//
// Rows grow downward from Y = 0 and every row is centered on X = 0:
//
//	Y = -row * Spacing.Layer
//	X = (i - (k-1)/2) * Spacing.Node   // i-th of k nodes in the row
//
// [Place] produces the nodes and, given the graph, the edge segments.
// [Edges] recomputes segments from node coordinates alone and is meant to be
// called on every refresh so that drawings never use stale geometry.
package layout
