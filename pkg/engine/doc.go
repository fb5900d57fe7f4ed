// Package engine lays out upgrade trees and keeps their visual state current.
//
// # Build
//
// [Engine.Build] turns a list of upgrade definitions into a fixed drawing:
//
//  1. [BuildModel] creates the graph, drops references to undefined upgrades,
//     and assigns layers with Kahn's algorithm
//  2. the median heuristic in package ordering reorders every layer
//  3. package layout turns the order into coordinates
//
// Building never fails. Unknown prerequisites, duplicate or invalid IDs, and
// cycles are reported as [Diagnostic] values and logged; upgrades stuck on or
// behind a cycle are drawn on layer 0 and the build is marked Degraded.
//
// # Refresh
//
// [Build.Project] combines the fixed geometry with the current purchase state
// from a state.Provider and returns a [View]. It is cheap and can run after
// every economy change.
//
// # Panel
//
// [Panel] wraps the two for interactive front ends: Show rebuilds, Refresh
// projects, and Activate forwards clicks on purchasable upgrades to a
// callback, typically the economy's Purchase method.
package engine
