// Package graph provides serialization types for upgrade graphs and layouts.
//
// This package defines the wire format used for JSON files, API responses
// and the layout cache. It sits at the boundary between the engine's
// in-memory types and external consumers:
//
//   - [Graph]: node-link form of an upgrade graph (structure only)
//   - [Layout]: a projected view with coordinates, states and diagnostics
//
// # Graph Serialization
//
//	{
//	  "nodes": [{"id": "U1", "label": "+Session Time"}, {"id": "U3", "row": 1}],
//	  "edges": [{"from": "U1", "to": "U3"}]
//	}
//
// Common operations:
//
//	data, _ := graph.MarshalGraph(model.Graph())
//	graph.WriteGraph(model.Graph(), os.Stdout)
//
// # Layout Serialization
//
// A [Layout] is built from an [engine.View] with [FromView] and turned back
// into one with [Layout.View], so cached layouts can be rendered without
// rebuilding:
//
//	l := graph.FromView(build.Project(econ))
//	data, _ := graph.MarshalLayout(l)
//	restored, _ := graph.UnmarshalLayout(data)
//	svg.Render(restored.View())
package graph
