// Package pkg provides the core libraries for upgradetree, the layout engine
// behind a game's upgrade tree.
//
// # Overview
//
// Upgrades form a dependency graph: an upgrade can be bought once all of its
// prerequisites are owned. upgradetree assigns every upgrade to a layer,
// orders each layer to reduce edge crossings, places nodes on a canvas, and
// projects the player's purchase state onto the result. The pkg directory is
// organized into four main areas:
//
//  1. Domain - upgrade definitions, the layered graph, and the economy
//  2. Layout - layering, crossing reduction, and placement
//  3. [pipeline] - Orchestration (load → layout → render) with caching
//  4. [graph] - Serialization types for graphs and layouts
//
// # Architecture
//
// The typical data flow:
//
//	upgrade definitions (TOML/JSON or built-in)
//	         ↓
//	    [engine] package (model + diagnostics)
//	         ↓
//	    [dag/transform] package (longest-path layering)
//	         ↓
//	    [ordering] package (median crossing reduction)
//	         ↓
//	    [layout] package (coordinates)
//	         ↓
//	    [state] package (Locked/Available/Unlocked from the [economy])
//	         ↓
//	    SVG/DOT/PNG/JSON output
//
// # Quick Start
//
//	e := engine.New(engine.Options{})
//	b := e.Build(upgrade.DefaultCatalog())
//	econ := economy.New(upgrade.DefaultCatalog(), 10, nil)
//	_ = econ.Purchase("U1")
//	view := b.Project(econ)
//	svgDoc := svg.Render(view, svg.Options{})
//
// The geometry of a build never changes; after each purchase only
// [engine.Build.Project] runs again.
//
// # Main Packages
//
// [upgrade] - Upgrade definitions, effects on game stats, the built-in
// catalog, and TOML/JSON definition files.
//
// [dag] - Directed graph organized into rows, with crossing counting.
//
// [dag/transform] - Layer assignment by Kahn's algorithm. Upgrades on a
// prerequisite cycle are pinned to layer 0 and reported.
//
// [ordering] - Row orderers: lexicographic and median sweeps.
//
// [engine] - Builds layouts, collects diagnostics, and drives the upgrade
// panel.
//
// [economy] - Gold, purchases, stats, and save slots (file, Redis, MongoDB).
//
// [render] - Shared palette; [render/svg] draws the tree directly and
// [render/nodelink] goes through Graphviz.
//
// [cache] - Layout and artifact cache (file, Redis).
//
// [config] - TOML configuration.
//
// [observability] - Hooks for metrics and tracing.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -short ./pkg/...             # Skip Graphviz rendering
//	go test -run Example ./pkg/...       # Examples only
//
// Redis and MongoDB store tests run when UPGRADETREE_TEST_REDIS or
// UPGRADETREE_TEST_MONGO hold a server address.
//
// [upgrade]: https://pkg.go.dev/github.com/matzehuels/upgradetree/pkg/upgrade
// [dag]: https://pkg.go.dev/github.com/matzehuels/upgradetree/pkg/dag
// [dag/transform]: https://pkg.go.dev/github.com/matzehuels/upgradetree/pkg/dag/transform
// [ordering]: https://pkg.go.dev/github.com/matzehuels/upgradetree/pkg/ordering
// [engine]: https://pkg.go.dev/github.com/matzehuels/upgradetree/pkg/engine
// [engine.Build.Project]: https://pkg.go.dev/github.com/matzehuels/upgradetree/pkg/engine#Build.Project
// [economy]: https://pkg.go.dev/github.com/matzehuels/upgradetree/pkg/economy
// [render]: https://pkg.go.dev/github.com/matzehuels/upgradetree/pkg/render
// [render/svg]: https://pkg.go.dev/github.com/matzehuels/upgradetree/pkg/render/svg
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/upgradetree/pkg/render/nodelink
// [cache]: https://pkg.go.dev/github.com/matzehuels/upgradetree/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/upgradetree/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/upgradetree/pkg/observability
// [graph]: https://pkg.go.dev/github.com/matzehuels/upgradetree/pkg/graph
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/upgradetree/pkg/pipeline
//
// [layout]: https://pkg.go.dev/github.com/matzehuels/upgradetree/pkg/layout
// [state]: https://pkg.go.dev/github.com/matzehuels/upgradetree/pkg/state
package pkg
