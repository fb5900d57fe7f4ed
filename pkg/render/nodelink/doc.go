// Package nodelink renders upgrade trees as Graphviz node-link diagrams.
//
// # Usage
//
// Convert a view to DOT, then render it:
//
//	dot := nodelink.ToDOT(view, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// # DOT Format
//
// The generated DOT draws edges from prerequisite to dependent with
// rankdir=BT, so roots sit at the bottom like in the game panel. Every layer
// becomes a rank=same group whose members are chained by invisible edges in
// the order computed by crossing reduction; Graphviz therefore keeps the
// engine's ordering instead of choosing its own.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process rendering.
package nodelink
