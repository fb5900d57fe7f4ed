// Package render turns projected upgrade trees into images.
//
// Both renderers draw an [engine.View], so they work on fresh builds and on
// layouts restored from the cache alike:
//
//   - [svg]: draws the computed coordinates directly, as the game panel does
//   - [nodelink]: exports Graphviz DOT with one rank per layer and renders
//     it to SVG or PNG
//
// Colors for node and edge states come from the shared [Palette].
//
//	doc := svg.Render(view, svg.Options{})
//	dot := nodelink.ToDOT(view, nodelink.Options{})
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// [svg]: github.com/matzehuels/upgradetree/pkg/render/svg
// [nodelink]: github.com/matzehuels/upgradetree/pkg/render/nodelink
package render
