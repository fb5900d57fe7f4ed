package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/upgradetree/pkg/graph"
	"github.com/matzehuels/upgradetree/pkg/render/nodelink"
	"github.com/matzehuels/upgradetree/pkg/render/svg"
)

// RenderFromLayout generates output artifacts in the requested formats.
func RenderFromLayout(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	v := l.View()
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svg.Render(v, svg.Options{ShowCost: opts.Detailed, Arrows: opts.Detailed, HideLabels: opts.Compact})
		case FormatDOT:
			data = []byte(nodelink.ToDOT(v, nodelink.Options{Detailed: opts.Detailed}))
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, nodelink.ToDOT(v, nodelink.Options{Detailed: opts.Detailed}))
		case FormatJSON:
			data, err = graph.MarshalLayout(l)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
