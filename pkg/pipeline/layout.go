package pipeline

import (
	"github.com/matzehuels/upgradetree/pkg/engine"
	"github.com/matzehuels/upgradetree/pkg/graph"
	"github.com/matzehuels/upgradetree/pkg/upgrade"
)

// GenerateLayout builds defs and projects the purchase state of opts onto
// the result. It does not touch any cache.
func GenerateLayout(defs []upgrade.Def, opts Options) (graph.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, err
	}
	econ, err := Economy(defs, opts)
	if err != nil {
		return graph.Layout{}, err
	}
	b := engine.New(opts.EngineOptions()).Build(defs)
	return graph.FromView(b.Project(econ)), nil
}
