package engine

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/upgradetree/pkg/dag"
	"github.com/matzehuels/upgradetree/pkg/dag/transform"
	"github.com/matzehuels/upgradetree/pkg/layout"
	"github.com/matzehuels/upgradetree/pkg/observability"
	"github.com/matzehuels/upgradetree/pkg/ordering"
	"github.com/matzehuels/upgradetree/pkg/upgrade"
)

// Options configures an [Engine]. The zero value uses the default spacing,
// [ordering.DefaultPasses] and ordering by ID on ties.
type Options struct {
	Spacing  layout.Spacing
	Passes   int
	TieBreak ordering.TieBreak
	Logger   *log.Logger
}

// Engine builds upgrade tree layouts. An Engine holds only configuration and
// may be reused for any number of builds.
type Engine struct {
	opts   Options
	logger *log.Logger
}

// New creates an engine.
func New(opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Engine{opts: opts, logger: logger}
}

// Options returns the engine configuration.
func (e *Engine) Options() Options { return e.opts }

// Build is the result of laying out one set of definitions. Its geometry is
// fixed; visual state is derived on demand with [Build.Project].
type Build struct {
	ID       string
	Model    *Model
	Report   Report
	Orders   map[int][]string
	Layout   layout.Layout
	Degraded bool // some upgrades could not be layered because of cycles

	CrossingsBefore int // with lexicographic rows
	CrossingsAfter  int // after median sweeps
	Duration        time.Duration
}

// Build lays out defs: model and layers, crossing reduction, then placement.
// It never fails. Anomalies end up in [Build.Report] and a build with
// cyclic upgrades is marked Degraded.
func (e *Engine) Build(defs []upgrade.Def) *Build {
	start := time.Now()
	id := uuid.NewString()
	hooks := observability.Engine()
	hooks.OnBuildStart(id, len(defs))

	model, report := BuildModel(defs, e.logger)
	for _, d := range report.Diagnostics {
		hooks.OnDiagnostic(id, d.Kind.String(), d.Node)
	}
	g := model.Graph()

	orderer := ordering.Median{
		Passes:   e.opts.Passes,
		TieBreak: e.opts.TieBreak,
		Progress: func(pass, crossings int) {
			e.logger.Debugf("Ordering pass %d: %d crossings", pass, crossings)
		},
	}
	before := dag.CountCrossings(g, ordering.Lexicographic{}.OrderRows(g))
	orders := orderer.OrderRows(g)
	after := dag.CountCrossings(g, orders)

	b := &Build{
		ID:              id,
		Model:           model,
		Report:          report,
		Orders:          orders,
		Layout:          layout.Place(g, orders, e.opts.Spacing),
		Degraded:        !model.Layering().Resolved(),
		CrossingsBefore: before,
		CrossingsAfter:  after,
	}
	b.Duration = time.Since(start)

	if model.Len() == 0 {
		e.logger.Info("No upgrades to lay out")
	} else {
		e.logger.Infof("Laid out %d upgrades in %d layers (%d → %d crossings)",
			model.Len(), len(orders), before, after)
	}
	if b.Degraded {
		e.logger.Warnf("Layout degraded: %d upgrades pinned to layer 0", len(model.Layering().Unresolved))
	}

	hooks.OnBuildComplete(id, observability.BuildStats{
		Nodes:           g.NodeCount(),
		Edges:           g.EdgeCount(),
		Layers:          len(orders),
		CrossingsBefore: before,
		CrossingsAfter:  after,
		Diagnostics:     len(report.Diagnostics),
		Degraded:        b.Degraded,
	}, b.Duration)
	return b
}

// Layering returns the layer assignment of the build.
func (b *Build) Layering() transform.Layering { return b.Model.Layering() }

// Layers returns the number of layers.
func (b *Build) Layers() int { return len(b.Orders) }
