// Package pipeline provides the load → layout → render pipeline for
// upgradetree.
//
// The CLI and the HTTP server both go through a [Runner], so layouts are
// cached and rendered the same way no matter the entry point.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read upgrade definitions from a catalog file, or use the
//     built-in catalog
//  2. Layout: build the layered graph and place every upgrade
//  3. Render: generate output in various formats (SVG, DOT, PNG, JSON)
//
// Layouts are cached by the hash of the definitions and the layout options.
// Purchase state is not part of the key: a cached layout is reprojected
// against the requested state, which leaves its coordinates untouched.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Catalog:   "upgrades.toml",
//	    Purchased: []string{"U1", "U2"},
//	    Gold:      20,
//	    Formats:   []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	defs, err := pipeline.LoadDefs(opts)
//	l, err := runner.Layout(ctx, defs, opts)
//	artifacts, err := runner.Render(ctx, l, opts)
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/upgradetree/pkg/cache"
	"github.com/matzehuels/upgradetree/pkg/engine"
	"github.com/matzehuels/upgradetree/pkg/errors"
	"github.com/matzehuels/upgradetree/pkg/graph"
	"github.com/matzehuels/upgradetree/pkg/layout"
	"github.com/matzehuels/upgradetree/pkg/ordering"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"  // built-in SVG renderer
	FormatDOT  = "dot"  // Graphviz source
	FormatPNG  = "png"  // rasterized with Graphviz
	FormatJSON = "json" // serialized layout
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatDOT:  true,
	FormatPNG:  true,
	FormatJSON: true,
}

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Catalog string `json:"catalog,omitempty"` // definition file; empty uses the built-in catalog

	// Layout options
	LayerSpacing float64 `json:"layer_spacing,omitempty"`
	NodeSpacing  float64 `json:"node_spacing,omitempty"`
	Passes       int     `json:"passes,omitempty"`
	TieBreak     string  `json:"tie_break,omitempty"`
	Refresh      bool    `json:"refresh,omitempty"` // bypass the layout cache

	// State options
	Purchased []string `json:"purchased,omitempty"`
	Gold      int      `json:"gold,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"` // costs in labels
	Compact  bool     `json:"compact,omitempty"`  // hide labels in SVG output

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// DefsHash is the content hash of the upgrade definitions.
	DefsHash string

	// Layout is the projected layout.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	UpgradeCount int
	EdgeCount    int
	Layers       int
	LoadTime     time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether layout result came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid format: %q (must be one of: %s)", format, formatList())
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

func formatList() string {
	names := make([]string, 0, len(ValidFormats))
	for f := range ValidFormats {
		names = append(names, f)
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.LayerSpacing == 0 {
		o.LayerSpacing = layout.DefaultLayerSpacing
	}
	if o.NodeSpacing == 0 {
		o.NodeSpacing = layout.DefaultNodeSpacing
	}
	if o.Passes == 0 {
		o.Passes = ordering.DefaultPasses
	}
	if o.TieBreak == "" {
		o.TieBreak = ordering.TieBreakID.String()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.LayerSpacing < 0 || o.NodeSpacing < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "spacing must not be negative")
	}
	if o.Passes < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "passes must not be negative")
	}
	if _, err := ordering.ParseTieBreak(o.TieBreak); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "tie_break")
	}
	if o.Gold < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "gold must not be negative")
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// EngineOptions returns the engine configuration for these options.
// The options must have been validated.
func (o *Options) EngineOptions() engine.Options {
	tb, _ := ordering.ParseTieBreak(o.TieBreak)
	return engine.Options{
		Spacing:  layout.Spacing{Layer: o.LayerSpacing, Node: o.NodeSpacing},
		Passes:   o.Passes,
		TieBreak: tb,
		Logger:   o.Logger,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		LayerSpacing: o.LayerSpacing,
		NodeSpacing:  o.NodeSpacing,
		Passes:       o.Passes,
		TieBreak:     o.TieBreak,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Detailed: o.Detailed,
		Compact:  o.Compact,
	}
}
