package engine

import (
	"github.com/matzehuels/upgradetree/pkg/errors"
	"github.com/matzehuels/upgradetree/pkg/state"
	"github.com/matzehuels/upgradetree/pkg/upgrade"
)

// Panel drives an interactive upgrade tree. Show rebuilds the graph, Refresh
// re-derives state after the economy changed, and Activate handles a click
// on a node.
//
// A Panel is not safe for concurrent use.
type Panel struct {
	engine   *Engine
	provider state.Provider
	build    *Build

	// OnActivate is invoked with the ID of an activated upgrade that is
	// available and affordable. Its error is returned from Activate.
	OnActivate func(id string) error
}

// NewPanel creates a hidden panel reading purchase state from p.
func NewPanel(e *Engine, p state.Provider, onActivate func(id string) error) *Panel {
	return &Panel{engine: e, provider: p, OnActivate: onActivate}
}

// Show builds the graph from defs, discarding any previous build, and
// returns the new build.
func (p *Panel) Show(defs []upgrade.Def) *Build {
	p.build = p.engine.Build(defs)
	return p.build
}

// Hide discards the current build.
func (p *Panel) Hide() { p.build = nil }

// Visible reports whether the panel holds a build.
func (p *Panel) Visible() bool { return p.build != nil }

// Build returns the current build, or nil when hidden.
func (p *Panel) Build() *Build { return p.build }

// Refresh returns the current view. A hidden panel returns an empty view.
func (p *Panel) Refresh() View {
	if p.build == nil {
		return View{Balance: p.provider.Balance()}
	}
	return p.build.Project(p.provider)
}

// Activate handles a click on the upgrade id. The callback only runs when the
// upgrade is available and affordable; otherwise a coded error explains why
// the click was ignored.
func (p *Panel) Activate(id string) error {
	if p.build == nil {
		return errors.New(errors.ErrCodeInvalidInput, "upgrade panel is not shown")
	}
	if _, ok := p.build.Model.Def(id); !ok {
		return errors.New(errors.ErrCodeUpgradeNotFound, "unknown upgrade %q", id)
	}

	snap := state.Project(p.build.Model.Graph(), p.provider)
	node := snap.Nodes[id]
	switch {
	case node.State == state.Unlocked:
		return errors.New(errors.ErrCodeAlreadyPurchased, "upgrade %q is already purchased", id)
	case node.State == state.Locked:
		return errors.New(errors.ErrCodePrerequisitesUnmet, "upgrade %q is locked", id)
	case !node.Purchasable:
		return errors.New(errors.ErrCodeInsufficientFunds, "upgrade %q costs %d, balance is %d", id, node.Cost, snap.Balance)
	}

	if p.OnActivate == nil {
		return nil
	}
	return p.OnActivate(id)
}
