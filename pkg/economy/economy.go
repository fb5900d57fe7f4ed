package economy

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/upgradetree/pkg/errors"
	"github.com/matzehuels/upgradetree/pkg/observability"
	"github.com/matzehuels/upgradetree/pkg/state"
	"github.com/matzehuels/upgradetree/pkg/upgrade"
)

// Economy holds the gold balance, the set of purchased upgrades and the
// stats derived from them.
//
// An Economy is not safe for concurrent use.
type Economy struct {
	catalog   map[string]upgrade.Def
	order     []string // catalog order, used when replaying effects
	gold      int
	purchased map[string]bool
	stats     upgrade.Stats
	logger    *log.Logger
}

// New creates an economy over the given catalog with a starting balance.
// Entries with an empty ID are ignored and duplicate entries keep their first
// definition, the same way the upgrade tree reads a catalog. logger may be nil.
func New(catalog []upgrade.Def, startingGold int, logger *log.Logger) *Economy {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	e := &Economy{
		catalog:   make(map[string]upgrade.Def, len(catalog)),
		gold:      max(startingGold, 0),
		purchased: make(map[string]bool),
		stats:     upgrade.DefaultStats(),
		logger:    logger,
	}
	for _, d := range catalog {
		if errors.ValidateUpgradeID(d.ID) != nil {
			continue
		}
		if _, dup := e.catalog[d.ID]; dup {
			continue
		}
		e.catalog[d.ID] = d
		e.order = append(e.order, d.ID)
	}
	return e
}

// IsPurchased reports whether id has been bought.
func (e *Economy) IsPurchased(id string) bool { return e.purchased[id] }

// Cost returns the price of id, or 0 for unknown upgrades.
func (e *Economy) Cost(id string) int { return e.catalog[id].Cost }

// Balance returns the current gold.
func (e *Economy) Balance() int { return e.gold }

// Stats returns the stats after applying every purchased upgrade.
func (e *Economy) Stats() upgrade.Stats { return e.stats }

// Catalog returns the upgrade definitions in catalog order.
func (e *Economy) Catalog() []upgrade.Def {
	defs := make([]upgrade.Def, 0, len(e.order))
	for _, id := range e.order {
		defs = append(defs, e.catalog[id])
	}
	return defs
}

// Purchased returns the purchased upgrade IDs, sorted.
func (e *Economy) Purchased() []string {
	ids := make([]string, 0, len(e.purchased))
	for id := range e.purchased {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// CanPurchase returns nil if id could be bought right now, or a coded error
// explaining why not.
func (e *Economy) CanPurchase(id string) error {
	d, ok := e.catalog[id]
	switch {
	case !ok:
		return errors.New(errors.ErrCodeUpgradeNotFound, "unknown upgrade %q", id)
	case e.purchased[id]:
		return errors.New(errors.ErrCodeAlreadyPurchased, "upgrade %q is already purchased", id)
	}
	for _, req := range d.Requires {
		if _, defined := e.catalog[req]; defined && !e.purchased[req] {
			return errors.New(errors.ErrCodePrerequisitesUnmet, "upgrade %q requires %q", id, req)
		}
	}
	if e.gold < d.Cost {
		return errors.New(errors.ErrCodeInsufficientFunds, "upgrade %q costs %d, balance is %d", id, d.Cost, e.gold)
	}
	return nil
}

// Purchase buys id: the cost is deducted, the effect applied and the upgrade
// marked as purchased. Prerequisites that are not part of the catalog are
// ignored, matching how the upgrade tree treats them.
func (e *Economy) Purchase(id string) error {
	if err := e.CanPurchase(id); err != nil {
		observability.Economy().OnPurchaseRejected(id, string(errors.GetCode(err)))
		e.logger.Debug("Purchase rejected", "upgrade", id, "reason", errors.UserMessage(err))
		return err
	}

	d := e.catalog[id]
	e.gold -= d.Cost
	e.purchased[id] = true
	d.Effect.Apply(&e.stats)

	e.logger.Info("Purchased upgrade", "upgrade", id, "cost", d.Cost, "balance", e.gold)
	observability.Economy().OnPurchase(id, d.Cost, e.gold)
	return nil
}

// Earn adds gold. Negative amounts are rejected.
func (e *Economy) Earn(amount int) error {
	if amount < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "cannot earn a negative amount (%d)", amount)
	}
	e.gold += amount
	return nil
}

// KillReward is the gold awarded for one defeated duck under the current
// stats.
func (e *Economy) KillReward() int { return e.stats.KillReward() }

// Reset clears purchases and stats and sets the balance.
func (e *Economy) Reset(gold int) {
	e.gold = max(gold, 0)
	e.purchased = make(map[string]bool)
	e.stats = upgrade.DefaultStats()
}

var _ state.Provider = (*Economy)(nil)
