package economy

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/upgradetree/pkg/errors"
)

// Snapshot is a saved economy. Stats are not stored; they are rebuilt from
// the purchases on restore.
type Snapshot struct {
	ID        string    `json:"id" bson:"id"`
	Slot      string    `json:"slot" bson:"slot"`
	Gold      int       `json:"gold" bson:"gold"`
	Purchased []string  `json:"purchased" bson:"purchased"`
	SavedAt   time.Time `json:"saved_at" bson:"saved_at"`
}

// Save captures the economy under the given slot name.
func (e *Economy) Save(slot string) (Snapshot, error) {
	if err := errors.ValidateSlotName(slot); err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		ID:        uuid.NewString(),
		Slot:      slot,
		Gold:      e.gold,
		Purchased: e.Purchased(),
		SavedAt:   time.Now().UTC(),
	}, nil
}

// Restore replaces the economy state with s. Effects are replayed in catalog
// order so that set effects resolve the same way as when bought in sequence.
// Upgrades no longer in the catalog are dropped with a warning.
func (e *Economy) Restore(s Snapshot) error {
	if s.Gold < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "snapshot %q has negative gold", s.Slot)
	}

	e.Reset(s.Gold)
	for _, id := range s.Purchased {
		if _, ok := e.catalog[id]; !ok {
			e.logger.Warnf("Dropping unknown upgrade %q from save %q", id, s.Slot)
			continue
		}
		e.purchased[id] = true
	}
	for _, id := range e.order {
		if e.purchased[id] {
			e.catalog[id].Effect.Apply(&e.stats)
		}
	}

	e.logger.Debug("Restored save", "slot", s.Slot, "gold", e.gold, "purchased", len(e.purchased))
	return nil
}

// Equal reports whether two snapshots hold the same game state, ignoring
// their IDs and timestamps.
func (s Snapshot) Equal(o Snapshot) bool {
	return s.Slot == o.Slot && s.Gold == o.Gold && slices.Equal(s.Purchased, o.Purchased)
}
