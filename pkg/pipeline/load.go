package pipeline

import (
	"github.com/matzehuels/upgradetree/pkg/cache"
	"github.com/matzehuels/upgradetree/pkg/economy"
	"github.com/matzehuels/upgradetree/pkg/upgrade"
)

// LoadDefs returns the upgrade definitions named by opts.Catalog, or the
// built-in catalog when it is empty.
func LoadDefs(opts Options) ([]upgrade.Def, error) {
	if opts.Catalog == "" {
		return upgrade.DefaultCatalog(), nil
	}
	return upgrade.LoadFile(opts.Catalog)
}

// HashDefs returns the content hash used to key layouts of defs.
func HashDefs(defs []upgrade.Def) (string, error) {
	data, err := upgrade.Marshal(defs, upgrade.FormatJSON)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

// Economy returns an economy over defs holding the purchases and gold of
// opts. Purchases of upgrades missing from defs are dropped.
func Economy(defs []upgrade.Def, opts Options) (*economy.Economy, error) {
	e := economy.New(defs, 0, opts.Logger)
	if err := e.Restore(economy.Snapshot{Gold: opts.Gold, Purchased: opts.Purchased}); err != nil {
		return nil, err
	}
	return e, nil
}
