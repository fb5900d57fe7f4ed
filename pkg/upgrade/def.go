// Package upgrade defines upgrades, their effects and the built-in catalog.
//
// A [Def] is plain data: an identifier, a display name, a cost, the upgrades
// it requires and an [Effect]. Definitions can be loaded from TOML or JSON
// files and written back, so catalogs can be edited without recompiling.
package upgrade

import "slices"

// Def defines one purchasable upgrade.
type Def struct {
	ID          string   `toml:"id" json:"id"`
	Name        string   `toml:"name,omitempty" json:"name,omitempty"`
	Description string   `toml:"description,omitempty" json:"description,omitempty"`
	Cost        int      `toml:"cost" json:"cost"`
	Requires    []string `toml:"requires,omitempty" json:"requires,omitempty"`
	Effect      Effect   `toml:"effect,omitempty" json:"effect,omitzero"`
}

// DisplayName returns the name if set, otherwise the ID.
func (d Def) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

// Clone returns a deep copy of defs.
func Clone(defs []Def) []Def {
	out := make([]Def, len(defs))
	for i, d := range defs {
		d.Requires = slices.Clone(d.Requires)
		out[i] = d
	}
	return out
}

// Index returns the definitions keyed by ID. When an ID repeats, the first
// definition wins.
func Index(defs []Def) map[string]Def {
	m := make(map[string]Def, len(defs))
	for _, d := range defs {
		if _, dup := m[d.ID]; !dup {
			m[d.ID] = d
		}
	}
	return m
}
