package upgrade

import (
	"fmt"
	"math"
	"slices"
)

// Stat names a runtime statistic that upgrades modify.
type Stat string

const (
	StatSessionDuration Stat = "session_duration" // seconds per session
	StatBreakerRadius   Stat = "breaker_radius"
	StatBreakerDamage   Stat = "breaker_damage"
	StatBreakerSpeed    Stat = "breaker_speed" // multiplier
	StatCritChance      Stat = "crit_chance"   // 0..1
	StatCritBonus       Stat = "crit_bonus"    // extra damage fraction on crits
	StatDucksPerDeath   Stat = "ducks_per_death"
	StatMaxDucks        Stat = "max_ducks"
	StatDuckSize        Stat = "duck_size"       // multiplier
	StatGoldMultiplier  Stat = "gold_multiplier" // multiplier on kill rewards
)

// allStats lists every known stat in display order.
var allStats = []Stat{
	StatSessionDuration, StatBreakerRadius, StatBreakerDamage, StatBreakerSpeed,
	StatCritChance, StatCritBonus, StatDucksPerDeath, StatMaxDucks,
	StatDuckSize, StatGoldMultiplier,
}

// AllStats returns every known stat in display order.
func AllStats() []Stat { return slices.Clone(allStats) }

// Valid reports whether s is a known stat.
func (s Stat) Valid() bool { return slices.Contains(allStats, s) }

// Kind is the operation an [Effect] performs on its stat.
type Kind string

const (
	KindAdd      Kind = "add"
	KindMultiply Kind = "multiply"
	KindSet      Kind = "set"
)

// Valid reports whether k is a known effect kind.
func (k Kind) Valid() bool {
	return k == KindAdd || k == KindMultiply || k == KindSet
}

// Effect describes what purchasing an upgrade does. Effects are plain data
// so catalogs can be stored in files; [Effect.Apply] is the only place they
// are interpreted.
type Effect struct {
	Kind  Kind    `toml:"kind" json:"kind"`
	Stat  Stat    `toml:"stat" json:"stat"`
	Value float64 `toml:"value" json:"value"`
}

// IsZero reports whether the effect is empty. Upgrades without an effect are
// allowed and only gate their dependents.
func (e Effect) IsZero() bool { return e == Effect{} }

// Validate checks the kind and stat.
func (e Effect) Validate() error {
	if e.IsZero() {
		return nil
	}
	if !e.Kind.Valid() {
		return fmt.Errorf("unknown effect kind %q", e.Kind)
	}
	if !e.Stat.Valid() {
		return fmt.Errorf("unknown stat %q", e.Stat)
	}
	return nil
}

// Apply modifies s according to the effect. Invalid effects are ignored.
func (e Effect) Apply(s *Stats) {
	if e.Validate() != nil || e.IsZero() {
		return
	}
	cur := s.Get(e.Stat)
	switch e.Kind {
	case KindAdd:
		s.Set(e.Stat, cur+e.Value)
	case KindMultiply:
		s.Set(e.Stat, cur*e.Value)
	case KindSet:
		s.Set(e.Stat, e.Value)
	}
}

// String renders the effect compactly, e.g. "breaker_radius ×1.15".
func (e Effect) String() string {
	switch e.Kind {
	case KindAdd:
		return fmt.Sprintf("%s %+g", e.Stat, e.Value)
	case KindMultiply:
		return fmt.Sprintf("%s ×%g", e.Stat, e.Value)
	case KindSet:
		return fmt.Sprintf("%s = %g", e.Stat, e.Value)
	default:
		return ""
	}
}

// Add returns an effect adding v to stat.
func Add(stat Stat, v float64) Effect { return Effect{Kind: KindAdd, Stat: stat, Value: v} }

// Multiply returns an effect multiplying stat by v.
func Multiply(stat Stat, v float64) Effect { return Effect{Kind: KindMultiply, Stat: stat, Value: v} }

// Set returns an effect replacing stat with v.
func Set(stat Stat, v float64) Effect { return Effect{Kind: KindSet, Stat: stat, Value: v} }

// Stats holds the game statistics that upgrades modify.
type Stats struct {
	SessionDuration float64 `json:"session_duration"`
	BreakerRadius   float64 `json:"breaker_radius"`
	BreakerDamage   float64 `json:"breaker_damage"`
	BreakerSpeed    float64 `json:"breaker_speed"`
	CritChance      float64 `json:"crit_chance"`
	CritBonus       float64 `json:"crit_bonus"`
	DucksPerDeath   int     `json:"ducks_per_death"`
	MaxDucks        int     `json:"max_ducks"`
	DuckSize        float64 `json:"duck_size"`
	GoldMultiplier  float64 `json:"gold_multiplier"`
}

// DefaultStats returns the statistics of a fresh game.
func DefaultStats() Stats {
	return Stats{
		SessionDuration: 10,
		BreakerRadius:   1.4,
		BreakerDamage:   1,
		BreakerSpeed:    1,
		CritChance:      0,
		CritBonus:       0,
		DucksPerDeath:   1,
		MaxDucks:        20,
		DuckSize:        1,
		GoldMultiplier:  1,
	}
}

// Get returns the value of stat, or 0 for unknown stats.
func (s *Stats) Get(stat Stat) float64 {
	switch stat {
	case StatSessionDuration:
		return s.SessionDuration
	case StatBreakerRadius:
		return s.BreakerRadius
	case StatBreakerDamage:
		return s.BreakerDamage
	case StatBreakerSpeed:
		return s.BreakerSpeed
	case StatCritChance:
		return s.CritChance
	case StatCritBonus:
		return s.CritBonus
	case StatDucksPerDeath:
		return float64(s.DucksPerDeath)
	case StatMaxDucks:
		return float64(s.MaxDucks)
	case StatDuckSize:
		return s.DuckSize
	case StatGoldMultiplier:
		return s.GoldMultiplier
	default:
		return 0
	}
}

// Set stores v into stat. Integer stats are rounded.
func (s *Stats) Set(stat Stat, v float64) {
	switch stat {
	case StatSessionDuration:
		s.SessionDuration = v
	case StatBreakerRadius:
		s.BreakerRadius = v
	case StatBreakerDamage:
		s.BreakerDamage = v
	case StatBreakerSpeed:
		s.BreakerSpeed = v
	case StatCritChance:
		s.CritChance = v
	case StatCritBonus:
		s.CritBonus = v
	case StatDucksPerDeath:
		s.DucksPerDeath = int(math.Round(v))
	case StatMaxDucks:
		s.MaxDucks = int(math.Round(v))
	case StatDuckSize:
		s.DuckSize = v
	case StatGoldMultiplier:
		s.GoldMultiplier = v
	}
}

// KillReward returns the gold awarded per kill: the gold multiplier rounded
// to the nearest integer, at least 1.
func (s *Stats) KillReward() int {
	return max(1, int(math.Round(s.GoldMultiplier)))
}
