package render

import (
	"fmt"
	"math"

	"github.com/matzehuels/upgradetree/pkg/state"
)

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// RGB returns an opaque color.
func RGB(r, g, b float64) Color { return Color{R: r, G: g, B: b, A: 1} }

// Hex formats the color as #rrggbb, ignoring alpha.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

// HexA formats the color as #rrggbbaa, the form Graphviz accepts.
func (c Color) HexA() string {
	return c.Hex() + fmt.Sprintf("%02x", channel(c.A))
}

func channel(v float64) int {
	return int(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// Palette holds the colors used for node and edge states.
type Palette struct {
	Unlocked    Color
	Available   Color
	Locked      Color
	Satisfied   Color
	Unsatisfied Color
	Highlight   Color // outline of purchasable upgrades
	Text        Color
	EdgeWidth   float64
}

// DefaultPalette returns the colors of the in-game upgrade panel.
func DefaultPalette() Palette {
	return Palette{
		Unlocked:    RGB(0.4, 0.8, 0.4),
		Available:   RGB(0.9, 0.9, 0.5),
		Locked:      RGB(0.5, 0.5, 0.5),
		Satisfied:   Color{0.5, 0.9, 0.5, 0.8},
		Unsatisfied: Color{0.6, 0.5, 0.5, 0.6},
		Highlight:   RGB(1, 0.85, 0.2),
		Text:        RGB(0.1, 0.1, 0.1),
		EdgeWidth:   5,
	}
}

// Node returns the fill color of a node state.
func (p Palette) Node(s state.NodeState) Color {
	switch s {
	case state.Unlocked:
		return p.Unlocked
	case state.Available:
		return p.Available
	default:
		return p.Locked
	}
}

// Edge returns the stroke color of an edge state.
func (p Palette) Edge(s state.EdgeState) Color {
	if s == state.Satisfied {
		return p.Satisfied
	}
	return p.Unsatisfied
}
