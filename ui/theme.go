// Package ui renders a running game with raylib: the arena, the humans
// coloured by health, and a HUD with raygui controls.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/contagion/components"
)

// Theme holds UI styling constants.
type Theme struct {
	Background  rl.Color
	ArenaFill   rl.Color
	ArenaBorder rl.Color
	ZoneFill    rl.Color

	PanelBg     rl.Color
	PanelBorder rl.Color
	LabelColor  rl.Color
	ValueColor  rl.Color
	Accent      rl.Color

	Susceptible rl.Color
	Infected    rl.Color
	Removed     rl.Color
	Died        rl.Color

	Padding    int32
	LineHeight int32
	LabelWidth int32
	FontSize   int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		Background:  rl.Color{R: 14, G: 16, B: 20, A: 255},
		ArenaFill:   rl.Color{R: 26, G: 30, B: 36, A: 255},
		ArenaBorder: rl.Color{R: 90, G: 100, B: 110, A: 255},
		ZoneFill:    rl.Color{R: 70, G: 60, B: 40, A: 255},

		PanelBg:     rl.Color{R: 20, G: 25, B: 30, A: 230},
		PanelBorder: rl.Color{R: 60, G: 70, B: 80, A: 255},
		LabelColor:  rl.LightGray,
		ValueColor:  rl.RayWhite,
		Accent:      rl.Yellow,

		Susceptible: rl.Color{R: 76, G: 175, B: 80, A: 255},
		Infected:    rl.Color{R: 229, G: 57, B: 53, A: 255},
		Removed:     rl.Color{R: 30, G: 136, B: 229, A: 255},
		Died:        rl.Color{R: 97, G: 97, B: 97, A: 255},

		Padding:    10,
		LineHeight: 18,
		LabelWidth: 90,
		FontSize:   14,
	}
}

// HealthColor returns the fill colour for a health state.
func (t Theme) HealthColor(h components.Health) rl.Color {
	switch h {
	case components.Infected:
		return t.Infected
	case components.Removed:
		return t.Removed
	case components.Died:
		return t.Died
	default:
		return t.Susceptible
	}
}
