package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/contagion/game"
	"github.com/pthm-cable/contagion/universe"
)

// HUDData holds everything the HUD shows for one frame.
type HUDData struct {
	Tick           uint64
	SimTimeSec     float64
	Counts         universe.Counts
	AttackRate     float64
	StepsPerUpdate int
	FPS            int32
	Paused         bool
	Done           bool
}

// HUDActions reports which controls were used this frame.
type HUDActions struct {
	TogglePause    bool
	Step           bool
	StepsPerUpdate int
}

// HUD renders the statistics panel and playback controls.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHUD creates a HUD anchored at (x, y).
func NewHUD(x, y, width int32) *HUD {
	return &HUD{renderer: NewRenderer(), x: x, y: y, width: width}
}

// Draw renders the HUD and returns the control actions.
func (h *HUD) Draw(data HUDData) HUDActions {
	r := h.renderer
	t := r.Theme
	pad := t.Padding
	height := 9*t.LineHeight + 4*pad + 60
	r.DrawPanel(h.x, h.y, h.width, height)

	x := h.x + pad
	y := h.y + pad

	rl.DrawText("Contagion", x, y, 20, t.ValueColor)
	y += 26

	status := "running"
	switch {
	case data.Done:
		status = "outbreak over"
	case data.Paused:
		status = "paused"
	}
	y = r.DrawLabelValue(x, y, "Status", status)
	y = r.DrawLabelValue(x, y, "Tick", fmt.Sprintf("%d (%.1fs)", data.Tick, data.SimTimeSec))
	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%d", data.FPS))
	y += pad / 2

	c := data.Counts
	y = h.drawCount(x, y, "Susceptible", c.Susceptible, t.Susceptible)
	y = h.drawCount(x, y, "Infected", c.Infected, t.Infected)
	y = h.drawCount(x, y, "Removed", c.Removed, t.Removed)
	y = h.drawCount(x, y, "Died", c.Died, t.Died)
	y = r.DrawLabelValue(x, y, "Attack rate", fmt.Sprintf("%.0f%%", data.AttackRate*100))

	y = r.DrawStackedBar(x, y+pad/2, h.width-2*pad, 10, []Segment{
		{Value: c.Susceptible, Color: t.Susceptible},
		{Value: c.Infected, Color: t.Infected},
		{Value: c.Removed, Color: t.Removed},
		{Value: c.Died, Color: t.Died},
	})
	y += pad / 2

	var actions HUDActions
	buttonW := float32(h.width-3*pad) / 2
	label := "Pause"
	if data.Paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: float32(x), Y: float32(y), Width: buttonW, Height: 24}, label) {
		actions.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: float32(x) + buttonW + float32(pad), Y: float32(y), Width: buttonW, Height: 24}, "Step") {
		actions.Step = true
	}
	y += 24 + pad

	speed := gui.SliderBar(
		rl.Rectangle{X: float32(x + 40), Y: float32(y), Width: float32(h.width - 2*pad - 80), Height: 16},
		"1x", fmt.Sprintf("%dx", game.MaxStepsPerUpdate),
		float32(data.StepsPerUpdate), 1, game.MaxStepsPerUpdate,
	)
	actions.StepsPerUpdate = int(speed + 0.5)

	return actions
}

func (h *HUD) drawCount(x, y int32, label string, n int, color rl.Color) int32 {
	rl.DrawRectangle(x, y+3, 8, 8, color)
	return h.renderer.DrawLabelValue(x+14, y, label, fmt.Sprintf("%d", n))
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32) {
	rl.DrawText("SPACE pause | RIGHT step | +/- speed | wheel zoom | right-drag pan | HOME reset",
		10, screenHeight-22, 14, rl.Gray)
}
