package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/contagion/agents"
	"github.com/pthm-cable/contagion/camera"
	"github.com/pthm-cable/contagion/game"
)

// View draws a Game into the raylib window and routes input to it.
type View struct {
	game   *game.Game
	camera *camera.Camera
	hud    *HUD
	theme  Theme

	screenWidth, screenHeight float32
}

// NewView creates a view for g sized to the current window.
func NewView(g *game.Game) *View {
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	u := g.Universe()
	return &View{
		game:         g,
		camera:       camera.New(w, h, float32(u.Width()), float32(u.Height())),
		hud:          NewHUD(10, 10, 260),
		theme:        DefaultTheme(),
		screenWidth:  w,
		screenHeight: h,
	}
}

// HandleInput processes keyboard and mouse input.
func (v *View) HandleInput() {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		v.game.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyRight) {
		v.game.RequestStep()
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		v.game.SetStepsPerUpdate(v.game.StepsPerUpdate() + 1)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		v.game.SetStepsPerUpdate(v.game.StepsPerUpdate() - 1)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.camera.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		v.camera.Pan(-d.X, -d.Y)
	}
	if rl.IsKeyPressed(rl.KeyHome) {
		v.camera.Reset()
	}
}

// handleResize propagates window size changes to the camera.
func (v *View) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.screenWidth && h == v.screenHeight {
		return
	}
	v.screenWidth = w
	v.screenHeight = h
	v.camera.Resize(w, h)
}

// Draw renders one frame.
func (v *View) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(v.theme.Background)

	v.drawArena()
	v.drawHumans()
	v.drawHUD()

	rl.EndDrawing()
	v.game.RecordFrame()
}

func (v *View) drawArena() {
	u := v.game.Universe()
	x0, y0 := v.camera.WorldToScreen(0, 0)
	x1, y1 := v.camera.WorldToScreen(float32(u.Width()), float32(u.Height()))
	arena := rl.Rectangle{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
	rl.DrawRectangleRec(arena, v.theme.ArenaFill)

	if z, ok := u.Zone(); ok {
		zx0, _ := v.camera.WorldToScreen(float32(z.X1), 0)
		zx1, _ := v.camera.WorldToScreen(float32(z.X2), 0)
		rl.DrawRectangleRec(rl.Rectangle{X: zx0, Y: y0, Width: zx1 - zx0, Height: y1 - y0}, v.theme.ZoneFill)
	}

	rl.DrawRectangleLinesEx(arena, 2, v.theme.ArenaBorder)
}

func (v *View) drawHumans() {
	v.game.Universe().Each(func(_ int, h agents.Human) {
		sx, sy := v.camera.WorldToScreen(float32(h.Pos.X), float32(h.Pos.Y))
		r := v.camera.Length(float32(h.Thickness))
		rl.DrawCircleV(rl.Vector2{X: sx, Y: sy}, r, v.theme.HealthColor(h.Health))
	})
}

func (v *View) drawHUD() {
	u := v.game.Universe()
	counts := u.Counts()
	var attackRate float64
	if total := counts.Total(); total > 0 {
		attackRate = float64(total-counts.Susceptible) / float64(total)
	}
	actions := v.hud.Draw(HUDData{
		Tick:           u.Ticks(),
		SimTimeSec:     float64(u.Ticks()) / u.Course().TicksPerSecond,
		Counts:         counts,
		AttackRate:     attackRate,
		StepsPerUpdate: v.game.StepsPerUpdate(),
		FPS:            rl.GetFPS(),
		Paused:         v.game.Paused(),
		Done:           v.game.Done(),
	})

	if actions.TogglePause {
		v.game.TogglePause()
	}
	if actions.Step {
		v.game.RequestStep()
	}
	if actions.StepsPerUpdate != v.game.StepsPerUpdate() {
		v.game.SetStepsPerUpdate(actions.StepsPerUpdate)
	}

	v.hud.DrawControls(int32(v.screenHeight))
}
