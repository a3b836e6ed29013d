package game

import "github.com/pthm-cable/contagion/telemetry"

// UpdateHeadless advances StepsPerUpdate ticks. Pause is ignored.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// Update advances the simulation for one rendered frame: StepsPerUpdate
// ticks when running, one tick when a step was requested while paused.
func (g *Game) Update() {
	if g.paused {
		if g.stepRequested {
			g.stepRequested = false
			g.step()
		}
		return
	}
	g.stepRequested = false
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// step runs one engine tick followed by its telemetry.
func (g *Game) step() {
	g.perf.StartTick()
	g.universe.Tick()

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.collector.Record(g.universe.LastTick())
	if g.collector.ShouldFlush(g.Tick()) {
		g.flushWindow()
	}
	g.publishFrame()
	g.perf.EndTick()
}
