package game

import (
	"log/slog"

	"github.com/pthm-cable/contagion/agents"
	"github.com/pthm-cable/contagion/vizserver"
)

// flushWindow closes the current stats window and fans it out to logs,
// CSV output and the milestone detector.
func (g *Game) flushWindow() {
	tick := g.Tick()
	stats := g.collector.Flush(tick, g.universe.Counts(), g.infectionAges())
	perfStats := g.perf.Stats()
	g.lastStats = stats

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.output.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.output.WritePerf(perfStats, tick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, m := range g.milestones.Check(stats) {
		if g.logStats {
			m.LogMilestone()
		}
		if err := g.output.WriteMilestone(m); err != nil {
			slog.Error("failed to write milestone", "error", err)
		}
	}
}

// infectionAges returns how many ticks each running infection has lasted.
func (g *Game) infectionAges() []float64 {
	now := g.Tick()
	var ages []float64
	g.universe.Each(func(_ int, h agents.Human) {
		if h.IsInfected() {
			ages = append(ages, float64(now-h.InfectedAt()))
		}
	})
	return ages
}

// publishFrame sends the population to web viewers every frameEvery ticks.
func (g *Game) publishFrame() {
	if g.viz == nil || g.viz.Watchers() == 0 || g.Tick()%g.frameEvery != 0 {
		return
	}
	g.viz.Publish(vizserver.FrameFrom(g.universe))
}
