// Package game drives a Universe: it owns the random source, feeds
// telemetry and publishes frames to the web viewer. It has no raylib
// dependency so it runs headless; the window lives in package ui.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/contagion/config"
	"github.com/pthm-cable/contagion/telemetry"
	"github.com/pthm-cable/contagion/universe"
	"github.com/pthm-cable/contagion/vizserver"
)

// MaxStepsPerUpdate caps the speed multiplier.
const MaxStepsPerUpdate = 20

// Options configures a Game.
type Options struct {
	Seed           int64
	LogStats       bool
	OutputDir      string
	Headless       bool
	StepsPerUpdate int
	VizAddr        string // overrides viz.addr from config when set

	// Config overrides the global config (used by calibration runs).
	Config *config.Config
	// StatsCallback receives every flushed window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds a running simulation and its telemetry.
type Game struct {
	cfg      *config.Config
	universe *universe.Universe

	paused         bool
	stepRequested  bool
	stepsPerUpdate int

	collector  *telemetry.Collector
	perf       *telemetry.PerfCollector
	milestones *telemetry.MilestoneDetector
	output     *telemetry.OutputManager
	logStats   bool
	lastStats  telemetry.WindowStats

	statsCallback func(telemetry.WindowStats)

	viz        *vizserver.Server
	vizCancel  context.CancelFunc
	frameEvery uint64
}

// NewGame builds the universe described by the config and wires telemetry.
func NewGame(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	steps := opts.StepsPerUpdate
	if steps < 1 {
		steps = 1
	}

	g := &Game{
		cfg:            cfg,
		stepsPerUpdate: steps,
		logStats:       opts.LogStats,
		statsCallback:  opts.StatsCallback,
		collector:      telemetry.NewCollector(cfg.Telemetry.StatsWindowTicks, cfg.Disease.TicksPerSecond),
		perf:           telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		milestones: telemetry.NewMilestoneDetector(telemetry.MilestoneConfig{
			HistorySize:          cfg.Telemetry.MilestoneHistory,
			MassCasualtyFraction: cfg.Telemetry.MassCasualtyFraction,
			PeakDropFraction:     cfg.Telemetry.PeakDropFraction,
		}),
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	uopts := append(cfg.UniverseOptions(),
		universe.WithRand(rng),
		universe.WithPhaseTimer(g.perf),
	)
	u, err := universe.New(cfg.Arena.Width, cfg.Arena.Height, cfg.PopulationSpec(), uopts...)
	if err != nil {
		return nil, fmt.Errorf("creating universe: %w", err)
	}
	g.universe = u

	g.output, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := g.output.WriteConfig(cfg); err != nil {
		g.output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	addr := opts.VizAddr
	if addr == "" {
		addr = cfg.Viz.Addr
	}
	if addr != "" {
		g.startViz(addr)
	}

	slog.Info("simulation created",
		"seed", opts.Seed,
		"headless", opts.Headless,
		"universe", u.String(),
		"output_dir", g.output.Dir(),
	)
	return g, nil
}

func (g *Game) startViz(addr string) {
	g.frameEvery = uint64(g.cfg.Viz.FrameEvery)
	if g.frameEvery < 1 {
		g.frameEvery = 1
	}
	g.viz = vizserver.New(addr, vizserver.ArenaInfoFrom(g.universe))

	ctx, cancel := context.WithCancel(context.Background())
	g.vizCancel = cancel
	go func() {
		if err := g.viz.ListenAndServe(ctx); err != nil {
			slog.Error("viz server stopped", "error", err)
		}
	}()
}

// Universe returns the simulated universe. Callers must not tick it.
func (g *Game) Universe() *universe.Universe {
	return g.universe
}

// Tick returns the current simulation tick.
func (g *Game) Tick() uint64 {
	return g.universe.Ticks()
}

// Done reports whether the outbreak is over (nobody is infected).
func (g *Game) Done() bool {
	return g.universe.Infected() == 0
}

// Paused reports whether Update is holding the simulation.
func (g *Game) Paused() bool {
	return g.paused
}

// TogglePause pauses or resumes Update.
func (g *Game) TogglePause() {
	g.paused = !g.paused
}

// RequestStep advances exactly one tick on the next Update while paused.
func (g *Game) RequestStep() {
	g.stepRequested = true
}

// StepsPerUpdate returns the speed multiplier.
func (g *Game) StepsPerUpdate() int {
	return g.stepsPerUpdate
}

// SetStepsPerUpdate sets the speed multiplier, clamped to [1, MaxStepsPerUpdate].
func (g *Game) SetStepsPerUpdate(n int) {
	g.stepsPerUpdate = max(1, min(n, MaxStepsPerUpdate))
}

// LastStats returns the most recently flushed window.
func (g *Game) LastStats() telemetry.WindowStats {
	return g.lastStats
}

// Perf returns the rolling performance statistics.
func (g *Game) Perf() telemetry.PerfStats {
	return g.perf.Stats()
}

// RecordFrame marks a rendered frame for FPS tracking.
func (g *Game) RecordFrame() {
	g.perf.RecordFrame()
}

// Config returns the configuration the game was built from.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Unload flushes the partial window and releases outputs.
func (g *Game) Unload() {
	if g.collector.Pending(g.Tick()) {
		g.flushWindow()
	}
	if err := g.output.Close(); err != nil {
		slog.Error("closing output", "error", err)
	}
	if g.vizCancel != nil {
		g.vizCancel()
	}
	slog.Info("simulation finished", "universe", g.universe.String())
}
