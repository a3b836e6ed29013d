package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/contagion/config"
	"github.com/pthm-cable/contagion/game"
	"github.com/pthm-cable/contagion/ui"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")
	vizAddr := flag.String("viz-addr", "", "Serve the web viewer on this address, e.g. :8080 (empty = use config)")
	stopWhenOver := flag.Bool("stop-when-over", false, "Stop once nobody is infected")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
		VizAddr:        *vizAddr,
	}

	finished := func(g *game.Game) bool {
		if *maxTicks > 0 && g.Tick() >= uint64(*maxTicks) {
			slog.Info("max ticks reached", "tick", g.Tick())
			return true
		}
		if *stopWhenOver && g.Done() {
			slog.Info("outbreak over", "tick", g.Tick())
			return true
		}
		return false
	}

	if *headless {
		g, err := game.NewGame(opts)
		if err != nil {
			slog.Error("failed to create simulation", "error", err)
			os.Exit(1)
		}
		defer g.Unload()

		slog.Info("starting headless simulation",
			"seed", rngSeed,
			"population", cfg.Derived.PopulationSize,
			"max_ticks", *maxTicks,
			"steps_per_update", *stepsPerUpdate,
		)

		for !finished(g) {
			g.UpdateHeadless()
		}
		return
	}

	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Contagion")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGame(opts)
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	defer g.Unload()

	view := ui.NewView(g)
	for !rl.WindowShouldClose() {
		view.HandleInput()
		g.Update()
		view.Draw()

		if finished(g) {
			break
		}
	}
}
