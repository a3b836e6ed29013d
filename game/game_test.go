package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/contagion/config"
	"github.com/pthm-cable/contagion/telemetry"
	"github.com/pthm-cable/contagion/universe"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	return cfg
}

func TestHeadlessRun(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	var windows []telemetry.WindowStats

	g, err := NewGame(Options{
		Seed:           7,
		Headless:       true,
		OutputDir:      dir,
		StepsPerUpdate: 10,
		Config:         testConfig(t),
		StatsCallback: func(s telemetry.WindowStats) {
			windows = append(windows, s)
		},
	})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}

	population := g.Universe().Len()
	for g.Tick() < 1200 && !g.Done() {
		g.UpdateHeadless()
	}
	ticks := g.Tick()
	g.Unload()

	if ticks%10 != 0 {
		t.Errorf("tick %d is not a multiple of steps per update", ticks)
	}
	if len(windows) == 0 {
		t.Fatal("no stats windows flushed")
	}
	for _, w := range windows {
		if w.Population != population {
			t.Errorf("window %d population = %d, want %d", w.WindowEndTick, w.Population, population)
		}
		if w.Susceptible+w.Infected+w.Removed+w.Died != population {
			t.Errorf("window %d counts do not sum to population: %+v", w.WindowEndTick, w)
		}
	}
	if last := windows[len(windows)-1]; last.WindowEndTick != ticks {
		t.Errorf("last window ends at %d, want %d", last.WindowEndTick, ticks)
	}

	for _, name := range []string{"telemetry.csv", "perf.csv", "milestones.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s missing: %v", name, err)
		}
	}
}

func TestSameSeedSameRun(t *testing.T) {
	run := func() []universe.Counts {
		g, err := NewGame(Options{Seed: 42, Headless: true, Config: testConfig(t)})
		if err != nil {
			t.Fatalf("NewGame: %v", err)
		}
		defer g.Unload()

		var history []universe.Counts
		for i := 0; i < 600; i++ {
			g.UpdateHeadless()
			if i%50 == 0 {
				history = append(history, g.Universe().Counts())
			}
		}
		return history
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("sample %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestPauseAndStep(t *testing.T) {
	g, err := NewGame(Options{Seed: 1, StepsPerUpdate: 3, Config: testConfig(t)})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	defer g.Unload()

	g.Update()
	if g.Tick() != 3 {
		t.Fatalf("tick = %d after running update, want 3", g.Tick())
	}

	g.TogglePause()
	g.Update()
	if g.Tick() != 3 {
		t.Errorf("paused update advanced to %d", g.Tick())
	}

	g.RequestStep()
	g.Update()
	if g.Tick() != 4 {
		t.Errorf("step advanced to %d, want 4", g.Tick())
	}
	g.Update()
	if g.Tick() != 4 {
		t.Errorf("step request was not consumed, tick %d", g.Tick())
	}

	// Headless updates ignore the pause.
	g.UpdateHeadless()
	if g.Tick() != 7 {
		t.Errorf("headless update while paused: tick %d, want 7", g.Tick())
	}
}

func TestSetStepsPerUpdate(t *testing.T) {
	g, err := NewGame(Options{Seed: 1, Config: testConfig(t)})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	defer g.Unload()

	tests := []struct{ in, want int }{
		{0, 1},
		{5, 5},
		{MaxStepsPerUpdate + 10, MaxStepsPerUpdate},
	}
	for _, tt := range tests {
		g.SetStepsPerUpdate(tt.in)
		if got := g.StepsPerUpdate(); got != tt.want {
			t.Errorf("SetStepsPerUpdate(%d) -> %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestUnloadFlushesPartialWindow(t *testing.T) {
	var ends []uint64
	g, err := NewGame(Options{
		Seed:          3,
		Headless:      true,
		Config:        testConfig(t),
		StatsCallback: func(s telemetry.WindowStats) { ends = append(ends, s.WindowEndTick) },
	})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	for g.Tick() < 90 {
		g.UpdateHeadless()
	}
	g.Unload()

	if len(ends) != 2 || ends[0] != 60 || ends[1] != 90 {
		t.Errorf("window ends = %v, want [60 90]", ends)
	}
}

func TestNewGame_ArenaTooSmall(t *testing.T) {
	cfg := testConfig(t)
	cfg.Arena.Width = 15
	cfg.Arena.Height = 15

	_, err := NewGame(Options{Seed: 1, Headless: true, Config: cfg})
	if !errors.Is(err, universe.ErrDegenerateArena) {
		t.Errorf("NewGame error = %v, want ErrDegenerateArena", err)
	}
}
