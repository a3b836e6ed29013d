package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/contagion/config"
)

func TestOutputManager_Disabled(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v; want nil, nil", om, err)
	}
	// A nil manager swallows writes.
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Errorf("WriteTelemetry on nil: %v", err)
	}
	if err := om.WriteMilestone(Milestone{}); err != nil {
		t.Errorf("WriteMilestone on nil: %v", err)
	}
	if om.Dir() != "" || om.Close() != nil {
		t.Error("nil manager should report empty dir and close cleanly")
	}
}

func TestOutputManager_WritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for _, end := range []uint64{60, 120} {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: end, Infected: 3, Population: 10}); err != nil {
			t.Fatalf("WriteTelemetry: %v", err)
		}
	}
	if err := om.WriteMilestone(Milestone{Type: MilestoneFirstSpread, Tick: 60, Description: "first"}); err != nil {
		t.Fatalf("WriteMilestone: %v", err)
	}
	if err := om.WritePerf(PerfStats{PhasePct: map[string]float64{}}, 60); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(string(raw), "window_end"); n != 1 {
		t.Errorf("header written %d times", n)
	}

	var rows []WindowStats
	if err := gocsv.UnmarshalBytes(raw, &rows); err != nil {
		t.Fatalf("unmarshal telemetry: %v", err)
	}
	if len(rows) != 2 || rows[0].WindowEndTick != 60 || rows[1].WindowEndTick != 120 {
		t.Errorf("unexpected rows %+v", rows)
	}

	f, err := os.Open(filepath.Join(dir, "milestones.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var ms []Milestone
	if err := gocsv.UnmarshalFile(f, &ms); err != nil {
		t.Fatalf("unmarshal milestones: %v", err)
	}
	if len(ms) != 1 || ms[0].Type != MilestoneFirstSpread || ms[0].Tick != 60 {
		t.Errorf("unexpected milestones %+v", ms)
	}

	if _, err := os.Stat(filepath.Join(dir, "perf.csv")); err != nil {
		t.Errorf("perf.csv missing: %v", err)
	}
}

func TestOutputManager_WriteConfig(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}
	defer om.Close()

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}

	back, err := config.Load(filepath.Join(dir, "config.yaml"))
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if back.Population.Initial != cfg.Population.Initial {
		t.Errorf("population = %d, want %d", back.Population.Initial, cfg.Population.Initial)
	}
}
