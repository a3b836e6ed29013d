package main

import (
	"testing"
	"time"

	"github.com/pthm-cable/contagion/config"
)

func smallConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	cfg.Population.Initial = 20
	cfg.Arena.Width = 200
	cfg.Arena.Height = 200
	return cfg
}

func TestParameterClamp(t *testing.T) {
	p := Parameter{Name: "vulnerability", Min: 0.001, Max: 1}
	tests := []struct{ in, want float64 }{
		{-3, 0.001},
		{0.4, 0.4},
		{7, 1},
	}
	for _, tt := range tests {
		if got := p.Clamp(tt.in); got != tt.want {
			t.Errorf("Clamp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestEvaluatorConfigCopies(t *testing.T) {
	base := smallConfig(t)
	e := NewEvaluator(base, 0.5, []int64{1}, 100)

	cfg := e.Config(0.25)
	if cfg.Population.Vulnerability != 0.25 {
		t.Errorf("vulnerability = %v, want 0.25", cfg.Population.Vulnerability)
	}
	if base.Population.Vulnerability != 1 {
		t.Errorf("base config mutated: %v", base.Population.Vulnerability)
	}
}

func TestEvaluatorConfigDropsVizAddr(t *testing.T) {
	base := smallConfig(t)
	base.Viz.Addr = "127.0.0.1:8089"
	e := NewEvaluator(base, 0.5, []int64{1, 2, 3}, 50)

	if got := e.Config(0.3).Viz.Addr; got != "" {
		t.Errorf("viz addr = %q, want empty", got)
	}
	if base.Viz.Addr != "127.0.0.1:8089" {
		t.Errorf("base viz addr mutated: %q", base.Viz.Addr)
	}
	if _, err := e.Evaluate(0.3); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
}

func TestEvaluate(t *testing.T) {
	e := NewEvaluator(smallConfig(t), 0.5, []int64{1, 2}, 300)

	ev, err := e.Evaluate(0.5)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if ev.Eval != 1 || ev.Vulnerability != 0.5 {
		t.Errorf("unexpected evaluation %+v", ev)
	}
	if ev.AttackRate < 0.05 || ev.AttackRate > 1 {
		t.Errorf("attack rate %v outside [1/20, 1]", ev.AttackRate)
	}
	want := (ev.AttackRate - 0.5) * (ev.AttackRate - 0.5)
	if ev.Loss != want {
		t.Errorf("loss = %v, want %v", ev.Loss, want)
	}
	if ev.MeanTicks <= 0 || ev.MeanTicks > 300 {
		t.Errorf("mean ticks %v outside (0, 300]", ev.MeanTicks)
	}

	// Same inputs, same seeds: identical result.
	again, err := e.Evaluate(0.5)
	if err != nil {
		t.Fatal(err)
	}
	if again.AttackRate != ev.AttackRate {
		t.Errorf("rerun attack rate %v != %v", again.AttackRate, ev.AttackRate)
	}
	if e.Best().Eval != 1 {
		t.Errorf("best eval = %d, want first of equal losses", e.Best().Eval)
	}
}

func TestEvaluate_BadConfig(t *testing.T) {
	cfg := smallConfig(t)
	cfg.Arena.Width = 5
	if _, err := NewEvaluator(cfg, 0.5, []int64{1}, 10).Evaluate(0.5); err == nil {
		t.Error("expected error for an arena too small for its population")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{90 * time.Second, "1m30s"},
		{3723 * time.Second, "1h02m03s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
