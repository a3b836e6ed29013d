package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/contagion/universe"
)

func TestCollector_WindowBoundaries(t *testing.T) {
	c := NewCollector(10, 60)

	tests := []struct {
		tick uint64
		want bool
	}{
		{0, false},
		{9, false},
		{10, true},
		{25, true},
	}
	for _, tt := range tests {
		if got := c.ShouldFlush(tt.tick); got != tt.want {
			t.Errorf("ShouldFlush(%d) = %v, want %v", tt.tick, got, tt.want)
		}
	}

	c.Flush(10, universe.Counts{Susceptible: 1}, nil)
	if c.ShouldFlush(15) {
		t.Error("window should restart at last flush")
	}
	if !c.ShouldFlush(20) {
		t.Error("expected flush at tick 20")
	}
	if c.Pending(10) || !c.Pending(11) {
		t.Error("Pending should track ticks since last flush")
	}
}

func TestCollector_Flush(t *testing.T) {
	c := NewCollector(60, 60)
	c.Record(universe.TickStats{Collisions: 4, Infections: 2})
	c.Record(universe.TickStats{Collisions: 1, Infections: 1, Recoveries: 1, Deaths: 1})

	counts := universe.Counts{Susceptible: 6, Infected: 2, Removed: 1, Died: 1}
	s := c.Flush(120, counts, []float64{10, 20})

	if s.WindowStartTick != 0 || s.WindowEndTick != 120 {
		t.Errorf("window = [%d, %d], want [0, 120]", s.WindowStartTick, s.WindowEndTick)
	}
	if s.SimTimeSec != 2 {
		t.Errorf("SimTimeSec = %v, want 2", s.SimTimeSec)
	}
	if s.Collisions != 5 || s.NewInfections != 3 || s.Recoveries != 1 || s.Deaths != 1 {
		t.Errorf("event counts wrong: %+v", s)
	}
	if s.Population != 10 {
		t.Errorf("Population = %d, want 10", s.Population)
	}
	if math.Abs(s.AttackRate-0.4) > 1e-9 {
		t.Errorf("AttackRate = %v, want 0.4", s.AttackRate)
	}
	if math.Abs(s.ReproductionRatio-1.5) > 1e-9 {
		t.Errorf("ReproductionRatio = %v, want 1.5", s.ReproductionRatio)
	}
	if s.InfectionAgeMean != 15 {
		t.Errorf("InfectionAgeMean = %v, want 15", s.InfectionAgeMean)
	}

	next := c.Flush(180, counts, nil)
	if next.Collisions != 0 || next.NewInfections != 0 || next.WindowStartTick != 120 {
		t.Errorf("counters not reset: %+v", next)
	}
	if next.ReproductionRatio != 0 {
		t.Errorf("ratio with nothing resolved = %v, want 0", next.ReproductionRatio)
	}
}

func TestCollector_EmptyPopulation(t *testing.T) {
	s := NewCollector(0, 0).Flush(5, universe.Counts{}, nil)
	if s.AttackRate != 0 || s.SimTimeSec != 0 {
		t.Errorf("expected zero rates, got %+v", s)
	}
}
