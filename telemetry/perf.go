package telemetry

import (
	"log/slog"
	"time"

	"github.com/pthm-cable/contagion/universe"
)

// Phase names for the simulation step. The engine phases come from the
// universe package; telemetry is timed by the host.
const (
	PhaseIntegrate = universe.PhaseIntegrate
	PhaseInteract  = universe.PhaseInteract
	PhaseContain   = universe.PhaseContain
	PhaseProgress  = universe.PhaseProgress
	PhaseTelemetry = "telemetry"
)

// phases lists the phases in tick order.
var phases = []string{PhaseIntegrate, PhaseInteract, PhaseContain, PhaseProgress, PhaseTelemetry}

// tickSample is the wall-clock breakdown of one tick.
type tickSample struct {
	total  time.Duration
	phases map[string]time.Duration
}

// PerfCollector keeps a ring of recent tick timings. It satisfies
// universe.PhaseTimer so the engine can mark its own phase boundaries.
type PerfCollector struct {
	ring  []tickSample
	next  int
	count int

	open       bool
	tickStart  time.Time
	phaseStart time.Time
	phase      string
	current    map[string]time.Duration

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{ring: make([]tickSample, windowSize)}
}

// StartTick opens a new tick sample.
func (p *PerfCollector) StartTick() {
	now := time.Now()
	p.open = true
	p.tickStart = now
	p.phaseStart = now
	p.phase = ""
	p.current = make(map[string]time.Duration, len(phases))
}

// StartPhase closes the running phase and starts timing name.
// Calls outside StartTick/EndTick are ignored.
func (p *PerfCollector) StartPhase(name string) {
	if !p.open {
		return
	}
	now := time.Now()
	p.closePhase(now)
	p.phase = name
	p.phaseStart = now
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase != "" {
		p.current[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick closes the tick sample and stores it in the ring.
func (p *PerfCollector) EndTick() {
	if !p.open {
		return
	}
	now := time.Now()
	p.closePhase(now)
	p.ring[p.next] = tickSample{total: now.Sub(p.tickStart), phases: p.current}
	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
	p.open = false
	p.phase = ""
}

// RecordFrame marks a rendered frame.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats aggregates the current window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// PhaseAvg is the mean time per tick spent in each phase.
	PhaseAvg map[string]time.Duration
	// PhasePct is PhaseAvg as a percentage of AvgTickDuration.
	PhasePct map[string]float64

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the stored samples.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return s
	}

	var total time.Duration
	sums := make(map[string]time.Duration)
	for i, sample := range p.ring[:p.count] {
		total += sample.total
		if i == 0 || sample.total < s.MinTickDuration {
			s.MinTickDuration = sample.total
		}
		if sample.total > s.MaxTickDuration {
			s.MaxTickDuration = sample.total
		}
		for name, d := range sample.phases {
			sums[name] += d
		}
	}

	n := time.Duration(p.count)
	s.AvgTickDuration = total / n
	for name, sum := range sums {
		avg := sum / n
		s.PhaseAvg[name] = avg
		if s.AvgTickDuration > 0 {
			s.PhasePct[name] = float64(avg) / float64(s.AvgTickDuration) * 100
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// LogStats logs performance statistics.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, name := range phases {
		if pct := s.PhasePct[name]; pct > 0.1 {
			attrs = append(attrs, name+"_pct", int(pct*10)/10.0)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is a flat struct for CSV export of performance stats.
type PerfStatsCSV struct {
	WindowEnd    uint64  `csv:"window_end"`
	AvgTickUS    int64   `csv:"avg_tick_us"`
	MinTickUS    int64   `csv:"min_tick_us"`
	MaxTickUS    int64   `csv:"max_tick_us"`
	TicksPerSec  float64 `csv:"ticks_per_sec"`
	FPS          float64 `csv:"fps"`
	IntegratePct float64 `csv:"integrate_pct"`
	InteractPct  float64 `csv:"interact_pct"`
	ContainPct   float64 `csv:"contain_pct"`
	ProgressPct  float64 `csv:"progress_pct"`
	TelemetryPct float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats for perf.csv.
func (s PerfStats) ToCSV(windowEnd uint64) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:    windowEnd,
		AvgTickUS:    s.AvgTickDuration.Microseconds(),
		MinTickUS:    s.MinTickDuration.Microseconds(),
		MaxTickUS:    s.MaxTickDuration.Microseconds(),
		TicksPerSec:  s.TicksPerSecond,
		FPS:          s.FPS,
		IntegratePct: s.PhasePct[PhaseIntegrate],
		InteractPct:  s.PhasePct[PhaseInteract],
		ContainPct:   s.PhasePct[PhaseContain],
		ProgressPct:  s.PhasePct[PhaseProgress],
		TelemetryPct: s.PhasePct[PhaseTelemetry],
	}
}
