// Package telemetry provides epidemic tracking, milestones, and CSV output.
package telemetry

import "github.com/pthm-cable/contagion/universe"

// Collector accumulates tick events within windows and produces WindowStats.
type Collector struct {
	windowTicks    uint64
	ticksPerSecond float64

	// Current window tracking
	windowStartTick uint64

	// Event counters for current window
	collisions int
	infections int
	recoveries int
	deaths     int
}

// NewCollector creates a new stats collector.
// windowTicks: how many ticks each window spans
// ticksPerSecond: used for tick-to-time conversion
func NewCollector(windowTicks int, ticksPerSecond float64) *Collector {
	if windowTicks < 1 {
		windowTicks = 1
	}
	return &Collector{
		windowTicks:    uint64(windowTicks),
		ticksPerSecond: ticksPerSecond,
	}
}

// Record adds the events of one tick to the current window.
func (c *Collector) Record(s universe.TickStats) {
	c.collisions += s.Collisions
	c.infections += s.Infections
	c.recoveries += s.Recoveries
	c.deaths += s.Deaths
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick uint64) bool {
	return currentTick-c.windowStartTick >= c.windowTicks
}

// Pending reports whether events were recorded since the last flush.
func (c *Collector) Pending(currentTick uint64) bool {
	return currentTick > c.windowStartTick
}

// Flush produces a WindowStats and resets counters for the next window.
// infectionAges holds the age in ticks of every running infection.
func (c *Collector) Flush(currentTick uint64, counts universe.Counts, infectionAges []float64) WindowStats {
	total := counts.Total()

	var attackRate float64
	if total > 0 {
		attackRate = float64(total-counts.Susceptible) / float64(total)
	}

	var ratio float64
	if resolved := c.recoveries + c.deaths; resolved > 0 {
		ratio = float64(c.infections) / float64(resolved)
	}

	mean, std, p50, p90 := Distribution(infectionAges)

	var simTime float64
	if c.ticksPerSecond > 0 {
		simTime = float64(currentTick) / c.ticksPerSecond
	}

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      simTime,

		Susceptible: counts.Susceptible,
		Infected:    counts.Infected,
		Removed:     counts.Removed,
		Died:        counts.Died,
		Population:  total,

		Collisions:    c.collisions,
		NewInfections: c.infections,
		Recoveries:    c.recoveries,
		Deaths:        c.deaths,

		AttackRate:        attackRate,
		ReproductionRatio: ratio,

		InfectionAgeMean: mean,
		InfectionAgeStd:  std,
		InfectionAgeP50:  p50,
		InfectionAgeP90:  p90,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.collisions = 0
	c.infections = 0
	c.recoveries = 0
	c.deaths = 0

	return stats
}

// WindowTicks returns the number of ticks per window.
func (c *Collector) WindowTicks() uint64 {
	return c.windowTicks
}
