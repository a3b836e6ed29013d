package agents

import "math"

// DiseaseCourse shapes how fast infections resolve.
// The resolve probability follows a tanh ramp centred on HalfLifeSec.
type DiseaseCourse struct {
	HalfLifeSec    float64 // elapsed seconds at which resolving is a coin flip
	TicksPerSecond float64 // ticks per simulated second
	Threshold      float64 // ramp midpoint and half-amplitude
}

// DefaultCourse returns the course used when no configuration is given.
func DefaultCourse() DiseaseCourse {
	return DiseaseCourse{
		HalfLifeSec:    7,
		TicksPerSecond: 60,
		Threshold:      0.5,
	}
}

// ResolveProbability returns the probability that an infection of the
// given age resolves this tick.
func (c DiseaseCourse) ResolveProbability(elapsedTicks uint64) float64 {
	seconds := float64(elapsedTicks) / c.TicksPerSecond
	return math.Tanh(seconds-c.HalfLifeSec)*c.Threshold + c.Threshold
}

// HalfLifeTicks returns the half-life expressed in ticks.
func (c DiseaseCourse) HalfLifeTicks() uint64 {
	return uint64(c.HalfLifeSec * c.TicksPerSecond)
}
