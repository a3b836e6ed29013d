// Package agents holds the simulated humans and the cohorts that spawn them.
package agents

import (
	"math"

	"github.com/pthm-cable/contagion/components"
)

// DefaultThickness is the collision radius of an unparameterized human.
const DefaultThickness = 10.0

// Rand is the random source threaded through every stochastic operation.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
}

// Human is a circular agent carrying a disease state.
type Human struct {
	Pos       components.Vector
	Velocity  components.Vector
	Health    components.Health
	Thickness float64 // collision radius

	infectedAt    uint64  // tick of infection, 0 if never infected
	vulnerability float64 // probability of infection on qualifying contact
	letality      float64 // probability of dying once the disease resolves
}

// NewHuman creates a human that has never been infected.
func NewHuman(pos, velocity components.Vector, health components.Health, thickness, vulnerability, letality float64) Human {
	return Human{
		Pos:           pos,
		Velocity:      velocity,
		Health:        health,
		Thickness:     thickness,
		vulnerability: vulnerability,
		letality:      letality,
	}
}

// InfectedAt returns the tick of infection, 0 if never infected.
func (h *Human) InfectedAt() uint64 { return h.infectedAt }

// Vulnerability returns the per-contact infection probability.
func (h *Human) Vulnerability() float64 { return h.vulnerability }

// Letality returns the probability of dying rather than recovering.
func (h *Human) Letality() float64 { return h.letality }

// Collide reports whether h and other are both alive and overlapping.
func (h *Human) Collide(other *Human) bool {
	if h.IsDead() || other.IsDead() {
		return false
	}
	dx := h.Pos.X - other.Pos.X
	dy := h.Pos.Y - other.Pos.Y
	r := h.Thickness + other.Thickness
	return dx*dx+dy*dy <= r*r
}

// Bounce resolves an equal-mass elastic collision between h and other.
// The relative velocity is split along the tangent of the two centers and
// only the normal part is exchanged. Coincident centers have no defined
// normal and leave both velocities unchanged.
func (h *Human) Bounce(other *Human) {
	dx := h.Pos.X - other.Pos.X
	dy := h.Pos.Y - other.Pos.Y
	if dx == 0 && dy == 0 {
		return
	}

	tangent := components.Normalize(dy, -dx)
	relative := h.Velocity.Sub(other.Velocity)
	onTangent := tangent.Scale(relative.Dot(tangent))
	normal := relative.Sub(onTangent)

	h.Velocity = h.Velocity.Sub(normal)
	other.Velocity = other.Velocity.Add(normal)
}

// Infect evaluates transmission in both directions. Only an Infected side
// can pass the disease, and only to an infectable side.
func (h *Human) Infect(other *Human, now uint64, rng Rand) {
	if h.IsInfected() && other.IsInfectable() {
		other.exposeTo(now, rng)
	}
	if other.IsInfected() && h.IsInfectable() {
		h.exposeTo(now, rng)
	}
}

func (h *Human) exposeTo(now uint64, rng Rand) {
	// Already infected: the pair carries nothing new.
	if h.IsInfected() {
		return
	}
	if rng.Float64() <= h.vulnerability {
		h.MarkInfected(now)
	}
}

// MarkInfected sets the health to Infected at the given tick.
func (h *Human) MarkInfected(now uint64) {
	h.Health = components.Infected
	h.infectedAt = now
}

// RecoverOrDie ages an infection. Once the case resolves a second draw
// picks recovery, weighted by 1-letality, or death.
func (h *Human) RecoverOrDie(now uint64, rng Rand, course DiseaseCourse) {
	if !h.IsInfected() {
		return
	}

	var elapsed uint64
	if now > h.infectedAt {
		elapsed = now - h.infectedAt
	}

	if rng.Float64() >= course.ResolveProbability(elapsed) {
		return
	}

	if rng.Float64() <= 1-h.letality {
		h.Health = components.Removed
		return
	}
	h.Health = components.Died
	h.Velocity = components.Vector{}
}

// BounceEdge keeps h inside bounds. The position is clamped back inside and
// the velocity component pointing out of the rectangle is reflected.
func (h *Human) BounceEdge(bounds components.Rect) {
	r := h.Thickness

	if h.Pos.X-r <= bounds.MinX {
		h.Pos.X = bounds.MinX + r
		h.Velocity.X = math.Abs(h.Velocity.X)
	} else if h.Pos.X+r >= bounds.MaxX {
		h.Pos.X = bounds.MaxX - r
		h.Velocity.X = -math.Abs(h.Velocity.X)
	}

	if h.Pos.Y-r <= bounds.MinY {
		h.Pos.Y = bounds.MinY + r
		h.Velocity.Y = math.Abs(h.Velocity.Y)
	} else if h.Pos.Y+r >= bounds.MaxY {
		h.Pos.Y = bounds.MaxY - r
		h.Velocity.Y = -math.Abs(h.Velocity.Y)
	}
}

// IsInfected reports whether h can transmit.
func (h *Human) IsInfected() bool { return h.Health == components.Infected }

// IsInfectable reports whether h can still acquire the disease.
func (h *Human) IsInfectable() bool { return !h.Health.Terminal() }

// IsDead reports whether h died.
func (h *Human) IsDead() bool { return h.Health == components.Died }

// RandomHeading returns a random unit vector. Components are drawn in
// [-1, 1) and redrawn while both are exactly zero.
func RandomHeading(rng Rand) components.Vector {
	for {
		x := rng.Float64()*2 - 1
		y := rng.Float64()*2 - 1
		if x != 0 || y != 0 {
			return components.Normalize(x, y)
		}
	}
}
