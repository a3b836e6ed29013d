package agents

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/contagion/components"
)

// SmallThickness is the collision radius of cohort-spawned humans.
const SmallThickness = 6.0

// AgeGroup describes a cohort of humans sharing movement and disease parameters.
type AgeGroup struct {
	Name          string
	Size          int
	Activity      float64 // speed multiplier
	Vulnerability float64
	Letality      float64
	Thickness     float64 // 0 = SmallThickness
}

// Radius returns the collision radius stamped on spawned humans.
func (g AgeGroup) Radius() float64 {
	if g.Thickness > 0 {
		return g.Thickness
	}
	return SmallThickness
}

// Validate checks the group parameters.
func (g AgeGroup) Validate() error {
	var errs []error
	if g.Size < 0 {
		errs = append(errs, fmt.Errorf("size %d is negative", g.Size))
	}
	if g.Activity <= 0 {
		errs = append(errs, fmt.Errorf("activity %v must be positive", g.Activity))
	}
	if g.Vulnerability < 0 || g.Vulnerability > 1 {
		errs = append(errs, fmt.Errorf("vulnerability %v outside [0,1]", g.Vulnerability))
	}
	if g.Letality < 0 || g.Letality > 1 {
		errs = append(errs, fmt.Errorf("letality %v outside [0,1]", g.Letality))
	}
	if g.Thickness < 0 {
		errs = append(errs, fmt.Errorf("thickness %v is negative", g.Thickness))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("age group %q: %w", g.Name, err)
	}
	return nil
}

// Spawn creates a human at pos with a random heading scaled by the group's activity.
func (g AgeGroup) Spawn(pos components.Vector, health components.Health, rng Rand) Human {
	velocity := RandomHeading(rng).Scale(g.Activity)
	return NewHuman(pos, velocity, health, g.Radius(), g.Vulnerability, g.Letality)
}
