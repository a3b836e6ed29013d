package universe

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/contagion/agents"
	"github.com/pthm-cable/contagion/components"
)

// PopulationSpec describes the initial population.
// Default spawns unparameterized humans; Groups add age cohorts.
type PopulationSpec struct {
	Default agents.AgeGroup
	Groups  []agents.AgeGroup
}

// Size returns the total number of humans the spec produces.
func (p PopulationSpec) Size() int {
	n := p.Default.Size
	for _, g := range p.Groups {
		n += g.Size
	}
	return n
}

// defaultGroup returns the unparameterized group with its full-size radius.
func (p PopulationSpec) defaultGroup() agents.AgeGroup {
	g := p.Default
	if g.Name == "" {
		g.Name = "default"
	}
	if g.Thickness == 0 {
		g.Thickness = agents.DefaultThickness
	}
	return g
}

// New creates a universe with a randomly placed, non-overlapping population.
// Exactly one human starts infected.
func New(width, height float64, pop PopulationSpec, opts ...Option) (*Universe, error) {
	u, err := newUniverse(width, height, opts)
	if err != nil {
		return nil, err
	}
	if pop.Size() <= 0 {
		return nil, ErrEmptyPopulation
	}

	groups := make([]agents.AgeGroup, 0, len(pop.Groups)+1)
	if pop.Default.Size > 0 {
		groups = append(groups, pop.defaultGroup())
	}
	groups = append(groups, pop.Groups...)

	for _, g := range groups {
		if err := u.place(g); err != nil {
			return nil, err
		}
	}

	patientZero := int(u.rng.Float64() * float64(len(u.humans)))
	if patientZero >= len(u.humans) {
		patientZero = len(u.humans) - 1
	}
	u.humans[patientZero].MarkInfected(u.ticks)

	slog.Debug("universe created",
		"width", width,
		"height", height,
		"population", len(u.humans),
		"patient_zero", patientZero,
		"zone", u.zone != nil,
	)
	return u, nil
}

// SpawnAgeGroup appends a cohort of susceptible humans placed without
// overlapping anyone. The tick counter and existing humans are untouched.
// On error the population is left unchanged.
func (u *Universe) SpawnAgeGroup(g agents.AgeGroup) error {
	before := len(u.humans)
	if err := u.place(g); err != nil {
		u.humans = u.humans[:before]
		return err
	}
	return nil
}

// place appends g.Size humans at random free positions.
func (u *Universe) place(g agents.AgeGroup) error {
	if err := g.Validate(); err != nil {
		return err
	}
	r := g.Radius()
	if 2*r >= u.width || 2*r >= u.height {
		return errorf(ErrDegenerateArena, "group %q radius %v does not fit %vx%v", g.Name, r, u.width, u.height)
	}

	totalAttempts := 0
	for n := 0; n < g.Size; n++ {
		h, attempts, ok := u.findSpot(g)
		totalAttempts += attempts
		if !ok {
			return errorf(ErrPlacement, "group %q member %d after %d attempts", g.Name, n, attempts)
		}
		u.humans = append(u.humans, h)
	}

	slog.Debug("cohort placed",
		"group", g.Name,
		"size", g.Size,
		"attempts", totalAttempts,
	)
	return nil
}

// findSpot draws candidate positions until one fits its region and
// overlaps nobody, then spawns the human there.
func (u *Universe) findSpot(g agents.AgeGroup) (agents.Human, int, bool) {
	r := g.Radius()
	for attempt := 1; attempt <= u.placementAttempts; attempt++ {
		pos := components.Vector{
			X: r + u.rng.Float64()*(u.width-2*r),
			Y: r + u.rng.Float64()*(u.height-2*r),
		}
		probe := agents.NewHuman(pos, components.Vector{}, components.Susceptible, r, 0, 0)
		if !u.Bounds(&probe).ContainsCircle(pos, r) {
			continue
		}
		if u.overlaps(&probe) {
			continue
		}
		return g.Spawn(pos, components.Susceptible, u.rng), attempt, true
	}
	return agents.Human{}, u.placementAttempts, false
}

// overlaps tests raw geometry: the dead still occupy their spot.
func (u *Universe) overlaps(probe *agents.Human) bool {
	for i := range u.humans {
		d := u.humans[i].Pos.Sub(probe.Pos)
		r := u.humans[i].Thickness + probe.Thickness
		if d.LengthSq() <= r*r {
			return true
		}
	}
	return false
}

// String summarises the universe for logs.
func (u *Universe) String() string {
	c := u.Counts()
	return fmt.Sprintf("universe{%vx%v tick=%d S=%d I=%d R=%d D=%d}",
		u.width, u.height, u.ticks, c.Susceptible, c.Infected, c.Removed, c.Died)
}
