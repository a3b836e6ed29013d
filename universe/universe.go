// Package universe runs the epidemic simulation: a bounded arena of humans
// that move, bounce off each other, pass on infection and recover or die.
package universe

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/pthm-cable/contagion/agents"
	"github.com/pthm-cable/contagion/components"
)

var (
	ErrEmptyPopulation = errors.New("universe: empty population")
	ErrDegenerateArena = errors.New("universe: degenerate arena")
	ErrPlacement       = errors.New("universe: cannot place agent")
	ErrInvalidZone     = errors.New("universe: invalid zone")
)

// Phase names reported to a PhaseTimer during Tick.
const (
	PhaseIntegrate = "integrate"
	PhaseInteract  = "interact"
	PhaseContain   = "contain"
	PhaseProgress  = "progress"
)

// DefaultPlacementAttempts bounds the rejection sampling per agent.
const DefaultPlacementAttempts = 10000

// PhaseTimer is notified when each tick phase starts.
type PhaseTimer interface {
	StartPhase(name string)
}

// Counts holds the number of humans per health state.
type Counts struct {
	Susceptible int
	Infected    int
	Removed     int
	Died        int
}

// Total returns the population size.
func (c Counts) Total() int {
	return c.Susceptible + c.Infected + c.Removed + c.Died
}

// TickStats holds the events of one tick.
type TickStats struct {
	Collisions int
	Infections int
	Recoveries int
	Deaths     int
}

// Universe owns the population and advances it one tick at a time.
// It is not safe for concurrent use.
type Universe struct {
	width, height float64

	humans  []agents.Human
	scratch []agents.Human // second buffer, swapped on commit
	grid    pairGrid

	// quarantined holds each agent's region at the start of the tick.
	quarantined []bool

	ticks uint64
	zone  *Zone

	rng               agents.Rand
	course            agents.DiseaseCourse
	timer             PhaseTimer
	placementAttempts int

	last TickStats
}

// Option configures a Universe.
type Option func(*Universe)

// WithRand sets the random source. All draws of the simulation come from it.
func WithRand(rng agents.Rand) Option {
	return func(u *Universe) { u.rng = rng }
}

// WithZone enables a quarantine zone.
func WithZone(z Zone) Option {
	return func(u *Universe) { u.zone = &z }
}

// WithCourse sets the disease course.
func WithCourse(c agents.DiseaseCourse) Option {
	return func(u *Universe) { u.course = c }
}

// WithPhaseTimer reports tick phases to t.
func WithPhaseTimer(t PhaseTimer) Option {
	return func(u *Universe) { u.timer = t }
}

// WithPlacementAttempts bounds the random draws used to place one agent.
func WithPlacementAttempts(n int) Option {
	return func(u *Universe) {
		if n > 0 {
			u.placementAttempts = n
		}
	}
}

func newUniverse(width, height float64, opts []Option) (*Universe, error) {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return nil, errorf(ErrDegenerateArena, "size %vx%v", width, height)
	}

	u := &Universe{
		width:             width,
		height:            height,
		course:            agents.DefaultCourse(),
		placementAttempts: DefaultPlacementAttempts,
	}
	for _, opt := range opts {
		opt(u)
	}
	if u.rng == nil {
		u.rng = rand.New(rand.NewSource(1))
	}
	if u.zone != nil {
		if err := u.zone.Validate(width); err != nil {
			return nil, err
		}
	}
	if u.course.TicksPerSecond <= 0 {
		return nil, fmt.Errorf("universe: ticks per second %v must be positive", u.course.TicksPerSecond)
	}
	return u, nil
}

// FromHumans builds a universe around an explicit population.
// The tick counter starts at zero.
func FromHumans(width, height float64, humans []agents.Human, opts ...Option) (*Universe, error) {
	u, err := newUniverse(width, height, opts)
	if err != nil {
		return nil, err
	}
	if len(humans) == 0 {
		return nil, ErrEmptyPopulation
	}
	u.humans = append([]agents.Human(nil), humans...)
	return u, nil
}

// Width returns the arena width.
func (u *Universe) Width() float64 { return u.width }

// Height returns the arena height.
func (u *Universe) Height() float64 { return u.height }

// Ticks returns the number of completed ticks.
func (u *Universe) Ticks() uint64 { return u.ticks }

// Len returns the population size, dead included.
func (u *Universe) Len() int { return len(u.humans) }

// Zone returns the quarantine zone, if any.
func (u *Universe) Zone() (Zone, bool) {
	if u.zone == nil {
		return Zone{}, false
	}
	return *u.zone, true
}

// Course returns the disease course.
func (u *Universe) Course() agents.DiseaseCourse { return u.course }

// Arena returns the containment rectangle of the whole arena.
func (u *Universe) Arena() components.Rect {
	return components.Rect{MaxX: u.width, MaxY: u.height}
}

// Bounds returns the rectangle h is confined to.
func (u *Universe) Bounds(h *agents.Human) components.Rect {
	if u.zone != nil {
		return u.zone.Bounds(h, u.width, u.height)
	}
	return u.Arena()
}

// Tick advances the simulation by one step.
//
// Positions are integrated first, then every pair (i, j) with i < j is
// tested in ascending order; colliding pairs bounce and exchange infection
// immediately, so later pairs see the velocities left by earlier ones.
// Bouncing only changes velocities, so a spatial grid built from the
// integrated positions yields exactly the pairs an all-pairs scan would.
// Containment and disease progression follow. Zone regions are decided
// from start-of-tick positions, so an agent fast enough to clear the strip
// in one tick is still pushed back into its own region. Random draws
// happen in exactly this order.
func (u *Universe) Tick() {
	now := u.ticks + 1
	stats := TickStats{}

	humans := append(u.scratch[:0], u.humans...)
	u.recordRegions(humans)

	u.startPhase(PhaseIntegrate)
	for i := range humans {
		humans[i].Pos = humans[i].Pos.Add(humans[i].Velocity)
	}

	u.startPhase(PhaseInteract)
	for _, p := range u.grid.candidates(humans, u.width, u.height) {
		a, b := &humans[p.i], &humans[p.j]
		if !a.Collide(b) {
			continue
		}
		stats.Collisions++

		a.Bounce(b)

		wasA, wasB := a.IsInfected(), b.IsInfected()
		a.Infect(b, now, u.rng)
		if !wasA && a.IsInfected() {
			stats.Infections++
		}
		if !wasB && b.IsInfected() {
			stats.Infections++
		}
	}

	u.startPhase(PhaseContain)
	for i := range humans {
		humans[i].BounceEdge(u.containment(i))
	}

	u.startPhase(PhaseProgress)
	for i := range humans {
		h := &humans[i]
		if !h.IsInfected() {
			continue
		}
		h.RecoverOrDie(now, u.rng, u.course)
		switch h.Health {
		case components.Removed:
			stats.Recoveries++
		case components.Died:
			stats.Deaths++
		}
	}

	u.scratch = u.humans
	u.humans = humans
	u.ticks = now
	u.last = stats
}

func (u *Universe) recordRegions(humans []agents.Human) {
	if u.zone == nil {
		return
	}
	u.quarantined = u.quarantined[:0]
	for i := range humans {
		u.quarantined = append(u.quarantined, u.zone.Inside(&humans[i]))
	}
}

// containment returns the rectangle agent i is held in this tick.
func (u *Universe) containment(i int) components.Rect {
	if u.zone == nil {
		return u.Arena()
	}
	return u.zone.Region(u.quarantined[i], u.width, u.height)
}

func (u *Universe) startPhase(name string) {
	if u.timer != nil {
		u.timer.StartPhase(name)
	}
}

// LastTick returns the events of the most recent tick.
func (u *Universe) LastTick() TickStats { return u.last }

// Counts returns the number of humans per health state.
func (u *Universe) Counts() Counts {
	var c Counts
	for i := range u.humans {
		switch u.humans[i].Health {
		case components.Susceptible:
			c.Susceptible++
		case components.Infected:
			c.Infected++
		case components.Removed:
			c.Removed++
		case components.Died:
			c.Died++
		}
	}
	return c
}

// Susceptible returns the number of susceptible humans.
func (u *Universe) Susceptible() int { return u.Counts().Susceptible }

// Infected returns the number of infected humans.
func (u *Universe) Infected() int { return u.Counts().Infected }

// Removed returns the number of recovered humans.
func (u *Universe) Removed() int { return u.Counts().Removed }

// Died returns the number of dead humans.
func (u *Universe) Died() int { return u.Counts().Died }

// Human returns a copy of the i-th human.
func (u *Universe) Human(i int) agents.Human { return u.humans[i] }

// Humans returns a copy of the population in index order.
func (u *Universe) Humans() []agents.Human {
	return append([]agents.Human(nil), u.humans...)
}

// Each calls fn with a copy of every human in index order.
func (u *Universe) Each(fn func(i int, h agents.Human)) {
	for i, h := range u.humans {
		fn(i, h)
	}
}
