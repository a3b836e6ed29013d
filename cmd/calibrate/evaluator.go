package main

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/contagion/config"
	"github.com/pthm-cable/contagion/game"
)

// Parameter is the calibrated knob: the default population's vulnerability.
type Parameter struct {
	Name    string
	Min     float64
	Max     float64
	Default float64
}

// Vulnerability returns the parameter seeded from cfg.
func Vulnerability(cfg *config.Config) Parameter {
	return Parameter{Name: "vulnerability", Min: 0.001, Max: 1, Default: cfg.Population.Vulnerability}
}

// Clamp restricts x to [Min, Max].
func (p Parameter) Clamp(x float64) float64 {
	return math.Max(p.Min, math.Min(p.Max, x))
}

// Apply writes the clamped value into cfg.
func (p Parameter) Apply(cfg *config.Config, x float64) {
	cfg.Population.Vulnerability = p.Clamp(x)
}

// Evaluation is one loss computation, logged to evaluations.csv.
type Evaluation struct {
	Eval          int     `csv:"eval"`
	Vulnerability float64 `csv:"vulnerability"`
	AttackRate    float64 `csv:"attack_rate"`
	AttackRateStd float64 `csv:"attack_rate_std"`
	MeanTicks     float64 `csv:"mean_ticks"`
	Loss          float64 `csv:"loss"`
}

// Evaluator runs headless outbreaks and scores a vulnerability against
// the target attack rate.
type Evaluator struct {
	param    Parameter
	base     *config.Config
	target   float64
	seeds    []int64
	maxTicks uint64

	mu    sync.Mutex
	count int
	best  Evaluation
}

// NewEvaluator creates an evaluator.
func NewEvaluator(base *config.Config, target float64, seeds []int64, maxTicks uint64) *Evaluator {
	return &Evaluator{
		param:    Vulnerability(base),
		base:     base,
		target:   target,
		seeds:    seeds,
		maxTicks: maxTicks,
		best:     Evaluation{Loss: math.Inf(1)},
	}
}

// Evaluate runs every seed in parallel and returns the squared error of
// the mean attack rate.
func (e *Evaluator) Evaluate(x float64) (Evaluation, error) {
	v := e.param.Clamp(x)

	rates := make([]float64, len(e.seeds))
	ticks := make([]float64, len(e.seeds))
	errs := make([]error, len(e.seeds))
	var wg sync.WaitGroup
	for i, seed := range e.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			rates[idx], ticks[idx], errs[idx] = e.run(v, s)
		}(i, seed)
	}
	wg.Wait()
	if err := errors.Join(errs...); err != nil {
		return Evaluation{}, err
	}

	mean, std := stat.MeanStdDev(rates, nil)
	if len(rates) < 2 {
		std = 0
	}
	diff := mean - e.target

	e.mu.Lock()
	defer e.mu.Unlock()
	e.count++
	ev := Evaluation{
		Eval:          e.count,
		Vulnerability: v,
		AttackRate:    mean,
		AttackRateStd: std,
		MeanTicks:     stat.Mean(ticks, nil),
		Loss:          diff * diff,
	}
	if ev.Loss < e.best.Loss {
		e.best = ev
	}
	return ev, nil
}

// Best returns the lowest-loss evaluation so far.
func (e *Evaluator) Best() Evaluation {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.best
}

// Config returns a copy of the base config with vulnerability v applied.
// The viewer address is cleared so parallel runs never bind a port.
func (e *Evaluator) Config(v float64) *config.Config {
	cfg := *e.base
	cfg.Viz.Addr = ""
	e.param.Apply(&cfg, v)
	return &cfg
}

// run simulates one outbreak until it ends or maxTicks is reached and
// returns the final attack rate and tick count.
func (e *Evaluator) run(v float64, seed int64) (attackRate, ticks float64, err error) {
	g, err := game.NewGame(game.Options{
		Seed:           seed,
		Headless:       true,
		StepsPerUpdate: 10,
		Config:         e.Config(v),
	})
	if err != nil {
		return 0, 0, fmt.Errorf("seed %d: %w", seed, err)
	}
	defer g.Unload()

	for !g.Done() && g.Tick() < e.maxTicks {
		g.UpdateHeadless()
	}

	c := g.Universe().Counts()
	total := c.Total()
	if total == 0 {
		return 0, float64(g.Tick()), nil
	}
	return float64(total-c.Susceptible) / float64(total), float64(g.Tick()), nil
}
