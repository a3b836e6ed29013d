// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/contagion/agents"
	"github.com/pthm-cable/contagion/universe"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Arena      ArenaConfig      `yaml:"arena"`
	Population PopulationConfig `yaml:"population"`
	AgeGroups  []AgeGroupConfig `yaml:"age_groups"`
	Disease    DiseaseConfig    `yaml:"disease"`
	Zone       ZoneConfig       `yaml:"zone"`
	Placement  PlacementConfig  `yaml:"placement"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Viz        VizConfig        `yaml:"viz"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// ArenaConfig holds the simulated arena dimensions in world units.
type ArenaConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PopulationConfig describes the unparameterized part of the population.
type PopulationConfig struct {
	Initial       int     `yaml:"initial"`
	Thickness     float64 `yaml:"thickness"`     // collision radius
	Activity      float64 `yaml:"activity"`      // speed in world units per tick
	Vulnerability float64 `yaml:"vulnerability"` // infection probability per contact
	Letality      float64 `yaml:"letality"`      // death probability once resolved
}

// AgeGroupConfig defines a cohort spawned alongside the default population.
type AgeGroupConfig struct {
	Name          string  `yaml:"name"`
	Size          int     `yaml:"size"`
	Activity      float64 `yaml:"activity"`
	Vulnerability float64 `yaml:"vulnerability"`
	Letality      float64 `yaml:"letality"`
	Thickness     float64 `yaml:"thickness"` // 0 = cohort default
}

// DiseaseConfig shapes the resolve ramp of an infection.
type DiseaseConfig struct {
	HalfLifeSec    float64 `yaml:"half_life_sec"`
	TicksPerSecond float64 `yaml:"ticks_per_second"`
	Threshold      float64 `yaml:"threshold"`
}

// ZoneConfig holds the quarantine zone boundaries.
type ZoneConfig struct {
	Enabled bool    `yaml:"enabled"`
	X1      float64 `yaml:"x1"` // quarantine is left of x1
	X2      float64 `yaml:"x2"` // free region is right of x2
}

// PlacementConfig bounds the random placement of new humans.
type PlacementConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindowTicks     int     `yaml:"stats_window_ticks"`
	MilestoneHistory     int     `yaml:"milestone_history"`
	PerfWindow           int     `yaml:"perf_window"`
	MassCasualtyFraction float64 `yaml:"mass_casualty_fraction"`
	PeakDropFraction     float64 `yaml:"peak_drop_fraction"`
}

// VizConfig holds the websocket viewer settings.
type VizConfig struct {
	Addr       string `yaml:"addr"`        // empty = disabled
	FrameEvery int    `yaml:"frame_every"` // publish every Nth tick
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	PopulationSize int // Population.Initial plus all age groups
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	cfg.computeDerived()

	return cfg, nil
}

// Validate reports every inconsistent setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Arena.Width <= 0 || c.Arena.Height <= 0 {
		errs = append(errs, fmt.Errorf("arena: size %vx%v must be positive", c.Arena.Width, c.Arena.Height))
	}
	if c.Population.Initial < 0 {
		errs = append(errs, fmt.Errorf("population: initial %d is negative", c.Population.Initial))
	}
	if c.Population.Thickness <= 0 {
		errs = append(errs, fmt.Errorf("population: thickness %v must be positive", c.Population.Thickness))
	}
	if c.PopulationSpec().Size() == 0 {
		errs = append(errs, errors.New("population: no humans configured"))
	}
	if c.Population.Initial > 0 {
		if err := c.PopulationSpec().Default.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("population: %w", err))
		}
	}
	for _, g := range c.PopulationSpec().Groups {
		if err := g.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Disease.TicksPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("disease: ticks_per_second %v must be positive", c.Disease.TicksPerSecond))
	}
	if c.Disease.Threshold <= 0 || c.Disease.Threshold > 0.5 {
		errs = append(errs, fmt.Errorf("disease: threshold %v outside (0, 0.5]", c.Disease.Threshold))
	}
	if c.Zone.Enabled {
		if err := c.ZoneSpec().Validate(c.Arena.Width); err != nil {
			errs = append(errs, fmt.Errorf("zone: %w", err))
		}
	}
	if c.Telemetry.StatsWindowTicks <= 0 {
		errs = append(errs, fmt.Errorf("telemetry: stats_window_ticks %d must be positive", c.Telemetry.StatsWindowTicks))
	}
	return errors.Join(errs...)
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.PopulationSize = c.PopulationSpec().Size()

	if c.Viz.FrameEvery < 1 {
		c.Viz.FrameEvery = 1
	}
	if c.Placement.MaxAttempts < 1 {
		c.Placement.MaxAttempts = universe.DefaultPlacementAttempts
	}
}

// PopulationSpec converts the population sections into an engine spec.
func (c *Config) PopulationSpec() universe.PopulationSpec {
	spec := universe.PopulationSpec{
		Default: agents.AgeGroup{
			Name:          "default",
			Size:          c.Population.Initial,
			Activity:      c.Population.Activity,
			Vulnerability: c.Population.Vulnerability,
			Letality:      c.Population.Letality,
			Thickness:     c.Population.Thickness,
		},
	}
	for _, g := range c.AgeGroups {
		spec.Groups = append(spec.Groups, g.AgeGroup())
	}
	return spec
}

// AgeGroup converts the cohort config into an engine age group.
func (g AgeGroupConfig) AgeGroup() agents.AgeGroup {
	return agents.AgeGroup{
		Name:          g.Name,
		Size:          g.Size,
		Activity:      g.Activity,
		Vulnerability: g.Vulnerability,
		Letality:      g.Letality,
		Thickness:     g.Thickness,
	}
}

// Course returns the disease course.
func (c *Config) Course() agents.DiseaseCourse {
	return agents.DiseaseCourse{
		HalfLifeSec:    c.Disease.HalfLifeSec,
		TicksPerSecond: c.Disease.TicksPerSecond,
		Threshold:      c.Disease.Threshold,
	}
}

// ZoneSpec returns the configured zone boundaries.
func (c *Config) ZoneSpec() universe.Zone {
	return universe.Zone{X1: c.Zone.X1, X2: c.Zone.X2}
}

// UniverseOptions returns the engine options implied by the config.
func (c *Config) UniverseOptions() []universe.Option {
	opts := []universe.Option{
		universe.WithCourse(c.Course()),
		universe.WithPlacementAttempts(c.Placement.MaxAttempts),
	}
	if c.Zone.Enabled {
		opts = append(opts, universe.WithZone(c.ZoneSpec()))
	}
	return opts
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
