package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated epidemic statistics for a tick window.
type WindowStats struct {
	WindowStartTick uint64  `csv:"-"`
	WindowEndTick   uint64  `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Health counts at window end
	Susceptible int `csv:"susceptible"`
	Infected    int `csv:"infected"`
	Removed     int `csv:"removed"`
	Died        int `csv:"died"`
	Population  int `csv:"population"`

	// Events during window
	Collisions    int `csv:"collisions"`
	NewInfections int `csv:"new_infections"`
	Recoveries    int `csv:"recoveries"`
	Deaths        int `csv:"deaths"`

	// Fraction of the population ever infected
	AttackRate float64 `csv:"attack_rate"`
	// New infections per resolved case in the window (0 when nothing resolved)
	ReproductionRatio float64 `csv:"reproduction_ratio"`

	// Age of running infections in ticks (sampled at window end)
	InfectionAgeMean float64 `csv:"infection_age_mean"`
	InfectionAgeStd  float64 `csv:"infection_age_std"`
	InfectionAgeP50  float64 `csv:"infection_age_p50"`
	InfectionAgeP90  float64 `csv:"infection_age_p90"`
}

// Distribution summarises a sample with gonum/stat.
// Returns zeros for an empty sample.
func Distribution(values []float64) (mean, std, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mean, std = stat.PopMeanStdDev(sorted, nil)
	p50 = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	p90 = stat.Quantile(0.9, stat.Empirical, sorted, nil)
	return mean, std, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_start", s.WindowStartTick),
		slog.Uint64("window_end", s.WindowEndTick),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("susceptible", s.Susceptible),
		slog.Int("infected", s.Infected),
		slog.Int("removed", s.Removed),
		slog.Int("died", s.Died),
		slog.Int("collisions", s.Collisions),
		slog.Int("new_infections", s.NewInfections),
		slog.Int("recoveries", s.Recoveries),
		slog.Int("deaths", s.Deaths),
		slog.Float64("attack_rate", s.AttackRate),
		slog.Float64("reproduction_ratio", s.ReproductionRatio),
		slog.Float64("infection_age_mean", s.InfectionAgeMean),
		slog.Float64("infection_age_p90", s.InfectionAgeP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
