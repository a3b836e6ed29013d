// Package main calibrates the default population's vulnerability so that
// headless outbreaks reach a target attack rate.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/contagion/config"
)

// formatDuration formats a duration as 1h02m03s or 2m03s.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	target := flag.Float64("target", 0.5, "Target attack rate in (0, 1)")
	seeds := flag.Int("seeds", 4, "Number of seeds per evaluation")
	maxTicks := flag.Int("max-ticks", 20000, "Maximum ticks per run")
	maxEvals := flag.Int("max-evals", 40, "Maximum number of evaluations")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn})))
	progress := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := run(progress, *configPath, *target, *seeds, *maxTicks, *maxEvals, *outputDir); err != nil {
		progress.Error("calibration failed", "error", err)
		os.Exit(1)
	}
}

func run(log *slog.Logger, configPath string, target float64, nSeeds, maxTicks, maxEvals int, outputDir string) error {
	if outputDir == "" {
		return fmt.Errorf("-output is required")
	}
	if target <= 0 || target >= 1 {
		return fmt.Errorf("-target %v outside (0, 1)", target)
	}
	if nSeeds < 1 {
		return fmt.Errorf("-seeds must be at least 1")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	baseCfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	evalSeeds := make([]int64, nSeeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewEvaluator(baseCfg, target, evalSeeds, uint64(maxTicks))

	logFile, err := os.Create(filepath.Join(outputDir, "evaluations.csv"))
	if err != nil {
		return fmt.Errorf("creating evaluations log: %w", err)
	}
	defer logFile.Close()

	var (
		headerWritten bool
		evalErr       error
		start         = time.Now()
	)
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			if evalErr != nil {
				return math.Inf(1)
			}
			ev, err := evaluator.Evaluate(x[0])
			if err != nil {
				evalErr = err
				return math.Inf(1)
			}

			rows := []Evaluation{ev}
			if headerWritten {
				err = gocsv.MarshalWithoutHeaders(rows, logFile)
			} else {
				err = gocsv.Marshal(rows, logFile)
				headerWritten = true
			}
			if err != nil {
				log.Warn("failed to write evaluation", "error", err)
			}

			elapsed := time.Since(start)
			remaining := time.Duration(maxEvals-ev.Eval) * (elapsed / time.Duration(ev.Eval))
			log.Info("evaluation",
				"eval", ev.Eval,
				"vulnerability", ev.Vulnerability,
				"attack_rate", ev.AttackRate,
				"loss", ev.Loss,
				"elapsed", formatDuration(elapsed),
				"eta", formatDuration(remaining),
			)
			return ev.Loss
		},
	}

	settings := &optimize.Settings{
		FuncEvaluations: maxEvals,
		Converger: &optimize.FunctionConverge{
			Absolute:   1e-6,
			Iterations: 8,
		},
	}
	method := &optimize.NelderMead{SimplexSize: 0.2}

	log.Info("starting calibration",
		"target", target,
		"initial_vulnerability", baseCfg.Population.Vulnerability,
		"seeds", nSeeds,
		"max_ticks", maxTicks,
		"max_evals", maxEvals,
	)

	result, err := optimize.Minimize(problem, []float64{baseCfg.Population.Vulnerability}, settings, method)
	if evalErr != nil {
		return evalErr
	}
	if err != nil {
		log.Warn("optimization ended", "error", err)
	}

	best := evaluator.Best()
	var status string
	var evals int
	if result != nil {
		status = result.Status.String()
		evals = result.Stats.FuncEvaluations
	}
	log.Info("calibration complete",
		"evaluations", evals,
		"best_eval", best.Eval,
		"status", status,
		"best_vulnerability", best.Vulnerability,
		"attack_rate", best.AttackRate,
		"loss", best.Loss,
		"duration", formatDuration(time.Since(start)),
	)

	bestPath := filepath.Join(outputDir, "best_config.yaml")
	if err := evaluator.Config(best.Vulnerability).WriteYAML(bestPath); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	log.Info("best config saved", "path", bestPath)
	return nil
}
