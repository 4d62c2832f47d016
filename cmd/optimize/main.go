// Package main tunes simulation parameters with CMA-ES, searching for
// configs under which prey and predators coexist.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/savanna/config"
)

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 200000, "Maximum simulation duration in ticks (cap)")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}
	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	base := config.Cfg()

	params := NewParamVector()
	evalSeeds := make([]int64, *seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}

	evalLog, err := createEvalLog(filepath.Join(*outputDir, "optimize_log.csv"), params)
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer evalLog.Close()

	t := &tuner{
		params:    params,
		evaluator: NewFitnessEvaluator(params, int32(*maxTicks), evalSeeds, base),
		log:       evalLog,
		maxEvals:  *maxEvals,
		dt:        base.Physics.DT,
		best:      1e9,
		start:     time.Now(),
	}

	popSize := *population
	if popSize == 0 {
		popSize = 4 + 3*params.Dim()/2
	}

	fmt.Printf("Starting CMA-ES optimization with %d parameters, population=%d, max_evals=%d\n",
		params.Dim(), popSize, *maxEvals)
	fmt.Printf("Seeds per evaluation: %d, ticks per run: %d\n", *seeds, *maxTicks)

	result, err := optimize.Minimize(
		optimize.Problem{Func: t.objective},
		params.Normalize(params.ExtractFromConfig(base)),
		// Evaluations run one at a time; each one runs its seeds in parallel.
		&optimize.Settings{FuncEvaluations: *maxEvals},
		&optimize.CmaEsChol{InitStepSize: 0.3, Population: popSize},
	)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}

	bestParams := t.bestParams
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluations completed")
	}

	fmt.Printf("\nOptimization complete after %d evaluations in %s\n", t.evals, formatDuration(time.Since(t.start)))
	fmt.Printf("Best fitness: %.0f\n\nBest parameters:\n", t.best)
	for i, spec := range params.Specs {
		fmt.Printf("  %-24s %.6f  (%s)\n", spec.Name, bestParams[i], spec.Path)
	}

	bestCfg := base.Clone()
	params.ApplyToConfig(bestCfg, bestParams)
	if err := bestCfg.Refresh(); err != nil {
		log.Fatalf("best parameters produce an invalid config: %v", err)
	}
	out := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(out); err != nil {
		log.Fatalf("failed to write best config: %v", err)
	}
	fmt.Printf("\nBest config saved to: %s\n", out)
}

// tuner adapts the evaluator to the optimizer and tracks progress.
type tuner struct {
	params    *ParamVector
	evaluator *FitnessEvaluator
	log       *evalLog
	maxEvals  int
	dt        float64

	evals      int
	best       float64
	bestParams []float64
	start      time.Time
}

// objective scores one normalized point. Out-of-range values are clamped,
// so the log records what actually ran.
func (t *tuner) objective(x []float64) float64 {
	raw := t.params.Clamp(t.params.Denormalize(x))
	fitness := t.evaluator.Evaluate(raw)
	quality := t.evaluator.LastQuality()
	failure := t.evaluator.LastFailure()
	t.evals++

	if fitness < t.best {
		t.best = fitness
		t.bestParams = raw
	}
	if err := t.log.Append(t.evals, fitness, quality, failure, raw); err != nil {
		log.Printf("failed to write log row: %v", err)
	}

	elapsed := time.Since(t.start)
	eta := time.Duration(t.maxEvals-t.evals) * (elapsed / time.Duration(t.evals))
	survivedSec := -fitness / (1.0 + 0.2*quality) * t.dt
	tag := ""
	if failure != "" {
		tag = "[" + failure + "] "
	}
	fmt.Printf("Eval %d/%d: survived=%.0fs quality=%.2f %s(best=%.0f) | elapsed: %s, ETA: %s\n",
		t.evals, t.maxEvals, survivedSec, quality, tag, t.best,
		formatDuration(elapsed), formatDuration(eta))

	return fitness
}

// formatDuration formats a duration as 1h02m03s, or 2m03s under an hour.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
