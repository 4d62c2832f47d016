package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/savanna/config"
	"github.com/pthm-cable/savanna/game"
	"github.com/pthm-cable/savanna/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
	lastFailure string
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10.0,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// LastFailure returns how the first failing seed of the most recent
// evaluation ended, or "" if every seed survived.
func (fe *FitnessEvaluator) LastFailure() string {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastFailure
}

// A run fails when prey stay below minViablePrey, or pinned at the
// population cap, for longer than the grace period.
const (
	minViablePrey      = 5
	extinctionGraceSec = 30.0
	warmupSec          = 5.0
)

// Run outcomes.
const (
	outcomeSurvived   = ""
	outcomeExtinct    = "prey_extinct"
	outcomeSaturated  = "prey_saturated"
	outcomeBuildError = "invalid_config"
)

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalTicks int32 // ticks before failure, or maxTicks
	outcome       string
	windowStats   []telemetry.WindowStats
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
	outcome string
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	// Games share no state, so seeds run in parallel.
	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			r := fe.runSimulation(x, s)
			quality := computeQuality(r.windowStats, fe.statsWindow)
			results[idx] = seedResult{
				fitness: computeFitness(r.survivalTicks, quality),
				quality: quality,
				outcome: r.outcome,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	failure := outcomeSurvived
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		if failure == outcomeSurvived {
			failure = r.outcome
		}
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.lastFailure = failure
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless simulation run until failure or
// maxTicks, whichever comes first.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	result := &runResult{}
	g, err := game.NewGame(cfg, game.Options{
		Seed:           seed,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		result.outcome = outcomeBuildError
		return result
	}
	defer g.Unload()

	dt := cfg.Physics.DT
	graceTicks := int32(extinctionGraceSec / dt)
	warmupTicks := int32(warmupSec / dt)
	maxPrey := cfg.Population.MaxPrey

	var lowTicks, capTicks int32
	for g.Tick() < fe.maxTicks {
		g.Update()

		tick := g.Tick()
		if tick < warmupTicks {
			continue
		}

		prey, _ := g.Counts()
		if prey == 0 {
			result.survivalTicks = tick
			result.outcome = outcomeExtinct
			return result
		}

		if prey < minViablePrey {
			lowTicks++
		} else {
			lowTicks = 0
		}
		if maxPrey > 0 && prey >= maxPrey {
			capTicks++
		} else {
			capTicks = 0
		}

		if lowTicks >= graceTicks {
			result.survivalTicks = tick
			result.outcome = outcomeExtinct
			return result
		}
		if capTicks >= graceTicks {
			result.survivalTicks = tick
			result.outcome = outcomeSaturated
			return result
		}
	}

	result.survivalTicks = fe.maxTicks
	return result
}

// computeFitness returns -(survivalTicks × (1 + 0.2 × quality)).
// Survival dominates; quality separates configs that survive equally long.
func computeFitness(survivalTicks int32, quality float64) float64 {
	return -(float64(survivalTicks) * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightRatio     = 0.35
	qualityWeightStability = 0.35
	qualityWeightHunting   = 0.30

	qualityWarmupWindows = 3 // skip first N windows
	targetPreyPerPred    = 8.0
	targetKillRate       = 0.05 // kills per predator per second
)

// computeQuality scores ecosystem quality in [0, 1] from window stats.
func computeQuality(windows []telemetry.WindowStats, windowSec float64) float64 {
	if len(windows) <= qualityWarmupWindows {
		return 0
	}

	var ratioSum, huntSum float64
	var ratioCount int
	preyCounts := make([]float64, 0, len(windows))

	for _, w := range windows[qualityWarmupWindows:] {
		if w.PreyCount < minViablePrey || w.PredCount == 0 {
			continue
		}
		preyCounts = append(preyCounts, float64(w.PreyCount))

		ratio := float64(w.PreyCount) / float64(w.PredCount)
		logErr := math.Log(ratio / targetPreyPerPred)
		ratioSum += math.Exp(-logErr * logErr)
		ratioCount++

		perPred := float64(w.Kills) / float64(w.PredCount) / windowSec
		huntSum += math.Exp(-math.Pow((perPred-targetKillRate)/targetKillRate, 2))
	}

	if ratioCount == 0 {
		return 0
	}

	ratioScore := ratioSum / float64(ratioCount)
	huntScore := huntSum / float64(ratioCount)

	stabilityScore := 0.0
	if len(preyCounts) >= 2 {
		mean, std := stat.MeanStdDev(preyCounts, nil)
		if mean > 0 {
			cv := std / mean
			stabilityScore = math.Exp(-cv * cv)
		}
	}

	quality := qualityWeightRatio*ratioScore +
		qualityWeightStability*stabilityScore +
		qualityWeightHunting*huntScore

	return min(max(quality, 0), 1)
}
