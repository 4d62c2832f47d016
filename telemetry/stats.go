package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	RunID           string  `csv:"run_id"`
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population counts at window end
	PreyCount int `csv:"prey"`
	Corpses   int `csv:"corpses"`
	PredCount int `csv:"pred"`
	Birds     int `csv:"birds"`

	// Behavior mix at window end
	Fleeing int `csv:"fleeing"`
	Chasing int `csv:"chasing"`
	Eating  int `csv:"eating"`
	Resting int `csv:"resting"`

	// Events during window
	PreyBirths   int `csv:"prey_births"`
	PredBirths   int `csv:"pred_births"`
	PreyConsumed int `csv:"prey_consumed"`
	PreyDecayed  int `csv:"prey_decayed"`
	PredStarved  int `csv:"pred_starved"`

	// Hunting
	Hits        int     `csv:"hits"`
	Kills       int     `csv:"kills"`
	Bites       int     `csv:"bites"`
	TargetsLost int     `csv:"targets_lost"`
	KillRate    float64 `csv:"kill_rate"`

	// Condition distributions (sampled at window end)
	PreyHealthMean  float64 `csv:"prey_health_mean"`
	PreyHealthStd   float64 `csv:"prey_health_std"`
	PreyHealthP10   float64 `csv:"prey_health_p10"`
	PreyHealthP50   float64 `csv:"prey_health_p50"`
	PreyFatigueMean float64 `csv:"prey_fatigue_mean"`
	PreyFatigueP90  float64 `csv:"prey_fatigue_p90"`
	PredHungerMean  float64 `csv:"pred_hunger_mean"`
	PredHungerStd   float64 `csv:"pred_hunger_std"`
	PredHungerP50   float64 `csv:"pred_hunger_p50"`
	PredHungerP90   float64 `csv:"pred_hunger_p90"`
}

// Distribution summarizes a sample of per-agent values.
type Distribution struct {
	Mean float64
	Std  float64
	P10  float64
	P50  float64
	P90  float64
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation between closest ranks
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeStats calculates mean, sample standard deviation and percentiles.
// An empty sample yields the zero Distribution; a single value has Std 0.
func ComputeStats(values []float64) Distribution {
	n := len(values)
	if n == 0 {
		return Distribution{}
	}

	var d Distribution
	if n == 1 {
		d.Mean = values[0]
	} else {
		d.Mean, d.Std = stat.MeanStdDev(values, nil)
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	d.P10 = Percentile(sorted, 0.10)
	d.P50 = Percentile(sorted, 0.50)
	d.P90 = Percentile(sorted, 0.90)
	return d
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("prey", s.PreyCount),
		slog.Int("corpses", s.Corpses),
		slog.Int("pred", s.PredCount),
		slog.Int("birds", s.Birds),
		slog.Int("fleeing", s.Fleeing),
		slog.Int("chasing", s.Chasing),
		slog.Int("eating", s.Eating),
		slog.Int("resting", s.Resting),
		slog.Int("prey_births", s.PreyBirths),
		slog.Int("prey_consumed", s.PreyConsumed),
		slog.Int("prey_decayed", s.PreyDecayed),
		slog.Int("pred_starved", s.PredStarved),
		slog.Int("hits", s.Hits),
		slog.Int("kills", s.Kills),
		slog.Int("bites", s.Bites),
		slog.Float64("kill_rate", s.KillRate),
		slog.Float64("prey_health_mean", s.PreyHealthMean),
		slog.Float64("prey_fatigue_mean", s.PreyFatigueMean),
		slog.Float64("pred_hunger_mean", s.PredHungerMean),
		slog.Float64("pred_hunger_p90", s.PredHungerP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
