package telemetry

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Phase identifies one stage of the simulation step.
type Phase uint8

// Step phases, in execution order.
const (
	PhaseSnapshot Phase = iota
	PhasePrey
	PhasePredators
	PhaseCommit
	PhaseReproduction
	PhaseBirds
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{
	"snapshot", "prey", "predators", "commit", "reproduction", "birds", "telemetry",
}

func (p Phase) String() string {
	if p < numPhases {
		return phaseNames[p]
	}
	return "unknown"
}

// phaseTimes holds per-phase durations for one tick.
type phaseTimes [numPhases]time.Duration

// PerfCollector keeps the last windowSize tick timings.
type PerfCollector struct {
	ticks  []time.Duration
	phases []phaseTimes
	next   int
	count  int

	current    phaseTimes
	tickStart  time.Time
	phaseStart time.Time
	active     bool // a phase is being timed
	phase      Phase

	// Frame timing (graphics mode)
	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		ticks:  make([]time.Duration, windowSize),
		phases: make([]phaseTimes, windowSize),
	}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = phaseTimes{}
	p.active = false
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
	p.active = true
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.active && p.phase < numPhases {
		p.current[p.phase] += now.Sub(p.phaseStart)
	}
	p.active = false
}

// EndTick finishes timing the current tick and records the sample.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)

	p.ticks[p.next] = now.Sub(p.tickStart)
	p.phases[p.next] = p.current
	p.next = (p.next + 1) % len(p.ticks)
	p.count = min(p.count+1, len(p.ticks))
}

// RecordFrame records frame timing for graphics mode.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats aggregates timing over the collector's window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	P95TickDuration time.Duration

	// Per-phase average duration and share of the average tick
	PhaseAvg [numPhases]time.Duration
	PhasePct [numPhases]float64

	TicksPerSecond float64

	// Frame timing (graphics mode)
	FrameDuration time.Duration
	FPS           float64
}

// Stats computes aggregated statistics over the current window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{FrameDuration: p.frame}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return s
	}

	samples := make([]float64, p.count)
	var total time.Duration
	var phaseSum phaseTimes
	for i := range p.count {
		d := p.ticks[i]
		samples[i] = float64(d)
		total += d
		for ph, pd := range p.phases[i] {
			phaseSum[ph] += pd
		}
	}
	sort.Float64s(samples)

	n := time.Duration(p.count)
	s.AvgTickDuration = total / n
	s.MinTickDuration = time.Duration(samples[0])
	s.MaxTickDuration = time.Duration(samples[len(samples)-1])
	s.P95TickDuration = time.Duration(stat.Quantile(0.95, stat.Empirical, samples, nil))

	for ph := range phaseSum {
		s.PhaseAvg[ph] = phaseSum[ph] / n
		if s.AvgTickDuration > 0 {
			s.PhasePct[ph] = float64(s.PhaseAvg[ph]) / float64(s.AvgTickDuration) * 100
		}
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	return s
}

// LogStats logs the stats at info level, skipping negligible phases.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"p95_tick_us", s.P95TickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for ph, pct := range s.PhasePct {
		if pct > 0.1 {
			attrs = append(attrs, Phase(ph).String()+"_pct", math.Round(pct*10)/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("p95_tick_us", s.P95TickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for ph, pct := range s.PhasePct {
		attrs = append(attrs, slog.Float64(Phase(ph).String()+"_pct", pct))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	RunID           string  `csv:"run_id"`
	WindowEnd       int32   `csv:"window_end"`
	Agents          int     `csv:"agents"`
	AvgTickUS       int64   `csv:"avg_tick_us"`
	MinTickUS       int64   `csv:"min_tick_us"`
	P95TickUS       int64   `csv:"p95_tick_us"`
	MaxTickUS       int64   `csv:"max_tick_us"`
	TicksPerSec     float64 `csv:"ticks_per_sec"`
	FPS             float64 `csv:"fps"`
	SnapshotPct     float64 `csv:"snapshot_pct"`
	PreyPct         float64 `csv:"prey_pct"`
	PredatorsPct    float64 `csv:"predators_pct"`
	CommitPct       float64 `csv:"commit_pct"`
	ReproductionPct float64 `csv:"reproduction_pct"`
	BirdsPct        float64 `csv:"birds_pct"`
	TelemetryPct    float64 `csv:"telemetry_pct"`
}

// ToCSV flattens the stats. agents is the live agent count at the end of
// the window, for per-agent cost plots.
func (s PerfStats) ToCSV(windowEnd int32, agents int) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:       windowEnd,
		Agents:          agents,
		AvgTickUS:       s.AvgTickDuration.Microseconds(),
		MinTickUS:       s.MinTickDuration.Microseconds(),
		P95TickUS:       s.P95TickDuration.Microseconds(),
		MaxTickUS:       s.MaxTickDuration.Microseconds(),
		TicksPerSec:     s.TicksPerSecond,
		FPS:             s.FPS,
		SnapshotPct:     s.PhasePct[PhaseSnapshot],
		PreyPct:         s.PhasePct[PhasePrey],
		PredatorsPct:    s.PhasePct[PhasePredators],
		CommitPct:       s.PhasePct[PhaseCommit],
		ReproductionPct: s.PhasePct[PhaseReproduction],
		BirdsPct:        s.PhasePct[PhaseBirds],
		TelemetryPct:    s.PhasePct[PhaseTelemetry],
	}
}
