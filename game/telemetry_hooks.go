package game

import (
	"log/slog"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/telemetry"
)

// flushTelemetry closes the stats window when it is due: it samples the
// population, writes CSV rows and checks for bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.sample())
	stats.RunID = g.outputManager.RunID()
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	prey, preds := g.registry.Counts()
	if err := g.outputManager.WriteTelemetry(stats); err != nil {
		slog.Error("failed to write telemetry", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick, prey+preds); err != nil {
		slog.Error("failed to write perf", "error", err)
	}
	g.writeEvents()

	for _, bm := range g.bookmarkDetector.Check(stats) {
		bm.RunID = stats.RunID
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
	}
}

// writeEvents appends the buffered events to events.csv and clears them.
func (g *Game) writeEvents() {
	if len(g.events) == 0 {
		return
	}
	if err := g.outputManager.WriteEvents(g.events); err != nil {
		slog.Error("failed to write events", "error", err)
	}
	g.events = g.events[:0]
}

// sample observes the population at the end of a window.
func (g *Game) sample() telemetry.Sample {
	s := telemetry.Sample{
		SimTimeSec: g.simTime,
		Birds:      g.birds.Len(),
	}

	preyQuery := g.registry.preyFilter.Query()
	for preyQuery.Next() {
		_, _, p := preyQuery.Get()
		if p.Dead {
			s.Corpses++
			continue
		}
		s.Prey++
		if p.Fleeing {
			s.Fleeing++
		}
		s.PreyHealth = append(s.PreyHealth, float64(p.Health))
		s.PreyFatigue = append(s.PreyFatigue, float64(p.Fatigue))
	}

	predQuery := g.registry.predFilter.Query()
	for predQuery.Next() {
		_, _, p := predQuery.Get()
		s.Predators++
		switch p.State {
		case components.Chasing:
			s.Chasing++
		case components.Eating:
			s.Eating++
		case components.PostEatCooldown:
			s.Resting++
		}
		s.PredHunger = append(s.PredHunger, float64(p.Hunger))
	}

	return s
}
