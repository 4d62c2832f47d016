package telemetry

import (
	"fmt"
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkHuntBreakthrough BookmarkType = "hunt_breakthrough"
	BookmarkPreyCrash        BookmarkType = "prey_crash"
	BookmarkStarvationWave   BookmarkType = "starvation_wave"
	BookmarkPackCollapse     BookmarkType = "pack_collapse"
	BookmarkStableEcosystem  BookmarkType = "stable_ecosystem"
)

// Bookmark marks a window worth revisiting.
type Bookmark struct {
	RunID       string       `csv:"run_id"`
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"run_id", b.RunID,
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// Detection thresholds.
const (
	breakthroughFactor = 2.0  // kill rate over the rolling average
	breakthroughKills  = 3    // minimum kills in the window
	crashDrop          = 0.30 // fraction below the prey peak
	crashMinLoss       = 10
	starvationShare    = 4 // one starved predator in this many is a wave
	collapseMinPeak    = 4
	stableSpan         = 4   // windows compared for stability
	stableMaxCV        = 0.2 // coefficient of variation limit
	stableTrigger      = 5   // consecutive stable windows before the bookmark
	stableMinPrey      = 10
	stableMinPred      = 2
)

// window is a fixed-size ring of past WindowStats, oldest first.
type window struct {
	buf  []WindowStats
	next int
	full bool
}

func (w *window) push(s WindowStats) {
	w.buf[w.next] = s
	w.next = (w.next + 1) % len(w.buf)
	if w.next == 0 {
		w.full = true
	}
}

func (w *window) len() int {
	if w.full {
		return len(w.buf)
	}
	return w.next
}

// last returns the n most recent entries in order.
func (w *window) last(n int) []WindowStats {
	n = min(n, w.len())
	out := make([]WindowStats, n)
	for i := range n {
		idx := (w.next - n + i + len(w.buf)) % len(w.buf)
		out[i] = w.buf[idx]
	}
	return out
}

// BookmarkDetector watches window stats for notable moments. Each rule sees
// the new window and the history before it.
type BookmarkDetector struct {
	history *window

	preyPeak     int // since the last crash
	predPeak     int // since the last collapse
	stableStreak int
}

// NewBookmarkDetector creates a detector remembering historySize windows.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	historySize = max(historySize, stableTrigger)
	return &BookmarkDetector{
		history: &window{buf: make([]WindowStats, historySize)},
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var found []Bookmark
	if bd.history.len() > 0 {
		rules := []func(WindowStats) (string, BookmarkType, bool){
			bd.huntBreakthrough,
			bd.preyCrash,
			bd.starvationWave,
			bd.packCollapse,
			bd.stableEcosystem,
		}
		for _, rule := range rules {
			if desc, typ, ok := rule(stats); ok {
				found = append(found, Bookmark{Type: typ, Tick: stats.WindowEndTick, Description: desc})
			}
		}
	}

	bd.history.push(stats)
	bd.preyPeak = max(bd.preyPeak, stats.PreyCount)
	bd.predPeak = max(bd.predPeak, stats.PredCount)
	return found
}

func (bd *BookmarkDetector) huntBreakthrough(s WindowStats) (string, BookmarkType, bool) {
	past := bd.history.last(bd.history.len())
	if len(past) < 3 || s.Hits == 0 || s.Kills < breakthroughKills {
		return "", "", false
	}

	var kills, hits int
	for _, h := range past {
		kills += h.Kills
		hits += h.Hits
	}
	if hits == 0 || kills == 0 {
		return "", "", false
	}

	avg := float64(kills) / float64(hits)
	if s.KillRate <= avg*breakthroughFactor {
		return "", "", false
	}
	return fmt.Sprintf("Kill rate %.2f is %.1fx average (%.2f)", s.KillRate, s.KillRate/avg, avg),
		BookmarkHuntBreakthrough, true
}

func (bd *BookmarkDetector) preyCrash(s WindowStats) (string, BookmarkType, bool) {
	peak := bd.preyPeak
	if peak == 0 {
		return "", "", false
	}
	drop := 1.0 - float64(s.PreyCount)/float64(peak)
	if drop <= crashDrop || s.PreyCount >= peak-crashMinLoss {
		return "", "", false
	}

	bd.preyPeak = s.PreyCount
	return fmt.Sprintf("Prey crashed %.0f%% from peak %d to %d", drop*100, peak, s.PreyCount),
		BookmarkPreyCrash, true
}

func (bd *BookmarkDetector) starvationWave(s WindowStats) (string, BookmarkType, bool) {
	if s.PredStarved < 2 {
		return "", "", false
	}
	// Pack size at window start is survivors plus the starved.
	before := s.PredCount + s.PredStarved
	if s.PredStarved*starvationShare < before {
		return "", "", false
	}
	return fmt.Sprintf("%d of %d predators starved (hunger mean %.2f)", s.PredStarved, before, s.PredHungerMean),
		BookmarkStarvationWave, true
}

func (bd *BookmarkDetector) packCollapse(s WindowStats) (string, BookmarkType, bool) {
	peak := bd.predPeak
	if peak < collapseMinPeak || s.PredCount*2 > peak {
		return "", "", false
	}

	bd.predPeak = s.PredCount
	return fmt.Sprintf("Predators fell from peak %d to %d", peak, s.PredCount),
		BookmarkPackCollapse, true
}

func (bd *BookmarkDetector) stableEcosystem(s WindowStats) (string, BookmarkType, bool) {
	if s.PreyCount < stableMinPrey || s.PredCount < stableMinPred {
		bd.stableStreak = 0
		return "", "", false
	}

	recent := bd.history.last(stableSpan)
	if len(recent) < stableSpan {
		return "", "", false
	}

	prey := make([]float64, len(recent))
	pred := make([]float64, len(recent))
	for i, h := range recent {
		prey[i] = float64(h.PreyCount)
		pred[i] = float64(h.PredCount)
	}

	if coefficientOfVariation(prey) < stableMaxCV && coefficientOfVariation(pred) < stableMaxCV {
		bd.stableStreak++
	} else {
		bd.stableStreak = 0
	}

	// Fires once per stable stretch.
	if bd.stableStreak != stableTrigger {
		return "", "", false
	}
	return fmt.Sprintf("Stable ecosystem with %d prey, %d predators over %d+ windows", s.PreyCount, s.PredCount, stableTrigger),
		BookmarkStableEcosystem, true
}

func coefficientOfVariation(xs []float64) float64 {
	mean, std := stat.PopMeanStdDev(xs, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}
