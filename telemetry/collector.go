package telemetry

import (
	"math"

	"github.com/pthm-cable/savanna/components"
)

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	windowStartTick int32

	preyBirths  int
	predBirths  int
	hits        int
	kills       int
	bites       int
	consumed    int
	decayed     int
	starved     int
	targetsLost int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(math.Round(windowDurationSec / float64(dt)))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// Record folds one event into the current window's counters.
func (c *Collector) Record(ev Event) {
	switch ev.Type {
	case EventHit:
		c.hits++
	case EventKill:
		c.kills++
	case EventBite:
		c.bites++
	case EventConsumed:
		c.consumed++
	case EventDecayed:
		c.decayed++
	case EventStarved:
		c.starved++
	case EventTargetLost:
		c.targetsLost++
	case EventBirth:
		if ev.Kind == components.KindPrey {
			c.preyBirths++
		} else {
			c.predBirths++
		}
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Sample is the population state observed at the end of a window.
type Sample struct {
	SimTimeSec float64

	Prey      int
	Corpses   int
	Predators int
	Birds     int

	Fleeing int
	Chasing int
	Eating  int
	Resting int

	PreyHealth  []float64
	PreyFatigue []float64
	PredHunger  []float64
}

// Flush produces a WindowStats from the counters and the end-of-window
// sample, then resets the counters for the next window.
func (c *Collector) Flush(currentTick int32, s Sample) WindowStats {
	var killRate float64
	if c.hits > 0 {
		killRate = float64(c.kills) / float64(c.hits)
	}

	health := ComputeStats(s.PreyHealth)
	fatigue := ComputeStats(s.PreyFatigue)
	hunger := ComputeStats(s.PredHunger)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      s.SimTimeSec,

		PreyCount: s.Prey,
		Corpses:   s.Corpses,
		PredCount: s.Predators,
		Birds:     s.Birds,

		Fleeing: s.Fleeing,
		Chasing: s.Chasing,
		Eating:  s.Eating,
		Resting: s.Resting,

		PreyBirths:   c.preyBirths,
		PredBirths:   c.predBirths,
		PreyConsumed: c.consumed,
		PreyDecayed:  c.decayed,
		PredStarved:  c.starved,

		Hits:        c.hits,
		Kills:       c.kills,
		Bites:       c.bites,
		TargetsLost: c.targetsLost,
		KillRate:    killRate,

		PreyHealthMean:  health.Mean,
		PreyHealthStd:   health.Std,
		PreyHealthP10:   health.P10,
		PreyHealthP50:   health.P50,
		PreyFatigueMean: fatigue.Mean,
		PreyFatigueP90:  fatigue.P90,
		PredHungerMean:  hunger.Mean,
		PredHungerStd:   hunger.Std,
		PredHungerP50:   hunger.P50,
		PredHungerP90:   hunger.P90,
	}

	c.windowStartTick = currentTick
	c.preyBirths = 0
	c.predBirths = 0
	c.hits = 0
	c.kills = 0
	c.bites = 0
	c.consumed = 0
	c.decayed = 0
	c.starved = 0
	c.targetsLost = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
