package telemetry

import (
	"math"
	"testing"

	"github.com/pthm-cable/savanna/components"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeStats(t *testing.T) {
	// Unsorted on purpose; ComputeStats must not depend on input order.
	values := []float64{0.5, 0.1, 0.9, 0.3, 0.7, 0.2, 1.0, 0.4, 0.8, 0.6}
	d := ComputeStats(values)

	if math.Abs(d.Mean-0.55) > 0.001 {
		t.Errorf("mean = %v, want 0.55", d.Mean)
	}
	// Sample std of 0.1..1.0 step 0.1 is sqrt(0.0916667).
	if math.Abs(d.Std-0.302765) > 0.001 {
		t.Errorf("std = %v, want ~0.3028", d.Std)
	}
	if math.Abs(d.P10-0.19) > 0.01 {
		t.Errorf("p10 = %v, want ~0.19", d.P10)
	}
	if math.Abs(d.P50-0.55) > 0.01 {
		t.Errorf("p50 = %v, want ~0.55", d.P50)
	}
	if math.Abs(d.P90-0.91) > 0.01 {
		t.Errorf("p90 = %v, want ~0.91", d.P90)
	}
	if values[0] != 0.5 {
		t.Error("ComputeStats must not reorder its input")
	}
}

func TestComputeStatsSmallSamples(t *testing.T) {
	if d := ComputeStats(nil); d != (Distribution{}) {
		t.Errorf("expected zero distribution for empty input, got %+v", d)
	}

	d := ComputeStats([]float64{0.4})
	if d.Mean != 0.4 || d.Std != 0 || d.P10 != 0.4 || d.P90 != 0.4 {
		t.Errorf("expected single value 0.4 with zero std, got %+v", d)
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1.0, 0.125)
	if c.WindowDurationTicks() != 8 {
		t.Fatalf("expected 8 ticks per window, got %d", c.WindowDurationTicks())
	}

	for _, ev := range []Event{
		NewHitEvent(1, 7, 3),
		NewHitEvent(2, 7, 3),
		NewKillEvent(2, 7, 3),
		NewBiteEvent(4, 7, 3),
		NewConsumedEvent(5, 7, 3),
		NewDecayedEvent(5, 4),
		NewStarvedEvent(6, 8),
		NewBirthEvent(6, 11, 2, components.KindPrey),
	} {
		c.Record(ev)
	}

	if c.ShouldFlush(7) {
		t.Error("expected no flush before the window closes")
	}
	if !c.ShouldFlush(8) {
		t.Error("expected flush once the window closes")
	}

	stats := c.Flush(8, Sample{
		SimTimeSec: 1,
		Prey:       5,
		Predators:  2,
		PreyHealth: []float64{1, 1, 0.5, 1, 1},
		PredHunger: []float64{0.2, 0.6},
	})

	if stats.Hits != 2 || stats.Kills != 1 || stats.Bites != 1 {
		t.Errorf("expected 2 hits, 1 kill, 1 bite, got %d/%d/%d", stats.Hits, stats.Kills, stats.Bites)
	}
	if stats.KillRate != 0.5 {
		t.Errorf("expected kill rate 0.5, got %v", stats.KillRate)
	}
	if stats.PreyConsumed != 1 || stats.PreyDecayed != 1 || stats.PredStarved != 1 {
		t.Errorf("expected one of each removal cause, got %+v", stats)
	}
	if stats.PreyBirths != 1 {
		t.Errorf("expected 1 prey birth, got %d", stats.PreyBirths)
	}
	if math.Abs(stats.PreyHealthMean-0.9) > 1e-9 {
		t.Errorf("expected prey health mean 0.9, got %v", stats.PreyHealthMean)
	}
	if math.Abs(stats.PredHungerMean-0.4) > 1e-9 {
		t.Errorf("expected predator hunger mean 0.4, got %v", stats.PredHungerMean)
	}

	next := c.Flush(16, Sample{})
	if next.Hits != 0 || next.WindowStartTick != 8 {
		t.Errorf("expected counters reset and window start 8, got hits=%d start=%d", next.Hits, next.WindowStartTick)
	}
}
