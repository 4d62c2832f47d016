package ui

import "testing"

func TestHUDDataLines(t *testing.T) {
	d := HUDData{Prey: 40, Corpses: 2, Predators: 5, Birds: 30, Tick: 625, SimTime: 10.2, TimeScale: 1, StepsPerUpdate: 2, FPS: 60}

	lines := d.Lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	want := "Prey: 40 | Corpses: 2 | Predators: 5 | Birds: 30"
	if lines[0] != want {
		t.Errorf("expected %q, got %q", want, lines[0])
	}
	want = "Tick: 625 | Time: 10s | Scale: 1.00x | Steps: 2 | FPS: 60"
	if lines[1] != want {
		t.Errorf("expected %q, got %q", want, lines[1])
	}

	d.Paused = true
	if lines := d.Lines(); lines[len(lines)-1] != "PAUSED" {
		t.Errorf("expected trailing PAUSED line, got %q", lines[len(lines)-1])
	}
}
