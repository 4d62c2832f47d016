package flock

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/savanna/config"
)

func testConfig() config.BirdsConfig {
	return config.MustLoad("").Birds
}

func TestReconcile(t *testing.T) {
	cfg := testConfig()
	cfg.Count = 25
	f := New(cfg, rand.New(rand.NewSource(1)))

	if f.Len() != 25 {
		t.Fatalf("expected 25 birds, got %d", f.Len())
	}

	tests := []struct {
		name  string
		count int
	}{
		{"grow", 40},
		{"shrink", 10},
		{"empty", 0},
		{"regrow", 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg.Count = tt.count
			f.Configure(cfg)
			f.Step(0.016)
			if f.Len() != tt.count {
				t.Errorf("expected %d birds after step, got %d", tt.count, f.Len())
			}
		})
	}
}

func TestSpawnInsideBoxAtFullSpeed(t *testing.T) {
	cfg := testConfig()
	cfg.Count = 100
	f := New(cfg, rand.New(rand.NewSource(2)))

	for i, b := range f.Birds() {
		if !f.Contains(b.Pos) {
			t.Errorf("bird %d spawned outside the box at %v", i, b.Pos)
		}
		if got := b.Vel.Len(); got < float32(cfg.MaxSpeed)-1e-3 || got > float32(cfg.MaxSpeed)+1e-3 {
			t.Errorf("bird %d: expected spawn speed %v, got %v", i, cfg.MaxSpeed, got)
		}
	}
}

func TestStepKeepsBirdsBoundedAndWithinSpeed(t *testing.T) {
	cfg := testConfig()
	cfg.Count = 60
	f := New(cfg, rand.New(rand.NewSource(3)))
	maxSpeed := float32(cfg.MaxSpeed)

	for tick := 0; tick < 2000; tick++ {
		f.Step(0.05)
		for i, b := range f.Birds() {
			if !f.Contains(b.Pos) {
				t.Fatalf("tick %d: bird %d escaped the box at %v", tick, i, b.Pos)
			}
			if b.Vel.Len() > maxSpeed+1e-4 {
				t.Fatalf("tick %d: bird %d exceeds max speed: %v", tick, i, b.Vel.Len())
			}
		}
	}
}

func TestWrapToOppositeFace(t *testing.T) {
	cfg := testConfig()
	cfg.Count = 1
	f := New(cfg, rand.New(rand.NewSource(4)))
	p := NewParams(cfg)

	// A lone bird feels no forces, so it coasts straight across the +X face.
	f.birds[0] = Bird{
		Pos: p.Center.Add(mgl32.Vec3{p.Half.X() - 0.01, 0, 0}),
		Vel: mgl32.Vec3{float32(cfg.MaxSpeed), 0, 0},
	}
	f.Step(0.1)

	got := f.Birds()[0].Pos
	if got.X() != p.Center.X()-p.Half.X() {
		t.Errorf("expected wrap to x=%v, got %v", p.Center.X()-p.Half.X(), got.X())
	}
}

func TestSeparationPushesApart(t *testing.T) {
	cfg := testConfig()
	cfg.Count = 2
	cfg.AlignmentWeight = 0
	cfg.CohesionWeight = 0
	f := New(cfg, rand.New(rand.NewSource(5)))
	p := NewParams(cfg)

	f.birds[0] = Bird{Pos: p.Center, Vel: mgl32.Vec3{}}
	f.birds[1] = Bird{Pos: p.Center.Add(mgl32.Vec3{1, 0, 0}), Vel: mgl32.Vec3{}}

	f.Step(0.1)

	b := f.Birds()
	if b[0].Vel.X() >= 0 || b[1].Vel.X() <= 0 {
		t.Errorf("expected birds to accelerate apart, got v0=%v v1=%v", b[0].Vel, b[1].Vel)
	}
}
