package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/config"
	"github.com/pthm-cable/savanna/telemetry"
	"github.com/pthm-cable/savanna/vmath"
)

// smallConfig returns defaults scaled down for fast tests.
func smallConfig() *config.Config {
	cfg := config.MustLoad("")
	cfg.Population.PreyCount = 30
	cfg.Population.PredatorCount = 4
	cfg.Birds.Count = 10
	return cfg
}

func newTestGame(t *testing.T, cfg *config.Config, opts Options) *Game {
	t.Helper()
	g, err := NewGame(cfg, opts)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

func TestNewGameSpawnsPopulation(t *testing.T) {
	g := newTestGame(t, smallConfig(), Options{Seed: 1})

	prey, preds := g.Counts()
	if prey != 30 || preds != 4 {
		t.Errorf("expected 30 prey and 4 predators, got %d and %d", prey, preds)
	}
	if got := len(g.Birds()); got != 10 {
		t.Errorf("expected 10 birds, got %d", got)
	}
	if got := len(g.Obstacles()); got != 12 {
		t.Errorf("expected 12 obstacles, got %d", got)
	}
}

func TestNewGameRejectsInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Physics.DT = 0

	_, err := NewGame(cfg, Options{})
	var verr *config.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestRunKeepsInvariants(t *testing.T) {
	cfg := smallConfig()
	g := newTestGame(t, cfg, Options{Seed: 42})

	radius := float32(cfg.Boundary.Radius) + 1e-3

	var frame []AgentView
	for tick := 0; tick < 2000; tick++ {
		g.Step()
		frame = g.Frame(frame[:0])

		prey, preds := g.Counts()
		if len(frame) != prey+preds {
			t.Fatalf("tick %d: expected %d views, got %d", tick, prey+preds, len(frame))
		}
		if prey > cfg.Population.MaxPrey {
			t.Fatalf("tick %d: expected at most %d prey, got %d", tick, cfg.Population.MaxPrey, prey)
		}

		for _, v := range frame {
			if d := vmath.HorizontalLen(v.Pos); d > radius {
				t.Fatalf("tick %d: agent %d left the boundary (distance %v)", tick, v.ID, d)
			}
			if v.Health < 0 || v.Health > 1 || v.Fatigue < 0 || v.Fatigue > 1 || v.Hunger < 0 || v.Hunger > 1 {
				t.Fatalf("tick %d: agent %d condition out of range: %+v", tick, v.ID, v)
			}
			if limit := speedLimit(g, &v); v.Speed > limit+1e-3 {
				t.Fatalf("tick %d: agent %d expected speed <= %v, got %v", tick, v.ID, limit, v.Speed)
			}
		}
	}

	if g.Tick() != 2000 {
		t.Errorf("expected 2000 ticks, got %d", g.Tick())
	}
}

// speedLimit is the top speed for an agent's species and state. Prey read
// the nominal limit: a hit landing after the prey moved may lower its
// injury-scaled limit until its next step.
func speedLimit(g *Game, v *AgentView) float32 {
	if v.Kind == components.KindPredator {
		return g.predParams.SpeedLimit(v.State)
	}
	if v.Fleeing || v.Dead {
		return g.preyParams.FleeMaxSpeed
	}
	return g.preyParams.MaxSpeed
}

func TestLowReproductionChance(t *testing.T) {
	cfg := config.MustLoad("")
	cfg.Population.PreyCount = 10
	cfg.Population.PredatorCount = 0
	cfg.Birds.Count = 0
	g := newTestGame(t, cfg, Options{Seed: 7})

	// 1000 checks at 0.0008 each: about 0.8 births expected
	for i := 0; i < 10000; i++ {
		g.Step()
	}

	prey, _ := g.Counts()
	if prey < 10 || prey > 16 {
		t.Errorf("expected between 10 and 16 prey, got %d", prey)
	}
}

func TestPredatorHuntsAndConsumes(t *testing.T) {
	cfg := config.MustLoad("")
	cfg.Population.PreyCount = 0
	cfg.Population.PredatorCount = 0
	cfg.Birds.Count = 0
	cfg.Obstacles.Count = 0
	cfg.Terrain.Enabled = false
	cfg.Reproduction.Chance = 0
	cfg.Predator.InitialHunger = 1

	var kills, consumed int
	g := newTestGame(t, cfg, Options{
		Seed:           3,
		StatsWindowSec: 0.5,
		StatsCallback: func(s telemetry.WindowStats) {
			kills += s.Kills
			consumed += s.PreyConsumed
		},
	})
	g.registry.SpawnPredator(mgl32.Vec3{})
	g.registry.SpawnPrey(mgl32.Vec3{0, 0, 5})

	for i := 0; i < 20000; i++ {
		g.Step()
		if prey, _ := g.Counts(); prey == 0 {
			break
		}
	}
	// Let the last window flush
	for i := 0; i < 100; i++ {
		g.Step()
	}

	if prey, _ := g.Counts(); prey != 0 {
		t.Fatalf("expected the prey to be eaten, %d left", prey)
	}
	if kills != 1 || consumed != 1 {
		t.Errorf("expected 1 kill and 1 consumption, got %d and %d", kills, consumed)
	}
}

func TestGamesAreIndependent(t *testing.T) {
	a := newTestGame(t, smallConfig(), Options{Seed: 11})
	b := newTestGame(t, smallConfig(), Options{Seed: 11})

	for i := 0; i < 300; i++ {
		a.Step()
	}
	if b.Tick() != 0 {
		t.Fatalf("expected untouched game at tick 0, got %d", b.Tick())
	}
	for i := 0; i < 300; i++ {
		b.Step()
	}

	fa := a.Frame(nil)
	fb := b.Frame(nil)
	if len(fa) != len(fb) {
		t.Fatalf("expected equal agent counts for equal seeds, got %d and %d", len(fa), len(fb))
	}
	for i := range fa {
		if fa[i].ID != fb[i].ID || fa[i].Pos != fb[i].Pos {
			t.Fatalf("expected identical runs, agent %d differs: %v vs %v", i, fa[i].Pos, fb[i].Pos)
		}
	}
}

func TestPauseAndTimeScale(t *testing.T) {
	g := newTestGame(t, smallConfig(), Options{Seed: 1, StepsPerUpdate: 3})

	g.Update()
	if g.Tick() != 3 {
		t.Fatalf("expected 3 ticks after one update, got %d", g.Tick())
	}

	g.SetPaused(true)
	g.Update()
	if g.Tick() != 3 || !g.Paused() {
		t.Errorf("expected paused game to stay at tick 3, got %d", g.Tick())
	}
	g.SetPaused(false)

	if err := g.SetTimeScale(0); err != nil {
		t.Fatalf("SetTimeScale(0): %v", err)
	}
	g.Update()
	if g.Tick() != 3 {
		t.Errorf("expected zero time scale to freeze at tick 3, got %d", g.Tick())
	}

	if err := g.SetTimeScale(2); err != nil {
		t.Fatalf("SetTimeScale(2): %v", err)
	}
	before := g.SimTime()
	g.Step()
	want := 2 * cfgDT(g)
	if got := g.SimTime() - before; got < want*0.999 || got > want*1.001 {
		t.Errorf("expected a doubled step of %v seconds, got %v", want, got)
	}
}

func cfgDT(g *Game) float64 {
	return float64(g.Config().Derived.DT32)
}

func TestApplyConfig(t *testing.T) {
	g := newTestGame(t, smallConfig(), Options{Seed: 1})

	bad := g.Config().Clone()
	bad.Prey.MaxSpeed = 0
	bad.Predator.HitDistance = -1
	err := g.ApplyConfig(bad)
	var verr *config.ValidationError
	if !errors.As(err, &verr) || len(verr.Issues) != 2 {
		t.Fatalf("expected 2 validation issues, got %v", err)
	}
	if g.Config().Prey.MaxSpeed == 0 {
		t.Error("expected rejected config to leave the game untouched")
	}

	good := g.Config().Clone()
	good.Predator.HuntThreshold = 0.9
	good.Birds.Count = 3
	good.Boundary.Radius = 5 // layout is fixed per run
	if err := g.ApplyConfig(good); err != nil {
		t.Fatalf("ApplyConfig: %v", err)
	}
	if g.predParams.HuntThreshold != 0.9 {
		t.Errorf("expected hunt threshold 0.9, got %v", g.predParams.HuntThreshold)
	}
	if g.Config().Boundary.Radius != 100 {
		t.Errorf("expected boundary radius to stay 100, got %v", g.Config().Boundary.Radius)
	}

	g.Step()
	if got := len(g.Birds()); got != 3 {
		t.Errorf("expected flock reconciled to 3 birds, got %d", got)
	}
}

func TestFrameStates(t *testing.T) {
	cfg := smallConfig()
	cfg.Population.PreyCount = 0
	cfg.Population.PredatorCount = 0
	g := newTestGame(t, cfg, Options{Seed: 1})

	e := g.registry.SpawnPrey(mgl32.Vec3{1, 0, 1})
	g.registry.preyMap.Get(e).Dead = true
	g.registry.SpawnPredator(mgl32.Vec3{})

	frame := g.Frame(nil)
	if len(frame) != 2 {
		t.Fatalf("expected 2 views, got %d", len(frame))
	}
	if frame[0].Kind != components.KindPrey || !frame[0].Dead {
		t.Errorf("expected a dead prey first, got %+v", frame[0])
	}
	if frame[1].Kind != components.KindPredator || frame[1].State != components.Wandering {
		t.Errorf("expected a wandering predator second, got %+v", frame[1])
	}
}

func TestTelemetryOutput(t *testing.T) {
	dir := t.TempDir()
	cfg := smallConfig()

	windows := 0
	g, err := NewGame(cfg, Options{
		Seed:           5,
		OutputDir:      dir,
		StatsWindowSec: 1,
		StatsCallback:  func(telemetry.WindowStats) { windows++ },
	})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	for i := 0; i < 200; i++ {
		g.Step()
	}
	g.Unload()

	// 1s windows at dt 0.016 are about 62 ticks, so 200 ticks close three
	if windows != 3 {
		t.Errorf("expected 3 stats windows, got %d", windows)
	}
	for _, name := range []string{"telemetry.csv", "perf.csv", "config.yaml"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("expected %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("expected %s to be non-empty", name)
		}
	}
}
