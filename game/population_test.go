package game

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/config"
	"github.com/pthm-cable/savanna/systems"
	"github.com/pthm-cable/savanna/vmath"
)

func newTestPopulation(t *testing.T, cfg *config.Config, seed int64) (*Population, *Registry) {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	pp := systems.NewPredatorParams(cfg.Predator)
	reg := NewRegistry(ecs.NewWorld(), nil, rng, &pp)
	bounds := systems.NewBoundaryField(cfg.Boundary)
	pop := NewPopulation(cfg, rng, systems.FlatTerrain{}, &bounds, nil)
	return pop, reg
}

func TestReproductionChance(t *testing.T) {
	tests := []struct {
		name   string
		live   int
		chance float64
		window float64
		want   float64
	}{
		{"ten prey default chance", 10, 0.001, 0.16, 0.0008},
		{"odd count rounds pairs down", 11, 0.001, 0.16, 0.0008},
		{"single prey", 1, 0.5, 1, 0},
		{"capped at one", 1000, 0.5, 1, 1},
		{"zero chance", 50, 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReproductionChance(tt.live, tt.chance, tt.window)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestReproduceSuccessRate(t *testing.T) {
	cfg := config.MustLoad("")
	cfg.Reproduction.Chance = 0.05
	pop, reg := newTestPopulation(t, cfg, 3)
	for i := 0; i < 10; i++ {
		reg.SpawnPrey(mgl32.Vec3{float32(i), 0, 0})
	}

	// 5 pairs * 0.05 * 0.16 = 0.04 per check
	successes := 0
	for i := 0; i < 1000; i++ {
		if pop.Reproduce(reg, 0.16) {
			successes++
		}
	}
	if successes < 15 || successes > 65 {
		t.Errorf("expected about 40 successes in 1000 checks, got %d", successes)
	}

	_, born := reg.Commit()
	if len(born) != successes {
		t.Errorf("expected %d births queued, got %d", successes, len(born))
	}
}

func TestReproduceRespectsLimits(t *testing.T) {
	tests := []struct {
		name    string
		prey    int
		corpses int
		maxPrey int
	}{
		{"single live prey", 1, 0, 400},
		{"live prey plus corpse", 1, 1, 400},
		{"at population cap", 10, 0, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.MustLoad("")
			cfg.Reproduction.Chance = 1000
			cfg.Population.MaxPrey = tt.maxPrey
			pop, reg := newTestPopulation(t, cfg, 1)

			for i := 0; i < tt.prey; i++ {
				reg.SpawnPrey(mgl32.Vec3{})
			}
			for i := 0; i < tt.corpses; i++ {
				e := reg.SpawnPrey(mgl32.Vec3{})
				reg.preyMap.Get(e).Dead = true
			}

			for i := 0; i < 100; i++ {
				if pop.Reproduce(reg, 1) {
					t.Fatal("expected no reproduction")
				}
			}
		})
	}
}

func TestReproduceSpawnsNearParent(t *testing.T) {
	cfg := config.MustLoad("")
	cfg.Reproduction.Chance = 1000
	pop, reg := newTestPopulation(t, cfg, 9)
	reg.SpawnPrey(mgl32.Vec3{20, 0, 20})
	reg.SpawnPrey(mgl32.Vec3{20, 0, 20})

	if !pop.Reproduce(reg, 1) {
		t.Fatal("expected a certain reproduction to succeed")
	}
	_, born := reg.Commit()
	if len(born) != 1 {
		t.Fatalf("expected one birth, got %d", len(born))
	}

	child := reg.bodyMap.Get(born[0].E)
	if child.ID == born[0].Parent {
		t.Error("expected the child to get a fresh id")
	}
	var pos mgl32.Vec3
	for _, a := range reg.LivePrey(nil) {
		if a.E == born[0].E {
			pos = a.Pos
		}
	}
	d := vmath.HorizontalLen(pos.Sub(mgl32.Vec3{20, 0, 20}))
	if math.Abs(float64(d)-cfg.Reproduction.SpawnOffset) > 1e-3 {
		t.Errorf("expected child %v from parent, got %v", cfg.Reproduction.SpawnOffset, d)
	}
}

func TestSpawnInitialGroups(t *testing.T) {
	cfg := config.MustLoad("")
	cfg.Population.PreyCount = 23
	cfg.Population.PredatorCount = 5
	pop, reg := newTestPopulation(t, cfg, 5)

	pop.SpawnInitial(reg)

	prey, preds := reg.Counts()
	if prey != 23 || preds != 5 {
		t.Errorf("expected 23 prey and 5 predators, got %d and %d", prey, preds)
	}

	bounds := systems.NewBoundaryField(cfg.Boundary)
	for _, a := range reg.LivePrey(nil) {
		if !bounds.Contains(a.Pos) {
			t.Errorf("expected spawn inside the boundary, got %v", a.Pos)
		}
	}
}

func TestSpawnGroupSizes(t *testing.T) {
	tests := []struct {
		name  string
		total int
		group config.GroupRange
		want  int
	}{
		{"exact groups", 12, config.GroupRange{Min: 4, Max: 4}, 3},
		{"remainder group", 10, config.GroupRange{Min: 4, Max: 4}, 3},
		{"single agents", 5, config.GroupRange{Min: 1, Max: 1}, 5},
		{"none", 0, config.GroupRange{Min: 2, Max: 3}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.MustLoad("")
			pop, reg := newTestPopulation(t, cfg, 2)
			if got := pop.spawnGroups(reg, components.KindPrey, tt.total, tt.group); got != tt.want {
				t.Errorf("expected %d groups, got %d", tt.want, got)
			}
		})
	}
}
