package systems

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/config"
)

// testEnv builds a flat, obstacle-free environment from the embedded defaults.
func testEnv(cfg *config.Config, seed int64) *Env {
	bounds := NewBoundaryField(cfg.Boundary)
	env := &Env{
		DT:     float32(cfg.Physics.DT),
		Bounds: &bounds,
		Ground: FlatTerrain{},
		Rng:    rand.New(rand.NewSource(seed)),
	}
	env.Configure(cfg)
	return env
}

// fakeTargets resolves prey from a map; deleting an entry invalidates it.
type fakeTargets struct {
	snaps map[ecs.Entity]Agent
	live  map[ecs.Entity]*components.Prey
}

func newFakeTargets() *fakeTargets {
	return &fakeTargets{
		snaps: map[ecs.Entity]Agent{},
		live:  map[ecs.Entity]*components.Prey{},
	}
}

func (f *fakeTargets) add(e ecs.Entity, pos mgl32.Vec3, p *components.Prey) {
	f.snaps[e] = Agent{E: e, Pos: pos, Health: p.Health, Fatigue: p.Fatigue, Dead: p.Dead}
	f.live[e] = p
}

func (f *fakeTargets) remove(e ecs.Entity) {
	delete(f.snaps, e)
	delete(f.live, e)
}

func (f *fakeTargets) Resolve(e ecs.Entity) (Agent, *components.Prey, bool) {
	p, ok := f.live[e]
	if !ok {
		return Agent{}, nil, false
	}
	return f.snaps[e], p, true
}

// entities allocates n real entity handles from a throwaway world.
func entities(n int) []ecs.Entity {
	w := ecs.NewWorld()
	m := ecs.NewMap1[components.Body](w)
	out := make([]ecs.Entity, n)
	for i := range out {
		out[i] = m.NewEntity(&components.Body{ID: uint32(i)})
	}
	return out
}
