package systems

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/config"
)

func TestTakeHit_DeadExactlyOnce(t *testing.T) {
	p := NewPrey()
	deaths := 0
	for i := 0; i < 10; i++ {
		if TakeHit(&p, 0.3) {
			deaths++
		}
	}
	if deaths != 1 {
		t.Errorf("expected exactly one death, got %d", deaths)
	}
	if !p.Dead || p.Health != 0 {
		t.Errorf("expected dead prey at health 0, got dead=%v health=%f", p.Dead, p.Health)
	}
}

func TestPreySpeedLimit(t *testing.T) {
	pp := PreyParams{MaxSpeed: 3, FleeMaxSpeed: 5, FatigueSlowdown: 0.5, InjurySlowdown: 0.4}
	tests := []struct {
		name    string
		prey    components.Prey
		fleeing bool
		want    float32
	}{
		{"calm fresh", components.Prey{Health: 1}, false, 3},
		{"fleeing fresh", components.Prey{Health: 1}, true, 5},
		{"fleeing exhausted", components.Prey{Health: 1, Fatigue: 1}, true, 2.5},
		{"calm half dead", components.Prey{Health: 0.5}, false, 2.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pp.SpeedLimit(&tt.prey, tt.fleeing); got < tt.want-1e-5 || got > tt.want+1e-5 {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

// Randomized herds with predators nearby: scalars stay in range, speed stays
// bounded, and dead prey never move under their own power.
func TestPreyStep_Invariants(t *testing.T) {
	cfg := config.MustLoad("")
	env := testEnv(cfg, 21)
	pp := NewPreyParams(cfg.Prey)
	rng := rand.New(rand.NewSource(5))

	const n = 30
	es := entities(n + 3)
	motions := make([]components.Motion, n)
	prey := make([]components.Prey, n)
	for i := range motions {
		motions[i].Pos = mgl32.Vec3{rng.Float32()*20 - 10, 0, rng.Float32()*20 - 10}
		prey[i] = NewPrey()
	}
	threats := Scan{
		{E: es[n], Pos: mgl32.Vec3{0, 0, 0}},
		{E: es[n+1], Pos: mgl32.Vec3{5, 0, 5}},
		{E: es[n+2], Pos: mgl32.Vec3{-8, 0, 2}},
	}

	deaths := make([]int, n)
	for tick := 0; tick < 2000; tick++ {
		snap := make(Scan, n)
		for i := range snap {
			snap[i] = Agent{E: es[i], Pos: motions[i].Pos, Vel: motions[i].Vel, Health: prey[i].Health, Fatigue: prey[i].Fatigue, Dead: prey[i].Dead}
		}
		nb := &PreyNeighbors{Prey: snap, Predators: threats}
		for i := range motions {
			if rng.Float32() < 0.01 && TakeHit(&prey[i], rng.Float32()*0.5) {
				deaths[i]++
			}
			wasDead := prey[i].Dead
			out := PreyStep(es[i], &motions[i], &prey[i], nb, &pp, env)

			p := &prey[i]
			for name, v := range map[string]float32{"health": p.Health, "fatigue": p.Fatigue, "meat": p.Meat} {
				if v < 0 || v > 1 {
					t.Fatalf("tick %d prey %d: %s out of [0,1]: %f", tick, i, name, v)
				}
			}
			limit := pp.SpeedLimit(p, p.Fleeing)
			if p.Dead {
				limit = pp.FleeMaxSpeed
			}
			if wasDead {
				limit = snap[i].Vel.Len()
				if out.To != components.PreyDead {
					t.Fatalf("tick %d prey %d: dead prey left Dead state", tick, i)
				}
			}
			if v := motions[i].Vel.Len(); v > limit+1e-4 {
				t.Fatalf("tick %d prey %d: expected |v| <= %f, got %f", tick, i, limit, v)
			}
		}
	}
	for i, d := range deaths {
		if d > 1 {
			t.Errorf("prey %d died %d times", i, d)
		}
	}
}

func TestPreyStep_FleeingDrivesFatigue(t *testing.T) {
	cfg := config.MustLoad("")
	env := testEnv(cfg, 2)
	pp := NewPreyParams(cfg.Prey)
	es := entities(2)

	m := components.Motion{Pos: mgl32.Vec3{0, 0, 0}}
	p := NewPrey()
	chased := &PreyNeighbors{Prey: Scan(nil), Predators: Scan{{E: es[1], Pos: mgl32.Vec3{0, 0, -3}}}}
	out := PreyStep(es[0], &m, &p, chased, &pp, env)
	if !p.Fleeing || out.To != components.PreyFleeing {
		t.Fatalf("expected fleeing with a predator in range, got %v", out.To)
	}
	if p.Fatigue <= 0 {
		t.Errorf("expected fatigue to rise while fleeing, got %f", p.Fatigue)
	}

	calm := &PreyNeighbors{Prey: Scan(nil), Predators: Scan(nil)}
	before := p.Fatigue
	out = PreyStep(es[0], &m, &p, calm, &pp, env)
	if p.Fleeing || out.To != components.PreyCalm {
		t.Errorf("expected calm without predators, got %v", out.To)
	}
	if p.Fatigue >= before {
		t.Errorf("expected fatigue to recover, got %f -> %f", before, p.Fatigue)
	}
}

func TestPreyStep_CorpseDecays(t *testing.T) {
	cfg := config.MustLoad("")
	env := testEnv(cfg, 2)
	pp := NewPreyParams(cfg.Prey)
	pp.CorpseLifetime = 1
	es := entities(1)

	m := components.Motion{Vel: mgl32.Vec3{2, 0, 0}}
	p := NewPrey()
	TakeHit(&p, 1)
	nb := &PreyNeighbors{Prey: Scan(nil), Predators: Scan(nil)}

	decays := 0
	ticks := 0
	for ; ticks < 200 && decays == 0; ticks++ {
		if PreyStep(es[0], &m, &p, nb, &pp, env).Decayed {
			decays++
		}
	}
	want := int(1/env.DT) + 1
	if decays != 1 || ticks < want-1 || ticks > want+1 {
		t.Errorf("expected one decay after ~%d ticks, got %d after %d", want, decays, ticks)
	}
	if m.Vel.Len() >= 2 {
		t.Errorf("expected corpse velocity to decay, got %f", m.Vel.Len())
	}
}
