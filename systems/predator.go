package systems

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/config"
	"github.com/pthm-cable/savanna/vmath"
)

// PredatorParams holds predator tunables in simulation precision.
type PredatorParams struct {
	MaxSpeed             float32
	ChaseMaxSpeed        float32
	MaxForce             float32
	ChaseMaxForce        float32
	Friction             float32
	SeparationRadius     float32
	SeparationWeight     float32
	AlignmentRadius      float32
	AlignmentWeight      float32
	CohesionRadius       float32
	CohesionWeight       float32
	PreySeparationRadius float32
	PreySeparationWeight float32
	DetectionRadius      float32
	ChaseWeight          float32
	PackChaseScale       float32
	HungerRate           float32
	InitialHunger        float32
	HuntThreshold        float32
	DamagePerHit         float32
	HitDistance          float32
	HitCooldown          float32
	EatDistance          float32
	EatCooldown          float32
	BiteMeat             float32
	HungerPerMeat        float32
	EatDamping           float32
	RestDamping          float32
	PostEatRest          float32
	StarveAfter          float32
}

// NewPredatorParams converts the predator config section.
func NewPredatorParams(cfg config.PredatorConfig) PredatorParams {
	return PredatorParams{
		MaxSpeed:             float32(cfg.MaxSpeed),
		ChaseMaxSpeed:        float32(cfg.ChaseMaxSpeed),
		MaxForce:             float32(cfg.MaxForce),
		ChaseMaxForce:        float32(cfg.ChaseMaxForce),
		Friction:             float32(cfg.Friction),
		SeparationRadius:     float32(cfg.SeparationRadius),
		SeparationWeight:     float32(cfg.SeparationWeight),
		AlignmentRadius:      float32(cfg.AlignmentRadius),
		AlignmentWeight:      float32(cfg.AlignmentWeight),
		CohesionRadius:       float32(cfg.CohesionRadius),
		CohesionWeight:       float32(cfg.CohesionWeight),
		PreySeparationRadius: float32(cfg.PreySeparationRadius),
		PreySeparationWeight: float32(cfg.PreySeparationWeight),
		DetectionRadius:      float32(cfg.DetectionRadius),
		ChaseWeight:          float32(cfg.ChaseWeight),
		PackChaseScale:       float32(cfg.PackChaseScale),
		HungerRate:           float32(cfg.HungerRate),
		InitialHunger:        float32(cfg.InitialHunger),
		HuntThreshold:        float32(cfg.HuntThreshold),
		DamagePerHit:         float32(cfg.DamagePerHit),
		HitDistance:          float32(cfg.HitDistance),
		HitCooldown:          float32(cfg.HitCooldown),
		EatDistance:          float32(cfg.EatDistance),
		EatCooldown:          float32(cfg.EatCooldown),
		BiteMeat:             float32(cfg.BiteMeat),
		HungerPerMeat:        float32(cfg.HungerPerMeat),
		EatDamping:           float32(cfg.EatDamping),
		RestDamping:          float32(cfg.RestDamping),
		PostEatRest:          float32(cfg.PostEatRest),
		StarveAfter:          float32(cfg.StarveAfter),
	}
}

// SpeedLimit returns the top speed for a predator state.
func (pp *PredatorParams) SpeedLimit(s components.PredatorState) float32 {
	if s == components.Chasing {
		return pp.ChaseMaxSpeed
	}
	return pp.MaxSpeed
}

func (pp *PredatorParams) forceLimit(s components.PredatorState) float32 {
	if s == components.Chasing {
		return pp.ChaseMaxForce
	}
	return pp.MaxForce
}

func (pp *PredatorParams) packRadius() float32 {
	return max(pp.SeparationRadius, pp.AlignmentRadius, pp.CohesionRadius)
}

// NewPredator returns a wandering predator at the configured initial hunger.
func NewPredator(pp *PredatorParams) components.Predator {
	return components.Predator{Hunger: vmath.Clamp01(pp.InitialHunger), State: components.Wandering}
}

// Targets resolves a predator's weak reference to its prey.
type Targets interface {
	// Resolve returns the start-of-tick snapshot and the live condition of
	// a prey, or ok == false once the handle is no longer valid, including
	// when the prey has a removal pending.
	Resolve(e ecs.Entity) (snap Agent, live *components.Prey, ok bool)
}

// PredatorOutcome reports what a predator did during its step.
type PredatorOutcome struct {
	From, To   components.PredatorState
	LostTarget bool // target became invalid and was dropped
	Hit        bool
	Downed     bool // the hit killed the target
	Victim     ecs.Entity
	Bites      int
	Consumed   bool // Victim's meat ran out; Victim must be removed
	Starved    bool // the predator asks to be removed
}

// PredatorNeighbors are the neighborhoods a predator reads.
type PredatorNeighbors struct {
	Prey      Neighborhood
	Predators Neighborhood
	Targets   Targets
	scratch   []Agent
}

// PredatorStep advances one predator by a tick.
//
// Order: hunger and starvation, target validation, then state logic. A
// target that no longer resolves sends Chasing and Eating back to Wandering
// before anything dereferences it.
func PredatorStep(self ecs.Entity, m *components.Motion, p *components.Predator, nb *PredatorNeighbors, pp *PredatorParams, env *Env) PredatorOutcome {
	out := PredatorOutcome{From: p.State}
	dt := env.DT

	p.Hunger = vmath.Clamp01(p.Hunger + pp.HungerRate*dt)
	if pp.StarveAfter > 0 && p.Hunger >= 1 {
		p.Starving += dt
		out.Starved = p.Starving >= pp.StarveAfter
	} else {
		p.Starving = 0
	}
	p.AttackCooldown = countdown(p.AttackCooldown, dt)

	var target Agent
	var prey *components.Prey
	if p.HasTarget {
		var ok bool
		target, prey, ok = nb.Targets.Resolve(p.Target)
		if !ok {
			p.ClearTarget()
			out.LostTarget = true
			if p.State == components.Chasing || p.State == components.Eating {
				p.State = components.Wandering
			}
		}
	}

	switch p.State {
	case components.PostEatCooldown:
		p.RestTimer = countdown(p.RestTimer, dt)
		Damp(m, pp.RestDamping, dt, env.Ground, env.Bounds)
		if p.RestTimer == 0 {
			p.State = components.Wandering
		}
	case components.Eating:
		eat(self, m, p, target, prey, nb, pp, env, &out)
	default:
		hunt(self, m, p, &target, &prey, nb, pp, env, &out)
	}

	out.To = p.State
	return out
}

// eat approaches the carcass, then bites whenever the eat timer elapses.
func eat(self ecs.Entity, m *components.Motion, p *components.Predator, target Agent, prey *components.Prey, nb *PredatorNeighbors, pp *PredatorParams, env *Env, out *PredatorOutcome) {
	dt := env.DT
	p.EatTimer = countdown(p.EatTimer, dt)

	if vmath.HorizontalLen(target.Pos.Sub(m.Pos)) > pp.EatDistance {
		s := Steerer{Pos: m.Pos, Vel: m.Vel, MaxSpeed: pp.MaxSpeed, MaxForce: pp.MaxForce}
		b := NewBlend(pp.MaxForce)
		packForces(&b, s, self, nb, pp, pp.PackChaseScale)
		b.Add(Seek(s, target.Pos), 1)
		env.ambient(&b, s, &m.WanderAngle, false)
		Integrate(m, b.Total(), Kinematics{MaxSpeed: pp.MaxSpeed, Friction: pp.Friction}, dt, env.Ground, env.Bounds)
		return
	}

	Damp(m, pp.EatDamping, dt, env.Ground, env.Bounds)
	if p.EatTimer > 0 {
		return
	}
	prey.Meat = vmath.Clamp01(prey.Meat - pp.BiteMeat)
	p.Hunger = vmath.Clamp01(p.Hunger - pp.BiteMeat*pp.HungerPerMeat)
	p.EatTimer = pp.EatCooldown
	out.Bites++
	out.Victim = target.E

	if prey.Meat > 0 {
		return
	}
	out.Consumed = true
	p.ClearTarget()
	if pp.PostEatRest > 0 {
		p.State = components.PostEatCooldown
		p.RestTimer = pp.PostEatRest
	} else {
		p.State = components.Wandering
	}
}

// hunt handles Wandering and Chasing: target selection, pack blending,
// integration, then the attack check.
func hunt(self ecs.Entity, m *components.Motion, p *components.Predator, target *Agent, prey **components.Prey, nb *PredatorNeighbors, pp *PredatorParams, env *Env, out *PredatorOutcome) {
	// A target downed by this predator or a packmate is food now.
	if p.State == components.Chasing && p.HasTarget && (*prey).Dead {
		startEating(m, p, pp)
		eat(self, m, p, *target, *prey, nb, pp, env, out)
		return
	}

	if p.Hunger > pp.HuntThreshold {
		candidates := nb.Prey.Query(nb.scratch[:0], m.Pos, pp.DetectionRadius, self)
		nb.scratch = candidates
		i := SelectTarget(m.Pos, candidates, pp.DetectionRadius)
		if i < 0 {
			p.ClearTarget()
		} else {
			pick := candidates[i]
			if !p.HasTarget || pick.E != p.Target {
				if snap, live, ok := nb.Targets.Resolve(pick.E); ok {
					p.Target, p.HasTarget = pick.E, true
					*target, *prey = snap, live
				}
			}
		}
	} else if p.HasTarget {
		p.ClearTarget()
	}
	if p.HasTarget {
		p.State = components.Chasing
	} else {
		p.State = components.Wandering
	}

	chasing := p.State == components.Chasing
	s := Steerer{Pos: m.Pos, Vel: m.Vel, MaxSpeed: pp.SpeedLimit(p.State), MaxForce: pp.forceLimit(p.State)}
	b := NewBlend(s.MaxForce)

	packScale := float32(1)
	if chasing {
		packScale = pp.PackChaseScale
	}
	packForces(&b, s, self, nb, pp, packScale)

	herd := nb.Prey.Query(nb.scratch[:0], m.Pos, pp.PreySeparationRadius, self)
	nb.scratch = herd
	b.Add(Separation(s, herd, pp.PreySeparationRadius), pp.PreySeparationWeight*packScale)

	if chasing {
		b.Add(Seek(s, target.Pos), pp.ChaseWeight)
	}
	env.ambient(&b, s, &m.WanderAngle, !chasing)

	Integrate(m, b.Total(), Kinematics{MaxSpeed: s.MaxSpeed, Friction: pp.Friction}, env.DT, env.Ground, env.Bounds)

	if !chasing || p.AttackCooldown > 0 {
		return
	}
	if vmath.Dist(flat(m.Pos), flat(target.Pos)) > pp.HitDistance {
		return
	}
	out.Hit = true
	out.Victim = target.E
	p.AttackCooldown = pp.HitCooldown
	out.Downed = TakeHit(*prey, pp.DamagePerHit)
	if (*prey).Dead {
		startEating(m, p, pp)
	}
}

// packForces blends separation, alignment and cohesion with nearby
// predators, scaled by scale.
func packForces(b *Blend, s Steerer, self ecs.Entity, nb *PredatorNeighbors, pp *PredatorParams, scale float32) {
	pack := nb.Predators.Query(nb.scratch[:0], s.Pos, pp.packRadius(), self)
	nb.scratch = pack
	b.Add(Separation(s, pack, pp.SeparationRadius), pp.SeparationWeight*scale)
	b.Add(Alignment(s, pack, pp.AlignmentRadius), pp.AlignmentWeight*scale)
	b.Add(Cohesion(s, pack, pp.CohesionRadius), pp.CohesionWeight*scale)
}

// startEating switches to Eating. The chase speed is shed at once so the
// predator never exceeds the Eating limit.
func startEating(m *components.Motion, p *components.Predator, pp *PredatorParams) {
	p.State = components.Eating
	p.EatTimer = pp.EatCooldown
	m.Vel = vmath.ClampLen(m.Vel, pp.SpeedLimit(components.Eating))
}

func flat(v mgl32.Vec3) mgl32.Vec3 {
	return vmath.Flatten(v)
}
