package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/config"
	"github.com/pthm-cable/savanna/vmath"
)

// PreyParams holds prey tunables in simulation precision.
type PreyParams struct {
	MaxSpeed         float32
	FleeMaxSpeed     float32
	MaxForce         float32
	Friction         float32
	SeparationRadius float32
	SeparationWeight float32
	AlignmentRadius  float32
	AlignmentWeight  float32
	CohesionRadius   float32
	CohesionWeight   float32
	DetectionRadius  float32
	FleeWeight       float32
	FatigueRate      float32
	FatigueRecovery  float32
	FatigueSlowdown  float32
	InjurySlowdown   float32
	DeadDamping      float32
	CorpseLifetime   float32
}

// NewPreyParams converts the prey config section.
func NewPreyParams(cfg config.PreyConfig) PreyParams {
	return PreyParams{
		MaxSpeed:         float32(cfg.MaxSpeed),
		FleeMaxSpeed:     float32(cfg.FleeMaxSpeed),
		MaxForce:         float32(cfg.MaxForce),
		Friction:         float32(cfg.Friction),
		SeparationRadius: float32(cfg.SeparationRadius),
		SeparationWeight: float32(cfg.SeparationWeight),
		AlignmentRadius:  float32(cfg.AlignmentRadius),
		AlignmentWeight:  float32(cfg.AlignmentWeight),
		CohesionRadius:   float32(cfg.CohesionRadius),
		CohesionWeight:   float32(cfg.CohesionWeight),
		DetectionRadius:  float32(cfg.DetectionRadius),
		FleeWeight:       float32(cfg.FleeWeight),
		FatigueRate:      float32(cfg.FatigueRate),
		FatigueRecovery:  float32(cfg.FatigueRecovery),
		FatigueSlowdown:  float32(cfg.FatigueSlowdown),
		InjurySlowdown:   float32(cfg.InjurySlowdown),
		DeadDamping:      float32(cfg.DeadDamping),
		CorpseLifetime:   float32(cfg.CorpseLifetime),
	}
}

// SpeedLimit returns the prey's current top speed: the flee speed while
// fleeing, reduced by fatigue and by lost health.
func (pp *PreyParams) SpeedLimit(p *components.Prey, fleeing bool) float32 {
	top := pp.MaxSpeed
	if fleeing {
		top = pp.FleeMaxSpeed
	}
	top *= 1 - pp.FatigueSlowdown*vmath.Clamp01(p.Fatigue)
	top *= 1 - pp.InjurySlowdown*(1-vmath.Clamp01(p.Health))
	return top
}

func (pp *PreyParams) flockRadius() float32 {
	return max(pp.SeparationRadius, pp.AlignmentRadius, pp.CohesionRadius)
}

// NewPrey returns a healthy, rested prey.
func NewPrey() components.Prey {
	return components.Prey{Health: 1, Meat: 1}
}

// TakeHit applies damage to a prey. It returns true exactly once: on the hit
// that kills it.
func TakeHit(p *components.Prey, damage float32) bool {
	if p.Dead {
		return false
	}
	p.Health = vmath.Clamp01(p.Health - damage)
	if p.Health > 0 {
		return false
	}
	p.Dead = true
	p.Fleeing = false
	return true
}

// PreyOutcome reports what happened to a prey during its step.
type PreyOutcome struct {
	From, To components.PreyState
	Decayed  bool // corpse lifetime elapsed; the prey asks to be removed
}

// PreyNeighbors are the neighborhoods a prey reads.
type PreyNeighbors struct {
	Prey      Neighborhood
	Predators Neighborhood
	scratch   []Agent
}

// PreyStep advances one prey by a tick.
func PreyStep(self ecs.Entity, m *components.Motion, p *components.Prey, nb *PreyNeighbors, pp *PreyParams, env *Env) PreyOutcome {
	out := PreyOutcome{From: p.State()}

	if p.Dead {
		p.DeadFor += env.DT
		Damp(m, pp.DeadDamping, env.DT, env.Ground, env.Bounds)
		out.Decayed = p.DeadFor >= pp.CorpseLifetime
		out.To = p.State()
		return out
	}

	threats := nb.Predators.Query(nb.scratch[:0], m.Pos, pp.DetectionRadius, self)
	flee := Flee(Steerer{Pos: m.Pos, Vel: m.Vel, MaxSpeed: pp.FleeMaxSpeed, MaxForce: pp.MaxForce}, threats, pp.DetectionRadius)
	nb.scratch = threats
	p.Fleeing = flee.Len() > vmath.Epsilon
	if p.Fleeing {
		p.Fatigue += pp.FatigueRate * env.DT
	} else {
		p.Fatigue -= pp.FatigueRecovery * env.DT
	}
	p.Fatigue = vmath.Clamp01(p.Fatigue)

	s := Steerer{Pos: m.Pos, Vel: m.Vel, MaxSpeed: pp.SpeedLimit(p, p.Fleeing), MaxForce: pp.MaxForce}
	flock := nb.Prey.Query(nb.scratch[:0], m.Pos, pp.flockRadius(), self)
	nb.scratch = flock
	// Only living herd members shape the flock.
	live := flock[:0]
	for _, a := range flock {
		if !a.Dead {
			live = append(live, a)
		}
	}

	b := NewBlend(pp.MaxForce)
	b.Add(Separation(s, live, pp.SeparationRadius), pp.SeparationWeight)
	b.Add(Alignment(s, live, pp.AlignmentRadius), pp.AlignmentWeight)
	b.Add(Cohesion(s, live, pp.CohesionRadius), pp.CohesionWeight)
	b.Add(flee, pp.FleeWeight)
	env.ambient(&b, s, &m.WanderAngle, true)

	Integrate(m, b.Total(), Kinematics{MaxSpeed: s.MaxSpeed, Friction: pp.Friction}, env.DT, env.Ground, env.Bounds)

	p.Health = vmath.Clamp01(p.Health)
	p.Meat = vmath.Clamp01(p.Meat)

	out.To = p.State()
	return out
}
