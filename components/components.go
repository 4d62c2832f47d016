// Package components defines ECS components for the simulation.
package components

import "github.com/mlange-42/ark/ecs"

// Kind tags an agent's species.
type Kind uint8

const (
	KindPrey Kind = iota
	KindPredator
)

// String returns the display name for a Kind.
func (k Kind) String() string {
	switch k {
	case KindPrey:
		return "prey"
	case KindPredator:
		return "predator"
	default:
		return "unknown"
	}
}

// PreyState is the derived lifecycle state of a prey.
type PreyState uint8

const (
	PreyCalm PreyState = iota
	PreyFleeing
	PreyDead
)

var preyStateNames = [...]string{"calm", "fleeing", "dead"}

// String returns the display name for a PreyState.
func (s PreyState) String() string {
	if int(s) < len(preyStateNames) {
		return preyStateNames[s]
	}
	return "unknown"
}

// PredatorState is the hunting state of a predator.
type PredatorState uint8

const (
	Wandering PredatorState = iota
	Chasing
	Eating
	PostEatCooldown
)

var predatorStateNames = [...]string{"wandering", "chasing", "eating", "post_eat_cooldown"}

// String returns the display name for a PredatorState.
func (s PredatorState) String() string {
	if int(s) < len(predatorStateNames) {
		return predatorStateNames[s]
	}
	return "unknown"
}

// Prey holds the condition of a prey agent. Health, Fatigue and Meat stay in [0,1].
type Prey struct {
	Health  float32
	Fatigue float32
	Meat    float32 // remaining edible mass
	Fleeing bool    // flee force was non-zero this tick
	Dead    bool
	DeadFor float32 // seconds since death
}

// State returns the prey's lifecycle state.
func (p *Prey) State() PreyState {
	switch {
	case p.Dead:
		return PreyDead
	case p.Fleeing:
		return PreyFleeing
	default:
		return PreyCalm
	}
}

// Predator holds the hunting state of a predator agent.
// Target is a weak reference: it must be checked with World.Alive before use.
type Predator struct {
	Hunger         float32
	Target         ecs.Entity
	HasTarget      bool
	State          PredatorState
	AttackCooldown float32 // seconds until the next hit
	EatTimer       float32 // seconds until the next bite
	RestTimer      float32 // seconds of post-meal rest left
	Starving       float32 // seconds spent at full hunger
}

// ClearTarget drops the target reference.
func (p *Predator) ClearTarget() {
	p.Target = ecs.Entity{}
	p.HasTarget = false
}
