package systems

import (
	"math/rand"

	"github.com/pthm-cable/savanna/config"
)

// Env is the shared per-tick context handed to agent steps.
type Env struct {
	DT        float32
	Bounds    *BoundaryField
	Ground    Terrain
	Obstacles Obstacles // nil disables avoidance probes
	Rng       *rand.Rand

	BoundaryWeight   float32
	Wander           WanderParams
	WanderWeight     float32
	AvoidanceEnabled bool
	Avoidance        AvoidanceParams
	AvoidanceWeight  float32
}

// Configure copies the shared behavior tunables from cfg.
func (e *Env) Configure(cfg *config.Config) {
	e.BoundaryWeight = float32(cfg.Boundary.Weight)
	e.Wander = WanderParams{
		Radius:   float32(cfg.Wander.Radius),
		Distance: float32(cfg.Wander.Distance),
		Jitter:   float32(cfg.Wander.Jitter),
	}
	e.WanderWeight = float32(cfg.Wander.Weight)
	e.AvoidanceEnabled = cfg.Avoidance.Enabled
	e.Avoidance = AvoidanceParams{
		Distance:     float32(cfg.Avoidance.Distance),
		WhiskerAngle: float32(cfg.Avoidance.WhiskerAngle),
	}
	e.AvoidanceWeight = float32(cfg.Avoidance.Weight)
}

// ambient adds the forces every living agent feels: boundary, obstacles, wander.
func (e *Env) ambient(b *Blend, s Steerer, wanderAngle *float32, wander bool) {
	if e.Bounds != nil {
		b.Add(e.Bounds.Steer(s), e.BoundaryWeight)
	}
	if e.AvoidanceEnabled && e.Obstacles != nil {
		b.Add(ObstacleAvoidance(s, e.Obstacles, e.Avoidance), e.AvoidanceWeight)
	}
	if wander {
		b.Add(Wander(s, wanderAngle, e.Wander, e.DT, e.Rng), e.WanderWeight)
	}
}
