package game

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/flock"
	"github.com/pthm-cable/savanna/systems"
)

// AgentView is the read-only state a presentation layer needs to draw one
// agent. Views are copies; holding one never keeps an agent alive.
type AgentView struct {
	ID     uint32
	Handle components.Handle
	Kind   components.Kind
	Pos    mgl32.Vec3
	Facing mgl32.Vec3
	Speed  float32

	// Prey
	Fleeing bool
	Dead    bool
	Health  float32
	Fatigue float32
	Meat    float32

	// Predators
	State     components.PredatorState
	Hunger    float32
	HasTarget bool
	TargetID  uint32
}

// Frame appends a view of every agent to dst, prey first.
func (g *Game) Frame(dst []AgentView) []AgentView {
	preyQuery := g.registry.preyFilter.Query()
	for preyQuery.Next() {
		body, m, p := preyQuery.Get()
		dst = append(dst, AgentView{
			ID:      body.ID,
			Handle:  body.Handle,
			Kind:    components.KindPrey,
			Pos:     m.Pos,
			Facing:  m.Facing(),
			Speed:   m.Vel.Len(),
			Fleeing: p.Fleeing,
			Dead:    p.Dead,
			Health:  p.Health,
			Fatigue: p.Fatigue,
			Meat:    p.Meat,
		})
	}

	predQuery := g.registry.predFilter.Query()
	for predQuery.Next() {
		body, m, p := predQuery.Get()
		v := AgentView{
			ID:     body.ID,
			Handle: body.Handle,
			Kind:   components.KindPredator,
			Pos:    m.Pos,
			Facing: m.Facing(),
			Speed:  m.Vel.Len(),
			Health: 1,
			State:  p.State,
			Hunger: p.Hunger,
		}
		if p.HasTarget && g.world.Alive(p.Target) {
			v.HasTarget = true
			v.TargetID = g.registry.ID(p.Target)
		}
		dst = append(dst, v)
	}
	return dst
}

// Birds returns the ambient flock. The slice is reused by the next step.
func (g *Game) Birds() []flock.Bird {
	return g.birds.Birds()
}

// Obstacles returns the static obstacles, or nil when there are none.
func (g *Game) Obstacles() []*systems.Obstacle {
	if g.obstacles == nil {
		return nil
	}
	return g.obstacles.Obstacles()
}

// Boundary returns the world boundary.
func (g *Game) Boundary() systems.BoundaryField {
	return g.bounds
}

// GroundHeight samples the terrain.
func (g *Game) GroundHeight(x, z float32) float32 {
	return g.ground.GroundHeight(x, z)
}
