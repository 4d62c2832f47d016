package systems

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/vmath"
)

// Kinematics bundles the per-species integration limits for one tick.
type Kinematics struct {
	MaxSpeed float32
	Friction float32
}

// Integrate advances an agent by one tick: velocity from force, clamped to
// max speed, then position, then friction. The agent is re-grounded on the
// terrain and projected back inside the boundary's hard edge, losing any
// outward velocity when that happens.
func Integrate(m *components.Motion, force mgl32.Vec3, k Kinematics, dt float32, ground Terrain, bounds *BoundaryField) {
	force = vmath.Flatten(force)
	m.Vel = vmath.ClampLen(m.Vel.Add(force.Mul(dt)), k.MaxSpeed)
	m.Pos = m.Pos.Add(m.Vel.Mul(dt))
	m.Vel = m.Vel.Mul(k.Friction)
	settle(m, ground, bounds)
}

// Damp decays velocity without applying forces. Used by corpses and by
// predators at rest.
func Damp(m *components.Motion, damping, dt float32, ground Terrain, bounds *BoundaryField) {
	m.Vel = vmath.Flatten(m.Vel).Mul(damping)
	m.Pos = m.Pos.Add(m.Vel.Mul(dt))
	settle(m, ground, bounds)
}

func settle(m *components.Motion, ground Terrain, bounds *BoundaryField) {
	if bounds != nil {
		if p, moved := bounds.Constrain(m.Pos); moved {
			m.Pos = p
			inward, _ := bounds.Push(p)
			if v := m.Vel.Dot(inward); v < 0 {
				m.Vel = m.Vel.Sub(inward.Mul(v))
			}
		}
	}
	if ground != nil {
		m.Pos[1] = ground.GroundHeight(m.Pos.X(), m.Pos.Z())
	}
}
