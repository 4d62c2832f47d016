package components

import "github.com/go-gl/mathgl/mgl32"

// Motion holds an agent's kinematic state. Y is re-grounded from the terrain every tick.
type Motion struct {
	Pos         mgl32.Vec3
	Vel         mgl32.Vec3
	WanderAngle float32 // radians, persistent heading for the wander behavior
}

// Facing returns the horizontal direction of travel, or +Z when at rest.
func (m *Motion) Facing() mgl32.Vec3 {
	f := mgl32.Vec3{m.Vel.X(), 0, m.Vel.Z()}
	if l := f.Len(); l > 1e-6 {
		return f.Mul(1 / l)
	}
	return mgl32.Vec3{0, 0, 1}
}
