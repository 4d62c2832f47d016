package systems

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/savanna/config"
	"github.com/pthm-cable/savanna/vmath"
)

// BoundaryShape selects the containment geometry.
type BoundaryShape uint8

const (
	BoundaryCircle BoundaryShape = iota
	BoundaryBox
)

// BoundaryField keeps agents inside the world on the XZ plane. It is
// immutable for the life of a run.
type BoundaryField struct {
	Enabled    bool
	Shape      BoundaryShape
	Radius     float32
	HalfX      float32
	HalfZ      float32
	Margin     float32
	Multiplier float32
	HardEdge   bool
}

// NewBoundaryField builds a field from the boundary config section.
func NewBoundaryField(cfg config.BoundaryConfig) BoundaryField {
	shape := BoundaryCircle
	if cfg.Shape == config.ShapeBox {
		shape = BoundaryBox
	}
	return BoundaryField{
		Enabled:    cfg.Enabled,
		Shape:      shape,
		Radius:     float32(cfg.Radius),
		HalfX:      float32(cfg.HalfExtents.X),
		HalfZ:      float32(cfg.HalfExtents.Z),
		Margin:     float32(cfg.Margin),
		Multiplier: float32(cfg.Multiplier),
		HardEdge:   cfg.HardEdge,
	}
}

// ramp maps a coordinate magnitude onto [0,1] across the margin band ending at edge.
func (b *BoundaryField) ramp(v, edge float32) float32 {
	return vmath.Clamp01((v - (edge - b.Margin)) / b.Margin)
}

// Push returns the inward direction and ramp strength at pos. Strength is 0
// in the safe region and reaches 1 at the edge.
func (b *BoundaryField) Push(pos mgl32.Vec3) (dir mgl32.Vec3, strength float32) {
	if !b.Enabled {
		return mgl32.Vec3{}, 0
	}
	switch b.Shape {
	case BoundaryBox:
		var dx, dz float32
		sx := b.ramp(abs32(pos.X()), b.HalfX)
		if sx > 0 {
			dx = -sign32(pos.X())
		}
		sz := b.ramp(abs32(pos.Z()), b.HalfZ)
		if sz > 0 {
			dz = -sign32(pos.Z())
		}
		return vmath.SafeNormalize(mgl32.Vec3{dx, 0, dz}), max(sx, sz)
	default:
		flat := vmath.Flatten(pos)
		s := b.ramp(flat.Len(), b.Radius)
		if s == 0 {
			return mgl32.Vec3{}, 0
		}
		return vmath.SafeNormalize(flat.Mul(-1)), s
	}
}

// Steer returns the containment force for an agent, clamped to max force, or
// zero inside the safe region.
func (b *BoundaryField) Steer(s Steerer) mgl32.Vec3 {
	dir, strength := b.Push(s.Pos)
	if strength == 0 {
		return mgl32.Vec3{}
	}
	steer := dir.Mul(strength * b.Multiplier).Sub(vmath.Flatten(s.Vel))
	return vmath.ClampLen(steer, s.MaxForce)
}

// Constrain projects a position that crossed the edge back onto it. The
// returned flag reports whether a projection happened.
func (b *BoundaryField) Constrain(pos mgl32.Vec3) (mgl32.Vec3, bool) {
	if !b.Enabled || !b.HardEdge {
		return pos, false
	}
	switch b.Shape {
	case BoundaryBox:
		x := clampFloat(pos.X(), -b.HalfX, b.HalfX)
		z := clampFloat(pos.Z(), -b.HalfZ, b.HalfZ)
		if x == pos.X() && z == pos.Z() {
			return pos, false
		}
		return mgl32.Vec3{x, pos.Y(), z}, true
	default:
		d := vmath.HorizontalLen(pos)
		if d <= b.Radius {
			return pos, false
		}
		k := b.Radius / d
		return mgl32.Vec3{pos.X() * k, pos.Y(), pos.Z() * k}, true
	}
}

// Contains reports whether pos lies inside the field on the XZ plane.
func (b *BoundaryField) Contains(pos mgl32.Vec3) bool {
	if !b.Enabled {
		return true
	}
	if b.Shape == BoundaryBox {
		return abs32(pos.X()) <= b.HalfX && abs32(pos.Z()) <= b.HalfZ
	}
	return vmath.HorizontalLen(pos) <= b.Radius
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func sign32(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}
