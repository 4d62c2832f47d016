// Package vmath holds the vector helpers shared by the steering code.
// All helpers are NaN-safe: a zero-length input yields a zero vector.
package vmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Epsilon is the length below which a vector is treated as zero.
const Epsilon = 1e-6

// SafeNormalize returns v scaled to unit length, or the zero vector if v is
// too short to have a direction. mgl32's Normalize divides by zero instead.
func SafeNormalize(v mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < Epsilon {
		return mgl32.Vec3{}
	}
	return v.Mul(1 / l)
}

// SetLen returns v rescaled to length l, or zero if v has no direction.
func SetLen(v mgl32.Vec3, l float32) mgl32.Vec3 {
	return SafeNormalize(v).Mul(l)
}

// ClampLen limits the magnitude of v to max.
func ClampLen(v mgl32.Vec3, max float32) mgl32.Vec3 {
	if max <= 0 {
		return mgl32.Vec3{}
	}
	l2 := v.Dot(v)
	if l2 <= max*max {
		return v
	}
	return v.Mul(max / float32(math.Sqrt(float64(l2))))
}

// Flatten zeroes the vertical component.
func Flatten(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v.X(), 0, v.Z()}
}

// HorizontalLen returns the length of v on the XZ plane.
func HorizontalLen(v mgl32.Vec3) float32 {
	return float32(math.Sqrt(float64(v.X()*v.X() + v.Z()*v.Z())))
}

// Dist returns the distance between a and b.
func Dist(a, b mgl32.Vec3) float32 {
	return a.Sub(b).Len()
}

// RotateY rotates v by angle radians about the vertical axis.
// Positive angles turn +Z toward +X.
func RotateY(v mgl32.Vec3, angle float32) mgl32.Vec3 {
	s, c := math.Sincos(float64(angle))
	sf, cf := float32(s), float32(c)
	return mgl32.Vec3{
		v.X()*cf + v.Z()*sf,
		v.Y(),
		-v.X()*sf + v.Z()*cf,
	}
}

// Clamp01 clamps v to [0, 1].
func Clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// IsFinite reports whether every component of v is a finite number.
func IsFinite(v mgl32.Vec3) bool {
	for _, c := range v {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
