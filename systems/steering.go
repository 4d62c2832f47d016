// Package systems provides the per-tick behavior of prey and predators:
// steering forces, containment, terrain and obstacle oracles, and the two
// agent state machines.
package systems

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/vmath"
)

// Agent is a start-of-tick snapshot of one agent. Behaviors read snapshots,
// never live components, so agents processed earlier in a tick cannot
// influence agents processed later.
type Agent struct {
	E       ecs.Entity
	Pos     mgl32.Vec3
	Vel     mgl32.Vec3
	Health  float32
	Fatigue float32
	Dead    bool
}

// Steerer is the acting agent as seen by a steering behavior.
type Steerer struct {
	Pos      mgl32.Vec3
	Vel      mgl32.Vec3
	MaxSpeed float32
	MaxForce float32
}

// steerToward returns the Reynolds steer toward dir at max speed, clamped to
// max force. A zero dir yields zero.
func (s Steerer) steerToward(dir mgl32.Vec3) mgl32.Vec3 {
	if dir.Len() < vmath.Epsilon {
		return mgl32.Vec3{}
	}
	desired := vmath.SetLen(dir, s.MaxSpeed)
	return vmath.ClampLen(desired.Sub(s.Vel), s.MaxForce)
}

// Seek steers toward a point.
func Seek(s Steerer, target mgl32.Vec3) mgl32.Vec3 {
	return s.steerToward(target.Sub(s.Pos))
}

// Separation steers away from neighbors closer than radius. Each neighbor
// contributes the unit vector pointing away from it; coincident neighbors
// contribute nothing.
func Separation(s Steerer, neighbors []Agent, radius float32) mgl32.Vec3 {
	var sum mgl32.Vec3
	count := 0
	for i := range neighbors {
		diff := s.Pos.Sub(neighbors[i].Pos)
		d := diff.Len()
		if d <= 0 || d >= radius {
			continue
		}
		sum = sum.Add(diff.Mul(1 / d))
		count++
	}
	if count == 0 {
		return mgl32.Vec3{}
	}
	return s.steerToward(sum.Mul(1 / float32(count)))
}

// Alignment steers toward the average velocity of neighbors within radius.
func Alignment(s Steerer, neighbors []Agent, radius float32) mgl32.Vec3 {
	var sum mgl32.Vec3
	count := 0
	for i := range neighbors {
		if vmath.Dist(s.Pos, neighbors[i].Pos) >= radius {
			continue
		}
		sum = sum.Add(neighbors[i].Vel)
		count++
	}
	if count == 0 {
		return mgl32.Vec3{}
	}
	return s.steerToward(sum.Mul(1 / float32(count)))
}

// Cohesion steers toward the centroid of neighbors within radius.
func Cohesion(s Steerer, neighbors []Agent, radius float32) mgl32.Vec3 {
	var sum mgl32.Vec3
	count := 0
	for i := range neighbors {
		if vmath.Dist(s.Pos, neighbors[i].Pos) >= radius {
			continue
		}
		sum = sum.Add(neighbors[i].Pos)
		count++
	}
	if count == 0 {
		return mgl32.Vec3{}
	}
	return Seek(s, sum.Mul(1/float32(count)))
}

// Flee steers away from threats inside the detection radius, weighting each
// away-vector by inverse distance. It returns zero when no threat is detected.
func Flee(s Steerer, threats []Agent, detection float32) mgl32.Vec3 {
	var sum mgl32.Vec3
	count := 0
	for i := range threats {
		diff := s.Pos.Sub(threats[i].Pos)
		d := diff.Len()
		if d <= 0 || d >= detection {
			continue
		}
		sum = sum.Add(diff.Mul(1 / (d * d)))
		count++
	}
	if count == 0 {
		return mgl32.Vec3{}
	}
	return s.steerToward(sum.Mul(1 / float32(count)))
}

// TargetScore rates a candidate prey at distance d: closer, more tired and
// more injured prey score higher.
func TargetScore(detection, d, fatigue, health float32) float32 {
	return (detection - d) * (1 + fatigue/3) * (1 + (1-health)/2.5)
}

// SelectTarget returns the index of the best-scoring live candidate within
// the detection radius, or -1. Ties keep the first candidate seen.
func SelectTarget(pos mgl32.Vec3, candidates []Agent, detection float32) int {
	best := -1
	var bestScore float32
	for i := range candidates {
		c := &candidates[i]
		if c.Dead {
			continue
		}
		d := vmath.Dist(pos, c.Pos)
		if d >= detection {
			continue
		}
		score := TargetScore(detection, d, c.Fatigue, c.Health)
		if best < 0 || score > bestScore {
			best = i
			bestScore = score
		}
	}
	return best
}

// WanderParams configures the wander behavior.
type WanderParams struct {
	Radius   float32
	Distance float32
	Jitter   float32 // radians per second
}

// Wander perturbs the persistent angle and seeks a point on a circle placed
// ahead of the agent. The angle is relative to the current heading.
func Wander(s Steerer, angle *float32, p WanderParams, dt float32, rng *rand.Rand) mgl32.Vec3 {
	*angle = normalizeAngle(*angle + (rng.Float32()*2-1)*p.Jitter*dt)

	forward := vmath.SafeNormalize(vmath.Flatten(s.Vel))
	if forward == (mgl32.Vec3{}) {
		forward = mgl32.Vec3{0, 0, 1}
	}
	center := s.Pos.Add(forward.Mul(p.Distance))
	offset := vmath.RotateY(forward, *angle).Mul(p.Radius)
	return Seek(s, center.Add(offset))
}

// Obstacles answers whether anything blocks a ray.
type Obstacles interface {
	Raycast(origin, dir mgl32.Vec3, dist float32) bool
}

// AvoidanceParams configures whisker-probe obstacle avoidance.
type AvoidanceParams struct {
	Distance     float32
	WhiskerAngle float32
}

// ObstacleAvoidance casts a forward probe and two whiskers. A blocked whisker
// pushes toward the opposite side; a blocked forward probe pushes toward
// whichever side is clear, preferring right when both or neither are.
// The combined push is scaled to max force.
func ObstacleAvoidance(s Steerer, obs Obstacles, p AvoidanceParams) mgl32.Vec3 {
	if obs == nil {
		return mgl32.Vec3{}
	}
	forward := vmath.SafeNormalize(vmath.Flatten(s.Vel))
	if forward == (mgl32.Vec3{}) {
		return mgl32.Vec3{}
	}
	// right-hand lateral on the ground plane
	right := mgl32.Vec3{forward.Z(), 0, -forward.X()}

	leftHit := obs.Raycast(s.Pos, vmath.RotateY(forward, -p.WhiskerAngle), p.Distance)
	rightHit := obs.Raycast(s.Pos, vmath.RotateY(forward, p.WhiskerAngle), p.Distance)
	frontHit := obs.Raycast(s.Pos, forward, p.Distance)

	var push mgl32.Vec3
	if leftHit {
		push = push.Add(right)
	}
	if rightHit {
		push = push.Sub(right)
	}
	if frontHit {
		switch {
		case rightHit && !leftHit:
			push = push.Sub(right)
		default:
			push = push.Add(right)
		}
	}
	return vmath.SetLen(push, s.MaxForce)
}

// Blend is a running weighted sum of steer vectors. Each term is clamped to
// max force before weighting.
type Blend struct {
	maxForce float32
	sum      mgl32.Vec3
}

// NewBlend starts an empty blend.
func NewBlend(maxForce float32) Blend {
	return Blend{maxForce: maxForce}
}

// Add accumulates a weighted term.
func (b *Blend) Add(f mgl32.Vec3, weight float32) {
	b.sum = b.sum.Add(vmath.ClampLen(f, b.maxForce).Mul(weight))
}

// Total returns the horizontal sum clamped to max force.
func (b *Blend) Total() mgl32.Vec3 {
	return vmath.Flatten(vmath.ClampLen(b.sum, b.maxForce))
}
