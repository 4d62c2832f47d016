// Package flock runs the ambient bird boids that circle above the savanna.
// Birds never interact with prey or predators.
package flock

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/savanna/config"
	"github.com/pthm-cable/savanna/vmath"
)

// Params are the flock tunables.
type Params struct {
	Center mgl32.Vec3
	Half   mgl32.Vec3 // half extents of the wrap-around box

	MaxSpeed         float32
	MaxForce         float32
	PerceptionRadius float32
	SeparationRadius float32
	SeparationWeight float32
	AlignmentWeight  float32
	CohesionWeight   float32
}

// NewParams converts the birds config section. Bounds are full box extents.
func NewParams(cfg config.BirdsConfig) Params {
	return Params{
		Center:           mgl32.Vec3{0, float32(cfg.Altitude), 0},
		Half:             mgl32.Vec3{float32(cfg.Bounds.X) / 2, float32(cfg.Bounds.Y) / 2, float32(cfg.Bounds.Z) / 2},
		MaxSpeed:         float32(cfg.MaxSpeed),
		MaxForce:         float32(cfg.MaxForce),
		PerceptionRadius: float32(cfg.PerceptionRadius),
		SeparationRadius: float32(cfg.SeparationRadius),
		SeparationWeight: float32(cfg.SeparationWeight),
		AlignmentWeight:  float32(cfg.AlignmentWeight),
		CohesionWeight:   float32(cfg.CohesionWeight),
	}
}

// Bird is one boid.
type Bird struct {
	Pos mgl32.Vec3
	Vel mgl32.Vec3
}

// Flock owns a set of birds. Each step reads the previous step's positions,
// so update order within a step does not matter.
type Flock struct {
	params Params
	target int
	birds  []Bird
	prev   []Bird
	rng    *rand.Rand
}

// New creates a flock sized to cfg.Count.
func New(cfg config.BirdsConfig, rng *rand.Rand) *Flock {
	f := &Flock{params: NewParams(cfg), target: cfg.Count, rng: rng}
	f.Reconcile()
	return f
}

// Configure swaps in new tunables and target count. Existing birds keep
// their state; the count is reconciled on the next step.
func (f *Flock) Configure(cfg config.BirdsConfig) {
	f.params = NewParams(cfg)
	f.target = cfg.Count
}

// Birds returns the current birds. The slice is reused across steps.
func (f *Flock) Birds() []Bird {
	return f.birds
}

// Len returns the number of birds.
func (f *Flock) Len() int {
	return len(f.birds)
}

// Reconcile spawns or removes birds until the flock matches its target count.
// Surplus birds are removed from the end.
func (f *Flock) Reconcile() {
	for len(f.birds) < f.target {
		f.birds = append(f.birds, f.spawn())
	}
	if len(f.birds) > f.target {
		f.birds = f.birds[:max(f.target, 0)]
	}
}

func (f *Flock) spawn() Bird {
	p := &f.params
	offset := mgl32.Vec3{
		(f.rng.Float32()*2 - 1) * p.Half.X(),
		(f.rng.Float32()*2 - 1) * p.Half.Y(),
		(f.rng.Float32()*2 - 1) * p.Half.Z(),
	}
	dir := mgl32.Vec3{f.rng.Float32()*2 - 1, f.rng.Float32()*2 - 1, f.rng.Float32()*2 - 1}
	return Bird{
		Pos: p.Center.Add(offset),
		Vel: vmath.SafeNormalize(dir).Mul(p.MaxSpeed),
	}
}

// Step reconciles the count, then advances every bird by dt.
func (f *Flock) Step(dt float32) {
	f.Reconcile()
	if len(f.birds) == 0 {
		return
	}

	f.prev = append(f.prev[:0], f.birds...)
	p := &f.params

	for i := range f.birds {
		b := &f.birds[i]
		acc := f.forces(i, f.prev[i])

		b.Vel = vmath.ClampLen(b.Vel.Add(acc.Mul(dt)), p.MaxSpeed)
		b.Pos = b.Pos.Add(b.Vel.Mul(dt))
		b.Pos = f.wrap(b.Pos)
	}
}

// forces sums the weighted flocking rules for bird i against the previous
// step's flock.
func (f *Flock) forces(i int, self Bird) mgl32.Vec3 {
	p := &f.params

	var sep, align, center mgl32.Vec3
	var sepCount, seen int
	for j, other := range f.prev {
		if j == i {
			continue
		}
		diff := self.Pos.Sub(other.Pos)
		d := diff.Len()
		if d <= 0 || d >= p.PerceptionRadius {
			continue
		}
		align = align.Add(other.Vel)
		center = center.Add(other.Pos)
		seen++
		if d < p.SeparationRadius {
			sep = sep.Add(diff.Mul(1 / d))
			sepCount++
		}
	}

	var total mgl32.Vec3
	if sepCount > 0 {
		total = total.Add(f.steer(self, sep.Mul(1/float32(sepCount))).Mul(p.SeparationWeight))
	}
	if seen > 0 {
		inv := 1 / float32(seen)
		total = total.Add(f.steer(self, align.Mul(inv)).Mul(p.AlignmentWeight))
		total = total.Add(f.steer(self, center.Mul(inv).Sub(self.Pos)).Mul(p.CohesionWeight))
	}
	return total
}

// steer returns the force turning self toward desired at full speed.
func (f *Flock) steer(self Bird, desired mgl32.Vec3) mgl32.Vec3 {
	want := vmath.SafeNormalize(desired).Mul(f.params.MaxSpeed)
	return vmath.ClampLen(want.Sub(self.Vel), f.params.MaxForce)
}

// wrap teleports a bird that left the box to the opposite face.
func (f *Flock) wrap(pos mgl32.Vec3) mgl32.Vec3 {
	rel := pos.Sub(f.params.Center)
	for axis := 0; axis < 3; axis++ {
		h := f.params.Half[axis]
		if rel[axis] > h {
			rel[axis] = -h
		} else if rel[axis] < -h {
			rel[axis] = h
		}
	}
	return f.params.Center.Add(rel)
}

// Contains reports whether pos lies inside the flock's box.
func (f *Flock) Contains(pos mgl32.Vec3) bool {
	rel := pos.Sub(f.params.Center)
	for axis := 0; axis < 3; axis++ {
		if rel[axis] > f.params.Half[axis] || rel[axis] < -f.params.Half[axis] {
			return false
		}
	}
	return true
}
