package systems

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/dhconnelly/rtreego"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/savanna/config"
)

// Obstacle is a static vertical pillar with a circular footprint on the XZ plane.
type Obstacle struct {
	X, Z   float32
	Radius float32
	rect   rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (o *Obstacle) Bounds() rtreego.Rect {
	return o.rect
}

// ObstacleField indexes obstacles in an R-tree for ray queries.
type ObstacleField struct {
	tree      *rtreego.Rtree
	obstacles []*Obstacle
}

// NewObstacleField builds an empty field.
func NewObstacleField() *ObstacleField {
	return &ObstacleField{tree: rtreego.NewTree(2, 4, 16)}
}

// Add inserts a pillar.
func (f *ObstacleField) Add(x, z, radius float32) error {
	if radius <= 0 {
		return fmt.Errorf("obstacle radius must be > 0, got %g", radius)
	}
	r := float64(radius)
	rect, err := rtreego.NewRect(rtreego.Point{float64(x) - r, float64(z) - r}, []float64{2 * r, 2 * r})
	if err != nil {
		return fmt.Errorf("obstacle bounds: %w", err)
	}
	o := &Obstacle{X: x, Z: z, Radius: radius, rect: rect}
	f.tree.Insert(o)
	f.obstacles = append(f.obstacles, o)
	return nil
}

// Obstacles returns every pillar in insertion order.
func (f *ObstacleField) Obstacles() []*Obstacle {
	return f.obstacles
}

// Len returns the number of pillars.
func (f *ObstacleField) Len() int {
	return len(f.obstacles)
}

// ScatterObstacles places cfg.Count pillars uniformly inside a disc of the
// given radius, using the configured seed.
func ScatterObstacles(cfg config.ObstaclesConfig, within float32) (*ObstacleField, error) {
	f := NewObstacleField()
	rng := rand.New(rand.NewSource(cfg.Seed))
	for i := 0; i < cfg.Count; i++ {
		r := float32(cfg.MinRadius + rng.Float64()*(cfg.MaxRadius-cfg.MinRadius))
		reach := within - r
		if reach < 0 {
			reach = 0
		}
		// sqrt keeps the areal density uniform
		d := reach * float32(math.Sqrt(rng.Float64()))
		s, c := sincos(float32(rng.Float64() * 2 * math.Pi))
		if err := f.Add(d*c, d*s, r); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Raycast reports whether the segment from origin along dir for dist touches
// any pillar. Only the XZ components are considered.
func (f *ObstacleField) Raycast(origin, dir mgl32.Vec3, dist float32) bool {
	if len(f.obstacles) == 0 || dist <= 0 {
		return false
	}
	ox, oz := float64(origin.X()), float64(origin.Z())
	ex := ox + float64(dir.X()*dist)
	ez := oz + float64(dir.Z()*dist)

	const pad = 1e-6
	lo := rtreego.Point{math.Min(ox, ex) - pad, math.Min(oz, ez) - pad}
	lengths := []float64{math.Abs(ex-ox) + 2*pad, math.Abs(ez-oz) + 2*pad}
	box, err := rtreego.NewRect(lo, lengths)
	if err != nil {
		return false
	}
	// Candidates are pillars whose bounding square meets the ray's bounding box.
	for _, s := range f.tree.SearchIntersect(box) {
		o := s.(*Obstacle)
		if segmentHitsCircle(ox, oz, ex, ez, float64(o.X), float64(o.Z), float64(o.Radius)) {
			return true
		}
	}
	return false
}

// Inside reports whether a point lies inside any pillar.
func (f *ObstacleField) Inside(x, z float32) bool {
	for _, o := range f.obstacles {
		dx, dz := x-o.X, z-o.Z
		if dx*dx+dz*dz <= o.Radius*o.Radius {
			return true
		}
	}
	return false
}

func segmentHitsCircle(ax, az, bx, bz, cx, cz, r float64) bool {
	dx, dz := bx-ax, bz-az
	l2 := dx*dx + dz*dz
	t := 0.0
	if l2 > 0 {
		t = ((cx-ax)*dx + (cz-az)*dz) / l2
		t = math.Max(0, math.Min(1, t))
	}
	px, pz := ax+t*dx-cx, az+t*dz-cz
	return px*px+pz*pz <= r*r
}
