// Package renderer draws the savanna with raylib: agents as oriented
// triangles over a baked terrain texture.
package renderer

import (
	"math"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/game"
)

// Base colors per agent state.
var (
	ColorPreyCalm     = rl.Color{R: 214, G: 184, B: 120, A: 255}
	ColorPreyFleeing  = rl.Color{R: 245, G: 150, B: 60, A: 255}
	ColorCorpse       = rl.Color{R: 110, G: 92, B: 80, A: 255}
	ColorPredWander   = rl.Color{R: 160, G: 70, B: 60, A: 255}
	ColorPredChase    = rl.Color{R: 235, G: 45, B: 35, A: 255}
	ColorPredEat      = rl.Color{R: 170, G: 55, B: 120, A: 255}
	ColorPredRest     = rl.Color{R: 115, G: 80, B: 80, A: 255}
	ColorBird         = rl.Color{R: 235, G: 235, B: 245, A: 200}
	ColorObstacle     = rl.Color{R: 92, G: 88, B: 80, A: 255}
	ColorBoundary     = rl.Color{R: 230, G: 220, B: 180, A: 160}
	ColorBoundaryBand = rl.Color{R: 230, G: 220, B: 180, A: 50}
)

// Palette is the presentation factory: every agent gets a handle and a
// small brightness jitter so herds do not look uniform.
type Palette struct {
	rng   *rand.Rand
	next  components.Handle
	tints map[components.Handle]float32
}

// NewPalette creates a palette with its own RNG, independent of the
// simulation's.
func NewPalette(seed int64) *Palette {
	return &Palette{
		rng:   rand.New(rand.NewSource(seed)),
		tints: make(map[components.Handle]float32),
	}
}

// Create implements game.Factory.
func (p *Palette) Create(_ components.Kind, _ mgl32.Vec3) components.Handle {
	p.next++
	p.tints[p.next] = (p.rng.Float32()*2 - 1) * 0.12
	return p.next
}

// Destroy implements game.Factory.
func (p *Palette) Destroy(h components.Handle) {
	delete(p.tints, h)
}

// Len returns the number of live handles.
func (p *Palette) Len() int {
	return len(p.tints)
}

// StateColor returns the base color for an agent's state.
func StateColor(v *game.AgentView) rl.Color {
	if v.Kind == components.KindPrey {
		switch {
		case v.Dead:
			return ColorCorpse
		case v.Fleeing:
			return ColorPreyFleeing
		default:
			return ColorPreyCalm
		}
	}
	switch v.State {
	case components.Chasing:
		return ColorPredChase
	case components.Eating:
		return ColorPredEat
	case components.PostEatCooldown:
		return ColorPredRest
	default:
		return ColorPredWander
	}
}

// AgentColor is StateColor with the agent's jitter applied.
func (p *Palette) AgentColor(v *game.AgentView) rl.Color {
	return Shade(StateColor(v), p.tints[v.Handle])
}

// Shade scales a color's brightness by 1+k, clamped to the byte range.
func Shade(c rl.Color, k float32) rl.Color {
	f := func(v uint8) uint8 {
		return uint8(min(max(float32(v)*(1+k), 0), 255))
	}
	return rl.Color{R: f(c.R), G: f(c.G), B: f(c.B), A: c.A}
}

// DrawOrientedTriangle draws a triangle at (x, y) pointing along the screen
// direction (fx, fy).
func DrawOrientedTriangle(x, y, fx, fy, radius float32, color rl.Color) {
	heading := float32(math.Atan2(float64(fy), float64(fx)))
	point := func(angle, r float32) rl.Vector2 {
		s, c := math.Sincos(float64(angle))
		return rl.Vector2{X: x + float32(c)*r, Y: y + float32(s)*r}
	}

	v1 := point(heading, radius*1.5)
	v2 := point(heading+math.Pi*0.8, radius)
	v3 := point(heading-math.Pi*0.8, radius)

	// DrawTriangle requires counter-clockwise winding (v1, v3, v2)
	rl.DrawTriangle(v1, v3, v2, color)
}
