package systems

import (
	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/savanna/config"
)

// Terrain answers the ground height under a point.
type Terrain interface {
	GroundHeight(x, z float32) float32
}

// FlatTerrain is a level floor at a fixed height.
type FlatTerrain struct {
	Height float32
}

// GroundHeight returns the floor height.
func (f FlatTerrain) GroundHeight(_, _ float32) float32 {
	return f.Height
}

// NoiseTerrain is rolling ground shaped by simplex noise.
type NoiseTerrain struct {
	noise     opensimplex.Noise
	scale     float64
	amplitude float64
	base      float64
}

// NewNoiseTerrain creates terrain from a seed. Height ranges over
// base ± amplitude.
func NewNoiseTerrain(seed int64, scale, amplitude, base float64) *NoiseTerrain {
	return &NoiseTerrain{
		noise:     opensimplex.NewNormalized(seed),
		scale:     scale,
		amplitude: amplitude,
		base:      base,
	}
}

// GroundHeight samples the noise field at (x, z).
func (t *NoiseTerrain) GroundHeight(x, z float32) float32 {
	n := t.noise.Eval2(float64(x)/t.scale, float64(z)/t.scale) // [0,1]
	return float32(t.base + t.amplitude*(2*n-1))
}

// NewTerrain returns the configured terrain oracle.
func NewTerrain(cfg config.TerrainConfig) Terrain {
	if !cfg.Enabled {
		return FlatTerrain{Height: float32(cfg.Base)}
	}
	return NewNoiseTerrain(cfg.Seed, cfg.Scale, cfg.Amplitude, cfg.Base)
}
