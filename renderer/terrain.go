package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/savanna/camera"
	"github.com/pthm-cable/savanna/systems"
)

// Ground colors at the bottom and top of the height range.
var (
	groundLow  = rl.Color{R: 120, G: 110, B: 62, A: 255}
	groundHigh = rl.Color{R: 196, G: 178, B: 108, A: 255}
)

// TerrainRenderer bakes the height field into a texture once and draws it
// under the camera each frame. The terrain never changes during a run.
type TerrainRenderer struct {
	tex         rl.Texture2D
	size        int
	extent      float32
	initialized bool
}

// NewTerrainRenderer creates a renderer for the square [-extent, extent]
// sampled at size x size texels.
func NewTerrainRenderer(extent float32, size int) *TerrainRenderer {
	return &TerrainRenderer{extent: extent, size: max(size, 2)}
}

// HeightShade maps a ground height onto the ground palette. base and
// amplitude describe the terrain's height range; a zero amplitude gives
// the middle of the palette.
func HeightShade(h, base, amplitude float32) rl.Color {
	t := float32(0.5)
	if amplitude > 0 {
		t = (h - base + amplitude) / (2 * amplitude)
	}
	t = min(max(t, 0), 1)
	lerp := func(a, b uint8) uint8 {
		return uint8(float32(a) + (float32(b)-float32(a))*t)
	}
	return rl.Color{
		R: lerp(groundLow.R, groundHigh.R),
		G: lerp(groundLow.G, groundHigh.G),
		B: lerp(groundLow.B, groundHigh.B),
		A: 255,
	}
}

// Bake samples ground into the texture. Must be called after the raylib
// window is created.
func (r *TerrainRenderer) Bake(ground systems.Terrain, base, amplitude float32) {
	if r.initialized {
		rl.UnloadTexture(r.tex)
	}

	img := rl.GenImageColor(r.size, r.size, groundLow)
	step := 2 * r.extent / float32(r.size-1)
	for iz := 0; iz < r.size; iz++ {
		z := -r.extent + float32(iz)*step
		for ix := 0; ix < r.size; ix++ {
			x := -r.extent + float32(ix)*step
			h := ground.GroundHeight(x, z)
			rl.ImageDrawPixel(img, int32(ix), int32(iz), HeightShade(h, base, amplitude))
		}
	}
	r.tex = rl.LoadTextureFromImage(img)
	rl.SetTextureFilter(r.tex, rl.FilterBilinear)
	rl.UnloadImage(img)

	r.initialized = true
}

// Draw renders the baked terrain through the camera.
func (r *TerrainRenderer) Draw(cam *camera.Camera) {
	if !r.initialized {
		return
	}
	x0, y0 := cam.WorldToScreen(-r.extent, -r.extent)
	side := cam.WorldLength(2 * r.extent)

	srcRect := rl.Rectangle{X: 0, Y: 0, Width: float32(r.size), Height: float32(r.size)}
	dstRect := rl.Rectangle{X: x0, Y: y0, Width: side, Height: side}
	rl.DrawTexturePro(r.tex, srcRect, dstRect, rl.Vector2{}, 0, rl.White)
}

// Unload frees GPU resources.
func (r *TerrainRenderer) Unload() {
	if !r.initialized {
		return
	}
	rl.UnloadTexture(r.tex)
	r.initialized = false
}
