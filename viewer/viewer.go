// Package viewer is the optional raylib front end: a top-down view of one
// game with camera controls, overlays and an agent inspector.
package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/savanna/camera"
	"github.com/pthm-cable/savanna/game"
	"github.com/pthm-cable/savanna/renderer"
	"github.com/pthm-cable/savanna/ui"
)

// terrainTexels is the side of the baked terrain texture.
const terrainTexels = 256

// Viewer draws a game and forwards user input to it.
type Viewer struct {
	game    *game.Game
	palette *renderer.Palette
	terrain *renderer.TerrainRenderer
	camera  *camera.Camera

	hud       *ui.HUD
	controls  *ui.ControlsPanel
	inspector *ui.Inspector
	overlays  *ui.OverlayRegistry

	frame []game.AgentView
	byID  map[uint32]int

	selected     uint32
	hasSelection bool

	screenW, screenH float32
}

// New creates a viewer for g. palette must be the factory g was built
// with. Call after the raylib window is open.
func New(g *game.Game, palette *renderer.Palette) *Viewer {
	cfg := g.Config()
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	extent := cfg.Derived.WorldExtent

	v := &Viewer{
		game:      g,
		palette:   palette,
		terrain:   renderer.NewTerrainRenderer(extent, terrainTexels),
		camera:    camera.New(w, h, float32(cfg.Screen.PixelsPerUnit), extent),
		hud:       ui.NewHUD(),
		controls:  ui.NewControlsPanel(10, 100, 220),
		inspector: ui.NewInspector(int32(w)-250, 10, 240),
		overlays:  ui.NewOverlayRegistry(),
		byID:      make(map[uint32]int),
		screenW:   w,
		screenH:   h,
	}
	v.terrain.Bake(terrainOracle{g}, float32(cfg.Terrain.Base), float32(cfg.Terrain.Amplitude))
	v.refreshFrame()
	return v
}

// terrainOracle adapts the game's height query to systems.Terrain.
type terrainOracle struct {
	g *game.Game
}

func (t terrainOracle) GroundHeight(x, z float32) float32 {
	return t.g.GroundHeight(x, z)
}

// Update handles input, advances the game and refreshes the frame views.
func (v *Viewer) Update() {
	v.handleInput()
	v.game.Update()
	v.game.RecordFrame()
	v.refreshFrame()
}

func (v *Viewer) refreshFrame() {
	v.frame = v.game.Frame(v.frame[:0])
	clear(v.byID)
	for i := range v.frame {
		v.byID[v.frame[i].ID] = i
	}
	if v.hasSelection {
		if _, ok := v.byID[v.selected]; !ok {
			v.hasSelection = false
		}
	}
}

// selectedView returns the selected agent's view, or nil.
func (v *Viewer) selectedView() *game.AgentView {
	if !v.hasSelection {
		return nil
	}
	i, ok := v.byID[v.selected]
	if !ok {
		return nil
	}
	return &v.frame[i]
}

// Unload frees GPU resources.
func (v *Viewer) Unload() {
	v.terrain.Unload()
}
