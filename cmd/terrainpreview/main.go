// Terrain preview tool - interactive ground and obstacle layout with sliders.
//
// Usage: go run ./cmd/terrainpreview [-config path]
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/savanna/camera"
	"github.com/pthm-cable/savanna/config"
	"github.com/pthm-cable/savanna/renderer"
	"github.com/pthm-cable/savanna/systems"
)

const (
	windowWidth  = 1000
	windowHeight = 720
	previewSize  = 512
	margin       = 10
	panelWidth   = windowWidth - previewSize - 3*margin
	texels       = 256
)

// layout is the part of the config this tool edits.
type layout struct {
	Terrain   config.TerrainConfig   `yaml:"terrain"`
	Obstacles config.ObstaclesConfig `yaml:"obstacles"`
}

// preview holds the baked state for the current layout.
type preview struct {
	cfg       *config.Config
	extent    float32
	cam       *camera.Camera
	ground    *renderer.TerrainRenderer
	terrain   systems.Terrain
	obstacles *systems.ObstacleField
	err       error
}

func newPreview(cfg *config.Config) *preview {
	extent := cfg.Derived.WorldExtent
	// Viewport centered on the preview square.
	side := float32(previewSize + 2*margin)
	return &preview{
		cfg:    cfg,
		extent: extent,
		cam:    camera.New(side, side, previewSize/(2*extent), extent),
		ground: renderer.NewTerrainRenderer(extent, texels),
	}
}

func (p *preview) rebuild() {
	p.terrain = systems.NewTerrain(p.cfg.Terrain)
	p.ground.Bake(p.terrain, float32(p.cfg.Terrain.Base), float32(p.cfg.Terrain.Amplitude))

	p.obstacles, p.err = nil, nil
	if p.cfg.Obstacles.Count > 0 {
		p.obstacles, p.err = systems.ScatterObstacles(p.cfg.Obstacles, p.extent)
	}
}

func (p *preview) heightRange() (lo, hi float32) {
	lo, hi = p.terrain.GroundHeight(0, 0), p.terrain.GroundHeight(0, 0)
	step := 2 * p.extent / 63
	for iz := 0; iz < 64; iz++ {
		for ix := 0; ix < 64; ix++ {
			h := p.terrain.GroundHeight(-p.extent+float32(ix)*step, -p.extent+float32(iz)*step)
			lo, hi = min(lo, h), max(hi, h)
		}
	}
	return lo, hi
}

func (p *preview) draw() {
	p.ground.Draw(p.cam)
	rl.DrawRectangleLines(margin, margin, previewSize, previewSize, rl.DarkGray)

	if p.obstacles != nil {
		for _, o := range p.obstacles.Obstacles() {
			sx, sy := p.cam.WorldToScreen(o.X, o.Z)
			rl.DrawCircle(int32(sx), int32(sy), p.cam.WorldLength(o.Radius), renderer.ColorObstacle)
		}
	}

	b := systems.NewBoundaryField(p.cfg.Boundary)
	if !b.Enabled {
		return
	}
	if b.Shape == systems.BoundaryBox {
		x0, y0 := p.cam.WorldToScreen(-b.HalfX, -b.HalfZ)
		rl.DrawRectangleLinesEx(rl.Rectangle{
			X: x0, Y: y0, Width: p.cam.WorldLength(2 * b.HalfX), Height: p.cam.WorldLength(2 * b.HalfZ),
		}, 2, renderer.ColorBoundary)
		return
	}
	cx, cy := p.cam.WorldToScreen(0, 0)
	rl.DrawCircleLines(int32(cx), int32(cy), p.cam.WorldLength(b.Radius), renderer.ColorBoundary)
}

// slider draws a labeled slider and reports whether the value changed.
func slider(x float32, y *float32, label, format string, value *float64, lo, hi float64) bool {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	next := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		"", "",
		float32(*value), float32(lo), float32(hi),
	)
	rl.DrawText(fmt.Sprintf(format, *value), int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	if float64(next) == float32Round(*value) {
		return false
	}
	*value = float64(next)
	return true
}

// float32Round matches a float64 against what a float32 slider returns.
func float32Round(v float64) float64 {
	return float64(float32(v))
}

func intSlider(x float32, y *float32, label string, value *int, lo, hi int) bool {
	v := float64(*value)
	if !slider(x, y, label, "%.0f", &v, float64(lo), float64(hi)) || int(v) == *value {
		return false
	}
	*value = int(v)
	return true
}

func seedSlider(x float32, y *float32, label string, value *int64) bool {
	v := float64(*value)
	if !slider(x, y, label, "%.0f", &v, 0, 99999) || int64(v) == *value {
		return false
	}
	*value = int64(v)
	return true
}

func layoutYAML(cfg *config.Config) string {
	data, err := yaml.Marshal(layout{Terrain: cfg.Terrain, Obstacles: cfg.Obstacles})
	if err != nil {
		return fmt.Sprintf("# marshal failed: %v", err)
	}
	return string(data)
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	original := cfg.Clone()

	rl.InitWindow(windowWidth, windowHeight, "Terrain Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	p := newPreview(cfg)
	defer p.ground.Unload()
	p.rebuild()
	lo, hi := p.heightRange()

	for !rl.WindowShouldClose() {
		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		p.draw()

		statsY := int32(previewSize + 25)
		obstacleCount := 0
		if p.obstacles != nil {
			obstacleCount = p.obstacles.Len()
		}
		rl.DrawText(fmt.Sprintf("Height min: %.2f  max: %.2f", lo, hi), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Obstacles placed: %d/%d", obstacleCount, cfg.Obstacles.Count), 15, statsY+20, 16, rl.DarkGray)
		if p.err != nil {
			rl.DrawText(p.err.Error(), 15, statsY+40, 14, rl.Maroon)
		}

		panelX := float32(previewSize + 2*margin)
		panelY := float32(margin)

		rl.DrawText("Terrain", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 30

		enabled := gui.CheckBox(rl.Rectangle{X: panelX, Y: panelY, Width: 16, Height: 16}, "Enabled", cfg.Terrain.Enabled)
		changed := enabled != cfg.Terrain.Enabled
		cfg.Terrain.Enabled = enabled
		panelY += 28
		changed = slider(panelX, &panelY, "Scale (world units per noise cell)", "%.1f", &cfg.Terrain.Scale, 5, 200) || changed
		changed = slider(panelX, &panelY, "Amplitude", "%.2f", &cfg.Terrain.Amplitude, 0, 10) || changed
		changed = slider(panelX, &panelY, "Base height", "%.2f", &cfg.Terrain.Base, -5, 5) || changed
		changed = seedSlider(panelX, &panelY, "Terrain seed", &cfg.Terrain.Seed) || changed

		rl.DrawLine(int32(panelX), int32(panelY), int32(panelX)+int32(panelWidth)-20, int32(panelY), rl.LightGray)
		panelY += 15

		rl.DrawText("Obstacles", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 30
		changed = intSlider(panelX, &panelY, "Count", &cfg.Obstacles.Count, 0, 60) || changed
		changed = slider(panelX, &panelY, "Min radius", "%.2f", &cfg.Obstacles.MinRadius, 0.5, 10) || changed
		changed = slider(panelX, &panelY, "Max radius", "%.2f", &cfg.Obstacles.MaxRadius, 0.5, 10) || changed
		changed = seedSlider(panelX, &panelY, "Obstacle seed", &cfg.Obstacles.Seed) || changed
		cfg.Obstacles.MaxRadius = max(cfg.Obstacles.MaxRadius, cfg.Obstacles.MinRadius)

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seeds") {
			cfg.Terrain.Seed = int64(rl.GetRandomValue(0, 99999))
			cfg.Obstacles.Seed = int64(rl.GetRandomValue(0, 99999))
			changed = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			cfg.Terrain = original.Terrain
			cfg.Obstacles = original.Obstacles
			changed = true
		}
		panelY += 45

		if changed {
			p.rebuild()
			lo, hi = p.heightRange()
		}

		text := layoutYAML(cfg)
		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(text)
		}

		rl.EndDrawing()
	}
}
