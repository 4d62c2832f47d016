package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/game"
	"github.com/pthm-cable/savanna/renderer"
	"github.com/pthm-cable/savanna/systems"
	"github.com/pthm-cable/savanna/ui"
)

const (
	agentRadius = 1.0 // world units
	birdRadius  = 0.5
)

var background = rl.Color{R: 40, G: 36, B: 28, A: 255}

// Draw renders one frame.
func (v *Viewer) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(background)

	if v.overlays.IsEnabled(ui.OverlayTerrain) {
		v.terrain.Draw(v.camera)
	}
	if v.overlays.IsEnabled(ui.OverlayBoundary) {
		v.drawBoundary()
	}
	if v.overlays.IsEnabled(ui.OverlayObstacles) {
		v.drawObstacles()
	}

	v.drawPerception()
	if v.overlays.IsEnabled(ui.OverlayTargets) {
		v.drawTargets()
	}
	v.drawAgents()
	if v.overlays.IsEnabled(ui.OverlayBirds) {
		v.drawBirds()
	}
	v.drawSelectionIndicator()

	v.drawUI()

	rl.EndDrawing()
}

func (v *Viewer) screen(p mgl32.Vec3) (float32, float32) {
	return v.camera.WorldToScreen(p.X(), p.Z())
}

func (v *Viewer) drawBoundary() {
	b := v.game.Boundary()
	if !b.Enabled {
		return
	}
	cx, cy := v.camera.WorldToScreen(0, 0)
	if b.Shape == systems.BoundaryBox {
		x0, y0 := v.camera.WorldToScreen(-b.HalfX, -b.HalfZ)
		w, h := v.camera.WorldLength(2*b.HalfX), v.camera.WorldLength(2*b.HalfZ)
		rl.DrawRectangleLinesEx(rl.Rectangle{X: x0, Y: y0, Width: w, Height: h}, 2, renderer.ColorBoundary)
		m := v.camera.WorldLength(b.Margin)
		rl.DrawRectangleLinesEx(rl.Rectangle{X: x0 + m, Y: y0 + m, Width: w - 2*m, Height: h - 2*m}, 1, renderer.ColorBoundaryBand)
		return
	}
	r := v.camera.WorldLength(b.Radius)
	rl.DrawCircleLines(int32(cx), int32(cy), r, renderer.ColorBoundary)
	rl.DrawCircleLines(int32(cx), int32(cy), r-v.camera.WorldLength(b.Margin), renderer.ColorBoundaryBand)
}

func (v *Viewer) drawObstacles() {
	for _, o := range v.game.Obstacles() {
		if !v.camera.IsVisible(o.X, o.Z, o.Radius) {
			continue
		}
		sx, sy := v.camera.WorldToScreen(o.X, o.Z)
		rl.DrawCircle(int32(sx), int32(sy), v.camera.WorldLength(o.Radius), renderer.ColorObstacle)
	}
}

func (v *Viewer) drawAgents() {
	size := max(v.camera.WorldLength(agentRadius), 2)
	bars := v.overlays.IsEnabled(ui.OverlayCondition)

	for i := range v.frame {
		a := &v.frame[i]
		if !v.camera.IsVisible(a.Pos.X(), a.Pos.Z(), agentRadius*2) {
			continue
		}
		sx, sy := v.screen(a.Pos)
		color := v.palette.AgentColor(a)
		if a.Kind == components.KindPredator {
			renderer.DrawOrientedTriangle(sx, sy, a.Facing.X(), a.Facing.Z(), size*1.3, color)
		} else {
			renderer.DrawOrientedTriangle(sx, sy, a.Facing.X(), a.Facing.Z(), size, color)
		}
		if bars {
			drawConditionBar(sx, sy-size*2, size*2, a)
		}
	}
}

// drawConditionBar draws health for prey and hunger for predators.
func drawConditionBar(x, y, width float32, a *game.AgentView) {
	value, fill := a.Health, rl.Green
	if a.Kind == components.KindPredator {
		value, fill = a.Hunger, rl.Orange
	} else if a.Dead {
		value, fill = a.Meat, rl.Maroon
	}
	rl.DrawRectangle(int32(x-width/2), int32(y), int32(width), 2, rl.DarkGray)
	rl.DrawRectangle(int32(x-width/2), int32(y), int32(width*value), 2, fill)
}

func (v *Viewer) drawBirds() {
	size := max(v.camera.WorldLength(birdRadius), 1.5)
	for _, b := range v.game.Birds() {
		if !v.camera.IsVisible(b.Pos.X(), b.Pos.Z(), birdRadius) {
			continue
		}
		sx, sy := v.screen(b.Pos)
		renderer.DrawOrientedTriangle(sx, sy, b.Vel.X(), b.Vel.Z(), size, renderer.ColorBird)
	}
}

// drawTargets links every hunting predator to its prey.
func (v *Viewer) drawTargets() {
	for i := range v.frame {
		a := &v.frame[i]
		if !a.HasTarget {
			continue
		}
		j, ok := v.byID[a.TargetID]
		if !ok {
			continue
		}
		x0, y0 := v.screen(a.Pos)
		x1, y1 := v.screen(v.frame[j].Pos)
		rl.DrawLineEx(rl.Vector2{X: x0, Y: y0}, rl.Vector2{X: x1, Y: y1}, 1, rl.Color{R: 255, G: 80, B: 60, A: 140})
	}
}

// drawPerception draws the selected agent's sensing radii.
func (v *Viewer) drawPerception() {
	a := v.selectedView()
	if a == nil {
		return
	}
	cfg := v.game.Config()
	sx, sy := v.screen(a.Pos)
	ring := func(r float64, c rl.Color) {
		rl.DrawCircleLines(int32(sx), int32(sy), v.camera.WorldLength(float32(r)), c)
	}

	if v.overlays.IsEnabled(ui.OverlayDetection) {
		if a.Kind == components.KindPrey {
			ring(cfg.Prey.DetectionRadius, rl.SkyBlue)
		} else {
			ring(cfg.Predator.DetectionRadius, rl.SkyBlue)
			ring(cfg.Predator.HitDistance, rl.Red)
		}
	}
	if v.overlays.IsEnabled(ui.OverlayFlockRadii) {
		if a.Kind == components.KindPrey {
			ring(cfg.Prey.SeparationRadius, rl.Red)
			ring(cfg.Prey.AlignmentRadius, rl.Yellow)
			ring(cfg.Prey.CohesionRadius, rl.Green)
		} else {
			ring(cfg.Predator.SeparationRadius, rl.Red)
			ring(cfg.Predator.AlignmentRadius, rl.Yellow)
			ring(cfg.Predator.CohesionRadius, rl.Green)
		}
	}
}

func (v *Viewer) drawSelectionIndicator() {
	a := v.selectedView()
	if a == nil {
		return
	}
	sx, sy := v.screen(a.Pos)
	r := max(v.camera.WorldLength(agentRadius*2.5), 8)
	rl.DrawCircleLines(int32(sx), int32(sy), r, rl.White)
	rl.DrawCircleLines(int32(sx), int32(sy), r+1, rl.Color{R: 255, G: 255, B: 255, A: 120})
}

func (v *Viewer) drawUI() {
	g := v.game
	cfg := g.Config()

	var prey, corpses, preds int
	for i := range v.frame {
		switch {
		case v.frame[i].Kind == components.KindPredator:
			preds++
		case v.frame[i].Dead:
			corpses++
		default:
			prey++
		}
	}

	v.hud.Draw(ui.HUDData{
		Title:          "Savanna",
		Prey:           prey,
		Corpses:        corpses,
		Predators:      preds,
		Birds:          len(g.Birds()),
		Tick:           g.Tick(),
		SimTime:        g.SimTime(),
		TimeScale:      cfg.Physics.TimeScale,
		StepsPerUpdate: g.StepsPerUpdate(),
		FPS:            rl.GetFPS(),
		Paused:         g.Paused(),
	})

	before := ui.ControlsState{TimeScale: float32(cfg.Physics.TimeScale), Paused: g.Paused()}
	after := v.controls.Draw(before, v.overlays)
	if after.Paused != before.Paused {
		g.SetPaused(after.Paused)
	}
	if after.TimeScale != before.TimeScale {
		// Slider values are always valid, so this cannot be rejected.
		_ = g.SetTimeScale(float64(after.TimeScale))
	}

	if a := v.selectedView(); a != nil {
		v.inspector.Draw(a)
	}

	v.hud.DrawControls(int32(v.screenH), "[Space] pause  [,/.] steps  [Tab] controls  [WASD/RMB] pan  [wheel] zoom  [R] reset  [click] select")
}
