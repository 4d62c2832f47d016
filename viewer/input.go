package viewer

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	panSpeed     = 600 // screen pixels per second
	zoomStep     = 1.1
	maxStepsRate = 10
)

// handleInput processes keyboard and mouse input.
func (v *Viewer) handleInput() {
	v.handleResize()

	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		v.game.SetPaused(!v.game.Paused())
	}

	// Steps-per-update control with < > keys (comma and period)
	steps := v.game.StepsPerUpdate()
	if rl.IsKeyPressed(rl.KeyComma) && steps > 1 {
		v.game.SetStepsPerUpdate(steps - 1)
	}
	if rl.IsKeyPressed(rl.KeyPeriod) && steps < maxStepsRate {
		v.game.SetStepsPerUpdate(steps + 1)
	}

	if rl.IsKeyPressed(rl.KeyTab) {
		v.controls.Toggle()
	}
	if rl.IsKeyPressed(rl.KeyEscape) {
		v.hasSelection = false
	}

	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		v.overlays.HandleKeyPress(key)
	}

	v.handleCameraInput()

	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		mouse := rl.GetMousePosition()
		if !v.controls.Contains(mouse.X, mouse.Y) {
			v.selectAt(mouse.X, mouse.Y)
		}
	}
}

// handleCameraInput pans with WASD, the arrow keys or a right-button drag
// and zooms with the wheel around the cursor.
func (v *Viewer) handleCameraInput() {
	step := panSpeed * rl.GetFrameTime()
	if rl.IsKeyDown(rl.KeyW) || rl.IsKeyDown(rl.KeyUp) {
		v.camera.Pan(0, -step)
	}
	if rl.IsKeyDown(rl.KeyS) || rl.IsKeyDown(rl.KeyDown) {
		v.camera.Pan(0, step)
	}
	if rl.IsKeyDown(rl.KeyA) || rl.IsKeyDown(rl.KeyLeft) {
		v.camera.Pan(-step, 0)
	}
	if rl.IsKeyDown(rl.KeyD) || rl.IsKeyDown(rl.KeyRight) {
		v.camera.Pan(step, 0)
	}

	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		delta := rl.GetMouseDelta()
		v.camera.Pan(-delta.X, -delta.Y)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		mouse := rl.GetMousePosition()
		beforeX, beforeZ := v.camera.ScreenToWorld(mouse.X, mouse.Y)
		if wheel > 0 {
			v.camera.ZoomBy(zoomStep)
		} else {
			v.camera.ZoomBy(1 / zoomStep)
		}
		// Keep the point under the cursor fixed
		afterX, afterZ := v.camera.ScreenToWorld(mouse.X, mouse.Y)
		ppu := v.camera.WorldLength(1)
		v.camera.Pan((beforeX-afterX)*ppu, (beforeZ-afterZ)*ppu)
	}

	if rl.IsKeyPressed(rl.KeyR) {
		v.camera.Reset()
	}
}

// handleResize propagates window size changes.
func (v *Viewer) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == v.screenW && h == v.screenH {
		return
	}
	v.screenW, v.screenH = w, h
	v.camera.Resize(w, h)
	v.inspector.SetPosition(int32(w)-250, 10)
}
