package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData is what the top-left status panel shows.
type HUDData struct {
	Title          string
	Prey           int
	Corpses        int
	Predators      int
	Birds          int
	Tick           int32
	SimTime        float64
	TimeScale      float64
	StepsPerUpdate int
	FPS            int32
	Paused         bool
}

// HUD renders the status panel and the key legend.
type HUD struct {
	renderer *Renderer
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer()}
}

// Lines returns the status text below the title.
func (d HUDData) Lines() []string {
	elapsed := time.Duration(d.SimTime * float64(time.Second)).Round(time.Second)
	lines := []string{
		fmt.Sprintf("Prey: %d | Corpses: %d | Predators: %d | Birds: %d", d.Prey, d.Corpses, d.Predators, d.Birds),
		fmt.Sprintf("Tick: %d | Time: %s | Scale: %.2fx | Steps: %d | FPS: %d",
			d.Tick, elapsed, d.TimeScale, d.StepsPerUpdate, d.FPS),
	}
	if d.Paused {
		lines = append(lines, "PAUSED")
	}
	return lines
}

// Draw renders the HUD in the top-left corner.
func (h *HUD) Draw(data HUDData) {
	t := h.renderer.Theme
	lines := data.Lines()

	width := rl.MeasureText(data.Title, 20)
	for _, l := range lines {
		width = max(width, rl.MeasureText(l, t.FontSize+4))
	}
	h.renderer.DrawPanel(4, 4, width+2*t.Padding, 30+int32(len(lines))*20)

	rl.DrawText(data.Title, 4+t.Padding, 10, 20, t.SectionHeader)
	y := int32(35)
	for _, l := range lines {
		color := t.LabelColor
		if l == "PAUSED" {
			color = t.BarFillMedium
		}
		rl.DrawText(l, 4+t.Padding, y, t.FontSize+4, color)
		y += 20
	}
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, h.renderer.Theme.FontSize+2, rl.Gray)
}
