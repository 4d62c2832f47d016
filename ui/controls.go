package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// MaxTimeScale is the top of the time-scale slider.
const MaxTimeScale = 4.0

// ControlsState is what the controls panel edits. The viewer applies a
// changed state back to the game.
type ControlsState struct {
	TimeScale float32
	Paused    bool
}

// ControlsPanel renders the simulation controls and overlay toggles.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	height   int32 // as last drawn
	visible  bool
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		visible:  true,
	}
}

// Toggle switches panel visibility.
func (c *ControlsPanel) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// IsVisible returns whether the panel is shown.
func (c *ControlsPanel) IsVisible() bool {
	return c.visible
}

// Contains reports whether a screen point is over the panel, so clicks
// there do not select agents.
func (c *ControlsPanel) Contains(x, y float32) bool {
	if !c.visible {
		return false
	}
	return x >= float32(c.x) && x <= float32(c.x+c.width) &&
		y >= float32(c.y) && y <= float32(c.y+c.height)
}

func (c *ControlsPanel) measure(overlays *OverlayRegistry) int32 {
	t := c.renderer.Theme
	rows := int32(3) // title, slider, pause
	for _, cat := range overlays.Categories() {
		rows += int32(len(overlays.ByCategory(cat))) + 1
	}
	return rows*(t.LineHeight+6) + t.Padding*2
}

// Draw renders the panel and returns the edited state. Overlay checkboxes
// update the registry directly.
func (c *ControlsPanel) Draw(state ControlsState, overlays *OverlayRegistry) ControlsState {
	if !c.visible {
		return state
	}

	r := c.renderer
	t := r.Theme
	row := t.LineHeight + 6
	c.height = c.measure(overlays)
	r.DrawPanel(c.x, c.y, c.width, c.height)

	x := float32(c.x + t.Padding)
	y := c.y + t.Padding
	inner := float32(c.width - 2*t.Padding)

	rl.DrawText("Controls", int32(x), y, 16, rl.White)
	y += row

	state.TimeScale = gui.SliderBar(
		rl.Rectangle{X: x + 40, Y: float32(y), Width: inner - 90, Height: float32(t.LineHeight)},
		"Speed", fmt.Sprintf("%.2fx", state.TimeScale),
		state.TimeScale, 0, MaxTimeScale,
	)
	y += row

	state.Paused = gui.CheckBox(
		rl.Rectangle{X: x, Y: float32(y), Width: float32(t.BarHeight), Height: float32(t.BarHeight)},
		"Paused [Space]", state.Paused,
	)
	y += row

	for _, cat := range overlays.Categories() {
		rl.DrawText(categoryLabel(cat), int32(x), y, t.HeaderFontSize, t.SectionHeader)
		y += row
		for _, desc := range overlays.ByCategory(cat) {
			label := desc.Name
			if desc.KeyLabel != "" {
				label = fmt.Sprintf("%s [%s]", desc.Name, desc.KeyLabel)
			}
			on := gui.CheckBox(
				rl.Rectangle{X: x, Y: float32(y), Width: float32(t.BarHeight), Height: float32(t.BarHeight)},
				label, overlays.IsEnabled(desc.ID),
			)
			if on != overlays.IsEnabled(desc.ID) {
				overlays.SetEnabled(desc.ID, on)
			}
			y += row
		}
	}

	return state
}

func categoryLabel(cat string) string {
	switch cat {
	case "world":
		return "World"
	case "perception":
		return "Perception"
	case "debug":
		return "Debug"
	default:
		return cat
	}
}
