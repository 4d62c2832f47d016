package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const spacerHeight = 6

// Renderer draws descriptor-driven panels in one theme.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// fieldHeight is the vertical space a field takes.
func (r *Renderer) fieldHeight(fd FieldDescriptor) int32 {
	switch fd.Widget {
	case WidgetBar, WidgetLevel:
		return r.Theme.LineHeight + 2
	case WidgetSpacer:
		return spacerHeight
	default:
		return r.Theme.LineHeight
	}
}

func fieldText(fd FieldDescriptor, data any) string {
	switch {
	case fd.TextGetter != nil:
		return fd.TextGetter(data)
	case fd.Getter != nil:
		return fmt.Sprintf(fd.Format, fd.Getter(data))
	}
	return ""
}

func shown(visible func(any) bool, data any) bool {
	return visible == nil || visible(data)
}

// drawBar draws a labeled [0, 1] bar followed by its value.
func (r *Renderer) drawBar(x, y int32, label string, value float32, fill rl.Color, width int32) {
	t := r.Theme
	value = min(max(value, 0), 1)
	barX := x + t.LabelWidth
	barW := width - t.LabelWidth - 40

	rl.DrawText(label+":", x, y, t.FontSize, t.LabelColor)
	rl.DrawRectangle(barX, y+2, barW, t.BarHeight, t.BarBg)
	rl.DrawRectangle(barX, y+2, int32(float32(barW)*value), t.BarHeight, fill)
	rl.DrawText(fmt.Sprintf("%.2f", value), barX+barW+5, y, t.FontSize, t.ValueColor)
}

// DrawField renders one field and returns the Y below it.
func (r *Renderer) DrawField(x, y int32, fd FieldDescriptor, data any, width int32) int32 {
	t := r.Theme
	switch fd.Widget {
	case WidgetText:
		rl.DrawText(fd.Label+":", x, y, t.FontSize, t.LabelColor)
		rl.DrawText(fieldText(fd, data), x+t.LabelWidth, y, t.FontSize, t.ValueColor)
	case WidgetBar, WidgetLevel:
		var v float32
		if fd.Getter != nil {
			v = fd.Getter(data)
		}
		fill := t.BarFill
		if fd.Widget == WidgetLevel {
			fill = t.LevelColor(v, fd.Invert)
		}
		r.drawBar(x, y, fd.Label, v, fill, width)
	case WidgetSection:
		rl.DrawText(fd.Label, x, y, t.HeaderFontSize, t.SectionHeader)
	}
	return y + r.fieldHeight(fd)
}

// DrawSection renders a section's title and visible fields and returns the
// Y below it.
func (r *Renderer) DrawSection(x, y int32, sd SectionDescriptor, data any, width int32) int32 {
	if !shown(sd.Visible, data) {
		return y
	}
	if sd.Title != "" {
		rl.DrawText(sd.Title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
		y += r.Theme.LineHeight
	}
	for _, fd := range sd.Fields {
		if shown(fd.Visible, data) {
			y = r.DrawField(x, y, fd, data, width)
		}
	}
	return y + 4
}

// SectionHeight returns the pixel height DrawSection will use.
func (r *Renderer) SectionHeight(sd SectionDescriptor, data any) int32 {
	if !shown(sd.Visible, data) {
		return 0
	}
	var h int32 = 4
	if sd.Title != "" {
		h += r.Theme.LineHeight
	}
	for _, fd := range sd.Fields {
		if shown(fd.Visible, data) {
			h += r.fieldHeight(fd)
		}
	}
	return h
}
