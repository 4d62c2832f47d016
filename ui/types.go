// Package ui provides a descriptor-driven UI for the viewer. Panels are
// described by metadata so the fields shown can change alongside the
// simulation without touching layout code.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// WidgetType specifies how a field should be rendered.
type WidgetType int

const (
	WidgetText    WidgetType = iota // Plain text with format string
	WidgetBar                       // Progress bar [0, 1]
	WidgetLevel                     // [0, 1] bar colored by thresholds
	WidgetSection                   // Section header
	WidgetSpacer                    // Vertical spacing
)

// FieldDescriptor defines how to display a single piece of data.
type FieldDescriptor struct {
	Label      string
	Widget     WidgetType
	Format     string            // Printf format for numeric text
	Invert     bool              // WidgetLevel: high values are bad
	Visible    func(any) bool    // nil = always visible
	Getter     func(any) float32 // numeric value
	TextGetter func(any) string  // text value, preferred over Getter
}

// SectionDescriptor defines a group of fields with a header.
type SectionDescriptor struct {
	Title   string
	Fields  []FieldDescriptor
	Visible func(any) bool
}

// Theme holds UI styling constants.
type Theme struct {
	PanelBg        rl.Color
	PanelBorder    rl.Color
	SectionHeader  rl.Color
	LabelColor     rl.Color
	ValueColor     rl.Color
	BarBg          rl.Color
	BarFill        rl.Color
	BarFillLow     rl.Color
	BarFillMedium  rl.Color
	BarFillHigh    rl.Color
	Padding        int32
	LineHeight     int32
	LabelWidth     int32
	BarHeight      int32
	FontSize       int32
	HeaderFontSize int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:        rl.Color{R: 24, G: 22, B: 18, A: 235},
		PanelBorder:    rl.Color{R: 90, G: 80, B: 60, A: 255},
		SectionHeader:  rl.Color{R: 240, G: 200, B: 110, A: 255},
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		BarBg:          rl.Color{R: 45, G: 42, B: 36, A: 255},
		BarFill:        rl.Color{R: 120, G: 160, B: 200, A: 255},
		BarFillLow:     rl.Color{R: 200, G: 90, B: 80, A: 255},
		BarFillMedium:  rl.Color{R: 210, G: 180, B: 90, A: 255},
		BarFillHigh:    rl.Color{R: 110, G: 190, B: 100, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     70,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}

// LevelColor picks the threshold color for a [0, 1] value. With invert,
// high values are treated as bad.
func (t Theme) LevelColor(v float32, invert bool) rl.Color {
	if invert {
		v = 1 - v
	}
	switch {
	case v < 0.3:
		return t.BarFillLow
	case v < 0.6:
		return t.BarFillMedium
	default:
		return t.BarFillHigh
	}
}
