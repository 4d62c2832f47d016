package ui

import (
	"fmt"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/game"
)

func view(data any) *game.AgentView {
	return data.(*game.AgentView)
}

func isPrey(data any) bool {
	return view(data).Kind == components.KindPrey
}

func isPredator(data any) bool {
	return view(data).Kind == components.KindPredator
}

// AgentSections describes the inspector layout for one agent.
var AgentSections = []SectionDescriptor{
	{
		Title: "Agent",
		Fields: []FieldDescriptor{
			{Label: "ID", Widget: WidgetText, TextGetter: func(d any) string { return fmt.Sprintf("%d", view(d).ID) }},
			{Label: "Kind", Widget: WidgetText, TextGetter: func(d any) string { return view(d).Kind.String() }},
			{Label: "State", Widget: WidgetText, TextGetter: agentState},
			{Label: "Speed", Widget: WidgetText, Format: "%.2f", Getter: func(d any) float32 { return view(d).Speed }},
			{Label: "Position", Widget: WidgetText, TextGetter: func(d any) string {
				p := view(d).Pos
				return fmt.Sprintf("%.1f, %.1f, %.1f", p.X(), p.Y(), p.Z())
			}},
		},
	},
	{
		Title:   "Condition",
		Visible: isPrey,
		Fields: []FieldDescriptor{
			{Label: "Health", Widget: WidgetLevel, Getter: func(d any) float32 { return view(d).Health }},
			{Label: "Fatigue", Widget: WidgetLevel, Invert: true, Getter: func(d any) float32 { return view(d).Fatigue }},
			{Label: "Meat", Widget: WidgetBar, Getter: func(d any) float32 { return view(d).Meat }, Visible: func(d any) bool { return view(d).Dead }},
		},
	},
	{
		Title:   "Hunt",
		Visible: isPredator,
		Fields: []FieldDescriptor{
			{Label: "Hunger", Widget: WidgetLevel, Invert: true, Getter: func(d any) float32 { return view(d).Hunger }},
			{Label: "Target", Widget: WidgetText, TextGetter: func(d any) string {
				if v := view(d); v.HasTarget {
					return fmt.Sprintf("%d", v.TargetID)
				}
				return "none"
			}},
		},
	},
}

func agentState(d any) string {
	v := view(d)
	if v.Kind == components.KindPredator {
		return v.State.String()
	}
	switch {
	case v.Dead:
		return components.PreyDead.String()
	case v.Fleeing:
		return components.PreyFleeing.String()
	default:
		return components.PreyCalm.String()
	}
}

// Inspector renders the selected agent's panel.
type Inspector struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the panel for v.
func (ins *Inspector) Draw(v *game.AgentView) {
	r := ins.renderer
	padding := r.Theme.Padding
	contentWidth := ins.width - padding*2

	height := padding * 2
	for _, sd := range AgentSections {
		height += r.SectionHeight(sd, v)
	}
	r.DrawPanel(ins.x, ins.y, ins.width, height)

	y := ins.y + padding
	for _, sd := range AgentSections {
		y = r.DrawSection(ins.x+padding, y, sd, v, contentWidth)
	}
}
