package renderer

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/game"
	"github.com/pthm-cable/savanna/systems"
)

func TestPaletteHandles(t *testing.T) {
	p := NewPalette(1)

	a := p.Create(components.KindPrey, mgl32.Vec3{})
	b := p.Create(components.KindPredator, mgl32.Vec3{})
	if a == b {
		t.Fatalf("expected distinct handles, got %d twice", a)
	}
	if p.Len() != 2 {
		t.Errorf("expected 2 live handles, got %d", p.Len())
	}

	p.Destroy(a)
	if p.Len() != 1 {
		t.Errorf("expected 1 live handle after destroy, got %d", p.Len())
	}
}

func TestStateColor(t *testing.T) {
	tests := []struct {
		name string
		view game.AgentView
		want rl.Color
	}{
		{"calm prey", game.AgentView{Kind: components.KindPrey}, ColorPreyCalm},
		{"fleeing prey", game.AgentView{Kind: components.KindPrey, Fleeing: true}, ColorPreyFleeing},
		{"corpse", game.AgentView{Kind: components.KindPrey, Dead: true, Fleeing: true}, ColorCorpse},
		{"wandering predator", game.AgentView{Kind: components.KindPredator}, ColorPredWander},
		{"chasing predator", game.AgentView{Kind: components.KindPredator, State: components.Chasing}, ColorPredChase},
		{"eating predator", game.AgentView{Kind: components.KindPredator, State: components.Eating}, ColorPredEat},
		{"resting predator", game.AgentView{Kind: components.KindPredator, State: components.PostEatCooldown}, ColorPredRest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StateColor(&tt.view); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestShadeClamps(t *testing.T) {
	c := rl.Color{R: 200, G: 100, B: 0, A: 77}

	bright := Shade(c, 0.5)
	if bright.R != 255 || bright.G != 150 || bright.B != 0 || bright.A != 77 {
		t.Errorf("expected (255,150,0,77), got %v", bright)
	}
	if got := Shade(c, 0); got != c {
		t.Errorf("expected zero shade to keep %v, got %v", c, got)
	}
}

func TestHeightShade(t *testing.T) {
	if got := HeightShade(-2, 0, 2); got != groundLow {
		t.Errorf("expected lowest ground color, got %v", got)
	}
	if got := HeightShade(5, 0, 2); got != groundHigh {
		t.Errorf("expected heights above the range to clamp, got %v", got)
	}
	flat := HeightShade(systems.FlatTerrain{}.GroundHeight(0, 0), 0, 0)
	mid := HeightShade(0, 0, 2)
	if flat != mid {
		t.Errorf("expected flat ground to use the middle shade %v, got %v", mid, flat)
	}
}
