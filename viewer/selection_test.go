package viewer

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/savanna/game"
)

func TestPickAgent(t *testing.T) {
	frame := []game.AgentView{
		{ID: 1, Pos: mgl32.Vec3{0, 0, 0}},
		{ID: 2, Pos: mgl32.Vec3{3, 5, 0}}, // height is ignored
		{ID: 3, Pos: mgl32.Vec3{10, 0, 10}},
	}

	tests := []struct {
		name    string
		x, z    float32
		maxDist float32
		want    uint32
		found   bool
	}{
		{"exact hit", 0, 0, 1, 1, true},
		{"nearest of two", 2, 0, 2, 2, true},
		{"ground distance only", 3, 0.5, 1, 2, true},
		{"out of reach", 20, 20, 2, 0, false},
		{"empty slack", 5, 5, 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PickAgent(frame, tt.x, tt.z, tt.maxDist)
			if ok != tt.found || got != tt.want {
				t.Errorf("expected (%d, %v), got (%d, %v)", tt.want, tt.found, got, ok)
			}
		})
	}

	if _, ok := PickAgent(nil, 0, 0, 100); ok {
		t.Error("expected no pick from an empty frame")
	}
}
