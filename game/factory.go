package game

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/savanna/components"
)

// Factory creates and destroys the presentation object behind an agent.
// The core stores the returned handle on the agent's Body and hands it back
// on removal; it never looks inside.
type Factory interface {
	Create(kind components.Kind, pos mgl32.Vec3) components.Handle
	Destroy(h components.Handle)
}

// nopFactory hands out sequential handles and tracks nothing else.
type nopFactory struct {
	next components.Handle
}

func (f *nopFactory) Create(components.Kind, mgl32.Vec3) components.Handle {
	f.next++
	return f.next
}

func (f *nopFactory) Destroy(components.Handle) {}
