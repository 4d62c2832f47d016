package game

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/config"
	"github.com/pthm-cable/savanna/systems"
)

// recordingFactory counts live presentation handles.
type recordingFactory struct {
	next components.Handle
	live map[components.Handle]components.Kind
}

func newRecordingFactory() *recordingFactory {
	return &recordingFactory{live: make(map[components.Handle]components.Kind)}
}

func (f *recordingFactory) Create(kind components.Kind, _ mgl32.Vec3) components.Handle {
	f.next++
	f.live[f.next] = kind
	return f.next
}

func (f *recordingFactory) Destroy(h components.Handle) {
	delete(f.live, h)
}

func newTestRegistry(t *testing.T, factory Factory) *Registry {
	t.Helper()
	cfg := config.MustLoad("")
	pp := systems.NewPredatorParams(cfg.Predator)
	return NewRegistry(ecs.NewWorld(), factory, rand.New(rand.NewSource(1)), &pp)
}

func TestRegistrySpawnAssignsIDs(t *testing.T) {
	reg := newTestRegistry(t, nil)

	a := reg.SpawnPrey(mgl32.Vec3{})
	b := reg.SpawnPredator(mgl32.Vec3{1, 0, 1})

	if reg.ID(a) == reg.ID(b) {
		t.Errorf("expected distinct ids, got %d twice", reg.ID(a))
	}
	prey, preds := reg.Counts()
	if prey != 1 || preds != 1 {
		t.Errorf("expected 1 prey and 1 predator, got %d and %d", prey, preds)
	}
}

func TestRegistryDoubleRemovalPanics(t *testing.T) {
	reg := newTestRegistry(t, nil)
	e := reg.SpawnPrey(mgl32.Vec3{})
	reg.RequestRemoval(e, CauseDecayed)

	defer func() {
		if recover() == nil {
			t.Error("expected a second removal request to panic")
		}
	}()
	reg.RequestRemoval(e, CauseConsumed)
}

func TestRegistryRemovalOfDeadEntityPanics(t *testing.T) {
	reg := newTestRegistry(t, nil)
	e := reg.SpawnPrey(mgl32.Vec3{})
	reg.RequestRemoval(e, CauseDecayed)
	reg.Commit()

	defer func() {
		if recover() == nil {
			t.Error("expected removal of a removed entity to panic")
		}
	}()
	reg.RequestRemoval(e, CauseDecayed)
}

func TestRegistryResolve(t *testing.T) {
	reg := newTestRegistry(t, nil)
	prey := reg.SpawnPrey(mgl32.Vec3{3, 0, 4})
	pred := reg.SpawnPredator(mgl32.Vec3{})
	reg.Snapshot()

	snap, live, ok := reg.Resolve(prey)
	if !ok {
		t.Fatal("expected a snapshotted prey to resolve")
	}
	if snap.Pos != (mgl32.Vec3{3, 0, 4}) || live.Health != 1 {
		t.Errorf("expected snapshot at (3,0,4) with full health, got %v health %v", snap.Pos, live.Health)
	}

	if _, _, ok := reg.Resolve(pred); ok {
		t.Error("expected a predator not to resolve as a target")
	}

	late := reg.SpawnPrey(mgl32.Vec3{})
	if _, _, ok := reg.Resolve(late); ok {
		t.Error("expected a prey spawned after the snapshot not to resolve")
	}

	reg.RequestRemoval(prey, CauseConsumed)
	if _, _, ok := reg.Resolve(prey); ok {
		t.Error("expected a prey with a pending removal not to resolve")
	}

	reg.Commit()
	if _, _, ok := reg.Resolve(prey); ok {
		t.Error("expected a removed prey not to resolve")
	}
}

func TestRegistryCommit(t *testing.T) {
	factory := newRecordingFactory()
	reg := newTestRegistry(t, factory)

	var prey []ecs.Entity
	for i := 0; i < 3; i++ {
		prey = append(prey, reg.SpawnPrey(mgl32.Vec3{float32(i), 0, 0}))
	}
	pred := reg.SpawnPredator(mgl32.Vec3{})
	reg.SpawnPredator(mgl32.Vec3{})
	parent := reg.ID(prey[1])

	reg.RequestRemoval(prey[0], CauseConsumed)
	reg.RequestRemoval(pred, CauseStarved)
	reg.RequestBirth(components.KindPrey, mgl32.Vec3{5, 0, 5}, parent)

	// Nothing changes before the commit
	if p, d := reg.Counts(); p != 3 || d != 2 {
		t.Fatalf("expected 3 prey and 2 predators before commit, got %d and %d", p, d)
	}

	removed, born := reg.Commit()
	if len(removed) != 2 {
		t.Fatalf("expected 2 removals, got %d", len(removed))
	}
	if removed[0].Cause != CauseConsumed || removed[1].Cause != CauseStarved {
		t.Errorf("expected causes consumed then starved, got %s then %s", removed[0].Cause, removed[1].Cause)
	}
	if len(born) != 1 || born[0].Parent != parent || born[0].Kind != components.KindPrey {
		t.Fatalf("expected one prey born to parent %d, got %+v", parent, born)
	}

	if p, d := reg.Counts(); p != 3 || d != 1 {
		t.Errorf("expected 3 prey and 1 predator after commit, got %d and %d", p, d)
	}
	if len(factory.live) != 4 {
		t.Errorf("expected 4 live presentation handles, got %d", len(factory.live))
	}
	if reg.Pending(prey[0]) {
		t.Error("expected pending set to clear after commit")
	}

	// A second commit with nothing queued is a no-op
	removed, born = reg.Commit()
	if len(removed) != 0 || len(born) != 0 {
		t.Errorf("expected empty commit, got %d removals and %d births", len(removed), len(born))
	}
}

func TestRemovalCauseString(t *testing.T) {
	tests := []struct {
		cause RemovalCause
		want  string
	}{
		{CauseDecayed, "decayed"},
		{CauseConsumed, "consumed"},
		{CauseStarved, "starved"},
		{RemovalCause(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.cause.String(); got != tt.want {
			t.Errorf("expected %q, got %q", tt.want, got)
		}
	}
}
