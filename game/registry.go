package game

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/systems"
)

// RemovalCause records why an agent left the world.
type RemovalCause uint8

const (
	CauseDecayed RemovalCause = iota
	CauseConsumed
	CauseStarved
)

var removalCauseNames = [...]string{"decayed", "consumed", "starved"}

// String returns the log name of the cause.
func (c RemovalCause) String() string {
	if int(c) < len(removalCauseNames) {
		return removalCauseNames[c]
	}
	return "unknown"
}

// Removed describes one agent removed by Commit.
type Removed struct {
	ID    uint32
	Kind  components.Kind
	Cause RemovalCause
}

// Born describes one agent spawned by Commit.
type Born struct {
	E      ecs.Entity
	ID     uint32
	Kind   components.Kind
	Parent uint32
}

type removal struct {
	e     ecs.Entity
	cause RemovalCause
}

type birth struct {
	kind   components.Kind
	pos    mgl32.Vec3
	parent uint32
}

// Registry owns every prey and predator entity. It is the only code that
// adds agents to or removes them from the world. Removals and births
// requested during a tick are buffered until Commit.
type Registry struct {
	world   *ecs.World
	factory Factory

	preyMapper *ecs.Map3[components.Body, components.Motion, components.Prey]
	predMapper *ecs.Map3[components.Body, components.Motion, components.Predator]
	preyFilter *ecs.Filter3[components.Body, components.Motion, components.Prey]
	predFilter *ecs.Filter3[components.Body, components.Motion, components.Predator]

	bodyMap *ecs.Map1[components.Body]
	preyMap *ecs.Map[components.Prey]

	nextID  uint32
	numPrey int
	numPred int

	pending  map[ecs.Entity]RemovalCause
	removals []removal
	births   []birth

	// Start-of-tick snapshot
	preySnap  []systems.Agent
	predSnap  []systems.Agent
	preyIndex map[ecs.Entity]int

	removed []Removed
	born    []Born

	rng        *rand.Rand
	predParams *systems.PredatorParams
}

// NewRegistry creates a registry over world. rng seeds each agent's wander
// heading; pp supplies a new predator's initial hunger. A nil factory uses
// sequential handles.
func NewRegistry(world *ecs.World, factory Factory, rng *rand.Rand, pp *systems.PredatorParams) *Registry {
	if factory == nil {
		factory = &nopFactory{}
	}
	return &Registry{
		world:      world,
		factory:    factory,
		preyMapper: ecs.NewMap3[components.Body, components.Motion, components.Prey](world),
		predMapper: ecs.NewMap3[components.Body, components.Motion, components.Predator](world),
		preyFilter: ecs.NewFilter3[components.Body, components.Motion, components.Prey](world),
		predFilter: ecs.NewFilter3[components.Body, components.Motion, components.Predator](world),
		bodyMap:    ecs.NewMap1[components.Body](world),
		preyMap:    ecs.NewMap[components.Prey](world),
		pending:    make(map[ecs.Entity]RemovalCause),
		preyIndex:  make(map[ecs.Entity]int),
		rng:        rng,
		predParams: pp,
	}
}

// SpawnPrey adds a healthy prey at pos.
func (r *Registry) SpawnPrey(pos mgl32.Vec3) ecs.Entity {
	body := r.newBody(components.KindPrey, pos)
	motion := components.Motion{Pos: pos, WanderAngle: r.rng.Float32() * 2 * math.Pi}
	prey := systems.NewPrey()
	e := r.preyMapper.NewEntity(&body, &motion, &prey)
	r.numPrey++
	return e
}

// SpawnPredator adds a wandering predator at pos.
func (r *Registry) SpawnPredator(pos mgl32.Vec3) ecs.Entity {
	body := r.newBody(components.KindPredator, pos)
	motion := components.Motion{Pos: pos, WanderAngle: r.rng.Float32() * 2 * math.Pi}
	pred := systems.NewPredator(r.predParams)
	e := r.predMapper.NewEntity(&body, &motion, &pred)
	r.numPred++
	return e
}

func (r *Registry) newBody(kind components.Kind, pos mgl32.Vec3) components.Body {
	r.nextID++
	return components.Body{
		ID:     r.nextID,
		Kind:   kind,
		Handle: r.factory.Create(kind, pos),
	}
}

// RequestRemoval marks e for removal at the next Commit. Asking twice for
// the same agent, or for one already gone, is a programming error.
func (r *Registry) RequestRemoval(e ecs.Entity, cause RemovalCause) {
	if !r.world.Alive(e) {
		panic(fmt.Sprintf("game: removal requested for dead entity %v", e))
	}
	if prev, ok := r.pending[e]; ok {
		panic(fmt.Sprintf("game: entity %v already pending removal (%s), requested again (%s)", e, prev, cause))
	}
	r.pending[e] = cause
	r.removals = append(r.removals, removal{e: e, cause: cause})
}

// Pending reports whether e is waiting to be removed.
func (r *Registry) Pending(e ecs.Entity) bool {
	_, ok := r.pending[e]
	return ok
}

// RequestBirth queues a new agent of kind at pos. parent is the Body.ID of
// the agent that asked, or 0.
func (r *Registry) RequestBirth(kind components.Kind, pos mgl32.Vec3, parent uint32) {
	r.births = append(r.births, birth{kind: kind, pos: pos, parent: parent})
}

// Commit applies buffered removals, then buffered births. The returned
// slices are reused by the next Commit.
func (r *Registry) Commit() ([]Removed, []Born) {
	r.removed = r.removed[:0]
	r.born = r.born[:0]

	for _, rm := range r.removals {
		body := r.bodyMap.Get(rm.e)
		r.removed = append(r.removed, Removed{ID: body.ID, Kind: body.Kind, Cause: rm.cause})
		r.factory.Destroy(body.Handle)
		if body.Kind == components.KindPrey {
			r.numPrey--
		} else {
			r.numPred--
		}
		r.world.RemoveEntity(rm.e)
	}
	r.removals = r.removals[:0]
	clear(r.pending)

	for _, b := range r.births {
		var e ecs.Entity
		if b.kind == components.KindPrey {
			e = r.SpawnPrey(b.pos)
		} else {
			e = r.SpawnPredator(b.pos)
		}
		r.born = append(r.born, Born{E: e, ID: r.bodyMap.Get(e).ID, Kind: b.kind, Parent: b.parent})
	}
	r.births = r.births[:0]

	return r.removed, r.born
}

// Counts returns the number of prey (corpses included) and predators.
func (r *Registry) Counts() (prey, predators int) {
	return r.numPrey, r.numPred
}

// Snapshot records every agent's start-of-tick state. Behaviors read only
// the snapshot, never each other's live components.
func (r *Registry) Snapshot() {
	r.preySnap = r.preySnap[:0]
	r.predSnap = r.predSnap[:0]
	clear(r.preyIndex)

	query := r.preyFilter.Query()
	for query.Next() {
		e := query.Entity()
		_, m, p := query.Get()
		r.preyIndex[e] = len(r.preySnap)
		r.preySnap = append(r.preySnap, systems.Agent{
			E: e, Pos: m.Pos, Vel: m.Vel,
			Health: p.Health, Fatigue: p.Fatigue, Dead: p.Dead,
		})
	}

	predQuery := r.predFilter.Query()
	for predQuery.Next() {
		e := predQuery.Entity()
		_, m, _ := predQuery.Get()
		r.predSnap = append(r.predSnap, systems.Agent{E: e, Pos: m.Pos, Vel: m.Vel, Health: 1})
	}
}

// LivePrey appends the current state of every living prey to dst.
func (r *Registry) LivePrey(dst []systems.Agent) []systems.Agent {
	query := r.preyFilter.Query()
	for query.Next() {
		_, m, p := query.Get()
		if p.Dead {
			continue
		}
		dst = append(dst, systems.Agent{E: query.Entity(), Pos: m.Pos, Vel: m.Vel, Health: p.Health, Fatigue: p.Fatigue})
	}
	return dst
}

// ID returns the stable agent id of a live entity.
func (r *Registry) ID(e ecs.Entity) uint32 {
	return r.bodyMap.Get(e).ID
}

// PreySnapshot returns the prey snapshot taken by the last Snapshot call.
func (r *Registry) PreySnapshot() []systems.Agent {
	return r.preySnap
}

// PredatorSnapshot returns the predator snapshot taken by the last Snapshot call.
func (r *Registry) PredatorSnapshot() []systems.Agent {
	return r.predSnap
}

// Resolve implements systems.Targets. A handle resolves only while the
// entity is alive, is a prey, has no removal pending, and was present at
// the start of the tick.
func (r *Registry) Resolve(e ecs.Entity) (systems.Agent, *components.Prey, bool) {
	if !r.world.Alive(e) || !r.preyMap.Has(e) || r.Pending(e) {
		return systems.Agent{}, nil, false
	}
	i, ok := r.preyIndex[e]
	if !ok {
		return systems.Agent{}, nil, false
	}
	return r.preySnap[i], r.preyMap.Get(e), true
}
