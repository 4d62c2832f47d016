// Package telemetry provides population tracking, bookmarking, and run output.
package telemetry

import "github.com/pthm-cable/savanna/components"

// EventType identifies telemetry events.
type EventType uint8

const (
	EventHit EventType = iota
	EventKill
	EventBite
	EventConsumed
	EventDecayed
	EventStarved
	EventBirth
	EventTargetLost
)

var eventTypeNames = [...]string{
	"hit", "kill", "bite", "consumed", "decayed", "starved", "birth", "target_lost",
}

// String returns the CSV/log name of the event type.
func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// MarshalCSV lets gocsv write the event type by name.
func (t EventType) MarshalCSV() (string, error) {
	return t.String(), nil
}

// Event is a single discrete occurrence in the simulation.
// EntityID is the acting agent; TargetID is the other party, if any.
type Event struct {
	Type     EventType       `csv:"type"`
	Tick     int32           `csv:"tick"`
	EntityID uint32          `csv:"entity"`
	Kind     components.Kind `csv:"-"`
	TargetID uint32          `csv:"target"`
}

// NewHitEvent records a predator landing an attack on a prey.
func NewHitEvent(tick int32, predatorID, preyID uint32) Event {
	return Event{Type: EventHit, Tick: tick, EntityID: predatorID, Kind: components.KindPredator, TargetID: preyID}
}

// NewKillEvent records the hit that brought a prey's health to zero.
func NewKillEvent(tick int32, predatorID, preyID uint32) Event {
	return Event{Type: EventKill, Tick: tick, EntityID: predatorID, Kind: components.KindPredator, TargetID: preyID}
}

// NewBiteEvent records one bite of meat taken from a carcass.
func NewBiteEvent(tick int32, predatorID, preyID uint32) Event {
	return Event{Type: EventBite, Tick: tick, EntityID: predatorID, Kind: components.KindPredator, TargetID: preyID}
}

// NewConsumedEvent records a carcass eaten down to nothing.
func NewConsumedEvent(tick int32, predatorID, preyID uint32) Event {
	return Event{Type: EventConsumed, Tick: tick, EntityID: predatorID, Kind: components.KindPredator, TargetID: preyID}
}

// NewDecayedEvent records a carcass removed after its corpse lifetime.
func NewDecayedEvent(tick int32, preyID uint32) Event {
	return Event{Type: EventDecayed, Tick: tick, EntityID: preyID, Kind: components.KindPrey}
}

// NewStarvedEvent records a predator removed by starvation.
func NewStarvedEvent(tick int32, predatorID uint32) Event {
	return Event{Type: EventStarved, Tick: tick, EntityID: predatorID, Kind: components.KindPredator}
}

// NewBirthEvent records a spawned agent. parentID is 0 for initial population.
func NewBirthEvent(tick int32, childID, parentID uint32, kind components.Kind) Event {
	return Event{Type: EventBirth, Tick: tick, EntityID: childID, Kind: kind, TargetID: parentID}
}

// NewTargetLostEvent records a predator dropping a target that vanished.
func NewTargetLostEvent(tick int32, predatorID uint32) Event {
	return Event{Type: EventTargetLost, Tick: tick, EntityID: predatorID, Kind: components.KindPredator}
}
