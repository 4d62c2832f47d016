package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayTerrain    OverlayID = "terrain"
	OverlayBoundary   OverlayID = "boundary"
	OverlayObstacles  OverlayID = "obstacles"
	OverlayBirds      OverlayID = "birds"
	OverlayDetection  OverlayID = "detection"
	OverlayFlockRadii OverlayID = "flock_radii"
	OverlayTargets    OverlayID = "targets"
	OverlayCondition  OverlayID = "condition"
)

// OverlayDescriptor defines an overlay that can be toggled.
// Key is the toggle key (0 = none). Exclusive overlays are switched off
// when this one is switched on.
type OverlayDescriptor struct {
	ID        OverlayID
	Name      string
	Key       int32
	KeyLabel  string
	Category  string
	Default   bool
	Exclusive []OverlayID
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with the standard overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{ID: OverlayTerrain, Name: "Terrain", Key: rl.KeyT, KeyLabel: "T", Category: "world", Default: true})
	r.Register(OverlayDescriptor{ID: OverlayBoundary, Name: "Boundary", Key: rl.KeyB, KeyLabel: "B", Category: "world", Default: true})
	r.Register(OverlayDescriptor{ID: OverlayObstacles, Name: "Obstacles", Key: rl.KeyO, KeyLabel: "O", Category: "world", Default: true})
	r.Register(OverlayDescriptor{ID: OverlayBirds, Name: "Birds", Key: rl.KeyY, KeyLabel: "Y", Category: "world", Default: true})

	r.Register(OverlayDescriptor{
		ID:        OverlayDetection,
		Name:      "Detection Radius",
		Key:       rl.KeyV,
		KeyLabel:  "V",
		Category:  "perception",
		Exclusive: []OverlayID{OverlayFlockRadii},
	})
	r.Register(OverlayDescriptor{
		ID:        OverlayFlockRadii,
		Name:      "Flocking Radii",
		Key:       rl.KeyF,
		KeyLabel:  "F",
		Category:  "perception",
		Exclusive: []OverlayID{OverlayDetection},
	})

	r.Register(OverlayDescriptor{ID: OverlayTargets, Name: "Hunt Targets", Key: rl.KeyH, KeyLabel: "H", Category: "debug"})
	r.Register(OverlayDescriptor{ID: OverlayCondition, Name: "Condition Bars", Key: rl.KeyC, KeyLabel: "C", Category: "debug"})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches an overlay on or off and returns the new state.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	r.SetEnabled(id, !r.enabled[id])
	return r.enabled[id]
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}
	r.enabled[id] = enabled
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in registration order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeyPress toggles the overlay bound to key. ok is false when no
// overlay uses the key.
func (r *OverlayRegistry) HandleKeyPress(key int32) (id OverlayID, enabled, ok bool) {
	for _, desc := range r.descriptors {
		if desc.Key == key {
			return desc.ID, r.Toggle(desc.ID), true
		}
	}
	return "", false, false
}
