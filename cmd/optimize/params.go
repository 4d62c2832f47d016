package main

import (
	"github.com/pthm-cable/savanna/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
// Order must match ApplyToConfig and ExtractFromConfig.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Prey
			{Name: "repro_chance", Path: "reproduction.chance", Min: 0.0002, Max: 0.005, Default: 0.001},
			{Name: "prey_flee_max_speed", Path: "prey.flee_max_speed", Min: 3.5, Max: 8.0, Default: 5.0},
			{Name: "prey_detection_radius", Path: "prey.detection_radius", Min: 5.0, Max: 30.0, Default: 12.0},
			{Name: "prey_flee_weight", Path: "prey.flee_weight", Min: 0.5, Max: 6.0, Default: 2.0},
			{Name: "prey_fatigue_rate", Path: "prey.fatigue_rate", Min: 0.01, Max: 0.2, Default: 0.05},
			{Name: "prey_cohesion_weight", Path: "prey.cohesion_weight", Min: 0.5, Max: 6.0, Default: 3.0},
			// Predator
			{Name: "pred_chase_max_speed", Path: "predator.chase_max_speed", Min: 4.0, Max: 10.0, Default: 7.0},
			{Name: "pred_detection_radius", Path: "predator.detection_radius", Min: 15.0, Max: 80.0, Default: 50.0},
			{Name: "pred_hunger_rate", Path: "predator.hunger_rate", Min: 0.002, Max: 0.05, Default: 0.01},
			{Name: "pred_hunt_threshold", Path: "predator.hunt_threshold", Min: 0.05, Max: 0.8, Default: 0.2},
			{Name: "pred_damage_per_hit", Path: "predator.damage_per_hit", Min: 0.05, Max: 0.6, Default: 0.2},
			{Name: "pred_bite_meat", Path: "predator.bite_meat", Min: 0.05, Max: 0.5, Default: 0.25},
			{Name: "pred_hunger_per_meat", Path: "predator.hunger_per_meat", Min: 0.2, Max: 1.5, Default: 0.8},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// ApplyToConfig writes clamped parameter values into cfg.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)

	cfg.Reproduction.Chance = c[0]
	cfg.Prey.FleeMaxSpeed = c[1]
	cfg.Prey.DetectionRadius = c[2]
	cfg.Prey.FleeWeight = c[3]
	cfg.Prey.FatigueRate = c[4]
	cfg.Prey.CohesionWeight = c[5]

	cfg.Predator.ChaseMaxSpeed = c[6]
	cfg.Predator.DetectionRadius = c[7]
	cfg.Predator.HungerRate = c[8]
	cfg.Predator.HuntThreshold = c[9]
	cfg.Predator.DamagePerHit = c[10]
	cfg.Predator.BiteMeat = c[11]
	cfg.Predator.HungerPerMeat = c[12]

	// Cruise speed must not exceed the sprint caps.
	cfg.Prey.MaxSpeed = min(cfg.Prey.MaxSpeed, cfg.Prey.FleeMaxSpeed)
	cfg.Predator.MaxSpeed = min(cfg.Predator.MaxSpeed, cfg.Predator.ChaseMaxSpeed)
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Reproduction.Chance,
		cfg.Prey.FleeMaxSpeed,
		cfg.Prey.DetectionRadius,
		cfg.Prey.FleeWeight,
		cfg.Prey.FatigueRate,
		cfg.Prey.CohesionWeight,
		cfg.Predator.ChaseMaxSpeed,
		cfg.Predator.DetectionRadius,
		cfg.Predator.HungerRate,
		cfg.Predator.HuntThreshold,
		cfg.Predator.DamagePerHit,
		cfg.Predator.BiteMeat,
		cfg.Predator.HungerPerMeat,
	}
}
