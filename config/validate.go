package config

import (
	"fmt"
	"strings"
)

// Boundary shapes.
const (
	ShapeCircle = "circle"
	ShapeBox    = "box"
)

// ValidationError lists every configuration key whose value would drive a
// behavior into a division by zero or an otherwise undefined state.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return "config: invalid values: " + strings.Join(e.Issues, "; ")
}

type validator struct {
	issues []string
}

func (v *validator) positive(key string, val float64) {
	if !(val > 0) {
		v.issues = append(v.issues, fmt.Sprintf("%s must be > 0 (got %g)", key, val))
	}
}

func (v *validator) nonNegative(key string, val float64) {
	if !(val >= 0) {
		v.issues = append(v.issues, fmt.Sprintf("%s must be >= 0 (got %g)", key, val))
	}
}

func (v *validator) unit(key string, val float64) {
	if !(val >= 0 && val <= 1) {
		v.issues = append(v.issues, fmt.Sprintf("%s must be in [0, 1] (got %g)", key, val))
	}
}

// damping factors are per-tick multipliers; 0 would freeze and >1 would amplify.
func (v *validator) damping(key string, val float64) {
	if !(val > 0 && val <= 1) {
		v.issues = append(v.issues, fmt.Sprintf("%s must be in (0, 1] (got %g)", key, val))
	}
}

func (v *validator) group(key string, g GroupRange) {
	if g.Min < 1 || g.Max < g.Min {
		v.issues = append(v.issues, fmt.Sprintf("%s must satisfy 1 <= min <= max (got %d..%d)", key, g.Min, g.Max))
	}
}

func (v *validator) failf(format string, args ...any) {
	v.issues = append(v.issues, fmt.Sprintf(format, args...))
}

// Validate rejects values that could drive a division by zero at runtime.
// It returns a *ValidationError naming every offending key, or nil.
func (c *Config) Validate() error {
	v := &validator{}

	v.positive("physics.dt", c.Physics.DT)
	v.nonNegative("physics.time_scale", c.Physics.TimeScale)
	if c.Physics.SpatialGrid {
		v.positive("physics.grid_cell_size", c.Physics.GridCellSize)
	}

	v.positive("world.radius", c.World.Radius)
	v.positive("world.spawn_radius", c.World.SpawnRadius)

	if c.Boundary.Enabled {
		switch c.Boundary.Shape {
		case ShapeCircle:
			v.positive("boundary.radius", c.Boundary.Radius)
			if c.Boundary.Margin > c.Boundary.Radius {
				v.failf("boundary.margin must not exceed boundary.radius (%g > %g)", c.Boundary.Margin, c.Boundary.Radius)
			}
		case ShapeBox:
			v.positive("boundary.half_extents.x", c.Boundary.HalfExtents.X)
			v.positive("boundary.half_extents.z", c.Boundary.HalfExtents.Z)
			if c.Boundary.Margin > min(c.Boundary.HalfExtents.X, c.Boundary.HalfExtents.Z) {
				v.failf("boundary.margin must not exceed the smallest half extent (%g)", c.Boundary.Margin)
			}
		default:
			v.failf("boundary.shape must be %q or %q (got %q)", ShapeCircle, ShapeBox, c.Boundary.Shape)
		}
		v.positive("boundary.margin", c.Boundary.Margin)
		v.nonNegative("boundary.weight", c.Boundary.Weight)
		v.nonNegative("boundary.multiplier", c.Boundary.Multiplier)
	}

	p := &c.Prey
	v.positive("prey.max_speed", p.MaxSpeed)
	v.positive("prey.flee_max_speed", p.FleeMaxSpeed)
	v.positive("prey.max_force", p.MaxForce)
	v.damping("prey.friction", p.Friction)
	v.positive("prey.separation_radius", p.SeparationRadius)
	v.positive("prey.alignment_radius", p.AlignmentRadius)
	v.positive("prey.cohesion_radius", p.CohesionRadius)
	v.positive("prey.detection_radius", p.DetectionRadius)
	v.nonNegative("prey.separation_weight", p.SeparationWeight)
	v.nonNegative("prey.alignment_weight", p.AlignmentWeight)
	v.nonNegative("prey.cohesion_weight", p.CohesionWeight)
	v.nonNegative("prey.flee_weight", p.FleeWeight)
	v.nonNegative("prey.fatigue_rate", p.FatigueRate)
	v.nonNegative("prey.fatigue_recovery", p.FatigueRecovery)
	v.unit("prey.fatigue_slowdown", p.FatigueSlowdown)
	v.unit("prey.injury_slowdown", p.InjurySlowdown)
	v.damping("prey.dead_damping", p.DeadDamping)
	v.positive("prey.corpse_lifetime", p.CorpseLifetime)

	d := &c.Predator
	v.positive("predator.max_speed", d.MaxSpeed)
	v.positive("predator.chase_max_speed", d.ChaseMaxSpeed)
	v.positive("predator.max_force", d.MaxForce)
	v.positive("predator.chase_max_force", d.ChaseMaxForce)
	v.damping("predator.friction", d.Friction)
	v.positive("predator.separation_radius", d.SeparationRadius)
	v.positive("predator.alignment_radius", d.AlignmentRadius)
	v.positive("predator.cohesion_radius", d.CohesionRadius)
	v.positive("predator.prey_separation_radius", d.PreySeparationRadius)
	v.positive("predator.detection_radius", d.DetectionRadius)
	v.nonNegative("predator.chase_weight", d.ChaseWeight)
	v.unit("predator.pack_chase_scale", d.PackChaseScale)
	v.nonNegative("predator.hunger_rate", d.HungerRate)
	v.unit("predator.initial_hunger", d.InitialHunger)
	v.unit("predator.hunt_threshold", d.HuntThreshold)
	v.positive("predator.damage_per_hit", d.DamagePerHit)
	v.positive("predator.hit_distance", d.HitDistance)
	v.nonNegative("predator.hit_cooldown", d.HitCooldown)
	v.positive("predator.eat_distance", d.EatDistance)
	v.nonNegative("predator.eat_cooldown", d.EatCooldown)
	v.positive("predator.bite_meat", d.BiteMeat)
	v.nonNegative("predator.hunger_per_meat", d.HungerPerMeat)
	v.damping("predator.eat_damping", d.EatDamping)
	v.damping("predator.rest_damping", d.RestDamping)
	v.nonNegative("predator.post_eat_rest", d.PostEatRest)
	v.nonNegative("predator.starve_after", d.StarveAfter)

	v.positive("wander.radius", c.Wander.Radius)
	v.nonNegative("wander.distance", c.Wander.Distance)
	v.nonNegative("wander.jitter", c.Wander.Jitter)
	v.nonNegative("wander.weight", c.Wander.Weight)

	if c.Avoidance.Enabled {
		v.positive("avoidance.distance", c.Avoidance.Distance)
		v.nonNegative("avoidance.weight", c.Avoidance.Weight)
		v.positive("avoidance.whisker_angle", c.Avoidance.WhiskerAngle)
	}

	v.nonNegative("population.prey_count", float64(c.Population.PreyCount))
	v.nonNegative("population.predator_count", float64(c.Population.PredatorCount))
	v.group("population.prey_group", c.Population.PreyGroup)
	v.group("population.predator_group", c.Population.PredatorGroup)
	v.nonNegative("population.group_spread", c.Population.GroupSpread)
	v.positive("population.max_prey", float64(c.Population.MaxPrey))

	v.positive("reproduction.interval", float64(c.Reproduction.Interval))
	v.nonNegative("reproduction.chance", c.Reproduction.Chance)
	v.nonNegative("reproduction.spawn_offset", c.Reproduction.SpawnOffset)

	if c.Terrain.Enabled {
		v.positive("terrain.scale", c.Terrain.Scale)
	}

	if c.Obstacles.Count > 0 {
		v.positive("obstacles.min_radius", c.Obstacles.MinRadius)
		if c.Obstacles.MaxRadius < c.Obstacles.MinRadius {
			v.failf("obstacles.max_radius must be >= obstacles.min_radius")
		}
	}

	if c.Birds.Count > 0 {
		v.positive("birds.bounds.x", c.Birds.Bounds.X)
		v.positive("birds.bounds.y", c.Birds.Bounds.Y)
		v.positive("birds.bounds.z", c.Birds.Bounds.Z)
		v.positive("birds.max_speed", c.Birds.MaxSpeed)
		v.positive("birds.max_force", c.Birds.MaxForce)
		v.positive("birds.perception_radius", c.Birds.PerceptionRadius)
		v.positive("birds.separation_radius", c.Birds.SeparationRadius)
	}

	v.positive("telemetry.stats_window", c.Telemetry.StatsWindow)

	if len(v.issues) > 0 {
		return &ValidationError{Issues: v.issues}
	}
	return nil
}
