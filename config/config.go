// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen       ScreenConfig       `yaml:"screen"`
	Physics      PhysicsConfig      `yaml:"physics"`
	World        WorldConfig        `yaml:"world"`
	Boundary     BoundaryConfig     `yaml:"boundary"`
	Prey         PreyConfig         `yaml:"prey"`
	Predator     PredatorConfig     `yaml:"predator"`
	Wander       WanderConfig       `yaml:"wander"`
	Avoidance    AvoidanceConfig    `yaml:"avoidance"`
	Population   PopulationConfig   `yaml:"population"`
	Reproduction ReproductionConfig `yaml:"reproduction"`
	Terrain      TerrainConfig      `yaml:"terrain"`
	Obstacles    ObstaclesConfig    `yaml:"obstacles"`
	Birds        BirdsConfig        `yaml:"birds"`
	Telemetry    TelemetryConfig    `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the optional viewer.
type ScreenConfig struct {
	Width         int     `yaml:"width"`
	Height        int     `yaml:"height"`
	TargetFPS     int     `yaml:"target_fps"`
	PixelsPerUnit float64 `yaml:"pixels_per_unit"`
}

// PhysicsConfig holds integration parameters.
type PhysicsConfig struct {
	DT           float64 `yaml:"dt"`
	TimeScale    float64 `yaml:"time_scale"`
	SpatialGrid  bool    `yaml:"spatial_grid"`
	GridCellSize float64 `yaml:"grid_cell_size"`
}

// WorldConfig holds spawn geometry.
type WorldConfig struct {
	Radius      float64 `yaml:"radius"`
	SpawnRadius float64 `yaml:"spawn_radius"`
	SpawnHeight float64 `yaml:"spawn_height"`
}

// Extents2 is a pair of half-extents on the ground plane.
type Extents2 struct {
	X float64 `yaml:"x"`
	Z float64 `yaml:"z"`
}

// Extents3 is a full 3D extent.
type Extents3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

// BoundaryConfig describes the containment field.
type BoundaryConfig struct {
	Enabled     bool     `yaml:"enabled"`
	Shape       string   `yaml:"shape"` // "circle" or "box"
	Radius      float64  `yaml:"radius"`
	HalfExtents Extents2 `yaml:"half_extents"`
	Margin      float64  `yaml:"margin"`
	Weight      float64  `yaml:"weight"`
	Multiplier  float64  `yaml:"multiplier"`
	HardEdge    bool     `yaml:"hard_edge"`
}

// PreyConfig holds prey tunables.
type PreyConfig struct {
	MaxSpeed         float64 `yaml:"max_speed"`
	FleeMaxSpeed     float64 `yaml:"flee_max_speed"`
	MaxForce         float64 `yaml:"max_force"`
	Friction         float64 `yaml:"friction"`
	SeparationRadius float64 `yaml:"separation_radius"`
	SeparationWeight float64 `yaml:"separation_weight"`
	AlignmentRadius  float64 `yaml:"alignment_radius"`
	AlignmentWeight  float64 `yaml:"alignment_weight"`
	CohesionRadius   float64 `yaml:"cohesion_radius"`
	CohesionWeight   float64 `yaml:"cohesion_weight"`
	DetectionRadius  float64 `yaml:"detection_radius"` // predator detection
	FleeWeight       float64 `yaml:"flee_weight"`
	FatigueRate      float64 `yaml:"fatigue_rate"`
	FatigueRecovery  float64 `yaml:"fatigue_recovery"`
	FatigueSlowdown  float64 `yaml:"fatigue_slowdown"`
	InjurySlowdown   float64 `yaml:"injury_slowdown"`
	DeadDamping      float64 `yaml:"dead_damping"`
	CorpseLifetime   float64 `yaml:"corpse_lifetime"` // seconds before an uneaten corpse is removed
}

// PredatorConfig holds predator tunables.
type PredatorConfig struct {
	MaxSpeed             float64 `yaml:"max_speed"`
	ChaseMaxSpeed        float64 `yaml:"chase_max_speed"`
	MaxForce             float64 `yaml:"max_force"`
	ChaseMaxForce        float64 `yaml:"chase_max_force"`
	Friction             float64 `yaml:"friction"`
	SeparationRadius     float64 `yaml:"separation_radius"`
	SeparationWeight     float64 `yaml:"separation_weight"`
	AlignmentRadius      float64 `yaml:"alignment_radius"`
	AlignmentWeight      float64 `yaml:"alignment_weight"`
	CohesionRadius       float64 `yaml:"cohesion_radius"`
	CohesionWeight       float64 `yaml:"cohesion_weight"`
	PreySeparationRadius float64 `yaml:"prey_separation_radius"`
	PreySeparationWeight float64 `yaml:"prey_separation_weight"`
	DetectionRadius      float64 `yaml:"detection_radius"` // prey detection
	ChaseWeight          float64 `yaml:"chase_weight"`
	PackChaseScale       float64 `yaml:"pack_chase_scale"` // pack weight multiplier while chasing
	HungerRate           float64 `yaml:"hunger_rate"`
	InitialHunger        float64 `yaml:"initial_hunger"`
	HuntThreshold        float64 `yaml:"hunt_threshold"`
	DamagePerHit         float64 `yaml:"damage_per_hit"`
	HitDistance          float64 `yaml:"hit_distance"`
	HitCooldown          float64 `yaml:"hit_cooldown"`
	EatDistance          float64 `yaml:"eat_distance"`
	EatCooldown          float64 `yaml:"eat_cooldown"`
	BiteMeat             float64 `yaml:"bite_meat"`
	HungerPerMeat        float64 `yaml:"hunger_per_meat"`
	EatDamping           float64 `yaml:"eat_damping"`
	RestDamping          float64 `yaml:"rest_damping"`
	PostEatRest          float64 `yaml:"post_eat_rest"`
	StarveAfter          float64 `yaml:"starve_after"` // 0 disables starvation
}

// WanderConfig holds wander behavior parameters shared by both species.
type WanderConfig struct {
	Radius   float64 `yaml:"radius"`
	Distance float64 `yaml:"distance"`
	Jitter   float64 `yaml:"jitter"`
	Weight   float64 `yaml:"weight"`
}

// AvoidanceConfig holds whisker-probe obstacle avoidance parameters.
type AvoidanceConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Distance     float64 `yaml:"distance"`
	Weight       float64 `yaml:"weight"`
	WhiskerAngle float64 `yaml:"whisker_angle"`
}

// GroupRange bounds the size of a spawn cluster.
type GroupRange struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// PopulationConfig holds initial spawn parameters.
type PopulationConfig struct {
	PreyCount     int        `yaml:"prey_count"`
	PredatorCount int        `yaml:"predator_count"`
	PreyGroup     GroupRange `yaml:"prey_group"`
	PredatorGroup GroupRange `yaml:"predator_group"`
	GroupSpread   float64    `yaml:"group_spread"`
	MaxPrey       int        `yaml:"max_prey"`
}

// ReproductionConfig holds prey reproduction parameters.
type ReproductionConfig struct {
	Interval    int     `yaml:"interval"` // ticks between checks
	Chance      float64 `yaml:"chance"`
	SpawnOffset float64 `yaml:"spawn_offset"`
}

// TerrainConfig holds ground height noise parameters.
type TerrainConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Seed      int64   `yaml:"seed"`
	Scale     float64 `yaml:"scale"`
	Amplitude float64 `yaml:"amplitude"`
	Base      float64 `yaml:"base"`
}

// ObstaclesConfig holds static obstacle scatter parameters.
type ObstaclesConfig struct {
	Count     int     `yaml:"count"`
	MinRadius float64 `yaml:"min_radius"`
	MaxRadius float64 `yaml:"max_radius"`
	Seed      int64   `yaml:"seed"`
}

// BirdsConfig holds the ambient flock parameters.
type BirdsConfig struct {
	Count            int      `yaml:"count"`
	Bounds           Extents3 `yaml:"bounds"`
	Altitude         float64  `yaml:"altitude"`
	MaxSpeed         float64  `yaml:"max_speed"`
	MaxForce         float64  `yaml:"max_force"`
	PerceptionRadius float64  `yaml:"perception_radius"`
	SeparationRadius float64  `yaml:"separation_radius"`
	SeparationWeight float64  `yaml:"separation_weight"`
	AlignmentWeight  float64  `yaml:"alignment_weight"`
	CohesionWeight   float64  `yaml:"cohesion_weight"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow     float64 `yaml:"stats_window"`
	PerfWindow      int     `yaml:"perf_window"`
	BookmarkHistory int     `yaml:"bookmark_history"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT32         float32 // Physics.DT as float32
	BoxShape     bool    // Boundary.Shape == "box"
	ScreenW32    float32
	ScreenH32    float32
	WorldExtent  float32 // half-size of the square that contains the boundary
	TicksPerStat int32   // Telemetry.StatsWindow expressed in ticks
}

// global holds the loaded configuration for the CLI entry point.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// MustLoad is like Load but panics on error. Intended for tests.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(fmt.Sprintf("config: failed to load: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used. The result is validated.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Clone returns a deep copy. The viewer edits a clone and hands it back
// through Game.ApplyConfig so a rejected edit never touches the live config.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// Refresh validates the config and recomputes derived values after an in-place edit.
func (c *Config) Refresh() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT32 = float32(c.Physics.DT)
	c.Derived.BoxShape = c.Boundary.Shape == ShapeBox
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)

	extent := c.World.Radius
	if c.Boundary.Enabled {
		if c.Derived.BoxShape {
			extent = max(c.Boundary.HalfExtents.X, c.Boundary.HalfExtents.Z)
		} else {
			extent = c.Boundary.Radius
		}
	}
	c.Derived.WorldExtent = float32(extent)

	ticks := int32(math.Round(c.Telemetry.StatsWindow / c.Physics.DT))
	if ticks < 1 {
		ticks = 1
	}
	c.Derived.TicksPerStat = ticks
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
