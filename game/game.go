// Package game wires the agent systems into a steppable simulation: the
// registry that owns agents, grouped spawning and reproduction, the fixed
// tick, and telemetry.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/config"
	"github.com/pthm-cable/savanna/flock"
	"github.com/pthm-cable/savanna/systems"
	"github.com/pthm-cable/savanna/telemetry"
)

// Options configures a Game beyond what the config file holds.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	OutputDir      string  // empty disables CSV output
	StepsPerUpdate int
	Factory        Factory // nil = sequential handles
	StatsCallback  func(telemetry.WindowStats)
}

// Game holds the complete simulation state. Several games can coexist; none
// of them touches package-level state.
type Game struct {
	cfg     *config.Config
	world   *ecs.World
	rng     *rand.Rand
	rngSeed int64

	registry   *Registry
	population *Population

	bounds     systems.BoundaryField
	ground     systems.Terrain
	obstacles  *systems.ObstacleField
	env        systems.Env
	preyParams systems.PreyParams
	predParams systems.PredatorParams

	preyNb systems.PreyNeighbors
	predNb systems.PredatorNeighbors

	// Optional uniform grids; nil when physics.spatial_grid is off
	preyGrid *systems.SpatialGrid
	predGrid *systems.SpatialGrid

	birds *flock.Flock

	// State
	tick           int32
	simTime        float64
	paused         bool
	stepsPerUpdate int

	// Telemetry
	events           []telemetry.Event
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	outputManager    *telemetry.OutputManager
	bookmarkDetector *telemetry.BookmarkDetector
	logStats         bool
	statsCallback    func(telemetry.WindowStats)
}

// NewGame builds a game from cfg and spawns the initial population.
// cfg is owned by the game from here on; use ApplyConfig to change it.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	if err := cfg.Refresh(); err != nil {
		return nil, err
	}

	world := ecs.NewWorld()
	g := &Game{
		cfg:            cfg,
		world:          world,
		rng:            rand.New(rand.NewSource(opts.Seed)),
		rngSeed:        opts.Seed,
		bounds:         systems.NewBoundaryField(cfg.Boundary),
		ground:         systems.NewTerrain(cfg.Terrain),
		stepsPerUpdate: max(opts.StepsPerUpdate, 1),
		logStats:       opts.LogStats,
		statsCallback:  opts.StatsCallback,
	}

	if cfg.Obstacles.Count > 0 {
		obstacles, err := systems.ScatterObstacles(cfg.Obstacles, cfg.Derived.WorldExtent)
		if err != nil {
			return nil, fmt.Errorf("scattering obstacles: %w", err)
		}
		g.obstacles = obstacles
	}

	g.env = systems.Env{Bounds: &g.bounds, Ground: g.ground, Rng: g.rng}
	if g.obstacles != nil {
		g.env.Obstacles = g.obstacles
	}
	if !cfg.Boundary.Enabled {
		g.env.Bounds = nil
	}
	g.configure(cfg)

	g.registry = NewRegistry(world, opts.Factory, g.rng, &g.predParams)
	g.population = NewPopulation(cfg, g.rng, g.ground, g.env.Bounds, g.obstacles)
	g.predNb.Targets = g.registry
	g.birds = flock.New(cfg.Birds, g.rng)

	statsWindowSec := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindowSec = opts.StatsWindowSec
	}
	g.collector = telemetry.NewCollector(statsWindowSec, cfg.Derived.DT32)
	g.perfCollector = telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	g.bookmarkDetector = telemetry.NewBookmarkDetector(cfg.Telemetry.BookmarkHistory)

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	g.population.SpawnInitial(g.registry)
	slog.Info("game_created",
		"seed", opts.Seed,
		"run_id", om.RunID(),
		"obstacles", g.obstacleCount(),
		"birds", g.birds.Len(),
		"spatial_grid", cfg.Physics.SpatialGrid,
	)

	return g, nil
}

// configure derives the per-species parameters and shared behavior
// tunables from cfg. Called at construction and from ApplyConfig.
func (g *Game) configure(cfg *config.Config) {
	g.preyParams = systems.NewPreyParams(cfg.Prey)
	g.predParams = systems.NewPredatorParams(cfg.Predator)
	g.env.Configure(cfg)

	if cfg.Physics.SpatialGrid {
		extent := cfg.Derived.WorldExtent
		cell := float32(cfg.Physics.GridCellSize)
		g.preyGrid = systems.NewSpatialGrid(extent, cell)
		g.predGrid = systems.NewSpatialGrid(extent, cell)
	} else {
		g.preyGrid = nil
		g.predGrid = nil
	}
}

func (g *Game) obstacleCount() int {
	if g.obstacles == nil {
		return 0
	}
	return g.obstacles.Len()
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int32 {
	return g.tick
}

// SimTime returns the elapsed simulation time in seconds.
func (g *Game) SimTime() float64 {
	return g.simTime
}

// Counts returns the number of prey (corpses included) and predators.
func (g *Game) Counts() (prey, predators int) {
	return g.registry.Counts()
}

// Config returns the live configuration. Treat it as read-only.
func (g *Game) Config() *config.Config {
	return g.cfg
}

// Seed returns the RNG seed the game was built with.
func (g *Game) Seed() int64 {
	return g.rngSeed
}

// Unload flushes and closes any output files.
func (g *Game) Unload() {
	g.writeEvents()
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// RecordFrame marks a rendered frame for FPS tracking.
func (g *Game) RecordFrame() {
	g.perfCollector.RecordFrame()
}
