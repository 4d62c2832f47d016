package game

import (
	"log/slog"

	"github.com/pthm-cable/savanna/config"
)

// ApplyConfig replaces the tunables of a running game. cfg is validated
// first and nothing changes when it is rejected. The world layout is fixed
// for the life of a game: boundary, terrain, obstacles and the spatial grid
// setting keep their current values whatever cfg says.
func (g *Game) ApplyConfig(cfg *config.Config) error {
	next := cfg.Clone()
	next.Boundary = g.cfg.Boundary
	next.Terrain = g.cfg.Terrain
	next.Obstacles = g.cfg.Obstacles
	next.Physics.SpatialGrid = g.cfg.Physics.SpatialGrid
	next.Physics.GridCellSize = g.cfg.Physics.GridCellSize
	if err := next.Refresh(); err != nil {
		return err
	}

	g.cfg = next
	g.configure(next)
	g.population.cfg = next
	g.birds.Configure(next.Birds)

	slog.Info("config_applied",
		"tick", g.tick,
		"time_scale", next.Physics.TimeScale,
		"reproduction_chance", next.Reproduction.Chance,
		"birds", next.Birds.Count,
	)
	return nil
}

// SetTimeScale changes the simulation speed. 0 freezes the world.
func (g *Game) SetTimeScale(scale float64) error {
	cfg := g.cfg.Clone()
	cfg.Physics.TimeScale = scale
	return g.ApplyConfig(cfg)
}

// SetPaused pauses or resumes stepping.
func (g *Game) SetPaused(paused bool) {
	g.paused = paused
}

// Paused reports whether stepping is paused.
func (g *Game) Paused() bool {
	return g.paused
}

// SetStepsPerUpdate changes how many ticks Update runs, at least one.
func (g *Game) SetStepsPerUpdate(n int) {
	g.stepsPerUpdate = max(n, 1)
}

// StepsPerUpdate returns how many ticks Update runs.
func (g *Game) StepsPerUpdate() int {
	return g.stepsPerUpdate
}
