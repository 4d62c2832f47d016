package game

import (
	"log/slog"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/config"
	"github.com/pthm-cable/savanna/systems"
)

// spawnAttempts bounds the retries for a spawn point that lands in an obstacle.
const spawnAttempts = 8

// Population places agents in the world: grouped spawning at startup and
// probabilistic prey reproduction afterwards. It never touches the world
// directly; every agent goes through the Registry.
type Population struct {
	cfg       *config.Config
	rng       *rand.Rand
	ground    systems.Terrain
	bounds    *systems.BoundaryField
	obstacles *systems.ObstacleField // nil when there are none

	live []systems.Agent
}

// NewPopulation creates a population manager.
func NewPopulation(cfg *config.Config, rng *rand.Rand, ground systems.Terrain, bounds *systems.BoundaryField, obstacles *systems.ObstacleField) *Population {
	return &Population{cfg: cfg, rng: rng, ground: ground, bounds: bounds, obstacles: obstacles}
}

// SpawnInitial spawns the configured prey and predators in groups.
func (p *Population) SpawnInitial(reg *Registry) {
	pc := &p.cfg.Population
	preyGroups := p.spawnGroups(reg, components.KindPrey, pc.PreyCount, pc.PreyGroup)
	predGroups := p.spawnGroups(reg, components.KindPredator, pc.PredatorCount, pc.PredatorGroup)

	prey, preds := reg.Counts()
	slog.Info("population_spawned",
		"prey", prey,
		"predators", preds,
		"prey_groups", preyGroups,
		"predator_groups", predGroups,
	)
}

// spawnGroups spawns total agents of kind in clusters whose size is drawn
// from g and clamped to what remains. It returns the number of clusters.
func (p *Population) spawnGroups(reg *Registry, kind components.Kind, total int, g config.GroupRange) int {
	groups := 0
	for remaining := total; remaining > 0; groups++ {
		size := g.Min
		if g.Max > g.Min {
			size += p.rng.Intn(g.Max - g.Min + 1)
		}
		size = min(size, remaining)
		remaining -= size

		center := p.groupCenter()
		for i := 0; i < size; i++ {
			pos := p.placeNear(center, float32(p.cfg.Population.GroupSpread))
			if kind == components.KindPrey {
				reg.SpawnPrey(pos)
			} else {
				reg.SpawnPredator(pos)
			}
		}
	}
	return groups
}

// groupCenter draws a cluster center uniformly from the spawn disc.
func (p *Population) groupCenter() mgl32.Vec3 {
	radius := math.Min(p.cfg.World.SpawnRadius, p.cfg.World.Radius)
	return randomInDisc(p.rng, mgl32.Vec3{}, float32(radius))
}

// placeNear picks a grounded point within spread of center, retrying when
// it lands inside an obstacle and pulling it inside a hard boundary.
func (p *Population) placeNear(center mgl32.Vec3, spread float32) mgl32.Vec3 {
	pos := randomInDisc(p.rng, center, spread)
	for i := 1; i < spawnAttempts && p.obstacles != nil && p.obstacles.Inside(pos.X(), pos.Z()); i++ {
		pos = randomInDisc(p.rng, center, spread)
	}
	if p.bounds != nil {
		pos, _ = p.bounds.Constrain(pos)
	}
	pos[1] = p.ground.GroundHeight(pos.X(), pos.Z()) + float32(p.cfg.World.SpawnHeight)
	return pos
}

// randomInDisc returns a uniform point in the horizontal disc of radius r.
func randomInDisc(rng *rand.Rand, center mgl32.Vec3, r float32) mgl32.Vec3 {
	angle := rng.Float64() * 2 * math.Pi
	dist := float64(r) * math.Sqrt(rng.Float64())
	return mgl32.Vec3{
		center.X() + float32(dist*math.Cos(angle)),
		0,
		center.Z() + float32(dist*math.Sin(angle)),
	}
}

// ReproductionChance is the probability that one reproduction check
// succeeds: live prey form live/2 pairs, each reproducing at chance per
// second over a window of windowSec seconds.
func ReproductionChance(livePrey int, chance, windowSec float64) float64 {
	pairs := float64(livePrey / 2)
	return math.Min(1, pairs*chance*windowSec)
}

// Reproduce runs one reproduction check. On success it requests one birth
// next to a random live prey and returns true.
func (p *Population) Reproduce(reg *Registry, windowSec float64) bool {
	p.live = reg.LivePrey(p.live[:0])
	live := len(p.live)

	total, _ := reg.Counts()
	if live < 2 || total >= p.cfg.Population.MaxPrey {
		return false
	}
	if p.rng.Float64() >= ReproductionChance(live, p.cfg.Reproduction.Chance, windowSec) {
		return false
	}

	parent := p.live[p.rng.Intn(live)]
	angle := p.rng.Float64() * 2 * math.Pi
	offset := float32(p.cfg.Reproduction.SpawnOffset)
	pos := parent.Pos.Add(mgl32.Vec3{offset * float32(math.Cos(angle)), 0, offset * float32(math.Sin(angle))})
	if p.bounds != nil {
		pos, _ = p.bounds.Constrain(pos)
	}
	pos[1] = p.ground.GroundHeight(pos.X(), pos.Z())

	reg.RequestBirth(components.KindPrey, pos, reg.ID(parent.E))
	return true
}
