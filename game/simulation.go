package game

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/systems"
	"github.com/pthm-cable/savanna/telemetry"
)

// Update advances the simulation by the configured number of steps.
// Called once per rendered frame, or in a loop when headless.
func (g *Game) Update() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.Step()
	}
}

// Step runs one fixed tick. Agents read the start-of-tick snapshot; every
// removal and birth requested during the tick is applied in one commit
// after both species have moved. A paused game or a zero time scale does
// nothing.
func (g *Game) Step() {
	scale := float32(g.cfg.Physics.TimeScale)
	if g.paused || scale <= 0 {
		return
	}
	dt := g.cfg.Derived.DT32 * scale
	g.env.DT = dt

	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseSnapshot)
	g.snapshot()

	g.perfCollector.StartPhase(telemetry.PhasePrey)
	g.stepPrey()

	g.perfCollector.StartPhase(telemetry.PhasePredators)
	g.stepPredators()

	g.perfCollector.StartPhase(telemetry.PhaseCommit)
	g.commit()

	g.tick++
	g.simTime += float64(dt)

	g.perfCollector.StartPhase(telemetry.PhaseReproduction)
	if interval := int32(g.cfg.Reproduction.Interval); g.tick%interval == 0 {
		window := float64(interval) * float64(dt)
		g.population.Reproduce(g.registry, window)
	}

	g.perfCollector.StartPhase(telemetry.PhaseBirds)
	g.birds.Reconcile()
	g.birds.Step(dt)

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// snapshot freezes both species and points the neighborhoods at it.
func (g *Game) snapshot() {
	g.registry.Snapshot()
	prey := g.registry.PreySnapshot()
	preds := g.registry.PredatorSnapshot()

	if g.preyGrid != nil {
		g.preyGrid.Rebuild(prey)
		g.predGrid.Rebuild(preds)
		g.preyNb.Prey, g.preyNb.Predators = g.preyGrid, g.predGrid
		g.predNb.Prey, g.predNb.Predators = g.preyGrid, g.predGrid
		return
	}
	g.preyNb.Prey, g.preyNb.Predators = systems.Scan(prey), systems.Scan(preds)
	g.predNb.Prey, g.predNb.Predators = systems.Scan(prey), systems.Scan(preds)
}

// stepPrey moves every prey and ages corpses. Expired corpses are queued
// for removal.
func (g *Game) stepPrey() {
	query := g.registry.preyFilter.Query()
	for query.Next() {
		e := query.Entity()
		body, m, p := query.Get()
		out := systems.PreyStep(e, m, p, &g.preyNb, &g.preyParams, &g.env)
		if out.From != out.To {
			g.logPreyTransition(body, out)
		}
		if out.Decayed {
			g.registry.RequestRemoval(e, CauseDecayed)
			g.record(telemetry.NewDecayedEvent(g.tick, body.ID))
		}
	}
}

// stepPredators runs the hunting state machine for every predator and
// turns its outcome into events and removal requests.
func (g *Game) stepPredators() {
	query := g.registry.predFilter.Query()
	for query.Next() {
		e := query.Entity()
		body, m, p := query.Get()
		out := systems.PredatorStep(e, m, p, &g.predNb, &g.predParams, &g.env)
		if out.From != out.To {
			g.logPredatorTransition(body, out)
		}
		g.handlePredatorOutcome(e, body, out)
	}
}

func (g *Game) handlePredatorOutcome(e ecs.Entity, body *components.Body, out systems.PredatorOutcome) {
	if out.LostTarget {
		g.record(telemetry.NewTargetLostEvent(g.tick, body.ID))
	}

	var victim uint32
	if out.Hit || out.Bites > 0 || out.Consumed {
		victim = g.registry.ID(out.Victim)
	}
	if out.Hit {
		g.record(telemetry.NewHitEvent(g.tick, body.ID, victim))
		if out.Downed {
			g.record(telemetry.NewKillEvent(g.tick, body.ID, victim))
		}
	}
	for i := 0; i < out.Bites; i++ {
		g.record(telemetry.NewBiteEvent(g.tick, body.ID, victim))
	}
	if out.Consumed {
		g.registry.RequestRemoval(out.Victim, CauseConsumed)
		g.record(telemetry.NewConsumedEvent(g.tick, body.ID, victim))
	}
	if out.Starved {
		g.registry.RequestRemoval(e, CauseStarved)
		g.record(telemetry.NewStarvedEvent(g.tick, body.ID))
	}
}
