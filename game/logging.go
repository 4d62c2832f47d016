package game

import (
	"context"
	"log/slog"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/systems"
)

func debugEnabled() bool {
	return slog.Default().Enabled(context.Background(), slog.LevelDebug)
}

// logPreyTransition logs a prey changing between calm, fleeing and dead.
func (g *Game) logPreyTransition(body *components.Body, out systems.PreyOutcome) {
	if !debugEnabled() {
		return
	}
	slog.Debug("prey_state",
		"tick", g.tick,
		"id", body.ID,
		"from", out.From.String(),
		"to", out.To.String(),
	)
}

// logPredatorTransition logs a predator changing hunting state.
func (g *Game) logPredatorTransition(body *components.Body, out systems.PredatorOutcome) {
	if !debugEnabled() {
		return
	}
	slog.Debug("predator_state",
		"tick", g.tick,
		"id", body.ID,
		"from", out.From.String(),
		"to", out.To.String(),
		"lost_target", out.LostTarget,
	)
}
