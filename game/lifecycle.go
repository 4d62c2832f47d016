package game

import (
	"log/slog"

	"github.com/pthm-cable/savanna/telemetry"
)

// record buffers an event for the current stats window.
func (g *Game) record(ev telemetry.Event) {
	g.events = append(g.events, ev)
	g.collector.Record(ev)
}

// commit applies the tick's removals and births and reports the births.
// Removal events were recorded when the removal was requested.
func (g *Game) commit() {
	removed, born := g.registry.Commit()
	for _, r := range removed {
		slog.Debug("agent_removed", "tick", g.tick, "id", r.ID, "kind", r.Kind.String(), "cause", r.Cause.String())
	}
	for _, b := range born {
		g.record(telemetry.NewBirthEvent(g.tick, b.ID, b.Parent, b.Kind))
		slog.Debug("agent_born", "tick", g.tick, "id", b.ID, "kind", b.Kind.String(), "parent", b.Parent)
	}
}
