package viewer

import "github.com/pthm-cable/savanna/game"

// PickAgent returns the id of the agent nearest to (wx, wz) on the ground
// plane, if one lies within maxDist.
func PickAgent(frame []game.AgentView, wx, wz, maxDist float32) (uint32, bool) {
	var best uint32
	found := false
	bestSq := maxDist * maxDist

	for i := range frame {
		dx := frame[i].Pos.X() - wx
		dz := frame[i].Pos.Z() - wz
		if d := dx*dx + dz*dz; d <= bestSq {
			bestSq = d
			best = frame[i].ID
			found = true
		}
	}
	return best, found
}

// selectAt selects the agent under a screen point, or clears the selection.
func (v *Viewer) selectAt(sx, sy float32) {
	wx, wz := v.camera.ScreenToWorld(sx, sy)
	// 12 pixels of slack whatever the zoom
	slack := 12 / v.camera.WorldLength(1)
	v.selected, v.hasSelection = PickAgent(v.frame, wx, wz, slack)
}
