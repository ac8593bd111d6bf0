package game

import (
	"github.com/lixenwraith/planetz/input"
	"github.com/lixenwraith/planetz/parameter"
	"github.com/lixenwraith/planetz/targeting"
	"github.com/lixenwraith/planetz/waypoint"
	"github.com/lixenwraith/planetz/world"
)

// muter is implemented by sinks that support a global mute
type muter interface {
	ToggleMute() bool
}

// pauser is implemented by clocks that can stop session time
type pauser interface {
	TogglePause() bool
	IsPaused() bool
}

// HandleIntent applies one player intent; returns false on quit
func (g *Game) HandleIntent(in input.Intent) bool {
	switch in.Type {
	case input.IntentQuit:
		return false

	case input.IntentCycleNext, input.IntentCyclePrev:
		dir := targeting.Forward
		if in.Type == input.IntentCyclePrev {
			dir = targeting.Backward
		}
		g.registry.SetManualNavigation(true)
		if !g.cursor.Cycle(dir, true) {
			g.sound(parameter.SoundError)
		}

	case input.IntentToggleHUD:
		visible := !g.hud.IsVisible()
		g.hud.SetVisible(visible)
		g.wireframe.SetVisible(visible)
		g.outline.SetVisible(visible)

	case input.IntentToggleChart:
		g.chart.Toggle()

	case input.IntentEscape:
		if g.chart.IsOpen() {
			if g.chart.Level() > 0 {
				g.chart.ZoomOut()
			} else {
				g.chart.Toggle()
			}
		}

	case input.IntentNearestWaypoint:
		g.selectNearestWaypoint()

	case input.IntentResume:
		if !g.waypoints.ResumeInterrupted(g.cursor) {
			g.sound(parameter.SoundError)
		}

	case input.IntentToggleMute:
		if m, ok := g.audio.(muter); ok {
			muted := m.ToggleMute()
			g.logger.Printf("[game] mute %v", muted)
		}

	case input.IntentPause:
		if p, ok := g.clock.(pauser); ok {
			g.logger.Printf("[game] paused %v", p.TogglePause())
		}

	case input.IntentMove:
		if !g.Paused() {
			g.pilot.Move(in.Move)
		}

	case input.IntentMouseClick:
		if g.chart.IsOpen() {
			if id, ok := g.chart.Click(in.X, in.Y); ok {
				g.logger.Printf("[game] chart select %s", id)
			}
		}

	case input.IntentResize:
		g.pilot.Resize(in.Width, in.Height)
	}
	return true
}

// Paused reports whether session time is stopped
func (g *Game) Paused() bool {
	p, ok := g.clock.(pauser)
	return ok && p.IsPaused()
}

// selectNearestWaypoint activates and targets the closest pending waypoint,
// placing a new one ahead of the player when none is pending
func (g *Game) selectNearestWaypoint() {
	pos, ok := g.PlayerPosition()
	if !ok {
		g.sound(parameter.SoundError)
		return
	}
	var id string
	if wp, ok := g.waypoints.Nearest(pos); ok {
		id = wp.ID
		if err := g.waypoints.Activate(id); err != nil {
			g.logger.Printf("[game] activate %s: %v", id, err)
		}
	} else {
		created, err := g.placeWaypoint(pos)
		if err != nil {
			g.logger.Printf("[game] place waypoint: %v", err)
			g.sound(parameter.SoundError)
			return
		}
		id = created
	}
	g.registry.MarkDirty()
	g.registry.Refresh(targeting.RefreshOptions{ForceScan: true, ForceSort: true})
	if !g.cursor.SelectByID(id, true) {
		g.sound(parameter.SoundError)
	}
}

// placeWaypoint creates a navigation waypoint ahead of the player
func (g *Game) placeWaypoint(pos world.Vec3) (string, error) {
	at := pos.Add(g.heading().Mul(parameter.PlacedWaypointDistance))
	return g.waypoints.Create(waypoint.Template{
		Type:          string(waypoint.TypeNavigation),
		Position:      []float64{at.X(), at.Y(), at.Z()},
		TriggerRadius: parameter.PlacedWaypointRadius,
	})
}

// heading is the camera forward axis, -Z when the view carries no rotation
func (g *Game) heading() world.Vec3 {
	cam, ok := g.view.Camera()
	if !ok {
		return world.Vec3{0, 0, -1}
	}
	fwd := cam.View.Row(2).Vec3().Mul(-1)
	if l := fwd.Len(); l > 0 && world.Finite(fwd) {
		return fwd.Mul(1 / l)
	}
	return world.Vec3{0, 0, -1}
}
