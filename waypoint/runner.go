package waypoint

import (
	"fmt"
	"runtime/debug"

	"github.com/lixenwraith/planetz/action"
	"github.com/lixenwraith/planetz/world"
)

// runner executes a waypoint's actions strictly in order
// Each action reports completion through done; a failure is logged and the
// sequence moves on
type runner struct {
	manager    *Manager
	waypointID string
	sector     string
	position   world.Vec3
	actions    []action.Action
	index      int
}

func (r *runner) next() {
	m := r.manager
	for r.index < len(r.actions) {
		a := r.actions[r.index]
		r.index++

		ctx := &action.Context{
			WaypointID: r.waypointID,
			Sector:     r.sector,
			Position:   r.position,
			Services:   m.services,
		}
		step := r.index
		finished := false
		async := false
		err := r.execute(a, ctx, func(res action.Result) {
			if finished {
				m.logger.Printf("[waypoint] %s action %d (%s) reported twice", r.waypointID, step, a.Type())
				return
			}
			finished = true
			r.record(step, a, res)
			if async {
				r.next()
			}
		})
		if err != nil {
			if !finished {
				m.failed.Add(1)
				finished = true
			}
			m.logger.Printf("[waypoint] %s action %d (%s): %v", r.waypointID, step, a.Type(), err)
			continue
		}
		if !finished {
			// Suspended; done resumes the sequence
			async = true
			return
		}
	}
	m.complete(r.waypointID)
}

// execute turns a panicking action into an error so the sequence still completes
func (r *runner) execute(a action.Action, ctx *action.Context, done func(action.Result)) (err error) {
	defer func() {
		if p := recover(); p != nil {
			r.manager.logger.Printf("[waypoint] %s action %s panic: %v\n%s", r.waypointID, a.Type(), p, debug.Stack())
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return a.Execute(ctx, done)
}

func (r *runner) record(step int, a action.Action, res action.Result) {
	m := r.manager
	m.executed.Add(1)
	if !res.Success {
		m.failed.Add(1)
		m.logger.Printf("[waypoint] %s action %d (%s) failed: %s", r.waypointID, step, a.Type(), res.Message)
		return
	}
	m.logger.Printf("[waypoint] %s action %d (%s): %s", r.waypointID, step, a.Type(), res.Message)
}
