package waypoint

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/planetz/parameter"
	"github.com/lixenwraith/planetz/world"
)

func stateKey(id string) string {
	return parameter.WaypointKeyPrefix + id
}

func (m *Manager) persist(w *Waypoint) {
	if m.store == nil {
		return
	}
	if err := m.store.Set(stateKey(w.ID), w.snapshot()); err != nil {
		m.logger.Printf("[waypoint] persist %s: %v", w.ID, err)
	}
}

func (m *Manager) persistIndex() {
	if m.store == nil {
		return
	}
	if err := m.store.Set(parameter.WaypointIndexKey, m.order); err != nil {
		m.logger.Printf("[waypoint] persist index: %v", err)
	}
}

// Load restores waypoints saved by an earlier session
// A waypoint persisted mid-sequence is completed, never re-fired. Records
// whose actions no longer validate are skipped
func (m *Manager) Load() (int, error) {
	if m.store == nil {
		return 0, nil
	}
	var ids []string
	if err := m.store.Get(parameter.WaypointIndexKey, &ids); err != nil {
		if errors.Is(err, world.ErrNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("load waypoint index: %w", err)
	}

	loaded := 0
	for _, id := range ids {
		if _, exists := m.waypoints[id]; exists {
			continue
		}
		var w Waypoint
		if err := m.store.Get(stateKey(id), &w); err != nil {
			m.logger.Printf("[waypoint] load %s: %v", id, err)
			continue
		}
		if w.ID != id {
			m.logger.Printf("[waypoint] load %s: record carries id %q", id, w.ID)
			continue
		}
		typ, err := ParseType(string(w.Type))
		if err != nil {
			m.logger.Printf("[waypoint] load %s: %v", id, err)
			continue
		}
		w.Type = typ

		built, tmpls, err := m.build(w.Actions)
		if err != nil {
			m.logger.Printf("[waypoint] load %s: %v", id, err)
			continue
		}
		w.built = built
		w.Actions = tmpls

		switch {
		case w.Status == StatusTriggered:
			m.logger.Printf("[waypoint] %s was interrupted mid-sequence, marking completed", id)
			w.Status = StatusCompleted
		case w.Status == StatusTargeted:
			w.Status = StatusActive
		case w.Triggered && w.Status.Armed():
			w.Status = StatusCompleted
		}
		if w.Interruption != nil {
			ir := *w.Interruption
			m.interruption = &ir
		}

		wp := w
		m.waypoints[id] = &wp
		m.order = append(m.order, id)
		m.persist(&wp)
		loaded++
	}
	if loaded > 0 {
		m.logger.Printf("[waypoint] restored %d waypoints", loaded)
	}
	return loaded, nil
}
