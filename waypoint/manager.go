package waypoint

import (
	"fmt"
	"log"
	"sync/atomic"

	"github.com/lixenwraith/planetz/action"
	"github.com/lixenwraith/planetz/event"
	"github.com/lixenwraith/planetz/parameter"
	"github.com/lixenwraith/planetz/status"
	"github.com/lixenwraith/planetz/targeting"
	"github.com/lixenwraith/planetz/world"
)

// Selector re-selects a target by id
type Selector interface {
	SelectByID(id string, manual bool) bool
}

// Manager owns every waypoint of the session
// Single-threaded; action completions arrive through the scheduler
type Manager struct {
	actions  *action.Registry
	services *action.Services
	store    world.PersistentStore
	clock    world.Clock
	events   action.Emitter
	logger   *log.Logger

	sector       string
	waypoints    map[string]*Waypoint
	order        []string
	targeted     string
	interruption *Interruption

	executed *atomic.Int64
	failed   *atomic.Int64
}

// NewManager creates a manager; store and events may be nil
func NewManager(actions *action.Registry, services *action.Services, store world.PersistentStore,
	clock world.Clock, events action.Emitter, metrics *status.Registry, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	if metrics == nil {
		metrics = status.NewRegistry()
	}
	return &Manager{
		actions:   actions,
		services:  services,
		store:     store,
		clock:     clock,
		events:    events,
		logger:    logger,
		waypoints: make(map[string]*Waypoint),
		executed:  metrics.Ints.Get("waypoint.actions.executed"),
		failed:    metrics.Ints.Get("waypoint.actions.failed"),
	}
}

// SetSector scopes Markers and new waypoints to sector
func (m *Manager) SetSector(sector string) {
	m.sector = sector
}

func (m *Manager) emit(t event.EventType, id string) {
	if m.events != nil {
		m.events.Emit(t, &event.WaypointPayload{ID: id})
	}
}

// Create validates the template, builds its actions and registers an active waypoint
func (m *Manager) Create(tmpl Template) (string, error) {
	typ, err := ParseType(tmpl.Type)
	if err != nil {
		return "", err
	}
	if len(tmpl.Position) != 3 {
		return "", fmt.Errorf("%w: position needs 3 components", ErrInvalid)
	}
	pos := world.Vec3{tmpl.Position[0], tmpl.Position[1], tmpl.Position[2]}
	if !world.Finite(pos) {
		return "", fmt.Errorf("%w: non-finite position", ErrInvalid)
	}
	if !(tmpl.TriggerRadius > 0) {
		return "", fmt.Errorf("%w: trigger radius %v", ErrInvalid, tmpl.TriggerRadius)
	}
	sector := tmpl.Sector
	if sector == "" {
		sector = m.sector
	}
	if sector == "" {
		return "", fmt.Errorf("%w: no sector", ErrInvalid)
	}

	built, tmpls, err := m.build(tmpl.Actions)
	if err != nil {
		return "", err
	}

	name := tmpl.Name
	if name == "" {
		name = fmt.Sprintf("%s %d", displayType(typ), len(m.order)+1)
	}
	id := m.allocateID(sector, tmpl.ID, name)
	if _, exists := m.waypoints[id]; exists {
		return "", fmt.Errorf("%w: duplicate id %s", ErrInvalid, id)
	}

	w := &Waypoint{
		ID:            id,
		Name:          name,
		Type:          typ,
		Position:      pos,
		TriggerRadius: tmpl.TriggerRadius,
		Status:        StatusActive,
		Actions:       tmpls,
		CreatedAt:     m.clock.Now(),
		built:         built,
	}
	m.waypoints[id] = w
	m.order = append(m.order, id)
	m.persist(w)
	m.persistIndex()
	m.emit(event.EventWaypointCreated, id)
	m.logger.Printf("[waypoint] created %s (%s) at %v r=%.1f with %d actions", id, typ, pos, w.TriggerRadius, len(built))
	return id, nil
}

// build validates every action eagerly and returns normalized templates
func (m *Manager) build(tmpls []ActionTemplate) ([]action.Action, []ActionTemplate, error) {
	built := make([]action.Action, 0, len(tmpls))
	norm := make([]ActionTemplate, 0, len(tmpls))
	for i, s := range tmpls {
		a, err := m.actions.Create(s.Type, s.Parameters)
		if err != nil {
			return nil, nil, fmt.Errorf("action %d: %w", i, err)
		}
		params := make(map[string]any, len(a.Params()))
		for k, v := range a.Params() {
			params[k] = v
		}
		built = append(built, a)
		norm = append(norm, ActionTemplate{Type: a.Type(), Parameters: params})
	}
	return built, norm, nil
}

func (m *Manager) allocateID(sector, explicit, name string) string {
	if explicit != "" {
		if world.InSector(explicit, sector) {
			return explicit
		}
		return world.SectorPrefix(sector) + explicit
	}
	base := world.SectorPrefix(sector) + "wp_" + world.Slug(name)
	id := base
	for n := 2; m.waypoints[id] != nil; n++ {
		id = fmt.Sprintf("%s_%d", base, n)
	}
	return id
}

func displayType(t Type) string {
	s := string(t)
	return string(s[0]-'a'+'A') + s[1:]
}

func (m *Manager) lookup(id string) (*Waypoint, error) {
	w, ok := m.waypoints[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return w, nil
}

// Get returns a copy of the waypoint
func (m *Manager) Get(id string) (Waypoint, error) {
	w, err := m.lookup(id)
	if err != nil {
		return Waypoint{}, err
	}
	return w.snapshot(), nil
}

// Active returns armed waypoints in creation order
func (m *Manager) Active() []Waypoint {
	var out []Waypoint
	for _, id := range m.order {
		if w := m.waypoints[id]; w.Status.Armed() {
			out = append(out, w.snapshot())
		}
	}
	return out
}

// All returns every waypoint in creation order
func (m *Manager) All() []Waypoint {
	out := make([]Waypoint, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.waypoints[id].snapshot())
	}
	return out
}

// Activate re-arms a targeted waypoint or confirms an active one
func (m *Manager) Activate(id string) error {
	w, err := m.lookup(id)
	if err != nil {
		return err
	}
	if !w.Status.Armed() {
		return fmt.Errorf("%w: %s is %s", ErrState, id, w.Status)
	}
	if w.Status != StatusActive {
		w.Status = StatusActive
		if m.targeted == id {
			m.targeted = ""
		}
		m.persist(w)
	}
	return nil
}

// Delete marks a waypoint deleted; running actions are not aborted
func (m *Manager) Delete(id string) error {
	w, err := m.lookup(id)
	if err != nil {
		return err
	}
	if w.Status == StatusDeleted {
		return nil
	}
	w.Status = StatusDeleted
	if m.targeted == id {
		m.targeted = ""
	}
	if m.interruption != nil && m.interruption.WaypointID == id {
		m.interruption = nil
		w.Interruption = nil
	}
	m.persist(w)
	m.emit(event.EventWaypointDeleted, id)
	m.logger.Printf("[waypoint] deleted %s", id)
	return nil
}

// SetTargeted marks id as the cursor's target
func (m *Manager) SetTargeted(id string) error {
	w, err := m.lookup(id)
	if err != nil {
		return err
	}
	m.targeted = id
	if w.Status == StatusActive {
		w.Status = StatusTargeted
		m.persist(w)
	}
	return nil
}

// ClearTargeted reverts a targeted waypoint to active
func (m *Manager) ClearTargeted(id string) error {
	w, err := m.lookup(id)
	if err != nil {
		return err
	}
	if m.targeted == id {
		m.targeted = ""
	}
	if w.Status == StatusTargeted {
		w.Status = StatusActive
		m.persist(w)
	}
	return nil
}

// Targeted returns the id the cursor is on, or ""
func (m *Manager) Targeted() string {
	return m.targeted
}

// Markers implements targeting.WaypointSource for the active sector
func (m *Manager) Markers() []world.WaypointMarker {
	var out []world.WaypointMarker
	for _, id := range m.order {
		w := m.waypoints[id]
		if !world.InSector(id, m.sector) {
			continue
		}
		if w.Status.Armed() {
			out = append(out, w.Marker())
		}
	}
	return out
}

// Nearest returns the closest armed waypoint in the active sector
func (m *Manager) Nearest(pos world.Vec3) (Waypoint, bool) {
	var best *Waypoint
	bestDist := 0.0
	for _, id := range m.order {
		w := m.waypoints[id]
		if !w.Status.Armed() || !world.InSector(id, m.sector) {
			continue
		}
		if d := world.Distance(pos, w.Position); best == nil || d < bestDist {
			best, bestDist = w, d
		}
	}
	if best == nil {
		return Waypoint{}, false
	}
	return best.snapshot(), true
}

// Tick triggers armed waypoints of the active sector the player is inside
// Returns the triggered ids
func (m *Manager) Tick(player world.Vec3) []string {
	if !world.Finite(player) {
		return nil
	}
	var fired []string
	for _, id := range m.order {
		w := m.waypoints[id]
		if !w.Status.Armed() || w.Triggered || !world.InSector(id, m.sector) {
			continue
		}
		if world.Distance(player, w.Position) > w.TriggerRadius {
			continue
		}
		m.trigger(w)
		fired = append(fired, id)
	}
	return fired
}

func (m *Manager) trigger(w *Waypoint) {
	w.Status = StatusTriggered
	w.Triggered = true
	w.TriggeredAt = m.clock.Now()
	if m.targeted == w.ID {
		m.targeted = ""
	}
	// Durable before any action runs so a crash mid-sequence never re-fires
	m.persist(w)
	m.logger.Printf("[waypoint] %s triggered, dispatching %d actions", w.ID, len(w.built))
	if m.services != nil && m.services.Audio != nil {
		m.services.Audio.PlaySound(parameter.SoundWaypointTriggered, parameter.DefaultAudioVolume)
	}
	m.emit(event.EventWaypointTriggered, w.ID)

	r := &runner{manager: m, waypointID: w.ID, sector: sectorOf(w.ID), position: w.Position, actions: w.built}
	r.next()
}

func sectorOf(id string) string {
	for i := 0; i < len(id); i++ {
		if id[i] == '_' {
			return id[:i]
		}
	}
	return ""
}

// complete runs after the final action
func (m *Manager) complete(id string) {
	w, ok := m.waypoints[id]
	if !ok {
		return
	}
	if w.Status == StatusDeleted {
		m.logger.Printf("[waypoint] %s finished actions after deletion", id)
		return
	}
	w.Status = StatusCompleted
	m.persist(w)
	m.emit(event.EventWaypointCompleted, id)
	m.logger.Printf("[waypoint] %s completed", id)
}

// OnTargetChanged tracks targeted status and records interruptions
// diplomacy is the resolved diplomacy of the new target
func (m *Manager) OnTargetChanged(prev, cur *targeting.Target, diplomacy targeting.Diplomacy) {
	if prev != nil && prev.Kind == targeting.KindWaypoint {
		if w, ok := m.waypoints[prev.ID]; ok {
			m.ClearTargeted(prev.ID)
			if cur != nil && diplomacy == targeting.Hostile && w.Status.Armed() {
				m.interrupt(w)
			}
		}
	}
	if cur != nil && cur.Kind == targeting.KindWaypoint {
		if _, ok := m.waypoints[cur.ID]; ok {
			m.SetTargeted(cur.ID)
		}
	}
}

func (m *Manager) interrupt(w *Waypoint) {
	if m.interruption != nil && m.interruption.WaypointID != w.ID {
		if old, ok := m.waypoints[m.interruption.WaypointID]; ok {
			old.Interruption = nil
			m.persist(old)
		}
	}
	m.interruption = &Interruption{WaypointID: w.ID, At: m.clock.Now()}
	ir := *m.interruption
	w.Interruption = &ir
	m.persist(w)
	m.logger.Printf("[waypoint] %s interrupted by hostile contact", w.ID)
}

// HasInterrupted reports whether an interruption record exists
func (m *Manager) HasInterrupted() bool {
	return m.interruption != nil
}

// Interrupted returns the current interruption record
func (m *Manager) Interrupted() (Interruption, bool) {
	if m.interruption == nil {
		return Interruption{}, false
	}
	return *m.interruption, true
}

// ResumeInterrupted re-selects the interrupted waypoint and clears the record
func (m *Manager) ResumeInterrupted(sel Selector) bool {
	if m.interruption == nil {
		return false
	}
	id := m.interruption.WaypointID
	w, ok := m.waypoints[id]
	if !ok || !w.Status.Armed() {
		m.logger.Printf("[waypoint] dropping interruption of %s: no longer armed", id)
		m.clearInterruption()
		return false
	}
	if !sel.SelectByID(id, true) {
		return false
	}
	m.clearInterruption()
	return true
}

func (m *Manager) clearInterruption() {
	if m.interruption == nil {
		return
	}
	if w, ok := m.waypoints[m.interruption.WaypointID]; ok {
		w.Interruption = nil
		m.persist(w)
	}
	m.interruption = nil
}
