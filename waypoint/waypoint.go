// Package waypoint manages mission waypoints: creation, proximity triggers,
// sequential action dispatch, interruption by hostile contacts and persistence
package waypoint

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lixenwraith/planetz/action"
	"github.com/lixenwraith/planetz/world"
)

var (
	ErrNotFound = errors.New("waypoint not found")
	ErrInvalid  = errors.New("invalid waypoint")
	ErrState    = errors.New("invalid waypoint state")
)

// Type classifies a waypoint
type Type string

const (
	TypeNavigation Type = "navigation"
	TypeCombat     Type = "combat"
	TypeCheckpoint Type = "checkpoint"
	TypeObjective  Type = "objective"
)

// ParseType normalizes and validates a type name
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TypeNavigation, TypeCombat, TypeCheckpoint, TypeObjective:
		return t, nil
	}
	return "", fmt.Errorf("%w: type %q", ErrInvalid, s)
}

// Status is the lifecycle state of a waypoint
type Status string

const (
	StatusActive    Status = "active"
	StatusTargeted  Status = "targeted"
	StatusTriggered Status = "triggered"
	StatusCompleted Status = "completed"
	StatusDeleted   Status = "deleted"
)

// Armed reports whether the waypoint can still trigger
func (s Status) Armed() bool {
	return s == StatusActive || s == StatusTargeted
}

// ActionTemplate is a declared action with its parameters
type ActionTemplate struct {
	Type       string         `json:"type" yaml:"type"`
	Parameters map[string]any `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

// Template describes a waypoint to create
type Template struct {
	ID            string           `yaml:"id,omitempty"`
	Sector        string           `yaml:"sector,omitempty"`
	Name          string           `yaml:"name"`
	Type          string           `yaml:"type"`
	Position      []float64        `yaml:"position"`
	TriggerRadius float64          `yaml:"triggerRadius"`
	Actions       []ActionTemplate `yaml:"actions,omitempty"`
}

// Interruption records the waypoint a hostile contact pulled the player away from
type Interruption struct {
	WaypointID string    `json:"interruptedWaypointId"`
	At         time.Time `json:"interruptionTimestamp"`
}

// Waypoint is a positioned trigger volume carrying ordered actions
type Waypoint struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Type          Type             `json:"type"`
	Position      world.Vec3       `json:"position"`
	TriggerRadius float64          `json:"triggerRadius"`
	Status        Status           `json:"status"`
	Actions       []ActionTemplate `json:"actions"`

	Triggered    bool          `json:"triggered"`
	CreatedAt    time.Time     `json:"createdAt"`
	TriggeredAt  time.Time     `json:"triggeredAt,omitzero"`
	Interruption *Interruption `json:"interruption,omitempty"`

	built []action.Action
}

// Marker projects the waypoint for targeting
func (w *Waypoint) Marker() world.WaypointMarker {
	return world.WaypointMarker{
		ID:            w.ID,
		Name:          w.Name,
		Type:          string(w.Type),
		Status:        string(w.Status),
		Position:      w.Position,
		TriggerRadius: w.TriggerRadius,
	}
}

// snapshot copies w without the built actions
func (w *Waypoint) snapshot() Waypoint {
	c := *w
	c.built = nil
	c.Actions = append([]ActionTemplate(nil), w.Actions...)
	if w.Interruption != nil {
		ir := *w.Interruption
		c.Interruption = &ir
	}
	return c
}
