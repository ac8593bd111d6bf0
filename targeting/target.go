// Package targeting maintains the targetable entity set, the current-target
// cursor and the diplomacy projection presenters color by
package targeting

import (
	"errors"
	"strings"

	"github.com/lixenwraith/planetz/world"
)

// ErrCrossSector marks a target whose id does not carry the active sector prefix
var ErrCrossSector = errors.New("cross-sector target")

// Kind classifies a target
type Kind string

const (
	KindStar     Kind = "star"
	KindPlanet   Kind = "planet"
	KindMoon     Kind = "moon"
	KindStation  Kind = "station"
	KindBeacon   Kind = "beacon"
	KindShip     Kind = "ship"
	KindWaypoint Kind = "waypoint"
)

// Valid reports whether k is a known kind
func (k Kind) Valid() bool {
	switch k {
	case KindStar, KindPlanet, KindMoon, KindStation, KindBeacon, KindShip, KindWaypoint:
		return true
	}
	return false
}

// IsCelestial reports whether k is sourced from the solar system model
func (k Kind) IsCelestial() bool {
	switch k {
	case KindStar, KindPlanet, KindMoon, KindStation, KindBeacon:
		return true
	}
	return false
}

// kindFromBody infers a kind from the body type, falling back to the raw key
// ("planet_0", "moon_2") when the model left the type empty
func kindFromBody(key string, body world.Body, info world.BodyInfo) Kind {
	for _, candidate := range []string{body.Type, info.Type} {
		if k := Kind(strings.ToLower(candidate)); k.Valid() && k.IsCelestial() {
			return k
		}
	}
	lower := strings.ToLower(key)
	for _, k := range []Kind{KindStar, KindPlanet, KindMoon, KindStation, KindBeacon} {
		if lower == string(k) || strings.HasPrefix(lower, string(k)+"_") {
			return k
		}
	}
	return ""
}

// Target is the uniform record for everything selectable
// Targets are values; holders keep ids, not pointers into the registry
type Target struct {
	ID          string
	Name        string
	Kind        Kind
	Position    world.Vec3
	HasPosition bool
	SceneObject world.ObjectID

	// Faction and Diplomacy are populated iff Discovered
	Faction    string
	Diplomacy  string
	Discovered bool

	Distance   float64
	OutOfRange bool

	// Waypoint fields
	TriggerRadius  float64
	WaypointStatus string

	// Ship fields
	Hull    float64
	HasHull bool

	// BodyKey is the raw solar system model key for celestial bodies
	BodyKey string
}

// IsWaypoint reports whether t is a mission waypoint
func (t Target) IsWaypoint() bool {
	return t.Kind == KindWaypoint
}
