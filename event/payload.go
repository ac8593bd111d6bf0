package event

import "time"

// GameEvent is a routed event with an optional typed payload
type GameEvent struct {
	Type    EventType
	Payload any
	Frame   int64
}

// DiscoveredPayload carries a newly discovered id
type DiscoveredPayload struct {
	ID     string
	Sector string
	At     time.Time
}

// ShipDestroyedPayload carries the destroyed ship id
type ShipDestroyedPayload struct {
	ID string
}

// ShipSpawnedPayload carries a spawned ship id and position
type ShipSpawnedPayload struct {
	ID       string
	Position [3]float64
}

// TargetChangedPayload describes a cursor transition
// Ids are empty when there was or is no target
type TargetChangedPayload struct {
	PreviousID   string
	PreviousKind string
	CurrentID    string
	CurrentKind  string
	Diplomacy    string
	Manual       bool
}

// WaypointPayload carries a waypoint id
type WaypointPayload struct {
	ID string
}

// SoundRequestPayload carries a sound id and volume
type SoundRequestPayload struct {
	ID     string
	Volume float64
}

// SectorChangedPayload carries the old and new sector codes
type SectorChangedPayload struct {
	Previous string
	Current  string
}
