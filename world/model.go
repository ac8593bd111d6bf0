package world

// Body is a celestial body as published by the solar system model
type Body struct {
	ID       string // optional; sector-prefixed when present
	Name     string
	Type     string // star, planet, moon, station, beacon
	Position Vec3
	Scene    ObjectID
}

// BodyInfo is the authoritative metadata for a celestial body
type BodyInfo struct {
	Name      string
	Type      string
	Faction   string
	Diplomacy string
}

// SolarSystemModel exposes the bodies of the currently loaded sector
type SolarSystemModel interface {
	// CurrentSector returns the active sector code, e.g. "A0"
	CurrentSector() string

	// CelestialBodies maps raw body key to body
	CelestialBodies() map[string]Body

	// CelestialBodyInfo returns metadata for the body stored under key
	CelestialBodyInfo(key string) (BodyInfo, bool)
}

// Ship is a live vessel snapshot
type Ship struct {
	ID        string
	Name      string
	ShipType  string
	Hull      float64
	Faction   string
	Diplomacy string
	Position  Vec3
	Scene     ObjectID
}

// ShipRegistry tracks live ships
type ShipRegistry interface {
	// Ships returns a snapshot of live ships
	Ships() []Ship

	// Spawn registers a new ship
	Spawn(ship Ship) error

	// OnDestroyed subscribes fn to ship destruction
	OnDestroyed(fn func(shipID string))
}

// WaypointMarker is the targetable projection of a waypoint
type WaypointMarker struct {
	ID            string
	Name          string
	Type          string
	Status        string
	Position      Vec3
	TriggerRadius float64
}
