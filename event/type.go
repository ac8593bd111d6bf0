package event

// EventType represents the type of game event
type EventType int

const (
	// EventNone is the zero value and never routed
	EventNone EventType = iota

	// EventDiscovered signals an id was added to the discovery set
	// Trigger: DiscoveryEngine scan or manual discovery
	// Consumer: TargetRegistry (dirty), audio | Payload: DiscoveredPayload
	EventDiscovered

	// EventShipDestroyed signals a ship left the ship registry
	// Trigger: ShipRegistry
	// Consumer: TargetCursor, TargetRegistry, DiscoveryEngine | Payload: ShipDestroyedPayload
	EventShipDestroyed

	// EventShipSpawned signals a ship entered the ship registry outside a sector load
	// Trigger: spawn_ships action
	// Consumer: DiscoveryEngine grid | Payload: ShipSpawnedPayload
	EventShipSpawned

	// EventTargetChanged signals the cursor moved to a different target (or none)
	// Trigger: TargetCursor
	// Consumer: WaypointManager, audio | Payload: TargetChangedPayload
	EventTargetChanged

	// EventWaypointCreated signals a new waypoint is targetable next frame
	// Trigger: WaypointManager.Create
	// Consumer: TargetRegistry (dirty) | Payload: WaypointPayload
	EventWaypointCreated

	// EventWaypointTriggered signals the player entered a trigger radius
	// Trigger: WaypointManager.Tick
	// Consumer: audio, HUD | Payload: WaypointPayload
	EventWaypointTriggered

	// EventWaypointCompleted signals the final action of a waypoint finished
	// Trigger: WaypointManager action runner
	// Consumer: TargetRegistry (dirty) | Payload: WaypointPayload
	EventWaypointCompleted

	// EventWaypointDeleted signals a manual waypoint delete
	// Trigger: WaypointManager.Delete
	// Consumer: TargetRegistry, TargetCursor | Payload: WaypointPayload
	EventWaypointDeleted

	// EventSoundRequest requests audio playback
	// Trigger: any subsystem needing feedback
	// Consumer: AudioSink bridge | Payload: SoundRequestPayload
	EventSoundRequest

	// EventSectorChanged signals a sector load
	// Trigger: game.EnterSector
	// Consumer: TargetRegistry, DiscoveryEngine | Payload: SectorChangedPayload
	EventSectorChanged
)
