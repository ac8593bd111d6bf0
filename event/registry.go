package event

import "fmt"

var typeNames = map[EventType]string{
	EventNone:              "None",
	EventDiscovered:        "Discovered",
	EventShipDestroyed:     "ShipDestroyed",
	EventShipSpawned:       "ShipSpawned",
	EventTargetChanged:     "TargetChanged",
	EventWaypointCreated:   "WaypointCreated",
	EventWaypointTriggered: "WaypointTriggered",
	EventWaypointCompleted: "WaypointCompleted",
	EventWaypointDeleted:   "WaypointDeleted",
	EventSoundRequest:      "SoundRequest",
	EventSectorChanged:     "SectorChanged",
}

// String returns the registered name of the event type
func (t EventType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("EventType(%d)", int(t))
}

// GetEventType returns the EventType registered under name
func GetEventType(name string) (EventType, bool) {
	for t, n := range typeNames {
		if n == name {
			return t, true
		}
	}
	return EventNone, false
}
