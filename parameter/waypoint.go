package parameter

import "time"

// Waypoint persistence keys
const (
	WaypointKeyPrefix = "waypoint_state_"
	WaypointIndexKey  = "waypoint_index"
)

// Comm panel timing
const (
	// TypewriterInterval is the per-character reveal delay
	TypewriterInterval = 50 * time.Millisecond

	// DefaultMessageDuration is how long a fully typed message stays visible
	DefaultMessageDuration = 5 * time.Second

	// DefaultAudioVolume is used when an action omits audioVolume
	DefaultAudioVolume = 0.7
)

// Reward endpoint
const (
	RewardEndpointPath     = "/api/missions/award_rewards"
	DefaultRewardTimeout   = 3 * time.Second
	DefaultBonusMultiplier = 1.0
)

// Spawn formation spacing in km
const FormationSpacing = 2.0

// Waypoint dropped by the nearest-waypoint key when none is pending
const (
	// PlacedWaypointDistance is how far ahead of the player it is placed, in km
	PlacedWaypointDistance = 40.0

	// PlacedWaypointRadius is its trigger radius in km
	PlacedWaypointRadius = 10.0
)
