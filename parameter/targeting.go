package parameter

import "time"

// Target list throttles, part of the visible contract
const (
	// TargetScanInterval is the minimum time between full target list rebuilds
	TargetScanInterval = 1000 * time.Millisecond

	// TargetSortInterval is the minimum time between distance re-sorts
	TargetSortInterval = 100 * time.Millisecond

	// OutlineUpdateInterval is the minimum time between outline object updates
	OutlineUpdateInterval = 100 * time.Millisecond
)

// Ranges in km (1 world unit = 1 km)
const (
	// DefaultTargetingRange is the system-level fallback targeting range
	DefaultTargetingRange = 150.0

	// DefaultCyclingRange bounds cache-augmented entries; never below targeting range
	DefaultCyclingRange = 150.0

	// SentinelDistance is assigned to targets without a usable position
	SentinelDistance = 1e12
)

// Known-targets cache
const (
	// KnownTargetTTL evicts cached entries not seen within this window
	KnownTargetTTL = 5 * time.Minute

	// ShortListThreshold triggers cache enrichment on manual navigation
	ShortListThreshold = 2
)

// Ship liveness threshold; hull at or below is treated as destroyed
const MinLiveHull = 0.001

// Placeholder projection for undiscovered targets
const (
	UnknownName      = "Unknown"
	UnknownFaction   = "Unknown"
	UnknownDiplomacy = "unknown"
)

// Defaults applied to discovered entities whose source carries no affiliation
const (
	DefaultFaction   = "Unaligned"
	DefaultDiplomacy = "neutral"

	WaypointFaction   = "Mission"
	WaypointDiplomacy = "waypoint"
)
