package parameter

import "time"

// Discovery scanning
const (
	// DiscoveryBaseRange is the discovery radius (km) at equipment level 1
	DiscoveryBaseRange = 50.0

	// DiscoveryScanInterval rate-limits proximity scans
	DiscoveryScanInterval = 250 * time.Millisecond

	// DiscoveryBudget is the target mean scan duration
	DiscoveryBudget = 5 * time.Millisecond

	// DiscoveryMaxSectors caps loaded sector sets before LRU eviction
	DiscoveryMaxSectors = 4

	// DiscoveryKeyPrefix is the PersistentStore key prefix for discovery sets
	DiscoveryKeyPrefix = "starCharts_discovered_"
)

// DiscoveryRangeByLevel maps scanner equipment level to discovery range (km)
var DiscoveryRangeByLevel = map[int]float64{
	1: 50.0,
	2: 65.0,
	3: 80.0,
	4: 100.0,
	5: 125.0,
}
