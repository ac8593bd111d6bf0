package parameter

// Diplomacy colors, part of the external visual contract
const (
	ColorFriendly = "#44ff44"
	ColorNeutral  = "#ffff44"
	ColorHostile  = "#ff3333"
	ColorUnknown  = "#44ffff"
	ColorWaypoint = "#ff00ff"
)

// Wireframe material
const (
	WireframeOpacity         = 0.7
	WaypointWireframeOpacity = 0.9

	// WireframeScaleReference is the distance (km) mapped to scale 1.0
	WireframeScaleReference = 50.0
	WireframeScaleMin       = 0.5
	WireframeScaleMax       = 2.0

	// WaypointScaleReference is the trigger radius (km) mapped to scale 1.0
	WaypointScaleReference = 20.0

	// WireframeSpinRate is the idle rotation in radians per second for animated geometry
	WireframeSpinRate = 0.8

	WireframeRenderOrder = 999
	OutlineRenderOrder   = 998

	// OverlayLayer keeps target overlays out of the main camera layer mask
	OverlayLayer = 1
)

// Scene object ids owned by the presenters
const (
	WireframeObjectID = "target-wireframe"
	OutlineObjectID   = "target-outline"
)

// HUD text
const (
	WaypointIcon = "◆"
	ReticlePulse = true
)

// Star chart zoom, km per terminal column at each level
// Rows cover twice the distance of columns to offset the cell aspect
var ChartZoomScales = [...]float64{10, 4, 1.5}

const (
	// ChartHitRadius is the click tolerance in cells
	ChartHitRadius = 1

	// DimmedColor draws undiscovered chart entries
	DimmedColor = "#555555"
)

// CommColor frames the comm panel
const CommColor = "#88ccff"
