// Package input translates tcell events into semantic intents
package input

// IntentType discriminates semantic actions
type IntentType uint8

const (
	IntentNone IntentType = iota

	// System-level intents
	IntentQuit       // Ctrl+C, Q
	IntentEscape     // ESC closes the chart or zooms it out
	IntentToggleMute // M
	IntentPause      // P freezes session time
	IntentResize     // Terminal resize event

	// Targeting
	IntentCycleNext       // Tab
	IntentCyclePrev       // Shift+Tab
	IntentToggleHUD       // T
	IntentToggleChart     // C
	IntentNearestWaypoint // W
	IntentResume          // R resumes the last interrupted waypoint

	// Flight
	IntentMove // Arrows, PgUp/PgDn

	// Mouse
	IntentMouseClick // Left-click, routed to the star chart
)

// Direction is a unit step in camera-local axes
type Direction struct {
	X, Y, Z float64
}

var (
	DirForward = Direction{Z: -1}
	DirBack    = Direction{Z: 1}
	DirLeft    = Direction{X: -1}
	DirRight   = Direction{X: 1}
	DirUp      = Direction{Y: 1}
	DirDown    = Direction{Y: -1}
)

// Intent represents a parsed semantic action
// Pure data struct with no function pointers or engine dependencies
type Intent struct {
	Type          IntentType
	Move          Direction // IntentMove
	X, Y          int       // IntentMouseClick cell
	Width, Height int       // IntentResize
}
