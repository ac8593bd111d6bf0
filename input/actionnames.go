package input

import "sort"

// actionRegistry maps canonical action names to key entries
// Used by the keymap loader to resolve TOML action strings to bindings
var actionRegistry = map[string]KeyEntry{
	// Unbind sentinel
	"none": {},

	"quit":             {Intent: IntentQuit},
	"escape":           {Intent: IntentEscape},
	"toggle_mute":      {Intent: IntentToggleMute},
	"pause":            {Intent: IntentPause},
	"cycle_next":       {Intent: IntentCycleNext},
	"cycle_prev":       {Intent: IntentCyclePrev},
	"toggle_hud":       {Intent: IntentToggleHUD},
	"toggle_chart":     {Intent: IntentToggleChart},
	"nearest_waypoint": {Intent: IntentNearestWaypoint},
	"resume":           {Intent: IntentResume},

	"move_forward": {Intent: IntentMove, Move: DirForward},
	"move_back":    {Intent: IntentMove, Move: DirBack},
	"move_left":    {Intent: IntentMove, Move: DirLeft},
	"move_right":   {Intent: IntentMove, Move: DirRight},
	"move_up":      {Intent: IntentMove, Move: DirUp},
	"move_down":    {Intent: IntentMove, Move: DirDown},
}

// ActionEntry returns the binding for an action name
func ActionEntry(name string) (KeyEntry, bool) {
	e, ok := actionRegistry[name]
	return e, ok
}

// ActionNames returns all bindable action names, sorted
func ActionNames() []string {
	names := make([]string, 0, len(actionRegistry))
	for name := range actionRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
