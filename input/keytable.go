package input

import (
	"maps"

	"github.com/gdamore/tcell/v2"
)

// KeyEntry describes what a key produces
type KeyEntry struct {
	Intent IntentType
	Move   Direction
}

// KeyTable maps keys to intents
type KeyTable struct {
	// Special keys (Ctrl+*, arrows, Tab)
	SpecialKeys map[tcell.Key]KeyEntry

	// Printable rune bindings, case-sensitive
	Runes map[rune]KeyEntry
}

// DefaultKeyTable returns the default key bindings
func DefaultKeyTable() *KeyTable {
	return &KeyTable{
		SpecialKeys: map[tcell.Key]KeyEntry{
			tcell.KeyCtrlC:   {Intent: IntentQuit},
			tcell.KeyEscape:  {Intent: IntentEscape},
			tcell.KeyTab:     {Intent: IntentCycleNext},
			tcell.KeyBacktab: {Intent: IntentCyclePrev},
			tcell.KeyUp:      {Intent: IntentMove, Move: DirForward},
			tcell.KeyDown:    {Intent: IntentMove, Move: DirBack},
			tcell.KeyLeft:    {Intent: IntentMove, Move: DirLeft},
			tcell.KeyRight:   {Intent: IntentMove, Move: DirRight},
			tcell.KeyPgUp:    {Intent: IntentMove, Move: DirUp},
			tcell.KeyPgDn:    {Intent: IntentMove, Move: DirDown},
		},
		Runes: map[rune]KeyEntry{
			'q': {Intent: IntentQuit},
			'Q': {Intent: IntentQuit},
			't': {Intent: IntentToggleHUD},
			'T': {Intent: IntentToggleHUD},
			'c': {Intent: IntentToggleChart},
			'C': {Intent: IntentToggleChart},
			'w': {Intent: IntentNearestWaypoint},
			'W': {Intent: IntentNearestWaypoint},
			'r': {Intent: IntentResume},
			'R': {Intent: IntentResume},
			'm': {Intent: IntentToggleMute},
			'M': {Intent: IntentToggleMute},
			'p': {Intent: IntentPause},
			'P': {Intent: IntentPause},
		},
	}
}

// Clone returns a deep copy
func (kt *KeyTable) Clone() *KeyTable {
	return &KeyTable{
		SpecialKeys: maps.Clone(kt.SpecialKeys),
		Runes:       maps.Clone(kt.Runes),
	}
}

// Lookup resolves a key event, special keys first
func (kt *KeyTable) Lookup(key tcell.Key, r rune) (KeyEntry, bool) {
	if key != tcell.KeyRune {
		e, ok := kt.SpecialKeys[key]
		return e, ok
	}
	e, ok := kt.Runes[r]
	return e, ok
}
