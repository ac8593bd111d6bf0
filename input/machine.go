package input

import (
	"github.com/gdamore/tcell/v2"
)

// Machine turns tcell events into intents
// Mouse clicks fire on the press edge of the primary button only
type Machine struct {
	keyTable *KeyTable
	buttons  tcell.ButtonMask
}

// NewMachine creates a machine with the default bindings
func NewMachine() *Machine {
	return &Machine{keyTable: DefaultKeyTable()}
}

// SetKeyTable replaces the bindings, nil restores the defaults
func (m *Machine) SetKeyTable(kt *KeyTable) {
	if kt == nil {
		kt = DefaultKeyTable()
	}
	m.keyTable = kt
}

// KeyTable returns the active bindings
func (m *Machine) KeyTable() *KeyTable {
	return m.keyTable
}

// Process parses one event; ok is false for events with no binding
func (m *Machine) Process(ev tcell.Event) (Intent, bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		entry, ok := m.keyTable.Lookup(ev.Key(), ev.Rune())
		if !ok || entry.Intent == IntentNone {
			return Intent{}, false
		}
		return Intent{Type: entry.Intent, Move: entry.Move}, true

	case *tcell.EventMouse:
		prev := m.buttons
		m.buttons = ev.Buttons()
		if m.buttons&tcell.Button1 == 0 || prev&tcell.Button1 != 0 {
			return Intent{}, false
		}
		x, y := ev.Position()
		return Intent{Type: IntentMouseClick, X: x, Y: y}, true

	case *tcell.EventResize:
		w, h := ev.Size()
		return Intent{Type: IntentResize, Width: w, Height: h}, true
	}
	return Intent{}, false
}
