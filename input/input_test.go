package input

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func key(k tcell.Key) *tcell.EventKey { return tcell.NewEventKey(k, 0, tcell.ModNone) }
func runeKey(r rune) *tcell.EventKey  { return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone) }

func TestDefaultBindings(t *testing.T) {
	m := NewMachine()
	tests := []struct {
		name string
		ev   tcell.Event
		want IntentType
	}{
		{"tab cycles forward", key(tcell.KeyTab), IntentCycleNext},
		{"shift tab cycles back", key(tcell.KeyBacktab), IntentCyclePrev},
		{"t toggles hud", runeKey('t'), IntentToggleHUD},
		{"T toggles hud", runeKey('T'), IntentToggleHUD},
		{"c opens chart", runeKey('c'), IntentToggleChart},
		{"W nearest waypoint", runeKey('W'), IntentNearestWaypoint},
		{"r resumes", runeKey('r'), IntentResume},
		{"ctrl c quits", key(tcell.KeyCtrlC), IntentQuit},
		{"escape", key(tcell.KeyEscape), IntentEscape},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.Process(tt.ev)
			if !ok || got.Type != tt.want {
				t.Errorf("Process = %v,%v want %v", got.Type, ok, tt.want)
			}
		})
	}

	if _, ok := m.Process(runeKey('z')); ok {
		t.Error("unbound rune should not produce an intent")
	}
}

func TestArrowsMove(t *testing.T) {
	m := NewMachine()
	got, ok := m.Process(key(tcell.KeyUp))
	if !ok || got.Type != IntentMove || got.Move != DirForward {
		t.Errorf("up = %+v", got)
	}
	got, _ = m.Process(key(tcell.KeyPgDn))
	if got.Move != DirDown {
		t.Errorf("pgdn move = %+v", got.Move)
	}
}

func TestMouseClickOnPressEdge(t *testing.T) {
	m := NewMachine()
	press := tcell.NewEventMouse(12, 4, tcell.Button1, tcell.ModNone)
	got, ok := m.Process(press)
	if !ok || got.Type != IntentMouseClick || got.X != 12 || got.Y != 4 {
		t.Fatalf("press = %+v,%v", got, ok)
	}
	if _, ok := m.Process(tcell.NewEventMouse(13, 4, tcell.Button1, tcell.ModNone)); ok {
		t.Error("held button should not click again")
	}
	if _, ok := m.Process(tcell.NewEventMouse(13, 4, tcell.ButtonNone, tcell.ModNone)); ok {
		t.Error("release should not click")
	}
	if _, ok := m.Process(tcell.NewEventMouse(2, 2, tcell.Button1, tcell.ModNone)); !ok {
		t.Error("second press should click")
	}
}

func TestResize(t *testing.T) {
	m := NewMachine()
	got, ok := m.Process(tcell.NewEventResize(100, 40))
	if !ok || got.Type != IntentResize || got.Width != 100 || got.Height != 40 {
		t.Errorf("resize = %+v", got)
	}
}

func TestLoadKeyConfigOverrides(t *testing.T) {
	data := []byte(`
[keys]
Tab = "none"
Enter = "cycle_next"

[runes]
n = "cycle_next"
space = "toggle_hud"
`)
	override, err := LoadKeyConfig(data)
	if err != nil {
		t.Fatal(err)
	}
	m := NewMachine()
	m.SetKeyTable(MergeKeyTable(DefaultKeyTable(), override))

	if _, ok := m.Process(key(tcell.KeyTab)); ok {
		t.Error("tab should be unbound")
	}
	if got, _ := m.Process(key(tcell.KeyEnter)); got.Type != IntentCycleNext {
		t.Errorf("enter = %v", got.Type)
	}
	if got, _ := m.Process(runeKey('n')); got.Type != IntentCycleNext {
		t.Errorf("n = %v", got.Type)
	}
	if got, _ := m.Process(runeKey(' ')); got.Type != IntentToggleHUD {
		t.Errorf("space = %v", got.Type)
	}
	if got, _ := m.Process(runeKey('t')); got.Type != IntentToggleHUD {
		t.Error("unrelated defaults must survive the merge")
	}
	if _, ok := DefaultKeyTable().SpecialKeys[tcell.KeyTab]; !ok {
		t.Error("merge must not mutate the base table")
	}
}

func TestLoadKeyConfigErrors(t *testing.T) {
	tests := []struct {
		name, data, want string
	}{
		{"unknown action", "[runes]\nx = \"warp\"", "unknown action"},
		{"unknown key", "[keys]\nHyper = \"quit\"", "unknown key name"},
		{"long rune", "[runes]\nxy = \"quit\"", "invalid rune key"},
		{"bad toml", "[runes\n", "keymap parse"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadKeyConfig([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestActionNamesSorted(t *testing.T) {
	names := ActionNames()
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Fatalf("names not sorted at %d: %v", i, names)
		}
	}
}
