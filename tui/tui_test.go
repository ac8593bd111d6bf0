package tui

import (
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/planetz/action"
	"github.com/lixenwraith/planetz/engine"
	"github.com/lixenwraith/planetz/parameter"
	"github.com/lixenwraith/planetz/render"
	"github.com/lixenwraith/planetz/starchart"
	"github.com/lixenwraith/planetz/targeting"
	"github.com/lixenwraith/planetz/world"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func cell(s tcell.Screen, x, y int) (rune, tcell.Style) {
	r, _, style, _ := s.GetContent(x, y)
	return r, style
}

func row(s tcell.Screen, y int) string {
	w, _ := s.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _ := cell(s, x, y)
		if r == 0 {
			r = ' '
		}
		b.WriteRune(r)
	}
	return b.String()
}

func screenText(s tcell.Screen) string {
	_, h := s.Size()
	var b strings.Builder
	for y := 0; y < h; y++ {
		b.WriteString(row(s, y))
		b.WriteByte('\n')
	}
	return b.String()
}

func fg(style tcell.Style) tcell.Color {
	c, _, _ := style.Decompose()
	return c
}

type stampLayer struct {
	r       rune
	visible bool
}

func (l *stampLayer) Draw(s tcell.Screen) { s.SetContent(0, 0, l.r, nil, tcell.StyleDefault) }
func (l *stampLayer) IsVisible() bool     { return l.visible }

func TestOrchestratorDrawsByPriority(t *testing.T) {
	s := newScreen(t, 10, 3)
	o := NewOrchestrator(s)
	o.Register(&stampLayer{r: 'b', visible: true}, PriorityHUD)
	o.Register(&stampLayer{r: 'a', visible: true}, PriorityBackground)
	o.Register(&stampLayer{r: 'c', visible: true}, PriorityHUD)
	o.RenderFrame()
	if r, _ := cell(s, 0, 0); r != 'c' {
		t.Errorf("top cell = %q, want last registered at highest priority", r)
	}

	o.Register(&stampLayer{r: 'z', visible: false}, PriorityChart)
	o.RenderFrame()
	if r, _ := cell(s, 0, 0); r != 'c' {
		t.Errorf("hidden layer drew: %q", r)
	}
}

type fixedSelection struct {
	target targeting.Target
	ok     bool
}

func (f *fixedSelection) Current() (targeting.Target, bool) { return f.target, f.ok }
func (f *fixedSelection) Suppressed() bool                  { return false }

type fixedView struct{ cam world.Camera }

func (v fixedView) Camera() (world.Camera, bool) { return v.cam, true }

type noneDiscovered struct{}

func (noneDiscovered) IsDiscovered(string) bool { return false }

func raider() targeting.Target {
	return targeting.Target{
		ID: "A0_enemy_1", Name: "Raider", Kind: targeting.KindShip,
		Position: world.Vec3{0, 0, 0}, HasPosition: true,
		Faction: "Crimson Raiders", Diplomacy: "hostile", Discovered: true,
		Distance: 50, Hull: 80, HasHull: true,
	}
}

func TestHUDLayerDrawsChrome(t *testing.T) {
	s := newScreen(t, 80, 24)
	sel := &fixedSelection{target: raider(), ok: true}
	hud := render.NewHUD(sel, targeting.NewResolver(nil, noneDiscovered{}, nil), nil)
	hud.Update()

	NewHUDLayer(hud).Draw(s)
	text := screenText(s)
	for _, want := range []string{"Raider", "Ship", "50.0 km", "Crimson Raiders | hull 80"} {
		if !strings.Contains(text, want) {
			t.Errorf("screen missing %q:\n%s", want, text)
		}
	}

	x := 80 - hudWidth - 1
	r, style := cell(s, x, 0)
	if r != boxTopLeft || fg(style) != tcell.GetColor(parameter.ColorHostile) {
		t.Errorf("frame corner %q color %v", r, fg(style))
	}
	if r, _ := cell(s, x, 2); r != boxTeeLeft {
		t.Errorf("divider = %q", r)
	}
}

func TestHUDLayerHidden(t *testing.T) {
	s := newScreen(t, 80, 24)
	hud := render.NewHUD(&fixedSelection{target: raider(), ok: true}, targeting.NewResolver(nil, noneDiscovered{}, nil), nil)
	hud.SetVisible(false)
	hud.Update()

	o := NewOrchestrator(s)
	o.Register(NewHUDLayer(hud), PriorityHUD)
	o.RenderFrame()
	if strings.Contains(screenText(s), "Raider") {
		t.Error("hidden HUD was drawn")
	}
}

func TestReticleLayerBracketsTarget(t *testing.T) {
	s := newScreen(t, 80, 24)
	cam := render.LookAtCamera(world.Vec3{0, 0, 50}, world.Vec3{}, 60, 80, 24)
	hud := render.NewHUD(&fixedSelection{target: raider(), ok: true}, targeting.NewResolver(nil, noneDiscovered{}, nil), fixedView{cam})
	hud.Update()

	ret := hud.State().Reticle
	if !ret.Visible {
		t.Fatal("target in front of the camera should project")
	}
	NewReticleLayer(hud).Draw(s)
	for dx, want := range map[int]rune{-2: '[', 0: '+', 2: ']'} {
		if r, _ := cell(s, ret.X+dx, ret.Y); r != want {
			t.Errorf("cell %d = %q, want %q", dx, r, want)
		}
	}
}

func TestCommLayer(t *testing.T) {
	s := newScreen(t, 80, 24)
	clock := engine.NewMockTimeProvider(time.Unix(0, 0))
	sched := engine.NewScheduler(clock, log.New(io.Discard, "", 0))
	panel := render.NewCommPanel(sched)
	layer := NewCommLayer(panel)

	layer.Draw(s)
	if strings.TrimSpace(screenText(s)) != "" {
		t.Fatal("idle panel drew")
	}

	panel.Show(action.Message{Title: "Command", Text: "Proceed to the beacon"}, nil)
	for panel.State().Typing {
		clock.Advance(parameter.TypewriterInterval)
		sched.Run(clock.Now())
	}
	layer.Draw(s)
	text := screenText(s)
	if !strings.Contains(text, "Command") || !strings.Contains(text, "Proceed to the beacon") {
		t.Errorf("comm panel:\n%s", text)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  []string
	}{
		{"hello world", 5, []string{"hello", "world"}},
		{"one two three", 8, []string{"one two", "three"}},
		{"abcdefgh", 3, []string{"abc", "def", "gh"}},
		{"a\nb", 10, []string{"a", "b"}},
	}
	for _, tt := range tests {
		got := wrap(tt.text, tt.width)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("wrap(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}

type listTargets []targeting.Target

func (l listTargets) List() []targeting.Target { return l }

func TestChartLayer(t *testing.T) {
	s := newScreen(t, 40, 21)
	targets := listTargets{
		raider(),
		{ID: "A0_terra_prime", Name: "Terra Prime", Kind: targeting.KindPlanet, Position: world.Vec3{100, 0, 0}, HasPosition: true},
	}
	chart := starchart.New(targets, noneDiscovered{}, targeting.NewResolver(nil, noneDiscovered{}, nil), nil, nil)
	chart.TrackCurrent(func() string { return "A0_enemy_1" })
	layer := NewChartLayer(chart, func() (int, int, bool) { return 30, 10, true })

	if layer.IsVisible() {
		t.Fatal("chart starts closed")
	}
	chart.Toggle()
	layer.Draw(s)

	if w, h := chart.Size(); w != 40 || h != 20 {
		t.Fatalf("chart size %dx%d", w, h)
	}
	r, style := cell(s, 20, 10)
	if r != '>' {
		t.Errorf("ship glyph = %q", r)
	}
	if _, _, attr := style.Decompose(); attr&tcell.AttrReverse == 0 {
		t.Error("current target should be highlighted")
	}
	if r, _ := cell(s, 30, 10); r != '?' {
		t.Errorf("undiscovered planet glyph = %q", r)
	}
	if footer := row(s, 20); !strings.Contains(footer, "zoom 1/3") || !strings.Contains(footer, parameter.UnknownName) {
		t.Errorf("footer = %q", footer)
	}
}
