package render

import (
	"fmt"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/planetz/action"
	"github.com/lixenwraith/planetz/engine"
	"github.com/lixenwraith/planetz/parameter"
	"github.com/lixenwraith/planetz/targeting"
	"github.com/lixenwraith/planetz/universe"
	"github.com/lixenwraith/planetz/world"
)

var quiet = log.New(io.Discard, "", 0)

// fakeScene rejects duplicate adds and unknown updates so leaks surface as errors
type fakeScene struct {
	objects map[world.ObjectID]world.SceneObject
	cam     world.Camera
	hasCam  bool
	maxSeen int
}

func newFakeScene() *fakeScene {
	return &fakeScene{
		objects: make(map[world.ObjectID]world.SceneObject),
		cam:     LookAtCamera(world.Vec3{0, 0, 50}, world.Vec3{}, 60, 80, 24),
		hasCam:  true,
	}
}

func (s *fakeScene) Add(obj world.SceneObject) error {
	if _, ok := s.objects[obj.ID]; ok {
		return fmt.Errorf("duplicate %s", obj.ID)
	}
	s.objects[obj.ID] = obj
	s.maxSeen = max(s.maxSeen, len(s.objects))
	return nil
}

func (s *fakeScene) Update(obj world.SceneObject) error {
	if _, ok := s.objects[obj.ID]; !ok {
		return fmt.Errorf("update of missing %s", obj.ID)
	}
	s.objects[obj.ID] = obj
	return nil
}

func (s *fakeScene) Remove(id world.ObjectID) error {
	if _, ok := s.objects[id]; !ok {
		return fmt.Errorf("remove of missing %s", id)
	}
	delete(s.objects, id)
	return nil
}

func (s *fakeScene) Camera() (world.Camera, bool) { return s.cam, s.hasCam }

func (s *fakeScene) has(id string) bool {
	_, ok := s.objects[world.ObjectID(id)]
	return ok
}

type fakeSelection struct {
	target     targeting.Target
	ok         bool
	suppressed bool
}

func (f *fakeSelection) Current() (targeting.Target, bool) { return f.target, f.ok }
func (f *fakeSelection) Suppressed() bool                  { return f.suppressed }

func (f *fakeSelection) set(t targeting.Target) {
	f.target, f.ok = t, true
}

type discoveredSet map[string]bool

func (d discoveredSet) IsDiscovered(id string) bool { return d[id] }

func hostileShip() targeting.Target {
	return targeting.Target{
		ID: "A0_enemy_1", Name: "Raider", Kind: targeting.KindShip,
		Position: world.Vec3{5, 0, 0}, HasPosition: true, SceneObject: "ship-A0_enemy_1",
		Faction: "Crimson Raiders", Diplomacy: "hostile", Discovered: true,
		Distance: 5, Hull: 100, HasHull: true,
	}
}

func unknownPlanet() targeting.Target {
	return targeting.Target{
		ID: "A0_terra_prime", Name: parameter.UnknownName, Kind: targeting.KindPlanet,
		Position: world.Vec3{10, 0, 0}, HasPosition: true, SceneObject: "body-planet_0",
		Faction: parameter.UnknownFaction, Diplomacy: parameter.UnknownDiplomacy, Distance: 10,
	}
}

func waypointTarget() targeting.Target {
	return targeting.Target{
		ID: "A0_wp_alpha", Name: "Alpha", Kind: targeting.KindWaypoint,
		Position: world.Vec3{-30, 2, 40}, HasPosition: true,
		Faction: parameter.WaypointFaction, Diplomacy: parameter.WaypointDiplomacy, Discovered: true,
		Distance: 50, TriggerRadius: 20, WaypointStatus: "active",
	}
}

func TestWireframeColorMatchesResolver(t *testing.T) {
	resolver := targeting.NewResolver(nil, discoveredSet{}, nil)
	tests := []struct {
		name   string
		target targeting.Target
		want   string
	}{
		{"hostile ship", hostileShip(), parameter.ColorHostile},
		{"undiscovered planet", unknownPlanet(), parameter.ColorUnknown},
		{"waypoint", waypointTarget(), parameter.ColorWaypoint},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene := newFakeScene()
			sel := &fakeSelection{}
			sel.set(tt.target)
			wf := NewWireframe(scene, sel, resolver, quiet)
			for i := 0; i < 3; i++ {
				wf.Tick(16 * time.Millisecond)
				obj, ok := wf.Object()
				if !ok {
					t.Fatal("no wireframe")
				}
				if obj.Color != tt.want || obj.Color != resolver.Color(tt.target) {
					t.Fatalf("frame %d color = %s, want %s", i, obj.Color, tt.want)
				}
				if scene.objects[parameter.WireframeObjectID].Color != tt.want {
					t.Fatalf("scene copy out of date")
				}
			}
		})
	}
}

func TestWireframeMaterial(t *testing.T) {
	resolver := targeting.NewResolver(nil, nil, nil)
	scene := newFakeScene()
	sel := &fakeSelection{}
	wf := NewWireframe(scene, sel, resolver, quiet)

	sel.set(waypointTarget())
	wf.Tick(0)
	obj, _ := wf.Object()
	if obj.Geometry != "diamond" || obj.Opacity != parameter.WaypointWireframeOpacity {
		t.Errorf("waypoint wireframe %s opacity %v", obj.Geometry, obj.Opacity)
	}
	if want := 0.6 * 1.0; obj.Scale != want {
		t.Errorf("waypoint scale = %v, want %v", obj.Scale, want)
	}
	rot := obj.Rotation
	wf.Tick(time.Second)
	if obj, _ = wf.Object(); obj.Rotation != rot {
		t.Error("waypoint wireframe animated")
	}

	far := hostileShip()
	far.Distance = 500
	sel.set(far)
	wf.Tick(0)
	obj, _ = wf.Object()
	if obj.Geometry != "octahedron" || obj.Opacity != parameter.WireframeOpacity {
		t.Errorf("ship wireframe %s opacity %v", obj.Geometry, obj.Opacity)
	}
	if obj.Scale != parameter.WireframeScaleMax {
		t.Errorf("far scale = %v", obj.Scale)
	}
	if obj.RenderOrder != parameter.WireframeRenderOrder || obj.FrustumCulled || !obj.Wireframe {
		t.Errorf("material %+v", obj)
	}
	wf.Tick(time.Second)
	if obj2, _ := wf.Object(); obj2.Rotation[1] <= obj.Rotation[1] {
		t.Error("ship wireframe not spinning")
	}
}

func TestGeometryTableCoversKinds(t *testing.T) {
	kinds := []targeting.Kind{
		targeting.KindStar, targeting.KindPlanet, targeting.KindMoon, targeting.KindStation,
		targeting.KindBeacon, targeting.KindShip, targeting.KindWaypoint,
	}
	want := []string{"star", "icosahedron", "octahedron", "box", "octahedron", "octahedron", "diamond"}
	for i, k := range kinds {
		g := GeometryFor(k)
		if g.Name != want[i] || len(g.Vertices) == 0 {
			t.Errorf("%s -> %s (%d vertices)", k, g.Name, len(g.Vertices))
		}
	}
	if GeometryFor(targeting.KindStation).Size <= GeometryFor(targeting.KindShip).Size {
		t.Error("station box should be larger")
	}
}

func TestOverlaysNeverExceedOneObject(t *testing.T) {
	resolver := targeting.NewResolver(nil, nil, nil)
	clock := engine.NewMockTimeProvider(time.Unix(0, 0))
	scene := newFakeScene()
	sel := &fakeSelection{}
	wf := NewWireframe(scene, sel, resolver, quiet)
	ol := NewOutline(scene, sel, resolver, clock, quiet)

	targets := []targeting.Target{hostileShip(), unknownPlanet(), waypointTarget(), hostileShip()}
	for i := 0; i < 40; i++ {
		sel.set(targets[i%len(targets)])
		sel.ok = i%7 != 3
		wf.Tick(16 * time.Millisecond)
		ol.Tick()
		clock.Advance(30 * time.Millisecond)
	}
	if scene.maxSeen > 2 {
		t.Errorf("scene held %d overlay objects at once", scene.maxSeen)
	}
	for id := range scene.objects {
		if id != parameter.WireframeObjectID && id != parameter.OutlineObjectID {
			t.Errorf("unexpected object %s", id)
		}
	}
}

func TestOutlineThrottle(t *testing.T) {
	resolver := targeting.NewResolver(nil, nil, nil)
	clock := engine.NewMockTimeProvider(time.Unix(0, 0))
	scene := newFakeScene()
	sel := &fakeSelection{}
	ol := NewOutline(scene, sel, resolver, clock, quiet)

	sel.set(hostileShip())
	ol.Tick()
	if !scene.has(parameter.OutlineObjectID) {
		t.Fatal("outline not attached")
	}

	moved := hostileShip()
	moved.Position = world.Vec3{6, 0, 0}
	sel.set(moved)
	clock.Advance(50 * time.Millisecond)
	ol.Tick()
	if obj, _ := ol.Object(); obj.Position != hostileShip().Position {
		t.Error("outline updated inside the throttle window")
	}
	clock.Advance(50 * time.Millisecond)
	ol.Tick()
	if obj, _ := ol.Object(); obj.Position != moved.Position {
		t.Error("outline not updated after the throttle window")
	}

	// Removal ignores the throttle
	sel.ok = false
	ol.Tick()
	if scene.has(parameter.OutlineObjectID) {
		t.Error("outline kept without a target")
	}

	// Waypoints have no world mesh
	sel.set(waypointTarget())
	clock.Advance(time.Second)
	ol.Tick()
	if scene.has(parameter.OutlineObjectID) {
		t.Error("outline attached to a waypoint")
	}
}

func TestHUDToggleDetachesOverlays(t *testing.T) {
	resolver := targeting.NewResolver(nil, nil, nil)
	clock := engine.NewMockTimeProvider(time.Unix(0, 0))
	scene := newFakeScene()
	sel := &fakeSelection{}
	sel.set(hostileShip())
	hud := NewHUD(sel, resolver, scene)
	wf := NewWireframe(scene, sel, resolver, quiet)
	ol := NewOutline(scene, sel, resolver, clock, quiet)
	toggles := []VisibilityToggle{hud, wf, ol}

	wf.Tick(0)
	ol.Tick()
	hud.Update()
	for _, v := range toggles {
		v.SetVisible(false)
	}
	wf.Tick(0)
	ol.Tick()
	hud.Update()
	if len(scene.objects) != 0 || hud.State().Visible {
		t.Fatalf("hidden HUD left %d objects", len(scene.objects))
	}
	for _, v := range toggles {
		v.SetVisible(true)
	}
	wf.Tick(0)
	ol.Tick()
	hud.Update()
	if len(scene.objects) != 2 || !hud.State().Visible {
		t.Errorf("shown HUD has %d objects", len(scene.objects))
	}
}

// destructionWorld is the A0 sector with a live hostile ship, wired through
// the real registry and cursor
func destructionWorld(t *testing.T) (*universe.Fleet, *targeting.Cursor, *fakeScene, *Wireframe, *Outline, *engine.MockTimeProvider) {
	t.Helper()
	u := universe.New(universe.File{Sectors: map[string]universe.SectorDef{
		"A0": {Name: "Sol", Bodies: map[string]universe.BodyDef{
			"star":     {Name: "Sol", Type: "star", Position: []float64{0, 0, 0}},
			"planet_0": {Name: "Terra Prime", Type: "planet", Position: []float64{10, 0, 0}},
		}},
	}})
	if err := u.SetSector("A0"); err != nil {
		t.Fatal(err)
	}
	fleet := universe.NewFleet(quiet)
	if err := fleet.Spawn(world.Ship{ID: "A0_enemy_1", Name: "Raider", Hull: 100, Diplomacy: "hostile",
		Faction: "Crimson Raiders", Position: world.Vec3{5, 0, 0}}); err != nil {
		t.Fatal(err)
	}

	clock := engine.NewMockTimeProvider(time.Unix(0, 0))
	scene := newFakeScene()
	scene.cam.Position = world.Vec3{}
	disc := discoveredSet{"A0_star": true, "A0_terra_prime": true}
	resolver := targeting.NewResolver(u, disc, nil)
	reg := targeting.NewRegistry(targeting.Sources{
		Model: u, Ships: fleet, Discovery: disc, View: scene, Resolver: resolver,
	}, targeting.DefaultOptions(), clock, nil, quiet)
	reg.Refresh(targeting.RefreshOptions{ForceScan: true})

	cursor := targeting.NewCursor(reg, quiet)
	fleet.OnDestroyed(cursor.OnTargetDestroyed)

	wf := NewWireframe(scene, cursor, resolver, quiet)
	ol := NewOutline(scene, cursor, resolver, clock, quiet)
	return fleet, cursor, scene, wf, ol, clock
}

func TestDestructionSuppressesOverlaysUntilManualCycle(t *testing.T) {
	fleet, cursor, scene, wf, ol, clock := destructionWorld(t)
	frame := func() {
		clock.Advance(16 * time.Millisecond)
		wf.Tick(16 * time.Millisecond)
		ol.Tick()
	}

	if !cursor.SelectByID("A0_enemy_1", true) {
		t.Fatal("select failed")
	}
	frame()
	if obj, ok := wf.Object(); !ok || obj.Color != parameter.ColorHostile {
		t.Fatalf("wireframe on enemy: %+v", obj)
	}
	if !scene.has(parameter.OutlineObjectID) {
		t.Fatal("outline missing on enemy")
	}

	fleet.Destroy("A0_enemy_1")
	frame()
	if len(scene.objects) != 0 {
		t.Fatalf("overlays survived destruction: %d", len(scene.objects))
	}
	if cursor.CurrentID() == "" || cursor.CurrentID() == "A0_enemy_1" {
		t.Fatalf("cursor did not advance: %q", cursor.CurrentID())
	}

	cursor.Cycle(targeting.Forward, false)
	for i := 0; i < 10; i++ {
		frame()
	}
	if len(scene.objects) != 0 {
		t.Fatal("automatic cycle recreated overlays")
	}

	cursor.Cycle(targeting.Forward, true)
	frame()
	if _, ok := wf.Object(); !ok {
		t.Fatal("manual cycle did not restore the wireframe")
	}
	if !scene.has(parameter.OutlineObjectID) {
		t.Error("manual cycle did not restore the outline")
	}
}

func TestStationColorResolvedOnFirstRender(t *testing.T) {
	u := universe.New(universe.File{Sectors: map[string]universe.SectorDef{
		"A0": {Bodies: map[string]universe.BodyDef{
			"station_0": {Name: "Hermes Station", Type: "station", Position: []float64{20, 0, 0},
				Faction: "Terran Republic Alliance"},
		}},
	}})
	u.SetSector("A0")
	disc := discoveredSet{}
	resolver := targeting.NewResolver(u, disc, nil)

	// Listed before discovery completed
	station := targeting.Target{
		ID: "A0_hermes_station", Name: parameter.UnknownName, Kind: targeting.KindStation,
		Position: world.Vec3{20, 0, 0}, HasPosition: true, BodyKey: "station_0",
		Faction: parameter.UnknownFaction, Diplomacy: parameter.UnknownDiplomacy, Distance: 20,
	}
	disc["A0_hermes_station"] = true

	scene := newFakeScene()
	sel := &fakeSelection{}
	sel.set(station)
	wf := NewWireframe(scene, sel, resolver, quiet)
	wf.Tick(0)
	obj, _ := wf.Object()
	if obj.Color != parameter.ColorFriendly {
		t.Errorf("first render color = %s, want %s", obj.Color, parameter.ColorFriendly)
	}
}

func TestHUDWaypoint(t *testing.T) {
	resolver := targeting.NewResolver(nil, nil, nil)
	scene := newFakeScene()
	sel := &fakeSelection{}
	sel.set(waypointTarget())
	hud := NewHUD(sel, resolver, scene)
	hud.Update()

	s := hud.State()
	if !s.Visible || s.Name != "◆ Alpha" || s.Color != parameter.ColorWaypoint {
		t.Errorf("state %+v", s)
	}
	if s.Distance != "50.0 km" || s.Kind != "Waypoint" {
		t.Errorf("distance %q kind %q", s.Distance, s.Kind)
	}
	if s.Reticle.Visible && s.Reticle.Pulse {
		t.Error("waypoint reticle pulses")
	}

	hud.Root().Walk(func(e *Element) {
		switch {
		case e.Border == Transparent:
		case e.Border != "" && e.Border != parameter.ColorWaypoint:
			t.Errorf("%s border %s", e.ID, e.Border)
		}
		if e.Color != parameter.ColorWaypoint {
			t.Errorf("%s color %s", e.ID, e.Color)
		}
	})
	if hud.Root().Find("hud-divider").Border != Transparent {
		t.Error("transparent border recolored")
	}
	if hud.Root().Find(ElemName).Text != "◆ Alpha" {
		t.Error("name element not updated")
	}
}

func TestHUDUndiscovered(t *testing.T) {
	resolver := targeting.NewResolver(nil, discoveredSet{}, nil)
	sel := &fakeSelection{}
	sel.set(unknownPlanet())
	hud := NewHUD(sel, resolver, nil)
	hud.Update()
	s := hud.State()
	if s.Name != "Unknown" || s.Info != "Unknown" || s.Color != parameter.ColorUnknown {
		t.Errorf("state %+v", s)
	}
	if s.Reticle.Visible {
		t.Error("reticle without a camera")
	}
}

func TestHUDHidesWithoutTarget(t *testing.T) {
	resolver := targeting.NewResolver(nil, nil, nil)
	sel := &fakeSelection{}
	sel.set(hostileShip())
	hud := NewHUD(sel, resolver, nil)
	hud.Update()
	if !hud.State().Visible || !strings.Contains(hud.State().Info, "hull 100") {
		t.Fatalf("state %+v", hud.State())
	}
	sel.ok = false
	hud.Update()
	if hud.State() != (HUDState{}) {
		t.Errorf("stale state %+v", hud.State())
	}

	// Suppression hides overlays only
	sel.set(hostileShip())
	sel.suppressed = true
	hud.Update()
	if !hud.State().Visible {
		t.Error("suppression hid the HUD")
	}
}

func TestReticleProjection(t *testing.T) {
	cam := LookAtCamera(world.Vec3{0, 0, 50}, world.Vec3{}, 60, 80, 24)
	x, y, ok := Project(cam, world.Vec3{})
	if !ok {
		t.Fatal("center not visible")
	}
	if x < 39 || x > 40 || y < 11 || y > 12 {
		t.Errorf("center projected to %d,%d", x, y)
	}
	if _, _, ok := Project(cam, world.Vec3{0, 0, 100}); ok {
		t.Error("point behind camera visible")
	}
	rx, _, _ := Project(cam, world.Vec3{5, 0, 0})
	if rx <= x {
		t.Errorf("+x projected left: %d <= %d", rx, x)
	}
	_, uy, _ := Project(cam, world.Vec3{0, 5, 0})
	if uy >= y {
		t.Errorf("+y projected down: %d >= %d", uy, y)
	}
}

func newCommHarness() (*CommPanel, *engine.Scheduler, *engine.MockTimeProvider) {
	clock := engine.NewMockTimeProvider(time.Unix(0, 0))
	sched := engine.NewScheduler(clock, quiet)
	return NewCommPanel(sched), sched, clock
}

func advance(sched *engine.Scheduler, clock *engine.MockTimeProvider, d time.Duration) {
	clock.Advance(d)
	sched.Run(clock.Now())
}

func TestCommTypewriter(t *testing.T) {
	panel, sched, clock := newCommHarness()
	typed := 0
	panel.Show(action.Message{Title: "Alpha", Text: "Go!", Avatar: "commander", Duration: time.Second}, func() { typed++ })

	if s := panel.State(); s.Text != "G" || !s.Typing || s.Title != "Alpha" {
		t.Fatalf("state %+v", s)
	}
	advance(sched, clock, parameter.TypewriterInterval)
	if panel.State().Text != "Go" {
		t.Errorf("text %q", panel.State().Text)
	}
	advance(sched, clock, parameter.TypewriterInterval)
	if s := panel.State(); s.Text != "Go!" || s.Typing || typed != 1 {
		t.Errorf("state %+v typed %d", s, typed)
	}
	advance(sched, clock, time.Second)
	if panel.State().Visible {
		t.Error("panel not hidden after duration")
	}
	if typed != 1 {
		t.Errorf("typed %d times", typed)
	}
}

func TestCommReplacementCancelsHide(t *testing.T) {
	panel, sched, clock := newCommHarness()
	panel.Show(action.Message{Text: "A", Duration: 5 * time.Second}, nil)
	advance(sched, clock, 4*time.Second)
	panel.Show(action.Message{Text: "B", Duration: 5 * time.Second}, nil)
	advance(sched, clock, 2*time.Second)
	if s := panel.State(); !s.Visible || s.Text != "B" {
		t.Errorf("replacement hidden by stale timer: %+v", s)
	}
	advance(sched, clock, 3*time.Second)
	if panel.State().Visible {
		t.Error("replacement not hidden")
	}
}

func TestCommReplacementCompletesPriorMessage(t *testing.T) {
	panel, sched, clock := newCommHarness()
	first := 0
	panel.Show(action.Message{Text: "a long transmission"}, func() { first++ })
	panel.Show(action.Message{Text: "x"}, nil)
	if first != 0 {
		t.Fatal("prior completion ran inside Show")
	}
	advance(sched, clock, 0)
	if first != 1 {
		t.Errorf("prior completion ran %d times", first)
	}
	if panel.State().Text != "x" {
		t.Errorf("text %q", panel.State().Text)
	}
}

func TestCommFollowUpFromTypedCallback(t *testing.T) {
	panel, sched, clock := newCommHarness()
	panel.Show(action.Message{Text: "1", Duration: time.Second}, func() {
		panel.Show(action.Message{Text: "22", Duration: 3 * time.Second}, nil)
	})
	advance(sched, clock, parameter.TypewriterInterval)
	advance(sched, clock, time.Second)
	if s := panel.State(); !s.Visible || s.Text != "22" {
		t.Errorf("follow-up hidden by first message timer: %+v", s)
	}
}
