package targeting

import (
	"io"
	"log"
	"time"

	"github.com/lixenwraith/planetz/engine"
	"github.com/lixenwraith/planetz/status"
	"github.com/lixenwraith/planetz/world"
)

type fakeModel struct {
	sector string
	bodies map[string]world.Body
	info   map[string]world.BodyInfo
}

func (m *fakeModel) CurrentSector() string                   { return m.sector }
func (m *fakeModel) CelestialBodies() map[string]world.Body { return m.bodies }
func (m *fakeModel) CelestialBodyInfo(key string) (world.BodyInfo, bool) {
	info, ok := m.info[key]
	return info, ok
}

type fakeShips struct {
	ships []world.Ship
}

func (s *fakeShips) Ships() []world.Ship            { return append([]world.Ship(nil), s.ships...) }
func (s *fakeShips) Spawn(ship world.Ship) error    { s.ships = append(s.ships, ship); return nil }
func (s *fakeShips) OnDestroyed(fn func(string))    {}
func (s *fakeShips) remove(id string) {
	out := s.ships[:0]
	for _, sh := range s.ships {
		if sh.ID != id {
			out = append(out, sh)
		}
	}
	s.ships = out
}

func (s *fakeShips) move(id string, pos world.Vec3) {
	for i := range s.ships {
		if s.ships[i].ID == id {
			s.ships[i].Position = pos
		}
	}
}

type fakeDiscovery map[string]bool

func (d fakeDiscovery) IsDiscovered(id string) bool { return d[id] }

type fakeView struct {
	pos world.Vec3
	off bool
}

func (v *fakeView) Camera() (world.Camera, bool) {
	return world.Camera{Position: v.pos}, !v.off
}

type fakeWaypoints struct {
	markers []world.WaypointMarker
}

func (w *fakeWaypoints) Markers() []world.WaypointMarker { return w.markers }

// fixture is the S1 world: Sol, Terra Prime and two ships, one foreign
type fixture struct {
	model     *fakeModel
	ships     *fakeShips
	discovery fakeDiscovery
	view      *fakeView
	waypoints *fakeWaypoints
	clock     *engine.MockTimeProvider
	metrics   *status.Registry
	registry  *Registry
	cursor    *Cursor
	resolver  *Resolver
}

func newFixture(discovered ...string) *fixture {
	f := &fixture{
		model: &fakeModel{
			sector: "A0",
			bodies: map[string]world.Body{
				"star":     {Name: "Sol", Position: world.Vec3{0, 0, 0}},
				"planet_0": {Name: "Terra Prime", Position: world.Vec3{10, 0, 0}},
			},
			info: map[string]world.BodyInfo{},
		},
		ships: &fakeShips{ships: []world.Ship{
			{ID: "A0_enemy_1", Position: world.Vec3{5, 0, 0}, Hull: 100},
			{ID: "B1_pirate_2", Position: world.Vec3{5, 0, 0}, Hull: 100},
		}},
		discovery: fakeDiscovery{},
		view:      &fakeView{},
		waypoints: &fakeWaypoints{},
		clock:     engine.NewMockTimeProvider(time.Unix(1000, 0)),
		metrics:   status.NewRegistry(),
	}
	for _, id := range discovered {
		f.discovery[id] = true
	}
	f.build(DefaultOptions())
	return f
}

func (f *fixture) build(opts Options) {
	logger := log.New(io.Discard, "", 0)
	f.resolver = NewResolver(f.model, f.discovery, nil)
	f.registry = NewRegistry(Sources{
		Model:     f.model,
		Ships:     f.ships,
		Waypoints: f.waypoints,
		Discovery: f.discovery,
		View:      f.view,
		Resolver:  f.resolver,
	}, opts, f.clock, f.metrics, logger)
	f.cursor = NewCursor(f.registry, logger)
}

func (f *fixture) refresh() {
	f.registry.Refresh(RefreshOptions{ForceScan: true})
}

func ids(ts []Target) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.ID
	}
	return out
}
