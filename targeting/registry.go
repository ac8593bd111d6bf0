package targeting

import (
	"fmt"
	"log"
	"math"
	"runtime/debug"
	"sort"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/planetz/engine"
	"github.com/lixenwraith/planetz/parameter"
	"github.com/lixenwraith/planetz/status"
	"github.com/lixenwraith/planetz/world"
)

// Discovery answers discovery membership for the active sector
type Discovery interface {
	IsDiscovered(id string) bool
}

// WaypointSource publishes targetable waypoints
type WaypointSource interface {
	Markers() []world.WaypointMarker
}

// Viewpoint provides the player camera
type Viewpoint interface {
	Camera() (world.Camera, bool)
}

// Sources bundles the collaborators the registry reads each refresh
// Any source may be nil; a missing source contributes nothing
type Sources struct {
	Model     world.SolarSystemModel
	Ships     world.ShipRegistry
	Waypoints WaypointSource
	Discovery Discovery
	View      Viewpoint
	Resolver  *Resolver
}

// Options configures ranges and throttles
type Options struct {
	Range        float64
	CyclingRange float64
	ScanInterval time.Duration
	SortInterval time.Duration
}

// DefaultOptions returns the stock ranges and throttles
func DefaultOptions() Options {
	return Options{
		Range:        parameter.DefaultTargetingRange,
		CyclingRange: parameter.DefaultCyclingRange,
		ScanInterval: parameter.TargetScanInterval,
		SortInterval: parameter.TargetSortInterval,
	}
}

// RefreshOptions bypasses the refresh throttles
type RefreshOptions struct {
	ForceScan bool
	ForceSort bool
}

type knownTarget struct {
	target   Target
	sector   string
	lastSeen time.Time
}

// Registry owns the target list
//
// A full scan rebuilds every tracked target from the sources; a sort pass
// recomputes distances and range flags against the current camera. Both are
// throttled. Tracked targets beyond range keep their record with OutOfRange
// set so ByID still answers; List returns only the in-range subset
type Registry struct {
	src    Sources
	opts   Options
	clock  world.Clock
	logger *log.Logger

	sector    string
	tracked   []Target
	list      []Target
	transient map[string]Target
	known     map[string]knownTarget
	reported  map[string]bool

	manual bool
	dirty  bool

	scanThrottle *engine.Throttle
	sortThrottle *engine.Throttle

	rebuilds *atomic.Int64
	sorts    *atomic.Int64
	failures *atomic.Int64
}

// NewRegistry creates a registry; the first Refresh performs a full scan
func NewRegistry(src Sources, opts Options, clock world.Clock, metrics *status.Registry, logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	if metrics == nil {
		metrics = status.NewRegistry()
	}
	if opts.CyclingRange < opts.Range {
		opts.CyclingRange = opts.Range
	}
	if src.Resolver == nil {
		src.Resolver = NewResolver(src.Model, src.Discovery, nil)
	}
	return &Registry{
		src:          src,
		opts:         opts,
		clock:        clock,
		logger:       logger,
		transient:    make(map[string]Target),
		known:        make(map[string]knownTarget),
		reported:     make(map[string]bool),
		dirty:        true,
		scanThrottle: engine.NewThrottle(opts.ScanInterval),
		sortThrottle: engine.NewThrottle(opts.SortInterval),
		rebuilds:     metrics.Ints.Get("targeting.rebuilds"),
		sorts:        metrics.Ints.Get("targeting.sorts"),
		failures:     metrics.Ints.Get("targeting.failures"),
	}
}

// Range returns the effective targeting range
func (r *Registry) Range() float64 {
	return r.opts.Range
}

// Sector returns the sector the list was last built for
func (r *Registry) Sector() string {
	return r.sector
}

// MarkDirty forces a full scan on the next Refresh
func (r *Registry) MarkDirty() {
	r.dirty = true
}

// SetManualNavigation toggles cache enrichment of short lists
func (r *Registry) SetManualNavigation(manual bool) {
	if r.manual != manual {
		r.manual = manual
		r.dirty = true
	}
}

// Refresh rebuilds or re-sorts the list as the throttles allow
// Returns true when the list was recomputed
func (r *Registry) Refresh(opts RefreshOptions) (changed bool) {
	now := r.clock.Now()

	defer func() {
		if rec := recover(); rec != nil {
			r.failures.Add(1)
			r.logger.Printf("[targeting] refresh failed, clearing list: %v\n%s", rec, debug.Stack())
			r.tracked = nil
			r.list = nil
			r.dirty = true
			changed = true
		}
	}()

	if r.src.Model != nil && r.src.Model.CurrentSector() != r.sector {
		r.enterSector(r.src.Model.CurrentSector())
	}

	// No camera is a transient condition: keep the previous list
	if _, ok := r.camera(); !ok {
		return false
	}

	scanDue := r.scanThrottle.Ready(now)
	if r.dirty || opts.ForceScan || scanDue {
		if !scanDue {
			r.scanThrottle.Mark(now)
		}
		r.sortThrottle.Mark(now)
		r.scan(now)
		r.dirty = false
		return true
	}
	if opts.ForceSort || r.sortThrottle.Ready(now) {
		if opts.ForceSort {
			r.sortThrottle.Mark(now)
		}
		r.resort(now)
		return true
	}
	return false
}

func (r *Registry) enterSector(sector string) {
	if r.sector != "" {
		r.logger.Printf("[targeting] sector %s -> %s, dropping known targets", r.sector, sector)
	}
	r.sector = sector
	r.known = make(map[string]knownTarget)
	r.reported = make(map[string]bool)
	for id := range r.transient {
		if !world.InSector(id, sector) {
			delete(r.transient, id)
		}
	}
	r.dirty = true
}

// List returns in-range targets in ascending distance
// The slice is a copy
func (r *Registry) List() []Target {
	out := make([]Target, len(r.list))
	copy(out, r.list)
	return out
}

// Len returns the number of in-range targets
func (r *Registry) Len() int {
	return len(r.list)
}

// ByID looks up a target, including tracked targets currently out of range
func (r *Registry) ByID(id string) (Target, bool) {
	for _, t := range r.list {
		if t.ID == id {
			return t, true
		}
	}
	for _, t := range r.tracked {
		if t.ID == id {
			return t, true
		}
	}
	return Target{}, false
}

// AddTransient injects a target outside the model flow
// It passes the same gate, dedup and sector filter on the next scan
func (r *Registry) AddTransient(t Target) {
	r.transient[t.ID] = t
	r.dirty = true
}

// Invalidate removes a target immediately
func (r *Registry) Invalidate(id string) {
	delete(r.transient, id)
	r.tracked = removeID(r.tracked, id)
	r.list = removeID(r.list, id)
	for key, k := range r.known {
		if k.target.ID == id {
			delete(r.known, key)
		}
	}
}

func removeID(ts []Target, id string) []Target {
	out := ts[:0]
	for _, t := range ts {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

func (r *Registry) camera() (world.Vec3, bool) {
	if r.src.View == nil {
		return world.Vec3{}, false
	}
	cam, ok := r.src.View.Camera()
	if !ok || !world.Finite(cam.Position) {
		return world.Vec3{}, false
	}
	return cam.Position, true
}

// scan runs the full build pipeline
func (r *Registry) scan(now time.Time) {
	r.rebuilds.Add(1)
	camPos, haveCam := r.camera()

	candidates := r.collectBodies()
	candidates = append(candidates, r.collectShips()...)
	candidates = append(candidates, r.collectWaypoints()...)
	transientIDs := make([]string, 0, len(r.transient))
	for id := range r.transient {
		transientIDs = append(transientIDs, id)
	}
	sort.Strings(transientIDs)
	for _, id := range transientIDs {
		t := r.transient[id]
		if containsID(candidates, id) {
			delete(r.transient, id)
			continue
		}
		if !t.Kind.Valid() || (t.HasPosition && !world.Finite(t.Position)) {
			r.logger.Printf("[targeting] dropping malformed transient %s", id)
			delete(r.transient, id)
			continue
		}
		candidates = append(candidates, t)
	}

	for i := range candidates {
		r.applyGate(&candidates[i])
		measure(&candidates[i], camPos, haveCam)
	}
	// Collection order: bodies, ships, waypoints, transients; first occurrence wins
	candidates = r.dedup(candidates)
	candidates = r.sectorFilter(candidates)
	sortByDistance(candidates)

	r.tracked = candidates
	r.partition(now)
}

// resort recomputes distances for tracked targets without rebuilding
func (r *Registry) resort(now time.Time) {
	r.sorts.Add(1)
	camPos, haveCam := r.camera()
	positions := r.shipPositions()
	for i := range r.tracked {
		t := &r.tracked[i]
		if t.Kind == KindShip {
			if p, ok := positions[t.ID]; ok {
				t.Position = p
			}
		}
		measure(t, camPos, haveCam)
	}
	sortByDistance(r.tracked)
	r.partition(now)
}

func (r *Registry) shipPositions() map[string]world.Vec3 {
	if r.src.Ships == nil {
		return nil
	}
	ships := r.src.Ships.Ships()
	out := make(map[string]world.Vec3, len(ships))
	for _, s := range ships {
		out[s.ID] = s.Position
	}
	return out
}

// partition splits tracked targets into the in-range list and refreshes the cache
func (r *Registry) partition(now time.Time) {
	list := make([]Target, 0, len(r.tracked))
	for i := range r.tracked {
		t := &r.tracked[i]
		t.OutOfRange = t.HasPosition && t.Distance > r.opts.Range
		if !t.OutOfRange {
			list = append(list, *t)
		}
	}

	r.remember(list, now)
	if r.manual && len(list) <= parameter.ShortListThreshold {
		list = r.enrich(list)
	}
	r.list = list
}

func (r *Registry) remember(list []Target, now time.Time) {
	for key, k := range r.known {
		if k.sector != r.sector || now.Sub(k.lastSeen) > parameter.KnownTargetTTL {
			delete(r.known, key)
		}
	}
	for _, t := range list {
		r.known[knownKey(t)] = knownTarget{target: t, sector: r.sector, lastSeen: now}
	}
}

// knownKey is the display name; placeholders fall back to the id so they do not collide
func knownKey(t Target) string {
	if !t.Discovered || t.Name == "" {
		return t.ID
	}
	return t.Name
}

// enrich merges cached targets within cycling range into a short list
func (r *Registry) enrich(list []Target) []Target {
	camPos, haveCam := r.camera()
	if !haveCam {
		return list
	}
	keys := make([]string, 0, len(r.known))
	for key := range r.known {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	added := 0
	for _, key := range keys {
		t := r.known[key].target
		if containsID(list, t.ID) {
			continue
		}
		if idx := indexOf(r.tracked, t.ID); idx >= 0 {
			t = r.tracked[idx]
		}
		if t.Discovered && t.Name != parameter.UnknownName && containsName(list, t.Name) {
			continue
		}
		if !world.InSector(t.ID, r.sector) {
			continue
		}
		measure(&t, camPos, true)
		if t.Distance > r.opts.CyclingRange {
			continue
		}
		t.OutOfRange = t.Distance > r.opts.Range
		list = append(list, t)
		added++
	}
	if added > 0 {
		sortByDistance(list)
	}
	return list
}

func (r *Registry) collectBodies() []Target {
	if r.src.Model == nil {
		return nil
	}
	bodies := r.src.Model.CelestialBodies()
	keys := make([]string, 0, len(bodies))
	for k := range bodies {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Target, 0, len(keys))
	for _, key := range keys {
		body := bodies[key]
		info, _ := r.src.Model.CelestialBodyInfo(key)
		kind := kindFromBody(key, body, info)
		if kind == "" {
			r.logger.Printf("[targeting] dropping body %s: missing kind", key)
			continue
		}
		if !world.Finite(body.Position) {
			r.logger.Printf("[targeting] dropping body %s: non-finite position", key)
			continue
		}
		name := body.Name
		if name == "" {
			name = info.Name
		}
		if name == "" {
			name = key
		}
		out = append(out, Target{
			ID:          world.BodyID(r.sector, key, body),
			Name:        name,
			Kind:        kind,
			Position:    body.Position,
			HasPosition: true,
			SceneObject: body.Scene,
			Faction:     info.Faction,
			Diplomacy:   info.Diplomacy,
			BodyKey:     key,
		})
	}
	return out
}

func (r *Registry) collectShips() []Target {
	if r.src.Ships == nil {
		return nil
	}
	ships := r.src.Ships.Ships()
	out := make([]Target, 0, len(ships))
	for _, s := range ships {
		if s.Hull <= parameter.MinLiveHull || math.IsNaN(s.Hull) {
			continue
		}
		if s.ID == "" || !world.Finite(s.Position) {
			r.logger.Printf("[targeting] dropping malformed ship %q", s.ID)
			continue
		}
		name := s.Name
		if name == "" {
			name = s.ShipType
		}
		if name == "" {
			name = s.ID
		}
		out = append(out, Target{
			ID:          s.ID,
			Name:        name,
			Kind:        KindShip,
			Position:    s.Position,
			HasPosition: true,
			SceneObject: s.Scene,
			Faction:     s.Faction,
			Diplomacy:   s.Diplomacy,
			Discovered:  true,
			Hull:        s.Hull,
			HasHull:     true,
		})
	}
	return out
}

func (r *Registry) collectWaypoints() []Target {
	if r.src.Waypoints == nil {
		return nil
	}
	markers := r.src.Waypoints.Markers()
	out := make([]Target, 0, len(markers))
	for _, m := range markers {
		if !world.Finite(m.Position) {
			r.logger.Printf("[targeting] dropping waypoint %s: non-finite position", m.ID)
			continue
		}
		out = append(out, Target{
			ID:             m.ID,
			Name:           m.Name,
			Kind:           KindWaypoint,
			Position:       m.Position,
			HasPosition:    true,
			Discovered:     true,
			Faction:        parameter.WaypointFaction,
			Diplomacy:      parameter.WaypointDiplomacy,
			TriggerRadius:  m.TriggerRadius,
			WaypointStatus: m.Status,
		})
	}
	return out
}

// applyGate projects undiscovered celestial bodies to the Unknown placeholder
// and fills affiliation for discovered targets. Ships and waypoints are always
// discovered
func (r *Registry) applyGate(t *Target) {
	if t.Kind.IsCelestial() {
		t.Discovered = r.src.Discovery == nil || r.src.Discovery.IsDiscovered(t.ID)
	} else {
		t.Discovered = true
	}

	if !t.Discovered {
		t.Name = parameter.UnknownName
		t.Faction = parameter.UnknownFaction
		t.Diplomacy = parameter.UnknownDiplomacy
		return
	}
	if t.Kind == KindWaypoint {
		return
	}
	if t.Faction == "" || t.Faction == parameter.UnknownFaction {
		t.Faction = parameter.DefaultFaction
	}
	if t.Diplomacy == "" || t.Diplomacy == parameter.UnknownDiplomacy {
		if d, ok := r.src.Resolver.fromFields(t.Faction, ""); ok {
			t.Diplomacy = string(d)
		} else {
			t.Diplomacy = parameter.DefaultDiplomacy
		}
	}
}

// dedup keeps the first occurrence by id, then by name among discovered targets
// Unknown placeholders share a name by construction and are exempt
func (r *Registry) dedup(ts []Target) []Target {
	ids := make(map[string]bool, len(ts))
	names := make(map[string]bool, len(ts))
	out := ts[:0]
	for _, t := range ts {
		if ids[t.ID] {
			continue
		}
		if t.Discovered {
			if names[t.Name] {
				continue
			}
			names[t.Name] = true
		}
		ids[t.ID] = true
		out = append(out, t)
	}
	return out
}

func (r *Registry) sectorFilter(ts []Target) []Target {
	out := ts[:0]
	for _, t := range ts {
		if !world.InSector(t.ID, r.sector) {
			if !r.reported[t.ID] {
				r.reported[t.ID] = true
				r.logger.Printf("[targeting] %v", fmt.Errorf("%w: %s (%s) not in sector %s", ErrCrossSector, t.ID, t.Kind, r.sector))
			}
			continue
		}
		out = append(out, t)
	}
	return out
}

func measure(t *Target, cam world.Vec3, haveCam bool) {
	if !t.HasPosition || !haveCam || !world.Finite(t.Position) {
		t.Distance = parameter.SentinelDistance
		return
	}
	t.Distance = world.Distance(cam, t.Position)
}

func sortByDistance(ts []Target) {
	sort.SliceStable(ts, func(i, j int) bool {
		return ts[i].Distance < ts[j].Distance
	})
}

func containsID(ts []Target, id string) bool {
	for _, t := range ts {
		if t.ID == id {
			return true
		}
	}
	return false
}

func containsName(ts []Target, name string) bool {
	for _, t := range ts {
		if t.Name == name {
			return true
		}
	}
	return false
}
