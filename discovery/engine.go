// Package discovery reveals nearby objects as the player flies through a sector
// and remembers what has been seen, per sector, across sessions
package discovery

import (
	"fmt"
	"log"
	"sort"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/planetz/engine"
	"github.com/lixenwraith/planetz/parameter"
	"github.com/lixenwraith/planetz/status"
	"github.com/lixenwraith/planetz/world"
)

// Options configures scanning
type Options struct {
	EquipmentLevel int
	CellSize       float64
	MaxSectors     int
	ScanInterval   time.Duration
}

// DefaultOptions returns level-1 scanning with stock grid sizing
func DefaultOptions() Options {
	return Options{
		EquipmentLevel: 1,
		CellSize:       parameter.DiscoveryBaseRange,
		MaxSectors:     parameter.DiscoveryMaxSectors,
		ScanInterval:   parameter.DiscoveryScanInterval,
	}
}

// RangeForLevel returns the discovery range for an equipment level
func RangeForLevel(level int) (float64, bool) {
	r, ok := parameter.DiscoveryRangeByLevel[level]
	return r, ok
}

type sectorSet struct {
	ids      map[string]time.Time
	lastUsed time.Time
}

func newSectorSet() *sectorSet {
	return &sectorSet{ids: make(map[string]time.Time)}
}

func (s *sectorSet) sorted() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Engine runs proximity discovery for the active sector
// Single-threaded: every method is called from the frame loop
type Engine struct {
	store  world.PersistentStore
	clock  world.Clock
	logger *log.Logger

	opts    Options
	rangeKm float64

	current string
	grid    *SpatialGrid
	sectors map[string]*sectorSet

	listeners []func(id, sector string, at time.Time)
	throttle  *engine.Throttle

	scanTiming *status.Timing
	found      *atomic.Int64
	warned     bool
}

// New creates an engine; store may be nil for an ephemeral session
func New(store world.PersistentStore, clock world.Clock, opts Options, metrics *status.Registry, logger *log.Logger) (*Engine, error) {
	if logger == nil {
		logger = log.Default()
	}
	if metrics == nil {
		metrics = status.NewRegistry()
	}
	rng, ok := RangeForLevel(opts.EquipmentLevel)
	if !ok {
		return nil, fmt.Errorf("discovery: unknown equipment level %d", opts.EquipmentLevel)
	}
	if opts.MaxSectors < 1 {
		opts.MaxSectors = 1
	}
	e := &Engine{
		store:      store,
		clock:      clock,
		logger:     logger,
		opts:       opts,
		rangeKm:    rng,
		sectors:    make(map[string]*sectorSet),
		throttle:   engine.NewThrottle(opts.ScanInterval),
		scanTiming: metrics.Timings.Get("discovery.scan"),
		found:      metrics.Ints.Get("discovery.found"),
	}
	e.grid = NewSpatialGrid(e.cellSize())
	return e, nil
}

func (e *Engine) cellSize() float64 {
	return max(e.opts.CellSize, e.rangeKm)
}

// Range returns the current discovery range (km)
func (e *Engine) Range() float64 {
	return e.rangeKm
}

// EquipmentLevel returns the installed scanner level
func (e *Engine) EquipmentLevel() int {
	return e.opts.EquipmentLevel
}

// SetEquipmentLevel swaps the scanner, growing grid cells when the range outgrows them
func (e *Engine) SetEquipmentLevel(level int) error {
	rng, ok := RangeForLevel(level)
	if !ok {
		return fmt.Errorf("discovery: unknown equipment level %d", level)
	}
	e.opts.EquipmentLevel = level
	e.rangeKm = rng
	e.grid.Resize(e.cellSize())
	return nil
}

// OnDiscovered subscribes fn; subscribers run synchronously inside Tick/Discover
func (e *Engine) OnDiscovered(fn func(id, sector string, at time.Time)) {
	e.listeners = append(e.listeners, fn)
}

// Sector returns the active sector
func (e *Engine) Sector() string {
	return e.current
}

// LoadSector rebuilds the grid for sector and rehydrates its discovery set
func (e *Engine) LoadSector(sector string, model world.SolarSystemModel, ships []world.Ship) {
	e.current = sector
	e.grid.Clear()
	if model != nil {
		for key, body := range model.CelestialBodies() {
			e.grid.Add(world.BodyID(sector, key, body), body.Position)
		}
	}
	for _, s := range ships {
		if world.InSector(s.ID, sector) {
			e.grid.Add(s.ID, s.Position)
		}
	}

	set := e.set(sector)
	set.lastUsed = e.clock.Now()
	e.evict()
	e.throttle.Reset()
	e.logger.Printf("[discovery] sector %s loaded: %d objects, %d discovered", sector, e.grid.Len(), len(set.ids))
}

func (e *Engine) set(sector string) *sectorSet {
	set, ok := e.sectors[sector]
	if !ok {
		set = e.loadSet(sector)
		e.sectors[sector] = set
	}
	return set
}

// evict drops least-recently-used sector sets beyond the cap; the active sector stays
func (e *Engine) evict() {
	for len(e.sectors) > e.opts.MaxSectors {
		var oldest string
		var oldestAt time.Time
		for code, s := range e.sectors {
			if code == e.current {
				continue
			}
			if oldest == "" || s.lastUsed.Before(oldestAt) {
				oldest, oldestAt = code, s.lastUsed
			}
		}
		if oldest == "" {
			return
		}
		delete(e.sectors, oldest)
		e.logger.Printf("[discovery] evicted sector %s", oldest)
	}
}

// LoadedSectors returns sector codes with an in-memory set
func (e *Engine) LoadedSectors() []string {
	out := make([]string, 0, len(e.sectors))
	for code := range e.sectors {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Track adds or moves an entity in the active sector grid
func (e *Engine) Track(id string, pos world.Vec3) {
	if world.InSector(id, e.current) {
		e.grid.Add(id, pos)
	}
}

// Untrack removes an entity from the grid; its discovery record stays
func (e *Engine) Untrack(id string) {
	e.grid.Remove(id)
}

// Tick scans around the player when the scan interval allows
// Returns the ids discovered by this call
func (e *Engine) Tick(player world.Vec3) []string {
	now := e.clock.Now()
	if e.current == "" || !e.throttle.Ready(now) {
		return nil
	}
	return e.scan(player, now)
}

// Scan runs a proximity scan immediately
func (e *Engine) Scan(player world.Vec3) []string {
	if e.current == "" {
		return nil
	}
	return e.scan(player, e.clock.Now())
}

func (e *Engine) scan(player world.Vec3, now time.Time) []string {
	start := time.Now()
	set := e.set(e.current)
	set.lastUsed = now

	var found []string
	e.grid.Neighborhood(player, func(id string, pos world.Vec3) {
		if _, known := set.ids[id]; known {
			return
		}
		if world.Distance(player, pos) <= e.rangeKm {
			found = append(found, id)
		}
	})
	// Deterministic emission order
	sort.Strings(found)
	for _, id := range found {
		e.record(set, id, now)
	}

	elapsed := time.Since(start)
	e.scanTiming.Observe(elapsed)
	if mean := e.scanTiming.Mean(); mean > parameter.DiscoveryBudget && !e.warned {
		e.warned = true
		e.logger.Printf("[discovery] mean scan %v exceeds budget %v (%d objects)", mean, parameter.DiscoveryBudget, e.grid.Len())
	}
	return found
}

func (e *Engine) record(set *sectorSet, id string, at time.Time) {
	set.ids[id] = at
	e.found.Add(1)
	e.persist(e.current, set)
	for _, fn := range e.listeners {
		fn(id, e.current, at)
	}
}

// Discover marks id discovered in the active sector without a proximity check
func (e *Engine) Discover(id string) bool {
	if !world.InSector(id, e.current) {
		return false
	}
	set := e.set(e.current)
	if _, ok := set.ids[id]; ok {
		return false
	}
	e.record(set, id, e.clock.Now())
	return true
}

// IsDiscovered reports membership in the set of the sector id belongs to
func (e *Engine) IsDiscovered(id string) bool {
	for code, set := range e.sectors {
		if world.InSector(id, code) {
			if _, ok := set.ids[id]; ok {
				return true
			}
		}
	}
	return false
}

// DiscoveredAt returns when id was discovered
func (e *Engine) DiscoveredAt(id string) (time.Time, bool) {
	for code, set := range e.sectors {
		if world.InSector(id, code) {
			at, ok := set.ids[id]
			return at, ok
		}
	}
	return time.Time{}, false
}

// Discovered returns the sorted discovery set of sector
func (e *Engine) Discovered(sector string) []string {
	ids := e.set(sector).sorted()
	e.evict()
	return ids
}

// Grid exposes the active sector grid for read-only inspection
func (e *Engine) Grid() *SpatialGrid {
	return e.grid
}
