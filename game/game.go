// Package game is the composition root: it builds every subsystem around one
// universe and runs them in a fixed per-frame order
package game

import (
	"errors"
	"fmt"
	"log"
	"maps"
	"time"

	"github.com/lixenwraith/planetz/action"
	"github.com/lixenwraith/planetz/config"
	"github.com/lixenwraith/planetz/discovery"
	"github.com/lixenwraith/planetz/engine"
	"github.com/lixenwraith/planetz/event"
	"github.com/lixenwraith/planetz/parameter"
	"github.com/lixenwraith/planetz/render"
	"github.com/lixenwraith/planetz/starchart"
	"github.com/lixenwraith/planetz/status"
	"github.com/lixenwraith/planetz/store"
	"github.com/lixenwraith/planetz/targeting"
	"github.com/lixenwraith/planetz/universe"
	"github.com/lixenwraith/planetz/waypoint"
	"github.com/lixenwraith/planetz/world"
)

// Options are the collaborators supplied by the binary or a test
// Only Universe is required
type Options struct {
	Config   *config.Config
	Universe *universe.Universe
	Missions []waypoint.Mission
	Store    world.PersistentStore
	Scene    world.SceneRenderer // nil runs headless without overlays
	Audio    world.AudioSink     // nil is silent
	Clock    world.Clock
	Metrics  *status.Registry
	Logger   *log.Logger

	Width, Height int
}

// Viewpoint provides the player camera
type Viewpoint interface {
	Camera() (world.Camera, bool)
}

type silentSink struct{}

func (silentSink) PlaySound(string, float64) {}

// Game owns one session
type Game struct {
	cfg     *config.Config
	clock   world.Clock
	logger  *log.Logger
	metrics *status.Registry

	universe *universe.Universe
	fleet    *universe.Fleet
	store    world.PersistentStore
	scene    world.SceneRenderer
	audio    world.AudioSink
	pilot    *Pilot
	view     Viewpoint

	events    *event.Router
	scheduler *engine.Scheduler
	pipeline  *engine.Pipeline

	discovery *discovery.Engine
	resolver  *targeting.Resolver
	registry  *targeting.Registry
	cursor    *targeting.Cursor
	waypoints *waypoint.Manager
	actions   *action.Registry
	services  *action.Services
	inventory *action.MemoryInventory

	hud       *render.HUD
	wireframe *render.Wireframe
	outline   *render.Outline
	comm      *render.CommPanel
	chart     *starchart.Chart

	last engine.Frame
}

// New builds a session and enters the configured start sector
func New(opts Options) (*Game, error) {
	if opts.Universe == nil {
		return nil, errors.New("game: universe is required")
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = status.NewRegistry()
	}
	clock := opts.Clock
	if clock == nil {
		clock = engine.NewTimeProvider()
	}
	st := opts.Store
	if st == nil {
		st = store.NewMemory()
	}
	audio := opts.Audio
	if audio == nil {
		audio = silentSink{}
	}

	g := &Game{
		cfg:      cfg,
		clock:    clock,
		logger:   logger,
		metrics:  metrics,
		universe: opts.Universe,
		fleet:    universe.NewFleet(logger),
		store:    st,
		scene:    opts.Scene,
		audio:    audio,
		events:   event.NewRouter(),
	}
	g.scheduler = engine.NewScheduler(clock, logger)

	sink, _ := opts.Scene.(CameraSink)
	g.pilot = NewPilot(sink, opts.Width, opts.Height)
	g.view = g.pilot
	if opts.Scene != nil {
		g.view = opts.Scene
	}

	disc, err := discovery.New(st, clock, discovery.Options{
		EquipmentLevel: cfg.Discovery.EquipmentLevel,
		CellSize:       cfg.Discovery.CellSizeKm,
		MaxSectors:     cfg.Discovery.MaxSectors,
		ScanInterval:   cfg.Discovery.ScanInterval.Duration,
	}, metrics, logger)
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	g.discovery = disc

	factions := maps.Clone(opts.Universe.Factions())
	if factions == nil {
		factions = make(map[string]string)
	}
	maps.Copy(factions, cfg.Factions)
	g.resolver = targeting.NewResolver(opts.Universe, disc, factions)

	g.comm = render.NewCommPanel(g.scheduler)
	g.inventory = action.NewMemoryInventory()
	g.services = &action.Services{
		Ships:     g.fleet,
		Comm:      g.comm,
		Audio:     audio,
		Rewards:   action.NewRewardClient(cfg.Rewards.Endpoint, cfg.Rewards.Timeout.Duration, logger),
		Inventory: g.inventory,
		Scheduler: g.scheduler,
		Events:    g.events,
		Logger:    logger,
	}
	g.actions = action.NewDefaultRegistry()
	g.waypoints = waypoint.NewManager(g.actions, g.services, st, clock, g.events, metrics, logger)

	g.registry = targeting.NewRegistry(targeting.Sources{
		Model:     opts.Universe,
		Ships:     g.fleet,
		Waypoints: g.waypoints,
		Discovery: disc,
		View:      g.view,
		Resolver:  g.resolver,
	}, targeting.Options{
		Range:        cfg.EffectiveTargetingRange(),
		CyclingRange: cfg.EffectiveCyclingRange(),
		ScanInterval: cfg.Targeting.ScanInterval.Duration,
		SortInterval: cfg.Targeting.SortInterval.Duration,
	}, clock, metrics, logger)
	g.services.Targets = g.registry
	g.cursor = targeting.NewCursor(g.registry, logger)

	g.hud = render.NewHUD(g.cursor, g.resolver, g.view)
	g.wireframe = render.NewWireframe(opts.Scene, g.cursor, g.resolver, logger)
	g.outline = render.NewOutline(opts.Scene, g.cursor, g.resolver, clock, logger)
	g.chart = starchart.New(g.registry, disc, g.resolver, g.cursor, g.view)
	g.chart.TrackCurrent(g.cursor.CurrentID)

	g.wire()
	g.pipeline = g.buildPipeline()

	if n, err := g.waypoints.Load(); err != nil {
		logger.Printf("[game] waypoint restore: %v", err)
	} else if n > 0 {
		logger.Printf("[game] restored %d waypoints", n)
	}
	created, errs := g.waypoints.CreateMissions(opts.Missions)
	for _, err := range errs {
		logger.Printf("[game] %v", err)
	}
	if created > 0 {
		logger.Printf("[game] created %d mission waypoints", created)
	}

	if err := g.EnterSector(cfg.Data.StartSector); err != nil {
		return nil, err
	}
	return g, nil
}

// wire connects the subsystems' callbacks and event subscriptions
func (g *Game) wire() {
	g.cursor.OnChange(g.onTargetChanged)
	g.fleet.OnDestroyed(g.onShipDestroyed)
	g.discovery.OnDiscovered(func(id, sector string, at time.Time) {
		g.registry.MarkDirty()
		g.events.Emit(event.EventDiscovered, &event.DiscoveredPayload{ID: id, Sector: sector, At: at})
		g.sound(parameter.SoundDiscovery)
	})

	dirty := func(event.GameEvent) { g.registry.MarkDirty() }
	g.events.Subscribe(event.EventWaypointCreated, dirty)
	g.events.Subscribe(event.EventWaypointCompleted, dirty)
	g.events.Subscribe(event.EventWaypointDeleted, dirty)
	g.events.Subscribe(event.EventShipSpawned, func(ev event.GameEvent) {
		if p, ok := ev.Payload.(*event.ShipSpawnedPayload); ok {
			g.discovery.Track(p.ID, world.Vec3{p.Position[0], p.Position[1], p.Position[2]})
		}
	})
	g.events.Subscribe(event.EventSoundRequest, func(ev event.GameEvent) {
		if p, ok := ev.Payload.(*event.SoundRequestPayload); ok {
			g.audio.PlaySound(p.ID, p.Volume)
		}
	})
}

func (g *Game) onTargetChanged(ch targeting.Change) {
	var diplomacy targeting.Diplomacy
	if ch.Current != nil {
		diplomacy = g.resolver.Resolve(*ch.Current)
	}
	g.waypoints.OnTargetChanged(ch.Previous, ch.Current, diplomacy)
	if (ch.Previous != nil && ch.Previous.IsWaypoint()) || (ch.Current != nil && ch.Current.IsWaypoint()) {
		g.registry.MarkDirty()
	}

	payload := &event.TargetChangedPayload{Diplomacy: string(diplomacy), Manual: ch.Manual}
	if ch.Previous != nil {
		payload.PreviousID, payload.PreviousKind = ch.Previous.ID, string(ch.Previous.Kind)
	}
	if ch.Current != nil {
		payload.CurrentID, payload.CurrentKind = ch.Current.ID, string(ch.Current.Kind)
	}
	g.events.Emit(event.EventTargetChanged, payload)

	if ch.Manual && ch.Current != nil {
		g.sound(parameter.SoundTargetCycle)
	}
}

func (g *Game) onShipDestroyed(id string) {
	current := g.cursor.CurrentID() == id
	if current {
		g.wireframe.Detach()
		g.outline.Detach()
	}
	g.cursor.OnTargetDestroyed(id)
	g.discovery.Untrack(id)
	g.events.Emit(event.EventShipDestroyed, &event.ShipDestroyedPayload{ID: id})
	if current {
		g.sound(parameter.SoundTargetLost)
	}
}

// sound queues a sound request for the events stage of the frame
func (g *Game) sound(id string) {
	g.events.Post(event.EventSoundRequest, &event.SoundRequestPayload{ID: id, Volume: parameter.DefaultAudioVolume})
}

// buildPipeline registers the per-frame systems in their fixed order
func (g *Game) buildPipeline() *engine.Pipeline {
	p := engine.NewPipeline(g.logger, g.metrics)
	system := func(name string, priority int, fn func(engine.Frame) error) {
		p.AddSystem(engine.SystemFunc{SystemName: name, SystemPriority: priority, Fn: fn})
	}

	system("scheduler", parameter.PriorityScheduler, func(f engine.Frame) error {
		g.events.SetFrame(f.Number)
		g.scheduler.Run(f.Now)
		return nil
	})
	system("discovery", parameter.PriorityDiscovery, func(engine.Frame) error {
		if pos, ok := g.PlayerPosition(); ok {
			g.discovery.Tick(pos)
		}
		return nil
	})
	system("registry", parameter.PriorityRegistry, func(engine.Frame) error {
		g.registry.Refresh(targeting.RefreshOptions{})
		return nil
	})
	system("cursor", parameter.PriorityCursor, func(engine.Frame) error {
		g.cursor.Validate()
		return nil
	})
	system("waypoint", parameter.PriorityWaypoint, func(engine.Frame) error {
		if pos, ok := g.PlayerPosition(); ok {
			g.waypoints.Tick(pos)
		}
		return nil
	})
	system("events", parameter.PriorityEvents, func(engine.Frame) error {
		g.events.DispatchAll()
		return nil
	})
	system("presenters", parameter.PriorityPresenter, func(f engine.Frame) error {
		g.hud.Update()
		g.wireframe.Tick(f.Delta)
		g.outline.Tick()
		return nil
	})
	return p
}

// Frame runs one pass of the pipeline at now
func (g *Game) Frame(now time.Time) engine.Frame {
	g.last = g.pipeline.Run(now)
	return g.last
}

// Tick runs one frame at the session clock's time
func (g *Game) Tick() engine.Frame {
	return g.Frame(g.clock.Now())
}

// EnterSector loads a sector: ships, discovery grid and set, waypoint scope
// The registry rebuilds from scratch on the next frame
func (g *Game) EnterSector(code string) error {
	prev := g.universe.CurrentSector()
	if err := g.universe.SetSector(code); err != nil {
		return fmt.Errorf("enter sector: %w", err)
	}
	g.cursor.Clear()

	g.fleet.Reset()
	for _, s := range g.universe.InitialShips(code) {
		if err := g.fleet.Spawn(s); err != nil {
			g.logger.Printf("[game] sector %s ship %s: %v", code, s.ID, err)
		}
	}
	g.discovery.LoadSector(code, g.universe, g.fleet.Ships())
	g.waypoints.SetSector(code)
	g.pilot.Warp(g.universe.SpawnPoint(code))
	g.registry.MarkDirty()

	g.events.Emit(event.EventSectorChanged, &event.SectorChangedPayload{Previous: prev, Current: code})
	g.logger.Printf("[game] entered sector %s (%s)", code, g.universe.SectorName(code))
	return nil
}

// PlayerPosition returns the camera position
func (g *Game) PlayerPosition() (world.Vec3, bool) {
	cam, ok := g.view.Camera()
	if !ok || !world.Finite(cam.Position) {
		return world.Vec3{}, false
	}
	return cam.Position, true
}

// Status returns a one-line summary for the status bar
func (g *Game) Status() string {
	sector := g.universe.CurrentSector()
	target := "no target"
	if t, ok := g.cursor.Current(); ok {
		target = t.ID
	}
	pos, _ := g.PlayerPosition()
	line := fmt.Sprintf(" %s %s | %d targets | %d discovered | %s | pos %.0f,%.0f,%.0f | credits %d",
		sector, g.universe.SectorName(sector), g.registry.Len(), len(g.discovery.Discovered(sector)),
		target, pos.X(), pos.Y(), pos.Z(), g.inventory.Credits())
	if g.Paused() {
		line += " | PAUSED"
	}
	return line
}

func (g *Game) Events() *event.Router              { return g.events }
func (g *Game) Scheduler() *engine.Scheduler       { return g.scheduler }
func (g *Game) Fleet() *universe.Fleet             { return g.fleet }
func (g *Game) Pilot() *Pilot                      { return g.pilot }
func (g *Game) Discovery() *discovery.Engine       { return g.discovery }
func (g *Game) Resolver() *targeting.Resolver      { return g.resolver }
func (g *Game) Registry() *targeting.Registry      { return g.registry }
func (g *Game) Cursor() *targeting.Cursor          { return g.cursor }
func (g *Game) Waypoints() *waypoint.Manager       { return g.waypoints }
func (g *Game) Inventory() *action.MemoryInventory { return g.inventory }
func (g *Game) HUD() *render.HUD                   { return g.hud }
func (g *Game) Wireframe() *render.Wireframe       { return g.wireframe }
func (g *Game) Outline() *render.Outline           { return g.outline }
func (g *Game) Comm() *render.CommPanel            { return g.comm }
func (g *Game) Chart() *starchart.Chart            { return g.chart }
func (g *Game) Metrics() *status.Registry          { return g.metrics }
