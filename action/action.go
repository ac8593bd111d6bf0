// Package action provides the pluggable actions a waypoint fires when the
// player reaches it. Action types declare their parameters; the registry
// validates them when an action is created, never when it runs.
package action

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/lixenwraith/planetz/engine"
	"github.com/lixenwraith/planetz/event"
	"github.com/lixenwraith/planetz/targeting"
	"github.com/lixenwraith/planetz/world"
)

var (
	ErrUnknownType      = errors.New("unknown action type")
	ErrInvalidParameter = errors.New("invalid action parameter")
	ErrMissingService   = errors.New("missing required service")
)

// Result is the outcome of one execution
type Result struct {
	Success bool
	Message string
	Data    map[string]any
}

// Action is a validated, ready-to-run action instance
//
// Execute starts the action and returns; done is called exactly once, possibly
// from a later frame through the scheduler. The returned error is reserved for
// invariant violations (a required service is absent); routine failures are
// reported through done with Success false
type Action interface {
	Type() string
	Params() Params
	Execute(ctx *Context, done func(Result)) error
}

// Definition registers an action type
type Definition struct {
	Type   string
	Params []Param
	Build  func(p Params) (Action, error)
}

// Registry maps type names to definitions
type Registry struct {
	defs map[string]Definition
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]Definition)}
}

// NewDefaultRegistry creates a registry holding the built-in action types
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, def := range builtins() {
		if err := r.Register(def); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds a definition; type names are case-insensitive and unique
func (r *Registry) Register(def Definition) error {
	typ := strings.ToLower(strings.TrimSpace(def.Type))
	if typ == "" || def.Build == nil {
		return fmt.Errorf("register %q: incomplete definition", def.Type)
	}
	if _, exists := r.defs[typ]; exists {
		return fmt.Errorf("register %q: already registered", typ)
	}
	def.Type = typ
	r.defs[typ] = def
	return nil
}

// Create validates raw parameters and builds an action
func (r *Registry) Create(typ string, raw map[string]any) (Action, error) {
	key := strings.ToLower(strings.TrimSpace(typ))
	def, ok := r.defs[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
	params, err := validate(key, def.Params, raw)
	if err != nil {
		return nil, err
	}
	return def.Build(params)
}

// Types returns the registered type names in sorted order
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.defs))
	for typ := range r.defs {
		out = append(out, typ)
	}
	sort.Strings(out)
	return out
}

// Schema returns the parameter declarations of typ
func (r *Registry) Schema(typ string) ([]Param, bool) {
	def, ok := r.defs[strings.ToLower(typ)]
	return def.Params, ok
}

// Scheduler runs continuations on the frame thread
type Scheduler interface {
	After(d time.Duration, fn func()) engine.TaskHandle
	Post(fn func())
}

// Emitter publishes game events
type Emitter interface {
	Emit(t event.EventType, payload any)
}

// TargetSink accepts targets spawned outside the model flow
type TargetSink interface {
	AddTransient(t targeting.Target)
}

// Message is one communication panel entry
type Message struct {
	Title    string
	Text     string
	Avatar   string
	Duration time.Duration
}

// Comm shows NPC messages; typed is called once the text is fully revealed
type Comm interface {
	Show(msg Message, typed func())
}

// Services are the collaborators actions may use
// Each action checks for the services it needs at execution
type Services struct {
	Ships     world.ShipRegistry
	Targets   TargetSink
	Comm      Comm
	Audio     world.AudioSink
	Rewards   *RewardClient
	Inventory Inventory
	Scheduler Scheduler
	Events    Emitter
	Logger    *log.Logger

	// RandIntN picks spawn counts; nil uses math/rand
	RandIntN func(n int) int
}

// Context describes the waypoint an action runs for
// Actions hold ids only; anything they need is looked up when they run
type Context struct {
	WaypointID string
	Sector     string
	Position   world.Vec3
	Services   *Services
}

func (c *Context) logger() *log.Logger {
	if c.Services != nil && c.Services.Logger != nil {
		return c.Services.Logger
	}
	return log.Default()
}

func missing(typ, service string) error {
	return fmt.Errorf("%s: %w: %s", typ, ErrMissingService, service)
}

func builtins() []Definition {
	return []Definition{
		spawnShipsDefinition(),
		showMessageDefinition(),
		playCommDefinition(),
		giveRewardDefinition(),
		giveItemDefinition(),
	}
}
