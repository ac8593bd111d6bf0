package universe

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/lixenwraith/planetz/parameter"
	"github.com/lixenwraith/planetz/world"
)

// Fleet is the in-memory ShipRegistry
// Destroyed callbacks run synchronously on the caller's goroutine, outside the lock
type Fleet struct {
	mu          sync.RWMutex
	ships       map[string]*world.Ship
	subscribers []func(string)
	logger      *log.Logger
}

// NewFleet creates an empty fleet
func NewFleet(logger *log.Logger) *Fleet {
	if logger == nil {
		logger = log.Default()
	}
	return &Fleet{
		ships:  make(map[string]*world.Ship),
		logger: logger,
	}
}

// Ships returns live ships ordered by id
func (f *Fleet) Ships() []world.Ship {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]world.Ship, 0, len(f.ships))
	for _, s := range f.ships {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns a ship snapshot by id
func (f *Fleet) Get(id string) (world.Ship, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	s, ok := f.ships[id]
	if !ok {
		return world.Ship{}, false
	}
	return *s, true
}

// Spawn registers a ship; ids must be unique and hull positive
func (f *Fleet) Spawn(ship world.Ship) error {
	if ship.ID == "" {
		return fmt.Errorf("spawn: empty ship id")
	}
	if ship.Hull <= parameter.MinLiveHull {
		return fmt.Errorf("spawn %s: hull %.3f is not alive", ship.ID, ship.Hull)
	}
	if !world.Finite(ship.Position) {
		return fmt.Errorf("spawn %s: non-finite position", ship.ID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.ships[ship.ID]; exists {
		return fmt.Errorf("spawn %s: duplicate id", ship.ID)
	}
	if ship.Scene == "" {
		ship.Scene = world.ObjectID("ship-" + ship.ID)
	}
	f.ships[ship.ID] = &ship
	return nil
}

// OnDestroyed subscribes fn to ship destruction
func (f *Fleet) OnDestroyed(fn func(shipID string)) {
	f.mu.Lock()
	f.subscribers = append(f.subscribers, fn)
	f.mu.Unlock()
}

// Damage reduces hull and destroys the ship once it drops to the liveness threshold
// Returns the remaining hull
func (f *Fleet) Damage(id string, amount float64) (float64, bool) {
	f.mu.Lock()
	s, ok := f.ships[id]
	if !ok {
		f.mu.Unlock()
		return 0, false
	}
	s.Hull -= amount
	hull := s.Hull
	f.mu.Unlock()

	if hull <= parameter.MinLiveHull {
		f.Destroy(id)
		return 0, true
	}
	return hull, true
}

// Move updates a ship position
func (f *Fleet) Move(id string, pos world.Vec3) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.ships[id]
	if ok {
		s.Position = pos
	}
	return ok
}

// Destroy removes a ship and notifies subscribers
func (f *Fleet) Destroy(id string) bool {
	f.mu.Lock()
	_, ok := f.ships[id]
	delete(f.ships, id)
	subs := append(([]func(string))(nil), f.subscribers...)
	f.mu.Unlock()

	if !ok {
		return false
	}
	f.logger.Printf("[fleet] ship %s destroyed", id)
	for _, fn := range subs {
		fn(id)
	}
	return true
}

// Reset drops every ship without notifying, used on sector change
func (f *Fleet) Reset() {
	f.mu.Lock()
	f.ships = make(map[string]*world.Ship)
	f.mu.Unlock()
}
