package targeting

import (
	"log"

	"github.com/lixenwraith/planetz/world"
)

// Direction of a cycle step
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Change describes a cursor transition; nil means no target
type Change struct {
	Previous *Target
	Current  *Target
	Manual   bool
}

// Cursor holds the current selection over a Registry
//
// Listeners run synchronously after every transition. A listener that calls
// back into Cycle or SelectByID is rejected: cycling never recurses from a
// presenter reaction
type Cursor struct {
	registry *Registry
	logger   *log.Logger

	index     int
	currentID string
	lastPos   world.Vec3

	manualSelection bool
	suppressed      bool

	listeners []func(Change)
	notifying bool
}

// NewCursor creates an empty cursor over r
func NewCursor(r *Registry, logger *log.Logger) *Cursor {
	if logger == nil {
		logger = log.Default()
	}
	return &Cursor{registry: r, logger: logger, index: -1}
}

// OnChange subscribes fn to cursor transitions
func (c *Cursor) OnChange(fn func(Change)) {
	c.listeners = append(c.listeners, fn)
}

// Current returns the selected target with fresh registry data
func (c *Cursor) Current() (Target, bool) {
	if c.currentID == "" {
		return Target{}, false
	}
	return c.registry.ByID(c.currentID)
}

// CurrentID returns the selected id or ""
func (c *Cursor) CurrentID() string {
	return c.currentID
}

// Index returns the position of the selection in the list, -1 when empty
func (c *Cursor) Index() int {
	return c.index
}

// Suppressed reports whether overlays stay hidden until a manual cycle
func (c *Cursor) Suppressed() bool {
	return c.suppressed
}

// ManualSelection reports whether the player explicitly chose the target
func (c *Cursor) ManualSelection() bool {
	return c.manualSelection
}

// Cycle advances the selection one step, wrapping at either end
// A manual cycle clears destruction suppression
func (c *Cursor) Cycle(dir Direction, manual bool) bool {
	if c.notifying {
		c.logger.Printf("[targeting] cycle rejected while notifying listeners")
		return false
	}
	// Pick up transients and freshly created waypoints before stepping
	if c.registry.dirty {
		c.registry.Refresh(RefreshOptions{})
	}
	if manual {
		c.suppressed = false
		c.setManual(true)
	}

	list := c.registry.List()
	if len(list) == 0 {
		c.clear(manual)
		return false
	}

	idx := indexOf(list, c.currentID)
	if idx < 0 {
		idx = c.index
	}
	var next int
	switch {
	case idx < 0 || idx >= len(list):
		if dir == Backward {
			next = len(list) - 1
		}
	case dir == Backward:
		next = (idx - 1 + len(list)) % len(list)
	default:
		next = (idx + 1) % len(list)
	}
	c.moveTo(list, next, manual)
	return true
}

// SelectByID explicitly selects id; it may be out of range but must be tracked
func (c *Cursor) SelectByID(id string, manual bool) bool {
	if c.notifying {
		c.logger.Printf("[targeting] select %s rejected while notifying listeners", id)
		return false
	}
	if _, ok := c.registry.ByID(id); !ok {
		c.registry.Refresh(RefreshOptions{ForceScan: true})
		if _, ok := c.registry.ByID(id); !ok {
			return false
		}
	}
	if manual {
		c.setManual(true)
	}
	list := c.registry.List()
	idx := indexOf(list, id)
	if idx >= 0 {
		c.moveTo(list, idx, manual)
		return true
	}
	prev := c.snapshot()
	c.currentID = id
	c.index = -1
	if t, ok := c.registry.ByID(id); ok {
		c.lastPos = t.Position
	}
	c.notify(prev, manual)
	return true
}

// OnTargetDestroyed drops id from the registry and, when it was the current
// target, moves to its successor with suppression engaged
func (c *Cursor) OnTargetDestroyed(id string) {
	if id != c.currentID {
		c.registry.Invalidate(id)
		return
	}

	prev := c.snapshot()
	pos := indexOf(c.registry.List(), id)
	c.registry.Invalidate(id)
	c.suppressed = true

	after := c.registry.List()
	if len(after) == 0 {
		c.currentID = ""
		c.index = -1
		c.notify(prev, false)
		return
	}
	if pos < 0 {
		pos = max(c.index, 0)
	}
	c.transition(prev, after, pos%len(after), false)
}

// Validate re-resolves the selection against the current list
// A vanished target is replaced by one at its last position, else by the
// entry now at its index
func (c *Cursor) Validate() {
	if c.currentID == "" || c.notifying {
		return
	}
	list := c.registry.List()
	if idx := indexOf(list, c.currentID); idx >= 0 {
		c.index = idx
		c.lastPos = list[idx].Position
		return
	}
	if t, ok := c.registry.ByID(c.currentID); ok && c.index < 0 {
		// Explicit out-of-range selection stays while still tracked
		c.lastPos = t.Position
		return
	}
	if len(list) == 0 {
		c.clear(false)
		return
	}
	for i, t := range list {
		if t.HasPosition && t.Position.ApproxEqual(c.lastPos) {
			c.moveTo(list, i, false)
			return
		}
	}
	idx := c.index
	if idx < 0 || idx >= len(list) {
		idx = 0
	}
	c.moveTo(list, idx, false)
}

// Clear drops the selection
func (c *Cursor) Clear() {
	c.clear(true)
}

func (c *Cursor) setManual(manual bool) {
	c.manualSelection = manual
	c.registry.SetManualNavigation(manual)
}

func (c *Cursor) clear(manual bool) {
	if c.currentID == "" {
		c.index = -1
		return
	}
	prev := c.snapshot()
	c.currentID = ""
	c.index = -1
	c.notify(prev, manual)
}

func (c *Cursor) moveTo(list []Target, idx int, manual bool) {
	c.transition(c.snapshot(), list, idx, manual)
}

func (c *Cursor) transition(prev *Target, list []Target, idx int, manual bool) {
	c.index = idx
	c.currentID = list[idx].ID
	c.lastPos = list[idx].Position
	if prev != nil && prev.ID == c.currentID && !manual {
		return
	}
	c.notify(prev, manual)
}

func (c *Cursor) snapshot() *Target {
	if c.currentID == "" {
		return nil
	}
	if t, ok := c.registry.ByID(c.currentID); ok {
		return &t
	}
	return &Target{ID: c.currentID}
}

func (c *Cursor) notify(prev *Target, manual bool) {
	ch := Change{Previous: prev, Manual: manual}
	if t, ok := c.Current(); ok {
		ch.Current = &t
	}
	c.notifying = true
	defer func() { c.notifying = false }()
	for _, fn := range c.listeners {
		fn(ch)
	}
}

func indexOf(ts []Target, id string) int {
	if id == "" {
		return -1
	}
	for i, t := range ts {
		if t.ID == id {
			return i
		}
	}
	return -1
}
