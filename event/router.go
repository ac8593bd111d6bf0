package event

import "sync"

// Handler processes specific event types
type Handler interface {
	// HandleEvent processes a single event, called on the frame thread
	HandleEvent(ev GameEvent)

	// EventTypes returns the event types this handler processes
	EventTypes() []EventType
}

// HandlerFunc adapts a function to a single-type Handler
type HandlerFunc struct {
	Type EventType
	Fn   func(GameEvent)
}

func (h HandlerFunc) HandleEvent(ev GameEvent) { h.Fn(ev) }
func (h HandlerFunc) EventTypes() []EventType  { return []EventType{h.Type} }

// Router dispatches events to registered handlers
//
// Two delivery paths:
//   - Emit: synchronous, handlers run before Emit returns
//   - Post: deferred, handlers run on the next DispatchAll
//
// Handlers for one type run in registration order
type Router struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	queue    *EventQueue
	frame    int64
}

// NewRouter creates a router with its own deferred queue
func NewRouter() *Router {
	return &Router{
		handlers: make(map[EventType][]Handler),
		queue:    NewEventQueue(),
	}
}

// Register adds a handler for its declared event types
func (r *Router) Register(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range h.EventTypes() {
		r.handlers[t] = append(r.handlers[t], h)
	}
}

// Subscribe registers fn for a single event type
func (r *Router) Subscribe(t EventType, fn func(GameEvent)) {
	r.Register(HandlerFunc{Type: t, Fn: fn})
}

// SetFrame stamps subsequently emitted events with frame
func (r *Router) SetFrame(frame int64) {
	r.mu.Lock()
	r.frame = frame
	r.mu.Unlock()
}

// Emit dispatches synchronously
func (r *Router) Emit(t EventType, payload any) {
	r.dispatch(GameEvent{Type: t, Payload: payload, Frame: r.currentFrame()})
}

// Post defers dispatch to the next DispatchAll, safe from any goroutine
func (r *Router) Post(t EventType, payload any) {
	r.queue.Push(GameEvent{Type: t, Payload: payload, Frame: r.currentFrame()})
}

// DispatchAll consumes and routes every deferred event in FIFO order
// Events posted by handlers during dispatch wait for the next call
func (r *Router) DispatchAll() int {
	events := r.queue.Consume()
	for _, ev := range events {
		r.dispatch(ev)
	}
	return len(events)
}

// HandlerCount returns the number of handlers registered for t
func (r *Router) HandlerCount(t EventType) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.handlers[t])
}

func (r *Router) currentFrame() int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.frame
}

func (r *Router) dispatch(ev GameEvent) {
	r.mu.RLock()
	handlers := make([]Handler, len(r.handlers[ev.Type]))
	copy(handlers, r.handlers[ev.Type])
	r.mu.RUnlock()

	for _, h := range handlers {
		h.HandleEvent(ev)
	}
}
