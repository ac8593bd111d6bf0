package event

import (
	"sync"

	"github.com/lixenwraith/planetz/parameter"
)

// EventQueue is a FIFO of deferred events
// Thread-Safety:
//   - Push: safe from any goroutine (action completions run off the frame thread)
//   - Consume: single consumer (frame loop)
type EventQueue struct {
	mu     sync.Mutex
	events []GameEvent
}

// NewEventQueue creates an empty queue
func NewEventQueue() *EventQueue {
	return &EventQueue{
		events: make([]GameEvent, 0, parameter.EventQueueSize),
	}
}

// Push appends an event
func (q *EventQueue) Push(ev GameEvent) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
}

// Consume returns all pending events in FIFO order and empties the queue
func (q *EventQueue) Consume() []GameEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return nil
	}
	out := q.events
	q.events = make([]GameEvent, 0, cap(out))
	return out
}

// Len returns the pending event count
func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
