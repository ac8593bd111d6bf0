package engine

import (
	"log"
	"runtime/debug"
	"sort"
	"sync"
	"time"
)

// TaskHandle identifies a scheduled continuation
type TaskHandle uint64

type scheduledTask struct {
	handle TaskHandle
	due    time.Time
	fn     func()
}

// Scheduler runs continuations on the frame thread
//
// After schedules at a deadline relative to the clock; Post hands work from
// other goroutines (network completions) back to the frame loop. Run executes
// everything due, in deadline order, then posted work in FIFO order
type Scheduler struct {
	clock interface{ Now() time.Time }

	mu      sync.Mutex
	next    TaskHandle
	pending []scheduledTask
	posted  []func()
	logger  *log.Logger
}

// NewScheduler creates a scheduler reading deadlines from clock
func NewScheduler(clock interface{ Now() time.Time }, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{clock: clock, logger: logger}
}

// After runs fn once d has elapsed
func (s *Scheduler) After(d time.Duration, fn func()) TaskHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	task := scheduledTask{handle: s.next, due: s.clock.Now().Add(d), fn: fn}

	idx := sort.Search(len(s.pending), func(i int) bool {
		return s.pending[i].due.After(task.due)
	})
	s.pending = append(s.pending, scheduledTask{})
	copy(s.pending[idx+1:], s.pending[idx:])
	s.pending[idx] = task
	return task.handle
}

// Cancel drops a scheduled continuation, returns false if it already ran
func (s *Scheduler) Cancel(h TaskHandle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.pending {
		if t.handle == h {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Post queues fn for the next Run, safe from any goroutine
func (s *Scheduler) Post(fn func()) {
	s.mu.Lock()
	s.posted = append(s.posted, fn)
	s.mu.Unlock()
}

// Pending returns the number of scheduled plus posted continuations
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending) + len(s.posted)
}

// Run executes continuations due at now
// Continuations scheduled while running with a zero delay wait for the next Run
func (s *Scheduler) Run(now time.Time) int {
	s.mu.Lock()
	cut := sort.Search(len(s.pending), func(i int) bool {
		return s.pending[i].due.After(now)
	})
	due := make([]scheduledTask, cut)
	copy(due, s.pending[:cut])
	s.pending = append(s.pending[:0], s.pending[cut:]...)
	posted := s.posted
	s.posted = nil
	s.mu.Unlock()

	for _, t := range due {
		s.invoke(t.fn)
	}
	for _, fn := range posted {
		s.invoke(fn)
	}
	return len(due) + len(posted)
}

func (s *Scheduler) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Printf("[engine] continuation panicked: %v\n%s", r, debug.Stack())
		}
	}()
	fn()
}
