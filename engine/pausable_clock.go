package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// PausableClock is session time that stops while paused
// Scheduled continuations, throttles and typewriter text all freeze with it
type PausableClock struct {
	mu   sync.RWMutex
	real func() time.Time

	pausedAt    time.Time
	pausedTotal time.Duration
	paused      atomic.Bool
}

// NewPausableClock creates a running clock over the wall clock
func NewPausableClock() *PausableClock {
	return NewPausableClockFrom(time.Now)
}

// NewPausableClockFrom creates a running clock over real, which tests replace
func NewPausableClockFrom(real func() time.Time) *PausableClock {
	return &PausableClock{real: real}
}

// Now returns session time
func (pc *PausableClock) Now() time.Time {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	if pc.paused.Load() {
		return pc.pausedAt.Add(-pc.pausedTotal)
	}
	return pc.real().Add(-pc.pausedTotal)
}

// Pause stops session time
func (pc *PausableClock) Pause() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if !pc.paused.Load() {
		pc.pausedAt = pc.real()
		pc.paused.Store(true)
	}
}

// Resume continues session time from where it stopped
func (pc *PausableClock) Resume() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.paused.Load() {
		pc.pausedTotal += pc.real().Sub(pc.pausedAt)
		pc.pausedAt = time.Time{}
		pc.paused.Store(false)
	}
}

// TogglePause flips the pause state and returns the new state
func (pc *PausableClock) TogglePause() bool {
	if pc.paused.Load() {
		pc.Resume()
		return false
	}
	pc.Pause()
	return true
}

// IsPaused returns current pause state
func (pc *PausableClock) IsPaused() bool {
	return pc.paused.Load()
}

// PausedFor returns the cumulative pause duration including a pause in progress
func (pc *PausableClock) PausedFor() time.Duration {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	total := pc.pausedTotal
	if pc.paused.Load() {
		total += pc.real().Sub(pc.pausedAt)
	}
	return total
}
