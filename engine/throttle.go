package engine

import "time"

// Throttle gates work to at most once per interval
// Zero value with a zero interval always fires
type Throttle struct {
	interval time.Duration
	last     time.Time
	fired    bool
}

// NewThrottle creates a throttle that fires immediately, then every interval
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{interval: interval}
}

// Ready reports whether interval has elapsed since the last fire and, if so, records now
func (t *Throttle) Ready(now time.Time) bool {
	if t.fired && now.Sub(t.last) < t.interval {
		return false
	}
	t.Mark(now)
	return true
}

// Mark records a fire at now without checking the interval
func (t *Throttle) Mark(now time.Time) {
	t.last = now
	t.fired = true
}

// Reset makes the next Ready fire unconditionally
func (t *Throttle) Reset() {
	t.fired = false
}

// Interval returns the configured interval
func (t *Throttle) Interval() time.Duration {
	return t.interval
}
