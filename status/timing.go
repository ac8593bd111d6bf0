package status

import (
	"sync"
	"time"

	"github.com/lixenwraith/planetz/parameter"
)

// Timing keeps a rolling window of durations
type Timing struct {
	mu      sync.Mutex
	samples []time.Duration
	next    int
	filled  bool
	max     time.Duration
	count   uint64
}

// Observe records one sample
func (t *Timing) Observe(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.samples == nil {
		t.samples = make([]time.Duration, parameter.MetricWindow)
	}
	t.samples[t.next] = d
	t.next = (t.next + 1) % len(t.samples)
	if t.next == 0 {
		t.filled = true
	}
	if d > t.max {
		t.max = d
	}
	t.count++
}

// Mean returns the rolling mean, zero before the first sample
func (t *Timing) Mean() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := t.next
	if t.filled {
		n = len(t.samples)
	}
	if n == 0 {
		return 0
	}
	var sum time.Duration
	for _, s := range t.samples[:n] {
		sum += s
	}
	return sum / time.Duration(n)
}

// Max returns the largest sample ever observed
func (t *Timing) Max() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.max
}

// Count returns the total number of samples
func (t *Timing) Count() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}
