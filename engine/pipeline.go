package engine

import (
	"fmt"
	"log"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/planetz/parameter"
	"github.com/lixenwraith/planetz/status"
)

// Frame is the per-frame context handed to every system
type Frame struct {
	Number int64
	Now    time.Time
	Delta  time.Duration
}

// System is one stage of the per-frame pipeline
type System interface {
	Name() string

	// Priority orders systems within a frame, lower runs first
	Priority() int

	Update(frame Frame) error
}

// SystemFunc adapts a function to System
type SystemFunc struct {
	SystemName     string
	SystemPriority int
	Fn             func(Frame) error
}

func (s SystemFunc) Name() string             { return s.SystemName }
func (s SystemFunc) Priority() int            { return s.SystemPriority }
func (s SystemFunc) Update(frame Frame) error { return s.Fn(frame) }

type systemEntry struct {
	system System
	timing *status.Timing
	errors *atomic.Int64
}

// Pipeline runs registered systems in priority order every frame
// Each system runs behind its own guard: an error or panic is logged and
// the remaining systems still run
type Pipeline struct {
	systems []systemEntry
	logger  *log.Logger
	metrics *status.Registry
	frames  *atomic.Int64
	last    time.Time
	number  int64
}

// NewPipeline creates an empty pipeline
func NewPipeline(logger *log.Logger, metrics *status.Registry) *Pipeline {
	if logger == nil {
		logger = log.Default()
	}
	if metrics == nil {
		metrics = status.NewRegistry()
	}
	return &Pipeline{
		logger:  logger,
		metrics: metrics,
		frames:  metrics.Ints.Get("engine.frames"),
	}
}

// AddSystem registers a system, keeping priority order stable for equal priorities
func (p *Pipeline) AddSystem(s System) {
	entry := systemEntry{
		system: s,
		timing: p.metrics.Timings.Get("system." + s.Name()),
		errors: p.metrics.Ints.Get("system." + s.Name() + ".errors"),
	}

	pos := len(p.systems)
	for i, e := range p.systems {
		if s.Priority() < e.system.Priority() {
			pos = i
			break
		}
	}
	p.systems = append(p.systems, systemEntry{})
	copy(p.systems[pos+1:], p.systems[pos:])
	p.systems[pos] = entry
}

// Systems returns system names in execution order
func (p *Pipeline) Systems() []string {
	names := make([]string, len(p.systems))
	for i, e := range p.systems {
		names[i] = e.system.Name()
	}
	return names
}

// Run executes one frame at now
func (p *Pipeline) Run(now time.Time) Frame {
	p.number++
	frame := Frame{Number: p.number, Now: now}
	if !p.last.IsZero() {
		frame.Delta = now.Sub(p.last)
	}
	p.last = now
	p.frames.Add(1)

	for _, e := range p.systems {
		p.runGuarded(e, frame)
	}
	return frame
}

func (p *Pipeline) runGuarded(e systemEntry, frame Frame) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			e.errors.Add(1)
			p.logger.Printf("[engine] system %s panicked on frame %d: %v\n%s", e.system.Name(), frame.Number, r, debug.Stack())
		}
		elapsed := time.Since(start)
		e.timing.Observe(elapsed)
		if elapsed > parameter.SystemWarnThreshold {
			p.logger.Printf("[engine] system %s took %v on frame %d", e.system.Name(), elapsed, frame.Number)
		}
	}()

	if err := e.system.Update(frame); err != nil {
		e.errors.Add(1)
		p.logger.Printf("[engine] system %s: %v", e.system.Name(), fmt.Errorf("frame %d: %w", frame.Number, err))
	}
}
