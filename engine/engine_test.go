package engine

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/planetz/status"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestThrottle(t *testing.T) {
	th := NewThrottle(100 * time.Millisecond)
	if !th.Ready(epoch) {
		t.Fatal("first call must fire")
	}
	if th.Ready(epoch.Add(99 * time.Millisecond)) {
		t.Error("fired before interval")
	}
	if !th.Ready(epoch.Add(100 * time.Millisecond)) {
		t.Error("did not fire at interval")
	}
	th.Reset()
	if !th.Ready(epoch.Add(101 * time.Millisecond)) {
		t.Error("reset throttle must fire")
	}
}

func TestPipelineOrderAndGuard(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf, "", 0)
	metrics := status.NewRegistry()
	p := NewPipeline(logger, metrics)

	var order []string
	add := func(name string, prio int, fn func() error) {
		p.AddSystem(SystemFunc{SystemName: name, SystemPriority: prio, Fn: func(Frame) error {
			order = append(order, name)
			return fn()
		}})
	}
	add("presenter", 500, func() error { return nil })
	add("discovery", 100, func() error { panic("boom") })
	add("registry", 200, func() error { return errors.New("bad entity") })
	add("cursor", 300, func() error { return nil })

	frame := p.Run(epoch)
	if frame.Number != 1 {
		t.Errorf("expected frame 1, got %d", frame.Number)
	}

	want := []string{"discovery", "registry", "cursor", "presenter"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected order %v", order)
	}
	if !strings.Contains(buf.String(), "discovery panicked") {
		t.Errorf("panic not logged: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "bad entity") {
		t.Errorf("error not logged: %s", buf.String())
	}
	if metrics.Ints.Get("system.discovery.errors").Load() != 1 {
		t.Errorf("panic not counted")
	}

	second := p.Run(epoch.Add(16 * time.Millisecond))
	if second.Delta != 16*time.Millisecond {
		t.Errorf("unexpected delta %v", second.Delta)
	}
}

func TestSchedulerAfterAndCancel(t *testing.T) {
	clock := NewMockTimeProvider(epoch)
	s := NewScheduler(clock, nil)

	var ran []int
	s.After(50*time.Millisecond, func() { ran = append(ran, 2) })
	s.After(10*time.Millisecond, func() { ran = append(ran, 1) })
	h := s.After(20*time.Millisecond, func() { ran = append(ran, 99) })

	if !s.Cancel(h) {
		t.Fatal("cancel of pending task failed")
	}
	if s.Cancel(h) {
		t.Error("double cancel reported success")
	}

	if n := s.Run(epoch.Add(5 * time.Millisecond)); n != 0 {
		t.Errorf("nothing should be due, ran %d", n)
	}
	s.Run(epoch.Add(60 * time.Millisecond))
	if len(ran) != 2 || ran[0] != 1 || ran[1] != 2 {
		t.Errorf("unexpected run order %v", ran)
	}
}

func TestSchedulerPostFromGoroutine(t *testing.T) {
	s := NewScheduler(NewMockTimeProvider(epoch), nil)
	done := make(chan struct{})
	got := 0
	go func() {
		s.Post(func() { got++ })
		close(done)
	}()
	<-done
	if s.Pending() != 1 {
		t.Fatalf("expected 1 pending, got %d", s.Pending())
	}
	s.Run(epoch)
	if got != 1 {
		t.Errorf("posted continuation did not run")
	}
}

func TestSchedulerRecoversPanics(t *testing.T) {
	var buf bytes.Buffer
	s := NewScheduler(NewMockTimeProvider(epoch), log.New(&buf, "", 0))
	after := false
	s.Post(func() { panic("typewriter") })
	s.Post(func() { after = true })
	s.Run(epoch)
	if !after {
		t.Error("panic stopped subsequent continuations")
	}
	if !strings.Contains(buf.String(), "typewriter") {
		t.Error("panic not logged")
	}
}
