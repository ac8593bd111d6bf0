package event

import (
	"sync"
	"testing"
)

func TestRouterEmitIsSynchronous(t *testing.T) {
	r := NewRouter()
	var got []string
	r.Subscribe(EventDiscovered, func(ev GameEvent) {
		got = append(got, ev.Payload.(DiscoveredPayload).ID)
	})

	r.Emit(EventDiscovered, DiscoveredPayload{ID: "A0_star"})

	if len(got) != 1 || got[0] != "A0_star" {
		t.Fatalf("expected synchronous delivery, got %v", got)
	}
}

func TestRouterPostDefersUntilDispatch(t *testing.T) {
	r := NewRouter()
	calls := 0
	r.Subscribe(EventWaypointCreated, func(GameEvent) { calls++ })

	r.Post(EventWaypointCreated, WaypointPayload{ID: "A0_waypoint_1"})
	if calls != 0 {
		t.Fatalf("posted event delivered before dispatch")
	}

	if n := r.DispatchAll(); n != 1 {
		t.Errorf("expected 1 dispatched event, got %d", n)
	}
	if calls != 1 {
		t.Errorf("expected 1 call after dispatch, got %d", calls)
	}
	if n := r.DispatchAll(); n != 0 {
		t.Errorf("expected empty second dispatch, got %d", n)
	}
}

func TestRouterHandlerOrder(t *testing.T) {
	r := NewRouter()
	var order []int
	for i := 0; i < 3; i++ {
		i := i
		r.Subscribe(EventShipDestroyed, func(GameEvent) { order = append(order, i) })
	}
	r.Emit(EventShipDestroyed, ShipDestroyedPayload{ID: "A0_enemy_1"})

	for i, v := range order {
		if v != i {
			t.Fatalf("handlers ran out of registration order: %v", order)
		}
	}
	if r.HandlerCount(EventShipDestroyed) != 3 {
		t.Errorf("expected 3 handlers, got %d", r.HandlerCount(EventShipDestroyed))
	}
}

func TestRouterPostDuringDispatchWaits(t *testing.T) {
	r := NewRouter()
	second := 0
	r.Subscribe(EventWaypointTriggered, func(GameEvent) {
		r.Post(EventWaypointCompleted, WaypointPayload{})
	})
	r.Subscribe(EventWaypointCompleted, func(GameEvent) { second++ })

	r.Post(EventWaypointTriggered, WaypointPayload{})
	r.DispatchAll()
	if second != 0 {
		t.Fatalf("event posted during dispatch ran in the same pass")
	}
	r.DispatchAll()
	if second != 1 {
		t.Errorf("expected follow-up event on next pass, got %d", second)
	}
}

func TestEventQueueConcurrentPush(t *testing.T) {
	q := NewEventQueue()
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				q.Push(GameEvent{Type: EventSoundRequest})
			}
		}()
	}
	wg.Wait()

	if got := len(q.Consume()); got != 400 {
		t.Errorf("expected 400 events, got %d", got)
	}
	if q.Len() != 0 {
		t.Errorf("queue not drained")
	}
}

func TestEventTypeNames(t *testing.T) {
	if EventDiscovered.String() != "Discovered" {
		t.Errorf("unexpected name %q", EventDiscovered.String())
	}
	et, ok := GetEventType("TargetChanged")
	if !ok || et != EventTargetChanged {
		t.Errorf("lookup failed: %v %v", et, ok)
	}
	if EventType(9999).String() != "EventType(9999)" {
		t.Errorf("unexpected fallback name")
	}
}
