package event

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestSubscribeAndPublish(t *testing.T) {
	bus := NewBus()

	var got []string
	bus.Subscribe(TypeTaskStarted, func(e Event) {
		got = append(got, e.(TaskStartedEvent).TaskID)
	})

	bus.Publish(NewTaskStartedEvent("task-1", 0))
	bus.Publish(NewTaskSubmittedEvent("task-2")) // different type, not delivered

	if len(got) != 1 || got[0] != "task-1" {
		t.Errorf("handler received %v, want [task-1]", got)
	}
}

func TestSubscribeAllReceivesEverything(t *testing.T) {
	bus := NewBus()

	var types []string
	bus.SubscribeAll(func(e Event) {
		types = append(types, e.EventType())
	})

	bus.Publish(NewTaskSubmittedEvent("task-1"))
	bus.Publish(NewTaskStartedEvent("task-1", 0))
	bus.Publish(NewTaskCompletedEvent("task-1", 0, time.Millisecond, nil))
	bus.Publish(NewPoolDrainedEvent(1))

	want := []string{TypeTaskSubmitted, TypeTaskStarted, TypeTaskCompleted, TypePoolDrained}
	if len(types) != len(want) {
		t.Fatalf("wildcard handler received %d events, want %d", len(types), len(want))
	}
	for i, w := range want {
		if types[i] != w {
			t.Errorf("event[%d] = %s, want %s", i, types[i], w)
		}
	}
}

func TestSpecificHandlersBeforeWildcard(t *testing.T) {
	bus := NewBus()

	var order []string
	bus.SubscribeAll(func(Event) { order = append(order, "wildcard") })
	bus.Subscribe(TypePoolDrained, func(Event) { order = append(order, "specific") })

	bus.Publish(NewPoolDrainedEvent(0))

	if len(order) != 2 || order[0] != "specific" || order[1] != "wildcard" {
		t.Errorf("dispatch order = %v, want [specific wildcard]", order)
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus()

	calls := 0
	id := bus.Subscribe(TypeTaskCompleted, func(Event) { calls++ })

	bus.Publish(NewTaskCompletedEvent("task-1", 0, 0, nil))
	if !bus.Unsubscribe(id) {
		t.Fatal("Unsubscribe should find the subscription")
	}
	bus.Publish(NewTaskCompletedEvent("task-2", 0, 0, nil))

	if calls != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}
	if bus.Unsubscribe(id) {
		t.Error("second Unsubscribe should return false")
	}
}

func TestPanickingHandlerDoesNotBlockOthers(t *testing.T) {
	bus := NewBus()

	called := false
	bus.Subscribe(TypeTaskStarted, func(Event) { panic("boom") })
	bus.Subscribe(TypeTaskStarted, func(Event) { called = true })

	bus.Publish(NewTaskStartedEvent("task-1", 0))

	if !called {
		t.Error("second handler not called after first panicked")
	}
}

func TestTaskCompletedSuccess(t *testing.T) {
	ok := NewTaskCompletedEvent("task-1", 0, time.Millisecond, nil)
	if !ok.Success() {
		t.Error("event with nil error should report success")
	}
	failed := NewTaskCompletedEvent("task-2", 0, time.Millisecond, errors.New("boom"))
	if failed.Success() {
		t.Error("event with error should not report success")
	}
}

func TestConcurrentPublishSubscribe(t *testing.T) {
	bus := NewBus()

	var count sync.Map
	bus.SubscribeAll(func(e Event) {
		count.Store(e.Timestamp(), struct{}{})
	})

	var wg sync.WaitGroup
	wg.Add(8)
	for range 4 {
		go func() {
			defer wg.Done()
			for range 50 {
				bus.Publish(NewTaskSubmittedEvent("task"))
			}
		}()
	}
	for range 4 {
		go func() {
			defer wg.Done()
			for range 50 {
				id := bus.Subscribe(TypeTaskStarted, func(Event) {})
				bus.Unsubscribe(id)
			}
		}()
	}
	wg.Wait()

	if bus.SubscriptionCount() != 1 {
		t.Errorf("SubscriptionCount = %d, want 1", bus.SubscriptionCount())
	}
}

func TestClear(t *testing.T) {
	bus := NewBus()
	bus.Subscribe(TypeTaskStarted, func(Event) {})
	bus.SubscribeAll(func(Event) {})

	bus.Clear()
	if bus.SubscriptionCount() != 0 {
		t.Errorf("SubscriptionCount after Clear = %d, want 0", bus.SubscriptionCount())
	}
}
