package coordination

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kevingbwu/taskcore/internal/event"
	"github.com/kevingbwu/taskcore/internal/testutil"
)

func TestNewHubValidation(t *testing.T) {
	if _, err := NewHub(Config{Workers: 0}); err == nil {
		t.Error("NewHub with zero workers should fail")
	}
	if _, err := NewHub(Config{Workers: -1}); err == nil {
		t.Error("NewHub with negative workers should fail")
	}
	hub, err := NewHub(Config{Workers: 2})
	if err != nil {
		t.Fatalf("NewHub failed: %v", err)
	}
	if hub.Bus() == nil {
		t.Error("hub should create a default bus")
	}
}

func TestHubLifecycle(t *testing.T) {
	hub, err := NewHub(Config{Workers: 2})
	if err != nil {
		t.Fatalf("NewHub failed: %v", err)
	}

	if hub.Running() {
		t.Error("hub should not be running before Start")
	}
	if err := hub.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !hub.Running() {
		t.Error("hub should be running after Start")
	}
	if err := hub.Start(); err == nil {
		t.Error("second Start should fail")
	}

	if err := hub.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if hub.Running() {
		t.Error("hub should not be running after Stop")
	}
	if err := hub.Stop(); err != nil {
		t.Errorf("Stop should be idempotent, got %v", err)
	}
}

func TestHubSubmit(t *testing.T) {
	hub, err := NewHub(Config{Workers: 2}, WithQueueCapacity(0))
	if err != nil {
		t.Fatalf("NewHub failed: %v", err)
	}

	if _, err := hub.Submit(func() error { return nil }); err == nil {
		t.Error("Submit before Start should fail")
	}

	if err := hub.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	aw, err := hub.Submit(func() error { return nil })
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if _, err := aw.Wait(); err != nil {
		t.Errorf("Wait failed: %v", err)
	}

	if err := hub.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if _, err := hub.Submit(func() error { return nil }); err == nil {
		t.Error("Submit after Stop should fail")
	}
}

func TestHubStopDrainsAcceptedTasks(t *testing.T) {
	hub, err := NewHub(Config{Workers: 1}, WithQueueCapacity(0))
	if err != nil {
		t.Fatalf("NewHub failed: %v", err)
	}
	if err := hub.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	var mu sync.Mutex
	executed := 0
	for range 5 {
		if _, err := hub.Submit(func() error {
			mu.Lock()
			executed++
			mu.Unlock()
			return nil
		}); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
	}
	testutil.WithinDeadline(t, 5*time.Second, func() {
		if err := hub.Stop(); err != nil {
			t.Errorf("Stop failed: %v", err)
		}
	})

	mu.Lock()
	defer mu.Unlock()
	if executed != 5 {
		t.Errorf("executed = %d, want 5", executed)
	}
}

func TestHubRestart(t *testing.T) {
	hub, err := NewHub(Config{Workers: 1})
	if err != nil {
		t.Fatalf("NewHub failed: %v", err)
	}

	for i := range 2 {
		if err := hub.Start(); err != nil {
			t.Fatalf("Start %d failed: %v", i, err)
		}
		aw, err := hub.Submit(func() error { return nil })
		if err != nil {
			t.Fatalf("Submit on generation %d failed: %v", i, err)
		}
		if _, err := aw.Wait(); err != nil {
			t.Errorf("Wait on generation %d failed: %v", i, err)
		}
		if err := hub.Stop(); err != nil {
			t.Fatalf("Stop %d failed: %v", i, err)
		}
	}
}

func TestHubSharedBus(t *testing.T) {
	bus := event.NewBus()
	hub, err := NewHub(Config{Workers: 1}, WithBus(bus))
	if err != nil {
		t.Fatalf("NewHub failed: %v", err)
	}
	if hub.Bus() != bus {
		t.Fatal("hub should use the provided bus")
	}

	var mu sync.Mutex
	var completed []string
	bus.Subscribe(event.TypeTaskCompleted, func(e event.Event) {
		mu.Lock()
		completed = append(completed, e.(event.TaskCompletedEvent).TaskID)
		mu.Unlock()
	})

	if err := hub.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	aw, err := hub.Submit(func() error { return errors.New("boom") })
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if _, err := aw.Wait(); err == nil {
		t.Error("task error should surface through the awaiter")
	}
	if err := hub.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(completed) != 1 {
		t.Errorf("observed %d completion events, want 1", len(completed))
	}
}

func TestHubStats(t *testing.T) {
	hub, err := NewHub(Config{Workers: 2})
	if err != nil {
		t.Fatalf("NewHub failed: %v", err)
	}

	if s := hub.Stats(); s.Submitted != 0 || s.Workers != 0 {
		t.Errorf("stopped hub Stats = %+v, want zero value", s)
	}

	if err := hub.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	aw, err := hub.Submit(func() error { return nil })
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if _, err := aw.Wait(); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if err := hub.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	// Stats report zero again once the pool is torn down.
	if s := hub.Stats(); s.Workers != 0 {
		t.Errorf("Stats after Stop = %+v, want zero value", s)
	}
}
