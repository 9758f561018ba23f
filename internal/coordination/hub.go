package coordination

import (
	"errors"
	"sync"

	"github.com/kevingbwu/taskcore/internal/completion"
	"github.com/kevingbwu/taskcore/internal/event"
	"github.com/kevingbwu/taskcore/internal/logging"
	"github.com/kevingbwu/taskcore/internal/pool"
)

// Config holds required dependencies for creating a Hub.
type Config struct {
	// Workers is the number of pool workers. Must be positive.
	Workers int
}

// Hub wires the runtime components together for a single run.
// It owns the lifecycle of the worker pool and the event log subscriber.
type Hub struct {
	mu      sync.RWMutex
	started bool

	workers       int
	queueCapacity int
	log           *logging.Logger
	bus           *event.Bus

	// Rebuilt on each Start; pools are single-use.
	pool *pool.Pool

	// Log subscriber IDs, removed on Stop.
	subIDs []uint64
}

// NewHub creates a Hub from the given configuration.
func NewHub(cfg Config, opts ...Option) (*Hub, error) {
	if cfg.Workers <= 0 {
		return nil, errors.New("coordination: Workers must be positive")
	}

	hc := &hubConfig{queueCapacity: -1}
	for _, opt := range opts {
		opt(hc)
	}

	log := hc.log
	if log == nil {
		log = logging.NopLogger()
	}
	bus := hc.bus
	if bus == nil {
		bus = event.NewBus()
	}

	return &Hub{
		workers:       cfg.Workers,
		queueCapacity: hc.queueCapacity,
		log:           log.WithPool("hub"),
		bus:           bus,
	}, nil
}

// Bus returns the event bus shared by the hub's components.
func (h *Hub) Bus() *event.Bus { return h.bus }

// Pool returns the current worker pool, or nil when the hub is stopped.
func (h *Hub) Pool() *pool.Pool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.pool
}

// Start creates the worker pool and attaches the event log subscriber.
// Returns an error if the hub is already started. A stopped hub may be
// started again; each start builds a fresh pool.
func (h *Hub) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.started {
		return errors.New("coordination: hub already started")
	}

	h.subIDs = append(h.subIDs,
		h.bus.Subscribe(event.TypeTaskCompleted, h.logCompletion),
		h.bus.Subscribe(event.TypePoolDrained, h.logDrained),
	)

	poolOpts := []pool.Option{
		pool.WithLogger(h.log),
		pool.WithBus(h.bus),
	}
	if h.queueCapacity >= 0 {
		poolOpts = append(poolOpts, pool.WithQueueCapacity(h.queueCapacity))
	}
	h.pool = pool.New(h.workers, poolOpts...)

	h.started = true
	h.log.Info("hub started", "workers", h.workers)
	return nil
}

// Stop drains the pool and detaches the log subscriber. It is idempotent;
// all accepted tasks finish before Stop returns.
func (h *Hub) Stop() error {
	h.mu.Lock()
	if !h.started {
		h.mu.Unlock()
		return nil
	}
	p := h.pool
	subIDs := h.subIDs
	h.pool = nil
	h.subIDs = nil
	h.started = false
	h.mu.Unlock()

	// Drain outside the lock so Submit and Running stay responsive.
	p.ShutdownAndJoin()
	for _, id := range subIDs {
		h.bus.Unsubscribe(id)
	}
	h.log.Info("hub stopped")
	return nil
}

// Submit queues a task on the hub's pool.
// Returns an error if the hub is not started.
func (h *Hub) Submit(task pool.Task) (*completion.Awaiter[struct{}], error) {
	h.mu.RLock()
	p := h.pool
	h.mu.RUnlock()

	if p == nil {
		return nil, errors.New("coordination: hub not started")
	}
	return p.Submit(task)
}

// Stats returns the current pool statistics.
// A stopped hub reports the zero Stats value.
func (h *Hub) Stats() pool.Stats {
	h.mu.RLock()
	p := h.pool
	h.mu.RUnlock()

	if p == nil {
		return pool.Stats{}
	}
	return p.Stats()
}

// Running returns whether the hub is currently started.
func (h *Hub) Running() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.started
}

func (h *Hub) logCompletion(e event.Event) {
	ev, ok := e.(event.TaskCompletedEvent)
	if !ok {
		return
	}
	if ev.Success() {
		h.log.Debug("task completed", "task", ev.TaskID, "worker", ev.Worker, "duration", ev.Duration)
		return
	}
	h.log.Warn("task failed", "task", ev.TaskID, "worker", ev.Worker, "err", ev.Err)
}

func (h *Hub) logDrained(e event.Event) {
	if ev, ok := e.(event.PoolDrainedEvent); ok {
		h.log.Info("pool drained", "executed", ev.Executed)
	}
}
