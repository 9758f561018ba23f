package pool

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/kevingbwu/taskcore/internal/atomicflag"
	"github.com/kevingbwu/taskcore/internal/errors"
	"github.com/kevingbwu/taskcore/internal/event"
	"github.com/kevingbwu/taskcore/internal/logging"
	"github.com/kevingbwu/taskcore/internal/taskqueue"
)

// Task is an owned, invokable unit of work with no typed return value.
// It is executed exactly once by whichever worker dequeues it.
type Task func() error

// job pairs a task with the settle function that routes its outcome into
// the associated completion channel. Ownership moves from the queue slot
// to the executing worker's stack frame.
type job struct {
	id     string
	run    func() error
	settle func(err error)
}

// Pool owns N worker loops draining a shared task queue.
// Create one with [New]; all methods are safe for concurrent use.
type Pool struct {
	queue   *taskqueue.Queue[job]
	wg      sync.WaitGroup
	log     *logging.Logger
	bus     *event.Bus
	workers int

	// closed publishes "shutdown has begun" to submitters; the queue's
	// own closed state remains authoritative for the submit/close race.
	closed       atomicflag.Flag
	shutdownOnce sync.Once
	drainedOnce  sync.Once

	// Observability counters.
	seq       atomic.Int64
	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	panicked  atomic.Int64
	inFlight  atomic.Int64
}

// Stats provides a point-in-time snapshot of pool activity.
type Stats struct {
	Submitted  int64 // total tasks accepted
	Completed  int64 // tasks finished (success + failure)
	Failed     int64 // tasks that returned an error or panicked
	Panicked   int64 // subset of Failed that panicked
	InFlight   int64 // tasks currently executing
	QueueDepth int   // tasks waiting in the queue
	Workers    int   // worker count (fixed at creation)
}

// Option configures a [Pool].
type Option func(*config)

type config struct {
	queueCapacity int
	log           *logging.Logger
	bus           *event.Bus
}

// WithQueueCapacity sets the task queue bound. 0 means unbounded.
// Default is workers * 2. Panics if n is negative.
func WithQueueCapacity(n int) Option {
	if n < 0 {
		panic("pool: WithQueueCapacity requires n >= 0")
	}
	return func(c *config) { c.queueCapacity = n }
}

// WithLogger sets the logger used by the pool and its workers.
func WithLogger(l *logging.Logger) Option {
	return func(c *config) { c.log = l }
}

// WithBus sets an event bus on which the pool publishes task and pool
// lifecycle events.
func WithBus(b *event.Bus) Option {
	return func(c *config) { c.bus = b }
}

// New creates a pool with n worker goroutines. Workers start immediately
// and process tasks until [Pool.ShutdownAndJoin]. Panics if n <= 0.
func New(n int, opts ...Option) *Pool {
	if n <= 0 {
		panic("pool: New requires n > 0")
	}

	cfg := config{queueCapacity: -1, log: logging.NopLogger()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.queueCapacity < 0 {
		cfg.queueCapacity = n * 2
	}

	p := &Pool{
		queue:   taskqueue.New[job](cfg.queueCapacity),
		log:     cfg.log,
		bus:     cfg.bus,
		workers: n,
	}

	p.wg.Add(n)
	for i := range n {
		go p.worker(i)
	}
	p.log.Debug("pool started", "workers", n, "queue_capacity", cfg.queueCapacity)
	return p
}

// worker is one consumer loop: dequeue, execute, settle, repeat, until
// the queue reports closed-and-drained.
func (p *Pool) worker(id int) {
	defer p.wg.Done()
	log := p.log.WithWorker(id)

	for {
		j, err := p.queue.Dequeue()
		if err != nil {
			// Queue closed and drained.
			log.Debug("worker exiting")
			return
		}
		p.execute(id, j)
	}
}

// execute runs one job with panic containment and routes the outcome into
// the job's completion channel. A task failure never terminates the
// worker loop.
func (p *Pool) execute(workerID int, j job) {
	p.inFlight.Add(1)
	start := time.Now()
	p.publish(event.NewTaskStartedEvent(j.id, workerID))

	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				p.panicked.Add(1)
				err = errors.NewPanicError(r)
			}
		}()
		err = j.run()
	}()

	if err != nil {
		err = errors.NewTaskError(j.id, err).WithWorker(workerID)
	}
	j.settle(err)

	elapsed := time.Since(start)
	p.inFlight.Add(-1)
	p.completed.Add(1)
	if err != nil {
		p.failed.Add(1)
		p.log.WithWorker(workerID).WithTask(j.id).Warn("task failed",
			"err", err, "duration", elapsed)
	} else {
		p.log.WithWorker(workerID).WithTask(j.id).Debug("task completed",
			"duration", elapsed)
	}
	p.publish(event.NewTaskCompletedEvent(j.id, workerID, elapsed, err))
}

// publish sends an event if the pool was constructed with a bus.
func (p *Pool) publish(e event.Event) {
	if p.bus != nil {
		p.bus.Publish(e)
	}
}

// Stats returns a point-in-time snapshot of pool activity.
// Safe to call concurrently.
func (p *Pool) Stats() Stats {
	return Stats{
		Submitted:  p.submitted.Load(),
		Completed:  p.completed.Load(),
		Failed:     p.failed.Load(),
		Panicked:   p.panicked.Load(),
		InFlight:   p.inFlight.Load(),
		QueueDepth: p.queue.Len(),
		Workers:    p.workers,
	}
}

// Workers returns the fixed worker count.
func (p *Pool) Workers() int {
	return p.workers
}

// ShutdownAndJoin closes the queue, drains every already-accepted task,
// and waits for all worker loops to terminate. Blocked producers and any
// submission racing with shutdown fail with taskqueue.ErrClosed. Safe to
// call multiple times and from multiple goroutines; all callers return
// once the pool is drained.
func (p *Pool) ShutdownAndJoin() {
	p.shutdownOnce.Do(func() {
		p.closed.Publish()
		p.log.Info("pool shutting down", "pending", p.queue.Len())
		p.queue.Close()
	})
	p.wg.Wait()
	p.drainedOnce.Do(func() {
		p.log.Info("pool drained", "executed", p.completed.Load())
		p.publish(event.NewPoolDrainedEvent(p.completed.Load()))
	})
}
