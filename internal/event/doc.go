// Package event provides a pub-sub event bus for decoupled observation of
// the taskcore runtime.
//
// The worker pool publishes lifecycle events as tasks move through it;
// observers (the CLI, loggers, tests) subscribe without the pool knowing
// who is listening.
//
// # Main Types
//
//   - [Event]: Interface that all events must implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous pub-sub event dispatcher with thread-safe operations
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Event Categories
//
// Task lifecycle:
//   - [TaskSubmittedEvent]: a task was accepted into the queue
//   - [TaskStartedEvent]: a worker dequeued the task and began executing
//   - [TaskCompletedEvent]: the task finished, successfully or not
//
// Pool lifecycle:
//   - [PoolDrainedEvent]: shutdown finished; all workers have exited
//
// # Thread Safety
//
// The [Bus] type is safe for concurrent use. Handlers are called
// synchronously on the publishing goroutine and are protected against
// panics: a panicking handler cannot prevent delivery to the others.
//
// # Basic Usage
//
//	bus := event.NewBus()
//
//	bus.Subscribe(event.TypeTaskCompleted, func(e event.Event) {
//	    done := e.(event.TaskCompletedEvent)
//	    log.Printf("task %s finished in %s", done.TaskID, done.Duration)
//	})
//
//	// Subscribe to all events (useful for logging)
//	bus.SubscribeAll(func(e event.Event) {
//	    log.Printf("event: %s at %v", e.EventType(), e.Timestamp())
//	})
//
// Event types follow the pattern "category.action": task.submitted,
// task.started, task.completed, pool.drained.
package event
