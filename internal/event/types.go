package event

import "time"

// Event type identifiers published by the runtime.
const (
	TypeTaskSubmitted = "task.submitted"
	TypeTaskStarted   = "task.started"
	TypeTaskCompleted = "task.completed"
	TypePoolDrained   = "pool.drained"
)

// Event is the interface that all events must implement.
// It provides a common way to identify and timestamp events.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "task.started", "pool.drained")
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// TaskSubmittedEvent is emitted when a task is accepted into the queue.
type TaskSubmittedEvent struct {
	baseEvent
	TaskID string // Runtime-assigned task identifier
}

// NewTaskSubmittedEvent creates a TaskSubmittedEvent.
func NewTaskSubmittedEvent(taskID string) TaskSubmittedEvent {
	return TaskSubmittedEvent{
		baseEvent: newBaseEvent(TypeTaskSubmitted),
		TaskID:    taskID,
	}
}

// TaskStartedEvent is emitted when a worker dequeues a task and begins
// executing it.
type TaskStartedEvent struct {
	baseEvent
	TaskID string // Runtime-assigned task identifier
	Worker int    // ID of the executing worker
}

// NewTaskStartedEvent creates a TaskStartedEvent.
func NewTaskStartedEvent(taskID string, worker int) TaskStartedEvent {
	return TaskStartedEvent{
		baseEvent: newBaseEvent(TypeTaskStarted),
		TaskID:    taskID,
		Worker:    worker,
	}
}

// TaskCompletedEvent is emitted when a task's execution finishes and its
// outcome has been routed into the completion channel.
type TaskCompletedEvent struct {
	baseEvent
	TaskID   string        // Runtime-assigned task identifier
	Worker   int           // ID of the executing worker
	Duration time.Duration // Wall-clock execution time
	Err      error         // nil on success; the captured failure otherwise
}

// NewTaskCompletedEvent creates a TaskCompletedEvent.
func NewTaskCompletedEvent(taskID string, worker int, d time.Duration, err error) TaskCompletedEvent {
	return TaskCompletedEvent{
		baseEvent: newBaseEvent(TypeTaskCompleted),
		TaskID:    taskID,
		Worker:    worker,
		Duration:  d,
		Err:       err,
	}
}

// Success reports whether the task completed without error.
func (e TaskCompletedEvent) Success() bool {
	return e.Err == nil
}

// PoolDrainedEvent is emitted once after shutdown, when the queue has been
// drained and every worker loop has exited.
type PoolDrainedEvent struct {
	baseEvent
	Executed int64 // Total tasks executed over the pool's lifetime
}

// NewPoolDrainedEvent creates a PoolDrainedEvent.
func NewPoolDrainedEvent(executed int64) PoolDrainedEvent {
	return PoolDrainedEvent{
		baseEvent: newBaseEvent(TypePoolDrained),
		Executed:  executed,
	}
}
