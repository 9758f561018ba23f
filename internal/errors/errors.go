// Package errors provides centralized error handling utilities for the
// taskcore runtime. It defines execution error types, error constructors
// with context wrapping, and error classification helpers.
//
// # Error Taxonomy
//
// The runtime distinguishes three kinds of failure:
//
// Infrastructure violations are programmer errors and must be surfaced
// loudly, never retried:
//   - lockorder.ErrOrderViolation: a lock hierarchy breach
//   - completion.ErrAlreadyCompleted: double completion of a one-shot channel
//
// Recoverable conditions may be retried by the caller:
//   - completion.ErrTimedOut: a bounded wait expired; the result may still
//     arrive and a later wait is valid
//
// Task-level errors are whatever the executed task itself returned or
// panicked with. They are captured and routed through the task's completion
// channel verbatim, wrapped in [TaskError] (and [PanicError] for panics) so
// callers can attribute failures to specific tasks and workers.
//
// # Usage
//
// Checking errors:
//
//	// Check for specific sentinel errors
//	if errors.Is(err, taskqueue.ErrClosed) { ... }
//
//	// Check for error types
//	var taskErr *errors.TaskError
//	if errors.As(err, &taskErr) { ... }
//
//	// Use classification helpers
//	if errors.IsRetryable(err) { ... }
//	if errors.IsFatal(err) { log.Fatal(err) }
package errors

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/kevingbwu/taskcore/internal/completion"
	"github.com/kevingbwu/taskcore/internal/lockorder"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo Severity = iota
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for programmer errors that require immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Task Errors
// -----------------------------------------------------------------------------

// TaskError wraps a task execution failure with the identity of the task
// that produced it and the worker that ran it.
//
// Example:
//
//	err := errors.NewTaskError("task-3", baseErr).WithWorker(2)
//	fmt.Println(err) // "task error [task=task-3, worker=2]: division by zero"
type TaskError struct {
	TaskID   string
	WorkerID int
	Err      error
}

// NewTaskError creates a new TaskError for the given task.
func NewTaskError(taskID string, cause error) *TaskError {
	return &TaskError{
		TaskID:   taskID,
		WorkerID: -1, // -1 indicates not set
		Err:      cause,
	}
}

// WithWorker adds the executing worker's ID to the error context.
func (e *TaskError) WithWorker(id int) *TaskError {
	e.WorkerID = id
	return e
}

// Error returns the formatted error message.
func (e *TaskError) Error() string {
	prefix := fmt.Sprintf("task error [task=%s]", e.TaskID)
	if e.WorkerID >= 0 {
		prefix = fmt.Sprintf("task error [task=%s, worker=%d]", e.TaskID, e.WorkerID)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", prefix, e.Err)
	}
	return prefix
}

// Unwrap returns the underlying task failure so that errors.Is and errors.As
// see through to the original error kind.
func (e *TaskError) Unwrap() error {
	return e.Err
}

// -----------------------------------------------------------------------------
// Panic Errors
// -----------------------------------------------------------------------------

// PanicError wraps a recovered panic value together with the goroutine
// stack trace captured at the point of the panic.
//
// Worker loops convert task panics to *PanicError and route them through
// the task's completion channel rather than crashing the worker.
type PanicError struct {
	// Value is the original value passed to panic().
	Value any

	// Stack is the goroutine stack trace at the point of panic.
	Stack string
}

// Error returns a human-readable representation of the panic,
// including the value and the full stack trace.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v\n\n%s", e.Value, e.Stack)
}

// NewPanicError captures the current goroutine's stack and wraps the
// recovered value v.
func NewPanicError(v any) *PanicError {
	// 8 KiB is enough for most stack traces. runtime.Stack truncates
	// gracefully if the buffer is too small.
	buf := make([]byte, 8192)
	n := runtime.Stack(buf, false)
	return &PanicError{
		Value: v,
		Stack: string(buf[:n]),
	}
}

// IsPanic reports whether err (or any error in its chain) is a [*PanicError].
func IsPanic(err error) bool {
	if err == nil {
		return false
	}
	var pe *PanicError
	return errors.As(err, &pe)
}

// -----------------------------------------------------------------------------
// Classification Helpers
// -----------------------------------------------------------------------------

// IsFatal returns true if the error represents an infrastructure violation:
// a programming error that should be surfaced immediately and never retried.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, lockorder.ErrOrderViolation) ||
		errors.Is(err, completion.ErrAlreadyCompleted)
}

// IsRetryable returns true if the error represents a transient condition
// that may succeed on retry. Currently only expired bounded waits qualify:
// the awaited result may still arrive, so a second wait is valid.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, completion.ErrTimedOut)
}

// GetSeverity returns the severity level of the error.
// Infrastructure violations are critical; abandoned tasks and timeouts are
// warnings; everything else defaults to error severity.
func GetSeverity(err error) Severity {
	switch {
	case err == nil:
		return SeverityInfo
	case IsFatal(err):
		return SeverityCritical
	case IsRetryable(err), errors.Is(err, completion.ErrAbandoned):
		return SeverityWarning
	default:
		return SeverityError
	}
}
