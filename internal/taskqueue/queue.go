package taskqueue

import (
	"errors"
	"sync"
)

// ErrClosed is returned by queue operations after [Queue.Close]: immediately
// for enqueues, and once the queue has drained for dequeues.
var ErrClosed = errors.New("taskqueue: queue is closed")

// Queue is a blocking FIFO queue safe for any number of concurrent
// producers and consumers. Create one with [New].
type Queue[T any] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	items    []T
	capacity int // 0 means unbounded
	closed   bool
}

// New creates a queue with the given capacity. A capacity of 0 means
// unbounded; a positive capacity makes Enqueue block while the queue is
// full. Panics if capacity is negative.
func New[T any](capacity int) *Queue[T] {
	if capacity < 0 {
		panic("taskqueue: capacity must be >= 0")
	}
	q := &Queue[T]{capacity: capacity}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends item to the tail of the queue. If the queue is bounded
// and full, the calling goroutine is suspended until space frees or the
// queue is closed. Returns [ErrClosed] if the queue is (or becomes) closed
// before the item is appended.
func (q *Queue[T]) Enqueue(item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.capacity > 0 && len(q.items) >= q.capacity && !q.closed {
		q.notFull.Wait()
	}
	if q.closed {
		return ErrClosed
	}

	q.items = append(q.items, item)
	// Wake exactly one waiting consumer for the one item appended.
	q.notEmpty.Signal()
	return nil
}

// Dequeue removes and returns the item at the head of the queue, blocking
// until an item is available or the queue is closed. After Close,
// remaining items are drained in order; once the queue is empty Dequeue
// returns [ErrClosed].
func (q *Queue[T]) Dequeue() (T, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.items) == 0 && !q.closed {
		q.notEmpty.Wait()
	}
	if len(q.items) == 0 {
		// Closed and fully drained.
		var zero T
		return zero, ErrClosed
	}

	item := q.items[0]
	// Clear the vacated slot so the queue does not pin the item's memory.
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]

	q.notFull.Signal()
	return item, nil
}

// TryDequeue removes and returns the head item without blocking. The
// second return is false if the queue is currently empty; err is
// [ErrClosed] only when the queue is closed and drained.
func (q *Queue[T]) TryDequeue() (item T, ok bool, err error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		var zero T
		if q.closed {
			return zero, false, ErrClosed
		}
		return zero, false, nil
	}

	item = q.items[0]
	var zero T
	q.items[0] = zero
	q.items = q.items[1:]
	q.notFull.Signal()
	return item, true, nil
}

// Close marks the queue as closed and wakes all blocked producers and
// consumers. Subsequent enqueues fail immediately; dequeues drain the
// remaining items before reporting [ErrClosed]. Close is idempotent.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// Closed reports whether the queue has been closed.
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Len returns the number of items currently queued.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Cap returns the queue's capacity; 0 means unbounded.
func (q *Queue[T]) Cap() int {
	return q.capacity
}
