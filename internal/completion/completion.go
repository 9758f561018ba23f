package completion

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// Sentinel errors returned by completion operations.
var (
	// ErrAlreadyCompleted indicates a second Complete or Fail on the same
	// channel. This is always a programming error in the completer.
	ErrAlreadyCompleted = errors.New("completion: already completed")

	// ErrAbandoned is observed by waiters when every completer handle was
	// released without completing.
	ErrAbandoned = errors.New("completion: abandoned by completer")

	// ErrTimedOut is returned by WaitFor when the bound expires while the
	// state is still pending. The result may yet arrive; a later wait on
	// the same awaiter is valid.
	ErrTimedOut = errors.New("completion: wait timed out")
)

// State identifies the phase of a completion channel's lifecycle.
type State int

const (
	// StatePending means no result has been stored yet.
	StatePending State = iota

	// StateReady means a value was stored via Complete.
	StateReady

	// StateFailed means an error was stored via Fail (or the channel was
	// abandoned).
	StateFailed
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// cell is the state shared by the two halves of a channel.
type cell[T any] struct {
	mu         sync.Mutex
	state      State
	value      T
	err        error
	completers int

	// done is closed exactly once, when state leaves StatePending. After
	// the close, value and err are immutable, so readers that have
	// observed the close may read them without the lock.
	done chan struct{}
}

// settle performs the single Pending → Ready/Failed transition.
func (c *cell[T]) settle(state State, value T, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StatePending {
		return ErrAlreadyCompleted
	}
	c.state = state
	c.value = value
	c.err = err
	close(c.done)
	return nil
}

// New creates a completion channel and returns its writer and reader
// halves.
func New[T any]() (*Completer[T], *Awaiter[T]) {
	c := &cell[T]{
		completers: 1,
		done:       make(chan struct{}),
	}
	return &Completer[T]{cell: c}, &Awaiter[T]{cell: c}
}

// -----------------------------------------------------------------------------
// Completer
// -----------------------------------------------------------------------------

// Completer is the writer half of a completion channel. Each handle may be
// released once; the channel is abandoned when the last live handle is
// released before completing.
type Completer[T any] struct {
	cell     *cell[T]
	released atomic.Bool
}

// Complete stores the value and transitions the channel to StateReady,
// waking all current and future waiters. Returns [ErrAlreadyCompleted] if
// the channel already left StatePending; the stored result is untouched.
func (cp *Completer[T]) Complete(value T) error {
	return cp.cell.settle(StateReady, value, nil)
}

// Fail stores the error and transitions the channel to StateFailed, waking
// all current and future waiters. A nil err is normalized to a generic
// failure so waiters never observe StateFailed with a nil error. Returns
// [ErrAlreadyCompleted] if the channel already left StatePending.
func (cp *Completer[T]) Fail(err error) error {
	if err == nil {
		err = errors.New("completion: task failed")
	}
	var zero T
	return cp.cell.settle(StateFailed, zero, err)
}

// Clone returns an additional completer handle for the same channel. The
// channel is only considered abandoned once every handle has been
// released. Panics if called on a handle that was already released.
func (cp *Completer[T]) Clone() *Completer[T] {
	if cp.released.Load() {
		panic("completion: Clone of released Completer")
	}
	cp.cell.mu.Lock()
	cp.cell.completers++
	cp.cell.mu.Unlock()
	return &Completer[T]{cell: cp.cell}
}

// Release drops this completer handle. When the last handle is released
// while the channel is still pending, the channel fails with
// [ErrAbandoned] so that no waiter blocks forever. Release is idempotent
// per handle and safe to defer alongside Complete/Fail.
func (cp *Completer[T]) Release() {
	if !cp.released.CompareAndSwap(false, true) {
		return
	}

	c := cp.cell
	c.mu.Lock()
	c.completers--
	abandoned := c.completers == 0 && c.state == StatePending
	if abandoned {
		c.state = StateFailed
		c.err = ErrAbandoned
		close(c.done)
	}
	c.mu.Unlock()
}

// -----------------------------------------------------------------------------
// Awaiter
// -----------------------------------------------------------------------------

// Awaiter is the reader half of a completion channel. It is safe for
// concurrent use: any number of goroutines may share one awaiter and each
// observes the same stored result.
type Awaiter[T any] struct {
	cell *cell[T]
}

// State returns the channel's current state without blocking.
func (aw *Awaiter[T]) State() State {
	aw.cell.mu.Lock()
	defer aw.cell.mu.Unlock()
	return aw.cell.state
}

// Done returns a channel that is closed once the state leaves
// StatePending, for use in select statements. After it is closed, Poll is
// guaranteed to report a resolved result.
func (aw *Awaiter[T]) Done() <-chan struct{} {
	return aw.cell.done
}

// Wait blocks until the channel resolves, then returns the stored value or
// surfaces the stored error (task failures verbatim, [ErrAbandoned] for an
// abandoned channel).
func (aw *Awaiter[T]) Wait() (T, error) {
	<-aw.cell.done
	return aw.result()
}

// WaitFor blocks up to the given duration. On timeout it returns
// [ErrTimedOut] and leaves the channel untouched: the task may still
// complete, and a subsequent Wait observes the eventual result.
func (aw *Awaiter[T]) WaitFor(d time.Duration) (T, error) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-aw.cell.done:
		return aw.result()
	case <-timer.C:
		var zero T
		return zero, ErrTimedOut
	}
}

// WaitContext blocks until the channel resolves or ctx is done, in which
// case it returns the context's error.
func (aw *Awaiter[T]) WaitContext(ctx context.Context) (T, error) {
	select {
	case <-aw.cell.done:
		return aw.result()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Poll reports the result without blocking. ok is false while the channel
// is still pending.
func (aw *Awaiter[T]) Poll() (value T, err error, ok bool) {
	select {
	case <-aw.cell.done:
		value, err = aw.result()
		return value, err, true
	default:
		var zero T
		return zero, nil, false
	}
}

// result reads the stored outcome. Callers must have observed the done
// channel's close, after which value and err are immutable.
func (aw *Awaiter[T]) result() (T, error) {
	c := aw.cell
	if c.state == StateFailed {
		var zero T
		return zero, c.err
	}
	return c.value, nil
}
