package lockorder

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// ErrOrderViolation indicates a breach of the lock acquisition hierarchy:
// either acquiring a lock whose level is not strictly below the calling
// goroutine's currently held level, or releasing locks out of order.
var ErrOrderViolation = errors.New("lockorder: hierarchy violation")

// unlocked is the held level of a goroutine that holds no hierarchy lock.
// Any lock level compares strictly below it.
const unlocked = math.MaxInt

// Thread tracks the lock level currently held by one goroutine. A Thread
// belongs to exactly one goroutine and must not be shared; create one per
// goroutine with [NewThread].
type Thread struct {
	current int
}

// NewThread returns a fresh per-goroutine tracking context holding no locks.
func NewThread() *Thread {
	return &Thread{current: unlocked}
}

// Held returns the level of the lock the goroutine currently holds, and
// false if it holds none.
func (t *Thread) Held() (int, bool) {
	if t.current == unlocked {
		return 0, false
	}
	return t.current, true
}

// Mutex is an exclusive lock with a fixed position in the program-wide
// lock hierarchy. Acquisitions are validated against the calling
// goroutine's [Thread] before the underlying lock is touched.
type Mutex struct {
	level int
	mu    sync.Mutex

	// prev is the acquiring goroutine's held level at the time of Lock,
	// restored on Unlock. Guarded by mu: it is only read or written by
	// the lock holder, giving the save/restore a stack depth of one.
	prev int
}

// NewMutex creates a Mutex at the given hierarchy level.
func NewMutex(level int) *Mutex {
	if level < 0 || level >= unlocked {
		panic(fmt.Sprintf("lockorder: level %d out of range", level))
	}
	return &Mutex{level: level}
}

// Level returns the mutex's immutable hierarchy level.
func (m *Mutex) Level() int {
	return m.level
}

// checkOrder validates that the calling goroutine may acquire this mutex.
// The held level must be strictly greater than the mutex's level.
func (m *Mutex) checkOrder(t *Thread) error {
	if t.current <= m.level {
		return fmt.Errorf("%w: cannot acquire level %d while holding level %d",
			ErrOrderViolation, m.level, t.current)
	}
	return nil
}

// Lock acquires the mutex on behalf of the goroutine owning t.
//
// If the goroutine already holds a lock of level <= this mutex's level,
// Lock fails fast with [ErrOrderViolation] without attempting the
// underlying lock. On success the goroutine's held level becomes this
// mutex's level, with the prior level saved for restoration on Unlock.
func (m *Mutex) Lock(t *Thread) error {
	if err := m.checkOrder(t); err != nil {
		return err
	}
	m.mu.Lock()
	m.prev = t.current
	t.current = m.level
	return nil
}

// TryLock attempts to acquire the mutex without blocking. The ordering
// check applies exactly as in Lock. Returns false without altering the
// goroutine's tracking state if the underlying lock is contended.
func (m *Mutex) TryLock(t *Thread) (bool, error) {
	if err := m.checkOrder(t); err != nil {
		return false, err
	}
	if !m.mu.TryLock() {
		return false, nil
	}
	m.prev = t.current
	t.current = m.level
	return true, nil
}

// Unlock releases the mutex and restores the goroutine's previously held
// level. It fails with [ErrOrderViolation] if the goroutine's current
// level does not match this mutex's level, which indicates an
// out-of-order release.
func (m *Mutex) Unlock(t *Thread) error {
	if t.current != m.level {
		return fmt.Errorf("%w: cannot release level %d while holding level %d",
			ErrOrderViolation, m.level, t.current)
	}
	t.current = m.prev
	m.mu.Unlock()
	return nil
}
