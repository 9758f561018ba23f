// Package lockorder provides a mutual-exclusion lock that enforces a
// program-wide acquisition hierarchy, making cyclic-wait deadlock
// structurally impossible.
//
// Every [Mutex] is assigned an immutable integer level at construction.
// A goroutine holding a lock of level L may only acquire locks of level
// strictly less than L. Because the levels impose a total order, no two
// goroutines can each be waiting on a lock the other holds: a goroutine
// can never acquire a "higher" lock after a "lower" one. The tradeoff is
// that locks must be leveled at design time.
//
// Per-goroutine bookkeeping is carried in an explicit [Thread] context
// rather than a hidden module-level variable, keeping the contract
// auditable. Each goroutine creates its own Thread and passes it to every
// Lock/Unlock call it makes:
//
//	high := lockorder.NewMutex(10000)
//	low := lockorder.NewMutex(5000)
//
//	th := lockorder.NewThread()
//	if err := high.Lock(th); err != nil { ... }
//	if err := low.Lock(th); err != nil { ... } // ok: 5000 < 10000
//	_ = low.Unlock(th)
//	_ = high.Unlock(th)
//
// Attempting the acquisitions in the opposite order fails fast with
// [ErrOrderViolation] before touching the underlying lock, so the
// goroutine is never suspended on a doomed acquisition. A hierarchy violation is
// always a programming error; it should be treated as fatal, not retried.
package lockorder
