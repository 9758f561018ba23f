// Package atomicflag provides a lock-free, one-shot boolean publication
// primitive for handing off visibility of non-atomic data between
// goroutines.
//
// A [Flag] represents the statement "some associated data is now safe to
// read". The writer prepares the data, then calls [Flag.Publish]; any
// reader that subsequently observes [Flag.Published] == true is guaranteed
// to see every write the publisher made before publishing. Go's atomic
// operations carry sequentially consistent ordering, which subsumes the
// release/acquire pairing this contract requires, so the publish
// establishes a synchronizes-with edge to every observing load.
//
// Flags are one-shot: there is no reset. A reusable "event" must use a
// fresh Flag instance. The primitive itself cannot fail; reading the
// guarded data without first checking the flag is a caller error, not a
// defect of the flag.
//
// Usage:
//
//	var ready atomicflag.Flag
//	var payload *Result
//
//	// publisher
//	payload = compute()
//	ready.Publish()
//
//	// reader
//	if ready.Published() {
//	    use(payload) // all publisher writes are visible
//	}
package atomicflag

import (
	"runtime"
	"sync/atomic"
)

// Flag is a one-shot atomic publication flag. The zero value is an
// unpublished flag ready for use. A Flag must not be copied after first use.
type Flag struct {
	v atomic.Bool
}

// Publish marks the flag as published. Every write sequenced before the
// call becomes visible to any goroutine that later observes Published() ==
// true. Publishing an already-published flag is a no-op.
func (f *Flag) Publish() {
	f.v.Store(true)
}

// Published reports whether the flag has been published. It never blocks.
func (f *Flag) Published() bool {
	return f.v.Load()
}

// Spin busy-polls until the flag is published, yielding the processor
// between probes.
//
// This is a latency/throughput tradeoff: a spinning reader observes the
// publication with minimal latency but burns a scheduler slot while it
// waits. It is intended for short, bounded handoffs only; anything that
// can wait for longer than a few scheduling quanta should use a
// condition-signal primitive such as a completion channel instead.
func (f *Flag) Spin() {
	for !f.v.Load() {
		runtime.Gosched()
	}
}
