// Package completion provides a one-shot, write-once asynchronous result
// slot: the channel through which a task's eventual value or error reaches
// its observers.
//
// [New] returns the two halves of a channel sharing one underlying state:
// a [Completer], held by whoever will produce the result, and an
// [Awaiter], held by whoever wants to observe it. The state is a tagged
// variant (Pending, Ready(value), or Failed(error)), and once it leaves
// Pending it never changes again. A second Complete or Fail reports
// [ErrAlreadyCompleted] and leaves the stored result untouched.
//
// Awaiters are freely shareable: any number of goroutines may wait on,
// poll, or select against the same awaiter. Completer handles are
// reference counted via [Completer.Clone] and [Completer.Release]; if the
// last handle is released while the state is still Pending, the task is
// considered abandoned and every waiter unblocks with [ErrAbandoned]
// rather than hanging forever.
//
// Usage:
//
//	comp, aw := completion.New[int]()
//
//	go func() {
//	    defer comp.Release() // ErrAbandoned if we bail out before completing
//	    v, err := work()
//	    if err != nil {
//	        comp.Fail(err)
//	        return
//	    }
//	    comp.Complete(v)
//	}()
//
//	v, err := aw.Wait()
//
// Bounded waits leave the state untouched: after [Awaiter.WaitFor] returns
// [ErrTimedOut], the task may still complete, and a later Wait observes it.
package completion
