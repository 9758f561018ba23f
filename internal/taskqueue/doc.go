// Package taskqueue provides a bounded, thread-safe, blocking FIFO queue
// for handing tasks from producers to consumers.
//
// The core type is [Queue], built on a mutex and a pair of condition
// variables. Producers block in [Queue.Enqueue] while a bounded queue is
// full; consumers block in [Queue.Dequeue] while it is empty. Every wait
// re-checks its predicate in a loop, so spurious wakeups and lost-wakeup
// races cannot produce a phantom item or a permanent block.
//
// FIFO order is the fairness contract: dequeue order equals enqueue order
// among successfully appended items, and each item is delivered to exactly
// one consumer. There is no priority reordering and no timeout on queue
// operations; capacity and shutdown are the only sources of blocking.
//
// [Queue.Close] shuts the queue down: blocked producers fail with
// [ErrClosed], consumers drain the remaining items and then receive
// [ErrClosed] once the queue is empty.
//
// Usage:
//
//	q := taskqueue.New[func() error](16)
//
//	// producer
//	if err := q.Enqueue(task); err != nil { ... } // ErrClosed after shutdown
//
//	// consumer
//	for {
//	    task, err := q.Dequeue()
//	    if err != nil {
//	        return // closed and drained
//	    }
//	    task()
//	}
package taskqueue
