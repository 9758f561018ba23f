// Package pool provides the worker pool at the heart of the taskcore
// runtime: N worker goroutines draining a shared FIFO task queue and
// routing each task's outcome through its completion channel.
//
// A producer calls [Pool.Submit] (or the typed [SubmitFunc]) and receives
// a completion.Awaiter for the task; a worker dequeues the task, executes
// it exactly once, and completes the channel with the task's value, its
// returned error, or a captured panic. Worker loops never terminate
// because a task failed: execution failures are routed into the channel,
// not raised in the worker.
//
// Submission is atomic from the caller's perspective: either the task is
// queued and an awaiter is returned, or the call fails with
// taskqueue.ErrClosed and no channel is created.
//
// [Pool.ShutdownAndJoin] closes the queue, lets the workers drain every
// task that was already accepted, and joins the worker goroutines.
// Submissions after shutdown fail with taskqueue.ErrClosed.
//
// Usage:
//
//	p := pool.New(4, pool.WithQueueCapacity(64))
//
//	aw, err := pool.SubmitFunc(p, func() (int, error) {
//	    return compute()
//	})
//	if err != nil { ... }
//
//	v, err := aw.Wait()
//
//	p.ShutdownAndJoin()
package pool
