package pool

import (
	"fmt"

	"github.com/kevingbwu/taskcore/internal/completion"
	"github.com/kevingbwu/taskcore/internal/event"
	"github.com/kevingbwu/taskcore/internal/taskqueue"
)

// Submit queues a task for execution and returns an awaiter for its
// outcome. The awaiter resolves to a zero struct on success or to the
// task's error (or captured panic) on failure.
//
// Submission is atomic: on a closed pool Submit returns
// taskqueue.ErrClosed and no completion channel is created.
func (p *Pool) Submit(task Task) (*completion.Awaiter[struct{}], error) {
	return SubmitFunc(p, func() (struct{}, error) {
		return struct{}{}, task()
	})
}

// SubmitFunc queues a value-returning task and returns a typed awaiter
// for its result. It is a package-level function because methods cannot
// introduce type parameters.
func SubmitFunc[T any](p *Pool, fn func() (T, error)) (*completion.Awaiter[T], error) {
	if p.closed.Published() {
		return nil, taskqueue.ErrClosed
	}

	comp, aw := completion.New[T]()
	id := fmt.Sprintf("task-%d", p.seq.Add(1))

	var value T
	j := job{
		id: id,
		run: func() error {
			var err error
			value, err = fn()
			return err
		},
		settle: func(err error) {
			if err != nil {
				comp.Fail(err)
			} else {
				comp.Complete(value)
			}
			comp.Release()
		},
	}

	if err := p.queue.Enqueue(j); err != nil {
		// Lost the race with shutdown. Discard the channel before any
		// reader could observe it.
		comp.Release()
		return nil, err
	}

	p.submitted.Add(1)
	p.publish(event.NewTaskSubmittedEvent(id))
	p.log.WithTask(id).Debug("task submitted")
	return aw, nil
}
