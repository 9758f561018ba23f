package completion

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestCompleteThenWait(t *testing.T) {
	comp, aw := New[int]()

	if st := aw.State(); st != StatePending {
		t.Fatalf("State = %v, want pending", st)
	}
	if err := comp.Complete(42); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	v, err := aw.Wait()
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if v != 42 {
		t.Errorf("Wait = %d, want 42", v)
	}
	if st := aw.State(); st != StateReady {
		t.Errorf("State = %v, want ready", st)
	}
}

func TestFailThenWait(t *testing.T) {
	comp, aw := New[int]()

	cause := errors.New("division by zero")
	if err := comp.Fail(cause); err != nil {
		t.Fatalf("Fail: %v", err)
	}

	_, err := aw.Wait()
	if !errors.Is(err, cause) {
		t.Fatalf("Wait = %v, want original error surfaced verbatim", err)
	}
	if st := aw.State(); st != StateFailed {
		t.Errorf("State = %v, want failed", st)
	}
}

func TestWriteOnce(t *testing.T) {
	comp, aw := New[int]()

	if err := comp.Complete(1); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if err := comp.Complete(2); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("second Complete = %v, want ErrAlreadyCompleted", err)
	}
	if err := comp.Fail(errors.New("late")); !errors.Is(err, ErrAlreadyCompleted) {
		t.Fatalf("Fail after Complete = %v, want ErrAlreadyCompleted", err)
	}

	// The stored result must be the first one.
	v, err := aw.Wait()
	if err != nil || v != 1 {
		t.Fatalf("Wait = (%d, %v), want (1, nil)", v, err)
	}
}

func TestWaitBlocksUntilComplete(t *testing.T) {
	comp, aw := New[string]()

	got := make(chan string, 1)
	go func() {
		v, err := aw.Wait()
		if err != nil {
			t.Errorf("Wait: %v", err)
			return
		}
		got <- v
	}()

	time.Sleep(20 * time.Millisecond)
	if err := comp.Complete("done"); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	select {
	case v := <-got:
		if v != "done" {
			t.Errorf("Wait = %q, want %q", v, "done")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("waiter not woken by Complete")
	}
}

func TestWaitForTimeoutThenEventualValue(t *testing.T) {
	comp, aw := New[int]()

	go func() {
		time.Sleep(50 * time.Millisecond)
		comp.Complete(7)
	}()

	if _, err := aw.WaitFor(10 * time.Millisecond); !errors.Is(err, ErrTimedOut) {
		t.Fatalf("WaitFor = %v, want ErrTimedOut", err)
	}

	// Timeout left the state untouched; a second wait observes the value.
	v, err := aw.Wait()
	if err != nil || v != 7 {
		t.Fatalf("Wait after timeout = (%d, %v), want (7, nil)", v, err)
	}
}

func TestPoll(t *testing.T) {
	comp, aw := New[int]()

	if _, _, ok := aw.Poll(); ok {
		t.Fatal("Poll on pending channel should report not ready")
	}

	if err := comp.Complete(9); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	v, err, ok := aw.Poll()
	if !ok || err != nil || v != 9 {
		t.Fatalf("Poll = (%d, %v, %v), want (9, nil, true)", v, err, ok)
	}
}

func TestAbandonment(t *testing.T) {
	comp, aw := New[int]()

	errCh := make(chan error, 1)
	go func() {
		_, err := aw.Wait()
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	comp.Release()

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrAbandoned) {
			t.Fatalf("Wait on abandoned channel = %v, want ErrAbandoned", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("waiter blocked despite abandonment")
	}
}

func TestReleaseAfterCompleteIsNoOp(t *testing.T) {
	comp, aw := New[int]()

	if err := comp.Complete(3); err != nil {
		t.Fatalf("Complete: %v", err)
	}
	comp.Release()
	comp.Release() // idempotent

	v, err := aw.Wait()
	if err != nil || v != 3 {
		t.Fatalf("Wait = (%d, %v), want (3, nil)", v, err)
	}
}

func TestCloneDefersAbandonment(t *testing.T) {
	comp, aw := New[int]()
	clone := comp.Clone()

	comp.Release()
	if st := aw.State(); st != StatePending {
		t.Fatalf("State after releasing one of two handles = %v, want pending", st)
	}

	if err := clone.Complete(5); err != nil {
		t.Fatalf("Complete via clone: %v", err)
	}
	clone.Release()

	v, err := aw.Wait()
	if err != nil || v != 5 {
		t.Fatalf("Wait = (%d, %v), want (5, nil)", v, err)
	}
}

func TestCloneReleasedPanics(t *testing.T) {
	comp, _ := New[int]()
	comp.Release()

	defer func() {
		if recover() == nil {
			t.Error("Clone of released completer should panic")
		}
	}()
	comp.Clone()
}

func TestSharedAwaiterManyReaders(t *testing.T) {
	comp, aw := New[int]()

	const readers = 8
	var wg sync.WaitGroup
	wg.Add(readers)
	for range readers {
		go func() {
			defer wg.Done()
			v, err := aw.Wait()
			if err != nil || v != 11 {
				t.Errorf("Wait = (%d, %v), want (11, nil)", v, err)
			}
		}()
	}

	time.Sleep(10 * time.Millisecond)
	if err := comp.Complete(11); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("shared readers not all woken")
	}
}

func TestWaitContext(t *testing.T) {
	_, aw := New[int]()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := aw.WaitContext(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("WaitContext = %v, want context.DeadlineExceeded", err)
	}
}

func TestFailNilNormalized(t *testing.T) {
	comp, aw := New[int]()
	if err := comp.Fail(nil); err != nil {
		t.Fatalf("Fail(nil): %v", err)
	}
	_, err := aw.Wait()
	if err == nil {
		t.Fatal("Wait on failed channel should return a non-nil error")
	}
}

func TestDoneSelectable(t *testing.T) {
	comp, aw := New[int]()

	select {
	case <-aw.Done():
		t.Fatal("Done closed before completion")
	default:
	}

	comp.Complete(1)

	select {
	case <-aw.Done():
	default:
		t.Fatal("Done not closed after completion")
	}
	if _, _, ok := aw.Poll(); !ok {
		t.Error("Poll must report resolved once Done is closed")
	}
}
