// Package testutil provides testing utilities for taskcore tests.
package testutil

import (
	"testing"
	"time"
)

// Eventually polls cond until it returns true or the timeout expires.
// Fails the test with msg on timeout.
func Eventually(t *testing.T, cond func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition not met within %v: %s", timeout, msg)
}

// WithinDeadline runs fn and fails the test if it does not return within
// the timeout. Use it around calls that would block forever on a missed
// wakeup or an undrained shutdown.
//
// On timeout the goroutine running fn is leaked; the test is failing
// anyway at that point.
func WithinDeadline(t *testing.T, timeout time.Duration, fn func()) {
	t.Helper()

	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		t.Fatalf("call did not return within %v", timeout)
	}
}

// WaitErr receives one error from ch, failing the test if nothing
// arrives within the timeout.
func WaitErr(t *testing.T, ch <-chan error, timeout time.Duration) error {
	t.Helper()

	select {
	case err := <-ch:
		return err
	case <-time.After(timeout):
		t.Fatalf("no result within %v", timeout)
		return nil
	}
}
