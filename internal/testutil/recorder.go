// Package testutil provides test utilities for callback tracking.
package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/upload/uploadtypes"
)

// CallbackRecorder records status deliveries for testing asynchronous
// transfers. Each delivery is appended to an internal log and signaled on a
// channel so tests can wait without polling.
type CallbackRecorder struct {
	mu         sync.Mutex
	deliveries []*uploadtypes.Status
	signal     chan *uploadtypes.Status
}

// NewCallbackRecorder creates a new recorder.
func NewCallbackRecorder() *CallbackRecorder {
	return &CallbackRecorder{
		signal: make(chan *uploadtypes.Status, 16),
	}
}

// Callback returns an uploadtypes.Callback that records each delivery.
func (r *CallbackRecorder) Callback() uploadtypes.Callback {
	return func(status *uploadtypes.Status) {
		r.mu.Lock()
		r.deliveries = append(r.deliveries, status)
		r.mu.Unlock()
		r.signal <- status
	}
}

// Wait blocks until the next status is delivered and returns it, failing the
// test after the timeout elapses.
func (r *CallbackRecorder) Wait(t *testing.T, timeout time.Duration) *uploadtypes.Status {
	t.Helper()

	select {
	case status := <-r.signal:
		return status
	case <-time.After(timeout):
		t.Fatal("timed out waiting for status delivery")
		return nil
	}
}

// AssertNoDelivery fails the test if a status arrives within the given window.
func (r *CallbackRecorder) AssertNoDelivery(t *testing.T, window time.Duration) {
	t.Helper()

	select {
	case status := <-r.signal:
		t.Fatalf("expected no delivery, got status with category %s", status.Category)
	case <-time.After(window):
	}
}

// Deliveries returns a copy of all recorded statuses in delivery order.
func (r *CallbackRecorder) Deliveries() []*uploadtypes.Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*uploadtypes.Status, len(r.deliveries))
	copy(out, r.deliveries)
	return out
}

// Count returns the number of recorded deliveries.
func (r *CallbackRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.deliveries)
}
