// Package executor provides tests for the executor package.
package executor

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestExecutorConcurrencyControl(t *testing.T) {
	executor := New(2) // Limit to 2 concurrent tasks

	// Track concurrent tasks
	var concurrentTasks int64
	var maxConcurrent int64

	for i := 0; i < 10; i++ {
		executor.Submit(func() {
			current := atomic.AddInt64(&concurrentTasks, 1)
			defer atomic.AddInt64(&concurrentTasks, -1)

			// Track maximum concurrent tasks
			for {
				max := atomic.LoadInt64(&maxConcurrent)
				if current <= max || atomic.CompareAndSwapInt64(&maxConcurrent, max, current) {
					break
				}
			}

			// Simulate work
			time.Sleep(20 * time.Millisecond)
		})
	}

	executor.Wait()

	// Verify that concurrency was limited
	if maxConcurrent > 2 {
		t.Errorf("Expected max concurrent tasks <= 2, got %d", maxConcurrent)
	}

	if maxConcurrent < 1 {
		t.Errorf("Expected at least 1 concurrent task, got %d", maxConcurrent)
	}
}

func TestExecutorSubmitDoesNotBlock(t *testing.T) {
	executor := New(1)

	release := make(chan struct{})
	executor.Submit(func() {
		<-release
	})

	// Give the first task time to occupy the only slot.
	time.Sleep(10 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		executor.Submit(func() {})
		close(done)
	}()

	select {
	case <-done:
		// Submit returned while the slot was still held
	case <-time.After(time.Second):
		t.Fatal("Submit blocked while all slots were busy")
	}

	close(release)
	executor.Wait()
}

func TestExecutorStats(t *testing.T) {
	executor := New(3)

	stats := executor.GetStats()
	if stats.MaxConcurrency != 3 {
		t.Errorf("Expected MaxConcurrency=3, got %d", stats.MaxConcurrency)
	}

	if stats.CurrentConcurrency != 0 {
		t.Errorf("Expected CurrentConcurrency=0 initially, got %d", stats.CurrentConcurrency)
	}

	if stats.AvailableSlots != 3 {
		t.Errorf("Expected AvailableSlots=3 initially, got %d", stats.AvailableSlots)
	}
}

func TestExecutorDefaultConcurrency(t *testing.T) {
	tests := []struct {
		name        string
		concurrency int
		want        int
	}{
		{"explicit concurrency", 8, 8},
		{"zero uses default", 0, DefaultConcurrency},
		{"negative uses default", -1, DefaultConcurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			executor := New(tt.concurrency)
			if got := executor.GetStats().MaxConcurrency; got != tt.want {
				t.Errorf("Expected MaxConcurrency=%d, got %d", tt.want, got)
			}
		})
	}
}

func TestExecutorWaitDrainsAllTasks(t *testing.T) {
	executor := New(2)

	var completed int64
	for i := 0; i < 20; i++ {
		executor.Submit(func() {
			atomic.AddInt64(&completed, 1)
		})
	}

	executor.Wait()

	if completed != 20 {
		t.Errorf("Expected 20 completed tasks after Wait, got %d", completed)
	}
}
