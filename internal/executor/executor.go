// Package executor runs transfer work on background goroutines.
// This includes bounding how many transfers execute at once so a burst
// of asynchronous uploads cannot exhaust sockets or memory.
package executor

import (
	"sync"
)

// DefaultConcurrency is the slot count used when none is configured.
const DefaultConcurrency = 5

// Executor schedules functions on background goroutines with a
// concurrency cap.
type Executor struct {
	maxConcurrency int
	semaphore      chan struct{}
	wg             sync.WaitGroup
}

// New creates an executor with the specified concurrency limit.
func New(maxConcurrency int) *Executor {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultConcurrency
	}

	return &Executor{
		maxConcurrency: maxConcurrency,
		semaphore:      make(chan struct{}, maxConcurrency),
	}
}

// Submit schedules fn for execution and returns immediately. The
// function runs on its own goroutine; when all slots are busy it waits
// for a free slot there, never on the caller.
func (e *Executor) Submit(fn func()) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()

		// Acquire semaphore
		e.semaphore <- struct{}{}
		defer func() {
			// Release semaphore
			<-e.semaphore
		}()

		fn()
	}()
}

// Wait blocks until every submitted function has finished.
func (e *Executor) Wait() {
	e.wg.Wait()
}

// Stats contains statistics about the executor's current state.
type Stats struct {
	// MaxConcurrency is the maximum allowed concurrent tasks
	MaxConcurrency int

	// CurrentConcurrency is the current number of running tasks
	CurrentConcurrency int

	// AvailableSlots is the number of available concurrency slots
	AvailableSlots int
}

// GetStats returns current execution statistics.
func (e *Executor) GetStats() Stats {
	return Stats{
		MaxConcurrency:     e.maxConcurrency,
		CurrentConcurrency: len(e.semaphore),
		AvailableSlots:     cap(e.semaphore) - len(e.semaphore),
	}
}
