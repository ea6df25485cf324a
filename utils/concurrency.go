package utils

import (
	"sync"
	"time"
)

// WorkerPool runs jobs on at most a fixed number of goroutines. Starts
// can be spaced out so that a shared resource (a browser, a database)
// is not hit by every worker at the same instant.
type WorkerPool struct {
	slots   chan struct{}
	wg      sync.WaitGroup
	spacing time.Duration

	mu       sync.Mutex
	nextSlot time.Time
}

// NewWorkerPool creates a pool of size workers. A zero spacing starts
// jobs as soon as a worker is free.
func NewWorkerPool(size int, spacing time.Duration) *WorkerPool {
	if size < 1 {
		size = 1
	}
	return &WorkerPool{
		slots:   make(chan struct{}, size),
		spacing: spacing,
	}
}

// Submit blocks until a worker is free, then runs job on it.
func (wp *WorkerPool) Submit(job func()) {
	wp.wg.Add(1)
	wp.slots <- struct{}{}

	go func() {
		defer wp.wg.Done()
		defer func() { <-wp.slots }()

		wp.waitTurn()
		job()
	}()
}

// Wait blocks until every submitted job has returned.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// waitTurn reserves the next start time under the lock and sleeps
// outside of it.
func (wp *WorkerPool) waitTurn() {
	if wp.spacing <= 0 {
		return
	}

	wp.mu.Lock()
	now := time.Now()
	start := wp.nextSlot
	if start.Before(now) {
		start = now
	}
	wp.nextSlot = start.Add(wp.spacing)
	wp.mu.Unlock()

	time.Sleep(time.Until(start))
}

// Collect runs fn for every item on a pool and returns the results in
// the order of items.
func Collect[T, R any](wp *WorkerPool, items []T, fn func(T) R) []R {
	out := make([]R, len(items))
	for i, item := range items {
		wp.Submit(func() {
			out[i] = fn(item)
		})
	}
	wp.Wait()
	return out
}
