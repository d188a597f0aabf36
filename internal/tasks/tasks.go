// Package tasks provides the deferred-work queue drained once per tick.
// Web handlers enqueue expensive operations (persist settings, apply a
// new configuration, resync the clock) instead of running them inline, so
// the HTTP response is never delayed by them and all mutation of core
// state happens on the tick loop.
package tasks

import "sync"

// Task is a named deferred operation. Tasks must be idempotent; ordering
// is enqueue order.
type Task struct {
	Name string
	Fn   func()
}

// Queue is a mutex-guarded FIFO of deferred tasks.
type Queue struct {
	mu    sync.Mutex
	items []Task
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Defer enqueues a task. Safe to call from any goroutine.
func (q *Queue) Defer(name string, fn func()) {
	q.mu.Lock()
	q.items = append(q.items, Task{Name: name, Fn: fn})
	q.mu.Unlock()
}

// Drain runs all queued tasks in enqueue order and returns how many ran.
// Tasks enqueued while draining run on the next drain.
func (q *Queue) Drain() int {
	q.mu.Lock()
	batch := q.items
	q.items = nil
	q.mu.Unlock()

	for _, t := range batch {
		t.Fn()
	}
	return len(batch)
}

// Len returns the number of queued tasks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
