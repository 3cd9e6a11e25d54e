package goasync

import "sync"

// outcome is a task's terminal result: either a value or a recovered panic.
type outcome[T any] struct {
	value    T
	panicVal any
}

// task is the Go realization of spec.md's Task (C5): a guarded stepper plus
// a ready callback. poll implements the spec's lock -> take stepper ->
// drive one step -> put back or complete protocol exactly, using a mutex
// held for the duration of the step rather than a take-out-of-slot dance,
// since a fiber's step already blocks for the step's whole duration anyway.
type task[T any] struct {
	mu     sync.Mutex
	fb     *fiber[T]
	done   bool
	rt     *Runtime
	id     int64
	wake   func()
	onDone func(outcome[T])
}

// poll drives the task forward exactly one step. Safe to call concurrently
// with itself — at most one call does real work at a time, the rest block
// on mu until it's their turn or the task is already done.
func (t *task[T]) poll() {
	t.mu.Lock()
	if t.done {
		t.mu.Unlock()
		return
	}
	v, ready, panicVal := t.fb.step()
	if ready {
		t.done = true
	}
	t.mu.Unlock()

	if ready {
		t.onDone(outcome[T]{value: v, panicVal: panicVal})
	}
}
