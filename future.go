package goasync

import (
	"sync"
	"time"
)

// Awaitable is a single poll step: it reports (zero, false) for Pending and
// (v, true) for Ready, registering ctx's current waker with whatever
// external condition it is waiting on when it returns Pending. Future is an
// alias of the same type, used where the value is handed directly to
// Spawn as a task body (a leaf stepper written by hand, with no sequential
// Await-based fiber wrapping it) rather than awaited from within one.
type Awaitable[T any] func(ctx *PollCtx) (T, bool)

// Future is Awaitable under another name, matching the two roles the same
// function shape plays: a composable step passed to Await, or a leaf task
// body passed directly to SpawnFuture.
type Future[T any] = Awaitable[T]

// Await suspends the enclosing fiber until f reports Ready, yielding
// control back to the scheduler between polls. This is the mechanism by
// which ordinary-looking sequential Go code is layered over the
// single-step poll contract.
func Await[T any](ctx *PollCtx, f Awaitable[T]) T {
	for {
		if v, ready := f(ctx); ready {
			return v
		}
		ctx.yield()
	}
}

// Sleep returns an Awaitable that becomes ready after d elapses, scheduled
// with time.AfterFunc against the task's waker — the external timer
// primitive spec.md assumes exists but declines to specify the
// implementation of.
func Sleep(d time.Duration) Awaitable[struct{}] {
	c := &cell[struct{}]{}
	var once sync.Once
	return func(ctx *PollCtx) (struct{}, bool) {
		once.Do(func() {
			if d <= 0 {
				c.set(struct{}{})
				return
			}
			time.AfterFunc(d, func() { c.set(struct{}{}) })
		})
		return c.poll(ctx.Waker())
	}
}
