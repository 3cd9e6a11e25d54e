package goasync

// fiberReport is one step's outcome, sent from the fiber goroutine back to
// whichever worker is driving it.
type fiberReport[T any] struct {
	ready    bool
	value    T
	panicVal any
}

// anyFiber lets PollCtx stay non-generic (Go forbids generic fields on a
// struct used the way PollCtx is, since the type parameter would have to
// flow all the way up through Spawn's caller); fiber[T] is the only
// implementation.
type anyFiber interface {
	yield()
	waker() func()
}

// PollCtx is the poll context threaded through a task's fiber. It is the Go
// realization of the Rust Context/Waker pair: Awaitable implementations
// call Waker to register for a wakeup, and Await calls yield to suspend
// the enclosing stepper between poll steps.
type PollCtx struct {
	fiber anyFiber
}

func (c *PollCtx) yield() { c.fiber.yield() }

// Waker returns the function that reschedules the task owning this poll
// context. Awaitable implementations register it with whatever they are
// waiting on — a reactor event sink, a timer, another JoinHandle's cell —
// so the task is polled again exactly when that condition is signaled.
func (c *PollCtx) Waker() func() { return c.fiber.waker() }

// fiber is the goroutine-per-task coroutine bridge described in spec.md
// §4.5/§9: ordinary sequential Go code (using Await) runs on its own
// goroutine, but is driven forward exactly one step at a time by step,
// handing control back across the resume/report channel pair at each
// suspension point. Grounded on the teacher's Promisify/oneshot bridge
// pattern (promisify.go) generalized from "run once" to "run in steps".
type fiber[T any] struct {
	body    func(ctx *PollCtx) T
	resume  chan struct{}
	report  chan fiberReport[T]
	started bool
	wakerFn func()
}

func newFiber[T any](body func(ctx *PollCtx) T, wake func()) *fiber[T] {
	return &fiber[T]{
		body:    body,
		resume:  make(chan struct{}),
		report:  make(chan fiberReport[T]),
		wakerFn: wake,
	}
}

func (fb *fiber[T]) run() {
	ctx := &PollCtx{fiber: fb}
	defer func() {
		if r := recover(); r != nil {
			fb.report <- fiberReport[T]{ready: true, panicVal: r}
		}
	}()
	v := fb.body(ctx)
	fb.report <- fiberReport[T]{ready: true, value: v}
}

// step drives the fiber forward to its next yield point or completion,
// starting the underlying goroutine on the first call. It blocks the
// calling worker only for the bounded, non-blocking CPU work the fiber does
// between suspension points — never for real I/O, which always suspends
// via yield instead.
func (fb *fiber[T]) step() (T, bool, any) {
	if !fb.started {
		fb.started = true
		go fb.run()
	} else {
		fb.resume <- struct{}{}
	}
	r := <-fb.report
	return r.value, r.ready, r.panicVal
}

func (fb *fiber[T]) yield() {
	fb.report <- fiberReport[T]{ready: false}
	<-fb.resume
}

func (fb *fiber[T]) waker() func() { return fb.wakerFn }
