package goasync

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"
)

// Runtime is the Go realization of spec.md's Runtime Facade (C7): it owns a
// Worker Pool and a Reactor, and exposes Spawn/BlockOn either as methods or,
// once Registered, as package-level functions routed through a global slot.
type Runtime struct {
	pool       *Pool
	reactor    *Reactor
	logger     Logger
	terminated atomic.Bool
	nextTaskID atomic.Int64
}

// Builder configures and constructs a Runtime.
type Builder struct {
	workerThreads int
	pollTimeout   time.Duration
	logger        Logger
}

// NewBuilder returns a Builder with spec.md's defaults: worker count equal
// to runtime.NumCPU() and a 1ms reactor poll timeout.
func NewBuilder() *Builder { return &Builder{} }

// WorkerThreads sets the pool size. 0 (the default) means runtime.NumCPU().
func (b *Builder) WorkerThreads(n int) *Builder {
	b.workerThreads = n
	return b
}

// WithLogger installs a structured Logger for lifecycle/error events (worker
// panics, reactor errors, task panics). Defaults to a no-op logger.
func (b *Builder) WithLogger(l Logger) *Builder {
	b.logger = l
	return b
}

// WithPollTimeout overrides the reactor's blocking-poll duration. Testing
// knob only — production code should rely on the 1ms default.
func (b *Builder) WithPollTimeout(d time.Duration) *Builder {
	b.pollTimeout = d
	return b
}

// Build starts the worker pool and the reactor.
func (b *Builder) Build() (*Runtime, error) {
	if b.workerThreads < 0 {
		panic(&FatalError{Msg: "worker thread count must not be negative"})
	}
	n := b.workerThreads
	if n == 0 {
		n = runtime.NumCPU()
	}
	logger := b.logger
	if logger == nil {
		logger = NoOpLogger{}
	}
	reactor, err := newReactor(b.pollTimeout, logger)
	if err != nil {
		return nil, err
	}
	pool := NewPool(n, logger)
	return &Runtime{pool: pool, reactor: reactor, logger: logger}, nil
}

func (rt *Runtime) checkLive() {
	if rt.terminated.Load() {
		panic(&FatalError{Msg: "use of runtime after BlockOn returned"})
	}
}

var globalRuntime atomic.Pointer[Runtime]

// Register installs rt as the process-wide runtime used by the package-
// level Spawn/BlockOn functions. Fatal (panics) if called twice.
func (rt *Runtime) Register() {
	if !globalRuntime.CompareAndSwap(nil, rt) {
		panic(&FatalError{Msg: "runtime already registered"})
	}
}

func currentRuntime() *Runtime {
	rt := globalRuntime.Load()
	if rt == nil {
		panic(&FatalError{Msg: "no runtime registered; call Runtime.Register first"})
	}
	return rt
}

// SpawnOn builds a task from body (ordinary sequential Go code, using
// Await to suspend) and submits its initial poll to rt's pool, returning a
// JoinHandle for its eventual result.
func SpawnOn[T any](rt *Runtime, body func(ctx *PollCtx) T) JoinHandle[T] {
	rt.checkLive()
	id := rt.nextTaskID.Add(1)
	c := &cell[outcome[T]]{}
	t := &task[T]{rt: rt, id: id}
	t.wake = func() { rt.pool.Spawn(t.poll) }
	t.fb = newFiber(body, t.wake)
	t.onDone = func(o outcome[T]) {
		if o.panicVal != nil {
			rt.logger.Log(Entry{Level: LevelError, Message: "task panicked", Fields: map[string]any{"task_id": id, "panic": o.panicVal}})
		}
		c.set(o)
	}
	t.wake()
	return JoinHandle[T]{cell: c}
}

// SpawnFutureOn submits a leaf Awaitable directly, without wrapping it in a
// fiber — for hand-written steppers that don't need sequential Await sugar.
func SpawnFutureOn[T any](rt *Runtime, f Awaitable[T]) JoinHandle[T] {
	return SpawnOn(rt, func(ctx *PollCtx) T { return Await(ctx, f) })
}

// Spawn submits body to the globally registered runtime (see Register).
func Spawn[T any](body func(ctx *PollCtx) T) JoinHandle[T] {
	return SpawnOn(currentRuntime(), body)
}

// BlockOn runs body as the root task, driving the reactor in the
// foreground until it (and everything it transitively spawned) has been
// submitted its final poll, then joins the worker pool. It consumes the
// runtime: further Spawn/BlockOn calls against rt panic.
func (rt *Runtime) BlockOn(body func(ctx *PollCtx)) error {
	rt.checkLive()
	jh := SpawnOn(rt, func(ctx *PollCtx) struct{} {
		body(ctx)
		return struct{}{}
	})

	for {
		if _, err, ready := jh.TryPoll(); ready {
			rt.terminated.Store(true)
			joinErr := rt.pool.Join()
			if je, ok := err.(*JoinError); ok {
				panic(je.Cause)
			}
			return joinErr
		}
		if err := rt.reactor.pollEvents(); err != nil {
			panic(&FatalError{Msg: fmt.Sprintf("reactor poll failed: %v", err)})
		}
	}
}

// BlockOn runs body against the globally registered runtime.
func BlockOn(body func(ctx *PollCtx)) error {
	return currentRuntime().BlockOn(body)
}
