package goasync

import (
	"sync"
	"sync/atomic"
)

// Pool is a fixed-size set of worker goroutines draining a jobQueue. A
// worker that panics is replaced rather than allowed to shrink the pool;
// the panic count is surfaced only once, at Join.
type Pool struct {
	queue    *jobQueue
	logger   Logger
	mu       sync.Mutex
	workers  map[int64]struct{}
	nextID   int64
	wg       sync.WaitGroup
	panicked atomic.Int32
	joinOnce sync.Once
	joinErr  error
}

// NewPool starts n workers draining jobs submitted via Spawn.
func NewPool(n int, logger Logger) *Pool {
	if logger == nil {
		logger = NoOpLogger{}
	}
	p := &Pool{
		queue:   newJobQueue(),
		logger:  logger,
		workers: make(map[int64]struct{}, n),
	}
	for i := 0; i < n; i++ {
		p.startWorker()
	}
	return p
}

// Spawn submits a job for a worker to run. Safe for concurrent use, and
// safe to call from within a running job (a task waking itself).
func (p *Pool) Spawn(j Job) { p.queue.add(j) }

// PanicCount reports how many worker goroutines have panicked and been
// replaced so far. Diagnostic only — it never changes Join's contract.
func (p *Pool) PanicCount() int { return int(p.panicked.Load()) }

func (p *Pool) startWorker() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.workers[id] = struct{}{}
	p.mu.Unlock()

	p.wg.Add(1)
	go p.workerRoutine(id)
}

// workerRoutine drains jobs until the queue finishes. A panicking job is
// contained here: the panic is recovered, the dying worker's bookkeeping
// entry is removed, a replacement is started, and the panic count is
// incremented — the job itself is simply lost, matching spec.md's policy
// that a worker-thread panic must not bring down the pool.
func (p *Pool) workerRoutine(id int64) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Log(Entry{Level: LevelError, Message: "worker panicked", Fields: map[string]any{"worker_id": id, "panic": r}})
			p.panicked.Add(1)
			p.mu.Lock()
			delete(p.workers, id)
			p.mu.Unlock()
			p.startWorker()
		}
		p.wg.Done()
	}()

	for {
		j, ok := p.queue.dequeueBlocking()
		if !ok {
			p.mu.Lock()
			delete(p.workers, id)
			p.mu.Unlock()
			return
		}
		j()
	}
}

// Join signals completion, waits for every worker (including any
// replacements spawned while draining) to exit, and returns the aggregate
// panic count. Idempotent: the first call computes the result, every
// subsequent call replays it.
func (p *Pool) Join() error {
	p.joinOnce.Do(func() {
		p.queue.finish()
		p.wg.Wait()
		if n := p.panicked.Load(); n > 0 {
			p.joinErr = PanickedWorkers(n)
		}
	})
	return p.joinErr
}

// WorkerCount reports the number of currently live worker goroutines
// (diagnostic only; fluctuates as panicking workers are replaced).
func (p *Pool) WorkerCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.workers)
}
