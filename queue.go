package goasync

import "sync"

// Job is a unit of work submitted to a Pool: a task's initial poll, a
// rescheduled poll after a wake, or any other closure a worker should run.
type Job func()

// jobQueue is the blocking MPMC queue behind the Worker Pool. The lock is
// held across the empty-check-and-park sequence in dequeueBlocking, so a
// concurrent add/finish can never interleave between a worker's "is it
// empty" check and it actually parking on the condition variable — the
// classic lost-wakeup hazard.
type jobQueue struct {
	mu       sync.Mutex
	notEmpty sync.Cond
	jobs     []Job
	finished bool
}

func newJobQueue() *jobQueue {
	q := &jobQueue{}
	q.notEmpty.L = &q.mu
	return q
}

// add appends a job and wakes one parked worker. Once finish has been
// called, add is a no-op — the job is dropped rather than queued.
func (q *jobQueue) add(j Job) {
	q.mu.Lock()
	if q.finished {
		q.mu.Unlock()
		return
	}
	q.jobs = append(q.jobs, j)
	q.mu.Unlock()
	q.notEmpty.Signal()
}

// finish marks the queue as finished and wakes every parked worker. Workers
// still drain whatever is already queued before observing finished and
// exiting — finish is not a discard.
func (q *jobQueue) finish() {
	q.mu.Lock()
	q.finished = true
	q.mu.Unlock()
	q.notEmpty.Broadcast()
}

// dequeueBlocking returns the next job, parking the calling worker until one
// is available. It returns ok=false only once the queue is both finished
// and drained.
func (q *jobQueue) dequeueBlocking() (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.jobs) == 0 {
		if q.finished {
			return nil, false
		}
		q.notEmpty.Wait()
	}
	j := q.jobs[0]
	q.jobs = q.jobs[1:]
	return j, true
}
