package goasync

import (
	"errors"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// eventSinkCapacity bounds how many undelivered events a sink will hold
// before new ones are silently dropped (best-effort, matching the
// reactor's best-effort dispatch contract).
const eventSinkCapacity = 16

// eventSink is the bounded, single-consumer readiness receiver owned by one
// registered source. A plain buffered channel cannot support the
// drain/stash semantics spec.md's armed/disarmed state machine needs — two
// directions (read and write) share one sink, and an event meant for the
// other direction must be recorded rather than consumed by whichever side
// happens to be draining — so this is a small mutex-guarded queue with a
// single pending-waker slot instead, playing the same role as a oneshot
// mpsc receiver that reports "no event now, call me back".
type eventSink struct {
	mu    sync.Mutex
	queue []Event
	waker func()
}

func newEventSink() *eventSink { return &eventSink{} }

func (s *eventSink) push(e Event) {
	s.mu.Lock()
	var w func()
	if len(s.queue) < eventSinkCapacity {
		s.queue = append(s.queue, e)
		w, s.waker = s.waker, nil
	}
	s.mu.Unlock()
	if w != nil {
		w()
	}
}

func (s *eventSink) tryRecv() (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return Event{}, false
	}
	e := s.queue[0]
	s.queue = s.queue[1:]
	return e, true
}

func (s *eventSink) setWaker(w func()) {
	s.mu.Lock()
	s.waker = w
	s.mu.Unlock()
}

type ioDirection int

const (
	dirRead ioDirection = iota
	dirWrite
)

// source is the non-blocking readiness adapter spec.md §4.4 describes: it
// owns the OS handle and tracks an armed/disarmed flag per direction.
type source struct {
	fd      int
	token   Token
	reactor *Reactor
	sink    *eventSink
	armed   [2]bool
	closed  atomic.Bool
}

// Close deregisters the source from its reactor. Does not close the fd —
// callers own that separately (see TcpStream.Close/TcpListener.Close).
func (s *source) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.reactor.deregister(s.fd, s.token)
}

// pollSource drives the readiness pattern from spec.md §4.4 for one
// direction of one source: attempt the syscall while armed; on WouldBlock,
// disarm and drain the sink once before reporting Pending; while disarmed,
// drain until a matching event arms this direction or the sink genuinely
// has nothing — at which point a WouldBlock yields Pending, never
// Ready(Ok(0)), per the correction spec.md §9 makes to the original.
//
// It is a free function, not a method, because it is generic over the
// attempt's result type (Go forbids type parameters on methods) — used for
// byte counts (read/write) and for accept's (*TcpStream, net.Addr) pair
// alike.
func pollSource[R any](s *source, dir ioDirection, waker func(), attempt func() (R, error)) (R, bool, error) {
	for {
		if s.armed[dir] {
			v, err := attempt()
			if err == nil {
				return v, true, nil
			}
			if !isWouldBlock(err) {
				var zero R
				return zero, true, err
			}
			s.armed[dir] = false
			if s.drain(dir, waker) {
				continue
			}
			var zero R
			return zero, false, nil
		}
		if s.drain(dir, waker) {
			continue
		}
		var zero R
		return zero, false, nil
	}
}

// drain pulls events from the sink until one arms dir or the sink is empty.
// On empty, it registers waker (re-checking once afterward to close the
// lost-wakeup window between the empty read and the registration taking
// effect) and returns false.
func (s *source) drain(dir ioDirection, waker func()) bool {
	for {
		ev, ok := s.sink.tryRecv()
		if !ok {
			s.sink.setWaker(waker)
			ev, ok = s.sink.tryRecv()
			if !ok {
				return false
			}
			s.sink.setWaker(nil)
		}
		if s.applyEvent(dir, ev) {
			return true
		}
	}
}

func (s *source) applyEvent(dir ioDirection, ev Event) bool {
	if (dir == dirRead && ev.Is(Readable)) || (dir == dirWrite && ev.Is(Writable)) {
		s.armed[dir] = true
		return true
	}
	other := dirWrite
	if dir == dirWrite {
		other = dirRead
	}
	if (other == dirRead && ev.Is(Readable)) || (other == dirWrite && ev.Is(Writable)) {
		s.armed[other] = true
	}
	return false
}

func isWouldBlock(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK)
}
