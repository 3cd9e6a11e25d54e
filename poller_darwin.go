//go:build darwin

package goasync

import (
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// kqueuePoller is the Darwin/BSD platformPoller, grounded on the teacher's
// FastPoller (poller_darwin.go): kqueue/kevent via golang.org/x/sys/unix.
// kqueue's Ident field is the real fd (not an opaque cookie like epoll's
// data union), so dispatch keeps a fd->Token map rather than stashing the
// token in the kevent itself, mirroring the teacher's fd-indexed fdInfo
// table but keyed by map instead of a fixed-size array.
type kqueuePoller struct {
	kq       int
	mu       sync.Mutex
	tokens   map[int]Token
	eventBuf [256]unix.Kevent_t
}

func newPlatformPoller() (platformPoller, error) {
	kq, err := unix.Kqueue()
	if err != nil {
		return nil, err
	}
	unix.CloseOnExec(kq)
	return &kqueuePoller{kq: kq, tokens: make(map[int]Token)}, nil
}

func (p *kqueuePoller) add(fd int, tok Token, interest Interest) error {
	p.mu.Lock()
	p.tokens[fd] = tok
	p.mu.Unlock()

	kevents := interestToKevents(fd, interest, unix.EV_ADD|unix.EV_ENABLE)
	if len(kevents) == 0 {
		return nil
	}
	if _, err := unix.Kevent(p.kq, kevents, nil, nil); err != nil {
		p.mu.Lock()
		delete(p.tokens, fd)
		p.mu.Unlock()
		return err
	}
	return nil
}

func (p *kqueuePoller) remove(fd int, _ Token) error {
	p.mu.Lock()
	delete(p.tokens, fd)
	p.mu.Unlock()
	kevents := interestToKevents(fd, Readable|Writable, unix.EV_DELETE)
	// Ignore errors: a filter that was never added (e.g. a write-only
	// source) returns ENOENT on delete, which is not actionable.
	_, _ = unix.Kevent(p.kq, kevents, nil, nil)
	return nil
}

func (p *kqueuePoller) poll(timeout time.Duration) ([]polledEvent, error) {
	ts := unix.NsecToTimespec(timeout.Nanoseconds())
	n, err := unix.Kevent(p.kq, nil, p.eventBuf[:], &ts)
	if err != nil {
		if err == unix.EINTR {
			return nil, nil
		}
		return nil, err
	}

	out := make([]polledEvent, 0, n)
	for i := 0; i < n; i++ {
		kev := &p.eventBuf[i]
		fd := int(kev.Ident)
		p.mu.Lock()
		tok, ok := p.tokens[fd]
		p.mu.Unlock()
		if !ok {
			continue
		}
		out = append(out, polledEvent{Token: tok, Interest: keventToInterest(kev)})
	}
	return out, nil
}

func (p *kqueuePoller) close() error { return unix.Close(p.kq) }

func interestToKevents(fd int, interest Interest, flags uint16) []unix.Kevent_t {
	var kevents []unix.Kevent_t
	if interest&Readable != 0 {
		kevents = append(kevents, unix.Kevent_t{Ident: uint64(fd), Filter: unix.EVFILT_READ, Flags: flags})
	}
	if interest&Writable != 0 {
		kevents = append(kevents, unix.Kevent_t{Ident: uint64(fd), Filter: unix.EVFILT_WRITE, Flags: flags})
	}
	return kevents
}

func keventToInterest(kev *unix.Kevent_t) Interest {
	var i Interest
	switch kev.Filter {
	case unix.EVFILT_READ:
		i |= Readable
	case unix.EVFILT_WRITE:
		i |= Writable
	}
	if kev.Flags&unix.EV_ERROR != 0 {
		i |= Error
	}
	if kev.Flags&unix.EV_EOF != 0 {
		i |= ReadClosed | WriteClosed
	}
	return i
}
