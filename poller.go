package goasync

import "time"

// polledEvent is one readiness notification as reported by a platformPoller,
// keyed by the Token it was registered under.
type polledEvent struct {
	Token    Token
	Interest Interest
}

// platformPoller is the OS-specific readiness notifier a Reactor drives.
// Implementations live in poller_linux.go (epoll), poller_darwin.go
// (kqueue), and poller_other.go (unsupported-platform stub). Interest for
// a registered fd is fixed at add time — the reactor never reregisters a
// source with a different interest mask, so there is no modify method.
type platformPoller interface {
	add(fd int, tok Token, interest Interest) error
	remove(fd int, tok Token) error
	poll(timeout time.Duration) ([]polledEvent, error)
	close() error
}
