package goasync

import (
	"errors"
	"fmt"
)

// ErrCapacity is returned by Reactor registration when the source slab is
// already at capacity.
var ErrCapacity = errors.New("goasync: reactor slab at capacity")

// ErrUnsupportedPlatform is returned by newPlatformPoller on a GOOS with no
// epoll/kqueue backend wired in.
var ErrUnsupportedPlatform = errors.New("goasync: no reactor poller backend for this platform")

// IOError wraps an OS error encountered during a reactor or socket
// operation, naming the operation that failed.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string { return fmt.Sprintf("goasync: %s: %v", e.Op, e.Err) }

func (e *IOError) Unwrap() error { return e.Err }

// errJoinLost is the sentinel matched by errors.Is(err, ErrJoin).
var errJoinLost = errors.New("goasync: join handle result unavailable")

// ErrJoin is the sentinel a JoinHandle's error satisfies errors.Is against,
// regardless of whether the underlying task panicked or was simply dropped
// before completion.
var ErrJoin = errJoinLost

// JoinError reports that a JoinHandle could not produce its task's value.
// Cause holds the recovered panic value when the task panicked; it is nil
// when the result was otherwise lost.
type JoinError struct {
	Cause any
}

func (e *JoinError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("goasync: task panicked: %v", e.Cause)
	}
	return "goasync: task result lost"
}

func (e *JoinError) Is(target error) bool { return target == errJoinLost }

func (e *JoinError) Unwrap() error {
	if err, ok := e.Cause.(error); ok {
		return err
	}
	return nil
}

// PanickedWorkers is returned by Pool.Join/Runtime.BlockOn when one or more
// worker goroutines panicked during the pool's lifetime.
type PanickedWorkers int

func (p PanickedWorkers) Error() string {
	return fmt.Sprintf("goasync: %d worker(s) panicked", int(p))
}

// FatalError marks a misuse condition spec.md's error taxonomy treats as
// fatal: a double Register, spawning after BlockOn has returned, a negative
// worker count, or a reactor poll failure with no recovery path. goasync
// surfaces these as panics, rather than os.Exit, so callers (and tests)
// retain the ability to recover.
type FatalError struct {
	Msg string
}

func (e *FatalError) Error() string { return "goasync: fatal: " + e.Msg }
