//go:build !linux && !darwin

package goasync

import "time"

// unsupportedPoller keeps the package compiling on platforms with no wired
// readiness backend (there is no portable non-blocking readiness-poll
// syscall to fall back to); every operation fails fast with
// ErrUnsupportedPlatform.
type unsupportedPoller struct{}

func newPlatformPoller() (platformPoller, error) {
	return unsupportedPoller{}, ErrUnsupportedPlatform
}

func (unsupportedPoller) add(int, Token, Interest) error { return ErrUnsupportedPlatform }
func (unsupportedPoller) remove(int, Token) error        { return ErrUnsupportedPlatform }
func (unsupportedPoller) poll(time.Duration) ([]polledEvent, error) {
	return nil, ErrUnsupportedPlatform
}
func (unsupportedPoller) close() error { return nil }
