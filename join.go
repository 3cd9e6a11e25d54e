package goasync

// JoinHandle is the Go realization of spec.md's Join Handle (C6): a
// single-value receiver paired with the task it observes. Dropping a
// handle before completion is allowed; the result is then silently
// discarded (nothing forces it to be read).
type JoinHandle[T any] struct {
	cell *cell[outcome[T]]
}

func (h JoinHandle[T]) pollWith(waker func()) (T, error, bool) {
	o, ready := h.cell.poll(waker)
	if !ready {
		var zero T
		return zero, nil, false
	}
	if o.panicVal != nil {
		var zero T
		return zero, &JoinError{Cause: o.panicVal}, true
	}
	return o.value, nil, true
}

// TryPoll reports the task's result without blocking and without
// registering for a future wakeup. Used by BlockOn's foreground loop, which
// re-checks unconditionally on every reactor-poll iteration instead.
func (h JoinHandle[T]) TryPoll() (T, error, bool) { return h.pollWith(nil) }

// AwaitJoin suspends the calling fiber until h's task completes, returning
// its value or a *JoinError (matched by errors.Is(err, ErrJoin)) if the
// task panicked.
func AwaitJoin[T any](ctx *PollCtx, h JoinHandle[T]) (T, error) {
	for {
		if v, err, ready := h.pollWith(ctx.Waker()); ready {
			return v, err
		}
		ctx.yield()
	}
}
