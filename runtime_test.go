package goasync

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRuntime(t *testing.T) *Runtime {
	t.Helper()
	rt, err := NewBuilder().WorkerThreads(2).WithPollTimeout(time.Millisecond).Build()
	require.NoError(t, err)
	return rt
}

func TestRuntime_BlockOnReturnsRootValue(t *testing.T) {
	rt := newTestRuntime(t)
	var got int
	err := rt.BlockOn(func(ctx *PollCtx) {
		got = 41 + 1
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestRuntime_SpawnAndAwaitJoin(t *testing.T) {
	rt := newTestRuntime(t)
	var result int
	err := rt.BlockOn(func(ctx *PollCtx) {
		h := SpawnOn(rt, func(ctx *PollCtx) int {
			Await(ctx, Sleep(5*time.Millisecond))
			return 99
		})
		v, joinErr := AwaitJoin(ctx, h)
		assert.NoError(t, joinErr)
		result = v
	})
	require.NoError(t, err)
	assert.Equal(t, 99, result)
}

func TestRuntime_SpawnManyTasksJoinAll(t *testing.T) {
	rt := newTestRuntime(t)
	const n = 50
	err := rt.BlockOn(func(ctx *PollCtx) {
		handles := make([]JoinHandle[int], n)
		for i := 0; i < n; i++ {
			i := i
			handles[i] = SpawnOn(rt, func(ctx *PollCtx) int {
				Await(ctx, Sleep(time.Millisecond))
				return i * 2
			})
		}
		for i, h := range handles {
			v, err := AwaitJoin(ctx, h)
			assert.NoErrorf(t, err, "task %d", i)
			assert.Equalf(t, i*2, v, "task %d", i)
		}
	})
	require.NoError(t, err)
}

func TestRuntime_TaskPanicPropagatesThroughJoinHandle(t *testing.T) {
	rt := newTestRuntime(t)
	var joinErr error
	err := rt.BlockOn(func(ctx *PollCtx) {
		h := SpawnOn(rt, func(ctx *PollCtx) int {
			panic("spawned task exploded")
		})
		_, joinErr = AwaitJoin(ctx, h)
	})
	require.NoError(t, err)
	require.Error(t, joinErr)
	assert.True(t, errors.Is(joinErr, ErrJoin))
}

func TestRuntime_RootPanicIsReraisedFromBlockOn(t *testing.T) {
	rt := newTestRuntime(t)
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected BlockOn to re-panic the root task's panic")
		assert.Equal(t, "root exploded", r)
	}()
	rt.BlockOn(func(ctx *PollCtx) {
		panic("root exploded")
	})
}

func TestRuntime_DoubleRegisterPanics(t *testing.T) {
	rt1 := newTestRuntime(t)
	rt1.Register()
	defer func() {
		assert.NotNil(t, recover(), "expected a second Register to panic")
	}()
	rt2 := newTestRuntime(t)
	rt2.Register()
}

func TestBuilder_NegativeWorkerCountPanics(t *testing.T) {
	defer func() {
		assert.NotNil(t, recover(), "expected a negative worker count to panic")
	}()
	NewBuilder().WorkerThreads(-1).Build()
}
