package goasync

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsAllJobs(t *testing.T) {
	p := NewPool(4, nil)
	const n = 200
	var count atomic.Int64
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		p.Spawn(func() {
			count.Add(1)
			wg.Done()
		})
	}
	wg.Wait()
	require.NoError(t, p.Join())
	assert.EqualValues(t, n, count.Load())
}

func TestPool_PanicRespawnsWorker(t *testing.T) {
	p := NewPool(2, nil)
	before := p.WorkerCount()

	panicked := make(chan struct{})
	p.Spawn(func() {
		close(panicked)
		panic("boom")
	})
	<-panicked

	deadline := time.Now().Add(time.Second)
	for p.PanicCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	require.Equal(t, 1, p.PanicCount())

	var ran atomic.Bool
	done := make(chan struct{})
	p.Spawn(func() {
		ran.Store(true)
		close(done)
	})
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pool did not resume running jobs after a worker panicked")
	}
	assert.True(t, ran.Load(), "job did not run")

	for p.WorkerCount() != before && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, before, p.WorkerCount(), "expected pool size restored")

	err := p.Join()
	require.Error(t, err, "expected Join to report the panicked worker")
	assert.IsType(t, PanickedWorkers(0), err)
}

func TestPool_JoinIsIdempotent(t *testing.T) {
	p := NewPool(1, nil)
	p.Spawn(func() {})
	err1 := p.Join()
	err2 := p.Join()
	assert.Equal(t, err1, err2, "expected idempotent Join results")
}
