package notify

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsEverySubmittedTask(t *testing.T) {
	t.Parallel()

	p := NewPool(4, nil)

	var count atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		require.NoError(t, p.Submit(func() {
			defer wg.Done()
			count.Add(1)
		}))
	}
	wg.Wait()
	p.Shutdown()

	assert.Equal(t, int64(8), count.Load())
}

func TestPool_FullQueueRejects(t *testing.T) {
	t.Parallel()

	p := NewPool(1, nil)
	defer p.Shutdown()

	blocker := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, p.Submit(func() {
		close(started)
		<-blocker
	}))
	<-started

	require.NoError(t, p.Submit(func() {}))
	require.NoError(t, p.Submit(func() {}))
	assert.ErrorIs(t, p.Submit(func() {}), ErrPoolFull)

	close(blocker)
}

func TestPool_ClosedRejects(t *testing.T) {
	t.Parallel()

	p := NewPool(2, nil)
	p.Shutdown()
	p.Shutdown()

	assert.ErrorIs(t, p.Submit(func() {}), ErrPoolClosed)
}

func TestPool_SurvivesPanic(t *testing.T) {
	t.Parallel()

	p := NewPool(1, nil)
	defer p.Shutdown()

	require.NoError(t, p.Submit(func() { panic("boom") }))

	done := make(chan struct{})
	require.NoError(t, p.Submit(func() { close(done) }))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not recover from panic")
	}
}

func TestPool_ShutdownDrainsQueue(t *testing.T) {
	t.Parallel()

	p := NewPool(1, nil)

	var count atomic.Int64
	for i := 0; i < 2; i++ {
		require.NoError(t, p.Submit(func() {
			time.Sleep(5 * time.Millisecond)
			count.Add(1)
		}))
	}
	p.Shutdown()

	assert.Equal(t, int64(2), count.Load())
}
