package resource

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_Memory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 100})

	assert.True(t, c.TryAcquireMemory(50))
	assert.True(t, c.TryAcquireMemory(40))
	assert.Equal(t, int64(90), c.MemoryUsage())

	// Over the limit.
	assert.False(t, c.TryAcquireMemory(20))
	assert.Equal(t, int64(90), c.MemoryUsage())

	// Forced admission ignores the limit.
	c.AcquireMemory(20)
	assert.Equal(t, int64(110), c.MemoryUsage())

	c.ReleaseMemory(60)
	assert.Equal(t, int64(50), c.MemoryUsage())
	assert.True(t, c.TryAcquireMemory(20))

	// Non-positive sizes are ignored.
	c.ReleaseMemory(-5)
	c.AcquireMemory(0)
	assert.Equal(t, int64(70), c.MemoryUsage())
}

func TestController_Workers(t *testing.T) {
	c := NewController(Config{MaxWorkers: 2})
	assert.Equal(t, 2, c.MaxWorkers())

	ctx := context.Background()
	require.NoError(t, c.AcquireWorker(ctx))
	require.NoError(t, c.AcquireWorker(ctx))
	assert.False(t, c.TryAcquireWorker())

	tctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireWorker(tctx), context.DeadlineExceeded)

	c.ReleaseWorker()
	assert.True(t, c.TryAcquireWorker())
	c.ReleaseWorker()
	c.ReleaseWorker()
}

func TestController_WorkersBoundConcurrency(t *testing.T) {
	c := NewController(Config{MaxWorkers: 3})

	var running, peak atomic.Int64
	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, c.AcquireWorker(context.Background()))
			defer c.ReleaseWorker()

			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			running.Add(-1)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int64(3))
}

func TestController_IO(t *testing.T) {
	ctx := context.Background()

	t.Run("Unlimited", func(t *testing.T) {
		c := NewController(Config{})
		require.NoError(t, c.AcquireIO(ctx, 1<<30))
	})

	t.Run("LargerThanBurst", func(t *testing.T) {
		c := NewController(Config{IOLimitBytesPerSec: 1 << 20})
		// Two bursts: the first is immediate, the rest is admitted in chunks.
		require.NoError(t, c.AcquireIO(ctx, 1<<20+minIOBurst))
	})

	t.Run("Canceled", func(t *testing.T) {
		c := NewController(Config{IOLimitBytesPerSec: 1024})
		require.NoError(t, c.AcquireIO(ctx, minIOBurst))

		cctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		defer cancel()
		assert.Error(t, c.AcquireIO(cctx, minIOBurst))
	})
}

func TestController_Nil(t *testing.T) {
	var c *Controller
	ctx := context.Background()

	require.NoError(t, c.AcquireWorker(ctx))
	assert.True(t, c.TryAcquireWorker())
	c.ReleaseWorker()
	require.NoError(t, c.AcquireIO(ctx, 1<<30))
	assert.True(t, c.TryAcquireMemory(1<<40))
	c.AcquireMemory(1)
	c.ReleaseMemory(1)
	assert.Equal(t, int64(0), c.MemoryUsage())
	assert.Positive(t, c.MaxWorkers())
	assert.Equal(t, Config{}, c.Config())
}
