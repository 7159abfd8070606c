package resource

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_NilIsValid(t *testing.T) {
	var c *Controller

	ctx := context.Background()
	require.NoError(t, c.AcquireMemory(ctx, 1<<20))
	c.ReleaseMemory(1 << 20)
	assert.Equal(t, int64(0), c.MemoryUsage())

	require.NoError(t, c.AcquireBackground(ctx))
	c.ReleaseBackground()
	assert.True(t, c.TryAcquireBackground())

	require.NoError(t, c.AcquireIO(ctx, 1<<20))
}

func TestController_MemoryTracking(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 1024})
	ctx := context.Background()

	require.NoError(t, c.AcquireMemory(ctx, 512))
	assert.Equal(t, int64(512), c.MemoryUsage())

	require.NoError(t, c.AcquireMemory(ctx, 512))
	assert.Equal(t, int64(1024), c.MemoryUsage())

	// Over the limit: blocks until released or canceled.
	timeoutCtx, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, c.AcquireMemory(timeoutCtx, 1), context.DeadlineExceeded)

	c.ReleaseMemory(1024)
	assert.Equal(t, int64(0), c.MemoryUsage())
}

func TestController_WorkerSlots(t *testing.T) {
	c := NewController(Config{MaxWorkers: 2})

	require.True(t, c.TryAcquireBackground())
	require.True(t, c.TryAcquireBackground())
	assert.False(t, c.TryAcquireBackground())

	c.ReleaseBackground()
	assert.True(t, c.TryAcquireBackground())

	c.ReleaseBackground()
	c.ReleaseBackground()
}

func TestController_BackgroundBlocksUntilRelease(t *testing.T) {
	c := NewController(Config{MaxWorkers: 1})
	ctx := context.Background()

	require.NoError(t, c.AcquireBackground(ctx))

	done := make(chan error, 1)
	go func() {
		done <- c.AcquireBackground(ctx)
	}()

	select {
	case <-done:
		t.Fatal("second acquire should block")
	case <-time.After(10 * time.Millisecond):
	}

	c.ReleaseBackground()
	require.NoError(t, <-done)
	c.ReleaseBackground()
}

func TestRateLimitedWriter(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})
	ctx := context.Background()

	var buf bytes.Buffer
	w := NewRateLimitedWriter(ctx, &buf, c)

	n, err := w.Write([]byte("snapshot"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, "snapshot", buf.String())
}

func TestRateLimitedReader(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1 << 20})
	ctx := context.Background()

	r := NewRateLimitedReader(ctx, bytes.NewReader([]byte("snapshot")), c)

	p := make([]byte, 8)
	n, err := r.Read(p)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, "snapshot", string(p))
}

func TestRateLimited_CanceledContext(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	w := NewRateLimitedWriter(ctx, &buf, c)
	_, err := w.Write([]byte("snapshot"))
	assert.Error(t, err)
}
