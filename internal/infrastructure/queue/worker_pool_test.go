package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolCancelWithNothingQueuedReportsFalse(t *testing.T) {
	pool := NewPool(1, func(Job) {})
	defer pool.Shutdown()

	cancelled, err := pool.Cancel(context.Background(), "no-such-asset")
	require.NoError(t, err)
	assert.False(t, cancelled)
}

func TestPoolCancelSkipsQueuedJobOnly(t *testing.T) {
	var (
		mu      sync.Mutex
		handled []string
	)
	started := make(chan struct{})
	release := make(chan struct{})

	pool := NewPool(1, func(job Job) {
		mu.Lock()
		handled = append(handled, job.AssetID)
		mu.Unlock()
		if job.AssetID == "a" {
			close(started)
			<-release
		}
	})

	ctx := context.Background()
	require.NoError(t, pool.Enqueue(ctx, Job{AssetID: "a", Type: JobProcess}))
	<-started

	// "b" is still sitting in the channel, "a" is in flight.
	require.NoError(t, pool.Enqueue(ctx, Job{AssetID: "b", Type: JobProcess}))

	cancelled, err := pool.Cancel(ctx, "b")
	require.NoError(t, err)
	assert.True(t, cancelled)

	cancelled, err = pool.Cancel(ctx, "a")
	require.NoError(t, err)
	assert.False(t, cancelled, "an in-flight job must not be cancellable")

	close(release)
	assert.Eventually(t, func() bool {
		return pool.queuedCount("b") == 0
	}, 2*time.Second, 10*time.Millisecond)
	pool.Shutdown()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"a"}, handled)
}

func TestPoolReenqueueClearsCancelMark(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var (
		mu      sync.Mutex
		handled []string
	)

	pool := NewPool(1, func(job Job) {
		mu.Lock()
		handled = append(handled, job.AssetID)
		mu.Unlock()
		if job.AssetID == "block" {
			close(started)
			<-release
		}
	})

	ctx := context.Background()
	require.NoError(t, pool.Enqueue(ctx, Job{AssetID: "block", Type: JobProcess}))
	<-started

	require.NoError(t, pool.Enqueue(ctx, Job{AssetID: "x", Type: JobProcess}))
	cancelled, err := pool.Cancel(ctx, "x")
	require.NoError(t, err)
	require.True(t, cancelled)

	// A fresh enqueue supersedes the earlier cancel request, so neither
	// queued job for the asset is skipped.
	require.NoError(t, pool.Enqueue(ctx, Job{AssetID: "x", Type: JobProcess}))

	close(release)
	assert.Eventually(t, func() bool {
		return pool.queuedCount("x") == 0
	}, 2*time.Second, 10*time.Millisecond)
	pool.Shutdown()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"block", "x", "x"}, handled)
}
