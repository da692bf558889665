package settle_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"ianct-client/pkg/settle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll_WaitsForEveryTask(t *testing.T) {
	var finished atomic.Int32
	boom := errors.New("boom")

	out := settle.All(context.Background(),
		func(ctx context.Context) error {
			time.Sleep(30 * time.Millisecond)
			finished.Add(1)
			return nil
		},
		func(ctx context.Context) error {
			finished.Add(1)
			return boom
		},
		func(ctx context.Context) error {
			time.Sleep(10 * time.Millisecond)
			finished.Add(1)
			return nil
		},
	)

	require.Len(t, out, 3)
	assert.Equal(t, int32(3), finished.Load())
	assert.True(t, out.Ok(0))
	assert.False(t, out.Ok(1))
	assert.True(t, out.Ok(2))
	assert.Equal(t, []int{1}, out.Failed())
	assert.ErrorIs(t, out.FirstError(), boom)
}

func TestAll_RecoversPanics(t *testing.T) {
	out := settle.All(context.Background(),
		func(ctx context.Context) error { panic("bad slot") },
		func(ctx context.Context) error { return nil },
	)

	require.Error(t, out[0])
	assert.Contains(t, out[0].Error(), "bad slot")
	assert.NoError(t, out[1])
}

func TestAll_Empty(t *testing.T) {
	out := settle.All(context.Background())
	assert.Empty(t, out)
	assert.NoError(t, out.FirstError())
	assert.False(t, out.Ok(0))
}

func TestLimit_BoundsTasksInFlight(t *testing.T) {
	var running, peak atomic.Int32
	task := func(ctx context.Context) error {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		running.Add(-1)
		return nil
	}

	out := settle.Limit(context.Background(), 2, task, task, task, task, task)

	require.Len(t, out, 5)
	assert.Empty(t, out.Failed())
	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Positive(t, peak.Load())
}

func TestLimit_ZeroMeansUnbounded(t *testing.T) {
	release := make(chan struct{})
	var started atomic.Int32
	task := func(ctx context.Context) error {
		started.Add(1)
		<-release
		return nil
	}

	done := make(chan settle.Outcomes)
	go func() { done <- settle.Limit(context.Background(), 0, task, task, task) }()

	assert.Eventually(t, func() bool { return started.Load() == 3 }, time.Second, 5*time.Millisecond)
	close(release)
	out := <-done
	assert.Len(t, out, 3)
	assert.NoError(t, out.FirstError())
}
