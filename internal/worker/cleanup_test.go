package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeDeleter struct {
	calls   atomic.Int32
	deleted int64
	err     error
}

func (f *fakeDeleter) DeleteExpired(context.Context) (int64, error) {
	f.calls.Add(1)
	return f.deleted, f.err
}

func TestNewCleanupJob_DefaultInterval(t *testing.T) {
	job := NewCleanupJob(&fakeDeleter{}, 0, zap.NewNop())
	assert.Equal(t, 5*time.Minute, job.Interval)
}

func TestCleanupJob_RunOnce(t *testing.T) {
	t.Run("deletes expired challenges", func(t *testing.T) {
		store := &fakeDeleter{deleted: 3}
		job := NewCleanupJob(store, time.Minute, zap.NewNop())

		require.NoError(t, job.RunOnce(context.Background()))
		assert.Equal(t, int32(1), store.calls.Load())
	})

	t.Run("store error is logged and returned", func(t *testing.T) {
		core, logs := observer.New(zap.ErrorLevel)
		store := &fakeDeleter{err: errors.New("connection refused")}
		job := NewCleanupJob(store, time.Minute, zap.New(core))

		err := job.RunOnce(context.Background())
		assert.ErrorContains(t, err, "connection refused")
		assert.Equal(t, 1, logs.FilterMessage("Challenge cleanup failed").Len())
	})
}

func TestCleanupJob_StartSweepsUntilCancelled(t *testing.T) {
	store := &fakeDeleter{err: errors.New("transient")}
	job := NewCleanupJob(store, 2*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return store.calls.Load() >= 3 }, time.Second, time.Millisecond,
		"errors do not stop the loop")

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
