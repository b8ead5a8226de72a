package pool

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewPool(t *testing.T) {

	t.Run("ReturnsErrorIfSizeIsZero", func(t *testing.T) {

		// act
		_, err := NewPool(DefaultConfig(0, func(ctx context.Context, job int) (int, error) { return job, nil }))

		assert.NotNil(t, err)
	})

	t.Run("ReturnsErrorIfWorkerIsNil", func(t *testing.T) {

		// act
		_, err := NewPool[int, int](DefaultConfig[int, int](1, nil))

		assert.NotNil(t, err)
	})
}

func TestSubmit(t *testing.T) {

	t.Run("ResolvesFutureWithWorkerResult", func(t *testing.T) {

		p, err := NewPool(DefaultConfig(2, func(ctx context.Context, job int) (int, error) { return job * 2, nil }))
		assert.Nil(t, err)
		defer p.Close()

		// act
		future, err := p.Submit(context.Background(), 21)

		assert.Nil(t, err)
		result, err := future.Get(context.Background())
		assert.Nil(t, err)
		assert.Equal(t, 42, result)
	})

	t.Run("ResolvesFutureWithWorkerError", func(t *testing.T) {

		workerErr := errors.New("build broke")
		p, err := NewPool(DefaultConfig(1, func(ctx context.Context, job int) (int, error) { return 0, workerErr }))
		assert.Nil(t, err)
		defer p.Close()

		// act
		future, err := p.Submit(context.Background(), 1)

		assert.Nil(t, err)
		_, err = future.Get(context.Background())
		assert.True(t, errors.Is(err, workerErr))
	})

	t.Run("ReturnsErrPoolFullWhenAllWorkersAreBusy", func(t *testing.T) {

		release := make(chan struct{})
		p, err := NewPool(DefaultConfig(2, func(ctx context.Context, job int) (int, error) {
			<-release
			return job, nil
		}))
		assert.Nil(t, err)
		defer p.Close()
		defer close(release)

		_, err = p.Submit(context.Background(), 1)
		assert.Nil(t, err)
		_, err = p.Submit(context.Background(), 2)
		assert.Nil(t, err)

		// act
		_, err = p.Submit(context.Background(), 3)

		assert.True(t, errors.Is(err, ErrPoolFull))
		assert.False(t, p.HasCapacity())
		assert.Eventually(t, func() bool { return p.ActiveCount() == 2 }, time.Second, 10*time.Millisecond)
	})

	t.Run("AcceptsJobsAgainOnceAWorkerIsFree", func(t *testing.T) {

		release := make(chan struct{}, 1)
		p, err := NewPool(DefaultConfig(1, func(ctx context.Context, job int) (int, error) {
			<-release
			return job, nil
		}))
		assert.Nil(t, err)
		defer p.Close()

		future, err := p.Submit(context.Background(), 1)
		assert.Nil(t, err)
		release <- struct{}{}
		_, err = future.Get(context.Background())
		assert.Nil(t, err)
		assert.Eventually(t, p.HasCapacity, time.Second, 10*time.Millisecond)

		// act
		future, err = p.Submit(context.Background(), 2)

		assert.Nil(t, err)
		release <- struct{}{}
		result, err := future.Get(context.Background())
		assert.Nil(t, err)
		assert.Equal(t, 2, result)
	})

	t.Run("QueuesUpToJobQueueLimit", func(t *testing.T) {

		release := make(chan struct{})
		p, err := NewPool(NewConfig(1, 1, true, func(ctx context.Context, job int) (int, error) {
			<-release
			return job, nil
		}))
		assert.Nil(t, err)
		defer p.Close()
		defer close(release)

		_, err = p.Submit(context.Background(), 1)
		assert.Nil(t, err)

		// act
		_, errQueued := p.Submit(context.Background(), 2)
		_, errRejected := p.Submit(context.Background(), 3)

		assert.Nil(t, errQueued)
		assert.True(t, errors.Is(errRejected, ErrPoolFull))
		assert.Equal(t, 2, p.PendingCount())
	})

	t.Run("ResolvesFutureWithErrWorkerPanicWhenHandlingPanics", func(t *testing.T) {

		p, err := NewPool(DefaultConfig(1, func(ctx context.Context, job int) (int, error) { panic("boom") }))
		assert.Nil(t, err)
		defer p.Close()

		// act
		future, err := p.Submit(context.Background(), 1)

		assert.Nil(t, err)
		_, err = future.Get(context.Background())
		assert.True(t, errors.Is(err, ErrWorkerPanic))
		assert.Eventually(t, p.HasCapacity, time.Second, 10*time.Millisecond)
	})

	t.Run("ReturnsErrPoolClosedAfterClose", func(t *testing.T) {

		p, err := NewPool(DefaultConfig(1, func(ctx context.Context, job int) (int, error) { return job, nil }))
		assert.Nil(t, err)
		p.Close()

		// act
		_, err = p.Submit(context.Background(), 1)

		assert.True(t, errors.Is(err, ErrPoolClosed))
	})
}

func TestFuture(t *testing.T) {

	t.Run("KeepsFirstCompletion", func(t *testing.T) {

		future := NewFuture[string]()

		// act
		first := future.Complete("first", nil)
		second := future.Complete("second", nil)

		assert.True(t, first)
		assert.False(t, second)
		result, _ := future.Get(context.Background())
		assert.Equal(t, "first", result)
	})

	t.Run("GetReturnsContextErrorIfNotResolvedInTime", func(t *testing.T) {

		future := NewFuture[string]()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		// act
		_, err := future.Get(ctx)

		assert.True(t, errors.Is(err, context.DeadlineExceeded))
		assert.False(t, future.IsDone())
	})
}
