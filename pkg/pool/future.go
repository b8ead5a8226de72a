package pool

import (
	"context"
	"sync"
)

// Future is the eventual result of a submitted job
type Future[R any] struct {
	done   chan struct{}
	once   sync.Once
	result R
	err    error
}

// NewFuture returns an unresolved future
func NewFuture[R any]() *Future[R] {
	return &Future[R]{
		done: make(chan struct{}),
	}
}

// CompletedFuture returns a future that is already resolved
func CompletedFuture[R any](result R, err error) *Future[R] {
	f := NewFuture[R]()
	f.Complete(result, err)
	return f
}

// Complete resolves the future; only the first call has effect
func (f *Future[R]) Complete(result R, err error) (completed bool) {
	f.once.Do(func() {
		f.result = result
		f.err = err
		close(f.done)
		completed = true
	})
	return
}

// Done is closed once the future is resolved
func (f *Future[R]) Done() <-chan struct{} {
	return f.done
}

// IsDone returns true if the future is resolved
func (f *Future[R]) IsDone() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

// Get waits for the result or for ctx to end
func (f *Future[R]) Get(ctx context.Context) (result R, err error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		return result, ctx.Err()
	}
}
