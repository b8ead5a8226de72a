package pool

import "context"

// Config for a worker pool
type Config[J, R any] struct {
	// Size of the pool
	Size int
	// JobQueueLimit is the number of jobs that may wait for a free worker; 0 rejects as soon as all workers are busy
	JobQueueLimit int
	// HandlePanic for jobs that fail with panic
	HandlePanic bool
	// Worker of the pool
	Worker func(context.Context, J) (R, error)
}

// DefaultConfig returns a new Config[J, R] that never queues jobs
func DefaultConfig[J, R any](size int, worker func(ctx context.Context, job J) (R, error)) *Config[J, R] {
	return &Config[J, R]{
		Size:          size,
		JobQueueLimit: 0,
		HandlePanic:   true,
		Worker:        worker,
	}
}

// NewConfig returns a new Config[J, R]
func NewConfig[J, R any](size, jobQueueLimit int, handlePanic bool, worker func(ctx context.Context, job J) (R, error)) *Config[J, R] {
	return &Config[J, R]{
		Size:          size,
		JobQueueLimit: jobQueueLimit,
		HandlePanic:   handlePanic,
		Worker:        worker,
	}
}
