package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

var (
	// ErrPoolFull is returned when all workers are busy and the job queue is full
	ErrPoolFull = errors.New("pool is full")
	// ErrPoolClosed is returned when submitting to a closed pool
	ErrPoolClosed = errors.New("pool is closed")
	// ErrWorkerPanic resolves the future of a job that panicked
	ErrWorkerPanic = errors.New("worker panicked")
)

// Pool to manage, interact with worker pool
type Pool[J, R any] interface {
	// Submit hands a job to the pool without blocking; it fails with ErrPoolFull when saturated
	Submit(ctx context.Context, job J) (*Future[R], error)
	// ActiveCount returns the number of jobs being worked on
	ActiveCount() int
	// PendingCount returns the number of jobs accepted but not yet finished
	PendingCount() int
	// HasCapacity returns true if Submit would currently accept a job
	HasCapacity() bool
	// Close stops accepting jobs and waits for the workers to finish
	Close()
}

type submission[J, R any] struct {
	ctx    context.Context
	job    J
	future *Future[R]
}

type boundedPool[J, R any] struct {
	*Config[J, R]
	// closeMutex guards sends on jobs against Close
	closeMutex sync.RWMutex
	mutex      sync.Mutex
	pending    int
	active     int
	closed     bool
	jobs       chan submission[J, R]
	wg         sync.WaitGroup
}

// NewPool creates new instance of worker pool and starts workers
func NewPool[J, R any](config *Config[J, R]) (Pool[J, R], error) {
	p := &boundedPool[J, R]{
		Config: config,
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	p.startPool(make(chan submission[J, R], p.JobQueueLimit))
	return p, nil
}

func (p *boundedPool[J, R]) validate() error {
	if p.Size <= 0 {
		return errors.New("expected pool size to be more than 0")
	}
	if p.JobQueueLimit < 0 {
		return errors.New("expected JobQueueLimit to be 0 or more")
	}
	if p.Worker == nil {
		return fmt.Errorf("expected worker func to be not nil")
	}
	return nil
}

func (p *boundedPool[J, R]) startPool(jobs chan submission[J, R]) {
	p.jobs = jobs
	for index := 0; index < p.Size; index++ {
		p.wg.Add(1)
		go p.startWorker()
	}
}

func (p *boundedPool[J, R]) startWorker() {
	defer p.wg.Done()
	for s := range p.jobs {
		p.run(s)
	}
}

func (p *boundedPool[J, R]) run(s submission[J, R]) {
	p.mutex.Lock()
	p.active++
	p.mutex.Unlock()

	defer func() {
		p.mutex.Lock()
		p.active--
		p.pending--
		p.mutex.Unlock()
	}()

	if p.HandlePanic {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Msgf("panic in worker: %+v", r)
				var zero R
				s.future.Complete(zero, fmt.Errorf("%w: %v", ErrWorkerPanic, r))
			}
		}()
	}

	result, err := p.Worker(s.ctx, s.job)
	s.future.Complete(result, err)
}

func (p *boundedPool[J, R]) Submit(ctx context.Context, job J) (*Future[R], error) {
	p.closeMutex.RLock()
	defer p.closeMutex.RUnlock()

	p.mutex.Lock()
	if p.closed {
		p.mutex.Unlock()
		return nil, ErrPoolClosed
	}
	if p.pending >= p.Size+p.JobQueueLimit {
		p.mutex.Unlock()
		return nil, ErrPoolFull
	}
	p.pending++
	p.mutex.Unlock()

	future := NewFuture[R]()

	// capacity is reserved, so this only waits for a worker that is returning to the loop
	p.jobs <- submission[J, R]{ctx: ctx, job: job, future: future}

	return future, nil
}

func (p *boundedPool[J, R]) ActiveCount() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.active
}

func (p *boundedPool[J, R]) PendingCount() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.pending
}

func (p *boundedPool[J, R]) HasCapacity() bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return !p.closed && p.pending < p.Size+p.JobQueueLimit
}

func (p *boundedPool[J, R]) Close() {
	p.closeMutex.Lock()
	p.mutex.Lock()
	if p.closed {
		p.mutex.Unlock()
		p.closeMutex.Unlock()
		return
	}
	p.closed = true
	p.mutex.Unlock()
	close(p.jobs)
	p.closeMutex.Unlock()

	p.wg.Wait()
}
