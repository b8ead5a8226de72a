package jobmanager

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	"github.com/estafette/estafette-ci-build-agent/pkg/clients/containerapi"
	"github.com/estafette/estafette-ci-build-agent/pkg/pool"
	"github.com/estafette/estafette-ci-build-agent/pkg/services/executor"
	"github.com/estafette/estafette-ci-build-agent/pkg/services/images"
	"github.com/rs/zerolog/log"
)

var (
	// ErrBuildJobAlreadyRunning is returned when a job id is submitted while it is still executing locally
	ErrBuildJobAlreadyRunning = errors.New("The build job is already running on this agent")
)

// Outcome is the terminal state of a build job executed by this agent
type Outcome struct {
	Status api.BuildStatus
	Result *api.BuildResult
	Err    error
}

// Service runs build jobs on the local worker pool with a timeout and cancellation
//
//go:generate mockgen -package=jobmanager -destination ./mock.go -source=service.go
type Service interface {
	// ExecuteBuildJob starts the build and returns a future resolved with its outcome; it fails with pool.ErrPoolFull when no worker is free
	ExecuteBuildJob(ctx context.Context, job *api.BuildJobQueueItem) (outcome *pool.Future[Outcome], err error)
	// CancelBuildJob interrupts the job if it runs on this agent and does nothing otherwise
	CancelBuildJob(jobID string)
	GetRunningBuildJobIDs() (jobIDs []string)
	HasCapacity() bool
	ActiveCount() int
	Close()
}

// NewService returns a new jobmanager.Service
func NewService(config *api.BuildAgentConfig, containerClient containerapi.Client, imagesService images.Service, executorService executor.Service) (Service, error) {
	s := &service{
		config:          config,
		containerClient: containerClient,
		imagesService:   imagesService,
		executorService: executorService,
		handles:         map[string]*handle{},
		now:             time.Now,
	}

	workerPool, err := pool.NewPool(pool.DefaultConfig(config.Agent.MaxConcurrentBuilds, s.runBuildJob))
	if err != nil {
		return nil, err
	}
	s.pool = workerPool

	return s, nil
}

type handle struct {
	job           *api.BuildJobQueueItem
	containerName string
	cancel        context.CancelCauseFunc
	outcome       *pool.Future[Outcome]
}

type service struct {
	config          *api.BuildAgentConfig
	containerClient containerapi.Client
	imagesService   images.Service
	executorService executor.Service
	pool            pool.Pool[*handle, Outcome]
	now             func() time.Time

	mutex   sync.Mutex
	handles map[string]*handle
}

func (s *service) ExecuteBuildJob(ctx context.Context, job *api.BuildJobQueueItem) (outcome *pool.Future[Outcome], err error) {

	h := &handle{
		job:           job,
		containerName: fmt.Sprintf("%v%v-%v", s.config.Docker.ContainerPrefix, job.ParticipationID, s.now().UnixMilli()),
		outcome:       pool.NewFuture[Outcome](),
	}

	// the job outlives the request that triggered it, only cancellation and the timeout end it
	jobCtx, cancel := context.WithCancelCause(context.WithoutCancel(ctx))
	h.cancel = cancel
	timeout := s.config.Jobs.Timeout(job.BuildConfig.TimeoutSeconds)
	jobCtx, cancelTimeout := context.WithTimeoutCause(jobCtx, timeout, api.ErrBuildJobTimedOut)

	s.mutex.Lock()
	if _, running := s.handles[job.ID]; running {
		s.mutex.Unlock()
		cancelTimeout()
		cancel(nil)
		return nil, ErrBuildJobAlreadyRunning
	}
	s.handles[job.ID] = h
	s.mutex.Unlock()

	if s.config.Agent.Synchronous {
		result, _ := s.runBuildJob(jobCtx, h)
		s.release(h)
		cancelTimeout()
		cancel(nil)
		return pool.CompletedFuture(result, nil), nil
	}

	future, err := s.pool.Submit(jobCtx, h)
	if err != nil {
		s.release(h)
		cancelTimeout()
		cancel(err)
		return nil, err
	}

	go func() {
		defer cancelTimeout()
		s.await(jobCtx, h, future)
	}()

	return h.outcome, nil
}

// await resolves the outcome as soon as the worker finishes or the job is interrupted, whichever is first
func (s *service) await(ctx context.Context, h *handle, future *pool.Future[Outcome]) {
	defer s.release(h)
	defer h.cancel(nil)

	select {
	case <-future.Done():
		result, err := future.Get(context.Background())
		if err != nil {
			// worker panicked
			result = s.failed(h, err)
		}
		h.outcome.Complete(result, nil)

	case <-ctx.Done():
		if future.IsDone() {
			result, _ := future.Get(context.Background())
			h.outcome.Complete(result, nil)
			return
		}

		cause := context.Cause(ctx)
		log.Info().Msgf("Build job %v interrupted: %v", h.job.ID, cause)

		stopCtx, cancel := context.WithTimeout(context.Background(), time.Duration(s.config.Docker.StopTimeoutSeconds+30)*time.Second)
		defer cancel()
		if err := s.containerClient.StopContainer(stopCtx, h.containerName); err != nil {
			log.Warn().Err(err).Msgf("Failed stopping container %v of interrupted build job %v", h.containerName, h.job.ID)
		}

		h.outcome.Complete(s.interrupted(h, cause), nil)
	}
}

func (s *service) runBuildJob(ctx context.Context, h *handle) (Outcome, error) {

	if err := s.imagesService.PullImageIfAbsent(ctx, h.job.ID, h.job.BuildConfig.DockerImage); err != nil {
		return s.toOutcome(ctx, h, nil, err), nil
	}

	result, err := s.executorService.RunBuildJob(ctx, h.job, h.containerName)

	return s.toOutcome(ctx, h, result, err), nil
}

func (s *service) toOutcome(ctx context.Context, h *handle, result *api.BuildResult, err error) Outcome {
	if ctx.Err() != nil {
		return s.interrupted(h, context.Cause(ctx))
	}
	if err != nil {
		return s.failed(h, err)
	}
	return Outcome{
		Status: api.BuildStatusSuccessful,
		Result: result,
	}
}

func (s *service) interrupted(h *handle, cause error) Outcome {
	status := api.BuildStatusCancelled
	if errors.Is(cause, api.ErrBuildJobTimedOut) {
		status = api.BuildStatusTimedOut
	}

	outcome := s.failed(h, cause)
	outcome.Status = status

	return outcome
}

func (s *service) failed(h *handle, err error) Outcome {
	return Outcome{
		Status: api.BuildStatusFailed,
		Result: api.FailedBuildResult(h.job.BuildConfig.Branch, h.job.BuildConfig.AssignmentCommitHash, h.job.BuildConfig.TestCommitHash, s.now()),
		Err:    err,
	}
}

func (s *service) release(h *handle) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.handles[h.job.ID] == h {
		delete(s.handles, h.job.ID)
	}
}

func (s *service) CancelBuildJob(jobID string) {
	s.mutex.Lock()
	h, ok := s.handles[jobID]
	s.mutex.Unlock()

	if !ok {
		return
	}

	log.Info().Msgf("Cancelling build job %v", jobID)
	h.cancel(api.ErrBuildJobCancelled)
}

func (s *service) GetRunningBuildJobIDs() (jobIDs []string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	jobIDs = make([]string, 0, len(s.handles))
	for id := range s.handles {
		jobIDs = append(jobIDs, id)
	}
	sort.Strings(jobIDs)

	return
}

func (s *service) HasCapacity() bool {
	if s.config.Agent.Synchronous {
		s.mutex.Lock()
		defer s.mutex.Unlock()
		return len(s.handles) < s.config.Agent.MaxConcurrentBuilds
	}
	return s.pool.HasCapacity()
}

func (s *service) ActiveCount() int {
	if s.config.Agent.Synchronous {
		s.mutex.Lock()
		defer s.mutex.Unlock()
		return len(s.handles)
	}
	return s.pool.ActiveCount()
}

// Close cancels the running jobs and waits for the workers to return
func (s *service) Close() {
	s.mutex.Lock()
	for _, h := range s.handles {
		h.cancel(api.ErrBuildJobCancelled)
	}
	s.mutex.Unlock()

	s.pool.Close()
}
