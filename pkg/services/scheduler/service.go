package scheduler

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	"github.com/estafette/estafette-ci-build-agent/pkg/services/buildlogs"
	"github.com/estafette/estafette-ci-build-agent/pkg/services/jobmanager"
	"github.com/estafette/estafette-ci-build-agent/pkg/services/queue"
	"github.com/go-kit/kit/metrics"
	"github.com/rs/zerolog/log"
)

// Service claims build jobs from the cluster queue whenever this agent has capacity and publishes their results
type Service interface {
	// Start registers the queue listener and topic subscriptions and advertises this agent to the cluster
	Start(ctx context.Context) (err error)
	// Stop waits for running builds until ctx ends, requeues what is left and withdraws this agent from the cluster
	Stop(ctx context.Context)
	CheckAvailabilityAndProcessNextBuild(ctx context.Context)
	// UpdateBuildAgentInformation removes entries of agents that left the cluster and republishes the own entry if it's missing
	UpdateBuildAgentInformation(ctx context.Context) (err error)
	PauseBuildAgent(ctx context.Context)
	ResumeBuildAgent(ctx context.Context)
	GetBuildAgentInformation() *api.BuildAgentInformation
}

// NewService returns a new scheduler.Service
func NewService(config *api.BuildAgentConfig, queueService queue.Service, jobManagerService jobmanager.Service, buildLogsService buildlogs.Service) Service {
	return &service{
		config:            config,
		queueService:      queueService,
		jobManagerService: jobManagerService,
		buildLogsService:  buildLogsService,
		runningJobsGauge:  api.NewGauge("scheduler", "running_build_jobs", "Number of build jobs running on this agent."),
		now:               time.Now,
		running:           map[string]*api.BuildJobQueueItem{},
		requeueOnFinish:   map[string]bool{},
	}
}

type service struct {
	config            *api.BuildAgentConfig
	queueService      queue.Service
	jobManagerService jobmanager.Service
	buildLogsService  buildlogs.Service
	runningJobsGauge  metrics.Gauge
	now               func() time.Time

	// claimMutex serializes claims on this node
	claimMutex sync.Mutex

	mutex           sync.Mutex
	localJobs       int
	running         map[string]*api.BuildJobQueueItem
	recent          []api.BuildJobQueueItem
	requeueOnFinish map[string]bool
	paused          bool
	started         bool
	stopped         bool
	pauseTimer      *time.Timer
	removeListener  func()
	unsubscribers   []func()
	done            chan struct{}
	wg              sync.WaitGroup
}

func (s *service) Start(ctx context.Context) (err error) {
	if err = s.config.Agent.Validate(); err != nil {
		return err
	}

	s.mutex.Lock()
	if s.started {
		s.mutex.Unlock()
		return nil
	}
	s.started = true
	s.done = make(chan struct{})
	s.mutex.Unlock()

	if err = s.listenToBuildJobQueue(ctx); err != nil {
		return err
	}

	unsubscribe, err := s.queueService.OnCancelBuildJob(ctx, s.jobManagerService.CancelBuildJob)
	if err != nil {
		return err
	}
	s.addUnsubscriber(unsubscribe)

	unsubscribe, err = s.queueService.OnPauseBuildAgent(ctx, func(agentName string) {
		if agentName == s.config.Agent.ShortName {
			s.PauseBuildAgent(ctx)
		}
	})
	if err != nil {
		return err
	}
	s.addUnsubscriber(unsubscribe)

	unsubscribe, err = s.queueService.OnResumeBuildAgent(ctx, func(agentName string) {
		if agentName == s.config.Agent.ShortName {
			s.ResumeBuildAgent(ctx)
		}
	})
	if err != nil {
		return err
	}
	s.addUnsubscriber(unsubscribe)

	s.wg.Add(2)
	go s.runQueueCheckLoop(ctx)
	go s.runAgentInformationLoop(ctx)

	log.Info().Msgf("Build agent %v joined the cluster as %v with capacity %v", s.config.Agent.ShortName, s.queueService.LocalMemberAddress(), s.config.Agent.MaxConcurrentBuilds)

	s.updateLocalBuildAgentInformation(ctx)
	s.CheckAvailabilityAndProcessNextBuild(ctx)

	return nil
}

func (s *service) listenToBuildJobQueue(ctx context.Context) error {
	remove, err := s.queueService.OnBuildJobAdded(ctx, func() {
		s.CheckAvailabilityAndProcessNextBuild(ctx)
	})
	if err != nil {
		return err
	}

	s.mutex.Lock()
	s.removeListener = remove
	s.mutex.Unlock()

	return nil
}

func (s *service) addUnsubscriber(unsubscribe func()) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.unsubscribers = append(s.unsubscribers, unsubscribe)
}

// runQueueCheckLoop catches jobs whose queue notification was missed
func (s *service) runQueueCheckLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Duration(s.config.Agent.QueueCheckIntervalSeconds) * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.CheckAvailabilityAndProcessNextBuild(ctx)
		case <-s.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *service) runAgentInformationLoop(ctx context.Context) {
	defer s.wg.Done()

	select {
	case <-time.After(time.Duration(s.config.Agent.AgentInfoInitialDelaySeconds) * time.Second):
	case <-s.done:
		return
	case <-ctx.Done():
		return
	}

	ticker := time.NewTicker(time.Duration(s.config.Agent.AgentInfoUpdateIntervalSeconds) * time.Second)
	defer ticker.Stop()

	for {
		if err := s.UpdateBuildAgentInformation(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed updating build agent information")
		}

		select {
		case <-ticker.C:
		case <-s.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (s *service) CheckAvailabilityAndProcessNextBuild(ctx context.Context) {

	// cheap check without holding the claim mutex
	if !s.nodeIsAvailable(ctx) {
		s.ensureBuildAgentInformationExists(ctx)
		return
	}

	s.claimMutex.Lock()
	if !s.nodeIsAvailable(ctx) {
		s.claimMutex.Unlock()
		return
	}

	job, err := s.claimNextBuildJob(ctx)
	if err != nil || job == nil {
		s.claimMutex.Unlock()
		if err != nil {
			log.Warn().Err(err).Msg("Failed claiming next build job")
		}
		return
	}

	s.mutex.Lock()
	s.localJobs++
	s.running[job.ID] = job
	s.runningJobsGauge.Set(float64(s.localJobs))
	s.mutex.Unlock()
	s.claimMutex.Unlock()

	s.updateLocalBuildAgentInformation(ctx)

	s.processBuild(ctx, job)
}

func (s *service) nodeIsAvailable(ctx context.Context) bool {
	s.mutex.Lock()
	available := !s.stopped && !s.paused && s.localJobs < s.config.Agent.MaxConcurrentBuilds
	s.mutex.Unlock()

	if !available || !s.jobManagerService.HasCapacity() {
		return false
	}

	size, err := s.queueService.GetBuildJobQueueSize(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed retrieving build job queue size")
		return false
	}

	return size > 0
}

// claimNextBuildJob takes the head of the queue under the cluster-wide queue lock and records it as processing
func (s *service) claimNextBuildJob(ctx context.Context) (*api.BuildJobQueueItem, error) {
	lockCtx, cancel := context.WithTimeout(ctx, time.Duration(s.config.Coordination.LockTimeoutSeconds)*time.Second)
	defer cancel()

	unlock, err := s.queueService.LockBuildJobQueue(lockCtx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	job, err := s.queueService.PollBuildJob(ctx)
	if err != nil || job == nil {
		return nil, err
	}

	claimed := job.Claimed(s.buildAgent(), s.now())
	if err := s.queueService.PutProcessingJob(ctx, claimed); err != nil {
		if requeueErr := s.queueService.AddBuildJob(ctx, job); requeueErr != nil {
			log.Error().Err(requeueErr).Msgf("Failed returning build job %v to the queue, it's lost", job.ID)
		}
		return nil, err
	}

	s.buildLogsService.StartBuildLogs(claimed.ID)
	log.Info().Msgf("Claimed build job %v for participation %v", claimed.ID, claimed.ParticipationID)

	return claimed, nil
}

func (s *service) processBuild(ctx context.Context, job *api.BuildJobQueueItem) {

	future, err := s.jobManagerService.ExecuteBuildJob(ctx, job)
	if err != nil {
		s.handleRejectedBuildJob(ctx, job, err)
		return
	}

	go func() {
		outcome, _ := future.Get(context.Background())
		s.completeBuildJob(ctx, job, outcome)
	}()
}

// handleRejectedBuildJob undoes a claim the worker pool did not accept
func (s *service) handleRejectedBuildJob(ctx context.Context, job *api.BuildJobQueueItem, err error) {
	log.Warn().Err(err).Msgf("Build job %v was rejected by the worker pool", job.ID)

	s.release(job.ID)

	if removeErr := s.queueService.RemoveProcessingJob(ctx, job.ID); removeErr != nil {
		log.Warn().Err(removeErr).Msgf("Failed removing build job %v from processing jobs", job.ID)
	}

	if job.RetryCount >= s.config.Agent.MaxRetries {
		log.Error().Err(err).Msgf("Build job %v was rejected %v times, giving up", job.ID, job.RetryCount+1)
		outcome := jobmanager.Outcome{
			Status: api.BuildStatusFailed,
			Result: api.FailedBuildResult(job.BuildConfig.Branch, job.BuildConfig.AssignmentCommitHash, job.BuildConfig.TestCommitHash, s.now()),
			Err:    fmt.Errorf("rejected after %v attempts: %w", job.RetryCount+1, err),
		}
		s.publishResult(ctx, job.Finished(api.BuildStatusFailed, s.now()), outcome)
	} else if requeueErr := s.queueService.AddBuildJob(ctx, job.Requeued()); requeueErr != nil {
		log.Error().Err(requeueErr).Msgf("Failed requeueing build job %v", job.ID)
	}

	s.updateLocalBuildAgentInformation(ctx)
}

// completeBuildJob runs once per claimed job that the worker pool accepted, whatever its outcome
func (s *service) completeBuildJob(ctx context.Context, job *api.BuildJobQueueItem, outcome jobmanager.Outcome) {
	finished := job.Finished(outcome.Status, s.now())

	if err := s.queueService.RemoveProcessingJob(ctx, job.ID); err != nil {
		log.Warn().Err(err).Msgf("Failed removing build job %v from processing jobs", job.ID)
	}

	requeue := s.release(job.ID)

	s.mutex.Lock()
	if !requeue {
		s.recent = append(s.recent, *finished)
		if overflow := len(s.recent) - s.config.Agent.RecentBuildJobsLimit; overflow > 0 {
			s.recent = slices.Delete(s.recent, 0, overflow)
		}
	}
	s.mutex.Unlock()

	if requeue {
		// interrupted by pausing or stopping the agent, another agent picks it up
		logs := s.buildLogsService.RemoveBuildLogs(job.ID)
		log.Info().Msgf("Returning interrupted build job %v to the queue, discarding %v log lines", job.ID, len(logs))
		if err := s.queueService.AddBuildJob(ctx, job.Requeued()); err != nil {
			log.Error().Err(err).Msgf("Failed requeueing build job %v", job.ID)
		}
	} else {
		switch outcome.Status {
		case api.BuildStatusSuccessful:
			log.Info().Msgf("Build job %v finished", job.ID)
		case api.BuildStatusCancelled:
			log.Info().Msgf("Build job %v was cancelled", job.ID)
		default:
			log.Error().Err(outcome.Err).Msgf("Build job %v ended with status %v", job.ID, outcome.Status)
		}
		s.publishResult(ctx, finished, outcome)
	}

	s.updateLocalBuildAgentInformation(ctx)
	s.CheckAvailabilityAndProcessNextBuild(ctx)
}

func (s *service) publishResult(ctx context.Context, job *api.BuildJobQueueItem, outcome jobmanager.Outcome) {
	logs := s.buildLogsService.RemoveBuildLogs(job.ID)

	item := &api.ResultQueueItem{
		BuildResult:       outcome.Result,
		BuildJobQueueItem: job,
		BuildLogs:         logs,
	}
	if outcome.Err != nil {
		item.Exception = outcome.Err.Error()
	}

	if err := s.queueService.PublishResult(ctx, item); err != nil {
		log.Error().Err(err).Msgf("Failed publishing result of build job %v", job.ID)
	}

	go func() {
		archiveCtx := context.WithoutCancel(ctx)
		if err := s.buildLogsService.ArchiveBuildLogs(archiveCtx, job.ID, logs); err != nil {
			log.Warn().Err(err).Msgf("Failed archiving build logs of job %v", job.ID)
		}
	}()
}

// release drops a job from the local state and returns whether it has to go back to the queue
func (s *service) release(jobID string) (requeue bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.running[jobID]; ok {
		delete(s.running, jobID)
		s.localJobs--
	}
	requeue = s.requeueOnFinish[jobID]
	delete(s.requeueOnFinish, jobID)
	s.runningJobsGauge.Set(float64(s.localJobs))

	return
}

func (s *service) PauseBuildAgent(ctx context.Context) {
	s.mutex.Lock()
	if s.paused || s.stopped {
		s.mutex.Unlock()
		return
	}
	s.paused = true
	if s.removeListener != nil {
		s.removeListener()
		s.removeListener = nil
	}
	hasRunningJobs := len(s.running) > 0
	if hasRunningJobs {
		s.pauseTimer = time.AfterFunc(time.Duration(s.config.Agent.PauseGracePeriodSeconds)*time.Second, func() {
			s.interruptRunningBuildJobs(ctx)
		})
	}
	s.mutex.Unlock()

	log.Info().Msgf("Build agent %v paused", s.config.Agent.ShortName)

	s.updateLocalBuildAgentInformation(ctx)
}

// interruptRunningBuildJobs cancels the jobs still running after the pause grace period and returns them to the queue
func (s *service) interruptRunningBuildJobs(ctx context.Context) {
	s.mutex.Lock()
	if !s.paused && !s.stopped {
		s.mutex.Unlock()
		return
	}
	jobIDs := make([]string, 0, len(s.running))
	for id := range s.running {
		s.requeueOnFinish[id] = true
		jobIDs = append(jobIDs, id)
	}
	s.mutex.Unlock()

	for _, id := range jobIDs {
		log.Info().Msgf("Interrupting build job %v", id)
		s.jobManagerService.CancelBuildJob(id)
	}
}

func (s *service) ResumeBuildAgent(ctx context.Context) {
	s.mutex.Lock()
	if !s.paused || s.stopped {
		s.mutex.Unlock()
		return
	}
	s.paused = false
	if s.pauseTimer != nil {
		s.pauseTimer.Stop()
		s.pauseTimer = nil
	}
	s.mutex.Unlock()

	if err := s.listenToBuildJobQueue(ctx); err != nil {
		log.Error().Err(err).Msg("Failed listening to the build job queue after resuming")
	}

	log.Info().Msgf("Build agent %v resumed", s.config.Agent.ShortName)

	s.updateLocalBuildAgentInformation(ctx)
	s.CheckAvailabilityAndProcessNextBuild(ctx)
}

func (s *service) Stop(ctx context.Context) {
	s.mutex.Lock()
	if !s.started || s.stopped {
		s.mutex.Unlock()
		return
	}
	s.stopped = true
	close(s.done)
	if s.removeListener != nil {
		s.removeListener()
		s.removeListener = nil
	}
	for _, unsubscribe := range s.unsubscribers {
		unsubscribe()
	}
	s.unsubscribers = nil
	if s.pauseTimer != nil {
		s.pauseTimer.Stop()
		s.pauseTimer = nil
	}
	s.mutex.Unlock()

	s.wg.Wait()

	if !s.waitForRunningBuildJobs(ctx) {
		s.interruptRunningBuildJobs(ctx)
		waitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Duration(s.config.Docker.StopTimeoutSeconds+30)*time.Second)
		defer cancel()
		if !s.waitForRunningBuildJobs(waitCtx) {
			log.Warn().Msg("Build jobs still running after interrupting them")
		}
	}

	s.removeBuildAgentInformation(context.WithoutCancel(ctx))

	log.Info().Msgf("Build agent %v left the cluster", s.config.Agent.ShortName)
}

func (s *service) waitForRunningBuildJobs(ctx context.Context) bool {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		s.mutex.Lock()
		idle := len(s.running) == 0
		s.mutex.Unlock()
		if idle {
			return true
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return false
		}
	}
}

func (s *service) UpdateBuildAgentInformation(ctx context.Context) (err error) {
	members, err := s.queueService.GetClusterMembers(ctx)
	if err != nil {
		return err
	}

	addresses, err := s.queueService.GetBuildAgentAddresses(ctx)
	if err != nil {
		return err
	}

	for _, address := range addresses {
		if slices.Contains(members, address) {
			continue
		}

		log.Info().Msgf("Removing build agent information of %v, it left the cluster", address)
		if err := s.removeBuildAgentInformationOf(ctx, address); err != nil {
			log.Warn().Err(err).Msgf("Failed removing build agent information of %v", address)
		}
	}

	s.ensureBuildAgentInformationExists(ctx)

	return nil
}

func (s *service) ensureBuildAgentInformationExists(ctx context.Context) {
	if s.isStopped() {
		return
	}

	info, err := s.queueService.GetBuildAgentInformation(ctx, s.queueService.LocalMemberAddress())
	if err != nil {
		log.Warn().Err(err).Msg("Failed retrieving own build agent information")
		return
	}
	if info == nil {
		s.updateLocalBuildAgentInformation(ctx)
	}
}

// updateLocalBuildAgentInformation publishes the state of this agent under the per-address map lock
func (s *service) updateLocalBuildAgentInformation(ctx context.Context) {
	if s.isStopped() {
		return
	}

	address := s.queueService.LocalMemberAddress()

	lockCtx, cancel := context.WithTimeout(ctx, time.Duration(s.config.Coordination.LockTimeoutSeconds)*time.Second)
	defer cancel()

	unlock, err := s.queueService.LockBuildAgentInformation(lockCtx, address)
	if err != nil {
		log.Warn().Err(err).Msg("Failed locking own build agent information")
		return
	}
	defer unlock()

	if err := s.queueService.PutBuildAgentInformation(ctx, address, s.GetBuildAgentInformation()); err != nil {
		log.Warn().Err(err).Msg("Failed publishing own build agent information")
	}
}

func (s *service) isStopped() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.stopped
}

func (s *service) removeBuildAgentInformation(ctx context.Context) {
	if err := s.removeBuildAgentInformationOf(ctx, s.queueService.LocalMemberAddress()); err != nil {
		log.Warn().Err(err).Msg("Failed removing own build agent information")
	}
}

func (s *service) removeBuildAgentInformationOf(ctx context.Context, address string) error {
	lockCtx, cancel := context.WithTimeout(ctx, time.Duration(s.config.Coordination.LockTimeoutSeconds)*time.Second)
	defer cancel()

	unlock, err := s.queueService.LockBuildAgentInformation(lockCtx, address)
	if err != nil {
		return err
	}
	defer unlock()

	return s.queueService.RemoveBuildAgentInformation(ctx, address)
}

func (s *service) GetBuildAgentInformation() *api.BuildAgentInformation {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	running := make([]api.BuildJobQueueItem, 0, len(s.running))
	for _, job := range s.running {
		running = append(running, *job)
	}
	sort.Slice(running, func(i, j int) bool { return running[i].ID < running[j].ID })

	status := api.BuildAgentStatusIdle
	if s.paused {
		status = api.BuildAgentStatusPaused
	} else if s.localJobs > 0 {
		status = api.BuildAgentStatusActive
	}

	return &api.BuildAgentInformation{
		BuildAgent:                     s.buildAgent(),
		MaxNumberOfConcurrentBuildJobs: s.config.Agent.MaxConcurrentBuilds,
		NumberOfCurrentBuildJobs:       s.localJobs,
		RunningBuildJobs:               running,
		Status:                         status,
		RecentBuildJobs:                slices.Clone(s.recent),
		PublicSSHKey:                   s.config.Git.PublicSSHKey,
	}
}

func (s *service) buildAgent() api.BuildAgentDTO {
	agent := s.config.Agent.BuildAgentDTO()
	agent.MemberAddress = s.queueService.LocalMemberAddress()
	return agent
}
