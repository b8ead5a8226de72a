package jobmanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	"github.com/estafette/estafette-ci-build-agent/pkg/clients/containerapi"
	"github.com/estafette/estafette-ci-build-agent/pkg/pool"
	"github.com/estafette/estafette-ci-build-agent/pkg/services/executor"
	"github.com/estafette/estafette-ci-build-agent/pkg/services/images"
	gomock "github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func newConfig(maxConcurrentBuilds int) *api.BuildAgentConfig {
	config := &api.BuildAgentConfig{
		Agent: &api.AgentConfig{ShortName: "agent-1", MaxConcurrentBuilds: maxConcurrentBuilds},
	}
	config.SetDefaults()
	return config
}

func newJob(id string) *api.BuildJobQueueItem {
	return &api.BuildJobQueueItem{
		ID:              id,
		ParticipationID: 42,
		BuildConfig: api.BuildConfig{
			DockerImage:          "ls1tum/artemis-maven-template:java17-20",
			Branch:               "main",
			AssignmentCommitHash: "a1b2c3",
			TestCommitHash:       "d4e5f6",
		},
	}
}

// blockUntilDone simulates a build that only returns once it is interrupted
func blockUntilDone(started chan<- struct{}) func(ctx context.Context, job *api.BuildJobQueueItem, containerName string) (*api.BuildResult, error) {
	return func(ctx context.Context, job *api.BuildJobQueueItem, containerName string) (*api.BuildResult, error) {
		close(started)
		<-ctx.Done()
		return nil, context.Cause(ctx)
	}
}

func TestExecuteBuildJob(t *testing.T) {

	t.Run("ResolvesSuccessfulOutcome", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		config := newConfig(1)
		job := newJob("job-1")
		result := &api.BuildResult{IsBuildSuccessful: true}

		imagesService := images.NewMockService(ctrl)
		imagesService.EXPECT().PullImageIfAbsent(gomock.Any(), "job-1", job.BuildConfig.DockerImage).Return(nil).Times(1)

		executorService := executor.NewMockService(ctrl)
		executorService.EXPECT().RunBuildJob(gomock.Any(), job, gomock.Any()).Return(result, nil).Times(1)

		service, err := NewService(config, containerapi.NewMockClient(ctrl), imagesService, executorService)
		assert.Nil(t, err)
		defer service.Close()

		// act
		future, err := service.ExecuteBuildJob(context.Background(), job)

		assert.Nil(t, err)
		outcome, err := future.Get(context.Background())
		assert.Nil(t, err)
		assert.Equal(t, api.BuildStatusSuccessful, outcome.Status)
		assert.Equal(t, result, outcome.Result)
		assert.Nil(t, outcome.Err)
		assert.Eventually(t, func() bool { return len(service.GetRunningBuildJobIDs()) == 0 }, time.Second, 10*time.Millisecond)
	})

	t.Run("NamesContainerAfterParticipationAndStartTime", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		config := newConfig(1)
		config.Agent.Synchronous = true
		job := newJob("job-1")

		imagesService := images.NewMockService(ctrl)
		imagesService.EXPECT().PullImageIfAbsent(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)

		executorService := executor.NewMockService(ctrl)
		executorService.EXPECT().RunBuildJob(gomock.Any(), job, "local-ci-42-1709287200000").Return(&api.BuildResult{}, nil).Times(1)

		svc, err := NewService(config, containerapi.NewMockClient(ctrl), imagesService, executorService)
		assert.Nil(t, err)
		defer svc.Close()
		svc.(*service).now = func() time.Time { return time.UnixMilli(1709287200000) }

		// act
		_, err = svc.ExecuteBuildJob(context.Background(), job)

		assert.Nil(t, err)
	})

	t.Run("ResolvesFailedOutcomeIfImagePullFails", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		config := newConfig(1)
		job := newJob("job-1")

		imagesService := images.NewMockService(ctrl)
		imagesService.EXPECT().PullImageIfAbsent(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("manifest unknown")).Times(1)

		executorService := executor.NewMockService(ctrl)
		executorService.EXPECT().RunBuildJob(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		service, err := NewService(config, containerapi.NewMockClient(ctrl), imagesService, executorService)
		assert.Nil(t, err)
		defer service.Close()

		// act
		future, err := service.ExecuteBuildJob(context.Background(), job)

		assert.Nil(t, err)
		outcome, _ := future.Get(context.Background())
		assert.Equal(t, api.BuildStatusFailed, outcome.Status)
		assert.NotNil(t, outcome.Err)
		if assert.NotNil(t, outcome.Result) {
			assert.False(t, outcome.Result.IsBuildSuccessful)
			assert.Equal(t, "a1b2c3", outcome.Result.AssignmentRepoCommitHash)
		}
	})

	t.Run("ResolvesTimedOutOutcomeAndStopsContainer", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		config := newConfig(1)
		job := newJob("job-1")
		job.BuildConfig.TimeoutSeconds = 1
		started := make(chan struct{})

		imagesService := images.NewMockService(ctrl)
		imagesService.EXPECT().PullImageIfAbsent(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)

		executorService := executor.NewMockService(ctrl)
		executorService.EXPECT().RunBuildJob(gomock.Any(), job, gomock.Any()).DoAndReturn(blockUntilDone(started)).Times(1)

		containerClient := containerapi.NewMockClient(ctrl)
		containerClient.EXPECT().StopContainer(gomock.Any(), gomock.Any()).Return(nil).MaxTimes(1)

		service, err := NewService(config, containerClient, imagesService, executorService)
		assert.Nil(t, err)
		defer service.Close()

		// act
		future, err := service.ExecuteBuildJob(context.Background(), job)

		assert.Nil(t, err)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		outcome, err := future.Get(ctx)
		assert.Nil(t, err)
		assert.Equal(t, api.BuildStatusTimedOut, outcome.Status)
		assert.True(t, errors.Is(outcome.Err, api.ErrBuildJobTimedOut))
	})

	t.Run("RejectsJobIfAllWorkersAreBusy", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		config := newConfig(1)
		started := make(chan struct{})

		imagesService := images.NewMockService(ctrl)
		imagesService.EXPECT().PullImageIfAbsent(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)

		executorService := executor.NewMockService(ctrl)
		executorService.EXPECT().RunBuildJob(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(blockUntilDone(started)).Times(1)

		containerClient := containerapi.NewMockClient(ctrl)
		containerClient.EXPECT().StopContainer(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		service, err := NewService(config, containerClient, imagesService, executorService)
		assert.Nil(t, err)
		defer service.Close()

		_, err = service.ExecuteBuildJob(context.Background(), newJob("job-1"))
		assert.Nil(t, err)
		<-started

		// act
		future, err := service.ExecuteBuildJob(context.Background(), newJob("job-2"))

		assert.True(t, errors.Is(err, pool.ErrPoolFull))
		assert.Nil(t, future)
		assert.False(t, service.HasCapacity())
		assert.Equal(t, []string{"job-1"}, service.GetRunningBuildJobIDs())

		service.CancelBuildJob("job-1")
	})

	t.Run("RejectsJobThatIsAlreadyRunning", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		config := newConfig(2)
		started := make(chan struct{})

		imagesService := images.NewMockService(ctrl)
		imagesService.EXPECT().PullImageIfAbsent(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)

		executorService := executor.NewMockService(ctrl)
		executorService.EXPECT().RunBuildJob(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(blockUntilDone(started)).Times(1)

		containerClient := containerapi.NewMockClient(ctrl)
		containerClient.EXPECT().StopContainer(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

		service, err := NewService(config, containerClient, imagesService, executorService)
		assert.Nil(t, err)
		defer service.Close()

		_, err = service.ExecuteBuildJob(context.Background(), newJob("job-1"))
		assert.Nil(t, err)
		<-started

		// act
		_, err = service.ExecuteBuildJob(context.Background(), newJob("job-1"))

		assert.True(t, errors.Is(err, ErrBuildJobAlreadyRunning))

		service.CancelBuildJob("job-1")
	})

	t.Run("ReturnsCompletedFutureInSynchronousMode", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		config := newConfig(1)
		config.Agent.Synchronous = true

		imagesService := images.NewMockService(ctrl)
		imagesService.EXPECT().PullImageIfAbsent(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)

		executorService := executor.NewMockService(ctrl)
		executorService.EXPECT().RunBuildJob(gomock.Any(), gomock.Any(), gomock.Any()).Return(&api.BuildResult{}, nil).Times(1)

		service, err := NewService(config, containerapi.NewMockClient(ctrl), imagesService, executorService)
		assert.Nil(t, err)
		defer service.Close()

		// act
		future, err := service.ExecuteBuildJob(context.Background(), newJob("job-1"))

		assert.Nil(t, err)
		assert.True(t, future.IsDone())
		assert.Equal(t, 0, len(service.GetRunningBuildJobIDs()))
	})
}

func TestCancelBuildJob(t *testing.T) {

	t.Run("ResolvesCancelledOutcomeAndStopsContainer", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		config := newConfig(1)
		job := newJob("job-1")
		started := make(chan struct{})

		imagesService := images.NewMockService(ctrl)
		imagesService.EXPECT().PullImageIfAbsent(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(1)

		executorService := executor.NewMockService(ctrl)
		executorService.EXPECT().RunBuildJob(gomock.Any(), job, gomock.Any()).DoAndReturn(blockUntilDone(started)).Times(1)

		containerClient := containerapi.NewMockClient(ctrl)
		containerClient.EXPECT().StopContainer(gomock.Any(), gomock.Any()).Return(nil).MaxTimes(1)

		service, err := NewService(config, containerClient, imagesService, executorService)
		assert.Nil(t, err)
		defer service.Close()

		future, err := service.ExecuteBuildJob(context.Background(), job)
		assert.Nil(t, err)
		<-started

		// act
		service.CancelBuildJob("job-1")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		outcome, err := future.Get(ctx)
		assert.Nil(t, err)
		assert.Equal(t, api.BuildStatusCancelled, outcome.Status)
		assert.True(t, errors.Is(outcome.Err, api.ErrBuildJobCancelled))

		// cancelling again is a no-op
		service.CancelBuildJob("job-1")
		assert.Eventually(t, func() bool { return len(service.GetRunningBuildJobIDs()) == 0 }, time.Second, 10*time.Millisecond)
	})

	t.Run("IgnoresJobsOfOtherAgents", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		containerClient := containerapi.NewMockClient(ctrl)
		containerClient.EXPECT().StopContainer(gomock.Any(), gomock.Any()).Times(0)

		service, err := NewService(newConfig(1), containerClient, images.NewMockService(ctrl), executor.NewMockService(ctrl))
		assert.Nil(t, err)
		defer service.Close()

		// act
		service.CancelBuildJob("job-on-another-agent")

		assert.Equal(t, 0, len(service.GetRunningBuildJobIDs()))
	})
}
