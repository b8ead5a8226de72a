package scheduler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	"github.com/estafette/estafette-ci-build-agent/pkg/clients/cloudstorage"
	"github.com/estafette/estafette-ci-build-agent/pkg/clients/clusterapi"
	"github.com/estafette/estafette-ci-build-agent/pkg/services/buildlogs"
	"github.com/estafette/estafette-ci-build-agent/pkg/services/jobmanager"
	"github.com/estafette/estafette-ci-build-agent/pkg/services/queue"
	"github.com/gin-gonic/gin"
	gomock "github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestGetBuildAgent(t *testing.T) {

	t.Run("ReturnsInformationOfThisAgent", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		config := newConfig("agent-1", 3)
		queueService := queue.NewService(clusterapi.NewMemoryCluster().Join("agent-1"))
		service := NewService(config, queueService, jobmanager.NewMockService(ctrl), buildlogs.NewService(config.Jobs, nil))
		handler := NewHandler(config, service, queueService, buildlogs.NewService(config.Jobs, nil), cloudstorage.NewClient(config, nil))

		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Request = httptest.NewRequest("GET", "/api/agent", nil)

		// act
		handler.GetBuildAgent(c)

		assert.Equal(t, http.StatusOK, recorder.Result().StatusCode)
		var info api.BuildAgentInformation
		err := json.Unmarshal(recorder.Body.Bytes(), &info)
		assert.Nil(t, err)
		assert.Equal(t, "agent-1", info.BuildAgent.Name)
		assert.Equal(t, 3, info.MaxNumberOfConcurrentBuildJobs)
	})
}

func TestQueueBuildJob(t *testing.T) {

	t.Run("AddsJobToQueue", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		config := newConfig("agent-1", 1)
		queueService := queue.NewService(clusterapi.NewMemoryCluster().Join("agent-1"))
		handler := NewHandler(config, NewService(config, queueService, jobmanager.NewMockService(ctrl), buildlogs.NewService(config.Jobs, nil)), queueService, buildlogs.NewService(config.Jobs, nil), cloudstorage.NewClient(config, nil))

		body := `{"participationId":42,"repositoryInfo":{"assignmentRepositoryUri":"https://gitlab.example.com/git/SORT/sort-student1.git"},"buildConfig":{"dockerImage":"alpine:3","buildScript":"echo ok"}}`
		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Request = httptest.NewRequest("POST", "/api/jobs", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		// act
		handler.QueueBuildJob(c)

		assert.Equal(t, http.StatusCreated, recorder.Result().StatusCode)
		job, err := queueService.PollBuildJob(context.Background())
		assert.Nil(t, err)
		if assert.NotNil(t, job) {
			assert.NotEmpty(t, job.ID)
			assert.Equal(t, api.BuildStatusQueued, job.Status)
			assert.NotNil(t, job.JobTimingInfo.SubmissionDate)
		}
	})

	t.Run("RejectsJobWithoutImage", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		config := newConfig("agent-1", 1)
		queueService := queue.NewService(clusterapi.NewMemoryCluster().Join("agent-1"))
		handler := NewHandler(config, NewService(config, queueService, jobmanager.NewMockService(ctrl), buildlogs.NewService(config.Jobs, nil)), queueService, buildlogs.NewService(config.Jobs, nil), cloudstorage.NewClient(config, nil))

		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Request = httptest.NewRequest("POST", "/api/jobs", strings.NewReader(`{"buildConfig":{}}`))
		c.Request.Header.Set("Content-Type", "application/json")

		// act
		handler.QueueBuildJob(c)

		assert.Equal(t, http.StatusBadRequest, recorder.Result().StatusCode)
		assert.Equal(t, 0, queueSize(queueService))
	})
}

func TestCancelBuildJobHandler(t *testing.T) {

	t.Run("ReturnsUnauthorizedWithoutTokenIfJWTIsEnabled", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		config := newConfig("agent-1", 1)
		config.Auth.JWT.Key = "e5ec6c6a2a3447e2b4ee4e4bfbba6d0b"
		queueService := queue.NewService(clusterapi.NewMemoryCluster().Join("agent-1"))
		handler := NewHandler(config, NewService(config, queueService, jobmanager.NewMockService(ctrl), buildlogs.NewService(config.Jobs, nil)), queueService, buildlogs.NewService(config.Jobs, nil), cloudstorage.NewClient(config, nil))

		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Request = httptest.NewRequest("POST", "/api/jobs/job-1/cancel", nil)
		c.Params = gin.Params{{Key: "id", Value: "job-1"}}

		// act
		handler.CancelBuildJob(c)

		assert.Equal(t, http.StatusUnauthorized, recorder.Result().StatusCode)
	})

	t.Run("PublishesCancellationToAllAgents", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		config := newConfig("agent-1", 1)
		cluster := clusterapi.NewMemoryCluster()
		queueService := queue.NewService(cluster.Join("agent-1"))
		handler := NewHandler(config, NewService(config, queueService, jobmanager.NewMockService(ctrl), buildlogs.NewService(config.Jobs, nil)), queueService, buildlogs.NewService(config.Jobs, nil), cloudstorage.NewClient(config, nil))

		received := make(chan string, 1)
		unsubscribe, err := queue.NewService(cluster.Join("agent-2")).OnCancelBuildJob(context.Background(), func(jobID string) { received <- jobID })
		assert.Nil(t, err)
		defer unsubscribe()

		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Request = httptest.NewRequest("POST", "/api/jobs/job-1/cancel", nil)
		c.Params = gin.Params{{Key: "id", Value: "job-1"}}

		// act
		handler.CancelBuildJob(c)

		assert.Equal(t, http.StatusAccepted, recorder.Result().StatusCode)
		assert.Equal(t, "job-1", <-received)
	})
}

func TestGetBuildJobLogs(t *testing.T) {

	t.Run("ReturnsBufferedLogOfRunningJob", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		config := newConfig("agent-1", 1)
		queueService := queue.NewService(clusterapi.NewMemoryCluster().Join("agent-1"))
		buildLogsService := buildlogs.NewService(config.Jobs, nil)
		buildLogsService.AppendBuildLogEntry("job-1", "compiling")
		handler := NewHandler(config, NewService(config, queueService, jobmanager.NewMockService(ctrl), buildLogsService), queueService, buildLogsService, cloudstorage.NewClient(config, nil))

		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Request = httptest.NewRequest("GET", "/api/jobs/job-1/logs", nil)
		c.Params = gin.Params{{Key: "id", Value: "job-1"}}

		// act
		handler.GetBuildJobLogs(c)

		assert.Equal(t, http.StatusOK, recorder.Result().StatusCode)
		assert.Contains(t, recorder.Body.String(), "compiling")
	})

	t.Run("ReturnsNotFoundIfLogIsNeitherBufferedNorArchived", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		config := newConfig("agent-1", 1)
		queueService := queue.NewService(clusterapi.NewMemoryCluster().Join("agent-1"))
		buildLogsService := buildlogs.NewService(config.Jobs, nil)
		cloudStorageClient := cloudstorage.NewMockClient(ctrl)
		cloudStorageClient.EXPECT().GetBuildLog(gomock.Any(), "job-1", false, gomock.Any()).Return(cloudstorage.ErrLogNotExist)
		handler := NewHandler(config, NewService(config, queueService, jobmanager.NewMockService(ctrl), buildLogsService), queueService, buildLogsService, cloudStorageClient)

		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Request = httptest.NewRequest("GET", "/api/jobs/job-1/logs", nil)
		c.Params = gin.Params{{Key: "id", Value: "job-1"}}

		// act
		handler.GetBuildJobLogs(c)

		assert.Equal(t, http.StatusNotFound, recorder.Result().StatusCode)
	})
}
