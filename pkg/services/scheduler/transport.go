package scheduler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	"github.com/estafette/estafette-ci-build-agent/pkg/clients/cloudstorage"
	"github.com/estafette/estafette-ci-build-agent/pkg/services/buildlogs"
	"github.com/estafette/estafette-ci-build-agent/pkg/services/queue"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NewHandler returns a new scheduler.Handler
func NewHandler(config *api.BuildAgentConfig, service Service, queueService queue.Service, buildLogsService buildlogs.Service, cloudStorageClient cloudstorage.Client) Handler {
	return Handler{
		config:             config,
		service:            service,
		queueService:       queueService,
		buildLogsService:   buildLogsService,
		cloudStorageClient: cloudStorageClient,
	}
}

type Handler struct {
	config             *api.BuildAgentConfig
	service            Service
	queueService       queue.Service
	buildLogsService   buildlogs.Service
	cloudStorageClient cloudstorage.Client
}

func (h *Handler) GetBuildAgent(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.GetBuildAgentInformation())
}

func (h *Handler) GetBuildAgents(c *gin.Context) {

	ctx := c.Request.Context()

	infos, err := h.queueService.GetAllBuildAgentInformation(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed retrieving build agent information")
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusText(http.StatusInternalServerError), "message": "Retrieving build agents failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": infos})
}

func (h *Handler) GetBuildJobs(c *gin.Context) {

	ctx := c.Request.Context()

	jobs, err := h.queueService.GetProcessingJobs(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed retrieving processing build jobs")
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusText(http.StatusInternalServerError), "message": "Retrieving build jobs failed"})
		return
	}

	queued, err := h.queueService.GetBuildJobQueueSize(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed retrieving build job queue size")
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusText(http.StatusInternalServerError), "message": "Retrieving build jobs failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": jobs, "queued": queued})
}

// GetBuildJobLogs serves the buffered log of a job running on this agent, or the archived log of a finished one
func (h *Handler) GetBuildJobLogs(c *gin.Context) {

	jobID := c.Param("id")

	if logs := h.buildLogsService.GetBuildLogs(jobID); len(logs) > 0 {
		c.JSON(http.StatusOK, gin.H{"items": logs})
		return
	}

	ctx := c.Request.Context()

	err := h.cloudStorageClient.GetBuildLog(ctx, jobID, strings.Contains(c.GetHeader("Accept-Encoding"), "gzip"), c.Writer)
	if err != nil {
		if errors.Is(err, cloudstorage.ErrLogNotExist) {
			c.JSON(http.StatusNotFound, gin.H{"code": http.StatusText(http.StatusNotFound), "message": "Build job log not found"})
			return
		}
		log.Error().Err(err).Msgf("Failed retrieving archived log of build job %v", jobID)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusText(http.StatusInternalServerError), "message": "Retrieving build job log failed"})
		return
	}
}

func (h *Handler) QueueBuildJob(c *gin.Context) {

	if !h.requestIsAuthorized(c) {
		return
	}

	var job api.BuildJobQueueItem
	if err := c.ShouldBindJSON(&job); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusText(http.StatusBadRequest), "message": err.Error()})
		return
	}
	if strings.TrimSpace(job.BuildConfig.DockerImage) == "" || strings.TrimSpace(job.RepositoryInfo.AssignmentRepositoryURI) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusText(http.StatusBadRequest), "message": "buildConfig.dockerImage and repositoryInfo.assignmentRepositoryUri are required"})
		return
	}

	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	job.Status = api.BuildStatusQueued
	job.BuildAgent = nil
	job.JobTimingInfo = api.JobTimingInfo{SubmissionDate: &now}

	ctx := c.Request.Context()

	if err := h.queueService.AddBuildJob(ctx, &job); err != nil {
		log.Error().Err(err).Msgf("Failed queueing build job %v", job.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusText(http.StatusInternalServerError), "message": "Queueing build job failed"})
		return
	}

	c.JSON(http.StatusCreated, job)
}

func (h *Handler) CancelBuildJob(c *gin.Context) {

	if !h.requestIsAuthorized(c) {
		return
	}

	jobID := c.Param("id")
	ctx := c.Request.Context()

	if err := h.queueService.PublishCancelBuildJob(ctx, jobID); err != nil {
		log.Error().Err(err).Msgf("Failed publishing cancellation of build job %v", jobID)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusText(http.StatusInternalServerError), "message": "Cancelling build job failed"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"code": http.StatusText(http.StatusAccepted)})
}

func (h *Handler) PauseBuildAgent(c *gin.Context) {

	if !h.requestIsAuthorized(c) {
		return
	}

	agentName := h.agentName(c)
	ctx := c.Request.Context()

	if err := h.queueService.PublishPauseBuildAgent(ctx, agentName); err != nil {
		log.Error().Err(err).Msgf("Failed publishing pause of build agent %v", agentName)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusText(http.StatusInternalServerError), "message": "Pausing build agent failed"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"code": http.StatusText(http.StatusAccepted)})
}

func (h *Handler) ResumeBuildAgent(c *gin.Context) {

	if !h.requestIsAuthorized(c) {
		return
	}

	agentName := h.agentName(c)
	ctx := c.Request.Context()

	if err := h.queueService.PublishResumeBuildAgent(ctx, agentName); err != nil {
		log.Error().Err(err).Msgf("Failed publishing resume of build agent %v", agentName)
		c.JSON(http.StatusInternalServerError, gin.H{"code": http.StatusText(http.StatusInternalServerError), "message": "Resuming build agent failed"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"code": http.StatusText(http.StatusAccepted)})
}

// agentName defaults to this agent unless the request names another one
func (h *Handler) agentName(c *gin.Context) string {
	if name := c.Query("agent"); name != "" {
		return name
	}
	return h.config.Agent.ShortName
}

func (h *Handler) requestIsAuthorized(c *gin.Context) bool {
	if !h.config.Auth.JWT.Enabled() || api.RequestTokenIsValid(c) {
		return true
	}

	c.JSON(http.StatusUnauthorized, gin.H{"code": http.StatusText(http.StatusUnauthorized), "message": "JWT is invalid"})
	return false
}
