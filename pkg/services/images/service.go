package images

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	"github.com/estafette/estafette-ci-build-agent/pkg/clients/containerapi"
	"github.com/estafette/estafette-ci-build-agent/pkg/services/buildlogs"
	"github.com/estafette/estafette-ci-build-agent/pkg/services/queue"
	"github.com/robfig/cron"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// Service keeps the docker images needed by build jobs available and removes what is no longer needed
//
//go:generate mockgen -package=images -destination ./mock.go -source=service.go
type Service interface {
	// PullImageIfAbsent pulls an image unless it's present; concurrent pulls of the same image are collapsed into one
	PullImageIfAbsent(ctx context.Context, jobID, image string) (err error)
	CleanUpContainers(ctx context.Context) (err error)
	DeleteOldDockerImages(ctx context.Context) (err error)
	// Start schedules the image cleanup and a delayed removal of orphaned build containers
	Start(ctx context.Context) (err error)
	Stop()
}

// NewService returns a new images.Service
func NewService(config *api.BuildAgentConfig, containerClient containerapi.Client, queueService queue.Service, buildLogsService buildlogs.Service) Service {
	return &service{
		config:           config,
		containerClient:  containerClient,
		queueService:     queueService,
		buildLogsService: buildLogsService,
		now:              time.Now,
	}
}

type service struct {
	config           *api.BuildAgentConfig
	containerClient  containerapi.Client
	queueService     queue.Service
	buildLogsService buildlogs.Service
	pullGroup        singleflight.Group
	now              func() time.Time

	mutex   sync.Mutex
	cron    *cron.Cron
	stopped chan struct{}
}

func (s *service) PullImageIfAbsent(ctx context.Context, jobID, image string) (err error) {

	if err := s.queueService.SetImageLastUsed(ctx, image, s.now()); err != nil {
		log.Warn().Err(err).Msgf("Failed recording usage of image %v", image)
	}

	exists, err := s.containerClient.ImageExists(ctx, image)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	// the pull outlives a cancelled caller, other jobs may be waiting for it
	pullCtx := context.WithoutCancel(ctx)
	result := s.pullGroup.DoChan(image, func() (interface{}, error) {
		exists, err := s.containerClient.ImageExists(pullCtx, image)
		if err != nil || exists {
			return nil, err
		}

		msg := fmt.Sprintf("~~~~~~~~~~~~~~~~~~~~ Pulling docker image %v ~~~~~~~~~~~~~~~~~~~~", image)
		s.buildLogsService.AppendBuildLogEntry(jobID, msg)
		log.Info().Msg(msg)

		return nil, s.containerClient.PullImage(pullCtx, image)
	})

	select {
	case r := <-result:
		if r.Err != nil {
			s.buildLogsService.AppendBuildLogEntry(jobID, fmt.Sprintf("Could not pull Docker image %v", image))
		}
		return r.Err
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}

// CleanUpContainers force removes all build containers carrying this agent's prefix; only call it while no build runs
func (s *service) CleanUpContainers(ctx context.Context) (err error) {
	containers, err := s.containerClient.ListContainers(ctx, s.config.Docker.ContainerPrefix)
	if err != nil {
		return err
	}

	s.removeOrphanedContainers(ctx, containers)

	return nil
}

func (s *service) removeOrphanedContainers(ctx context.Context, containers []containerapi.ContainerInfo) {
	for _, c := range containers {
		log.Info().Msgf("Removing orphaned build container %v", c.Name)
		if err := s.containerClient.RemoveContainer(ctx, c.ID); err != nil {
			log.Warn().Err(err).Msgf("Failed removing orphaned build container %v", c.Name)
		}
	}
}

// DeleteOldDockerImages removes local images that no build used within the expiry period
func (s *service) DeleteOldDockerImages(ctx context.Context) (err error) {
	lastUsed, err := s.queueService.GetImagesLastUsed(ctx)
	if err != nil {
		return err
	}

	containers, err := s.containerClient.ListContainers(ctx, "")
	if err != nil {
		return err
	}
	inUse := map[string]bool{}
	for _, c := range containers {
		inUse[c.Image] = true
	}

	localImages, err := s.containerClient.ListImages(ctx)
	if err != nil {
		return err
	}

	cutoff := s.now().Add(-time.Duration(s.config.Docker.ImageExpiryDays) * 24 * time.Hour)

	for _, image := range localImages {
		for _, tag := range image.RepoTags {
			used, known := lastUsed[tag]
			if !known || used.After(cutoff) || inUse[tag] || inUse[image.ID] {
				continue
			}

			log.Info().Msgf("Deleting docker image %v, last used at %v", tag, used)
			if err := s.containerClient.RemoveImage(ctx, tag); err != nil {
				log.Warn().Err(err).Msgf("Failed deleting docker image %v", tag)
			}
		}
	}

	return nil
}

func (s *service) Start(ctx context.Context) (err error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.cron != nil {
		return nil
	}

	c := cron.New()
	if !s.config.Docker.DisableImageCleanup {
		err = c.AddFunc(s.config.Docker.ImageCleanupSchedule, func() {
			if err := s.DeleteOldDockerImages(ctx); err != nil {
				log.Warn().Err(err).Msg("Failed deleting old docker images")
			}
		})
		if err != nil {
			return fmt.Errorf("invalid image cleanup schedule %v: %w", s.config.Docker.ImageCleanupSchedule, err)
		}
	}

	// only containers present before any job is claimed are orphans, builds started after Start keep theirs
	orphans, listErr := s.containerClient.ListContainers(ctx, s.config.Docker.ContainerPrefix)
	if listErr != nil {
		log.Warn().Err(listErr).Msg("Failed listing orphaned build containers")
	}

	s.stopped = make(chan struct{})
	delay := time.Duration(s.config.Agent.ContainerCleanupDelaySeconds) * time.Second
	go func(stopped chan struct{}) {
		select {
		case <-time.After(delay):
			s.removeOrphanedContainers(ctx, orphans)
		case <-stopped:
		case <-ctx.Done():
		}
	}(s.stopped)

	c.Start()
	s.cron = c

	return nil
}

func (s *service) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.cron == nil {
		return
	}
	s.cron.Stop()
	close(s.stopped)
	s.cron = nil
}
