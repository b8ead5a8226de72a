package images

import (
	"context"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
)

// NewLoggingService returns a new instance of a logging Service.
func NewLoggingService(s Service) Service {
	return &loggingService{s, "images"}
}

type loggingService struct {
	Service Service
	prefix  string
}

func (s *loggingService) PullImageIfAbsent(ctx context.Context, jobID, image string) (err error) {
	defer func() { api.HandleLogError(s.prefix, "Service", "PullImageIfAbsent", err, api.ErrBuildJobCancelled, api.ErrBuildJobTimedOut) }()

	return s.Service.PullImageIfAbsent(ctx, jobID, image)
}

func (s *loggingService) CleanUpContainers(ctx context.Context) (err error) {
	defer func() { api.HandleLogError(s.prefix, "Service", "CleanUpContainers", err) }()

	return s.Service.CleanUpContainers(ctx)
}

func (s *loggingService) DeleteOldDockerImages(ctx context.Context) (err error) {
	defer func() { api.HandleLogError(s.prefix, "Service", "DeleteOldDockerImages", err) }()

	return s.Service.DeleteOldDockerImages(ctx)
}

func (s *loggingService) Start(ctx context.Context) (err error) {
	defer func() { api.HandleLogError(s.prefix, "Service", "Start", err) }()

	return s.Service.Start(ctx)
}

func (s *loggingService) Stop() {
	s.Service.Stop()
}
