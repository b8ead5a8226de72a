package executor

import (
	"context"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
)

// NewLoggingService returns a new instance of a logging Service.
func NewLoggingService(s Service) Service {
	return &loggingService{s, "executor"}
}

type loggingService struct {
	Service Service
	prefix  string
}

func (s *loggingService) RunBuildJob(ctx context.Context, job *api.BuildJobQueueItem, containerName string) (result *api.BuildResult, err error) {
	defer func() { api.HandleLogError(s.prefix, "Service", "RunBuildJob", err, api.ErrBuildJobCancelled) }()

	return s.Service.RunBuildJob(ctx, job, containerName)
}
