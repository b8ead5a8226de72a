package jobmanager

import (
	"context"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	"github.com/estafette/estafette-ci-build-agent/pkg/pool"
)

// NewLoggingService returns a new instance of a logging Service.
func NewLoggingService(s Service) Service {
	return &loggingService{s, "jobmanager"}
}

type loggingService struct {
	Service Service
	prefix  string
}

func (s *loggingService) ExecuteBuildJob(ctx context.Context, job *api.BuildJobQueueItem) (outcome *pool.Future[Outcome], err error) {
	defer func() { api.HandleLogError(s.prefix, "Service", "ExecuteBuildJob", err, pool.ErrPoolFull) }()

	return s.Service.ExecuteBuildJob(ctx, job)
}

func (s *loggingService) CancelBuildJob(jobID string) {
	s.Service.CancelBuildJob(jobID)
}

func (s *loggingService) GetRunningBuildJobIDs() (jobIDs []string) {
	return s.Service.GetRunningBuildJobIDs()
}

func (s *loggingService) HasCapacity() bool {
	return s.Service.HasCapacity()
}

func (s *loggingService) ActiveCount() int {
	return s.Service.ActiveCount()
}

func (s *loggingService) Close() {
	s.Service.Close()
}
