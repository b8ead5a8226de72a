package jobmanager

import (
	"context"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	"github.com/estafette/estafette-ci-build-agent/pkg/pool"
	"github.com/opentracing/opentracing-go"
)

// NewTracingService returns a new instance of a tracing Service.
func NewTracingService(s Service) Service {
	return &tracingService{s, "jobmanager"}
}

type tracingService struct {
	Service Service
	prefix  string
}

func (s *tracingService) ExecuteBuildJob(ctx context.Context, job *api.BuildJobQueueItem) (outcome *pool.Future[Outcome], err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(s.prefix, "ExecuteBuildJob"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return s.Service.ExecuteBuildJob(ctx, job)
}

func (s *tracingService) CancelBuildJob(jobID string) {
	s.Service.CancelBuildJob(jobID)
}

func (s *tracingService) GetRunningBuildJobIDs() (jobIDs []string) {
	return s.Service.GetRunningBuildJobIDs()
}

func (s *tracingService) HasCapacity() bool {
	return s.Service.HasCapacity()
}

func (s *tracingService) ActiveCount() int {
	return s.Service.ActiveCount()
}

func (s *tracingService) Close() {
	s.Service.Close()
}
