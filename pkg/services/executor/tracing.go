package executor

import (
	"context"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	"github.com/opentracing/opentracing-go"
)

// NewTracingService returns a new instance of a tracing Service.
func NewTracingService(s Service) Service {
	return &tracingService{s, "executor"}
}

type tracingService struct {
	Service Service
	prefix  string
}

func (s *tracingService) RunBuildJob(ctx context.Context, job *api.BuildJobQueueItem, containerName string) (result *api.BuildResult, err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(s.prefix, "RunBuildJob"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return s.Service.RunBuildJob(ctx, job, containerName)
}
