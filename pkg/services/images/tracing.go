package images

import (
	"context"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	"github.com/opentracing/opentracing-go"
)

// NewTracingService returns a new instance of a tracing Service.
func NewTracingService(s Service) Service {
	return &tracingService{s, "images"}
}

type tracingService struct {
	Service Service
	prefix  string
}

func (s *tracingService) PullImageIfAbsent(ctx context.Context, jobID, image string) (err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(s.prefix, "PullImageIfAbsent"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return s.Service.PullImageIfAbsent(ctx, jobID, image)
}

func (s *tracingService) CleanUpContainers(ctx context.Context) (err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(s.prefix, "CleanUpContainers"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return s.Service.CleanUpContainers(ctx)
}

func (s *tracingService) DeleteOldDockerImages(ctx context.Context) (err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(s.prefix, "DeleteOldDockerImages"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return s.Service.DeleteOldDockerImages(ctx)
}

func (s *tracingService) Start(ctx context.Context) (err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(s.prefix, "Start"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return s.Service.Start(ctx)
}

func (s *tracingService) Stop() {
	s.Service.Stop()
}
