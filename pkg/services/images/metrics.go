package images

import (
	"context"
	"time"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	"github.com/go-kit/kit/metrics"
)

// NewMetricsService returns a new instance of a metrics Service.
func NewMetricsService(s Service, requestCount metrics.Counter, requestLatency metrics.Histogram) Service {
	return &metricsService{s, requestCount, requestLatency}
}

type metricsService struct {
	Service        Service
	requestCount   metrics.Counter
	requestLatency metrics.Histogram
}

func (s *metricsService) PullImageIfAbsent(ctx context.Context, jobID, image string) (err error) {
	defer func(begin time.Time) {
		api.UpdateMetrics(s.requestCount, s.requestLatency, "PullImageIfAbsent", begin)
	}(time.Now())

	return s.Service.PullImageIfAbsent(ctx, jobID, image)
}

func (s *metricsService) CleanUpContainers(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		api.UpdateMetrics(s.requestCount, s.requestLatency, "CleanUpContainers", begin)
	}(time.Now())

	return s.Service.CleanUpContainers(ctx)
}

func (s *metricsService) DeleteOldDockerImages(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		api.UpdateMetrics(s.requestCount, s.requestLatency, "DeleteOldDockerImages", begin)
	}(time.Now())

	return s.Service.DeleteOldDockerImages(ctx)
}

func (s *metricsService) Start(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		api.UpdateMetrics(s.requestCount, s.requestLatency, "Start", begin)
	}(time.Now())

	return s.Service.Start(ctx)
}

func (s *metricsService) Stop() {
	s.Service.Stop()
}
