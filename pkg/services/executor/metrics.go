package executor

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

func (s *metricsService) RunBuildJob(ctx context.Context, job *api.BuildJobQueueItem, containerName string) (result *api.BuildResult, err error) {
	defer func(begin time.Time) {
		api.UpdateMetrics(s.requestCount, s.requestLatency, "RunBuildJob", begin)
	}(time.Now())

	return s.Service.RunBuildJob(ctx, job, containerName)
}
