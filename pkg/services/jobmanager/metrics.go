package jobmanager

import (
	"context"
	"time"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	"github.com/estafette/estafette-ci-build-agent/pkg/pool"
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

func (s *metricsService) ExecuteBuildJob(ctx context.Context, job *api.BuildJobQueueItem) (outcome *pool.Future[Outcome], err error) {
	defer func(begin time.Time) {
		api.UpdateMetrics(s.requestCount, s.requestLatency, "ExecuteBuildJob", begin)
	}(time.Now())

	return s.Service.ExecuteBuildJob(ctx, job)
}

func (s *metricsService) CancelBuildJob(jobID string) {
	s.Service.CancelBuildJob(jobID)
}

func (s *metricsService) GetRunningBuildJobIDs() (jobIDs []string) {
	return s.Service.GetRunningBuildJobIDs()
}

func (s *metricsService) HasCapacity() bool {
	return s.Service.HasCapacity()
}

func (s *metricsService) ActiveCount() int {
	return s.Service.ActiveCount()
}

func (s *metricsService) Close() {
	s.Service.Close()
}
