package cloudstorage

import (
	"context"
	"net/http"
	"time"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	"github.com/go-kit/kit/metrics"
)

// NewMetricsClient returns a new instance of a metrics Client.
func NewMetricsClient(c Client, requestCount metrics.Counter, requestLatency metrics.Histogram) Client {
	return &metricsClient{c, requestCount, requestLatency}
}

type metricsClient struct {
	Client         Client
	requestCount   metrics.Counter
	requestLatency metrics.Histogram
}

func (c *metricsClient) InsertBuildLog(ctx context.Context, jobID string, logs []api.BuildLogEntry) (err error) {
	defer func(begin time.Time) {
		api.UpdateMetrics(c.requestCount, c.requestLatency, "InsertBuildLog", begin)
	}(time.Now())

	return c.Client.InsertBuildLog(ctx, jobID, logs)
}

func (c *metricsClient) GetBuildLog(ctx context.Context, jobID string, acceptGzipEncoding bool, responseWriter http.ResponseWriter) (err error) {
	defer func(begin time.Time) {
		api.UpdateMetrics(c.requestCount, c.requestLatency, "GetBuildLog", begin)
	}(time.Now())

	return c.Client.GetBuildLog(ctx, jobID, acceptGzipEncoding, responseWriter)
}

func (c *metricsClient) Enabled() bool {
	return c.Client.Enabled()
}
