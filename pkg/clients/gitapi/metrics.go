package gitapi

import (
	"context"
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

func (c *metricsClient) CloneRepository(ctx context.Context, repositoryURI, targetPath string) (err error) {
	defer func(begin time.Time) {
		api.UpdateMetrics(c.requestCount, c.requestLatency, "CloneRepository", begin)
	}(time.Now())

	return c.Client.CloneRepository(ctx, repositoryURI, targetPath)
}

func (c *metricsClient) CheckoutCommit(ctx context.Context, repositoryPath, commitHash string) (err error) {
	defer func(begin time.Time) {
		api.UpdateMetrics(c.requestCount, c.requestLatency, "CheckoutCommit", begin)
	}(time.Now())

	return c.Client.CheckoutCommit(ctx, repositoryPath, commitHash)
}

func (c *metricsClient) GetLastCommitHash(ctx context.Context, repositoryURI string) (commitHash string, err error) {
	defer func(begin time.Time) {
		api.UpdateMetrics(c.requestCount, c.requestLatency, "GetLastCommitHash", begin)
	}(time.Now())

	return c.Client.GetLastCommitHash(ctx, repositoryURI)
}

func (c *metricsClient) DeleteRepository(ctx context.Context, repositoryPath string) (err error) {
	defer func(begin time.Time) {
		api.UpdateMetrics(c.requestCount, c.requestLatency, "DeleteRepository", begin)
	}(time.Now())

	return c.Client.DeleteRepository(ctx, repositoryPath)
}
