package containerapi

import (
	"context"
	"io"
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

func (c *metricsClient) ImageExists(ctx context.Context, image string) (exists bool, err error) {
	defer func(begin time.Time) {
		api.UpdateMetrics(c.requestCount, c.requestLatency, "ImageExists", begin)
	}(time.Now())

	return c.Client.ImageExists(ctx, image)
}

func (c *metricsClient) PullImage(ctx context.Context, image string) (err error) {
	defer func(begin time.Time) {
		api.UpdateMetrics(c.requestCount, c.requestLatency, "PullImage", begin)
	}(time.Now())

	return c.Client.PullImage(ctx, image)
}

func (c *metricsClient) ListImages(ctx context.Context) (images []ImageInfo, err error) {
	defer func(begin time.Time) {
		api.UpdateMetrics(c.requestCount, c.requestLatency, "ListImages", begin)
	}(time.Now())

	return c.Client.ListImages(ctx)
}

func (c *metricsClient) RemoveImage(ctx context.Context, image string) (err error) {
	defer func(begin time.Time) {
		api.UpdateMetrics(c.requestCount, c.requestLatency, "RemoveImage", begin)
	}(time.Now())

	return c.Client.RemoveImage(ctx, image)
}

func (c *metricsClient) CreateContainer(ctx context.Context, params CreateContainerParams) (containerID string, err error) {
	defer func(begin time.Time) {
		api.UpdateMetrics(c.requestCount, c.requestLatency, "CreateContainer", begin)
	}(time.Now())

	return c.Client.CreateContainer(ctx, params)
}

func (c *metricsClient) StartContainer(ctx context.Context, containerID string) (err error) {
	defer func(begin time.Time) {
		api.UpdateMetrics(c.requestCount, c.requestLatency, "StartContainer", begin)
	}(time.Now())

	return c.Client.StartContainer(ctx, containerID)
}

func (c *metricsClient) StopContainer(ctx context.Context, containerName string) (err error) {
	defer func(begin time.Time) {
		api.UpdateMetrics(c.requestCount, c.requestLatency, "StopContainer", begin)
	}(time.Now())

	return c.Client.StopContainer(ctx, containerName)
}

func (c *metricsClient) RemoveContainer(ctx context.Context, containerID string) (err error) {
	defer func(begin time.Time) {
		api.UpdateMetrics(c.requestCount, c.requestLatency, "RemoveContainer", begin)
	}(time.Now())

	return c.Client.RemoveContainer(ctx, containerID)
}

func (c *metricsClient) ListContainers(ctx context.Context, namePrefix string) (containers []ContainerInfo, err error) {
	defer func(begin time.Time) {
		api.UpdateMetrics(c.requestCount, c.requestLatency, "ListContainers", begin)
	}(time.Now())

	return c.Client.ListContainers(ctx, namePrefix)
}

func (c *metricsClient) DisconnectFromNetwork(ctx context.Context, containerID, network string) (err error) {
	defer func(begin time.Time) {
		api.UpdateMetrics(c.requestCount, c.requestLatency, "DisconnectFromNetwork", begin)
	}(time.Now())

	return c.Client.DisconnectFromNetwork(ctx, containerID, network)
}

func (c *metricsClient) ExecuteCommand(ctx context.Context, containerID string, cmd []string, logLine func(line string)) (exitCode int, err error) {
	defer func(begin time.Time) {
		api.UpdateMetrics(c.requestCount, c.requestLatency, "ExecuteCommand", begin)
	}(time.Now())

	return c.Client.ExecuteCommand(ctx, containerID, cmd, logLine)
}

func (c *metricsClient) CopyToContainer(ctx context.Context, containerID, sourcePath, targetPath string) (err error) {
	defer func(begin time.Time) {
		api.UpdateMetrics(c.requestCount, c.requestLatency, "CopyToContainer", begin)
	}(time.Now())

	return c.Client.CopyToContainer(ctx, containerID, sourcePath, targetPath)
}

func (c *metricsClient) WriteFileToContainer(ctx context.Context, containerID, targetPath string, content []byte, mode int64) (err error) {
	defer func(begin time.Time) {
		api.UpdateMetrics(c.requestCount, c.requestLatency, "WriteFileToContainer", begin)
	}(time.Now())

	return c.Client.WriteFileToContainer(ctx, containerID, targetPath, content, mode)
}

func (c *metricsClient) GetArchiveFromContainer(ctx context.Context, containerID, sourcePath string) (archive io.Reader, err error) {
	defer func(begin time.Time) {
		api.UpdateMetrics(c.requestCount, c.requestLatency, "GetArchiveFromContainer", begin)
	}(time.Now())

	return c.Client.GetArchiveFromContainer(ctx, containerID, sourcePath)
}
