package containerapi

import (
	"context"
	"io"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	"github.com/opentracing/opentracing-go"
)

// NewTracingClient returns a new instance of a tracing Client.
func NewTracingClient(c Client) Client {
	return &tracingClient{c, "containerapi"}
}

type tracingClient struct {
	Client Client
	prefix string
}

func (c *tracingClient) ImageExists(ctx context.Context, image string) (exists bool, err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(c.prefix, "ImageExists"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return c.Client.ImageExists(ctx, image)
}

func (c *tracingClient) PullImage(ctx context.Context, image string) (err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(c.prefix, "PullImage"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return c.Client.PullImage(ctx, image)
}

func (c *tracingClient) ListImages(ctx context.Context) (images []ImageInfo, err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(c.prefix, "ListImages"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return c.Client.ListImages(ctx)
}

func (c *tracingClient) RemoveImage(ctx context.Context, image string) (err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(c.prefix, "RemoveImage"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return c.Client.RemoveImage(ctx, image)
}

func (c *tracingClient) CreateContainer(ctx context.Context, params CreateContainerParams) (containerID string, err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(c.prefix, "CreateContainer"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return c.Client.CreateContainer(ctx, params)
}

func (c *tracingClient) StartContainer(ctx context.Context, containerID string) (err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(c.prefix, "StartContainer"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return c.Client.StartContainer(ctx, containerID)
}

func (c *tracingClient) StopContainer(ctx context.Context, containerName string) (err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(c.prefix, "StopContainer"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return c.Client.StopContainer(ctx, containerName)
}

func (c *tracingClient) RemoveContainer(ctx context.Context, containerID string) (err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(c.prefix, "RemoveContainer"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return c.Client.RemoveContainer(ctx, containerID)
}

func (c *tracingClient) ListContainers(ctx context.Context, namePrefix string) (containers []ContainerInfo, err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(c.prefix, "ListContainers"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return c.Client.ListContainers(ctx, namePrefix)
}

func (c *tracingClient) DisconnectFromNetwork(ctx context.Context, containerID, network string) (err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(c.prefix, "DisconnectFromNetwork"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return c.Client.DisconnectFromNetwork(ctx, containerID, network)
}

func (c *tracingClient) ExecuteCommand(ctx context.Context, containerID string, cmd []string, logLine func(line string)) (exitCode int, err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(c.prefix, "ExecuteCommand"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return c.Client.ExecuteCommand(ctx, containerID, cmd, logLine)
}

func (c *tracingClient) CopyToContainer(ctx context.Context, containerID, sourcePath, targetPath string) (err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(c.prefix, "CopyToContainer"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return c.Client.CopyToContainer(ctx, containerID, sourcePath, targetPath)
}

func (c *tracingClient) WriteFileToContainer(ctx context.Context, containerID, targetPath string, content []byte, mode int64) (err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(c.prefix, "WriteFileToContainer"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return c.Client.WriteFileToContainer(ctx, containerID, targetPath, content, mode)
}

func (c *tracingClient) GetArchiveFromContainer(ctx context.Context, containerID, sourcePath string) (archive io.Reader, err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(c.prefix, "GetArchiveFromContainer"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return c.Client.GetArchiveFromContainer(ctx, containerID, sourcePath)
}
