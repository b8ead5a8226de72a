package containerapi

import (
	"context"
	"io"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
)

// NewLoggingClient returns a new instance of a logging Client.
func NewLoggingClient(c Client) Client {
	return &loggingClient{c, "containerapi"}
}

type loggingClient struct {
	Client Client
	prefix string
}

func (c *loggingClient) ImageExists(ctx context.Context, image string) (exists bool, err error) {
	defer func() { api.HandleLogError(c.prefix, "Client", "ImageExists", err) }()

	return c.Client.ImageExists(ctx, image)
}

func (c *loggingClient) PullImage(ctx context.Context, image string) (err error) {
	defer func() { api.HandleLogError(c.prefix, "Client", "PullImage", err) }()

	return c.Client.PullImage(ctx, image)
}

func (c *loggingClient) ListImages(ctx context.Context) (images []ImageInfo, err error) {
	defer func() { api.HandleLogError(c.prefix, "Client", "ListImages", err) }()

	return c.Client.ListImages(ctx)
}

func (c *loggingClient) RemoveImage(ctx context.Context, image string) (err error) {
	defer func() { api.HandleLogError(c.prefix, "Client", "RemoveImage", err) }()

	return c.Client.RemoveImage(ctx, image)
}

func (c *loggingClient) CreateContainer(ctx context.Context, params CreateContainerParams) (containerID string, err error) {
	defer func() { api.HandleLogError(c.prefix, "Client", "CreateContainer", err) }()

	return c.Client.CreateContainer(ctx, params)
}

func (c *loggingClient) StartContainer(ctx context.Context, containerID string) (err error) {
	defer func() { api.HandleLogError(c.prefix, "Client", "StartContainer", err) }()

	return c.Client.StartContainer(ctx, containerID)
}

func (c *loggingClient) StopContainer(ctx context.Context, containerName string) (err error) {
	defer func() { api.HandleLogError(c.prefix, "Client", "StopContainer", err) }()

	return c.Client.StopContainer(ctx, containerName)
}

func (c *loggingClient) RemoveContainer(ctx context.Context, containerID string) (err error) {
	defer func() { api.HandleLogError(c.prefix, "Client", "RemoveContainer", err) }()

	return c.Client.RemoveContainer(ctx, containerID)
}

func (c *loggingClient) ListContainers(ctx context.Context, namePrefix string) (containers []ContainerInfo, err error) {
	defer func() { api.HandleLogError(c.prefix, "Client", "ListContainers", err) }()

	return c.Client.ListContainers(ctx, namePrefix)
}

func (c *loggingClient) DisconnectFromNetwork(ctx context.Context, containerID, network string) (err error) {
	defer func() { api.HandleLogError(c.prefix, "Client", "DisconnectFromNetwork", err) }()

	return c.Client.DisconnectFromNetwork(ctx, containerID, network)
}

func (c *loggingClient) ExecuteCommand(ctx context.Context, containerID string, cmd []string, logLine func(line string)) (exitCode int, err error) {
	defer func() { api.HandleLogError(c.prefix, "Client", "ExecuteCommand", err) }()

	return c.Client.ExecuteCommand(ctx, containerID, cmd, logLine)
}

func (c *loggingClient) CopyToContainer(ctx context.Context, containerID, sourcePath, targetPath string) (err error) {
	defer func() { api.HandleLogError(c.prefix, "Client", "CopyToContainer", err) }()

	return c.Client.CopyToContainer(ctx, containerID, sourcePath, targetPath)
}

func (c *loggingClient) WriteFileToContainer(ctx context.Context, containerID, targetPath string, content []byte, mode int64) (err error) {
	defer func() { api.HandleLogError(c.prefix, "Client", "WriteFileToContainer", err) }()

	return c.Client.WriteFileToContainer(ctx, containerID, targetPath, content, mode)
}

func (c *loggingClient) GetArchiveFromContainer(ctx context.Context, containerID, sourcePath string) (archive io.Reader, err error) {
	defer func() { api.HandleLogError(c.prefix, "Client", "GetArchiveFromContainer", err, ErrResultsNotFound) }()

	return c.Client.GetArchiveFromContainer(ctx, containerID, sourcePath)
}
