package containerapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	docker "github.com/fsouza/go-dockerclient"
	"github.com/rs/zerolog/log"
)

var (
	// ErrResultsNotFound is returned when the requested path does not exist in the container
	ErrResultsNotFound = errors.New("The requested path can't be found in the container")
	// ErrContainerNotFound is returned when a container can't be found
	ErrContainerNotFound = errors.New("The container can't be found")
)

// CreateContainerParams describes a build container
type CreateContainerParams struct {
	Name             string
	Image            string
	Cmd              []string
	Env              []string
	WorkingDirectory string
	Labels           map[string]string
	NanoCPUs         int64
	MemoryBytes      int64
	MemorySwapBytes  int64
	PidsLimit        int64
	NetworkDisabled  bool
}

// ContainerInfo is a summary of a container known to the engine
type ContainerInfo struct {
	ID    string
	Name  string
	Image string
	State string
}

// ImageInfo is a summary of an image known to the engine
type ImageInfo struct {
	ID       string
	RepoTags []string
	Created  time.Time
}

// Client is the interface for running build containers on a docker engine
//
//go:generate mockgen -package=containerapi -destination ./mock.go -source=client.go
type Client interface {
	ImageExists(ctx context.Context, image string) (exists bool, err error)
	PullImage(ctx context.Context, image string) (err error)
	ListImages(ctx context.Context) (images []ImageInfo, err error)
	RemoveImage(ctx context.Context, image string) (err error)
	CreateContainer(ctx context.Context, params CreateContainerParams) (containerID string, err error)
	StartContainer(ctx context.Context, containerID string) (err error)
	StopContainer(ctx context.Context, containerName string) (err error)
	RemoveContainer(ctx context.Context, containerID string) (err error)
	ListContainers(ctx context.Context, namePrefix string) (containers []ContainerInfo, err error)
	DisconnectFromNetwork(ctx context.Context, containerID, network string) (err error)
	ExecuteCommand(ctx context.Context, containerID string, cmd []string, logLine func(line string)) (exitCode int, err error)
	CopyToContainer(ctx context.Context, containerID, sourcePath, targetPath string) (err error)
	WriteFileToContainer(ctx context.Context, containerID, targetPath string, content []byte, mode int64) (err error)
	GetArchiveFromContainer(ctx context.Context, containerID, sourcePath string) (archive io.Reader, err error)
}

// NewClient returns a new containerapi.Client
func NewClient(dockerClient *docker.Client, stopTimeoutSeconds int) Client {
	return &client{
		docker:             dockerClient,
		stopTimeoutSeconds: uint(stopTimeoutSeconds),
	}
}

type client struct {
	docker             dockerAPI
	stopTimeoutSeconds uint
}

func (c *client) ImageExists(ctx context.Context, image string) (exists bool, err error) {
	_, err = c.docker.InspectImage(image)
	if errors.Is(err, docker.ErrNoSuchImage) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed inspecting image %v: %w", image, err)
	}
	return true, nil
}

func (c *client) PullImage(ctx context.Context, image string) (err error) {
	repository, tag := parseRepositoryTag(image)

	log.Info().Msgf("Pulling docker image %v", image)

	err = c.docker.PullImage(docker.PullImageOptions{
		Repository: repository,
		Tag:        tag,
		Context:    ctx,
	}, docker.AuthConfiguration{})
	if err != nil {
		return fmt.Errorf("failed pulling image %v: %w", image, err)
	}
	return nil
}

// parseRepositoryTag splits an image reference, a colon after the last slash separates the tag
func parseRepositoryTag(image string) (repository, tag string) {
	if i := strings.Index(image, "@"); i >= 0 {
		return image[:i], image[i+1:]
	}
	i := strings.LastIndex(image, ":")
	if i < 0 || strings.Contains(image[i+1:], "/") {
		return image, "latest"
	}
	return image[:i], image[i+1:]
}

func (c *client) ListImages(ctx context.Context) (images []ImageInfo, err error) {
	apiImages, err := c.docker.ListImages(docker.ListImagesOptions{Context: ctx})
	if err != nil {
		return nil, fmt.Errorf("failed listing images: %w", err)
	}

	images = make([]ImageInfo, 0, len(apiImages))
	for _, i := range apiImages {
		images = append(images, ImageInfo{
			ID:       i.ID,
			RepoTags: i.RepoTags,
			Created:  time.Unix(i.Created, 0),
		})
	}
	return images, nil
}

func (c *client) RemoveImage(ctx context.Context, image string) (err error) {
	err = c.docker.RemoveImageExtended(image, docker.RemoveImageOptions{Context: ctx})
	if errors.Is(err, docker.ErrNoSuchImage) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed removing image %v: %w", image, err)
	}
	return nil
}

func (c *client) CreateContainer(ctx context.Context, params CreateContainerParams) (containerID string, err error) {
	hostConfig := &docker.HostConfig{
		NanoCPUs:   params.NanoCPUs,
		Memory:     params.MemoryBytes,
		MemorySwap: params.MemorySwapBytes,
	}
	if params.PidsLimit > 0 {
		pidsLimit := params.PidsLimit
		hostConfig.PidsLimit = &pidsLimit
	}

	container, err := c.docker.CreateContainer(docker.CreateContainerOptions{
		Name: params.Name,
		Config: &docker.Config{
			Image:           params.Image,
			Cmd:             params.Cmd,
			Env:             params.Env,
			WorkingDir:      params.WorkingDirectory,
			Labels:          params.Labels,
			NetworkDisabled: params.NetworkDisabled,
		},
		HostConfig: hostConfig,
		Context:    ctx,
	})
	if err != nil {
		return "", fmt.Errorf("failed creating container %v: %w", params.Name, err)
	}
	return container.ID, nil
}

func (c *client) StartContainer(ctx context.Context, containerID string) (err error) {
	if err = c.docker.StartContainerWithContext(containerID, nil, ctx); err != nil {
		var alreadyRunning *docker.ContainerAlreadyRunning
		if errors.As(err, &alreadyRunning) {
			return nil
		}
		return fmt.Errorf("failed starting container %v: %w", containerID, err)
	}
	return nil
}

// StopContainer stops and removes a container; a container that is already gone is not an error
func (c *client) StopContainer(ctx context.Context, containerName string) (err error) {
	err = c.docker.StopContainerWithContext(containerName, c.stopTimeoutSeconds, ctx)
	if err != nil && !isNotFound(err) && !isNotRunning(err) {
		log.Warn().Err(err).Msgf("Failed stopping container %v, killing it instead", containerName)
		if killErr := c.docker.KillContainer(docker.KillContainerOptions{ID: containerName, Context: ctx}); killErr != nil && !isNotFound(killErr) && !isNotRunning(killErr) {
			return fmt.Errorf("failed killing container %v: %w", containerName, killErr)
		}
	}

	return c.RemoveContainer(ctx, containerName)
}

func (c *client) RemoveContainer(ctx context.Context, containerID string) (err error) {
	err = c.docker.RemoveContainer(docker.RemoveContainerOptions{
		ID:            containerID,
		Force:         true,
		RemoveVolumes: true,
		Context:       ctx,
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("failed removing container %v: %w", containerID, err)
	}
	return nil
}

func (c *client) ListContainers(ctx context.Context, namePrefix string) (containers []ContainerInfo, err error) {
	opts := docker.ListContainersOptions{
		All:     true,
		Context: ctx,
	}
	if namePrefix != "" {
		opts.Filters = map[string][]string{"name": {namePrefix}}
	}

	apiContainers, err := c.docker.ListContainers(opts)
	if err != nil {
		return nil, fmt.Errorf("failed listing containers: %w", err)
	}

	for _, ac := range apiContainers {
		name := containerName(ac.Names)
		// the engine's name filter matches substrings
		if !strings.HasPrefix(name, namePrefix) {
			continue
		}
		containers = append(containers, ContainerInfo{
			ID:    ac.ID,
			Name:  name,
			Image: ac.Image,
			State: ac.State,
		})
	}
	return containers, nil
}

func containerName(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return strings.TrimPrefix(names[0], "/")
}

func (c *client) DisconnectFromNetwork(ctx context.Context, containerID, network string) (err error) {
	err = c.docker.DisconnectNetwork(network, docker.NetworkConnectionOptions{
		Container: containerID,
		Force:     true,
		Context:   ctx,
	})
	if err != nil {
		return fmt.Errorf("failed disconnecting container %v from network %v: %w", containerID, network, err)
	}
	return nil
}

func (c *client) ExecuteCommand(ctx context.Context, containerID string, cmd []string, logLine func(line string)) (exitCode int, err error) {
	exec, err := c.docker.CreateExec(docker.CreateExecOptions{
		Container:    containerID,
		Cmd:          cmd,
		AttachStdout: true,
		AttachStderr: true,
		Context:      ctx,
	})
	if err != nil {
		return -1, fmt.Errorf("failed creating exec in container %v: %w", containerID, err)
	}

	output := newLineWriter(logLine)
	err = c.docker.StartExec(exec.ID, docker.StartExecOptions{
		OutputStream: output,
		ErrorStream:  output,
		Context:      ctx,
	})
	output.Flush()
	if err != nil {
		if ctx.Err() != nil {
			return -1, context.Cause(ctx)
		}
		return -1, fmt.Errorf("failed running exec in container %v: %w", containerID, err)
	}

	inspect, err := c.docker.InspectExec(exec.ID)
	if err != nil {
		return -1, fmt.Errorf("failed inspecting exec in container %v: %w", containerID, err)
	}

	return inspect.ExitCode, nil
}

func (c *client) CopyToContainer(ctx context.Context, containerID, sourcePath, targetPath string) (err error) {
	archive := new(bytes.Buffer)
	if err = tarDirectory(archive, sourcePath, targetPath); err != nil {
		return fmt.Errorf("failed archiving %v: %w", sourcePath, err)
	}

	return c.upload(ctx, containerID, archive)
}

func (c *client) WriteFileToContainer(ctx context.Context, containerID, targetPath string, content []byte, mode int64) (err error) {
	archive := new(bytes.Buffer)
	if err = tarFile(archive, targetPath, content, mode); err != nil {
		return fmt.Errorf("failed archiving %v: %w", targetPath, err)
	}

	return c.upload(ctx, containerID, archive)
}

func (c *client) upload(ctx context.Context, containerID string, archive io.Reader) (err error) {
	err = c.docker.UploadToContainer(containerID, docker.UploadToContainerOptions{
		InputStream: archive,
		// entries carry their full path
		Path:    "/",
		Context: ctx,
	})
	if isNotFound(err) {
		return ErrContainerNotFound
	}
	if err != nil {
		return fmt.Errorf("failed uploading to container %v: %w", containerID, err)
	}
	return nil
}

func (c *client) GetArchiveFromContainer(ctx context.Context, containerID, sourcePath string) (archive io.Reader, err error) {
	buffer := new(bytes.Buffer)
	err = c.docker.DownloadFromContainer(containerID, docker.DownloadFromContainerOptions{
		OutputStream: buffer,
		Path:         path.Clean(sourcePath),
		Context:      ctx,
	})
	if isNotFound(err) {
		return nil, ErrResultsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed downloading %v from container %v: %w", sourcePath, containerID, err)
	}
	return buffer, nil
}

func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	var noSuchContainer *docker.NoSuchContainer
	if errors.As(err, &noSuchContainer) {
		return true
	}
	var apiError *docker.Error
	return errors.As(err, &apiError) && apiError.Status == http.StatusNotFound
}

func isNotRunning(err error) bool {
	var notRunning *docker.ContainerNotRunning
	return errors.As(err, &notRunning)
}
