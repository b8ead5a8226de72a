package containerapi

import (
	"context"

	docker "github.com/fsouza/go-dockerclient"
)

// dockerAPI contains the methods called on the go docker client
type dockerAPI interface {
	InspectImage(name string) (*docker.Image, error)
	PullImage(opts docker.PullImageOptions, auth docker.AuthConfiguration) error
	ListImages(opts docker.ListImagesOptions) ([]docker.APIImages, error)
	RemoveImageExtended(name string, opts docker.RemoveImageOptions) error
	CreateContainer(opts docker.CreateContainerOptions) (*docker.Container, error)
	StartContainerWithContext(id string, hostConfig *docker.HostConfig, ctx context.Context) error
	StopContainerWithContext(id string, timeout uint, ctx context.Context) error
	KillContainer(opts docker.KillContainerOptions) error
	RemoveContainer(opts docker.RemoveContainerOptions) error
	ListContainers(opts docker.ListContainersOptions) ([]docker.APIContainers, error)
	DisconnectNetwork(id string, opts docker.NetworkConnectionOptions) error
	CreateExec(opts docker.CreateExecOptions) (*docker.Exec, error)
	StartExec(id string, opts docker.StartExecOptions) error
	InspectExec(id string) (*docker.ExecInspect, error)
	UploadToContainer(id string, opts docker.UploadToContainerOptions) error
	DownloadFromContainer(id string, opts docker.DownloadFromContainerOptions) error
}
