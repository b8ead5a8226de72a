package gitapi

import (
	"context"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
)

// NewLoggingClient returns a new instance of a logging Client.
func NewLoggingClient(c Client) Client {
	return &loggingClient{c, "gitapi"}
}

type loggingClient struct {
	Client Client
	prefix string
}

func (c *loggingClient) CloneRepository(ctx context.Context, repositoryURI, targetPath string) (err error) {
	defer func() { api.HandleLogError(c.prefix, "Client", "CloneRepository", err) }()

	return c.Client.CloneRepository(ctx, repositoryURI, targetPath)
}

func (c *loggingClient) CheckoutCommit(ctx context.Context, repositoryPath, commitHash string) (err error) {
	defer func() { api.HandleLogError(c.prefix, "Client", "CheckoutCommit", err) }()

	return c.Client.CheckoutCommit(ctx, repositoryPath, commitHash)
}

func (c *loggingClient) GetLastCommitHash(ctx context.Context, repositoryURI string) (commitHash string, err error) {
	defer func() { api.HandleLogError(c.prefix, "Client", "GetLastCommitHash", err) }()

	return c.Client.GetLastCommitHash(ctx, repositoryURI)
}

func (c *loggingClient) DeleteRepository(ctx context.Context, repositoryPath string) (err error) {
	defer func() { api.HandleLogError(c.prefix, "Client", "DeleteRepository", err) }()

	return c.Client.DeleteRepository(ctx, repositoryPath)
}
