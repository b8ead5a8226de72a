package gitapi

import (
	"context"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	"github.com/opentracing/opentracing-go"
)

// NewTracingClient returns a new instance of a tracing Client.
func NewTracingClient(c Client) Client {
	return &tracingClient{c, "gitapi"}
}

type tracingClient struct {
	Client Client
	prefix string
}

func (c *tracingClient) CloneRepository(ctx context.Context, repositoryURI, targetPath string) (err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(c.prefix, "CloneRepository"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return c.Client.CloneRepository(ctx, repositoryURI, targetPath)
}

func (c *tracingClient) CheckoutCommit(ctx context.Context, repositoryPath, commitHash string) (err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(c.prefix, "CheckoutCommit"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return c.Client.CheckoutCommit(ctx, repositoryPath, commitHash)
}

func (c *tracingClient) GetLastCommitHash(ctx context.Context, repositoryURI string) (commitHash string, err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(c.prefix, "GetLastCommitHash"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return c.Client.GetLastCommitHash(ctx, repositoryURI)
}

func (c *tracingClient) DeleteRepository(ctx context.Context, repositoryPath string) (err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(c.prefix, "DeleteRepository"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return c.Client.DeleteRepository(ctx, repositoryPath)
}
