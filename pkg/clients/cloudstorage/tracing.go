package cloudstorage

import (
	"context"
	"net/http"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	"github.com/opentracing/opentracing-go"
)

// NewTracingClient returns a new instance of a tracing Client.
func NewTracingClient(c Client) Client {
	return &tracingClient{c, "cloudstorage"}
}

type tracingClient struct {
	Client Client
	prefix string
}

func (c *tracingClient) InsertBuildLog(ctx context.Context, jobID string, logs []api.BuildLogEntry) (err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(c.prefix, "InsertBuildLog"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return c.Client.InsertBuildLog(ctx, jobID, logs)
}

func (c *tracingClient) GetBuildLog(ctx context.Context, jobID string, acceptGzipEncoding bool, responseWriter http.ResponseWriter) (err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName(c.prefix, "GetBuildLog"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return c.Client.GetBuildLog(ctx, jobID, acceptGzipEncoding, responseWriter)
}

func (c *tracingClient) Enabled() bool {
	return c.Client.Enabled()
}
