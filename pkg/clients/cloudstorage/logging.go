package cloudstorage

import (
	"context"
	"net/http"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
)

// NewLoggingClient returns a new instance of a logging Client.
func NewLoggingClient(c Client) Client {
	return &loggingClient{c, "cloudstorage"}
}

type loggingClient struct {
	Client Client
	prefix string
}

func (c *loggingClient) InsertBuildLog(ctx context.Context, jobID string, logs []api.BuildLogEntry) (err error) {
	defer func() { api.HandleLogError(c.prefix, "Client", "InsertBuildLog", err) }()

	return c.Client.InsertBuildLog(ctx, jobID, logs)
}

func (c *loggingClient) GetBuildLog(ctx context.Context, jobID string, acceptGzipEncoding bool, responseWriter http.ResponseWriter) (err error) {
	defer func() { api.HandleLogError(c.prefix, "Client", "GetBuildLog", err, ErrLogNotExist) }()

	return c.Client.GetBuildLog(ctx, jobID, acceptGzipEncoding, responseWriter)
}

func (c *loggingClient) Enabled() bool {
	return c.Client.Enabled()
}
