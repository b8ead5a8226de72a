package cloudstorage

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"

	"cloud.google.com/go/storage"
	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	foundation "github.com/estafette/estafette-foundation"
)

var (
	// ErrLogNotExist is returned when a log cannot be found
	ErrLogNotExist = errors.New("The log does not exist")
)

// Client is the interface for archiving build logs in google cloud storage
//
//go:generate mockgen -package=cloudstorage -destination ./mock.go -source=client.go
type Client interface {
	InsertBuildLog(ctx context.Context, jobID string, logs []api.BuildLogEntry) (err error)
	GetBuildLog(ctx context.Context, jobID string, acceptGzipEncoding bool, responseWriter http.ResponseWriter) (err error)
	Enabled() bool
}

// NewClient returns new cloudstorage.Client
func NewClient(config *api.BuildAgentConfig, storageClient *storage.Client) Client {
	if config == nil || config.Integrations == nil || config.Integrations.CloudStorage == nil || !config.Integrations.CloudStorage.Enable {
		return &client{
			enabled: false,
		}
	}

	return &client{
		enabled: true,
		client:  storageClient,
		config:  config.Integrations.CloudStorage,
	}
}

type client struct {
	enabled bool
	client  *storage.Client
	config  *api.CloudStorageConfig
}

func (c *client) Enabled() bool {
	return c.enabled
}

func (c *client) InsertBuildLog(ctx context.Context, jobID string, logs []api.BuildLogEntry) (err error) {
	if !c.enabled {
		return nil
	}

	logPath := c.getBuildLogPath(jobID)

	return foundation.Retry(func() error {
		return c.insertLog(ctx, logPath, logs)
	})
}

func (c *client) insertLog(ctx context.Context, path string, logs []api.BuildLogEntry) (err error) {

	bucket := c.client.Bucket(c.config.Bucket)

	// marshal json
	jsonBytes, err := json.Marshal(logs)
	if err != nil {
		return err
	}

	logObject := bucket.Object(path)

	// don't allow overwrites, a retried job gets a new id
	_, err = logObject.Attrs(ctx)
	if err == nil {
		return nil
	}
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return err
	}

	writer := logObject.NewWriter(ctx)
	if writer == nil {
		return fmt.Errorf("Writer for logobject %v is nil", path)
	}
	writer.ContentType = "application/json"
	writer.ContentEncoding = "gzip"

	// write compressed bytes
	gz, err := gzip.NewWriterLevel(writer, gzip.BestSpeed)
	if err != nil {
		_ = writer.Close()
		return err
	}
	_, err = gz.Write(jsonBytes)
	if err != nil {
		_ = writer.Close()
		return err
	}
	err = gz.Close()
	if err != nil {
		_ = writer.Close()
		return err
	}

	return writer.Close()
}

func (c *client) GetBuildLog(ctx context.Context, jobID string, acceptGzipEncoding bool, responseWriter http.ResponseWriter) (err error) {
	if !c.enabled {
		return ErrLogNotExist
	}

	bucket := c.client.Bucket(c.config.Bucket)

	// create reader for cloud storage object
	logObject := bucket.Object(c.getBuildLogPath(jobID)).ReadCompressed(true)
	reader, err := logObject.NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return ErrLogNotExist
		}

		return err
	}
	defer reader.Close()

	// create source reader to either copy compressed bytes or decompress them first
	sourceReader := io.Reader(reader)
	if acceptGzipEncoding {
		responseWriter.Header().Set("Content-Encoding", "gzip")
		responseWriter.Header().Set("Vary", "Accept-Encoding")
	} else {
		gzr, err := gzip.NewReader(reader)
		if err != nil {
			return err
		}
		defer gzr.Close()
		sourceReader = io.Reader(gzr)
	}

	responseWriter.Header().Set("Content-Type", "application/json; charset=utf-8")

	_, err = io.Copy(responseWriter, sourceReader)

	return err
}

func (c *client) getBuildLogPath(jobID string) (logPath string) {
	return path.Join(c.config.LogsDirectory, "builds", fmt.Sprintf("%v.log", jobID))
}
