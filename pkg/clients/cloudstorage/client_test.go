package cloudstorage

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	"github.com/stretchr/testify/assert"
)

func TestNewClient(t *testing.T) {

	t.Run("ReturnsDisabledClientIfIntegrationIsOff", func(t *testing.T) {

		config := &api.BuildAgentConfig{}
		config.SetDefaults()

		// act
		c := NewClient(config, nil)

		assert.False(t, c.Enabled())
		assert.Nil(t, c.InsertBuildLog(context.Background(), "job-1", []api.BuildLogEntry{{Time: time.Now(), Log: "done"}}))
		err := c.GetBuildLog(context.Background(), "job-1", false, httptest.NewRecorder())
		assert.True(t, errors.Is(err, ErrLogNotExist))
	})
}

func TestGetBuildLogPath(t *testing.T) {

	t.Run("PlacesLogsUnderBuildsDirectory", func(t *testing.T) {

		c := &client{config: &api.CloudStorageConfig{LogsDirectory: "logs"}}

		// act
		logPath := c.getBuildLogPath("e7c3a4a0-5b8f-4b53-9a57-3c2b1f2a9d11")

		assert.Equal(t, "logs/builds/e7c3a4a0-5b8f-4b53-9a57-3c2b1f2a9d11.log", logPath)
	})
}
