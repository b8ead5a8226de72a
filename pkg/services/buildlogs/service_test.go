package buildlogs

import (
	"context"
	"testing"
	"time"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	"github.com/estafette/estafette-ci-build-agent/pkg/clients/cloudstorage"
	gomock "github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestAppendBuildLogEntry(t *testing.T) {

	t.Run("KeepsEntriesPerJob", func(t *testing.T) {

		service := NewService(&api.JobsConfig{MaxBuildLogLines: 10}, nil)

		// act
		service.AppendBuildLogEntry("job-1", "cloning")
		service.AppendBuildLogEntry("job-2", "pulling image")
		service.AppendBuildLogEntry("job-1", "building")

		logs := service.GetBuildLogs("job-1")
		if assert.Equal(t, 2, len(logs)) {
			assert.Equal(t, "cloning", logs[0].Log)
			assert.Equal(t, "building", logs[1].Log)
		}
		assert.Equal(t, 1, len(service.GetBuildLogs("job-2")))
	})

	t.Run("TruncatesLogAfterMaxLines", func(t *testing.T) {

		service := NewService(&api.JobsConfig{MaxBuildLogLines: 2}, nil)

		// act
		for i := 0; i < 5; i++ {
			service.AppendBuildLogEntry("job-1", "line")
		}

		logs := service.GetBuildLogs("job-1")
		if assert.Equal(t, 3, len(logs)) {
			assert.Equal(t, "The build log exceeded 2 lines and has been truncated", logs[2].Log)
		}
	})
}

func TestRemoveBuildLogs(t *testing.T) {

	t.Run("ReturnsAndDropsBuffer", func(t *testing.T) {

		service := NewService(&api.JobsConfig{MaxBuildLogLines: 10}, nil)
		service.AppendBuildLogEntry("job-1", "building")

		// act
		logs := service.RemoveBuildLogs("job-1")

		assert.Equal(t, 1, len(logs))
		assert.Equal(t, 0, len(service.GetBuildLogs("job-1")))
	})

	t.Run("IgnoresEntriesAppendedAfterRemoval", func(t *testing.T) {

		svc := NewService(&api.JobsConfig{MaxBuildLogLines: 10}, nil).(*service)
		svc.AppendBuildLogEntry("job-1", "building")
		_ = svc.RemoveBuildLogs("job-1")

		// act
		svc.AppendBuildLogEntry("job-1", "Error while deleting repository")

		assert.Equal(t, 0, len(svc.GetBuildLogs("job-1")))
		assert.Equal(t, 0, len(svc.logs))
	})

	t.Run("AcceptsEntriesAgainOnceJobIsReclaimed", func(t *testing.T) {

		svc := NewService(&api.JobsConfig{MaxBuildLogLines: 10}, nil)
		_ = svc.RemoveBuildLogs("job-1")

		// act
		svc.StartBuildLogs("job-1")
		svc.AppendBuildLogEntry("job-1", "cloning")

		assert.Equal(t, 1, len(svc.GetBuildLogs("job-1")))
	})

	t.Run("ForgetsRemovalAfterRetention", func(t *testing.T) {

		svc := NewService(&api.JobsConfig{MaxBuildLogLines: 10}, nil).(*service)
		now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return now }
		_ = svc.RemoveBuildLogs("job-1")
		now = now.Add(removedRetention)

		// act
		_ = svc.RemoveBuildLogs("job-2")

		assert.Equal(t, 1, len(svc.removed))
		_, ok := svc.removed["job-2"]
		assert.True(t, ok)
	})

	t.Run("ReturnsEmptyListForUnknownJob", func(t *testing.T) {

		service := NewService(&api.JobsConfig{MaxBuildLogLines: 10}, nil)

		// act
		logs := service.RemoveBuildLogs("job-9")

		assert.NotNil(t, logs)
		assert.Equal(t, 0, len(logs))
	})
}

func TestArchiveBuildLogs(t *testing.T) {

	t.Run("InsertsLogIfCloudStorageIsEnabled", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		cloudStorageClient := cloudstorage.NewMockClient(ctrl)
		cloudStorageClient.EXPECT().Enabled().Return(true)
		cloudStorageClient.EXPECT().InsertBuildLog(gomock.Any(), "job-1", gomock.Len(1)).Return(nil).Times(1)

		service := NewService(&api.JobsConfig{MaxBuildLogLines: 10}, cloudStorageClient)

		// act
		err := service.ArchiveBuildLogs(context.Background(), "job-1", []api.BuildLogEntry{{Log: "done"}})

		assert.Nil(t, err)
	})

	t.Run("SkipsArchivingIfCloudStorageIsDisabled", func(t *testing.T) {

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		cloudStorageClient := cloudstorage.NewMockClient(ctrl)
		cloudStorageClient.EXPECT().Enabled().Return(false)

		service := NewService(&api.JobsConfig{MaxBuildLogLines: 10}, cloudStorageClient)

		// act
		err := service.ArchiveBuildLogs(context.Background(), "job-1", []api.BuildLogEntry{{Log: "done"}})

		assert.Nil(t, err)
	})
}
