package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func getBuildJobQueueItem() *BuildJobQueueItem {
	submitted := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return &BuildJobQueueItem{
		ID:              "job-1",
		Name:            "participation-42",
		ParticipationID: 42,
		CourseID:        1,
		ExerciseID:      7,
		Status:          BuildStatusQueued,
		RepositoryInfo: RepositoryInfo{
			TriggeredByPushTo:                      RepositoryTypeUser,
			AssignmentRepositoryURI:                "https://git.example.com/course/exercise-student1.git",
			TestRepositoryURI:                      "https://git.example.com/course/exercise-tests.git",
			AuxiliaryRepositoryURIs:                []string{"https://git.example.com/course/exercise-aux.git"},
			AuxiliaryRepositoryCheckoutDirectories: []string{"aux"},
		},
		JobTimingInfo: JobTimingInfo{
			SubmissionDate: &submitted,
		},
		BuildConfig: BuildConfig{
			DockerImage:     "ghcr.io/example/maven:latest",
			BuildScript:     "mvn test",
			Branch:          "main",
			ResultPaths:     []string{"target/surefire-reports/*.xml"},
			DockerRunConfig: &DockerRunConfig{Env: []string{"A=B"}},
		},
	}
}

func TestBuildJobQueueItemCopy(t *testing.T) {

	t.Run("ReturnsCopyThatDoesNotShareSlicesOrPointers", func(t *testing.T) {

		item := getBuildJobQueueItem()

		// act
		copied := item.Copy()

		copied.BuildConfig.ResultPaths[0] = "changed"
		copied.BuildConfig.DockerRunConfig.Env[0] = "changed"
		copied.RepositoryInfo.AuxiliaryRepositoryURIs[0] = "changed"
		*copied.JobTimingInfo.SubmissionDate = time.Time{}

		assert.Equal(t, "target/surefire-reports/*.xml", item.BuildConfig.ResultPaths[0])
		assert.Equal(t, "A=B", item.BuildConfig.DockerRunConfig.Env[0])
		assert.Equal(t, "https://git.example.com/course/exercise-aux.git", item.RepositoryInfo.AuxiliaryRepositoryURIs[0])
		assert.False(t, item.JobTimingInfo.SubmissionDate.IsZero())
	})
}

func TestBuildJobQueueItemClaimed(t *testing.T) {

	t.Run("StampsAgentStatusAndStartDateOnCopy", func(t *testing.T) {

		item := getBuildJobQueueItem()
		now := time.Now()

		// act
		claimed := item.Claimed(BuildAgentDTO{Name: "agent-1", MemberAddress: "10.0.0.1:5701"}, now)

		assert.Equal(t, "agent-1", claimed.BuildAgent.Name)
		assert.Equal(t, BuildStatusProcessing, claimed.Status)
		assert.Equal(t, now, *claimed.JobTimingInfo.BuildStartDate)
		assert.Nil(t, item.BuildAgent)
		assert.Equal(t, BuildStatusQueued, item.Status)
	})

	t.Run("EstimatesCompletionDateFromEstimatedDuration", func(t *testing.T) {

		item := getBuildJobQueueItem()
		item.JobTimingInfo.EstimatedDuration = 90
		now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

		// act
		claimed := item.Claimed(BuildAgentDTO{Name: "agent-1"}, now)

		if assert.NotNil(t, claimed.JobTimingInfo.EstimatedCompletionDate) {
			assert.Equal(t, now.Add(90*time.Second), *claimed.JobTimingInfo.EstimatedCompletionDate)
		}
		assert.Nil(t, item.JobTimingInfo.EstimatedCompletionDate)
	})

	t.Run("EstimatesCompletionDateAsStartDateForNegativeEstimatedDuration", func(t *testing.T) {

		item := getBuildJobQueueItem()
		item.JobTimingInfo.EstimatedDuration = -30
		now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

		// act
		claimed := item.Claimed(BuildAgentDTO{Name: "agent-1"}, now)

		if assert.NotNil(t, claimed.JobTimingInfo.EstimatedCompletionDate) {
			assert.Equal(t, now, *claimed.JobTimingInfo.EstimatedCompletionDate)
		}
	})
}

func TestBuildJobQueueItemRequeued(t *testing.T) {

	t.Run("IncrementsRetryCountAndClearsAgent", func(t *testing.T) {

		item := getBuildJobQueueItem().Claimed(BuildAgentDTO{Name: "agent-1"}, time.Now())

		// act
		requeued := item.Requeued()

		assert.Equal(t, 1, requeued.RetryCount)
		assert.Nil(t, requeued.BuildAgent)
		assert.Nil(t, requeued.JobTimingInfo.BuildStartDate)
		assert.Nil(t, requeued.JobTimingInfo.EstimatedCompletionDate)
		assert.Equal(t, BuildStatusQueued, requeued.Status)
	})
}

func TestBuildStatusIsTerminal(t *testing.T) {

	t.Run("ReturnsTrueForOutcomeStatuses", func(t *testing.T) {
		assert.True(t, BuildStatusSuccessful.IsTerminal())
		assert.True(t, BuildStatusFailed.IsTerminal())
		assert.True(t, BuildStatusCancelled.IsTerminal())
		assert.True(t, BuildStatusTimedOut.IsTerminal())
	})

	t.Run("ReturnsFalseForQueuedAndProcessing", func(t *testing.T) {
		assert.False(t, BuildStatusQueued.IsTerminal())
		assert.False(t, BuildStatusProcessing.IsTerminal())
	})
}

func TestFailedBuildResult(t *testing.T) {

	t.Run("ReturnsUnsuccessfulResultWithEmptyTestLists", func(t *testing.T) {

		// act
		result := FailedBuildResult("main", "abc", "def", time.Now())

		assert.False(t, result.IsBuildSuccessful)
		assert.Equal(t, "main", result.AssignmentRepoBranchName)
		assert.Equal(t, 0, len(result.FailedTests()))
		assert.Equal(t, 0, len(result.SuccessfulTests()))
	})
}

func TestUnmarshalResultQueueItem(t *testing.T) {

	t.Run("UnmarshalsStatusAndNestedResult", func(t *testing.T) {

		data := `{"buildResult":{"assignmentRepoBranchName":"main","isBuildSuccessful":true,"jobs":[{"failedTests":[],"successfulTests":[{"name":"testAdd"}]}]},"buildJobQueueItem":{"id":"job-1","status":"TIMED_OUT"},"buildLogs":[]}`

		var item ResultQueueItem

		// act
		err := json.Unmarshal([]byte(data), &item)

		assert.Nil(t, err)
		assert.Equal(t, BuildStatusTimedOut, item.BuildJobQueueItem.Status)
		assert.True(t, item.BuildResult.IsBuildSuccessful)
		assert.Equal(t, "testAdd", item.BuildResult.SuccessfulTests()[0].Name)
	})
}
