package api

import (
	"errors"
	"slices"
	"time"
)

var (
	// ErrBuildJobCancelled is the cancellation cause of a job that was cancelled explicitly
	ErrBuildJobCancelled = errors.New("The build job has been cancelled")
	// ErrBuildJobTimedOut is the cancellation cause of a job that exceeded its timeout
	ErrBuildJobTimedOut = errors.New("The build job has timed out")
)

// BuildStatus is the lifecycle state of a build job
type BuildStatus string

const (
	BuildStatusQueued     BuildStatus = "QUEUED"
	BuildStatusProcessing BuildStatus = "PROCESSING"
	BuildStatusSuccessful BuildStatus = "SUCCESSFUL"
	BuildStatusFailed     BuildStatus = "FAILED"
	BuildStatusCancelled  BuildStatus = "CANCELLED"
	BuildStatusTimedOut   BuildStatus = "TIMED_OUT"
)

// IsTerminal returns true for statuses a job can no longer leave
func (s BuildStatus) IsTerminal() bool {
	switch s {
	case BuildStatusSuccessful, BuildStatusFailed, BuildStatusCancelled, BuildStatusTimedOut:
		return true
	}
	return false
}

// RepositoryType identifies which repository a push went to
type RepositoryType string

const (
	RepositoryTypeUser      RepositoryType = "USER"
	RepositoryTypeTests     RepositoryType = "TESTS"
	RepositoryTypeAuxiliary RepositoryType = "AUXILIARY"
	RepositoryTypeSolution  RepositoryType = "SOLUTION"
	RepositoryTypeTemplate  RepositoryType = "TEMPLATE"
)

// BuildAgentStatus is the advertised state of a build agent
type BuildAgentStatus string

const (
	BuildAgentStatusActive BuildAgentStatus = "ACTIVE"
	BuildAgentStatusIdle   BuildAgentStatus = "IDLE"
	BuildAgentStatusPaused BuildAgentStatus = "PAUSED"
)

// BuildAgentDTO identifies the node a job has been claimed by
type BuildAgentDTO struct {
	Name          string `json:"name"`
	MemberAddress string `json:"memberAddress"`
	DisplayName   string `json:"displayName,omitempty"`
}

// RepositoryInfo holds the repositories needed to build a participation
type RepositoryInfo struct {
	RepositoryName                         string         `json:"repositoryName"`
	TriggeredByPushTo                      RepositoryType `json:"triggeredByPushTo"`
	AssignmentRepositoryURI                string         `json:"assignmentRepositoryUri"`
	TestRepositoryURI                      string         `json:"testRepositoryUri"`
	SolutionRepositoryURI                  string         `json:"solutionRepositoryUri,omitempty"`
	AuxiliaryRepositoryURIs                []string       `json:"auxiliaryRepositoryUris,omitempty"`
	AuxiliaryRepositoryCheckoutDirectories []string       `json:"auxiliaryRepositoryCheckoutDirectories,omitempty"`
}

// DockerRunConfig carries per-job container settings
type DockerRunConfig struct {
	IsNetworkDisabled bool     `json:"isNetworkDisabled,omitempty"`
	Env               []string `json:"env,omitempty"`
	CPUCount          int      `json:"cpuCount,omitempty"`
	// Memory and MemorySwap are in megabytes
	Memory     int64 `json:"memory,omitempty"`
	MemorySwap int64 `json:"memorySwap,omitempty"`
}

// BuildConfig describes how to build a job
type BuildConfig struct {
	BuildScript            string           `json:"buildScript"`
	DockerImage            string           `json:"dockerImage"`
	CommitHashToBuild      string           `json:"commitHashToBuild,omitempty"`
	AssignmentCommitHash   string           `json:"assignmentCommitHash,omitempty"`
	TestCommitHash         string           `json:"testCommitHash,omitempty"`
	Branch                 string           `json:"branch"`
	ProgrammingLanguage    string           `json:"programmingLanguage"`
	ProjectType            string           `json:"projectType,omitempty"`
	ScaEnabled             bool             `json:"scaEnabled,omitempty"`
	ResultPaths            []string         `json:"resultPaths,omitempty"`
	TimeoutSeconds         int              `json:"timeoutSeconds,omitempty"`
	AssignmentCheckoutPath string           `json:"assignmentCheckoutPath,omitempty"`
	TestCheckoutPath       string           `json:"testCheckoutPath,omitempty"`
	SolutionCheckoutPath   string           `json:"solutionCheckoutPath,omitempty"`
	DockerRunConfig        *DockerRunConfig `json:"dockerRunConfig,omitempty"`
}

// JobTimingInfo tracks when a job moved through its lifecycle; EstimatedDuration is in seconds
type JobTimingInfo struct {
	SubmissionDate          *time.Time `json:"submissionDate,omitempty"`
	BuildStartDate          *time.Time `json:"buildStartDate,omitempty"`
	BuildCompletionDate     *time.Time `json:"buildCompletionDate,omitempty"`
	EstimatedDuration       int64      `json:"estimatedDuration,omitempty"`
	EstimatedCompletionDate *time.Time `json:"estimatedCompletionDate,omitempty"`
}

// BuildJobQueueItem is the unit of work travelling through the cluster
type BuildJobQueueItem struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	BuildAgent      *BuildAgentDTO `json:"buildAgent,omitempty"`
	ParticipationID int64          `json:"participationId"`
	CourseID        int64          `json:"courseId"`
	ExerciseID      int64          `json:"exerciseId"`
	RetryCount      int            `json:"retryCount"`
	Priority        int            `json:"priority"`
	Status          BuildStatus    `json:"status,omitempty"`
	RepositoryInfo  RepositoryInfo `json:"repositoryInfo"`
	JobTimingInfo   JobTimingInfo  `json:"jobTimingInfo"`
	BuildConfig     BuildConfig    `json:"buildConfig"`
}

// Copy returns a deep copy, queue items are never mutated in place
func (j *BuildJobQueueItem) Copy() *BuildJobQueueItem {
	item := *j
	if j.BuildAgent != nil {
		agent := *j.BuildAgent
		item.BuildAgent = &agent
	}
	item.RepositoryInfo.AuxiliaryRepositoryURIs = slices.Clone(j.RepositoryInfo.AuxiliaryRepositoryURIs)
	item.RepositoryInfo.AuxiliaryRepositoryCheckoutDirectories = slices.Clone(j.RepositoryInfo.AuxiliaryRepositoryCheckoutDirectories)
	item.BuildConfig.ResultPaths = slices.Clone(j.BuildConfig.ResultPaths)
	if j.BuildConfig.DockerRunConfig != nil {
		runConfig := *j.BuildConfig.DockerRunConfig
		runConfig.Env = slices.Clone(j.BuildConfig.DockerRunConfig.Env)
		item.BuildConfig.DockerRunConfig = &runConfig
	}
	item.JobTimingInfo.SubmissionDate = copyTime(j.JobTimingInfo.SubmissionDate)
	item.JobTimingInfo.BuildStartDate = copyTime(j.JobTimingInfo.BuildStartDate)
	item.JobTimingInfo.BuildCompletionDate = copyTime(j.JobTimingInfo.BuildCompletionDate)
	item.JobTimingInfo.EstimatedCompletionDate = copyTime(j.JobTimingInfo.EstimatedCompletionDate)
	return &item
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

// Claimed returns a copy stamped with the claiming agent, start date and estimated completion date
func (j *BuildJobQueueItem) Claimed(agent BuildAgentDTO, now time.Time) *BuildJobQueueItem {
	item := j.Copy()
	item.BuildAgent = &agent
	item.Status = BuildStatusProcessing
	item.JobTimingInfo.BuildStartDate = &now
	estimatedCompletionDate := now.Add(time.Duration(max(0, j.JobTimingInfo.EstimatedDuration)) * time.Second)
	item.JobTimingInfo.EstimatedCompletionDate = &estimatedCompletionDate
	return item
}

// Finished returns a copy carrying the terminal status and completion date
func (j *BuildJobQueueItem) Finished(status BuildStatus, now time.Time) *BuildJobQueueItem {
	item := j.Copy()
	item.Status = status
	item.JobTimingInfo.BuildCompletionDate = &now
	return item
}

// Requeued returns a copy ready to be offered to the queue again
func (j *BuildJobQueueItem) Requeued() *BuildJobQueueItem {
	item := j.Copy()
	item.BuildAgent = nil
	item.Status = BuildStatusQueued
	item.RetryCount++
	item.JobTimingInfo.BuildStartDate = nil
	item.JobTimingInfo.EstimatedCompletionDate = nil
	return item
}

// BuildAgentInformation is the advertised state of a node
type BuildAgentInformation struct {
	BuildAgent                     BuildAgentDTO       `json:"buildAgent"`
	MaxNumberOfConcurrentBuildJobs int                 `json:"maxNumberOfConcurrentBuildJobs"`
	NumberOfCurrentBuildJobs       int                 `json:"numberOfCurrentBuildJobs"`
	RunningBuildJobs               []BuildJobQueueItem `json:"runningBuildJobs"`
	Status                         BuildAgentStatus    `json:"status"`
	RecentBuildJobs                []BuildJobQueueItem `json:"recentBuildJobs"`
	PublicSSHKey                   string              `json:"publicSshKey,omitempty"`
}

// TestCase is a single parsed test
type TestCase struct {
	Name         string   `json:"name"`
	Classname    string   `json:"classname,omitempty"`
	TestMessages []string `json:"testMessages,omitempty"`
}

// TestSuite holds the tests of one report
type TestSuite struct {
	FailedTests     []TestCase `json:"failedTests"`
	SuccessfulTests []TestCase `json:"successfulTests"`
}

// StaticCodeAnalysisIssue is one finding of a static code analysis tool
type StaticCodeAnalysisIssue struct {
	FilePath    string `json:"filePath"`
	StartLine   int    `json:"startLine"`
	EndLine     int    `json:"endLine"`
	StartColumn int    `json:"startColumn,omitempty"`
	EndColumn   int    `json:"endColumn,omitempty"`
	Rule        string `json:"rule"`
	Category    string `json:"category"`
	Message     string `json:"message"`
	Priority    string `json:"priority,omitempty"`
}

// StaticCodeAnalysisReport holds the findings of one tool
type StaticCodeAnalysisReport struct {
	Tool   string                    `json:"tool"`
	Issues []StaticCodeAnalysisIssue `json:"issues"`
}

// BuildLogEntry is one timestamped line of build output
type BuildLogEntry struct {
	Time time.Time `json:"time"`
	Log  string    `json:"log"`
}

// BuildResult is the structured outcome of a build
type BuildResult struct {
	AssignmentRepoBranchName  string                     `json:"assignmentRepoBranchName"`
	AssignmentRepoCommitHash  string                     `json:"assignmentRepoCommitHash"`
	TestsRepoCommitHash       string                     `json:"testsRepoCommitHash"`
	IsBuildSuccessful         bool                       `json:"isBuildSuccessful"`
	BuildRunDate              time.Time                  `json:"buildRunDate"`
	Jobs                      []TestSuite                `json:"jobs"`
	StaticCodeAnalysisReports []StaticCodeAnalysisReport `json:"staticCodeAnalysisReports"`
	BuildLogs                 []BuildLogEntry            `json:"buildLogs,omitempty"`
}

// FailedBuildResult is used whenever a build ends without parsable results
func FailedBuildResult(branch, assignmentCommitHash, testsCommitHash string, now time.Time) *BuildResult {
	return &BuildResult{
		AssignmentRepoBranchName:  branch,
		AssignmentRepoCommitHash:  assignmentCommitHash,
		TestsRepoCommitHash:       testsCommitHash,
		IsBuildSuccessful:         false,
		BuildRunDate:              now,
		Jobs:                      []TestSuite{{FailedTests: []TestCase{}, SuccessfulTests: []TestCase{}}},
		StaticCodeAnalysisReports: []StaticCodeAnalysisReport{},
	}
}

// FailedTests returns the failed tests across all suites
func (r *BuildResult) FailedTests() (tests []TestCase) {
	for _, j := range r.Jobs {
		tests = append(tests, j.FailedTests...)
	}
	return
}

// SuccessfulTests returns the successful tests across all suites
func (r *BuildResult) SuccessfulTests() (tests []TestCase) {
	for _, j := range r.Jobs {
		tests = append(tests, j.SuccessfulTests...)
	}
	return
}

// ResultQueueItem is published exactly once per claimed job
type ResultQueueItem struct {
	BuildResult       *BuildResult       `json:"buildResult"`
	BuildJobQueueItem *BuildJobQueueItem `json:"buildJobQueueItem"`
	BuildLogs         []BuildLogEntry    `json:"buildLogs"`
	Exception         string             `json:"exception,omitempty"`
}
