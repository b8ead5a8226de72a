package executor

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	"github.com/estafette/estafette-ci-build-agent/pkg/clients/containerapi"
	"github.com/estafette/estafette-ci-build-agent/pkg/services/buildlogs"
	"github.com/estafette/estafette-ci-build-agent/pkg/services/results"
	"github.com/estafette/estafette-ci-build-agent/pkg/services/staging"
	"github.com/rs/zerolog/log"
)

var (
	// ErrInvalidResultPath is returned for result paths that could escape the container working directory
	ErrInvalidResultPath = errors.New("The result path is invalid")

	resultPathRegex = regexp.MustCompile(`^[a-zA-Z0-9_*./-]+$`)
)

const (
	testingDirectory = "testing-dir"
	resultsDirectory = "results"
	bridgeNetwork    = "bridge"
)

// Service runs a single build job inside a container and turns its output into a build result
//
//go:generate mockgen -package=executor -destination ./mock.go -source=service.go
type Service interface {
	RunBuildJob(ctx context.Context, job *api.BuildJobQueueItem, containerName string) (result *api.BuildResult, err error)
}

// NewService returns a new executor.Service
func NewService(config *api.BuildAgentConfig, containerClient containerapi.Client, stagingService staging.Service, resultsParser results.Parser, buildLogsService buildlogs.Service) Service {
	return &service{
		config:           config,
		containerClient:  containerClient,
		stagingService:   stagingService,
		resultsParser:    resultsParser,
		buildLogsService: buildLogsService,
		now:              time.Now,
	}
}

type service struct {
	config           *api.BuildAgentConfig
	containerClient  containerapi.Client
	stagingService   staging.Service
	resultsParser    results.Parser
	buildLogsService buildlogs.Service
	now              func() time.Time
}

func (s *service) RunBuildJob(ctx context.Context, job *api.BuildJobQueueItem, containerName string) (result *api.BuildResult, err error) {

	start := s.now()
	workingDirectory := s.config.Jobs.ContainerWorkingDirectory
	s.logLine(job.ID, fmt.Sprintf("~~~~~~~~~~~~~~~~~~~~ Start Build Job %v ~~~~~~~~~~~~~~~~~~~~", job.ID))

	for _, resultPath := range job.BuildConfig.ResultPaths {
		if err = validateResultPath(resultPath); err != nil {
			s.logLine(job.ID, fmt.Sprintf("Invalid result path %v", resultPath))
			return nil, err
		}
	}

	staged, err := s.stagingService.StageRepositories(ctx, job)
	defer s.stagingService.CleanUpRepositories(context.WithoutCancel(ctx), staged)
	if err != nil {
		return nil, err
	}

	// stopping has to happen even if the job context is cancelled or timed out
	defer s.stopContainer(ctx, job.ID, containerName)

	containerID, err := s.containerClient.CreateContainer(ctx, s.containerParams(job, containerName))
	if err != nil {
		s.logLine(job.ID, fmt.Sprintf("Could not create container %v", containerName))
		return nil, err
	}

	if err = s.containerClient.StartContainer(ctx, containerID); err != nil {
		s.logLine(job.ID, fmt.Sprintf("Could not start container %v", containerName))
		return nil, err
	}
	msg := fmt.Sprintf("~~~~~~~~~~~~~~~~~~~~ Started container %v for build job %v ~~~~~~~~~~~~~~~~~~~~", containerName, job.ID)
	s.logLine(job.ID, msg)
	log.Info().Msg(msg)

	if job.BuildConfig.DockerRunConfig != nil && job.BuildConfig.DockerRunConfig.IsNetworkDisabled {
		log.Info().Msgf("Disconnecting container %v from network", containerName)
		if err = s.containerClient.DisconnectFromNetwork(ctx, containerID, bridgeNetwork); err != nil {
			s.logLine(job.ID, fmt.Sprintf("Failed to disconnect container from default network '%v': %v", bridgeNetwork, err))
			return nil, err
		}
	}

	s.logLine(job.ID, "~~~~~~~~~~~~~~~~~~~~ Populating build job container with repositories and build script ~~~~~~~~~~~~~~~~~~~~")
	if err = s.populateContainer(ctx, job, containerID, staged); err != nil {
		s.logLine(job.ID, "Could not populate build job container")
		return nil, err
	}

	s.logLine(job.ID, fmt.Sprintf("~~~~~~~~~~~~~~~~~~~~ Executing Build Script for Build job %v ~~~~~~~~~~~~~~~~~~~~", job.ID))
	exitCode, err := s.containerClient.ExecuteCommand(ctx, containerID, []string{"bash", path.Join(workingDirectory, "script.sh")}, func(line string) {
		s.buildLogsService.AppendBuildLogEntry(job.ID, line)
	})
	if err != nil {
		return nil, err
	}
	if exitCode != 0 {
		s.logLine(job.ID, fmt.Sprintf("Build script exited with code %v", exitCode))
	}
	msg = fmt.Sprintf("~~~~~~~~~~~~~~~~~~~~ Finished Executing Build Script for Build job %v ~~~~~~~~~~~~~~~~~~~~", job.ID)
	s.logLine(job.ID, msg)
	log.Info().Msg(msg)

	buildCompletedDate := s.now().UTC()

	s.logLine(job.ID, fmt.Sprintf("~~~~~~~~~~~~~~~~~~~~ Moving test results to specified directory for build job %v ~~~~~~~~~~~~~~~~~~~~", job.ID))
	if err = s.moveResults(ctx, containerID, job.BuildConfig.ResultPaths); err != nil {
		return nil, err
	}

	msg = fmt.Sprintf("~~~~~~~~~~~~~~~~~~~~ Collecting test results from container %v for build job %v ~~~~~~~~~~~~~~~~~~~~", containerID, job.ID)
	s.logLine(job.ID, msg)
	log.Info().Msg(msg)

	archive, err := s.containerClient.GetArchiveFromContainer(ctx, containerID, path.Join(workingDirectory, resultsDirectory))
	if errors.Is(err, containerapi.ErrResultsNotFound) {
		msg = fmt.Sprintf("Could not find test results in container %v", containerName)
		s.logLine(job.ID, msg)
		log.Warn().Msg(msg)
		return api.FailedBuildResult(job.BuildConfig.Branch, staged.AssignmentCommitHash, staged.TestCommitHash, buildCompletedDate), nil
	}
	if err != nil {
		return nil, err
	}

	result, err = s.resultsParser.ParseBuildResult(archive, results.ResultMetadata{
		Branch:               job.BuildConfig.Branch,
		AssignmentCommitHash: staged.AssignmentCommitHash,
		TestsCommitHash:      staged.TestCommitHash,
		BuildRunDate:         buildCompletedDate,
		BuildLogs:            s.buildLogsService.GetBuildLogs(job.ID),
	}, func(line string) {
		s.buildLogsService.AppendBuildLogEntry(job.ID, line)
	})
	if err != nil {
		s.logLine(job.ID, "Error while parsing test results")
		return nil, err
	}

	msg = fmt.Sprintf("Building and testing submission for repository %v and commit hash %v took %v for build job %v",
		staging.RepositorySlug(job.RepositoryInfo.AssignmentRepositoryURI), staged.AssignmentCommitHash, s.now().Sub(start).Round(time.Millisecond), job.ID)
	s.logLine(job.ID, msg)
	log.Info().Msg(msg)

	return result, nil
}

func (s *service) containerParams(job *api.BuildJobQueueItem, containerName string) containerapi.CreateContainerParams {
	dockerConfig := s.config.Docker

	cpuCount := dockerConfig.DefaultCPUCount
	memoryMB := dockerConfig.DefaultMemoryMB
	memorySwapMB := dockerConfig.DefaultMemorySwapMB

	env := append([]string{}, dockerConfig.Proxy.EnvironmentVariables()...)
	env = append(env, "SCRIPT="+job.BuildConfig.BuildScript)

	if runConfig := job.BuildConfig.DockerRunConfig; runConfig != nil {
		if runConfig.CPUCount > 0 {
			cpuCount = min(runConfig.CPUCount, dockerConfig.MaxCPUCount)
		}
		if runConfig.Memory > 0 {
			memoryMB = min(runConfig.Memory, dockerConfig.MaxMemoryMB)
		}
		if runConfig.MemorySwap > 0 {
			memorySwapMB = min(runConfig.MemorySwap, dockerConfig.MaxMemorySwapMB)
		}
		env = append(env, runConfig.Env...)
	}

	return containerapi.CreateContainerParams{
		Name:  containerName,
		Image: job.BuildConfig.DockerImage,
		// keeps the container alive while commands are executed in it
		Cmd:              []string{"tail", "-f", "/dev/null"},
		Env:              env,
		WorkingDirectory: s.config.Jobs.ContainerWorkingDirectory,
		Labels: map[string]string{
			"build-agent":  s.config.Agent.ShortName,
			"build-job-id": job.ID,
		},
		NanoCPUs:        int64(cpuCount) * 1e9,
		MemoryBytes:     megabytesToBytes(memoryMB),
		MemorySwapBytes: megabytesToBytes(memorySwapMB),
		PidsLimit:       dockerConfig.PidsLimit,
	}
}

func (s *service) populateContainer(ctx context.Context, job *api.BuildJobQueueItem, containerID string, staged *staging.StagedRepositories) (err error) {
	checkoutRoot := path.Join(s.config.Jobs.ContainerWorkingDirectory, testingDirectory)
	paths := resolveCheckoutPaths(job.BuildConfig)

	if err = s.containerClient.CopyToContainer(ctx, containerID, staged.TestPath, path.Join(checkoutRoot, paths.test)); err != nil {
		return err
	}
	if err = s.containerClient.CopyToContainer(ctx, containerID, staged.AssignmentPath, path.Join(checkoutRoot, paths.assignment)); err != nil {
		return err
	}
	if staged.SolutionPath != "" {
		if err = s.containerClient.CopyToContainer(ctx, containerID, staged.SolutionPath, path.Join(checkoutRoot, paths.solution)); err != nil {
			return err
		}
	}

	checkoutDirectories := job.RepositoryInfo.AuxiliaryRepositoryCheckoutDirectories
	for i, auxiliaryPath := range staged.AuxiliaryPaths {
		checkoutDirectory := path.Base(auxiliaryPath)
		if i < len(checkoutDirectories) && checkoutDirectories[i] != "" {
			checkoutDirectory = checkoutDirectories[i]
		}
		if err = s.containerClient.CopyToContainer(ctx, containerID, auxiliaryPath, path.Join(checkoutRoot, checkoutDirectory)); err != nil {
			return err
		}
	}

	if _, err = s.containerClient.ExecuteCommand(ctx, containerID, []string{"chmod", "-R", "777", checkoutRoot}, nil); err != nil {
		return err
	}

	return s.containerClient.WriteFileToContainer(ctx, containerID, path.Join(s.config.Jobs.ContainerWorkingDirectory, "script.sh"), []byte(job.BuildConfig.BuildScript), 0755)
}

func (s *service) moveResults(ctx context.Context, containerID string, resultPaths []string) (err error) {
	destination := path.Join(s.config.Jobs.ContainerWorkingDirectory, resultsDirectory)

	if _, err = s.containerClient.ExecuteCommand(ctx, containerID, []string{"bash", "-c", "shopt -s globstar && mkdir -p " + destination}, nil); err != nil {
		return err
	}

	for _, resultPath := range resultPaths {
		// a missing result file exits non-zero, the parser decides what that means
		if _, err = s.containerClient.ExecuteCommand(ctx, containerID, []string{"bash", "-c", fmt.Sprintf("shopt -s globstar && mv %v %v", resultPath, destination)}, nil); err != nil {
			return err
		}
	}

	return nil
}

func (s *service) stopContainer(ctx context.Context, jobID, containerName string) {
	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Duration(s.config.Docker.StopTimeoutSeconds+30)*time.Second)
	defer cancel()

	if err := s.containerClient.StopContainer(stopCtx, containerName); err != nil {
		s.buildLogsService.AppendBuildLogEntry(jobID, fmt.Sprintf("Could not stop container %v", containerName))
		log.Error().Err(err).Msgf("Failed stopping container %v of build job %v", containerName, jobID)
	}
}

func (s *service) logLine(jobID, msg string) {
	s.buildLogsService.AppendBuildLogEntry(jobID, msg)
	log.Debug().Msg(msg)
}

func validateResultPath(resultPath string) error {
	if strings.Contains(resultPath, "..") || !resultPathRegex.MatchString(resultPath) {
		return fmt.Errorf("%w: %v", ErrInvalidResultPath, resultPath)
	}
	return nil
}

func megabytesToBytes(megabytes int64) int64 {
	return megabytes * 1024 * 1024
}
