package staging

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	"github.com/estafette/estafette-ci-build-agent/pkg/clients/gitapi"
	"github.com/estafette/estafette-ci-build-agent/pkg/services/buildlogs"
	foundation "github.com/estafette/estafette-foundation"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// StagedRepositories holds the local clones of a build job; it is returned even when staging fails halfway so
// whatever was cloned can be cleaned up
type StagedRepositories struct {
	JobID                string
	AssignmentCommitHash string
	TestCommitHash       string
	AssignmentPath       string
	TestPath             string
	SolutionPath         string
	AuxiliaryPaths       []string

	clonedPaths       []string
	parentDirectories []string
}

// Service prepares the repositories of a build job on local disk
//
//go:generate mockgen -package=staging -destination ./mock.go -source=service.go
type Service interface {
	StageRepositories(ctx context.Context, job *api.BuildJobQueueItem) (staged *StagedRepositories, err error)
	CleanUpRepositories(ctx context.Context, staged *StagedRepositories)
	CleanUpStaleDirectories(ctx context.Context) (err error)
}

// NewService returns a new staging.Service
func NewService(config *api.JobsConfig, gitClient gitapi.Client, buildLogsService buildlogs.Service) Service {
	return &service{
		config:           config,
		gitClient:        gitClient,
		buildLogsService: buildLogsService,
		now:              time.Now,
	}
}

type service struct {
	config           *api.JobsConfig
	gitClient        gitapi.Client
	buildLogsService buildlogs.Service
	now              func() time.Time
}

func (s *service) StageRepositories(ctx context.Context, job *api.BuildJobQueueItem) (staged *StagedRepositories, err error) {

	repositoryInfo := job.RepositoryInfo
	staged = &StagedRepositories{JobID: job.ID}

	staged.AssignmentCommitHash = job.BuildConfig.AssignmentCommitHash
	if staged.AssignmentCommitHash == "" {
		staged.AssignmentCommitHash, err = s.gitClient.GetLastCommitHash(ctx, repositoryInfo.AssignmentRepositoryURI)
		if err != nil {
			return staged, s.logError(job.ID, fmt.Sprintf("Could not find last commit hash for assignment repository %v", RepositorySlug(repositoryInfo.AssignmentRepositoryURI)), err)
		}
	}

	staged.TestCommitHash = job.BuildConfig.TestCommitHash
	if staged.TestCommitHash == "" {
		staged.TestCommitHash, err = s.gitClient.GetLastCommitHash(ctx, repositoryInfo.TestRepositoryURI)
		if err != nil {
			return staged, s.logError(job.ID, fmt.Sprintf("Could not find last commit hash for test repository %v", RepositorySlug(repositoryInfo.TestRepositoryURI)), err)
		}
	}

	// all clones of a job share one scratch directory named after the assignment commit
	parentDirectory := staged.AssignmentCommitHash
	if parentDirectory == "" {
		parentDirectory = uuid.New().String()
	}
	staged.parentDirectories = []string{filepath.Join(s.config.CheckedOutReposPath, parentDirectory)}
	if staged.TestCommitHash != "" && staged.TestCommitHash != staged.AssignmentCommitHash {
		staged.parentDirectories = append(staged.parentDirectories, filepath.Join(s.config.CheckedOutReposPath, staged.TestCommitHash))
	}

	// a push to the tests or an auxiliary repository carries their commit, not the assignment's
	checkoutAssignment := job.BuildConfig.AssignmentCommitHash != "" &&
		repositoryInfo.TriggeredByPushTo != api.RepositoryTypeTests &&
		repositoryInfo.TriggeredByPushTo != api.RepositoryTypeAuxiliary

	checkoutHash := ""
	if checkoutAssignment {
		checkoutHash = staged.AssignmentCommitHash
	}
	staged.AssignmentPath, err = s.cloneRepository(ctx, staged, parentDirectory, repositoryInfo.AssignmentRepositoryURI, checkoutHash)
	if err != nil {
		return staged, err
	}

	staged.TestPath, err = s.cloneRepository(ctx, staged, parentDirectory, repositoryInfo.TestRepositoryURI, "")
	if err != nil {
		return staged, err
	}

	if repositoryInfo.SolutionRepositoryURI != "" {
		if RepositorySlug(repositoryInfo.SolutionRepositoryURI) == RepositorySlug(repositoryInfo.AssignmentRepositoryURI) {
			staged.SolutionPath = staged.AssignmentPath
		} else {
			staged.SolutionPath, err = s.cloneRepository(ctx, staged, parentDirectory, repositoryInfo.SolutionRepositoryURI, "")
			if err != nil {
				return staged, err
			}
		}
	}

	for _, auxiliaryRepositoryURI := range repositoryInfo.AuxiliaryRepositoryURIs {
		auxiliaryPath, err := s.cloneRepository(ctx, staged, parentDirectory, auxiliaryRepositoryURI, "")
		if err != nil {
			return staged, err
		}
		staged.AuxiliaryPaths = append(staged.AuxiliaryPaths, auxiliaryPath)
	}

	return staged, nil
}

func (s *service) cloneRepository(ctx context.Context, staged *StagedRepositories, parentDirectory, repositoryURI, checkoutHash string) (repositoryPath string, err error) {

	slug := RepositorySlug(repositoryURI)
	repositoryPath = filepath.Join(s.config.CheckedOutReposPath, parentDirectory, slug)

	attempt := 0
	err = foundation.Retry(func() error {
		attempt++
		cloneErr := s.gitClient.CloneRepository(ctx, repositoryURI, repositoryPath)
		if cloneErr != nil && attempt < s.config.CloneAttempts && ctx.Err() == nil {
			s.buildLogsService.AppendBuildLogEntry(staged.JobID, fmt.Sprintf("Attempt %v to clone repository %v failed due to %v. Retrying...", attempt, slug, cloneErr))
		}
		return cloneErr
	}, foundation.Attempts(uint(s.config.CloneAttempts)), foundation.DelayMillisecond(s.config.CloneRetryDelayMilliseconds), foundation.Fixed())

	// register before checking for errors, a failed clone may have left files behind
	staged.clonedPaths = append(staged.clonedPaths, repositoryPath)

	if err != nil {
		return "", s.logError(staged.JobID, fmt.Sprintf("Error while cloning repository %v after %v attempts", slug, attempt), err)
	}

	if checkoutHash != "" {
		err = s.gitClient.CheckoutCommit(ctx, repositoryPath, checkoutHash)
		if err != nil {
			return "", s.logError(staged.JobID, fmt.Sprintf("Error while checking out commit %v in repository %v", checkoutHash, slug), err)
		}
	}

	return repositoryPath, nil
}

// CleanUpRepositories deletes the clones and scratch directories of a job; failures are logged, leftovers are removed on the next start
func (s *service) CleanUpRepositories(ctx context.Context, staged *StagedRepositories) {
	if staged == nil {
		return
	}

	for _, clonedPath := range staged.clonedPaths {
		if err := s.gitClient.DeleteRepository(ctx, clonedPath); err != nil {
			s.buildLogsService.AppendBuildLogEntry(staged.JobID, "Error while deleting repository")
			log.Error().Err(err).Msgf("Failed deleting repository %v of job %v", clonedPath, staged.JobID)
		}
	}

	for _, parentDirectory := range staged.parentDirectories {
		if err := os.RemoveAll(parentDirectory); err != nil {
			log.Error().Err(err).Msgf("Failed deleting scratch directory %v of job %v", parentDirectory, staged.JobID)
		}
	}
}

// CleanUpStaleDirectories removes scratch directories left behind by earlier runs of the agent
func (s *service) CleanUpStaleDirectories(ctx context.Context) (err error) {

	entries, err := os.ReadDir(s.config.CheckedOutReposPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed listing %v: %w", s.config.CheckedOutReposPath, err)
	}

	cutoff := s.now().Add(-time.Duration(s.config.StaleDirectoryRetentionMinutes) * time.Minute)

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}

		directory := filepath.Join(s.config.CheckedOutReposPath, entry.Name())
		log.Info().Msgf("Removing stale scratch directory %v", directory)
		if err := os.RemoveAll(directory); err != nil {
			log.Warn().Err(err).Msgf("Failed removing stale scratch directory %v", directory)
		}
	}

	return nil
}

func (s *service) logError(jobID, msg string, err error) error {
	s.buildLogsService.AppendBuildLogEntry(jobID, msg)
	return fmt.Errorf("%v: %w", msg, err)
}

// RepositorySlug returns the last path segment of a repository uri without the .git suffix
func RepositorySlug(repositoryURI string) string {
	return strings.TrimSuffix(path.Base(strings.TrimRight(repositoryURI, "/")), ".git")
}
