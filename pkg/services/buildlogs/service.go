package buildlogs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	"github.com/estafette/estafette-ci-build-agent/pkg/clients/cloudstorage"
	"github.com/rs/zerolog/log"
)

// Service buffers the build output of running jobs until their result is published
//
//go:generate mockgen -package=buildlogs -destination ./mock.go -source=service.go
type Service interface {
	// StartBuildLogs lifts an earlier removal of the same job so a reclaimed job logs again
	StartBuildLogs(jobID string)
	AppendBuildLogEntry(jobID, line string)
	GetBuildLogs(jobID string) (logs []api.BuildLogEntry)
	// RemoveBuildLogs drops the buffer of a job and returns its content; appends arriving shortly after are ignored
	RemoveBuildLogs(jobID string) (logs []api.BuildLogEntry)
	ArchiveBuildLogs(ctx context.Context, jobID string, logs []api.BuildLogEntry) (err error)
}

// NewService returns a new buildlogs.Service
func NewService(config *api.JobsConfig, cloudStorageClient cloudstorage.Client) Service {
	return &service{
		maxLines:           config.MaxBuildLogLines,
		cloudStorageClient: cloudStorageClient,
		logs:               map[string]*jobLog{},
		removed:            map[string]time.Time{},
		now:                time.Now,
	}
}

type jobLog struct {
	entries   []api.BuildLogEntry
	truncated bool
}

type service struct {
	maxLines           int
	cloudStorageClient cloudstorage.Client
	mutex              sync.Mutex
	logs               map[string]*jobLog
	removed            map[string]time.Time
	now                func() time.Time
}

// removedRetention bounds how long appends of a removed job keep being ignored
const removedRetention = 10 * time.Minute

func (s *service) StartBuildLogs(jobID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.removed, jobID)
}

func (s *service) AppendBuildLogEntry(jobID, line string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if removedAt, ok := s.removed[jobID]; ok {
		if s.now().Sub(removedAt) < removedRetention {
			return
		}
		delete(s.removed, jobID)
	}

	l, ok := s.logs[jobID]
	if !ok {
		l = &jobLog{}
		s.logs[jobID] = l
	}
	if l.truncated {
		return
	}

	if s.maxLines > 0 && len(l.entries) >= s.maxLines {
		l.entries = append(l.entries, api.BuildLogEntry{
			Time: s.now().UTC(),
			Log:  fmt.Sprintf("The build log exceeded %v lines and has been truncated", s.maxLines),
		})
		l.truncated = true
		return
	}

	l.entries = append(l.entries, api.BuildLogEntry{Time: s.now().UTC(), Log: line})
}

func (s *service) GetBuildLogs(jobID string) (logs []api.BuildLogEntry) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	l, ok := s.logs[jobID]
	if !ok {
		return []api.BuildLogEntry{}
	}

	logs = make([]api.BuildLogEntry, len(l.entries))
	copy(logs, l.entries)
	return logs
}

func (s *service) RemoveBuildLogs(jobID string) (logs []api.BuildLogEntry) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := s.now()
	for id, removedAt := range s.removed {
		if now.Sub(removedAt) >= removedRetention {
			delete(s.removed, id)
		}
	}
	s.removed[jobID] = now

	l, ok := s.logs[jobID]
	if !ok {
		return []api.BuildLogEntry{}
	}
	delete(s.logs, jobID)

	return l.entries
}

func (s *service) ArchiveBuildLogs(ctx context.Context, jobID string, logs []api.BuildLogEntry) (err error) {
	if s.cloudStorageClient == nil || !s.cloudStorageClient.Enabled() {
		return nil
	}

	log.Debug().Msgf("Archiving %v build log lines of job %v", len(logs), jobID)

	return s.cloudStorageClient.InsertBuildLog(ctx, jobID, logs)
}
