package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/estafette/estafette-ci-build-agent/pkg/api"
	"github.com/estafette/estafette-ci-build-agent/pkg/clients/clusterapi"
	"github.com/opentracing/opentracing-go"
	"github.com/rs/zerolog/log"
)

const (
	BuildJobQueueName            = "buildJobQueue"
	DeadBuildJobQueueName        = "deadBuildJobQueue"
	BuildResultQueueName         = "buildResultQueue"
	ProcessingJobsMapName        = "processingJobs"
	BuildAgentInformationMapName = "buildAgentInformation"
	DockerImageCleanupInfoName   = "dockerImageCleanupInfo"
	CanceledBuildJobsTopicName   = "canceledBuildJobsTopic"
	PauseBuildAgentTopicName     = "pauseBuildAgentTopic"
	ResumeBuildAgentTopicName    = "resumeBuildAgentTopic"
)

// Service provides typed access to the cluster-wide queues, maps and topics shared by build agents
//
//go:generate mockgen -package=queue -destination ./mock.go -source=service.go
type Service interface {
	AddBuildJob(ctx context.Context, job *api.BuildJobQueueItem) (err error)
	// PollBuildJob returns nil without error when the queue is empty
	PollBuildJob(ctx context.Context) (job *api.BuildJobQueueItem, err error)
	GetBuildJobQueueSize(ctx context.Context) (size int, err error)
	OnBuildJobAdded(ctx context.Context, listener func()) (remove func(), err error)
	LockBuildJobQueue(ctx context.Context) (unlock func(), err error)

	PutProcessingJob(ctx context.Context, job *api.BuildJobQueueItem) (err error)
	GetProcessingJob(ctx context.Context, jobID string) (job *api.BuildJobQueueItem, err error)
	RemoveProcessingJob(ctx context.Context, jobID string) (err error)
	GetProcessingJobs(ctx context.Context) (jobs []*api.BuildJobQueueItem, err error)
	GetProcessingJobsForMember(ctx context.Context, memberAddress string) (jobs []*api.BuildJobQueueItem, err error)

	PublishResult(ctx context.Context, item *api.ResultQueueItem) (err error)
	// TakeResult blocks up to timeout and returns nil without error when no result arrived
	TakeResult(ctx context.Context, timeout time.Duration) (item *api.ResultQueueItem, err error)

	GetBuildAgentInformation(ctx context.Context, memberAddress string) (info *api.BuildAgentInformation, err error)
	GetAllBuildAgentInformation(ctx context.Context) (infos []*api.BuildAgentInformation, err error)
	PutBuildAgentInformation(ctx context.Context, memberAddress string, info *api.BuildAgentInformation) (err error)
	RemoveBuildAgentInformation(ctx context.Context, memberAddress string) (err error)
	GetBuildAgentAddresses(ctx context.Context) (addresses []string, err error)
	LockBuildAgentInformation(ctx context.Context, memberAddress string) (unlock func(), err error)

	SetImageLastUsed(ctx context.Context, image string, lastUsed time.Time) (err error)
	GetImagesLastUsed(ctx context.Context) (lastUsed map[string]time.Time, err error)

	PublishCancelBuildJob(ctx context.Context, jobID string) (err error)
	OnCancelBuildJob(ctx context.Context, handler func(jobID string)) (unsubscribe func(), err error)
	PublishPauseBuildAgent(ctx context.Context, agentName string) (err error)
	OnPauseBuildAgent(ctx context.Context, handler func(agentName string)) (unsubscribe func(), err error)
	PublishResumeBuildAgent(ctx context.Context, agentName string) (err error)
	OnResumeBuildAgent(ctx context.Context, handler func(agentName string)) (unsubscribe func(), err error)

	GetClusterMembers(ctx context.Context) (members []string, err error)
	LocalMemberAddress() string
}

// NewService returns a new queue.Service
func NewService(clusterClient clusterapi.Client) Service {
	return &service{
		clusterClient: clusterClient,
	}
}

type service struct {
	clusterClient clusterapi.Client
}

func (s *service) AddBuildJob(ctx context.Context, job *api.BuildJobQueueItem) (err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName("queue", "AddBuildJob"))
	defer func() { api.FinishSpanWithError(span, err) }()

	data, err := json.Marshal(job)
	if err != nil {
		return
	}

	return s.clusterClient.Queue(BuildJobQueueName).Offer(ctx, data)
}

func (s *service) PollBuildJob(ctx context.Context) (job *api.BuildJobQueueItem, err error) {
	data, err := s.clusterClient.Queue(BuildJobQueueName).Poll(ctx)
	if errors.Is(err, clusterapi.ErrQueueEmpty) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	job = &api.BuildJobQueueItem{}
	if err = json.Unmarshal(data, job); err != nil {
		log.Error().Err(err).Str("payload", string(data)).Msgf("Malformed build job polled from %v, moving it to %v", BuildJobQueueName, DeadBuildJobQueueName)
		if deadErr := s.clusterClient.Queue(DeadBuildJobQueueName).Offer(ctx, data); deadErr != nil {
			log.Error().Err(deadErr).Msg("Failed storing malformed build job, it's lost")
		}
		return nil, fmt.Errorf("malformed build job: %w", err)
	}

	return job, nil
}

func (s *service) GetBuildJobQueueSize(ctx context.Context) (size int, err error) {
	return s.clusterClient.Queue(BuildJobQueueName).Size(ctx)
}

func (s *service) OnBuildJobAdded(ctx context.Context, listener func()) (remove func(), err error) {
	return s.clusterClient.Queue(BuildJobQueueName).AddListener(ctx, listener)
}

func (s *service) LockBuildJobQueue(ctx context.Context) (unlock func(), err error) {
	return s.clusterClient.Lock(BuildJobQueueName).Lock(ctx)
}

func (s *service) PutProcessingJob(ctx context.Context, job *api.BuildJobQueueItem) (err error) {
	data, err := json.Marshal(job)
	if err != nil {
		return
	}

	return s.clusterClient.Map(ProcessingJobsMapName).Put(ctx, job.ID, data)
}

func (s *service) GetProcessingJob(ctx context.Context, jobID string) (job *api.BuildJobQueueItem, err error) {
	data, err := s.clusterClient.Map(ProcessingJobsMapName).Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	job = &api.BuildJobQueueItem{}
	if err = json.Unmarshal(data, job); err != nil {
		return nil, err
	}

	return job, nil
}

func (s *service) RemoveProcessingJob(ctx context.Context, jobID string) (err error) {
	return s.clusterClient.Map(ProcessingJobsMapName).Remove(ctx, jobID)
}

func (s *service) GetProcessingJobs(ctx context.Context) (jobs []*api.BuildJobQueueItem, err error) {
	values, err := s.clusterClient.Map(ProcessingJobsMapName).Values(ctx)
	if err != nil {
		return nil, err
	}

	for _, data := range values {
		job := &api.BuildJobQueueItem{}
		if err := json.Unmarshal(data, job); err != nil {
			log.Warn().Err(err).Msg("Skipping processing job that can't be unmarshalled")
			continue
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

func (s *service) GetProcessingJobsForMember(ctx context.Context, memberAddress string) (jobs []*api.BuildJobQueueItem, err error) {
	allJobs, err := s.GetProcessingJobs(ctx)
	if err != nil {
		return nil, err
	}

	for _, job := range allJobs {
		if job.BuildAgent != nil && job.BuildAgent.MemberAddress == memberAddress {
			jobs = append(jobs, job)
		}
	}

	return jobs, nil
}

func (s *service) PublishResult(ctx context.Context, item *api.ResultQueueItem) (err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName("queue", "PublishResult"))
	defer func() { api.FinishSpanWithError(span, err) }()

	data, err := json.Marshal(item)
	if err != nil {
		return
	}

	return s.clusterClient.Queue(BuildResultQueueName).Offer(ctx, data)
}

func (s *service) TakeResult(ctx context.Context, timeout time.Duration) (item *api.ResultQueueItem, err error) {
	data, err := s.clusterClient.Queue(BuildResultQueueName).Take(ctx, timeout)
	if errors.Is(err, clusterapi.ErrQueueEmpty) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	item = &api.ResultQueueItem{}
	if err = json.Unmarshal(data, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *service) GetBuildAgentInformation(ctx context.Context, memberAddress string) (info *api.BuildAgentInformation, err error) {
	data, err := s.clusterClient.Map(BuildAgentInformationMapName).Get(ctx, memberAddress)
	if errors.Is(err, clusterapi.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	info = &api.BuildAgentInformation{}
	if err = json.Unmarshal(data, info); err != nil {
		return nil, err
	}

	return info, nil
}

func (s *service) GetAllBuildAgentInformation(ctx context.Context) (infos []*api.BuildAgentInformation, err error) {
	values, err := s.clusterClient.Map(BuildAgentInformationMapName).Values(ctx)
	if err != nil {
		return nil, err
	}

	for _, data := range values {
		info := &api.BuildAgentInformation{}
		if err := json.Unmarshal(data, info); err != nil {
			log.Warn().Err(err).Msg("Skipping build agent information that can't be unmarshalled")
			continue
		}
		infos = append(infos, info)
	}

	return infos, nil
}

func (s *service) PutBuildAgentInformation(ctx context.Context, memberAddress string, info *api.BuildAgentInformation) (err error) {
	data, err := json.Marshal(info)
	if err != nil {
		return
	}

	return s.clusterClient.Map(BuildAgentInformationMapName).Put(ctx, memberAddress, data)
}

func (s *service) RemoveBuildAgentInformation(ctx context.Context, memberAddress string) (err error) {
	return s.clusterClient.Map(BuildAgentInformationMapName).Remove(ctx, memberAddress)
}

func (s *service) GetBuildAgentAddresses(ctx context.Context) (addresses []string, err error) {
	return s.clusterClient.Map(BuildAgentInformationMapName).Keys(ctx)
}

func (s *service) LockBuildAgentInformation(ctx context.Context, memberAddress string) (unlock func(), err error) {
	return s.clusterClient.Map(BuildAgentInformationMapName).LockKey(ctx, memberAddress)
}

func (s *service) SetImageLastUsed(ctx context.Context, image string, lastUsed time.Time) (err error) {
	data, err := lastUsed.UTC().MarshalText()
	if err != nil {
		return
	}

	return s.clusterClient.Map(DockerImageCleanupInfoName).Put(ctx, image, data)
}

func (s *service) GetImagesLastUsed(ctx context.Context) (lastUsed map[string]time.Time, err error) {
	m := s.clusterClient.Map(DockerImageCleanupInfoName)
	images, err := m.Keys(ctx)
	if err != nil {
		return nil, err
	}

	lastUsed = map[string]time.Time{}
	for _, image := range images {
		data, err := m.Get(ctx, image)
		if errors.Is(err, clusterapi.ErrKeyNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		var t time.Time
		if err := t.UnmarshalText(data); err != nil {
			log.Warn().Err(err).Msgf("Skipping last used time for image %v that can't be parsed", image)
			continue
		}
		lastUsed[image] = t
	}

	return lastUsed, nil
}

func (s *service) PublishCancelBuildJob(ctx context.Context, jobID string) (err error) {
	span, ctx := opentracing.StartSpanFromContext(ctx, api.GetSpanName("queue", "PublishCancelBuildJob"))
	defer func() { api.FinishSpanWithError(span, err) }()

	return s.clusterClient.Topic(CanceledBuildJobsTopicName).Publish(ctx, []byte(jobID))
}

func (s *service) OnCancelBuildJob(ctx context.Context, handler func(jobID string)) (unsubscribe func(), err error) {
	return s.subscribeString(ctx, CanceledBuildJobsTopicName, handler)
}

func (s *service) PublishPauseBuildAgent(ctx context.Context, agentName string) (err error) {
	return s.clusterClient.Topic(PauseBuildAgentTopicName).Publish(ctx, []byte(agentName))
}

func (s *service) OnPauseBuildAgent(ctx context.Context, handler func(agentName string)) (unsubscribe func(), err error) {
	return s.subscribeString(ctx, PauseBuildAgentTopicName, handler)
}

func (s *service) PublishResumeBuildAgent(ctx context.Context, agentName string) (err error) {
	return s.clusterClient.Topic(ResumeBuildAgentTopicName).Publish(ctx, []byte(agentName))
}

func (s *service) OnResumeBuildAgent(ctx context.Context, handler func(agentName string)) (unsubscribe func(), err error) {
	return s.subscribeString(ctx, ResumeBuildAgentTopicName, handler)
}

func (s *service) subscribeString(ctx context.Context, topicName string, handler func(string)) (unsubscribe func(), err error) {
	return s.clusterClient.Topic(topicName).Subscribe(ctx, func(payload []byte) {
		handler(string(payload))
	})
}

func (s *service) GetClusterMembers(ctx context.Context) (members []string, err error) {
	return s.clusterClient.Members(ctx)
}

func (s *service) LocalMemberAddress() string {
	return s.clusterClient.LocalMember()
}
