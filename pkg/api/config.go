package api

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var (
	shortNameRegex        = regexp.MustCompile(`^[a-z0-9-]+$`)
	invalidShortNameRegex = regexp.MustCompile(`[^a-z0-9-]`)
)

// BuildAgentConfig represent the configuration for the entire build agent
type BuildAgentConfig struct {
	Agent        *AgentConfig                  `yaml:"agent,omitempty"`
	Jobs         *JobsConfig                   `yaml:"jobs,omitempty"`
	Docker       *DockerConfig                 `yaml:"docker,omitempty"`
	Git          *GitConfig                    `yaml:"git,omitempty"`
	Coordination *CoordinationConfig           `yaml:"coordination,omitempty"`
	Auth         *AuthConfig                   `yaml:"auth,omitempty"`
	Integrations *BuildAgentConfigIntegrations `yaml:"integrations,omitempty"`
}

func (c *BuildAgentConfig) SetDefaults() {
	if c.Agent == nil {
		c.Agent = &AgentConfig{}
	}
	c.Agent.SetDefaults()

	if c.Jobs == nil {
		c.Jobs = &JobsConfig{}
	}
	c.Jobs.SetDefaults()

	if c.Docker == nil {
		c.Docker = &DockerConfig{}
	}
	c.Docker.SetDefaults()

	if c.Git == nil {
		c.Git = &GitConfig{}
	}
	c.Git.SetDefaults()

	if c.Coordination == nil {
		c.Coordination = &CoordinationConfig{}
	}
	c.Coordination.SetDefaults()

	if c.Auth == nil {
		c.Auth = &AuthConfig{}
	}
	c.Auth.SetDefaults()

	if c.Integrations == nil {
		c.Integrations = &BuildAgentConfigIntegrations{}
	}
	c.Integrations.SetDefaults()
}

func (c *BuildAgentConfig) Validate() (err error) {
	err = c.Agent.Validate()
	if err != nil {
		return
	}

	err = c.Jobs.Validate()
	if err != nil {
		return
	}

	err = c.Docker.Validate()
	if err != nil {
		return
	}

	err = c.Git.Validate()
	if err != nil {
		return
	}

	err = c.Coordination.Validate()
	if err != nil {
		return
	}

	return c.Integrations.Validate()
}

// AgentConfig configures the identity and capacity of this node
type AgentConfig struct {
	ShortName           string `yaml:"shortName" env:"AGENT_SHORT_NAME"`
	DisplayName         string `yaml:"displayName" env:"AGENT_DISPLAY_NAME"`
	MemberAddress       string `yaml:"memberAddress" env:"AGENT_MEMBER_ADDRESS"`
	MaxConcurrentBuilds int    `yaml:"maxConcurrentBuilds" env:"AGENT_MAX_CONCURRENT_BUILDS"`
	// Synchronous runs builds inline on the claiming goroutine; meant for tests
	Synchronous                    bool `yaml:"synchronous"`
	RecentBuildJobsLimit           int  `yaml:"recentBuildJobsLimit"`
	QueueCheckIntervalSeconds      int  `yaml:"queueCheckIntervalSeconds"`
	AgentInfoUpdateIntervalSeconds int  `yaml:"agentInfoUpdateIntervalSeconds"`
	AgentInfoInitialDelaySeconds   int  `yaml:"agentInfoInitialDelaySeconds"`
	PauseGracePeriodSeconds        int  `yaml:"pauseGracePeriodSeconds"`
	MaxRetries                     int  `yaml:"maxRetries"`
	ContainerCleanupDelaySeconds   int  `yaml:"containerCleanupDelaySeconds"`
	ShutdownGracePeriodSeconds     int  `yaml:"shutdownGracePeriodSeconds"`
}

func (c *AgentConfig) SetDefaults() {
	if c.ShortName == "" {
		if hostname, err := os.Hostname(); err == nil {
			c.ShortName = SanitizeShortName(hostname)
		}
	}
	if c.DisplayName == "" {
		c.DisplayName = c.ShortName
	}
	if c.MemberAddress == "" {
		c.MemberAddress = c.ShortName
	}
	if c.MaxConcurrentBuilds <= 0 {
		c.MaxConcurrentBuilds = 1
	}
	if c.RecentBuildJobsLimit <= 0 {
		c.RecentBuildJobsLimit = 20
	}
	if c.QueueCheckIntervalSeconds <= 0 {
		c.QueueCheckIntervalSeconds = 10
	}
	if c.AgentInfoUpdateIntervalSeconds <= 0 {
		c.AgentInfoUpdateIntervalSeconds = 60
	}
	if c.AgentInfoInitialDelaySeconds <= 0 {
		c.AgentInfoInitialDelaySeconds = 10
	}
	if c.PauseGracePeriodSeconds <= 0 {
		c.PauseGracePeriodSeconds = 60
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 5
	}
	if c.ContainerCleanupDelaySeconds <= 0 {
		c.ContainerCleanupDelaySeconds = 10
	}
	if c.ShutdownGracePeriodSeconds <= 0 {
		c.ShutdownGracePeriodSeconds = 30
	}
}

func (c *AgentConfig) Validate() (err error) {
	if c.ShortName == "" {
		return errors.New("Configuration item 'agent.shortName' is required; please set it to a name consisting of lowercase letters, digits and dashes")
	}
	if !shortNameRegex.MatchString(c.ShortName) {
		return fmt.Errorf("Configuration item 'agent.shortName' with value '%v' is invalid; it may only contain lowercase letters, digits and dashes", c.ShortName)
	}
	if c.MaxConcurrentBuilds <= 0 {
		return errors.New("Configuration item 'agent.maxConcurrentBuilds' is required; please set it to the number of builds this agent can run in parallel")
	}

	return nil
}

// BuildAgentDTO returns the identity this agent stamps onto claimed jobs
func (c *AgentConfig) BuildAgentDTO() BuildAgentDTO {
	return BuildAgentDTO{
		Name:          c.ShortName,
		MemberAddress: c.MemberAddress,
		DisplayName:   c.DisplayName,
	}
}

// SanitizeShortName lowercases a name and replaces every character outside [a-z0-9-]
func SanitizeShortName(name string) string {
	return invalidShortNameRegex.ReplaceAllString(strings.ToLower(name), "-")
}

// JobsConfig configures timeouts, scratch space and build log handling
type JobsConfig struct {
	TimeoutSeconds                 int    `yaml:"timeoutSeconds"`
	MaxTimeoutSeconds              int    `yaml:"maxTimeoutSeconds"`
	CheckedOutReposPath            string `yaml:"checkedOutReposPath" env:"JOBS_CHECKED_OUT_REPOS_PATH"`
	ContainerWorkingDirectory      string `yaml:"containerWorkingDirectory"`
	DefaultBranch                  string `yaml:"defaultBranch"`
	CloneAttempts                  int    `yaml:"cloneAttempts"`
	CloneRetryDelayMilliseconds    int    `yaml:"cloneRetryDelayMilliseconds"`
	StaleDirectoryRetentionMinutes int    `yaml:"staleDirectoryRetentionMinutes"`
	MaxBuildLogLines               int    `yaml:"maxBuildLogLines"`
}

func (c *JobsConfig) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 120
	}
	if c.MaxTimeoutSeconds <= 0 {
		c.MaxTimeoutSeconds = 240
	}
	if c.CheckedOutReposPath == "" {
		c.CheckedOutReposPath = filepath.Join(os.TempDir(), "build-agent", "checked-out-repos")
	}
	if c.ContainerWorkingDirectory == "" {
		c.ContainerWorkingDirectory = "/var/tmp"
	}
	if c.DefaultBranch == "" {
		c.DefaultBranch = "main"
	}
	if c.CloneAttempts <= 0 {
		c.CloneAttempts = 3
	}
	if c.CloneRetryDelayMilliseconds <= 0 {
		c.CloneRetryDelayMilliseconds = 1000
	}
	if c.StaleDirectoryRetentionMinutes <= 0 {
		c.StaleDirectoryRetentionMinutes = 5
	}
	if c.MaxBuildLogLines <= 0 {
		c.MaxBuildLogLines = 10000
	}
}

func (c *JobsConfig) Validate() (err error) {
	if c.TimeoutSeconds > c.MaxTimeoutSeconds {
		return errors.New("Configuration item 'jobs.timeoutSeconds' should not exceed 'jobs.maxTimeoutSeconds'")
	}
	if !filepath.IsAbs(c.CheckedOutReposPath) {
		return errors.New("Configuration item 'jobs.checkedOutReposPath' should be an absolute path")
	}

	return nil
}

// Timeout returns the effective timeout for a job, falling back to the default and capped at the maximum
func (c *JobsConfig) Timeout(jobTimeoutSeconds int) time.Duration {
	seconds := c.TimeoutSeconds
	if jobTimeoutSeconds > 0 {
		seconds = min(jobTimeoutSeconds, c.MaxTimeoutSeconds)
	}
	return time.Duration(seconds) * time.Second
}

// DockerConfig configures the container engine and container limits
type DockerConfig struct {
	Endpoint             string       `yaml:"endpoint" env:"DOCKER_HOST"`
	ContainerPrefix      string       `yaml:"containerPrefix"`
	DefaultCPUCount      int          `yaml:"defaultCpuCount"`
	MaxCPUCount          int          `yaml:"maxCpuCount"`
	DefaultMemoryMB      int64        `yaml:"defaultMemoryMB"`
	MaxMemoryMB          int64        `yaml:"maxMemoryMB"`
	DefaultMemorySwapMB  int64        `yaml:"defaultMemorySwapMB"`
	MaxMemorySwapMB      int64        `yaml:"maxMemorySwapMB"`
	PidsLimit            int64        `yaml:"pidsLimit"`
	StopTimeoutSeconds   int          `yaml:"stopTimeoutSeconds"`
	ImageCleanupSchedule string       `yaml:"imageCleanupSchedule"`
	ImageExpiryDays      int          `yaml:"imageExpiryDays"`
	DisableImageCleanup  bool         `yaml:"disableImageCleanup"`
	Proxy                *ProxyConfig `yaml:"proxy,omitempty"`
}

func (c *DockerConfig) SetDefaults() {
	if c.ContainerPrefix == "" {
		c.ContainerPrefix = "local-ci-"
	}
	if c.DefaultCPUCount <= 0 {
		c.DefaultCPUCount = 1
	}
	if c.MaxCPUCount <= 0 {
		c.MaxCPUCount = 4
	}
	if c.DefaultMemoryMB <= 0 {
		c.DefaultMemoryMB = 1024
	}
	if c.MaxMemoryMB <= 0 {
		c.MaxMemoryMB = 4096
	}
	if c.DefaultMemorySwapMB <= 0 {
		c.DefaultMemorySwapMB = 1024
	}
	if c.MaxMemorySwapMB <= 0 {
		c.MaxMemorySwapMB = 4096
	}
	if c.PidsLimit <= 0 {
		c.PidsLimit = 1000
	}
	if c.StopTimeoutSeconds <= 0 {
		c.StopTimeoutSeconds = 15
	}
	if c.ImageCleanupSchedule == "" {
		// seconds minutes hours day-of-month month day-of-week
		c.ImageCleanupSchedule = "0 0 3 * * *"
	}
	if c.ImageExpiryDays <= 0 {
		c.ImageExpiryDays = 2
	}
	if c.Proxy == nil {
		c.Proxy = &ProxyConfig{}
	}
}

func (c *DockerConfig) Validate() (err error) {
	if c.DefaultCPUCount > c.MaxCPUCount {
		return errors.New("Configuration item 'docker.defaultCpuCount' should not exceed 'docker.maxCpuCount'")
	}
	if c.DefaultMemoryMB > c.MaxMemoryMB {
		return errors.New("Configuration item 'docker.defaultMemoryMB' should not exceed 'docker.maxMemoryMB'")
	}

	return nil
}

// ProxyConfig is passed on to build containers as environment variables
type ProxyConfig struct {
	UseSystemProxy bool   `yaml:"useSystemProxy"`
	HTTPProxy      string `yaml:"httpProxy"`
	HTTPSProxy     string `yaml:"httpsProxy"`
	NoProxy        string `yaml:"noProxy"`
}

// EnvironmentVariables returns the proxy settings in container env format
func (c *ProxyConfig) EnvironmentVariables() (env []string) {
	if c == nil || !c.UseSystemProxy {
		return
	}
	if c.HTTPProxy != "" {
		env = append(env, "HTTP_PROXY="+c.HTTPProxy, "http_proxy="+c.HTTPProxy)
	}
	if c.HTTPSProxy != "" {
		env = append(env, "HTTPS_PROXY="+c.HTTPSProxy, "https_proxy="+c.HTTPSProxy)
	}
	if c.NoProxy != "" {
		env = append(env, "NO_PROXY="+c.NoProxy, "no_proxy="+c.NoProxy)
	}
	return
}

// CoordinationBackend selects the implementation of the cluster coordination service
type CoordinationBackend string

const (
	CoordinationBackendMemory CoordinationBackend = "memory"
	CoordinationBackendRedis  CoordinationBackend = "redis"
)

// BroadcastBackend selects the implementation used for topics
type BroadcastBackend string

const (
	BroadcastBackendDefault BroadcastBackend = "default"
	BroadcastBackendNats    BroadcastBackend = "nats"
)

// CoordinationConfig configures the cluster coordination service
type CoordinationConfig struct {
	Backend            CoordinationBackend `yaml:"backend" env:"COORDINATION_BACKEND"`
	Broadcast          BroadcastBackend    `yaml:"broadcast"`
	Namespace          string              `yaml:"namespace"`
	LockTTLSeconds     int                 `yaml:"lockTTLSeconds"`
	LockTimeoutSeconds int                 `yaml:"lockTimeoutSeconds"`
	Redis              *RedisConfig        `yaml:"redis,omitempty"`
	Nats               *NatsConfig         `yaml:"nats,omitempty"`
}

func (c *CoordinationConfig) SetDefaults() {
	if c.Backend == "" {
		c.Backend = CoordinationBackendMemory
	}
	if c.Broadcast == "" {
		c.Broadcast = BroadcastBackendDefault
	}
	if c.Namespace == "" {
		c.Namespace = "buildagent"
	}
	if c.LockTTLSeconds <= 0 {
		c.LockTTLSeconds = 30
	}
	if c.LockTimeoutSeconds <= 0 {
		c.LockTimeoutSeconds = 10
	}
	if c.Redis == nil {
		c.Redis = &RedisConfig{}
	}
	c.Redis.SetDefaults()
	if c.Nats == nil {
		c.Nats = &NatsConfig{}
	}
	c.Nats.SetDefaults()
}

func (c *CoordinationConfig) Validate() (err error) {
	switch c.Backend {
	case CoordinationBackendMemory:
	case CoordinationBackendRedis:
		if c.Redis.Address == "" {
			return errors.New("Configuration item 'coordination.redis.address' is required when 'coordination.backend' is redis")
		}
	default:
		return fmt.Errorf("Configuration item 'coordination.backend' has unsupported value '%v'; use memory or redis", c.Backend)
	}

	switch c.Broadcast {
	case BroadcastBackendDefault:
	case BroadcastBackendNats:
		if len(c.Nats.Hosts) == 0 {
			return errors.New("Configuration item 'coordination.nats.hosts' is required when 'coordination.broadcast' is nats")
		}
	default:
		return fmt.Errorf("Configuration item 'coordination.broadcast' has unsupported value '%v'; use default or nats", c.Broadcast)
	}

	return nil
}

// RedisConfig configures the redis connection
type RedisConfig struct {
	Address  string `yaml:"address" env:"REDIS_ADDRESS"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	Database int    `yaml:"database"`
	PoolSize int    `yaml:"poolSize"`
}

func (c *RedisConfig) SetDefaults() {
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
}

// NatsConfig configures the nats connection used for broadcast topics
type NatsConfig struct {
	Hosts []string `yaml:"hosts"`
}

func (c *NatsConfig) SetDefaults() {
}

// GitConfig configures how repositories are cloned over ssh
type GitConfig struct {
	UseSSH bool `yaml:"useSsh" env:"GIT_USE_SSH"`
	// SSHPrivateKeyPath is read when present, otherwise a fresh ed25519 key is written there
	SSHPrivateKeyPath string `yaml:"sshPrivateKeyPath" env:"GIT_SSH_PRIVATE_KEY_PATH"`
	SSHUser           string `yaml:"sshUser"`
	// KnownHostsPath is left empty to skip host key verification
	KnownHostsPath string `yaml:"knownHostsPath" env:"GIT_KNOWN_HOSTS_PATH"`

	// PublicSSHKey is the authorized_keys line of the loaded key, advertised in the agent information
	PublicSSHKey string `yaml:"-"`
}

func (c *GitConfig) SetDefaults() {
	if c.SSHPrivateKeyPath == "" {
		c.SSHPrivateKeyPath = filepath.Join(os.TempDir(), "build-agent", "ssh", "id_ed25519")
	}
	if c.SSHUser == "" {
		c.SSHUser = "git"
	}
}

func (c *GitConfig) Validate() (err error) {
	if c.UseSSH && !filepath.IsAbs(c.SSHPrivateKeyPath) {
		return errors.New("Configuration item 'git.sshPrivateKeyPath' should be an absolute path")
	}

	return nil
}

// AuthConfig configures authentication for the agent's http api
type AuthConfig struct {
	JWT *JWTConfig `yaml:"jwt,omitempty"`
}

func (c *AuthConfig) SetDefaults() {
	if c.JWT == nil {
		c.JWT = &JWTConfig{}
	}
	c.JWT.SetDefaults()
}

// JWTConfig is used to configure JWT middleware
type JWTConfig struct {
	Domain string `yaml:"domain"`
	// Key to sign JWT; use 256-bit key (or 32 bytes) minimum length
	Key string `yaml:"key"`
}

func (c *JWTConfig) SetDefaults() {
	if c.Domain == "" {
		c.Domain = "build-agent"
	}
}

// Enabled returns true if mutating routes should be protected
func (c *JWTConfig) Enabled() bool {
	return c != nil && c.Key != ""
}

// BuildAgentConfigIntegrations contains config for 3rd party integrations
type BuildAgentConfigIntegrations struct {
	CloudStorage *CloudStorageConfig `yaml:"cloudStorage,omitempty"`
}

func (c *BuildAgentConfigIntegrations) SetDefaults() {
	if c.CloudStorage == nil {
		c.CloudStorage = &CloudStorageConfig{}
	}
	c.CloudStorage.SetDefaults()
}

func (c *BuildAgentConfigIntegrations) Validate() (err error) {
	return c.CloudStorage.Validate()
}

// CloudStorageConfig is used to configure a google cloud storage integration for archiving build logs
type CloudStorageConfig struct {
	Enable        bool   `yaml:"enable"`
	ProjectID     string `yaml:"projectID"`
	Bucket        string `yaml:"bucket"`
	LogsDirectory string `yaml:"logsDir"`
}

func (c *CloudStorageConfig) SetDefaults() {
	if !c.Enable {
		return
	}
	if c.LogsDirectory == "" {
		c.LogsDirectory = "logs"
	}
}

func (c *CloudStorageConfig) Validate() (err error) {
	if !c.Enable {
		return nil
	}
	if c.Bucket == "" {
		return errors.New("Configuration item 'integrations.cloudStorage.bucket' is required; please set it to a bucket in the Google Cloud project")
	}

	return nil
}
