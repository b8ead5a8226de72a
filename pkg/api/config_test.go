package api

import (
	"testing"
	"time"

	crypt "github.com/estafette/estafette-ci-crypt"
	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
)

func TestReadConfigFromFile(t *testing.T) {

	t.Run("ReturnsConfigWithoutErrors", func(t *testing.T) {

		configReader := NewConfigReader(crypt.NewSecretHelper("SazbwMf3NZxVVbBqQHebPcXCqrVn3DDp", false), "za4BeKbXyMJVsX6gLU2AF352DEu9J5qE")

		// act
		_, err := configReader.ReadConfigFromFile("configs/config.yaml", false)

		assert.Nil(t, err)
	})

	t.Run("ReturnsAgentConfig", func(t *testing.T) {

		configReader := NewConfigReader(crypt.NewSecretHelper("SazbwMf3NZxVVbBqQHebPcXCqrVn3DDp", false), "za4BeKbXyMJVsX6gLU2AF352DEu9J5qE")

		// act
		config, err := configReader.ReadConfigFromFile("configs/config.yaml", false)

		assert.Nil(t, err)
		assert.Equal(t, "build-agent-1", config.Agent.ShortName)
		assert.Equal(t, "Build Agent 1", config.Agent.DisplayName)
		assert.Equal(t, "10.0.0.11:5701", config.Agent.MemberAddress)
		assert.Equal(t, 2, config.Agent.MaxConcurrentBuilds)
		assert.Equal(t, 20, config.Agent.RecentBuildJobsLimit)
		assert.Equal(t, 5, config.Agent.MaxRetries)
	})

	t.Run("ReturnsJobsConfig", func(t *testing.T) {

		configReader := NewConfigReader(crypt.NewSecretHelper("SazbwMf3NZxVVbBqQHebPcXCqrVn3DDp", false), "za4BeKbXyMJVsX6gLU2AF352DEu9J5qE")

		// act
		config, err := configReader.ReadConfigFromFile("configs/config.yaml", false)

		assert.Nil(t, err)
		assert.Equal(t, 180, config.Jobs.TimeoutSeconds)
		assert.Equal(t, "/var/lib/build-agent/checked-out-repos", config.Jobs.CheckedOutReposPath)
		assert.Equal(t, "/var/tmp", config.Jobs.ContainerWorkingDirectory)
		assert.Equal(t, 3, config.Jobs.CloneAttempts)
	})

	t.Run("ReturnsDockerConfig", func(t *testing.T) {

		configReader := NewConfigReader(crypt.NewSecretHelper("SazbwMf3NZxVVbBqQHebPcXCqrVn3DDp", false), "za4BeKbXyMJVsX6gLU2AF352DEu9J5qE")

		// act
		config, err := configReader.ReadConfigFromFile("configs/config.yaml", false)

		assert.Nil(t, err)
		assert.Equal(t, "local-ci-", config.Docker.ContainerPrefix)
		assert.Equal(t, 8, config.Docker.MaxCPUCount)
		assert.Equal(t, int64(8192), config.Docker.MaxMemoryMB)
		assert.Equal(t, "0 0 3 * * *", config.Docker.ImageCleanupSchedule)
		assert.Equal(t, 2, config.Docker.ImageExpiryDays)
		assert.Equal(t, []string{"HTTP_PROXY=http://proxy.internal:3128", "http_proxy=http://proxy.internal:3128", "NO_PROXY=localhost,127.0.0.1", "no_proxy=localhost,127.0.0.1"}, config.Docker.Proxy.EnvironmentVariables())
	})

	t.Run("ReturnsGitConfig", func(t *testing.T) {

		configReader := NewConfigReader(crypt.NewSecretHelper("SazbwMf3NZxVVbBqQHebPcXCqrVn3DDp", false), "za4BeKbXyMJVsX6gLU2AF352DEu9J5qE")

		// act
		config, err := configReader.ReadConfigFromFile("configs/config.yaml", false)

		assert.Nil(t, err)
		assert.True(t, config.Git.UseSSH)
		assert.Equal(t, "/var/lib/build-agent/ssh/id_ed25519", config.Git.SSHPrivateKeyPath)
		assert.Equal(t, "git", config.Git.SSHUser)
		assert.Equal(t, "", config.Git.KnownHostsPath)
	})

	t.Run("ReturnsCoordinationConfig", func(t *testing.T) {

		configReader := NewConfigReader(crypt.NewSecretHelper("SazbwMf3NZxVVbBqQHebPcXCqrVn3DDp", false), "za4BeKbXyMJVsX6gLU2AF352DEu9J5qE")

		// act
		config, err := configReader.ReadConfigFromFile("configs/config.yaml", false)

		assert.Nil(t, err)
		assert.Equal(t, CoordinationBackendRedis, config.Coordination.Backend)
		assert.Equal(t, BroadcastBackendNats, config.Coordination.Broadcast)
		assert.Equal(t, "redis:6379", config.Coordination.Redis.Address)
		assert.Equal(t, []string{"nats://nats:4222"}, config.Coordination.Nats.Hosts)
		assert.Equal(t, "buildagent", config.Coordination.Namespace)
	})

	t.Run("SetsJWTKeyFromArgument", func(t *testing.T) {

		configReader := NewConfigReader(crypt.NewSecretHelper("SazbwMf3NZxVVbBqQHebPcXCqrVn3DDp", false), "za4BeKbXyMJVsX6gLU2AF352DEu9J5qE")

		// act
		config, err := configReader.ReadConfigFromFile("configs/config.yaml", false)

		assert.Nil(t, err)
		assert.Equal(t, "za4BeKbXyMJVsX6gLU2AF352DEu9J5qE", config.Auth.JWT.Key)
		assert.True(t, config.Auth.JWT.Enabled())
	})

	t.Run("OverridesEmptyValuesFromEnvironmentVariables", func(t *testing.T) {

		configReader := NewConfigReader(crypt.NewSecretHelper("SazbwMf3NZxVVbBqQHebPcXCqrVn3DDp", false), "za4BeKbXyMJVsX6gLU2AF352DEu9J5qE")
		configReader.(*configReaderImpl).lookuper = envconfig.PrefixLookuper("ESBA_", envconfig.MapLookuper(map[string]string{
			"ESBA_DOCKER_HOST":      "unix:///var/run/docker.sock",
			"ESBA_AGENT_SHORT_NAME": "ignored-when-set-in-file",
		}))

		// act
		config, err := configReader.ReadConfigFromFile("configs/config.yaml", false)

		assert.Nil(t, err)
		assert.Equal(t, "unix:///var/run/docker.sock", config.Docker.Endpoint)
		assert.Equal(t, "build-agent-1", config.Agent.ShortName)
	})

	t.Run("ReturnsErrorIfFileDoesNotExist", func(t *testing.T) {

		configReader := NewConfigReader(crypt.NewSecretHelper("SazbwMf3NZxVVbBqQHebPcXCqrVn3DDp", false), "za4BeKbXyMJVsX6gLU2AF352DEu9J5qE")

		// act
		_, err := configReader.ReadConfigFromFile("configs/does-not-exist.yaml", false)

		assert.NotNil(t, err)
	})
}

func TestAgentConfigValidate(t *testing.T) {

	t.Run("ReturnsErrorForShortNameWithUppercaseCharacters", func(t *testing.T) {

		config := &AgentConfig{ShortName: "Agent_1", MaxConcurrentBuilds: 1}

		// act
		err := config.Validate()

		assert.NotNil(t, err)
	})

	t.Run("ReturnsNoErrorForLowercaseShortNameWithDashes", func(t *testing.T) {

		config := &AgentConfig{ShortName: "agent-1", MaxConcurrentBuilds: 1}

		// act
		err := config.Validate()

		assert.Nil(t, err)
	})
}

func TestSanitizeShortName(t *testing.T) {
	t.Run("ReplacesInvalidCharactersWithDashes", func(t *testing.T) {

		// act
		name := SanitizeShortName("Build_Agent.Example")

		assert.Equal(t, "build-agent-example", name)
	})
}

func TestJobsConfigTimeout(t *testing.T) {

	config := &JobsConfig{}
	config.SetDefaults()

	t.Run("ReturnsDefaultTimeoutIfJobHasNoTimeout", func(t *testing.T) {

		// act
		timeout := config.Timeout(0)

		assert.Equal(t, 120*time.Second, timeout)
	})

	t.Run("ReturnsJobTimeoutIfBelowMaximum", func(t *testing.T) {

		// act
		timeout := config.Timeout(30)

		assert.Equal(t, 30*time.Second, timeout)
	})

	t.Run("CapsJobTimeoutAtMaximum", func(t *testing.T) {

		// act
		timeout := config.Timeout(3600)

		assert.Equal(t, 240*time.Second, timeout)
	})
}
