package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	FileEnv, "GITHUB_TOKEN", "GITHUB_API_URL", "GITHUB_REPOSITORY", "GITHUB_EVENT_PATH",
	"PRSUMMARY_UPDATE_EXISTING", "PRSUMMARY_RATE_LIMIT", "TEMPORAL_ADDRESS", "TEMPORAL_NAMESPACE",
	"TASK_QUEUE", "REST_PORT", "GRPC_PORT", "WEBHOOK_SECRET", "POLL_REPOSITORIES", "POLL_INTERVAL",
	"PRSUMMARY_LOG_LEVEL", "PRSUMMARY_LOG_FORMAT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestLoadEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("GITHUB_TOKEN", "ghp_x")
	t.Setenv("GITHUB_REPOSITORY", "octo/hello")
	t.Setenv("PRSUMMARY_UPDATE_EXISTING", "true")
	t.Setenv("PRSUMMARY_RATE_LIMIT", "2.5")
	t.Setenv("POLL_INTERVAL", "30s")
	t.Setenv("TASK_QUEUE", "q")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "ghp_x", cfg.GitHubToken)
	assert.Equal(t, "octo/hello", cfg.Repository)
	assert.True(t, cfg.UpdateExisting)
	assert.Equal(t, 2.5, cfg.RateLimit)
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
	assert.Equal(t, "q", cfg.TaskQueue)
	assert.Equal(t, "localhost:7233", cfg.TemporalAddress)
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "prsummary.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
github_token = "from-file"
task_queue = "file-queue"
update_existing = true
poll_repositories = "octo/hello,octo/world"
poll_interval = "1m"
log_format = "json"
`), 0o600))
	t.Setenv(FileEnv, path)
	t.Setenv("GITHUB_TOKEN", "from-env")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.GitHubToken)
	assert.Equal(t, "file-queue", cfg.TaskQueue)
	assert.True(t, cfg.UpdateExisting)
	assert.Equal(t, "octo/hello,octo/world", cfg.PollRepositories)
	assert.Equal(t, time.Minute, cfg.PollInterval)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "9090", cfg.GRPCPort)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"PRSUMMARY_UPDATE_EXISTING", "maybe"},
		{"PRSUMMARY_RATE_LIMIT", "fast"},
		{"POLL_INTERVAL", "often"},
		{"POLL_INTERVAL", "0s"},
		{"POLL_INTERVAL", "-1m"},
		{"PRSUMMARY_RATE_LIMIT", "0"},
		{"PRSUMMARY_RATE_LIMIT", "-2"},
		{FileEnv, "/does/not/exist.toml"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadFileRejectsNonPositive(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"zero poll interval", `poll_interval = "0s"`, "POLL_INTERVAL must be positive"},
		{"zero rate limit", `rate_limit = 0.0`, "PRSUMMARY_RATE_LIMIT must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := filepath.Join(t.TempDir(), "prsummary.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content+"\n"), 0o600))
			t.Setenv(FileEnv, path)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
