// Package config loads runtime settings from the environment and an
// optional TOML file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// FileEnv names the environment variable holding the optional TOML file path
const FileEnv = "PRSUMMARY_CONFIG"

// Config holds every setting the binaries read
type Config struct {
	GitHubToken    string  `toml:"github_token"`
	GitHubAPIURL   string  `toml:"github_api_url"`
	Repository     string  `toml:"repository"`
	EventPath      string  `toml:"event_path"`
	UpdateExisting bool    `toml:"update_existing"`
	RateLimit      float64 `toml:"rate_limit"`

	TemporalAddress   string `toml:"temporal_address"`
	TemporalNamespace string `toml:"temporal_namespace"`
	TaskQueue         string `toml:"task_queue"`

	RESTPort         string        `toml:"rest_port"`
	GRPCPort         string        `toml:"grpc_port"`
	WebhookSecret    string        `toml:"webhook_secret"`
	PollRepositories string        `toml:"poll_repositories"`
	PollInterval     time.Duration `toml:"poll_interval"`

	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// Default returns the settings used when nothing is configured
func Default() Config {
	return Config{
		RateLimit:         10,
		TemporalAddress:   "localhost:7233",
		TemporalNamespace: "default",
		TaskQueue:         "summary-queue",
		RESTPort:          "8080",
		GRPCPort:          "9090",
		PollInterval:      5 * time.Minute,
		LogLevel:          "info",
	}
}

// Load builds the configuration from defaults, then the TOML file named by
// PRSUMMARY_CONFIG if set, then environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(FileEnv); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg.GitHubToken = getEnv("GITHUB_TOKEN", cfg.GitHubToken)
	cfg.GitHubAPIURL = getEnv("GITHUB_API_URL", cfg.GitHubAPIURL)
	cfg.Repository = getEnv("GITHUB_REPOSITORY", cfg.Repository)
	cfg.EventPath = getEnv("GITHUB_EVENT_PATH", cfg.EventPath)
	cfg.TemporalAddress = getEnv("TEMPORAL_ADDRESS", cfg.TemporalAddress)
	cfg.TemporalNamespace = getEnv("TEMPORAL_NAMESPACE", cfg.TemporalNamespace)
	cfg.TaskQueue = getEnv("TASK_QUEUE", cfg.TaskQueue)
	cfg.RESTPort = getEnv("REST_PORT", cfg.RESTPort)
	cfg.GRPCPort = getEnv("GRPC_PORT", cfg.GRPCPort)
	cfg.WebhookSecret = getEnv("WEBHOOK_SECRET", cfg.WebhookSecret)
	cfg.PollRepositories = getEnv("POLL_REPOSITORIES", cfg.PollRepositories)
	cfg.LogLevel = getEnv("PRSUMMARY_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("PRSUMMARY_LOG_FORMAT", cfg.LogFormat)

	if v := os.Getenv("PRSUMMARY_UPDATE_EXISTING"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PRSUMMARY_UPDATE_EXISTING: %w", err)
		}
		cfg.UpdateExisting = b
	}

	if v := os.Getenv("PRSUMMARY_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PRSUMMARY_RATE_LIMIT: %w", err)
		}
		cfg.RateLimit = f
	}

	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("failed to parse POLL_INTERVAL: %w", err)
		}
		cfg.PollInterval = d
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate rejects values that would make the poller ticker or the GitHub
// rate limiter unusable
func (c *Config) validate() error {
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive, got %s", c.PollInterval)
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("PRSUMMARY_RATE_LIMIT must be positive, got %g", c.RateLimit)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
