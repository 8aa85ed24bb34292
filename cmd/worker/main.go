package main

import (
	"cmp"
	"fmt"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"github.com/clintrovert/prsummary/internal/activities"
	"github.com/clintrovert/prsummary/internal/config"
	"github.com/clintrovert/prsummary/internal/github"
	"github.com/clintrovert/prsummary/internal/logging"
	workflows "github.com/clintrovert/prsummary/internal/temporal/workflows"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}

	// Initialize logger
	logger, err := logging.New(cfg.LogLevel, cmp.Or(cfg.LogFormat, "json"))
	if err != nil {
		panic(fmt.Sprintf("failed to create logger: %v", err))
	}
	defer logger.Sync()

	// Create Temporal client
	c, err := client.Dial(client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
	})
	if err != nil {
		logger.Fatal("failed to create temporal client", zap.Error(err))
	}
	defer c.Close()

	// Create GitHub client
	opts := []github.Option{github.WithRateLimit(cfg.RateLimit, max(1, int(cfg.RateLimit)))}
	if cfg.GitHubAPIURL != "" {
		opts = append(opts, github.WithBaseURL(cfg.GitHubAPIURL))
	}
	githubClient, err := github.NewClient(cfg.GitHubToken, logger, opts...)
	if err != nil {
		logger.Fatal("failed to create github client", zap.Error(err))
	}

	// Initialize activities
	activities.SetGitHubActivities(activities.NewGitHubActivities(githubClient))

	// Create worker
	w := worker.New(c, cfg.TaskQueue, worker.Options{})

	// Register workflow
	w.RegisterWorkflow(workflows.SummaryWorkflow)

	// Register activities
	w.RegisterActivity(activities.FetchPullRequestActivity)
	w.RegisterActivity(activities.PostCommentActivity)

	// Start worker
	logger.Info("starting worker",
		zap.String("task_queue", cfg.TaskQueue),
		zap.String("namespace", cfg.TemporalNamespace),
	)

	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Fatal("worker failed", zap.Error(err))
	}

	logger.Info("shutting down worker")
}
