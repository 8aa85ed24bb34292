package main

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/clintrovert/prsummary/internal/config"
	"github.com/clintrovert/prsummary/internal/event"
	"github.com/clintrovert/prsummary/internal/github"
	"github.com/clintrovert/prsummary/internal/localgit"
	"github.com/clintrovert/prsummary/internal/logging"
	"github.com/clintrovert/prsummary/internal/pipeline"
	"github.com/clintrovert/prsummary/internal/summarizer"
)

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		logger, lerr := logging.New("error", "console")
		if lerr != nil {
			logger = zap.NewExample()
		}
		logFailure(logger, err)
		os.Exit(1)
	}
}

// logFailure reports the error a command returned
func logFailure(logger *zap.Logger, err error) {
	logger.Error("prsummary failed", zap.Error(err))
	_ = logger.Sync()
}

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "prsummary",
		Usage: "summarize pull requests as a comment",
		Commands: []*cli.Command{
			actionCommand(out),
			localCommand(out),
		},
	}
}

// actionCommand summarizes the pull request that triggered a GitHub Actions run
func actionCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "action",
		Usage: "summarize the pull request named by the GitHub Actions event",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "event",
				Usage: "path to the event payload (defaults to GITHUB_EVENT_PATH)",
			},
			&cli.StringFlag{
				Name:  "repository",
				Usage: "OWNER/REPO (defaults to GITHUB_REPOSITORY)",
			},
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "print the comment instead of posting it",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.LogLevel, cmp.Or(cfg.LogFormat, "console"))
			if err != nil {
				return err
			}
			defer logger.Sync()

			eventPath := cmp.Or(cmd.String("event"), cfg.EventPath)
			if eventPath == "" {
				return fmt.Errorf("no event payload: set GITHUB_EVENT_PATH or --event")
			}
			var owner, repo string
			if name := cmp.Or(cmd.String("repository"), cfg.Repository); name != "" {
				owner, repo, err = github.ParseRepository(name)
			} else {
				owner, repo, err = github.RepositoryFromEnv()
			}
			if err != nil {
				return err
			}
			number, err := event.PRNumberFromFile(eventPath)
			if err != nil {
				return err
			}

			opts := []github.Option{github.WithRateLimit(cfg.RateLimit, max(1, int(cfg.RateLimit)))}
			if cfg.GitHubAPIURL != "" {
				opts = append(opts, github.WithBaseURL(cfg.GitHubAPIURL))
			}
			client, err := github.NewClient(cfg.GitHubToken, logger, opts...)
			if err != nil {
				return err
			}

			p := pipeline.New(client, client, logger,
				pipeline.WithUpdateExisting(cfg.UpdateExisting),
				pipeline.WithDryRun(cmd.Bool("dry-run")),
			)
			result, err := p.Run(ctx, owner, repo, number)
			if err != nil {
				return err
			}

			if !result.Posted {
				fmt.Fprint(out, result.Comment)
				return nil
			}
			logger.Info("posted summary",
				zap.String("repository", owner+"/"+repo),
				zap.Int("pr_number", number),
			)
			fmt.Fprintf(out, "Successfully posted PR summary to %s/%s#%d\n", owner, repo, number)
			return nil
		},
	}
}

// localCommand summarizes the difference between two revisions of a local repository
func localCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "local",
		Usage: "summarize the changes between two revisions of a local repository",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "path",
				Value: ".",
				Usage: "repository path",
			},
			&cli.StringFlag{
				Name:     "base",
				Usage:    "base revision",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "head",
				Value: "HEAD",
				Usage: "head revision",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.LogLevel, cmp.Or(cfg.LogFormat, "console"))
			if err != nil {
				return err
			}
			defer logger.Sync()

			source, err := localgit.Open(cmd.String("path"), logger)
			if err != nil {
				return err
			}
			pr, err := source.Load(ctx, cmd.String("base"), cmd.String("head"))
			if err != nil {
				return err
			}

			fmt.Fprint(out, summarizer.RenderComment(summarizer.GenerateSummary(pr)))
			return nil
		},
	}
}
