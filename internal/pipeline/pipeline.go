// Package pipeline runs one summary end to end: fetch the pull request,
// summarize it and post the result.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/clintrovert/prsummary/internal/summarizer"
	"github.com/clintrovert/prsummary/pkg/types"
)

// Fetcher retrieves pull request data
type Fetcher interface {
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*types.PullRequestInfo, error)
}

// Poster publishes a comment on a pull request
type Poster interface {
	PostComment(ctx context.Context, owner, repo string, number int, body string) error
	UpsertComment(ctx context.Context, owner, repo string, number int, body string) error
}

// Result is what a run produced
type Result struct {
	Summary types.Summary
	Comment string
	Posted  bool
}

// Pipeline wires the fetcher, the summarizer and the poster together
type Pipeline struct {
	fetcher        Fetcher
	poster         Poster
	logger         *zap.Logger
	updateExisting bool
	dryRun         bool
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithUpdateExisting edits an earlier summary comment instead of adding a new one
func WithUpdateExisting(v bool) Option {
	return func(p *Pipeline) {
		p.updateExisting = v
	}
}

// WithDryRun computes the comment without posting it
func WithDryRun(v bool) Option {
	return func(p *Pipeline) {
		p.dryRun = v
	}
}

// New creates a new pipeline
func New(fetcher Fetcher, poster Poster, logger *zap.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher: fetcher,
		poster:  poster,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run summarizes pull request number of owner/repo and posts the comment.
// A retrieval failure aborts before anything is posted.
func (p *Pipeline) Run(ctx context.Context, owner, repo string, number int) (*Result, error) {
	pr, err := p.fetcher.GetPullRequest(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve pull request: %w", err)
	}

	summary := summarizer.GenerateSummary(pr)
	result := &Result{
		Summary: summary,
		Comment: summarizer.RenderComment(summary),
	}

	p.logger.Info("generated summary",
		zap.String("owner", owner),
		zap.String("repo", repo),
		zap.Int("pr_number", number),
		zap.Int("changed_files", len(pr.ChangedFiles)),
	)

	if p.dryRun {
		p.logger.Info("dry run, not posting comment", zap.Int("pr_number", number))
		return result, nil
	}

	if p.updateExisting {
		err = p.poster.UpsertComment(ctx, owner, repo, number, result.Comment)
	} else {
		err = p.poster.PostComment(ctx, owner, repo, number, result.Comment)
	}
	if err != nil {
		return result, fmt.Errorf("failed to publish summary: %w", err)
	}
	result.Posted = true

	return result, nil
}
