package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/clintrovert/prsummary/internal/summarizer"
	"github.com/clintrovert/prsummary/pkg/types"
)

const (
	defaultRateLimit = 10
	perPage          = 100
)

// Client wraps the GitHub API calls the summarizer needs
type Client struct {
	apiClient *github.Client
	logger    *zap.Logger
}

// Option configures a Client
type Option func(*options)

type options struct {
	baseURL string
	limit   rate.Limit
	burst   int
}

// WithBaseURL points the client at a different API root, e.g. GitHub Enterprise
func WithBaseURL(u string) Option {
	return func(o *options) {
		o.baseURL = u
	}
}

// WithRateLimit caps outbound requests per second
func WithRateLimit(perSecond float64, burst int) Option {
	return func(o *options) {
		o.limit = rate.Limit(perSecond)
		o.burst = burst
	}
}

// NewClient creates a new GitHub client. An empty token gives an
// unauthenticated client, which can read public repositories only.
func NewClient(accessToken string, logger *zap.Logger, opts ...Option) (*Client, error) {
	o := options{limit: defaultRateLimit, burst: defaultRateLimit}
	for _, opt := range opts {
		opt(&o)
	}

	transport := &rateLimitedTransport{
		base:    http.DefaultTransport,
		limiter: rate.NewLimiter(o.limit, o.burst),
	}
	httpClient := &http.Client{Transport: transport}

	if accessToken != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: accessToken},
		)
		httpClient = oauth2.NewClient(ctx, ts)
	}

	apiClient := github.NewClient(httpClient)
	if o.baseURL != "" {
		u, err := url.Parse(o.baseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse base url: %w", err)
		}
		if !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		apiClient.BaseURL = u
	}

	return &Client{
		apiClient: apiClient,
		logger:    logger,
	}, nil
}

// GetPullRequest fetches a pull request and all of its changed files
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (*types.PullRequestInfo, error) {
	pr, _, err := c.apiClient.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get pull request: %w", err)
	}

	var changed []types.ChangedFile
	opts := &github.ListOptions{PerPage: perPage}
	for {
		files, resp, err := c.apiClient.PullRequests.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list pull request files: %w", err)
		}

		for _, f := range files {
			changed = append(changed, types.ChangedFile{
				Filename:  f.GetFilename(),
				Status:    types.ParseFileStatus(f.GetStatus()),
				Additions: f.GetAdditions(),
				Deletions: f.GetDeletions(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	info := &types.PullRequestInfo{
		Number:       pr.GetNumber(),
		Title:        pr.GetTitle(),
		Description:  pr.GetBody(),
		BaseBranch:   pr.GetBase().GetRef(),
		HeadBranch:   pr.GetHead().GetRef(),
		Author:       pr.GetUser().GetLogin(),
		ChangedFiles: changed,
	}

	c.logger.Info("fetched pull request",
		zap.String("owner", owner),
		zap.String("repo", repo),
		zap.Int("pr_number", number),
		zap.Int("changed_files", len(changed)),
	)

	return info, nil
}

// PostComment adds a new comment to a pull request
func (c *Client) PostComment(ctx context.Context, owner, repo string, number int, body string) error {
	comment, _, err := c.apiClient.Issues.CreateComment(ctx, owner, repo, number, &github.IssueComment{
		Body: github.String(body),
	})
	if err != nil {
		return fmt.Errorf("failed to post comment: %w", err)
	}

	c.logger.Info("posted comment",
		zap.String("owner", owner),
		zap.String("repo", repo),
		zap.Int("pr_number", number),
		zap.Int64("comment_id", comment.GetID()),
	)

	return nil
}

// UpsertComment edits the summary comment left by an earlier run, or posts a
// new one when there is none.
func (c *Client) UpsertComment(ctx context.Context, owner, repo string, number int, body string) error {
	existing, err := c.findSummaryComment(ctx, owner, repo, number)
	if err != nil {
		return err
	}
	if existing == nil {
		return c.PostComment(ctx, owner, repo, number, body)
	}

	_, _, err = c.apiClient.Issues.EditComment(ctx, owner, repo, existing.GetID(), &github.IssueComment{
		Body: github.String(body),
	})
	if err != nil {
		return fmt.Errorf("failed to edit comment: %w", err)
	}

	c.logger.Info("updated comment",
		zap.String("owner", owner),
		zap.String("repo", repo),
		zap.Int("pr_number", number),
		zap.Int64("comment_id", existing.GetID()),
	)

	return nil
}

func (c *Client) findSummaryComment(ctx context.Context, owner, repo string, number int) (*github.IssueComment, error) {
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: perPage},
	}
	for {
		comments, resp, err := c.apiClient.Issues.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list comments: %w", err)
		}

		for _, comment := range comments {
			if summarizer.IsSummaryComment(comment.GetBody()) {
				return comment, nil
			}
		}

		if resp.NextPage == 0 {
			return nil, nil
		}
		opts.Page = resp.NextPage
	}
}

// ListOpenPullRequests returns the head revision of every open pull request
func (c *Client) ListOpenPullRequests(ctx context.Context, owner, repo string) ([]types.PullRequestRef, error) {
	var refs []types.PullRequestRef
	opts := &github.PullRequestListOptions{
		State:       "open",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	for {
		prs, resp, err := c.apiClient.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list pull requests: %w", err)
		}

		for _, pr := range prs {
			refs = append(refs, types.PullRequestRef{
				Repository: types.RepositoryInfo{Owner: owner, Name: repo},
				Number:     pr.GetNumber(),
				HeadSHA:    pr.GetHead().GetSHA(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return refs, nil
}

type rateLimitedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *rateLimitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}
