package activities

import (
	"context"

	"go.temporal.io/sdk/activity"

	"github.com/clintrovert/prsummary/pkg/types"
)

// GitHubAPI is the subset of the GitHub client the activities call
type GitHubAPI interface {
	GetPullRequest(ctx context.Context, owner, repo string, number int) (*types.PullRequestInfo, error)
	PostComment(ctx context.Context, owner, repo string, number int, body string) error
	UpsertComment(ctx context.Context, owner, repo string, number int, body string) error
}

// GitHubActivities handles GitHub-related activities
type GitHubActivities struct {
	githubClient GitHubAPI
}

// NewGitHubActivities creates a new GitHub activities handler
func NewGitHubActivities(githubClient GitHubAPI) *GitHubActivities {
	return &GitHubActivities{
		githubClient: githubClient,
	}
}

// FetchPullRequestActivity retrieves a pull request with its changed files
func (a *GitHubActivities) FetchPullRequestActivity(ctx context.Context, repo types.RepositoryInfo, number int) (*types.PullRequestInfo, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("fetching pull request",
		"repository", repo.FullName(),
		"pr_number", number,
	)

	return a.githubClient.GetPullRequest(ctx, repo.Owner, repo.Name, number)
}

// PostCommentActivity publishes the rendered summary on the pull request
func (a *GitHubActivities) PostCommentActivity(ctx context.Context, repo types.RepositoryInfo, number int, body string, updateExisting bool) (CommentResult, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("posting summary comment",
		"repository", repo.FullName(),
		"pr_number", number,
		"update_existing", updateExisting,
	)

	if updateExisting {
		if err := a.githubClient.UpsertComment(ctx, repo.Owner, repo.Name, number, body); err != nil {
			return CommentResult{Message: err.Error()}, err
		}
		return CommentResult{Posted: true, Updated: true, Message: "summary comment upserted"}, nil
	}

	if err := a.githubClient.PostComment(ctx, repo.Owner, repo.Name, number, body); err != nil {
		return CommentResult{Message: err.Error()}, err
	}
	return CommentResult{Posted: true, Message: "summary comment posted"}, nil
}
