package activities

import (
	"context"
	"errors"

	"github.com/clintrovert/prsummary/pkg/types"
)

// Activity functions that will be registered with Temporal worker.
// These are wrapper functions that call the actual activity implementations.

var githubActivities *GitHubActivities

var errNotInitialized = errors.New("GitHub activities not initialized")

// SetGitHubActivities sets the GitHub activities implementation
func SetGitHubActivities(ga *GitHubActivities) {
	githubActivities = ga
}

// FetchPullRequestActivity is the activity function for retrieving pull requests
func FetchPullRequestActivity(ctx context.Context, repo types.RepositoryInfo, number int) (*types.PullRequestInfo, error) {
	if githubActivities == nil {
		return nil, errNotInitialized
	}
	return githubActivities.FetchPullRequestActivity(ctx, repo, number)
}

// PostCommentActivity is the activity function for publishing summary comments
func PostCommentActivity(ctx context.Context, repo types.RepositoryInfo, number int, body string, updateExisting bool) (CommentResult, error) {
	if githubActivities == nil {
		return CommentResult{Message: errNotInitialized.Error()}, errNotInitialized
	}
	return githubActivities.PostCommentActivity(ctx, repo, number, body, updateExisting)
}
