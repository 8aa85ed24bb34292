package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/clintrovert/prsummary/internal/activities"
	"github.com/clintrovert/prsummary/internal/summarizer"
	"github.com/clintrovert/prsummary/pkg/types"
)

// SummaryWorkflow fetches a pull request, summarizes it and publishes the
// summary as a comment. Summarizing is deterministic so it runs inline.
func SummaryWorkflow(ctx workflow.Context, input SummaryRequest) (*SummaryResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("starting summary workflow",
		"repository", input.Repository.FullName(),
		"pr_number", input.Number,
	)

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	// Step 1: Fetch pull request
	var pr types.PullRequestInfo
	err := workflow.ExecuteActivity(ctx, activities.FetchPullRequestActivity, input.Repository, input.Number).Get(ctx, &pr)
	if err != nil {
		logger.Error("failed to fetch pull request", "error", err)
		return nil, err
	}

	// Step 2: Summarize
	summary := summarizer.GenerateSummary(&pr)
	body := summarizer.RenderComment(summary)
	result := &SummaryResult{
		Description:   summary.Description,
		AffectedFiles: summary.AffectedFiles,
		Comment:       body,
	}

	// Step 3: Publish comment
	var commentResult activities.CommentResult
	err = workflow.ExecuteActivity(ctx, activities.PostCommentActivity, input.Repository, input.Number, body, input.UpdateExisting).Get(ctx, &commentResult)
	if err != nil {
		logger.Error("failed to post summary comment", "error", err)
		return result, err
	}
	result.Posted = commentResult.Posted

	logger.Info("summary workflow completed",
		"repository", input.Repository.FullName(),
		"pr_number", input.Number,
	)

	return result, nil
}
