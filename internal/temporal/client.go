package temporal

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/client"
	"go.uber.org/zap"

	"github.com/clintrovert/prsummary/internal/temporal/workflows"
	"github.com/clintrovert/prsummary/pkg/types"
)

// Client wraps Temporal client functionality
type Client struct {
	temporalClient client.Client
	logger         *zap.Logger
	taskQueue      string
}

// NewClient creates a new Temporal client
func NewClient(address, namespace, taskQueue string, logger *zap.Logger) (*Client, error) {
	c, err := client.Dial(client.Options{
		HostPort:  address,
		Namespace: namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create temporal client: %w", err)
	}

	return NewClientFrom(c, taskQueue, logger), nil
}

// NewClientFrom wraps an already connected Temporal client
func NewClientFrom(c client.Client, taskQueue string, logger *zap.Logger) *Client {
	return &Client{
		temporalClient: c,
		logger:         logger,
		taskQueue:      taskQueue,
	}
}

// WorkflowID returns the workflow id used for a pull request revision.
// Revisions without a known head SHA share one id per pull request.
func WorkflowID(ref types.PullRequestRef) string {
	id := fmt.Sprintf("summary-%s-%s-%d", ref.Repository.Owner, ref.Repository.Name, ref.Number)
	if ref.HeadSHA != "" {
		id += "-" + ref.HeadSHA
	}
	return id
}

// StartSummaryWorkflow starts a new summary workflow for the pull request
func (c *Client) StartSummaryWorkflow(ctx context.Context, ref types.PullRequestRef, updateExisting bool) (string, error) {
	workflowOptions := client.StartWorkflowOptions{
		ID:        WorkflowID(ref),
		TaskQueue: c.taskQueue,
	}

	workflowInput := workflows.SummaryRequest{
		Repository:     ref.Repository,
		Number:         ref.Number,
		HeadSHA:        ref.HeadSHA,
		UpdateExisting: updateExisting,
	}

	we, err := c.temporalClient.ExecuteWorkflow(ctx, workflowOptions, workflows.SummaryWorkflow, workflowInput)
	if err != nil {
		return "", fmt.Errorf("failed to start workflow: %w", err)
	}

	c.logger.Info("started workflow",
		zap.String("workflow_id", we.GetID()),
		zap.String("run_id", we.GetRunID()),
		zap.String("repository", ref.Repository.FullName()),
		zap.Int("pr_number", ref.Number),
	)

	return we.GetID(), nil
}

// GetWorkflowStatus retrieves the execution status of a workflow, e.g. "Running"
func (c *Client) GetWorkflowStatus(ctx context.Context, workflowID string) (string, error) {
	resp, err := c.temporalClient.DescribeWorkflowExecution(ctx, workflowID, "")
	if err != nil {
		return "", fmt.Errorf("failed to describe workflow: %w", err)
	}
	return resp.GetWorkflowExecutionInfo().GetStatus().String(), nil
}

// CancelWorkflow cancels a running workflow
func (c *Client) CancelWorkflow(ctx context.Context, workflowID string) error {
	if err := c.temporalClient.CancelWorkflow(ctx, workflowID, ""); err != nil {
		return fmt.Errorf("failed to cancel workflow: %w", err)
	}
	c.logger.Info("cancelled workflow", zap.String("workflow_id", workflowID))
	return nil
}

// Close closes the Temporal client
func (c *Client) Close() {
	c.temporalClient.Close()
}
