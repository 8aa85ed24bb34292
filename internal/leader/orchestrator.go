package leader

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/clintrovert/prsummary/pkg/types"
)

// RefSource emits pull request revisions until the context ends
type RefSource interface {
	Start(ctx context.Context, refChan chan<- types.PullRequestRef)
}

// WorkflowStarter starts summary workflows
type WorkflowStarter interface {
	StartSummaryWorkflow(ctx context.Context, ref types.PullRequestRef, updateExisting bool) (string, error)
}

// Orchestrator coordinates pull request polling and workflow spawning
type Orchestrator struct {
	source         RefSource
	workflows      WorkflowStarter
	updateExisting bool
	logger         *zap.Logger
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(
	source RefSource,
	workflows WorkflowStarter,
	updateExisting bool,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		source:         source,
		workflows:      workflows,
		updateExisting: updateExisting,
		logger:         logger,
	}
}

// Start starts the orchestration loop
func (o *Orchestrator) Start(ctx context.Context) error {
	refChan := make(chan types.PullRequestRef, 10)

	// Start polling in background
	go o.source.Start(ctx, refChan)

	// Process revisions as they come in
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ref := <-refChan:
			if err := o.processRef(ctx, ref); err != nil {
				o.logger.Error("failed to process pull request",
					zap.String("repository", ref.Repository.FullName()),
					zap.Int("pr_number", ref.Number),
					zap.Error(err),
				)
			}
		}
	}
}

// processRef starts a summary workflow for a single revision
func (o *Orchestrator) processRef(ctx context.Context, ref types.PullRequestRef) error {
	o.logger.Info("processing pull request",
		zap.String("repository", ref.Repository.FullName()),
		zap.Int("pr_number", ref.Number),
		zap.String("head_sha", ref.HeadSHA),
	)

	workflowID, err := o.workflows.StartSummaryWorkflow(ctx, ref, o.updateExisting)
	if err != nil {
		return fmt.Errorf("failed to start workflow: %w", err)
	}

	o.logger.Info("started workflow for pull request",
		zap.String("repository", ref.Repository.FullName()),
		zap.Int("pr_number", ref.Number),
		zap.String("workflow_id", workflowID),
	)

	return nil
}
