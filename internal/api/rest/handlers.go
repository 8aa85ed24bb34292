package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"

	"github.com/clintrovert/prsummary/internal/summarizer"
	"github.com/clintrovert/prsummary/pkg/types"
)

// WorkflowManager starts and tracks summary workflows
type WorkflowManager interface {
	StartSummaryWorkflow(ctx context.Context, ref types.PullRequestRef, updateExisting bool) (string, error)
	GetWorkflowStatus(ctx context.Context, workflowID string) (string, error)
	CancelWorkflow(ctx context.Context, workflowID string) error
}

// Handler handles REST API requests
type Handler struct {
	workflows      WorkflowManager
	webhookSecret  []byte
	updateExisting bool
	logger         *zap.Logger
}

// NewHandler creates a new REST handler. An empty webhook secret disables
// signature validation.
func NewHandler(workflows WorkflowManager, webhookSecret string, updateExisting bool, logger *zap.Logger) *Handler {
	return &Handler{
		workflows:      workflows,
		webhookSecret:  []byte(webhookSecret),
		updateExisting: updateExisting,
		logger:         logger,
	}
}

// SummaryResponse is the rendered summary of a pull request
type SummaryResponse struct {
	Description   string `json:"description"`
	AffectedFiles string `json:"affected_files"`
	Comment       string `json:"comment"`
}

// StartWorkflowRequest represents a request to summarize a pull request asynchronously
type StartWorkflowRequest struct {
	RepositoryOwner string `json:"repository_owner"`
	RepositoryName  string `json:"repository_name"`
	Number          int    `json:"number"`
	HeadSHA         string `json:"head_sha,omitempty"`
}

// StartWorkflowResponse represents the response from starting a workflow
type StartWorkflowResponse struct {
	WorkflowID string `json:"workflow_id"`
	Status     string `json:"status"`
}

// GetWorkflowStatusResponse represents the workflow status
type GetWorkflowStatusResponse struct {
	WorkflowID string `json:"workflow_id"`
	Status     string `json:"status"`
}

// Summarize handles POST /summaries
func (h *Handler) Summarize(w http.ResponseWriter, r *http.Request) {
	var pr types.PullRequestInfo
	if err := json.NewDecoder(r.Body).Decode(&pr); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	summary := summarizer.GenerateSummary(&pr)
	writeJSON(w, http.StatusOK, SummaryResponse{
		Description:   summary.Description,
		AffectedFiles: summary.AffectedFiles,
		Comment:       summarizer.RenderComment(summary),
	})
}

// HandleWebhook handles POST /webhooks/github
func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := github.ValidatePayload(r, h.webhookSecret)
	if err != nil {
		h.logger.Warn("rejected webhook", zap.Error(err))
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	event, err := github.ParseWebHook(github.WebHookType(r), payload)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	prEvent, ok := event.(*github.PullRequestEvent)
	if !ok || !summarizable(prEvent.GetAction()) {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	ref := types.PullRequestRef{
		Repository: types.RepositoryInfo{
			Owner: prEvent.GetRepo().GetOwner().GetLogin(),
			Name:  prEvent.GetRepo().GetName(),
		},
		Number:  prEvent.GetNumber(),
		HeadSHA: prEvent.GetPullRequest().GetHead().GetSHA(),
	}
	if ref.Number == 0 {
		ref.Number = prEvent.GetPullRequest().GetNumber()
	}

	h.startWorkflow(r.Context(), w, ref)
}

// StartWorkflow handles POST /workflows
func (h *Handler) StartWorkflow(w http.ResponseWriter, r *http.Request) {
	var req StartWorkflowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.RepositoryOwner == "" || req.RepositoryName == "" || req.Number <= 0 {
		http.Error(w, "repository_owner, repository_name and number are required", http.StatusBadRequest)
		return
	}

	h.startWorkflow(r.Context(), w, types.PullRequestRef{
		Repository: types.RepositoryInfo{Owner: req.RepositoryOwner, Name: req.RepositoryName},
		Number:     req.Number,
		HeadSHA:    req.HeadSHA,
	})
}

func (h *Handler) startWorkflow(ctx context.Context, w http.ResponseWriter, ref types.PullRequestRef) {
	workflowID, err := h.workflows.StartSummaryWorkflow(ctx, ref, h.updateExisting)
	if err != nil {
		h.logger.Error("failed to start workflow",
			zap.String("repository", ref.Repository.FullName()),
			zap.Int("pr_number", ref.Number),
			zap.Error(err),
		)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusAccepted, StartWorkflowResponse{
		WorkflowID: workflowID,
		Status:     "started",
	})
}

// GetWorkflowStatus handles GET /workflows/{id}
func (h *Handler) GetWorkflowStatus(w http.ResponseWriter, r *http.Request) {
	workflowID := chi.URLParam(r, "id")

	status, err := h.workflows.GetWorkflowStatus(r.Context(), workflowID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, GetWorkflowStatusResponse{
		WorkflowID: workflowID,
		Status:     status,
	})
}

// CancelWorkflow handles DELETE /workflows/{id}
func (h *Handler) CancelWorkflow(w http.ResponseWriter, r *http.Request) {
	workflowID := chi.URLParam(r, "id")

	if err := h.workflows.CancelWorkflow(r.Context(), workflowID); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RegisterRoutes registers REST API routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Post("/summaries", h.Summarize)
	r.Post("/webhooks/github", h.HandleWebhook)
	r.Post("/workflows", h.StartWorkflow)
	r.Get("/workflows/{id}", h.GetWorkflowStatus)
	r.Delete("/workflows/{id}", h.CancelWorkflow)
}

func summarizable(action string) bool {
	switch action {
	case "opened", "reopened", "synchronize", "edited":
		return true
	default:
		return false
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
