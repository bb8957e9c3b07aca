package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"peopledesk/internal/identity"
	"peopledesk/internal/platform/middleware"
	"peopledesk/internal/transport/http/shared"
	"peopledesk/internal/workflow"
	dErrors "peopledesk/pkg/domain-errors"
)

// Service defines the workflow operations the handler delegates to.
type Service interface {
	CreateLeaveRequest(ctx context.Context, actor identity.User, input workflow.CreateLeaveInput) (workflow.LeaveRequest, error)
	DecideLeave(ctx context.Context, actor identity.User, requestID string, input workflow.DecideLeaveInput) (workflow.LeaveRequest, error)
	ListLeaveRequests(ctx context.Context, actor identity.User) ([]workflow.LeaveRequest, error)
	CreateDocumentRequest(ctx context.Context, actor identity.User, input workflow.CreateDocumentInput) (workflow.DocumentRequest, error)
	FulfillDocumentRequest(ctx context.Context, actor identity.User, requestID string) (workflow.DocumentRequest, error)
	ListDocumentRequests(ctx context.Context, actor identity.User) ([]workflow.DocumentRequest, error)
	TriggerOnboarding(ctx context.Context, actor identity.User, input workflow.TriggerOnboardingInput) ([]workflow.OnboardingTask, error)
	CompleteTask(ctx context.Context, actor identity.User, taskID string) (workflow.OnboardingTask, error)
	ListOnboardingTasks(ctx context.Context, actor identity.User, employeeID string) ([]workflow.OnboardingTask, error)
}

// UserResolver resolves the authenticated subject ID to a user record.
type UserResolver interface {
	RequireUser(ctx context.Context, id string) (identity.User, error)
}

// Handler serves the leave, document and onboarding endpoints.
type Handler struct {
	workflow Service
	users    UserResolver
	logger   *slog.Logger
}

func New(workflow Service, users UserResolver, logger *slog.Logger) *Handler {
	return &Handler{workflow: workflow, users: users, logger: logger}
}

// Register registers the workflow routes. All of them require auth.
func (h *Handler) Register(r chi.Router) {
	r.Post("/workflows/leave", h.handleCreateLeave)
	r.Get("/workflows/leave", h.handleListLeave)
	r.Post("/workflows/leave/{requestID}/decision", h.handleDecideLeave)

	r.Post("/workflows/documents", h.handleCreateDocument)
	r.Get("/workflows/documents", h.handleListDocuments)
	r.Post("/workflows/documents/{requestID}/fulfill", h.handleFulfillDocument)

	r.Post("/workflows/onboarding", h.handleTriggerOnboarding)
	r.Get("/workflows/onboarding", h.handleListOnboarding)
	r.Post("/workflows/onboarding/tasks/{taskID}/complete", h.handleCompleteTask)
}

func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (identity.User, bool) {
	ctx := r.Context()
	user, err := h.users.RequireUser(ctx, middleware.GetUserID(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return identity.User{}, false
	}
	return user, true
}

func (h *Handler) handleCreateLeave(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var input workflow.CreateLeaveInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	request, err := h.workflow.CreateLeaveRequest(r.Context(), actor, input)
	if err != nil {
		h.logWarn(r, "create leave request failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, request)
}

func (h *Handler) handleListLeave(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	requests, err := h.workflow.ListLeaveRequests(r.Context(), actor)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, requests)
}

func (h *Handler) handleDecideLeave(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var input workflow.DecideLeaveInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	decided, err := h.workflow.DecideLeave(r.Context(), actor, chi.URLParam(r, "requestID"), input)
	if err != nil {
		h.logWarn(r, "leave decision failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, decided)
}

func (h *Handler) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var input workflow.CreateDocumentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	request, err := h.workflow.CreateDocumentRequest(r.Context(), actor, input)
	if err != nil {
		h.logWarn(r, "create document request failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, request)
}

func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	requests, err := h.workflow.ListDocumentRequests(r.Context(), actor)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, requests)
}

func (h *Handler) handleFulfillDocument(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	fulfilled, err := h.workflow.FulfillDocumentRequest(r.Context(), actor, chi.URLParam(r, "requestID"))
	if err != nil {
		h.logWarn(r, "document fulfillment failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, fulfilled)
}

func (h *Handler) handleTriggerOnboarding(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var input workflow.TriggerOnboardingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	tasks, err := h.workflow.TriggerOnboarding(r.Context(), actor, input)
	if err != nil {
		h.logWarn(r, "onboarding trigger failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, tasks)
}

func (h *Handler) handleListOnboarding(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	tasks, err := h.workflow.ListOnboardingTasks(r.Context(), actor, r.URL.Query().Get("employee_id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, tasks)
}

func (h *Handler) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	done, err := h.workflow.CompleteTask(r.Context(), actor, chi.URLParam(r, "taskID"))
	if err != nil {
		h.logWarn(r, "task completion failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, done)
}

func (h *Handler) logWarn(r *http.Request, msg string, err error) {
	ctx := r.Context()
	h.logger.WarnContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"user_id", middleware.GetUserID(ctx),
		"error", err.Error(),
	)
}
