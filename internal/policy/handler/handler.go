package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"peopledesk/internal/identity"
	"peopledesk/internal/platform/middleware"
	"peopledesk/internal/policy"
	"peopledesk/internal/transport/http/shared"
	dErrors "peopledesk/pkg/domain-errors"
)

// Service defines the policy assistant operations the handler delegates to.
type Service interface {
	Query(ctx context.Context, actor identity.User, input policy.QueryInput) (policy.QueryResponse, error)
	RecordFeedback(ctx context.Context, actor identity.User, input policy.FeedbackInput) (policy.Feedback, error)
	ListDocuments(ctx context.Context) []policy.Document
}

// UserResolver resolves the authenticated subject ID to a user record.
type UserResolver interface {
	RequireUser(ctx context.Context, id string) (identity.User, error)
}

// Handler serves the policy assistant endpoints.
type Handler struct {
	policy Service
	users  UserResolver
	logger *slog.Logger
}

func New(policy Service, users UserResolver, logger *slog.Logger) *Handler {
	return &Handler{policy: policy, users: users, logger: logger}
}

// Register registers the policy routes. All of them require auth.
func (h *Handler) Register(r chi.Router) {
	r.Post("/policy/query", h.handleQuery)
	r.Post("/policy/feedback", h.handleFeedback)
	r.Get("/policies", h.handleListDocuments)
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

func (h *Handler) handleQuery(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var input policy.QueryInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	response, err := h.policy.Query(r.Context(), actor, input)
	if err != nil {
		h.logger.WarnContext(r.Context(), "policy query failed",
			"request_id", middleware.GetRequestID(r.Context()),
			"user_id", actor.ID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, response)
}

func (h *Handler) handleFeedback(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var input policy.FeedbackInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	feedback, err := h.policy.RecordFeedback(r.Context(), actor, input)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, feedback)
}

func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.actor(w, r); !ok {
		return
	}
	shared.WriteJSON(w, http.StatusOK, h.policy.ListDocuments(r.Context()))
}
