package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"peopledesk/internal/governance"
	"peopledesk/internal/identity"
	"peopledesk/internal/platform/middleware"
	"peopledesk/internal/transport/http/shared"
	dErrors "peopledesk/pkg/domain-errors"
)

// Service defines the governance operations the handler delegates to.
type Service interface {
	UpdateConsent(ctx context.Context, actor identity.User, input governance.ConsentUpdateInput) (identity.User, error)
	SubjectAccessExport(ctx context.Context, actor identity.User, targetUserID string) (governance.SubjectExport, error)
	EraseSubject(ctx context.Context, actor identity.User, targetUserID string) (governance.ErasureResult, error)
	RetentionCleanup(ctx context.Context, actor identity.User, input governance.RetentionInput) (governance.RetentionResult, error)
}

// UserResolver resolves the authenticated subject ID to a user record.
type UserResolver interface {
	RequireUser(ctx context.Context, id string) (identity.User, error)
}

// Handler serves the GDPR governance endpoints.
type Handler struct {
	governance Service
	users      UserResolver
	logger     *slog.Logger
}

func New(governance Service, users UserResolver, logger *slog.Logger) *Handler {
	return &Handler{governance: governance, users: users, logger: logger}
}

// Register registers the governance routes. All of them require auth.
func (h *Handler) Register(r chi.Router) {
	r.Put("/governance/consent", h.handleUpdateConsent)
	r.Get("/governance/sar/{userID}", h.handleExport)
	r.Post("/governance/erasure/{userID}", h.handleErasure)
	r.Post("/governance/retention", h.handleRetention)
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

func (h *Handler) handleUpdateConsent(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var input governance.ConsentUpdateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	updated, err := h.governance.UpdateConsent(r.Context(), actor, input)
	if err != nil {
		h.logWarn(r, "consent update failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	export, err := h.governance.SubjectAccessExport(r.Context(), actor, chi.URLParam(r, "userID"))
	if err != nil {
		h.logWarn(r, "subject access export failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, export)
}

func (h *Handler) handleErasure(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	result, err := h.governance.EraseSubject(r.Context(), actor, chi.URLParam(r, "userID"))
	if err != nil {
		h.logWarn(r, "erasure failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleRetention(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var input governance.RetentionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	result, err := h.governance.RetentionCleanup(r.Context(), actor, input)
	if err != nil {
		h.logWarn(r, "retention cleanup failed", err)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) logWarn(r *http.Request, msg string, err error) {
	ctx := r.Context()
	h.logger.WarnContext(ctx, msg,
		"request_id", middleware.GetRequestID(ctx),
		"user_id", middleware.GetUserID(ctx),
		"error", err.Error(),
	)
}
