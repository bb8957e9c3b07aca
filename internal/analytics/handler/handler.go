package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"peopledesk/internal/analytics"
	"peopledesk/internal/identity"
	"peopledesk/internal/platform/middleware"
	"peopledesk/internal/transport/http/shared"
	dErrors "peopledesk/pkg/domain-errors"
)

const defaultEventLimit = 50

// Service defines the analytics operations the handler delegates to.
type Service interface {
	Compute(ctx context.Context) (analytics.KPIReport, error)
	Recent(ctx context.Context, limit int) ([]analytics.Event, error)
}

// UserResolver resolves the authenticated subject ID to a user record.
type UserResolver interface {
	RequireUser(ctx context.Context, id string) (identity.User, error)
}

// Handler serves the KPI and event log endpoints. Both are HR only.
type Handler struct {
	analytics Service
	users     UserResolver
	logger    *slog.Logger
}

func New(analytics Service, users UserResolver, logger *slog.Logger) *Handler {
	return &Handler{analytics: analytics, users: users, logger: logger}
}

// Register registers the analytics routes. All of them require auth.
func (h *Handler) Register(r chi.Router) {
	r.Get("/analytics/kpis", h.handleKPIs)
	r.Get("/analytics/events", h.handleEvents)
}

func (h *Handler) requireAnalyst(w http.ResponseWriter, r *http.Request) bool {
	ctx := r.Context()
	actor, err := h.users.RequireUser(ctx, middleware.GetUserID(ctx))
	if err != nil {
		shared.WriteError(w, err)
		return false
	}
	if !actor.Role.Can(identity.PermAnalyticsView) {
		shared.WriteError(w, dErrors.New(dErrors.CodeForbidden, "not allowed to view analytics"))
		return false
	}
	return true
}

func (h *Handler) handleKPIs(w http.ResponseWriter, r *http.Request) {
	if !h.requireAnalyst(w, r) {
		return
	}
	report, err := h.analytics.Compute(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "KPI computation failed",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	if !h.requireAnalyst(w, r) {
		return
	}
	limit := defaultEventLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a positive integer"))
			return
		}
		limit = parsed
	}
	events, err := h.analytics.Recent(r.Context(), limit)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, events)
}
