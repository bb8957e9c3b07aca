// Package httptransport assembles the HTTP surface: global middleware, the
// public endpoints and the authenticated feature routers.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"peopledesk/internal/platform/metrics"
	"peopledesk/internal/platform/middleware"
	"peopledesk/internal/transport/http/shared"
)

// PublicRegistrar registers routes that work without a token.
type PublicRegistrar interface {
	RegisterPublic(r chi.Router)
}

// Registrar registers routes behind the auth middleware.
type Registrar interface {
	Register(r chi.Router)
}

// Deps carries everything the router needs to assemble the HTTP surface.
type Deps struct {
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	JWTValidator middleware.JWTValidator
	Public       []PublicRegistrar
	Protected    []Registrar
}

// NewRouter wires the middleware chain and mounts every feature handler.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Latency(deps.Metrics))

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	for _, registrar := range deps.Public {
		registrar.RegisterPublic(r)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(deps.JWTValidator, deps.Logger))
		for _, registrar := range deps.Protected {
			registrar.Register(r)
		}
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
