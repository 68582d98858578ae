// Package httpapi is the HTTP transport of the server: JSON routes for
// registration, login and the guarded "current user" resource, plus the
// Prometheus scrape endpoint.
package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/identity"
	"github.com/dmitrijs2005/authkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/authkeeper/internal/server/users"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// IdentityService is the subset of users.Service the handlers call.
type IdentityService interface {
	Register(ctx context.Context, req users.RegisterRequest) (*identity.PublicIdentity, error)
	Login(ctx context.Context, username, password string) (*auth.IssuedToken, error)
	ResolveAuthorization(ctx context.Context, header string) (*identity.PublicIdentity, error)
}

// RouterDeps groups what NewRouter needs. Gatherer may be nil, in which case
// /metrics is not mounted.
type RouterDeps struct {
	Service  IdentityService
	Gatherer prometheus.Gatherer
	Logger   logging.Logger
}

// NewRouter wires the routes and the middleware chain:
//
//	RequestID -> Logging -> Recovery -> (Guard on protected routes)
func NewRouter(deps *RouterDeps) http.Handler {
	log := deps.Logger
	if log == nil {
		log = logging.Nop{}
	}
	log = log.With("module", "http")

	h := newHandler(deps.Service, log)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(NewLoggingMiddleware(log))
	r.Use(NewRecoveryMiddleware(log))

	r.Get("/", h.Root)

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(NewGuardMiddleware(deps.Service))
		r.Get("/users/me", h.Me)
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	return r
}
