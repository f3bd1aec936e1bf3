/*
server.go - HTTP router and middleware configuration

ROUTER: chi
  Lightweight, context-based, clean middleware support.

MIDDLEWARE STACK:
  1. Logger:     request logging
  2. Recoverer:  panic recovery (500 instead of crash)
  3. RequestID:  unique id per request
  4. CORS:       for the local dashboard frontend

ROUTE GROUPS:
  /api/login, /api/logout   session gate (open)
  /api/*                    everything else requires a session
  /metrics                  Prometheus scrape (open, no session)
  /healthz                  liveness probe

SEE ALSO:
  - handlers.go: handler implementations
  - session.go:  passphrase gate
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires all routes and middleware.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)

		r.Group(func(r chi.Router) {
			r.Use(RequireSession(h.Sessions))
			r.Get("/balances", h.GetBalances)
			r.Get("/records", h.GetRecords)
			r.Get("/employees", h.ListEmployees)
			r.Post("/requests", h.SubmitRequest)
			r.Post("/reminder/run", h.RunReminder)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return r
}
