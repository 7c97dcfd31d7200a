// Package api implements the gapscan REST API using chi.
package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a chi router with all API routes mounted under /api.
func NewRouter(svc AnalysisService, logger *slog.Logger) chi.Router {
	h := NewHandler(svc, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Post("/analyze", h.Analyze)
		r.Post("/gap", h.Gap)
	})

	return r
}
