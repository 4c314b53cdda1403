package api

import (
	"net/http"

	"github.com/bcnelson/linode-firewall-autoupdater/internal/api/handler"
	"github.com/bcnelson/linode-firewall-autoupdater/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// NewRouter creates a new HTTP router with all routes configured.
func NewRouter(passes handler.PassSource) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.ContentType)

		statusHandler := handler.NewStatusHandler(passes)
		r.Get("/status", statusHandler.Get)
	})

	return r
}
