package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"audio-notebook-service/internal/observability/logging"
)

// NewRouter constructs the HTTP router for the service.
func NewRouter(registry *Registry) http.Handler {
	h := &handler{
		registry: registry,
		logger:   logging.WithComponent("http"),
	}

	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Health endpoints
	r.Get("/v1/liveness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/v1/readiness", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	// API routes
	r.Route("/v1", func(r chi.Router) {
		r.Post("/transcriptions", h.upload)
		r.Get("/transcriptions", h.list)
		r.Delete("/transcriptions/{id}", h.delete)
		r.Get("/state", h.state)
		r.Post("/state/reset", h.reset)
		r.Get("/ws", h.stream)
		r.Get("/notebooks/{id}", h.notebook)
	})

	return r
}
