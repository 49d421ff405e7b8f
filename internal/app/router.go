package app

import (
	"net/http"

	"todoSummary/internal/config"
	"todoSummary/internal/handlers"
	"todoSummary/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter mounts the API. Rate limiting and the request timeout cover the
// CRUD routes only; /summarize runs for as long as its upstream clients allow.
func NewRouter(h *handlers.TodoHandler, cfg config.ServerConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		MaxAge:         300,
	}))

	r.Get("/", h.Index)
	r.Get("/health", h.HealthCheck)

	r.Route("/todos", func(r chi.Router) {
		r.Use(middleware.RateLimit(cfg.RateLimitRPM))
		r.Use(middleware.Timeout(cfg.RequestTimeout))

		r.Get("/", h.ListTodos)   // GET /todos
		r.Post("/", h.CreateTodo) // POST /todos

		r.Route("/{id}", func(r chi.Router) {
			r.Put("/", h.UpdateTodo)    // PUT /todos/{id}
			r.Delete("/", h.DeleteTodo) // DELETE /todos/{id}
		})
	})

	r.Post("/summarize", h.Summarize)

	return r
}
