package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vishaltiwari230996/life-sorter/internal/app/diagnostic"
)

// NewRouter builds the API router. apiKey may be empty.
func NewRouter(svc *diagnostic.Service, apiKey string, logger *slog.Logger) http.Handler {
	s := &Server{svc: svc}
	r := chi.NewRouter()

	r.Use(CORS)
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recovery(logger))

	r.Get("/healthz", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(apiKey))

		r.Route("/api/v1/agent", func(r chi.Router) {
			r.Route("/session", func(r chi.Router) {
				r.Post("/", s.handleCreateSession)
				r.Post("/outcome", s.handleSetOutcome)
				r.Post("/domain", s.handleSetDomain)
				r.Post("/task", s.handleSetTask)
				r.Post("/answer", s.handleSubmitAnswer)
				r.Post("/recommend", s.handleRecommend)
				r.Get("/{id}", s.handleGetSession)
				r.Delete("/{id}", s.handleDeleteSession)
			})

			r.Get("/personas", s.handleListDomains)
			r.Get("/personas/{domain}/tasks", s.handleListTasks)

			r.Get("/archive", s.handleListArchived)
			r.Get("/archive/{id}", s.handleGetArchived)
		})
	})

	return r
}
