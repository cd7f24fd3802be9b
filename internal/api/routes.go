package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/phrasecards/internal/errors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Get("/catalog", s.handleCatalog)
	r.Get("/scenes", s.handleScenes)
	r.Get("/session/current", s.handleCurrentCard)
	r.Get("/progress/blocks", s.handleBlockProgress)
	r.Get("/progress/current-block", s.handleCurrentBlockProgress)
	r.Get("/progress/daily", s.handleDailyProgress)

	r.Group(func(r chi.Router) {
		if s.Limiter != nil {
			r.Use(s.Limiter.Middleware)
		}
		r.Post("/catalog/reload", s.handleReloadCatalog)
		r.Post("/session", s.handleBuildSession)
		r.Post("/session/advance", s.handleAdvance)
		r.Post("/session/reveal", s.handleReveal)
		r.Post("/session/grade", s.handleGrade)
		r.Put("/progress/daily/goal", s.handleSetDailyGoal)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errors.NewNotFoundError("route", r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errors.NewBadRequestError("method not allowed"))
	})
	return r
}
