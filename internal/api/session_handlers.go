package api

import (
	"net/http"

	"github.com/vytor/phrasecards/internal/errors"
	"github.com/vytor/phrasecards/internal/flashcard"
	"github.com/vytor/phrasecards/internal/logger"
	"github.com/vytor/phrasecards/internal/services"
)

type buildSessionRequest struct {
	Mode  string `json:"mode"`
	Param string `json:"param"`
}

type gradeRequest struct {
	Grade int `json:"grade"`
}

// currentView writes the current card, or an empty-queue error.
func (s *Server) currentView(w http.ResponseWriter, r *http.Request, status int) {
	v, ok := s.Study.CurrentView()
	if !ok {
		if !s.Study.Loaded() {
			handleError(w, r, errors.NewCatalogUnavailableError(nil))
			return
		}
		handleError(w, r, errors.NewEmptyQueueError("show card"))
		return
	}
	writeJSON(w, r, status, v)
}

func (s *Server) handleCurrentCard(w http.ResponseWriter, r *http.Request) {
	s.currentView(w, r, http.StatusOK)
}

func (s *Server) handleBuildSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req buildSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	mode, err := services.ParseMode(req.Mode)
	if err != nil {
		handleError(w, r, err)
		return
	}

	log = log.WithFields(map[string]any{"mode": mode, "param": req.Param})
	if err := s.Study.BuildSession(r.Context(), mode, req.Param); err != nil {
		handleError(w, r, err)
		return
	}
	v, ok := s.Study.CurrentView()
	if !ok {
		log.Warn("session built with an empty queue")
	} else {
		log.Debug("session built with %d cards", v.QueueLength)
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"queue_length": v.QueueLength,
		"empty":        !ok,
		"current":      viewOrNil(v, ok),
	})
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	v, err := s.Study.Advance(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, v)
}

func (s *Server) handleReveal(w http.ResponseWriter, r *http.Request) {
	v, err := s.Study.Reveal(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, v)
}

func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request) {
	var req gradeRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	grade := flashcard.Grade(req.Grade)

	state, err := s.Study.Grade(r.Context(), grade)
	if err != nil {
		handleError(w, r, err)
		return
	}
	logger.FromContext(r.Context()).Info("graded %s, next review %s", grade, state.DueTime().Format("2006-01-02 15:04"))

	v, ok := s.Study.CurrentView()
	writeJSON(w, r, http.StatusOK, map[string]any{
		"review":  state,
		"daily":   s.Study.DailyProgress(r.Context()),
		"current": viewOrNil(v, ok),
	})
}

func viewOrNil(v any, ok bool) any {
	if !ok {
		return nil
	}
	return v
}
