package api

import (
	"net/http"
)

type goalRequest struct {
	Goal int `json:"goal"`
}

func (s *Server) handleBlockProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{"blocks": s.Study.BlockProgressAll()})
}

func (s *Server) handleCurrentBlockProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Study.CurrentBlockProgress())
}

func (s *Server) handleDailyProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Study.DailyProgress(r.Context()))
}

func (s *Server) handleSetDailyGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	p, err := s.Study.SetDailyGoal(r.Context(), req.Goal)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}
