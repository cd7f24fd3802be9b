package api

import (
	stderrors "errors"
	"net/http"

	"github.com/vytor/phrasecards/internal/errors"
	"github.com/vytor/phrasecards/internal/logger"
	"github.com/vytor/phrasecards/internal/worker"
)

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Study.Catalog())
}

func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes := s.Study.Scenes()
	if scenes == nil {
		scenes = []string{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"scenes": scenes})
}

// handleReloadCatalog queues a background reload; the result shows up in
// GET /catalog and the logs.
func (s *Server) handleReloadCatalog(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if err := s.Jobs.EnqueueCatalogLoad(); err != nil {
		if stderrors.Is(err, worker.ErrQueueFull) || stderrors.Is(err, worker.ErrPoolStopped) {
			handleError(w, r, errors.NewUnavailableError("catalog reload cannot be queued right now", err))
			return
		}
		handleError(w, r, err)
		return
	}

	log.Info("catalog reload queued")
	writeJSON(w, r, http.StatusAccepted, map[string]any{"status": "queued"})
}
