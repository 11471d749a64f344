package handler

import (
	"net/http"

	"github.com/projectdolphin/notification-pipeline/internal/health"
)

// HealthHandler serves the liveness probe endpoint. On the worker process
// it reports the runtime tracker snapshot; the API server constructs it
// without a tracker and reports a plain ok.
type HealthHandler struct {
	tracker *health.Tracker
}

func NewHealthHandler(tracker *health.Tracker) *HealthHandler {
	return &HealthHandler{tracker: tracker}
}

// Health handles GET /health
//
// @Summary  Liveness probe
// @Tags     system
// @Produce  json
// @Success  200  {object}  health.Snapshot
// @Router   /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.tracker == nil {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	respondJSON(w, http.StatusOK, h.tracker.Snapshot())
}
