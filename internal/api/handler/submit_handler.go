package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	apimw "github.com/projectdolphin/notification-pipeline/internal/api/middleware"
	"github.com/projectdolphin/notification-pipeline/internal/domain"
	"github.com/projectdolphin/notification-pipeline/internal/service"
)

// SubmitHandler accepts client notification requests and passes them to the
// submission service for validation and enqueueing.
type SubmitHandler struct {
	svc    *service.SubmissionService
	logger *zap.Logger
}

func NewSubmitHandler(svc *service.SubmissionService, logger *zap.Logger) *SubmitHandler {
	return &SubmitHandler{svc: svc, logger: logger}
}

// Submit handles POST /api/v1/notifications
//
// @Summary  Submit a notification for delivery
// @Tags     notifications
// @Accept   json
// @Produce  json
// @Param    body  body  domain.NotificationMessage  true  "Notification request"
// @Success  202   {object}  map[string]string
// @Failure  422   {object}  map[string]string
// @Router   /api/v1/notifications [post]
func (h *SubmitHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var msg domain.NotificationMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := h.svc.Submit(r.Context(), &msg); err != nil {
		h.logger.Warn("submission rejected",
			zap.String("correlation_id", apimw.GetCorrelationID(r.Context())),
			zap.Error(err),
		)
		mapError(w, err)
		return
	}

	respondJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}
