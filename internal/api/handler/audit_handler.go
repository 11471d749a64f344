package handler

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/projectdolphin/notification-pipeline/internal/domain"
	"github.com/projectdolphin/notification-pipeline/internal/service"
)

// AuditHandler exposes the append-only processing outcomes to operators.
type AuditHandler struct {
	svc    *service.AdminService
	logger *zap.Logger
}

func NewAuditHandler(svc *service.AdminService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{svc: svc, logger: logger}
}

// List handles GET /api/v1/audit?application=...&status=...&limit=...
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.AuditFilter{ApplicationID: q.Get("application")}

	if s := q.Get("status"); s != "" {
		st := domain.AuditStatus(s)
		if !st.IsValid() {
			respondError(w, http.StatusUnprocessableEntity, "status must be delivered or failed")
			return
		}
		filter.Status = &st
	}
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 {
		filter.Limit = l
	}

	records, err := h.svc.ListAudit(r.Context(), filter)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": records, "total": len(records)})
}
