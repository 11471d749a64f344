package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/projectdolphin/notification-pipeline/internal/domain"
	"github.com/projectdolphin/notification-pipeline/internal/service"
)

// ApplicationHandler handles tenant registration CRUD endpoints.
type ApplicationHandler struct {
	svc    *service.AdminService
	logger *zap.Logger
}

func NewApplicationHandler(svc *service.AdminService, logger *zap.Logger) *ApplicationHandler {
	return &ApplicationHandler{svc: svc, logger: logger}
}

// Create handles POST /api/v1/applications
func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	app, err := h.svc.RegisterApplication(r.Context(), req)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, app)
}

// GetByID handles GET /api/v1/applications/{id}
func (h *ApplicationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	app, err := h.svc.GetApplication(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, app)
}

// List handles GET /api/v1/applications
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	apps, err := h.svc.ListApplications(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list applications")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": apps, "total": len(apps)})
}

// Update handles PUT /api/v1/applications/{id}
func (h *ApplicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	app, err := h.svc.UpdateApplication(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, app)
}

// Delete handles DELETE /api/v1/applications/{id}
func (h *ApplicationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteApplication(r.Context(), chi.URLParam(r, "id")); err != nil {
		mapError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
