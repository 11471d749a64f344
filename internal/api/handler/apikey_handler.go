package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/projectdolphin/notification-pipeline/internal/domain"
	"github.com/projectdolphin/notification-pipeline/internal/service"
)

// APIKeyHandler handles per-application API-key issuance and revocation.
type APIKeyHandler struct {
	svc    *service.AdminService
	logger *zap.Logger
}

func NewAPIKeyHandler(svc *service.AdminService, logger *zap.Logger) *APIKeyHandler {
	return &APIKeyHandler{svc: svc, logger: logger}
}

// Create handles POST /api/v1/applications/{id}/keys
// The response is the only place the key secret ever appears.
func (h *APIKeyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateAPIKeyRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
	}

	key, err := h.svc.CreateAPIKey(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, key)
}

// List handles GET /api/v1/applications/{id}/keys
func (h *APIKeyHandler) List(w http.ResponseWriter, r *http.Request) {
	keys, err := h.svc.ListAPIKeys(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		mapError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"data": keys, "total": len(keys)})
}

// Delete handles DELETE /api/v1/applications/{id}/keys/{keyID}
func (h *APIKeyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.svc.RevokeAPIKey(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "keyID"))
	if err != nil {
		mapError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
