package handlers

import (
	"net/http"

	"github.com/hotspotsapp/wifi-directory/internal/application/services"
)

// ModerationHandler handles the admin moderation endpoints
type ModerationHandler struct {
	service *services.DirectoryService
}

// NewModerationHandler creates a new moderation handler
func NewModerationHandler(service *services.DirectoryService) *ModerationHandler {
	return &ModerationHandler{
		service: service,
	}
}

// ListPending handles GET /api/admin/hotspots/pending
func (h *ModerationHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	hotspots, err := h.service.ListPending(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, hotspots)
}

// ListAll handles GET /api/admin/hotspots/all; the admin dashboard shows
// every hotspot plus the pending queue.
func (h *ModerationHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	approved, err := h.service.ListApproved(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	pending, err := h.service.ListPending(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"approved": approved,
		"pending":  pending,
	})
}

// ApproveHotspot handles POST /api/admin/hotspots/{id}/approve
func (h *ModerationHandler) ApproveHotspot(w http.ResponseWriter, r *http.Request) {
	id, ok := intPathValue(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Approve(r.Context(), id); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "hotspot approved",
	})
}

// RejectHotspot handles POST /api/admin/hotspots/{id}/reject
func (h *ModerationHandler) RejectHotspot(w http.ResponseWriter, r *http.Request) {
	id, ok := intPathValue(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Reject(r.Context(), id); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "hotspot rejected",
	})
}

// ApprovePhoto handles POST /api/admin/photos/{id}/approve
func (h *ModerationHandler) ApprovePhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := intPathValue(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.ApprovePhoto(r.Context(), id); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "photo approved",
	})
}
