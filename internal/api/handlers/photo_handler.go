package handlers

import (
	"net/http"

	"github.com/hotspotsapp/wifi-directory/internal/application/services"
)

// PhotoHandler handles photo HTTP requests
type PhotoHandler struct {
	service *services.DirectoryService
}

// NewPhotoHandler creates a new photo handler
func NewPhotoHandler(service *services.DirectoryService) *PhotoHandler {
	return &PhotoHandler{
		service: service,
	}
}

// ListPhotos handles GET /api/hotspots/{id}/photos
func (h *PhotoHandler) ListPhotos(w http.ResponseWriter, r *http.Request) {
	hotspotID, ok := intPathValue(w, r, "id")
	if !ok {
		return
	}

	photos, err := h.service.ListPhotos(r.Context(), hotspotID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, photos)
}

// CreatePhoto handles POST /api/photos
func (h *PhotoHandler) CreatePhoto(w http.ResponseWriter, r *http.Request) {
	var input services.PhotoInput
	if !decodeJSONBody(w, r, &input) {
		return
	}

	photo, err := h.service.CreatePhoto(r.Context(), input)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, photo)
}
