package handlers

import (
	"net/http"
	"strconv"

	"github.com/hotspotsapp/wifi-directory/internal/application/services"
)

// FavoriteHandler handles favorite HTTP requests
type FavoriteHandler struct {
	service *services.DirectoryService
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(service *services.DirectoryService) *FavoriteHandler {
	return &FavoriteHandler{
		service: service,
	}
}

// CheckFavorite handles GET /api/favorites/check?userId=&hotspotId=
func (h *FavoriteHandler) CheckFavorite(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(r.URL.Query().Get("userId"))
	if err != nil || userID <= 0 {
		respondWithError(w, http.StatusBadRequest, "invalid userId")
		return
	}
	hotspotID, err := strconv.Atoi(r.URL.Query().Get("hotspotId"))
	if err != nil || hotspotID <= 0 {
		respondWithError(w, http.StatusBadRequest, "invalid hotspotId")
		return
	}

	isFavorite, err := h.service.IsFavorite(r.Context(), userID, hotspotID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{
		"isFavorite": isFavorite,
	})
}

// AddFavorite handles POST /api/favorites
func (h *FavoriteHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var input services.FavoriteInput
	if !decodeJSONBody(w, r, &input) {
		return
	}

	if err := h.service.AddFavorite(r.Context(), input); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]bool{
		"success": true,
	})
}

// RemoveFavorite handles DELETE /api/favorites
func (h *FavoriteHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	var input services.FavoriteInput
	if !decodeJSONBody(w, r, &input) {
		return
	}

	if err := h.service.RemoveFavorite(r.Context(), input.UserID, input.HotspotID); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{
		"success": true,
	})
}

// ListFavorites handles GET /api/users/{id}/favorites
func (h *FavoriteHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, ok := intPathValue(w, r, "id")
	if !ok {
		return
	}

	favorites, err := h.service.ListFavorites(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, favorites)
}
