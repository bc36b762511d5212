package handlers

import (
	"net/http"
	"strconv"

	"github.com/hotspotsapp/wifi-directory/internal/application/services"
)

// HotspotHandler handles public hotspot HTTP requests
type HotspotHandler struct {
	service *services.DirectoryService
}

// NewHotspotHandler creates a new hotspot handler
func NewHotspotHandler(service *services.DirectoryService) *HotspotHandler {
	return &HotspotHandler{
		service: service,
	}
}

// ListHotspots handles GET /api/hotspots
func (h *HotspotHandler) ListHotspots(w http.ResponseWriter, r *http.Request) {
	hotspots, err := h.service.ListApproved(r.Context())
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, hotspots)
}

// SearchHotspots handles GET /api/hotspots/search?q=
func (h *HotspotHandler) SearchHotspots(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	hotspots, err := h.service.Search(r.Context(), query)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, hotspots)
}

// NearbyHotspots handles GET /api/hotspots/near/{lat}/{lng}?radius=
func (h *HotspotHandler) NearbyHotspots(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(r.PathValue("lat"), 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid latitude")
		return
	}
	lng, err := strconv.ParseFloat(r.PathValue("lng"), 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid longitude")
		return
	}

	radiusKm := services.DefaultSearchRadiusKm
	if raw := r.URL.Query().Get("radius"); raw != "" {
		radiusKm, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid radius")
			return
		}
	}

	hotspots, err := h.service.Near(r.Context(), lat, lng, radiusKm)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, hotspots)
}

// GetHotspot handles GET /api/hotspots/{id}
func (h *HotspotHandler) GetHotspot(w http.ResponseWriter, r *http.Request) {
	id, ok := intPathValue(w, r, "id")
	if !ok {
		return
	}

	hotspot, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, hotspot)
}

// CreateHotspot handles POST /api/hotspots
func (h *HotspotHandler) CreateHotspot(w http.ResponseWriter, r *http.Request) {
	var input services.HotspotInput
	if !decodeJSONBody(w, r, &input) {
		return
	}

	hotspot, err := h.service.Create(r.Context(), input)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, hotspot)
}
