package handlers

import (
	"net/http"

	"github.com/hotspotsapp/wifi-directory/internal/application/services"
)

// ReviewHandler handles review HTTP requests
type ReviewHandler struct {
	service *services.DirectoryService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service *services.DirectoryService) *ReviewHandler {
	return &ReviewHandler{
		service: service,
	}
}

// ListReviews handles GET /api/hotspots/{id}/reviews
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	hotspotID, ok := intPathValue(w, r, "id")
	if !ok {
		return
	}

	reviews, err := h.service.ListReviews(r.Context(), hotspotID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, reviews)
}

// CreateReview handles POST /api/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var input services.ReviewInput
	if !decodeJSONBody(w, r, &input) {
		return
	}

	review, err := h.service.CreateReview(r.Context(), input)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, review)
}
