package routes

import (
	"encoding/json"
	"net/http"

	"github.com/hotspotsapp/wifi-directory/internal/api/handlers"
	"github.com/hotspotsapp/wifi-directory/internal/api/middleware"
	"github.com/hotspotsapp/wifi-directory/pkg/config"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	hotspotHandler    *handlers.HotspotHandler
	moderationHandler *handlers.ModerationHandler
	reviewHandler     *handlers.ReviewHandler
	photoHandler      *handlers.PhotoHandler
	favoriteHandler   *handlers.FavoriteHandler

	storageDriver config.StorageDriver
}

// NewRouter creates a new router
func NewRouter(
	hotspotHandler *handlers.HotspotHandler,
	moderationHandler *handlers.ModerationHandler,
	reviewHandler *handlers.ReviewHandler,
	photoHandler *handlers.PhotoHandler,
	favoriteHandler *handlers.FavoriteHandler,
	storageDriver config.StorageDriver,
) *Router {
	return &Router{
		mux: http.NewServeMux(),

		hotspotHandler:    hotspotHandler,
		moderationHandler: moderationHandler,
		reviewHandler:     reviewHandler,
		photoHandler:      photoHandler,
		favoriteHandler:   favoriteHandler,

		storageDriver: storageDriver,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint reports which backing store is actually active,
	// which may differ from the configured one after a fallback.
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "ok",
			"storage": string(r.storageDriver),
		})
	})

	// Public hotspot endpoints. Literal segments before wildcards so
	// /search and /near never match {id}.
	r.mux.HandleFunc("GET /api/hotspots", r.hotspotHandler.ListHotspots)
	r.mux.HandleFunc("GET /api/hotspots/search", r.hotspotHandler.SearchHotspots)
	r.mux.HandleFunc("GET /api/hotspots/near/{lat}/{lng}", r.hotspotHandler.NearbyHotspots)
	r.mux.HandleFunc("GET /api/hotspots/{id}", r.hotspotHandler.GetHotspot)
	r.mux.HandleFunc("POST /api/hotspots", r.hotspotHandler.CreateHotspot)

	// Moderation endpoints
	r.mux.HandleFunc("GET /api/admin/hotspots/pending", r.moderationHandler.ListPending)
	r.mux.HandleFunc("GET /api/admin/hotspots/all", r.moderationHandler.ListAll)
	r.mux.HandleFunc("POST /api/admin/hotspots/{id}/approve", r.moderationHandler.ApproveHotspot)
	r.mux.HandleFunc("POST /api/admin/hotspots/{id}/reject", r.moderationHandler.RejectHotspot)
	r.mux.HandleFunc("POST /api/admin/photos/{id}/approve", r.moderationHandler.ApprovePhoto)

	// Review endpoints
	r.mux.HandleFunc("GET /api/hotspots/{id}/reviews", r.reviewHandler.ListReviews)
	r.mux.HandleFunc("POST /api/reviews", r.reviewHandler.CreateReview)

	// Photo endpoints
	r.mux.HandleFunc("GET /api/hotspots/{id}/photos", r.photoHandler.ListPhotos)
	r.mux.HandleFunc("POST /api/photos", r.photoHandler.CreatePhoto)

	// Favorite endpoints
	r.mux.HandleFunc("GET /api/favorites/check", r.favoriteHandler.CheckFavorite)
	r.mux.HandleFunc("POST /api/favorites", r.favoriteHandler.AddFavorite)
	r.mux.HandleFunc("DELETE /api/favorites", r.favoriteHandler.RemoveFavorite)
	r.mux.HandleFunc("GET /api/users/{id}/favorites", r.favoriteHandler.ListFavorites)

	// Apply middleware, CORS outermost so preflights short-circuit.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
