package repositories

import (
	"context"

	"github.com/hotspotsapp/wifi-directory/internal/domain/entities"
)

// NewUser is the input record for user creation.
type NewUser struct {
	Username string
	Password string
}

// NewHotspot is the input record for hotspot creation and bulk import.
// Stores assign the workflow fields themselves: user submissions always
// enter pending and unverified, bulk-imported records always land approved
// and verified. ModerationStatus and IsVerified carry what an import source
// declared, for callers that want to filter before importing.
type NewHotspot struct {
	Name             string
	Address          string
	Category         string
	Latitude         float64
	Longitude        float64
	IsFree           bool
	WifiPassword     *string
	Description      *string
	IsVerified       bool
	ModerationStatus entities.ModerationStatus
	SubmittedBy      *string
	IsSponsored      bool
}

// NewReview is the input record for review creation.
type NewReview struct {
	UserID    int
	HotspotID int
	Rating    int
	Comment   *string
	PhotoURL  *string
}

// NewPhoto is the input record for photo creation.
type NewPhoto struct {
	UserID    int
	HotspotID int
	PhotoURL  string
}

// DirectoryStore is the single contract every backing store implements.
// There are two canonical implementations: the in-memory store
// (internal/adapters/memory) and the Postgres store
// (internal/adapters/database). Both are exercised by the shared suite in
// internal/adapters/storetest.
//
// Ordering contracts:
//   - ListApproved returns insertion order.
//   - ListPending returns oldest-first by creation time.
//   - NearLocation returns nearest-first.
//   - ListReviews and ListApprovedPhotos return newest-first.
type DirectoryStore interface {
	// Users
	GetUser(ctx context.Context, id int) (*entities.User, error)
	GetUserByUsername(ctx context.Context, username string) (*entities.User, error)
	CreateUser(ctx context.Context, user NewUser) (*entities.User, error)

	// Hotspots
	ListApproved(ctx context.Context) ([]*entities.Hotspot, error)
	GetHotspotByID(ctx context.Context, id int) (*entities.Hotspot, error)
	CreateHotspot(ctx context.Context, hotspot NewHotspot) (*entities.Hotspot, error)
	SearchHotspots(ctx context.Context, query string) ([]*entities.Hotspot, error)
	NearLocation(ctx context.Context, lat, lng, radiusKm float64) ([]*entities.Hotspot, error)
	ListPending(ctx context.Context) ([]*entities.Hotspot, error)
	ApproveHotspot(ctx context.Context, id int) error
	RejectHotspot(ctx context.Context, id int) error
	BulkImport(ctx context.Context, hotspots []NewHotspot) error

	// Reviews
	ListReviews(ctx context.Context, hotspotID int) ([]*entities.Review, error)
	CreateReview(ctx context.Context, review NewReview) (*entities.Review, error)
	RecomputeRating(ctx context.Context, hotspotID int) error

	// Photos
	ListApprovedPhotos(ctx context.Context, hotspotID int) ([]*entities.Photo, error)
	CreatePhoto(ctx context.Context, photo NewPhoto) (*entities.Photo, error)
	ApprovePhoto(ctx context.Context, id int) error

	// Favorites
	AddFavorite(ctx context.Context, userID, hotspotID int) error
	RemoveFavorite(ctx context.Context, userID, hotspotID int) error
	IsFavorite(ctx context.Context, userID, hotspotID int) (bool, error)
	ListFavorites(ctx context.Context, userID int) ([]*entities.Hotspot, error)
}
