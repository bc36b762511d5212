// Package services holds the application layer: one explicitly constructed
// DirectoryService with an injected backing store, created once at startup
// and shared by all handlers.
package services

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hotspotsapp/wifi-directory/internal/domain/entities"
	"github.com/hotspotsapp/wifi-directory/internal/domain/repositories"
	apperrors "github.com/hotspotsapp/wifi-directory/pkg/errors"
)

// DefaultSearchRadiusKm is used when a nearby query does not name a radius.
const DefaultSearchRadiusKm = 10.0

// HotspotInput is a user submission. Coordinates are pointers so a missing
// field is distinguishable from zero.
type HotspotInput struct {
	Name         string   `json:"name" validate:"required"`
	Address      string   `json:"address" validate:"required"`
	Category     string   `json:"category" validate:"required"`
	Latitude     *float64 `json:"latitude" validate:"required,min=-90,max=90"`
	Longitude    *float64 `json:"longitude" validate:"required,min=-180,max=180"`
	IsFree       *bool    `json:"isFree"`
	WifiPassword *string  `json:"wifiPassword"`
	Description  *string  `json:"description"`
	IsSponsored  *bool    `json:"isSponsored"`
	SubmittedBy  *string  `json:"submittedBy"`
}

// ReviewInput is a review submission.
type ReviewInput struct {
	UserID    int     `json:"userId" validate:"required,gt=0"`
	HotspotID int     `json:"hotspotId" validate:"required,gt=0"`
	Rating    int     `json:"rating" validate:"required,min=1,max=5"`
	Comment   *string `json:"comment" validate:"omitempty,min=10,max=1000"`
	PhotoURL  *string `json:"photoUrl"`
}

// PhotoInput is a photo submission.
type PhotoInput struct {
	UserID    int    `json:"userId" validate:"required,gt=0"`
	HotspotID int    `json:"hotspotId" validate:"required,gt=0"`
	PhotoURL  string `json:"photoUrl" validate:"required"`
}

// FavoriteInput identifies a (user, hotspot) bookmark pair.
type FavoriteInput struct {
	UserID    int `json:"userId" validate:"required,gt=0"`
	HotspotID int `json:"hotspotId" validate:"required,gt=0"`
}

// DirectoryService handles business logic for the hotspot directory.
type DirectoryService struct {
	store    repositories.DirectoryStore
	validate *validator.Validate
}

// NewDirectoryService creates a new directory service.
func NewDirectoryService(store repositories.DirectoryStore) *DirectoryService {
	v := validator.New()
	// Report field errors under their JSON names, which is what clients see.
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	return &DirectoryService{
		store:    store,
		validate: v,
	}
}

func (s *DirectoryService) validateInput(input interface{}, what string) error {
	err := s.validate.Struct(input)
	if err == nil {
		return nil
	}
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewInternalError("validation failed", err)
	}
	fields := make([]apperrors.FieldError, 0, len(validationErrs))
	for _, fe := range validationErrs {
		fields = append(fields, apperrors.FieldError{
			Field:   fe.Field(),
			Message: fieldMessage(fe),
		})
	}
	return apperrors.NewFieldValidationError("invalid "+what, fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	default:
		return fmt.Sprintf("failed the %s rule", fe.Tag())
	}
}

// ListApproved returns the hotspots visible to end users.
func (s *DirectoryService) ListApproved(ctx context.Context) ([]*entities.Hotspot, error) {
	return s.store.ListApproved(ctx)
}

// GetByID returns a hotspot regardless of moderation status; used by
// detail views and moderation.
func (s *DirectoryService) GetByID(ctx context.Context, id int) (*entities.Hotspot, error) {
	return s.store.GetHotspotByID(ctx, id)
}

// Create validates and stores a user submission. New hotspots always enter
// the moderation queue pending and unverified.
func (s *DirectoryService) Create(ctx context.Context, input HotspotInput) (*entities.Hotspot, error) {
	if err := s.validateInput(input, "hotspot"); err != nil {
		return nil, err
	}

	isFree := true
	if input.IsFree != nil {
		isFree = *input.IsFree
	}
	isSponsored := input.IsSponsored != nil && *input.IsSponsored

	return s.store.CreateHotspot(ctx, repositories.NewHotspot{
		Name:         strings.TrimSpace(input.Name),
		Address:      strings.TrimSpace(input.Address),
		Category:     strings.TrimSpace(input.Category),
		Latitude:     *input.Latitude,
		Longitude:    *input.Longitude,
		IsFree:       isFree,
		WifiPassword: input.WifiPassword,
		Description:  input.Description,
		SubmittedBy:  input.SubmittedBy,
		IsSponsored:  isSponsored,
	})
}

// Search returns approved hotspots matching the query. The client guards
// against empty queries; the service defends independently.
func (s *DirectoryService) Search(ctx context.Context, query string) ([]*entities.Hotspot, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperrors.NewValidationError("search query is required")
	}
	return s.store.SearchHotspots(ctx, query)
}

// Near returns approved hotspots within radiusKm of the point. Radius zero
// matches only hotspots at the point itself; negative radii fail validation.
func (s *DirectoryService) Near(ctx context.Context, lat, lng, radiusKm float64) ([]*entities.Hotspot, error) {
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, apperrors.NewValidationError("coordinates out of range")
	}
	if radiusKm < 0 {
		return nil, apperrors.NewValidationError("radius must not be negative")
	}
	return s.store.NearLocation(ctx, lat, lng, radiusKm)
}

// NearDefault is Near with the default radius.
func (s *DirectoryService) NearDefault(ctx context.Context, lat, lng float64) ([]*entities.Hotspot, error) {
	return s.Near(ctx, lat, lng, DefaultSearchRadiusKm)
}

// ListPending returns the moderation queue, oldest first.
func (s *DirectoryService) ListPending(ctx context.Context) ([]*entities.Hotspot, error) {
	return s.store.ListPending(ctx)
}

// Approve makes a pending hotspot publicly visible.
func (s *DirectoryService) Approve(ctx context.Context, id int) error {
	return s.store.ApproveHotspot(ctx, id)
}

// Reject removes a pending hotspot from the moderation queue permanently.
func (s *DirectoryService) Reject(ctx context.Context, id int) error {
	return s.store.RejectHotspot(ctx, id)
}

// BulkImport seeds the directory from pre-validated import records.
func (s *DirectoryService) BulkImport(ctx context.Context, records []repositories.NewHotspot) error {
	return s.store.BulkImport(ctx, records)
}

// ListReviews returns a hotspot's reviews, newest first.
func (s *DirectoryService) ListReviews(ctx context.Context, hotspotID int) ([]*entities.Review, error) {
	return s.store.ListReviews(ctx, hotspotID)
}

// CreateReview validates and stores a review, then recomputes the parent
// hotspot's rating aggregate.
func (s *DirectoryService) CreateReview(ctx context.Context, input ReviewInput) (*entities.Review, error) {
	if err := s.validateInput(input, "review"); err != nil {
		return nil, err
	}
	if _, err := s.store.GetHotspotByID(ctx, input.HotspotID); err != nil {
		return nil, err
	}

	review, err := s.store.CreateReview(ctx, repositories.NewReview{
		UserID:    input.UserID,
		HotspotID: input.HotspotID,
		Rating:    input.Rating,
		Comment:   input.Comment,
		PhotoURL:  input.PhotoURL,
	})
	if err != nil {
		return nil, err
	}
	if err := s.store.RecomputeRating(ctx, input.HotspotID); err != nil {
		return nil, err
	}
	return review, nil
}

// ListPhotos returns a hotspot's approved photos, newest first.
func (s *DirectoryService) ListPhotos(ctx context.Context, hotspotID int) ([]*entities.Photo, error) {
	return s.store.ListApprovedPhotos(ctx, hotspotID)
}

// CreatePhoto validates and stores a photo; photos always start unapproved.
func (s *DirectoryService) CreatePhoto(ctx context.Context, input PhotoInput) (*entities.Photo, error) {
	if err := s.validateInput(input, "photo"); err != nil {
		return nil, err
	}
	if _, err := s.store.GetHotspotByID(ctx, input.HotspotID); err != nil {
		return nil, err
	}
	return s.store.CreatePhoto(ctx, repositories.NewPhoto{
		UserID:    input.UserID,
		HotspotID: input.HotspotID,
		PhotoURL:  input.PhotoURL,
	})
}

// ApprovePhoto makes a photo visible in the hotspot's photo listing.
func (s *DirectoryService) ApprovePhoto(ctx context.Context, id int) error {
	return s.store.ApprovePhoto(ctx, id)
}

// AddFavorite bookmarks a hotspot for a user; repeated adds are no-ops.
func (s *DirectoryService) AddFavorite(ctx context.Context, input FavoriteInput) error {
	if err := s.validateInput(input, "favorite"); err != nil {
		return err
	}
	return s.store.AddFavorite(ctx, input.UserID, input.HotspotID)
}

// RemoveFavorite removes a bookmark; removing an absent pair is a no-op.
func (s *DirectoryService) RemoveFavorite(ctx context.Context, userID, hotspotID int) error {
	return s.store.RemoveFavorite(ctx, userID, hotspotID)
}

// IsFavorite reports whether a user bookmarked a hotspot.
func (s *DirectoryService) IsFavorite(ctx context.Context, userID, hotspotID int) (bool, error) {
	return s.store.IsFavorite(ctx, userID, hotspotID)
}

// ListFavorites returns the approved hotspots a user bookmarked.
func (s *DirectoryService) ListFavorites(ctx context.Context, userID int) ([]*entities.Hotspot, error) {
	return s.store.ListFavorites(ctx, userID)
}
