// Package database holds the canonical Postgres DirectoryStore.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/hotspotsapp/wifi-directory/internal/domain/entities"
	"github.com/hotspotsapp/wifi-directory/internal/domain/repositories"
	"github.com/hotspotsapp/wifi-directory/internal/infrastructure/clients/postgres"
	apperrors "github.com/hotspotsapp/wifi-directory/pkg/errors"
)

const hotspotColumns = `
	id, name, address, category, latitude, longitude,
	is_free, wifi_password, description, is_verified,
	moderation_status, submitted_by, average_rating,
	review_count, is_sponsored, created_at`

// Spherical law of cosines, same shape the distance filter has always used.
// least(1.0, ...) clamps rounding noise out of acos's domain so a hotspot at
// the reference point itself does not produce NaN.
const distanceExpr = `(6371 * acos(least(1.0,
	cos(radians($1)) * cos(radians(latitude)) *
	cos(radians(longitude) - radians($2)) +
	sin(radians($1)) * sin(radians(latitude)))))`

const uniqueViolation = "23505"

// DirectoryAdapter implements repositories.DirectoryStore on Postgres.
type DirectoryAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewDirectoryAdapter creates a new Postgres directory adapter.
func NewDirectoryAdapter(client *postgres.Client) *DirectoryAdapter {
	return &DirectoryAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var _ repositories.DirectoryStore = (*DirectoryAdapter)(nil)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHotspot(row rowScanner) (*entities.Hotspot, error) {
	h := &entities.Hotspot{}
	var wifiPassword, description, submittedBy sql.NullString
	err := row.Scan(
		&h.ID,
		&h.Name,
		&h.Address,
		&h.Category,
		&h.Latitude,
		&h.Longitude,
		&h.IsFree,
		&wifiPassword,
		&description,
		&h.IsVerified,
		&h.ModerationStatus,
		&submittedBy,
		&h.AverageRating,
		&h.ReviewCount,
		&h.IsSponsored,
		&h.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	h.WifiPassword = nullableString(wifiPassword)
	h.Description = nullableString(description)
	h.SubmittedBy = nullableString(submittedBy)
	return h, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func (a *DirectoryAdapter) queryHotspots(ctx context.Context, query string, args ...interface{}) ([]*entities.Hotspot, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query hotspots", err)
	}
	defer rows.Close()

	hotspots := []*entities.Hotspot{}
	for rows.Next() {
		h, err := scanHotspot(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan hotspot", err)
		}
		hotspots = append(hotspots, h)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating hotspots", err)
	}
	return hotspots, nil
}

// GetUser retrieves a user by ID.
func (a *DirectoryAdapter) GetUser(ctx context.Context, id int) (*entities.User, error) {
	query := `SELECT id, username, password FROM users WHERE id = $1`

	user := &entities.User{}
	err := a.client.DB().QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Username, &user.Password)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user with id %d not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username.
func (a *DirectoryAdapter) GetUserByUsername(ctx context.Context, username string) (*entities.User, error) {
	query := `SELECT id, username, password FROM users WHERE username = $1`

	user := &entities.User{}
	err := a.client.DB().QueryRowContext(ctx, query, username).Scan(&user.ID, &user.Username, &user.Password)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user %q not found", username))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	return user, nil
}

// CreateUser creates a user. Username collisions surface as conflicts.
func (a *DirectoryAdapter) CreateUser(ctx context.Context, input repositories.NewUser) (*entities.User, error) {
	query, args, err := a.db.Insert("users").Prepared(true).Rows(goqu.Record{
		"username": input.Username,
		"password": input.Password,
	}).Returning("id").ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build user insert query", err)
	}

	user := &entities.User{Username: input.Username, Password: input.Password}
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&user.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == uniqueViolation {
			return nil, apperrors.NewConflictError("username already taken")
		}
		return nil, apperrors.NewInternalError("failed to create user", err)
	}
	return user, nil
}

// ListApproved returns approved hotspots in insertion order.
func (a *DirectoryAdapter) ListApproved(ctx context.Context) ([]*entities.Hotspot, error) {
	query := `SELECT ` + hotspotColumns + `
		FROM hotspots
		WHERE moderation_status = 'approved'
		ORDER BY id`
	return a.queryHotspots(ctx, query)
}

// GetHotspotByID returns a hotspot regardless of moderation status; detail
// views and moderation both go through here.
func (a *DirectoryAdapter) GetHotspotByID(ctx context.Context, id int) (*entities.Hotspot, error) {
	query := `SELECT ` + hotspotColumns + ` FROM hotspots WHERE id = $1`

	h, err := scanHotspot(a.client.DB().QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("hotspot with id %d not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get hotspot", err)
	}
	return h, nil
}

// CreateHotspot stores a user submission; moderation status, verification
// and rating fields are server-assigned.
func (a *DirectoryAdapter) CreateHotspot(ctx context.Context, input repositories.NewHotspot) (*entities.Hotspot, error) {
	submittedBy := input.SubmittedBy
	if submittedBy == nil {
		user := "user"
		submittedBy = &user
	}
	now := time.Now().UTC()

	query, args, err := a.db.Insert("hotspots").Prepared(true).Rows(goqu.Record{
		"name":              input.Name,
		"address":           input.Address,
		"category":          input.Category,
		"latitude":          input.Latitude,
		"longitude":         input.Longitude,
		"is_free":           input.IsFree,
		"wifi_password":     toNullString(input.WifiPassword),
		"description":       toNullString(input.Description),
		"is_verified":       false,
		"moderation_status": string(entities.ModerationPending),
		"submitted_by":      toNullString(submittedBy),
		"average_rating":    0,
		"review_count":      0,
		"is_sponsored":      input.IsSponsored,
		"created_at":        now,
	}).Returning("id").ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build hotspot insert query", err)
	}

	h := &entities.Hotspot{
		Name:             input.Name,
		Address:          input.Address,
		Category:         input.Category,
		Latitude:         input.Latitude,
		Longitude:        input.Longitude,
		IsFree:           input.IsFree,
		WifiPassword:     input.WifiPassword,
		Description:      input.Description,
		IsVerified:       false,
		ModerationStatus: entities.ModerationPending,
		SubmittedBy:      submittedBy,
		IsSponsored:      input.IsSponsored,
		CreatedAt:        now,
	}
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&h.ID); err != nil {
		return nil, apperrors.NewInternalError("failed to create hotspot", err)
	}
	return h, nil
}

// SearchHotspots matches the query case-insensitively against name, address
// or category, restricted to approved hotspots.
func (a *DirectoryAdapter) SearchHotspots(ctx context.Context, search string) ([]*entities.Hotspot, error) {
	query := `SELECT ` + hotspotColumns + `
		FROM hotspots
		WHERE moderation_status = 'approved'
		  AND (name ILIKE $1 OR address ILIKE $1 OR category ILIKE $1)
		ORDER BY id`
	return a.queryHotspots(ctx, query, "%"+search+"%")
}

// NearLocation returns approved hotspots within radiusKm of the reference
// point, nearest first. Distance filtering happens in SQL so the database
// never ships the whole table.
func (a *DirectoryAdapter) NearLocation(ctx context.Context, lat, lng, radiusKm float64) ([]*entities.Hotspot, error) {
	query := `SELECT ` + hotspotColumns + `, ` + distanceExpr + ` AS distance
		FROM hotspots
		WHERE moderation_status = 'approved'
		  AND ` + distanceExpr + ` <= $3
		ORDER BY distance`

	rows, err := a.client.DB().QueryContext(ctx, query, lat, lng, radiusKm)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query nearby hotspots", err)
	}
	defer rows.Close()

	hotspots := []*entities.Hotspot{}
	for rows.Next() {
		h := &entities.Hotspot{}
		var wifiPassword, description, submittedBy sql.NullString
		var distance float64
		err := rows.Scan(
			&h.ID, &h.Name, &h.Address, &h.Category, &h.Latitude, &h.Longitude,
			&h.IsFree, &wifiPassword, &description, &h.IsVerified,
			&h.ModerationStatus, &submittedBy, &h.AverageRating,
			&h.ReviewCount, &h.IsSponsored, &h.CreatedAt,
			&distance,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan nearby hotspot", err)
		}
		h.WifiPassword = nullableString(wifiPassword)
		h.Description = nullableString(description)
		h.SubmittedBy = nullableString(submittedBy)
		hotspots = append(hotspots, h)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating nearby hotspots", err)
	}
	return hotspots, nil
}

// ListPending returns pending hotspots oldest-first by creation time.
func (a *DirectoryAdapter) ListPending(ctx context.Context) ([]*entities.Hotspot, error) {
	query := `SELECT ` + hotspotColumns + `
		FROM hotspots
		WHERE moderation_status = 'pending'
		ORDER BY created_at ASC, id ASC`
	return a.queryHotspots(ctx, query)
}

// ApproveHotspot transitions pending -> approved. Missing IDs and hotspots
// already out of the pending state match zero rows, which is the documented
// no-op.
func (a *DirectoryAdapter) ApproveHotspot(ctx context.Context, id int) error {
	return a.transitionModeration(ctx, id, entities.ModerationApproved)
}

// RejectHotspot transitions pending -> rejected.
func (a *DirectoryAdapter) RejectHotspot(ctx context.Context, id int) error {
	return a.transitionModeration(ctx, id, entities.ModerationRejected)
}

func (a *DirectoryAdapter) transitionModeration(ctx context.Context, id int, next entities.ModerationStatus) error {
	query, args, err := a.db.Update("hotspots").Prepared(true).
		Set(goqu.Record{"moderation_status": string(next)}).
		Where(goqu.Ex{
			"id":                id,
			"moderation_status": string(entities.ModerationPending),
		}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build moderation update query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to update moderation status", err)
	}
	return nil
}

// BulkImport inserts pre-validated records as approved and verified.
func (a *DirectoryAdapter) BulkImport(ctx context.Context, hotspots []repositories.NewHotspot) error {
	if len(hotspots) == 0 {
		return nil
	}

	now := time.Now().UTC()
	records := make([]interface{}, 0, len(hotspots))
	for _, input := range hotspots {
		records = append(records, goqu.Record{
			"name":              input.Name,
			"address":           input.Address,
			"category":          input.Category,
			"latitude":          input.Latitude,
			"longitude":         input.Longitude,
			"is_free":           input.IsFree,
			"wifi_password":     toNullString(input.WifiPassword),
			"description":       toNullString(input.Description),
			"is_verified":       true,
			"moderation_status": string(entities.ModerationApproved),
			"submitted_by":      "csv_import",
			"average_rating":    0,
			"review_count":      0,
			"is_sponsored":      input.IsSponsored,
			"created_at":        now,
		})
	}

	query, args, err := a.db.Insert("hotspots").Prepared(true).Rows(records...).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build bulk import query", err)
	}
	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to bulk import hotspots", err)
	}
	return nil
}

// ListReviews returns a hotspot's reviews newest-first.
func (a *DirectoryAdapter) ListReviews(ctx context.Context, hotspotID int) ([]*entities.Review, error) {
	query := `
		SELECT id, user_id, hotspot_id, rating, comment, photo_url, status, created_at
		FROM reviews
		WHERE hotspot_id = $1
		ORDER BY created_at DESC, id DESC`

	rows, err := a.client.DB().QueryContext(ctx, query, hotspotID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query reviews", err)
	}
	defer rows.Close()

	reviews := []*entities.Review{}
	for rows.Next() {
		r := &entities.Review{}
		var comment, photoURL sql.NullString
		err := rows.Scan(&r.ID, &r.UserID, &r.HotspotID, &r.Rating, &comment, &photoURL, &r.Status, &r.CreatedAt)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan review", err)
		}
		r.Comment = nullableString(comment)
		r.PhotoURL = nullableString(photoURL)
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating reviews", err)
	}
	return reviews, nil
}

// CreateReview stores a review. Reviews are created approved in this core.
func (a *DirectoryAdapter) CreateReview(ctx context.Context, input repositories.NewReview) (*entities.Review, error) {
	now := time.Now().UTC()
	query, args, err := a.db.Insert("reviews").Prepared(true).Rows(goqu.Record{
		"user_id":    input.UserID,
		"hotspot_id": input.HotspotID,
		"rating":     input.Rating,
		"comment":    toNullString(input.Comment),
		"photo_url":  toNullString(input.PhotoURL),
		"status":     string(entities.ReviewApproved),
		"created_at": now,
	}).Returning("id").ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build review insert query", err)
	}

	r := &entities.Review{
		UserID:    input.UserID,
		HotspotID: input.HotspotID,
		Rating:    input.Rating,
		Comment:   input.Comment,
		PhotoURL:  input.PhotoURL,
		Status:    entities.ReviewApproved,
		CreatedAt: now,
	}
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&r.ID); err != nil {
		return nil, apperrors.NewInternalError("failed to create review", err)
	}
	return r, nil
}

// RecomputeRating recalculates a hotspot's average rating and review count
// from its approved reviews, rounded to one decimal place. Zero approved
// reviews reset both fields.
func (a *DirectoryAdapter) RecomputeRating(ctx context.Context, hotspotID int) error {
	query := `
		UPDATE hotspots SET
			average_rating = COALESCE((
				SELECT ROUND(AVG(rating)::numeric, 1)
				FROM reviews
				WHERE hotspot_id = $1 AND status = 'approved'
			), 0),
			review_count = (
				SELECT COUNT(*)
				FROM reviews
				WHERE hotspot_id = $1 AND status = 'approved'
			)
		WHERE id = $1`

	if _, err := a.client.DB().ExecContext(ctx, query, hotspotID); err != nil {
		return apperrors.NewInternalError("failed to recompute hotspot rating", err)
	}
	return nil
}

// ListApprovedPhotos returns a hotspot's approved photos newest-first.
func (a *DirectoryAdapter) ListApprovedPhotos(ctx context.Context, hotspotID int) ([]*entities.Photo, error) {
	query := `
		SELECT id, user_id, hotspot_id, photo_url, approved, created_at
		FROM photos
		WHERE hotspot_id = $1 AND approved = TRUE
		ORDER BY created_at DESC, id DESC`

	rows, err := a.client.DB().QueryContext(ctx, query, hotspotID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query photos", err)
	}
	defer rows.Close()

	photos := []*entities.Photo{}
	for rows.Next() {
		p := &entities.Photo{}
		err := rows.Scan(&p.ID, &p.UserID, &p.HotspotID, &p.PhotoURL, &p.Approved, &p.CreatedAt)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan photo", err)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("error iterating photos", err)
	}
	return photos, nil
}

// CreatePhoto stores a photo awaiting moderation.
func (a *DirectoryAdapter) CreatePhoto(ctx context.Context, input repositories.NewPhoto) (*entities.Photo, error) {
	now := time.Now().UTC()
	query, args, err := a.db.Insert("photos").Prepared(true).Rows(goqu.Record{
		"user_id":    input.UserID,
		"hotspot_id": input.HotspotID,
		"photo_url":  input.PhotoURL,
		"approved":   false,
		"created_at": now,
	}).Returning("id").ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build photo insert query", err)
	}

	p := &entities.Photo{
		UserID:    input.UserID,
		HotspotID: input.HotspotID,
		PhotoURL:  input.PhotoURL,
		Approved:  false,
		CreatedAt: now,
	}
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&p.ID); err != nil {
		return nil, apperrors.NewInternalError("failed to create photo", err)
	}
	return p, nil
}

// ApprovePhoto marks a photo approved. Missing IDs are a no-op.
func (a *DirectoryAdapter) ApprovePhoto(ctx context.Context, id int) error {
	query, args, err := a.db.Update("photos").Prepared(true).
		Set(goqu.Record{"approved": true}).
		Where(goqu.Ex{"id": id}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build photo approval query", err)
	}
	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to approve photo", err)
	}
	return nil
}

// AddFavorite bookmarks a hotspot for a user. The unique constraint on
// (user_id, hotspot_id) plus DO NOTHING makes re-adding a no-op.
func (a *DirectoryAdapter) AddFavorite(ctx context.Context, userID, hotspotID int) error {
	query := `
		INSERT INTO favorites (user_id, hotspot_id, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, hotspot_id) DO NOTHING`

	if _, err := a.client.DB().ExecContext(ctx, query, userID, hotspotID, time.Now().UTC()); err != nil {
		return apperrors.NewInternalError("failed to add favorite", err)
	}
	return nil
}

// RemoveFavorite removes a bookmark. Absent pairs are a no-op.
func (a *DirectoryAdapter) RemoveFavorite(ctx context.Context, userID, hotspotID int) error {
	query := `DELETE FROM favorites WHERE user_id = $1 AND hotspot_id = $2`

	if _, err := a.client.DB().ExecContext(ctx, query, userID, hotspotID); err != nil {
		return apperrors.NewInternalError("failed to remove favorite", err)
	}
	return nil
}

// IsFavorite reports whether the pair exists.
func (a *DirectoryAdapter) IsFavorite(ctx context.Context, userID, hotspotID int) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM favorites WHERE user_id = $1 AND hotspot_id = $2)`

	var exists bool
	if err := a.client.DB().QueryRowContext(ctx, query, userID, hotspotID).Scan(&exists); err != nil {
		return false, apperrors.NewInternalError("failed to check favorite", err)
	}
	return exists, nil
}

// ListFavorites returns the approved hotspots a user bookmarked, in the
// order the bookmarks were added.
func (a *DirectoryAdapter) ListFavorites(ctx context.Context, userID int) ([]*entities.Hotspot, error) {
	query := `
		SELECT h.id, h.name, h.address, h.category, h.latitude, h.longitude,
			h.is_free, h.wifi_password, h.description, h.is_verified,
			h.moderation_status, h.submitted_by, h.average_rating,
			h.review_count, h.is_sponsored, h.created_at
		FROM favorites f
		JOIN hotspots h ON h.id = f.hotspot_id
		WHERE f.user_id = $1 AND h.moderation_status = 'approved'
		ORDER BY f.id`
	return a.queryHotspots(ctx, query, userID)
}
