package database

import (
	"context"

	"github.com/hotspotsapp/wifi-directory/internal/infrastructure/clients/postgres"
	apperrors "github.com/hotspotsapp/wifi-directory/pkg/errors"
)

// EnsureSchema creates the directory tables on first run. IF NOT EXISTS
// keeps it safe against structures that already exist.
func EnsureSchema(ctx context.Context, client *postgres.Client) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS hotspots (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			address TEXT NOT NULL,
			category TEXT NOT NULL,
			latitude DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			is_free BOOLEAN NOT NULL DEFAULT TRUE,
			wifi_password TEXT,
			description TEXT,
			is_verified BOOLEAN NOT NULL DEFAULT FALSE,
			moderation_status TEXT NOT NULL DEFAULT 'pending',
			submitted_by TEXT,
			average_rating DOUBLE PRECISION NOT NULL DEFAULT 0,
			review_count INTEGER NOT NULL DEFAULT 0,
			is_sponsored BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_hotspots_moderation ON hotspots(moderation_status)`,
		`CREATE TABLE IF NOT EXISTS reviews (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL,
			hotspot_id INTEGER NOT NULL REFERENCES hotspots(id),
			rating INTEGER NOT NULL,
			comment TEXT,
			photo_url TEXT,
			status TEXT NOT NULL DEFAULT 'approved',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_hotspot ON reviews(hotspot_id)`,
		`CREATE TABLE IF NOT EXISTS photos (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL,
			hotspot_id INTEGER NOT NULL REFERENCES hotspots(id),
			photo_url TEXT NOT NULL,
			approved BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS favorites (
			id SERIAL PRIMARY KEY,
			user_id INTEGER NOT NULL,
			hotspot_id INTEGER NOT NULL REFERENCES hotspots(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (user_id, hotspot_id)
		)`,
	}

	for _, stmt := range stmts {
		if _, err := client.DB().ExecContext(ctx, stmt); err != nil {
			return apperrors.NewInternalError("failed to ensure schema", err)
		}
	}
	return nil
}
