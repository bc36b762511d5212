// Package storetest holds the shared contract suite every DirectoryStore
// implementation must pass. The memory store runs it unconditionally; the
// Postgres store runs it behind the integration build tag.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotspotsapp/wifi-directory/internal/domain/entities"
	"github.com/hotspotsapp/wifi-directory/internal/domain/repositories"
	apperrors "github.com/hotspotsapp/wifi-directory/pkg/errors"
)

// Factory returns a fresh, empty store for each subtest.
type Factory func(t *testing.T) repositories.DirectoryStore

func strPtr(s string) *string { return &s }

func newHotspot(name, address, category string, lat, lng float64) repositories.NewHotspot {
	return repositories.NewHotspot{
		Name:      name,
		Address:   address,
		Category:  category,
		Latitude:  lat,
		Longitude: lng,
		IsFree:    true,
	}
}

// seedApproved imports one hotspot and returns it from the approved listing.
func seedApproved(t *testing.T, store repositories.DirectoryStore, input repositories.NewHotspot) *entities.Hotspot {
	t.Helper()
	ctx := context.Background()

	before, err := store.ListApproved(ctx)
	require.NoError(t, err)

	require.NoError(t, store.BulkImport(ctx, []repositories.NewHotspot{input}))

	after, err := store.ListApproved(ctx)
	require.NoError(t, err)
	require.Len(t, after, len(before)+1)
	return after[len(after)-1]
}

// RunDirectorySuite exercises the DirectoryStore contract.
func RunDirectorySuite(t *testing.T, factory Factory) {
	ctx := context.Background()

	t.Run("users", func(t *testing.T) {
		store := factory(t)

		user, err := store.CreateUser(ctx, repositories.NewUser{Username: "alice", Password: "opaque"})
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.NotZero(t, user.ID)

		byID, err := store.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Username, byID.Username)

		byName, err := store.GetUserByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byName.ID)

		_, err = store.CreateUser(ctx, repositories.NewUser{Username: "alice", Password: "other"})
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeConflict))

		_, err = store.GetUser(ctx, 9999)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})

	t.Run("create forces pending and server defaults", func(t *testing.T) {
		store := factory(t)

		created, err := store.CreateHotspot(ctx, repositories.NewHotspot{
			Name:             "Test Cafe",
			Address:          "1 Main St",
			Category:         "Coffee Shop",
			Latitude:         37.7749,
			Longitude:        -122.4194,
			IsFree:           true,
			IsVerified:       true,                       // ignored for user submissions
			ModerationStatus: entities.ModerationApproved, // ignored too
		})
		require.NoError(t, err)
		assert.Equal(t, entities.ModerationPending, created.ModerationStatus)
		assert.False(t, created.IsVerified)
		assert.Zero(t, created.AverageRating)
		assert.Zero(t, created.ReviewCount)
		require.NotNil(t, created.SubmittedBy)
		assert.Equal(t, "user", *created.SubmittedBy)
		assert.False(t, created.CreatedAt.IsZero())

		approved, err := store.ListApproved(ctx)
		require.NoError(t, err)
		assert.Empty(t, approved)

		// Detail lookup sees it regardless of status.
		got, err := store.GetHotspotByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Name, got.Name)

		_, err = store.GetHotspotByID(ctx, created.ID+1000)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
	})

	t.Run("moderation transitions", func(t *testing.T) {
		store := factory(t)

		created, err := store.CreateHotspot(ctx, newHotspot("Pending Cafe", "2 Main St", "Coffee Shop", 37.7, -122.4))
		require.NoError(t, err)

		pending, err := store.ListPending(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, created.ID, pending[0].ID)

		require.NoError(t, store.ApproveHotspot(ctx, created.ID))

		approved, err := store.ListApproved(ctx)
		require.NoError(t, err)
		require.Len(t, approved, 1)
		assert.Equal(t, created.ID, approved[0].ID)

		pending, err = store.ListPending(ctx)
		require.NoError(t, err)
		assert.Empty(t, pending)

		// Approved is terminal; a reject now must not take effect.
		require.NoError(t, store.RejectHotspot(ctx, created.ID))
		got, err := store.GetHotspotByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.ModerationApproved, got.ModerationStatus)
	})

	t.Run("reject is terminal", func(t *testing.T) {
		store := factory(t)

		created, err := store.CreateHotspot(ctx, newHotspot("Rejected Cafe", "3 Main St", "Coffee Shop", 37.7, -122.4))
		require.NoError(t, err)

		require.NoError(t, store.RejectHotspot(ctx, created.ID))
		require.NoError(t, store.ApproveHotspot(ctx, created.ID))

		got, err := store.GetHotspotByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.ModerationRejected, got.ModerationStatus)
	})

	t.Run("moderating a missing hotspot is a no-op", func(t *testing.T) {
		store := factory(t)

		created, err := store.CreateHotspot(ctx, newHotspot("Survivor", "4 Main St", "Library", 37.7, -122.4))
		require.NoError(t, err)

		require.NoError(t, store.ApproveHotspot(ctx, 4242))
		require.NoError(t, store.RejectHotspot(ctx, 4242))

		got, err := store.GetHotspotByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, entities.ModerationPending, got.ModerationStatus)
	})

	t.Run("list pending is oldest first", func(t *testing.T) {
		store := factory(t)

		first, err := store.CreateHotspot(ctx, newHotspot("First", "5 Main St", "Hotel", 37.7, -122.4))
		require.NoError(t, err)
		second, err := store.CreateHotspot(ctx, newHotspot("Second", "6 Main St", "Hotel", 37.7, -122.4))
		require.NoError(t, err)

		pending, err := store.ListPending(ctx)
		require.NoError(t, err)
		require.Len(t, pending, 2)
		assert.Equal(t, first.ID, pending[0].ID)
		assert.Equal(t, second.ID, pending[1].ID)
	})

	t.Run("bulk import marks records approved and verified", func(t *testing.T) {
		store := factory(t)

		require.NoError(t, store.BulkImport(ctx, []repositories.NewHotspot{
			newHotspot("Imported One", "7 Main St", "Library", 37.7, -122.4),
			newHotspot("Imported Two", "8 Main St", "Hotel", 37.8, -122.5),
		}))

		approved, err := store.ListApproved(ctx)
		require.NoError(t, err)
		require.Len(t, approved, 2)
		for _, h := range approved {
			assert.Equal(t, entities.ModerationApproved, h.ModerationStatus)
			assert.True(t, h.IsVerified)
			require.NotNil(t, h.SubmittedBy)
			assert.Equal(t, "csv_import", *h.SubmittedBy)
		}
	})

	t.Run("search matches name address and category, approved only", func(t *testing.T) {
		store := factory(t)

		seedApproved(t, store, newHotspot("Blue Bottle", "9 Coffee Row", "Cafe", 37.7, -122.4))
		seedApproved(t, store, newHotspot("City Library", "10 Main St", "Library", 37.7, -122.4))
		_, err := store.CreateHotspot(ctx, newHotspot("Pending Coffee", "11 Main St", "Coffee Shop", 37.7, -122.4))
		require.NoError(t, err)

		byAddress, err := store.SearchHotspots(ctx, "COFFEE")
		require.NoError(t, err)
		require.Len(t, byAddress, 1)
		assert.Equal(t, "Blue Bottle", byAddress[0].Name)

		byCategory, err := store.SearchHotspots(ctx, "library")
		require.NoError(t, err)
		require.Len(t, byCategory, 1)
		assert.Equal(t, "City Library", byCategory[0].Name)

		none, err := store.SearchHotspots(ctx, "aquarium")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("near location filters by radius, nearest first", func(t *testing.T) {
		store := factory(t)

		seedApproved(t, store, newHotspot("Origin", "12 Main St", "Cafe", 37.7749, -122.4194))
		seedApproved(t, store, newHotspot("Close By", "13 Main St", "Cafe", 37.7849, -122.4094)) // ~1.4 km
		seedApproved(t, store, newHotspot("Far Away", "14 Main St", "Cafe", 40.7128, -74.0060))
		_, err := store.CreateHotspot(ctx, newHotspot("Pending Near", "15 Main St", "Cafe", 37.7749, -122.4194))
		require.NoError(t, err)

		near, err := store.NearLocation(ctx, 37.7749, -122.4194, 10)
		require.NoError(t, err)
		require.Len(t, near, 2)
		assert.Equal(t, "Origin", near[0].Name)
		assert.Equal(t, "Close By", near[1].Name)

		exact, err := store.NearLocation(ctx, 37.7749, -122.4194, 0)
		require.NoError(t, err)
		require.Len(t, exact, 1)
		assert.Equal(t, "Origin", exact[0].Name)
	})

	t.Run("reviews drive rating aggregation", func(t *testing.T) {
		store := factory(t)

		hotspot := seedApproved(t, store, newHotspot("Rated Cafe", "16 Main St", "Cafe", 37.7, -122.4))

		review, err := store.CreateReview(ctx, repositories.NewReview{
			UserID:    1,
			HotspotID: hotspot.ID,
			Rating:    5,
			Comment:   strPtr("great connection speed"),
		})
		require.NoError(t, err)
		assert.Equal(t, entities.ReviewApproved, review.Status)

		require.NoError(t, store.RecomputeRating(ctx, hotspot.ID))
		got, err := store.GetHotspotByID(ctx, hotspot.ID)
		require.NoError(t, err)
		assert.Equal(t, 5.0, got.AverageRating)
		assert.Equal(t, 1, got.ReviewCount)

		_, err = store.CreateReview(ctx, repositories.NewReview{UserID: 2, HotspotID: hotspot.ID, Rating: 3})
		require.NoError(t, err)
		require.NoError(t, store.RecomputeRating(ctx, hotspot.ID))

		got, err = store.GetHotspotByID(ctx, hotspot.ID)
		require.NoError(t, err)
		assert.Equal(t, 4.0, got.AverageRating)
		assert.Equal(t, 2, got.ReviewCount)

		reviews, err := store.ListReviews(ctx, hotspot.ID)
		require.NoError(t, err)
		assert.Len(t, reviews, 2)
	})

	t.Run("recompute with no reviews resets to zero", func(t *testing.T) {
		store := factory(t)

		hotspot := seedApproved(t, store, newHotspot("Unrated", "17 Main St", "Cafe", 37.7, -122.4))
		require.NoError(t, store.RecomputeRating(ctx, hotspot.ID))

		got, err := store.GetHotspotByID(ctx, hotspot.ID)
		require.NoError(t, err)
		assert.Zero(t, got.AverageRating)
		assert.Zero(t, got.ReviewCount)
	})

	t.Run("photos require moderation before listing", func(t *testing.T) {
		store := factory(t)

		hotspot := seedApproved(t, store, newHotspot("Photo Cafe", "18 Main St", "Cafe", 37.7, -122.4))

		photo, err := store.CreatePhoto(ctx, repositories.NewPhoto{
			UserID:    1,
			HotspotID: hotspot.ID,
			PhotoURL:  "https://img.example/1.jpg",
		})
		require.NoError(t, err)
		assert.False(t, photo.Approved)

		listed, err := store.ListApprovedPhotos(ctx, hotspot.ID)
		require.NoError(t, err)
		assert.Empty(t, listed)

		require.NoError(t, store.ApprovePhoto(ctx, photo.ID))
		listed, err = store.ListApprovedPhotos(ctx, hotspot.ID)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.True(t, listed[0].Approved)

		// Approving a missing photo is a no-op.
		require.NoError(t, store.ApprovePhoto(ctx, 4242))
	})

	t.Run("favorites are idempotent and approved only", func(t *testing.T) {
		store := factory(t)

		hotspot := seedApproved(t, store, newHotspot("Fav Cafe", "19 Main St", "Cafe", 37.7, -122.4))
		pendingHotspot, err := store.CreateHotspot(ctx, newHotspot("Pending Fav", "20 Main St", "Cafe", 37.7, -122.4))
		require.NoError(t, err)

		require.NoError(t, store.AddFavorite(ctx, 1, hotspot.ID))
		require.NoError(t, store.AddFavorite(ctx, 1, hotspot.ID))
		require.NoError(t, store.AddFavorite(ctx, 1, pendingHotspot.ID))

		fav, err := store.IsFavorite(ctx, 1, hotspot.ID)
		require.NoError(t, err)
		assert.True(t, fav)

		favorites, err := store.ListFavorites(ctx, 1)
		require.NoError(t, err)
		require.Len(t, favorites, 1)
		assert.Equal(t, hotspot.ID, favorites[0].ID)

		require.NoError(t, store.RemoveFavorite(ctx, 1, hotspot.ID))
		require.NoError(t, store.RemoveFavorite(ctx, 1, hotspot.ID))

		fav, err = store.IsFavorite(ctx, 1, hotspot.ID)
		require.NoError(t, err)
		assert.False(t, fav)
	})
}
