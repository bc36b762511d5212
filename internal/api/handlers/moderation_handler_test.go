package handlers_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotspotsapp/wifi-directory/internal/application/services"
	"github.com/hotspotsapp/wifi-directory/internal/domain/entities"
)

func (f *fixture) createPending(t *testing.T, name string) *entities.Hotspot {
	t.Helper()
	lat, lng := 37.7749, -122.4194
	created, err := f.service.Create(context.Background(), services.HotspotInput{
		Name:      name,
		Address:   "123 Main St",
		Category:  "cafe",
		Latitude:  &lat,
		Longitude: &lng,
	})
	require.NoError(t, err)
	return created
}

func TestListPending(t *testing.T) {
	f := newFixture()
	first := f.createPending(t, "First Cafe")
	second := f.createPending(t, "Second Cafe")

	rec := f.do(t, http.MethodGet, "/api/admin/hotspots/pending", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var pending []entities.Hotspot
	decodeBody(t, rec, &pending)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID, "queue is oldest first")
	assert.Equal(t, second.ID, pending[1].ID)
}

func TestListAll(t *testing.T) {
	f := newFixture()
	f.createApproved(t, "Approved Cafe", 37.7749, -122.4194)
	f.createPending(t, "Pending Cafe")

	rec := f.do(t, http.MethodGet, "/api/admin/hotspots/all", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Approved []entities.Hotspot `json:"approved"`
		Pending  []entities.Hotspot `json:"pending"`
	}
	decodeBody(t, rec, &body)
	assert.Len(t, body.Approved, 1)
	assert.Len(t, body.Pending, 1)
}

func TestApproveHotspot(t *testing.T) {
	f := newFixture()
	created := f.createPending(t, "Pending Cafe")

	rec := f.do(t, http.MethodPost, fmt.Sprintf("/api/admin/hotspots/%d/approve", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	decodeBody(t, rec, &body)
	assert.True(t, body.Success)

	got, err := f.service.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ModerationApproved, got.ModerationStatus)
}

func TestRejectHotspot(t *testing.T) {
	f := newFixture()
	created := f.createPending(t, "Pending Cafe")

	rec := f.do(t, http.MethodPost, fmt.Sprintf("/api/admin/hotspots/%d/reject", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got, err := f.service.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ModerationRejected, got.ModerationStatus)

	listed, err := f.service.ListApproved(context.Background())
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestApproveHotspot_MissingIDIsNoOp(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodPost, "/api/admin/hotspots/999/approve", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestApproveHotspot_InvalidID(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodPost, "/api/admin/hotspots/abc/approve", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApprovePhotoEndpoint(t *testing.T) {
	f := newFixture()
	created := f.createApproved(t, "Test Cafe", 37.7749, -122.4194)

	photo, err := f.service.CreatePhoto(context.Background(), services.PhotoInput{
		UserID:    1,
		HotspotID: created.ID,
		PhotoURL:  "https://img.example.com/1.jpg",
	})
	require.NoError(t, err)

	rec := f.do(t, http.MethodPost, fmt.Sprintf("/api/admin/photos/%d/approve", photo.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	photos, err := f.service.ListPhotos(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Len(t, photos, 1)
}
