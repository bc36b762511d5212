package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotspotsapp/wifi-directory/internal/adapters/memory"
	"github.com/hotspotsapp/wifi-directory/internal/api/handlers"
	"github.com/hotspotsapp/wifi-directory/internal/api/routes"
	"github.com/hotspotsapp/wifi-directory/internal/application/services"
	"github.com/hotspotsapp/wifi-directory/internal/domain/entities"
	"github.com/hotspotsapp/wifi-directory/pkg/config"
)

type fixture struct {
	handler http.Handler
	service *services.DirectoryService
}

func newFixture() *fixture {
	service := services.NewDirectoryService(memory.NewStore())
	router := routes.NewRouter(
		handlers.NewHotspotHandler(service),
		handlers.NewModerationHandler(service),
		handlers.NewReviewHandler(service),
		handlers.NewPhotoHandler(service),
		handlers.NewFavoriteHandler(service),
		config.StorageDriverMemory,
	)
	return &fixture{
		handler: router.SetupRoutes(),
		service: service,
	}
}

func (f *fixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) createApproved(t *testing.T, name string, lat, lng float64) *entities.Hotspot {
	t.Helper()
	created, err := f.service.Create(context.Background(), services.HotspotInput{
		Name:      name,
		Address:   "123 Main St",
		Category:  "cafe",
		Latitude:  &lat,
		Longitude: &lng,
	})
	require.NoError(t, err)
	require.NoError(t, f.service.Approve(context.Background(), created.ID))
	return created
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func TestHealthReportsStorageDriver(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "memory", body["storage"])
}

func TestListHotspots_OnlyApproved(t *testing.T) {
	f := newFixture()
	f.createApproved(t, "Visible Cafe", 37.7749, -122.4194)

	lat, lng := 37.78, -122.42
	_, err := f.service.Create(context.Background(), services.HotspotInput{
		Name:      "Hidden Cafe",
		Address:   "456 Side St",
		Category:  "cafe",
		Latitude:  &lat,
		Longitude: &lng,
	})
	require.NoError(t, err)

	rec := f.do(t, http.MethodGet, "/api/hotspots", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []entities.Hotspot
	decodeBody(t, rec, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, "Visible Cafe", listed[0].Name)
}

func TestGetHotspot(t *testing.T) {
	f := newFixture()
	created := f.createApproved(t, "Test Cafe", 37.7749, -122.4194)

	rec := f.do(t, http.MethodGet, fmt.Sprintf("/api/hotspots/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got entities.Hotspot
	decodeBody(t, rec, &got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Test Cafe", got.Name)
}

func TestGetHotspot_NotFound(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodGet, "/api/hotspots/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetHotspot_InvalidID(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodGet, "/api/hotspots/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateHotspot(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodPost, "/api/hotspots", map[string]interface{}{
		"name":      "New Cafe",
		"address":   "789 New St",
		"category":  "cafe",
		"latitude":  37.7749,
		"longitude": -122.4194,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created entities.Hotspot
	decodeBody(t, rec, &created)
	assert.NotZero(t, created.ID)
	assert.Equal(t, entities.ModerationPending, created.ModerationStatus)
	assert.True(t, created.IsFree)
}

func TestCreateHotspot_ValidationErrors(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodPost, "/api/hotspots", map[string]interface{}{
		"address":   "789 New St",
		"category":  "cafe",
		"latitude":  137.7749,
		"longitude": -122.4194,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body struct {
		Message string `json:"message"`
		Errors  []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	decodeBody(t, rec, &body)
	require.NotEmpty(t, body.Errors)

	fields := make(map[string]bool)
	for _, fe := range body.Errors {
		fields[fe.Field] = true
	}
	assert.True(t, fields["name"])
	assert.True(t, fields["latitude"])
}

func TestCreateHotspot_MalformedBody(t *testing.T) {
	f := newFixture()

	req := httptest.NewRequest(http.MethodPost, "/api/hotspots", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchHotspots(t *testing.T) {
	f := newFixture()
	f.createApproved(t, "Corner Coffee", 37.7749, -122.4194)
	f.createApproved(t, "Main Library", 37.7750, -122.4195)

	rec := f.do(t, http.MethodGet, "/api/hotspots/search?q=coffee", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []entities.Hotspot
	decodeBody(t, rec, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, "Corner Coffee", listed[0].Name)
}

func TestSearchHotspots_MissingQuery(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodGet, "/api/hotspots/search", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNearbyHotspots(t *testing.T) {
	f := newFixture()
	f.createApproved(t, "Near Cafe", 37.7749, -122.4194)
	f.createApproved(t, "Far Cafe", 38.5, -122.4194)

	rec := f.do(t, http.MethodGet, "/api/hotspots/near/37.7749/-122.4194", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []entities.Hotspot
	decodeBody(t, rec, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, "Near Cafe", listed[0].Name)
}

func TestNearbyHotspots_CustomRadius(t *testing.T) {
	f := newFixture()
	f.createApproved(t, "Near Cafe", 37.7749, -122.4194)
	f.createApproved(t, "Far Cafe", 38.5, -122.4194)

	rec := f.do(t, http.MethodGet, "/api/hotspots/near/37.7749/-122.4194?radius=200", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []entities.Hotspot
	decodeBody(t, rec, &listed)
	assert.Len(t, listed, 2)
}

func TestNearbyHotspots_InvalidCoordinates(t *testing.T) {
	f := newFixture()

	rec := f.do(t, http.MethodGet, "/api/hotspots/near/abc/-122.4194", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/hotspots/near/95/-122.4194", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
