package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hotspotsapp/wifi-directory/internal/domain/geo"
)

func TestDistanceKm_SamePointIsZero(t *testing.T) {
	assert.InDelta(t, 0, geo.DistanceKm(37.7749, -122.4194, 37.7749, -122.4194), 1e-9)
	assert.InDelta(t, 0, geo.DistanceKm(0, 0, 0, 0), 1e-9)
}

func TestDistanceKm_Symmetry(t *testing.T) {
	d1 := geo.DistanceKm(37.7749, -122.4194, 40.7128, -74.0060)
	d2 := geo.DistanceKm(40.7128, -74.0060, 37.7749, -122.4194)
	assert.InDelta(t, d1, d2, 1e-9)
}

func TestDistanceKm_OneDegreeLatitude(t *testing.T) {
	// One degree of latitude is roughly 111 km anywhere on the globe.
	d := geo.DistanceKm(37.0, -122.0, 38.0, -122.0)
	assert.InDelta(t, 111.0, d, 1.0)
}

func TestDistanceKm_KnownCityPair(t *testing.T) {
	// San Francisco to Los Angeles is about 559 km great-circle.
	d := geo.DistanceKm(37.7749, -122.4194, 34.0522, -118.2437)
	assert.InDelta(t, 559, d, 5)
}
