package geo_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wobin1/citizen-safety-backend/internal/geo"
)

func TestDistanceKm_SamePointIsZero(t *testing.T) {
	t.Parallel()

	points := [][2]float64{
		{0, 0},
		{55.75, 37.61},
		{-33.8688, 151.2093},
		{90, 0},
		{-90, 180},
	}

	for _, p := range points {
		assert.Zero(t, geo.DistanceKm(p[0], p[1], p[0], p[1]))
	}
}

func TestDistanceKm_Symmetric(t *testing.T) {
	t.Parallel()

	d1 := geo.DistanceKm(40.7128, -74.0060, 34.0522, -118.2437)
	d2 := geo.DistanceKm(34.0522, -118.2437, 40.7128, -74.0060)

	assert.Equal(t, d1, d2)
}

func TestDistanceKm_NewYorkToLosAngeles(t *testing.T) {
	t.Parallel()

	d := geo.DistanceKm(40.7128, -74.0060, 34.0522, -118.2437)

	assert.Greater(t, d, 3935.0)
	assert.Less(t, d, 3945.0)
}

func TestDistanceKm_SmallOffsets(t *testing.T) {
	t.Parallel()

	// ~5.5 km for 0.05 degrees of longitude at the equator.
	d := geo.DistanceKm(0, 0, 0, 0.05)
	assert.InDelta(t, 5.56, d, 0.1)

	// ~157 km for one degree of both at the equator.
	d = geo.DistanceKm(0, 0, 1, 1)
	assert.InDelta(t, 157.2, d, 1.0)
}
