package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceKm(t *testing.T) {
	a := Point{Lat: 31.6340, Lon: 74.8723}
	b := Point{Lat: 31.6200, Lon: 74.8765}

	d := DistanceKm(a, b)
	assert.InDelta(t, 1.67, d, 0.02)
}

func TestDistanceKm_Symmetric(t *testing.T) {
	pairs := [][2]Point{
		{{Lat: 31.6340, Lon: 74.8723}, {Lat: 31.6200, Lon: 74.8765}},
		{{Lat: 0, Lon: 0}, {Lat: -45.5, Lon: 120.25}},
		{{Lat: 89.9, Lon: -179.9}, {Lat: -89.9, Lon: 179.9}},
	}
	for _, p := range pairs {
		assert.Equal(t, DistanceKm(p[0], p[1]), DistanceKm(p[1], p[0]))
	}
}

func TestDistanceKm_ZeroForSamePoint(t *testing.T) {
	p := Point{Lat: 31.6340, Lon: 74.8723}
	assert.Zero(t, DistanceKm(p, p))
}

func TestTravelTimeMinutes(t *testing.T) {
	// 1.67 km at 30 km/h is roughly 3.3 minutes.
	assert.InDelta(t, 3.3, TravelTimeMinutes(1.67, 30), 0.1)
	assert.Zero(t, TravelTimeMinutes(10, 0))
}

func TestPointValidate(t *testing.T) {
	require.NoError(t, Point{Lat: 31.6, Lon: 74.8}.Validate())
	require.NoError(t, Point{Lat: -90, Lon: 180}.Validate())

	assert.Error(t, Point{Lat: 91, Lon: 0}.Validate())
	assert.Error(t, Point{Lat: -90.01, Lon: 0}.Validate())
	assert.Error(t, Point{Lat: 0, Lon: 180.5}.Validate())
	assert.Error(t, Point{Lat: 0, Lon: -181}.Validate())
}
