package geo

import (
	"fmt"
	"math"

	"github.com/fleetdash/service-fleet/internal/domain"
)

const earthRadiusKm = 6371.0

// Point is an immutable WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate checks that the point lies within the valid coordinate ranges.
func (p Point) Validate() error {
	if p.Lat < -90 || p.Lat > 90 {
		return domain.NewValidationError(fmt.Sprintf("latitude %v out of range [-90,90]", p.Lat))
	}
	if p.Lon < -180 || p.Lon > 180 {
		return domain.NewValidationError(fmt.Sprintf("longitude %v out of range [-180,180]", p.Lon))
	}
	return nil
}

// DistanceKm returns the great-circle (haversine) distance between a and b
// in kilometers.
func DistanceKm(a, b Point) float64 {
	dLat := degreesToRadians(b.Lat - a.Lat)
	dLon := degreesToRadians(b.Lon - a.Lon)

	latA := degreesToRadians(a.Lat)
	latB := degreesToRadians(b.Lat)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(latA)*math.Cos(latB)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

// TravelTimeMinutes estimates travel time in minutes for a distance at the
// given average speed in km/h.
func TravelTimeMinutes(distanceKm, averageSpeedKmh float64) float64 {
	if averageSpeedKmh <= 0 {
		return 0
	}
	return distanceKm / averageSpeedKmh * 60
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}
