package route

import (
	"time"

	"github.com/google/uuid"
)

// Route is the aggregate root for the route domain: a named, ordered
// sequence of stops with aggregate distance and travel-time metrics.
// Routes are built whole through a Builder session and submitted whole;
// the remote store owns them afterwards.
type Route struct {
	id               uuid.UUID
	name             string
	startLocation    string
	endLocation      string
	totalDistanceKm  float64
	totalTimeMinutes float64
	stops            []Stop
	createdAt        time.Time
	updatedAt        time.Time
}

// ReconstructRoute rebuilds a Route from persistence data (no validation).
func ReconstructRoute(
	id uuid.UUID,
	name string,
	startLocation string,
	endLocation string,
	totalDistanceKm float64,
	totalTimeMinutes float64,
	stops []Stop,
	createdAt time.Time,
	updatedAt time.Time,
) *Route {
	return &Route{
		id:               id,
		name:             name,
		startLocation:    startLocation,
		endLocation:      endLocation,
		totalDistanceKm:  totalDistanceKm,
		totalTimeMinutes: totalTimeMinutes,
		stops:            stops,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// ID returns the route's unique identifier.
func (r *Route) ID() uuid.UUID { return r.id }

// Name returns the route name.
func (r *Route) Name() string { return r.name }

// StartLocation returns the name of the first stop.
func (r *Route) StartLocation() string { return r.startLocation }

// EndLocation returns the name of the last stop.
func (r *Route) EndLocation() string { return r.endLocation }

// TotalDistanceKm returns the sum of all per-segment distances.
func (r *Route) TotalDistanceKm() float64 { return r.totalDistanceKm }

// TotalTimeMinutes returns the sum of all per-segment time estimates.
func (r *Route) TotalTimeMinutes() float64 { return r.totalTimeMinutes }

// Stops returns a copy of the ordered stop snapshot.
func (r *Route) Stops() []Stop {
	out := make([]Stop, len(r.stops))
	copy(out, r.stops)
	return out
}

// StopByID returns the stop with the given id, if present.
func (r *Route) StopByID(stopID string) (Stop, bool) {
	for _, s := range r.stops {
		if s.ID == stopID {
			return s, true
		}
	}
	return Stop{}, false
}

// CreatedAt returns the creation timestamp.
func (r *Route) CreatedAt() time.Time { return r.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (r *Route) UpdatedAt() time.Time { return r.updatedAt }
