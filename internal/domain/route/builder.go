package route

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fleetdash/service-fleet/internal/domain"
	"github.com/fleetdash/service-fleet/internal/domain/geo"
	"github.com/google/uuid"
)

// Build and placement preconditions.
var (
	// ErrNoNearbyRoad means the road-snap service returned no candidate for
	// the picked point. The placement is rejected and no state is mutated.
	ErrNoNearbyRoad = domain.NewValidationError("no road near the selected point")

	// ErrInsufficientStops means a route was submitted with fewer than two stops.
	ErrInsufficientStops = domain.NewValidationError("route needs at least two stops")

	// ErrInvalidName means the route name is shorter than three characters.
	ErrInvalidName = domain.NewValidationError("route name must be at least 3 characters")

	// ErrEmptyStopName means a stop was added without a name.
	ErrEmptyStopName = domain.NewValidationError("stop name is required")
)

// Snapper adjusts a raw map coordinate to the nearest point on the road
// network. Implementations return ErrNoNearbyRoad (possibly wrapped) when no
// candidate exists, or a *domain.UnavailableError on transport failure.
type Snapper interface {
	Nearest(ctx context.Context, p geo.Point) (geo.Point, error)
}

// Builder is a route-authoring session: it turns snapped map points into a
// validated stop sequence and assembles a submittable Route. A session is
// owned by the flow that created it; all mutations are serialized behind a
// single-writer lock.
type Builder struct {
	mu      sync.Mutex
	seq     *StopSequence
	snapper Snapper
}

// NewBuilder starts an empty route-authoring session.
func NewBuilder(snapper Snapper, averageSpeedKmh float64) *Builder {
	return &Builder{
		seq:     NewStopSequence(averageSpeedKmh),
		snapper: snapper,
	}
}

// NewBuilderFromRoute starts an editing session from a persisted route. Stop
// ids and order are preserved; the derived distance/time fields are
// re-derived rather than trusted from storage.
func NewBuilderFromRoute(r *Route, snapper Snapper, averageSpeedKmh float64) *Builder {
	b := NewBuilder(snapper, averageSpeedKmh)
	for _, s := range r.Stops() {
		b.seq.appendExisting(s.ID, s.Name, s.Location)
	}
	return b
}

// SnapToRoad delegates to the road-snap collaborator. On failure the session
// state is untouched and the caller must not place the stop.
func (b *Builder) SnapToRoad(ctx context.Context, p geo.Point) (geo.Point, error) {
	if err := p.Validate(); err != nil {
		return geo.Point{}, err
	}
	return b.snapper.Nearest(ctx, p)
}

// AddStop appends a stop with a previously snapped location.
func (b *Builder) AddStop(name string, snapped geo.Point) (Stop, error) {
	if strings.TrimSpace(name) == "" {
		return Stop{}, ErrEmptyStopName
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seq.Append(name, snapped), nil
}

// RemoveStop removes the stop with the given id; unknown ids are a no-op.
func (b *Builder) RemoveStop(stopID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq.Remove(stopID)
}

// ReorderStop moves a stop to a new 0-based position.
func (b *Builder) ReorderStop(stopID string, newIndex int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seq.Reorder(stopID, newIndex)
}

// RelocateStop changes the coordinates of an existing stop to a previously
// snapped location.
func (b *Builder) RelocateStop(stopID string, snapped geo.Point) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq.Relocate(stopID, snapped)
}

// Stops returns the current ordered stop snapshot.
func (b *Builder) Stops() []Stop {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seq.Stops()
}

// Len returns the number of stops in the session.
func (b *Builder) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seq.Len()
}

// Build validates the session and assembles a new Route.
func (b *Builder) Build(name string) (*Route, error) {
	return b.build(uuid.New(), name, time.Now().UTC(), time.Now().UTC())
}

// Rebuild validates the session and assembles an updated Route that keeps
// the identity and creation time of an existing one.
func (b *Builder) Rebuild(existing *Route, name string) (*Route, error) {
	return b.build(existing.ID(), name, existing.CreatedAt(), time.Now().UTC())
}

func (b *Builder) build(id uuid.UUID, name string, createdAt, updatedAt time.Time) (*Route, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.seq.Len() < 2 {
		return nil, ErrInsufficientStops
	}
	if len(strings.TrimSpace(name)) < 3 {
		return nil, ErrInvalidName
	}

	stops := b.seq.Stops()
	return &Route{
		id:               id,
		name:             name,
		startLocation:    stops[0].Name,
		endLocation:      stops[len(stops)-1].Name,
		totalDistanceKm:  b.seq.TotalDistance(),
		totalTimeMinutes: b.seq.TotalTime(),
		stops:            stops,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}, nil
}
