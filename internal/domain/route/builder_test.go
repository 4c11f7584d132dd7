package route

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fleetdash/service-fleet/internal/domain/geo"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSnapper returns the input point shifted slightly, or a canned error.
type stubSnapper struct {
	err error
}

func (s *stubSnapper) Nearest(_ context.Context, p geo.Point) (geo.Point, error) {
	if s.err != nil {
		return geo.Point{}, s.err
	}
	return geo.Point{Lat: p.Lat + 0.0001, Lon: p.Lon}, nil
}

func builderWithStops(t *testing.T, n int) *Builder {
	t.Helper()
	b := NewBuilder(&stubSnapper{}, testSpeedKmh)
	points := []geo.Point{
		{Lat: 31.6340, Lon: 74.8723},
		{Lat: 31.6200, Lon: 74.8765},
		{Lat: 31.6100, Lon: 74.8800},
	}
	names := []string{"Golden Temple", "Hall Gate", "Bus Stand"}
	for i := 0; i < n; i++ {
		_, err := b.AddStop(names[i], points[i])
		require.NoError(t, err)
	}
	return b
}

func TestBuild(t *testing.T) {
	b := builderWithStops(t, 3)

	r, err := b.Build("City Circle")
	require.NoError(t, err)

	assert.Equal(t, "City Circle", r.Name())
	assert.Equal(t, "Golden Temple", r.StartLocation())
	assert.Equal(t, "Bus Stand", r.EndLocation())
	assert.Len(t, r.Stops(), 3)

	var wantDist float64
	for _, s := range r.Stops() {
		wantDist += s.DistanceFromPrevious
	}
	assert.Equal(t, wantDist, r.TotalDistanceKm())
}

func TestBuild_NameTooShort(t *testing.T) {
	b := builderWithStops(t, 2)

	_, err := b.Build("Hi")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestBuild_InsufficientStops(t *testing.T) {
	b := builderWithStops(t, 1)

	_, err := b.Build("Valid Route")
	assert.ErrorIs(t, err, ErrInsufficientStops)
}

func TestAddStop_EmptyName(t *testing.T) {
	b := NewBuilder(&stubSnapper{}, testSpeedKmh)

	_, err := b.AddStop("   ", geo.Point{Lat: 31.63, Lon: 74.87})
	assert.ErrorIs(t, err, ErrEmptyStopName)
	assert.Zero(t, b.Len())
}

func TestSnapToRoad_Failure(t *testing.T) {
	b := NewBuilder(&stubSnapper{err: ErrNoNearbyRoad}, testSpeedKmh)

	_, err := b.SnapToRoad(context.Background(), geo.Point{Lat: 31.63, Lon: 74.87})
	assert.ErrorIs(t, err, ErrNoNearbyRoad)
	assert.Zero(t, b.Len(), "a failed snap must not mutate the session")
}

func TestSnapToRoad_RejectsInvalidPoint(t *testing.T) {
	b := NewBuilder(&stubSnapper{}, testSpeedKmh)

	_, err := b.SnapToRoad(context.Background(), geo.Point{Lat: 95, Lon: 0})
	assert.Error(t, err)
}

func TestNewBuilderFromRoute_RederivesFields(t *testing.T) {
	persisted := ReconstructRoute(
		uuid.New(),
		"City Circle",
		"Golden Temple",
		"Hall Gate",
		99, // tampered aggregate, must not be trusted
		99,
		[]Stop{
			{ID: "a", Name: "Golden Temple", Location: geo.Point{Lat: 31.6340, Lon: 74.8723}, Order: 1, DistanceFromPrevious: 42, EstTimeFromPrevious: 42},
			{ID: "b", Name: "Hall Gate", Location: geo.Point{Lat: 31.6200, Lon: 74.8765}, Order: 2, DistanceFromPrevious: 42, EstTimeFromPrevious: 42},
		},
		time.Now().UTC(),
		time.Now().UTC(),
	)

	b := NewBuilderFromRoute(persisted, &stubSnapper{}, testSpeedKmh)
	stops := b.Stops()

	require.Len(t, stops, 2)
	assert.Equal(t, "a", stops[0].ID)
	assert.Zero(t, stops[0].DistanceFromPrevious)
	assert.InDelta(t, 1.67, stops[1].DistanceFromPrevious, 0.02)
}

func TestRebuild_KeepsIdentity(t *testing.T) {
	b := builderWithStops(t, 2)
	original, err := b.Build("City Circle")
	require.NoError(t, err)

	edit := NewBuilderFromRoute(original, &stubSnapper{}, testSpeedKmh)
	_, err = edit.AddStop("Bus Stand", geo.Point{Lat: 31.6100, Lon: 74.8800})
	require.NoError(t, err)

	updated, err := edit.Rebuild(original, "City Circle Express")
	require.NoError(t, err)

	assert.Equal(t, original.ID(), updated.ID())
	assert.Equal(t, original.CreatedAt(), updated.CreatedAt())
	assert.Equal(t, "City Circle Express", updated.Name())
	assert.Equal(t, "Bus Stand", updated.EndLocation())
}

func TestReorderStop_PropagatesInvalidIndex(t *testing.T) {
	b := builderWithStops(t, 2)
	id := b.Stops()[0].ID

	var idxErr *InvalidIndexError
	assert.True(t, errors.As(b.ReorderStop(id, 5), &idxErr))
}
