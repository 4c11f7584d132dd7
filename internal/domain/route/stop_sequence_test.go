package route

import (
	"testing"

	"github.com/fleetdash/service-fleet/internal/domain/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSpeedKmh = 30

func seqWithStops(t *testing.T, n int) *StopSequence {
	t.Helper()
	s := NewStopSequence(testSpeedKmh)
	points := []geo.Point{
		{Lat: 31.6340, Lon: 74.8723},
		{Lat: 31.6200, Lon: 74.8765},
		{Lat: 31.6100, Lon: 74.8800},
		{Lat: 31.6050, Lon: 74.8900},
		{Lat: 31.5990, Lon: 74.8950},
	}
	require.LessOrEqual(t, n, len(points))
	names := []string{"Golden Temple", "Hall Gate", "Bus Stand", "Railway Station", "Airport Road"}
	for i := 0; i < n; i++ {
		s.Append(names[i], points[i])
	}
	return s
}

func assertOrderDense(t *testing.T, s *StopSequence) {
	t.Helper()
	stops := s.Stops()
	for i, st := range stops {
		assert.Equal(t, i+1, st.Order, "order must match position for stop %q", st.Name)
	}
}

func TestAppend_DerivedFields(t *testing.T) {
	s := seqWithStops(t, 2)
	stops := s.Stops()

	assert.Zero(t, stops[0].DistanceFromPrevious)
	assert.Zero(t, stops[0].EstTimeFromPrevious)

	// Haversine between the two Amritsar points is about 1.67 km, roughly
	// 3.3 minutes at 30 km/h.
	assert.InDelta(t, 1.67, stops[1].DistanceFromPrevious, 0.02)
	assert.InDelta(t, 3.3, stops[1].EstTimeFromPrevious, 0.1)

	assertOrderDense(t, s)
}

func TestRemove_ReassignsOrderDensely(t *testing.T) {
	s := seqWithStops(t, 4)
	middle := s.Stops()[1]

	s.Remove(middle.ID)

	require.Equal(t, 3, s.Len())
	assertOrderDense(t, s)

	// The stop after the removed one is re-derived against its new
	// predecessor.
	stops := s.Stops()
	want := geo.DistanceKm(stops[0].Location, stops[1].Location)
	assert.InDelta(t, want, stops[1].DistanceFromPrevious, 1e-12)
}

func TestRemove_UnknownIDIsNoOp(t *testing.T) {
	s := seqWithStops(t, 3)
	before := s.Stops()

	s.Remove("does-not-exist")

	assert.Equal(t, before, s.Stops())
}

func TestReorder(t *testing.T) {
	s := seqWithStops(t, 3)
	stops := s.Stops()
	last := stops[2]

	require.NoError(t, s.Reorder(last.ID, 0))

	got := s.Stops()
	assert.Equal(t, last.ID, got[0].ID)
	assert.Zero(t, got[0].DistanceFromPrevious)
	assert.Zero(t, got[0].EstTimeFromPrevious)
	assertOrderDense(t, s)
}

func TestReorder_InvalidIndex(t *testing.T) {
	s := seqWithStops(t, 3)
	id := s.Stops()[0].ID

	var idxErr *InvalidIndexError
	require.ErrorAs(t, s.Reorder(id, 3), &idxErr)
	assert.Equal(t, 3, idxErr.Index)
	require.ErrorAs(t, s.Reorder(id, -1), &idxErr)
}

func TestRelocate_RecomputesNeighbours(t *testing.T) {
	s := seqWithStops(t, 3)
	middle := s.Stops()[1]

	moved := geo.Point{Lat: 31.6000, Lon: 74.8600}
	s.Relocate(middle.ID, moved)

	stops := s.Stops()
	assert.Equal(t, moved, stops[1].Location)
	assert.InDelta(t, geo.DistanceKm(stops[0].Location, moved), stops[1].DistanceFromPrevious, 1e-12)
	assert.InDelta(t, geo.DistanceKm(moved, stops[2].Location), stops[2].DistanceFromPrevious, 1e-12)
}

func TestRecompute_Idempotent(t *testing.T) {
	s := seqWithStops(t, 4)
	first := s.Stops()

	s.recompute()
	s.recompute()

	assert.Equal(t, first, s.Stops())
}

func TestFirstStopZero_AfterMutationHistory(t *testing.T) {
	s := seqWithStops(t, 5)

	s.Remove(s.Stops()[0].ID)
	require.NoError(t, s.Reorder(s.Stops()[3].ID, 0))
	s.Relocate(s.Stops()[0].ID, geo.Point{Lat: 31.64, Lon: 74.87})
	s.Remove(s.Stops()[2].ID)

	stops := s.Stops()
	assert.Zero(t, stops[0].DistanceFromPrevious)
	assert.Zero(t, stops[0].EstTimeFromPrevious)
	assertOrderDense(t, s)
}

func TestTotals(t *testing.T) {
	s := seqWithStops(t, 4)

	var wantDist, wantTime float64
	for _, st := range s.Stops() {
		wantDist += st.DistanceFromPrevious
		wantTime += st.EstTimeFromPrevious
	}

	assert.Equal(t, wantDist, s.TotalDistance())
	assert.Equal(t, wantTime, s.TotalTime())
}

func TestEmptySequenceTotals(t *testing.T) {
	s := NewStopSequence(testSpeedKmh)
	assert.Zero(t, s.TotalDistance())
	assert.Zero(t, s.TotalTime())
	assert.Zero(t, s.Len())
}
