package live

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreUpsertAndGet(t *testing.T) {
	s := NewStore(5 * time.Minute)

	s.Upsert(Position{BusNumber: "PB-02-1234", Lat: 31.6340, Lng: 74.8723, HDOP: 0.9})

	p, ok := s.Get("PB-02-1234")
	require.True(t, ok)
	assert.InDelta(t, 31.6340, p.Lat, 1e-9)
	assert.False(t, p.UpdatedAt.IsZero())

	_, ok = s.Get("PB-99-0000")
	assert.False(t, ok)
}

func TestStoreLatestWins(t *testing.T) {
	s := NewStore(5 * time.Minute)

	s.Upsert(Position{BusNumber: "PB-02-1234", Lat: 31.6340, Lng: 74.8723})
	s.Upsert(Position{BusNumber: "PB-02-1234", Lat: 31.6200, Lng: 74.8765})

	p, ok := s.Get("PB-02-1234")
	require.True(t, ok)
	assert.InDelta(t, 31.6200, p.Lat, 1e-9)
	assert.Equal(t, 1, s.Len())
}

func TestStoreStaleness(t *testing.T) {
	s := NewStore(5 * time.Minute)
	current := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	s.Upsert(Position{BusNumber: "fresh"})
	current = current.Add(3 * time.Minute)
	s.Upsert(Position{BusNumber: "newer"})
	current = current.Add(3 * time.Minute)

	// "fresh" is now 6 minutes old, "newer" only 3.
	_, ok := s.Get("fresh")
	assert.False(t, ok)
	_, ok = s.Get("newer")
	assert.True(t, ok)

	snapshot := s.Snapshot()
	assert.Len(t, snapshot, 1)

	removed := s.Prune()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, s.Len())
}
