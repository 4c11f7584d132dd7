package live

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePositionSource struct {
	positions []Position
	err       error
}

func (f *fakePositionSource) All(context.Context) ([]Position, error) {
	return f.positions, f.err
}

func TestRestore(t *testing.T) {
	s := NewStore(5 * time.Minute)
	current := time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	src := &fakePositionSource{positions: []Position{
		{BusNumber: "PB-02-1234", Lat: 31.6340, Lng: 74.8723, UpdatedAt: current.Add(-1 * time.Minute)},
		{BusNumber: "PB-05-7777", Lat: 31.6200, Lng: 74.8765, UpdatedAt: current.Add(-10 * time.Minute)},
	}}
	require.NoError(t, Restore(context.Background(), s, src, zap.NewNop()))

	// Mirrored timestamps survive the restore, so the position that went
	// stale while the service was down stays invisible.
	p, ok := s.Get("PB-02-1234")
	require.True(t, ok)
	assert.Equal(t, current.Add(-1*time.Minute), p.UpdatedAt)

	_, ok = s.Get("PB-05-7777")
	assert.False(t, ok)
}

func TestRestore_SourceFailure(t *testing.T) {
	s := NewStore(5 * time.Minute)
	src := &fakePositionSource{err: errors.New("connection refused")}

	err := Restore(context.Background(), s, src, zap.NewNop())
	assert.Error(t, err)
	assert.Equal(t, 0, s.Len())
}
