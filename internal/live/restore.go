package live

import (
	"context"

	"go.uber.org/zap"
)

// PositionSource lists previously mirrored positions.
type PositionSource interface {
	All(ctx context.Context) ([]Position, error)
}

// Restore loads mirrored positions into the store so the live map is warm
// after a restart, before the first location message arrives. Mirrored
// timestamps are kept, so positions that went stale while the service was
// down stay invisible and get pruned as usual.
func Restore(ctx context.Context, store *Store, src PositionSource, logger *zap.Logger) error {
	positions, err := src.All(ctx)
	if err != nil {
		return err
	}
	for _, p := range positions {
		store.Upsert(p)
	}
	logger.Info("restored live positions", zap.Int("count", len(positions)))
	return nil
}
