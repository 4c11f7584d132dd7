package route

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for route aggregates.
type Repository interface {
	// FindByID retrieves a route with its stops by unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Route, error)

	// List retrieves routes with pagination, optionally filtered by a
	// case-insensitive name search.
	List(ctx context.Context, page, limit int, search string) ([]*Route, int64, error)

	// Save persists a new route together with its stops.
	Save(ctx context.Context, r *Route) error

	// Update replaces an existing route and its stop set.
	Update(ctx context.Context, r *Route) error

	// Delete removes a route and its stops.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the total number of routes.
	Count(ctx context.Context) (int64, error)

	// CountStops returns the number of stops across all routes.
	CountStops(ctx context.Context) (int64, error)
}
