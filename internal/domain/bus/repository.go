package bus

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for bus aggregates.
type Repository interface {
	// FindByID retrieves a bus by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Bus, error)

	// FindByNumber retrieves a bus by its fleet-unique number.
	FindByNumber(ctx context.Context, number string) (*Bus, error)

	// List retrieves buses with pagination, optionally filtered by a
	// case-insensitive number search.
	List(ctx context.Context, page, limit int, search string) ([]*Bus, int64, error)

	// Save persists a new bus.
	Save(ctx context.Context, b *Bus) error

	// Update persists changes to an existing bus.
	Update(ctx context.Context, b *Bus) error

	// Delete removes a bus.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the total number of buses.
	Count(ctx context.Context) (int64, error)
}
