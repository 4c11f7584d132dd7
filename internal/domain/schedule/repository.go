package schedule

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for schedule aggregates.
type Repository interface {
	// FindByID retrieves a schedule with its stop timings.
	FindByID(ctx context.Context, id uuid.UUID) (*Schedule, error)

	// List retrieves schedules with pagination.
	List(ctx context.Context, page, limit int) ([]*Schedule, int64, error)

	// ListAll retrieves every schedule, used for recurrence filtering.
	ListAll(ctx context.Context) ([]*Schedule, error)

	// Save persists a new schedule together with its stop timings.
	Save(ctx context.Context, s *Schedule) error

	// Delete removes a schedule and its stop timings.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the total number of schedules.
	Count(ctx context.Context) (int64, error)
}
