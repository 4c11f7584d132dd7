package student

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence contract for student aggregates.
type Repository interface {
	// FindByID retrieves a student by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Student, error)

	// FindByRollNumber retrieves a student by their roll number.
	FindByRollNumber(ctx context.Context, rollNumber string) (*Student, error)

	// List retrieves students with pagination, optionally filtered by a
	// case-insensitive name or roll number search.
	List(ctx context.Context, page, limit int, search string) ([]*Student, int64, error)

	// Save persists a new student.
	Save(ctx context.Context, s *Student) error

	// Update persists changes to an existing student.
	Update(ctx context.Context, s *Student) error

	// Delete removes a student.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the total number of students.
	Count(ctx context.Context) (int64, error)
}
