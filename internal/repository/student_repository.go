package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fleetdash/service-fleet/internal/domain"
	studentDomain "github.com/fleetdash/service-fleet/internal/domain/student"
)

// StudentModel is the GORM model for the students table.
type StudentModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	RollNumber string    `gorm:"uniqueIndex;not null;size:30"`
	Name       string    `gorm:"not null;size:100;index"`
	Stream     string    `gorm:"size:50"`
	Address    string    `gorm:"size:255"`
	MobileNo   string    `gorm:"size:20"`
	Email      string    `gorm:"size:100"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (StudentModel) TableName() string {
	return "students"
}

// GormStudentRepository is the GORM-based implementation of student.Repository.
type GormStudentRepository struct {
	db *gorm.DB
}

// NewGormStudentRepository creates a new GormStudentRepository.
func NewGormStudentRepository(db *gorm.DB) *GormStudentRepository {
	return &GormStudentRepository{db: db}
}

// FindByID retrieves a student by its unique identifier.
func (r *GormStudentRepository) FindByID(ctx context.Context, id uuid.UUID) (*studentDomain.Student, error) {
	var model StudentModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Student", id.String())
		}
		return nil, fmt.Errorf("failed to find student by ID: %w", err)
	}
	return toDomainStudent(&model), nil
}

// FindByRollNumber retrieves a student by their roll number.
func (r *GormStudentRepository) FindByRollNumber(ctx context.Context, rollNumber string) (*studentDomain.Student, error) {
	var model StudentModel
	if err := r.db.WithContext(ctx).Where("roll_number = ?", rollNumber).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Student", rollNumber)
		}
		return nil, fmt.Errorf("failed to find student by roll number: %w", err)
	}
	return toDomainStudent(&model), nil
}

// List retrieves students with pagination, optionally filtered by name or
// roll number.
func (r *GormStudentRepository) List(ctx context.Context, page, limit int, search string) ([]*studentDomain.Student, int64, error) {
	query := r.db.WithContext(ctx).Model(&StudentModel{})
	if search != "" {
		query = query.Where("name ILIKE ? OR roll_number ILIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count students: %w", err)
	}

	var models []StudentModel
	offset := (page - 1) * limit
	if err := query.
		Order("roll_number ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list students: %w", err)
	}

	students := make([]*studentDomain.Student, len(models))
	for i, m := range models {
		students[i] = toDomainStudent(&m)
	}
	return students, total, nil
}

// Save persists a new student.
func (r *GormStudentRepository) Save(ctx context.Context, s *studentDomain.Student) error {
	if err := r.db.WithContext(ctx).Create(toStudentModel(s)).Error; err != nil {
		return fmt.Errorf("failed to save student: %w", err)
	}
	return nil
}

// Update persists changes to an existing student.
func (r *GormStudentRepository) Update(ctx context.Context, s *studentDomain.Student) error {
	model := toStudentModel(s)
	result := r.db.WithContext(ctx).
		Model(&StudentModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"roll_number": model.RollNumber,
			"name":        model.Name,
			"stream":      model.Stream,
			"address":     model.Address,
			"mobile_no":   model.MobileNo,
			"email":       model.Email,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update student: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Student", model.ID.String())
	}
	return nil
}

// Delete removes a student.
func (r *GormStudentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&StudentModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete student: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Student", id.String())
	}
	return nil
}

// Count returns the total number of students.
func (r *GormStudentRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&StudentModel{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return total, nil
}

// --- Conversion Helpers ---

func toStudentModel(s *studentDomain.Student) *StudentModel {
	return &StudentModel{
		ID:         s.ID(),
		RollNumber: s.RollNumber(),
		Name:       s.Name(),
		Stream:     s.Stream(),
		Address:    s.Address(),
		MobileNo:   s.MobileNo(),
		Email:      s.Email(),
		CreatedAt:  s.CreatedAt(),
		UpdatedAt:  s.UpdatedAt(),
	}
}

func toDomainStudent(m *StudentModel) *studentDomain.Student {
	return studentDomain.ReconstructStudent(
		m.ID,
		m.RollNumber,
		m.Name,
		m.Stream,
		m.Address,
		m.MobileNo,
		m.Email,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
