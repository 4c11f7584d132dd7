package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetdash/service-fleet/internal/domain"
	studentDomain "github.com/fleetdash/service-fleet/internal/domain/student"
)

// CreateStudentRequest is the request DTO for registering a student.
type CreateStudentRequest struct {
	RollNumber string `json:"rollnumber" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Stream     string `json:"stream"`
	Address    string `json:"address"`
	MobileNo   string `json:"mobileNo"`
	Email      string `json:"email"`
}

// UpdateStudentRequest is the request DTO for updating a student.
type UpdateStudentRequest struct {
	RollNumber string `json:"rollnumber" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Stream     string `json:"stream"`
	Address    string `json:"address"`
	MobileNo   string `json:"mobileNo"`
	Email      string `json:"email"`
}

// StudentDTO is the API response representation of a student.
type StudentDTO struct {
	ID         uuid.UUID `json:"id"`
	RollNumber string    `json:"rollnumber"`
	Name       string    `json:"name"`
	Stream     string    `json:"stream"`
	Address    string    `json:"address"`
	MobileNo   string    `json:"mobileNo"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// StudentService implements use cases for rider records.
type StudentService struct {
	repo   studentDomain.Repository
	logger *zap.Logger
}

// NewStudentService creates a new StudentService.
func NewStudentService(repo studentDomain.Repository, logger *zap.Logger) *StudentService {
	return &StudentService{repo: repo, logger: logger}
}

// CreateStudent registers a new student. Roll numbers are unique.
func (s *StudentService) CreateStudent(ctx context.Context, req CreateStudentRequest) (*StudentDTO, error) {
	if existing, err := s.repo.FindByRollNumber(ctx, req.RollNumber); err == nil && existing != nil {
		return nil, domain.NewConflictError(fmt.Sprintf("roll number %s already registered", req.RollNumber))
	}

	st, err := studentDomain.NewStudent(req.RollNumber, req.Name, req.Stream, req.Address, req.MobileNo, req.Email)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, st); err != nil {
		s.logger.Error("failed to save student", zap.Error(err))
		return nil, fmt.Errorf("failed to save student: %w", err)
	}

	s.logger.Info("student registered",
		zap.String("student_id", st.ID().String()),
		zap.String("roll_number", st.RollNumber()),
	)
	dto := toStudentDTO(st)
	return &dto, nil
}

// GetStudent returns a single student by id.
func (s *StudentService) GetStudent(ctx context.Context, id uuid.UUID) (*StudentDTO, error) {
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toStudentDTO(st)
	return &dto, nil
}

// ListStudents returns a page of students, optionally filtered by name or
// roll number.
func (s *StudentService) ListStudents(ctx context.Context, page, limit int, search string) (domain.PaginatedResult[StudentDTO], error) {
	students, total, err := s.repo.List(ctx, page, limit, search)
	if err != nil {
		return domain.PaginatedResult[StudentDTO]{}, fmt.Errorf("failed to list students: %w", err)
	}
	dtos := make([]StudentDTO, len(students))
	for i, st := range students {
		dtos[i] = toStudentDTO(st)
	}
	return domain.NewPaginatedResult(dtos, total, page, limit), nil
}

// UpdateStudent updates a student's details.
func (s *StudentService) UpdateStudent(ctx context.Context, id uuid.UUID, req UpdateStudentRequest) (*StudentDTO, error) {
	st, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if st.RollNumber() != req.RollNumber {
		if existing, err := s.repo.FindByRollNumber(ctx, req.RollNumber); err == nil && existing != nil {
			return nil, domain.NewConflictError(fmt.Sprintf("roll number %s already registered", req.RollNumber))
		}
	}

	if err := st.UpdateDetails(req.RollNumber, req.Name, req.Stream, req.Address, req.MobileNo, req.Email); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, st); err != nil {
		s.logger.Error("failed to update student", zap.Error(err))
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	s.logger.Info("student updated", zap.String("student_id", id.String()))
	dto := toStudentDTO(st)
	return &dto, nil
}

// DeleteStudent removes a student record.
func (s *StudentService) DeleteStudent(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete student", zap.Error(err))
		return fmt.Errorf("failed to delete student: %w", err)
	}
	s.logger.Info("student deleted", zap.String("student_id", id.String()))
	return nil
}

func toStudentDTO(st *studentDomain.Student) StudentDTO {
	return StudentDTO{
		ID:         st.ID(),
		RollNumber: st.RollNumber(),
		Name:       st.Name(),
		Stream:     st.Stream(),
		Address:    st.Address(),
		MobileNo:   st.MobileNo(),
		Email:      st.Email(),
		CreatedAt:  st.CreatedAt(),
		UpdatedAt:  st.UpdatedAt(),
	}
}
