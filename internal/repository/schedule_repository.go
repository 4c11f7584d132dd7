package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fleetdash/service-fleet/internal/domain"
	scheduleDomain "github.com/fleetdash/service-fleet/internal/domain/schedule"
)

// ScheduleModel is the GORM model for the schedules table.
type ScheduleModel struct {
	ID          uuid.UUID           `gorm:"type:uuid;primaryKey"`
	BusID       uuid.UUID           `gorm:"type:uuid;index;not null"`
	RouteID     uuid.UUID           `gorm:"type:uuid;index;not null"`
	IsOneTime   bool                `gorm:"not null"`
	RepeatDays  json.RawMessage     `gorm:"type:jsonb"`
	StopTimings []ScheduleStopModel `gorm:"foreignKey:ScheduleID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time           `gorm:"not null"`
	UpdatedAt   time.Time           `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (ScheduleModel) TableName() string {
	return "schedules"
}

// ScheduleStopModel is the GORM model for the schedule_stops table.
type ScheduleStopModel struct {
	ID            int64     `gorm:"primaryKey;autoIncrement"`
	ScheduleID    uuid.UUID `gorm:"type:uuid;index;not null"`
	StopID        string    `gorm:"not null;size:36"`
	Position      int       `gorm:"not null"`
	ArrivalTime   string    `gorm:"not null;size:5"`
	DepartureTime string    `gorm:"not null;size:5"`
}

// TableName returns the table name for the GORM model.
func (ScheduleStopModel) TableName() string {
	return "schedule_stops"
}

// GormScheduleRepository is the GORM-based implementation of schedule.Repository.
type GormScheduleRepository struct {
	db *gorm.DB
}

// NewGormScheduleRepository creates a new GormScheduleRepository.
func NewGormScheduleRepository(db *gorm.DB) *GormScheduleRepository {
	return &GormScheduleRepository{db: db}
}

// FindByID retrieves a schedule with its stop timings.
func (r *GormScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*scheduleDomain.Schedule, error) {
	var model ScheduleModel
	err := r.db.WithContext(ctx).
		Preload("StopTimings", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Schedule", id.String())
		}
		return nil, fmt.Errorf("failed to find schedule by ID: %w", err)
	}
	return toDomainSchedule(&model)
}

// List retrieves schedules with pagination.
func (r *GormScheduleRepository) List(ctx context.Context, page, limit int) ([]*scheduleDomain.Schedule, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&ScheduleModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count schedules: %w", err)
	}

	var models []ScheduleModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Preload("StopTimings", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list schedules: %w", err)
	}

	schedules := make([]*scheduleDomain.Schedule, len(models))
	for i, m := range models {
		s, err := toDomainSchedule(&m)
		if err != nil {
			return nil, 0, err
		}
		schedules[i] = s
	}
	return schedules, total, nil
}

// ListAll retrieves every schedule, used for recurrence filtering.
func (r *GormScheduleRepository) ListAll(ctx context.Context) ([]*scheduleDomain.Schedule, error) {
	var models []ScheduleModel
	if err := r.db.WithContext(ctx).
		Preload("StopTimings", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	schedules := make([]*scheduleDomain.Schedule, len(models))
	for i, m := range models {
		s, err := toDomainSchedule(&m)
		if err != nil {
			return nil, err
		}
		schedules[i] = s
	}
	return schedules, nil
}

// Save persists a new schedule together with its stop timings.
func (r *GormScheduleRepository) Save(ctx context.Context, s *scheduleDomain.Schedule) error {
	model, err := toScheduleModel(s)
	if err != nil {
		return fmt.Errorf("failed to convert schedule to model: %w", err)
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save schedule: %w", err)
	}
	return nil
}

// Delete removes a schedule and its stop timings.
func (r *GormScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("schedule_id = ?", id).Delete(&ScheduleStopModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete schedule stops: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&ScheduleModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete schedule: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.NewNotFoundError("Schedule", id.String())
		}
		return nil
	})
}

// Count returns the total number of schedules.
func (r *GormScheduleRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&ScheduleModel{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count schedules: %w", err)
	}
	return total, nil
}

// --- Conversion Helpers ---

func toScheduleModel(s *scheduleDomain.Schedule) (*ScheduleModel, error) {
	days := s.RepeatDays().Days()
	dayStrings := make([]string, len(days))
	for i, d := range days {
		dayStrings[i] = string(d)
	}
	daysJSON, err := json.Marshal(dayStrings)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal repeat days: %w", err)
	}

	timings := s.StopTimings()
	stopModels := make([]ScheduleStopModel, len(timings))
	for i, t := range timings {
		stopModels[i] = ScheduleStopModel{
			ScheduleID:    s.ID(),
			StopID:        t.StopID,
			Position:      i,
			ArrivalTime:   t.Start.String(),
			DepartureTime: t.End.String(),
		}
	}

	return &ScheduleModel{
		ID:          s.ID(),
		BusID:       s.BusID(),
		RouteID:     s.RouteID(),
		IsOneTime:   s.IsOneTime(),
		RepeatDays:  daysJSON,
		StopTimings: stopModels,
		CreatedAt:   s.CreatedAt(),
		UpdatedAt:   s.UpdatedAt(),
	}, nil
}

func toDomainSchedule(m *ScheduleModel) (*scheduleDomain.Schedule, error) {
	var dayStrings []string
	if len(m.RepeatDays) > 0 {
		if err := json.Unmarshal(m.RepeatDays, &dayStrings); err != nil {
			return nil, fmt.Errorf("failed to unmarshal repeat days: %w", err)
		}
	}
	weekdays := make([]scheduleDomain.Weekday, len(dayStrings))
	for i, d := range dayStrings {
		weekdays[i] = scheduleDomain.Weekday(d)
	}
	repeatDays, err := scheduleDomain.NewDaySet(weekdays)
	if err != nil {
		return nil, fmt.Errorf("stored repeat days invalid: %w", err)
	}

	timings := make([]scheduleDomain.StopTiming, len(m.StopTimings))
	for i, t := range m.StopTimings {
		arrival, err := scheduleDomain.ParseTimeOfDay(t.ArrivalTime)
		if err != nil {
			return nil, fmt.Errorf("stored arrival time invalid: %w", err)
		}
		departure, err := scheduleDomain.ParseTimeOfDay(t.DepartureTime)
		if err != nil {
			return nil, fmt.Errorf("stored departure time invalid: %w", err)
		}
		timings[i] = scheduleDomain.StopTiming{
			StopID: t.StopID,
			Start:  arrival,
			End:    departure,
		}
	}

	return scheduleDomain.ReconstructSchedule(
		m.ID,
		m.BusID,
		m.RouteID,
		timings,
		m.IsOneTime,
		repeatDays,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
