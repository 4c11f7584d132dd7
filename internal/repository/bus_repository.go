package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fleetdash/service-fleet/internal/domain"
	busDomain "github.com/fleetdash/service-fleet/internal/domain/bus"
)

// BusModel is the GORM model for the buses table.
type BusModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number       string    `gorm:"uniqueIndex;not null;size:20"`
	Model        string    `gorm:"size:100"`
	Capacity     int       `gorm:"not null"`
	Status       string    `gorm:"not null;size:20;index"`
	DriverName   string    `gorm:"size:100"`
	DriverNumber string    `gorm:"size:20"`
	CreatedAt    time.Time `gorm:"not null"`
	UpdatedAt    time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BusModel) TableName() string {
	return "buses"
}

// GormBusRepository is the GORM-based implementation of bus.Repository.
type GormBusRepository struct {
	db *gorm.DB
}

// NewGormBusRepository creates a new GormBusRepository.
func NewGormBusRepository(db *gorm.DB) *GormBusRepository {
	return &GormBusRepository{db: db}
}

// FindByID retrieves a bus by its unique identifier.
func (r *GormBusRepository) FindByID(ctx context.Context, id uuid.UUID) (*busDomain.Bus, error) {
	var model BusModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Bus", id.String())
		}
		return nil, fmt.Errorf("failed to find bus by ID: %w", err)
	}
	return toDomainBus(&model), nil
}

// FindByNumber retrieves a bus by its fleet-unique number.
func (r *GormBusRepository) FindByNumber(ctx context.Context, number string) (*busDomain.Bus, error) {
	var model BusModel
	if err := r.db.WithContext(ctx).Where("number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Bus", number)
		}
		return nil, fmt.Errorf("failed to find bus by number: %w", err)
	}
	return toDomainBus(&model), nil
}

// List retrieves buses with pagination, optionally filtered by number.
func (r *GormBusRepository) List(ctx context.Context, page, limit int, search string) ([]*busDomain.Bus, int64, error) {
	query := r.db.WithContext(ctx).Model(&BusModel{})
	if search != "" {
		query = query.Where("number ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count buses: %w", err)
	}

	var models []BusModel
	offset := (page - 1) * limit
	if err := query.
		Order("number ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list buses: %w", err)
	}

	buses := make([]*busDomain.Bus, len(models))
	for i, m := range models {
		buses[i] = toDomainBus(&m)
	}
	return buses, total, nil
}

// Save persists a new bus.
func (r *GormBusRepository) Save(ctx context.Context, b *busDomain.Bus) error {
	if err := r.db.WithContext(ctx).Create(toBusModel(b)).Error; err != nil {
		return fmt.Errorf("failed to save bus: %w", err)
	}
	return nil
}

// Update persists changes to an existing bus.
func (r *GormBusRepository) Update(ctx context.Context, b *busDomain.Bus) error {
	model := toBusModel(b)
	result := r.db.WithContext(ctx).
		Model(&BusModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"number":        model.Number,
			"model":         model.Model,
			"capacity":      model.Capacity,
			"status":        model.Status,
			"driver_name":   model.DriverName,
			"driver_number": model.DriverNumber,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update bus: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Bus", model.ID.String())
	}
	return nil
}

// Delete removes a bus.
func (r *GormBusRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&BusModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete bus: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Bus", id.String())
	}
	return nil
}

// Count returns the total number of buses.
func (r *GormBusRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BusModel{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count buses: %w", err)
	}
	return total, nil
}

// --- Conversion Helpers ---

func toBusModel(b *busDomain.Bus) *BusModel {
	return &BusModel{
		ID:           b.ID(),
		Number:       b.Number(),
		Model:        b.Model(),
		Capacity:     b.Capacity(),
		Status:       string(b.Status()),
		DriverName:   b.DriverName(),
		DriverNumber: b.DriverNumber(),
		CreatedAt:    b.CreatedAt(),
		UpdatedAt:    b.UpdatedAt(),
	}
}

func toDomainBus(m *BusModel) *busDomain.Bus {
	return busDomain.ReconstructBus(
		m.ID,
		m.Number,
		m.Model,
		m.Capacity,
		busDomain.Status(m.Status),
		m.DriverName,
		m.DriverNumber,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
