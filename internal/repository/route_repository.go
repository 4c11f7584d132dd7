package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fleetdash/service-fleet/internal/domain"
	"github.com/fleetdash/service-fleet/internal/domain/geo"
	routeDomain "github.com/fleetdash/service-fleet/internal/domain/route"
)

// RouteModel is the GORM model for the routes table.
type RouteModel struct {
	ID               uuid.UUID   `gorm:"type:uuid;primaryKey"`
	Name             string      `gorm:"not null;size:100;index"`
	StartLocation    string      `gorm:"not null;size:100"`
	EndLocation      string      `gorm:"not null;size:100"`
	TotalDistanceKm  float64     `gorm:"not null"`
	TotalTimeMinutes float64     `gorm:"not null"`
	Stops            []StopModel `gorm:"foreignKey:RouteID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time   `gorm:"not null"`
	UpdatedAt        time.Time   `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (RouteModel) TableName() string {
	return "routes"
}

// StopModel is the GORM model for the route_stops table.
type StopModel struct {
	ID                   string    `gorm:"primaryKey;size:36"`
	RouteID              uuid.UUID `gorm:"type:uuid;index;not null"`
	Name                 string    `gorm:"not null;size:100"`
	Latitude             float64   `gorm:"not null"`
	Longitude            float64   `gorm:"not null"`
	StopOrder            int       `gorm:"not null"`
	DistanceFromPrevious float64   `gorm:"not null"`
	EstTimeFromPrevious  float64   `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (StopModel) TableName() string {
	return "route_stops"
}

// GormRouteRepository is the GORM-based implementation of route.Repository.
type GormRouteRepository struct {
	db *gorm.DB
}

// NewGormRouteRepository creates a new GormRouteRepository.
func NewGormRouteRepository(db *gorm.DB) *GormRouteRepository {
	return &GormRouteRepository{db: db}
}

// FindByID retrieves a route with its stops by unique identifier.
func (r *GormRouteRepository) FindByID(ctx context.Context, id uuid.UUID) (*routeDomain.Route, error) {
	var model RouteModel
	err := r.db.WithContext(ctx).
		Preload("Stops", func(db *gorm.DB) *gorm.DB { return db.Order("stop_order ASC") }).
		Where("id = ?", id).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Route", id.String())
		}
		return nil, fmt.Errorf("failed to find route by ID: %w", err)
	}
	return toDomainRoute(&model), nil
}

// List retrieves routes with pagination, optionally filtered by name.
func (r *GormRouteRepository) List(ctx context.Context, page, limit int, search string) ([]*routeDomain.Route, int64, error) {
	query := r.db.WithContext(ctx).Model(&RouteModel{})
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count routes: %w", err)
	}

	var models []RouteModel
	offset := (page - 1) * limit
	if err := query.
		Preload("Stops", func(db *gorm.DB) *gorm.DB { return db.Order("stop_order ASC") }).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list routes: %w", err)
	}

	routes := make([]*routeDomain.Route, len(models))
	for i, m := range models {
		routes[i] = toDomainRoute(&m)
	}
	return routes, total, nil
}

// Save persists a new route together with its stops.
func (r *GormRouteRepository) Save(ctx context.Context, rt *routeDomain.Route) error {
	model := toRouteModel(rt)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save route: %w", err)
	}
	return nil
}

// Update replaces an existing route and its stop set in one transaction.
func (r *GormRouteRepository) Update(ctx context.Context, rt *routeDomain.Route) error {
	model := toRouteModel(rt)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&RouteModel{}).
			Where("id = ?", model.ID).
			Updates(map[string]interface{}{
				"name":               model.Name,
				"start_location":     model.StartLocation,
				"end_location":       model.EndLocation,
				"total_distance_km":  model.TotalDistanceKm,
				"total_time_minutes": model.TotalTimeMinutes,
				"updated_at":         model.UpdatedAt,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update route: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.NewNotFoundError("Route", model.ID.String())
		}

		if err := tx.Where("route_id = ?", model.ID).Delete(&StopModel{}).Error; err != nil {
			return fmt.Errorf("failed to clear route stops: %w", err)
		}
		if len(model.Stops) > 0 {
			if err := tx.Create(&model.Stops).Error; err != nil {
				return fmt.Errorf("failed to save route stops: %w", err)
			}
		}
		return nil
	})
}

// Delete removes a route and its stops.
func (r *GormRouteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("route_id = ?", id).Delete(&StopModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete route stops: %w", err)
		}
		result := tx.Where("id = ?", id).Delete(&RouteModel{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete route: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.NewNotFoundError("Route", id.String())
		}
		return nil
	})
}

// Count returns the total number of routes.
func (r *GormRouteRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&RouteModel{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count routes: %w", err)
	}
	return total, nil
}

// CountStops returns the number of stops across all routes.
func (r *GormRouteRepository) CountStops(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&StopModel{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count stops: %w", err)
	}
	return total, nil
}

// --- Conversion Helpers ---

func toRouteModel(rt *routeDomain.Route) *RouteModel {
	stops := rt.Stops()
	stopModels := make([]StopModel, len(stops))
	for i, s := range stops {
		stopModels[i] = StopModel{
			ID:                   s.ID,
			RouteID:              rt.ID(),
			Name:                 s.Name,
			Latitude:             s.Location.Lat,
			Longitude:            s.Location.Lon,
			StopOrder:            s.Order,
			DistanceFromPrevious: s.DistanceFromPrevious,
			EstTimeFromPrevious:  s.EstTimeFromPrevious,
		}
	}
	return &RouteModel{
		ID:               rt.ID(),
		Name:             rt.Name(),
		StartLocation:    rt.StartLocation(),
		EndLocation:      rt.EndLocation(),
		TotalDistanceKm:  rt.TotalDistanceKm(),
		TotalTimeMinutes: rt.TotalTimeMinutes(),
		Stops:            stopModels,
		CreatedAt:        rt.CreatedAt(),
		UpdatedAt:        rt.UpdatedAt(),
	}
}

func toDomainRoute(m *RouteModel) *routeDomain.Route {
	stops := make([]routeDomain.Stop, len(m.Stops))
	for i, s := range m.Stops {
		stops[i] = routeDomain.Stop{
			ID:                   s.ID,
			Name:                 s.Name,
			Location:             geo.Point{Lat: s.Latitude, Lon: s.Longitude},
			Order:                s.StopOrder,
			DistanceFromPrevious: s.DistanceFromPrevious,
			EstTimeFromPrevious:  s.EstTimeFromPrevious,
		}
	}
	return routeDomain.ReconstructRoute(
		m.ID,
		m.Name,
		m.StartLocation,
		m.EndLocation,
		m.TotalDistanceKm,
		m.TotalTimeMinutes,
		stops,
		m.CreatedAt,
		m.UpdatedAt,
	)
}
