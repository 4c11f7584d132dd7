package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetdash/service-fleet/internal/domain"
	busDomain "github.com/fleetdash/service-fleet/internal/domain/bus"
)

// CreateBusRequest is the request DTO for registering a bus.
type CreateBusRequest struct {
	Number       string `json:"number" binding:"required"`
	Model        string `json:"model"`
	Capacity     int    `json:"capacity" binding:"required"`
	Status       string `json:"status"`
	DriverName   string `json:"driverName"`
	DriverNumber string `json:"driverNumber"`
}

// UpdateBusRequest is the request DTO for updating a bus.
type UpdateBusRequest struct {
	Number       string `json:"number" binding:"required"`
	Model        string `json:"model"`
	Capacity     int    `json:"capacity" binding:"required"`
	Status       string `json:"status" binding:"required"`
	DriverName   string `json:"driverName"`
	DriverNumber string `json:"driverNumber"`
}

// BusDTO is the API response representation of a bus.
type BusDTO struct {
	ID           uuid.UUID `json:"id"`
	Number       string    `json:"number"`
	Model        string    `json:"model"`
	Capacity     int       `json:"capacity"`
	Status       string    `json:"status"`
	DriverName   string    `json:"driverName,omitempty"`
	DriverNumber string    `json:"driverNumber,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BusService implements use cases for fleet vehicle management.
type BusService struct {
	repo   busDomain.Repository
	logger *zap.Logger
}

// NewBusService creates a new BusService.
func NewBusService(repo busDomain.Repository, logger *zap.Logger) *BusService {
	return &BusService{repo: repo, logger: logger}
}

// CreateBus registers a new vehicle. Bus numbers are fleet-unique.
func (s *BusService) CreateBus(ctx context.Context, req CreateBusRequest) (*BusDTO, error) {
	status := busDomain.StatusActive
	if req.Status != "" {
		parsed, err := busDomain.ParseStatus(req.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	if existing, err := s.repo.FindByNumber(ctx, req.Number); err == nil && existing != nil {
		return nil, domain.NewConflictError(fmt.Sprintf("bus number %s already registered", req.Number))
	}

	b, err := busDomain.NewBus(req.Number, req.Model, req.Capacity, status, req.DriverName, req.DriverNumber)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, b); err != nil {
		s.logger.Error("failed to save bus", zap.Error(err))
		return nil, fmt.Errorf("failed to save bus: %w", err)
	}

	s.logger.Info("bus registered",
		zap.String("bus_id", b.ID().String()),
		zap.String("number", b.Number()),
	)
	dto := toBusDTO(b)
	return &dto, nil
}

// GetBus returns a single bus by id.
func (s *BusService) GetBus(ctx context.Context, id uuid.UUID) (*BusDTO, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toBusDTO(b)
	return &dto, nil
}

// ListBuses returns a page of buses, optionally filtered by number.
func (s *BusService) ListBuses(ctx context.Context, page, limit int, search string) (domain.PaginatedResult[BusDTO], error) {
	buses, total, err := s.repo.List(ctx, page, limit, search)
	if err != nil {
		return domain.PaginatedResult[BusDTO]{}, fmt.Errorf("failed to list buses: %w", err)
	}
	dtos := make([]BusDTO, len(buses))
	for i, b := range buses {
		dtos[i] = toBusDTO(b)
	}
	return domain.NewPaginatedResult(dtos, total, page, limit), nil
}

// UpdateBus updates a bus's details.
func (s *BusService) UpdateBus(ctx context.Context, id uuid.UUID, req UpdateBusRequest) (*BusDTO, error) {
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	status, err := busDomain.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	if b.Number() != req.Number {
		if existing, err := s.repo.FindByNumber(ctx, req.Number); err == nil && existing != nil {
			return nil, domain.NewConflictError(fmt.Sprintf("bus number %s already registered", req.Number))
		}
	}

	if err := b.UpdateDetails(req.Number, req.Model, req.Capacity, status, req.DriverName, req.DriverNumber); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, b); err != nil {
		s.logger.Error("failed to update bus", zap.Error(err))
		return nil, fmt.Errorf("failed to update bus: %w", err)
	}

	s.logger.Info("bus updated", zap.String("bus_id", id.String()))
	dto := toBusDTO(b)
	return &dto, nil
}

// DeleteBus removes a bus from the fleet.
func (s *BusService) DeleteBus(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete bus", zap.Error(err))
		return fmt.Errorf("failed to delete bus: %w", err)
	}
	s.logger.Info("bus deleted", zap.String("bus_id", id.String()))
	return nil
}

func toBusDTO(b *busDomain.Bus) BusDTO {
	return BusDTO{
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
