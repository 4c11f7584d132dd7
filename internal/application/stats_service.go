package application

import (
	"context"
	"fmt"

	busDomain "github.com/fleetdash/service-fleet/internal/domain/bus"
	routeDomain "github.com/fleetdash/service-fleet/internal/domain/route"
	scheduleDomain "github.com/fleetdash/service-fleet/internal/domain/schedule"
)

// StatsDTO is the dashboard summary block.
type StatsDTO struct {
	Buses     int64 `json:"buses"`
	Routes    int64 `json:"routes"`
	Stops     int64 `json:"stops"`
	Schedules int64 `json:"schedules"`
}

// StatsService aggregates entity counts for the dashboard landing page.
type StatsService struct {
	buses     busDomain.Repository
	routes    routeDomain.Repository
	schedules scheduleDomain.Repository
}

// NewStatsService creates a new StatsService.
func NewStatsService(
	buses busDomain.Repository,
	routes routeDomain.Repository,
	schedules scheduleDomain.Repository,
) *StatsService {
	return &StatsService{buses: buses, routes: routes, schedules: schedules}
}

// GetStats returns current entity counts.
func (s *StatsService) GetStats(ctx context.Context) (*StatsDTO, error) {
	busCount, err := s.buses.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting buses: %w", err)
	}
	routeCount, err := s.routes.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting routes: %w", err)
	}
	stopCount, err := s.routes.CountStops(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting stops: %w", err)
	}
	scheduleCount, err := s.schedules.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting schedules: %w", err)
	}

	return &StatsDTO{
		Buses:     busCount,
		Routes:    routeCount,
		Stops:     stopCount,
		Schedules: scheduleCount,
	}, nil
}
