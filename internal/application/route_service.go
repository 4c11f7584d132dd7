package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetdash/service-fleet/internal/domain"
	"github.com/fleetdash/service-fleet/internal/domain/geo"
	routeDomain "github.com/fleetdash/service-fleet/internal/domain/route"
	"github.com/fleetdash/service-fleet/internal/events"
	"github.com/fleetdash/service-fleet/internal/kafka"
	"github.com/fleetdash/service-fleet/internal/metrics"
	"github.com/fleetdash/service-fleet/pkg/osrm"
)

// RoadNetwork is the routing collaborator: it snaps picked points onto the
// road network and produces drivable polylines.
type RoadNetwork interface {
	Nearest(ctx context.Context, p geo.Point) (geo.Point, error)
	Route(ctx context.Context, points []geo.Point) ([]geo.Point, error)
}

// roadSnapper adapts RoadNetwork to the builder's Snapper contract,
// translating transport failures into domain errors.
type roadSnapper struct {
	roads   RoadNetwork
	observe func(seconds float64)
}

func (a roadSnapper) Nearest(ctx context.Context, p geo.Point) (geo.Point, error) {
	start := time.Now()
	snapped, err := a.roads.Nearest(ctx, p)
	if a.observe != nil {
		a.observe(time.Since(start).Seconds())
	}
	if err != nil {
		if errors.Is(err, osrm.ErrNoRoad) {
			return geo.Point{}, routeDomain.ErrNoNearbyRoad
		}
		return geo.Point{}, domain.NewUnavailableError("road network", err)
	}
	return snapped, nil
}

// StopInput is one stop in a route create/update request. ID is set only
// when referring to an existing stop during an update.
type StopInput struct {
	ID   string  `json:"id"`
	Name string  `json:"stopName" binding:"required"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// CreateRouteRequest is the request DTO for creating a route.
type CreateRouteRequest struct {
	Name  string      `json:"name" binding:"required"`
	Stops []StopInput `json:"stops" binding:"required"`
}

// UpdateRouteRequest is the request DTO for replacing a route's stop set.
type UpdateRouteRequest struct {
	Name  string      `json:"name" binding:"required"`
	Stops []StopInput `json:"stops" binding:"required"`
}

// StopDTO is the API response representation of a stop.
type StopDTO struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"stopName"`
	Lat                  float64 `json:"lat"`
	Lng                  float64 `json:"lng"`
	Order                int     `json:"stopOrder"`
	DistanceFromPrevious float64 `json:"distanceFromPrevious"`
	EstimatedTime        float64 `json:"estimatedTime"`
}

// RouteDTO is the API response representation of a route.
type RouteDTO struct {
	ID            uuid.UUID    `json:"id"`
	Name          string       `json:"name"`
	StartLocation string       `json:"startLocation"`
	EndLocation   string       `json:"endLocation"`
	TotalDistance float64      `json:"totalDistance"`
	TotalTime     float64      `json:"totalTime"`
	Stops         []StopDTO    `json:"stops"`
	Path          [][2]float64 `json:"path,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// SnapRequest is the request DTO for a standalone road-snap lookup.
type SnapRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SnapDTO is the snapped coordinate returned for a road-snap lookup.
type SnapDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RouteService implements use cases for route construction and management.
type RouteService struct {
	repo            routeDomain.Repository
	roads           RoadNetwork
	producer        *kafka.Producer
	eventsTopic     string
	averageSpeedKmh float64
	collector       *metrics.Collector
	logger          *zap.Logger
}

// NewRouteService creates a new RouteService. collector may be nil.
func NewRouteService(
	repo routeDomain.Repository,
	roads RoadNetwork,
	producer *kafka.Producer,
	eventsTopic string,
	averageSpeedKmh float64,
	collector *metrics.Collector,
	logger *zap.Logger,
) *RouteService {
	return &RouteService{
		repo:            repo,
		roads:           roads,
		producer:        producer,
		eventsTopic:     eventsTopic,
		averageSpeedKmh: averageSpeedKmh,
		collector:       collector,
		logger:          logger,
	}
}

// snapper builds the roadSnapper adapter, wiring in snap latency
// observation when a collector is present.
func (s *RouteService) snapper() roadSnapper {
	a := roadSnapper{roads: s.roads}
	if s.collector != nil {
		a.observe = s.collector.SnapDuration.Observe
	}
	return a
}

// SnapToRoad snaps a single picked point onto the road network without
// touching any route.
func (s *RouteService) SnapToRoad(ctx context.Context, req SnapRequest) (*SnapDTO, error) {
	p := geo.Point{Lat: req.Lat, Lon: req.Lng}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	snapped, err := s.snapper().Nearest(ctx, p)
	if err != nil {
		return nil, err
	}
	return &SnapDTO{Lat: snapped.Lat, Lng: snapped.Lon}, nil
}

// CreateRoute snaps every requested stop onto the road network, derives
// per-segment distances and times, and persists the assembled route.
func (s *RouteService) CreateRoute(ctx context.Context, req CreateRouteRequest) (*RouteDTO, error) {
	b := routeDomain.NewBuilder(s.snapper(), s.averageSpeedKmh)

	for _, in := range req.Stops {
		snapped, err := b.SnapToRoad(ctx, geo.Point{Lat: in.Lat, Lon: in.Lng})
		if err != nil {
			return nil, fmt.Errorf("stop %q: %w", in.Name, err)
		}
		if _, err := b.AddStop(in.Name, snapped); err != nil {
			return nil, err
		}
	}

	rt, err := b.Build(req.Name)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, rt); err != nil {
		s.logger.Error("failed to save route", zap.Error(err))
		return nil, fmt.Errorf("failed to save route: %w", err)
	}

	s.logger.Info("route created",
		zap.String("route_id", rt.ID().String()),
		zap.Int("stops", len(rt.Stops())),
		zap.Float64("total_distance_km", rt.TotalDistanceKm()),
	)
	if s.collector != nil {
		s.collector.RoutesCreated.Inc()
	}
	s.publishRouteEvent(ctx, events.RouteCreated, rt)

	dto := s.toRouteDTO(ctx, rt, true)
	return &dto, nil
}

// UpdateRoute replaces a route's stop set. Existing stop ids keep their
// identity; removed stops disappear; new stops are snapped and appended; the
// final order follows the request. Derived fields are always recomputed.
func (s *RouteService) UpdateRoute(ctx context.Context, id uuid.UUID, req UpdateRouteRequest) (*RouteDTO, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	b := routeDomain.NewBuilderFromRoute(existing, s.snapper(), s.averageSpeedKmh)

	requested := make(map[string]bool, len(req.Stops))
	for _, in := range req.Stops {
		if in.ID != "" {
			requested[in.ID] = true
		}
	}
	for _, st := range existing.Stops() {
		if !requested[st.ID] {
			b.RemoveStop(st.ID)
		}
	}

	finalIDs := make([]string, 0, len(req.Stops))
	for _, in := range req.Stops {
		snapped, err := b.SnapToRoad(ctx, geo.Point{Lat: in.Lat, Lon: in.Lng})
		if err != nil {
			return nil, fmt.Errorf("stop %q: %w", in.Name, err)
		}
		if _, kept := existing.StopByID(in.ID); in.ID != "" && kept {
			b.RelocateStop(in.ID, snapped)
			finalIDs = append(finalIDs, in.ID)
			continue
		}
		st, err := b.AddStop(in.Name, snapped)
		if err != nil {
			return nil, err
		}
		finalIDs = append(finalIDs, st.ID)
	}

	for i, stopID := range finalIDs {
		if err := b.ReorderStop(stopID, i); err != nil {
			return nil, err
		}
	}

	rt, err := b.Rebuild(existing, req.Name)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, rt); err != nil {
		s.logger.Error("failed to update route", zap.Error(err))
		return nil, fmt.Errorf("failed to update route: %w", err)
	}

	s.logger.Info("route updated", zap.String("route_id", rt.ID().String()))
	s.publishRouteEvent(ctx, events.RouteUpdated, rt)

	dto := s.toRouteDTO(ctx, rt, true)
	return &dto, nil
}

// GetRoute returns a single route with its drivable polyline.
func (s *RouteService) GetRoute(ctx context.Context, id uuid.UUID) (*RouteDTO, error) {
	rt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := s.toRouteDTO(ctx, rt, true)
	return &dto, nil
}

// RouteStops returns the ordered stops of a route.
func (s *RouteService) RouteStops(ctx context.Context, id uuid.UUID) ([]StopDTO, error) {
	rt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toRouteDTO(ctx, rt, false).Stops, nil
}

// RoutePolyline returns the drivable path through a route's stops. Unlike
// the embedded Path on RouteDTO, a routing failure here is reported to the
// caller instead of degrading to an empty path.
func (s *RouteService) RoutePolyline(ctx context.Context, id uuid.UUID) ([][2]float64, error) {
	rt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	stops := rt.Stops()
	points := make([]geo.Point, len(stops))
	for i, st := range stops {
		points[i] = st.Location
	}
	path, err := s.roads.Route(ctx, points)
	if err != nil {
		return nil, domain.NewUnavailableError("road network", err)
	}

	out := make([][2]float64, len(path))
	for i, p := range path {
		out[i] = [2]float64{p.Lat, p.Lon}
	}
	return out, nil
}

// ListRoutes returns a page of routes, optionally filtered by name.
func (s *RouteService) ListRoutes(ctx context.Context, page, limit int, search string) (domain.PaginatedResult[RouteDTO], error) {
	routes, total, err := s.repo.List(ctx, page, limit, search)
	if err != nil {
		return domain.PaginatedResult[RouteDTO]{}, fmt.Errorf("failed to list routes: %w", err)
	}
	dtos := make([]RouteDTO, len(routes))
	for i, rt := range routes {
		dtos[i] = s.toRouteDTO(ctx, rt, false)
	}
	return domain.NewPaginatedResult(dtos, total, page, limit), nil
}

// DeleteRoute removes a route and its stops.
func (s *RouteService) DeleteRoute(ctx context.Context, id uuid.UUID) error {
	rt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete route", zap.Error(err))
		return fmt.Errorf("failed to delete route: %w", err)
	}

	s.logger.Info("route deleted", zap.String("route_id", id.String()))
	s.publishRouteEvent(ctx, events.RouteDeleted, rt)
	return nil
}

func (s *RouteService) publishRouteEvent(ctx context.Context, eventType string, rt *routeDomain.Route) {
	if s.producer == nil {
		return
	}
	evt := events.RouteEvent{
		RouteID:         rt.ID(),
		Name:            rt.Name(),
		StopCount:       len(rt.Stops()),
		TotalDistanceKm: rt.TotalDistanceKm(),
		OccurredAt:      time.Now().UTC(),
	}
	cloudEvent, err := kafka.NewCloudEvent("service-fleet", eventType, evt)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	if err := s.producer.PublishEventWithKey(ctx, s.eventsTopic, rt.ID().String(), cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", s.eventsTopic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

// toRouteDTO converts a route aggregate. The polyline is best effort; a
// routing failure leaves Path empty rather than failing the request.
func (s *RouteService) toRouteDTO(ctx context.Context, rt *routeDomain.Route, includePath bool) RouteDTO {
	stops := rt.Stops()
	stopDTOs := make([]StopDTO, len(stops))
	for i, st := range stops {
		stopDTOs[i] = StopDTO{
			ID:                   st.ID,
			Name:                 st.Name,
			Lat:                  st.Location.Lat,
			Lng:                  st.Location.Lon,
			Order:                st.Order,
			DistanceFromPrevious: st.DistanceFromPrevious,
			EstimatedTime:        st.EstTimeFromPrevious,
		}
	}

	dto := RouteDTO{
		ID:            rt.ID(),
		Name:          rt.Name(),
		StartLocation: rt.StartLocation(),
		EndLocation:   rt.EndLocation(),
		TotalDistance: rt.TotalDistanceKm(),
		TotalTime:     rt.TotalTimeMinutes(),
		Stops:         stopDTOs,
		CreatedAt:     rt.CreatedAt(),
		UpdatedAt:     rt.UpdatedAt(),
	}

	if includePath && len(stops) >= 2 {
		points := make([]geo.Point, len(stops))
		for i, st := range stops {
			points[i] = st.Location
		}
		path, err := s.roads.Route(ctx, points)
		if err != nil {
			s.logger.Warn("failed to fetch route polyline",
				zap.String("route_id", rt.ID().String()),
				zap.Error(err),
			)
		} else {
			dto.Path = make([][2]float64, len(path))
			for i, p := range path {
				dto.Path[i] = [2]float64{p.Lat, p.Lon}
			}
		}
	}
	return dto
}
