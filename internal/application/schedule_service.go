package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fleetdash/service-fleet/internal/domain"
	busDomain "github.com/fleetdash/service-fleet/internal/domain/bus"
	routeDomain "github.com/fleetdash/service-fleet/internal/domain/route"
	scheduleDomain "github.com/fleetdash/service-fleet/internal/domain/schedule"
	"github.com/fleetdash/service-fleet/internal/events"
	"github.com/fleetdash/service-fleet/internal/kafka"
	"github.com/fleetdash/service-fleet/internal/metrics"
)

// StopTimingInput is the requested arrival/departure pair for one stop.
type StopTimingInput struct {
	StopID        string `json:"stopId" binding:"required"`
	ArrivalTime   string `json:"arrivalTime" binding:"required"`
	DepartureTime string `json:"departureTime" binding:"required"`
}

// CreateScheduleRequest is the request DTO for creating a schedule.
type CreateScheduleRequest struct {
	BusID       uuid.UUID         `json:"busId" binding:"required"`
	RouteID     uuid.UUID         `json:"routeId" binding:"required"`
	IsOneTime   bool              `json:"isOneTime"`
	RepeatDays  []string          `json:"repeatDays"`
	StopTimings []StopTimingInput `json:"stopTimings" binding:"required"`
}

// StopTimingDTO is the API response representation of one timed stop.
type StopTimingDTO struct {
	StopID        string `json:"stopId"`
	StopName      string `json:"stopName,omitempty"`
	ArrivalTime   string `json:"arrivalTime"`
	DepartureTime string `json:"departureTime"`
}

// ScheduleDTO is the API response representation of a schedule.
type ScheduleDTO struct {
	ID          uuid.UUID       `json:"id"`
	BusID       uuid.UUID       `json:"busId"`
	BusNumber   string          `json:"busNumber,omitempty"`
	RouteID     uuid.UUID       `json:"routeId"`
	RouteName   string          `json:"routeName,omitempty"`
	IsOneTime   bool            `json:"isOneTime"`
	RepeatDays  []string        `json:"repeatDays"`
	StartTime   string          `json:"startTime"`
	EndTime     string          `json:"endTime"`
	StopTimings []StopTimingDTO `json:"stopTimings"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ScheduleService implements use cases for schedule derivation and management.
type ScheduleService struct {
	repo        scheduleDomain.Repository
	routes      routeDomain.Repository
	buses       busDomain.Repository
	producer    *kafka.Producer
	eventsTopic string
	collector   *metrics.Collector
	logger      *zap.Logger
	now         func() time.Time
}

// NewScheduleService creates a new ScheduleService. collector may be nil.
func NewScheduleService(
	repo scheduleDomain.Repository,
	routes routeDomain.Repository,
	buses busDomain.Repository,
	producer *kafka.Producer,
	eventsTopic string,
	collector *metrics.Collector,
	logger *zap.Logger,
) *ScheduleService {
	return &ScheduleService{
		repo:        repo,
		routes:      routes,
		buses:       buses,
		producer:    producer,
		eventsTopic: eventsTopic,
		collector:   collector,
		logger:      logger,
		now:         time.Now,
	}
}

// CreateSchedule validates the requested timings against the route's stop
// order and persists the schedule. Temporal validation reports every
// violation at once.
func (s *ScheduleService) CreateSchedule(ctx context.Context, req CreateScheduleRequest) (*ScheduleDTO, error) {
	rt, err := s.routes.FindByID(ctx, req.RouteID)
	if err != nil {
		return nil, err
	}
	b, err := s.buses.FindByID(ctx, req.BusID)
	if err != nil {
		return nil, err
	}

	timings, err := s.orderTimings(rt, req.StopTimings)
	if err != nil {
		return nil, err
	}

	repeatDays, err := parseRepeatDays(req.RepeatDays)
	if err != nil {
		return nil, err
	}

	sched, err := scheduleDomain.NewSchedule(req.BusID, req.RouteID, timings, req.IsOneTime, repeatDays)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, sched); err != nil {
		s.logger.Error("failed to save schedule", zap.Error(err))
		return nil, fmt.Errorf("failed to save schedule: %w", err)
	}

	s.logger.Info("schedule created",
		zap.String("schedule_id", sched.ID().String()),
		zap.String("bus_number", b.Number()),
		zap.String("route_name", rt.Name()),
	)
	if s.collector != nil {
		s.collector.SchedulesCreated.Inc()
	}
	s.publishScheduleEvent(ctx, events.ScheduleCreated, sched)

	dto := s.toScheduleDTO(sched, rt, b)
	return &dto, nil
}

// GetSchedule returns a single schedule enriched with bus and route names.
func (s *ScheduleService) GetSchedule(ctx context.Context, id uuid.UUID) (*ScheduleDTO, error) {
	sched, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := s.enrich(ctx, sched)
	return &dto, nil
}

// ListSchedules returns a page of schedules.
func (s *ScheduleService) ListSchedules(ctx context.Context, page, limit int) (domain.PaginatedResult[ScheduleDTO], error) {
	schedules, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return domain.PaginatedResult[ScheduleDTO]{}, fmt.Errorf("failed to list schedules: %w", err)
	}
	dtos := make([]ScheduleDTO, len(schedules))
	for i, sched := range schedules {
		dtos[i] = s.enrich(ctx, sched)
	}
	return domain.NewPaginatedResult(dtos, total, page, limit), nil
}

// TodaysSchedules returns the schedules whose recurrence covers the current
// weekday. One-time schedules never appear here.
func (s *ScheduleService) TodaysSchedules(ctx context.Context) ([]ScheduleDTO, error) {
	schedules, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	today := scheduleDomain.WeekdayOf(s.now().Weekday())
	dtos := make([]ScheduleDTO, 0)
	for _, sched := range schedules {
		if sched.AppliesOn(today) {
			dtos = append(dtos, s.enrich(ctx, sched))
		}
	}
	return dtos, nil
}

// DeleteSchedule removes a schedule.
func (s *ScheduleService) DeleteSchedule(ctx context.Context, id uuid.UUID) error {
	sched, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete schedule", zap.Error(err))
		return fmt.Errorf("failed to delete schedule: %w", err)
	}

	s.logger.Info("schedule deleted", zap.String("schedule_id", id.String()))
	s.publishScheduleEvent(ctx, events.ScheduleDeleted, sched)
	return nil
}

// orderTimings matches requested timings to the route's stops and returns
// them in route order. Every route stop needs exactly one timing, and every
// timing must refer to a stop on the route.
func (s *ScheduleService) orderTimings(rt *routeDomain.Route, inputs []StopTimingInput) ([]scheduleDomain.StopTiming, error) {
	byStop := make(map[string]StopTimingInput, len(inputs))
	for _, in := range inputs {
		if _, dup := byStop[in.StopID]; dup {
			return nil, domain.NewValidationError(fmt.Sprintf("duplicate timing for stop %s", in.StopID))
		}
		if _, ok := rt.StopByID(in.StopID); !ok {
			return nil, domain.NewValidationError(fmt.Sprintf("stop %s is not on route %s", in.StopID, rt.ID()))
		}
		byStop[in.StopID] = in
	}

	stops := rt.Stops()
	timings := make([]scheduleDomain.StopTiming, 0, len(stops))
	for _, st := range stops {
		in, ok := byStop[st.ID]
		if !ok {
			return nil, domain.NewValidationError(fmt.Sprintf("missing timing for stop %q", st.Name))
		}
		arrival, err := scheduleDomain.ParseTimeOfDay(in.ArrivalTime)
		if err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("stop %q: invalid arrival time %q", st.Name, in.ArrivalTime))
		}
		departure, err := scheduleDomain.ParseTimeOfDay(in.DepartureTime)
		if err != nil {
			return nil, domain.NewValidationError(fmt.Sprintf("stop %q: invalid departure time %q", st.Name, in.DepartureTime))
		}
		timings = append(timings, scheduleDomain.StopTiming{
			StopID: st.ID,
			Start:  arrival,
			End:    departure,
		})
	}
	return timings, nil
}

func parseRepeatDays(days []string) (scheduleDomain.DaySet, error) {
	weekdays := make([]scheduleDomain.Weekday, len(days))
	for i, d := range days {
		weekdays[i] = scheduleDomain.Weekday(d)
	}
	return scheduleDomain.NewDaySet(weekdays)
}

func (s *ScheduleService) publishScheduleEvent(ctx context.Context, eventType string, sched *scheduleDomain.Schedule) {
	if s.producer == nil {
		return
	}
	evt := events.ScheduleEvent{
		ScheduleID: sched.ID(),
		BusID:      sched.BusID(),
		RouteID:    sched.RouteID(),
		OccurredAt: time.Now().UTC(),
	}
	cloudEvent, err := kafka.NewCloudEvent("service-fleet", eventType, evt)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	if err := s.producer.PublishEventWithKey(ctx, s.eventsTopic, sched.ID().String(), cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", s.eventsTopic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

// enrich builds the DTO, attaching bus number, route name, and stop names
// when the referenced aggregates still exist.
func (s *ScheduleService) enrich(ctx context.Context, sched *scheduleDomain.Schedule) ScheduleDTO {
	var rt *routeDomain.Route
	if r, err := s.routes.FindByID(ctx, sched.RouteID()); err == nil {
		rt = r
	}
	var b *busDomain.Bus
	if found, err := s.buses.FindByID(ctx, sched.BusID()); err == nil {
		b = found
	}
	return s.toScheduleDTO(sched, rt, b)
}

func (s *ScheduleService) toScheduleDTO(sched *scheduleDomain.Schedule, rt *routeDomain.Route, b *busDomain.Bus) ScheduleDTO {
	timings := sched.StopTimings()
	timingDTOs := make([]StopTimingDTO, len(timings))
	for i, t := range timings {
		dto := StopTimingDTO{
			StopID:        t.StopID,
			ArrivalTime:   t.Start.String(),
			DepartureTime: t.End.String(),
		}
		if rt != nil {
			if st, ok := rt.StopByID(t.StopID); ok {
				dto.StopName = st.Name
			}
		}
		timingDTOs[i] = dto
	}

	days := sched.RepeatDays().Days()
	dayStrings := make([]string, len(days))
	for i, d := range days {
		dayStrings[i] = string(d)
	}

	dto := ScheduleDTO{
		ID:          sched.ID(),
		BusID:       sched.BusID(),
		RouteID:     sched.RouteID(),
		IsOneTime:   sched.IsOneTime(),
		RepeatDays:  dayStrings,
		StartTime:   sched.OverallStart().String(),
		EndTime:     sched.OverallEnd().String(),
		StopTimings: timingDTOs,
		CreatedAt:   sched.CreatedAt(),
	}
	if rt != nil {
		dto.RouteName = rt.Name()
	}
	if b != nil {
		dto.BusNumber = b.Number()
	}
	return dto
}
