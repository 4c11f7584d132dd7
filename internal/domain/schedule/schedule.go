package schedule

import (
	"time"

	"github.com/fleetdash/service-fleet/internal/domain"
	"github.com/google/uuid"
)

// Build preconditions.
var (
	// ErrEmptyStops means a schedule was submitted with no stop timings.
	ErrEmptyStops = domain.NewValidationError("schedule needs at least one stop timing")

	// ErrNoRepeatDaysSelected means a repeating schedule has no weekdays.
	ErrNoRepeatDaysSelected = domain.NewValidationError("select at least one day for a repeating schedule")
)

// Schedule is the aggregate root for the schedule domain: a bus assigned to
// a route with arrival/departure times per stop, either one-time or
// recurring on selected weekdays. The remote store owns it after submission.
type Schedule struct {
	id          uuid.UUID
	busID       uuid.UUID
	routeID     uuid.UUID
	stopTimings []StopTiming
	isOneTime   bool
	repeatDays  DaySet
	createdAt   time.Time
	updatedAt   time.Time
}

// NewSchedule validates timings and recurrence and assembles a Schedule.
// Timings must already be in route order; temporal validation collects all
// violations instead of failing fast.
func NewSchedule(
	busID, routeID uuid.UUID,
	timings []StopTiming,
	isOneTime bool,
	repeatDays DaySet,
) (*Schedule, error) {
	if len(timings) == 0 {
		return nil, ErrEmptyStops
	}
	if !isOneTime && repeatDays.IsEmpty() {
		return nil, ErrNoRepeatDaysSelected
	}
	if err := ValidateTimings(timings); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Schedule{
		id:          uuid.New(),
		busID:       busID,
		routeID:     routeID,
		stopTimings: append([]StopTiming(nil), timings...),
		isOneTime:   isOneTime,
		repeatDays:  repeatDays,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructSchedule rebuilds a Schedule from persistence data (no validation).
func ReconstructSchedule(
	id, busID, routeID uuid.UUID,
	timings []StopTiming,
	isOneTime bool,
	repeatDays DaySet,
	createdAt, updatedAt time.Time,
) *Schedule {
	return &Schedule{
		id:          id,
		busID:       busID,
		routeID:     routeID,
		stopTimings: timings,
		isOneTime:   isOneTime,
		repeatDays:  repeatDays,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the schedule's unique identifier.
func (s *Schedule) ID() uuid.UUID { return s.id }

// BusID returns the assigned bus.
func (s *Schedule) BusID() uuid.UUID { return s.busID }

// RouteID returns the route being served.
func (s *Schedule) RouteID() uuid.UUID { return s.routeID }

// StopTimings returns a copy of the ordered stop timings.
func (s *Schedule) StopTimings() []StopTiming {
	out := make([]StopTiming, len(s.stopTimings))
	copy(out, s.stopTimings)
	return out
}

// IsOneTime reports whether the schedule runs once rather than recurring.
func (s *Schedule) IsOneTime() bool { return s.isOneTime }

// RepeatDays returns the recurrence day set.
func (s *Schedule) RepeatDays() DaySet { return s.repeatDays }

// OverallStart returns the first stop's arrival time.
func (s *Schedule) OverallStart() TimeOfDay {
	return s.stopTimings[0].Start
}

// OverallEnd returns the last stop's departure time.
func (s *Schedule) OverallEnd() TimeOfDay {
	return s.stopTimings[len(s.stopTimings)-1].End
}

// AppliesOn reports whether the schedule runs on the given weekday. One-time
// schedules never recur, so this is always false for them.
func (s *Schedule) AppliesOn(day Weekday) bool {
	return !s.isOneTime && s.repeatDays.Contains(day)
}

// CreatedAt returns the creation timestamp.
func (s *Schedule) CreatedAt() time.Time { return s.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (s *Schedule) UpdatedAt() time.Time { return s.updatedAt }
