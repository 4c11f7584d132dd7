package schedule

import (
	"fmt"
	"strings"
)

// Violation codes for timing validation.
type ViolationCode string

const (
	// DepartureBeforeArrival: a stop's end time is not strictly after its start.
	DepartureBeforeArrival ViolationCode = "departure_before_arrival"
	// CrossesMidnight: a stop starts at or after 12:00 and ends before 12:00.
	// Schedules are modeled within a single day; wrap-around is unsupported.
	CrossesMidnight ViolationCode = "crosses_midnight"
	// OutOfOrderStops: a stop's arrival is not strictly after the previous
	// stop's departure.
	OutOfOrderStops ViolationCode = "out_of_order_stops"
)

// Fields a violation can point at, so a UI can highlight the offending input.
const (
	FieldStartTime = "startTime"
	FieldEndTime   = "endTime"
)

// Violation locates a single timing rule failure by stop index and field.
type Violation struct {
	Index   int           `json:"index"`
	Field   string        `json:"field"`
	Code    ViolationCode `json:"code"`
	Message string        `json:"message"`
}

// TimingValidationError aggregates every violation found in one pass;
// validation never stops at the first failure.
type TimingValidationError struct {
	Violations []Violation
}

func (e *TimingValidationError) Error() string {
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = fmt.Sprintf("stop %d %s: %s", v.Index, v.Field, v.Message)
	}
	return "invalid stop timings: " + strings.Join(parts, "; ")
}

// StopTiming assigns arrival and departure times to one stop of a route.
type StopTiming struct {
	StopID string
	Start  TimeOfDay
	End    TimeOfDay
}

// EntryState tracks how complete a timing entry is. Terminal validation only
// runs once every entry is Set.
type EntryState int

const (
	Unset EntryState = iota
	PartiallySet
	Set
)

// TimingSheet collects per-stop arrival/departure times for a route's stops
// in route order, then validates temporal consistency across the full list.
// Not safe for concurrent use.
type TimingSheet struct {
	stopIDs []string
	starts  []*TimeOfDay
	ends    []*TimeOfDay
}

// NewTimingSheet creates a sheet with one entry per stop, in route order.
func NewTimingSheet(stopIDs []string) *TimingSheet {
	return &TimingSheet{
		stopIDs: append([]string(nil), stopIDs...),
		starts:  make([]*TimeOfDay, len(stopIDs)),
		ends:    make([]*TimeOfDay, len(stopIDs)),
	}
}

// SetArrival records the arrival time for the stop at index i.
func (s *TimingSheet) SetArrival(i int, t TimeOfDay) error {
	if i < 0 || i >= len(s.stopIDs) {
		return fmt.Errorf("timing index %d out of bounds for %d stops", i, len(s.stopIDs))
	}
	s.starts[i] = &t
	return nil
}

// SetDeparture records the departure time for the stop at index i.
func (s *TimingSheet) SetDeparture(i int, t TimeOfDay) error {
	if i < 0 || i >= len(s.stopIDs) {
		return fmt.Errorf("timing index %d out of bounds for %d stops", i, len(s.stopIDs))
	}
	s.ends[i] = &t
	return nil
}

// State returns the completeness of the entry at index i.
func (s *TimingSheet) State(i int) EntryState {
	switch {
	case s.starts[i] == nil && s.ends[i] == nil:
		return Unset
	case s.starts[i] != nil && s.ends[i] != nil:
		return Set
	default:
		return PartiallySet
	}
}

// Complete reports whether every entry has both times set.
func (s *TimingSheet) Complete() bool {
	for i := range s.stopIDs {
		if s.State(i) != Set {
			return false
		}
	}
	return true
}

// Timings returns the collected timings. Only meaningful once Complete.
func (s *TimingSheet) Timings() []StopTiming {
	out := make([]StopTiming, len(s.stopIDs))
	for i, id := range s.stopIDs {
		t := StopTiming{StopID: id}
		if s.starts[i] != nil {
			t.Start = *s.starts[i]
		}
		if s.ends[i] != nil {
			t.End = *s.ends[i]
		}
		out[i] = t
	}
	return out
}

// Validate runs the full-list timing validation once all entries are Set.
// It returns a *TimingValidationError carrying every violation, or nil.
func (s *TimingSheet) Validate() error {
	if !s.Complete() {
		return fmt.Errorf("timing sheet incomplete: validation requires all entries set")
	}
	return ValidateTimings(s.Timings())
}

// ValidateTimings applies the ordering rules across an ordered timing list
// and collects all violations instead of failing fast.
func ValidateTimings(timings []StopTiming) error {
	var violations []Violation

	for i, t := range timings {
		if t.Start.IsPM() && !t.End.IsPM() {
			violations = append(violations, Violation{
				Index:   i,
				Field:   FieldEndTime,
				Code:    CrossesMidnight,
				Message: "cannot cross midnight, end time must be later on the same day",
			})
			// Skip further checks for this stop; its times are not comparable.
			continue
		}

		if !t.End.After(t.Start) {
			violations = append(violations, Violation{
				Index:   i,
				Field:   FieldEndTime,
				Code:    DepartureBeforeArrival,
				Message: "departure must be after arrival",
			})
		}

		if i < len(timings)-1 {
			next := timings[i+1]
			if !next.Start.After(t.End) {
				violations = append(violations, Violation{
					Index:   i + 1,
					Field:   FieldStartTime,
					Code:    OutOfOrderStops,
					Message: "next arrival must be after previous departure",
				})
			}
		}
	}

	if len(violations) > 0 {
		return &TimingValidationError{Violations: violations}
	}
	return nil
}
