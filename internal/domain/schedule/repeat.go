package schedule

import (
	"fmt"
	"time"

	"github.com/fleetdash/service-fleet/internal/domain"
)

// Weekday is a three-letter weekday token as used on the wire.
type Weekday string

const (
	Sun Weekday = "Sun"
	Mon Weekday = "Mon"
	Tue Weekday = "Tue"
	Wed Weekday = "Wed"
	Thu Weekday = "Thu"
	Fri Weekday = "Fri"
	Sat Weekday = "Sat"
)

var weekdayOrder = []Weekday{Sun, Mon, Tue, Wed, Thu, Fri, Sat}

// IsValid returns true if the token is one of the seven recognized weekdays.
func (w Weekday) IsValid() bool {
	switch w {
	case Sun, Mon, Tue, Wed, Thu, Fri, Sat:
		return true
	}
	return false
}

// WeekdayOf converts a time.Weekday to its token.
func WeekdayOf(d time.Weekday) Weekday {
	return weekdayOrder[int(d)]
}

// DaySet is a set of weekdays; duplicates are idempotent.
type DaySet map[Weekday]struct{}

// NewDaySet builds a DaySet from tokens, rejecting unrecognized ones.
func NewDaySet(days []Weekday) (DaySet, error) {
	set := make(DaySet, len(days))
	for _, d := range days {
		if !d.IsValid() {
			return nil, domain.NewValidationError(fmt.Sprintf("unknown weekday %q", d))
		}
		set[d] = struct{}{}
	}
	return set, nil
}

// Contains reports whether the set includes the given day.
func (s DaySet) Contains(d Weekday) bool {
	_, ok := s[d]
	return ok
}

// IsEmpty reports whether the set has no days.
func (s DaySet) IsEmpty() bool {
	return len(s) == 0
}

// Days returns the set's members in Sun..Sat order.
func (s DaySet) Days() []Weekday {
	out := make([]Weekday, 0, len(s))
	for _, d := range weekdayOrder {
		if s.Contains(d) {
			out = append(out, d)
		}
	}
	return out
}
