package schedule

import (
	"fmt"
	"time"

	"github.com/fleetdash/service-fleet/internal/domain"
)

// referenceDate is the dummy date schedule times are normalized onto before
// persistence. Calendar dates are irrelevant to a schedule; only relative
// ordering within a day matters.
var referenceDate = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// TimeOfDay is a wall-clock time within a single day, minute resolution.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses an "HH:MM" string. The whole input must match;
// trailing characters are rejected.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if len(s) != 5 || s[2] != ':' {
		return TimeOfDay{}, domain.NewValidationError(fmt.Sprintf("invalid time %q, expected HH:MM", s))
	}
	if _, err := fmt.Sscanf(s, "%2d:%2d", &h, &m); err != nil {
		return TimeOfDay{}, domain.NewValidationError(fmt.Sprintf("invalid time %q, expected HH:MM", s))
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return TimeOfDay{}, domain.NewValidationError(fmt.Sprintf("invalid time %q, expected HH:MM", s))
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

// Minutes returns minutes since midnight.
func (t TimeOfDay) Minutes() int {
	return t.Hour*60 + t.Minute
}

// Before reports whether t is strictly earlier than other.
func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.Minutes() < other.Minutes()
}

// After reports whether t is strictly later than other.
func (t TimeOfDay) After(other TimeOfDay) bool {
	return t.Minutes() > other.Minutes()
}

// IsPM reports whether t is at or after 12:00.
func (t TimeOfDay) IsPM() bool {
	return t.Hour >= 12
}

// At returns the time anchored on the fixed reference date in UTC.
func (t TimeOfDay) At() time.Time {
	return referenceDate.Add(time.Duration(t.Minutes()) * time.Minute)
}

// TimeOfDayFrom extracts the wall-clock part of an anchored timestamp.
func TimeOfDayFrom(ts time.Time) TimeOfDay {
	ts = ts.UTC()
	return TimeOfDay{Hour: ts.Hour(), Minute: ts.Minute()}
}

// String returns the "HH:MM" form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
