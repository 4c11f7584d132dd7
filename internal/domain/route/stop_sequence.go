package route

import (
	"fmt"

	"github.com/fleetdash/service-fleet/internal/domain/geo"
	"github.com/google/uuid"
)

// Stop is a named waypoint in a stop sequence. Order is 1-based and dense;
// DistanceFromPrevious and EstTimeFromPrevious are derived from the previous
// stop's location and are zero for the first stop.
type Stop struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"stopName"`
	Location             geo.Point `json:"location"`
	Order                int       `json:"stopOrder"`
	DistanceFromPrevious float64   `json:"distanceFromPrevious"`
	EstTimeFromPrevious  float64   `json:"estimatedTime"`
}

// InvalidIndexError signals a reorder target outside the sequence bounds.
// It is a contract violation by the caller, not recoverable user input.
type InvalidIndexError struct {
	Index int
	Size  int
}

func (e *InvalidIndexError) Error() string {
	return fmt.Sprintf("index %d out of bounds for sequence of %d stops", e.Index, e.Size)
}

// StopSequence is an ordered, mutable collection of stops. Every structural
// mutation reassigns order densely and recomputes the derived distance/time
// fields over the whole list. Not safe for concurrent use; a sequence is
// owned by a single builder session.
type StopSequence struct {
	stops           []Stop
	averageSpeedKmh float64
}

// NewStopSequence creates an empty sequence using the given average speed
// for travel-time estimation.
func NewStopSequence(averageSpeedKmh float64) *StopSequence {
	return &StopSequence{averageSpeedKmh: averageSpeedKmh}
}

// Append adds a stop at the end of the sequence with a freshly generated id
// and returns it.
func (s *StopSequence) Append(name string, location geo.Point) Stop {
	stop := Stop{
		ID:       uuid.New().String(),
		Name:     name,
		Location: location,
	}
	s.stops = append(s.stops, stop)
	s.recompute()
	return s.stops[len(s.stops)-1]
}

// append restores a stop with a known id, used when rebuilding a sequence
// from a persisted route.
func (s *StopSequence) appendExisting(id, name string, location geo.Point) {
	s.stops = append(s.stops, Stop{ID: id, Name: name, Location: location})
	s.recompute()
}

// Remove deletes the stop with the given id. Unknown ids are a no-op.
func (s *StopSequence) Remove(stopID string) {
	idx := s.indexOf(stopID)
	if idx < 0 {
		return
	}
	s.stops = append(s.stops[:idx], s.stops[idx+1:]...)
	s.recompute()
}

// Reorder moves the stop with the given id to newIndex (0-based), shifting
// the stops in between. Drag-and-drop semantics.
func (s *StopSequence) Reorder(stopID string, newIndex int) error {
	if newIndex < 0 || newIndex >= len(s.stops) {
		return &InvalidIndexError{Index: newIndex, Size: len(s.stops)}
	}
	oldIndex := s.indexOf(stopID)
	if oldIndex < 0 {
		return nil
	}
	if oldIndex == newIndex {
		return nil
	}

	stop := s.stops[oldIndex]
	s.stops = append(s.stops[:oldIndex], s.stops[oldIndex+1:]...)
	s.stops = append(s.stops[:newIndex], append([]Stop{stop}, s.stops[newIndex:]...)...)
	s.recompute()
	return nil
}

// Relocate changes only the coordinates of an existing stop. Unknown ids
// are a no-op.
func (s *StopSequence) Relocate(stopID string, location geo.Point) {
	idx := s.indexOf(stopID)
	if idx < 0 {
		return
	}
	s.stops[idx].Location = location
	s.recompute()
}

// Len returns the number of stops.
func (s *StopSequence) Len() int {
	return len(s.stops)
}

// Stops returns a copy of the ordered stop list.
func (s *StopSequence) Stops() []Stop {
	out := make([]Stop, len(s.stops))
	copy(out, s.stops)
	return out
}

// TotalDistance sums DistanceFromPrevious over all stops, in kilometers.
func (s *StopSequence) TotalDistance() float64 {
	var total float64
	for _, st := range s.stops {
		total += st.DistanceFromPrevious
	}
	return total
}

// TotalTime sums EstTimeFromPrevious over all stops, in minutes.
func (s *StopSequence) TotalTime() float64 {
	var total float64
	for _, st := range s.stops {
		total += st.EstTimeFromPrevious
	}
	return total
}

// recompute reassigns dense 1-based order and re-derives the distance/time
// fields for the whole list. Pure function of the order and locations, so
// running it twice yields identical results.
func (s *StopSequence) recompute() {
	for i := range s.stops {
		s.stops[i].Order = i + 1
		if i == 0 {
			s.stops[i].DistanceFromPrevious = 0
			s.stops[i].EstTimeFromPrevious = 0
			continue
		}
		d := geo.DistanceKm(s.stops[i-1].Location, s.stops[i].Location)
		s.stops[i].DistanceFromPrevious = d
		s.stops[i].EstTimeFromPrevious = geo.TravelTimeMinutes(d, s.averageSpeedKmh)
	}
}

func (s *StopSequence) indexOf(stopID string) int {
	for i, st := range s.stops {
		if st.ID == stopID {
			return i
		}
	}
	return -1
}
