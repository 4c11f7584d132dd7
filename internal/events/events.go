package events

import (
	"time"

	"github.com/google/uuid"
)

// Event type identifiers carried in the CloudEvent envelope.
const (
	RouteCreated = "fleet.route.created"
	RouteUpdated = "fleet.route.updated"
	RouteDeleted = "fleet.route.deleted"

	ScheduleCreated = "fleet.schedule.created"
	ScheduleDeleted = "fleet.schedule.deleted"
)

// RouteEvent is published whenever a route is created, updated or deleted.
type RouteEvent struct {
	RouteID         uuid.UUID `json:"route_id"`
	Name            string    `json:"name"`
	StopCount       int       `json:"stop_count"`
	TotalDistanceKm float64   `json:"total_distance_km"`
	OccurredAt      time.Time `json:"occurred_at"`
}

// ScheduleEvent is published whenever a schedule is created or deleted.
type ScheduleEvent struct {
	ScheduleID uuid.UUID `json:"schedule_id"`
	BusID      uuid.UUID `json:"bus_id"`
	RouteID    uuid.UUID `json:"route_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// BusLocation is the payload broadcast by vehicle trackers on the location
// topic.
type BusLocation struct {
	BusNumber string  `json:"busNumber"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	HDOP      float64 `json:"hdop"`
}
