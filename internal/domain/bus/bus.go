package bus

import (
	"fmt"
	"strings"
	"time"

	"github.com/fleetdash/service-fleet/internal/domain"
	"github.com/google/uuid"
)

// Status is the operational state of a bus.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

// IsValid returns true if the status is recognized.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive:
		return true
	}
	return false
}

// ParseStatus converts a string to a Status, case-insensitively.
func ParseStatus(s string) (Status, error) {
	status := Status(strings.ToUpper(s))
	if !status.IsValid() {
		return "", domain.NewValidationError(fmt.Sprintf("invalid bus status: %s", s))
	}
	return status, nil
}

// Bus is the aggregate root for the fleet's vehicles.
type Bus struct {
	id           uuid.UUID
	number       string
	model        string
	capacity     int
	status       Status
	driverName   string
	driverNumber string
	createdAt    time.Time
	updatedAt    time.Time
}

// NewBus creates a Bus, validating its fields.
func NewBus(number, model string, capacity int, status Status, driverName, driverNumber string) (*Bus, error) {
	if strings.TrimSpace(number) == "" {
		return nil, domain.NewValidationError("bus number is required")
	}
	if capacity <= 0 {
		return nil, domain.NewValidationError("bus capacity must be positive")
	}
	if !status.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid bus status: %s", status))
	}

	now := time.Now().UTC()
	return &Bus{
		id:           uuid.New(),
		number:       number,
		model:        model,
		capacity:     capacity,
		status:       status,
		driverName:   driverName,
		driverNumber: driverNumber,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructBus rebuilds a Bus from persistence data (no validation).
func ReconstructBus(
	id uuid.UUID,
	number, model string,
	capacity int,
	status Status,
	driverName, driverNumber string,
	createdAt, updatedAt time.Time,
) *Bus {
	return &Bus{
		id:           id,
		number:       number,
		model:        model,
		capacity:     capacity,
		status:       status,
		driverName:   driverName,
		driverNumber: driverNumber,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// ID returns the bus's unique identifier.
func (b *Bus) ID() uuid.UUID { return b.id }

// Number returns the fleet-unique bus number.
func (b *Bus) Number() string { return b.number }

// Model returns the vehicle model.
func (b *Bus) Model() string { return b.model }

// Capacity returns the seating capacity.
func (b *Bus) Capacity() int { return b.capacity }

// Status returns the operational status.
func (b *Bus) Status() Status { return b.status }

// DriverName returns the assigned driver's name.
func (b *Bus) DriverName() string { return b.driverName }

// DriverNumber returns the assigned driver's phone number.
func (b *Bus) DriverNumber() string { return b.driverNumber }

// CreatedAt returns the creation timestamp.
func (b *Bus) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Bus) UpdatedAt() time.Time { return b.updatedAt }

// UpdateDetails replaces the mutable fields of the bus.
func (b *Bus) UpdateDetails(number, model string, capacity int, status Status, driverName, driverNumber string) error {
	if strings.TrimSpace(number) == "" {
		return domain.NewValidationError("bus number is required")
	}
	if capacity <= 0 {
		return domain.NewValidationError("bus capacity must be positive")
	}
	if !status.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid bus status: %s", status))
	}
	b.number = number
	b.model = model
	b.capacity = capacity
	b.status = status
	b.driverName = driverName
	b.driverNumber = driverNumber
	b.updatedAt = time.Now().UTC()
	return nil
}
