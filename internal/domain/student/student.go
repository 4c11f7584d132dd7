package student

import (
	"strings"
	"time"

	"github.com/fleetdash/service-fleet/internal/domain"
	"github.com/google/uuid"
)

// Student is the aggregate root for riders registered with the fleet.
type Student struct {
	id         uuid.UUID
	rollNumber string
	name       string
	stream     string
	address    string
	mobileNo   string
	email      string
	createdAt  time.Time
	updatedAt  time.Time
}

// NewStudent creates a Student, validating its fields.
func NewStudent(rollNumber, name, stream, address, mobileNo, email string) (*Student, error) {
	if strings.TrimSpace(rollNumber) == "" {
		return nil, domain.NewValidationError("student roll number is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, domain.NewValidationError("student name is required")
	}

	now := time.Now().UTC()
	return &Student{
		id:         uuid.New(),
		rollNumber: rollNumber,
		name:       name,
		stream:     stream,
		address:    address,
		mobileNo:   mobileNo,
		email:      email,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ReconstructStudent rebuilds a Student from persistence data (no validation).
func ReconstructStudent(
	id uuid.UUID,
	rollNumber, name, stream, address, mobileNo, email string,
	createdAt, updatedAt time.Time,
) *Student {
	return &Student{
		id:         id,
		rollNumber: rollNumber,
		name:       name,
		stream:     stream,
		address:    address,
		mobileNo:   mobileNo,
		email:      email,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}
}

// ID returns the student's unique identifier.
func (s *Student) ID() uuid.UUID { return s.id }

// RollNumber returns the institution-unique roll number.
func (s *Student) RollNumber() string { return s.rollNumber }

// Name returns the student's name.
func (s *Student) Name() string { return s.name }

// Stream returns the study stream.
func (s *Student) Stream() string { return s.stream }

// Address returns the home address.
func (s *Student) Address() string { return s.address }

// MobileNo returns the contact phone number.
func (s *Student) MobileNo() string { return s.mobileNo }

// Email returns the contact email.
func (s *Student) Email() string { return s.email }

// CreatedAt returns the creation timestamp.
func (s *Student) CreatedAt() time.Time { return s.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (s *Student) UpdatedAt() time.Time { return s.updatedAt }

// UpdateDetails replaces the mutable fields of the student record.
func (s *Student) UpdateDetails(rollNumber, name, stream, address, mobileNo, email string) error {
	if strings.TrimSpace(rollNumber) == "" {
		return domain.NewValidationError("student roll number is required")
	}
	if strings.TrimSpace(name) == "" {
		return domain.NewValidationError("student name is required")
	}
	s.rollNumber = rollNumber
	s.name = name
	s.stream = stream
	s.address = address
	s.mobileNo = mobileNo
	s.email = email
	s.updatedAt = time.Now().UTC()
	return nil
}
