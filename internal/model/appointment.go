package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// statusTransitions is the allowed lifecycle. Cancelled and completed are
// terminal.
var statusTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusPending:   {AppointmentStatusConfirmed, AppointmentStatusCancelled},
	AppointmentStatusConfirmed: {AppointmentStatusCompleted, AppointmentStatusCancelled},
}

// CanTransitionTo reports whether moving from s to next is a legal lifecycle
// step.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Valid reports whether s is one of the four known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed,
		AppointmentStatusCancelled, AppointmentStatusCompleted:
		return true
	}
	return false
}

type AppointmentType string

const (
	AppointmentTypeInPerson AppointmentType = "in-person"
	AppointmentTypeVideo    AppointmentType = "video"
	AppointmentTypePhone    AppointmentType = "phone"
)

// Appointment links a patient to a doctor at a requested date and time. Date
// and Time are kept as the strings the client submitted; the server never
// interprets them.
type Appointment struct {
	ID        uuid.UUID         `json:"id" db:"id"`
	PatientID uuid.UUID         `json:"patientId" db:"patient_id"`
	DoctorID  uuid.UUID         `json:"doctorId" db:"doctor_id"`
	Date      string            `json:"date" db:"date"`
	Time      string            `json:"time" db:"time"`
	Reason    string            `json:"reason" db:"reason"`
	Type      AppointmentType   `json:"type" db:"type"`
	Status    AppointmentStatus `json:"status" db:"status"`
	Notes     string            `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time         `json:"createdAt" db:"created_at"`
}

// AppointmentWithDetails is the dashboard read model: the appointment joined
// with the full doctor profile (including its user) and the patient record.
type AppointmentWithDetails struct {
	Appointment
	Doctor  DoctorWithUser `json:"doctor"`
	Patient User           `json:"patient"`
}

// CreateAppointmentRequest is the booking payload. Any status supplied by the
// client is ignored; new appointments always start pending.
type CreateAppointmentRequest struct {
	PatientID uuid.UUID       `json:"patientId" binding:"required"`
	DoctorID  uuid.UUID       `json:"doctorId" binding:"required"`
	Date      string          `json:"date" binding:"required"`
	Time      string          `json:"time" binding:"required"`
	Reason    string          `json:"reason" binding:"required"`
	Type      AppointmentType `json:"type" binding:"required,oneof=in-person video phone"`
	Notes     string          `json:"notes"`
}

type UpdateAppointmentStatusRequest struct {
	Status AppointmentStatus `json:"status" binding:"required,oneof=pending confirmed cancelled completed"`
}
