package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/medicarehq/booking-api/internal/model"
)

// ErrNotFound is returned by every lookup that misses.
var ErrNotFound = errors.New("record not found")

type (
	// UserRepository handles user records. Delete exists only to compensate
	// a failed doctor-profile creation during registration.
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Delete(ctx context.Context, id uuid.UUID) error
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error)
		// ListWithUsers joins each doctor with its owning user; doctors whose
		// user record is missing are dropped from the result, never reported.
		ListWithUsers(ctx context.Context) ([]*model.DoctorWithUser, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		GetWithDetails(ctx context.Context, id uuid.UUID) (*model.AppointmentWithDetails, error)
		ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentWithDetails, error)
		ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AppointmentWithDetails, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error)
	}
)
