package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/medicarehq/booking-api/internal/model"
	"github.com/medicarehq/booking-api/internal/repository"
)

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	if apt.ID == uuid.Nil {
		apt.ID = uuid.New()
	}
	apt.Status = model.AppointmentStatusPending
	apt.CreatedAt = time.Now()

	query := `
		INSERT INTO appointments (id, patient_id, doctor_id, date, time, reason, type, status, notes, created_at)
		VALUES (:id, :patient_id, :doctor_id, :date, :time, :reason, :type, :status, :notes, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, apt); err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	var apt model.Appointment
	err := r.db.GetContext(ctx, &apt, `SELECT * FROM appointments WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*model.AppointmentWithDetails, error) {
	apt, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.details(ctx, apt)
}

func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentWithDetails, error) {
	return r.list(ctx, `SELECT * FROM appointments WHERE patient_id = $1 ORDER BY created_at`, patientID)
}

func (r *appointmentRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AppointmentWithDetails, error) {
	return r.list(ctx, `SELECT * FROM appointments WHERE doctor_id = $1 ORDER BY created_at`, doctorID)
}

func (r *appointmentRepository) list(ctx context.Context, query string, arg uuid.UUID) ([]*model.AppointmentWithDetails, error) {
	var appointments []model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, arg); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}

	result := make([]*model.AppointmentWithDetails, 0, len(appointments))
	for i := range appointments {
		details, err := r.details(ctx, &appointments[i])
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// Dangling reference, the row is dropped from the listing.
				continue
			}
			return nil, err
		}
		result = append(result, details)
	}
	return result, nil
}

func (r *appointmentRepository) details(ctx context.Context, apt *model.Appointment) (*model.AppointmentWithDetails, error) {
	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor, `SELECT * FROM doctors WHERE id = $1`, apt.DoctorID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment doctor: %w", err)
	}

	var doctorUser model.User
	err = r.db.GetContext(ctx, &doctorUser, `SELECT * FROM users WHERE id = $1`, doctor.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor user: %w", err)
	}

	var patient model.User
	err = r.db.GetContext(ctx, &patient, `SELECT * FROM users WHERE id = $1`, apt.PatientID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment patient: %w", err)
	}

	return &model.AppointmentWithDetails{
		Appointment: *apt,
		Doctor:      model.DoctorWithUser{Doctor: doctor, User: doctorUser},
		Patient:     patient,
	}, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error) {
	var apt model.Appointment
	err := r.db.GetContext(ctx, &apt,
		`UPDATE appointments SET status = $1 WHERE id = $2 RETURNING *`, status, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}
	return &apt, nil
}
