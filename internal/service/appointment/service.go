package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/medicarehq/booking-api/internal/model"
	"github.com/medicarehq/booking-api/internal/repository"
	"github.com/medicarehq/booking-api/internal/service/notification"
	apperrors "github.com/medicarehq/booking-api/pkg/errors"
	"github.com/medicarehq/booking-api/pkg/messaging"
	"github.com/medicarehq/booking-api/pkg/metrics"
)

// Event types published on the broker.
const (
	EventAppointmentCreated       = "appointment.created"
	EventAppointmentStatusChanged = "appointment.status_changed"
)

type Service struct {
	repo      repository.AppointmentRepository
	notifier  notification.Service
	publisher messaging.Publisher
	metrics   *metrics.Metrics
}

func NewService(repo repository.AppointmentRepository, notifier notification.Service,
	publisher messaging.Publisher, m *metrics.Metrics) *Service {
	return &Service{
		repo:      repo,
		notifier:  notifier,
		publisher: publisher,
		metrics:   m,
	}
}

// Create books an appointment. New appointments always start pending, no
// matter what the request carried.
func (s *Service) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	apt := &model.Appointment{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Time:      req.Time,
		Reason:    req.Reason,
		Type:      req.Type,
		Notes:     req.Notes,
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.metrics.AppointmentsCreated.Inc()
	s.publish(ctx, EventAppointmentCreated, apt)

	log.Info().
		Str("appointment_id", apt.ID.String()).
		Str("patient_id", apt.PatientID.String()).
		Str("doctor_id", apt.DoctorID.String()).
		Msg("appointment booked")

	return apt, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentWithDetails, error) {
	appointments, err := s.repo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list patient appointments: %w", err)
	}
	return appointments, nil
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AppointmentWithDetails, error) {
	appointments, err := s.repo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctor appointments: %w", err)
	}
	return appointments, nil
}

// UpdateStatus applies a lifecycle transition. Illegal transitions, such as
// reopening a completed appointment, are rejected before the store is touched.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment")
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if !current.Status.CanTransitionTo(status) {
		return nil, apperrors.BadRequest(fmt.Sprintf(
			"cannot change appointment status from %s to %s", current.Status, status))
	}

	updated, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("appointment")
		}
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}

	s.metrics.StatusTransitions.WithLabelValues(string(current.Status), string(status)).Inc()
	s.publish(ctx, EventAppointmentStatusChanged, updated)
	s.notify(ctx, updated)

	return updated, nil
}

func (s *Service) publish(ctx context.Context, eventType string, apt *model.Appointment) {
	if err := s.publisher.Publish(ctx, eventType, apt); err != nil {
		log.Error().Err(err).
			Str("event_type", eventType).
			Str("appointment_id", apt.ID.String()).
			Msg("failed to publish appointment event")
	}
}

// notify emails the patient about confirmations and cancellations. Delivery
// problems are logged and swallowed; the status change already happened.
func (s *Service) notify(ctx context.Context, apt *model.Appointment) {
	if apt.Status != model.AppointmentStatusConfirmed && apt.Status != model.AppointmentStatusCancelled {
		return
	}

	details, err := s.repo.GetWithDetails(ctx, apt.ID)
	if err != nil {
		log.Warn().Err(err).
			Str("appointment_id", apt.ID.String()).
			Msg("skipping notification, appointment details unavailable")
		return
	}

	switch apt.Status {
	case model.AppointmentStatusConfirmed:
		err = s.notifier.AppointmentConfirmed(ctx, details)
	case model.AppointmentStatusCancelled:
		err = s.notifier.AppointmentCancelled(ctx, details)
	}
	if err != nil {
		log.Error().Err(err).
			Str("appointment_id", apt.ID.String()).
			Msg("failed to send appointment notification")
	}
}
