package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medicarehq/booking-api/internal/model"
	"github.com/medicarehq/booking-api/internal/repository"
)

type appointmentRepository struct {
	store *Store
}

func NewAppointmentRepository(store *Store) repository.AppointmentRepository {
	return &appointmentRepository{store: store}
}

// Create stores the appointment, always in pending status, whatever the
// caller set.
func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if apt.ID == uuid.Nil {
		apt.ID = uuid.New()
	}
	apt.Status = model.AppointmentStatusPending
	apt.CreatedAt = time.Now()
	r.store.appointments[apt.ID] = *apt
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	apt, ok := r.store.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &apt, nil
}

func (r *appointmentRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*model.AppointmentWithDetails, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	apt, ok := r.store.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	details, err := r.store.appointmentDetails(apt)
	if err != nil {
		return nil, err
	}
	return details, nil
}

func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*model.AppointmentWithDetails, error) {
	return r.list(func(apt model.Appointment) bool { return apt.PatientID == patientID })
}

func (r *appointmentRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID) ([]*model.AppointmentWithDetails, error) {
	return r.list(func(apt model.Appointment) bool { return apt.DoctorID == doctorID })
}

func (r *appointmentRepository) list(match func(model.Appointment) bool) ([]*model.AppointmentWithDetails, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]*model.AppointmentWithDetails, 0)
	for _, apt := range r.store.appointments {
		if !match(apt) {
			continue
		}
		details, err := r.store.appointmentDetails(apt)
		if err != nil {
			// A missing doctor or patient drops the row, it never fails the
			// listing.
			continue
		}
		result = append(result, details)
	}
	return result, nil
}

func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) (*model.Appointment, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	apt, ok := r.store.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	apt.Status = status
	r.store.appointments[id] = apt
	return &apt, nil
}

// appointmentDetails resolves the doctor, the doctor's user, and the patient.
// Callers must hold the store lock.
func (s *Store) appointmentDetails(apt model.Appointment) (*model.AppointmentWithDetails, error) {
	doctor, err := s.getDoctor(apt.DoctorID)
	if err != nil {
		return nil, err
	}
	doctorUser, err := s.getUser(doctor.UserID)
	if err != nil {
		return nil, err
	}
	patient, err := s.getUser(apt.PatientID)
	if err != nil {
		return nil, err
	}
	return &model.AppointmentWithDetails{
		Appointment: apt,
		Doctor:      model.DoctorWithUser{Doctor: *doctor, User: *doctorUser},
		Patient:     *patient,
	}, nil
}
