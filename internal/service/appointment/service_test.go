package appointment_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicarehq/booking-api/internal/model"
	"github.com/medicarehq/booking-api/internal/repository/memory"
	"github.com/medicarehq/booking-api/internal/service/appointment"
	apperrors "github.com/medicarehq/booking-api/pkg/errors"
	"github.com/medicarehq/booking-api/pkg/metrics"
)

type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, _ interface{}) error {
	p.events = append(p.events, eventType)
	return nil
}

type recordingNotifier struct {
	confirmed []uuid.UUID
	cancelled []uuid.UUID
}

func (n *recordingNotifier) AppointmentConfirmed(_ context.Context, apt *model.AppointmentWithDetails) error {
	n.confirmed = append(n.confirmed, apt.ID)
	return nil
}

func (n *recordingNotifier) AppointmentCancelled(_ context.Context, apt *model.AppointmentWithDetails) error {
	n.cancelled = append(n.cancelled, apt.ID)
	return nil
}

type fixture struct {
	svc       *appointment.Service
	publisher *recordingPublisher
	notifier  *recordingNotifier
	patientID uuid.UUID
	doctorID  uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	doctors := memory.NewDoctorRepository(store)

	doctorUser := &model.User{
		Email: "doc@example.com", PasswordHash: "x",
		FirstName: "Doc", LastName: "Smith", Phone: "555-0001",
		Role: model.RoleDoctor,
	}
	require.NoError(t, users.Create(context.Background(), doctorUser))

	doctor := &model.Doctor{UserID: doctorUser.ID, Specialization: "Cardiologist", Experience: 10}
	require.NoError(t, doctors.Create(context.Background(), doctor))

	patient := &model.User{
		Email: "pat@example.com", PasswordHash: "x",
		FirstName: "Pat", LastName: "Doe", Phone: "555-0002",
		Role: model.RolePatient,
	}
	require.NoError(t, users.Create(context.Background(), patient))

	publisher := &recordingPublisher{}
	notifier := &recordingNotifier{}
	svc := appointment.NewService(
		memory.NewAppointmentRepository(store), notifier, publisher, metrics.New("test"))

	return &fixture{
		svc:       svc,
		publisher: publisher,
		notifier:  notifier,
		patientID: patient.ID,
		doctorID:  doctor.ID,
	}
}

func (f *fixture) book(t *testing.T) *model.Appointment {
	t.Helper()
	apt, err := f.svc.Create(context.Background(), &model.CreateAppointmentRequest{
		PatientID: f.patientID,
		DoctorID:  f.doctorID,
		Date:      "2026-09-15",
		Time:      "10:00",
		Reason:    "checkup",
		Type:      model.AppointmentTypeInPerson,
	})
	require.NoError(t, err)
	return apt
}

func TestCreateStartsPending(t *testing.T) {
	f := newFixture(t)
	apt := f.book(t)

	assert.Equal(t, model.AppointmentStatusPending, apt.Status)
	assert.Equal(t, []string{appointment.EventAppointmentCreated}, f.publisher.events)
}

func TestUpdateStatusLegalTransition(t *testing.T) {
	f := newFixture(t)
	apt := f.book(t)

	updated, err := f.svc.UpdateStatus(context.Background(), apt.ID, model.AppointmentStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, updated.Status)
	assert.Equal(t, []uuid.UUID{apt.ID}, f.notifier.confirmed)
	assert.Contains(t, f.publisher.events, appointment.EventAppointmentStatusChanged)

	updated, err = f.svc.UpdateStatus(context.Background(), apt.ID, model.AppointmentStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, updated.Status)
	// Completion is not a notification-worthy event.
	assert.Empty(t, f.notifier.cancelled)
	assert.Len(t, f.notifier.confirmed, 1)
}

func TestUpdateStatusCancellationNotifies(t *testing.T) {
	f := newFixture(t)
	apt := f.book(t)

	_, err := f.svc.UpdateStatus(context.Background(), apt.ID, model.AppointmentStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{apt.ID}, f.notifier.cancelled)
}

func TestUpdateStatusRejectsIllegalTransition(t *testing.T) {
	f := newFixture(t)
	apt := f.book(t)

	_, err := f.svc.UpdateStatus(context.Background(), apt.ID, model.AppointmentStatusConfirmed)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(context.Background(), apt.ID, model.AppointmentStatusCompleted)
	require.NoError(t, err)

	// Reopening a completed appointment must fail and leave it untouched.
	_, err = f.svc.UpdateStatus(context.Background(), apt.ID, model.AppointmentStatusPending)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)

	listed, err := f.svc.ListByPatient(context.Background(), f.patientID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, model.AppointmentStatusCompleted, listed[0].Status)
}

func TestUpdateStatusUnknownID(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.UpdateStatus(context.Background(), uuid.New(), model.AppointmentStatusConfirmed)
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestListByPatientReturnsDetails(t *testing.T) {
	f := newFixture(t)
	apt := f.book(t)

	listed, err := f.svc.ListByPatient(context.Background(), f.patientID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, apt.ID, listed[0].ID)
	assert.Equal(t, "Cardiologist", listed[0].Doctor.Specialization)
	assert.Equal(t, "Doc", listed[0].Doctor.User.FirstName)
	assert.Equal(t, "Pat", listed[0].Patient.FirstName)

	other, err := f.svc.ListByPatient(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}
