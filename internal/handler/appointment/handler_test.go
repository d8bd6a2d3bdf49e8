package appointment_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appointmenthandler "github.com/medicarehq/booking-api/internal/handler/appointment"
	"github.com/medicarehq/booking-api/internal/model"
	"github.com/medicarehq/booking-api/internal/repository/memory"
	"github.com/medicarehq/booking-api/internal/service/appointment"
	"github.com/medicarehq/booking-api/internal/service/notification"
	"github.com/medicarehq/booking-api/pkg/messaging"
	"github.com/medicarehq/booking-api/pkg/metrics"
)

type testEnv struct {
	engine    *gin.Engine
	patientID uuid.UUID
	doctorID  uuid.UUID
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	svc := appointment.NewService(
		memory.NewAppointmentRepository(store),
		notification.NewNoop(),
		messaging.NoopPublisher{},
		metrics.New("test"),
	)

	engine := gin.New()
	appointmenthandler.NewHandler(svc).RegisterRoutes(engine.Group("/api"))

	return &testEnv{engine: engine, patientID: patient.ID, doctorID: doctor.ID}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) book(t *testing.T) uuid.UUID {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/appointments", map[string]interface{}{
		"patientId": e.patientID,
		"doctorId":  e.doctorID,
		"date":      "2026-09-15",
		"time":      "10:00",
		"reason":    "checkup",
		"type":      "in-person",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var apt struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apt))
	return apt.ID
}

func TestCreateAppointmentIgnoresClientStatus(t *testing.T) {
	env := setup(t)

	// A client trying to smuggle in a terminal status still gets "pending".
	w := env.do(t, http.MethodPost, "/api/appointments", map[string]interface{}{
		"patientId": env.patientID,
		"doctorId":  env.doctorID,
		"date":      "2026-09-15",
		"time":      "10:00",
		"reason":    "checkup",
		"type":      "video",
		"status":    "completed",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var apt struct {
		Status    string    `json:"status"`
		CreatedAt string    `json:"createdAt"`
		ID        uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apt))
	assert.Equal(t, "pending", apt.Status)
	assert.NotEmpty(t, apt.CreatedAt)
	assert.NotEqual(t, uuid.Nil, apt.ID)
}

func TestCreateAppointmentValidation(t *testing.T) {
	env := setup(t)

	w := env.do(t, http.MethodPost, "/api/appointments", map[string]interface{}{
		"patientId": env.patientID,
		"doctorId":  env.doctorID,
		"date":      "2026-09-15",
		"time":      "10:00",
		"reason":    "checkup",
		"type":      "carrier-pigeon",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/appointments", map[string]interface{}{
		"patientId": env.patientID,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListByPatient(t *testing.T) {
	env := setup(t)
	id := env.book(t)

	w := env.do(t, http.MethodGet, "/api/appointments/patient/"+env.patientID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listed []struct {
		ID     uuid.UUID `json:"id"`
		Doctor struct {
			Specialization string `json:"specialization"`
			User           struct {
				FirstName string `json:"firstName"`
			} `json:"user"`
		} `json:"doctor"`
		Patient struct {
			FirstName string `json:"firstName"`
		} `json:"patient"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, id, listed[0].ID)
	assert.Equal(t, "Cardiologist", listed[0].Doctor.Specialization)
	assert.Equal(t, "Doc", listed[0].Doctor.User.FirstName)
	assert.Equal(t, "Pat", listed[0].Patient.FirstName)

	// Unknown owner is an empty list, not an error.
	w = env.do(t, http.MethodGet, "/api/appointments/patient/"+uuid.New().String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/appointments/patient/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListByDoctor(t *testing.T) {
	env := setup(t)
	env.book(t)

	w := env.do(t, http.MethodGet, "/api/appointments/doctor/"+env.doctorID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var listed []json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)

	w = env.do(t, http.MethodGet, "/api/appointments/doctor/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStatus(t *testing.T) {
	env := setup(t)
	id := env.book(t)

	w := env.do(t, http.MethodPatch, "/api/appointments/"+id.String()+"/status",
		map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, w.Code)

	var apt struct {
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apt))
	assert.Equal(t, "confirmed", apt.Status)
}

func TestUpdateStatusIllegalTransition(t *testing.T) {
	env := setup(t)
	id := env.book(t)

	w := env.do(t, http.MethodPatch, "/api/appointments/"+id.String()+"/status",
		map[string]string{"status": "cancelled"})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPatch, "/api/appointments/"+id.String()+"/status",
		map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "cannot change appointment status")
}

func TestUpdateStatusErrors(t *testing.T) {
	env := setup(t)
	id := env.book(t)

	w := env.do(t, http.MethodPatch, "/api/appointments/"+uuid.New().String()+"/status",
		map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPatch, "/api/appointments/not-a-uuid/status",
		map[string]string{"status": "confirmed"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodPatch, "/api/appointments/"+id.String()+"/status",
		map[string]string{"status": "rescheduled"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
