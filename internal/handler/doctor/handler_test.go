package doctor_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	doctorhandler "github.com/medicarehq/booking-api/internal/handler/doctor"
	"github.com/medicarehq/booking-api/internal/repository/memory"
	"github.com/medicarehq/booking-api/internal/service/doctor"
	"github.com/medicarehq/booking-api/pkg/security"
)

func setupRouter(t *testing.T) (*gin.Engine, *memory.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	require.NoError(t, store.Seed(security.NewBcryptHasher(4)))

	svc := doctor.NewService(
		memory.NewDoctorRepository(store), memory.NewUserRepository(store))

	engine := gin.New()
	doctorhandler.NewHandler(svc).RegisterRoutes(engine.Group("/api"))
	return engine, store
}

func get(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestListDoctorsReturnsSeededDirectory(t *testing.T) {
	engine, _ := setupRouter(t)

	w := get(engine, "/api/doctors")
	require.Equal(t, http.StatusOK, w.Code)

	var listed []struct {
		ID             uuid.UUID `json:"id"`
		Specialization string    `json:"specialization"`
		Rating         string    `json:"rating"`
		User           struct {
			FirstName string `json:"firstName"`
			Email     string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 3)

	specs := map[string]string{}
	for _, d := range listed {
		specs[d.Specialization] = d.User.FirstName
		assert.NotEmpty(t, d.Rating)
		assert.NotEmpty(t, d.User.Email)
	}
	assert.Equal(t, map[string]string{
		"Cardiologist":  "Sarah",
		"Pediatrician":  "Michael",
		"Dermatologist": "Emily",
	}, specs)
}

func TestListDoctorsNeverExposesPasswordHash(t *testing.T) {
	engine, _ := setupRouter(t)

	w := get(engine, "/api/doctors")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "$2a$")
}

func TestGetDoctor(t *testing.T) {
	engine, _ := setupRouter(t)

	var listed []struct {
		ID uuid.UUID `json:"id"`
	}
	w := get(engine, "/api/doctors")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))

	w = get(engine, "/api/doctors/"+listed[0].ID.String())
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user"`)

	w = get(engine, "/api/doctors/"+uuid.New().String())
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = get(engine, "/api/doctors/not-a-uuid")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetDoctorByUser(t *testing.T) {
	engine, store := setupRouter(t)

	users := memory.NewUserRepository(store)
	sarah, err := users.GetByEmail(context.Background(), "sarah.johnson@medicare.com")
	require.NoError(t, err)

	w := get(engine, "/api/doctors/user/"+sarah.ID.String())
	require.Equal(t, http.StatusOK, w.Code)

	var profile struct {
		UserID         uuid.UUID `json:"userId"`
		Specialization string    `json:"specialization"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, sarah.ID, profile.UserID)
	assert.Equal(t, "Cardiologist", profile.Specialization)

	w = get(engine, "/api/doctors/user/"+uuid.New().String())
	assert.Equal(t, http.StatusNotFound, w.Code)
}
