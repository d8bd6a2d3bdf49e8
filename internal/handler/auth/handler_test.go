package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authhandler "github.com/medicarehq/booking-api/internal/handler/auth"
	"github.com/medicarehq/booking-api/internal/repository/memory"
	"github.com/medicarehq/booking-api/internal/service/auth"
	"github.com/medicarehq/booking-api/internal/service/doctor"
	"github.com/medicarehq/booking-api/pkg/metrics"
	"github.com/medicarehq/booking-api/pkg/security"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	doctorSvc := doctor.NewService(memory.NewDoctorRepository(store), users)
	svc := auth.NewService(users, doctorSvc, security.NewBcryptHasher(4), metrics.New("test"))

	engine := gin.New()
	authhandler.NewHandler(svc).RegisterRoutes(engine.Group("/api"))
	return engine
}

func postJSON(t *testing.T, engine *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func registerBody(email string) map[string]interface{} {
	return map[string]interface{}{
		"email":     email,
		"password":  "secret123",
		"firstName": "Pat",
		"lastName":  "Doe",
		"phone":     "555-0000",
		"role":      "patient",
	}
}

func TestRegisterStripsPassword(t *testing.T) {
	engine := setupRouter(t)

	w := postJSON(t, engine, "/api/auth/register", registerBody("pat@example.com"))
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	user := resp["user"]
	assert.Equal(t, "pat@example.com", user["email"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "passwordHash")
}

func TestRegisterDuplicateReturns400(t *testing.T) {
	engine := setupRouter(t)

	w := postJSON(t, engine, "/api/auth/register", registerBody("dup@example.com"))
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, engine, "/api/auth/register", registerBody("dup@example.com"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "message")
}

func TestRegisterInvalidBodyReturns400(t *testing.T) {
	engine := setupRouter(t)

	body := registerBody("bad@example.com")
	body["role"] = "admin"
	w := postJSON(t, engine, "/api/auth/register", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginFlow(t *testing.T) {
	engine := setupRouter(t)

	w := postJSON(t, engine, "/api/auth/register", registerBody("pat@example.com"))
	require.Equal(t, http.StatusOK, w.Code)

	w = postJSON(t, engine, "/api/auth/login", map[string]string{
		"email":    "pat@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pat@example.com", resp["user"]["email"])
	assert.NotContains(t, resp["user"], "password")

	w = postJSON(t, engine, "/api/auth/login", map[string]string{
		"email":    "pat@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Missing password fails schema validation, not authentication.
	w = postJSON(t, engine, "/api/auth/login", map[string]string{
		"email": "pat@example.com",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
