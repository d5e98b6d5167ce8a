package get_appointment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SBP-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SBP-AppointmentService/internal/service/appointments"
	"github.com/m04kA/SBP-AppointmentService/internal/service/appointments/models"
)

type fakeService struct {
	getFn func(ctx context.Context, tenantID, id int64) (*models.AppointmentResponse, error)
}

func (f *fakeService) GetByID(ctx context.Context, tenantID, id int64) (*models.AppointmentResponse, error) {
	if f.getFn == nil {
		return nil, errors.New("getFn не задан")
	}
	return f.getFn(ctx, tenantID, id)
}

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newRouter(svc AppointmentsService) *mux.Router {
	h := NewHandler(svc, noopLogger{})

	r := mux.NewRouter()
	protected := r.PathPrefix("/api/v1").Subrouter()
	protected.Use(middleware.Auth)
	protected.HandleFunc("/appointments/{appointmentId}", h.Handle).Methods(http.MethodGet)
	return r
}

func doRequest(t *testing.T, router *mux.Router, path string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("X-Tenant-ID", "1")
	req.Header.Set("X-User-ID", "9")
	req.Header.Set("X-User-Role", "staff")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestHandle_ReturnsAppointment(t *testing.T) {
	svc := &fakeService{getFn: func(ctx context.Context, tenantID, id int64) (*models.AppointmentResponse, error) {
		assert.Equal(t, int64(1), tenantID)
		assert.Equal(t, int64(100), id)
		return &models.AppointmentResponse{
			ID:            100,
			TenantID:      tenantID,
			ServiceID:     7,
			StaffID:       5,
			StartTime:     time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
			EndTime:       time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC),
			Status:        "scheduled",
			Source:        "online",
			PaymentStatus: "pending",
			ServiceName:   "Стрижка",
			OriginalPrice: 50,
			FinalPrice:    50,
		}, nil
	}}

	rec, env := doRequest(t, newRouter(svc), "/api/v1/appointments/100")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var resp models.AppointmentResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, int64(100), resp.ID)
	assert.Equal(t, "scheduled", resp.Status)
	assert.Equal(t, "Стрижка", resp.ServiceName)
}

func TestHandle_NotFound(t *testing.T) {
	svc := &fakeService{getFn: func(ctx context.Context, tenantID, id int64) (*models.AppointmentResponse, error) {
		return nil, appointments.ErrAppointmentNotFound
	}}

	rec, env := doRequest(t, newRouter(svc), "/api/v1/appointments/100")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "запись не найдена", env.Message)
}

func TestHandle_InvalidID(t *testing.T) {
	rec, env := doRequest(t, newRouter(&fakeService{}), "/api/v1/appointments/abc")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "некорректный ID записи", env.Message)
}

func TestHandle_MissingAuthHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments/100", nil)
	rec := httptest.NewRecorder()
	newRouter(&fakeService{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
