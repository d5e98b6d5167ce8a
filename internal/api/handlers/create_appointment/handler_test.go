package create_appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SBP-AppointmentService/internal/api/middleware"
	createAppointment "github.com/m04kA/SBP-AppointmentService/internal/usecase/create_appointment"
)

type fakeUseCase struct {
	executeFn func(ctx context.Context, req *createAppointment.Request) (*createAppointment.Response, error)
}

func (f *fakeUseCase) Execute(ctx context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
	if f.executeFn == nil {
		return nil, errors.New("executeFn не задан")
	}
	return f.executeFn(ctx, req)
}

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

// envelope общий конверт ответов сервиса
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newRouter(uc CreateAppointmentUseCase) *mux.Router {
	h := NewHandler(uc, noopLogger{})

	r := mux.NewRouter()
	protected := r.PathPrefix("/api/v1").Subrouter()
	protected.Use(middleware.Auth)
	protected.HandleFunc("/appointments", h.Handle).Methods(http.MethodPost)
	return r
}

func doRequest(t *testing.T, router *mux.Router, body string, withAuth bool) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", bytes.NewBufferString(body))
	if withAuth {
		req.Header.Set("X-Tenant-ID", "1")
		req.Header.Set("X-User-ID", "9")
		req.Header.Set("X-User-Role", "manager")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestHandle_CreatesAppointment(t *testing.T) {
	start := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	var captured *createAppointment.Request

	uc := &fakeUseCase{executeFn: func(ctx context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
		captured = req
		name := "Анна"
		return &createAppointment.Response{
			ID:            100,
			TenantID:      req.TenantID,
			ServiceID:     req.ServiceID,
			StaffID:       req.StaffID,
			StartTime:     req.StartTime,
			EndTime:       req.StartTime.Add(30 * time.Minute),
			Status:        "scheduled",
			Source:        req.Source,
			PaymentStatus: "pending",
			ServiceName:   "Стрижка",
			OriginalPrice: 50,
			FinalPrice:    50,
			CustomerName:  &name,
			CreatedAt:     start,
			UpdatedAt:     start,
		}, nil
	}}

	body := `{"serviceId": 7, "staffId": 5, "startTime": "2026-03-10T14:00:00Z", "customerName": "Анна"}`
	rec, env := doRequest(t, newRouter(uc), body, true)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)

	var resp AppointmentResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, int64(100), resp.ID)
	assert.Equal(t, "scheduled", resp.Status)
	assert.Equal(t, "2026-03-10T14:00:00Z", resp.StartTime)
	assert.Equal(t, "2026-03-10T14:30:00Z", resp.EndTime)
	assert.Nil(t, resp.ManageToken)

	// Салон и автор берутся из заголовков, канал по умолчанию walk_in
	require.NotNil(t, captured)
	assert.Equal(t, int64(1), captured.TenantID)
	assert.Equal(t, int64(7), captured.ServiceID)
	assert.Equal(t, "walk_in", captured.Source)
	assert.True(t, captured.StartTime.Equal(start))
	assert.Nil(t, captured.EndTime)
}

func TestHandle_MissingAuthHeaders(t *testing.T) {
	uc := &fakeUseCase{executeFn: func(ctx context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
		t.Fatal("use case не должен вызываться без аутентификации")
		return nil, nil
	}}

	body := `{"serviceId": 7, "staffId": 5, "startTime": "2026-03-10T14:00:00Z"}`
	rec, env := doRequest(t, newRouter(uc), body, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "не указан X-Tenant-ID", env.Message)
}

func TestHandle_InvalidBody(t *testing.T) {
	rec, env := doRequest(t, newRouter(&fakeUseCase{}), `{"serviceId": `, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "некорректное тело запроса", env.Message)
}

func TestHandle_InvalidStartTime(t *testing.T) {
	body := `{"serviceId": 7, "staffId": 5, "startTime": "10.03.2026 14:00"}`
	rec, env := doRequest(t, newRouter(&fakeUseCase{}), body, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "некорректный формат времени, ожидается RFC3339", env.Message)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantMessage string
	}{
		{
			name:        "time conflict",
			err:         createAppointment.ErrTimeConflict,
			wantCode:    http.StatusConflict,
			wantMessage: "выбранное время занято",
		},
		{
			name:        "tenant not found",
			err:         createAppointment.ErrTenantNotFound,
			wantCode:    http.StatusNotFound,
			wantMessage: "салон не найден",
		},
		{
			name:        "service not found",
			err:         createAppointment.ErrServiceNotFound,
			wantCode:    http.StatusNotFound,
			wantMessage: "услуга не найдена",
		},
		{
			name:        "invalid date",
			err:         createAppointment.ErrInvalidDate,
			wantCode:    http.StatusBadRequest,
			wantMessage: "некорректная дата записи",
		},
		{
			name:        "too late to book",
			err:         createAppointment.ErrTooLateToBook,
			wantCode:    http.StatusBadRequest,
			wantMessage: "слишком поздно для записи на это время",
		},
		{
			name:        "date too far in future",
			err:         createAppointment.ErrDateTooFarInFuture,
			wantCode:    http.StatusBadRequest,
			wantMessage: "дата записи слишком далеко в будущем",
		},
		{
			name:        "invalid input keeps details",
			err:         fmt.Errorf("%w: не заполнены данные клиента", createAppointment.ErrInvalidInput),
			wantCode:    http.StatusBadRequest,
			wantMessage: "create_appointment: invalid input data: не заполнены данные клиента",
		},
		{
			name:        "unexpected error hides details",
			err:         errors.New("connection refused"),
			wantCode:    http.StatusInternalServerError,
			wantMessage: "внутренняя ошибка сервера",
		},
	}

	body := `{"serviceId": 7, "staffId": 5, "startTime": "2026-03-10T14:00:00Z"}`
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{executeFn: func(ctx context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
				return nil, tt.err
			}}

			rec, env := doRequest(t, newRouter(uc), body, true)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantMessage, env.Message)
		})
	}
}
