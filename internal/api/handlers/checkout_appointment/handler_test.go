package checkout_appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SBP-AppointmentService/internal/api/middleware"
	checkoutAppointment "github.com/m04kA/SBP-AppointmentService/internal/usecase/checkout_appointment"
)

type fakeUseCase struct {
	executeFn func(ctx context.Context, req *checkoutAppointment.Request) (*checkoutAppointment.Response, error)
}

func (f *fakeUseCase) Execute(ctx context.Context, req *checkoutAppointment.Request) (*checkoutAppointment.Response, error) {
	if f.executeFn == nil {
		return nil, errors.New("executeFn не задан")
	}
	return f.executeFn(ctx, req)
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

func newRouter(uc CheckoutAppointmentUseCase) *mux.Router {
	h := NewHandler(uc, noopLogger{})

	r := mux.NewRouter()
	protected := r.PathPrefix("/api/v1").Subrouter()
	protected.Use(middleware.Auth)
	protected.HandleFunc("/appointments/{appointmentId}/checkout", h.Handle).Methods(http.MethodPost)
	return r
}

func doRequest(t *testing.T, router *mux.Router, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("X-Tenant-ID", "1")
	req.Header.Set("X-User-ID", "9")
	req.Header.Set("X-User-Role", "staff")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestHandle_ChecksOutAppointment(t *testing.T) {
	var captured *checkoutAppointment.Request

	uc := &fakeUseCase{executeFn: func(ctx context.Context, req *checkoutAppointment.Request) (*checkoutAppointment.Response, error) {
		captured = req
		return &checkoutAppointment.Response{
			AppointmentID:     req.AppointmentID,
			InvoiceID:         500,
			InvoiceNumber:     "INV-000007",
			Subtotal:          50,
			TaxRate:           5,
			TaxAmount:         2.5,
			Total:             52.5,
			AmountPaid:        52.5,
			Currency:          "RUB",
			Status:            "paid",
			AppointmentStatus: "completed",
			PaymentStatus:     "paid",
			PaymentMethod:     &req.PaymentMethod,
		}, nil
	}}

	body := `{"paymentMethod": "cash", "payNow": true}`
	rec, env := doRequest(t, newRouter(uc), "/api/v1/appointments/100/checkout", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var resp CheckoutResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, int64(100), resp.AppointmentID)
	assert.Equal(t, "INV-000007", resp.InvoiceNumber)
	assert.Equal(t, 52.5, resp.Total)
	assert.Equal(t, "completed", resp.AppointmentStatus)

	// Идентификаторы приходят из маршрута и заголовков, не из тела
	require.NotNil(t, captured)
	assert.Equal(t, int64(1), captured.TenantID)
	assert.Equal(t, int64(100), captured.AppointmentID)
	assert.Equal(t, int64(9), captured.StaffUserID)
	assert.True(t, captured.PayNow)
}

func TestHandle_InvalidAppointmentID(t *testing.T) {
	rec, env := doRequest(t, newRouter(&fakeUseCase{}), "/api/v1/appointments/abc/checkout", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "некорректный ID записи", env.Message)
}

func TestHandle_MissingAuthHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments/100/checkout", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	newRouter(&fakeUseCase{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantMessage string
	}{
		{
			name:        "appointment not found",
			err:         checkoutAppointment.ErrAppointmentNotFound,
			wantCode:    http.StatusNotFound,
			wantMessage: "запись не найдена",
		},
		{
			name:        "cancelled appointment",
			err:         checkoutAppointment.ErrInvalidState,
			wantCode:    http.StatusBadRequest,
			wantMessage: "запись нельзя оплатить в текущем статусе",
		},
		{
			name:        "gift card code required",
			err:         checkoutAppointment.ErrGiftCardCodeRequired,
			wantCode:    http.StatusBadRequest,
			wantMessage: "код подарочной карты обязателен",
		},
		{
			name:        "gift card redemption failed",
			err:         checkoutAppointment.ErrGiftCardRedemption,
			wantCode:    http.StatusBadRequest,
			wantMessage: "не удалось списать средства с подарочной карты",
		},
		{
			name:        "unexpected error",
			err:         errors.New("connection refused"),
			wantCode:    http.StatusInternalServerError,
			wantMessage: "внутренняя ошибка сервера",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &fakeUseCase{executeFn: func(ctx context.Context, req *checkoutAppointment.Request) (*checkoutAppointment.Response, error) {
				return nil, tt.err
			}}

			rec, env := doRequest(t, newRouter(uc), "/api/v1/appointments/100/checkout", `{"paymentMethod": "cash"}`)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantMessage, env.Message)
		})
	}
}
