package public_cancel_appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
	"github.com/m04kA/SBP-AppointmentService/internal/service/tokens"
	"github.com/m04kA/SBP-AppointmentService/internal/service/tokens/models"
)

type fakeService struct {
	cancelFn func(ctx context.Context, tokenValue, reason string) (*models.ManageView, error)
}

func (f *fakeService) CancelByToken(ctx context.Context, tokenValue, reason string) (*models.ManageView, error) {
	if f.cancelFn == nil {
		return nil, errors.New("cancelFn не задан")
	}
	return f.cancelFn(ctx, tokenValue, reason)
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

func newRouter(svc TokensService) *mux.Router {
	h := NewHandler(svc, noopLogger{})

	r := mux.NewRouter()
	public := r.PathPrefix("/public").Subrouter()
	public.HandleFunc("/manage/{token}/cancel", h.Handle).Methods(http.MethodPost)
	return r
}

func doRequest(t *testing.T, router *mux.Router, token string, body io.Reader) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/public/manage/"+token+"/cancel", body)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return rec, env
}

func TestHandle_CancelsAppointment(t *testing.T) {
	var gotToken, gotReason string

	svc := &fakeService{cancelFn: func(ctx context.Context, tokenValue, reason string) (*models.ManageView, error) {
		gotToken = tokenValue
		gotReason = reason
		return &models.ManageView{
			AppointmentID: 100,
			Status:        "cancelled",
			ServiceName:   "Стрижка",
			StaffID:       5,
			StartTime:     time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC),
			EndTime:       time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC),
			FinalPrice:    50,
		}, nil
	}}

	body := bytes.NewBufferString(`{"reason": "не смогу прийти"}`)
	rec, env := doRequest(t, newRouter(svc), "tok_abc123", body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	var view models.ManageView
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, int64(100), view.AppointmentID)
	assert.Equal(t, "cancelled", view.Status)
	assert.False(t, view.CanCancel)

	assert.Equal(t, "tok_abc123", gotToken)
	assert.Equal(t, "не смогу прийти", gotReason)
}

func TestHandle_EmptyBodyMeansNoReason(t *testing.T) {
	var gotReason string

	svc := &fakeService{cancelFn: func(ctx context.Context, tokenValue, reason string) (*models.ManageView, error) {
		gotReason = reason
		return &models.ManageView{AppointmentID: 100, Status: "cancelled"}, nil
	}}

	rec, _ := doRequest(t, newRouter(svc), "tok_abc123", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", gotReason)
}

func TestHandle_ReasonTooLong(t *testing.T) {
	svc := &fakeService{cancelFn: func(ctx context.Context, tokenValue, reason string) (*models.ManageView, error) {
		t.Fatal("сервис не должен вызываться при некорректной причине")
		return nil, nil
	}}

	body := bytes.NewBufferString(`{"reason": "` + strings.Repeat("ы", domain.MaxCancellationReasonLength+1) + `"}`)
	rec, env := doRequest(t, newRouter(svc), "tok_abc123", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "причина отмены слишком длинная", env.Message)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    int
		wantMessage string
	}{
		{
			name:        "unknown token",
			err:         tokens.ErrTokenNotFound,
			wantCode:    http.StatusNotFound,
			wantMessage: "ссылка недействительна",
		},
		{
			name:        "expired token",
			err:         tokens.ErrTokenExpired,
			wantCode:    http.StatusGone,
			wantMessage: "срок действия ссылки истёк",
		},
		{
			name:        "terminal appointment status",
			err:         tokens.ErrCannotCancel,
			wantCode:    http.StatusBadRequest,
			wantMessage: "запись уже нельзя отменить",
		},
		{
			name:        "cancellation disabled by policy",
			err:         tokens.ErrCancellationNotAllowed,
			wantCode:    http.StatusForbidden,
			wantMessage: "салон не разрешает отмену записей через сайт",
		},
		{
			name:        "cancellation window passed",
			err:         tokens.ErrCancellationWindowPassed,
			wantCode:    http.StatusForbidden,
			wantMessage: "время для отмены записи истекло",
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
			svc := &fakeService{cancelFn: func(ctx context.Context, tokenValue, reason string) (*models.ManageView, error) {
				return nil, tt.err
			}}

			rec, env := doRequest(t, newRouter(svc), "tok_abc123", bytes.NewBufferString(`{}`))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantMessage, env.Message)
		})
	}
}
