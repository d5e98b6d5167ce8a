package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SBP-AppointmentService/internal/auth"
)

type errorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func runAuth(t *testing.T, headers map[string]string) (*httptest.ResponseRecorder, *auth.Principal) {
	t.Helper()

	var principal *auth.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, ok := GetPrincipal(r.Context())
		require.True(t, ok)
		principal = &p
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/appointments", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	Auth(next).ServeHTTP(rec, req)
	return rec, principal
}

func TestAuth_BuildsPrincipalFromHeaders(t *testing.T) {
	rec, principal := runAuth(t, map[string]string{
		"X-Tenant-ID": "1",
		"X-User-ID":   "9",
		"X-User-Role": "manager",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, principal)
	assert.Equal(t, int64(1), principal.TenantID)
	assert.Equal(t, int64(9), principal.UserID)
	assert.Equal(t, auth.RoleManager, principal.Role)
}

// Gateway может не проставлять роль, тогда действует самая ограниченная
func TestAuth_MissingRoleDefaultsToStaff(t *testing.T) {
	rec, principal := runAuth(t, map[string]string{
		"X-Tenant-ID": "1",
		"X-User-ID":   "9",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, principal)
	assert.Equal(t, auth.RoleStaff, principal.Role)
}

func TestAuth_RejectsBadHeaders(t *testing.T) {
	tests := []struct {
		name        string
		headers     map[string]string
		wantMessage string
	}{
		{
			name:        "no headers at all",
			headers:     nil,
			wantMessage: "не указан X-Tenant-ID",
		},
		{
			name:        "tenant is not a number",
			headers:     map[string]string{"X-Tenant-ID": "salon", "X-User-ID": "9"},
			wantMessage: "не указан X-Tenant-ID",
		},
		{
			name:        "tenant is zero",
			headers:     map[string]string{"X-Tenant-ID": "0", "X-User-ID": "9"},
			wantMessage: "не указан X-Tenant-ID",
		},
		{
			name:        "missing user",
			headers:     map[string]string{"X-Tenant-ID": "1"},
			wantMessage: "не указан X-User-ID",
		},
		{
			name:        "negative user",
			headers:     map[string]string{"X-Tenant-ID": "1", "X-User-ID": "-5"},
			wantMessage: "не указан X-User-ID",
		},
		{
			name:        "unknown role",
			headers:     map[string]string{"X-Tenant-ID": "1", "X-User-ID": "9", "X-User-Role": "owner"},
			wantMessage: "некорректная роль пользователя",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, principal := runAuth(t, tt.headers)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Nil(t, principal)

			var env errorEnvelope
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
			assert.False(t, env.Success)
			assert.Equal(t, tt.wantMessage, env.Message)
		})
	}
}

func TestGetPrincipal_EmptyContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := GetPrincipal(req.Context())
	assert.False(t, ok)
}
