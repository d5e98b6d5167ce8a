// Package middleware содержит HTTP-middleware бэк-офиса
package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/SBP-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SBP-AppointmentService/internal/auth"
)

const (
	headerTenantID = "X-Tenant-ID"
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"
)

const (
	msgMissingTenantID = "не указан X-Tenant-ID"
	msgMissingUserID   = "не указан X-User-ID"
	msgInvalidRole     = "некорректная роль пользователя"
)

type contextKey string

const principalKey contextKey = "principal"

// Auth извлекает личность сотрудника из служебных заголовков
// Заголовки проставляет вышестоящий API-gateway после проверки сессии,
// сам сервис токены не валидирует. Роль разворачивается в набор
// способностей один раз, обработчики работают с готовым Principal
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID, err := strconv.ParseInt(r.Header.Get(headerTenantID), 10, 64)
		if err != nil || tenantID <= 0 {
			handlers.RespondUnauthorized(w, msgMissingTenantID)
			return
		}

		userID, err := strconv.ParseInt(r.Header.Get(headerUserID), 10, 64)
		if err != nil || userID <= 0 {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		role := r.Header.Get(headerUserRole)
		if role == "" {
			role = string(auth.RoleStaff)
		}
		if !auth.IsValidRole(role) {
			handlers.RespondUnauthorized(w, msgInvalidRole)
			return
		}

		principal := auth.Principal{
			TenantID: tenantID,
			UserID:   userID,
			Role:     auth.Role(role),
		}

		ctx := context.WithValue(r.Context(), principalKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetPrincipal достает личность сотрудника из контекста запроса
func GetPrincipal(ctx context.Context) (auth.Principal, bool) {
	principal, ok := ctx.Value(principalKey).(auth.Principal)
	return principal, ok
}
