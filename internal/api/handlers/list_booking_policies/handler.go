package list_booking_policies

import (
	"net/http"

	"github.com/m04kA/SBP-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SBP-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SBP-AppointmentService/internal/auth"
)

const msgAccessDenied = "недостаточно прав для просмотра политик"

type Handler struct {
	service PolicyService
	logger  Logger
}

func NewHandler(service PolicyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/policies
// Возвращает все настроенные политики салона, глобальная первой
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "нет данных о пользователе")
		return
	}
	if !principal.Can(auth.ModulePolicies, auth.ActionRead) {
		h.logger.Warn("GET /policies - Access denied: user_id=%d, role=%s", principal.UserID, principal.Role)
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	result, err := h.service.List(r.Context(), principal.TenantID)
	if err != nil {
		h.logger.Error("GET /policies - Failed to list policies: tenant_id=%d, error=%v", principal.TenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /policies - Policies retrieved: tenant_id=%d, count=%d",
		principal.TenantID, len(result.Policies))
	handlers.RespondJSON(w, http.StatusOK, result.Policies)
}
