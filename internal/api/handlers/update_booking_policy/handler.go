package update_booking_policy

import (
	"errors"
	"net/http"

	"github.com/m04kA/SBP-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SBP-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SBP-AppointmentService/internal/auth"
	"github.com/m04kA/SBP-AppointmentService/internal/service/policy"
	"github.com/m04kA/SBP-AppointmentService/internal/service/policy/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgAccessDenied       = "недостаточно прав для изменения политик"
	msgTenantNotFound     = "салон не найден"
)

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

// Handle PUT /api/v1/policies
// Создаёт политику области действия или заменяет существующую
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "нет данных о пользователе")
		return
	}
	if !principal.Can(auth.ModulePolicies, auth.ActionWrite) {
		h.logger.Warn("PUT /policies - Access denied: user_id=%d, role=%s", principal.UserID, principal.Role)
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	var req models.UpsertPolicyRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /policies - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	// Салон берётся из аутентификации, тело запроса его не переопределяет
	req.TenantID = principal.TenantID

	result, err := h.service.Upsert(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, policy.ErrTenantNotFound):
			h.logger.Warn("PUT /policies - Tenant not found: tenant_id=%d", principal.TenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, policy.ErrInvalidInput):
			h.logger.Warn("PUT /policies - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PUT /policies - Failed to upsert policy: tenant_id=%d, error=%v",
				principal.TenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /policies - Policy saved: tenant_id=%d, policy_id=%d, scope=%s",
		principal.TenantID, result.ID, result.Scope)
	handlers.RespondJSON(w, http.StatusOK, result)
}
