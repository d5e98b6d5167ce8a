package delete_booking_policy

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SBP-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SBP-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SBP-AppointmentService/internal/auth"
	"github.com/m04kA/SBP-AppointmentService/internal/service/policy"
	"github.com/m04kA/SBP-AppointmentService/internal/service/policy/models"
)

const (
	msgInvalidBranchID  = "некорректный ID филиала"
	msgInvalidServiceID = "некорректный ID услуги"
	msgAccessDenied     = "недостаточно прав для удаления политик"
	msgPolicyNotFound   = "политика не найдена"
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

// Handle DELETE /api/v1/policies
// Query params: branchId, serviceId (опционально)
// Без параметров удаляется глобальная политика салона
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "нет данных о пользователе")
		return
	}
	if !principal.Can(auth.ModulePolicies, auth.ActionWrite) {
		h.logger.Warn("DELETE /policies - Access denied: user_id=%d, role=%s", principal.UserID, principal.Role)
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	req := &models.DeletePolicyRequest{TenantID: principal.TenantID}

	if branchIDStr := r.URL.Query().Get("branchId"); branchIDStr != "" {
		branchID, err := strconv.ParseInt(branchIDStr, 10, 64)
		if err != nil {
			h.logger.Warn("DELETE /policies - Invalid branch ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidBranchID)
			return
		}
		req.BranchID = &branchID
	}

	if serviceIDStr := r.URL.Query().Get("serviceId"); serviceIDStr != "" {
		serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
		if err != nil {
			h.logger.Warn("DELETE /policies - Invalid service ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidServiceID)
			return
		}
		req.ServiceID = &serviceID
	}

	if err := h.service.Delete(r.Context(), req); err != nil {
		switch {
		case errors.Is(err, policy.ErrPolicyNotFound):
			h.logger.Warn("DELETE /policies - Policy not found: tenant_id=%d, branch=%v, service=%v",
				principal.TenantID, req.BranchID, req.ServiceID)
			handlers.RespondNotFound(w, msgPolicyNotFound)

		default:
			h.logger.Error("DELETE /policies - Failed to delete policy: tenant_id=%d, error=%v",
				principal.TenantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /policies - Policy deleted: tenant_id=%d, branch=%v, service=%v",
		principal.TenantID, req.BranchID, req.ServiceID)
	handlers.Respond(w, http.StatusNoContent, nil)
}
