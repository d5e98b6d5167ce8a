package get_booking_policy

import (
	"net/http"
	"strconv"

	"github.com/m04kA/SBP-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SBP-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SBP-AppointmentService/internal/auth"
	"github.com/m04kA/SBP-AppointmentService/internal/service/policy/models"
)

const (
	msgInvalidBranchID  = "некорректный ID филиала"
	msgInvalidServiceID = "некорректный ID услуги"
	msgAccessDenied     = "недостаточно прав для просмотра политик"
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

// Handle GET /api/v1/policies/resolve
// Query params: branchId, serviceId (опционально)
// Возвращает действующую политику с учётом иерархии областей
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "нет данных о пользователе")
		return
	}
	if !principal.Can(auth.ModulePolicies, auth.ActionRead) {
		h.logger.Warn("GET /policies/resolve - Access denied: user_id=%d, role=%s", principal.UserID, principal.Role)
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	req := &models.ResolvePolicyRequest{TenantID: principal.TenantID}

	if branchIDStr := r.URL.Query().Get("branchId"); branchIDStr != "" {
		branchID, err := strconv.ParseInt(branchIDStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /policies/resolve - Invalid branch ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidBranchID)
			return
		}
		req.BranchID = &branchID
	}

	if serviceIDStr := r.URL.Query().Get("serviceId"); serviceIDStr != "" {
		serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /policies/resolve - Invalid service ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidServiceID)
			return
		}
		req.ServiceID = &serviceID
	}

	result, err := h.service.GetResolved(r.Context(), req)
	if err != nil {
		h.logger.Error("GET /policies/resolve - Failed to resolve policy: tenant_id=%d, error=%v",
			principal.TenantID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /policies/resolve - Policy resolved: tenant_id=%d, scope=%s",
		principal.TenantID, result.Scope)
	handlers.RespondJSON(w, http.StatusOK, result)
}
