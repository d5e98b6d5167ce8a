package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/SBP-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SBP-AppointmentService/internal/api/middleware"
	getAvailableSlots "github.com/m04kA/SBP-AppointmentService/internal/usecase/get_available_slots"
)

const (
	msgMissingStaffID   = "ID мастера обязателен"
	msgInvalidStaffID   = "некорректный ID мастера"
	msgMissingServiceID = "ID услуги обязателен"
	msgInvalidServiceID = "некорректный ID услуги"
	msgInvalidBranchID  = "некорректный ID филиала"
	msgMissingDate      = "дата обязательна"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgTenantNotFound   = "салон не найден"
	msgServiceNotFound  = "услуга не найдена"
	msgDateInPast       = "дата в прошлом"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/slots
// Query params: staffId (required), serviceId (required), date (required, YYYY-MM-DD), branchId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "нет данных о пользователе")
		return
	}

	query := r.URL.Query()

	staffIDStr := query.Get("staffId")
	if staffIDStr == "" {
		h.logger.Warn("GET /slots - Missing staff ID")
		handlers.RespondBadRequest(w, msgMissingStaffID)
		return
	}
	staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /slots - Invalid staff ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	serviceIDStr := query.Get("serviceId")
	if serviceIDStr == "" {
		h.logger.Warn("GET /slots - Missing service ID")
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}
	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /slots - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	var branchID *int64
	if branchIDStr := query.Get("branchId"); branchIDStr != "" {
		id, err := strconv.ParseInt(branchIDStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /slots - Invalid branch ID: %v", err)
			handlers.RespondBadRequest(w, msgInvalidBranchID)
			return
		}
		branchID = &id
	}

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(principal.TenantID, staffID, serviceID, branchID, dateStr)
	if err != nil {
		h.logger.Warn("GET /slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrTenantNotFound):
			h.logger.Warn("GET /slots - Tenant not found: tenant_id=%d", principal.TenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /slots - Service not found: tenant_id=%d, service_id=%d",
				principal.TenantID, serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /slots - Date in the past: tenant_id=%d, date=%s", principal.TenantID, dateStr)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /slots - Failed to get slots: tenant_id=%d, staff_id=%d, service_id=%d, error=%v",
				principal.TenantID, staffID, serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /slots - Slots retrieved: tenant_id=%d, staff_id=%d, service_id=%d, slots_count=%d",
		principal.TenantID, staffID, serviceID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
