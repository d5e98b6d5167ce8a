package public_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SBP-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SBP-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/catalog"
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
	tenants TenantResolver
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(tenants TenantResolver, useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		tenants: tenants,
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /public/{tenantSlug}/slots
// Query params: staffId (required), serviceId (required), date (required, YYYY-MM-DD), branchId (optional)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	slug := vars["tenantSlug"]

	tenant, err := h.tenants.GetTenantBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrTenantNotFound) {
			h.logger.Warn("GET /public/{slug}/slots - Tenant not found: slug=%s", slug)
			handlers.RespondNotFound(w, msgTenantNotFound)
			return
		}
		h.logger.Error("GET /public/{slug}/slots - Failed to resolve tenant: slug=%s, error=%v", slug, err)
		handlers.RespondInternalError(w)
		return
	}

	query := r.URL.Query()

	staffIDStr := query.Get("staffId")
	if staffIDStr == "" {
		handlers.RespondBadRequest(w, msgMissingStaffID)
		return
	}
	staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidStaffID)
		return
	}

	serviceIDStr := query.Get("serviceId")
	if serviceIDStr == "" {
		handlers.RespondBadRequest(w, msgMissingServiceID)
		return
	}
	serviceID, err := strconv.ParseInt(serviceIDStr, 10, 64)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	var branchID *int64
	if branchIDStr := query.Get("branchId"); branchIDStr != "" {
		id, err := strconv.ParseInt(branchIDStr, 10, 64)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidBranchID)
			return
		}
		branchID = &id
	}

	dateStr := query.Get("date")
	if dateStr == "" {
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		TenantID:  tenant.ID,
		StaffID:   staffID,
		ServiceID: serviceID,
		BranchID:  branchID,
		Date:      date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrTenantNotFound):
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, getAvailableSlots.ErrServiceNotFound):
			h.logger.Warn("GET /public/{slug}/slots - Service not found: tenant_id=%d, service_id=%d",
				tenant.ID, serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /public/{slug}/slots - Failed to get slots: tenant_id=%d, staff_id=%d, error=%v",
				tenant.ID, staffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("GET /public/{slug}/slots - Slots retrieved: tenant_id=%d, staff_id=%d, available=%d",
		tenant.ID, staffID, len(response.Slots))
	handlers.RespondJSON(w, http.StatusOK, response)
}
