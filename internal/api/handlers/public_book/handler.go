package public_book

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SBP-AppointmentService/internal/api/handlers"
	catalogRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/catalog"
	createAppointment "github.com/m04kA/SBP-AppointmentService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается RFC3339"
	msgTenantNotFound     = "салон не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgTimeConflict       = "выбранное время уже занято"
	msgInvalidDate        = "некорректная дата записи"
	msgTooLateToBook      = "слишком поздно для записи на это время"
	msgDateTooFar         = "дата записи слишком далеко в будущем"
)

type Handler struct {
	tenants TenantResolver
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(tenants TenantResolver, useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		tenants: tenants,
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /public/{tenantSlug}/appointments
// Онлайн-запись: клиент получает токен самообслуживания для отмены
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	slug := vars["tenantSlug"]

	tenant, err := h.tenants.GetTenantBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrTenantNotFound) {
			h.logger.Warn("POST /public/{slug}/appointments - Tenant not found: slug=%s", slug)
			handlers.RespondNotFound(w, msgTenantNotFound)
			return
		}
		h.logger.Error("POST /public/{slug}/appointments - Failed to resolve tenant: slug=%s, error=%v", slug, err)
		handlers.RespondInternalError(w)
		return
	}

	var req PublicBookRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /public/{slug}/appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(tenant.ID)
	if err != nil {
		h.logger.Warn("POST /public/{slug}/appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrTimeConflict):
			h.logger.Warn("POST /public/{slug}/appointments - Time conflict: tenant_id=%d, staff_id=%d, start=%s",
				tenant.ID, req.StaffID, req.StartTime)
			handlers.RespondError(w, http.StatusConflict, msgTimeConflict)

		case errors.Is(err, createAppointment.ErrTenantNotFound):
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /public/{slug}/appointments - Service not found: tenant_id=%d, service_id=%d",
				tenant.ID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, createAppointment.ErrTooLateToBook):
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createAppointment.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /public/{slug}/appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /public/{slug}/appointments - Failed to create appointment: tenant_id=%d, staff_id=%d, error=%v",
				tenant.ID, req.StaffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /public/{slug}/appointments - Appointment created: appointment_id=%d, tenant_id=%d, staff_id=%d",
		result.ID, tenant.ID, req.StaffID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
