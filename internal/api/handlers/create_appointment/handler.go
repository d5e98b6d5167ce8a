package create_appointment

import (
	"errors"
	"net/http"

	"github.com/m04kA/SBP-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SBP-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SBP-AppointmentService/internal/auth"
	createAppointment "github.com/m04kA/SBP-AppointmentService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается RFC3339"
	msgAccessDenied       = "недостаточно прав для создания записи"
	msgTenantNotFound     = "салон не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgTimeConflict       = "выбранное время занято"
	msgInvalidDate        = "некорректная дата записи"
	msgTooLateToBook      = "слишком поздно для записи на это время"
	msgDateTooFar         = "дата записи слишком далеко в будущем"
)

type Handler struct {
	useCase CreateAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CreateAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "нет данных о пользователе")
		return
	}
	if !principal.Can(auth.ModuleAppointments, auth.ActionWrite) {
		h.logger.Warn("POST /appointments - Access denied: user_id=%d, role=%s", principal.UserID, principal.Role)
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(principal.TenantID)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createAppointment.ErrTimeConflict):
			h.logger.Warn("POST /appointments - Time conflict: tenant_id=%d, staff_id=%d, start=%s",
				principal.TenantID, req.StaffID, req.StartTime)
			handlers.RespondError(w, http.StatusConflict, msgTimeConflict)

		case errors.Is(err, createAppointment.ErrTenantNotFound):
			h.logger.Warn("POST /appointments - Tenant not found: tenant_id=%d", principal.TenantID)
			handlers.RespondNotFound(w, msgTenantNotFound)

		case errors.Is(err, createAppointment.ErrServiceNotFound):
			h.logger.Warn("POST /appointments - Service not found: tenant_id=%d, service_id=%d",
				principal.TenantID, req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, createAppointment.ErrInvalidDate):
			h.logger.Warn("POST /appointments - Invalid date: tenant_id=%d, start=%s", principal.TenantID, req.StartTime)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, createAppointment.ErrTooLateToBook):
			h.logger.Warn("POST /appointments - Too late to book: tenant_id=%d, start=%s", principal.TenantID, req.StartTime)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, createAppointment.ErrDateTooFarInFuture):
			h.logger.Warn("POST /appointments - Date too far in future: tenant_id=%d, start=%s",
				principal.TenantID, req.StartTime)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /appointments - Failed to create appointment: tenant_id=%d, staff_id=%d, error=%v",
				principal.TenantID, req.StaffID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments - Appointment created: appointment_id=%d, tenant_id=%d, staff_id=%d",
		result.ID, principal.TenantID, req.StaffID)
	handlers.RespondJSON(w, http.StatusCreated, response)
}
