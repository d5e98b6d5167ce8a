package get_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SBP-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SBP-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SBP-AppointmentService/internal/auth"
	"github.com/m04kA/SBP-AppointmentService/internal/service/appointments"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgAccessDenied         = "недостаточно прав для просмотра записи"
	msgAppointmentNotFound  = "запись не найдена"
)

type Handler struct {
	service AppointmentsService
	logger  Logger
}

func NewHandler(service AppointmentsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/appointments/{appointmentId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "нет данных о пользователе")
		return
	}
	if !principal.Can(auth.ModuleAppointments, auth.ActionRead) {
		h.logger.Warn("GET /appointments/{id} - Access denied: user_id=%d, role=%s", principal.UserID, principal.Role)
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /appointments/{id} - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	result, err := h.service.GetByID(r.Context(), principal.TenantID, appointmentID)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("GET /appointments/{id} - Appointment not found: tenant_id=%d, appointment_id=%d",
				principal.TenantID, appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		default:
			h.logger.Error("GET /appointments/{id} - Failed to get appointment: tenant_id=%d, appointment_id=%d, error=%v",
				principal.TenantID, appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /appointments/{id} - Appointment retrieved: tenant_id=%d, appointment_id=%d",
		principal.TenantID, appointmentID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
