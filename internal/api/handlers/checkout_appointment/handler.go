package checkout_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SBP-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SBP-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SBP-AppointmentService/internal/auth"
	checkoutAppointment "github.com/m04kA/SBP-AppointmentService/internal/usecase/checkout_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgAccessDenied         = "недостаточно прав для оформления оплаты"
	msgAppointmentNotFound  = "запись не найдена"
	msgInvalidState         = "запись нельзя оплатить в текущем статусе"
	msgGiftCardCodeRequired = "код подарочной карты обязателен"
	msgGiftCardRedemption   = "не удалось списать средства с подарочной карты"
)

type Handler struct {
	useCase CheckoutAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase CheckoutAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/checkout
// Повторный вызов с тем же appointmentId возвращает уже выставленный счёт
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, "нет данных о пользователе")
		return
	}
	if !principal.Can(auth.ModuleAppointments, auth.ActionCheckout) {
		h.logger.Warn("POST /appointments/{id}/checkout - Access denied: user_id=%d, role=%s",
			principal.UserID, principal.Role)
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseInt(vars["appointmentId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/checkout - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req CheckoutRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/{id}/checkout - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq := req.ToUseCaseRequest(principal.TenantID, appointmentID, principal.UserID)

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, checkoutAppointment.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/checkout - Appointment not found: tenant_id=%d, appointment_id=%d",
				principal.TenantID, appointmentID)
			handlers.RespondNotFound(w, msgAppointmentNotFound)

		case errors.Is(err, checkoutAppointment.ErrInvalidState):
			h.logger.Warn("POST /appointments/{id}/checkout - Invalid state: tenant_id=%d, appointment_id=%d",
				principal.TenantID, appointmentID)
			handlers.RespondBadRequest(w, msgInvalidState)

		case errors.Is(err, checkoutAppointment.ErrGiftCardCodeRequired):
			h.logger.Warn("POST /appointments/{id}/checkout - Gift card code required: tenant_id=%d, appointment_id=%d",
				principal.TenantID, appointmentID)
			handlers.RespondBadRequest(w, msgGiftCardCodeRequired)

		case errors.Is(err, checkoutAppointment.ErrGiftCardRedemption):
			h.logger.Warn("POST /appointments/{id}/checkout - Gift card redemption failed: tenant_id=%d, appointment_id=%d, error=%v",
				principal.TenantID, appointmentID, err)
			handlers.RespondBadRequest(w, msgGiftCardRedemption)

		case errors.Is(err, checkoutAppointment.ErrInvalidInput):
			h.logger.Warn("POST /appointments/{id}/checkout - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /appointments/{id}/checkout - Failed to checkout: tenant_id=%d, appointment_id=%d, error=%v",
				principal.TenantID, appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	response := FromUseCaseResponse(result)

	h.logger.Info("POST /appointments/{id}/checkout - Checkout completed: tenant_id=%d, appointment_id=%d, invoice=%s, total=%.2f",
		principal.TenantID, appointmentID, result.InvoiceNumber, result.Total)
	handlers.RespondJSON(w, http.StatusOK, response)
}
