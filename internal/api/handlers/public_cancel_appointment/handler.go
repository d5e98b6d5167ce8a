package public_cancel_appointment

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SBP-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SBP-AppointmentService/internal/domain"
	"github.com/m04kA/SBP-AppointmentService/internal/service/tokens"
)

const (
	msgInvalidRequestBody     = "некорректное тело запроса"
	msgReasonTooLong          = "причина отмены слишком длинная"
	msgTokenNotFound          = "ссылка недействительна"
	msgTokenExpired           = "срок действия ссылки истёк"
	msgCannotCancel           = "запись уже нельзя отменить"
	msgCancellationNotAllowed = "салон не разрешает отмену записей через сайт"
	msgCancellationWindow     = "время для отмены записи истекло"
)

// CancelRequest HTTP request model
// Тело опционально: отмена без причины допустима
type CancelRequest struct {
	Reason string `json:"reason"`
}

type Handler struct {
	service TokensService
	logger  Logger
}

func NewHandler(service TokensService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /public/manage/{token}/cancel
// Клиентская отмена по токену самообслуживания с учётом политики салона
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	token := vars["token"]

	var req CancelRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("POST /public/manage/{token}/cancel - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}
	if len(req.Reason) > domain.MaxCancellationReasonLength {
		handlers.RespondBadRequest(w, msgReasonTooLong)
		return
	}

	result, err := h.service.CancelByToken(r.Context(), token, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, tokens.ErrTokenNotFound):
			h.logger.Warn("POST /public/manage/{token}/cancel - Token not found")
			handlers.RespondNotFound(w, msgTokenNotFound)

		case errors.Is(err, tokens.ErrTokenExpired):
			h.logger.Warn("POST /public/manage/{token}/cancel - Token expired")
			handlers.RespondError(w, http.StatusGone, msgTokenExpired)

		case errors.Is(err, tokens.ErrCannotCancel):
			h.logger.Warn("POST /public/manage/{token}/cancel - Appointment cannot be cancelled")
			handlers.RespondBadRequest(w, msgCannotCancel)

		case errors.Is(err, tokens.ErrCancellationNotAllowed):
			h.logger.Warn("POST /public/manage/{token}/cancel - Cancellation not allowed by policy")
			handlers.RespondForbidden(w, msgCancellationNotAllowed)

		case errors.Is(err, tokens.ErrCancellationWindowPassed):
			h.logger.Warn("POST /public/manage/{token}/cancel - Cancellation window passed")
			handlers.RespondForbidden(w, msgCancellationWindow)

		default:
			h.logger.Error("POST /public/manage/{token}/cancel - Failed to cancel: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /public/manage/{token}/cancel - Appointment cancelled: appointment_id=%d",
		result.AppointmentID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
