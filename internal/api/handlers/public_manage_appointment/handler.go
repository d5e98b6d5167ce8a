package public_manage_appointment

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SBP-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SBP-AppointmentService/internal/service/tokens"
)

const (
	msgTokenNotFound = "ссылка недействительна"
	msgTokenExpired  = "срок действия ссылки истёк"
)

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

// Handle GET /public/manage/{token}
// Страница самообслуживания: состояние записи и доступность отмены
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	token := vars["token"]

	result, err := h.service.Resolve(r.Context(), token)
	if err != nil {
		switch {
		case errors.Is(err, tokens.ErrTokenNotFound):
			h.logger.Warn("GET /public/manage/{token} - Token not found")
			handlers.RespondNotFound(w, msgTokenNotFound)

		case errors.Is(err, tokens.ErrTokenExpired):
			h.logger.Warn("GET /public/manage/{token} - Token expired")
			handlers.RespondError(w, http.StatusGone, msgTokenExpired)

		default:
			h.logger.Error("GET /public/manage/{token} - Failed to resolve token: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /public/manage/{token} - Appointment resolved: appointment_id=%d, status=%s",
		result.AppointmentID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
