package healthz

import (
	"context"
	"net/http"
	"time"

	"github.com/m04kA/SBP-AppointmentService/internal/api/handlers"
)

const pingTimeout = 2 * time.Second

// Pinger проверяет доступность хранилища
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

type Handler struct {
	db     Pinger
	logger Logger
}

func NewHandler(db Pinger, logger Logger) *Handler {
	return &Handler{
		db:     db,
		logger: logger,
	}
}

type healthResponse struct {
	Status string `json:"status"`
}

// Handle GET /healthz
// Проверяет доступность БД, не требует аутентификации
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.Error("GET /healthz - Database ping failed: %v", err)
		handlers.Respond(w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
		return
	}

	handlers.Respond(w, http.StatusOK, healthResponse{Status: "ok"})
}
