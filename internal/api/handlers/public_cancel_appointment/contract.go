package public_cancel_appointment

import (
	"context"

	"github.com/m04kA/SBP-AppointmentService/internal/service/tokens/models"
)

type TokensService interface {
	CancelByToken(ctx context.Context, tokenValue, reason string) (*models.ManageView, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
