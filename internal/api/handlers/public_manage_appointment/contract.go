package public_manage_appointment

import (
	"context"

	"github.com/m04kA/SBP-AppointmentService/internal/service/tokens/models"
)

type TokensService interface {
	Resolve(ctx context.Context, tokenValue string) (*models.ManageView, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
