package list_booking_policies

import (
	"context"

	"github.com/m04kA/SBP-AppointmentService/internal/service/policy/models"
)

type PolicyService interface {
	List(ctx context.Context, tenantID int64) (*models.PolicyListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
