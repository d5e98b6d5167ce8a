package public_book

import (
	"context"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
	createAppointment "github.com/m04kA/SBP-AppointmentService/internal/usecase/create_appointment"
)

// TenantResolver находит активный салон по публичному slug
type TenantResolver interface {
	GetTenantBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
}

type CreateAppointmentUseCase interface {
	Execute(ctx context.Context, req *createAppointment.Request) (*createAppointment.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
