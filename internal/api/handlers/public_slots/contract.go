package public_slots

import (
	"context"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
	getAvailableSlots "github.com/m04kA/SBP-AppointmentService/internal/usecase/get_available_slots"
)

// TenantResolver находит активный салон по публичному slug
type TenantResolver interface {
	GetTenantBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
}

type GetAvailableSlotsUseCase interface {
	Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
