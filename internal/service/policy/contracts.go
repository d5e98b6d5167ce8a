package policy

import (
	"context"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
)

// PolicyRepository интерфейс репозитория политик бронирования
type PolicyRepository interface {
	Resolve(ctx context.Context, tenantID int64, branchID, serviceID *int64) (*domain.BookingPolicy, error)
	Upsert(ctx context.Context, policy *domain.BookingPolicy) (*domain.BookingPolicy, error)
	GetAllByTenant(ctx context.Context, tenantID int64) ([]*domain.BookingPolicy, error)
	Delete(ctx context.Context, tenantID int64, branchID, serviceID *int64) error
}

// CatalogRepository интерфейс справочника салонов
type CatalogRepository interface {
	GetTenantByID(ctx context.Context, tenantID int64) (*domain.Tenant, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
