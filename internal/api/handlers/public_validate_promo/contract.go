package public_validate_promo

import (
	"context"
	"time"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
	"github.com/m04kA/SBP-AppointmentService/internal/service/pricing"
)

// TenantResolver находит активный салон по публичному slug
type TenantResolver interface {
	GetTenantBySlug(ctx context.Context, slug string) (*domain.Tenant, error)
}

// PricingService проверяет промокод в строгом режиме
type PricingService interface {
	ResolveCode(ctx context.Context, tenantID int64, code string, subtotal float64, now time.Time) (*pricing.ResolvedCode, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
