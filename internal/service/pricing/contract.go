package pricing

import (
	"context"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
)

// PromoRepository интерфейс репозитория акций и промокодов
type PromoRepository interface {
	// GetCodeWithPromotion получает промокод салона вместе с его акцией
	GetCodeWithPromotion(ctx context.Context, tenantID int64, code string) (*domain.DiscountCode, *domain.Promotion, error)
	// IncrementCodeUsage атомарно увеличивает счётчик применений промокода
	IncrementCodeUsage(ctx context.Context, codeID int64) error
	// IncrementPromotionUsage атомарно увеличивает счётчик применений акции
	IncrementPromotionUsage(ctx context.Context, promotionID int64) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
