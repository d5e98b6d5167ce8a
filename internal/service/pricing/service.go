package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
	promoRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/promo"
)

// Service сервис расчёта стоимости и применения промокодов
type Service struct {
	promoRepo PromoRepository
	logger    Logger
}

// NewService создает новый экземпляр сервиса расчёта стоимости
func NewService(promoRepo PromoRepository, logger Logger) *Service {
	return &Service{
		promoRepo: promoRepo,
		logger:    logger,
	}
}

// Round округляет денежную сумму до копеек
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}

// DiscountAmount вычисляет сумму скидки от чека
// Для процентной скидки берётся доля от чека, для фиксированной - само значение;
// скидка не может превышать чек
func DiscountAmount(discountType domain.DiscountType, value, subtotal float64) float64 {
	amount := value
	if discountType == domain.DiscountPercentage {
		amount = subtotal * value / 100
	}
	if amount > subtotal {
		amount = subtotal
	}
	if amount < 0 {
		amount = 0
	}
	return Round(amount)
}

// BuildQuote рассчитывает стоимость визита
// Скидки (зафиксированная при записи и ручная при оплате) суммируются и
// ограничиваются ценой услуги, налог начисляется на цену после скидки,
// чаевые добавляются поверх и не облагаются
func (s *Service) BuildQuote(in QuoteInput) Quote {
	discount := in.BookedDiscount
	if in.OverrideAmount != nil {
		overrideType := domain.DiscountFixed
		if in.OverrideType != nil {
			overrideType = *in.OverrideType
		}
		discount += DiscountAmount(overrideType, *in.OverrideAmount, in.ServicePrice)
	}

	if discount > in.ServicePrice {
		discount = in.ServicePrice
	}
	if discount < 0 {
		discount = 0
	}
	discount = Round(discount)

	taxable := Round(in.ServicePrice - discount)
	tax := Round(taxable * in.TaxRate / 100)
	tip := Round(in.Tip)

	return Quote{
		Subtotal:       Round(in.ServicePrice + tip),
		DiscountAmount: discount,
		TaxRate:        in.TaxRate,
		TaxAmount:      tax,
		TipAmount:      tip,
		Total:          Round(taxable + tax + tip),
	}
}

// ResolveCode проверяет промокод и рассчитывает скидку от чека
// Строгий режим: каждый отказ возвращается отдельной ошибкой.
// Используется публичной проверкой кода перед записью
func (s *Service) ResolveCode(ctx context.Context, tenantID int64, code string, subtotal float64, now time.Time) (*ResolvedCode, error) {
	discountCode, promotion, err := s.promoRepo.GetCodeWithPromotion(ctx, tenantID, code)
	if err != nil {
		if errors.Is(err, promoRepo.ErrCodeNotFound) {
			return nil, ErrCodeNotFound
		}
		s.logger.Error("ResolveCode: repository error for code=%q tenant=%d: %v", code, tenantID, err)
		return nil, fmt.Errorf("%w: ResolveCode - repository error: %v", ErrInternal, err)
	}

	if !discountCode.Active {
		return nil, ErrCodeInactive
	}
	if !promotion.IsRunningAt(now) {
		return nil, ErrPromotionNotRunning
	}
	if !discountCode.HasUsageLeft() || !promotion.HasUsageLeft() {
		return nil, ErrUsageLimitReached
	}
	if !promotion.MeetsMinSpend(subtotal) {
		return nil, ErrMinSpendNotMet
	}

	return &ResolvedCode{
		Code:      discountCode,
		Promotion: promotion,
		Amount:    DiscountAmount(promotion.DiscountType, promotion.DiscountValue, subtotal),
	}, nil
}

// ResolveCodeLenient проверяет промокод в мягком режиме
// Бизнес-отказы (нет кода, код выключен, акция не действует, лимит, порог)
// дают нулевую скидку вместо ошибки - запись всё равно создаётся.
// Инфраструктурные ошибки пробрасываются
func (s *Service) ResolveCodeLenient(ctx context.Context, tenantID int64, code string, subtotal float64, now time.Time) (*ResolvedCode, error) {
	resolved, err := s.ResolveCode(ctx, tenantID, code, subtotal, now)
	if err != nil {
		if isBusinessRejection(err) {
			s.logger.Warn("ResolveCodeLenient: code=%q rejected for tenant=%d: %v", code, tenantID, err)
			return nil, nil
		}
		return nil, err
	}
	return resolved, nil
}

// ApplyUsage увеличивает счётчики применений промокода и его акции
// Вызывается только внутри транзакции, создающей запись или счёт:
// откат транзакции откатывает и счётчики
func (s *Service) ApplyUsage(ctx context.Context, resolved *ResolvedCode) error {
	if err := s.promoRepo.IncrementCodeUsage(ctx, resolved.Code.ID); err != nil {
		if errors.Is(err, promoRepo.ErrUsageLimitReached) {
			return ErrUsageLimitReached
		}
		s.logger.Error("ApplyUsage: failed to increment code id=%d: %v", resolved.Code.ID, err)
		return fmt.Errorf("%w: ApplyUsage - increment code: %v", ErrInternal, err)
	}

	if err := s.promoRepo.IncrementPromotionUsage(ctx, resolved.Promotion.ID); err != nil {
		if errors.Is(err, promoRepo.ErrUsageLimitReached) {
			return ErrUsageLimitReached
		}
		s.logger.Error("ApplyUsage: failed to increment promotion id=%d: %v", resolved.Promotion.ID, err)
		return fmt.Errorf("%w: ApplyUsage - increment promotion: %v", ErrInternal, err)
	}

	return nil
}

// isBusinessRejection отличает бизнес-отказ промокода от инфраструктурной ошибки
func isBusinessRejection(err error) bool {
	return errors.Is(err, ErrCodeNotFound) ||
		errors.Is(err, ErrCodeInactive) ||
		errors.Is(err, ErrPromotionNotRunning) ||
		errors.Is(err, ErrUsageLimitReached) ||
		errors.Is(err, ErrMinSpendNotMet)
}
