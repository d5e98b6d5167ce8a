package pricing

import "github.com/m04kA/SBP-AppointmentService/internal/domain"

// QuoteInput параметры расчёта итоговой стоимости визита
// BookedDiscount - скидка, зафиксированная при создании записи;
// Override* - ручная скидка кассира при оплате. Обе суммируются
type QuoteInput struct {
	ServicePrice   float64
	BookedDiscount float64
	OverrideAmount *float64
	OverrideType   *domain.DiscountType
	TaxRate        float64
	Tip            float64
}

// Quote результат расчёта стоимости
// Чаевые входят в Subtotal, но не участвуют ни в скидке, ни в налоге:
// Total = Subtotal - DiscountAmount + TaxAmount
type Quote struct {
	Subtotal       float64
	DiscountAmount float64
	TaxRate        float64
	TaxAmount      float64
	TipAmount      float64
	Total          float64
}

// ResolvedCode успешно применённый промокод
// Amount - сумма скидки, рассчитанная от переданного чека
type ResolvedCode struct {
	Code      *domain.DiscountCode
	Promotion *domain.Promotion
	Amount    float64
}
