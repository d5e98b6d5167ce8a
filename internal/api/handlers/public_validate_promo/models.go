package public_validate_promo

import (
	"github.com/m04kA/SBP-AppointmentService/internal/service/pricing"
)

// Коды отказа проверки промокода
const (
	reasonNotFound          = "not_found"
	reasonInactive          = "inactive"
	reasonNotRunning        = "not_running"
	reasonUsageLimitReached = "usage_limit_reached"
	reasonMinSpendNotMet    = "min_spend_not_met"
)

// ValidatePromoRequest HTTP request model
type ValidatePromoRequest struct {
	Code     string  `json:"code"`
	Subtotal float64 `json:"subtotal"`
}

// ValidatePromoResponse HTTP response model
// Отказ по бизнес-правилам - это не ошибка HTTP, а valid=false с кодом причины
type ValidatePromoResponse struct {
	Valid          bool     `json:"valid"`
	Code           string   `json:"code"`
	Reason         *string  `json:"reason,omitempty"`
	PromotionName  *string  `json:"promotionName,omitempty"`
	DiscountType   *string  `json:"discountType,omitempty"`
	DiscountValue  *float64 `json:"discountValue,omitempty"`
	DiscountAmount *float64 `json:"discountAmount,omitempty"`
}

// validResponse формирует ответ для действующего промокода
func validResponse(code string, resolved *pricing.ResolvedCode) *ValidatePromoResponse {
	promotionName := resolved.Promotion.Name
	discountType := string(resolved.Promotion.DiscountType)
	discountValue := resolved.Promotion.DiscountValue
	discountAmount := resolved.Amount

	return &ValidatePromoResponse{
		Valid:          true,
		Code:           code,
		PromotionName:  &promotionName,
		DiscountType:   &discountType,
		DiscountValue:  &discountValue,
		DiscountAmount: &discountAmount,
	}
}

// rejectedResponse формирует ответ для отклонённого промокода
func rejectedResponse(code, reason string) *ValidatePromoResponse {
	return &ValidatePromoResponse{
		Valid:  false,
		Code:   code,
		Reason: &reason,
	}
}
