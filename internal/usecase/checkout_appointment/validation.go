package checkout_appointment

import (
	"fmt"
	"strings"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.TenantID <= 0 {
		return fmt.Errorf("%w: tenantID must be positive", ErrInvalidInput)
	}

	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	if req.StaffUserID <= 0 {
		return fmt.Errorf("%w: staffUserID must be positive", ErrInvalidInput)
	}

	if !domain.IsValidPaymentMethod(req.PaymentMethod) {
		return fmt.Errorf("%w: payment method must be cash, card or gift_card", ErrInvalidInput)
	}

	if domain.PaymentMethod(req.PaymentMethod) == domain.PaymentGiftCard && !hasText(req.GiftCardCode) {
		return ErrGiftCardCodeRequired
	}

	if req.DiscountAmount != nil && *req.DiscountAmount < 0 {
		return fmt.Errorf("%w: discountAmount must not be negative", ErrInvalidInput)
	}

	if req.DiscountType != nil {
		if req.DiscountAmount == nil {
			return fmt.Errorf("%w: discountType requires discountAmount", ErrInvalidInput)
		}
		if !domain.IsValidDiscountType(*req.DiscountType) {
			return fmt.Errorf("%w: discountType must be fixed or percentage", ErrInvalidInput)
		}
	}

	if req.TaxRate != nil && (*req.TaxRate < 0 || *req.TaxRate > 100) {
		return fmt.Errorf("%w: taxRate must be between 0 and 100", ErrInvalidInput)
	}

	if req.Tip < 0 {
		return fmt.Errorf("%w: tip must not be negative", ErrInvalidInput)
	}

	return nil
}

// hasText проверяет, что опциональная строка задана и не пуста
func hasText(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}
