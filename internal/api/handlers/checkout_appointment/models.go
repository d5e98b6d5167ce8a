package checkout_appointment

import (
	checkoutAppointment "github.com/m04kA/SBP-AppointmentService/internal/usecase/checkout_appointment"
)

// CheckoutRequest HTTP request model
type CheckoutRequest struct {
	PaymentMethod  string   `json:"paymentMethod"`            // cash, card, gift_card
	GiftCardCode   *string  `json:"giftCardCode,omitempty"`   // обязателен при paymentMethod=gift_card
	DiscountAmount *float64 `json:"discountAmount,omitempty"` // скидка на кассе, перекрывает скидку записи
	DiscountType   *string  `json:"discountType,omitempty"`   // percentage или fixed
	TaxRate        *float64 `json:"taxRate,omitempty"`        // по умолчанию ставка салона
	Tip            float64  `json:"tip"`
	PayNow         bool     `json:"payNow"`
}

// CheckoutResponse HTTP response model
type CheckoutResponse struct {
	AppointmentID     int64   `json:"appointmentId"`
	InvoiceID         int64   `json:"invoiceId"`
	InvoiceNumber     string  `json:"invoiceNumber"`
	Subtotal          float64 `json:"subtotal"`
	DiscountAmount    float64 `json:"discountAmount"`
	TaxRate           float64 `json:"taxRate"`
	TaxAmount         float64 `json:"taxAmount"`
	TipAmount         float64 `json:"tipAmount"`
	Total             float64 `json:"total"`
	AmountPaid        float64 `json:"amountPaid"`
	Currency          string  `json:"currency"`
	Status            string  `json:"status"`
	AppointmentStatus string  `json:"appointmentStatus"`
	PaymentStatus     string  `json:"paymentStatus"`
	PaymentMethod     *string `json:"paymentMethod,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CheckoutRequest) ToUseCaseRequest(tenantID, appointmentID, staffUserID int64) *checkoutAppointment.Request {
	return &checkoutAppointment.Request{
		TenantID:       tenantID,
		AppointmentID:  appointmentID,
		StaffUserID:    staffUserID,
		PaymentMethod:  r.PaymentMethod,
		GiftCardCode:   r.GiftCardCode,
		DiscountAmount: r.DiscountAmount,
		DiscountType:   r.DiscountType,
		TaxRate:        r.TaxRate,
		Tip:            r.Tip,
		PayNow:         r.PayNow,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkoutAppointment.Response) *CheckoutResponse {
	return &CheckoutResponse{
		AppointmentID:     resp.AppointmentID,
		InvoiceID:         resp.InvoiceID,
		InvoiceNumber:     resp.InvoiceNumber,
		Subtotal:          resp.Subtotal,
		DiscountAmount:    resp.DiscountAmount,
		TaxRate:           resp.TaxRate,
		TaxAmount:         resp.TaxAmount,
		TipAmount:         resp.TipAmount,
		Total:             resp.Total,
		AmountPaid:        resp.AmountPaid,
		Currency:          resp.Currency,
		Status:            resp.Status,
		AppointmentStatus: resp.AppointmentStatus,
		PaymentStatus:     resp.PaymentStatus,
		PaymentMethod:     resp.PaymentMethod,
	}
}
