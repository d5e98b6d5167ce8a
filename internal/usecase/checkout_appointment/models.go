package checkout_appointment

import "github.com/m04kA/SBP-AppointmentService/internal/domain"

// Request модель запроса на оформление оплаты
type Request struct {
	TenantID      int64 // ID салона
	AppointmentID int64 // ID записи
	StaffUserID   int64 // ID сотрудника, оформляющего оплату

	PaymentMethod string  // Способ оплаты: cash, card или gift_card
	GiftCardCode  *string // Код подарочной карты (обязателен для gift_card)

	// Ручная скидка кассира, суммируется со скидкой записи
	DiscountAmount *float64
	DiscountType   *string // fixed или percentage; по умолчанию fixed

	TaxRate *float64 // Переопределение ставки налога; по умолчанию ставка салона
	Tip     float64  // Чаевые
	PayNow  bool     // Оплата на месте (для cash/card)
}

// Response модель ответа по оформленной оплате
type Response struct {
	AppointmentID int64
	InvoiceID     int64
	InvoiceNumber string

	Subtotal       float64
	DiscountAmount float64
	TaxRate        float64
	TaxAmount      float64
	TipAmount      float64
	Total          float64
	AmountPaid     float64
	Currency       string

	Status            string // Статус счёта
	AppointmentStatus string
	PaymentStatus     string // Статус оплаты записи
	PaymentMethod     *string
}

// toResponse собирает ответ из финального состояния записи и счёта
func toResponse(appt *domain.Appointment, inv *domain.Invoice) *Response {
	resp := &Response{
		AppointmentID:     appt.ID,
		InvoiceID:         inv.ID,
		InvoiceNumber:     inv.InvoiceNumber,
		Subtotal:          inv.Subtotal,
		DiscountAmount:    inv.DiscountAmount,
		TaxRate:           inv.TaxRate,
		TaxAmount:         inv.TaxAmount,
		TipAmount:         inv.TipAmount,
		Total:             inv.Total,
		AmountPaid:        inv.AmountPaid,
		Currency:          inv.Currency,
		Status:            string(inv.Status),
		AppointmentStatus: string(appt.Status),
		PaymentStatus:     string(appt.PaymentStatus),
	}

	if inv.PaymentMethod != nil {
		method := string(*inv.PaymentMethod)
		resp.PaymentMethod = &method
	}

	return resp
}
