package domain

import "time"

// InvoiceStatus статус счёта
type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "draft"
	InvoiceSent    InvoiceStatus = "sent"
	InvoicePaid    InvoiceStatus = "paid"
	InvoiceOverdue InvoiceStatus = "overdue"
	InvoiceVoid    InvoiceStatus = "void"
)

// PaymentMethod способ оплаты счёта
type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentCard     PaymentMethod = "card"
	PaymentGiftCard PaymentMethod = "gift_card"
)

// IsValidPaymentMethod проверяет, что строка является допустимым способом оплаты
func IsValidPaymentMethod(s string) bool {
	m := PaymentMethod(s)
	return m == PaymentCash || m == PaymentCard || m == PaymentGiftCard
}

// Invoice счёт, выставленный при завершении записи
type Invoice struct {
	ID            int64
	TenantID      int64
	AppointmentID int64
	CustomerID    *int64

	// Человекочитаемый номер, монотонный в рамках салона
	InvoiceNumber string

	Subtotal       float64
	DiscountAmount float64
	DiscountType   *DiscountType
	TaxRate        float64
	TaxAmount      float64
	TipAmount      float64
	Total          float64
	AmountPaid     float64
	Currency       string

	Status        InvoiceStatus
	PaymentMethod *PaymentMethod
	PaidAt        *time.Time
	CreatedBy     int64

	Items []InvoiceItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPaid returns true if the invoice has been fully paid
func (i *Invoice) IsPaid() bool {
	return i.Status == InvoicePaid
}

// IsVoid returns true if the invoice has been voided
func (i *Invoice) IsVoid() bool {
	return i.Status == InvoiceVoid
}

// InvoiceItemType тип строки счёта
type InvoiceItemType string

const (
	ItemService InvoiceItemType = "service"
	ItemCustom  InvoiceItemType = "custom"
	ItemTip     InvoiceItemType = "tip"
)

// InvoiceItem строка счёта
type InvoiceItem struct {
	ID          int64
	InvoiceID   int64
	ItemType    InvoiceItemType
	ReferenceID *int64 // ID услуги для позиций типа service
	Name        string
	Quantity    int
	UnitPrice   float64
	LineTotal   float64
}
