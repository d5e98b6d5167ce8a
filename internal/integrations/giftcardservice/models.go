package giftcardservice

// RedeemRequest запрос на списание с подарочной карты
type RedeemRequest struct {
	TenantID      int64   `json:"tenant_id"`
	Code          string  `json:"code"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	InvoiceID     int64   `json:"invoice_id"`
	AppointmentID int64   `json:"appointment_id"`
}

// RedeemResponse результат списания
type RedeemResponse struct {
	TransactionID    string  `json:"transaction_id"`
	RemainingBalance float64 `json:"remaining_balance"`
}

// ErrorResponse модель ошибки от сервиса подарочных карт
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
