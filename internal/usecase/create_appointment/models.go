package create_appointment

import (
	"time"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
)

// Request модель запроса на создание записи
type Request struct {
	TenantID  int64  // ID салона
	ServiceID int64  // ID услуги
	StaffID   int64  // ID мастера
	BranchID  *int64 // ID филиала (опционально)

	StartTime time.Time  // Начало записи
	EndTime   *time.Time // Конец записи; nil = вычисляется из длительности услуги

	Source string // Канал записи: walk_in или online

	// Клиент: карточка либо контактные данные (для онлайн-записи)
	CustomerID    *int64
	CustomerName  *string
	CustomerPhone *string
	CustomerEmail *string

	PromoCode *string // Промокод (опционально, мягкий режим)
	Notes     *string // Дополнительные заметки (опционально)
}

// Response модель ответа с созданной записью
type Response struct {
	ID       int64
	TenantID int64

	ServiceID int64
	StaffID   int64
	BranchID  *int64

	StartTime time.Time
	EndTime   time.Time

	Status        string
	Source        string
	PaymentStatus string

	// Денормализованные данные услуги и зафиксированная скидка
	ServiceName    string
	OriginalPrice  float64
	FinalPrice     float64
	PromotionID    *int64
	DiscountCodeID *int64
	DiscountType   *string
	DiscountAmount float64

	CustomerID    *int64
	CustomerName  *string
	CustomerPhone *string
	CustomerEmail *string

	Notes *string

	// Токен самообслуживания, выдаётся только для онлайн-записей
	ManageToken          *string
	ManageTokenExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// toResponse конвертирует созданную запись в response
func toResponse(appt *domain.Appointment, token *domain.BookingToken) *Response {
	resp := &Response{
		ID:             appt.ID,
		TenantID:       appt.TenantID,
		ServiceID:      appt.ServiceID,
		StaffID:        appt.StaffID,
		BranchID:       appt.BranchID,
		StartTime:      appt.StartTime,
		EndTime:        appt.EndTime,
		Status:         string(appt.Status),
		Source:         string(appt.Source),
		PaymentStatus:  string(appt.PaymentStatus),
		ServiceName:    appt.ServiceName,
		OriginalPrice:  appt.OriginalPrice,
		FinalPrice:     appt.FinalPrice,
		PromotionID:    appt.PromotionID,
		DiscountCodeID: appt.DiscountCodeID,
		DiscountAmount: appt.DiscountAmount,
		CustomerID:     appt.CustomerID,
		CustomerName:   appt.CustomerName,
		CustomerPhone:  appt.CustomerPhone,
		CustomerEmail:  appt.CustomerEmail,
		Notes:          appt.Notes,
		CreatedAt:      appt.CreatedAt,
		UpdatedAt:      appt.UpdatedAt,
	}

	if appt.DiscountType != nil {
		discountType := string(*appt.DiscountType)
		resp.DiscountType = &discountType
	}
	if token != nil {
		resp.ManageToken = &token.Token
		resp.ManageTokenExpiresAt = &token.ExpiresAt
	}

	return resp
}
