package domain

import "time"

// TokenActionManage единственное действие токена: просмотр и отмена своей записи
const TokenActionManage = "manage"

// BookingToken токен управления записью для клиентов без аккаунта
// Выдаётся при онлайн-записи, живёт фиксированный срок
type BookingToken struct {
	ID            int64
	TenantID      int64
	AppointmentID int64
	Token         string
	Action        string
	ExpiresAt     time.Time
	UsedAt        *time.Time

	CreatedAt time.Time
}

// IsExpired returns true if the token validity window has passed
func (t *BookingToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// IsUsed returns true if the token has already been consumed by a cancellation
func (t *BookingToken) IsUsed() bool {
	return t.UsedAt != nil
}
