// Package events содержит внутрипроцессную шину доменных событий
// Запись в шину не блокирует бизнес-операцию: события разбираются
// фоновой горутиной и раздаются подписчикам (уведомления, напоминания)
package events

import (
	"time"

	"github.com/google/uuid"
)

// Type тип доменного события
type Type string

const (
	TypeAppointmentCreated       Type = "appointment.created"
	TypeAppointmentStatusChanged Type = "appointment.status_changed"
	TypeAppointmentRescheduled   Type = "appointment.rescheduled"
	TypeAppointmentCancelled     Type = "appointment.cancelled"
	TypeCheckoutCompleted        Type = "checkout.completed"
)

// Event доменное событие о записи
// StartTime заполняется для событий, по которым ставятся напоминания
type Event struct {
	ID            uuid.UUID
	Type          Type
	TenantID      int64
	AppointmentID int64
	StartTime     time.Time
	Summary       string
	OccurredAt    time.Time
}

// NewEvent собирает событие с уникальным идентификатором
func NewEvent(eventType Type, tenantID, appointmentID int64, occurredAt time.Time) Event {
	return Event{
		ID:            uuid.New(),
		Type:          eventType,
		TenantID:      tenantID,
		AppointmentID: appointmentID,
		OccurredAt:    occurredAt,
	}
}
