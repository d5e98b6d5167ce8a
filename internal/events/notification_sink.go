package events

import (
	"context"

	"github.com/m04kA/SBP-AppointmentService/internal/integrations/notifyservice"
)

// NotificationSender отправляет уведомления персоналу салона
type NotificationSender interface {
	Send(ctx context.Context, notification notifyservice.Notification) error
}

// NotificationSink подписчик, транслирующий события в уведомления
type NotificationSink struct {
	client NotificationSender
}

// NewNotificationSink создает подписчика уведомлений
func NewNotificationSink(client NotificationSender) *NotificationSink {
	return &NotificationSink{client: client}
}

// Name имя подписчика для логов
func (s *NotificationSink) Name() string {
	return "notifications"
}

// Handle отправляет уведомление по событию
func (s *NotificationSink) Handle(ctx context.Context, event Event) error {
	title, ok := notificationTitles[event.Type]
	if !ok {
		// Не для каждого события есть уведомление
		return nil
	}

	return s.client.Send(ctx, notifyservice.Notification{
		TenantID:      event.TenantID,
		AppointmentID: event.AppointmentID,
		Event:         string(event.Type),
		Title:         title,
		Message:       event.Summary,
	})
}

// notificationTitles заголовки уведомлений по типам событий
var notificationTitles = map[Type]string{
	TypeAppointmentCreated:     "Новая запись",
	TypeAppointmentRescheduled: "Запись перенесена",
	TypeAppointmentCancelled:   "Запись отменена",
	TypeCheckoutCompleted:      "Визит оплачен",
}
