package events

import (
	"context"

	"github.com/m04kA/SBP-AppointmentService/internal/integrations/reminderservice"
)

// reminderTypeUpcoming единственный тип напоминания: о предстоящем визите
const reminderTypeUpcoming = "upcoming"

// ReminderScheduler управляет напоминаниями во внешнем сервисе
type ReminderScheduler interface {
	Schedule(ctx context.Context, schedule reminderservice.ScheduleRequest) error
	Reschedule(ctx context.Context, schedule reminderservice.ScheduleRequest) error
	Cancel(ctx context.Context, appointmentID int64) error
}

// DispatchLog журнал отправленных напоминаний
type DispatchLog interface {
	TryRecord(ctx context.Context, appointmentID int64, reminderType string) (bool, error)
}

// ReminderSink подписчик, управляющий напоминаниями о визитах
// Перед постановкой напоминания делается запись в журнал: если запись
// уже есть, событие считается повторным и напоминание не дублируется
type ReminderSink struct {
	client ReminderScheduler
	log    DispatchLog
}

// NewReminderSink создает подписчика напоминаний
func NewReminderSink(client ReminderScheduler, log DispatchLog) *ReminderSink {
	return &ReminderSink{client: client, log: log}
}

// Name имя подписчика для логов
func (s *ReminderSink) Name() string {
	return "reminders"
}

// Handle ставит, переносит или снимает напоминание по событию
func (s *ReminderSink) Handle(ctx context.Context, event Event) error {
	switch event.Type {
	case TypeAppointmentCreated:
		first, err := s.log.TryRecord(ctx, event.AppointmentID, reminderTypeUpcoming)
		if err != nil {
			return err
		}
		if !first {
			return nil
		}
		return s.client.Schedule(ctx, reminderservice.ScheduleRequest{
			TenantID:      event.TenantID,
			AppointmentID: event.AppointmentID,
			StartTime:     event.StartTime,
		})

	case TypeAppointmentRescheduled:
		return s.client.Reschedule(ctx, reminderservice.ScheduleRequest{
			TenantID:      event.TenantID,
			AppointmentID: event.AppointmentID,
			StartTime:     event.StartTime,
		})

	case TypeAppointmentCancelled:
		err := s.client.Cancel(ctx, event.AppointmentID)
		if err == reminderservice.ErrReminderNotFound {
			// Напоминание могло не ставиться или уже сработать
			return nil
		}
		return err
	}

	return nil
}
