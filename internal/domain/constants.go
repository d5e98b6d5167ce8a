package domain

// Default booking policy values
const (
	DefaultSlotIntervalMinutes = 15
	DefaultBufferMinutes       = 0
	DefaultMinAdvanceHours     = 1
	DefaultMaxAdvanceDays      = 90 // 0 = unlimited
	DefaultCancellationHours   = 24
)

// Business validation constants
const (
	MinSlotIntervalMinutes      = 5
	MaxSlotIntervalMinutes      = 240 // 4 hours
	MinBufferMinutes            = 0
	MaxBufferMinutes            = 120 // 2 hours
	MinAdvanceHoursLimit        = 0
	MaxAdvanceHoursLimit        = 168 // 1 week
	MinAdvanceDaysLimit         = 0
	MaxAdvanceDaysLimit         = 365 // 1 year
	MaxCancellationHoursLimit   = 720 // 30 days
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов, освобождающих слот в календаре
// Используется для фильтрации при подсчёте доступных слотов
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
	StatusNoShow,
}

// BlockingStatuses список статусов, занимающих слот в календаре
// Завершённые записи занимают свой фактический интервал: end_time
// переписывается на момент завершения, досрочное завершение освобождает хвост слота
var BlockingStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusConfirmed,
	StatusInProgress,
	StatusCompleted,
}
