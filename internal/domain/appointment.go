package domain

import "time"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "scheduled"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in_progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no_show"
)

// AppointmentSource канал, через который создана запись
type AppointmentSource string

const (
	SourceWalkIn AppointmentSource = "walk_in"
	SourceOnline AppointmentSource = "online"
)

// PaymentStatus статус оплаты записи
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Appointment represents a scheduled service appointment
type Appointment struct {
	ID       int64
	TenantID int64

	// Клиент: либо ссылка на карточку клиента, либо контактные данные для онлайн-записи
	CustomerID    *int64
	CustomerName  *string
	CustomerPhone *string
	CustomerEmail *string

	ServiceID int64
	StaffID   int64
	BranchID  *int64 // NULL = единственный филиал салона

	StartTime time.Time
	EndTime   time.Time

	Status        AppointmentStatus
	Source        AppointmentSource
	PaymentStatus PaymentStatus

	// Denormalized data for history
	ServiceName   string
	OriginalPrice float64
	FinalPrice    float64

	// Скидка, зафиксированная при создании записи
	PromotionID    *int64
	DiscountCodeID *int64
	DiscountType   *DiscountType
	DiscountAmount float64

	Notes              *string
	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true if the appointment is in a terminal state
// Terminal appointments cannot change status
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusCompleted ||
		a.Status == StatusCancelled ||
		a.Status == StatusNoShow
}

// Blocks returns true if the appointment occupies calendar time
// Отмены и неявки освобождают слот, завершённые записи занимают только
// свой фактический интервал [StartTime, EndTime)
func (a *Appointment) Blocks() bool {
	return a.Status != StatusCancelled && a.Status != StatusNoShow
}

// CanBeCancelled returns true if the appointment can still be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return !a.IsTerminal()
}

// CanBeRescheduled returns true if the appointment time can still be changed
func (a *Appointment) CanBeRescheduled() bool {
	return a.Status == StatusScheduled || a.Status == StatusConfirmed
}

// IsCancelled returns true if the appointment has been cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == StatusCancelled
}

// Overlaps возвращает true, если интервал записи пересекается с [start, end)
// Границы интервалов не считаются пересечением
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.StartTime.Before(end) && a.EndTime.After(start)
}

// AppointmentsFilter фильтр для получения записей салона
type AppointmentsFilter struct {
	TenantID        int64              // Обязательный параметр
	StaffID         *int64             // Фильтр по мастеру (опционально)
	BranchID        *int64             // Фильтр по филиалу (опционально)
	CustomerID      *int64             // Фильтр по клиенту (опционально)
	DateFrom        *time.Time         // Начало периода (опционально)
	DateTo          *time.Time         // Конец периода (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли отменённые записи и неявки
}

// IsSingleStaffDay возвращает true, когда фильтр ограничен одним мастером и одним днём
// Такой фильтр используется при проверке конфликтов внутри транзакции
func (f *AppointmentsFilter) IsSingleStaffDay() bool {
	return f.StaffID != nil && f.DateFrom != nil && f.DateTo != nil
}
