package appointments

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointments: appointment not found")

	// ErrTenantNotFound возвращается, когда салон не найден
	ErrTenantNotFound = errors.New("appointments: tenant not found")

	// ErrInvalidStatus возвращается при попытке установить недопустимый статус
	ErrInvalidStatus = errors.New("appointments: invalid appointment status")

	// ErrInvalidTransition возвращается при недопустимом переходе статуса
	// Терминальные статусы (completed, cancelled, no_show) не меняются
	ErrInvalidTransition = errors.New("appointments: status transition is not allowed")

	// ErrCannotReschedule возвращается при попытке перенести запись,
	// которая уже началась или закрыта
	ErrCannotReschedule = errors.New("appointments: appointment cannot be rescheduled")

	// ErrTimeConflict возвращается, когда новое время записи пересекается
	// с другой записью мастера
	ErrTimeConflict = errors.New("appointments: time slot conflicts with another appointment")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("appointments: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("appointments: internal error")
)
