package create_appointment

import "errors"

var (
	// ErrTenantNotFound возвращается, когда салон не найден или деактивирован
	ErrTenantNotFound = errors.New("create_appointment: tenant not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или отключена
	ErrServiceNotFound = errors.New("create_appointment: service not found")

	// ErrTimeConflict возвращается, когда интервал записи пересекается
	// с другой записью этого мастера
	ErrTimeConflict = errors.New("create_appointment: time slot conflicts with another appointment")

	// ErrInvalidDate возвращается, когда начало записи в прошлом
	ErrInvalidDate = errors.New("create_appointment: start time is in the past")

	// ErrTooLateToBook возвращается, когда онлайн-запись нарушает
	// минимальное время до начала (min_advance_hours)
	ErrTooLateToBook = errors.New("create_appointment: too late to book this slot")

	// ErrDateTooFarInFuture возвращается, когда дата онлайн-записи превышает
	// горизонт бронирования (max_advance_days)
	ErrDateTooFarInFuture = errors.New("create_appointment: date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_appointment: internal error")

	// errPromoExhausted внутренний сигнал: лимит промокода исчерпан
	// между проверкой и применением, транзакцию нужно повторить без кода
	errPromoExhausted = errors.New("create_appointment: promo usage exhausted mid-flight")
)
