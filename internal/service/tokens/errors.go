package tokens

import "errors"

var (
	// ErrTokenNotFound возвращается, когда токен не существует
	// или запись, на которую он указывает, недоступна
	ErrTokenNotFound = errors.New("tokens: booking token not found")

	// ErrTokenExpired возвращается, когда срок действия токена истёк
	ErrTokenExpired = errors.New("tokens: booking token expired")

	// ErrCannotCancel возвращается при попытке отменить запись в терминальном статусе
	ErrCannotCancel = errors.New("tokens: appointment cannot be cancelled")

	// ErrCancellationNotAllowed возвращается, когда политика салона
	// запрещает клиентские отмены
	ErrCancellationNotAllowed = errors.New("tokens: cancellation is not allowed")

	// ErrCancellationWindowPassed возвращается, когда до начала записи
	// остаётся меньше часов, чем требует политика отмены
	ErrCancellationWindowPassed = errors.New("tokens: cancellation window has passed")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("tokens: internal error")
)
