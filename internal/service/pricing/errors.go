package pricing

import "errors"

var (
	// ErrCodeNotFound возвращается, когда промокод не существует в салоне
	ErrCodeNotFound = errors.New("pricing: discount code not found")

	// ErrCodeInactive возвращается, когда промокод отключён
	ErrCodeInactive = errors.New("pricing: discount code is inactive")

	// ErrPromotionNotRunning возвращается, когда акция отключена
	// или момент применения вне окна её действия
	ErrPromotionNotRunning = errors.New("pricing: promotion is not running")

	// ErrUsageLimitReached возвращается, когда лимит применений кода или акции исчерпан
	ErrUsageLimitReached = errors.New("pricing: usage limit reached")

	// ErrMinSpendNotMet возвращается, когда сумма чека меньше порога акции
	ErrMinSpendNotMet = errors.New("pricing: minimum spend not met")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("pricing: internal error")
)
