package promo

import "errors"

var (
	// ErrCodeNotFound возвращается, когда промокод не найден или деактивирован
	ErrCodeNotFound = errors.New("promo.repository: discount code not found")

	// ErrPromotionNotFound возвращается, когда акция не найдена
	ErrPromotionNotFound = errors.New("promo.repository: promotion not found")

	// ErrUsageLimitReached возвращается, когда лимит применений исчерпан
	// Инкремент счётчика защищён условием в самом UPDATE, поэтому
	// превышение лимита невозможно даже при конкурентных применениях
	ErrUsageLimitReached = errors.New("promo.repository: usage limit reached")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("promo.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("promo.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("promo.repository: failed to scan row")
)
