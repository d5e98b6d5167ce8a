package giftcardservice

import "errors"

var (
	// ErrCardNotFound возвращается, когда карта с указанным кодом не существует
	ErrCardNotFound = errors.New("giftcardservice: gift card not found")

	// ErrCardExpired возвращается, когда срок действия карты истёк
	ErrCardExpired = errors.New("giftcardservice: gift card expired")

	// ErrInsufficientBalance возвращается, когда баланса карты не хватает на списание
	ErrInsufficientBalance = errors.New("giftcardservice: insufficient balance")

	// ErrUnavailable возвращается при недоступности сервиса подарочных карт
	// Чекаут при этой ошибке откатывает оплату компенсирующей транзакцией
	ErrUnavailable = errors.New("giftcardservice: service unavailable")

	// ErrInvalidResponse возвращается при некорректном ответе сервиса
	ErrInvalidResponse = errors.New("giftcardservice: invalid response")

	// ErrInternal внутренняя ошибка клиента
	ErrInternal = errors.New("giftcardservice: internal error")
)
