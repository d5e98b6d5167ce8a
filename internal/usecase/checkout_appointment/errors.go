package checkout_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("checkout_appointment: appointment not found")

	// ErrInvalidState возвращается при попытке оформить оплату
	// по отменённой записи или неявке
	ErrInvalidState = errors.New("checkout_appointment: appointment is cancelled or marked as no-show")

	// ErrGiftCardCodeRequired возвращается, когда выбран способ оплаты
	// gift_card, но код карты не передан
	ErrGiftCardCodeRequired = errors.New("checkout_appointment: gift card code is required")

	// ErrGiftCardRedemption возвращается при отказе списания с подарочной карты
	// К этому моменту компенсация уже выполнена: счёт и запись неоплачены
	ErrGiftCardRedemption = errors.New("checkout_appointment: gift card redemption failed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("checkout_appointment: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("checkout_appointment: internal error")
)
