package policy

import "errors"

var (
	// ErrPolicyNotFound возвращается, когда политика области действия не найдена
	ErrPolicyNotFound = errors.New("policy not found")

	// ErrTenantNotFound возвращается, когда салон не найден или неактивен
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("policy: internal error")
)
