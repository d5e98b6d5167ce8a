package tokens

import (
	"context"
	"time"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
	"github.com/m04kA/SBP-AppointmentService/internal/events"
)

// TokenRepository интерфейс репозитория токенов самообслуживания
type TokenRepository interface {
	Create(ctx context.Context, t *domain.BookingToken) (*domain.BookingToken, error)
	GetByToken(ctx context.Context, tokenValue string) (*domain.BookingToken, error)
	MarkUsed(ctx context.Context, id int64, usedAt time.Time) error
}

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, tenantID, id int64) (*domain.Appointment, error)
	Cancel(ctx context.Context, tenantID, id int64, status domain.AppointmentStatus, reason string, cancelledAt time.Time) error
}

// PolicyRepository интерфейс репозитория политик бронирования
type PolicyRepository interface {
	// Resolve получает политику с учетом иерархии приоритетов
	Resolve(ctx context.Context, tenantID int64, branchID, serviceID *int64) (*domain.BookingPolicy, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventEmitter интерфейс шины доменных событий
type EventEmitter interface {
	Emit(event events.Event)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
