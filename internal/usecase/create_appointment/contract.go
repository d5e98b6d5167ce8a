package create_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
	"github.com/m04kA/SBP-AppointmentService/internal/events"
	"github.com/m04kA/SBP-AppointmentService/internal/service/pricing"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	Create(ctx context.Context, appt *domain.Appointment) (*domain.Appointment, error)
	// ListWithFilter в транзакции по одному мастеру и дню блокирует строки (FOR UPDATE)
	ListWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

// PolicyRepository интерфейс репозитория политик бронирования
type PolicyRepository interface {
	Resolve(ctx context.Context, tenantID int64, branchID, serviceID *int64) (*domain.BookingPolicy, error)
}

// CatalogRepository интерфейс репозитория каталога (салоны и услуги)
type CatalogRepository interface {
	GetTenantByID(ctx context.Context, id int64) (*domain.Tenant, error)
	GetService(ctx context.Context, tenantID, serviceID int64) (*domain.Service, error)
}

// PricingService сервис промокодов
type PricingService interface {
	// ResolveCodeLenient проверяет код в мягком режиме: бизнес-отказ даёт nil без ошибки
	ResolveCodeLenient(ctx context.Context, tenantID int64, code string, subtotal float64, now time.Time) (*pricing.ResolvedCode, error)
	// ApplyUsage увеличивает счётчики применений, вызывается внутри транзакции записи
	ApplyUsage(ctx context.Context, resolved *pricing.ResolvedCode) error
}

// TokenIssuer выпускает токены самообслуживания
type TokenIssuer interface {
	Issue(ctx context.Context, tenantID, appointmentID int64) (*domain.BookingToken, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
