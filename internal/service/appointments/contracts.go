package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
	"github.com/m04kA/SBP-AppointmentService/internal/events"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, tenantID, id int64) (*domain.Appointment, error)
	GetByCustomer(ctx context.Context, tenantID, customerID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error)
	ListWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	UpdateStatus(ctx context.Context, tenantID, id int64, status domain.AppointmentStatus) error
	Complete(ctx context.Context, tenantID, id int64, endTime time.Time) error
	Cancel(ctx context.Context, tenantID, id int64, status domain.AppointmentStatus, reason string, cancelledAt time.Time) error
	Reschedule(ctx context.Context, tenantID, id int64, staffID int64, startTime, endTime time.Time) error
	UpdateNotes(ctx context.Context, tenantID, id int64, notes string) error
}

// CatalogRepository интерфейс репозитория каталога
type CatalogRepository interface {
	GetTenantByID(ctx context.Context, id int64) (*domain.Tenant, error)
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
