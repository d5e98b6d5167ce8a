package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// ListWithFilter получает записи мастера, пересекающие запрошенный день
	ListWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
}

// ScheduleRepository интерфейс репозитория рабочих графиков
type ScheduleRepository interface {
	// GetByStaffWeekday получает график мастера на день недели (0 = воскресенье)
	GetByStaffWeekday(ctx context.Context, tenantID, staffID int64, weekday int) (*domain.StaffSchedule, error)
	// HasDayOff проверяет, взят ли у мастера выходной на дату
	HasDayOff(ctx context.Context, tenantID, staffID int64, date time.Time) (bool, error)
}

// PolicyRepository интерфейс репозитория политик бронирования
type PolicyRepository interface {
	// Resolve получает политику с учетом иерархии приоритетов
	Resolve(ctx context.Context, tenantID int64, branchID, serviceID *int64) (*domain.BookingPolicy, error)
}

// CatalogRepository интерфейс репозитория каталога (салоны и услуги)
type CatalogRepository interface {
	GetTenantByID(ctx context.Context, id int64) (*domain.Tenant, error)
	GetService(ctx context.Context, tenantID, serviceID int64) (*domain.Service, error)
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
