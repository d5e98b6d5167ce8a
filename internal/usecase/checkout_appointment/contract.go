package checkout_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
	"github.com/m04kA/SBP-AppointmentService/internal/events"
	"github.com/m04kA/SBP-AppointmentService/internal/integrations/giftcardservice"
	"github.com/m04kA/SBP-AppointmentService/internal/service/pricing"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, tenantID, id int64) (*domain.Appointment, error)
	// Complete атомарно переводит запись в completed, переписывая конец
	// на фактическое время завершения
	Complete(ctx context.Context, tenantID, id int64, endTime time.Time) error
	SetPaymentStatus(ctx context.Context, tenantID, id int64, paymentStatus domain.PaymentStatus) error
}

// InvoiceRepository интерфейс репозитория счетов
type InvoiceRepository interface {
	NextNumber(ctx context.Context, tenantID int64) (int64, error)
	Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error)
	GetActiveByAppointment(ctx context.Context, appointmentID int64) (*domain.Invoice, error)
	MarkPaid(ctx context.Context, tenantID, id int64, method domain.PaymentMethod, amountPaid float64, paidAt time.Time) error
	RevertUnpaid(ctx context.Context, tenantID, id int64) error
}

// CatalogRepository интерфейс репозитория каталога
type CatalogRepository interface {
	GetTenantByID(ctx context.Context, id int64) (*domain.Tenant, error)
}

// PricingService сервис расчёта стоимости
type PricingService interface {
	BuildQuote(in pricing.QuoteInput) pricing.Quote
}

// GiftCardClient клиент сервиса подарочных карт
type GiftCardClient interface {
	Redeem(ctx context.Context, redeem giftcardservice.RedeemRequest) (*giftcardservice.RedeemResponse, error)
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

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
