package invoices

import (
	"context"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
)

// InvoiceRepository интерфейс репозитория счетов
type InvoiceRepository interface {
	// GetByID получает счёт вместе с позициями
	GetByID(ctx context.Context, tenantID, id int64) (*domain.Invoice, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
