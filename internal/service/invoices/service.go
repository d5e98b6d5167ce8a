package invoices

import (
	"context"
	"errors"
	"fmt"

	invoiceRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/invoice"
	"github.com/m04kA/SBP-AppointmentService/internal/service/invoices/models"
)

// Service сервис для чтения счетов
// Счета создаются только оформлением оплаты, здесь доступен просмотр
type Service struct {
	invoiceRepo InvoiceRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса счетов
func NewService(invoiceRepo InvoiceRepository, logger Logger) *Service {
	return &Service{
		invoiceRepo: invoiceRepo,
		logger:      logger,
	}
}

// GetByID получает счёт салона по ID
func (s *Service) GetByID(ctx context.Context, tenantID, id int64) (*models.InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, invoiceRepo.ErrInvoiceNotFound) {
			s.logger.Warn("GetByID: invoice id=%d not found for tenant=%d", id, tenantID)
			return nil, ErrInvoiceNotFound
		}
		s.logger.Error("GetByID: repository error for invoice id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainInvoice(invoice), nil
}
