package checkout_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
	"github.com/m04kA/SBP-AppointmentService/internal/events"
	appointmentRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/catalog"
	invoiceRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/invoice"
	"github.com/m04kA/SBP-AppointmentService/internal/integrations/giftcardservice"
	"github.com/m04kA/SBP-AppointmentService/internal/service/pricing"
)

// tipItemName название позиции чаевых в счёте
const tipItemName = "Чаевые"

// UseCase use case оформления оплаты по записи
// Завершение записи и выставление счёта идут одной транзакцией БД,
// списание с подарочной карты - вне её, с компенсацией при отказе.
// Повторный вызов безопасен: существующий счёт переиспользуется
type UseCase struct {
	appointmentRepo AppointmentRepository
	invoiceRepo     InvoiceRepository
	catalogRepo     CatalogRepository
	pricingService  PricingService
	giftCardClient  GiftCardClient
	txManager       TransactionManager
	dispatcher      EventEmitter
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	invoiceRepo InvoiceRepository,
	catalogRepo CatalogRepository,
	pricingService PricingService,
	giftCardClient GiftCardClient,
	txManager TransactionManager,
	dispatcher EventEmitter,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		invoiceRepo:     invoiceRepo,
		catalogRepo:     catalogRepo,
		pricingService:  pricingService,
		giftCardClient:  giftCardClient,
		txManager:       txManager,
		dispatcher:      dispatcher,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case оформления оплаты
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckoutAppointment: tenant=%d, appointment=%d, method=%s, payNow=%v",
		req.TenantID, req.AppointmentID, req.PaymentMethod, req.PayNow)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckoutAppointment: validation failed: %v", err)
		return nil, err
	}
	method := domain.PaymentMethod(req.PaymentMethod)

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем запись
	appt, err := uc.appointmentRepo.GetByID(ctx, req.TenantID, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			uc.logger.Warn("CheckoutAppointment: appointment id=%d not found", req.AppointmentID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("CheckoutAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: failed to get appointment: %v", ErrInternal, err)
	}

	// 4. Оплата по отменённой записи или неявке невозможна
	if appt.Status == domain.StatusCancelled || appt.Status == domain.StatusNoShow {
		uc.logger.Warn("CheckoutAppointment: appointment id=%d is in status=%s", appt.ID, appt.Status)
		return nil, ErrInvalidState
	}

	// 5. Идемпотентность: существующий счёт переиспользуется, а не дублируется
	invoice, err := uc.invoiceRepo.GetActiveByAppointment(ctx, req.AppointmentID)
	if err != nil && !errors.Is(err, invoiceRepo.ErrInvoiceNotFound) {
		uc.logger.Error("CheckoutAppointment: failed to get active invoice: %v", err)
		return nil, fmt.Errorf("%w: failed to get active invoice: %v", ErrInternal, err)
	}
	reused := invoice != nil

	if invoice == nil {
		// 6. Завершение записи и выставление счёта - одна транзакция
		created, createErr := uc.createInvoice(ctx, req, appt, method, now)
		switch {
		case createErr == nil:
			invoice = created

		case errors.Is(createErr, invoiceRepo.ErrDuplicateInvoice):
			// Конкурентный чекаут успел первым - перечитываем его результат
			uc.logger.Warn("CheckoutAppointment: concurrent checkout detected for appointment=%d", req.AppointmentID)
			appt, err = uc.appointmentRepo.GetByID(ctx, req.TenantID, req.AppointmentID)
			if err != nil {
				uc.logger.Error("CheckoutAppointment: failed to reload appointment: %v", err)
				return nil, fmt.Errorf("%w: failed to reload appointment: %v", ErrInternal, err)
			}
			invoice, err = uc.invoiceRepo.GetActiveByAppointment(ctx, req.AppointmentID)
			if err != nil {
				uc.logger.Error("CheckoutAppointment: failed to reload invoice: %v", err)
				return nil, fmt.Errorf("%w: failed to reload invoice: %v", ErrInternal, err)
			}
			reused = true

		default:
			return nil, createErr
		}
	} else {
		uc.logger.Info("CheckoutAppointment: reusing invoice id=%d (status=%s) for appointment=%d",
			invoice.ID, invoice.Status, req.AppointmentID)
	}

	// 7. Повторный вызов по уже оплаченному счёту возвращает его без изменений
	if reused && invoice.IsPaid() {
		uc.logger.Info("CheckoutAppointment: invoice id=%d already paid", invoice.ID)
		return toResponse(appt, invoice), nil
	}

	// 8. Оплата
	// Списание с карты идёт после коммита счёта: счёт никогда не выглядит
	// оплаченным до фактического списания
	if !invoice.IsPaid() {
		switch {
		case method == domain.PaymentGiftCard:
			if err := uc.settleGiftCard(ctx, req, appt, invoice, now); err != nil {
				return nil, err
			}
		case req.PayNow:
			// Возобновлённый чекаут с оплатой на месте
			if err := uc.markPaid(ctx, appt, invoice, method, now); err != nil {
				return nil, err
			}
		}
	}

	uc.logger.Info("CheckoutAppointment: appointment=%d checked out, invoice=%s, total=%.2f, status=%s",
		appt.ID, invoice.InvoiceNumber, invoice.Total, invoice.Status)

	// 9. Событие об оплате - после коммита, не блокирует ответ
	event := events.NewEvent(events.TypeCheckoutCompleted, appt.TenantID, appt.ID, now)
	event.Summary = fmt.Sprintf("Счёт %s: %.2f %s (%s)",
		invoice.InvoiceNumber, invoice.Total, invoice.Currency, method)
	uc.dispatcher.Emit(event)

	// 10. Конвертируем в response
	return toResponse(appt, invoice), nil
}

// createInvoice завершает запись и выставляет счёт одной транзакцией
// Дубликат счёта (конкурентный чекаут) пробрасывается как ErrDuplicateInvoice
func (uc *UseCase) createInvoice(
	ctx context.Context,
	req *Request,
	appt *domain.Appointment,
	method domain.PaymentMethod,
	now time.Time,
) (*domain.Invoice, error) {
	// Ставка налога и валюта по умолчанию берутся из карточки салона
	tenant, err := uc.catalogRepo.GetTenantByID(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrTenantNotFound) {
			uc.logger.Warn("CheckoutAppointment: tenant id=%d not found", req.TenantID)
			return nil, ErrAppointmentNotFound
		}
		uc.logger.Error("CheckoutAppointment: failed to get tenant id=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}

	taxRate := tenant.TaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}

	var invoice *domain.Invoice

	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 6.1. Переводим запись в completed, укорачивая конец до фактического
		// времени: освободившийся хвост слота сразу доступен для записи
		if appt.Status != domain.StatusCompleted {
			completedEnd := appt.EndTime
			if now.Before(completedEnd) {
				completedEnd = now
			}
			if err := uc.appointmentRepo.Complete(txCtx, appt.TenantID, appt.ID, completedEnd); err != nil {
				uc.logger.Error("CheckoutAppointment: failed to complete appointment id=%d: %v", appt.ID, err)
				return fmt.Errorf("%w: failed to complete appointment: %v", ErrInternal, err)
			}
			appt.Status = domain.StatusCompleted
			appt.EndTime = completedEnd
		}

		// 6.2. Считаем стоимость: скидка записи и ручная скидка суммируются
		var overrideType *domain.DiscountType
		if req.DiscountType != nil {
			dt := domain.DiscountType(*req.DiscountType)
			overrideType = &dt
		}
		quote := uc.pricingService.BuildQuote(pricing.QuoteInput{
			ServicePrice:   appt.OriginalPrice,
			BookedDiscount: appt.DiscountAmount,
			OverrideAmount: req.DiscountAmount,
			OverrideType:   overrideType,
			TaxRate:        taxRate,
			Tip:            req.Tip,
		})

		// 6.3. Берём следующий номер счёта салона
		number, err := uc.invoiceRepo.NextNumber(txCtx, appt.TenantID)
		if err != nil {
			uc.logger.Error("CheckoutAppointment: failed to get next invoice number: %v", err)
			return fmt.Errorf("%w: failed to get next invoice number: %v", ErrInternal, err)
		}

		// 6.4. Собираем счёт с позициями
		inv := &domain.Invoice{
			TenantID:       appt.TenantID,
			AppointmentID:  appt.ID,
			CustomerID:     appt.CustomerID,
			InvoiceNumber:  formatInvoiceNumber(number),
			Subtotal:       quote.Subtotal,
			DiscountAmount: quote.DiscountAmount,
			DiscountType:   invoiceDiscountType(req, appt),
			TaxRate:        quote.TaxRate,
			TaxAmount:      quote.TaxAmount,
			TipAmount:      quote.TipAmount,
			Total:          quote.Total,
			Currency:       tenant.Currency,
			Status:         domain.InvoiceSent,
			PaymentMethod:  &method,
			CreatedBy:      req.StaffUserID,
			Items: []domain.InvoiceItem{
				{
					ItemType:    domain.ItemService,
					ReferenceID: &appt.ServiceID,
					Name:        appt.ServiceName,
					Quantity:    1,
					UnitPrice:   appt.OriginalPrice,
					LineTotal:   appt.OriginalPrice,
				},
			},
		}
		if quote.TipAmount > 0 {
			inv.Items = append(inv.Items, domain.InvoiceItem{
				ItemType:  domain.ItemTip,
				Name:      tipItemName,
				Quantity:  1,
				UnitPrice: quote.TipAmount,
				LineTotal: quote.TipAmount,
			})
		}

		// Оплата на месте наличными или картой фиксируется сразу;
		// списание с подарочной карты идёт после коммита
		if req.PayNow && method != domain.PaymentGiftCard {
			inv.Status = domain.InvoicePaid
			inv.AmountPaid = quote.Total
			inv.PaidAt = &now
		}

		// 6.5. Сохраняем счёт; дубликат означает конкурентный чекаут
		invoice, err = uc.invoiceRepo.Create(txCtx, inv)
		if err != nil {
			if errors.Is(err, invoiceRepo.ErrDuplicateInvoice) {
				return err
			}
			uc.logger.Error("CheckoutAppointment: failed to create invoice: %v", err)
			return fmt.Errorf("%w: failed to create invoice: %v", ErrInternal, err)
		}

		// 6.6. Оплаченный на месте счёт отражается и на записи
		if invoice.IsPaid() {
			if err := uc.appointmentRepo.SetPaymentStatus(txCtx, appt.TenantID, appt.ID, domain.PaymentStatusPaid); err != nil {
				uc.logger.Error("CheckoutAppointment: failed to set payment status: %v", err)
				return fmt.Errorf("%w: failed to set payment status: %v", ErrInternal, err)
			}
			appt.PaymentStatus = domain.PaymentStatusPaid
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return invoice, nil
}

// settleGiftCard списывает сумму счёта с подарочной карты и фиксирует оплату
// Отказ списания компенсируется: счёт и запись возвращаются
// в неоплаченное состояние
func (uc *UseCase) settleGiftCard(
	ctx context.Context,
	req *Request,
	appt *domain.Appointment,
	invoice *domain.Invoice,
	now time.Time,
) error {
	redeem := giftcardservice.RedeemRequest{
		TenantID:      appt.TenantID,
		Code:          *req.GiftCardCode,
		Amount:        invoice.Total,
		Currency:      invoice.Currency,
		InvoiceID:     invoice.ID,
		AppointmentID: appt.ID,
	}

	if _, err := uc.giftCardClient.Redeem(ctx, redeem); err != nil {
		uc.logger.Warn("CheckoutAppointment: gift card redemption failed for invoice=%d: %v", invoice.ID, err)
		uc.compensate(ctx, appt, invoice)
		return fmt.Errorf("%w: %v", ErrGiftCardRedemption, err)
	}

	return uc.markPaid(ctx, appt, invoice, domain.PaymentGiftCard, now)
}

// markPaid фиксирует оплату счёта и записи одной транзакцией
func (uc *UseCase) markPaid(
	ctx context.Context,
	appt *domain.Appointment,
	invoice *domain.Invoice,
	method domain.PaymentMethod,
	now time.Time,
) error {
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.invoiceRepo.MarkPaid(txCtx, invoice.TenantID, invoice.ID, method, invoice.Total, now); err != nil {
			return fmt.Errorf("mark invoice paid: %w", err)
		}
		if err := uc.appointmentRepo.SetPaymentStatus(txCtx, appt.TenantID, appt.ID, domain.PaymentStatusPaid); err != nil {
			return fmt.Errorf("set payment status: %w", err)
		}
		return nil
	})
	if err != nil {
		// Для подарочной карты деньги уже списаны. Повторный чекаут безопасен:
		// сервис карт дедуплицирует списания по invoice_id
		uc.logger.Error("CheckoutAppointment: failed to persist payment for invoice=%d: %v", invoice.ID, err)
		return fmt.Errorf("%w: failed to persist payment: %v", ErrInternal, err)
	}

	invoice.Status = domain.InvoicePaid
	invoice.PaymentMethod = &method
	invoice.AmountPaid = invoice.Total
	invoice.PaidAt = &now
	appt.PaymentStatus = domain.PaymentStatusPaid

	return nil
}

// compensate возвращает счёт и запись в неоплаченное состояние
// Вызывается после отказа списания; ошибка компенсации только логируется -
// наружу уходит исходная ошибка оплаты
func (uc *UseCase) compensate(ctx context.Context, appt *domain.Appointment, invoice *domain.Invoice) {
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := uc.invoiceRepo.RevertUnpaid(txCtx, invoice.TenantID, invoice.ID); err != nil {
			return fmt.Errorf("revert invoice: %w", err)
		}
		if err := uc.appointmentRepo.SetPaymentStatus(txCtx, appt.TenantID, appt.ID, domain.PaymentStatusPending); err != nil {
			return fmt.Errorf("revert payment status: %w", err)
		}
		return nil
	})
	if err != nil {
		uc.logger.Error("CheckoutAppointment: compensation failed for invoice=%d: %v", invoice.ID, err)
		return
	}

	invoice.Status = domain.InvoiceSent
	invoice.AmountPaid = 0
	invoice.PaidAt = nil
	appt.PaymentStatus = domain.PaymentStatusPending
}

// formatInvoiceNumber форматирует номер счёта
// Номера монотонны в рамках салона, между салонами могут совпадать
func formatInvoiceNumber(number int64) string {
	return fmt.Sprintf("INV-%06d", number)
}

// invoiceDiscountType определяет тип скидки для счёта: ручная скидка кассира
// приоритетнее зафиксированной при записи
func invoiceDiscountType(req *Request, appt *domain.Appointment) *domain.DiscountType {
	if req.DiscountAmount != nil {
		dt := domain.DiscountFixed
		if req.DiscountType != nil {
			dt = domain.DiscountType(*req.DiscountType)
		}
		return &dt
	}
	return appt.DiscountType
}
