package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
	"github.com/m04kA/SBP-AppointmentService/internal/events"
	catalogRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/catalog"
	policyRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/policy"
	"github.com/m04kA/SBP-AppointmentService/internal/service/pricing"
)

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo AppointmentRepository
	policyRepo      PolicyRepository
	catalogRepo     CatalogRepository
	pricingService  PricingService
	tokenIssuer     TokenIssuer
	txManager       TransactionManager
	dispatcher      EventEmitter
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	policyRepo PolicyRepository,
	catalogRepo CatalogRepository,
	pricingService PricingService,
	tokenIssuer TokenIssuer,
	txManager TransactionManager,
	dispatcher EventEmitter,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		policyRepo:      policyRepo,
		catalogRepo:     catalogRepo,
		pricingService:  pricingService,
		tokenIssuer:     tokenIssuer,
		txManager:       txManager,
		dispatcher:      dispatcher,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
// Проверка конфликтов и вставка идут в одной сериализуемой транзакции:
// из двух конкурентных записей на пересекающееся время мастера
// пройти может только одна
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: tenant=%d, staff=%d, service=%d, start=%s, source=%s",
		req.TenantID, req.StaffID, req.ServiceID, req.StartTime.Format(time.RFC3339), req.Source)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	source, err := toSource(req.Source)
	if err != nil {
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем салон и его таймзону
	tenant, err := uc.catalogRepo.GetTenantByID(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrTenantNotFound) {
			uc.logger.Warn("CreateAppointment: tenant id=%d not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get tenant id=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}
	if !tenant.Active {
		uc.logger.Warn("CreateAppointment: tenant id=%d is inactive", req.TenantID)
		return nil, ErrTenantNotFound
	}

	loc, err := tenant.Location()
	if err != nil {
		uc.logger.Error("CreateAppointment: invalid timezone %q for tenant id=%d: %v",
			tenant.Timezone, tenant.ID, err)
		return nil, fmt.Errorf("%w: invalid tenant timezone: %v", ErrInternal, err)
	}

	// 4. Получаем услугу
	service, err := uc.catalogRepo.GetService(ctx, req.TenantID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.Active {
		uc.logger.Warn("CreateAppointment: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 5. Вычисляем конец записи из длительности услуги, если он не задан явно
	endTime := req.StartTime.Add(time.Duration(service.DurationMinutes()) * time.Minute)
	if req.EndTime != nil {
		endTime = *req.EndTime
	}

	var created *domain.Appointment
	var manageToken *domain.BookingToken

	// 6. Операции с БД в сериализуемой транзакции
	createTx := func(skipPromo bool) error {
		created = nil
		manageToken = nil

		return uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
			// 6.1. Получаем политику бронирования с учетом иерархии
			policy, err := uc.policyRepo.Resolve(txCtx, req.TenantID, req.BranchID, &req.ServiceID)
			if err != nil && !errors.Is(err, policyRepo.ErrPolicyNotFound) {
				uc.logger.Error("CreateAppointment: failed to resolve policy: %v", err)
				return fmt.Errorf("%w: failed to resolve policy: %v", ErrInternal, err)
			}
			if policy == nil {
				policy = domain.DefaultPolicy(req.TenantID)
				uc.logger.Info("CreateAppointment: using default policy for tenant=%d", req.TenantID)
			}

			// 6.2. Проверяем окно бронирования
			// Онлайн-записи ограничены min/max-advance, записи от стойки -
			// только началом текущего дня
			if source == domain.SourceOnline {
				if err := validateBookingWindow(req.StartTime, now, policy); err != nil {
					uc.logger.Warn("CreateAppointment: booking window check failed: %v", err)
					return err
				}
			} else if req.StartTime.Before(startOfDay(now.In(loc))) {
				uc.logger.Warn("CreateAppointment: walk-in start %s is before today",
					req.StartTime.Format(time.RFC3339))
				return ErrInvalidDate
			}

			// 6.3. Получаем записи мастера на день с блокировкой строк (FOR UPDATE)
			// и проверяем пересечение интервалов
			dayStart, dayEnd := conflictWindow(req.StartTime, endTime, loc)
			filter := domain.AppointmentsFilter{
				TenantID: req.TenantID,
				StaffID:  &req.StaffID,
				DateFrom: &dayStart,
				DateTo:   &dayEnd,
			}

			appointments, err := uc.appointmentRepo.ListWithFilter(txCtx, filter)
			if err != nil {
				uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
				return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
			}

			if hasConflict(appointments, req.StartTime, endTime) {
				uc.logger.Warn("CreateAppointment: time conflict for staff=%d at %s",
					req.StaffID, req.StartTime.Format(time.RFC3339))
				return ErrTimeConflict
			}

			// 6.4. Применяем промокод в мягком режиме: отказ кода не срывает запись
			var resolved *pricing.ResolvedCode
			if req.PromoCode != nil && !skipPromo {
				resolved, err = uc.pricingService.ResolveCodeLenient(txCtx, req.TenantID, *req.PromoCode, service.Price, now)
				if err != nil {
					uc.logger.Error("CreateAppointment: failed to resolve promo code: %v", err)
					return fmt.Errorf("%w: failed to resolve promo code: %v", ErrInternal, err)
				}
				if resolved != nil {
					// Счётчики применений двигаются в этой же транзакции:
					// откат записи откатит и их
					if err := uc.pricingService.ApplyUsage(txCtx, resolved); err != nil {
						if errors.Is(err, pricing.ErrUsageLimitReached) {
							return errPromoExhausted
						}
						uc.logger.Error("CreateAppointment: failed to apply promo usage: %v", err)
						return fmt.Errorf("%w: failed to apply promo usage: %v", ErrInternal, err)
					}
				}
			}

			// 6.5. Собираем запись с денормализацией данных услуги и скидки
			appt := &domain.Appointment{
				TenantID:      req.TenantID,
				CustomerID:    req.CustomerID,
				CustomerName:  req.CustomerName,
				CustomerPhone: req.CustomerPhone,
				CustomerEmail: req.CustomerEmail,
				ServiceID:     req.ServiceID,
				StaffID:       req.StaffID,
				BranchID:      req.BranchID,
				StartTime:     req.StartTime,
				EndTime:       endTime,
				Status:        initialStatus(source, policy),
				Source:        source,
				PaymentStatus: domain.PaymentStatusPending,
				ServiceName:   service.Name,
				OriginalPrice: service.Price,
				FinalPrice:    service.Price,
				Notes:         req.Notes,
			}
			if resolved != nil {
				appt.PromotionID = &resolved.Promotion.ID
				appt.DiscountCodeID = &resolved.Code.ID
				appt.DiscountType = &resolved.Promotion.DiscountType
				appt.DiscountAmount = resolved.Amount
				appt.FinalPrice = pricing.Round(service.Price - resolved.Amount)
			}

			// 6.6. Сохраняем запись
			created, err = uc.appointmentRepo.Create(txCtx, appt)
			if err != nil {
				uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
				return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
			}

			// 6.7. Для онлайн-записи выпускаем токен самообслуживания
			// в той же транзакции: токен не переживёт откат записи
			if source == domain.SourceOnline {
				manageToken, err = uc.tokenIssuer.Issue(txCtx, req.TenantID, created.ID)
				if err != nil {
					uc.logger.Error("CreateAppointment: failed to issue manage token: %v", err)
					return fmt.Errorf("%w: failed to issue manage token: %v", ErrInternal, err)
				}
			}

			return nil
		})
	}

	err = createTx(false)
	if errors.Is(err, errPromoExhausted) {
		// Лимит кода выбрали между проверкой и применением - повторяем без скидки,
		// сама запись от этого сорваться не должна
		uc.logger.Warn("CreateAppointment: promo code %q exhausted mid-flight, retrying without discount", *req.PromoCode)
		err = createTx(true)
	}
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d, status=%s",
		created.ID, created.Status)

	// 7. Событие о новой записи - после коммита, не блокирует ответ
	event := events.NewEvent(events.TypeAppointmentCreated, created.TenantID, created.ID, now)
	event.StartTime = created.StartTime
	event.Summary = fmt.Sprintf("%s, %s", created.ServiceName, created.StartTime.In(loc).Format("02.01.2006 15:04"))
	uc.dispatcher.Emit(event)

	// 8. Конвертируем в response
	return toResponse(created, manageToken), nil
}
