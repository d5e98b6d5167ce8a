package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/catalog"
	policyRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/policy"
	scheduleRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/schedule"
)

// UseCase use case для получения сетки слотов мастера на день
type UseCase struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	policyRepo      PolicyRepository
	catalogRepo     CatalogRepository
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	policyRepo PolicyRepository,
	catalogRepo CatalogRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		policyRepo:      policyRepo,
		catalogRepo:     catalogRepo,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case получения слотов
// Слоты считаются в таймзоне салона; пустой список - это нормальный ответ
// (выходной, нерабочий день, дата вне окна бронирования), а не ошибка
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: tenant=%d, staff=%d, service=%d, date=%s",
		req.TenantID, req.StaffID, req.ServiceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем салон и его таймзону
	tenant, err := uc.catalogRepo.GetTenantByID(ctx, req.TenantID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrTenantNotFound) {
			uc.logger.Warn("GetAvailableSlots: tenant id=%d not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get tenant id=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}

	loc, err := tenant.Location()
	if err != nil {
		uc.logger.Error("GetAvailableSlots: invalid timezone %q for tenant id=%d: %v",
			tenant.Timezone, tenant.ID, err)
		return nil, fmt.Errorf("%w: invalid tenant timezone: %v", ErrInternal, err)
	}

	// 4. Получаем услугу и её длительность
	service, err := uc.catalogRepo.GetService(ctx, req.TenantID, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetAvailableSlots: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}
	if !service.Active {
		uc.logger.Warn("GetAvailableSlots: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceNotFound
	}

	// 5. Получаем политику бронирования с учетом иерархии
	policy, err := uc.policyRepo.Resolve(ctx, req.TenantID, req.BranchID, &req.ServiceID)
	if err != nil && !errors.Is(err, policyRepo.ErrPolicyNotFound) {
		uc.logger.Error("GetAvailableSlots: failed to resolve policy: %v", err)
		return nil, fmt.Errorf("%w: failed to resolve policy: %v", ErrInternal, err)
	}

	// Если ни одна политика не настроена, используем дефолтные значения
	if policy == nil {
		policy = domain.DefaultPolicy(req.TenantID)
		uc.logger.Info("GetAvailableSlots: using default policy for tenant=%d", req.TenantID)
	}

	// Дальше все расчёты идут в таймзоне салона
	dayStart, dayEnd := dayBounds(req.Date, loc)
	nowLocal := now.In(loc)
	earliestStart := nowLocal.Add(time.Duration(policy.MinAdvanceHours) * time.Hour)

	// 6. Дата вне окна бронирования - пустой ответ
	// День целиком раньше минимального времени до записи
	if !dayEnd.After(earliestStart) {
		uc.logger.Info("GetAvailableSlots: date %s is fully before min advance window",
			req.Date.Format(domain.DateFormat))
		return uc.emptyResponse(req, service, tenant), nil
	}
	// День на границе максимального горизонта бронирования или дальше
	if policy.HasMaxAdvanceLimit() {
		maxBoundary := startOfDay(nowLocal).AddDate(0, 0, policy.MaxAdvanceDays)
		if !dayStart.Before(maxBoundary) {
			uc.logger.Info("GetAvailableSlots: date %s is beyond max advance of %d days",
				req.Date.Format(domain.DateFormat), policy.MaxAdvanceDays)
			return uc.emptyResponse(req, service, tenant), nil
		}
	}

	// 7. Проверяем выходной мастера
	hasDayOff, err := uc.scheduleRepo.HasDayOff(ctx, req.TenantID, req.StaffID, dayStart)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to check day off: %v", err)
		return nil, fmt.Errorf("%w: failed to check day off: %v", ErrInternal, err)
	}
	if hasDayOff {
		uc.logger.Info("GetAvailableSlots: staff id=%d has day off on %s",
			req.StaffID, req.Date.Format(domain.DateFormat))
		return uc.emptyResponse(req, service, tenant), nil
	}

	// 8. Получаем график мастера на день недели
	schedule, err := uc.scheduleRepo.GetByStaffWeekday(ctx, req.TenantID, req.StaffID, int(dayStart.Weekday()))
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			uc.logger.Info("GetAvailableSlots: staff id=%d has no schedule for weekday %d",
				req.StaffID, int(dayStart.Weekday()))
			return uc.emptyResponse(req, service, tenant), nil
		}
		uc.logger.Error("GetAvailableSlots: failed to get schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}
	if !schedule.IsWorking {
		uc.logger.Info("GetAvailableSlots: staff id=%d is not working on %s",
			req.StaffID, req.Date.Format(domain.DateFormat))
		return uc.emptyResponse(req, service, tenant), nil
	}

	// 9. Переводим рабочий график в моменты времени на запрошенную дату
	grid, err := uc.buildGrid(schedule, policy, service, dayStart, earliestStart, loc)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to build slot grid: %v", err)
		return nil, fmt.Errorf("%w: failed to build slot grid: %v", ErrInternal, err)
	}

	// 10. Получаем записи мастера, пересекающие этот день
	filter := domain.AppointmentsFilter{
		TenantID: req.TenantID,
		StaffID:  &req.StaffID,
		DateFrom: &dayStart,
		DateTo:   &dayEnd,
	}

	appointments, err := uc.appointmentRepo.ListWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
	}

	// 11. Генерируем сетку слотов
	slots := generateDaySlots(grid, appointments)

	uc.logger.Info("GetAvailableSlots: generated %d slots for tenant=%d, staff=%d, service=%d, date=%s",
		len(slots), req.TenantID, req.StaffID, req.ServiceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:            req.Date,
		StaffID:         req.StaffID,
		ServiceID:       req.ServiceID,
		DurationMinutes: service.DurationMinutes(),
		Timezone:        tenant.Timezone,
		Slots:           slots,
	}, nil
}

// buildGrid собирает параметры сетки: рабочее окно и перерыв на конкретную дату
func (uc *UseCase) buildGrid(
	schedule *domain.StaffSchedule,
	policy *domain.BookingPolicy,
	service *domain.Service,
	dayStart, earliestStart time.Time,
	loc *time.Location,
) (slotGrid, error) {
	workStart, err := schedule.StartTime.At(dayStart, loc)
	if err != nil {
		return slotGrid{}, err
	}
	workEnd, err := schedule.EndTime.At(dayStart, loc)
	if err != nil {
		return slotGrid{}, err
	}

	grid := slotGrid{
		workStart:       workStart,
		workEnd:         workEnd,
		intervalMinutes: policy.SlotIntervalMinutes,
		durationMinutes: service.DurationMinutes(),
		bufferMinutes:   policy.BufferMinutes,
		earliestStart:   earliestStart,
	}

	if schedule.HasBreak() {
		grid.breakStart, err = schedule.BreakStart.At(dayStart, loc)
		if err != nil {
			return slotGrid{}, err
		}
		grid.breakEnd, err = schedule.BreakEnd.At(dayStart, loc)
		if err != nil {
			return slotGrid{}, err
		}
	}

	return grid, nil
}

// emptyResponse возвращает ответ без слотов
func (uc *UseCase) emptyResponse(req *Request, service *domain.Service, tenant *domain.Tenant) *Response {
	return &Response{
		Date:            req.Date,
		StaffID:         req.StaffID,
		ServiceID:       req.ServiceID,
		DurationMinutes: service.DurationMinutes(),
		Timezone:        tenant.Timezone,
		Slots:           []domain.Slot{},
	}
}
