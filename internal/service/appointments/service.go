package appointments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
	"github.com/m04kA/SBP-AppointmentService/internal/events"
	appointmentRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/appointment"
	catalogRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/catalog"
	"github.com/m04kA/SBP-AppointmentService/internal/service/appointments/models"
)

// Service сервис для работы с записями салона
type Service struct {
	appointmentRepo AppointmentRepository
	catalogRepo     CatalogRepository
	txManager       TransactionManager
	dispatcher      EventEmitter
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	catalogRepo CatalogRepository,
	txManager TransactionManager,
	dispatcher EventEmitter,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		catalogRepo:     catalogRepo,
		txManager:       txManager,
		dispatcher:      dispatcher,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// GetByID получает запись салона по ID
func (s *Service) GetByID(ctx context.Context, tenantID, id int64) (*models.AppointmentResponse, error) {
	appt, err := s.appointmentRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found for tenant=%d", id, tenantID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(appt), nil
}

// List получает календарь салона с фильтрами
func (s *Service) List(ctx context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("List: fetching appointments for tenant=%d", req.TenantID)

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidStatus)
	}

	appointments, err := s.appointmentRepo.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: found %d appointments for tenant=%d", len(appointments), req.TenantID)
	return models.FromDomainAppointmentList(appointments), nil
}

// GetCustomerAppointments получает историю записей клиента
// Опционально фильтрует по статусу
func (s *Service) GetCustomerAppointments(ctx context.Context, req *models.GetCustomerAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetCustomerAppointments: customer=%d, tenant=%d", req.CustomerID, req.TenantID)

	var domainStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetCustomerAppointments: invalid status=%s", *req.Status)
			return nil, ErrInvalidStatus
		}
		domainStatus = &status
	}

	appointments, err := s.appointmentRepo.GetByCustomer(ctx, req.TenantID, req.CustomerID, domainStatus)
	if err != nil {
		s.logger.Error("GetCustomerAppointments: repository error for customer=%d: %v", req.CustomerID, err)
		return nil, fmt.Errorf("%w: GetCustomerAppointments - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointmentList(appointments), nil
}

// Update изменяет запись: перенос на другое время или мастера, смена статуса,
// заметки. Перенос проверяет конфликты календаря в сериализуемой транзакции,
// переходы статусов валидируются по таблице переходов
func (s *Service) Update(ctx context.Context, req *models.UpdateAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Update: appointment id=%d for tenant=%d", req.AppointmentID, req.TenantID)

	if !req.HasChanges() {
		return nil, fmt.Errorf("%w: no changes requested", ErrInvalidInput)
	}

	// Новый статус валидируется до любых изменений
	var newStatus *domain.AppointmentStatus
	if req.Status != nil {
		status, err := models.ToDomainStatus(*req.Status)
		if err != nil {
			s.logger.Warn("Update: invalid status=%s for appointment id=%d", *req.Status, req.AppointmentID)
			return nil, ErrInvalidStatus
		}
		newStatus = &status
	}

	if req.CancellationReason != nil && len(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellation reason must not exceed %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}
	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return nil, fmt.Errorf("%w: notes must not exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	now := s.timeProvider.Now()

	appt, err := s.appointmentRepo.GetByID(ctx, req.TenantID, req.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Update: appointment id=%d not found for tenant=%d", req.AppointmentID, req.TenantID)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("Update: repository error for appointment id=%d: %v", req.AppointmentID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	var emits []events.Event

	// 1. Перенос времени или смена мастера
	if req.HasReschedule() {
		if err := s.reschedule(ctx, appt, req); err != nil {
			return nil, err
		}
		event := events.NewEvent(events.TypeAppointmentRescheduled, appt.TenantID, appt.ID, now)
		event.StartTime = appt.StartTime
		event.Summary = fmt.Sprintf("%s перенесена на %s",
			appt.ServiceName, appt.StartTime.Format("02.01.2006 15:04"))
		emits = append(emits, event)
	}

	// 2. Смена статуса; повторная установка текущего статуса - no-op
	if newStatus != nil && *newStatus != appt.Status {
		event, err := s.transition(ctx, appt, *newStatus, req.CancellationReason, now)
		if err != nil {
			return nil, err
		}
		emits = append(emits, event)
	}

	// 3. Заметки
	if req.Notes != nil {
		if err := s.appointmentRepo.UpdateNotes(ctx, req.TenantID, appt.ID, *req.Notes); err != nil {
			s.logger.Error("Update: failed to update notes for appointment id=%d: %v", appt.ID, err)
			return nil, fmt.Errorf("%w: Update - failed to update notes: %v", ErrInternal, err)
		}
		appt.Notes = req.Notes
	}

	// События уходят после завершения всех изменений
	for _, event := range emits {
		s.dispatcher.Emit(event)
	}

	s.logger.Info("Update: appointment id=%d updated, status=%s", appt.ID, appt.Status)
	return models.FromDomainAppointment(appt), nil
}

// reschedule переносит запись на новое время или нового мастера
// Конфликты проверяются по актуальному состоянию календаря, сама
// переносимая запись из проверки исключается
func (s *Service) reschedule(ctx context.Context, appt *domain.Appointment, req *models.UpdateAppointmentRequest) error {
	if !appt.CanBeRescheduled() {
		s.logger.Warn("reschedule: appointment id=%d in status=%s cannot be rescheduled", appt.ID, appt.Status)
		return ErrCannotReschedule
	}

	// Начало без конца сдвигает запись целиком, сохраняя длительность
	newStart := appt.StartTime
	newEnd := appt.EndTime
	if req.StartTime != nil {
		newStart = *req.StartTime
		if req.EndTime == nil {
			newEnd = newStart.Add(appt.EndTime.Sub(appt.StartTime))
		}
	}
	if req.EndTime != nil {
		newEnd = *req.EndTime
	}
	if !newEnd.After(newStart) {
		return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}

	newStaff := appt.StaffID
	if req.StaffID != nil {
		if *req.StaffID <= 0 {
			return fmt.Errorf("%w: staffID must be positive", ErrInvalidInput)
		}
		newStaff = *req.StaffID
	}

	tenant, err := s.catalogRepo.GetTenantByID(ctx, appt.TenantID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrTenantNotFound) {
			return ErrTenantNotFound
		}
		s.logger.Error("reschedule: failed to get tenant id=%d: %v", appt.TenantID, err)
		return fmt.Errorf("%w: reschedule - failed to get tenant: %v", ErrInternal, err)
	}

	loc, err := tenant.Location()
	if err != nil {
		s.logger.Error("reschedule: invalid timezone %q for tenant id=%d: %v", tenant.Timezone, tenant.ID, err)
		return fmt.Errorf("%w: reschedule - invalid tenant timezone: %v", ErrInternal, err)
	}

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Записи нового мастера на день берутся с блокировкой строк (FOR UPDATE)
		dayStart, dayEnd := conflictWindow(newStart, newEnd, loc)
		filter := domain.AppointmentsFilter{
			TenantID: appt.TenantID,
			StaffID:  &newStaff,
			DateFrom: &dayStart,
			DateTo:   &dayEnd,
		}

		others, err := s.appointmentRepo.ListWithFilter(txCtx, filter)
		if err != nil {
			s.logger.Error("reschedule: failed to get appointments: %v", err)
			return fmt.Errorf("%w: reschedule - failed to get appointments: %v", ErrInternal, err)
		}

		if hasConflict(others, newStart, newEnd, appt.ID) {
			s.logger.Warn("reschedule: time conflict for staff=%d at %s", newStaff, newStart.Format(time.RFC3339))
			return ErrTimeConflict
		}

		return s.appointmentRepo.Reschedule(txCtx, appt.TenantID, appt.ID, newStaff, newStart, newEnd)
	})
	if err != nil {
		if errors.Is(err, ErrTimeConflict) || errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInternal) {
			return err
		}
		s.logger.Error("reschedule: transaction failed for appointment id=%d: %v", appt.ID, err)
		return fmt.Errorf("%w: reschedule - transaction failed: %v", ErrInternal, err)
	}

	appt.StaffID = newStaff
	appt.StartTime = newStart
	appt.EndTime = newEnd
	return nil
}

// transition переводит запись в новый статус по таблице переходов
// Возвращает событие, которое нужно отправить после завершения изменений
func (s *Service) transition(
	ctx context.Context,
	appt *domain.Appointment,
	newStatus domain.AppointmentStatus,
	reason *string,
	now time.Time,
) (events.Event, error) {
	if !domain.CanTransition(appt.Status, newStatus) {
		s.logger.Warn("transition: %s -> %s is not allowed for appointment id=%d",
			appt.Status, newStatus, appt.ID)
		return events.Event{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, appt.Status, newStatus)
	}

	switch newStatus {
	case domain.StatusCancelled, domain.StatusNoShow:
		// Отмена и неявка освобождают слот и снимают напоминание
		cancelReason := ""
		if reason != nil {
			cancelReason = *reason
		}
		if err := s.appointmentRepo.Cancel(ctx, appt.TenantID, appt.ID, newStatus, cancelReason, now); err != nil {
			s.logger.Error("transition: failed to cancel appointment id=%d: %v", appt.ID, err)
			return events.Event{}, fmt.Errorf("%w: transition - failed to cancel: %v", ErrInternal, err)
		}
		appt.Status = newStatus
		if cancelReason != "" {
			appt.CancellationReason = &cancelReason
		}
		appt.CancelledAt = &now

		event := events.NewEvent(events.TypeAppointmentCancelled, appt.TenantID, appt.ID, now)
		event.StartTime = appt.StartTime
		if newStatus == domain.StatusNoShow {
			event.Summary = fmt.Sprintf("%s, %s: клиент не пришёл",
				appt.ServiceName, appt.StartTime.Format("02.01.2006 15:04"))
		} else {
			event.Summary = fmt.Sprintf("%s, %s: отменено",
				appt.ServiceName, appt.StartTime.Format("02.01.2006 15:04"))
		}
		return event, nil

	case domain.StatusCompleted:
		// Досрочное завершение укорачивает запись до фактического времени,
		// освобождая хвост слота
		completedEnd := appt.EndTime
		if now.Before(completedEnd) {
			completedEnd = now
		}
		if err := s.appointmentRepo.Complete(ctx, appt.TenantID, appt.ID, completedEnd); err != nil {
			s.logger.Error("transition: failed to complete appointment id=%d: %v", appt.ID, err)
			return events.Event{}, fmt.Errorf("%w: transition - failed to complete: %v", ErrInternal, err)
		}
		appt.Status = newStatus
		appt.EndTime = completedEnd

	default:
		if err := s.appointmentRepo.UpdateStatus(ctx, appt.TenantID, appt.ID, newStatus); err != nil {
			s.logger.Error("transition: failed to update status for appointment id=%d: %v", appt.ID, err)
			return events.Event{}, fmt.Errorf("%w: transition - failed to update status: %v", ErrInternal, err)
		}
		appt.Status = newStatus
	}

	event := events.NewEvent(events.TypeAppointmentStatusChanged, appt.TenantID, appt.ID, now)
	event.StartTime = appt.StartTime
	event.Summary = fmt.Sprintf("%s: статус %s", appt.ServiceName, appt.Status)
	return event, nil
}

// conflictWindow возвращает границы дня начала записи в таймзоне салона,
// расширенные до конца записи, если она выходит за полночь
func conflictWindow(start, end time.Time, loc *time.Location) (time.Time, time.Time) {
	local := start.In(loc)
	dayStart := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	dayEnd := dayStart.AddDate(0, 0, 1)
	if end.After(dayEnd) {
		dayEnd = end
	}
	return dayStart, dayEnd
}

// hasConflict проверяет пересечение интервала [start, end) с занимающими
// календарь записями, исключая саму переносимую запись
func hasConflict(appointments []*domain.Appointment, start, end time.Time, excludeID int64) bool {
	for _, appt := range appointments {
		if appt.ID == excludeID || !appt.Blocks() {
			continue
		}
		if appt.Overlaps(start, end) {
			return true
		}
	}
	return false
}
