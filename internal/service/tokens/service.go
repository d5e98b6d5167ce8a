package tokens

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
	"github.com/m04kA/SBP-AppointmentService/internal/events"
	appointmentRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/appointment"
	policyRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/policy"
	tokenRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/token"
	"github.com/m04kA/SBP-AppointmentService/internal/service/tokens/models"
)

// tokenBytes длина токена до hex-кодирования: 32 байта = 256 бит энтропии
const tokenBytes = 32

// Service сервис токенов самообслуживания
// Токен выдаётся при онлайн-записи и позволяет клиенту без аккаунта
// посмотреть и отменить одну конкретную запись
type Service struct {
	tokenRepo       TokenRepository
	appointmentRepo AppointmentRepository
	policyRepo      PolicyRepository
	txManager       TransactionManager
	dispatcher      EventEmitter
	timeProvider    TimeProvider
	ttl             time.Duration
	logger          Logger
}

// NewService создает новый экземпляр сервиса токенов
// ttlDays - срок действия выдаваемых токенов в днях
func NewService(
	tokenRepo TokenRepository,
	appointmentRepo AppointmentRepository,
	policyRepo PolicyRepository,
	txManager TransactionManager,
	dispatcher EventEmitter,
	timeProvider TimeProvider,
	ttlDays int,
	logger Logger,
) *Service {
	return &Service{
		tokenRepo:       tokenRepo,
		appointmentRepo: appointmentRepo,
		policyRepo:      policyRepo,
		txManager:       txManager,
		dispatcher:      dispatcher,
		timeProvider:    timeProvider,
		ttl:             time.Duration(ttlDays) * 24 * time.Hour,
		logger:          logger,
	}
}

// Issue выпускает токен управления записью
// Вызывается внутри транзакции создания записи, чтобы выданный токен
// не пережил откат самой записи
func (s *Service) Issue(ctx context.Context, tenantID, appointmentID int64) (*domain.BookingToken, error) {
	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		s.logger.Error("Issue: failed to generate token for appointment=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: Issue - generate token: %v", ErrInternal, err)
	}

	token := &domain.BookingToken{
		TenantID:      tenantID,
		AppointmentID: appointmentID,
		Token:         hex.EncodeToString(raw),
		Action:        domain.TokenActionManage,
		ExpiresAt:     s.timeProvider.Now().Add(s.ttl),
	}

	created, err := s.tokenRepo.Create(ctx, token)
	if err != nil {
		s.logger.Error("Issue: failed to store token for appointment=%d: %v", appointmentID, err)
		return nil, fmt.Errorf("%w: Issue - store token: %v", ErrInternal, err)
	}

	s.logger.Info("Issue: token issued for appointment=%d, expires=%s",
		appointmentID, created.ExpiresAt.Format(time.RFC3339))
	return created, nil
}

// Resolve находит запись по токену и собирает её представление для клиента
func (s *Service) Resolve(ctx context.Context, tokenValue string) (*models.ManageView, error) {
	now := s.timeProvider.Now()

	_, appt, err := s.lookup(ctx, tokenValue, now)
	if err != nil {
		return nil, err
	}

	policy, err := s.resolvePolicy(ctx, appt)
	if err != nil {
		return nil, err
	}

	return models.BuildManageView(appt, policy, now), nil
}

// CancelByToken отменяет запись по токену клиента
// Политика отмены перечитывается в момент вызова: окно отмены
// могло закрыться с момента выдачи токена
func (s *Service) CancelByToken(ctx context.Context, tokenValue, reason string) (*models.ManageView, error) {
	now := s.timeProvider.Now()

	token, appt, err := s.lookup(ctx, tokenValue, now)
	if err != nil {
		return nil, err
	}

	if !appt.CanBeCancelled() {
		s.logger.Warn("CancelByToken: appointment=%d already in terminal status=%s", appt.ID, appt.Status)
		return nil, ErrCannotCancel
	}

	policy, err := s.resolvePolicy(ctx, appt)
	if err != nil {
		return nil, err
	}

	if !policy.AllowCancellation {
		s.logger.Warn("CancelByToken: cancellation disabled for tenant=%d", appt.TenantID)
		return nil, ErrCancellationNotAllowed
	}
	if !policy.CanCustomerCancelAt(now, appt.StartTime) {
		s.logger.Warn("CancelByToken: window passed for appointment=%d, deadline=%s",
			appt.ID, policy.CancellationDeadline(appt.StartTime).Format(time.RFC3339))
		return nil, ErrCancellationWindowPassed
	}

	// Отмена записи и погашение токена - одна транзакция
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.appointmentRepo.Cancel(txCtx, appt.TenantID, appt.ID, domain.StatusCancelled, reason, now); err != nil {
			return fmt.Errorf("cancel appointment: %w", err)
		}
		if err := s.tokenRepo.MarkUsed(txCtx, token.ID, now); err != nil {
			return fmt.Errorf("mark token used: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("CancelByToken: transaction failed for appointment=%d: %v", appt.ID, err)
		return nil, fmt.Errorf("%w: CancelByToken - transaction failed: %v", ErrInternal, err)
	}

	appt.Status = domain.StatusCancelled
	appt.CancellationReason = &reason
	appt.CancelledAt = &now

	event := events.NewEvent(events.TypeAppointmentCancelled, appt.TenantID, appt.ID, now)
	event.StartTime = appt.StartTime
	event.Summary = fmt.Sprintf("%s, %s: отменено клиентом",
		appt.ServiceName, appt.StartTime.Format("02.01.2006 15:04"))
	s.dispatcher.Emit(event)

	s.logger.Info("CancelByToken: appointment=%d cancelled by customer", appt.ID)
	return models.BuildManageView(appt, policy, now), nil
}

// lookup загружает токен и его запись, проверяя срок действия токена
func (s *Service) lookup(ctx context.Context, tokenValue string, now time.Time) (*domain.BookingToken, *domain.Appointment, error) {
	token, err := s.tokenRepo.GetByToken(ctx, tokenValue)
	if err != nil {
		if errors.Is(err, tokenRepo.ErrTokenNotFound) {
			return nil, nil, ErrTokenNotFound
		}
		s.logger.Error("lookup: repository error: %v", err)
		return nil, nil, fmt.Errorf("%w: lookup - repository error: %v", ErrInternal, err)
	}

	if token.IsExpired(now) {
		return nil, nil, ErrTokenExpired
	}

	appt, err := s.appointmentRepo.GetByID(ctx, token.TenantID, token.AppointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("lookup: token id=%d points to missing appointment=%d", token.ID, token.AppointmentID)
			return nil, nil, ErrTokenNotFound
		}
		s.logger.Error("lookup: failed to load appointment=%d: %v", token.AppointmentID, err)
		return nil, nil, fmt.Errorf("%w: lookup - load appointment: %v", ErrInternal, err)
	}

	return token, appt, nil
}

// resolvePolicy получает политику для записи, с дефолтом при отсутствии настроек
func (s *Service) resolvePolicy(ctx context.Context, appt *domain.Appointment) (*domain.BookingPolicy, error) {
	policy, err := s.policyRepo.Resolve(ctx, appt.TenantID, appt.BranchID, &appt.ServiceID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			return domain.DefaultPolicy(appt.TenantID), nil
		}
		s.logger.Error("resolvePolicy: failed for tenant=%d: %v", appt.TenantID, err)
		return nil, fmt.Errorf("%w: resolvePolicy - repository error: %v", ErrInternal, err)
	}
	return policy, nil
}
