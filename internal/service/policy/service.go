package policy

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
	catalogRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/catalog"
	policyRepo "github.com/m04kA/SBP-AppointmentService/internal/infra/storage/policy"
	"github.com/m04kA/SBP-AppointmentService/internal/service/policy/models"
)

// Service сервис для работы с политиками бронирования
type Service struct {
	policyRepo  PolicyRepository
	catalogRepo CatalogRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса политик
func NewService(policyRepo PolicyRepository, catalogRepo CatalogRepository, logger Logger) *Service {
	return &Service{
		policyRepo:  policyRepo,
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

// GetResolved получает действующую политику для области действия
// Приоритет: услуга в филиале > филиал > услуга > салон
// Если в БД нет ни одной подходящей политики, возвращаются встроенные значения
func (s *Service) GetResolved(ctx context.Context, req *models.ResolvePolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("GetResolved: resolving policy for tenant=%d, branch=%v, service=%v",
		req.TenantID, req.BranchID, req.ServiceID)

	policy, err := s.policyRepo.Resolve(ctx, req.TenantID, req.BranchID, req.ServiceID)
	if err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Info("GetResolved: no policy configured for tenant=%d, using defaults", req.TenantID)
			return models.FromDomainPolicy(domain.DefaultPolicy(req.TenantID)), nil
		}
		s.logger.Error("GetResolved: repository error for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: GetResolved - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainPolicy(policy), nil
}

// Upsert создает политику области действия или заменяет существующую
func (s *Service) Upsert(ctx context.Context, req *models.UpsertPolicyRequest) (*models.PolicyResponse, error) {
	s.logger.Info("Upsert: saving policy for tenant=%d, branch=%v, service=%v",
		req.TenantID, req.BranchID, req.ServiceID)

	// 1. Валидируем входные данные
	policy := req.ToDomainPolicy()
	if err := s.validatePolicy(policy); err != nil {
		s.logger.Warn("Upsert: validation failed for tenant=%d: %v", req.TenantID, err)
		return nil, err
	}

	// 2. Проверяем существование салона
	if _, err := s.catalogRepo.GetTenantByID(ctx, req.TenantID); err != nil {
		if errors.Is(err, catalogRepo.ErrTenantNotFound) {
			s.logger.Warn("Upsert: tenant id=%d not found", req.TenantID)
			return nil, ErrTenantNotFound
		}
		s.logger.Error("Upsert: failed to get tenant id=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: failed to get tenant: %v", ErrInternal, err)
	}

	// 3. Сохраняем политику
	saved, err := s.policyRepo.Upsert(ctx, policy)
	if err != nil {
		s.logger.Error("Upsert: repository error for tenant=%d: %v", req.TenantID, err)
		return nil, fmt.Errorf("%w: Upsert - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Upsert: successfully saved policy id=%d (scope: %s)", saved.ID, models.ScopeLabel(saved))
	return models.FromDomainPolicy(saved), nil
}

// List получает все политики салона
// Глобальная политика идёт первой, далее филиальные и сервисные
func (s *Service) List(ctx context.Context, tenantID int64) (*models.PolicyListResponse, error) {
	s.logger.Info("List: fetching policies for tenant=%d", tenantID)

	policies, err := s.policyRepo.GetAllByTenant(ctx, tenantID)
	if err != nil {
		s.logger.Error("List: repository error for tenant=%d: %v", tenantID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: found %d policies for tenant=%d", len(policies), tenantID)
	return models.FromDomainPolicyList(policies), nil
}

// Delete удаляет политику области действия
// Встроенные значения по умолчанию удалить нельзя - они не хранятся в БД
func (s *Service) Delete(ctx context.Context, req *models.DeletePolicyRequest) error {
	s.logger.Info("Delete: deleting policy for tenant=%d, branch=%v, service=%v",
		req.TenantID, req.BranchID, req.ServiceID)

	if err := s.policyRepo.Delete(ctx, req.TenantID, req.BranchID, req.ServiceID); err != nil {
		if errors.Is(err, policyRepo.ErrPolicyNotFound) {
			s.logger.Warn("Delete: policy not found for tenant=%d, branch=%v, service=%v",
				req.TenantID, req.BranchID, req.ServiceID)
			return ErrPolicyNotFound
		}
		s.logger.Error("Delete: repository error for tenant=%d: %v", req.TenantID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted policy for tenant=%d", req.TenantID)
	return nil
}

// validatePolicy валидирует параметры политики бронирования
func (s *Service) validatePolicy(policy *domain.BookingPolicy) error {
	if policy.SlotIntervalMinutes < domain.MinSlotIntervalMinutes || policy.SlotIntervalMinutes > domain.MaxSlotIntervalMinutes {
		return fmt.Errorf("%w: slotIntervalMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotIntervalMinutes, domain.MaxSlotIntervalMinutes)
	}

	if policy.BufferMinutes < domain.MinBufferMinutes || policy.BufferMinutes > domain.MaxBufferMinutes {
		return fmt.Errorf("%w: bufferMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinBufferMinutes, domain.MaxBufferMinutes)
	}

	if policy.MinAdvanceHours < domain.MinAdvanceHoursLimit || policy.MinAdvanceHours > domain.MaxAdvanceHoursLimit {
		return fmt.Errorf("%w: minAdvanceHours must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceHoursLimit, domain.MaxAdvanceHoursLimit)
	}

	if policy.MaxAdvanceDays < domain.MinAdvanceDaysLimit || policy.MaxAdvanceDays > domain.MaxAdvanceDaysLimit {
		return fmt.Errorf("%w: maxAdvanceDays must be between %d and %d",
			ErrInvalidInput, domain.MinAdvanceDaysLimit, domain.MaxAdvanceDaysLimit)
	}

	if policy.CancellationHours < 0 || policy.CancellationHours > domain.MaxCancellationHoursLimit {
		return fmt.Errorf("%w: cancellationHours must be between 0 and %d",
			ErrInvalidInput, domain.MaxCancellationHoursLimit)
	}

	if policy.BranchID != nil && *policy.BranchID <= 0 {
		return fmt.Errorf("%w: branchId must be positive", ErrInvalidInput)
	}
	if policy.ServiceID != nil && *policy.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}

	return nil
}
