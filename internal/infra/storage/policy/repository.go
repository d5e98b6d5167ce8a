package policy

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
	"github.com/m04kA/SBP-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SBP-AppointmentService/pkg/psqlbuilder"
)

var policyColumns = []string{
	"id",
	"tenant_id",
	"branch_id",
	"service_id",
	"slot_interval_minutes",
	"buffer_minutes",
	"min_advance_hours",
	"max_advance_days",
	"cancellation_hours",
	"allow_cancellation",
	"auto_confirm_online",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с политиками бронирования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория политик бронирования
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByScope получает политику для точной области действия
// Область задаётся парой (branchID, serviceID), где nil означает "для всех"
func (r *Repository) GetByScope(ctx context.Context, tenantID int64, branchID, serviceID *int64) (*domain.BookingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(policyColumns...).
		From("booking_policies").
		Where(squirrel.Eq{"tenant_id": tenantID})

	// Фильтрация по branch_id (NULL или конкретное значение)
	if branchID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"branch_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"branch_id": *branchID})
	}

	// Фильтрация по service_id (NULL или конкретное значение)
	if serviceID == nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": nil})
	} else {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"service_id": *serviceID})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByScope - build select query: %v", ErrBuildQuery, err)
	}

	policy, err := scanPolicy(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrPolicyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByScope - scan policy: %v", ErrScanRow, err)
	}

	return policy, nil
}

// Resolve получает политику с учетом иерархии приоритетов
// Приоритет применения политики:
// 1. Политика для конкретной услуги в конкретном филиале (branchID, serviceID)
// 2. Политика для всех услуг в конкретном филиале (branchID, NULL)
// 3. Политика для конкретной услуги во всех филиалах (NULL, serviceID)
// 4. Глобальная политика салона (NULL, NULL)
//
// Если политика не найдена ни на одном уровне, возвращает ErrPolicyNotFound
func (r *Repository) Resolve(ctx context.Context, tenantID int64, branchID, serviceID *int64) (*domain.BookingPolicy, error) {
	// 1. Политика для конкретной услуги в конкретном филиале (если оба указаны)
	if branchID != nil && serviceID != nil {
		policy, err := r.GetByScope(ctx, tenantID, branchID, serviceID)
		if err == nil {
			return policy, nil
		}
		if err != ErrPolicyNotFound {
			return nil, fmt.Errorf("%w: Resolve - level 1 (branch+service): %v", ErrExecQuery, err)
		}
	}

	// 2. Политика для всех услуг в конкретном филиале (если филиал указан)
	if branchID != nil {
		policy, err := r.GetByScope(ctx, tenantID, branchID, nil)
		if err == nil {
			return policy, nil
		}
		if err != ErrPolicyNotFound {
			return nil, fmt.Errorf("%w: Resolve - level 2 (branch only): %v", ErrExecQuery, err)
		}
	}

	// 3. Политика для конкретной услуги во всех филиалах (если услуга указана)
	if serviceID != nil {
		policy, err := r.GetByScope(ctx, tenantID, nil, serviceID)
		if err == nil {
			return policy, nil
		}
		if err != ErrPolicyNotFound {
			return nil, fmt.Errorf("%w: Resolve - level 3 (service only): %v", ErrExecQuery, err)
		}
	}

	// 4. Глобальная политика салона
	policy, err := r.GetByScope(ctx, tenantID, nil, nil)
	if err == nil {
		return policy, nil
	}
	if err != ErrPolicyNotFound {
		return nil, fmt.Errorf("%w: Resolve - level 4 (global): %v", ErrExecQuery, err)
	}

	return nil, ErrPolicyNotFound
}

// Upsert создаёт политику для области действия или обновляет существующую
// Уникальность области обеспечивает индекс по (tenant_id, COALESCE(branch_id, 0), COALESCE(service_id, 0))
func (r *Repository) Upsert(ctx context.Context, policy *domain.BookingPolicy) (*domain.BookingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("booking_policies").
		Columns(
			"tenant_id",
			"branch_id",
			"service_id",
			"slot_interval_minutes",
			"buffer_minutes",
			"min_advance_hours",
			"max_advance_days",
			"cancellation_hours",
			"allow_cancellation",
			"auto_confirm_online",
		).
		Values(
			policy.TenantID,
			policy.BranchID,
			policy.ServiceID,
			policy.SlotIntervalMinutes,
			policy.BufferMinutes,
			policy.MinAdvanceHours,
			policy.MaxAdvanceDays,
			policy.CancellationHours,
			policy.AllowCancellation,
			policy.AutoConfirmOnline,
		).
		Suffix(`ON CONFLICT (tenant_id, COALESCE(branch_id, 0), COALESCE(service_id, 0)) DO UPDATE SET
			slot_interval_minutes = EXCLUDED.slot_interval_minutes,
			buffer_minutes = EXCLUDED.buffer_minutes,
			min_advance_hours = EXCLUDED.min_advance_hours,
			max_advance_days = EXCLUDED.max_advance_days,
			cancellation_hours = EXCLUDED.cancellation_hours,
			allow_cancellation = EXCLUDED.allow_cancellation,
			auto_confirm_online = EXCLUDED.auto_confirm_online
			RETURNING id, created_at, updated_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - build upsert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&policy.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Upsert - execute upsert: %v", ErrExecQuery, err)
	}

	policy.CreatedAt = createdAt.Time
	policy.UpdatedAt = updatedAt.Time

	return policy, nil
}

// GetAllByTenant получает все политики салона (глобальную, для филиалов и услуг)
func (r *Repository) GetAllByTenant(ctx context.Context, tenantID int64) ([]*domain.BookingPolicy, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(policyColumns...).
		From("booking_policies").
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("branch_id ASC NULLS FIRST, service_id ASC NULLS FIRST"). // Глобальная политика первой
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByTenant - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAllByTenant - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	policies := make([]*domain.BookingPolicy, 0)

	for rows.Next() {
		policy, err := scanPolicy(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetAllByTenant - scan row: %v", ErrScanRow, err)
		}
		policies = append(policies, policy)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAllByTenant - rows error: %v", ErrScanRow, err)
	}

	return policies, nil
}

// Delete удаляет политику области действия
func (r *Repository) Delete(ctx context.Context, tenantID int64, branchID, serviceID *int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	deleteBuilder := psqlbuilder.Delete("booking_policies").
		Where(squirrel.Eq{"tenant_id": tenantID})

	if branchID == nil {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"branch_id": nil})
	} else {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"branch_id": *branchID})
	}

	if serviceID == nil {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"service_id": nil})
	} else {
		deleteBuilder = deleteBuilder.Where(squirrel.Eq{"service_id": *serviceID})
	}

	query, args, err := deleteBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrPolicyNotFound
	}

	return nil
}

// rowScanner объединяет *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanPolicy сканирует одну строку в доменную модель
func scanPolicy(row rowScanner) (*domain.BookingPolicy, error) {
	var policy domain.BookingPolicy
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&policy.ID,
		&policy.TenantID,
		&policy.BranchID,
		&policy.ServiceID,
		&policy.SlotIntervalMinutes,
		&policy.BufferMinutes,
		&policy.MinAdvanceHours,
		&policy.MaxAdvanceDays,
		&policy.CancellationHours,
		&policy.AllowCancellation,
		&policy.AutoConfirmOnline,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	policy.CreatedAt = createdAt.Time
	policy.UpdatedAt = updatedAt.Time

	return &policy, nil
}
