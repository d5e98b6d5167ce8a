package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
	"github.com/m04kA/SBP-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SBP-AppointmentService/pkg/psqlbuilder"
)

var tenantColumns = []string{
	"id",
	"slug",
	"name",
	"timezone",
	"currency",
	"tax_rate",
	"active",
	"created_at",
	"updated_at",
}

var serviceColumns = []string{
	"id",
	"tenant_id",
	"name",
	"processing_minutes",
	"finishing_minutes",
	"price",
	"currency",
	"active",
	"created_at",
	"updated_at",
}

// Repository репозиторий каталога: салоны и их услуги
// Каталог ведётся админкой салонов, здесь он только читается
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetTenantByID получает салон по ID
func (r *Repository) GetTenantByID(ctx context.Context, id int64) (*domain.Tenant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(tenantColumns...).
		From("tenants").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetTenantByID - build select query: %v", ErrBuildQuery, err)
	}

	tenant, err := scanTenant(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetTenantByID - scan tenant: %v", ErrScanRow, err)
	}

	return tenant, nil
}

// GetTenantBySlug получает активный салон по публичному slug
// Используется публичной страницей записи, деактивированные салоны не видны
func (r *Repository) GetTenantBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(tenantColumns...).
		From("tenants").
		Where(squirrel.Eq{"slug": slug, "active": true}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetTenantBySlug - build select query: %v", ErrBuildQuery, err)
	}

	tenant, err := scanTenant(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrTenantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetTenantBySlug - scan tenant: %v", ErrScanRow, err)
	}

	return tenant, nil
}

// GetService получает услугу салона по ID
func (r *Repository) GetService(ctx context.Context, tenantID, serviceID int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(serviceColumns...).
		From("services").
		Where(squirrel.Eq{"id": serviceID, "tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var service domain.Service
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.TenantID,
		&service.Name,
		&service.ProcessingMinutes,
		&service.FinishingMinutes,
		&service.Price,
		&service.Currency,
		&service.Active,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %v", ErrScanRow, err)
	}

	service.CreatedAt = createdAt.Time
	service.UpdatedAt = updatedAt.Time

	return &service, nil
}

// rowScanner объединяет *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTenant(row rowScanner) (*domain.Tenant, error) {
	var tenant domain.Tenant
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&tenant.ID,
		&tenant.Slug,
		&tenant.Name,
		&tenant.Timezone,
		&tenant.Currency,
		&tenant.TaxRate,
		&tenant.Active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	tenant.CreatedAt = createdAt.Time
	tenant.UpdatedAt = updatedAt.Time

	return &tenant, nil
}
