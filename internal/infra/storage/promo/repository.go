package promo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
	"github.com/m04kA/SBP-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SBP-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий акций и промокодов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория акций
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetCodeWithPromotion получает промокод салона вместе с его акцией
// Код сравнивается без учёта регистра
func (r *Repository) GetCodeWithPromotion(ctx context.Context, tenantID int64, code string) (*domain.DiscountCode, *domain.Promotion, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"dc.id",
		"dc.tenant_id",
		"dc.promotion_id",
		"dc.code",
		"dc.usage_limit",
		"dc.usage_count",
		"dc.active",
		"p.id",
		"p.tenant_id",
		"p.name",
		"p.discount_type",
		"p.discount_value",
		"p.min_spend",
		"p.starts_at",
		"p.ends_at",
		"p.usage_limit",
		"p.usage_count",
		"p.active",
	).
		From("discount_codes dc").
		Join("promotions p ON p.id = dc.promotion_id").
		Where(squirrel.Eq{"dc.tenant_id": tenantID}).
		Where("LOWER(dc.code) = LOWER(?)", code).
		ToSql()

	if err != nil {
		return nil, nil, fmt.Errorf("%w: GetCodeWithPromotion - build select query: %v", ErrBuildQuery, err)
	}

	var dc domain.DiscountCode
	var promotion domain.Promotion

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&dc.ID,
		&dc.TenantID,
		&dc.PromotionID,
		&dc.Code,
		&dc.UsageLimit,
		&dc.UsageCount,
		&dc.Active,
		&promotion.ID,
		&promotion.TenantID,
		&promotion.Name,
		&promotion.DiscountType,
		&promotion.DiscountValue,
		&promotion.MinSpend,
		&promotion.StartsAt,
		&promotion.EndsAt,
		&promotion.UsageLimit,
		&promotion.UsageCount,
		&promotion.Active,
	)

	if err == sql.ErrNoRows {
		return nil, nil, ErrCodeNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: GetCodeWithPromotion - scan code: %v", ErrScanRow, err)
	}

	return &dc, &promotion, nil
}

// GetPromotionByID получает акцию по ID
func (r *Repository) GetPromotionByID(ctx context.Context, tenantID, id int64) (*domain.Promotion, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"tenant_id",
		"name",
		"discount_type",
		"discount_value",
		"min_spend",
		"starts_at",
		"ends_at",
		"usage_limit",
		"usage_count",
		"active",
	).
		From("promotions").
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetPromotionByID - build select query: %v", ErrBuildQuery, err)
	}

	var promotion domain.Promotion
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&promotion.ID,
		&promotion.TenantID,
		&promotion.Name,
		&promotion.DiscountType,
		&promotion.DiscountValue,
		&promotion.MinSpend,
		&promotion.StartsAt,
		&promotion.EndsAt,
		&promotion.UsageLimit,
		&promotion.UsageCount,
		&promotion.Active,
	)

	if err == sql.ErrNoRows {
		return nil, ErrPromotionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetPromotionByID - scan promotion: %v", ErrScanRow, err)
	}

	return &promotion, nil
}

// IncrementCodeUsage атомарно увеличивает счётчик применений промокода
// Условие в WHERE не даёт счётчику превысить лимит при гонке:
// проигравший запрос не затронет ни одной строки и получит ErrUsageLimitReached
func (r *Repository) IncrementCodeUsage(ctx context.Context, codeID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("discount_codes").
		Set("usage_count", squirrel.Expr("usage_count + 1")).
		Where(squirrel.Eq{"id": codeID}).
		Where("(usage_limit = 0 OR usage_count < usage_limit)").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: IncrementCodeUsage - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: IncrementCodeUsage - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: IncrementCodeUsage - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrUsageLimitReached
	}

	return nil
}

// IncrementPromotionUsage атомарно увеличивает счётчик применений акции
func (r *Repository) IncrementPromotionUsage(ctx context.Context, promotionID int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("promotions").
		Set("usage_count", squirrel.Expr("usage_count + 1")).
		Where(squirrel.Eq{"id": promotionID}).
		Where("(usage_limit = 0 OR usage_count < usage_limit)").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: IncrementPromotionUsage - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: IncrementPromotionUsage - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: IncrementPromotionUsage - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrUsageLimitReached
	}

	return nil
}
