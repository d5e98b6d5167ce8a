package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
	"github.com/m04kA/SBP-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SBP-AppointmentService/pkg/psqlbuilder"
)

// Repository репозиторий расписаний мастеров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByStaffWeekday получает расписание мастера на день недели (0 = воскресенье)
func (r *Repository) GetByStaffWeekday(ctx context.Context, tenantID, staffID int64, weekday int) (*domain.StaffSchedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"tenant_id",
		"staff_id",
		"weekday",
		"is_working",
		"start_time",
		"end_time",
		"break_start",
		"break_end",
		"created_at",
		"updated_at",
	).
		From("staff_schedules").
		Where(squirrel.Eq{
			"tenant_id": tenantID,
			"staff_id":  staffID,
			"weekday":   weekday,
		}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByStaffWeekday - build select query: %v", ErrBuildQuery, err)
	}

	var sched domain.StaffSchedule
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&sched.ID,
		&sched.TenantID,
		&sched.StaffID,
		&sched.Weekday,
		&sched.IsWorking,
		&sched.StartTime,
		&sched.EndTime,
		&sched.BreakStart,
		&sched.BreakEnd,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByStaffWeekday - scan schedule: %v", ErrScanRow, err)
	}

	sched.CreatedAt = createdAt.Time
	sched.UpdatedAt = updatedAt.Time

	return &sched, nil
}

// HasDayOff проверяет, взят ли у мастера выходной на указанную дату
// Дата сравнивается по календарному дню салона, время игнорируется
func (r *Repository) HasDayOff(ctx context.Context, tenantID, staffID int64, date time.Time) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("staff_days_off").
		Where(squirrel.Eq{
			"tenant_id":    tenantID,
			"staff_id":     staffID,
			"day_off_date": date.Format(domain.DateFormat),
		}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: HasDayOff - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: HasDayOff - scan count: %v", ErrScanRow, err)
	}

	return count > 0, nil
}
