package reminderlog

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SBP-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SBP-AppointmentService/pkg/psqlbuilder"
)

// Переиспользуем интерфейсы из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

var (
	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("reminderlog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("reminderlog.repository: failed to execute query")
)

// Repository журнал отправленных напоминаний
// Пара (appointment_id, reminder_type) уникальна: повторная постановка
// напоминания при передоставке события не проходит
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр журнала напоминаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// TryRecord пытается зафиксировать отправку напоминания
// Возвращает true, если запись создана впервые, и false, если напоминание
// этого типа по записи уже ставилось
func (r *Repository) TryRecord(ctx context.Context, appointmentID int64, reminderType string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reminder_dispatch_log").
		Columns("appointment_id", "reminder_type").
		Values(appointmentID, reminderType).
		Suffix("ON CONFLICT (appointment_id, reminder_type) DO NOTHING").
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: TryRecord - build insert query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%w: TryRecord - execute insert: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%w: TryRecord - get rows affected: %v", ErrExecQuery, err)
	}

	return rowsAffected > 0, nil
}
