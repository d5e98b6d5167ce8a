package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
	"github.com/m04kA/SBP-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SBP-AppointmentService/pkg/ptr"
)

var (
	apptStart   = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	apptEnd     = time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	apptCreated = time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewRepository(db), mock, func() { db.Close() }
}

// scheduledRow строка таблицы appointments, значения в порядке appointmentColumns
func scheduledRow() *sqlmock.Rows {
	return sqlmock.NewRows(appointmentColumns).AddRow(
		int64(100), int64(1),
		nil, "Анна", nil, nil,
		int64(7), int64(5), nil,
		apptStart, apptEnd,
		"scheduled", "online", "pending",
		"Стрижка", 50.0, 50.0,
		nil, nil, nil, 0.0,
		nil, nil, nil,
		apptCreated, apptCreated,
	)
}

func TestGetByID(t *testing.T) {
	repo, mock, closeDB := newMock(t)
	defer closeDB()

	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WithArgs(int64(100), int64(1)).
		WillReturnRows(scheduledRow())

	appt, err := repo.GetByID(context.Background(), 1, 100)
	require.NoError(t, err)

	assert.Equal(t, int64(100), appt.ID)
	assert.Equal(t, domain.StatusScheduled, appt.Status)
	assert.Equal(t, domain.SourceOnline, appt.Source)
	assert.Equal(t, "Стрижка", appt.ServiceName)
	require.NotNil(t, appt.CustomerName)
	assert.Equal(t, "Анна", *appt.CustomerName)
	assert.True(t, appt.StartTime.Equal(apptStart))
	assert.Nil(t, appt.CustomerID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock, closeDB := newMock(t)
	defer closeDB()

	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WithArgs(int64(100), int64(1)).
		WillReturnRows(sqlmock.NewRows(appointmentColumns))

	_, err := repo.GetByID(context.Background(), 1, 100)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestCreate(t *testing.T) {
	repo, mock, closeDB := newMock(t)
	defer closeDB()

	mock.ExpectQuery("INSERT INTO appointments").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(100), apptCreated, apptCreated))

	appt := &domain.Appointment{
		TenantID:      1,
		ServiceID:     7,
		StaffID:       5,
		StartTime:     apptStart,
		EndTime:       apptEnd,
		Status:        domain.StatusScheduled,
		Source:        domain.SourceWalkIn,
		PaymentStatus: domain.PaymentStatusPending,
		ServiceName:   "Стрижка",
		OriginalPrice: 50,
		FinalPrice:    50,
	}

	created, err := repo.Create(context.Background(), appt)
	require.NoError(t, err)

	assert.Equal(t, int64(100), created.ID)
	assert.True(t, created.CreatedAt.Equal(apptCreated))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListWithFilter_ExcludesInactiveByDefault(t *testing.T) {
	repo, mock, closeDB := newMock(t)
	defer closeDB()

	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	// Без явного статуса отменённые записи и неявки исключаются
	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WithArgs(int64(1), int64(5), from, to, "cancelled", "no_show").
		WillReturnRows(scheduledRow())

	appointments, err := repo.ListWithFilter(context.Background(), domain.AppointmentsFilter{
		TenantID: 1,
		StaffID:  ptr.Ptr(int64(5)),
		DateFrom: &from,
		DateTo:   &to,
	})
	require.NoError(t, err)
	require.Len(t, appointments, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListWithFilter_ExplicitStatus(t *testing.T) {
	repo, mock, closeDB := newMock(t)
	defer closeDB()

	status := domain.StatusCancelled
	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WithArgs(int64(1), "cancelled").
		WillReturnRows(sqlmock.NewRows(appointmentColumns))

	appointments, err := repo.ListWithFilter(context.Background(), domain.AppointmentsFilter{
		TenantID: 1,
		Status:   &status,
	})
	require.NoError(t, err)
	assert.Empty(t, appointments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListWithFilter_LocksRowsInsideTransaction(t *testing.T) {
	// Календарь одного мастера на день внутри транзакции читается
	// с блокировкой строк - так проверка конфликтов исключает гонки
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	repo := NewRepository(db)

	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM appointments (.+) FOR UPDATE").
		WithArgs(int64(1), int64(5), from, to, "cancelled", "no_show").
		WillReturnRows(sqlmock.NewRows(appointmentColumns))
	mock.ExpectRollback()

	tx, err := db.BeginTx(context.Background(), nil)
	require.NoError(t, err)
	ctx := dbmetrics.WithTx(context.Background(), &dbmetrics.SqlTxWrapper{Tx: tx})

	appointments, err := repo.ListWithFilter(ctx, domain.AppointmentsFilter{
		TenantID: 1,
		StaffID:  ptr.Ptr(int64(5)),
		DateFrom: &from,
		DateTo:   &to,
	})
	require.NoError(t, err)
	assert.Empty(t, appointments)

	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComplete(t *testing.T) {
	repo, mock, closeDB := newMock(t)
	defer closeDB()

	completedEnd := time.Date(2026, 3, 10, 14, 20, 0, 0, time.UTC)

	// Статус и конец записи меняются одним UPDATE
	mock.ExpectExec("UPDATE appointments SET").
		WithArgs(domain.StatusCompleted, completedEnd, int64(100), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Complete(context.Background(), 1, 100, completedEnd)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancel(t *testing.T) {
	repo, mock, closeDB := newMock(t)
	defer closeDB()

	cancelledAt := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)

	mock.ExpectExec("UPDATE appointments SET").
		WithArgs(domain.StatusNoShow, "", cancelledAt, int64(100), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Cancel(context.Background(), 1, 100, domain.StatusNoShow, "", cancelledAt)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_NotFound(t *testing.T) {
	repo, mock, closeDB := newMock(t)
	defer closeDB()

	mock.ExpectExec("UPDATE appointments SET").
		WithArgs(domain.StatusConfirmed, int64(100), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 1, 100, domain.StatusConfirmed)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestReschedule(t *testing.T) {
	repo, mock, closeDB := newMock(t)
	defer closeDB()

	newStart := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	newEnd := newStart.Add(30 * time.Minute)

	mock.ExpectExec("UPDATE appointments SET").
		WithArgs(int64(6), newStart, newEnd, int64(100), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Reschedule(context.Background(), 1, 100, 6, newStart, newEnd)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
