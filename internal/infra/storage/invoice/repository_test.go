package invoice

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
	"github.com/m04kA/SBP-AppointmentService/pkg/ptr"
)

var invoiceCreated = time.Date(2026, 3, 10, 14, 20, 0, 0, time.UTC)

func newMock(t *testing.T) (*Repository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return NewRepository(db), mock, func() { db.Close() }
}

// sentInvoiceRow строка таблицы invoices, значения в порядке invoiceColumns
func sentInvoiceRow() *sqlmock.Rows {
	return sqlmock.NewRows(invoiceColumns).AddRow(
		int64(500), int64(1), int64(100), nil,
		"INV-000007",
		50.0, 0.0, nil, 5.0, 2.5, 0.0, 52.5, 0.0,
		"RUB", "sent", "cash", nil, int64(9),
		invoiceCreated, invoiceCreated,
	)
}

func serviceItemRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "invoice_id", "item_type", "reference_id", "name", "quantity", "unit_price", "line_total",
	}).AddRow(int64(1), int64(500), "service", int64(7), "Стрижка", 1, 50.0, 50.0)
}

func TestNextNumber(t *testing.T) {
	repo, mock, closeDB := newMock(t)
	defer closeDB()

	// Счётчик на салон: вставка или инкремент через upsert
	mock.ExpectQuery("INSERT INTO invoice_sequences").
		WithArgs(int64(1), 1).
		WillReturnRows(sqlmock.NewRows([]string{"next_number"}).AddRow(int64(7)))

	number, err := repo.NextNumber(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(7), number)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_WithItems(t *testing.T) {
	repo, mock, closeDB := newMock(t)
	defer closeDB()

	mock.ExpectQuery("INSERT INTO invoices").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(500), invoiceCreated, invoiceCreated))
	mock.ExpectQuery("INSERT INTO invoice_items").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectQuery("INSERT INTO invoice_items").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))

	method := domain.PaymentCash
	inv := &domain.Invoice{
		TenantID:      1,
		AppointmentID: 100,
		InvoiceNumber: "INV-000007",
		Subtotal:      57,
		TaxRate:       5,
		TaxAmount:     2.5,
		TipAmount:     7,
		Total:         59.5,
		Currency:      "RUB",
		Status:        domain.InvoiceSent,
		PaymentMethod: &method,
		CreatedBy:     9,
		Items: []domain.InvoiceItem{
			{ItemType: domain.ItemService, ReferenceID: ptr.Ptr(int64(7)), Name: "Стрижка", Quantity: 1, UnitPrice: 50, LineTotal: 50},
			{ItemType: domain.ItemTip, Name: "Чаевые", Quantity: 1, UnitPrice: 7, LineTotal: 7},
		},
	}

	created, err := repo.Create(context.Background(), inv)
	require.NoError(t, err)

	assert.Equal(t, int64(500), created.ID)
	// Позиции привязаны к созданному счёту и получили свои ID
	assert.Equal(t, int64(500), created.Items[0].InvoiceID)
	assert.Equal(t, int64(1), created.Items[0].ID)
	assert.Equal(t, int64(2), created.Items[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DuplicateActiveInvoice(t *testing.T) {
	repo, mock, closeDB := newMock(t)
	defer closeDB()

	// Частичный уникальный индекс не пускает второй действующий счёт по записи
	mock.ExpectQuery("INSERT INTO invoices").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), &domain.Invoice{
		TenantID:      1,
		AppointmentID: 100,
		InvoiceNumber: "INV-000008",
		Status:        domain.InvoiceSent,
	})
	assert.ErrorIs(t, err, ErrDuplicateInvoice)
}

func TestGetActiveByAppointment(t *testing.T) {
	repo, mock, closeDB := newMock(t)
	defer closeDB()

	// Войд-счета не учитываются
	mock.ExpectQuery("SELECT (.+) FROM invoices").
		WithArgs(int64(100), "void").
		WillReturnRows(sentInvoiceRow())
	mock.ExpectQuery("SELECT (.+) FROM invoice_items").
		WithArgs(int64(500)).
		WillReturnRows(serviceItemRows())

	inv, err := repo.GetActiveByAppointment(context.Background(), 100)
	require.NoError(t, err)

	assert.Equal(t, "INV-000007", inv.InvoiceNumber)
	assert.Equal(t, domain.InvoiceSent, inv.Status)
	require.NotNil(t, inv.PaymentMethod)
	assert.Equal(t, domain.PaymentCash, *inv.PaymentMethod)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, domain.ItemService, inv.Items[0].ItemType)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetActiveByAppointment_NotFound(t *testing.T) {
	repo, mock, closeDB := newMock(t)
	defer closeDB()

	mock.ExpectQuery("SELECT (.+) FROM invoices").
		WithArgs(int64(100), "void").
		WillReturnRows(sqlmock.NewRows(invoiceColumns))

	_, err := repo.GetActiveByAppointment(context.Background(), 100)
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestMarkPaid(t *testing.T) {
	repo, mock, closeDB := newMock(t)
	defer closeDB()

	paidAt := invoiceCreated.Add(time.Minute)

	mock.ExpectExec("UPDATE invoices SET").
		WithArgs(domain.InvoicePaid, domain.PaymentCard, 52.5, paidAt, int64(500), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkPaid(context.Background(), 1, 500, domain.PaymentCard, 52.5, paidAt)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkPaid_NotFound(t *testing.T) {
	repo, mock, closeDB := newMock(t)
	defer closeDB()

	mock.ExpectExec("UPDATE invoices SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkPaid(context.Background(), 1, 500, domain.PaymentCard, 52.5, invoiceCreated)
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestRevertUnpaid(t *testing.T) {
	repo, mock, closeDB := newMock(t)
	defer closeDB()

	// Счёт возвращается в "выставлен": оплата и её время очищаются
	mock.ExpectExec("UPDATE invoices SET").
		WithArgs(domain.InvoiceSent, 0, nil, int64(500), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.RevertUnpaid(context.Background(), 1, 500)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
