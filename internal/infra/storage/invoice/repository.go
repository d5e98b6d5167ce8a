package invoice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SBP-AppointmentService/internal/domain"
	"github.com/m04kA/SBP-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SBP-AppointmentService/pkg/psqlbuilder"
)

// uniqueViolationCode код ошибки PostgreSQL при нарушении уникального индекса
const uniqueViolationCode = "23505"

var invoiceColumns = []string{
	"id",
	"tenant_id",
	"appointment_id",
	"customer_id",
	"invoice_number",
	"subtotal",
	"discount_amount",
	"discount_type",
	"tax_rate",
	"tax_amount",
	"tip_amount",
	"total",
	"amount_paid",
	"currency",
	"status",
	"payment_method",
	"paid_at",
	"created_by",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со счетами
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория счетов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// NextNumber атомарно выдаёт следующий номер счёта для салона
// Счётчик хранится в invoice_sequences по строке на салон: первый вызов
// вставляет строку со значением 1, последующие инкрементируют через upsert.
// Конкурентные вызовы сериализуются блокировкой строки счётчика
func (r *Repository) NextNumber(ctx context.Context, tenantID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("invoice_sequences").
		Columns("tenant_id", "next_number").
		Values(tenantID, 1).
		Suffix(`ON CONFLICT (tenant_id) DO UPDATE
			SET next_number = invoice_sequences.next_number + 1
			RETURNING next_number`).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: NextNumber - build upsert query: %v", ErrBuildQuery, err)
	}

	var number int64
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&number); err != nil {
		return 0, fmt.Errorf("%w: NextNumber - execute upsert: %v", ErrExecQuery, err)
	}

	return number, nil
}

// Create создает счёт вместе с его позициями
// Вызывается внутри транзакции завершения записи: либо счёт и все его
// позиции записаны целиком, либо ничего.
// Второй действующий счёт по записи отклоняется индексом - в этом случае
// возвращается ErrDuplicateInvoice и вызывающий код переиспользует существующий счёт
func (r *Repository) Create(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("invoices").
		Columns(
			"tenant_id",
			"appointment_id",
			"customer_id",
			"invoice_number",
			"subtotal",
			"discount_amount",
			"discount_type",
			"tax_rate",
			"tax_amount",
			"tip_amount",
			"total",
			"amount_paid",
			"currency",
			"status",
			"payment_method",
			"paid_at",
			"created_by",
		).
		Values(
			inv.TenantID,
			inv.AppointmentID,
			inv.CustomerID,
			inv.InvoiceNumber,
			inv.Subtotal,
			inv.DiscountAmount,
			inv.DiscountType,
			inv.TaxRate,
			inv.TaxAmount,
			inv.TipAmount,
			inv.Total,
			inv.AmountPaid,
			inv.Currency,
			inv.Status,
			inv.PaymentMethod,
			inv.PaidAt,
			inv.CreatedBy,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&inv.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateInvoice
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	inv.CreatedAt = createdAt.Time
	inv.UpdatedAt = updatedAt.Time

	for i := range inv.Items {
		inv.Items[i].InvoiceID = inv.ID
		if err := r.createItem(ctx, &inv.Items[i]); err != nil {
			return nil, err
		}
	}

	return inv, nil
}

// createItem создает одну позицию счёта
func (r *Repository) createItem(ctx context.Context, item *domain.InvoiceItem) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("invoice_items").
		Columns(
			"invoice_id",
			"item_type",
			"reference_id",
			"name",
			"quantity",
			"unit_price",
			"line_total",
		).
		Values(
			item.InvoiceID,
			item.ItemType,
			item.ReferenceID,
			item.Name,
			item.Quantity,
			item.UnitPrice,
			item.LineTotal,
		).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: createItem - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&item.ID); err != nil {
		return fmt.Errorf("%w: createItem - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// GetByID получает счёт по ID вместе с позициями
func (r *Repository) GetByID(ctx context.Context, tenantID, id int64) (*domain.Invoice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(invoiceColumns...).
		From("invoices").
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	inv, err := scanInvoice(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan invoice: %v", ErrScanRow, err)
	}

	if err := r.loadItems(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

// GetActiveByAppointment получает действующий (не войд) счёт по записи
// Благодаря частичному уникальному индексу такой счёт не более одного
func (r *Repository) GetActiveByAppointment(ctx context.Context, appointmentID int64) (*domain.Invoice, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(invoiceColumns...).
		From("invoices").
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		Where(squirrel.NotEq{"status": domain.InvoiceVoid}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByAppointment - build select query: %v", ErrBuildQuery, err)
	}

	inv, err := scanInvoice(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrInvoiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetActiveByAppointment - scan invoice: %v", ErrScanRow, err)
	}

	if err := r.loadItems(ctx, inv); err != nil {
		return nil, err
	}

	return inv, nil
}

// MarkPaid отмечает счёт оплаченным
func (r *Repository) MarkPaid(ctx context.Context, tenantID, id int64, method domain.PaymentMethod, amountPaid float64, paidAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("invoices").
		Set("status", domain.InvoicePaid).
		Set("payment_method", method).
		Set("amount_paid", amountPaid).
		Set("paid_at", paidAt).
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkPaid - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: MarkPaid - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: MarkPaid - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrInvoiceNotFound
	}

	return nil
}

// RevertUnpaid возвращает счёт в состояние "выставлен, не оплачен"
// Используется компенсацией, когда списание с подарочной карты не прошло
func (r *Repository) RevertUnpaid(ctx context.Context, tenantID, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("invoices").
		Set("status", domain.InvoiceSent).
		Set("amount_paid", 0).
		Set("paid_at", nil).
		Where(squirrel.Eq{"id": id, "tenant_id": tenantID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: RevertUnpaid - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: RevertUnpaid - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: RevertUnpaid - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrInvoiceNotFound
	}

	return nil
}

// loadItems загружает позиции счёта
func (r *Repository) loadItems(ctx context.Context, inv *domain.Invoice) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"invoice_id",
		"item_type",
		"reference_id",
		"name",
		"quantity",
		"unit_price",
		"line_total",
	).
		From("invoice_items").
		Where(squirrel.Eq{"invoice_id": inv.ID}).
		OrderBy("id ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadItems - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadItems - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	items := make([]domain.InvoiceItem, 0)
	for rows.Next() {
		var item domain.InvoiceItem
		err := rows.Scan(
			&item.ID,
			&item.InvoiceID,
			&item.ItemType,
			&item.ReferenceID,
			&item.Name,
			&item.Quantity,
			&item.UnitPrice,
			&item.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("%w: loadItems - scan row: %v", ErrScanRow, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadItems - rows error: %v", ErrScanRow, err)
	}

	inv.Items = items
	return nil
}

// rowScanner объединяет *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanInvoice сканирует одну строку в доменную модель
func scanInvoice(row rowScanner) (*domain.Invoice, error) {
	var inv domain.Invoice
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&inv.ID,
		&inv.TenantID,
		&inv.AppointmentID,
		&inv.CustomerID,
		&inv.InvoiceNumber,
		&inv.Subtotal,
		&inv.DiscountAmount,
		&inv.DiscountType,
		&inv.TaxRate,
		&inv.TaxAmount,
		&inv.TipAmount,
		&inv.Total,
		&inv.AmountPaid,
		&inv.Currency,
		&inv.Status,
		&inv.PaymentMethod,
		&inv.PaidAt,
		&inv.CreatedBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	inv.CreatedAt = createdAt.Time
	inv.UpdatedAt = updatedAt.Time

	return &inv, nil
}

// isUniqueViolation проверяет, что ошибка вызвана нарушением уникального индекса
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolationCode
	}
	return false
}
