package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ordina/internal/core/apperror"
	"ordina/internal/core/id"
	"ordina/internal/domain/documents/payment"
	"ordina/internal/infrastructure/storage/postgres"
)

const paymentsTable = "doc_payments"

var paymentColumns = append(documentColumns[:len(documentColumns):len(documentColumns)],
	"supplier_id", "amount", "currency", "method", "reference",
)

// Compile-time check.
var _ payment.Repository = (*PaymentRepo)(nil)

// PaymentRepo implements payment.Repository.
type PaymentRepo struct {
	numberIndex
}

// NewPaymentRepo creates a payment repository.
func NewPaymentRepo(txManager *postgres.TxManager) *PaymentRepo {
	return &PaymentRepo{
		numberIndex: newNumberIndex(txManager, paymentsTable),
	}
}

// Create inserts a payment. A (tenant_id, number) unique violation
// surfaces as numbering.ErrDuplicateNumber.
func (r *PaymentRepo) Create(ctx context.Context, p *payment.Payment) error {
	q := r.builder.
		Insert(paymentsTable).
		Columns(paymentColumns...).
		Values(
			p.ID, p.Version, p.CreatedAt, p.UpdatedAt, p.CreatedBy,
			p.TenantID, p.Number, p.Date, p.Voided, p.Comment,
			p.SupplierID, p.Amount, p.Currency, p.Method, p.Reference,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return mapWriteError(err)
	}

	return nil
}

// GetByID retrieves a payment.
func (r *PaymentRepo) GetByID(ctx context.Context, tenantID, paymentID id.ID) (*payment.Payment, error) {
	q := r.builder.
		Select(paymentColumns...).
		From(paymentsTable).
		Where(squirrel.Eq{"tenant_id": tenantID, "id": paymentID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p payment.Payment
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("payment", paymentID)
		}
		return nil, fmt.Errorf("get payment: %w", postgres.MapError(err))
	}

	return &p, nil
}

// List retrieves payments with filtering, newest first.
func (r *PaymentRepo) List(ctx context.Context, tenantID id.ID, filter payment.ListFilter) ([]payment.Payment, error) {
	q := r.builder.
		Select(paymentColumns...).
		From(paymentsTable).
		Where(squirrel.Eq{"tenant_id": tenantID})

	if filter.SupplierID != nil {
		q = q.Where(squirrel.Eq{"supplier_id": *filter.SupplierID})
	}

	q = q.OrderBy("date DESC", "number DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var payments []payment.Payment
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &payments, sql, args...); err != nil {
		return nil, fmt.Errorf("list payments: %w", postgres.MapError(err))
	}

	return payments, nil
}
