package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ordina/internal/core/apperror"
	"ordina/internal/core/id"
	"ordina/internal/domain/documents/stock_return"
	"ordina/internal/infrastructure/storage/postgres"
)

const (
	stockReturnsTable     = "doc_stock_returns"
	stockReturnLinesTable = "doc_stock_return_lines"
)

var stockReturnColumns = append(documentColumns[:len(documentColumns):len(documentColumns)],
	"supplier_id", "warehouse_id", "reason",
)

var _ stock_return.Repository = (*StockReturnRepo)(nil)

// StockReturnRepo implements stock_return.Repository.
type StockReturnRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewStockReturnRepo creates a stock return repository.
func NewStockReturnRepo(txManager *postgres.TxManager) *StockReturnRepo {
	return &StockReturnRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a return document.
func (r *StockReturnRepo) Create(ctx context.Context, doc *stock_return.StockReturn) error {
	q := r.builder.
		Insert(stockReturnsTable).
		Columns(stockReturnColumns...).
		Values(
			doc.ID, doc.Version, doc.CreatedAt, doc.UpdatedAt, doc.CreatedBy,
			doc.TenantID, doc.Number, doc.Date, doc.Voided, doc.Comment,
			doc.SupplierID, doc.WarehouseID, doc.Reason,
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

// SaveLines replaces the lines of a return.
func (r *StockReturnRepo) SaveLines(ctx context.Context, returnID id.ID, lines []stock_return.ReturnLine) error {
	querier := r.txManager.GetQuerier(ctx)

	deleteSQL := "DELETE FROM " + stockReturnLinesTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, returnID); err != nil {
		return fmt.Errorf("delete existing lines: %w", postgres.MapError(err))
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.builder.
		Insert(stockReturnLinesTable).
		Columns("line_id", "document_id", "line_no", "product_id", "quantity", "notes")

	for _, line := range lines {
		q = q.Values(line.LineID, returnID, line.LineNo, line.ProductID, line.Quantity, line.Notes)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert lines: %w", err)
	}

	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert lines: %w", postgres.MapError(err))
	}

	return nil
}

// GetByID retrieves a return document (without lines).
func (r *StockReturnRepo) GetByID(ctx context.Context, tenantID, returnID id.ID) (*stock_return.StockReturn, error) {
	q := r.builder.
		Select(stockReturnColumns...).
		From(stockReturnsTable).
		Where(squirrel.Eq{"tenant_id": tenantID, "id": returnID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var doc stock_return.StockReturn
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("stock_return", returnID)
		}
		return nil, fmt.Errorf("get stock return: %w", postgres.MapError(err))
	}

	return &doc, nil
}

// GetLines retrieves the lines of a return.
func (r *StockReturnRepo) GetLines(ctx context.Context, returnID id.ID) ([]stock_return.ReturnLine, error) {
	q := r.builder.
		Select("line_id", "line_no", "product_id", "quantity", "notes").
		From(stockReturnLinesTable).
		Where(squirrel.Eq{"document_id": returnID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []stock_return.ReturnLine
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", postgres.MapError(err))
	}

	return lines, nil
}

// List retrieves returns with filtering, newest first.
func (r *StockReturnRepo) List(ctx context.Context, tenantID id.ID, filter stock_return.ListFilter) ([]stock_return.StockReturn, error) {
	q := r.builder.
		Select(stockReturnColumns...).
		From(stockReturnsTable).
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

	var docs []stock_return.StockReturn
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &docs, sql, args...); err != nil {
		return nil, fmt.Errorf("list stock returns: %w", postgres.MapError(err))
	}

	return docs, nil
}
