package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ordina/internal/core/apperror"
	"ordina/internal/core/id"
	"ordina/internal/domain/documents/adjustment"
	"ordina/internal/infrastructure/storage/postgres"
)

const (
	adjustmentsTable     = "doc_adjustments"
	adjustmentLinesTable = "doc_adjustment_lines"
)

var adjustmentColumns = append(documentColumns[:len(documentColumns):len(documentColumns)],
	"warehouse_id",
)

var _ adjustment.Repository = (*AdjustmentRepo)(nil)

// AdjustmentRepo implements adjustment.Repository.
type AdjustmentRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewAdjustmentRepo creates an adjustment repository.
func NewAdjustmentRepo(txManager *postgres.TxManager) *AdjustmentRepo {
	return &AdjustmentRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts an adjustment document.
func (r *AdjustmentRepo) Create(ctx context.Context, doc *adjustment.Adjustment) error {
	q := r.builder.
		Insert(adjustmentsTable).
		Columns(adjustmentColumns...).
		Values(
			doc.ID, doc.Version, doc.CreatedAt, doc.UpdatedAt, doc.CreatedBy,
			doc.TenantID, doc.Number, doc.Date, doc.Voided, doc.Comment,
			doc.WarehouseID,
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

// SaveLines replaces the lines of an adjustment.
func (r *AdjustmentRepo) SaveLines(ctx context.Context, adjustmentID id.ID, lines []adjustment.AdjustmentLine) error {
	querier := r.txManager.GetQuerier(ctx)

	deleteSQL := "DELETE FROM " + adjustmentLinesTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, adjustmentID); err != nil {
		return fmt.Errorf("delete existing lines: %w", postgres.MapError(err))
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.builder.
		Insert(adjustmentLinesTable).
		Columns("line_id", "document_id", "line_no", "product_id", "delta", "notes")

	for _, line := range lines {
		q = q.Values(line.LineID, adjustmentID, line.LineNo, line.ProductID, line.Delta, line.Notes)
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

// GetByID retrieves an adjustment document (without lines).
func (r *AdjustmentRepo) GetByID(ctx context.Context, tenantID, adjustmentID id.ID) (*adjustment.Adjustment, error) {
	q := r.builder.
		Select(adjustmentColumns...).
		From(adjustmentsTable).
		Where(squirrel.Eq{"tenant_id": tenantID, "id": adjustmentID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var doc adjustment.Adjustment
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("adjustment", adjustmentID)
		}
		return nil, fmt.Errorf("get adjustment: %w", postgres.MapError(err))
	}

	return &doc, nil
}

// GetLines retrieves the lines of an adjustment.
func (r *AdjustmentRepo) GetLines(ctx context.Context, adjustmentID id.ID) ([]adjustment.AdjustmentLine, error) {
	q := r.builder.
		Select("line_id", "line_no", "product_id", "delta", "notes").
		From(adjustmentLinesTable).
		Where(squirrel.Eq{"document_id": adjustmentID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []adjustment.AdjustmentLine
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", postgres.MapError(err))
	}

	return lines, nil
}

// List retrieves adjustments, newest first.
func (r *AdjustmentRepo) List(ctx context.Context, tenantID id.ID, limit, offset int) ([]adjustment.Adjustment, error) {
	q := r.builder.
		Select(adjustmentColumns...).
		From(adjustmentsTable).
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("date DESC", "number DESC")

	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var docs []adjustment.Adjustment
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &docs, sql, args...); err != nil {
		return nil, fmt.Errorf("list adjustments: %w", postgres.MapError(err))
	}

	return docs, nil
}
