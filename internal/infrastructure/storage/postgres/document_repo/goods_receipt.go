package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ordina/internal/core/apperror"
	"ordina/internal/core/id"
	"ordina/internal/domain/documents/goods_receipt"
	"ordina/internal/infrastructure/storage/postgres"
)

const (
	goodsReceiptsTable     = "doc_goods_receipts"
	goodsReceiptLinesTable = "doc_goods_receipt_lines"
)

var goodsReceiptColumns = append(documentColumns[:len(documentColumns):len(documentColumns)],
	"supplier_id", "warehouse_id",
)

var _ goods_receipt.Repository = (*GoodsReceiptRepo)(nil)

// GoodsReceiptRepo implements goods_receipt.Repository.
type GoodsReceiptRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewGoodsReceiptRepo creates a goods receipt repository.
func NewGoodsReceiptRepo(txManager *postgres.TxManager) *GoodsReceiptRepo {
	return &GoodsReceiptRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a receipt document.
func (r *GoodsReceiptRepo) Create(ctx context.Context, doc *goods_receipt.GoodsReceipt) error {
	q := r.builder.
		Insert(goodsReceiptsTable).
		Columns(goodsReceiptColumns...).
		Values(
			doc.ID, doc.Version, doc.CreatedAt, doc.UpdatedAt, doc.CreatedBy,
			doc.TenantID, doc.Number, doc.Date, doc.Voided, doc.Comment,
			doc.SupplierID, doc.WarehouseID,
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

// SaveLines replaces the lines of a receipt.
func (r *GoodsReceiptRepo) SaveLines(ctx context.Context, receiptID id.ID, lines []goods_receipt.ReceiptLine) error {
	querier := r.txManager.GetQuerier(ctx)

	deleteSQL := "DELETE FROM " + goodsReceiptLinesTable + " WHERE document_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, receiptID); err != nil {
		return fmt.Errorf("delete existing lines: %w", postgres.MapError(err))
	}

	if len(lines) == 0 {
		return nil
	}

	q := r.builder.
		Insert(goodsReceiptLinesTable).
		Columns("line_id", "document_id", "line_no", "product_id", "quantity", "notes")

	for _, line := range lines {
		q = q.Values(line.LineID, receiptID, line.LineNo, line.ProductID, line.Quantity, line.Notes)
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

// GetByID retrieves a receipt document (without lines).
func (r *GoodsReceiptRepo) GetByID(ctx context.Context, tenantID, receiptID id.ID) (*goods_receipt.GoodsReceipt, error) {
	q := r.builder.
		Select(goodsReceiptColumns...).
		From(goodsReceiptsTable).
		Where(squirrel.Eq{"tenant_id": tenantID, "id": receiptID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var doc goods_receipt.GoodsReceipt
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &doc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("goods_receipt", receiptID)
		}
		return nil, fmt.Errorf("get goods receipt: %w", postgres.MapError(err))
	}

	return &doc, nil
}

// GetLines retrieves the lines of a receipt.
func (r *GoodsReceiptRepo) GetLines(ctx context.Context, receiptID id.ID) ([]goods_receipt.ReceiptLine, error) {
	q := r.builder.
		Select("line_id", "line_no", "product_id", "quantity", "notes").
		From(goodsReceiptLinesTable).
		Where(squirrel.Eq{"document_id": receiptID}).
		OrderBy("line_no")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var lines []goods_receipt.ReceiptLine
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("get lines: %w", postgres.MapError(err))
	}

	return lines, nil
}

// List retrieves receipts, newest first.
func (r *GoodsReceiptRepo) List(ctx context.Context, tenantID id.ID, limit, offset int) ([]goods_receipt.GoodsReceipt, error) {
	q := r.builder.
		Select(goodsReceiptColumns...).
		From(goodsReceiptsTable).
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

	var docs []goods_receipt.GoodsReceipt
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &docs, sql, args...); err != nil {
		return nil, fmt.Errorf("list goods receipts: %w", postgres.MapError(err))
	}

	return docs, nil
}
