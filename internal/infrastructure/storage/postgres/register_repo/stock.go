// Package register_repo provides the PostgreSQL implementation of the
// stock movement ledger.
package register_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"ordina/internal/core/id"
	"ordina/internal/core/types"
	"ordina/internal/domain/stock"
	"ordina/internal/infrastructure/storage/postgres"
)

const stockMovementsTable = "reg_stock_movements"

var stockMovementColumns = []string{
	"id", "tenant_id", "product_id", "warehouse_id", "type", "quantity",
	"occurred_at", "source_kind", "source_id", "notes", "created_by", "created_at",
}

// Compile-time check.
var _ stock.Repository = (*StockRepo)(nil)

// StockRepo implements stock.Repository. The table is append-only;
// balances are always aggregated from movements, never cached.
type StockRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewStockRepo creates a new stock ledger repository.
func NewStockRepo(txManager *postgres.TxManager) *StockRepo {
	return &StockRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateMovements batch inserts movements.
func (r *StockRepo) CreateMovements(ctx context.Context, movements []stock.Movement) error {
	if len(movements) == 0 {
		return nil
	}

	// Fast path: COPY when inside a transaction.
	if tx := r.txManager.GetTx(ctx); tx != nil {
		inserter := postgres.NewBatchInserter(r.txManager)
		rows := make([][]any, 0, len(movements))
		for _, m := range movements {
			rows = append(rows, []any{
				m.ID, m.TenantID, m.ProductID, m.WarehouseID, m.Type, m.Quantity,
				m.OccurredAt, m.SourceKind, m.SourceID, m.Notes, m.CreatedBy, m.CreatedAt,
			})
		}
		if _, err := inserter.CopyFromSlice(ctx, stockMovementsTable, stockMovementColumns, rows); err != nil {
			return fmt.Errorf("copy movements: %w", postgres.MapError(err))
		}
		return nil
	}

	// Fallback: multi-row insert. Prefer calling within a transaction.
	q := r.builder.Insert(stockMovementsTable).Columns(stockMovementColumns...)
	for _, m := range movements {
		q = q.Values(
			m.ID, m.TenantID, m.ProductID, m.WarehouseID, m.Type, m.Quantity,
			m.OccurredAt, m.SourceKind, m.SourceID, m.Notes, m.CreatedBy, m.CreatedAt,
		)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert movements: %w", postgres.MapError(err))
	}

	return nil
}

// SumBalance aggregates the signed movement sum for the query scope.
// OUT movements subtract, IN adds, ADJUST adds its signed quantity as
// stored. An empty scope yields zero, not an error.
func (r *StockRepo) SumBalance(ctx context.Context, q stock.BalanceQuery) (types.Quantity, error) {
	sql, args, err := r.balanceQuery(q).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var scaled int64
	querier := r.txManager.GetQuerier(ctx)
	err = querier.QueryRow(ctx, sql, args...).Scan(&scaled)
	if err != nil && err != pgx.ErrNoRows {
		return 0, fmt.Errorf("sum balance: %w", postgres.MapError(err))
	}

	return types.NewQuantityFromInt64Scaled(scaled), nil
}

// balanceQuery builds the aggregation for a balance scope. When the
// query targets the tenant's default warehouse, movements recorded
// without a warehouse are counted too (legacy data rule).
func (r *StockRepo) balanceQuery(q stock.BalanceQuery) squirrel.SelectBuilder {
	conditions := squirrel.And{
		squirrel.Eq{"tenant_id": q.TenantID},
		squirrel.Eq{"product_id": q.ProductID},
	}

	if q.WarehouseID != nil {
		scope := squirrel.Or{squirrel.Eq{"warehouse_id": *q.WarehouseID}}
		if q.IncludeUnscoped {
			scope = append(scope, squirrel.Eq{"warehouse_id": nil})
		}
		conditions = append(conditions, scope)
	}

	return r.builder.
		Select("COALESCE(SUM(CASE WHEN type = 'OUT' THEN -quantity ELSE quantity END), 0)").
		From(stockMovementsTable).
		Where(conditions)
}

// GetMovementsBySource retrieves all movements recorded by a document.
func (r *StockRepo) GetMovementsBySource(ctx context.Context, tenantID id.ID, sourceKind stock.SourceKind, sourceID id.ID) ([]stock.Movement, error) {
	q := r.builder.
		Select(stockMovementColumns...).
		From(stockMovementsTable).
		Where(squirrel.Eq{
			"tenant_id":   tenantID,
			"source_kind": sourceKind,
			"source_id":   sourceID,
		}).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var movements []stock.Movement
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select movements: %w", postgres.MapError(err))
	}

	return movements, nil
}

// GetMovementHistory returns movement history for a product, newest first.
func (r *StockRepo) GetMovementHistory(ctx context.Context, tenantID, productID id.ID, filter stock.MovementFilter) ([]stock.Movement, error) {
	q := r.builder.
		Select(stockMovementColumns...).
		From(stockMovementsTable).
		Where(squirrel.Eq{
			"tenant_id":  tenantID,
			"product_id": productID,
		})

	if filter.WarehouseID != nil {
		q = q.Where(squirrel.Eq{"warehouse_id": *filter.WarehouseID})
	}

	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"type": *filter.Type})
	}

	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"occurred_at": *filter.FromDate})
	}

	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"occurred_at": *filter.ToDate})
	}

	q = q.OrderBy("occurred_at DESC", "created_at DESC")

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

	var movements []stock.Movement
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &movements, sql, args...); err != nil {
		return nil, fmt.Errorf("select history: %w", postgres.MapError(err))
	}

	return movements, nil
}
