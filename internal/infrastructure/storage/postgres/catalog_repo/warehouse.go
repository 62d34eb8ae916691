package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ordina/internal/core/apperror"
	"ordina/internal/core/id"
	"ordina/internal/domain/catalogs/warehouse"
	"ordina/internal/infrastructure/storage/postgres"
)

const warehousesTable = "cat_warehouses"

var warehouseColumns = []string{
	"id", "version", "created_at", "updated_at", "created_by",
	"tenant_id", "code", "name", "address",
}

var _ warehouse.Repository = (*WarehouseRepo)(nil)

// WarehouseRepo implements warehouse.Repository.
type WarehouseRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewWarehouseRepo creates a warehouse repository.
func NewWarehouseRepo(txManager *postgres.TxManager) *WarehouseRepo {
	return &WarehouseRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByID retrieves a warehouse.
func (r *WarehouseRepo) GetByID(ctx context.Context, tenantID, warehouseID id.ID) (*warehouse.Warehouse, error) {
	q := r.builder.
		Select(warehouseColumns...).
		From(warehousesTable).
		Where(squirrel.Eq{"tenant_id": tenantID, "id": warehouseID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var w warehouse.Warehouse
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &w, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("warehouse", warehouseID)
		}
		return nil, fmt.Errorf("get warehouse: %w", postgres.MapError(err))
	}

	return &w, nil
}

// List retrieves all warehouses of a tenant ordered by code.
func (r *WarehouseRepo) List(ctx context.Context, tenantID id.ID) ([]warehouse.Warehouse, error) {
	q := r.builder.
		Select(warehouseColumns...).
		From(warehousesTable).
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("code")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var warehouses []warehouse.Warehouse
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &warehouses, sql, args...); err != nil {
		return nil, fmt.Errorf("list warehouses: %w", postgres.MapError(err))
	}

	return warehouses, nil
}
