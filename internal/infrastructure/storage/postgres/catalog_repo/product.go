// Package catalog_repo provides PostgreSQL implementations for catalog
// repositories.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ordina/internal/core/apperror"
	"ordina/internal/core/id"
	"ordina/internal/domain/catalogs/product"
	"ordina/internal/infrastructure/storage/postgres"
)

const productsTable = "cat_products"

var productColumns = []string{
	"id", "version", "created_at", "updated_at", "created_by",
	"tenant_id", "code", "name", "unit", "track_stock",
}

var _ product.Repository = (*ProductRepo)(nil)

// ProductRepo implements product.Repository.
type ProductRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewProductRepo creates a product repository.
func NewProductRepo(txManager *postgres.TxManager) *ProductRepo {
	return &ProductRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByID retrieves a product.
func (r *ProductRepo) GetByID(ctx context.Context, tenantID, productID id.ID) (*product.Product, error) {
	q := r.builder.
		Select(productColumns...).
		From(productsTable).
		Where(squirrel.Eq{"tenant_id": tenantID, "id": productID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", productID)
		}
		return nil, fmt.Errorf("get product: %w", postgres.MapError(err))
	}

	return &p, nil
}

// GetByCode retrieves a product by its code.
func (r *ProductRepo) GetByCode(ctx context.Context, tenantID id.ID, code string) (*product.Product, error) {
	q := r.builder.
		Select(productColumns...).
		From(productsTable).
		Where(squirrel.Eq{"tenant_id": tenantID, "code": code})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var p product.Product
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("product", code)
		}
		return nil, fmt.Errorf("get product by code: %w", postgres.MapError(err))
	}

	return &p, nil
}

// List retrieves products ordered by code.
func (r *ProductRepo) List(ctx context.Context, tenantID id.ID, limit, offset int) ([]product.Product, error) {
	q := r.builder.
		Select(productColumns...).
		From(productsTable).
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("code")

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

	var products []product.Product
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &products, sql, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", postgres.MapError(err))
	}

	return products, nil
}
