package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ordina/internal/core/apperror"
	"ordina/internal/core/id"
	"ordina/internal/core/tenant"
	"ordina/internal/infrastructure/storage/postgres"
)

const tenantsTable = "sys_tenants"

var tenantColumns = []string{
	"id", "slug", "display_name", "status", "default_warehouse_id",
	"created_at", "updated_at",
}

var _ tenant.Repository = (*TenantRepo)(nil)

// TenantRepo implements tenant.Repository.
type TenantRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewTenantRepo creates a tenant repository.
func NewTenantRepo(txManager *postgres.TxManager) *TenantRepo {
	return &TenantRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetByID retrieves a tenant.
func (r *TenantRepo) GetByID(ctx context.Context, tenantID id.ID) (*tenant.Tenant, error) {
	return r.getOne(ctx, squirrel.Eq{"id": tenantID}, tenantID.String())
}

// GetBySlug retrieves a tenant by its URL slug.
func (r *TenantRepo) GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	return r.getOne(ctx, squirrel.Eq{"slug": slug}, slug)
}

func (r *TenantRepo) getOne(ctx context.Context, where squirrel.Eq, key string) (*tenant.Tenant, error) {
	q := r.builder.
		Select(tenantColumns...).
		From(tenantsTable).
		Where(where).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var t tenant.Tenant
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &t, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("tenant", key)
		}
		return nil, fmt.Errorf("get tenant: %w", postgres.MapError(err))
	}

	return &t, nil
}
