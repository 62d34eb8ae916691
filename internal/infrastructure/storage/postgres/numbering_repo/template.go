package numbering_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"ordina/internal/core/apperror"
	"ordina/internal/core/id"
	"ordina/internal/domain/numbering"
	"ordina/internal/infrastructure/storage/postgres"
)

const templatesTable = "sys_numbering_templates"

var _ numbering.TemplateStore = (*TemplateRepo)(nil)

// TemplateRepo implements numbering.TemplateStore.
type TemplateRepo struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
}

// NewTemplateRepo creates a template repository.
func NewTemplateRepo(txManager *postgres.TxManager) *TemplateRepo {
	return &TemplateRepo{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetTemplate returns the numbering template for (tenant, series).
func (r *TemplateRepo) GetTemplate(ctx context.Context, tenantID id.ID, seriesCode string) (*numbering.SeriesTemplate, error) {
	q := r.builder.
		Select("tenant_id", "series_code", "pattern", "starting_value").
		From(templatesTable).
		Where(squirrel.Eq{
			"tenant_id":   tenantID,
			"series_code": seriesCode,
		}).Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var tpl numbering.SeriesTemplate
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &tpl, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("numbering_template", seriesCode)
		}
		return nil, fmt.Errorf("get template: %w", postgres.MapError(err))
	}

	return &tpl, nil
}

// Upsert stores or replaces a tenant's numbering template.
func (r *TemplateRepo) Upsert(ctx context.Context, tpl numbering.SeriesTemplate) error {
	querier := r.txManager.GetQuerier(ctx)
	_, err := querier.Exec(ctx, `
		INSERT INTO `+templatesTable+` (tenant_id, series_code, pattern, starting_value)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tenant_id, series_code)
		DO UPDATE SET pattern = EXCLUDED.pattern, starting_value = EXCLUDED.starting_value
	`, tpl.TenantID, tpl.SeriesCode, tpl.Pattern, tpl.StartingValue)
	if err != nil {
		return fmt.Errorf("upsert template: %w", postgres.MapError(err))
	}
	return nil
}
