// Package document_repo provides PostgreSQL implementations for document
// repositories. Every document table carries tenant_id and a compound
// unique index (tenant_id, number); repositories translate that index's
// violations into numbering.ErrDuplicateNumber so the allocator can
// recover from lost races.
package document_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"ordina/internal/core/id"
	"ordina/internal/domain/numbering"
	"ordina/internal/infrastructure/storage/postgres"
)

// documentColumns are shared by every document table.
var documentColumns = []string{
	"id", "version", "created_at", "updated_at", "created_by",
	"tenant_id", "number", "date", "voided", "comment",
}

// mapWriteError classifies insert failures: a unique violation becomes
// ErrDuplicateNumber, transient failures become RETRYABLE_STORAGE.
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	if postgres.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %w", numbering.ErrDuplicateNumber, err)
	}
	return postgres.MapError(err)
}

// numberIndex implements numbering.NumberIndex for one document table.
// Embedded by the concrete repositories so the allocator only ever sees
// numbers from the collection it allocates for.
type numberIndex struct {
	txManager *postgres.TxManager
	builder   squirrel.StatementBuilderType
	tableName string
}

func newNumberIndex(txManager *postgres.TxManager, tableName string) numberIndex {
	return numberIndex{
		txManager: txManager,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		tableName: tableName,
	}
}

// RecentNumbers returns up to limit numbers, newest first.
func (n *numberIndex) RecentNumbers(ctx context.Context, tenantID id.ID, limit int) ([]string, error) {
	q := n.builder.
		Select("number").
		From(n.tableName).
		Where(squirrel.Eq{"tenant_id": tenantID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit))

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	querier := n.txManager.GetQuerier(ctx)
	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("recent numbers: %w", postgres.MapError(err))
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			return nil, fmt.Errorf("scan number: %w", err)
		}
		numbers = append(numbers, number)
	}

	return numbers, rows.Err()
}

// NumberExists reports whether a document already holds number.
func (n *numberIndex) NumberExists(ctx context.Context, tenantID id.ID, number string) (bool, error) {
	sql := "SELECT EXISTS (SELECT 1 FROM " + n.tableName + " WHERE tenant_id = $1 AND number = $2)"

	var exists bool
	querier := n.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, tenantID, number).Scan(&exists); err != nil {
		return false, fmt.Errorf("number exists: %w", postgres.MapError(err))
	}

	return exists, nil
}

// HighestWithPrefix returns the highest number with prefix, or "".
// String-descending order is correct because suffixes within a series
// are zero-padded to equal width.
func (n *numberIndex) HighestWithPrefix(ctx context.Context, tenantID id.ID, prefix string) (string, error) {
	q := n.builder.
		Select("number").
		From(n.tableName).
		Where(squirrel.Eq{"tenant_id": tenantID}).
		Where(squirrel.Like{"number": escapeLike(prefix) + "%"}).
		OrderBy("number DESC").
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return "", fmt.Errorf("build query: %w", err)
	}

	var highest string
	querier := n.txManager.GetQuerier(ctx)
	err = querier.QueryRow(ctx, sql, args...).Scan(&highest)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("highest with prefix: %w", postgres.MapError(err))
	}

	return highest, nil
}

// escapeLike escapes LIKE metacharacters in a literal prefix.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
