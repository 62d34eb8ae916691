package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"ordina/internal/core/apperror"
)

// PostgreSQL error codes handled explicitly.
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgQueryCanceled        = "57014"
	pgTooManyConnections   = "53300"
	pgAdminShutdown        = "57P01"
)

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// IsRetryable reports whether err is transient: a retry of the whole
// operation may succeed (serialization failures, deadlocks, timeouts,
// connection-level failures).
func IsRetryable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgQueryCanceled,
			pgTooManyConnections, pgAdminShutdown:
			return true
		}
		return false
	}

	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr)
}

// MapError classifies a storage error for callers: transient failures
// become RETRYABLE_STORAGE so upstreams know a retry is safe, everything
// else passes through.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	if IsRetryable(err) {
		return apperror.NewRetryableStorage(err)
	}
	return err
}
