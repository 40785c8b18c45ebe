package pgsql

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes the adapter reacts to.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgUniqueViolation      = "23505"
	pgAdminShutdown        = "57P01"
	pgCannotConnectNow     = "57P03"
)

// classifyError maps driver errors onto apperrors sentinels.
// Serialization failures, deadlocks and dropped connections become ErrTransient so the
// commit step can be retried as a whole.
func classifyError(msg string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgSerializationFailure, pgDeadlockDetected, pgAdminShutdown, pgCannotConnectNow:
			return apperrors.NewTransientError(msg, err)
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s (%s)", apperrors.ErrDuplicate, msg, pgErr.ConstraintName)
		}
		return apperrors.NewAppError(http.StatusInternalServerError, msg, err)
	}

	// A deadline is retried; the commit retry loop stops once the caller's own context is done.
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTransientError(msg, err)
	}
	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return apperrors.NewTransientError(msg, err)
	}
	return apperrors.NewAppError(http.StatusInternalServerError, msg, err)
}
