package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/cenkalti/backoff/v4"
)

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	if p.BaseDelay > 0 {
		exp.InitialInterval = p.BaseDelay
	}
	if p.MaxDelay > 0 {
		exp.MaxInterval = p.MaxDelay
	}
	// The attempt count bounds the retry, not wall time.
	exp.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(exp, p.MaxRetries), ctx)
}

// commitFunc is one attempt at the atomic commit step.
type commitFunc func(ctx context.Context) (*domain.JournalEntry, error)

// commitWithRetry runs fn, retrying only transient storage failures. The unit of work is
// all-or-nothing at the storage layer, so re-running it whole is safe.
// Exhausted retries surface as a transient LedgerError; other errors pass through untouched.
func (s *engine) commitWithRetry(ctx context.Context, op string, fn commitFunc) (*domain.JournalEntry, error) {
	start := time.Now()
	defer func() {
		s.opts.metrics.ObserveCommit(op, time.Since(start))
	}()

	attempt := 0
	entry, err := backoff.RetryNotifyWithData(func() (*domain.JournalEntry, error) {
		attempt++
		committed, err := fn(ctx)
		if err != nil && !apperrors.IsTransient(err) {
			return nil, backoff.Permanent(err)
		}
		return committed, err
	}, s.opts.retry.backOff(ctx), func(err error, wait time.Duration) {
		s.opts.metrics.CommitRetried(op)
		s.GetLogger(ctx).Warn("Transient failure committing entry, retrying",
			slog.String("op", op),
			slog.Int("attempt", attempt),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()))
	})
	if err != nil {
		if apperrors.IsTransient(err) {
			return nil, domain.NewTransientError(op, err)
		}
		return nil, err
	}
	return entry, nil
}
