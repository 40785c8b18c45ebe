package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/utils/accounting"
)

// LedgerQueryService derives balances from committed entries. It never locks or mutates.
type LedgerQueryService struct {
	BaseService
	accounts portsrepo.AccountReader
	journal  portsrepo.JournalReader
	opts     options
}

// NewLedgerQueryService creates the ledger query engine.
func NewLedgerQueryService(accounts portsrepo.AccountReader, journal portsrepo.JournalReader, opts ...Option) *LedgerQueryService {
	return &LedgerQueryService{
		accounts: accounts,
		journal:  journal,
		opts:     newOptions(opts),
	}
}

var _ portssvc.LedgerQuerySvc = (*LedgerQueryService)(nil)

// AccountSummary returns totals and signed balance for every account, ordered by code.
func (s *LedgerQueryService) AccountSummary(ctx context.Context) ([]domain.AccountSummary, error) {
	ctx, span := s.opts.tracer.Start(ctx, "ledger.AccountSummary")
	defer span.End()

	var generation int64
	cacheable := false
	if s.opts.summaryCache != nil {
		cached, ok, err := s.opts.summaryCache.GetSummary(ctx)
		switch {
		case err != nil:
			s.LogWarn(ctx, err, "Failed to read account summary cache, computing from store")
		case ok:
			span.SetAttributes(attribute.Bool("ledger.cache_hit", true))
			return cached, nil
		}
		// The generation must be read before the store so a commit landing in
		// between makes the write-back below fail instead of caching stale totals.
		if generation, err = s.opts.summaryCache.SummaryGeneration(ctx); err != nil {
			s.LogWarn(ctx, err, "Failed to read account summary generation, not caching")
		} else {
			cacheable = true
		}
	}
	span.SetAttributes(attribute.Bool("ledger.cache_hit", false))

	accounts, err := s.accounts.ListAccounts(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "failed to list accounts", err)
	}
	totals, err := s.journal.SumPostedLinesByAccount(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, "failed to sum ledger lines", err)
	}
	byAccount := make(map[string]domain.AccountTotals, len(totals))
	for _, t := range totals {
		byAccount[t.AccountID] = t
	}

	summaries := make([]domain.AccountSummary, 0, len(accounts))
	for _, acc := range accounts {
		t, ok := byAccount[acc.AccountID]
		if !ok {
			t = domain.AccountTotals{AccountID: acc.AccountID}
		}
		summary, err := accounting.SummarizeAccount(acc, t)
		if err != nil {
			return nil, s.fail(ctx, span, "failed to summarize account", err)
		}
		summaries = append(summaries, summary)
	}

	if cacheable {
		err := s.opts.summaryCache.SetSummary(ctx, generation, summaries)
		switch {
		case errors.Is(err, portsrepo.ErrSummaryStale):
			s.LogDebug(ctx, "Account summary changed while computing, not caching", slog.Int64("generation", generation))
		case err != nil:
			s.LogWarn(ctx, err, "Failed to store account summary in cache")
		}
	}
	return summaries, nil
}

// AccountLedger returns every counted line touching accountID in commit order,
// each carrying the running balance after it.
func (s *LedgerQueryService) AccountLedger(ctx context.Context, accountID string) ([]domain.LedgerRow, error) {
	ctx, span := s.opts.tracer.Start(ctx, "ledger.AccountLedger", trace.WithAttributes(
		attribute.String("ledger.account_id", accountID),
	))
	defer span.End()

	account, err := s.accounts.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("account %s not found", accountID))
		}
		return nil, s.fail(ctx, span, "failed to load account", err)
	}

	rows, err := s.journal.ListPostedLinesByAccount(ctx, accountID)
	if err != nil {
		return nil, s.fail(ctx, span, "failed to list ledger lines", err)
	}
	if _, err := accounting.FoldRunningBalance(rows, account.NormalBalance); err != nil {
		return nil, s.fail(ctx, span, "failed to fold running balance", err)
	}
	span.SetAttributes(attribute.Int("ledger.row_count", len(rows)))
	return rows, nil
}

func (s *LedgerQueryService) fail(ctx context.Context, span trace.Span, msg string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	s.LogError(ctx, err, msg)
	if apperrors.IsTransient(err) {
		return domain.NewTransientError("query", err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
