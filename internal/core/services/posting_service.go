package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/utils/accounting"
)

const (
	opPost    = "post"
	opReverse = "reverse"
	opGet     = "get_entry"
)

// engine holds what the posting and reversal paths share: the read-side guards
// (chart of accounts, fiscal periods) and the journal commit primitive.
type engine struct {
	BaseService
	accounts portsrepo.AccountReader
	periods  portsrepo.PeriodReader
	journal  portsrepo.JournalRepositoryFacade
	opts     options
}

// PostingService validates and commits journal entries.
type PostingService struct {
	*engine
}

// NewPostingService creates the posting engine.
func NewPostingService(accounts portsrepo.AccountReader, periods portsrepo.PeriodReader, journal portsrepo.JournalRepositoryFacade, opts ...Option) *PostingService {
	return &PostingService{engine: &engine{
		accounts: accounts,
		periods:  periods,
		journal:  journal,
		opts:     newOptions(opts),
	}}
}

var (
	_ portssvc.PostingSvc  = (*PostingService)(nil)
	_ portssvc.EntryLocker = (*PostingService)(nil)
)

// Post validates draft against the preconditions, in order, and commits it.
func (s *PostingService) Post(ctx context.Context, draft domain.JournalEntryDraft, actor domain.Actor) (*domain.JournalEntry, error) {
	ctx, span := s.opts.tracer.Start(ctx, "ledger.Post", trace.WithAttributes(
		attribute.String("ledger.source_type", string(draft.SourceType)),
		attribute.Int("ledger.line_count", len(draft.Lines)),
	))
	defer span.End()

	entry, err := s.prepare(ctx, opPost, draft, actor, false)
	if err != nil {
		return nil, s.reject(ctx, span, opPost, err)
	}

	committed, err := s.commitWithRetry(ctx, opPost, func(ctx context.Context) (*domain.JournalEntry, error) {
		return s.journal.CommitEntry(ctx, *entry)
	})
	if err != nil {
		return nil, s.reject(ctx, span, opPost, periodClosedAtCommit(opPost, err))
	}

	s.afterCommit(ctx, span, committed)
	return committed, nil
}

// GetEntry retrieves a committed entry with its lines.
func (s *PostingService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journal.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, domain.NewStateError(opGet, domain.ReasonEntryNotFound, "entry %s not found", entryID)
		}
		s.LogError(ctx, err, "Failed to load journal entry", slog.String("entry_id", entryID))
		return nil, fmt.Errorf("failed to load entry %s: %w", entryID, err)
	}
	return entry, nil
}

// LockEntriesInRange moves posted entries dated within [start, end] to LOCKED.
// Called when a fiscal period is locked; locked entries can no longer be reversed.
func (s *PostingService) LockEntriesInRange(ctx context.Context, start, end time.Time, userID string) (int64, error) {
	n, err := s.journal.LockEntriesInRange(ctx, domain.NormalizeDate(start), domain.NormalizeDate(end), userID, s.opts.now())
	if err != nil {
		s.LogError(ctx, err, "Failed to lock entries", slog.Time("start", start), slog.Time("end", end))
		return 0, fmt.Errorf("failed to lock entries: %w", err)
	}
	s.LogInfo(ctx, "Locked posted entries", slog.Int64("count", n), slog.Time("start", start), slog.Time("end", end))
	return n, nil
}

// prepare runs every precondition and, on success, builds the entry to commit.
// trusted is set only for drafts the engine builds itself (reversals).
func (s *engine) prepare(ctx context.Context, op string, draft domain.JournalEntryDraft, actor domain.Actor, trusted bool) (*domain.JournalEntry, error) {
	// 1. Draft shape.
	if len(draft.Lines) < 2 {
		return nil, domain.NewValidationError(op, domain.ReasonFewerThanTwoLines, "entry must have at least two lines, got %d", len(draft.Lines))
	}
	if draft.EntryDate.IsZero() {
		return nil, domain.NewValidationError(op, domain.ReasonMissingEntryDate, "entry date is required")
	}
	if !draft.SourceType.IsValid() {
		return nil, domain.NewValidationError(op, domain.ReasonInvalidSourceType, "unknown source type %q", draft.SourceType)
	}
	if draft.SourceType == domain.SourceReversal && !trusted {
		return nil, domain.NewPolicyError(op, domain.ReasonReversalSource, "reversal entries can only be created by reversing a posted entry")
	}
	for i, line := range draft.Lines {
		if err := accounting.ValidateLineAmounts(line.Debit, line.Credit); err != nil {
			return nil, domain.NewValidationError(op, domain.ReasonInvalidLineAmount, "line %d: %s", i+1, err.Error())
		}
	}

	// 2. Every line references an existing, active account.
	accounts, err := s.loadAccounts(ctx, op, draft.Lines)
	if err != nil {
		return nil, err
	}

	// 3. Exact balance.
	debits, credits := accounting.SumDraftLines(draft.Lines)
	if !accounting.IsBalanced(debits, credits) {
		return nil, domain.NewValidationError(op, domain.ReasonUnbalanced, "debits %s do not equal credits %s", debits.StringFixed(2), credits.StringFixed(2))
	}

	// 4. Control and locked accounts.
	for i, line := range draft.Lines {
		acc := accounts[line.AccountCode]
		if acc.IsControlAccount && !draft.SourceType.IsSystem() {
			return nil, domain.NewPolicyError(op, domain.ReasonControlAccount, "line %d: account %s is a control account and only accepts system postings", i+1, acc.Code)
		}
		if acc.IsLocked && draft.SourceType != domain.SourceReversal {
			return nil, domain.NewPolicyError(op, domain.ReasonAccountLocked, "line %d: account %s is locked", i+1, acc.Code)
		}
	}

	// 5. Fiscal period is open.
	entryDate := domain.NormalizeDate(draft.EntryDate)
	if err := s.checkPeriod(ctx, op, entryDate); err != nil {
		return nil, err
	}

	// 6. Capability.
	if !actor.CanPostEntries {
		return nil, domain.NewPolicyError(op, domain.ReasonCapabilityMissing, "caller %q may not post financial entries", actor.UserID)
	}
	if !trusted && draft.SourceType != domain.SourceManual && !actor.IsSystemProcess {
		return nil, domain.NewPolicyError(op, domain.ReasonCapabilityMissing, "source type %s is reserved for system processes", draft.SourceType)
	}

	return s.buildEntry(draft, entryDate, accounts, actor), nil
}

func (s *engine) loadAccounts(ctx context.Context, op string, lines []domain.DraftLine) (map[string]domain.GLAccount, error) {
	codes := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.AccountCode]; ok {
			continue
		}
		seen[l.AccountCode] = struct{}{}
		codes = append(codes, l.AccountCode)
	}
	sort.Strings(codes)

	accounts, err := s.accounts.FindAccountsByCodes(ctx, codes)
	if err != nil {
		if apperrors.IsTransient(err) {
			return nil, domain.NewTransientError(op, err)
		}
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}
	for i, l := range lines {
		acc, ok := accounts[l.AccountCode]
		if !ok {
			return nil, domain.NewValidationError(op, domain.ReasonUnknownAccount, "line %d: unknown account %q", i+1, l.AccountCode)
		}
		if !acc.IsActive {
			return nil, domain.NewValidationError(op, domain.ReasonInactiveAccount, "line %d: account %s is inactive", i+1, acc.Code)
		}
	}
	return accounts, nil
}

func (s *engine) checkPeriod(ctx context.Context, op string, entryDate time.Time) error {
	period, err := s.periods.FindPeriodForDate(ctx, entryDate)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if s.opts.allowOutsidePeriod {
				s.LogDebug(ctx, "Entry date outside any fiscal period, allowed by configuration", slog.Time("entry_date", entryDate))
				return nil
			}
			return domain.NewPolicyError(op, domain.ReasonPeriodNotFound, "no fiscal period covers %s", entryDate.Format(domain.DateLayout))
		}
		if apperrors.IsTransient(err) {
			return domain.NewTransientError(op, err)
		}
		return fmt.Errorf("failed to resolve fiscal period: %w", err)
	}
	if !period.IsPostable() {
		return domain.NewPolicyError(op, domain.ReasonPeriodClosed, "fiscal period %s is %s", period.Name, period.Status)
	}
	return nil
}

// periodClosedAtCommit turns a period that was closed or locked between the engine's
// check and the commit into the same rejection the check itself would have produced.
func periodClosedAtCommit(op string, err error) error {
	if !errors.Is(err, portsrepo.ErrPeriodNotPostable) {
		return err
	}
	le := domain.NewPolicyError(op, domain.ReasonPeriodClosed, "fiscal period changed before commit")
	le.Err = err
	return le
}

func (s *engine) buildEntry(draft domain.JournalEntryDraft, entryDate time.Time, accounts map[string]domain.GLAccount, actor domain.Actor) *domain.JournalEntry {
	now := s.opts.now()
	entryID := uuid.NewString()
	lines := make([]domain.JournalLine, len(draft.Lines))
	for i, l := range draft.Lines {
		acc := accounts[l.AccountCode]
		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			EntryID:     entryID,
			LineNumber:  i + 1,
			AccountID:   acc.AccountID,
			AccountCode: acc.Code,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
			CostCenter:  l.CostCenter,
			Department:  l.Department,
		}
	}
	return &domain.JournalEntry{
		EntryID:    entryID,
		EntryDate:  entryDate,
		Memo:       draft.Memo,
		SourceType: draft.SourceType,
		Status:     domain.StatusPosted,
		Lines:      lines,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}
}

// afterCommit publishes a successful commit: metrics, log, cache invalidation.
func (s *engine) afterCommit(ctx context.Context, span trace.Span, entry *domain.JournalEntry) {
	span.SetAttributes(
		attribute.String("ledger.entry_id", entry.EntryID),
		attribute.Int64("ledger.sequence_number", entry.SequenceNumber),
	)
	s.opts.metrics.EntryPosted(string(entry.SourceType))
	s.LogInfo(ctx, "Journal entry committed",
		slog.String("entry_id", entry.EntryID),
		slog.Int64("sequence_number", entry.SequenceNumber),
		slog.String("source_type", string(entry.SourceType)))

	if s.opts.summaryCache != nil {
		if err := s.opts.summaryCache.InvalidateSummary(ctx); err != nil {
			s.LogWarn(ctx, err, "Failed to invalidate account summary cache")
		}
	}
}

// reject records a failed operation and returns err unchanged.
func (s *engine) reject(ctx context.Context, span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	reason := "internal"
	if le, ok := domain.AsLedgerError(err); ok {
		reason = string(le.Reason)
		span.SetAttributes(attribute.String("ledger.reject_reason", reason))
	}
	s.opts.metrics.EntryRejected(reason)
	s.LogLedgerError(ctx, op, err)
	return err
}
