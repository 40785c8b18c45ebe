package services

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/utils/accounting"
)

// ReversalService negates posted entries. The mirror entry goes through the same
// preconditions and commit primitive as any posting.
type ReversalService struct {
	*engine
}

// NewReversalService creates the reversal engine on top of the posting engine's guards.
func NewReversalService(posting *PostingService) *ReversalService {
	return &ReversalService{engine: posting.engine}
}

var _ portssvc.ReversalSvc = (*ReversalService)(nil)

// Reverse commits a mirror of entryID and flags the original as REVERSED, atomically.
func (s *ReversalService) Reverse(ctx context.Context, entryID string, opts domain.ReversalOptions, actor domain.Actor) (*domain.JournalEntry, error) {
	ctx, span := s.opts.tracer.Start(ctx, "ledger.Reverse", trace.WithAttributes(
		attribute.String("ledger.original_entry_id", entryID),
	))
	defer span.End()

	original, err := s.journal.FindEntryByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			err = domain.NewStateError(opReverse, domain.ReasonEntryNotFound, "entry %s not found", entryID)
		} else if apperrors.IsTransient(err) {
			err = domain.NewTransientError(opReverse, err)
		} else {
			err = fmt.Errorf("failed to load entry %s: %w", entryID, err)
		}
		return nil, s.reject(ctx, span, opReverse, err)
	}
	if original.Status != domain.StatusPosted {
		return nil, s.reject(ctx, span, opReverse, domain.NewStateError(opReverse, domain.ReasonNotReversible,
			"entry #%d has status %s, only POSTED entries can be reversed", original.SequenceNumber, original.Status))
	}
	// A reversal is final: correcting it means posting a new entry.
	if original.IsReversal {
		return nil, s.reject(ctx, span, opReverse, domain.NewStateError(opReverse, domain.ReasonNotReversible,
			"entry #%d is itself a reversal and cannot be reversed", original.SequenceNumber))
	}

	entry, err := s.prepare(ctx, opReverse, mirrorDraft(original, opts), actor, true)
	if err != nil {
		return nil, s.reject(ctx, span, opReverse, err)
	}
	entry.IsReversal = true
	entry.ReversesEntryID = &original.EntryID

	committed, err := s.commitWithRetry(ctx, opReverse, func(ctx context.Context) (*domain.JournalEntry, error) {
		return s.journal.CommitReversal(ctx, original.EntryID, *entry)
	})
	if err != nil {
		// Another caller reversed or locked the original, or closed its period, between our read and the commit.
		switch {
		case errors.Is(err, portsrepo.ErrPeriodNotPostable):
			err = periodClosedAtCommit(opReverse, err)
		case errors.Is(err, apperrors.ErrNotFound) && !isLedgerError(err):
			err = domain.NewStateError(opReverse, domain.ReasonEntryNotFound, "entry %s not found", entryID)
		case errors.Is(err, apperrors.ErrConflict) && !isLedgerError(err):
			err = domain.NewStateError(opReverse, domain.ReasonNotReversible, "entry #%d is no longer reversible", original.SequenceNumber)
		}
		return nil, s.reject(ctx, span, opReverse, err)
	}

	s.opts.metrics.EntryReversed()
	s.afterCommit(ctx, span, committed)
	return committed, nil
}

func mirrorDraft(original *domain.JournalEntry, opts domain.ReversalOptions) domain.JournalEntryDraft {
	date := original.EntryDate
	if opts.EntryDate != nil {
		date = *opts.EntryDate
	}
	memo := fmt.Sprintf("Reversal of entry #%d", original.SequenceNumber)
	if original.Memo != "" {
		memo += ": " + original.Memo
	}
	return domain.JournalEntryDraft{
		EntryDate:  date,
		Memo:       memo,
		SourceType: domain.SourceReversal,
		Lines:      accounting.MirrorLines(original.Lines),
	}
}

func isLedgerError(err error) bool {
	_, ok := domain.AsLedgerError(err)
	return ok
}
