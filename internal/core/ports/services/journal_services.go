package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// PostingSvc validates and commits journal entries.
type PostingSvc interface {
	// Post checks the draft's preconditions in order and commits it with the next sequence number.
	// Failures are *domain.LedgerError values and leave no trace in the ledger.
	Post(ctx context.Context, draft domain.JournalEntryDraft, actor domain.Actor) (*domain.JournalEntry, error)

	// GetEntry retrieves a committed entry with its lines.
	GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)
}

// EntryLocker moves posted entries to LOCKED when their period is locked.
type EntryLocker interface {
	LockEntriesInRange(ctx context.Context, start, end time.Time, userID string) (int64, error)
}

// ReversalSvc negates posted entries with a linked mirror entry.
type ReversalSvc interface {
	Reverse(ctx context.Context, entryID string, opts domain.ReversalOptions, actor domain.Actor) (*domain.JournalEntry, error)
}

// LedgerQuerySvc derives read projections from committed entries. It never mutates state.
type LedgerQuerySvc interface {
	AccountSummary(ctx context.Context) ([]domain.AccountSummary, error)
	AccountLedger(ctx context.Context, accountID string) ([]domain.LedgerRow, error)
}
