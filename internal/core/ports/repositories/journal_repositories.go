package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// JournalReader defines read operations over committed entries.
type JournalReader interface {
	// FindEntryByID retrieves an entry with its lines ordered by line number.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListPostedLinesByAccount returns every counted line touching accountID,
	// ordered by entry date, then sequence number, then line number.
	// RunningBalance is left zero for the caller to fold.
	ListPostedLinesByAccount(ctx context.Context, accountID string) ([]domain.LedgerRow, error)

	// SumPostedLinesByAccount aggregates debit and credit totals per account over counted entries.
	SumPostedLinesByAccount(ctx context.Context) ([]domain.AccountTotals, error)
}

// ErrPeriodNotPostable is returned by a commit when the fiscal period covering the
// entry date stopped being OPEN after the engine checked it.
var ErrPeriodNotPostable = errors.New("fiscal period is not open")

// JournalWriter is the commit primitive. Only the posting and reversal engines call it.
// Both commits re-read the status of the period covering the entry date inside the
// commit and fail with ErrPeriodNotPostable if it is no longer OPEN.
type JournalWriter interface {
	// CommitEntry atomically assigns the next sequence number and persists the entry
	// and its lines. Nothing is visible if it fails.
	CommitEntry(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error)

	// CommitReversal atomically commits the reversal entry and flags the original as
	// REVERSED with a link to it. Returns apperrors.ErrNotFound if the original is missing
	// and apperrors.ErrConflict if it is no longer POSTED.
	CommitReversal(ctx context.Context, originalEntryID string, reversal domain.JournalEntry) (*domain.JournalEntry, error)

	// LockEntriesInRange moves POSTED entries dated within [start, end] to LOCKED.
	LockEntriesInRange(ctx context.Context, start, end time.Time, userID string, now time.Time) (int64, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
