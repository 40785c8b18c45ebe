package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/adapters/database/memory"
	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func entry(id string, on string, accountID string, amount int64) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:   id,
		EntryDate: date(on),
		Status:    domain.StatusPosted,
		Lines: []domain.JournalLine{
			{LineID: id + "-1", EntryID: id, LineNumber: 1, AccountID: accountID, Debit: decimal.NewFromInt(amount), Credit: decimal.Zero},
			{LineID: id + "-2", EntryID: id, LineNumber: 2, AccountID: "other", Debit: decimal.Zero, Credit: decimal.NewFromInt(amount)},
		},
	}
}

func TestStore_AccountCodesAreUnique(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	require.NoError(t, s.SaveAccount(ctx, domain.GLAccount{AccountID: "a1", Code: "1000"}))
	err := s.SaveAccount(ctx, domain.GLAccount{AccountID: "a2", Code: "1000"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	found, err := s.FindAccountsByCodes(ctx, []string{"1000", "9999"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Equal(t, "a1", found["1000"].AccountID)
}

func TestStore_CommitAssignsIncreasingSequence(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	first, err := s.CommitEntry(ctx, entry("e1", "2025-01-10", "cash", 100))
	require.NoError(t, err)
	second, err := s.CommitEntry(ctx, entry("e2", "2025-01-05", "cash", 50))
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.SequenceNumber)
	assert.Equal(t, int64(2), second.SequenceNumber)

	_, err = s.CommitEntry(ctx, entry("e1", "2025-01-10", "cash", 100))
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)
}

func TestStore_LedgerOrderIsDateThenSequence(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	_, err := s.CommitEntry(ctx, entry("late", "2025-01-10", "cash", 100))
	require.NoError(t, err)
	_, err = s.CommitEntry(ctx, entry("early", "2025-01-05", "cash", 50))
	require.NoError(t, err)
	_, err = s.CommitEntry(ctx, entry("same-day", "2025-01-10", "cash", 25))
	require.NoError(t, err)

	rows, err := s.ListPostedLinesByAccount(ctx, "cash")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "early", rows[0].EntryID)
	assert.Equal(t, "late", rows[1].EntryID)
	assert.Equal(t, "same-day", rows[2].EntryID)
}

func TestStore_CommitReversalIsConditional(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	_, err := s.CommitEntry(ctx, entry("orig", "2025-01-10", "cash", 100))
	require.NoError(t, err)

	rev := entry("rev", "2025-01-10", "cash", 100)
	rev.IsReversal = true
	committed, err := s.CommitReversal(ctx, "orig", rev)
	require.NoError(t, err)
	assert.Equal(t, int64(2), committed.SequenceNumber)

	original, err := s.FindEntryByID(ctx, "orig")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReversed, original.Status)
	require.NotNil(t, original.ReversedByEntryID)
	assert.Equal(t, "rev", *original.ReversedByEntryID)

	_, err = s.CommitReversal(ctx, "orig", entry("rev2", "2025-01-10", "cash", 100))
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	_, err = s.CommitReversal(ctx, "missing", entry("rev3", "2025-01-10", "cash", 100))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	// the reversal is POSTED but final
	_, err = s.CommitReversal(ctx, "rev", entry("rev4", "2025-01-10", "cash", 100))
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	// failed reversals consume no sequence number
	next, err := s.CommitEntry(ctx, entry("next", "2025-01-11", "cash", 1))
	require.NoError(t, err)
	assert.Equal(t, int64(3), next.SequenceNumber)
}

func TestStore_LockEntriesInRange(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()

	_, err := s.CommitEntry(ctx, entry("jan", "2025-01-31", "cash", 100))
	require.NoError(t, err)
	_, err = s.CommitEntry(ctx, entry("feb", "2025-02-01", "cash", 100))
	require.NoError(t, err)

	n, err := s.LockEntriesInRange(ctx, date("2025-01-01"), date("2025-01-31"), "admin", time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	jan, _ := s.FindEntryByID(ctx, "jan")
	feb, _ := s.FindEntryByID(ctx, "feb")
	assert.Equal(t, domain.StatusLocked, jan.Status)
	assert.Equal(t, domain.StatusPosted, feb.Status)
}

func TestStore_ReturnedEntriesAreCopies(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	_, err := s.CommitEntry(ctx, entry("e1", "2025-01-10", "cash", 100))
	require.NoError(t, err)

	got, err := s.FindEntryByID(ctx, "e1")
	require.NoError(t, err)
	got.Lines[0].Debit = decimal.NewFromInt(1)

	again, err := s.FindEntryByID(ctx, "e1")
	require.NoError(t, err)
	assert.True(t, again.Lines[0].Debit.Equal(decimal.NewFromInt(100)))
}

func TestStore_CommitRechecksPeriodStatus(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.SavePeriod(ctx, domain.FiscalPeriod{
		PeriodID: "p-jan", Name: "2025-01", StartDate: date("2025-01-01"), EndDate: date("2025-01-31"), Status: domain.PeriodOpen,
	}))

	orig, err := s.CommitEntry(ctx, entry("orig", "2025-01-10", "cash", 100))
	require.NoError(t, err)

	require.NoError(t, s.UpdatePeriodStatus(ctx, "p-jan", domain.PeriodClosed, "admin", time.Now()))

	_, err = s.CommitEntry(ctx, entry("late", "2025-01-20", "cash", 5))
	assert.ErrorIs(t, err, portsrepo.ErrPeriodNotPostable)
	_, err = s.CommitReversal(ctx, orig.EntryID, entry("rev", "2025-01-10", "cash", 100))
	assert.ErrorIs(t, err, portsrepo.ErrPeriodNotPostable)

	// dates outside every period are left to the engine
	next, err := s.CommitEntry(ctx, entry("feb", "2025-02-03", "cash", 5))
	require.NoError(t, err)
	assert.Equal(t, int64(2), next.SequenceNumber)
}
