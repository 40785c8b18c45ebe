package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

func (s *Store) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[entryID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return cloneEntry(e), nil
}

// CommitEntry assigns the next sequence number and stores the entry under the write lock.
func (s *Store) CommitEntry(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensurePeriodOpenLocked(entry.EntryDate); err != nil {
		return nil, err
	}
	return s.insertLocked(entry)
}

// CommitReversal stores the reversal and flags the original under one write lock.
func (s *Store) CommitReversal(ctx context.Context, originalEntryID string, reversal domain.JournalEntry) (*domain.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	original, ok := s.entries[originalEntryID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if original.Status != domain.StatusPosted || original.IsReversal {
		return nil, apperrors.ErrConflict
	}
	if err := s.ensurePeriodOpenLocked(reversal.EntryDate); err != nil {
		return nil, err
	}

	committed, err := s.insertLocked(reversal)
	if err != nil {
		return nil, err
	}
	original.Status = domain.StatusReversed
	reversalID := committed.EntryID
	original.ReversedByEntryID = &reversalID
	original.LastUpdatedAt = committed.CreatedAt
	original.LastUpdatedBy = committed.CreatedBy
	s.entries[originalEntryID] = original
	return committed, nil
}

func (s *Store) ensurePeriodOpenLocked(date time.Time) error {
	for _, p := range s.periods {
		if p.Contains(date) && !p.IsPostable() {
			return fmt.Errorf("period %s is %s: %w", p.Name, p.Status, portsrepo.ErrPeriodNotPostable)
		}
	}
	return nil
}

func (s *Store) insertLocked(entry domain.JournalEntry) (*domain.JournalEntry, error) {
	if _, ok := s.entries[entry.EntryID]; ok {
		return nil, apperrors.ErrDuplicate
	}
	s.lastSequence++
	entry.SequenceNumber = s.lastSequence
	stored := cloneEntry(entry)
	s.entries[entry.EntryID] = *stored
	s.entryOrder = append(s.entryOrder, entry.EntryID)
	return cloneEntry(*stored), nil
}

func (s *Store) LockEntriesInRange(ctx context.Context, start, end time.Time, userID string, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	period := domain.FiscalPeriod{StartDate: start, EndDate: end}
	var n int64
	for id, e := range s.entries {
		if e.Status == domain.StatusPosted && period.Contains(e.EntryDate) {
			e.Status = domain.StatusLocked
			e.LastUpdatedAt = now
			e.LastUpdatedBy = userID
			s.entries[id] = e
			n++
		}
	}
	return n, nil
}

func (s *Store) ListPostedLinesByAccount(ctx context.Context, accountID string) ([]domain.LedgerRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var rows []domain.LedgerRow
	for _, id := range s.entryOrder {
		e := s.entries[id]
		if !e.Status.CountsTowardBalances() {
			continue
		}
		for _, l := range e.Lines {
			if l.AccountID != accountID {
				continue
			}
			rows = append(rows, domain.LedgerRow{
				EntryID:        e.EntryID,
				SequenceNumber: e.SequenceNumber,
				EntryDate:      e.EntryDate,
				Memo:           e.Memo,
				SourceType:     e.SourceType,
				Status:         e.Status,
				LineID:         l.LineID,
				LineNumber:     l.LineNumber,
				Description:    l.Description,
				Debit:          l.Debit,
				Credit:         l.Credit,
			})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].EntryDate.Equal(rows[j].EntryDate) {
			return rows[i].EntryDate.Before(rows[j].EntryDate)
		}
		if rows[i].SequenceNumber != rows[j].SequenceNumber {
			return rows[i].SequenceNumber < rows[j].SequenceNumber
		}
		return rows[i].LineNumber < rows[j].LineNumber
	})
	return rows, nil
}

func (s *Store) SumPostedLinesByAccount(ctx context.Context) ([]domain.AccountTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byAccount := make(map[string]*domain.AccountTotals)
	for _, id := range s.entryOrder {
		e := s.entries[id]
		if !e.Status.CountsTowardBalances() {
			continue
		}
		for _, l := range e.Lines {
			t, ok := byAccount[l.AccountID]
			if !ok {
				t = &domain.AccountTotals{AccountID: l.AccountID, TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
				byAccount[l.AccountID] = t
			}
			t.TotalDebit = t.TotalDebit.Add(l.Debit)
			t.TotalCredit = t.TotalCredit.Add(l.Credit)
		}
	}
	totals := make([]domain.AccountTotals, 0, len(byAccount))
	for _, t := range byAccount {
		totals = append(totals, *t)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].AccountID < totals[j].AccountID })
	return totals, nil
}

// cloneEntry copies an entry deeply enough that callers cannot mutate stored lines or links.
func cloneEntry(e domain.JournalEntry) *domain.JournalEntry {
	c := e
	c.Lines = append([]domain.JournalLine(nil), e.Lines...)
	if e.ReversesEntryID != nil {
		id := *e.ReversesEntryID
		c.ReversesEntryID = &id
	}
	if e.ReversedByEntryID != nil {
		id := *e.ReversedByEntryID
		c.ReversedByEntryID = &id
	}
	return &c
}
