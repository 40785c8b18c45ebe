// Package memory is an in-process ledger store with the same commit semantics as the
// PostgreSQL adapter: one writer at a time, sequence assignment and entry insertion
// applied together or not at all.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
)

// Store holds accounts, periods and journal entries in memory.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type Store struct {
	mu sync.RWMutex

	accounts      map[string]domain.GLAccount // by AccountID
	accountByCode map[string]string           // code -> AccountID
	periods       map[string]domain.FiscalPeriod
	entries       map[string]domain.JournalEntry
	entryOrder    []string // entry IDs in commit order
	lastSequence  int64
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		accounts:      make(map[string]domain.GLAccount),
		accountByCode: make(map[string]string),
		periods:       make(map[string]domain.FiscalPeriod),
		entries:       make(map[string]domain.JournalEntry),
	}
}

// NewRepositoryProvider exposes one store through every repository port.
func NewRepositoryProvider(store *Store) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo: store,
		PeriodRepo:  store,
		JournalRepo: store,
	}
}

var (
	_ portsrepo.AccountRepositoryFacade = (*Store)(nil)
	_ portsrepo.PeriodRepositoryFacade  = (*Store)(nil)
	_ portsrepo.JournalRepositoryFacade = (*Store)(nil)
)

// --- accounts ---

func (s *Store) FindAccountByID(ctx context.Context, accountID string) (*domain.GLAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &acc, nil
}

func (s *Store) FindAccountByCode(ctx context.Context, code string) (*domain.GLAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.accountByCode[code]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	acc := s.accounts[id]
	return &acc, nil
}

func (s *Store) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.GLAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	found := make(map[string]domain.GLAccount, len(codes))
	for _, code := range codes {
		if id, ok := s.accountByCode[code]; ok {
			found[code] = s.accounts[id]
		}
	}
	return found, nil
}

func (s *Store) ListAccounts(ctx context.Context) ([]domain.GLAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	accounts := make([]domain.GLAccount, 0, len(s.accounts))
	for _, acc := range s.accounts {
		accounts = append(accounts, acc)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Code < accounts[j].Code })
	return accounts, nil
}

func (s *Store) SaveAccount(ctx context.Context, account domain.GLAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accountByCode[account.Code]; ok {
		return apperrors.ErrDuplicate
	}
	if _, ok := s.accounts[account.AccountID]; ok {
		return apperrors.ErrDuplicate
	}
	s.accounts[account.AccountID] = account
	s.accountByCode[account.Code] = account.AccountID
	return nil
}

// UpdateAccount only touches name, lock flag and audit fields; code, type and normal balance are immutable.
func (s *Store) UpdateAccount(ctx context.Context, account domain.GLAccount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.accounts[account.AccountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	existing.Name = account.Name
	existing.IsLocked = account.IsLocked
	existing.LastUpdatedAt = account.LastUpdatedAt
	existing.LastUpdatedBy = account.LastUpdatedBy
	s.accounts[account.AccountID] = existing
	return nil
}

func (s *Store) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[accountID]
	if !ok {
		return apperrors.ErrNotFound
	}
	acc.IsActive = false
	acc.LastUpdatedAt = now
	acc.LastUpdatedBy = userID
	s.accounts[accountID] = acc
	return nil
}

// --- periods ---

func (s *Store) FindPeriodForDate(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.periods {
		if p.Contains(date) {
			found := p
			return &found, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *Store) FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.periods[periodID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &p, nil
}

func (s *Store) FindOverlappingPeriods(ctx context.Context, start, end time.Time) ([]domain.FiscalPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var overlapping []domain.FiscalPeriod
	for _, p := range s.periods {
		if p.Overlaps(start, end) {
			overlapping = append(overlapping, p)
		}
	}
	sortPeriods(overlapping)
	return overlapping, nil
}

func (s *Store) ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	periods := make([]domain.FiscalPeriod, 0, len(s.periods))
	for _, p := range s.periods {
		periods = append(periods, p)
	}
	sortPeriods(periods)
	return periods, nil
}

func (s *Store) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.periods[period.PeriodID]; ok {
		return apperrors.ErrDuplicate
	}
	s.periods[period.PeriodID] = period
	return nil
}

func (s *Store) UpdatePeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, userID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.periods[periodID]
	if !ok {
		return apperrors.ErrNotFound
	}
	p.Status = status
	p.LastUpdatedAt = now
	p.LastUpdatedBy = userID
	s.periods[periodID] = p
	return nil
}

func sortPeriods(periods []domain.FiscalPeriod) {
	sort.Slice(periods, func(i, j int) bool { return periods[i].StartDate.Before(periods[j].StartDate) })
}
