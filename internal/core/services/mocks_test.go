package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.GLAccount, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GLAccount), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.GLAccount, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GLAccount), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.GLAccount, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.GLAccount), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.GLAccount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GLAccount), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.GLAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.GLAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, userID, now)
	return args.Error(0)
}

// MockPeriodRepository is a mock type for the PeriodRepositoryFacade interface
type MockPeriodRepository struct {
	mock.Mock
}

func (m *MockPeriodRepository) FindPeriodForDate(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockPeriodRepository) FindOverlappingPeriods(ctx context.Context, start, end time.Time) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

func (m *MockPeriodRepository) ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

func (m *MockPeriodRepository) SavePeriod(ctx context.Context, period domain.FiscalPeriod) error {
	args := m.Called(ctx, period)
	return args.Error(0)
}

func (m *MockPeriodRepository) UpdatePeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, userID string, now time.Time) error {
	args := m.Called(ctx, periodID, status, userID, now)
	return args.Error(0)
}

// MockJournalRepository is a mock type for the JournalRepositoryFacade interface
type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListPostedLinesByAccount(ctx context.Context, accountID string) ([]domain.LedgerRow, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerRow), args.Error(1)
}

func (m *MockJournalRepository) SumPostedLinesByAccount(ctx context.Context) ([]domain.AccountTotals, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountTotals), args.Error(1)
}

func (m *MockJournalRepository) CommitEntry(ctx context.Context, entry domain.JournalEntry) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) CommitReversal(ctx context.Context, originalEntryID string, reversal domain.JournalEntry) (*domain.JournalEntry, error) {
	args := m.Called(ctx, originalEntryID, reversal)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) LockEntriesInRange(ctx context.Context, start, end time.Time, userID string, now time.Time) (int64, error) {
	args := m.Called(ctx, start, end, userID, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockSummaryCache is a mock type for the SummaryCache interface
type MockSummaryCache struct {
	mock.Mock
}

func (m *MockSummaryCache) GetSummary(ctx context.Context) ([]domain.AccountSummary, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]domain.AccountSummary), args.Bool(1), args.Error(2)
}

func (m *MockSummaryCache) SummaryGeneration(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSummaryCache) SetSummary(ctx context.Context, generation int64, summaries []domain.AccountSummary) error {
	args := m.Called(ctx, generation, summaries)
	return args.Error(0)
}

func (m *MockSummaryCache) InvalidateSummary(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockEntryLocker is a mock type for the EntryLocker interface
type MockEntryLocker struct {
	mock.Mock
}

func (m *MockEntryLocker) LockEntriesInRange(ctx context.Context, start, end time.Time, userID string) (int64, error) {
	args := m.Called(ctx, start, end, userID)
	return args.Get(0).(int64), args.Error(1)
}

// recordingMetrics counts recorder calls.
type recordingMetrics struct {
	mu       sync.Mutex
	posted   map[string]int
	rejected map[string]int
	reversed int
	retried  map[string]int
	commits  map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		posted:   map[string]int{},
		rejected: map[string]int{},
		retried:  map[string]int{},
		commits:  map[string]int{},
	}
}

func (r *recordingMetrics) EntryPosted(sourceType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posted[sourceType]++
}

func (r *recordingMetrics) EntryRejected(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected[reason]++
}

func (r *recordingMetrics) EntryReversed() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reversed++
}

func (r *recordingMetrics) CommitRetried(op string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.retried[op]++
}

func (r *recordingMetrics) ObserveCommit(op string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commits[op]++
}
