//go:build integration

package pgsql_test

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/adapters/database/pgsql"
	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/core/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/SscSPs/ledger_core/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var clerk = domain.Actor{UserID: "clerk", CanPostEntries: true}

type PgsqlIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *tcpostgres.PostgresContainer
	pool      *pgxpool.Pool
	svc       *portssvc.ServiceContainer

	cash, revenue *domain.GLAccount
}

func TestPgsqlIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PgsqlIntegrationSuite))
}

func (s *PgsqlIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	container, err := tcpostgres.Run(s.ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("ledger_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	s.Require().NoError(err, "Failed to start PostgreSQL container")
	s.container = container

	dsn, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)
	s.Require().NoError(database.RunMigrations(dsn, nil))

	s.pool, err = database.NewPgxPool(s.ctx, dsn, database.PoolOptions{MaxConns: 20, Ping: true}, slog.Default())
	s.Require().NoError(err)

	s.svc = services.NewServiceContainer(pgsql.NewRepositoryProvider(s.pool),
		services.WithRetryPolicy(services.RetryPolicy{MaxRetries: 10, BaseDelay: 5 * time.Millisecond, MaxDelay: 50 * time.Millisecond}))

	s.cash = s.createAccount("1000", "Cash", domain.Asset)
	s.revenue = s.createAccount("4000", "Revenue", domain.Revenue)
	_, err = s.svc.Period.CreatePeriod(s.ctx, dto.CreatePeriodRequest{Name: "2025", StartDate: "2025-01-01", EndDate: "2025-12-31"}, "admin")
	s.Require().NoError(err)
}

func (s *PgsqlIntegrationSuite) TearDownSuite() {
	database.ClosePgxPool(s.pool, slog.Default())
	if s.container != nil {
		s.NoError(s.container.Terminate(s.ctx))
	}
}

func (s *PgsqlIntegrationSuite) createAccount(code, name string, typ domain.AccountType) *domain.GLAccount {
	acc, err := s.svc.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{Code: code, Name: name, AccountType: typ}, "admin")
	s.Require().NoError(err)
	return acc
}

func (s *PgsqlIntegrationSuite) sale(amount string) domain.JournalEntryDraft {
	return domain.JournalEntryDraft{
		EntryDate:  time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Memo:       "sale",
		SourceType: domain.SourceManual,
		Lines: []domain.DraftLine{
			{AccountCode: "1000", Debit: decimal.RequireFromString(amount), Credit: decimal.Zero},
			{AccountCode: "4000", Debit: decimal.Zero, Credit: decimal.RequireFromString(amount)},
		},
	}
}

func (s *PgsqlIntegrationSuite) balance(accountID string) decimal.Decimal {
	summaries, err := s.svc.Ledger.AccountSummary(s.ctx)
	s.Require().NoError(err)
	for _, sum := range summaries {
		if sum.AccountID == accountID {
			return sum.Balance
		}
	}
	return decimal.Zero
}

func (s *PgsqlIntegrationSuite) TestPostReverseRoundTrip() {
	before := s.balance(s.cash.AccountID)

	posted, err := s.svc.Posting.Post(s.ctx, s.sale("125.50"), clerk)
	s.Require().NoError(err)
	s.Positive(posted.SequenceNumber)

	loaded, err := s.svc.Posting.GetEntry(s.ctx, posted.EntryID)
	s.Require().NoError(err)
	s.Require().Len(loaded.Lines, 2)
	s.Equal("1000", loaded.Lines[0].AccountCode)
	s.True(loaded.Lines[0].Debit.Equal(decimal.RequireFromString("125.50")))
	s.True(s.balance(s.cash.AccountID).Sub(before).Equal(decimal.RequireFromString("125.50")))

	rev, err := s.svc.Reversal.Reverse(s.ctx, posted.EntryID, domain.ReversalOptions{}, clerk)
	s.Require().NoError(err)
	s.Greater(rev.SequenceNumber, posted.SequenceNumber)
	s.True(s.balance(s.cash.AccountID).Equal(before))

	_, err = s.svc.Reversal.Reverse(s.ctx, posted.EntryID, domain.ReversalOptions{}, clerk)
	le, ok := domain.AsLedgerError(err)
	s.Require().True(ok)
	s.Equal(domain.ReasonNotReversible, le.Reason)

	original, err := s.svc.Posting.GetEntry(s.ctx, posted.EntryID)
	s.Require().NoError(err)
	s.Equal(domain.StatusReversed, original.Status)
	s.Require().NotNil(original.ReversedByEntryID)
	s.Equal(rev.EntryID, *original.ReversedByEntryID)

	_, err = s.svc.Reversal.Reverse(s.ctx, rev.EntryID, domain.ReversalOptions{}, clerk)
	le, ok = domain.AsLedgerError(err)
	s.Require().True(ok)
	s.Equal(domain.ReasonNotReversible, le.Reason)

	// the repository enforces the same rule under the row lock
	_, err = pgsql.NewRepositoryProvider(s.pool).JournalRepo.CommitReversal(s.ctx, rev.EntryID, domain.JournalEntry{EntryID: "never-written"})
	s.ErrorIs(err, apperrors.ErrConflict)
}

func (s *PgsqlIntegrationSuite) TestCommitRechecksPeriodStatus() {
	_, err := s.svc.Period.CreatePeriod(s.ctx, dto.CreatePeriodRequest{
		Name: "2024", StartDate: "2024-01-01", EndDate: "2024-12-31", Status: domain.PeriodClosed,
	}, "admin")
	s.Require().NoError(err)

	journal := pgsql.NewRepositoryProvider(s.pool).JournalRepo
	_, err = journal.CommitEntry(s.ctx, domain.JournalEntry{EntryID: "never-written", EntryDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)})
	s.ErrorIs(err, portsrepo.ErrPeriodNotPostable)
	s.False(apperrors.IsTransient(err))
}

func (s *PgsqlIntegrationSuite) TestDuplicateAccountCode() {
	err := pgsql.NewRepositoryProvider(s.pool).AccountRepo.SaveAccount(s.ctx, domain.GLAccount{
		AccountID: "dup", Code: "1000", Name: "Cash again",
		AccountType: domain.Asset, NormalBalance: domain.DebitNormal, IsActive: true,
	})
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *PgsqlIntegrationSuite) TestConcurrentCommitsAreSerialized() {
	const workers = 20
	var wg sync.WaitGroup
	seqs := make(chan int64, workers)
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e, err := s.svc.Posting.Post(s.ctx, s.sale("1"), clerk)
			if err != nil {
				errs <- err
				return
			}
			seqs <- e.SequenceNumber
		}()
	}
	wg.Wait()
	close(seqs)
	close(errs)

	for err := range errs {
		// exhausted retries are the only acceptable failure
		require.ErrorIs(s.T(), err, apperrors.ErrTransient)
	}
	seen := map[int64]bool{}
	for seq := range seqs {
		s.False(seen[seq], "sequence %d assigned twice", seq)
		seen[seq] = true
	}
}

func (s *PgsqlIntegrationSuite) TestRunningBalanceMatchesSummary() {
	_, err := s.svc.Posting.Post(s.ctx, s.sale("10"), clerk)
	s.Require().NoError(err)

	rows, err := s.svc.Ledger.AccountLedger(s.ctx, s.revenue.AccountID)
	s.Require().NoError(err)
	s.Require().NotEmpty(rows)
	s.True(rows[len(rows)-1].RunningBalance.Equal(s.balance(s.revenue.AccountID)))
}
