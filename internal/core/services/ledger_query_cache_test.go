package services_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	rediscache "github.com/SscSPs/ledger_core/internal/adapters/cache/redis"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_core/internal/core/services"
)

// commitDuringSum runs onSum once, right after the totals were read from the store.
type commitDuringSum struct {
	portsrepo.JournalReader
	onSum func()
}

func (r *commitDuringSum) SumPostedLinesByAccount(ctx context.Context) ([]domain.AccountTotals, error) {
	totals, err := r.JournalReader.SumPostedLinesByAccount(ctx)
	if r.onSum != nil {
		r.onSum()
		r.onSum = nil
	}
	return totals, err
}

type RedisSummaryCacheTestSuite struct {
	ledgerSuite
	redis *miniredis.Miniredis
	cache *rediscache.SummaryCache
}

func TestRedisSummaryCacheTestSuite(t *testing.T) {
	suite.Run(t, new(RedisSummaryCacheTestSuite))
}

func (s *RedisSummaryCacheTestSuite) SetupTest() {
	s.redis = miniredis.RunT(s.T())
	client := redis.NewClient(&redis.Options{Addr: s.redis.Addr()})
	s.T().Cleanup(func() { _ = client.Close() })
	s.cache = rediscache.NewSummaryCache(client, 0)
	s.opts = []services.Option{services.WithSummaryCache(s.cache)}
	s.ledgerSuite.SetupTest()
}

func (s *RedisSummaryCacheTestSuite) cashLedgerBalance() decimal.Decimal {
	rows, err := s.svc.Ledger.AccountLedger(s.ctx, s.cash.AccountID)
	s.Require().NoError(err)
	if len(rows) == 0 {
		return decimal.Zero
	}
	return rows[len(rows)-1].RunningBalance
}

func (s *RedisSummaryCacheTestSuite) TestCommitDuringSummaryIsNotCached() {
	racing := services.NewLedgerQueryService(s.store, &commitDuringSum{
		JournalReader: s.store,
		onSum: func() {
			_, err := s.svc.Posting.Post(s.ctx, draft("2025-01-10", debit("1000", "1000"), credit("4000", "1000")), clerk)
			s.Require().NoError(err)
		},
	}, services.WithSummaryCache(s.cache))

	// computed before the commit became visible
	summaries, err := racing.AccountSummary(s.ctx)
	s.Require().NoError(err)
	s.Require().NotEmpty(summaries)
	s.False(s.redis.Exists(rediscache.SummaryKey), "totals read before the commit must not be cached")

	s.assertDecimal("1000", s.balanceOf(s.cash.AccountID))
	s.assertDecimal("1000", s.cashLedgerBalance())
	s.True(s.redis.Exists(rediscache.SummaryKey))
}

func (s *RedisSummaryCacheTestSuite) TestCachedSummaryTracksCommits() {
	s.assertDecimal("0", s.balanceOf(s.cash.AccountID))
	s.True(s.redis.Exists(rediscache.SummaryKey))

	_, err := s.svc.Posting.Post(s.ctx, draft("2025-01-10", debit("1000", "250"), credit("4000", "250")), clerk)
	s.Require().NoError(err)
	s.False(s.redis.Exists(rediscache.SummaryKey))

	s.assertDecimal("250", s.balanceOf(s.cash.AccountID))
	s.assertDecimal("250", s.cashLedgerBalance())
}
