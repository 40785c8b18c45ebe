package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/adapters/database/memory"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/core/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var (
	clerk  = domain.Actor{UserID: "clerk", CanPostEntries: true}
	batch  = domain.Actor{UserID: "depreciation-job", CanPostEntries: true, IsSystemProcess: true}
	viewer = domain.Actor{UserID: "viewer"}
)

var fixedNow = time.Date(2025, 1, 20, 9, 30, 0, 0, time.UTC)

func amt(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func debit(code, amount string) domain.DraftLine {
	return domain.DraftLine{AccountCode: code, Debit: amt(amount), Credit: decimal.Zero}
}

func credit(code, amount string) domain.DraftLine {
	return domain.DraftLine{AccountCode: code, Debit: decimal.Zero, Credit: amt(amount)}
}

func draft(on string, lines ...domain.DraftLine) domain.JournalEntryDraft {
	return domain.JournalEntryDraft{EntryDate: day(on), Memo: "test entry", SourceType: domain.SourceManual, Lines: lines}
}

// ledgerSuite wires the real services over the in-memory store.
// Chart: 1000 Cash, 1500 Accumulated Depreciation (control, credit-normal contra asset),
// 4000 Revenue, 6000 Depreciation Expense.
// Periods: 2025-01 OPEN, 2025-02 CLOSED, 2025-03 OPEN.
type ledgerSuite struct {
	suite.Suite
	ctx   context.Context
	store *memory.Store
	svc   *portssvc.ServiceContainer
	opts  []services.Option

	cash, accumDepr, revenue, expense *domain.GLAccount
	jan, feb, mar                     *domain.FiscalPeriod
}

func (s *ledgerSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = memory.NewStore()
	opts := append([]services.Option{services.WithClock(func() time.Time { return fixedNow })}, s.opts...)
	s.svc = services.NewServiceContainer(memory.NewRepositoryProvider(s.store), opts...)

	s.cash = s.createAccount("1000", "Cash", domain.Asset, "", false)
	s.accumDepr = s.createAccount("1500", "Accumulated Depreciation", domain.Asset, domain.CreditNormal, true)
	s.revenue = s.createAccount("4000", "Revenue", domain.Revenue, "", false)
	s.expense = s.createAccount("6000", "Depreciation Expense", domain.Expense, "", false)

	s.jan = s.createPeriod("2025-01", "2025-01-01", "2025-01-31", domain.PeriodOpen)
	s.feb = s.createPeriod("2025-02", "2025-02-01", "2025-02-28", domain.PeriodClosed)
	s.mar = s.createPeriod("2025-03", "2025-03-01", "2025-03-31", domain.PeriodOpen)
}

func (s *ledgerSuite) createAccount(code, name string, typ domain.AccountType, normal domain.NormalBalance, control bool) *domain.GLAccount {
	acc, err := s.svc.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{
		Code:             code,
		Name:             name,
		AccountType:      typ,
		NormalBalance:    normal,
		IsControlAccount: control,
	}, "admin")
	s.Require().NoError(err)
	return acc
}

func (s *ledgerSuite) createPeriod(name, start, end string, status domain.PeriodStatus) *domain.FiscalPeriod {
	p, err := s.svc.Period.CreatePeriod(s.ctx, dto.CreatePeriodRequest{
		Name:      name,
		StartDate: start,
		EndDate:   end,
		Status:    status,
	}, "admin")
	s.Require().NoError(err)
	return p
}

func (s *ledgerSuite) balanceOf(accountID string) decimal.Decimal {
	summaries, err := s.svc.Ledger.AccountSummary(s.ctx)
	s.Require().NoError(err)
	for _, sum := range summaries {
		if sum.AccountID == accountID {
			return sum.Balance
		}
	}
	s.FailNow("account missing from summary", accountID)
	return decimal.Zero
}

func (s *ledgerSuite) requireReason(err error, reason domain.ErrorReason) *domain.LedgerError {
	s.Require().Error(err)
	le, ok := domain.AsLedgerError(err)
	s.Require().True(ok, "expected *domain.LedgerError, got %T: %v", err, err)
	s.Equal(reason, le.Reason, le.Error())
	return le
}

func (s *ledgerSuite) assertDecimal(want string, got decimal.Decimal) {
	s.True(amt(want).Equal(got), "want %s got %s", want, got.String())
}
