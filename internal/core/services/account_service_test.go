package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/core/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	mockRepo  *MockAccountRepository
	mockCache *MockSummaryCache
	service   portssvc.AccountSvcFacade
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockRepo = new(MockAccountRepository)
	suite.mockCache = new(MockSummaryCache)
	suite.service = services.NewAccountService(suite.mockRepo,
		services.WithSummaryCache(suite.mockCache),
		services.WithClock(func() time.Time { return fixedNow }))
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{Code: " 1000 ", Name: "Cash", AccountType: domain.Asset}

	suite.mockRepo.On("FindAccountByCode", suite.ctx, "1000").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.AnythingOfType("domain.GLAccount")).Return(nil).Once()
	suite.mockCache.On("InvalidateSummary", suite.ctx).Return(nil).Once()

	created, err := suite.service.CreateAccount(suite.ctx, req, "admin")

	suite.Require().NoError(err)
	suite.NotEmpty(created.AccountID)
	suite.Equal("1000", created.Code)
	suite.Equal(domain.DebitNormal, created.NormalBalance)
	suite.True(created.IsActive)
	suite.False(created.IsControlAccount)
	suite.Equal("admin", created.CreatedBy)
	suite.Equal(fixedNow, created.CreatedAt)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockCache.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DefaultsNormalBalanceByType() {
	tests := []struct {
		typ  domain.AccountType
		want domain.NormalBalance
	}{
		{domain.Asset, domain.DebitNormal},
		{domain.Expense, domain.DebitNormal},
		{domain.Liability, domain.CreditNormal},
		{domain.Equity, domain.CreditNormal},
		{domain.Revenue, domain.CreditNormal},
	}
	suite.mockRepo.On("FindAccountByCode", mock.Anything, mock.Anything).Return(nil, apperrors.ErrNotFound)
	suite.mockRepo.On("SaveAccount", mock.Anything, mock.Anything).Return(nil)
	suite.mockCache.On("InvalidateSummary", mock.Anything).Return(nil)

	for _, tt := range tests {
		created, err := suite.service.CreateAccount(suite.ctx, dto.CreateAccountRequest{Code: string(tt.typ), Name: "x", AccountType: tt.typ}, "admin")
		suite.Require().NoError(err)
		suite.Equal(tt.want, created.NormalBalance, tt.typ)
	}
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ContraAccountOverride() {
	suite.mockRepo.On("FindAccountByCode", suite.ctx, "1500").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.MatchedBy(func(a domain.GLAccount) bool {
		return a.NormalBalance == domain.CreditNormal && a.IsControlAccount
	})).Return(nil).Once()
	suite.mockCache.On("InvalidateSummary", suite.ctx).Return(nil).Once()

	_, err := suite.service.CreateAccount(suite.ctx, dto.CreateAccountRequest{
		Code: "1500", Name: "Accumulated Depreciation", AccountType: domain.Asset,
		NormalBalance: domain.CreditNormal, IsControlAccount: true,
	}, "admin")
	suite.Require().NoError(err)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	suite.mockRepo.On("FindAccountByCode", suite.ctx, "1000").Return(&domain.GLAccount{AccountID: "a", Code: "1000"}, nil).Once()

	_, err := suite.service.CreateAccount(suite.ctx, dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Asset}, "admin")

	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_ValidationErrors() {
	tests := map[string]dto.CreateAccountRequest{
		"missing code":   {Name: "Cash", AccountType: domain.Asset},
		"missing name":   {Code: "1000", AccountType: domain.Asset},
		"bad type":       {Code: "1000", Name: "Cash", AccountType: "EXOTIC"},
		"bad normal bal": {Code: "1000", Name: "Cash", AccountType: domain.Asset, NormalBalance: "SIDEWAYS"},
	}
	for name, req := range tests {
		suite.Run(name, func() {
			_, err := suite.service.CreateAccount(suite.ctx, req, "admin")
			suite.ErrorIs(err, apperrors.ErrValidation)
		})
	}
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_SaveError() {
	dbErr := errors.New("database error")
	suite.mockRepo.On("FindAccountByCode", suite.ctx, "1000").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockRepo.On("SaveAccount", suite.ctx, mock.Anything).Return(dbErr).Once()

	_, err := suite.service.CreateAccount(suite.ctx, dto.CreateAccountRequest{Code: "1000", Name: "Cash", AccountType: domain.Asset}, "admin")

	suite.ErrorIs(err, dbErr)
	suite.mockCache.AssertNotCalled(suite.T(), "InvalidateSummary", mock.Anything)
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	suite.mockRepo.On("FindAccountByID", suite.ctx, "missing").Return(nil, fmt.Errorf("account missing: %w", apperrors.ErrNotFound)).Once()

	_, err := suite.service.GetAccountByID(suite.ctx, "missing")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_LockAndRename() {
	existing := &domain.GLAccount{AccountID: "a", Code: "4000", Name: "Sales", AccountType: domain.Revenue, NormalBalance: domain.CreditNormal, IsActive: true}
	suite.mockRepo.On("FindAccountByID", suite.ctx, "a").Return(existing, nil).Once()
	suite.mockRepo.On("UpdateAccount", suite.ctx, mock.MatchedBy(func(a domain.GLAccount) bool {
		return a.Name == "Revenue" && a.IsLocked && a.Code == "4000" && a.LastUpdatedBy == "admin"
	})).Return(nil).Once()
	suite.mockCache.On("InvalidateSummary", suite.ctx).Return(nil).Once()

	name, locked := "Revenue", true
	updated, err := suite.service.UpdateAccount(suite.ctx, "a", dto.UpdateAccountRequest{Name: &name, IsLocked: &locked}, "admin")

	suite.Require().NoError(err)
	suite.True(updated.IsLocked)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestUpdateAccount_NoChangeSkipsWrite() {
	existing := &domain.GLAccount{AccountID: "a", Code: "4000", Name: "Revenue", IsActive: true}
	suite.mockRepo.On("FindAccountByID", suite.ctx, "a").Return(existing, nil).Once()

	name := "Revenue"
	_, err := suite.service.UpdateAccount(suite.ctx, "a", dto.UpdateAccountRequest{Name: &name}, "admin")

	suite.Require().NoError(err)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestDeactivateAccount() {
	suite.mockRepo.On("FindAccountByID", suite.ctx, "a").Return(&domain.GLAccount{AccountID: "a", IsActive: true}, nil).Once()
	suite.mockRepo.On("DeactivateAccount", suite.ctx, "a", "admin", fixedNow).Return(nil).Once()
	suite.mockCache.On("InvalidateSummary", suite.ctx).Return(nil).Once()

	suite.Require().NoError(suite.service.DeactivateAccount(suite.ctx, "a", "admin"))
	suite.mockRepo.AssertExpectations(suite.T())

	// already inactive is a no-op
	suite.mockRepo.On("FindAccountByID", suite.ctx, "b").Return(&domain.GLAccount{AccountID: "b"}, nil).Once()
	suite.Require().NoError(suite.service.DeactivateAccount(suite.ctx, "b", "admin"))
	suite.mockRepo.AssertNumberOfCalls(suite.T(), "DeactivateAccount", 1)
}
