package services

import (
	"context"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
)

// AccountReaderSvc defines read operations for the chart of accounts
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its unique identifier.
	GetAccountByID(ctx context.Context, accountID string) (*domain.GLAccount, error)

	// GetAccountByCode retrieves an account by its external code.
	GetAccountByCode(ctx context.Context, code string) (*domain.GLAccount, error)

	// ListAccounts retrieves the full chart of accounts.
	ListAccounts(ctx context.Context) ([]domain.GLAccount, error)
}

// AccountWriterSvc defines chart-of-accounts administration
type AccountWriterSvc interface {
	// CreateAccount registers a new account. The normal balance is fixed from here on.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.GLAccount, error)

	// UpdateAccount changes the display name or lock flag of an account.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.GLAccount, error)

	// DeactivateAccount marks an account as inactive. Accounts are never deleted.
	DeactivateAccount(ctx context.Context, accountID string, userID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
