package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// AccountReader defines read operations for the chart of accounts.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.GLAccount, error)

	// FindAccountByCode retrieves an account by its external code.
	FindAccountByCode(ctx context.Context, code string) (*domain.GLAccount, error)

	// FindAccountsByCodes retrieves the accounts matching codes, keyed by code.
	// Unknown codes are simply absent from the result.
	FindAccountsByCodes(ctx context.Context, codes []string) (map[string]domain.GLAccount, error)

	// ListAccounts retrieves every account ordered by code.
	ListAccounts(ctx context.Context) ([]domain.GLAccount, error)
}

// AccountWriter defines write operations for the chart of accounts.
type AccountWriter interface {
	// SaveAccount persists a new account. Returns apperrors.ErrDuplicate if the code is taken.
	SaveAccount(ctx context.Context, account domain.GLAccount) error

	// UpdateAccount updates the mutable fields of an account (name, lock flag).
	UpdateAccount(ctx context.Context, account domain.GLAccount) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
