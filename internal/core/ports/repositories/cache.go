package repositories

import (
	"context"
	"errors"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// ErrSummaryStale is returned by SetSummary when the cache was invalidated after
// the caller read the generation, so the projection it holds may miss a commit.
var ErrSummaryStale = errors.New("account summary generation changed")

// SummaryCache stores the account-summary projection between commits.
//
// Every invalidation advances a generation counter. A projection computed after
// reading generation g is stored only while the generation is still g.
type SummaryCache interface {
	// GetSummary returns the cached projection and whether it was present.
	GetSummary(ctx context.Context) ([]domain.AccountSummary, bool, error)
	// SummaryGeneration returns the current generation. Read it before reading the store.
	SummaryGeneration(ctx context.Context) (int64, error)
	// SetSummary stores summaries computed at generation, or returns ErrSummaryStale.
	SetSummary(ctx context.Context, generation int64, summaries []domain.AccountSummary) error
	InvalidateSummary(ctx context.Context) error
}
