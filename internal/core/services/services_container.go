package services

import (
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider, opts ...Option) *portssvc.ServiceContainer {
	posting := NewPostingService(repos.AccountRepo, repos.PeriodRepo, repos.JournalRepo, opts...)

	return &portssvc.ServiceContainer{
		Account:  NewAccountService(repos.AccountRepo, opts...),
		Period:   NewPeriodService(repos.PeriodRepo, posting, opts...),
		Posting:  posting,
		Reversal: NewReversalService(posting),
		Ledger:   NewLedgerQueryService(repos.AccountRepo, repos.JournalRepo, opts...),
	}
}
