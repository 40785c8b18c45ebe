package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/dto"
)

// PeriodReaderSvc answers "is this date postable".
type PeriodReaderSvc interface {
	// PeriodFor returns the fiscal period containing date, or apperrors.ErrNotFound.
	PeriodFor(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error)

	GetPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)
	ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error)
}

// PeriodWriterSvc defines fiscal period administration.
type PeriodWriterSvc interface {
	// CreatePeriod registers a period. Overlapping an existing period is rejected.
	CreatePeriod(ctx context.Context, req dto.CreatePeriodRequest, userID string) (*domain.FiscalPeriod, error)

	// SetPeriodStatus moves a period between OPEN, CLOSED and LOCKED.
	// Locking a period also locks the posted entries dated inside it.
	SetPeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, userID string) (*domain.FiscalPeriod, error)
}

// PeriodSvcFacade combines all period-related service interfaces
type PeriodSvcFacade interface {
	PeriodReaderSvc
	PeriodWriterSvc
}
