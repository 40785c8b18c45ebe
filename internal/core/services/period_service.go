package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_core/internal/apperrors"
	"github.com/SscSPs/ledger_core/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_core/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_core/internal/core/ports/services"
	"github.com/SscSPs/ledger_core/internal/dto"
	"github.com/google/uuid"
)

// periodService is the fiscal period manager.
type periodService struct {
	BaseService
	periodRepo portsrepo.PeriodRepositoryFacade
	locker     portssvc.EntryLocker
	opts       options
}

// NewPeriodService creates the fiscal period manager. locker may be nil, in which case
// locking a period does not lock its entries.
func NewPeriodService(repo portsrepo.PeriodRepositoryFacade, locker portssvc.EntryLocker, opts ...Option) portssvc.PeriodSvcFacade {
	return &periodService{
		periodRepo: repo,
		locker:     locker,
		opts:       newOptions(opts),
	}
}

var _ portssvc.PeriodSvcFacade = (*periodService)(nil)

// PeriodFor answers "which period, if any, contains date".
func (s *periodService) PeriodFor(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error) {
	period, err := s.periodRepo.FindPeriodForDate(ctx, domain.NormalizeDate(date))
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find period for date", slog.Time("date", date))
		}
		return nil, err
	}
	return period, nil
}

func (s *periodService) GetPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	period, err := s.periodRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find period", slog.String("period_id", periodID))
		}
		return nil, err
	}
	return period, nil
}

func (s *periodService) ListPeriods(ctx context.Context) ([]domain.FiscalPeriod, error) {
	periods, err := s.periodRepo.ListPeriods(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list periods")
		return nil, err
	}
	return periods, nil
}

func (s *periodService) CreatePeriod(ctx context.Context, req dto.CreatePeriodRequest, userID string) (*domain.FiscalPeriod, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: period name is required", apperrors.ErrValidation)
	}
	start, end, err := req.ParseDates()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}
	status := req.Status
	if status == "" {
		status = domain.PeriodOpen
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown period status %q", apperrors.ErrValidation, status)
	}

	overlapping, err := s.periodRepo.FindOverlappingPeriods(ctx, start, end)
	if err != nil {
		s.LogError(ctx, err, "Failed to check period overlap")
		return nil, err
	}
	if len(overlapping) > 0 {
		return nil, fmt.Errorf("%w: period %s overlaps existing period %s", apperrors.ErrConflict, name, overlapping[0].Name)
	}

	now := s.opts.now()
	period := domain.FiscalPeriod{
		PeriodID:  uuid.NewString(),
		Name:      name,
		StartDate: start,
		EndDate:   end,
		Status:    status,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.periodRepo.SavePeriod(ctx, period); err != nil {
		s.LogError(ctx, err, "Failed to save period", slog.String("name", name))
		return nil, err
	}

	s.LogInfo(ctx, "Fiscal period created", slog.String("period_id", period.PeriodID), slog.String("name", name))
	return &period, nil
}

// SetPeriodStatus moves a period to status. Re-locking a LOCKED period re-runs the entry lock.
func (s *periodService) SetPeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, userID string) (*domain.FiscalPeriod, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown period status %q", apperrors.ErrValidation, status)
	}
	period, err := s.GetPeriodByID(ctx, periodID)
	if err != nil {
		return nil, err
	}

	relock := period.Status == domain.PeriodLocked && status == domain.PeriodLocked
	if !relock {
		if period.Status == status {
			return period, nil
		}
		if !period.Status.CanTransitionTo(status) {
			return nil, fmt.Errorf("%w: period %s cannot move from %s to %s", apperrors.ErrConflict, period.Name, period.Status, status)
		}

		now := s.opts.now()
		if err := s.periodRepo.UpdatePeriodStatus(ctx, periodID, status, userID, now); err != nil {
			s.LogError(ctx, err, "Failed to update period status", slog.String("period_id", periodID))
			return nil, err
		}
		period.Status = status
		period.LastUpdatedAt = now
		period.LastUpdatedBy = userID
	}

	if status == domain.PeriodLocked && s.locker != nil {
		if _, err := s.locker.LockEntriesInRange(ctx, period.StartDate, period.EndDate, userID); err != nil {
			return nil, err
		}
	}

	s.LogInfo(ctx, "Fiscal period status changed", slog.String("period_id", periodID), slog.String("status", string(status)))
	return period, nil
}
