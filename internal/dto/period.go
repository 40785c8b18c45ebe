package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// CreatePeriodRequest defines a new fiscal period. Dates are inclusive.
type CreatePeriodRequest struct {
	Name      string              `json:"name" binding:"required,max=100" example:"FY2025-01"`
	StartDate string              `json:"startDate" binding:"required,datetime=2006-01-02" example:"2025-01-01"`
	EndDate   string              `json:"endDate" binding:"required,datetime=2006-01-02" example:"2025-01-31"`
	Status    domain.PeriodStatus `json:"status,omitempty" binding:"omitempty,oneof=OPEN CLOSED LOCKED"` // Defaults to OPEN
}

// UpdatePeriodStatusRequest moves a period to a new status.
type UpdatePeriodStatusRequest struct {
	Status domain.PeriodStatus `json:"status" binding:"required,oneof=OPEN CLOSED LOCKED"`
}

// PeriodResponse defines the data returned for a fiscal period.
type PeriodResponse struct {
	PeriodID  string              `json:"periodID"`
	Name      string              `json:"name"`
	StartDate string              `json:"startDate"`
	EndDate   string              `json:"endDate"`
	Status    domain.PeriodStatus `json:"status"`
	Postable  bool                `json:"postable"`
}

// ListPeriodsResponse wraps the list of periods.
type ListPeriodsResponse struct {
	Periods []PeriodResponse `json:"periods"`
}

// ParseDates parses the request's date range and checks its order.
func (r CreatePeriodRequest) ParseDates() (start, end time.Time, err error) {
	start, err = domain.ParseDate(r.StartDate)
	if err != nil {
		return start, end, fmt.Errorf("invalid startDate %q: %w", r.StartDate, err)
	}
	end, err = domain.ParseDate(r.EndDate)
	if err != nil {
		return start, end, fmt.Errorf("invalid endDate %q: %w", r.EndDate, err)
	}
	if end.Before(start) {
		return start, end, fmt.Errorf("endDate %s is before startDate %s", r.EndDate, r.StartDate)
	}
	return start, end, nil
}

// ToPeriodResponse converts a domain.FiscalPeriod to PeriodResponse DTO.
func ToPeriodResponse(p *domain.FiscalPeriod) PeriodResponse {
	return PeriodResponse{
		PeriodID:  p.PeriodID,
		Name:      p.Name,
		StartDate: p.StartDate.Format(domain.DateLayout),
		EndDate:   p.EndDate.Format(domain.DateLayout),
		Status:    p.Status,
		Postable:  p.IsPostable(),
	}
}

// ToListPeriodsResponse converts periods to a ListPeriodsResponse.
func ToListPeriodsResponse(periods []domain.FiscalPeriod) ListPeriodsResponse {
	res := make([]PeriodResponse, len(periods))
	for i := range periods {
		res[i] = ToPeriodResponse(&periods[i])
	}
	return ListPeriodsResponse{Periods: res}
}
