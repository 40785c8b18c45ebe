package domain

import "time"

// PeriodStatus is the posting-eligibility state of a fiscal period.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
	PeriodLocked PeriodStatus = "LOCKED"
)

// IsValid reports whether s is a known period status.
func (s PeriodStatus) IsValid() bool {
	switch s {
	case PeriodOpen, PeriodClosed, PeriodLocked:
		return true
	}
	return false
}

// CanTransitionTo reports whether an administrator may move a period from s to next.
// LOCKED is terminal; OPEN and CLOSED may be toggled.
func (s PeriodStatus) CanTransitionTo(next PeriodStatus) bool {
	if !next.IsValid() || s == next {
		return false
	}
	return s != PeriodLocked
}

// FiscalPeriod is a named, inclusive date range with a lock state.
type FiscalPeriod struct {
	PeriodID  string       `json:"periodID"`
	Name      string       `json:"name"`
	StartDate time.Time    `json:"startDate"`
	EndDate   time.Time    `json:"endDate"`
	Status    PeriodStatus `json:"status"`
	AuditFields
}

// Contains reports whether date falls inside the period, bounds inclusive.
func (p FiscalPeriod) Contains(date time.Time) bool {
	d := NormalizeDate(date)
	return !d.Before(NormalizeDate(p.StartDate)) && !d.After(NormalizeDate(p.EndDate))
}

// Overlaps reports whether the period shares at least one day with [start, end].
func (p FiscalPeriod) Overlaps(start, end time.Time) bool {
	return !NormalizeDate(start).After(NormalizeDate(p.EndDate)) &&
		!NormalizeDate(end).Before(NormalizeDate(p.StartDate))
}

// IsPostable reports whether entries dated inside the period may be committed.
func (p FiscalPeriod) IsPostable() bool {
	return p.Status == PeriodOpen
}
