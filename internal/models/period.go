package models

import "time"

// FiscalPeriod is a row of fiscal_periods. Dates are DATE columns, inclusive on both ends.
type FiscalPeriod struct {
	PeriodID  string    `db:"period_id"`
	Name      string    `db:"name"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	Status    string    `db:"status"`
	AuditFields
}
