package mapping

import (
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/models"
)

// storedTime is t as a timestamptz column returns it: UTC, microsecond precision.
func storedTime(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC().Truncate(time.Microsecond)
}

func ToModelAuditFields(d domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt:     storedTime(d.CreatedAt),
		CreatedBy:     d.CreatedBy,
		LastUpdatedAt: storedTime(d.LastUpdatedAt),
		LastUpdatedBy: d.LastUpdatedBy,
	}
}

// ToDomainAuditFields converts stored audit columns back to the domain, in UTC.
func ToDomainAuditFields(m models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     storedTime(m.CreatedAt),
		CreatedBy:     m.CreatedBy,
		LastUpdatedAt: storedTime(m.LastUpdatedAt),
		LastUpdatedBy: m.LastUpdatedBy,
	}
}
