package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToDomainJournalEntry_NormalizesDatesAndCarriesLinks(t *testing.T) {
	reverses := "e-0"
	m := models.JournalEntry{
		EntryID:         "e-1",
		SequenceNumber:  12,
		EntryDate:       time.Date(2025, 1, 15, 0, 0, 0, 0, time.FixedZone("pg", 0)),
		SourceType:      "REVERSAL",
		Status:          models.Posted,
		IsReversal:      true,
		ReversesEntryID: &reverses,
	}
	lines := []models.JournalLine{
		{LineID: "l-1", EntryID: "e-1", LineNumber: 1, AccountID: "a", AccountCode: "1000", Debit: decimal.NewFromInt(5), Credit: decimal.Zero},
	}

	d := ToDomainJournalEntry(m, lines)

	assert.Equal(t, time.UTC, d.EntryDate.Location())
	assert.Equal(t, domain.SourceReversal, d.SourceType)
	assert.Equal(t, domain.StatusPosted, d.Status)
	assert.Equal(t, &reverses, d.ReversesEntryID)
	assert.Nil(t, d.ReversedByEntryID)
	if assert.Len(t, d.Lines, 1) {
		assert.Equal(t, "1000", d.Lines[0].AccountCode)
		assert.True(t, d.Lines[0].IsDebit())
	}
}

func TestToModelPeriod_TruncatesToCalendarDays(t *testing.T) {
	p := domain.FiscalPeriod{
		PeriodID:  "p",
		StartDate: time.Date(2025, 1, 1, 13, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 1, 31, 23, 59, 0, 0, time.UTC),
		Status:    domain.PeriodClosed,
	}

	m := ToModelPeriod(p)

	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), m.StartDate)
	assert.Equal(t, time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), m.EndDate)
	assert.Equal(t, "CLOSED", m.Status)
}

func TestAuditFields_MatchStoredPrecision(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	created := time.Date(2025, 3, 1, 10, 0, 0, 123456789, ist)

	m := ToModelAuditFields(domain.AuditFields{CreatedAt: created, CreatedBy: "alice"})

	assert.Equal(t, time.UTC, m.CreatedAt.Location())
	assert.Equal(t, 123456000, m.CreatedAt.Nanosecond())
	assert.True(t, created.Truncate(time.Microsecond).Equal(m.CreatedAt))
	assert.True(t, m.LastUpdatedAt.IsZero())
	assert.Equal(t, m.CreatedAt, ToDomainAuditFields(m).CreatedAt)
}
