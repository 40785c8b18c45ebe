package mapping

import (
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry header to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:           d.EntryID,
		SequenceNumber:    d.SequenceNumber,
		EntryDate:         domain.NormalizeDate(d.EntryDate),
		Memo:              d.Memo,
		SourceType:        string(d.SourceType),
		Status:            models.JournalStatus(d.Status),
		IsReversal:        d.IsReversal,
		ReversesEntryID:   d.ReversesEntryID,
		ReversedByEntryID: d.ReversedByEntryID,
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry and its lines to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry, lines []models.JournalLine) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:           m.EntryID,
		SequenceNumber:    m.SequenceNumber,
		EntryDate:         domain.NormalizeDate(m.EntryDate),
		Memo:              m.Memo,
		SourceType:        domain.SourceType(m.SourceType),
		Status:            domain.EntryStatus(m.Status),
		IsReversal:        m.IsReversal,
		ReversesEntryID:   m.ReversesEntryID,
		ReversedByEntryID: m.ReversedByEntryID,
		Lines:             ToDomainJournalLineSlice(lines),
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:      d.LineID,
		EntryID:     d.EntryID,
		LineNumber:  d.LineNumber,
		AccountID:   d.AccountID,
		AccountCode: d.AccountCode,
		Debit:       d.Debit,
		Credit:      d.Credit,
		Description: d.Description,
		CostCenter:  d.CostCenter,
		Department:  d.Department,
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		LineNumber:  m.LineNumber,
		AccountID:   m.AccountID,
		AccountCode: m.AccountCode,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Description: m.Description,
		CostCenter:  m.CostCenter,
		Department:  m.Department,
	}
}

// ToDomainJournalLineSlice converts a slice of model JournalLines to domain JournalLines
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}

// ToDomainLedgerRow converts a joined ledger line to a domain LedgerRow.
// RunningBalance is left for the query engine to fold.
func ToDomainLedgerRow(m models.LedgerLine) domain.LedgerRow {
	return domain.LedgerRow{
		EntryID:        m.EntryID,
		SequenceNumber: m.SequenceNumber,
		EntryDate:      domain.NormalizeDate(m.EntryDate),
		Memo:           m.Memo,
		SourceType:     domain.SourceType(m.SourceType),
		Status:         domain.EntryStatus(m.Status),
		LineID:         m.LineID,
		LineNumber:     m.LineNumber,
		Description:    m.Description,
		Debit:          m.Debit,
		Credit:         m.Credit,
	}
}
