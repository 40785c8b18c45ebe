package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
	Locked   JournalStatus = "LOCKED"
)

// JournalEntry is a row of journal_entries.
type JournalEntry struct {
	EntryID           string        `db:"entry_id"`
	SequenceNumber    int64         `db:"sequence_number"`
	EntryDate         time.Time     `db:"entry_date"`
	Memo              string        `db:"memo"`
	SourceType        string        `db:"source_type"`
	Status            JournalStatus `db:"status"`
	IsReversal        bool          `db:"is_reversal"`
	ReversesEntryID   *string       `db:"reverses_entry_id"`    // Nullable
	ReversedByEntryID *string       `db:"reversed_by_entry_id"` // Nullable
	AuditFields
}

// JournalLine is a row of journal_lines. AccountCode is joined from gl_accounts on reads.
type JournalLine struct {
	LineID      string          `db:"line_id"`
	EntryID     string          `db:"entry_id"`
	LineNumber  int             `db:"line_number"`
	AccountID   string          `db:"account_id"`
	AccountCode string          `db:"code"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	Description string          `db:"description"`
	CostCenter  string          `db:"cost_center"`
	Department  string          `db:"department"`
}

// LedgerLine is one joined row of the account ledger query.
type LedgerLine struct {
	EntryID        string          `db:"entry_id"`
	SequenceNumber int64           `db:"sequence_number"`
	EntryDate      time.Time       `db:"entry_date"`
	Memo           string          `db:"memo"`
	SourceType     string          `db:"source_type"`
	Status         JournalStatus   `db:"status"`
	LineID         string          `db:"line_id"`
	LineNumber     int             `db:"line_number"`
	Description    string          `db:"description"`
	Debit          decimal.Decimal `db:"debit"`
	Credit         decimal.Decimal `db:"credit"`
}
