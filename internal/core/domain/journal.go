package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the state of a journal entry.
type EntryStatus string

const (
	StatusDraft    EntryStatus = "DRAFT"
	StatusPosted   EntryStatus = "POSTED"
	StatusReversed EntryStatus = "REVERSED"
	StatusLocked   EntryStatus = "LOCKED"
)

// CountsTowardBalances reports whether lines of an entry in this status contribute to
// account totals. A reversed original still counts: its reversal entry offsets it.
func (s EntryStatus) CountsTowardBalances() bool {
	switch s {
	case StatusPosted, StatusReversed, StatusLocked:
		return true
	}
	return false
}

// SourceType identifies who originated an entry.
type SourceType string

const (
	SourceManual       SourceType = "MANUAL"
	SourceSystem       SourceType = "SYSTEM"
	SourceDisposal     SourceType = "DISPOSAL"
	SourceDepreciation SourceType = "DEPRECIATION"
	SourceReversal     SourceType = "REVERSAL"
)

// IsValid reports whether s is a known source type.
func (s SourceType) IsValid() bool {
	switch s {
	case SourceManual, SourceSystem, SourceDisposal, SourceDepreciation, SourceReversal:
		return true
	}
	return false
}

// IsSystem reports whether s is a trusted system source that may write to control accounts.
func (s SourceType) IsSystem() bool {
	switch s {
	case SourceSystem, SourceDisposal, SourceDepreciation, SourceReversal:
		return true
	}
	return false
}

// JournalEntry represents a single, balanced double-entry transaction.
type JournalEntry struct {
	EntryID           string        `json:"entryID"`
	SequenceNumber    int64         `json:"sequenceNumber"` // Assigned at commit, never reused
	EntryDate         time.Time     `json:"entryDate"`
	Memo              string        `json:"memo"`
	SourceType        SourceType    `json:"sourceType"`
	Status            EntryStatus   `json:"status"`
	IsReversal        bool          `json:"isReversal"`
	ReversesEntryID   *string       `json:"reversesEntryID,omitempty"`
	ReversedByEntryID *string       `json:"reversedByEntryID,omitempty"`
	Lines             []JournalLine `json:"lines"`
	AuditFields
}

// JournalLine is one debit or credit row of an entry. Exactly one of Debit/Credit is non-zero.
type JournalLine struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	LineNumber  int             `json:"lineNumber"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
	CostCenter  string          `json:"costCenter,omitempty"`
	Department  string          `json:"department,omitempty"`
}

// IsDebit reports whether the line sits on the debit side.
func (l JournalLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// JournalEntryDraft is an entry as submitted by a caller, before validation and commit.
type JournalEntryDraft struct {
	EntryDate  time.Time
	Memo       string
	SourceType SourceType
	Lines      []DraftLine
}

// DraftLine references its account by code, as external collaborators know accounts.
type DraftLine struct {
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
	CostCenter  string
	Department  string
}

// ReversalOptions tunes how a reversal entry is built.
type ReversalOptions struct {
	// EntryDate overrides the reversal's date. Defaults to the original entry's date.
	EntryDate *time.Time
}
