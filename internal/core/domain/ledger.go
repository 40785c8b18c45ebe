package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountTotals are the raw debit/credit sums for one account over counted entries.
type AccountTotals struct {
	AccountID   string
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// AccountSummary is the per-account projection returned by the ledger query engine.
type AccountSummary struct {
	AccountID     string          `json:"accountID"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	AccountType   AccountType     `json:"accountType"`
	NormalBalance NormalBalance   `json:"normalBalance"`
	TotalDebit    decimal.Decimal `json:"totalDebit"`
	TotalCredit   decimal.Decimal `json:"totalCredit"`
	Balance       decimal.Decimal `json:"balance"`
}

// LedgerRow is one line touching an account, in commit order, with the running balance after it.
type LedgerRow struct {
	EntryID        string          `json:"entryID"`
	SequenceNumber int64           `json:"sequenceNumber"`
	EntryDate      time.Time       `json:"entryDate"`
	Memo           string          `json:"memo"`
	SourceType     SourceType      `json:"sourceType"`
	Status         EntryStatus     `json:"status"`
	LineID         string          `json:"lineID"`
	LineNumber     int             `json:"lineNumber"`
	Description    string          `json:"description,omitempty"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}
