package dto

import (
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountSummaryResponse is one account's totals and signed balance.
type AccountSummaryResponse struct {
	AccountID     string               `json:"accountID"`
	Code          string               `json:"code"`
	Name          string               `json:"name"`
	AccountType   domain.AccountType   `json:"accountType"`
	NormalBalance domain.NormalBalance `json:"normalBalance"`
	TotalDebit    decimal.Decimal      `json:"totalDebit" swaggertype:"string"`
	TotalCredit   decimal.Decimal      `json:"totalCredit" swaggertype:"string"`
	Balance       decimal.Decimal      `json:"balance" swaggertype:"string"`
}

// LedgerSummaryResponse wraps the summary of every account.
type LedgerSummaryResponse struct {
	Accounts []AccountSummaryResponse `json:"accounts"`
}

// LedgerRowResponse is one line of an account ledger with its running balance.
type LedgerRowResponse struct {
	EntryID        string             `json:"entryID"`
	SequenceNumber int64              `json:"sequenceNumber"`
	EntryDate      string             `json:"entryDate"`
	Memo           string             `json:"memo"`
	SourceType     domain.SourceType  `json:"sourceType"`
	Status         domain.EntryStatus `json:"status"`
	LineID         string             `json:"lineID"`
	Description    string             `json:"description,omitempty"`
	Debit          decimal.Decimal    `json:"debit" swaggertype:"string"`
	Credit         decimal.Decimal    `json:"credit" swaggertype:"string"`
	RunningBalance decimal.Decimal    `json:"runningBalance" swaggertype:"string"`
}

// AccountLedgerResponse is the drill-down for one account.
type AccountLedgerResponse struct {
	AccountID string              `json:"accountID"`
	Rows      []LedgerRowResponse `json:"rows"`
	Balance   decimal.Decimal     `json:"balance" swaggertype:"string"`
}

// ToLedgerSummaryResponse converts summaries to the response DTO.
func ToLedgerSummaryResponse(summaries []domain.AccountSummary) LedgerSummaryResponse {
	res := make([]AccountSummaryResponse, len(summaries))
	for i, s := range summaries {
		res[i] = AccountSummaryResponse{
			AccountID:     s.AccountID,
			Code:          s.Code,
			Name:          s.Name,
			AccountType:   s.AccountType,
			NormalBalance: s.NormalBalance,
			TotalDebit:    s.TotalDebit,
			TotalCredit:   s.TotalCredit,
			Balance:       s.Balance,
		}
	}
	return LedgerSummaryResponse{Accounts: res}
}

// ToAccountLedgerResponse converts ledger rows to the response DTO.
// Balance is the running balance of the last row.
func ToAccountLedgerResponse(accountID string, rows []domain.LedgerRow) AccountLedgerResponse {
	res := make([]LedgerRowResponse, len(rows))
	balance := decimal.Zero
	for i, r := range rows {
		res[i] = LedgerRowResponse{
			EntryID:        r.EntryID,
			SequenceNumber: r.SequenceNumber,
			EntryDate:      r.EntryDate.Format(domain.DateLayout),
			Memo:           r.Memo,
			SourceType:     r.SourceType,
			Status:         r.Status,
			LineID:         r.LineID,
			Description:    r.Description,
			Debit:          r.Debit,
			Credit:         r.Credit,
			RunningBalance: r.RunningBalance,
		}
		balance = r.RunningBalance
	}
	return AccountLedgerResponse{AccountID: accountID, Rows: res, Balance: balance}
}
