package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateEntryLineRequest is one debit or credit line of a submitted draft.
type CreateEntryLineRequest struct {
	AccountCode string          `json:"accountCode" binding:"required" example:"1000"`
	Debit       decimal.Decimal `json:"debit" binding:"gte=0" swaggertype:"string" example:"1000.00"`
	Credit      decimal.Decimal `json:"credit" binding:"gte=0" swaggertype:"string" example:"0"`
	Description string          `json:"description,omitempty"`
	CostCenter  string          `json:"costCenter,omitempty"`
	Department  string          `json:"department,omitempty"`
}

// CreateEntryRequest is a draft journal entry as submitted by a caller.
// The line-count and balance rules are enforced by the posting engine so that
// callers get a typed rejection reason.
type CreateEntryRequest struct {
	EntryDate  string                   `json:"entryDate" binding:"required,datetime=2006-01-02" example:"2025-01-15"`
	Memo       string                   `json:"memo" binding:"max=1000"`
	SourceType domain.SourceType        `json:"sourceType,omitempty" binding:"omitempty,source_type"` // Defaults to MANUAL
	Lines      []CreateEntryLineRequest `json:"lines" binding:"required,dive"`
}

// ToDraft converts the request into a domain draft.
func (r CreateEntryRequest) ToDraft() (domain.JournalEntryDraft, error) {
	entryDate, err := domain.ParseDate(r.EntryDate)
	if err != nil {
		return domain.JournalEntryDraft{}, fmt.Errorf("invalid entryDate %q: %w", r.EntryDate, err)
	}
	source := r.SourceType
	if source == "" {
		source = domain.SourceManual
	}
	lines := make([]domain.DraftLine, len(r.Lines))
	for i, l := range r.Lines {
		lines[i] = domain.DraftLine{
			AccountCode: l.AccountCode,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
			CostCenter:  l.CostCenter,
			Department:  l.Department,
		}
	}
	return domain.JournalEntryDraft{
		EntryDate:  entryDate,
		Memo:       r.Memo,
		SourceType: source,
		Lines:      lines,
	}, nil
}

// ReverseEntryRequest optionally overrides the reversal's entry date.
type ReverseEntryRequest struct {
	EntryDate *string `json:"entryDate,omitempty" binding:"omitempty,datetime=2006-01-02" example:"2025-02-01"`
}

// ToOptions converts the request into domain reversal options.
func (r ReverseEntryRequest) ToOptions() (domain.ReversalOptions, error) {
	if r.EntryDate == nil || *r.EntryDate == "" {
		return domain.ReversalOptions{}, nil
	}
	date, err := domain.ParseDate(*r.EntryDate)
	if err != nil {
		return domain.ReversalOptions{}, fmt.Errorf("invalid entryDate %q: %w", *r.EntryDate, err)
	}
	return domain.ReversalOptions{EntryDate: &date}, nil
}

// EntryLineResponse defines the data returned for a journal line.
type EntryLineResponse struct {
	LineID      string          `json:"lineID"`
	LineNumber  int             `json:"lineNumber"`
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	Debit       decimal.Decimal `json:"debit" swaggertype:"string"`
	Credit      decimal.Decimal `json:"credit" swaggertype:"string"`
	Description string          `json:"description,omitempty"`
	CostCenter  string          `json:"costCenter,omitempty"`
	Department  string          `json:"department,omitempty"`
}

// EntryResponse defines the data returned for a committed journal entry.
type EntryResponse struct {
	EntryID           string              `json:"entryID"`
	SequenceNumber    int64               `json:"sequenceNumber"`
	EntryDate         string              `json:"entryDate"`
	Memo              string              `json:"memo"`
	SourceType        domain.SourceType   `json:"sourceType"`
	Status            domain.EntryStatus  `json:"status"`
	IsReversal        bool                `json:"isReversal"`
	ReversesEntryID   *string             `json:"reversesEntryID,omitempty"`
	ReversedByEntryID *string             `json:"reversedByEntryID,omitempty"`
	Lines             []EntryLineResponse `json:"lines"`
	CreatedAt         time.Time           `json:"createdAt"`
	CreatedBy         string              `json:"createdBy"`
}

// ToEntryResponse converts a domain.JournalEntry to EntryResponse DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	lines := make([]EntryLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = EntryLineResponse{
			LineID:      l.LineID,
			LineNumber:  l.LineNumber,
			AccountID:   l.AccountID,
			AccountCode: l.AccountCode,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
			CostCenter:  l.CostCenter,
			Department:  l.Department,
		}
	}
	return EntryResponse{
		EntryID:           e.EntryID,
		SequenceNumber:    e.SequenceNumber,
		EntryDate:         e.EntryDate.Format(domain.DateLayout),
		Memo:              e.Memo,
		SourceType:        e.SourceType,
		Status:            e.Status,
		IsReversal:        e.IsReversal,
		ReversesEntryID:   e.ReversesEntryID,
		ReversedByEntryID: e.ReversedByEntryID,
		Lines:             lines,
		CreatedAt:         e.CreatedAt,
		CreatedBy:         e.CreatedBy,
	}
}
