package dto

import (
	"time"

	"github.com/SscSPs/ledger_core/internal/core/domain"
)

// CreateAccountRequest defines the data needed to register a GL account.
type CreateAccountRequest struct {
	Code             string               `json:"code" binding:"required,max=32" example:"1000"`
	Name             string               `json:"name" binding:"required,max=255" example:"Cash"`
	AccountType      domain.AccountType   `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	NormalBalance    domain.NormalBalance `json:"normalBalance,omitempty" binding:"omitempty,oneof=DEBIT CREDIT"` // Optional, derived from accountType when empty
	IsControlAccount bool                 `json:"isControlAccount"`
	IsLocked         bool                 `json:"isLocked"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
// Code, type and normal balance are immutable.
type UpdateAccountRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	IsLocked *bool   `json:"isLocked,omitempty"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID        string               `json:"accountID"`
	Code             string               `json:"code"`
	Name             string               `json:"name"`
	AccountType      domain.AccountType   `json:"accountType"`
	NormalBalance    domain.NormalBalance `json:"normalBalance"`
	IsControlAccount bool                 `json:"isControlAccount"`
	IsLocked         bool                 `json:"isLocked"`
	IsActive         bool                 `json:"isActive"`
	CreatedAt        time.Time            `json:"createdAt"`
	CreatedBy        string               `json:"createdBy"`
	LastUpdatedAt    time.Time            `json:"lastUpdatedAt"`
	LastUpdatedBy    string               `json:"lastUpdatedBy"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain.GLAccount to AccountResponse DTO
func ToAccountResponse(acc *domain.GLAccount) AccountResponse {
	return AccountResponse{
		AccountID:        acc.AccountID,
		Code:             acc.Code,
		Name:             acc.Name,
		AccountType:      acc.AccountType,
		NormalBalance:    acc.NormalBalance,
		IsControlAccount: acc.IsControlAccount,
		IsLocked:         acc.IsLocked,
		IsActive:         acc.IsActive,
		CreatedAt:        acc.CreatedAt,
		CreatedBy:        acc.CreatedBy,
		LastUpdatedAt:    acc.LastUpdatedAt,
		LastUpdatedBy:    acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.GLAccount to a ListAccountsResponse
func ToListAccountResponse(accounts []domain.GLAccount) ListAccountsResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return ListAccountsResponse{Accounts: res}
}
