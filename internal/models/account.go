package models

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account is a row of gl_accounts.
type Account struct {
	AccountID        string      `db:"account_id"`
	Code             string      `db:"code"` // Unique, immutable
	Name             string      `db:"name"`
	AccountType      AccountType `db:"account_type"`
	NormalBalance    string      `db:"normal_balance"` // DEBIT or CREDIT
	IsControlAccount bool        `db:"is_control_account"`
	IsLocked         bool        `db:"is_locked"`
	IsActive         bool        `db:"is_active"`
	AuditFields
}
