package domain

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// DefaultNormalBalance returns the side on which an account of this type ordinarily increases.
func (t AccountType) DefaultNormalBalance() NormalBalance {
	switch t {
	case Asset, Expense:
		return DebitNormal
	default:
		return CreditNormal
	}
}

// NormalBalance is the side (debit or credit) that increases an account's balance.
type NormalBalance string

const (
	DebitNormal  NormalBalance = "DEBIT"
	CreditNormal NormalBalance = "CREDIT"
)

// IsValid reports whether n is DEBIT or CREDIT.
func (n NormalBalance) IsValid() bool {
	return n == DebitNormal || n == CreditNormal
}

// GLAccount represents a general-ledger account in the chart of accounts.
// NormalBalance is fixed at creation and never changes afterwards.
type GLAccount struct {
	AccountID        string        `json:"accountID"`     // Primary Key (UUID)
	Code             string        `json:"code"`          // Stable external identifier, unique
	Name             string        `json:"name"`          // Display name
	AccountType      AccountType   `json:"accountType"`   // ASSET, LIABILITY, etc.
	NormalBalance    NormalBalance `json:"normalBalance"` // DEBIT or CREDIT
	IsControlAccount bool          `json:"isControlAccount"`
	IsLocked         bool          `json:"isLocked"`
	IsActive         bool          `json:"isActive"` // Accounts are deactivated, never deleted
	AuditFields
}
