package mapping

import (
	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/SscSPs/ledger_core/internal/models"
)

// ToModelAccount converts a domain GLAccount to a model Account
func ToModelAccount(d domain.GLAccount) models.Account {
	return models.Account{
		AccountID:        d.AccountID,
		Code:             d.Code,
		Name:             d.Name,
		AccountType:      models.AccountType(d.AccountType),
		NormalBalance:    string(d.NormalBalance),
		IsControlAccount: d.IsControlAccount,
		IsLocked:         d.IsLocked,
		IsActive:         d.IsActive,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain GLAccount
func ToDomainAccount(m models.Account) domain.GLAccount {
	return domain.GLAccount{
		AccountID:        m.AccountID,
		Code:             m.Code,
		Name:             m.Name,
		AccountType:      domain.AccountType(m.AccountType),
		NormalBalance:    domain.NormalBalance(m.NormalBalance),
		IsControlAccount: m.IsControlAccount,
		IsLocked:         m.IsLocked,
		IsActive:         m.IsActive,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to domain GLAccounts
func ToDomainAccountSlice(ms []models.Account) []domain.GLAccount {
	ds := make([]domain.GLAccount, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
