package accounting

import (
	"fmt"

	"github.com/SscSPs/ledger_core/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MinorUnitPlaces is the number of decimal places an amount may carry (cents).
const MinorUnitPlaces int32 = 2

// SignedAmount applies the balance sign convention to one line.
// Debit-normal accounts accumulate +debit-credit; credit-normal accounts +credit-debit.
func SignedAmount(debit, credit decimal.Decimal, normal domain.NormalBalance) (decimal.Decimal, error) {
	switch normal {
	case domain.DebitNormal:
		return debit.Sub(credit), nil
	case domain.CreditNormal:
		return credit.Sub(debit), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown normal balance '%s'", normal)
	}
}

// HasSubMinorUnits reports whether amount carries precision below a cent.
func HasSubMinorUnits(amount decimal.Decimal) bool {
	return !amount.Equal(amount.Truncate(MinorUnitPlaces))
}

// ValidateLineAmounts checks the shape of a single line: both amounts non-negative,
// exactly one of them non-zero, and no fractions of a cent.
func ValidateLineAmounts(debit, credit decimal.Decimal) error {
	if debit.IsNegative() || credit.IsNegative() {
		return fmt.Errorf("amounts must be non-negative (debit %s, credit %s)", debit, credit)
	}
	if debit.IsZero() == credit.IsZero() {
		return fmt.Errorf("exactly one of debit or credit must be non-zero (debit %s, credit %s)", debit, credit)
	}
	if HasSubMinorUnits(debit) || HasSubMinorUnits(credit) {
		return fmt.Errorf("amounts may not exceed %d decimal places (debit %s, credit %s)", MinorUnitPlaces, debit, credit)
	}
	return nil
}

// SumDraftLines returns the debit and credit totals of a draft.
func SumDraftLines(lines []domain.DraftLine) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, l := range lines {
		debits = debits.Add(l.Debit)
		credits = credits.Add(l.Credit)
	}
	return debits, credits
}

// SumEntryLines returns the debit and credit totals of a committed entry.
func SumEntryLines(lines []domain.JournalLine) (debits, credits decimal.Decimal) {
	debits, credits = decimal.Zero, decimal.Zero
	for _, l := range lines {
		debits = debits.Add(l.Debit)
		credits = credits.Add(l.Credit)
	}
	return debits, credits
}

// IsBalanced compares totals exactly. Never use a float tolerance here.
func IsBalanced(debits, credits decimal.Decimal) bool {
	return debits.Equal(credits)
}

// MirrorLines builds reversal draft lines by swapping debit and credit on every line.
func MirrorLines(lines []domain.JournalLine) []domain.DraftLine {
	mirrored := make([]domain.DraftLine, len(lines))
	for i, l := range lines {
		mirrored[i] = domain.DraftLine{
			AccountCode: l.AccountCode,
			Debit:       l.Credit,
			Credit:      l.Debit,
			Description: l.Description,
			CostCenter:  l.CostCenter,
			Department:  l.Department,
		}
	}
	return mirrored
}

// FoldRunningBalance fills RunningBalance on rows, which must already be in commit order,
// and returns the closing balance.
func FoldRunningBalance(rows []domain.LedgerRow, normal domain.NormalBalance) (decimal.Decimal, error) {
	balance := decimal.Zero
	for i := range rows {
		signed, err := SignedAmount(rows[i].Debit, rows[i].Credit, normal)
		if err != nil {
			return decimal.Zero, err
		}
		balance = balance.Add(signed)
		rows[i].RunningBalance = balance
	}
	return balance, nil
}

// SummarizeAccount turns raw totals into a signed AccountSummary.
func SummarizeAccount(account domain.GLAccount, totals domain.AccountTotals) (domain.AccountSummary, error) {
	balance, err := SignedAmount(totals.TotalDebit, totals.TotalCredit, account.NormalBalance)
	if err != nil {
		return domain.AccountSummary{}, fmt.Errorf("account %s: %w", account.Code, err)
	}
	return domain.AccountSummary{
		AccountID:     account.AccountID,
		Code:          account.Code,
		Name:          account.Name,
		AccountType:   account.AccountType,
		NormalBalance: account.NormalBalance,
		TotalDebit:    totals.TotalDebit,
		TotalCredit:   totals.TotalCredit,
		Balance:       balance,
	}, nil
}
