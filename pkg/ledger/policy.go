package ledger

import (
	"slices"

	"github.com/shopspring/decimal"
)

// SignPolicy decides how an entry moves a running balance and how the
// resulting balance is labelled.
type SignPolicy struct {
	Name string

	// creditPositive is true when credits increase the balance.
	creditPositive bool

	// PositiveLabel is shown for balances above zero, NegativeLabel below.
	PositiveLabel string
	NegativeLabel string

	// zeroPositive selects the label for an exactly zero balance.
	zeroPositive bool
}

var (
	// CashBookSign: receipts increase the balance, positive is "Dr".
	CashBookSign = SignPolicy{Name: "cash book", PositiveLabel: "Dr", NegativeLabel: "Cr", zeroPositive: true}

	// BankBookSign: balance += credit - debit, positive is "Cr".
	BankBookSign = SignPolicy{Name: "bank book", creditPositive: true, PositiveLabel: "Cr", NegativeLabel: "Dr", zeroPositive: true}

	// CreditorSign: purchases are credits and increase what the business owes;
	// positive is "Dr".
	CreditorSign = SignPolicy{Name: "creditor", creditPositive: true, PositiveLabel: "Dr", NegativeLabel: "Cr"}

	// DebtorSign: sales and purchases from the debtor are debits; positive is
	// "Dr", the amount the customer still owes.
	DebtorSign = SignPolicy{Name: "debtor", PositiveLabel: "Dr", NegativeLabel: "Cr"}
)

// Delta returns the balance change for one debit/credit pair.
func (p SignPolicy) Delta(debit, credit decimal.Decimal) decimal.Decimal {
	if p.creditPositive {
		return credit.Sub(debit)
	}
	return debit.Sub(credit)
}

// Label returns the Dr/Cr label for balance.
func (p SignPolicy) Label(balance decimal.Decimal) string {
	switch {
	case balance.IsPositive():
		return p.PositiveLabel
	case balance.IsNegative():
		return p.NegativeLabel
	case p.zeroPositive:
		return p.PositiveLabel
	default:
		return p.NegativeLabel
	}
}

// SortByDate orders entries by date, oldest first. Entries on the same
// instant keep their input order. The input slice is not modified.
func SortByDate(entries []Entry) []Entry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		return a.Date.Time.Compare(b.Date.Time)
	})
	return sorted
}

// Fold sorts entries by date and accumulates the running balance under p.
// It returns the entries with Balance set and the final balance.
func Fold(entries []Entry, p SignPolicy) ([]Entry, decimal.Decimal) {
	sorted := SortByDate(entries)
	balance := decimal.Zero
	for i := range sorted {
		balance = balance.Add(p.Delta(sorted[i].Debit, sorted[i].Credit))
		sorted[i].Balance = balance
	}
	return sorted, balance
}

// Totals sums both columns.
func Totals(entries []Entry) (debit, credit decimal.Decimal) {
	debit, credit = decimal.Zero, decimal.Zero
	for _, e := range entries {
		debit = debit.Add(e.Debit)
		credit = credit.Add(e.Credit)
	}
	return debit, credit
}
