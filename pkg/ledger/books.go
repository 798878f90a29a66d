package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/models"
)

// Book is a cash or bank book with running balances.
type Book struct {
	Name        string
	Policy      SignPolicy
	Entries     []Entry
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Balance     decimal.Decimal
}

// Label returns the Dr/Cr label of the closing balance.
func (b Book) Label() string {
	return b.Policy.Label(b.Balance)
}

// CashBook folds every cash transaction under CashBookSign.
func CashBook(snap *models.Snapshot) Book {
	entries := make([]Entry, 0, len(snap.CashTransactions))
	for _, t := range snap.CashTransactions {
		entries = append(entries, CashEntry(t))
	}
	return newBook("Cash Book", entries, CashBookSign)
}

// BankBook folds every bank transaction under BankBookSign. The stored
// balance column is ignored.
func BankBook(snap *models.Snapshot) Book {
	entries := make([]Entry, 0, len(snap.BankTransactions))
	for _, t := range snap.BankTransactions {
		entries = append(entries, BankEntry(t))
	}
	return newBook("Bank Book", entries, BankBookSign)
}

func newBook(name string, entries []Entry, p SignPolicy) Book {
	folded, balance := Fold(entries, p)
	debit, credit := Totals(folded)
	return Book{
		Name:        name,
		Policy:      p,
		Entries:     folded,
		TotalDebit:  debit,
		TotalCredit: credit,
		Balance:     balance,
	}
}
