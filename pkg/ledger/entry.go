// Package ledger derives running balances, party ledgers and aggregate totals
// from the stored collections. Every function here is pure: it reads a
// snapshot and returns fresh values, so recomputing a view twice from the same
// snapshot yields the same result.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/models"
)

// EntryKind classifies a ledger entry.
type EntryKind string

const (
	KindPurchase EntryKind = "purchase"
	KindSale     EntryKind = "sale"
	KindReceipt  EntryKind = "receipt"
	KindPayment  EntryKind = "payment"
	KindManual   EntryKind = "manual"
)

// Entry is one dated movement in canonical debit/credit form. Balance is the
// running balance after this entry and is only set by Fold.
type Entry struct {
	ID         models.ID
	Date       models.Date
	Kind       EntryKind
	Book       models.BookType
	Particular string
	Reference  string
	Debit      decimal.Decimal
	Credit     decimal.Decimal
	Balance    decimal.Decimal
}

// Amount returns whichever side of the entry is set.
func (e Entry) Amount() decimal.Decimal {
	if !e.Debit.IsZero() {
		return e.Debit
	}
	return e.Credit
}

// cashAmount picks the amount a cash row carries, whichever field holds it.
func cashAmount(t models.CashTransaction) models.Amount {
	return models.FirstNonZero(t.Amount, t.Debit, t.Credit)
}

func bankAmount(t models.BankTransaction) models.Amount {
	return models.FirstNonZero(t.Amount, t.Debit, t.Credit)
}

// CashEntry normalizes a cash book row. A row's type decides its side; rows
// without a type are debits when they carry a debit value and credits
// otherwise.
func CashEntry(t models.CashTransaction) Entry {
	e := Entry{
		ID:         t.ID,
		Date:       t.Date,
		Book:       models.BookCash,
		Particular: cashParticular(t),
	}
	amount := cashAmount(t).Decimal()

	switch {
	case t.Type == models.TxnReceive:
		e.Kind = KindReceipt
		e.Debit = amount
	case t.Type == models.TxnPayment:
		e.Kind = KindPayment
		e.Credit = amount
	case t.Debit > 0:
		e.Kind = KindManual
		e.Debit = amount
	default:
		e.Kind = KindManual
		e.Credit = amount
	}
	return e
}

func cashParticular(t models.CashTransaction) string {
	if t.Name != "" {
		return t.Name
	}
	return t.Particular
}

// BankEntry normalizes a bank book row. The stored debit and credit columns
// are authoritative; rows carrying only an amount and a type fall back to the
// column the receive and payment screens write.
func BankEntry(t models.BankTransaction) Entry {
	e := Entry{
		ID:         t.ID,
		Date:       t.Date,
		Book:       models.BookBank,
		Particular: t.Particular,
		Debit:      t.Debit.Decimal(),
		Credit:     t.Credit.Decimal(),
		Kind:       KindManual,
	}
	if e.Particular == "" {
		e.Particular = t.Name
	}

	switch t.Type {
	case models.TxnReceive:
		e.Kind = KindReceipt
	case models.TxnPayment:
		e.Kind = KindPayment
	}

	if e.Debit.IsZero() && e.Credit.IsZero() && !t.Amount.IsZero() {
		if t.Type == models.TxnReceive {
			e.Debit = t.Amount.Decimal()
		} else {
			e.Credit = t.Amount.Decimal()
		}
	}
	return e
}

// Flow is a cash or bank row seen from the counterparty's side.
type Flow struct {
	Type   models.TxnType
	Amount decimal.Decimal
	Book   models.BookType
}

// CashFlow returns the direction and amount of a cash row for party ledgers.
func CashFlow(t models.CashTransaction) Flow {
	typ := t.Type
	if typ == "" {
		if t.Debit > 0 {
			typ = models.TxnReceive
		} else {
			typ = models.TxnPayment
		}
	}
	return Flow{Type: typ, Amount: cashAmount(t).Decimal(), Book: models.BookCash}
}

// BankFlow returns the direction and amount of a bank row for party ledgers.
func BankFlow(t models.BankTransaction) Flow {
	typ := t.Type
	if typ == "" {
		if t.Debit > 0 {
			typ = models.TxnReceive
		} else {
			typ = models.TxnPayment
		}
	}
	return Flow{Type: typ, Amount: bankAmount(t).Decimal(), Book: models.BookBank}
}
