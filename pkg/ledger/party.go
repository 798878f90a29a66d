package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/models"
)

// PartyTotals are the convenience totals of a party ledger.
type PartyTotals struct {
	Purchased    decimal.Decimal
	Sold         decimal.Decimal
	ReceivedCash decimal.Decimal
	ReceivedBank decimal.Decimal
	Paid         decimal.Decimal
}

// Received is the sum of cash and bank receipts.
func (t PartyTotals) Received() decimal.Decimal {
	return t.ReceivedCash.Add(t.ReceivedBank)
}

// PartyLedger is the merged, date-ordered history of one creditor or debtor.
type PartyLedger struct {
	Party   string
	Kind    models.PersonType
	Policy  SignPolicy
	Entries []Entry
	Totals  PartyTotals
	Balance decimal.Decimal
}

// Label returns the Dr/Cr label of the closing balance.
func (l PartyLedger) Label() string {
	return l.Policy.Label(l.Balance)
}

func newPartyTotals() PartyTotals {
	return PartyTotals{
		Purchased:    decimal.Zero,
		Sold:         decimal.Zero,
		ReceivedCash: decimal.Zero,
		ReceivedBank: decimal.Zero,
		Paid:         decimal.Zero,
	}
}

// isCreditorPurchase treats purchases without a person type as supplier
// purchases, matching rows written before the field existed.
func isCreditorPurchase(p models.Purchase) bool {
	return p.PersonType != models.PersonDebtor
}

// CreditorLedger builds the ledger of supplier name. Purchases are credits,
// payments to the supplier are debits and money received back is a credit.
func CreditorLedger(snap *models.Snapshot, name string) PartyLedger {
	totals := newPartyTotals()
	var entries []Entry

	for _, p := range snap.Purchases {
		if p.SupplierName != name || !isCreditorPurchase(p) {
			continue
		}
		amount := p.Amount.Decimal()
		totals.Purchased = totals.Purchased.Add(amount)
		entries = append(entries, Entry{
			ID:         p.ID,
			Date:       p.Date,
			Kind:       KindPurchase,
			Particular: p.ModelNumber,
			Reference:  p.ChassisNumber,
			Credit:     amount,
		})
	}

	addFlow := func(id models.ID, date models.Date, f Flow) {
		e := Entry{ID: id, Date: date, Book: f.Book, Particular: name}
		if f.Type == models.TxnReceive {
			e.Kind = KindReceipt
			e.Credit = f.Amount
			if f.Book == models.BookBank {
				totals.ReceivedBank = totals.ReceivedBank.Add(f.Amount)
			} else {
				totals.ReceivedCash = totals.ReceivedCash.Add(f.Amount)
			}
		} else {
			e.Kind = KindPayment
			e.Debit = f.Amount
			totals.Paid = totals.Paid.Add(f.Amount)
		}
		entries = append(entries, e)
	}

	for _, t := range snap.CashTransactions {
		if t.Name == name && t.PersonType == models.PersonCreditor {
			addFlow(t.ID, t.Date, CashFlow(t))
		}
	}
	for _, t := range snap.BankTransactions {
		if t.Particular == name && t.PersonType == models.PersonCreditor {
			addFlow(t.ID, t.Date, BankFlow(t))
		}
	}

	folded, balance := Fold(entries, CreditorSign)
	return PartyLedger{
		Party:   name,
		Kind:    models.PersonCreditor,
		Policy:  CreditorSign,
		Entries: folded,
		Totals:  totals,
		Balance: balance,
	}
}

// DebtorLedger builds the ledger of customer name. Sales and purchases taken
// in from the customer are debits, receipts are credits and payments made to
// the customer are debits.
func DebtorLedger(snap *models.Snapshot, name string) PartyLedger {
	totals := newPartyTotals()
	var entries []Entry

	for _, s := range snap.Sales {
		if s.CustomerName != name {
			continue
		}
		amount := s.Amount.Decimal()
		totals.Sold = totals.Sold.Add(amount)
		entries = append(entries, Entry{
			ID:         s.ID,
			Date:       s.Date,
			Kind:       KindSale,
			Particular: s.ModelNumber,
			Reference:  s.ChassisNumber,
			Debit:      amount,
		})
	}

	for _, p := range snap.Purchases {
		if p.SupplierName != name || !p.FromDebtor() {
			continue
		}
		amount := p.Amount.Decimal()
		totals.Purchased = totals.Purchased.Add(amount)
		entries = append(entries, Entry{
			ID:         p.ID,
			Date:       p.Date,
			Kind:       KindPurchase,
			Particular: p.ModelNumber,
			Reference:  p.ChassisNumber,
			Debit:      amount,
		})
	}

	addFlow := func(id models.ID, date models.Date, f Flow) {
		e := Entry{ID: id, Date: date, Book: f.Book, Particular: name}
		if f.Type == models.TxnReceive {
			e.Kind = KindReceipt
			e.Credit = f.Amount
			if f.Book == models.BookBank {
				totals.ReceivedBank = totals.ReceivedBank.Add(f.Amount)
			} else {
				totals.ReceivedCash = totals.ReceivedCash.Add(f.Amount)
			}
		} else {
			e.Kind = KindPayment
			e.Debit = f.Amount
			totals.Paid = totals.Paid.Add(f.Amount)
		}
		entries = append(entries, e)
	}

	for _, t := range snap.CashTransactions {
		if t.Name == name && t.PersonType == models.PersonDebtor {
			addFlow(t.ID, t.Date, CashFlow(t))
		}
	}
	for _, t := range snap.BankTransactions {
		if t.Particular == name && t.PersonType == models.PersonDebtor {
			addFlow(t.ID, t.Date, BankFlow(t))
		}
	}

	folded, balance := Fold(entries, DebtorSign)
	return PartyLedger{
		Party:   name,
		Kind:    models.PersonDebtor,
		Policy:  DebtorSign,
		Entries: folded,
		Totals:  totals,
		Balance: balance,
	}
}

// DebtorFields are the values stored on a Debtor record, derived from its ledger.
type DebtorFields struct {
	Balance         models.Amount
	TotalPaid       models.Amount
	RemainingAmount models.Amount
}

// DeriveDebtorFields recomputes the stored fields of debtor name.
func DeriveDebtorFields(snap *models.Snapshot, name string) DebtorFields {
	l := DebtorLedger(snap, name)
	balance := models.AmountFromDecimal(l.Balance)
	return DebtorFields{
		Balance:         balance,
		TotalPaid:       models.AmountFromDecimal(l.Totals.Received()),
		RemainingAmount: balance,
	}
}

// Apply copies the derived fields onto d.
func (f DebtorFields) Apply(d models.Debtor) models.Debtor {
	d.Balance = f.Balance
	d.TotalPaid = f.TotalPaid
	d.RemainingAmount = f.RemainingAmount
	return d
}
