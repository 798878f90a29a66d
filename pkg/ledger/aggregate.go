package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/models"
)

// CreditorSummary is one row of the creditors overview.
type CreditorSummary struct {
	SrNo          int
	Name          string
	TotalPurchase decimal.Decimal
	TotalPaid     decimal.Decimal
	Balance       decimal.Decimal
	Label         string
}

// Creditors summarizes every registered supplier, followed by any supplier
// that only appears on purchases.
func Creditors(snap *models.Snapshot) []CreditorSummary {
	var names []string
	seen := make(map[string]bool)
	add := func(name string) {
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	}
	for _, n := range snap.Suppliers {
		add(n)
	}
	for _, p := range snap.Purchases {
		if isCreditorPurchase(p) {
			add(p.SupplierName)
		}
	}

	out := make([]CreditorSummary, 0, len(names))
	for i, name := range names {
		l := CreditorLedger(snap, name)
		out = append(out, CreditorSummary{
			SrNo:          i + 1,
			Name:          name,
			TotalPurchase: l.Totals.Purchased,
			TotalPaid:     l.Totals.Paid,
			Balance:       l.Balance,
			Label:         l.Label(),
		})
	}
	return out
}

// DebtorSummary is one row of the debtors overview.
type DebtorSummary struct {
	Debtor          models.Debtor
	TotalSales      decimal.Decimal
	TotalPurchase   decimal.Decimal
	TotalPaid       decimal.Decimal
	RemainingAmount decimal.Decimal
	Label           string
}

// Debtors summarizes every debtor record from its recomputed ledger. The
// stored balance fields are ignored.
func Debtors(snap *models.Snapshot) []DebtorSummary {
	out := make([]DebtorSummary, 0, len(snap.Debtors))
	for _, d := range snap.Debtors {
		l := DebtorLedger(snap, d.Name)
		out = append(out, DebtorSummary{
			Debtor:          d,
			TotalSales:      l.Totals.Sold,
			TotalPurchase:   l.Totals.Purchased,
			TotalPaid:       l.Totals.Received(),
			RemainingAmount: l.Balance,
			Label:           l.Label(),
		})
	}
	return out
}

// StockValue is the sum of all stock amounts.
func StockValue(snap *models.Snapshot) decimal.Decimal {
	total := decimal.Zero
	for _, s := range snap.Stock {
		total = total.Add(s.Amount.Decimal())
	}
	return total
}

// SalesRemaining is the outstanding figure shown against a customer on the
// sales listing: sales less cash receipts, bank receipts and purchases taken
// in from that customer.
func SalesRemaining(snap *models.Snapshot, name string) decimal.Decimal {
	t := DebtorLedger(snap, name).Totals
	return t.Sold.Sub(t.ReceivedCash.Add(t.ReceivedBank).Add(t.Purchased))
}

// TotalRemaining sums SalesRemaining over the debtor records. Sales to a
// customer with no debtor record are not counted.
func TotalRemaining(snap *models.Snapshot) decimal.Decimal {
	total := decimal.Zero
	for _, d := range snap.Debtors {
		total = total.Add(SalesRemaining(snap, d.Name))
	}
	return total
}

// Summary is the dashboard overview.
type Summary struct {
	Suppliers       int
	Debtors         int
	StockUnits      int
	Sales           int
	StockValue      decimal.Decimal
	CashBalance     decimal.Decimal
	CashLabel       string
	BankBalance     decimal.Decimal
	BankLabel       string
	TotalRemaining  decimal.Decimal
	CreditorBalance decimal.Decimal
}

// Summarize computes the dashboard overview.
func Summarize(snap *models.Snapshot) Summary {
	cash := CashBook(snap)
	bank := BankBook(snap)

	owed := decimal.Zero
	creditors := Creditors(snap)
	for _, c := range creditors {
		owed = owed.Add(c.Balance)
	}

	return Summary{
		Suppliers:       len(creditors),
		Debtors:         len(snap.Debtors),
		StockUnits:      len(snap.Stock),
		Sales:           len(snap.Sales),
		StockValue:      StockValue(snap),
		CashBalance:     cash.Balance,
		CashLabel:       cash.Label(),
		BankBalance:     bank.Balance,
		BankLabel:       bank.Label(),
		TotalRemaining:  TotalRemaining(snap),
		CreditorBalance: owed,
	}
}
