package ledger

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/models"
)

func day(d int) models.Date {
	return models.NewDate(time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC))
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func assertDecimal(t *testing.T, what string, got decimal.Decimal, want float64) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, expected %v", what, got, want)
	}
}

func TestFoldSortsStablyAndAccumulates(t *testing.T) {
	entries := []Entry{
		{ID: "c", Date: day(3), Credit: dec(30)},
		{ID: "a", Date: day(1), Debit: dec(10)},
		{ID: "b1", Date: day(2), Credit: dec(5)},
		{ID: "b2", Date: day(2), Debit: dec(1)},
	}

	folded, balance := Fold(entries, BankBookSign)

	var order []models.ID
	for _, e := range folded {
		order = append(order, e.ID)
	}
	if !reflect.DeepEqual(order, []models.ID{"a", "b1", "b2", "c"}) {
		t.Errorf("order = %v", order)
	}
	assertDecimal(t, "balance", balance, 24)
	assertDecimal(t, "first snapshot", folded[0].Balance, -10)
	assertDecimal(t, "third snapshot", folded[2].Balance, -6)

	if entries[0].ID != "c" || !entries[0].Balance.IsZero() {
		t.Errorf("Fold modified its input: %+v", entries[0])
	}
}

func TestFoldFinalTotalIndependentOfInputOrder(t *testing.T) {
	base := []Entry{
		{Date: day(5), Debit: dec(100.10)},
		{Date: day(1), Credit: dec(0.20)},
		{Date: day(3), Credit: dec(40)},
		{Date: day(3), Debit: dec(0.1)},
		{Date: day(9), Credit: dec(1000)},
	}
	reversed := make([]Entry, len(base))
	for i := range base {
		reversed[len(base)-1-i] = base[i]
	}

	for _, p := range []SignPolicy{CashBookSign, BankBookSign, CreditorSign, DebtorSign} {
		t.Run(p.Name, func(t *testing.T) {
			_, a := Fold(base, p)
			_, b := Fold(reversed, p)
			if !a.Equal(b) {
				t.Errorf("final balance depends on input order: %s vs %s", a, b)
			}
			debit, credit := Totals(base)
			if !a.Equal(p.Delta(debit, credit)) {
				t.Errorf("final balance %s != delta of totals %s", a, p.Delta(debit, credit))
			}
		})
	}
}

func TestSignPolicyLabels(t *testing.T) {
	tests := []struct {
		policy   SignPolicy
		balance  float64
		expected string
	}{
		{CashBookSign, 10, "Dr"},
		{CashBookSign, 0, "Dr"},
		{CashBookSign, -10, "Cr"},
		{BankBookSign, 10, "Cr"},
		{BankBookSign, 0, "Cr"},
		{BankBookSign, -10, "Dr"},
		{CreditorSign, 10, "Dr"},
		{CreditorSign, 0, "Cr"},
		{DebtorSign, 10, "Dr"},
		{DebtorSign, -10, "Cr"},
	}

	for _, tt := range tests {
		if got := tt.policy.Label(dec(tt.balance)); got != tt.expected {
			t.Errorf("%s.Label(%v) = %q, expected %q", tt.policy.Name, tt.balance, got, tt.expected)
		}
	}
}

func TestCashEntryNormalization(t *testing.T) {
	tests := []struct {
		name   string
		txn    models.CashTransaction
		debit  float64
		credit float64
	}{
		{"receive with amount", models.CashTransaction{Type: models.TxnReceive, Amount: 500}, 500, 0},
		{"receive stored in credit column", models.CashTransaction{Type: models.TxnReceive, Amount: 500, Credit: 500}, 500, 0},
		{"payment with amount", models.CashTransaction{Type: models.TxnPayment, Amount: 200}, 0, 200},
		{"untyped debit", models.CashTransaction{Debit: 75}, 75, 0},
		{"untyped credit", models.CashTransaction{Credit: 60}, 0, 60},
		{"untyped amount only", models.CashTransaction{Amount: 30}, 0, 30},
		{"nothing", models.CashTransaction{}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := CashEntry(tt.txn)
			assertDecimal(t, "debit", e.Debit, tt.debit)
			assertDecimal(t, "credit", e.Credit, tt.credit)
		})
	}
}

func TestBankEntryFallsBackToAmount(t *testing.T) {
	e := BankEntry(models.BankTransaction{Type: models.TxnReceive, Amount: 90})
	assertDecimal(t, "debit", e.Debit, 90)

	e = BankEntry(models.BankTransaction{Particular: "Fuel", Debit: 10, Credit: 0, Balance: 99999})
	assertDecimal(t, "debit", e.Debit, 10)
	assertDecimal(t, "credit", e.Credit, 0)
}

func TestBookBalancesUseDistinctPolicies(t *testing.T) {
	snap := &models.Snapshot{
		CashTransactions: []models.CashTransaction{
			{ID: "1", Date: day(2), Name: "Ravi", Amount: 1000, Credit: 1000, Type: models.TxnReceive, PersonType: models.PersonDebtor},
			{ID: "2", Date: day(1), Name: "Acme", Amount: 300, Type: models.TxnPayment, PersonType: models.PersonCreditor},
		},
		BankTransactions: []models.BankTransaction{
			{ID: "3", Date: day(1), Particular: "Ravi", Debit: 400, Type: models.TxnReceive, PersonType: models.PersonDebtor},
			{ID: "4", Date: day(2), Particular: "Acme", Credit: 150, Type: models.TxnPayment, PersonType: models.PersonCreditor, Balance: 12345},
		},
	}

	cash := CashBook(snap)
	assertDecimal(t, "cash balance", cash.Balance, 700)
	if cash.Label() != "Dr" {
		t.Errorf("cash label = %q", cash.Label())
	}
	assertDecimal(t, "first cash snapshot", cash.Entries[0].Balance, -300)

	bank := BankBook(snap)
	assertDecimal(t, "bank balance", bank.Balance, -250)
	if bank.Label() != "Dr" {
		t.Errorf("bank label = %q", bank.Label())
	}
	assertDecimal(t, "bank total debit", bank.TotalDebit, 400)
}

// Purchase from Acme for 50000, then a cash payment of 20000.
func TestCreditorEndToEnd(t *testing.T) {
	snap := &models.Snapshot{
		Suppliers: []string{"Acme"},
		Purchases: []models.Purchase{
			{ID: "p1", Date: day(1), SupplierName: "Acme", ChassisNumber: "CH1", ModelNumber: "MF-241", Amount: 50000, PersonType: models.PersonCreditor},
		},
		Stock: []models.StockItem{
			{ID: "p1", Date: day(1), SupplierName: "Acme", ChassisNumber: "CH1", ModelNumber: "MF-241", Amount: 50000, PersonType: models.PersonCreditor},
		},
	}

	creditors := Creditors(snap)
	if len(creditors) != 1 {
		t.Fatalf("expected 1 creditor, got %d", len(creditors))
	}
	assertDecimal(t, "balance before payment", creditors[0].Balance, 50000)
	if creditors[0].Label != "Dr" {
		t.Errorf("label = %q, expected Dr", creditors[0].Label)
	}

	snap.CashTransactions = append(snap.CashTransactions, models.CashTransaction{
		ID: "c1", Date: day(2), Name: "Acme", Amount: 20000, Type: models.TxnPayment,
		PersonType: models.PersonCreditor, BookType: models.BookCash,
	})

	creditors = Creditors(snap)
	assertDecimal(t, "balance after payment", creditors[0].Balance, 30000)
	if got := FormatBalance(creditors[0].Balance, CreditorSign); got != "₹30000.00 Dr" {
		t.Errorf("FormatBalance = %q", got)
	}

	cash := CashBook(snap)
	if len(cash.Entries) != 1 || cash.Entries[0].Kind != KindPayment {
		t.Fatalf("cash book entries = %+v", cash.Entries)
	}
	assertDecimal(t, "cash balance", cash.Balance, -20000)
	assertDecimal(t, "stock value", StockValue(snap), 50000)
}

func TestDebtorIdentity(t *testing.T) {
	snap := &models.Snapshot{
		Debtors: []models.Debtor{{ID: "d1", Name: "Ravi", Balance: 999999}},
		Purchases: []models.Purchase{
			{ID: "p1", Date: day(1), SupplierName: "Ravi", Amount: 1000, PersonType: models.PersonDebtor},
		},
		Sales: []models.Sale{
			{ID: "s1", Date: day(2), CustomerName: "Ravi", Amount: 2000},
		},
		CashTransactions: []models.CashTransaction{
			{ID: "c1", Date: day(3), Name: "Ravi", Amount: 500, Credit: 500, Type: models.TxnReceive, PersonType: models.PersonDebtor},
		},
	}

	l := DebtorLedger(snap, "Ravi")
	assertDecimal(t, "remaining", l.Balance, 2500)
	assertDecimal(t, "received", l.Totals.Received(), 500)
	if l.Label() != "Dr" {
		t.Errorf("label = %q", l.Label())
	}

	fields := DeriveDebtorFields(snap, "Ravi")
	if fields.RemainingAmount != 2500 || fields.Balance != 2500 || fields.TotalPaid != 500 {
		t.Errorf("DeriveDebtorFields = %+v", fields)
	}

	summaries := Debtors(snap)
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}
	assertDecimal(t, "summary remaining", summaries[0].RemainingAmount, 2500)

	// The sales listing subtracts purchases taken in from the customer.
	assertDecimal(t, "sales remaining", SalesRemaining(snap, "Ravi"), 500)
	assertDecimal(t, "total remaining", TotalRemaining(snap), 500)
}

func TestDebtorLedgerIgnoresOtherPartiesAndKinds(t *testing.T) {
	snap := &models.Snapshot{
		Purchases: []models.Purchase{
			{ID: "p1", SupplierName: "Ravi", Amount: 700, PersonType: models.PersonCreditor},
		},
		CashTransactions: []models.CashTransaction{
			{ID: "c1", Name: "Ravi", Amount: 100, Type: models.TxnPayment, PersonType: models.PersonCreditor},
			{ID: "c2", Name: "Someone", Amount: 100, Type: models.TxnReceive, PersonType: models.PersonDebtor},
		},
		BankTransactions: []models.BankTransaction{
			{ID: "b1", Particular: "Ravi", Credit: 250, Type: models.TxnPayment, PersonType: models.PersonDebtor},
		},
	}

	l := DebtorLedger(snap, "Ravi")
	if len(l.Entries) != 1 {
		t.Fatalf("entries = %+v", l.Entries)
	}
	assertDecimal(t, "paid", l.Totals.Paid, 250)
	assertDecimal(t, "balance", l.Balance, 250)
}

func TestOrphanedHistoryStillComputed(t *testing.T) {
	snap := &models.Snapshot{
		Sales: []models.Sale{{ID: "s1", Date: day(1), CustomerName: "Gone", Amount: 800}},
	}
	assertDecimal(t, "orphan ledger", DebtorLedger(snap, "Gone").Balance, 800)
	assertDecimal(t, "total remaining", TotalRemaining(snap), 0)
}

func TestTotalRemainingCountsDebtorRecordsOnly(t *testing.T) {
	snap := &models.Snapshot{
		Debtors: []models.Debtor{{ID: "d1", Name: "Ravi"}},
		Sales: []models.Sale{
			{ID: "s1", Date: day(1), CustomerName: "Ravi", Amount: 1000},
			{ID: "s2", Date: day(2), CustomerName: "Gone", Amount: 800},
		},
	}
	assertDecimal(t, "total remaining", TotalRemaining(snap), 1000)
	assertDecimal(t, "orphan remaining", SalesRemaining(snap, "Gone"), 800)
}

func TestViewsAreIdempotent(t *testing.T) {
	snap := &models.Snapshot{
		Suppliers: []string{"Acme"},
		Debtors:   []models.Debtor{{ID: "d1", Name: "Ravi"}},
		Purchases: []models.Purchase{{ID: "p1", Date: day(4), SupplierName: "Acme", Amount: 100}},
		Sales:     []models.Sale{{ID: "s1", Date: day(2), CustomerName: "Ravi", Amount: 300}},
		CashTransactions: []models.CashTransaction{
			{ID: "c1", Date: day(3), Name: "Ravi", Amount: 50, Type: models.TxnReceive, PersonType: models.PersonDebtor},
		},
		BankTransactions: []models.BankTransaction{
			{ID: "b1", Date: day(1), Particular: "Acme", Credit: 20, Type: models.TxnPayment, PersonType: models.PersonCreditor},
		},
	}

	first := Summarize(snap)
	second := Summarize(snap)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("summaries differ:\n%+v\n%+v", first, second)
	}

	a := CashBook(snap).Entries
	b := CashBook(snap).Entries
	if !reflect.DeepEqual(a, b) {
		t.Errorf("cash book entries differ between calls")
	}
}

func TestSummarize(t *testing.T) {
	snap := &models.Snapshot{
		Suppliers: []string{"Acme", "Bolt"},
		Stock: []models.StockItem{
			{ID: "1", Amount: 100.25},
			{ID: "2", Amount: 200.50},
		},
	}

	s := Summarize(snap)
	if s.Suppliers != 2 || s.StockUnits != 2 {
		t.Errorf("counts = %+v", s)
	}
	assertDecimal(t, "stock value", s.StockValue, 300.75)
	if s.CashLabel != "Dr" || s.BankLabel != "Cr" {
		t.Errorf("labels = %q/%q", s.CashLabel, s.BankLabel)
	}
}
