package models

// Snapshot is every collection as loaded at one point in time.
type Snapshot struct {
	Suppliers        []string
	Debtors          []Debtor
	Purchases        []Purchase
	Stock            []StockItem
	Sales            []Sale
	CashTransactions []CashTransaction
	BankTransactions []BankTransaction
	BankAccounts     []BankAccount
	BankDetails      *BankDetails
}

// FindDebtor returns the debtor with the given name.
func (s *Snapshot) FindDebtor(name string) (Debtor, int, bool) {
	for i, d := range s.Debtors {
		if d.Name == name {
			return d, i, true
		}
	}
	return Debtor{}, -1, false
}

// HasSupplier reports whether name is a registered supplier.
func (s *Snapshot) HasSupplier(name string) bool {
	for _, n := range s.Suppliers {
		if n == name {
			return true
		}
	}
	return false
}
