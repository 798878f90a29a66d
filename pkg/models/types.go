// Package models defines the records persisted by the showroom ledger.
// Field names match the JSON documents stored under each collection key.
package models

import "strings"

// PersonType tells which kind of party a record belongs to.
type PersonType string

const (
	PersonCreditor PersonType = "creditor"
	PersonDebtor   PersonType = "debtor"
	PersonCash     PersonType = "cash"
)

// TxnType is the direction of a cash or bank flow relative to the business.
type TxnType string

const (
	TxnReceive TxnType = "receive"
	TxnPayment TxnType = "payment"
)

// BookType names the book a flow is recorded in.
type BookType string

const (
	BookCash BookType = "cash"
	BookBank BookType = "bank"
)

// CashTransferName is the party name used for cash to bank transfers.
const CashTransferName = "Cash Transfer"

// Debtor is a customer or finance party that owes the business.
// Balance, TotalPaid and RemainingAmount are derived from the ledger and are
// rewritten whenever a mutation touches the debtor.
type Debtor struct {
	ID              ID     `json:"id"`
	Date            Date   `json:"date"`
	Name            string `json:"name"`
	Address         string `json:"address"`
	Phone           string `json:"phone"`
	Finance         string `json:"finance"`
	Balance         Amount `json:"balance"`
	TotalPaid       Amount `json:"totalPaid"`
	RemainingAmount Amount `json:"remainingAmount"`
}

// Purchase is a tractor bought from a supplier or taken in from a debtor.
type Purchase struct {
	ID            ID         `json:"id"`
	SupplierName  string     `json:"supplierName"`
	Date          Date       `json:"date"`
	ChassisNumber string     `json:"chassisNumber"`
	ModelNumber   string     `json:"modelNumber"`
	InvoiceNumber string     `json:"invoiceNumber"`
	Amount        Amount     `json:"amount"`
	PersonType    PersonType `json:"personType"`
}

// FromDebtor reports whether the purchase was taken in from a debtor.
func (p Purchase) FromDebtor() bool {
	return p.PersonType == PersonDebtor
}

// StockItem is a tractor currently on hand. It shares its ID with the purchase
// that created it.
type StockItem struct {
	ID            ID         `json:"id"`
	Date          Date       `json:"date"`
	InvoiceNumber string     `json:"invoiceNumber"`
	ChassisNumber string     `json:"chassisNumber"`
	ModelNumber   string     `json:"modelNumber"`
	Amount        Amount     `json:"amount"`
	SupplierName  string     `json:"supplierName"`
	PersonType    PersonType `json:"personType"`
}

// StockFromPurchase builds the stock row mirroring p.
func StockFromPurchase(p Purchase) StockItem {
	return StockItem{
		ID:            p.ID,
		Date:          p.Date,
		InvoiceNumber: p.InvoiceNumber,
		ChassisNumber: p.ChassisNumber,
		ModelNumber:   p.ModelNumber,
		Amount:        p.Amount,
		SupplierName:  p.SupplierName,
		PersonType:    p.PersonType,
	}
}

// Sale is a tractor sold to a customer.
type Sale struct {
	ID            ID     `json:"id"`
	Date          Date   `json:"date"`
	SerialNumber  string `json:"serialNumber"`
	ChassisNumber string `json:"chassisNumber"`
	ModelNumber   string `json:"modelNumber"`
	CustomerName  string `json:"customerName"`
	Amount        Amount `json:"amount"`
}

// Matches reports whether the sale matches a free-text search over customer,
// model, chassis and serial number. An empty query matches everything.
func (s Sale) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, field := range []string{s.CustomerName, s.ModelNumber, s.ChassisNumber, s.SerialNumber} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// CashTransaction is a row of the cash book. Rows written by different
// screens carry the amount in Amount, Debit or Credit; the ledger engine
// normalizes them.
type CashTransaction struct {
	ID         ID         `json:"id"`
	Date       Date       `json:"date"`
	Name       string     `json:"name"`
	Amount     Amount     `json:"amount,omitempty"`
	Debit      Amount     `json:"debit,omitempty"`
	Credit     Amount     `json:"credit,omitempty"`
	Type       TxnType    `json:"type,omitempty"`
	PersonType PersonType `json:"personType,omitempty"`
	Particular string     `json:"particular,omitempty"`
	BookType   BookType   `json:"bookType,omitempty"`
}

// BankTransaction is a row of the bank book. Balance is stored for
// compatibility only and is always recomputed.
type BankTransaction struct {
	ID         ID         `json:"id"`
	Date       Date       `json:"date"`
	Particular string     `json:"particular"`
	Debit      Amount     `json:"debit"`
	Credit     Amount     `json:"credit"`
	PersonType PersonType `json:"personType,omitempty"`
	Type       TxnType    `json:"type,omitempty"`
	Amount     Amount     `json:"amount,omitempty"`
	Name       string     `json:"name,omitempty"`
	BookType   BookType   `json:"bookType,omitempty"`
	Balance    Amount     `json:"balance"`
}

// BankAccount is a bank account the business uses.
type BankAccount struct {
	ID            ID     `json:"id"`
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
}

// BankDetails is the single current bank shown on reports.
type BankDetails struct {
	Name          string `json:"name"`
	AccountNumber string `json:"accountNumber"`
}
