// Package beancount writes ledger records to monthly Beancount files.
package beancount

import "github.com/shopspring/decimal"

// Transaction represents a Beancount transaction.
type Transaction struct {
	Date      string            // YYYY-MM-DD
	Narration string            // Transaction description
	Payee     string            // Party name (optional)
	Tags      []string          // Tags (e.g., ["purchase"])
	Links     []string          // Links (e.g., ["chassis-CH1"])
	Metadata  map[string]string // Metadata key-value pairs
	Postings  []Posting         // Transaction postings
}

// Posting represents a posting in a Beancount transaction.
type Posting struct {
	Account  string          // Account name (e.g., "Assets:Current:Cash")
	Amount   decimal.Decimal // Positive for debit, negative for credit
	Currency string          // Currency code (e.g., "INR")
	Comment  string          // Posting comment (optional)
}

// Balanced reports whether the postings sum to zero.
func (t Transaction) Balanced() bool {
	sum := decimal.Zero
	for _, p := range t.Postings {
		sum = sum.Add(p.Amount)
	}
	return sum.IsZero()
}
