package ledger

import (
	"github.com/shopspring/decimal"
)

// CurrencySymbol prefixes formatted amounts.
var CurrencySymbol = "₹"

// Round rounds d to two decimals for presentation.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatAmount renders d with two decimals, e.g. "₹1500.00".
func FormatAmount(d decimal.Decimal) string {
	return CurrencySymbol + d.StringFixed(2)
}

// FormatBalance renders the absolute value of d followed by its label,
// e.g. "₹30000.00 Dr".
func FormatBalance(d decimal.Decimal, p SignPolicy) string {
	return CurrencySymbol + d.Abs().StringFixed(2) + " " + p.Label(d)
}

// FormatColumn renders a debit or credit column, "-" when empty.
func FormatColumn(d decimal.Decimal) string {
	if d.IsZero() {
		return "-"
	}
	return FormatAmount(d)
}
