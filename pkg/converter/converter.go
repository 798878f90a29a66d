package converter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/beancount"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/ledger"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/models"
)

// Converter converts ledger records to Beancount transactions.
type Converter struct {
	mapper   *Mapper
	currency string
}

// NewConverter creates a new Converter. An empty currency falls back to the
// mapping's currency, then to INR.
func NewConverter(mapper *Mapper, currency string) *Converter {
	if currency == "" {
		currency = mapper.Currency()
	}
	if currency == "" {
		currency = "INR"
	}
	return &Converter{mapper: mapper, currency: currency}
}

func (c *Converter) posting(account string, amount decimal.Decimal, comment string) beancount.Posting {
	return beancount.Posting{Account: account, Amount: amount, Currency: c.currency, Comment: comment}
}

// pair builds the two postings of a transfer of amount from credit to debit.
func (c *Converter) pair(debit, credit string, amount decimal.Decimal) []beancount.Posting {
	return []beancount.Posting{
		c.posting(debit, amount, ""),
		c.posting(credit, amount.Neg(), ""),
	}
}

// ConvertPurchase books a tractor into inventory against the supplier, or
// against the debtor it was taken in from.
func (c *Converter) ConvertPurchase(p models.Purchase) beancount.Transaction {
	kind := models.PersonCreditor
	if p.FromDebtor() {
		kind = models.PersonDebtor
	}
	amount := p.Amount.Decimal()

	return beancount.Transaction{
		Date:      p.Date.String(),
		Payee:     p.SupplierName,
		Narration: strings.TrimSpace(fmt.Sprintf("Purchase %s", p.ModelNumber)),
		Tags:      []string{"purchase"},
		Links:     chassisLinks(p.ChassisNumber),
		Metadata:  metadata("invoice", p.InvoiceNumber, "chassis", p.ChassisNumber),
		Postings:  c.pair(c.mapper.Inventory(), c.mapper.PartyAccount(kind, p.SupplierName), amount),
	}
}

// ConvertSale books a sale as income receivable from the customer.
func (c *Converter) ConvertSale(s models.Sale) beancount.Transaction {
	return beancount.Transaction{
		Date:      s.Date.String(),
		Payee:     s.CustomerName,
		Narration: strings.TrimSpace(fmt.Sprintf("Sale %s", s.ModelNumber)),
		Tags:      []string{"sale"},
		Links:     chassisLinks(s.ChassisNumber),
		Metadata:  metadata("serial", s.SerialNumber, "chassis", s.ChassisNumber),
		Postings: c.pair(
			c.mapper.PartyAccount(models.PersonDebtor, s.CustomerName),
			c.mapper.Sales(),
			s.Amount.Decimal(),
		),
	}
}

// ConvertCash books a cash book row. Transfers move the amount from cash to
// the bank; rows without a party are balanced against the suspense account.
func (c *Converter) ConvertCash(t models.CashTransaction) beancount.Transaction {
	flow := ledger.CashFlow(t)
	name := t.Name
	if name == "" {
		name = t.Particular
	}
	return c.convertFlow(t.Date, c.mapper.Cash(), t.PersonType, name, flow, "cash")
}

// ConvertBank books a bank book row. The bank half of a cash transfer returns
// ok == false because the cash half already books the transfer.
func (c *Converter) ConvertBank(t models.BankTransaction) (beancount.Transaction, bool) {
	if t.PersonType == models.PersonCash && t.Particular == models.CashTransferName {
		return beancount.Transaction{}, false
	}

	name := t.Particular
	if name == "" {
		name = t.Name
	}

	// Manual rows may carry both columns; book the net movement.
	if t.PersonType == "" && t.Type == "" && !t.Debit.IsZero() && !t.Credit.IsZero() {
		net := t.Debit.Decimal().Sub(t.Credit.Decimal())
		return beancount.Transaction{
			Date:      t.Date.String(),
			Narration: name,
			Tags:      []string{"bank"},
			Postings:  c.pair(c.mapper.Bank(), c.mapper.Suspense(), net),
		}, true
	}
	return c.convertFlow(t.Date, c.mapper.Bank(), t.PersonType, name, ledger.BankFlow(t), "bank"), true
}

func (c *Converter) convertFlow(date models.Date, book string, kind models.PersonType, name string, flow ledger.Flow, tag string) beancount.Transaction {
	counter := c.mapper.Suspense()
	payee := ""
	narration := name

	switch kind {
	case models.PersonCreditor, models.PersonDebtor:
		counter = c.mapper.PartyAccount(kind, name)
		payee = name
		if flow.Type == models.TxnReceive {
			narration = "Received from " + name
		} else {
			narration = "Paid to " + name
		}
	case models.PersonCash:
		counter = c.mapper.Bank()
		narration = models.CashTransferName
	}

	txn := beancount.Transaction{
		Date:      date.String(),
		Payee:     payee,
		Narration: narration,
		Tags:      []string{tag},
	}
	if flow.Type == models.TxnReceive {
		txn.Postings = c.pair(book, counter, flow.Amount)
	} else {
		txn.Postings = c.pair(counter, book, flow.Amount)
	}
	return txn
}

// FormatTransaction formats a Beancount transaction as a string.
func (c *Converter) FormatTransaction(txn beancount.Transaction) string {
	var sb strings.Builder

	sb.WriteString(txn.Date)
	sb.WriteString(" *")
	if txn.Payee != "" {
		fmt.Fprintf(&sb, " %s", quote(txn.Payee))
	}
	fmt.Fprintf(&sb, " %s", quote(txn.Narration))
	for _, tag := range txn.Tags {
		sb.WriteString(" #" + tag)
	}
	for _, link := range txn.Links {
		sb.WriteString(" ^" + link)
	}
	sb.WriteString("\n")

	for _, key := range sortedKeys(txn.Metadata) {
		fmt.Fprintf(&sb, "  %s: %s\n", key, quote(txn.Metadata[key]))
	}

	for _, posting := range txn.Postings {
		sb.WriteString("  ")
		sb.WriteString(posting.Account)

		// Right-align amounts at column 60.
		amount := posting.Amount.StringFixed(2)
		spaces := 60 - len(posting.Account) - len(amount)
		if spaces < 2 {
			spaces = 2
		}
		sb.WriteString(strings.Repeat(" ", spaces))
		fmt.Fprintf(&sb, "%s %s", amount, posting.Currency)

		if posting.Comment != "" {
			fmt.Fprintf(&sb, " ; %s", posting.Comment)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// chassisLinks links purchases and sales of the same tractor.
func chassisLinks(chassis string) []string {
	link := sanitizeAccountName(chassis)
	if link == "" {
		return nil
	}
	return []string{"chassis-" + link}
}

func metadata(pairs ...string) map[string]string {
	m := make(map[string]string)
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			m[pairs[i]] = pairs[i+1]
		}
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
