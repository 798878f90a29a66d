package converter

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/beancount"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/db"
	"github.com/pigeonworks-llc/showroom-ledger/pkg/models"
)

// ExportTracker remembers which records have been exported.
type ExportTracker interface {
	ExportedIDs(recordType db.RecordType) (map[string]bool, error)
	RecordExports(records []db.ExportRecord) error
}

// PendingTransaction is a converted record waiting to be written.
type PendingTransaction struct {
	RecordType  db.RecordType
	RecordID    string
	Transaction beancount.Transaction
}

// Month returns the YYYY-MM key of the transaction.
func (p PendingTransaction) Month() string {
	if len(p.Transaction.Date) < 7 {
		return ""
	}
	return p.Transaction.Date[:7]
}

// Pending converts every record of snap that tracker has not seen yet.
// Records without a usable date are skipped with a warning.
func (c *Converter) Pending(snap *models.Snapshot, tracker ExportTracker) ([]PendingTransaction, error) {
	seen := make(map[db.RecordType]map[string]bool)
	for _, rt := range []db.RecordType{db.RecordPurchase, db.RecordSale, db.RecordCash, db.RecordBank} {
		ids, err := tracker.ExportedIDs(rt)
		if err != nil {
			return nil, fmt.Errorf("failed to load export history: %w", err)
		}
		seen[rt] = ids
	}

	var out []PendingTransaction
	add := func(rt db.RecordType, id models.ID, date models.Date, txn beancount.Transaction) {
		if seen[rt][id.String()] {
			return
		}
		if date.Time.IsZero() {
			slog.Warn("Skipping record without a date", "type", rt, "id", id)
			return
		}
		out = append(out, PendingTransaction{RecordType: rt, RecordID: id.String(), Transaction: txn})
	}

	for _, p := range snap.Purchases {
		add(db.RecordPurchase, p.ID, p.Date, c.ConvertPurchase(p))
	}
	for _, s := range snap.Sales {
		add(db.RecordSale, s.ID, s.Date, c.ConvertSale(s))
	}
	for _, t := range snap.CashTransactions {
		add(db.RecordCash, t.ID, t.Date, c.ConvertCash(t))
	}
	for _, t := range snap.BankTransactions {
		if txn, ok := c.ConvertBank(t); ok {
			add(db.RecordBank, t.ID, t.Date, txn)
		}
	}

	slices.SortStableFunc(out, func(a, b PendingTransaction) int {
		switch {
		case a.Transaction.Date < b.Transaction.Date:
			return -1
		case a.Transaction.Date > b.Transaction.Date:
			return 1
		}
		return 0
	})
	return out, nil
}

// ExportResult summarizes an export run.
type ExportResult struct {
	Transactions int
	Files        []string
}

// Export appends pending transactions to their month files and records each
// month's records in tracker once the month is written.
func (c *Converter) Export(pending []PendingTransaction, repo beancount.Repository, tracker ExportTracker, monthPath func(string) (string, error)) (ExportResult, error) {
	var result ExportResult

	byMonth := make(map[string][]PendingTransaction)
	var months []string
	for _, p := range pending {
		m := p.Month()
		if _, ok := byMonth[m]; !ok {
			months = append(months, m)
		}
		byMonth[m] = append(byMonth[m], p)
	}
	slices.Sort(months)

	for _, month := range months {
		items := byMonth[month]
		filePath, err := monthPath(month)
		if err != nil {
			return result, fmt.Errorf("failed to get month file path: %w", err)
		}

		formatted := make([]string, 0, len(items))
		for _, p := range items {
			formatted = append(formatted, c.FormatTransaction(p.Transaction))
		}
		if err := repo.AppendTransactions(month, formatted); err != nil {
			return result, fmt.Errorf("failed to write %s: %w", month, err)
		}

		records := make([]db.ExportRecord, 0, len(items))
		for _, p := range items {
			records = append(records, db.ExportRecord{
				RecordType:    p.RecordType,
				RecordID:      p.RecordID,
				RecordDate:    p.Transaction.Date,
				Amount:        postingTotal(p.Transaction).StringFixed(2),
				BeancountFile: filePath,
			})
		}
		if err := tracker.RecordExports(records); err != nil {
			return result, err
		}

		result.Transactions += len(items)
		result.Files = append(result.Files, filePath)
		slog.Info("Updated file", "path", filePath, "transactions", len(items))
	}
	return result, nil
}

// postingTotal is the amount moved by a transaction: the sum of its positive
// postings.
func postingTotal(txn beancount.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, p := range txn.Postings {
		if p.Amount.IsPositive() {
			total = total.Add(p.Amount)
		}
	}
	return total
}
