package store

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"slices"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/models"
)

// Repository reads typed collections from a RecordStore.
//
// Reads are lenient: a missing key is an empty collection, a document that is
// not valid JSON is treated as empty, and array elements that are null or fail
// to decode are skipped. Each discarded piece is logged at warn level.
type Repository struct {
	store  RecordStore
	logger *slog.Logger
}

// NewRepository creates a Repository over s.
func NewRepository(s RecordStore) *Repository {
	return &Repository{
		store:  s,
		logger: slog.Default().With("component", "store"),
	}
}

// Store returns the underlying RecordStore.
func (r *Repository) Store() RecordStore {
	return r.store
}

// Apply writes the batch atomically.
func (r *Repository) Apply(b *Batch) error {
	if b.Len() == 0 {
		return nil
	}
	return r.store.Apply(b)
}

// ReadCollection decodes the array stored under key into []T.
func ReadCollection[T any](r *Repository, key string) ([]T, error) {
	data, err := r.store.Read(key)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		r.logger.Warn("discarding unparsable collection", "key", key, "error", err)
		return []T{}, nil
	}

	items := make([]T, 0, len(raw))
	for i, elem := range raw {
		if string(bytes.TrimSpace(elem)) == "null" {
			r.logger.Warn("skipping null record", "key", key, "index", i)
			continue
		}
		var item T
		if err := json.Unmarshal(elem, &item); err != nil {
			r.logger.Warn("skipping unparsable record", "key", key, "index", i, "error", err)
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// Suppliers returns the supplier names. Blank entries are dropped.
func (r *Repository) Suppliers() ([]string, error) {
	names, err := ReadCollection[string](r, KeySuppliers)
	if err != nil {
		return nil, err
	}
	out := names[:0]
	for _, n := range names {
		if n != "" {
			out = append(out, n)
		}
	}
	return out, nil
}

// Debtors returns the debtor records.
func (r *Repository) Debtors() ([]models.Debtor, error) {
	return ReadCollection[models.Debtor](r, KeyDebtors)
}

// Purchases returns the purchase records.
func (r *Repository) Purchases() ([]models.Purchase, error) {
	return ReadCollection[models.Purchase](r, KeyPurchases)
}

// Stock returns the stock rows.
func (r *Repository) Stock() ([]models.StockItem, error) {
	return ReadCollection[models.StockItem](r, KeyStock)
}

// Sales returns the sale records.
func (r *Repository) Sales() ([]models.Sale, error) {
	return ReadCollection[models.Sale](r, KeySales)
}

// CashTransactions returns the cash book rows.
func (r *Repository) CashTransactions() ([]models.CashTransaction, error) {
	return ReadCollection[models.CashTransaction](r, KeyCashTransactions)
}

// BankTransactions returns the bank book rows.
func (r *Repository) BankTransactions() ([]models.BankTransaction, error) {
	return ReadCollection[models.BankTransaction](r, KeyBankTransactions)
}

// BankAccounts returns the bank accounts.
func (r *Repository) BankAccounts() ([]models.BankAccount, error) {
	return ReadCollection[models.BankAccount](r, KeyBankAccounts)
}

// BankDetails returns the current bank details, or nil if none are stored.
func (r *Repository) BankDetails() (*models.BankDetails, error) {
	data, err := r.store.Read(KeyBankDetails)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 || string(bytes.TrimSpace(data)) == "null" {
		return nil, nil
	}
	var details models.BankDetails
	if err := json.Unmarshal(data, &details); err != nil {
		r.logger.Warn("discarding unparsable document", "key", KeyBankDetails, "error", err)
		return nil, nil
	}
	return &details, nil
}

// Snapshot loads every collection.
func (r *Repository) Snapshot() (*models.Snapshot, error) {
	var (
		snap models.Snapshot
		err  error
	)
	if snap.Suppliers, err = r.Suppliers(); err != nil {
		return nil, err
	}
	if snap.Debtors, err = r.Debtors(); err != nil {
		return nil, err
	}
	if snap.Purchases, err = r.Purchases(); err != nil {
		return nil, err
	}
	if snap.Stock, err = r.Stock(); err != nil {
		return nil, err
	}
	if snap.Sales, err = r.Sales(); err != nil {
		return nil, err
	}
	if snap.CashTransactions, err = r.CashTransactions(); err != nil {
		return nil, err
	}
	if snap.BankTransactions, err = r.BankTransactions(); err != nil {
		return nil, err
	}
	if snap.BankAccounts, err = r.BankAccounts(); err != nil {
		return nil, err
	}
	if snap.BankDetails, err = r.BankDetails(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// Import writes raw documents, as exported from the browser, into the store in
// one batch. Only known keys are accepted; unknown keys are returned.
func (r *Repository) Import(docs map[string]json.RawMessage) (skipped []string, err error) {
	known := make(map[string]bool, len(AllKeys))
	for _, k := range AllKeys {
		known[k] = true
	}

	b := NewBatch("import")
	for _, key := range AllKeys {
		doc, ok := docs[key]
		if !ok {
			continue
		}
		// localStorage dumps hold each document as a JSON string.
		var inner string
		if err := json.Unmarshal(doc, &inner); err == nil {
			doc = json.RawMessage(inner)
		}
		b.PutRaw(key, []byte(doc))
	}
	for key := range docs {
		if !known[key] {
			skipped = append(skipped, key)
		}
	}
	slices.Sort(skipped)
	return skipped, r.Apply(b)
}
