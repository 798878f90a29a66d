// Package store persists the ledger collections as JSON documents addressed by
// collection key, and applies multi-collection writes as one atomic batch.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Collection keys.
const (
	KeySuppliers        = "suppliers"
	KeyDebtors          = "debtors"
	KeyPurchases        = "purchases"
	KeyStock            = "stock"
	KeySales            = "sales"
	KeyCashTransactions = "cashTransactions"
	KeyBankTransactions = "bankTransactions"
	KeyBankAccounts     = "bankAccounts"
	KeyBankDetails      = "bankDetails"

	// KeyCreditors is no longer written but is still removed by ClearAll.
	KeyCreditors = "creditors"
)

// AllKeys lists every key the application has ever written.
var AllKeys = []string{
	KeySuppliers,
	KeyCreditors,
	KeyPurchases,
	KeyStock,
	KeySales,
	KeyDebtors,
	KeyCashTransactions,
	KeyBankTransactions,
	KeyBankAccounts,
	KeyBankDetails,
}

// ErrStorage matches every StorageError with errors.Is.
var ErrStorage = errors.New("storage failure")

// StorageError reports that the persistent medium rejected a read or write.
type StorageError struct {
	// Op is the operation that failed (e.g., "read", "apply").
	Op string
	// Key is the collection involved, if any.
	Key string
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("store: %s %s failed: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("store: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrStorage) match.
func (e *StorageError) Is(target error) bool {
	return target == ErrStorage
}

// RecordStore is the persistent medium: a flat map from collection key to a
// JSON document.
type RecordStore interface {
	// Read returns the raw document stored under key, or nil when absent.
	Read(key string) ([]byte, error)

	// Apply writes every operation of the batch, or none of them.
	Apply(b *Batch) error

	// Close releases the medium.
	Close() error
}

type batchOp struct {
	key    string
	value  []byte
	delete bool
}

// Batch is an ordered set of collection writes applied together.
type Batch struct {
	// Operation names the mutation that built the batch; it is recorded in the journal.
	Operation string
	ops       []batchOp
}

// NewBatch creates an empty batch for the named operation.
func NewBatch(operation string) *Batch {
	return &Batch{Operation: operation}
}

// Put schedules v to replace the document under key.
func (b *Batch) Put(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	b.PutRaw(key, data)
	return nil
}

// PutRaw schedules an already encoded document.
func (b *Batch) PutRaw(key string, data []byte) {
	b.ops = append(b.ops, batchOp{key: key, value: data})
}

// Delete schedules removal of key.
func (b *Batch) Delete(key string) {
	b.ops = append(b.ops, batchOp{key: key, delete: true})
}

// Keys returns the distinct keys touched by the batch in first-touch order.
func (b *Batch) Keys() []string {
	seen := make(map[string]bool, len(b.ops))
	var keys []string
	for _, op := range b.ops {
		if !seen[op.key] {
			seen[op.key] = true
			keys = append(keys, op.key)
		}
	}
	return keys
}

// Len returns the number of scheduled operations.
func (b *Batch) Len() int {
	return len(b.ops)
}
