package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/pigeonworks-llc/showroom-ledger/pkg/models"
)

func openTestBolt(t *testing.T) *BoltStore {
	t.Helper()

	st, err := OpenBolt(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestBoltStoreApplyAndRead(t *testing.T) {
	st := openTestBolt(t)

	b := NewBatch("seed")
	if err := b.Put(KeySuppliers, []string{"Acme"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := b.Put(KeyBankDetails, models.BankDetails{Name: "SBI", AccountNumber: "42"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := st.Apply(b); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	data, err := st.Read(KeySuppliers)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(data) != `["Acme"]` {
		t.Errorf("Read(suppliers) = %s", data)
	}

	missing, err := st.Read(KeySales)
	if err != nil {
		t.Fatalf("Read missing: %v", err)
	}
	if missing != nil {
		t.Errorf("Read(sales) = %s, expected nil", missing)
	}

	keys, err := st.Keys()
	if err != nil {
		t.Fatalf("Keys: %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("Keys() = %v, expected 2 keys", keys)
	}
}

func TestBoltStoreDeleteInBatch(t *testing.T) {
	st := openTestBolt(t)

	seed := NewBatch("seed")
	seed.PutRaw(KeyCreditors, []byte(`[]`))
	seed.PutRaw(KeyStock, []byte(`[]`))
	if err := st.Apply(seed); err != nil {
		t.Fatalf("Apply seed: %v", err)
	}

	wipe := NewBatch("clear")
	wipe.Delete(KeyCreditors)
	wipe.Delete(KeyStock)
	if err := st.Apply(wipe); err != nil {
		t.Fatalf("Apply clear: %v", err)
	}

	for _, key := range []string{KeyCreditors, KeyStock} {
		data, err := st.Read(key)
		if err != nil {
			t.Fatalf("Read(%s): %v", key, err)
		}
		if data != nil {
			t.Errorf("Read(%s) = %s after delete", key, data)
		}
	}
}

func TestBoltStoreBackup(t *testing.T) {
	st := openTestBolt(t)

	b := NewBatch("seed")
	b.PutRaw(KeySuppliers, []byte(`["Acme"]`))
	if err := st.Apply(b); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	var buf bytes.Buffer
	n, err := st.Backup(&buf)
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if n == 0 || int64(buf.Len()) != n {
		t.Errorf("Backup wrote %d bytes, buffer has %d", n, buf.Len())
	}
}

func TestMemoryStoreFailApplyWritesNothing(t *testing.T) {
	st := NewMemoryStore()
	st.FailApply = ErrInjected

	b := NewBatch("transfer")
	b.PutRaw(KeyCashTransactions, []byte(`[{"id":1}]`))
	b.PutRaw(KeyBankTransactions, []byte(`[{"id":1}]`))

	err := st.Apply(b)
	if err == nil {
		t.Fatal("expected Apply to fail")
	}
	if !errors.Is(err, ErrStorage) {
		t.Errorf("errors.Is(err, ErrStorage) = false for %v", err)
	}
	var se *StorageError
	if !errors.As(err, &se) || !errors.Is(se.Err, ErrInjected) {
		t.Errorf("expected StorageError wrapping ErrInjected, got %v", err)
	}

	for _, key := range b.Keys() {
		if data, _ := st.Read(key); data != nil {
			t.Errorf("%s written despite failed apply: %s", key, data)
		}
	}
}

func TestBatchKeysDeduplicates(t *testing.T) {
	b := NewBatch("x")
	b.PutRaw(KeyStock, []byte(`[]`))
	b.PutRaw(KeyPurchases, []byte(`[]`))
	b.PutRaw(KeyStock, []byte(`[1]`))

	keys := b.Keys()
	if len(keys) != 2 || keys[0] != KeyStock || keys[1] != KeyPurchases {
		t.Errorf("Keys() = %v", keys)
	}
	if b.Len() != 3 {
		t.Errorf("Len() = %d, expected 3", b.Len())
	}
}

func TestReadCollectionLenient(t *testing.T) {
	tests := []struct {
		name     string
		document string
		expected int
	}{
		{"absent", "", 0},
		{"empty array", `[]`, 0},
		{"corrupt document", `{not json`, 0},
		{"object instead of array", `{"id":1}`, 0},
		{"null element skipped", `[{"id":1,"amount":10},null,{"id":2,"amount":"20"}]`, 2},
		{"bad element skipped", `[{"id":1,"supplierName":5},{"id":2}]`, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := NewMemoryStore()
			if tt.document != "" {
				st.Set(KeyPurchases, []byte(tt.document))
			}
			repo := NewRepository(st)

			purchases, err := repo.Purchases()
			if err != nil {
				t.Fatalf("Purchases: %v", err)
			}
			if len(purchases) != tt.expected {
				t.Errorf("got %d purchases, expected %d", len(purchases), tt.expected)
			}
		})
	}
}

func TestSnapshotIsIdempotent(t *testing.T) {
	st := NewMemoryStore()
	st.Set(KeySuppliers, []byte(`["Acme",""]`))
	st.Set(KeyStock, []byte(`[{"id":1,"chassisNumber":"C1","amount":500}]`))
	st.Set(KeyBankDetails, []byte(`{"name":"SBI","accountNumber":"99"}`))
	repo := NewRepository(st)

	first, err := repo.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	second, err := repo.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if !bytes.Equal(a, b) {
		t.Errorf("snapshots differ:\n%s\n%s", a, b)
	}
	if len(first.Suppliers) != 1 {
		t.Errorf("blank supplier not dropped: %v", first.Suppliers)
	}
	if first.BankDetails == nil || first.BankDetails.Name != "SBI" {
		t.Errorf("BankDetails = %+v", first.BankDetails)
	}
}

func TestImportUnwrapsLocalStorageStrings(t *testing.T) {
	st := NewMemoryStore()
	repo := NewRepository(st)

	docs := map[string]json.RawMessage{
		KeySuppliers: json.RawMessage(`"[\"Acme\"]"`),
		KeySales:     json.RawMessage(`[{"id":5,"customerName":"Ravi","amount":100}]`),
		"theme":      json.RawMessage(`"dark"`),
	}
	skipped, err := repo.Import(docs)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(skipped) != 1 || skipped[0] != "theme" {
		t.Errorf("skipped = %v", skipped)
	}

	suppliers, err := repo.Suppliers()
	if err != nil {
		t.Fatalf("Suppliers: %v", err)
	}
	if len(suppliers) != 1 || suppliers[0] != "Acme" {
		t.Errorf("Suppliers() = %v", suppliers)
	}
	sales, err := repo.Sales()
	if err != nil {
		t.Fatalf("Sales: %v", err)
	}
	if len(sales) != 1 || sales[0].ID != "5" {
		t.Errorf("Sales() = %+v", sales)
	}
}
