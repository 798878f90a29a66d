package store

import (
	"errors"
	"sync"
)

// MemoryStore is an in-process RecordStore, used by tests and dry runs.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	// FailApply, when set, makes every Apply fail without writing anything.
	FailApply error
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Read implements RecordStore.
func (m *MemoryStore) Read(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Apply implements RecordStore.
func (m *MemoryStore) Apply(batch *Batch) error {
	if m.FailApply != nil {
		return &StorageError{Op: "apply " + batch.Operation, Err: m.FailApply}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, op := range batch.ops {
		if op.delete {
			delete(m.data, op.key)
			continue
		}
		m.data[op.key] = op.value
	}
	return nil
}

// Set stores raw data under key, bypassing batches. Tests use it to seed
// documents written by older versions.
func (m *MemoryStore) Set(key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
}

// Close implements RecordStore.
func (m *MemoryStore) Close() error {
	return nil
}

// ErrInjected is a convenience error for FailApply.
var ErrInjected = errors.New("injected failure")
