package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// bucketCollections holds one entry per collection key.
const bucketCollections = "collections"

// BoltStore is a RecordStore backed by a bbolt database file.
type BoltStore struct {
	db   *bolt.DB
	path string
}

// lockTimeout bounds the wait for the file lock held by another process,
// e.g. a running server.
const lockTimeout = 2 * time.Second

// OpenBolt opens (or creates) the database at dbPath and initializes buckets.
func OpenBolt(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: lockTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketCollections)); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucketCollections, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltStore{db: db, path: dbPath}, nil
}

// Path returns the database file path.
func (s *BoltStore) Path() string {
	return s.path
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Read implements RecordStore.
func (s *BoltStore) Read(key string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCollections))
		if b == nil {
			return fmt.Errorf("bucket %s not found", bucketCollections)
		}

		v := b.Get([]byte(key))
		if v == nil {
			return nil
		}
		// Copy the value since it's only valid during the transaction.
		data = make([]byte, len(v))
		copy(data, v)
		return nil
	})
	if err != nil {
		return nil, &StorageError{Op: "read", Key: key, Err: err}
	}
	return data, nil
}

// Apply implements RecordStore. All operations run inside one bbolt
// read-write transaction.
func (s *BoltStore) Apply(batch *Batch) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCollections))
		if b == nil {
			return fmt.Errorf("bucket %s not found", bucketCollections)
		}

		for _, op := range batch.ops {
			if op.delete {
				if err := b.Delete([]byte(op.key)); err != nil {
					return fmt.Errorf("delete %s: %w", op.key, err)
				}
				continue
			}
			if err := b.Put([]byte(op.key), op.value); err != nil {
				return fmt.Errorf("put %s: %w", op.key, err)
			}
		}
		return nil
	})
	if err != nil {
		return &StorageError{Op: "apply " + batch.Operation, Err: err}
	}
	return nil
}

// Keys lists the collection keys present in the store.
func (s *BoltStore) Keys() ([]string, error) {
	var keys []string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketCollections))
		if b == nil {
			return fmt.Errorf("bucket %s not found", bucketCollections)
		}
		return b.ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, &StorageError{Op: "list keys", Err: err}
	}
	return keys, nil
}

// Backup writes a consistent copy of the database to w.
func (s *BoltStore) Backup(w io.Writer) (int64, error) {
	var n int64
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		n, err = tx.WriteTo(w)
		return err
	})
	if err != nil {
		return n, &StorageError{Op: "backup", Err: err}
	}
	return n, nil
}
