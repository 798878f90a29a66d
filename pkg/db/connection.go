package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// busyTimeoutMillis lets a CLI command wait for the server's write lock.
const busyTimeoutMillis = 5000

// Connection is the journal database shared by the bookkeeping service, the
// exporter and the backup scheduler.
type Connection struct {
	db     *sql.DB
	dbPath string
}

// dsn builds the go-sqlite3 connection string for path.
func dsn(path string) string {
	params := url.Values{}
	params.Set("_foreign_keys", "on")
	params.Set("_journal_mode", "WAL")
	params.Set("_busy_timeout", fmt.Sprint(busyTimeoutMillis))
	return "file:" + path + "?" + params.Encode()
}

// Open opens the journal database at dbPath, creating the file and its
// tables on first use.
func Open(dbPath string) (*Connection, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create journal directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite3", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	conn := &Connection{db: sqlDB, dbPath: dbPath}
	if err := conn.init(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return conn, nil
}

func (c *Connection) init() error {
	if err := c.db.Ping(); err != nil {
		return fmt.Errorf("failed to reach journal database %s: %w", c.dbPath, err)
	}
	if err := InitializeSchema(c); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (c *Connection) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// GetPath returns the database file path.
func (c *Connection) GetPath() string {
	return c.dbPath
}

// Query runs a statement that returns rows.
func (c *Connection) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return c.db.Query(query, args...)
}

// QueryRow runs a statement that returns at most one row.
func (c *Connection) QueryRow(query string, args ...interface{}) *sql.Row {
	return c.db.QueryRow(query, args...)
}

// Exec runs a statement without rows.
func (c *Connection) Exec(query string, args ...interface{}) (sql.Result, error) {
	return c.db.Exec(query, args...)
}

// Transaction runs fn in one SQL transaction. It commits when fn returns nil
// and rolls back otherwise, including when fn panics.
func (c *Connection) Transaction(fn func(*sql.Tx) error) (err error) {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil && err != nil {
				err = fmt.Errorf("%w (rollback: %v)", err, rbErr)
			}
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return nil
}

// GetMetadata returns the value stored under key, or "" when there is none.
func (c *Connection) GetMetadata(key string) (string, error) {
	var value string
	switch err := c.db.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value); {
	case err == sql.ErrNoRows:
		return "", nil
	case err != nil:
		return "", fmt.Errorf("failed to read metadata %s: %w", key, err)
	}
	return value, nil
}

// SetMetadata stores value under key, replacing any previous value.
func (c *Connection) SetMetadata(key, value string) error {
	_, err := c.db.Exec(`
		INSERT INTO metadata (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write metadata %s: %w", key, err)
	}
	return nil
}
