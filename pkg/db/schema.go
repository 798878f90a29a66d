// Package db keeps the SQLite side tables of the ledger: a journal of every
// batch written to the record store, and the history of Beancount exports.
package db

// Schema defines the SQL statements to create database tables.
const Schema = `
-- Batch journal
-- One row per batch applied to the record store. A row left in 'pending'
-- means the process stopped between Begin and Finish.
CREATE TABLE IF NOT EXISTS batch_journal (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    operation TEXT NOT NULL,           -- e.g. 'record sale'
    collections TEXT NOT NULL,         -- comma separated collection keys
    status TEXT NOT NULL DEFAULT 'pending',  -- 'pending', 'applied' or 'failed'
    error TEXT,
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_batch_journal_status
    ON batch_journal(status);

-- Export history
-- Tracks which records have been written to the Beancount ledger
CREATE TABLE IF NOT EXISTS export_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    record_type TEXT NOT NULL,         -- 'purchase', 'sale', 'cash' or 'bank'
    record_id TEXT NOT NULL,
    record_date TEXT NOT NULL,         -- YYYY-MM-DD
    amount TEXT NOT NULL,              -- decimal string, two places
    beancount_file TEXT NOT NULL,
    exported_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(record_type, record_id)
);

CREATE INDEX IF NOT EXISTS idx_export_history_date
    ON export_history(record_date);

-- Key-value metadata, e.g. the time of the last backup
CREATE TABLE IF NOT EXISTS metadata (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// InitializeSchema creates all tables if they don't exist.
func InitializeSchema(conn *Connection) error {
	if _, err := conn.Exec(Schema); err != nil {
		return err
	}
	return nil
}
