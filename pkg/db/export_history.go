package db

import (
	"database/sql"
	"fmt"
	"time"
)

// RecordType is the kind of ledger record exported to Beancount.
type RecordType string

const (
	RecordPurchase RecordType = "purchase"
	RecordSale     RecordType = "sale"
	RecordCash     RecordType = "cash"
	RecordBank     RecordType = "bank"
)

// ExportRecord is one row of the export history.
type ExportRecord struct {
	ID            int64
	RecordType    RecordType
	RecordID      string
	RecordDate    string
	Amount        string
	BeancountFile string
	ExportedAt    time.Time
}

// ExportHistory tracks which records have been written to Beancount files,
// so repeated exports only append new transactions.
type ExportHistory struct {
	conn *Connection
}

// NewExportHistory creates an ExportHistory.
func NewExportHistory(conn *Connection) *ExportHistory {
	return &ExportHistory{conn: conn}
}

// RecordExports records exported records in one transaction, so a month
// file and its history rows are noted together. Exporting a record again
// updates its row.
func (h *ExportHistory) RecordExports(records []ExportRecord) error {
	if len(records) == 0 {
		return nil
	}
	return h.conn.Transaction(func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`
			INSERT INTO export_history (record_type, record_id, record_date, amount, beancount_file)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(record_type, record_id) DO UPDATE SET
				record_date = excluded.record_date,
				amount = excluded.amount,
				beancount_file = excluded.beancount_file,
				exported_at = CURRENT_TIMESTAMP
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare export insert: %w", err)
		}
		defer stmt.Close()

		for _, r := range records {
			if _, err := stmt.Exec(string(r.RecordType), r.RecordID, r.RecordDate, r.Amount, r.BeancountFile); err != nil {
				return fmt.Errorf("failed to record export of %s %s: %w", r.RecordType, r.RecordID, err)
			}
		}
		return nil
	})
}

// ExportedIDs returns the ids already exported for a record type, for bulk
// filtering.
func (h *ExportHistory) ExportedIDs(recordType RecordType) (map[string]bool, error) {
	rows, err := h.conn.Query(`SELECT record_id FROM export_history WHERE record_type = ?`, string(recordType))
	if err != nil {
		return nil, fmt.Errorf("failed to get exported ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan record id: %w", err)
		}
		ids[id] = true
	}
	return ids, rows.Err()
}

// Forget removes a record from the history so the next export writes it again.
func (h *ExportHistory) Forget(recordType RecordType, recordID string) (bool, error) {
	result, err := h.conn.Exec(`DELETE FROM export_history WHERE record_type = ? AND record_id = ?`, string(recordType), recordID)
	if err != nil {
		return false, fmt.Errorf("failed to delete export record: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

// ExportStats summarizes the export history.
type ExportStats struct {
	ByType     map[RecordType]int
	Total      int
	LastExport sql.NullString
}

// Stats returns export counts per record type and the last export time.
func (h *ExportHistory) Stats() (*ExportStats, error) {
	stats := ExportStats{ByType: make(map[RecordType]int)}

	rows, err := h.conn.Query(`SELECT record_type, COUNT(*) FROM export_history GROUP BY record_type`)
	if err != nil {
		return nil, fmt.Errorf("failed to get export counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var recordType string
		var count int
		if err := rows.Scan(&recordType, &count); err != nil {
			return nil, fmt.Errorf("failed to scan export count: %w", err)
		}
		stats.ByType[RecordType(recordType)] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	err = h.conn.QueryRow(`SELECT CAST(MAX(exported_at) AS TEXT) FROM export_history`).Scan(&stats.LastExport)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to get last export time: %w", err)
	}
	return &stats, nil
}
