package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// BatchStatus is the state of a journaled batch.
type BatchStatus string

const (
	BatchPending BatchStatus = "pending"
	BatchApplied BatchStatus = "applied"
	BatchFailed  BatchStatus = "failed"
)

// BatchRecord is one row of the batch journal.
type BatchRecord struct {
	ID          int64
	Operation   string
	Collections []string
	Status      BatchStatus
	Error       string
	StartedAt   time.Time
	FinishedAt  sql.NullTime
}

// BatchJournal records every batch the bookkeeping service applies.
type BatchJournal struct {
	conn *Connection
	now  func() time.Time
}

// NewBatchJournal creates a BatchJournal.
func NewBatchJournal(conn *Connection) *BatchJournal {
	return &BatchJournal{conn: conn, now: time.Now}
}

// Begin records a pending batch and returns its id.
func (j *BatchJournal) Begin(operation string, collections []string) (int64, error) {
	result, err := j.conn.Exec(`
		INSERT INTO batch_journal (operation, collections, status, started_at)
		VALUES (?, ?, ?, ?)
	`, operation, strings.Join(collections, ","), string(BatchPending), j.now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to begin batch: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get batch id: %w", err)
	}
	return id, nil
}

// Finish marks a batch applied, or failed with applyErr.
func (j *BatchJournal) Finish(id int64, applyErr error) error {
	status := BatchApplied
	var errText sql.NullString
	if applyErr != nil {
		status = BatchFailed
		errText = sql.NullString{String: applyErr.Error(), Valid: true}
	}

	result, err := j.conn.Exec(`
		UPDATE batch_journal SET status = ?, error = ?, finished_at = ?
		WHERE id = ?
	`, string(status), errText, j.now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to finish batch: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("batch %d not found in journal", id)
	}
	return nil
}

// Pending returns batches that were started but never finished, oldest first.
func (j *BatchJournal) Pending() ([]BatchRecord, error) {
	return j.query(`
		SELECT id, operation, collections, status, error, started_at, finished_at
		FROM batch_journal
		WHERE status = 'pending'
		ORDER BY id ASC
	`)
}

// Recent returns the latest limit batches, newest first.
func (j *BatchJournal) Recent(limit int) ([]BatchRecord, error) {
	return j.query(`
		SELECT id, operation, collections, status, error, started_at, finished_at
		FROM batch_journal
		ORDER BY id DESC
		LIMIT ?
	`, limit)
}

func (j *BatchJournal) query(query string, args ...interface{}) ([]BatchRecord, error) {
	rows, err := j.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query batch journal: %w", err)
	}
	defer rows.Close()

	var records []BatchRecord
	for rows.Next() {
		var (
			record      BatchRecord
			collections string
			status      string
			errText     sql.NullString
		)
		if err := rows.Scan(
			&record.ID,
			&record.Operation,
			&collections,
			&status,
			&errText,
			&record.StartedAt,
			&record.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan batch record: %w", err)
		}
		if collections != "" {
			record.Collections = strings.Split(collections, ",")
		}
		record.Status = BatchStatus(status)
		record.Error = errText.String
		records = append(records, record)
	}
	return records, rows.Err()
}

// JournalStats counts journaled batches by status.
type JournalStats struct {
	Applied int
	Failed  int
	Pending int
}

// Stats returns counts per status.
func (j *BatchJournal) Stats() (*JournalStats, error) {
	rows, err := j.conn.Query(`SELECT status, COUNT(*) FROM batch_journal GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to get journal stats: %w", err)
	}
	defer rows.Close()

	var stats JournalStats
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan journal stats: %w", err)
		}
		switch BatchStatus(status) {
		case BatchApplied:
			stats.Applied = count
		case BatchFailed:
			stats.Failed = count
		case BatchPending:
			stats.Pending = count
		}
	}
	return &stats, rows.Err()
}
