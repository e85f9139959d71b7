// Package ledger provides an append-only history of synchronization
// attempts for glowd. It exists for auditing; nothing reads it back to
// reconstruct state.
package ledger

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// EventType represents the type of event in the ledger
type EventType string

const (
	EventSyncCompleted EventType = "sync_completed"
	EventSyncFailed    EventType = "sync_failed"
)

// Entry represents a single event in the ledger
type Entry struct {
	ID        int64
	EventType EventType
	Timestamp time.Time
	RequestID string
	Payload   map[string]any
}

// Ledger provides append-only event logging
type Ledger struct {
	db *sql.DB
}

// New creates a new Ledger using the provided database connection
func New(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// Append adds a new event to the ledger
func (l *Ledger) Append(eventType EventType, requestID string, payload map[string]any) error {
	var payloadJSON []byte
	var err error

	if payload != nil {
		payloadJSON, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
	}

	now := time.Now().UTC().Unix()

	_, err = l.db.Exec(
		`INSERT INTO sync_ledger (event_type, timestamp, request_id, payload) VALUES (?, ?, ?, ?)`,
		string(eventType), now, requestID, string(payloadJSON),
	)

	return err
}

// GetByType returns entries filtered by event type, newest first
func (l *Ledger) GetByType(eventType EventType, limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := l.db.Query(`
		SELECT id, event_type, timestamp, request_id, payload
		FROM sync_ledger
		WHERE event_type = ?
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, string(eventType), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Recent returns the newest entries regardless of type
func (l *Ledger) Recent(limit int) ([]*Entry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := l.db.Query(`
		SELECT id, event_type, timestamp, request_id, payload
		FROM sync_ledger
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanEntries(rows)
}

// Cleanup removes entries older than the retention window
func (l *Ledger) Cleanup(retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention).Unix()

	res, err := l.db.Exec(`DELETE FROM sync_ledger WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanEntries(rows *sql.Rows) ([]*Entry, error) {
	var entries []*Entry
	for rows.Next() {
		var entry Entry
		var ts int64
		var payloadJSON sql.NullString
		var requestID sql.NullString

		if err := rows.Scan(&entry.ID, &entry.EventType, &ts, &requestID, &payloadJSON); err != nil {
			return nil, err
		}

		entry.Timestamp = time.Unix(ts, 0).UTC()
		entry.RequestID = requestID.String

		if payloadJSON.Valid && payloadJSON.String != "" {
			if err := json.Unmarshal([]byte(payloadJSON.String), &entry.Payload); err != nil {
				return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
			}
		}

		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
