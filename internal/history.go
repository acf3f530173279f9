package internal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const historySchema = `
CREATE TABLE IF NOT EXISTS operations (
	id TEXT PRIMARY KEY,
	action TEXT NOT NULL,
	registry_path TEXT NOT NULL DEFAULT '',
	target TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	detail TEXT NOT NULL DEFAULT '',
	created_at INTEGER NOT NULL
)`

// History statuses
const (
	HistoryOK     = "ok"
	HistoryFailed = "error"
)

// HistoryEntry is one recorded client operation
type HistoryEntry struct {
	ID           string    `json:"id"`
	Action       string    `json:"action"`
	RegistryPath string    `json:"registry_path,omitempty"`
	Target       string    `json:"target,omitempty"`
	Status       string    `json:"status"`
	Detail       string    `json:"detail,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// HistoryStore keeps a local log of pulls, pushes and edits
type HistoryStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenHistory opens the history database, creating the file and schema if needed
func OpenHistory(path string) (*HistoryStore, error) {
	db, err := OpenDatabase(path, false)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(historySchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}
	return &HistoryStore{db: db, now: time.Now}, nil
}

// OpenHistoryReadOnly opens an existing history database without creating or changing it
func OpenHistoryReadOnly(path string) (*HistoryStore, error) {
	db, err := OpenDatabase(path, true)
	if err != nil {
		return nil, err
	}
	return &HistoryStore{db: db, now: time.Now}, nil
}

// Close releases the database
func (h *HistoryStore) Close() error {
	return h.db.Close()
}

// Record stores an entry, filling in ID and CreatedAt when empty
func (h *HistoryStore) Record(ctx context.Context, entry HistoryEntry) (HistoryEntry, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = h.now()
	}
	if entry.Status == "" {
		entry.Status = HistoryOK
	}

	_, err := h.db.ExecContext(ctx,
		"INSERT INTO operations (id, action, registry_path, target, status, detail, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		entry.ID, entry.Action, entry.RegistryPath, entry.Target, entry.Status, entry.Detail, entry.CreatedAt.UnixMilli(),
	)
	if err != nil {
		return HistoryEntry{}, fmt.Errorf("failed to record %s: %w", entry.Action, err)
	}
	return entry, nil
}

// List returns up to limit entries, newest first; limit <= 0 means all
func (h *HistoryStore) List(ctx context.Context, limit int) ([]HistoryEntry, error) {
	query := "SELECT id, action, registry_path, target, status, detail, created_at FROM operations ORDER BY created_at DESC, rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := h.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var created int64
		if err := rows.Scan(&e.ID, &e.Action, &e.RegistryPath, &e.Target, &e.Status, &e.Detail, &created); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		e.CreatedAt = time.UnixMilli(created)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return entries, nil
}

// Outcome converts an operation error into a status and detail pair
func Outcome(err error) (string, string) {
	if err == nil {
		return HistoryOK, ""
	}
	return HistoryFailed, err.Error()
}
