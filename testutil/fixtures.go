package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"
)

// HistoryRow is a raw row of the operations table
type HistoryRow struct {
	ID           string
	Action       string
	RegistryPath string
	Status       string
	CreatedAt    time.Time
}

// CreateHistoryFixture writes a history database with the given rows
func CreateHistoryFixture(t *testing.T, dbPath string, rows []HistoryRow) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		t.Fatalf("Failed to create fixture directory: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer func() { _ = db.Close() }()

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS operations (
		id TEXT PRIMARY KEY,
		action TEXT NOT NULL,
		registry_path TEXT NOT NULL DEFAULT '',
		target TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		detail TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL
	)`
	if _, err := db.Exec(createTableSQL); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}

	stmt, err := db.Prepare("INSERT INTO operations (id, action, registry_path, status, created_at) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		t.Fatalf("Failed to prepare insert statement: %v", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.Exec(row.ID, row.Action, row.RegistryPath, row.Status, row.CreatedAt.UnixMilli()); err != nil {
			t.Fatalf("Failed to insert %s: %v", row.ID, err)
		}
	}
}
