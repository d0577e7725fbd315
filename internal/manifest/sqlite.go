// internal/manifest/sqlite.go
package manifest

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const sqliteTable = "media_manifest"

// SQLiteWriter appends manifest records to a SQLite database, creating the
// table on first use. Repeated runs against the same database accumulate,
// keyed by run_id.
type SQLiteWriter struct {
	db *sql.DB
}

// NewSQLiteWriter opens (or creates) the database at path.
func NewSQLiteWriter(path string) (*SQLiteWriter, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite manifest path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}
	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE IF NOT EXISTS ` + sqliteTable + ` (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			url TEXT NOT NULL,
			kind TEXT NOT NULL,
			filename TEXT,
			status TEXT NOT NULL,
			status_code INTEGER,
			bytes INTEGER,
			location TEXT,
			error TEXT,
			fetched_at DATETIME,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table %s: %w", sqliteTable, err)
	}

	return &SQLiteWriter{db: db}, nil
}

// Write inserts records in a single transaction.
func (w *SQLiteWriter) Write(records []Record) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO ` + sqliteTable + `
			(run_id, url, kind, filename, status, status_code, bytes, location, error, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(
			r.RunID, r.URL, r.Kind, r.Filename, r.Status,
			r.StatusCode, r.Bytes, r.Location, r.Error,
			r.FetchedAt.Format(time.RFC3339),
		); err != nil {
			return fmt.Errorf("failed to insert record for %s: %w", r.URL, err)
		}
	}
	return tx.Commit()
}

// Close closes the database connection.
func (w *SQLiteWriter) Close() error {
	if w.db == nil {
		return nil
	}
	err := w.db.Close()
	w.db = nil
	return err
}

// Count returns how many rows a run wrote, for reporting after a run ends.
func (w *SQLiteWriter) Count(runID string) (int, error) {
	var count int
	err := w.db.QueryRow(
		"SELECT COUNT(*) FROM "+sqliteTable+" WHERE run_id = ?", runID,
	).Scan(&count)
	return count, err
}
