// Package sqlite provides the durable source catalog backed by SQLite.
//
// Event sources live in event_source, their submissions in
// attendance_record, and the latest aggregated ledger in ledger_snapshot.
// The snapshot keeps the legacy column order (name, total points, email, with
// email flagged hidden) so the external ledger representation survives a
// re-implementation against the same storage.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Open opens (or creates) the database at path and initializes the schema.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	if err := InitDB(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// InitDB enables WAL mode and creates all tables.
func InitDB(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS event_source (
		id TEXT PRIMARY KEY,
		period TEXT NOT NULL,
		display_name TEXT NOT NULL,
		default_points REAL NOT NULL DEFAULT 0,
		position INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS attendance_record (
		source_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		bonus_points REAL NOT NULL DEFAULT 0,
		PRIMARY KEY (source_id, position),
		FOREIGN KEY (source_id) REFERENCES event_source(id)
	);

	CREATE TABLE IF NOT EXISTS ledger_snapshot (
		period TEXT NOT NULL,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		total_points REAL NOT NULL,
		email TEXT NOT NULL,
		email_hidden INTEGER NOT NULL DEFAULT 1,
		tier TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (period, position)
	);
	`

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
