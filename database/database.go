package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// TimeLayout is the fixed-width UTC format used for every timestamp column.
// Fixed width keeps lexical order equal to chronological order, so the
// recency and window queries can compare timestamps as text.
const TimeLayout = "2006-01-02 15:04:05.000000000"

// Open opens (creating if needed) the sqlite database at path. The
// connection is process-wide: callers hold it for the duration of a run and
// close it explicitly at the end.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %v", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %v", err)
	}

	return db, nil
}

// CreateTables creates the schema if it does not exist.
func CreateTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			size TEXT NOT NULL,
			category TEXT NOT NULL,
			brand TEXT,
			upc TEXT,
			target_url TEXT,
			walmart_url TEXT,
			cvs_url TEXT,
			walgreens_url TEXT,
			amazon_url TEXT,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS retailers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			base_url TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS price_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			product_id TEXT NOT NULL,
			retailer_id TEXT NOT NULL,
			price REAL NOT NULL,
			timestamp TEXT NOT NULL,
			url TEXT NOT NULL,
			pack_size INTEGER DEFAULT 1,
			advertised_savings REAL,
			FOREIGN KEY (product_id) REFERENCES products(id),
			FOREIGN KEY (retailer_id) REFERENCES retailers(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_price_history_lookup
		ON price_history(product_id, retailer_id, timestamp DESC)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %v", err)
		}
	}

	return nil
}
