package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const createObjects = `CREATE TABLE IF NOT EXISTS objects (
    key TEXT PRIMARY KEY,
    class TEXT NOT NULL,
    record TEXT NOT NULL
);`

// sqliteDocument keeps the same records as jsonDocument, one row per entity,
// in a SQLite database file. The database is opened for each Load or Store
// and closed again.
type sqliteDocument struct{}

// Load reads every row. A missing database file yields an error wrapping
// fs.ErrNotExist; the file is not created.
func (sqliteDocument) Load(path string) (map[string][]byte, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.Exec(createObjects); err != nil {
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	rows, err := db.Query("SELECT key, record FROM objects")
	if err != nil {
		return nil, fmt.Errorf("querying objects: %w", err)
	}
	defer rows.Close()

	records := make(map[string][]byte)
	for rows.Next() {
		var key, record string
		if err := rows.Scan(&key, &record); err != nil {
			return nil, fmt.Errorf("scanning object: %w", err)
		}
		records[key] = []byte(record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating objects: %w", err)
	}
	return records, nil
}

// Store replaces every row inside a single transaction.
func (sqliteDocument) Store(path string, records map[string][]byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.Exec(createObjects); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM objects"); err != nil {
		return fmt.Errorf("clearing objects: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO objects (key, class, record) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for key, rec := range records {
		if _, err := stmt.Exec(key, recordClass(rec), string(rec)); err != nil {
			return fmt.Errorf("inserting %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save transaction: %w", err)
	}
	return nil
}

// recordClass extracts the class tag from an encoded record for the class
// column. Records without one get an empty class.
func recordClass(rec []byte) string {
	var head struct {
		Class string `json:"__class__"`
	}
	if err := json.Unmarshal(rec, &head); err != nil {
		return ""
	}
	return head.Class
}
