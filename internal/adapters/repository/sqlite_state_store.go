package repository

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteMemory = ":memory:"

// OpenSQLiteStateStore opens (and creates if needed) the database at path.
// ":memory:" gives a private in-process database.
func OpenSQLiteStateStore(path, table string) (*SQLStateStore, error) {
	if path != sqliteMemory {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection keeps ":memory:" a single database and serializes writers.
	db.SetMaxOpenConns(1)

	store := newSQLStateStore(db, "sqlite", table)
	schema := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            state_key TEXT PRIMARY KEY,
            state TEXT NOT NULL,
            updated_at DATETIME NOT NULL
        )`, store.table)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}
