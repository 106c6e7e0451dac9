package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func NewPostgresStateStore(db *sqlx.DB, table string) *SQLStateStore {
	return newSQLStateStore(db, "postgres", table)
}

// EnsurePostgresSchema creates the state table when it is missing.
func EnsurePostgresSchema(ctx context.Context, store *SQLStateStore) error {
	schema := fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            state_key TEXT PRIMARY KEY,
            state JSONB NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`, store.table)

	if _, err := store.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

func ConnectPostgres(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return db, nil
}
