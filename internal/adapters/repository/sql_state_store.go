package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/comitanigiacomo/kanso-daily/internal/core/domain"
)

const DefaultStateTable = "tracker_states"

var _ domain.StateStore = (*SQLStateStore)(nil)

// SQLStateStore keeps one row per storage key. The same queries run on
// SQLite and Postgres; sqlx rebinds the placeholders for each driver.
type SQLStateStore struct {
	db    *sqlx.DB
	name  string
	table string
}

func newSQLStateStore(db *sqlx.DB, name, table string) *SQLStateStore {
	if table == "" {
		table = DefaultStateTable
	}
	return &SQLStateStore{db: db, name: name, table: pq.QuoteIdentifier(table)}
}

func (r *SQLStateStore) Name() string {
	return r.name
}

func (r *SQLStateStore) DB() *sqlx.DB {
	return r.db
}

func (r *SQLStateStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := r.db.Rebind(fmt.Sprintf(`SELECT state FROM %s WHERE state_key = ?`, r.table))

	var blob string
	if err := r.db.QueryRowxContext(ctx, query, key).Scan(&blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrStateNotFound
		}
		return nil, fmt.Errorf("%s state store: get %s: %w", r.name, key, err)
	}
	return []byte(blob), nil
}

func (r *SQLStateStore) Put(ctx context.Context, key string, blob []byte) error {
	query := r.db.Rebind(fmt.Sprintf(`
        INSERT INTO %s (state_key, state, updated_at)
        VALUES (?, ?, ?)
        ON CONFLICT (state_key) DO UPDATE SET
            state = excluded.state,
            updated_at = excluded.updated_at`, r.table))

	if _, err := r.db.ExecContext(ctx, query, key, string(blob), time.Now().UTC()); err != nil {
		return fmt.Errorf("%s state store: put %s: %w", r.name, key, err)
	}
	return nil
}

func (r *SQLStateStore) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLStateStore) Close() error {
	return r.db.Close()
}
