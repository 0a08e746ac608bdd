package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aliskhannn/arabingo/internal/storage"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const schema = `
	CREATE TABLE IF NOT EXISTS progress_records (
		key        TEXT PRIMARY KEY,
		value      BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// RecordStore keeps records in the progress_records table.
type RecordStore struct {
	db    DBTX
	pool  *pgxpool.Pool
	scope string
}

// NewRecordStore wraps the pool. scope namespaces keys so several installs
// can share one database.
func NewRecordStore(pool *pgxpool.Pool, scope string) *RecordStore {
	return &RecordStore{db: pool, pool: pool, scope: scope}
}

// EnsureSchema creates the records table if it is missing.
func (s *RecordStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create progress_records: %w", err)
	}
	return nil
}

// Get returns the record value or storage.ErrNotFound.
func (s *RecordStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT value FROM progress_records WHERE key = $1`

	var value []byte
	err := s.db.QueryRow(ctx, query, s.key(key)).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get record: %w", err)
	}

	return value, nil
}

// Put inserts or overwrites the record.
func (s *RecordStore) Put(ctx context.Context, key string, value []byte) error {
	query := `
		INSERT INTO progress_records (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`

	if _, err := s.db.Exec(ctx, query, s.key(key), value); err != nil {
		return fmt.Errorf("put record: %w", err)
	}

	return nil
}

// Delete removes the record if present.
func (s *RecordStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM progress_records WHERE key = $1`, s.key(key)); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// Close closes the underlying pool.
func (s *RecordStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

func (s *RecordStore) key(key string) string {
	if s.scope == "" {
		return key
	}
	return s.scope + ":" + key
}
