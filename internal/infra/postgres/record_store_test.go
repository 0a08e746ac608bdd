package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/arabingo/internal/storage"
)

type fakeRow struct {
	value []byte
	err   error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.value
	return nil
}

type fakeDB struct {
	rows map[string][]byte
	args [][]any
	err  error
}

func (f *fakeDB) Exec(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
	f.args = append(f.args, args)
	if f.err != nil {
		return pgconn.CommandTag{}, f.err
	}
	switch len(args) {
	case 2:
		f.rows[args[0].(string)] = args[1].([]byte)
	case 1:
		delete(f.rows, args[0].(string))
	}
	return pgconn.CommandTag{}, nil
}

func (f *fakeDB) QueryRow(_ context.Context, _ string, args ...any) pgx.Row {
	f.args = append(f.args, args)
	if f.err != nil {
		return fakeRow{err: f.err}
	}
	value, ok := f.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{value: value}
}

func TestRecordStore_ScopesKeys(t *testing.T) {
	ctx := context.Background()
	db := &fakeDB{rows: map[string][]byte{}}
	s := &RecordStore{db: db, scope: "home"}

	require.NoError(t, s.Put(ctx, storage.SessionKey, []byte("x")))
	assert.Contains(t, db.rows, "home:"+storage.SessionKey)

	got, err := s.Get(ctx, storage.SessionKey)
	require.NoError(t, err)
	assert.Equal(t, "x", string(got))

	require.NoError(t, s.Delete(ctx, storage.SessionKey))
	_, err = s.Get(ctx, storage.SessionKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRecordStore_UnscopedKeys(t *testing.T) {
	db := &fakeDB{rows: map[string][]byte{}}
	s := &RecordStore{db: db}

	require.NoError(t, s.Put(context.Background(), storage.QueueKey, []byte("[]")))
	assert.Contains(t, db.rows, storage.QueueKey)
}

func TestRecordStore_WrapsDriverErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection reset")
	s := &RecordStore{db: &fakeDB{rows: map[string][]byte{}, err: boom}}

	_, err := s.Get(ctx, storage.SessionKey)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, s.Put(ctx, storage.SessionKey, nil), boom)
	assert.ErrorIs(t, s.Delete(ctx, storage.SessionKey), boom)
	assert.ErrorIs(t, s.EnsureSchema(ctx), boom)
}

func TestRecordStore_Integration(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	pool, err := NewPool(ctx, url, PoolConfig{MaxConns: 2})
	require.NoError(t, err)
	s := NewRecordStore(pool, "test")
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.EnsureSchema(ctx))
	require.NoError(t, s.Put(ctx, storage.SessionKey, []byte(`{"xp":3}`)))

	got, err := s.Get(ctx, storage.SessionKey)
	require.NoError(t, err)
	assert.Equal(t, `{"xp":3}`, string(got))

	require.NoError(t, s.Delete(ctx, storage.SessionKey))
	_, err = s.Get(ctx, storage.SessionKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
