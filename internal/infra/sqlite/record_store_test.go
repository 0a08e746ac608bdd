package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/arabingo/internal/storage"
)

func TestOpenRequiresPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestRecordStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "progress.db")

	s, err := Open(path)
	require.NoError(t, err)

	_, err = s.Get(ctx, storage.SessionKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Put(ctx, storage.SessionKey, []byte(`{"xp":1}`)))
	require.NoError(t, s.Put(ctx, storage.SessionKey, []byte(`{"xp":2}`)))
	require.NoError(t, s.Put(ctx, storage.QueueKey, []byte(`[]`)))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	got, err := s.Get(ctx, storage.SessionKey)
	require.NoError(t, err)
	assert.Equal(t, `{"xp":2}`, string(got))

	require.NoError(t, s.Delete(ctx, storage.QueueKey))
	_, err = s.Get(ctx, storage.QueueKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
