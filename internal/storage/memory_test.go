package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.Get(ctx, SessionKey)
	assert.ErrorIs(t, err, ErrNotFound)

	value := []byte(`{"uid":"guest_1"}`)
	require.NoError(t, s.Put(ctx, SessionKey, value))
	value[0] = 'X'

	got, err := s.Get(ctx, SessionKey)
	require.NoError(t, err)
	assert.Equal(t, `{"uid":"guest_1"}`, string(got), "stored value is copied")

	require.NoError(t, s.Delete(ctx, SessionKey))
	require.NoError(t, s.Delete(ctx, SessionKey))
	_, err = s.Get(ctx, SessionKey)
	assert.ErrorIs(t, err, ErrNotFound)
}
