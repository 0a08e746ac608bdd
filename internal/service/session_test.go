package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/arabingo/internal/repository"
	"github.com/aliskhannn/arabingo/internal/storage"
)

func TestSessionManager_EnsureSessionCreatesGuest(t *testing.T) {
	h := newHarness(t, morning)
	ctx := context.Background()

	p, err := h.sessions.EnsureSession(ctx)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(p.UID, "guest_"))
	assert.Equal(t, "Explorer", p.DisplayName)
	assert.True(t, p.IsAnonymous)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 5, p.Hearts)
	assert.Equal(t, 500, p.Gems)

	stored, err := h.sessRepo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, p.UID, stored.UID)

	current, err := h.progress.Current()
	require.NoError(t, err)
	assert.Equal(t, p.UID, current.UID)
}

func TestSessionManager_EnsureSessionKeepsExisting(t *testing.T) {
	h := newHarness(t, morning)
	ctx := context.Background()

	first, err := h.sessions.RegisterWithEmail(ctx, "amina@example.com")
	require.NoError(t, err)

	h.progress.Reset()
	again, err := h.sessions.EnsureSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.UID, again.UID)
}

func TestSessionManager_CorruptSessionIsAbsent(t *testing.T) {
	h := newHarness(t, morning)
	ctx := context.Background()

	require.NoError(t, h.store.Put(ctx, storage.SessionKey, []byte("{not json")))

	_, err := h.sessions.Current(ctx)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)

	p, err := h.sessions.EnsureSession(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p.UID, "guest_"))
}

func TestSessionManager_RegisterWithEmail(t *testing.T) {
	h := newHarness(t, morning)
	ctx := context.Background()

	p, err := h.sessions.RegisterWithEmail(ctx, " amina@example.com ")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(p.UID, "user_"))
	assert.Equal(t, "amina", p.DisplayName)
	assert.Equal(t, "amina@example.com", p.Email)
	assert.False(t, p.IsAnonymous)

	for _, bad := range []string{"", "no-at-sign", "@example.com"} {
		_, err := h.sessions.RegisterWithEmail(ctx, bad)
		assert.ErrorIs(t, err, ErrInvalidEmail, bad)
	}
}

func TestSessionManager_Resolve(t *testing.T) {
	h := newHarness(t, morning)
	ctx := context.Background()

	registered, err := h.sessions.RegisterWithEmail(ctx, "amina@example.com")
	require.NoError(t, err)
	h.progress.Reset()

	_, err = h.sessions.Resolve(ctx, "other@example.com")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	assert.False(t, h.progress.Active())

	p, err := h.sessions.Resolve(ctx, "amina@example.com")
	require.NoError(t, err)
	assert.Equal(t, registered.UID, p.UID)
	assert.True(t, h.progress.Active())
}

func TestSessionManager_Clear(t *testing.T) {
	h := newHarness(t, morning)
	ctx := context.Background()

	_, err := h.sessions.CreateGuest(ctx)
	require.NoError(t, err)

	require.NoError(t, h.sessions.Clear(ctx))

	_, err = h.sessions.Current(ctx)
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
	_, err = h.progress.Current()
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestSessionManager_ResolveKeepsUnsavedProgress(t *testing.T) {
	h := newHarness(t, morning)
	ctx := context.Background()

	_, err := h.sessions.RegisterWithEmail(ctx, "amina@example.com")
	require.NoError(t, err)

	h.store.down.Store(true)
	_, err = h.learning.CompleteLesson(ctx, "u1_l1", 100, 40)
	require.NoError(t, err)
	require.True(t, h.progress.Dirty())

	p, err := h.sessions.Resolve(ctx, "amina@example.com")
	require.NoError(t, err)
	assert.Equal(t, 33, p.XP)
	assert.Contains(t, p.CompletedLessons, "u1_l1")
	assert.True(t, h.progress.Dirty())

	current, err := h.progress.Current()
	require.NoError(t, err)
	assert.Equal(t, 33, current.XP)

	h.store.down.Store(false)
	p, err = h.sessions.EnsureSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, 33, p.XP)
	assert.False(t, h.progress.Dirty())

	stored, err := h.sessRepo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 33, stored.XP)
	assert.Contains(t, stored.CompletedLessons, "u1_l1")
}
