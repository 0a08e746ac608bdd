package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/arabingo/internal/domain/entities"
)

func TestShopService_RefillHearts(t *testing.T) {
	h := newHarness(t, morning)
	newLearner(t, h, func(p *entities.LearnerProfile) { p.Hearts = 2 })

	p, err := h.shop.RefillHearts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, p.Hearts)
	assert.Equal(t, 50, p.Gems)

	stored, err := h.sessRepo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 50, stored.Gems)
}

func TestShopService_RefillHeartsRejected(t *testing.T) {
	t.Run("not enough gems", func(t *testing.T) {
		h := newHarness(t, morning)
		newLearner(t, h, func(p *entities.LearnerProfile) {
			p.Hearts = 0
			p.Gems = 449
		})

		_, err := h.shop.RefillHearts(context.Background())
		assert.ErrorIs(t, err, ErrNotEnoughGems)
	})

	t.Run("hearts full", func(t *testing.T) {
		h := newHarness(t, morning)
		newLearner(t, h, nil)

		_, err := h.shop.RefillHearts(context.Background())
		assert.ErrorIs(t, err, ErrHeartsFull)

		p, err := h.progress.Current()
		require.NoError(t, err)
		assert.Equal(t, 500, p.Gems)
	})
}

func TestShopService_Subscribe(t *testing.T) {
	h := newHarness(t, morning)
	newLearner(t, h, nil)
	ctx := context.Background()

	p, err := h.shop.Subscribe(ctx)
	require.NoError(t, err)
	assert.True(t, p.IsPremium)

	_, err = h.shop.Subscribe(ctx)
	assert.ErrorIs(t, err, ErrAlreadyPremium)
}

func TestShopService_Settings(t *testing.T) {
	h := newHarness(t, morning)
	newLearner(t, h, nil)
	ctx := context.Background()

	p, err := h.shop.SetSound(ctx, false)
	require.NoError(t, err)
	assert.False(t, p.SoundEnabled)

	p, err = h.shop.SetMusic(ctx, false)
	require.NoError(t, err)
	assert.False(t, p.MusicEnabled)
	assert.Equal(t, []bool{false}, h.cues.music)

	p, err = h.shop.Rename(ctx, "Amina")
	require.NoError(t, err)
	assert.Equal(t, "Amina", p.DisplayName)

	_, err = h.shop.Rename(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyDisplayName)
	_, err = h.shop.Rename(ctx, "   \t")
	assert.ErrorIs(t, err, ErrEmptyDisplayName)

	p, err = h.shop.Rename(ctx, "  Noura ")
	require.NoError(t, err)
	assert.Equal(t, "Noura", p.DisplayName)

	// Muted learners hear nothing when finishing a lesson.
	_, err = h.learning.CompleteLesson(ctx, "u1_l1", 100, 30)
	require.NoError(t, err)
	assert.NotContains(t, h.cues.played, CueSuccess)
}
