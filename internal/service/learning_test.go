package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliskhannn/arabingo/internal/content"
	"github.com/aliskhannn/arabingo/internal/domain/entities"
)

func newLearner(t *testing.T, h *harness, mutate func(p *entities.LearnerProfile)) {
	t.Helper()

	p, err := h.sessions.CreateGuest(context.Background())
	require.NoError(t, err)
	if mutate != nil {
		mutate(p)
		require.NoError(t, h.progress.Replace(context.Background(), p))
	}
}

func TestLearningService_FirstLesson(t *testing.T) {
	h := newHarness(t, morning)
	newLearner(t, h, nil)

	res, err := h.learning.CompleteLesson(context.Background(), "u1_l1", 100, 40)
	require.NoError(t, err)

	assert.Equal(t, 33, res.XPAwarded)
	assert.True(t, res.Credited)
	assert.Equal(t, 33, res.Profile.XP)
	assert.Equal(t, 1, res.Profile.Streak)
	assert.Equal(t, "2026-03-10", res.Profile.LastLessonDate)
	assert.Equal(t, 1, res.Profile.PerfectLessons)
	assert.Equal(t, []string{"b1"}, res.Profile.Badges)
	require.Len(t, res.NewBadges, 1)
	assert.Equal(t, "b1", res.NewBadges[0].ID)
	assert.False(t, res.LevelUp)

	assert.Contains(t, h.cues.played, CueSuccess)
	assert.Contains(t, h.cues.played, CueBadge)
	require.Len(t, h.notifier.messages, 1)
	assert.Contains(t, h.notifier.messages[0], "First Step")

	stored, err := h.sessRepo.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 33, stored.XP)
}

func TestLearningService_RepeatLessonNotCreditedTwice(t *testing.T) {
	h := newHarness(t, morning)
	newLearner(t, h, nil)
	ctx := context.Background()

	_, err := h.learning.CompleteLesson(ctx, "u1_l1", 100, 40)
	require.NoError(t, err)

	res, err := h.learning.CompleteLesson(ctx, "u1_l1", 100, 30)
	require.NoError(t, err)
	assert.False(t, res.Credited)
	assert.Equal(t, 33, res.Profile.XP)
	assert.Equal(t, 1, res.Profile.PerfectLessons)
	assert.Equal(t, 1, res.Profile.Streak)
}

func TestLearningService_LevelUpAndAlphabetBadge(t *testing.T) {
	h := newHarness(t, morning)
	newLearner(t, h, nil)
	ctx := context.Background()

	_, err := h.learning.CompleteLesson(ctx, "u1_l1", 100, 40)
	require.NoError(t, err)

	// 15 + 2 (accuracy) + 1 (streak) + 0 (slow) + 0 (already studied today)
	res, err := h.learning.CompleteLesson(ctx, "u1_l2", 80, 50)
	require.NoError(t, err)

	assert.Equal(t, 18, res.XPAwarded)
	assert.Equal(t, 51, res.Profile.XP)
	assert.Equal(t, 2, res.Profile.Level)
	assert.True(t, res.LevelUp)
	assert.True(t, res.Profile.HasBadge("b4"))
}

func TestLearningService_StreakTransitions(t *testing.T) {
	tests := []struct {
		name       string
		lastDate   string
		streak     int
		wantStreak int
		wantXP     int
	}{
		{name: "yesterday", lastDate: "2026-03-09", streak: 5, wantStreak: 6, wantXP: 15 + 5 + 5 + 3 + 10},
		{name: "today", lastDate: "2026-03-10", streak: 5, wantStreak: 5, wantXP: 15 + 5 + 5 + 3},
		{name: "three days ago", lastDate: "2026-03-07", streak: 5, wantStreak: 1, wantXP: 15 + 5 + 5 + 3 + 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, morning)
			newLearner(t, h, func(p *entities.LearnerProfile) {
				p.LastLessonDate = tt.lastDate
				p.Streak = tt.streak
			})

			res, err := h.learning.CompleteLesson(context.Background(), "u1_l1", 100, 30)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStreak, res.Profile.Streak)
			assert.Equal(t, tt.wantXP, res.XPAwarded)
		})
	}
}

func TestLearningService_LockedAndUnknownLessons(t *testing.T) {
	h := newHarness(t, morning)
	newLearner(t, h, nil)
	ctx := context.Background()

	_, err := h.learning.CompleteLesson(ctx, "u1_l2", 100, 30)
	assert.ErrorIs(t, err, ErrLessonLocked)

	_, err = h.learning.CompleteLesson(ctx, "nope", 100, 30)
	assert.ErrorIs(t, err, content.ErrLessonNotFound)

	_, err = h.learning.CompleteLesson(ctx, "u1_l1", 101, 30)
	assert.ErrorIs(t, err, ErrInvalidAccuracy)

	p, err := h.progress.Current()
	require.NoError(t, err)
	assert.Zero(t, p.XP)
}

func TestLearningService_LevelGateBlocksNextLevel(t *testing.T) {
	h := newHarness(t, morning)
	lessons := h.graph.AllLessonsOrdered()

	first, err := h.graph.LevelOf(lessons[0].ID)
	require.NoError(t, err)

	var gated *entities.Lesson
	var done []string
	for _, l := range lessons {
		lvl, err := h.graph.LevelOf(l.ID)
		require.NoError(t, err)
		if lvl.ID != first.ID {
			gated = l
			break
		}
		done = append(done, l.ID)
	}
	require.NotNil(t, gated)

	newLearner(t, h, func(p *entities.LearnerProfile) {
		p.CompletedLessons = done
		p.XP = 100
	})

	_, err = h.learning.CompleteLesson(context.Background(), gated.ID, 100, 30)
	assert.ErrorIs(t, err, ErrLessonLocked)
}

func TestLearningService_TimeOfDayBadge(t *testing.T) {
	h := newHarness(t, time.Date(2026, time.March, 10, 6, 30, 0, 0, time.UTC))
	newLearner(t, h, nil)

	res, err := h.learning.CompleteLesson(context.Background(), "u1_l1", 100, 30)
	require.NoError(t, err)
	assert.True(t, res.Profile.HasBadge("b2"))
}

func TestLearningService_AnswerExercise(t *testing.T) {
	h := newHarness(t, morning)
	newLearner(t, h, nil)
	ctx := context.Background()

	res, err := h.learning.AnswerExercise(ctx, "u1_l1", "u1_l1_ex1", "Option A")
	require.NoError(t, err)
	assert.True(t, res.Correct)
	assert.Equal(t, 5, res.Hearts)

	res, err = h.learning.AnswerExercise(ctx, "u1_l1", "u1_l1_ex2", "Option B")
	require.NoError(t, err)
	assert.False(t, res.Correct)
	assert.Equal(t, "Option A", res.CorrectAnswer)
	assert.Equal(t, 4, res.Hearts)

	p, err := h.progress.Current()
	require.NoError(t, err)
	assert.Equal(t, 4, p.Hearts)
	require.Len(t, p.ErrorHistory, 1)
	assert.Equal(t, "u1_l1_ex2", p.ErrorHistory[0].ExerciseID)
	assert.Equal(t, "Option B", p.ErrorHistory[0].UserAnswer)

	_, err = h.learning.AnswerExercise(ctx, "u1_l1", "missing", "x")
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestLearningService_HeartsRunOut(t *testing.T) {
	h := newHarness(t, morning)
	newLearner(t, h, func(p *entities.LearnerProfile) { p.Hearts = 1 })
	ctx := context.Background()

	res, err := h.learning.AnswerExercise(ctx, "u1_l1", "u1_l1_ex1", "wrong")
	require.NoError(t, err)
	assert.Zero(t, res.Hearts)

	_, err = h.learning.AnswerExercise(ctx, "u1_l1", "u1_l1_ex1", "Option A")
	assert.ErrorIs(t, err, ErrNoHeartsLeft)

	_, err = h.learning.StartLesson("u1_l1")
	assert.ErrorIs(t, err, ErrNoHeartsLeft)
}

func TestLearningService_PremiumKeepsHearts(t *testing.T) {
	h := newHarness(t, morning)
	newLearner(t, h, func(p *entities.LearnerProfile) {
		p.IsPremium = true
		p.Hearts = 0
	})

	hearts, err := h.learning.RecordMiss(context.Background(), "u1_l1", entities.Exercise{ID: "u1_l1_ex1", CorrectAnswer: "Option A"}, "x")
	require.NoError(t, err)
	assert.Zero(t, hearts)

	p, err := h.progress.Current()
	require.NoError(t, err)
	assert.Len(t, p.ErrorHistory, 1)
}

func TestLearningService_Path(t *testing.T) {
	h := newHarness(t, morning)
	newLearner(t, h, nil)

	_, err := h.learning.CompleteLesson(context.Background(), "u1_l1", 100, 30)
	require.NoError(t, err)

	path, err := h.learning.Path()
	require.NoError(t, err)
	require.Greater(t, len(path), 3)

	assert.True(t, path[0].Completed)
	assert.True(t, path[1].Reachable)
	assert.False(t, path[1].Completed)
	assert.False(t, path[2].Reachable)
}

func TestCheckAnswer(t *testing.T) {
	tests := []struct {
		name     string
		exercise entities.Exercise
		answer   string
		want     bool
	}{
		{"choice exact", entities.Exercise{Type: entities.ExerciseMultipleChoice, CorrectAnswer: "كتاب"}, "كتاب", true},
		{"choice differs", entities.Exercise{Type: entities.ExerciseMultipleChoice, CorrectAnswer: "كتاب"}, "قلم", false},
		{"listening ignores case and spaces", entities.Exercise{Type: entities.ExerciseListening, CorrectAnswer: "Salam"}, "  salam ", true},
		{"scramble collapses spaces", entities.Exercise{Type: entities.ExerciseScramble, CorrectAnswer: "هذا بيت كبير"}, "هذا  بيت كبير ", true},
		{"scramble word order matters", entities.Exercise{Type: entities.ExerciseScramble, CorrectAnswer: "هذا بيت كبير"}, "بيت هذا كبير", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckAnswer(tt.exercise, tt.answer))
		})
	}
}
