package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/arabingo/internal/domain/entities"
)

type stubAnalyzer struct {
	feedback *entities.PronunciationFeedback
	err      error
	delay    time.Duration
}

func (s stubAnalyzer) Analyze(ctx context.Context, _ []byte, _ string) (*entities.PronunciationFeedback, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.feedback, s.err
}

type stubRecommender struct {
	rec *entities.Recommendation
	err error
}

func (s stubRecommender) Recommend(context.Context, *entities.LearnerProfile, []entities.Level) (*entities.Recommendation, error) {
	return s.rec, s.err
}

func newAssistant(t *testing.T, analyzer PronunciationAnalyzer, recommender Recommender, timeout time.Duration) *AssistantService {
	t.Helper()

	h := newHarness(t, morning)
	newLearner(t, h, nil)
	return NewAssistantService(analyzer, recommender, h.graph, h.progress, timeout, zap.NewNop())
}

func TestAssistantService_Pronunciation(t *testing.T) {
	audio := []byte{1, 2, 3}

	t.Run("passes feedback through", func(t *testing.T) {
		a := newAssistant(t, stubAnalyzer{feedback: &entities.PronunciationFeedback{
			Score:    92,
			Accuracy: entities.AccuracyExcellent,
			Tips:     "Great makhraj.",
		}}, nil, time.Second)

		fb := a.Pronunciation(context.Background(), audio, "بسم الله")
		assert.Equal(t, 92, fb.Score)
		assert.Equal(t, entities.AccuracyExcellent, fb.Accuracy)
		assert.NotNil(t, fb.PhoneticErrors)
	})

	t.Run("derives a missing grade", func(t *testing.T) {
		a := newAssistant(t, stubAnalyzer{feedback: &entities.PronunciationFeedback{Score: 55}}, nil, time.Second)

		fb := a.Pronunciation(context.Background(), audio, "بسم الله")
		assert.Equal(t, entities.AccuracyAverage, fb.Accuracy)
	})

	fallbacks := map[string]PronunciationAnalyzer{
		"service error":      stubAnalyzer{err: errors.New("boom")},
		"score out of range": stubAnalyzer{feedback: &entities.PronunciationFeedback{Score: 140}},
		"empty answer":       stubAnalyzer{},
		"timeout":            stubAnalyzer{feedback: &entities.PronunciationFeedback{Score: 90}, delay: time.Second},
		"not configured":     nil,
	}
	for name, analyzer := range fallbacks {
		t.Run(name, func(t *testing.T) {
			a := newAssistant(t, analyzer, nil, 20*time.Millisecond)

			fb := a.Pronunciation(context.Background(), audio, "بسم الله")
			assert.Equal(t, FallbackFeedback(), fb)
			assert.Zero(t, fb.Score)
			assert.Equal(t, entities.AccuracyPoor, fb.Accuracy)
			assert.Equal(t, []string{"processing error"}, fb.PhoneticErrors)
		})
	}
}

func TestAssistantService_Recommend(t *testing.T) {
	ok := &entities.Recommendation{LessonID: "u1_l2", Reason: "errors in u1_l1", Message: "Keep going!"}

	a := newAssistant(t, nil, nil, time.Second)
	assert.Nil(t, a.Recommend(context.Background()))

	a = newAssistant(t, nil, stubRecommender{rec: ok}, time.Second)
	rec := a.Recommend(context.Background())
	require.NotNil(t, rec)
	assert.Equal(t, "u1_l2", rec.LessonID)

	a = newAssistant(t, nil, stubRecommender{rec: &entities.Recommendation{LessonID: "ghost"}}, time.Second)
	assert.Nil(t, a.Recommend(context.Background()))

	a = newAssistant(t, nil, stubRecommender{err: errors.New("boom")}, time.Second)
	assert.Nil(t, a.Recommend(context.Background()))
}
