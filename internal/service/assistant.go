package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/arabingo/internal/content"
	"github.com/aliskhannn/arabingo/internal/domain/entities"
)

const (
	defaultAssistantTimeout = 15 * time.Second
	fallbackTips            = "We could not analyse this attempt. Check your microphone and try again."
	fallbackPhoneticError   = "processing error"
)

// FallbackFeedback is returned whenever pronunciation analysis fails.
func FallbackFeedback() entities.PronunciationFeedback {
	return entities.PronunciationFeedback{
		Score:          0,
		Accuracy:       entities.AccuracyPoor,
		PhoneticErrors: []string{fallbackPhoneticError},
		Tips:           fallbackTips,
	}
}

// AssistantService wraps the pronunciation and recommendation collaborators.
// Their failures never reach the caller: a timeout, a transport error or a
// malformed answer turns into the fallback value.
type AssistantService struct {
	analyzer    PronunciationAnalyzer
	recommender Recommender
	graph       *content.Graph
	progress    *ProgressStore
	timeout     time.Duration
	logger      *zap.Logger
}

// NewAssistantService creates a new AssistantService. analyzer and
// recommender may be nil, in which case the fallbacks are always used.
func NewAssistantService(
	analyzer PronunciationAnalyzer,
	recommender Recommender,
	graph *content.Graph,
	progress *ProgressStore,
	timeout time.Duration,
	logger *zap.Logger,
) *AssistantService {
	if timeout <= 0 {
		timeout = defaultAssistantTimeout
	}
	return &AssistantService{
		analyzer:    analyzer,
		recommender: recommender,
		graph:       graph,
		progress:    progress,
		timeout:     timeout,
		logger:      logger,
	}
}

// Pronunciation scores a recorded attempt at targetText.
func (s *AssistantService) Pronunciation(ctx context.Context, audio []byte, targetText string) entities.PronunciationFeedback {
	if s.analyzer == nil || len(audio) == 0 {
		return FallbackFeedback()
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	fb, err := s.analyzer.Analyze(ctx, audio, targetText)
	if err != nil {
		s.logger.Warn("pronunciation analysis failed, using fallback", zap.Error(err))
		return FallbackFeedback()
	}
	if fb == nil || fb.Score < 0 || fb.Score > 100 {
		s.logger.Warn("pronunciation analysis returned malformed feedback, using fallback")
		return FallbackFeedback()
	}

	out := *fb
	switch out.Accuracy {
	case entities.AccuracyExcellent, entities.AccuracyGood, entities.AccuracyAverage, entities.AccuracyPoor:
	default:
		out.Accuracy = entities.AccuracyForScore(out.Score)
	}
	if out.PhoneticErrors == nil {
		out.PhoneticErrors = []string{}
	}
	return out
}

// Recommend suggests the next lesson for the active learner, or nil when
// no suggestion is available. The suggested lesson must exist in the
// catalogue.
func (s *AssistantService) Recommend(ctx context.Context) *entities.Recommendation {
	if s.recommender == nil {
		return nil
	}

	p, err := s.progress.Current()
	if err != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rec, err := s.recommender.Recommend(ctx, p, s.graph.Levels())
	if err != nil {
		s.logger.Warn("recommendation failed", zap.Error(err))
		return nil
	}
	if rec == nil {
		return nil
	}
	if _, err := s.graph.Lesson(rec.LessonID); err != nil {
		s.logger.Warn("recommendation points to an unknown lesson", zap.String("lesson_id", rec.LessonID))
		return nil
	}
	return rec
}
