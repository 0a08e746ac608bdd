package service

import (
	"context"

	"github.com/aliskhannn/arabingo/internal/domain/entities"
)

// SessionRepository persists the single session record.
type SessionRepository interface {
	Get(ctx context.Context) (*entities.LearnerProfile, error)
	Save(ctx context.Context, profile *entities.LearnerProfile) error
	Delete(ctx context.Context) error
}

// QueueRepository persists the pending sync actions.
type QueueRepository interface {
	Load(ctx context.Context) ([]entities.SyncAction, int, error)
	Save(ctx context.Context, actions []entities.SyncAction) error
	Clear(ctx context.Context) error
}

// Cue names understood by the cue player.
type Cue string

const (
	CueClick     Cue = "click"
	CueCorrect   Cue = "correct"
	CueIncorrect Cue = "incorrect"
	CueSuccess   Cue = "success"
	CueBadge     Cue = "badge"
)

// CuePlayer plays audio cues and speaks text. Calls are fire-and-forget.
type CuePlayer interface {
	Play(cue Cue)
	Speak(text string)
	SetMusic(enabled bool)
}

// Notifier delivers short progress notifications (badges, streaks, level ups).
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// PronunciationAnalyzer scores a recorded attempt against the target text.
type PronunciationAnalyzer interface {
	Analyze(ctx context.Context, audio []byte, targetText string) (*entities.PronunciationFeedback, error)
}

// Recommender picks the next lesson for a learner.
type Recommender interface {
	Recommend(ctx context.Context, profile *entities.LearnerProfile, catalogue []entities.Level) (*entities.Recommendation, error)
}
