package telegram

import (
	"context"

	"github.com/aliskhannn/arabingo/internal/domain/entities"
	"github.com/aliskhannn/arabingo/internal/service"
)

type SessionService interface {
	EnsureSession(ctx context.Context) (*entities.LearnerProfile, error)
	RegisterWithEmail(ctx context.Context, email string) (*entities.LearnerProfile, error)
	Resolve(ctx context.Context, email string) (*entities.LearnerProfile, error)
	Clear(ctx context.Context) error
}

type ProgressReader interface {
	Current() (*entities.LearnerProfile, error)
}

type LearningService interface {
	StartLesson(lessonID string) (*entities.Lesson, error)
	AnswerExercise(ctx context.Context, lessonID, exerciseID, answer string) (*service.AnswerResult, error)
	RecordMiss(ctx context.Context, lessonID string, exercise entities.Exercise, answer string) (int, error)
	CompleteLesson(ctx context.Context, lessonID string, accuracy, secondsTaken int) (*service.LessonResult, error)
	Path() ([]service.LessonState, error)
}

type ShopService interface {
	RefillHearts(ctx context.Context) (*entities.LearnerProfile, error)
	Subscribe(ctx context.Context) (*entities.LearnerProfile, error)
	SetSound(ctx context.Context, enabled bool) (*entities.LearnerProfile, error)
	SetMusic(ctx context.Context, enabled bool) (*entities.LearnerProfile, error)
	Rename(ctx context.Context, name string) (*entities.LearnerProfile, error)
}

type AssistantService interface {
	Pronunciation(ctx context.Context, audio []byte, targetText string) entities.PronunciationFeedback
	Recommend(ctx context.Context) *entities.Recommendation
}
