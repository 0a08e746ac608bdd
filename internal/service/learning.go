package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/aliskhannn/arabingo/internal/content"
	"github.com/aliskhannn/arabingo/internal/domain/entities"
	"github.com/aliskhannn/arabingo/internal/gamification"
)

var (
	ErrLessonLocked     = errors.New("lesson is locked")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrNoHeartsLeft     = errors.New("no hearts left")
	ErrInvalidAccuracy  = errors.New("accuracy must be between 0 and 100")
)

// LessonResult is the outcome of finishing a lesson.
type LessonResult struct {
	LessonID  string
	XPAwarded int  // experience earned by this run
	Credited  bool // false when the lesson had been completed before
	Streak    gamification.StreakUpdate
	NewBadges []entities.Badge
	LevelUp   bool
	Profile   *entities.LearnerProfile
}

// AnswerResult is the outcome of answering one exercise.
type AnswerResult struct {
	Correct       bool
	CorrectAnswer string
	Hearts        int
}

// LearningService drives lessons: answering exercises, recording misses
// and completing lessons through the sync queue.
type LearningService struct {
	graph    *content.Graph
	progress *ProgressStore
	queue    *SyncQueue
	cues     CuePlayer
	notifier Notifier
	clock    Clock
	logger   *zap.Logger
}

// NewLearningService creates a new LearningService. cues and notifier may
// be nil.
func NewLearningService(
	graph *content.Graph,
	progress *ProgressStore,
	queue *SyncQueue,
	cues CuePlayer,
	notifier Notifier,
	clock Clock,
	logger *zap.Logger,
) *LearningService {
	if cues == nil {
		cues = nopCues{}
	}
	return &LearningService{
		graph:    graph,
		progress: progress,
		queue:    queue,
		cues:     cues,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

// StartLesson returns the lesson if the learner may study it now.
// Completed lessons can always be revisited.
func (s *LearningService) StartLesson(lessonID string) (*entities.Lesson, error) {
	p, err := s.progress.Current()
	if err != nil {
		return nil, err
	}

	lesson, err := s.graph.Lesson(lessonID)
	if err != nil {
		return nil, err
	}
	if !p.HasCompleted(lesson.ID) && !s.graph.IsLessonReachable(lesson, p) {
		return nil, ErrLessonLocked
	}
	if !p.HeartsLeft() {
		return nil, ErrNoHeartsLeft
	}

	s.cues.Play(CueClick)
	return lesson, nil
}

// AnswerExercise checks an answer. A wrong answer costs a heart unless
// the learner is premium and is added to the error history.
func (s *LearningService) AnswerExercise(ctx context.Context, lessonID, exerciseID, answer string) (*AnswerResult, error) {
	p, err := s.progress.Current()
	if err != nil {
		return nil, err
	}
	if !p.HeartsLeft() {
		return nil, ErrNoHeartsLeft
	}

	lesson, err := s.graph.Lesson(lessonID)
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(lesson.Exercises, func(e entities.Exercise) bool { return e.ID == exerciseID })
	if idx < 0 {
		return nil, ErrExerciseNotFound
	}
	exercise := lesson.Exercises[idx]

	if CheckAnswer(exercise, answer) {
		if p.SoundEnabled {
			s.cues.Play(CueCorrect)
		}
		return &AnswerResult{Correct: true, CorrectAnswer: exercise.CorrectAnswer, Hearts: p.Hearts}, nil
	}

	hearts, err := s.RecordMiss(ctx, lesson.ID, exercise, answer)
	if err != nil {
		return nil, err
	}
	return &AnswerResult{Correct: false, CorrectAnswer: exercise.CorrectAnswer, Hearts: hearts}, nil
}

// RecordMiss logs a wrong answer and takes one heart from non-premium
// learners. It returns the hearts left.
func (s *LearningService) RecordMiss(ctx context.Context, lessonID string, exercise entities.Exercise, answer string) (int, error) {
	now := s.clock.now()

	err := s.progress.AppendError(ctx, entities.ErrorLog{
		LessonID:      lessonID,
		ExerciseID:    exercise.ID,
		Timestamp:     now,
		UserAnswer:    answer,
		CorrectAnswer: exercise.CorrectAnswer,
	})
	if err != nil && !errors.Is(err, ErrPersistFailed) {
		return 0, fmt.Errorf("record miss: %w", err)
	}

	p, err := s.progress.Current()
	if err != nil {
		return 0, err
	}
	if p.SoundEnabled {
		s.cues.Play(CueIncorrect)
	}
	if p.IsPremium {
		return p.Hearts, nil
	}

	hearts := max(0, p.Hearts-1)
	if err := s.enqueueStats(ctx, entities.StatsPatch{Hearts: entities.Ptr(hearts)}); err != nil {
		return 0, err
	}
	return hearts, nil
}

// CompleteLesson scores a finished lesson, queues the completion and the
// stats update, and replays the queue.
func (s *LearningService) CompleteLesson(ctx context.Context, lessonID string, accuracy, secondsTaken int) (*LessonResult, error) {
	if accuracy < 0 || accuracy > 100 {
		return nil, ErrInvalidAccuracy
	}

	p, err := s.progress.Current()
	if err != nil {
		return nil, err
	}

	lesson, err := s.graph.Lesson(lessonID)
	if err != nil {
		return nil, err
	}
	alreadyDone := p.HasCompleted(lesson.ID)
	if !alreadyDone && !s.graph.IsLessonReachable(lesson, p) {
		return nil, ErrLessonLocked
	}

	now := s.clock.now()
	today := s.clock.Today()

	xp := gamification.AwardXP(p, accuracy, max(0, secondsTaken), today)
	streak := gamification.UpdateStreak(p.LastLessonDate, p.Streak, today)

	patch := entities.StatsPatch{
		Streak:         entities.Ptr(streak.Streak),
		LastLessonDate: entities.Ptr(today),
	}
	if accuracy == 100 && !alreadyDone {
		patch.PerfectLessons = entities.Ptr(p.PerfectLessons + 1)
	}

	if err := s.enqueue(ctx, entities.NewCompleteLessonAction(lesson.ID, xp, now)); err != nil {
		return nil, err
	}
	if err := s.enqueue(ctx, entities.NewUpdateStatsAction(patch, now)); err != nil {
		return nil, err
	}

	res, err := s.replay(ctx)
	if err != nil {
		return nil, err
	}

	result := &LessonResult{
		LessonID:  lesson.ID,
		XPAwarded: xp,
		Credited:  !alreadyDone,
		Streak:    streak,
		NewBadges: res.NewBadges,
		LevelUp:   res.LevelUp,
		Profile:   res.Profile,
	}

	s.logger.Info("lesson completed",
		zap.String("uid", p.UID),
		zap.String("lesson_id", lesson.ID),
		zap.Int("accuracy", accuracy),
		zap.Int("xp", xp),
		zap.Bool("credited", result.Credited),
	)

	s.celebrate(ctx, result)
	return result, nil
}

// Path returns the ordered lessons with their state for the active learner.
func (s *LearningService) Path() ([]LessonState, error) {
	p, err := s.progress.Current()
	if err != nil {
		return nil, err
	}

	lessons := s.graph.AllLessonsOrdered()
	out := make([]LessonState, 0, len(lessons))
	for _, lesson := range lessons {
		out = append(out, LessonState{
			Lesson:    lesson,
			Completed: p.HasCompleted(lesson.ID),
			Reachable: s.graph.IsLessonReachable(lesson, p),
		})
	}
	return out, nil
}

// LessonState pairs a lesson with the learner's access to it.
type LessonState struct {
	Lesson    *entities.Lesson
	Completed bool
	Reachable bool
}

// CheckAnswer compares an answer with the expected one. Listening answers
// ignore case and surrounding spaces, scrambles ignore extra spaces between
// words.
func CheckAnswer(exercise entities.Exercise, answer string) bool {
	switch exercise.Type {
	case entities.ExerciseListening:
		return strings.EqualFold(strings.TrimSpace(answer), strings.TrimSpace(exercise.CorrectAnswer))
	case entities.ExerciseScramble:
		return strings.Join(strings.Fields(answer), " ") == strings.Join(strings.Fields(exercise.CorrectAnswer), " ")
	default:
		return answer == exercise.CorrectAnswer
	}
}

func (s *LearningService) enqueueStats(ctx context.Context, patch entities.StatsPatch) error {
	if err := s.enqueue(ctx, entities.NewUpdateStatsAction(patch, s.clock.now())); err != nil {
		return err
	}
	_, err := s.replay(ctx)
	return err
}

func (s *LearningService) enqueue(ctx context.Context, action entities.SyncAction) error {
	if _, err := s.queue.Append(ctx, action); err != nil && !errors.Is(err, ErrPersistFailed) {
		return fmt.Errorf("enqueue %s: %w", action.Kind, err)
	}
	return nil
}

// replay folds the queue; a storage failure is not fatal because the
// in-memory profile already holds the result.
func (s *LearningService) replay(ctx context.Context) (ReplayResult, error) {
	res, err := s.queue.Replay(ctx)
	if err != nil && !errors.Is(err, ErrPersistFailed) {
		return ReplayResult{}, err
	}
	return res, nil
}

func (s *LearningService) celebrate(ctx context.Context, r *LessonResult) {
	if r.Profile == nil {
		return
	}
	if r.Profile.SoundEnabled {
		s.cues.Play(CueSuccess)
		if len(r.NewBadges) > 0 {
			s.cues.Play(CueBadge)
		}
	}

	var lines []string
	if r.Streak.Changed && r.Streak.Message != "" {
		lines = append(lines, r.Streak.Message)
	}
	if r.LevelUp {
		lines = append(lines, fmt.Sprintf("Level up! You reached level %d.", r.Profile.Level))
	}
	for _, b := range r.NewBadges {
		lines = append(lines, fmt.Sprintf("%s New badge: %s. %s", b.Icon, b.Name, b.Description))
	}
	s.notify(ctx, strings.Join(lines, "\n"))
}

func (s *LearningService) notify(ctx context.Context, text string) {
	if s.notifier == nil || text == "" {
		return
	}
	if err := s.notifier.Notify(ctx, text); err != nil {
		s.logger.Warn("failed to send notification", zap.Error(err))
	}
}

type nopCues struct{}

func (nopCues) Play(Cue)      {}
func (nopCues) Speak(string)  {}
func (nopCues) SetMusic(bool) {}
