package telegram

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/aliskhannn/arabingo/internal/domain/entities"
	"github.com/aliskhannn/arabingo/internal/gamification"
	"github.com/aliskhannn/arabingo/internal/service"
)

// passingScore is the pronunciation score that counts as a correct answer.
const passingScore = 70

// lessonRun tracks the lesson being studied in the chat.
type lessonRun struct {
	lesson    *entities.Lesson
	index     int
	misses    int
	startedAt time.Time
}

func (r *lessonRun) exercise() entities.Exercise {
	return r.lesson.Exercises[r.index]
}

func (r *lessonRun) done() bool {
	return r.index >= len(r.lesson.Exercises)
}

func (h *Handler) currentRun() *lessonRun {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.run
}

func (h *Handler) setRun(run *lessonRun) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.run = run
}

func (h *Handler) handleStartLesson(lessonID string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		lesson, err := h.learning.StartLesson(lessonID)
		if err != nil {
			return err
		}

		run := &lessonRun{lesson: lesson, startedAt: h.now()}
		h.setRun(run)

		h.send(newHTMLMessage(chatID, renderLessonIntro(lesson)))
		if run.done() {
			return h.finishLesson(ctx, chatID, run)
		}
		h.sendExercise(chatID, run)
		return nil
	}
}

func (h *Handler) handleOptionAnswer(exerciseIdx, optionIdx int) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		run := h.currentRun()
		if run == nil {
			h.send(newHTMLMessage(chatID, msgNoLessonRunning))
			return nil
		}
		if exerciseIdx != run.index || run.done() {
			h.send(newHTMLMessage(chatID, msgStaleAnswer))
			return nil
		}

		ex := run.exercise()
		if optionIdx < 0 || optionIdx >= len(ex.Options) {
			return nil
		}
		return h.answer(ctx, chatID, run, ex.Options[optionIdx])
	}
}

func (h *Handler) handleTypedAnswer(text string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		run := h.currentRun()
		if run == nil || run.done() {
			h.send(newHTMLMessage(chatID, msgNoLessonRunning))
			return nil
		}
		return h.answer(ctx, chatID, run, text)
	}
}

func (h *Handler) handleVoice(fileID string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		run := h.currentRun()
		if run == nil || run.done() {
			h.send(newHTMLMessage(chatID, msgNoLessonRunning))
			return nil
		}

		audio, err := h.downloadFile(ctx, fileID)
		if err != nil {
			h.logger.Warn("failed to download voice message", zap.Error(err))
			h.send(newHTMLMessage(chatID, msgVoiceUnavailable))
			return nil
		}

		ex := run.exercise()
		fb := h.assistant.Pronunciation(ctx, audio, speakingTarget(ex))
		h.send(newHTMLMessage(chatID, renderPronunciation(fb)))

		if isFallback(fb) {
			// Analysis failed; let the learner try again without a penalty.
			return nil
		}

		if fb.Score >= passingScore {
			p, err := h.progress.Current()
			if err != nil {
				return err
			}
			return h.advance(ctx, chatID, run, p.Hearts)
		}

		hearts, err := h.learning.RecordMiss(ctx, run.lesson.ID, ex, "(voice)")
		if err != nil {
			return err
		}
		run.misses++
		return h.advance(ctx, chatID, run, hearts)
	}
}

func (h *Handler) answer(ctx context.Context, chatID int64, run *lessonRun, answer string) error {
	ex := run.exercise()

	res, err := h.learning.AnswerExercise(ctx, run.lesson.ID, ex.ID, answer)
	if err != nil {
		if errors.Is(err, service.ErrNoHeartsLeft) {
			h.setRun(nil)
		}
		return err
	}
	if !res.Correct {
		run.misses++
	}

	h.send(newHTMLMessage(chatID, renderAnswerFeedback(res)))
	return h.advance(ctx, chatID, run, res.Hearts)
}

// advance moves to the next exercise, ends the lesson when the learner ran
// out of hearts, or completes it after the last exercise.
func (h *Handler) advance(ctx context.Context, chatID int64, run *lessonRun, hearts int) error {
	run.index++

	p, err := h.progress.Current()
	if err != nil {
		return err
	}
	if hearts <= 0 && !p.IsPremium {
		h.setRun(nil)
		msg := newHTMLMessage(chatID, msgNoHearts)
		msg.ReplyMarkup = buildShopKeyboard()
		h.send(msg)
		return nil
	}

	if run.done() {
		return h.finishLesson(ctx, chatID, run)
	}

	h.sendExercise(chatID, run)
	return nil
}

func (h *Handler) finishLesson(ctx context.Context, chatID int64, run *lessonRun) error {
	h.setRun(nil)

	accuracy := gamification.LessonAccuracy(len(run.lesson.Exercises), run.misses)
	seconds := int(h.now().Sub(run.startedAt).Seconds())

	res, err := h.learning.CompleteLesson(ctx, run.lesson.ID, accuracy, seconds)
	if err != nil {
		return err
	}

	msg := newHTMLMessage(chatID, renderLessonResult(res, accuracy))
	msg.ReplyMarkup = buildResultKeyboard()
	h.send(msg)
	return nil
}

func (h *Handler) sendExercise(chatID int64, run *lessonRun) {
	ex := run.exercise()

	msg := newHTMLMessage(chatID, renderExercise(ex, run.index, len(run.lesson.Exercises)))
	if kb := buildExerciseKeyboard(ex, run.index); kb != nil {
		msg.ReplyMarkup = kb
	}
	h.send(msg)
}

func speakingTarget(ex entities.Exercise) string {
	if ex.ArabicQuestion != "" {
		return ex.ArabicQuestion
	}
	return ex.CorrectAnswer
}

func isFallback(fb entities.PronunciationFeedback) bool {
	fallback := service.FallbackFeedback()
	return fb.Score == fallback.Score && fb.Tips == fallback.Tips
}
