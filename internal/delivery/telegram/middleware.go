package telegram

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/aliskhannn/arabingo/internal/content"
	"github.com/aliskhannn/arabingo/internal/repository"
	"github.com/aliskhannn/arabingo/internal/service"
)

type HandlerFunc func(ctx context.Context, chatID int64) error

// withErrorHandling turns domain errors into user messages. Anything else
// is logged and reported as an internal error.
func (h *Handler) withErrorHandling(fn HandlerFunc) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		err := fn(ctx, chatID)
		if err == nil {
			return nil
		}

		if text, ok := userMessage(err); ok {
			h.send(newHTMLMessage(chatID, text))
			return nil
		}

		h.logger.Error("handle error",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		h.send(newHTMLMessage(chatID, msgInternalError))
		return nil
	}
}

func userMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, service.ErrLessonLocked):
		return msgLessonLocked, true
	case errors.Is(err, content.ErrLessonNotFound):
		return msgLessonNotFound, true
	case errors.Is(err, service.ErrNoHeartsLeft):
		return msgNoHearts, true
	case errors.Is(err, service.ErrNotEnoughGems):
		return msgNotEnoughGems, true
	case errors.Is(err, service.ErrHeartsFull):
		return msgHeartsFull, true
	case errors.Is(err, service.ErrAlreadyPremium):
		return msgAlreadyPremium, true
	case errors.Is(err, service.ErrInvalidEmail):
		return msgInvalidEmail, true
	case errors.Is(err, service.ErrEmptyDisplayName):
		return msgEmptyName, true
	case errors.Is(err, repository.ErrSessionNotFound):
		return msgLoginFailed, true
	case errors.Is(err, service.ErrNoActiveSession):
		return msgNoSession, true
	default:
		return "", false
	}
}
