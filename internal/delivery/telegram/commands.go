package telegram

import (
	"context"
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/arabingo/internal/service"
)

// pathWindow is how many lessons /path shows around the next one.
const pathWindow = 8

func (h *Handler) handleStart() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		p, err := h.sessions.EnsureSession(ctx)
		if err != nil {
			return err
		}

		msg := newHTMLMessage(chatID, fmt.Sprintf(msgWelcome, html.EscapeString(p.DisplayName)))
		msg.ReplyMarkup = buildMainKeyboard()
		h.send(msg)
		return nil
	}
}

func (h *Handler) handleNext() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		path, err := h.learning.Path()
		if err != nil {
			return err
		}

		next := nextLesson(path)
		if next == nil {
			h.send(newHTMLMessage(chatID, msgPathDone))
			return nil
		}
		return h.handleStartLesson(next.Lesson.ID)(ctx, chatID)
	}
}

func (h *Handler) handlePath() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		path, err := h.learning.Path()
		if err != nil {
			return err
		}

		msg := newHTMLMessage(chatID, renderPath(path, pathWindow))
		if next := nextLesson(path); next != nil {
			msg.ReplyMarkup = buildLessonKeyboard(next.Lesson)
		}
		h.send(msg)
		return nil
	}
}

func (h *Handler) handleProgress() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		p, err := h.progress.Current()
		if err != nil {
			return err
		}
		path, err := h.learning.Path()
		if err != nil {
			return err
		}

		msg := newHTMLMessage(chatID, renderProgress(p, len(path)))
		msg.ReplyMarkup = buildMainKeyboard()
		h.send(msg)
		return nil
	}
}

func (h *Handler) handleShop() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		p, err := h.progress.Current()
		if err != nil {
			return err
		}

		msg := newHTMLMessage(chatID, renderShop(p))
		msg.ReplyMarkup = buildShopKeyboard()
		h.send(msg)
		return nil
	}
}

func (h *Handler) handleShopPurchase(item string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		var text string
		switch item {
		case shopRefill:
			p, err := h.shop.RefillHearts(ctx)
			if err != nil {
				return err
			}
			text = fmt.Sprintf("❤️ Hearts refilled! 💎 %d gems left.", p.Gems)
		case shopPremium:
			if _, err := h.shop.Subscribe(ctx); err != nil {
				return err
			}
			text = "⭐ Premium unlocked: unlimited hearts."
		default:
			return nil
		}

		h.send(newHTMLMessage(chatID, text))
		return nil
	}
}

func (h *Handler) handleSettings() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		p, err := h.progress.Current()
		if err != nil {
			return err
		}

		msg := newHTMLMessage(chatID, renderSettings(p))
		msg.ReplyMarkup = buildSettingsKeyboard(p)
		h.send(msg)
		return nil
	}
}

func (h *Handler) handleToggle(setting string, enabled bool) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		switch setting {
		case settingsSound:
			if _, err := h.shop.SetSound(ctx, enabled); err != nil {
				return err
			}
		case settingsMusic:
			if _, err := h.shop.SetMusic(ctx, enabled); err != nil {
				return err
			}
		default:
			return nil
		}
		return h.handleSettings()(ctx, chatID)
	}
}

func (h *Handler) handleRecommend() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		rec := h.assistant.Recommend(ctx)
		if rec == nil {
			h.send(newHTMLMessage(chatID, msgNoRecommendation))
			return nil
		}

		msg := newHTMLMessage(chatID, renderRecommendation(rec))
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(
				tgbotapi.NewInlineKeyboardButtonData("▶️ Start", buildLessonCallback(rec.LessonID)),
			),
		)
		h.send(msg)
		return nil
	}
}

func (h *Handler) handleRegister(email string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		p, err := h.sessions.RegisterWithEmail(ctx, email)
		if err != nil {
			return err
		}
		h.setRun(nil)

		h.logger.Info("registered from chat", zap.String("uid", p.UID))
		h.send(newHTMLMessage(chatID, fmt.Sprintf("✅ Welcome, <b>%s</b>! Your progress is saved under this email.", html.EscapeString(p.DisplayName))))
		return nil
	}
}

func (h *Handler) handleLogin(email string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		p, err := h.sessions.Resolve(ctx, email)
		if err != nil {
			return err
		}
		h.setRun(nil)

		h.send(newHTMLMessage(chatID, fmt.Sprintf("✅ Welcome back, <b>%s</b>!", html.EscapeString(p.DisplayName))))
		return nil
	}
}

func (h *Handler) handleRename(name string) HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		p, err := h.shop.Rename(ctx, name)
		if err != nil {
			return err
		}
		h.send(newHTMLMessage(chatID, fmt.Sprintf("✏️ You are now <b>%s</b>.", html.EscapeString(p.DisplayName))))
		return nil
	}
}

func (h *Handler) handleLogout() HandlerFunc {
	return func(ctx context.Context, chatID int64) error {
		if err := h.sessions.Clear(ctx); err != nil {
			return err
		}
		h.setRun(nil)

		h.send(newHTMLMessage(chatID, msgLoggedOut))
		return nil
	}
}

func nextLesson(path []service.LessonState) *service.LessonState {
	for i := range path {
		if path[i].Completed {
			continue
		}
		if path[i].Reachable {
			return &path[i]
		}
		return nil
	}
	return nil
}
