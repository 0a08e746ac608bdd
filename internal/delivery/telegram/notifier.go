package telegram

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Notifier posts progress notifications to the learner's chat.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

func NewNotifier(bot *tgbotapi.BotAPI, chatID int64, logger *zap.Logger) *Notifier {
	return &Notifier{bot: bot, chatID: chatID, logger: logger}
}

func (n *Notifier) Notify(_ context.Context, text string) error {
	if _, err := n.bot.Send(newHTMLMessage(n.chatID, text)); err != nil {
		return err
	}
	n.logger.Debug("notification sent", zap.Int64("chat_id", n.chatID))
	return nil
}
