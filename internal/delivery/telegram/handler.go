package telegram

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Handler serves the learner's own chat. Updates from any other chat are
// ignored because there is a single local session.
type Handler struct {
	bot        *tgbotapi.BotAPI
	chatID     int64
	logger     *zap.Logger
	sessions   SessionService
	progress   ProgressReader
	learning   LearningService
	shop       ShopService
	assistant  AssistantService
	httpClient *http.Client
	now        func() time.Time

	mu  sync.Mutex
	run *lessonRun
}

func NewHandler(
	bot *tgbotapi.BotAPI,
	chatID int64,
	logger *zap.Logger,
	sessions SessionService,
	progress ProgressReader,
	learning LearningService,
	shop ShopService,
	assistant AssistantService,
) *Handler {
	return &Handler{
		bot:        bot,
		chatID:     chatID,
		logger:     logger,
		sessions:   sessions,
		progress:   progress,
		learning:   learning,
		shop:       shop,
		assistant:  assistant,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started", zap.Int64("chat_id", h.chatID))
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)
	defer h.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		if update.CallbackQuery.Message == nil || update.CallbackQuery.Message.Chat.ID != h.chatID {
			return
		}
		h.logger.Debug("callback received", zap.String("data", update.CallbackQuery.Data))
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		return
	}

	chatID := update.Message.Chat.ID
	if chatID != h.chatID {
		h.logger.Debug("ignoring update from foreign chat", zap.Int64("chat_id", chatID))
		return
	}

	if update.Message.IsCommand() {
		args := strings.TrimSpace(update.Message.CommandArguments())

		switch update.Message.Command() {
		case "start":
			_ = h.withErrorHandling(h.handleStart())(ctx, chatID)
		case "next":
			_ = h.withErrorHandling(h.handleNext())(ctx, chatID)
		case "path":
			_ = h.withErrorHandling(h.handlePath())(ctx, chatID)
		case "progress":
			_ = h.withErrorHandling(h.handleProgress())(ctx, chatID)
		case "shop":
			_ = h.withErrorHandling(h.handleShop())(ctx, chatID)
		case "settings":
			_ = h.withErrorHandling(h.handleSettings())(ctx, chatID)
		case "recommend":
			_ = h.withErrorHandling(h.handleRecommend())(ctx, chatID)
		case "register":
			_ = h.withErrorHandling(h.handleRegister(args))(ctx, chatID)
		case "login":
			_ = h.withErrorHandling(h.handleLogin(args))(ctx, chatID)
		case "name":
			_ = h.withErrorHandling(h.handleRename(args))(ctx, chatID)
		case "logout":
			_ = h.withErrorHandling(h.handleLogout())(ctx, chatID)
		default:
			h.send(newHTMLMessage(chatID, msgUnknownCommand))
		}
		return
	}

	if update.Message.Voice != nil {
		_ = h.withErrorHandling(h.handleVoice(update.Message.Voice.FileID))(ctx, chatID)
		return
	}

	if text := strings.TrimSpace(update.Message.Text); text != "" {
		_ = h.withErrorHandling(h.handleTypedAnswer(text))(ctx, chatID)
	}
}

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	data := decodeCallback(cb.Data)

	var fn HandlerFunc
	switch data.Action {
	case actionLesson:
		if len(data.Params) == 1 {
			fn = h.handleStartLesson(data.Params[0])
		}
	case actionAnswer:
		exIdx, ok1 := data.intParam(0)
		optIdx, ok2 := data.intParam(1)
		if ok1 && ok2 {
			fn = h.handleOptionAnswer(exIdx, optIdx)
		}
	case actionNext:
		fn = h.handleNext()
	case actionProgress:
		fn = h.handleProgress()
	case actionShop:
		if len(data.Params) == 1 {
			fn = h.handleShopPurchase(data.Params[0])
		} else {
			fn = h.handleShop()
		}
	case actionSettings:
		if len(data.Params) == 2 {
			fn = h.handleToggle(data.Params[0], data.Params[1] == "on")
		}
	}

	if fn == nil {
		h.logger.Warn("invalid callback data", zap.String("data", cb.Data))
	} else {
		_ = h.withErrorHandling(fn)(ctx, chatID)
	}

	// Clear the button spinner.
	if _, err := h.bot.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		h.logger.Debug("callback answer failed", zap.Error(err))
	}
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message", zap.Error(err))
	}
}
