package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/arabingo/internal/domain/entities"
)

func buildMainKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("▶️ Continue", actionNext),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Progress", actionProgress),
			tgbotapi.NewInlineKeyboardButtonData("🛒 Shop", actionShop),
		),
	)
}

func buildLessonKeyboard(lesson *entities.Lesson) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("▶️ "+lesson.Title, buildLessonCallback(lesson.ID)),
		),
	)
}

// buildExerciseKeyboard returns one button per option, or nil when the
// answer is typed or spoken.
func buildExerciseKeyboard(ex entities.Exercise, exerciseIdx int) *tgbotapi.InlineKeyboardMarkup {
	if ex.Type == entities.ExerciseSpeaking || len(ex.Options) == 0 {
		return nil
	}

	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(ex.Options))
	for i, option := range ex.Options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(option, buildAnswerCallback(exerciseIdx, i)),
		))
	}

	kb := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return &kb
}

func buildResultKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("▶️ Next lesson", actionNext),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Progress", actionProgress),
		),
	)
}

func buildShopKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("❤️ Refill hearts", buildShopCallback(shopRefill)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⭐ Go premium", buildShopCallback(shopPremium)),
		),
	)
}

func buildSettingsKeyboard(p *entities.LearnerProfile) tgbotapi.InlineKeyboardMarkup {
	sound := "🔇 Mute sound"
	if !p.SoundEnabled {
		sound = "🔊 Unmute sound"
	}
	music := "🔕 Stop music"
	if !p.MusicEnabled {
		music = "🎵 Play music"
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(sound, buildSettingsCallback(settingsSound, !p.SoundEnabled)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(music, buildSettingsCallback(settingsMusic, !p.MusicEnabled)),
		),
	)
}
