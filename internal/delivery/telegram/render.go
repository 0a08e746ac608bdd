package telegram

import (
	"fmt"
	"html"
	"strings"

	"github.com/aliskhannn/arabingo/internal/domain/entities"
	"github.com/aliskhannn/arabingo/internal/gamification"
	"github.com/aliskhannn/arabingo/internal/service"
)

const rlm = "\u200F"

func renderLessonIntro(lesson *entities.Lesson) string {
	icon := "📘"
	switch lesson.Kind {
	case entities.LessonKindQuiz:
		icon = "❓"
	case entities.LessonKindTrueFalse:
		icon = "⚖️"
	case entities.LessonKindExam:
		icon = "🏆"
	}

	return fmt.Sprintf("%s <b>%s</b>\n<i>%s</i>\n\n%d exercises",
		icon,
		html.EscapeString(lesson.Title),
		html.EscapeString(lesson.Description),
		len(lesson.Exercises),
	)
}

func renderExercise(ex entities.Exercise, idx, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>%d/%d</b> %s", idx+1, total, html.EscapeString(ex.Question))
	if ex.ArabicQuestion != "" {
		fmt.Fprintf(&b, "\n\n%s<b>%s</b>", rlm, html.EscapeString(ex.ArabicQuestion))
	}

	switch {
	case ex.Type == entities.ExerciseSpeaking:
		b.WriteString("\n\n" + msgSpeakAnswer)
	case len(ex.ScrambledWords) > 0:
		fmt.Fprintf(&b, "\n\n%s%s\n\n%s", rlm, html.EscapeString(strings.Join(ex.ScrambledWords, " · ")), msgTypeAnswer)
	case len(ex.Options) == 0:
		b.WriteString("\n\n" + msgTypeAnswer)
	}
	return b.String()
}

func renderAnswerFeedback(res *service.AnswerResult) string {
	if res.Correct {
		return "✅ Correct!"
	}
	return fmt.Sprintf("❌ Not quite. The answer is <b>%s</b>.\n❤️ %d left",
		html.EscapeString(res.CorrectAnswer), res.Hearts)
}

func renderLessonResult(res *service.LessonResult, accuracy int) string {
	var b strings.Builder
	b.WriteString("🎉 <b>Lesson complete!</b>\n\n")
	fmt.Fprintf(&b, "🎯 Accuracy: %d%%\n", accuracy)
	if res.Credited {
		fmt.Fprintf(&b, "⚡ +%d XP\n", res.XPAwarded)
	} else {
		b.WriteString("🔁 Review session, no XP this time\n")
	}
	if res.Profile != nil {
		fmt.Fprintf(&b, "🔥 Streak: %d\n", res.Profile.Streak)
	}
	if res.LevelUp && res.Profile != nil {
		fmt.Fprintf(&b, "\n⬆️ <b>Level %d!</b>\n", res.Profile.Level)
	}
	for _, badge := range res.NewBadges {
		fmt.Fprintf(&b, "\n%s New badge: <b>%s</b>", badge.Icon, html.EscapeString(badge.Name))
	}
	return b.String()
}

func renderProgress(p *entities.LearnerProfile, totalLessons int) string {
	next := gamification.NextLevelXP(p.Level)
	base := gamification.XPForLevel(p.Level)
	pct := gamification.LevelProgress(p)

	hearts := fmt.Sprintf("%d/%d", p.Hearts, entities.MaxHearts)
	if p.IsPremium {
		hearts = "∞"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "👤 <b>%s</b>\n\n", html.EscapeString(p.DisplayName))
	fmt.Fprintf(&b, "⬆️ Level %d  %s %.0f%%\n", p.Level, buildProgressBar(p.XP-base, next-base, 10), pct)
	fmt.Fprintf(&b, "⚡ %d XP (next level at %d)\n", p.XP, next)
	fmt.Fprintf(&b, "🔥 Streak: %d\n", p.Streak)
	fmt.Fprintf(&b, "❤️ Hearts: %s   💎 Gems: %d\n", hearts, p.Gems)
	fmt.Fprintf(&b, "📚 Lessons: %d/%d\n", len(p.CompletedLessons), totalLessons)

	b.WriteString("\n<b>Badges</b>\n")
	for _, badge := range gamification.Catalogue() {
		mark := "▫️"
		if p.HasBadge(badge.ID) {
			mark = badge.Icon
		}
		fmt.Fprintf(&b, "%s %s\n", mark, html.EscapeString(badge.Name))
	}
	return b.String()
}

func renderPath(path []service.LessonState, window int) string {
	start := 0
	for i, st := range path {
		if !st.Completed {
			start = max(0, i-2)
			break
		}
		start = max(0, i-window+1)
	}
	end := min(len(path), start+window)

	var b strings.Builder
	b.WriteString("🗺 <b>Your path</b>\n\n")
	for _, st := range path[start:end] {
		mark := "🔒"
		switch {
		case st.Completed:
			mark = "✅"
		case st.Reachable:
			mark = "▶️"
		}
		fmt.Fprintf(&b, "%s %d. %s\n", mark, st.Lesson.Order, html.EscapeString(st.Lesson.Title))
	}
	return b.String()
}

func renderShop(p *entities.LearnerProfile) string {
	return fmt.Sprintf("🛒 <b>Shop</b>\n\n💎 You have %d gems.\n\n"+
		"❤️ Refill hearts: %d gems\n⭐ Premium: unlimited hearts",
		p.Gems, service.RefillCost)
}

func renderSettings(p *entities.LearnerProfile) string {
	return fmt.Sprintf("⚙️ <b>Settings</b>\n\n🔊 Sound: %s\n🎵 Music: %s",
		onOff(p.SoundEnabled), onOff(p.MusicEnabled))
}

func renderRecommendation(rec *entities.Recommendation) string {
	return fmt.Sprintf("🪶 <b>Noura suggests</b>\n\n%s\n\n<i>%s</i>",
		html.EscapeString(rec.Message), html.EscapeString(rec.Reason))
}

func renderPronunciation(fb entities.PronunciationFeedback) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎙 Score: <b>%d</b> (%s)\n", fb.Score, fb.Accuracy)
	for _, e := range fb.PhoneticErrors {
		fmt.Fprintf(&b, "• %s\n", html.EscapeString(e))
	}
	if fb.TajwidRule != "" {
		fmt.Fprintf(&b, "📖 Tajwid: %s\n", html.EscapeString(fb.TajwidRule))
	}
	if fb.Tips != "" {
		fmt.Fprintf(&b, "\n💡 %s", html.EscapeString(fb.Tips))
	}
	return b.String()
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
