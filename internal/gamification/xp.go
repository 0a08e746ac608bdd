package gamification

import (
	"math"

	"github.com/aliskhannn/arabingo/internal/domain/entities"
)

const (
	baseLessonXP      = 15
	perfectBonus      = 5
	goodBonus         = 2
	goodAccuracy      = 80
	maxStreakBonus    = 10
	speedBonus        = 3
	speedLimitSeconds = 45
	dailyBonus        = 10
)

// AwardXP computes the experience for a finished lesson:
// base + accuracy bonus + streak bonus (capped at 10) + speed bonus + first-lesson-of-the-day bonus.
// today is a calendar date in entities.DateLayout.
func AwardXP(p *entities.LearnerProfile, accuracyPercent, secondsTaken int, today string) int {
	xp := baseLessonXP

	switch {
	case accuracyPercent == 100:
		xp += perfectBonus
	case accuracyPercent >= goodAccuracy:
		xp += goodBonus
	}

	xp += min(p.Streak, maxStreakBonus)

	if secondsTaken < speedLimitSeconds {
		xp += speedBonus
	}

	if p.LastLessonDate != today {
		xp += dailyBonus
	}

	return xp
}

// LessonAccuracy returns round((total-misses)/total*100), clamped to [0, 100].
// A lesson without exercises counts as perfect.
func LessonAccuracy(total, misses int) int {
	if total <= 0 {
		return 100
	}
	misses = min(max(0, misses), total)
	return int(math.Round(float64(total-misses) / float64(total) * 100))
}
