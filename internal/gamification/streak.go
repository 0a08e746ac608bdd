package gamification

import (
	"fmt"
	"math"
	"time"

	"github.com/aliskhannn/arabingo/internal/domain/entities"
)

// StreakUpdate is the outcome of recording activity on a given day.
type StreakUpdate struct {
	Streak  int
	Changed bool
	Message string
}

// UpdateStreak advances the streak for activity on today.
//
// Both dates are calendar dates, so the day difference never depends on the
// time of day or on daylight saving:
//  1. No previous date starts the streak at 1.
//  2. Same day leaves it unchanged.
//  3. One day apart increments it.
//  4. More than one day apart resets it to 1.
//
// Anything else, including unparsable dates, leaves the streak unchanged.
func UpdateStreak(lastDate string, currentStreak int, today string) StreakUpdate {
	if lastDate == "" {
		return StreakUpdate{Streak: 1, Changed: true, Message: "First lesson! Your streak begins."}
	}
	if lastDate == today {
		return StreakUpdate{Streak: currentStreak}
	}

	last, err := entities.ParseDate(lastDate)
	if err != nil {
		return StreakUpdate{Streak: currentStreak}
	}
	now, err := entities.ParseDate(today)
	if err != nil {
		return StreakUpdate{Streak: currentStreak}
	}

	diff := now.Sub(last)
	if diff < 0 {
		diff = -diff
	}
	diffDays := int(math.Ceil(diff.Hours() / 24))

	switch {
	case diffDays == 1:
		next := currentStreak + 1
		return StreakUpdate{Streak: next, Changed: true, Message: fmt.Sprintf("%d-day streak!", next)}
	case diffDays > 1:
		return StreakUpdate{Streak: 1, Changed: true, Message: "Streak reset. Fresh start!"}
	default:
		return StreakUpdate{Streak: currentStreak}
	}
}

// Today returns the calendar date of now in loc.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return entities.DateOf(now.In(loc))
}
