// Package gamification derives levels, experience awards, streaks and badges
// from a profile snapshot. Every function is pure; callers pass the clock in.
package gamification

import (
	"math"

	"github.com/aliskhannn/arabingo/internal/domain/entities"
)

// XPForLevel returns the total experience at which a level starts:
// round(50 * (level-1)^1.5).
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return int(math.Round(50 * math.Pow(float64(level-1), 1.5)))
}

// NextLevelXP returns the total experience required to reach level+1.
func NextLevelXP(level int) int {
	return XPForLevel(level + 1)
}

// LevelForXP returns the greatest level whose threshold is <= xp.
func LevelForXP(xp int) int {
	level := 1
	for XPForLevel(level+1) <= xp {
		level++
	}
	return level
}

// LevelProgress returns how far the learner is through the current level,
// as a percentage clamped to [0, 100].
func LevelProgress(p *entities.LearnerProfile) float64 {
	level := LevelForXP(p.XP)
	base := XPForLevel(level)
	next := NextLevelXP(level)

	progress := float64(p.XP-base) / float64(next-base) * 100
	return math.Min(100, math.Max(0, progress))
}
