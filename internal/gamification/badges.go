package gamification

import (
	"slices"

	"github.com/aliskhannn/arabingo/internal/content"
	"github.com/aliskhannn/arabingo/internal/domain/entities"
)

const perfectLessonsForBadge = 5

// BadgeRule pairs a badge definition with its unlock predicate. hour is the
// local wall-clock hour at evaluation time.
type BadgeRule struct {
	entities.Badge
	Unlocked func(p *entities.LearnerProfile, hour int) bool
}

var rules = []BadgeRule{
	{
		Badge: entities.Badge{ID: "b1", Name: "First Step", Icon: "🌱", Description: "Finish your first lesson"},
		Unlocked: func(p *entities.LearnerProfile, _ int) bool {
			return len(p.CompletedLessons) >= 1
		},
	},
	{
		Badge: entities.Badge{ID: "b2", Name: "Early Bird", Icon: "☀️", Description: "Study before 8 a.m."},
		Unlocked: func(_ *entities.LearnerProfile, hour int) bool {
			return hour >= 5 && hour < 8
		},
	},
	{
		Badge: entities.Badge{ID: "b3", Name: "Bronze Streak", Icon: "🔥", Description: "Keep a 3-day streak"},
		Unlocked: func(p *entities.LearnerProfile, _ int) bool {
			return p.Streak >= 3
		},
	},
	{
		Badge: entities.Badge{ID: "b4", Name: "Master of Letters", Icon: "✍️", Description: "Finish the alphabet unit"},
		Unlocked: func(p *entities.LearnerProfile, _ int) bool {
			for _, id := range content.AlphabetLessonIDs {
				if !p.HasCompleted(id) {
					return false
				}
			}
			return true
		},
	},
	{
		Badge: entities.Badge{ID: "b5", Name: "Night Owl", Icon: "🦉", Description: "Study after 10 p.m."},
		Unlocked: func(_ *entities.LearnerProfile, hour int) bool {
			return hour >= 22 || hour < 2
		},
	},
	{
		Badge: entities.Badge{ID: "b6", Name: "Perfectionist", Icon: "🎯", Description: "Score 100% on 5 lessons"},
		Unlocked: func(p *entities.LearnerProfile, _ int) bool {
			return p.PerfectLessons >= perfectLessonsForBadge
		},
	},
}

// Catalogue returns the static badge definitions.
func Catalogue() []entities.Badge {
	out := make([]entities.Badge, 0, len(rules))
	for _, r := range rules {
		out = append(out, r.Badge)
	}
	return out
}

// EvaluateBadges returns the existing badges plus every badge whose predicate
// holds now. Badges are never removed.
//
// Time-of-day badges look at the hour of evaluation, not the hour the lesson
// was finished, matching how progress has always been scored.
func EvaluateBadges(p *entities.LearnerProfile, hour int) []string {
	badges := append([]string{}, p.Badges...)
	for _, r := range rules {
		if r.Unlocked(p, hour) {
			badges = entities.UnionInto(badges, r.ID)
		}
	}
	return badges
}

// NewlyEarned returns the badges in after that are missing from before.
func NewlyEarned(before, after []string) []entities.Badge {
	var earned []entities.Badge
	for _, r := range rules {
		if slices.Contains(after, r.ID) && !slices.Contains(before, r.ID) {
			earned = append(earned, r.Badge)
		}
	}
	return earned
}

// Recompute refreshes the derived fields of p in place: the level from its
// experience and the badge set.
func Recompute(p *entities.LearnerProfile, hour int) {
	p.Level = LevelForXP(p.XP)
	p.Badges = EvaluateBadges(p, hour)
}
