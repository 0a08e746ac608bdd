// Package content holds the static learning path and answers unlock queries
// against a learner profile.
package content

import (
	"errors"
	"fmt"

	"github.com/aliskhannn/arabingo/internal/domain/entities"
)

var (
	ErrLessonNotFound = errors.New("lesson not found")
	ErrDuplicateID    = errors.New("duplicate content id")
	ErrEmptyPath      = errors.New("learning path has no lessons")
)

// Graph is the read-only levels → units → lessons hierarchy. Lessons are
// numbered with a single global order starting at 1, so the unlock chain runs
// straight through unit and level boundaries.
type Graph struct {
	levels  []entities.Level
	ordered []*entities.Lesson
	byID    map[string]*entities.Lesson
	levelOf map[string]*entities.Level
}

// NewGraph builds the graph and assigns global lesson orders in path order,
// ignoring whatever orders the input carried.
func NewGraph(levels []entities.Level) (*Graph, error) {
	g := &Graph{
		levels:  cloneLevels(levels),
		byID:    make(map[string]*entities.Lesson),
		levelOf: make(map[string]*entities.Level),
	}

	seen := make(map[string]struct{})
	claim := func(id string) error {
		if id == "" {
			return fmt.Errorf("%w: empty id", ErrDuplicateID)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateID, id)
		}
		seen[id] = struct{}{}
		return nil
	}

	order := 1
	for li := range g.levels {
		level := &g.levels[li]
		if err := claim(level.ID); err != nil {
			return nil, err
		}

		for ui := range level.Units {
			unit := &level.Units[ui]
			if err := claim(unit.ID); err != nil {
				return nil, err
			}

			for i := range unit.Lessons {
				lesson := &unit.Lessons[i]
				if err := claim(lesson.ID); err != nil {
					return nil, err
				}

				lesson.Order = order
				order++

				g.ordered = append(g.ordered, lesson)
				g.byID[lesson.ID] = lesson
				g.levelOf[lesson.ID] = level
			}
		}
	}

	if len(g.ordered) == 0 {
		return nil, ErrEmptyPath
	}

	return g, nil
}

// Levels returns the levels in path order.
func (g *Graph) Levels() []entities.Level {
	return g.levels
}

// AllLessonsOrdered returns every lesson sorted by global order.
func (g *Graph) AllLessonsOrdered() []*entities.Lesson {
	return append([]*entities.Lesson(nil), g.ordered...)
}

// Lesson looks a lesson up by id.
func (g *Graph) Lesson(id string) (*entities.Lesson, error) {
	lesson, ok := g.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrLessonNotFound, id)
	}
	return lesson, nil
}

// LevelOf returns the level that contains the lesson.
func (g *Graph) LevelOf(lessonID string) (*entities.Level, error) {
	level, ok := g.levelOf[lessonID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrLessonNotFound, lessonID)
	}
	return level, nil
}

// IsLessonUnlocked applies the linear chain: order 1 is always open, order k
// opens once the lesson at order k-1 is completed.
func (g *Graph) IsLessonUnlocked(lesson *entities.Lesson, p *entities.LearnerProfile) bool {
	if lesson.Order <= 1 {
		return true
	}
	if lesson.Order-1 > len(g.ordered) {
		return false
	}

	prev := g.ordered[lesson.Order-2]
	return p.HasCompleted(prev.ID)
}

// IsLevelUnlocked applies the experience gate of a level.
func (g *Graph) IsLevelUnlocked(level *entities.Level, p *entities.LearnerProfile) bool {
	return p.XP >= level.RequiredXPToUnlock
}

// IsLessonReachable requires both the lesson chain and the level gate.
func (g *Graph) IsLessonReachable(lesson *entities.Lesson, p *entities.LearnerProfile) bool {
	level, ok := g.levelOf[lesson.ID]
	if !ok {
		return false
	}
	return g.IsLessonUnlocked(lesson, p) && g.IsLevelUnlocked(level, p)
}

// NextLesson returns the first reachable lesson not yet completed, or nil
// when the learner is blocked or done.
func (g *Graph) NextLesson(p *entities.LearnerProfile) *entities.Lesson {
	for _, lesson := range g.ordered {
		if p.HasCompleted(lesson.ID) {
			continue
		}
		if g.IsLessonReachable(lesson, p) {
			return lesson
		}
		return nil
	}
	return nil
}

func cloneLevels(levels []entities.Level) []entities.Level {
	out := make([]entities.Level, len(levels))
	for i, level := range levels {
		out[i] = level
		out[i].Units = make([]entities.Unit, len(level.Units))
		for j, unit := range level.Units {
			out[i].Units[j] = unit
			out[i].Units[j].Lessons = append([]entities.Lesson(nil), unit.Lessons...)
		}
	}
	return out
}
