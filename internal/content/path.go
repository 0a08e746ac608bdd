package content

import (
	"fmt"

	"github.com/aliskhannn/arabingo/internal/domain/entities"
)

// AlphabetLessonIDs are the lessons that make up the alphabet unit.
var AlphabetLessonIDs = []string{"u1_l1", "u1_l2"}

const (
	lessonsPerUnit   = 20
	quizzesPerUnit   = 10
	trueFalsePerUnit = 5
)

type levelSpec struct {
	id         string
	title      string
	objective  string
	difficulty entities.Difficulty
	requiredXP int
	units      [2][2]string // id, title
	color      string
}

var defaultLevels = []levelSpec{
	{
		id: "lvl_1", title: "Level 1: Absolute Beginner", objective: "Alphabet, sounds and basic reading.",
		difficulty: entities.DifficultyBeginner, requiredXP: 0,
		units: [2][2]string{{"u1", "The Foundations"}, {"u2", "The Art of Joining"}}, color: "#58cc02",
	},
	{
		id: "lvl_2", title: "Level 2: Beginner+", objective: "Essential words and everyday vocabulary.",
		difficulty: entities.DifficultyBeginner, requiredXP: 1500,
		units: [2][2]string{{"u3", "My Family & Me"}, {"u4", "Everyday Objects"}}, color: "#1cb0f6",
	},
	{
		id: "lvl_3", title: "Level 3: Intermediate", objective: "Simple sentences and dialogues.",
		difficulty: entities.DifficultyIntermediate, requiredXP: 4000,
		units: [2][2]string{{"u5", "The Traveller"}, {"u6", "At the Restaurant"}}, color: "#ff9600",
	},
	{
		id: "lvl_4", title: "Level 4: Advanced", objective: "Grammar and complex structures.",
		difficulty: entities.DifficultyAdvanced, requiredXP: 8000,
		units: [2][2]string{{"u7", "Conjugation I"}, {"u8", "Past Tenses"}}, color: "#ce82ff",
	},
	{
		id: "lvl_5", title: "Level 5: Expert", objective: "Classical and Quranic Arabic.",
		difficulty: entities.DifficultyExpert, requiredXP: 15000,
		units: [2][2]string{{"u9", "Ancient Wisdom"}, {"u10", "Literary Analysis"}}, color: "#059669",
	},
}

// DefaultPath builds the built-in learning path. Every id is derived from
// its position, so the same path is produced on every run.
func DefaultPath() []entities.Level {
	levels := make([]entities.Level, 0, len(defaultLevels))
	for _, spec := range defaultLevels {
		level := entities.Level{
			ID:                 spec.id,
			Title:              spec.title,
			Objective:          spec.objective,
			Difficulty:         spec.difficulty,
			RequiredXPToUnlock: spec.requiredXP,
		}
		for _, u := range spec.units {
			level.Units = append(level.Units, buildUnit(u[0], u[1], spec.color))
		}
		levels = append(levels, level)
	}
	return levels
}

// DefaultGraph returns the graph over DefaultPath.
func DefaultGraph() *Graph {
	g, err := NewGraph(DefaultPath())
	if err != nil {
		// The built-in path is static; failing here is a programming error.
		panic(fmt.Sprintf("build default content graph: %v", err))
	}
	return g
}

// buildUnit lays out 20 lessons, 10 quizzes, 5 true/false drills and a final exam.
func buildUnit(id, title, color string) entities.Unit {
	unit := entities.Unit{ID: id, Title: title, Color: color}

	for i := 1; i <= lessonsPerUnit; i++ {
		lessonID := fmt.Sprintf("%s_l%d", id, i)
		unit.Lessons = append(unit.Lessons, entities.Lesson{
			ID:          lessonID,
			Title:       fmt.Sprintf("Lesson %d: Core study", i),
			Description: "Progressive vocabulary building.",
			XPReward:    15,
			Kind:        entities.LessonKindLesson,
			Exercises:   buildExercises(lessonID, entities.ExerciseMultipleChoice, 3),
		})
	}

	for i := 1; i <= quizzesPerUnit; i++ {
		lessonID := fmt.Sprintf("%s_q%d", id, i)
		unit.Lessons = append(unit.Lessons, entities.Lesson{
			ID:          lessonID,
			Title:       fmt.Sprintf("Quiz %d: Quick check", i),
			Description: "Test what you have learned.",
			XPReward:    25,
			Kind:        entities.LessonKindQuiz,
			Exercises:   buildExercises(lessonID, entities.ExerciseMultipleChoice, 5),
		})
	}

	for i := 1; i <= trueFalsePerUnit; i++ {
		lessonID := fmt.Sprintf("%s_tf%d", id, i)
		unit.Lessons = append(unit.Lessons, entities.Lesson{
			ID:          lessonID,
			Title:       fmt.Sprintf("True or False %d", i),
			Description: "Judgement and speed.",
			XPReward:    20,
			Kind:        entities.LessonKindTrueFalse,
			Exercises:   buildExercises(lessonID, entities.ExerciseTrueFalse, 3),
		})
	}

	finalID := id + "_final"
	unit.Lessons = append(unit.Lessons, entities.Lesson{
		ID:          finalID,
		Title:       "Final Assessment: " + title,
		Description: "The last test before the next stage.",
		XPReward:    100,
		IsExam:      true,
		Kind:        entities.LessonKindExam,
		Exercises:   buildExercises(finalID, entities.ExerciseTranslation, 10),
	})

	return unit
}

func buildExercises(lessonID string, typ entities.ExerciseType, count int) []entities.Exercise {
	exercises := make([]entities.Exercise, 0, count)
	for i := 1; i <= count; i++ {
		ex := entities.Exercise{
			ID:            fmt.Sprintf("%s_ex%d", lessonID, i),
			Type:          typ,
			Question:      "Choose the correct answer",
			Options:       []string{"Option A", "Option B", "Option C"},
			CorrectAnswer: "Option A",
		}
		if typ == entities.ExerciseTrueFalse {
			ex.Question = "Is this correct?"
			ex.Options = []string{"True", "False"}
			ex.CorrectAnswer = "True"
		}
		exercises = append(exercises, ex)
	}
	return exercises
}
