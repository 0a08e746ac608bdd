package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aliskhannn/arabingo/internal/domain/entities"
)

const recentErrorsLimit = 20

const recommendationSystem = `You are Noura, a warm and learned guide in an Arabic course.
Pick the single best next lesson for the student from the catalogue and
write a short message (max 150 characters) signed by Noura.`

var recommendationSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"lessonId": map[string]any{"type": "string"},
		"reason":   map[string]any{"type": "string"},
		"message":  map[string]any{"type": "string"},
	},
	"required":             []string{"lessonId", "reason", "message"},
	"additionalProperties": false,
}

type catalogueLesson struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done,omitempty"`
}

type catalogueUnit struct {
	ID      string            `json:"id"`
	Title   string            `json:"title"`
	Lessons []catalogueLesson `json:"lessons"`
}

type recommendationInput struct {
	Level     int                 `json:"level"`
	XP        int                 `json:"xp"`
	Errors    []entities.ErrorLog `json:"recentErrors"`
	Catalogue []catalogueUnit     `json:"catalogue"`
}

// Recommend asks the model for the next lesson.
func (c *Client) Recommend(ctx context.Context, profile *entities.LearnerProfile, levels []entities.Level) (*entities.Recommendation, error) {
	input := recommendationInput{
		Level:  profile.Level,
		XP:     profile.XP,
		Errors: recentErrors(profile.ErrorHistory),
	}
	for _, level := range levels {
		for _, unit := range level.Units {
			cu := catalogueUnit{ID: unit.ID, Title: unit.Title}
			for _, lesson := range unit.Lessons {
				cu.Lessons = append(cu.Lessons, catalogueLesson{
					ID:    lesson.ID,
					Title: lesson.Title,
					Done:  profile.HasCompleted(lesson.ID),
				})
			}
			input.Catalogue = append(input.Catalogue, cu)
		}
	}

	user, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("encode learner data: %w", err)
	}

	messages := []message{
		{Role: "system", Content: recommendationSystem},
		{Role: "user", Content: string(user)},
	}

	var rec entities.Recommendation
	if err := c.generateJSON(ctx, c.cfg.Model, messages, "lesson_recommendation", recommendationSchema, &rec); err != nil {
		return nil, fmt.Errorf("recommend lesson: %w", err)
	}
	return &rec, nil
}

func recentErrors(history []entities.ErrorLog) []entities.ErrorLog {
	if len(history) <= recentErrorsLimit {
		return history
	}
	return history[len(history)-recentErrorsLimit:]
}
