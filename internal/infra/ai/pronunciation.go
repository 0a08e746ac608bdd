package ai

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/aliskhannn/arabingo/internal/domain/entities"
)

const pronunciationPrompt = `You are an expert in Arabic phonetics and Tajwid.
The student is trying to pronounce: %q.

Assess the recording:
1. Makharij: is each letter articulated from the right place?
2. Sifat: emphasis (tafkhim) and softness (tarqiq).
3. Harakat: are short and long vowels respected?
4. Tajwid: where relevant check rules such as Ikhfa, Idgham, Ghunnah, Qalqalah or Madd.

Be encouraging but rigorous. Score fidelity from 0 to 100 and grade it
excellent (>=90), good (70-89), average (40-69) or poor (<40). Keep tips
under 100 characters. Leave tajwidRule empty when no rule applies.`

var pronunciationSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"score":          map[string]any{"type": "integer"},
		"accuracy":       map[string]any{"type": "string", "enum": []string{"excellent", "good", "average", "poor"}},
		"phoneticErrors": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"tips":           map[string]any{"type": "string"},
		"tajwidRule":     map[string]any{"type": "string"},
	},
	"required":             []string{"score", "accuracy", "phoneticErrors", "tips", "tajwidRule"},
	"additionalProperties": false,
}

// Analyze scores a recorded attempt at targetText.
func (c *Client) Analyze(ctx context.Context, audio []byte, targetText string) (*entities.PronunciationFeedback, error) {
	messages := []message{
		{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: fmt.Sprintf(pronunciationPrompt, targetText)},
				{Type: "input_audio", InputAudio: &inputAudio{
					Data:   base64.StdEncoding.EncodeToString(audio),
					Format: c.cfg.AudioFormat,
				}},
			},
		},
	}

	var fb entities.PronunciationFeedback
	if err := c.generateJSON(ctx, c.cfg.AudioModel, messages, "pronunciation_feedback", pronunciationSchema, &fb); err != nil {
		return nil, fmt.Errorf("analyze pronunciation: %w", err)
	}
	return &fb, nil
}
