package content

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aliskhannn/arabingo/internal/domain/entities"
)

// LoadFile reads a learning path from a JSON file of the form
// {"levels": [...]}. Lesson orders in the file are ignored and reassigned.
func LoadFile(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content file: %w", err)
	}

	var wrapper struct {
		Levels []entities.Level `json:"levels"`
	}
	if err = json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("unmarshal content JSON: %w", err)
	}

	g, err := NewGraph(wrapper.Levels)
	if err != nil {
		return nil, fmt.Errorf("build content graph: %w", err)
	}

	return g, nil
}
