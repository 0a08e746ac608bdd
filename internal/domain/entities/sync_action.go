package entities

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ActionKind tags a queued mutation.
type ActionKind string

const (
	ActionCompleteLesson ActionKind = "COMPLETE_LESSON"
	ActionUpdateStats    ActionKind = "UPDATE_STATS"
)

var (
	ErrUnknownActionKind = errors.New("unknown sync action kind")
	ErrInvalidPayload    = errors.New("invalid sync action payload")
)

// CompleteLessonPayload credits a finished lesson.
type CompleteLessonPayload struct {
	LessonID string `json:"lessonId"`
	XP       int    `json:"xp"`
}

// SyncAction is a recorded mutation waiting to be folded into the profile.
// Exactly one of the payload pointers is set, matching Kind.
type SyncAction struct {
	ID        string    // assigned on append, reserved for de-duplication
	Kind      ActionKind
	Timestamp time.Time // millisecond precision once persisted

	CompleteLesson *CompleteLessonPayload
	UpdateStats    *StatsPatch
}

// NewCompleteLessonAction builds a COMPLETE_LESSON action.
func NewCompleteLessonAction(lessonID string, xp int, at time.Time) SyncAction {
	return SyncAction{
		Kind:           ActionCompleteLesson,
		Timestamp:      at,
		CompleteLesson: &CompleteLessonPayload{LessonID: lessonID, XP: xp},
	}
}

// NewUpdateStatsAction builds an UPDATE_STATS action.
func NewUpdateStatsAction(patch StatsPatch, at time.Time) SyncAction {
	return SyncAction{
		Kind:        ActionUpdateStats,
		Timestamp:   at,
		UpdateStats: &patch,
	}
}

// Validate checks that the payload matches the kind.
func (a SyncAction) Validate() error {
	switch a.Kind {
	case ActionCompleteLesson:
		if a.CompleteLesson == nil || strings.TrimSpace(a.CompleteLesson.LessonID) == "" {
			return fmt.Errorf("%w: lesson id is required", ErrInvalidPayload)
		}
		if a.CompleteLesson.XP < 0 {
			return fmt.Errorf("%w: negative xp %d", ErrInvalidPayload, a.CompleteLesson.XP)
		}
	case ActionUpdateStats:
		if a.UpdateStats == nil {
			return fmt.Errorf("%w: stats patch is required", ErrInvalidPayload)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownActionKind, a.Kind)
	}
	return nil
}

type syncActionJSON struct {
	ID        string          `json:"id,omitempty"`
	Type      ActionKind      `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"` // unix milliseconds
}

// MarshalJSON encodes the action as {id, type, payload, timestamp}.
func (a SyncAction) MarshalJSON() ([]byte, error) {
	var (
		payload []byte
		err     error
	)

	switch a.Kind {
	case ActionCompleteLesson:
		payload, err = json.Marshal(a.CompleteLesson)
	case ActionUpdateStats:
		payload, err = json.Marshal(a.UpdateStats)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownActionKind, a.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", a.Kind, err)
	}

	return json.Marshal(syncActionJSON{
		ID:        a.ID,
		Type:      a.Kind,
		Payload:   payload,
		Timestamp: a.Timestamp.UnixMilli(),
	})
}

// UnmarshalJSON decodes the payload into the concrete shape for its kind
// and validates it.
func (a *SyncAction) UnmarshalJSON(data []byte) error {
	var raw syncActionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	decoded := SyncAction{
		ID:        raw.ID,
		Kind:      raw.Type,
		Timestamp: time.UnixMilli(raw.Timestamp).UTC(),
	}

	switch raw.Type {
	case ActionCompleteLesson:
		var p CompleteLessonPayload
		if err := json.Unmarshal(raw.Payload, &p); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		decoded.CompleteLesson = &p
	case ActionUpdateStats:
		var p StatsPatch
		if err := json.Unmarshal(raw.Payload, &p); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		decoded.UpdateStats = &p
	default:
		return fmt.Errorf("%w: %q", ErrUnknownActionKind, raw.Type)
	}

	if err := decoded.Validate(); err != nil {
		return err
	}

	*a = decoded
	return nil
}
