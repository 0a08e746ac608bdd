// Package entities contains domain entities used across the application.
package entities

import (
	"slices"
	"time"
)

const (
	MaxHearts   = 5   // hearts restored by a refill
	InitialGems = 500 // gems granted to every new profile
)

// ErrorLog records one missed exercise. The history is append-only and is
// only read back as input for lesson recommendations.
type ErrorLog struct {
	LessonID      string    `json:"lessonId"`
	ExerciseID    string    `json:"exerciseId"`
	Timestamp     time.Time `json:"timestamp"`
	UserAnswer    string    `json:"userAnswer"`
	CorrectAnswer string    `json:"correctAnswer"`
}

// LearnerProfile is the canonical progression record of the active learner.
type LearnerProfile struct {
	UID         string `json:"uid"`             // opaque identity, "guest_..." or "user_..."
	Email       string `json:"email,omitempty"` // empty for guests
	DisplayName string `json:"displayName"`
	IsAnonymous bool   `json:"isAnonymous"`

	XP             int    `json:"xp"`                       // never decreases outside reset flows
	Level          int    `json:"level"`                    // derived from XP
	Streak         int    `json:"streak"`                   // consecutive study days
	LastLessonDate string `json:"lastLessonDate,omitempty"` // calendar date, YYYY-MM-DD
	Hearts         int    `json:"hearts"`                   // ignored when premium
	Gems           int    `json:"gems"`

	CompletedLessons []string `json:"completedLessons"` // set, grows only
	Badges           []string `json:"badges"`           // set, grows only
	PerfectLessons   int      `json:"perfectLessons"`   // lessons finished with 100% accuracy

	ErrorHistory []ErrorLog `json:"errorHistory"`

	IsPremium    bool `json:"isPremium"`
	SoundEnabled bool `json:"soundEnabled"`
	MusicEnabled bool `json:"musicEnabled"`

	LastSyncTimestamp *time.Time `json:"lastSyncTimestamp,omitempty"` // last successful queue fold
}

// NewLearnerProfile creates a profile seeded with the starting stats.
func NewLearnerProfile(uid, displayName string) *LearnerProfile {
	return &LearnerProfile{
		UID:              uid,
		DisplayName:      displayName,
		Level:            1,
		Hearts:           MaxHearts,
		Gems:             InitialGems,
		CompletedLessons: []string{},
		Badges:           []string{},
		ErrorHistory:     []ErrorLog{},
		SoundEnabled:     true,
		MusicEnabled:     true,
	}
}

// HasCompleted reports whether the lesson is in the completed set.
func (p *LearnerProfile) HasCompleted(lessonID string) bool {
	return slices.Contains(p.CompletedLessons, lessonID)
}

// MarkCompleted adds the lesson to the completed set.
// It returns false if the lesson was already there.
func (p *LearnerProfile) MarkCompleted(lessonID string) bool {
	if p.HasCompleted(lessonID) {
		return false
	}
	p.CompletedLessons = append(p.CompletedLessons, lessonID)
	return true
}

// HasBadge reports whether the badge has been earned.
func (p *LearnerProfile) HasBadge(badgeID string) bool {
	return slices.Contains(p.Badges, badgeID)
}

// HeartsLeft reports whether the learner may keep answering.
func (p *LearnerProfile) HeartsLeft() bool {
	return p.IsPremium || p.Hearts > 0
}

// Clone returns a deep copy so callers can work on a snapshot.
func (p *LearnerProfile) Clone() *LearnerProfile {
	if p == nil {
		return nil
	}

	c := *p
	c.CompletedLessons = append([]string{}, p.CompletedLessons...)
	c.Badges = append([]string{}, p.Badges...)
	c.ErrorHistory = append([]ErrorLog{}, p.ErrorHistory...)
	if p.LastSyncTimestamp != nil {
		ts := *p.LastSyncTimestamp
		c.LastSyncTimestamp = &ts
	}
	return &c
}

// Normalize replaces nil collections and out-of-range counters coming from
// older or hand-edited records.
func (p *LearnerProfile) Normalize() {
	if p.CompletedLessons == nil {
		p.CompletedLessons = []string{}
	}
	if p.Badges == nil {
		p.Badges = []string{}
	}
	if p.ErrorHistory == nil {
		p.ErrorHistory = []ErrorLog{}
	}
	p.XP = max(0, p.XP)
	p.Streak = max(0, p.Streak)
	p.Hearts = min(max(0, p.Hearts), MaxHearts)
	p.Level = max(1, p.Level)
}
