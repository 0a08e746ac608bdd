package entities

import "slices"

// StatsPatch is a partial profile update. Nil fields are left untouched, so
// several patches folded in order give per-field last-write-wins.
//
// XP, completed lessons and badges are deliberately absent: they only grow
// through lesson completion and badge evaluation.
type StatsPatch struct {
	DisplayName    *string `json:"displayName,omitempty"`
	Streak         *int    `json:"streak,omitempty"`
	LastLessonDate *string `json:"lastLessonDate,omitempty"`
	Hearts         *int    `json:"hearts,omitempty"`
	Gems           *int    `json:"gems,omitempty"`
	PerfectLessons *int    `json:"perfectLessons,omitempty"`
	IsPremium      *bool   `json:"isPremium,omitempty"`
	SoundEnabled   *bool   `json:"soundEnabled,omitempty"`
	MusicEnabled   *bool   `json:"musicEnabled,omitempty"`
}

// IsEmpty reports whether the patch carries no field.
func (s StatsPatch) IsEmpty() bool {
	return s.DisplayName == nil &&
		s.Streak == nil &&
		s.LastLessonDate == nil &&
		s.Hearts == nil &&
		s.Gems == nil &&
		s.PerfectLessons == nil &&
		s.IsPremium == nil &&
		s.SoundEnabled == nil &&
		s.MusicEnabled == nil
}

// ApplyTo copies every present field into the profile.
func (s StatsPatch) ApplyTo(p *LearnerProfile) {
	if s.DisplayName != nil {
		p.DisplayName = *s.DisplayName
	}
	if s.Streak != nil {
		p.Streak = max(0, *s.Streak)
	}
	if s.LastLessonDate != nil {
		p.LastLessonDate = *s.LastLessonDate
	}
	if s.Hearts != nil {
		p.Hearts = min(max(0, *s.Hearts), MaxHearts)
	}
	if s.Gems != nil {
		p.Gems = *s.Gems
	}
	if s.PerfectLessons != nil {
		p.PerfectLessons = max(0, *s.PerfectLessons)
	}
	if s.IsPremium != nil {
		p.IsPremium = *s.IsPremium
	}
	if s.SoundEnabled != nil {
		p.SoundEnabled = *s.SoundEnabled
	}
	if s.MusicEnabled != nil {
		p.MusicEnabled = *s.MusicEnabled
	}
}

// UnionInto adds the given ids to the set without removing any.
func UnionInto(set []string, ids ...string) []string {
	for _, id := range ids {
		if !slices.Contains(set, id) {
			set = append(set, id)
		}
	}
	return set
}

// Ptr returns a pointer to v, for building patches inline.
func Ptr[T any](v T) *T {
	return &v
}
