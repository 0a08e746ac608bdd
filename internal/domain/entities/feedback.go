package entities

// Accuracy grades a pronunciation attempt.
type Accuracy string

const (
	AccuracyExcellent Accuracy = "excellent" // score >= 90
	AccuracyGood      Accuracy = "good"      // 70-89
	AccuracyAverage   Accuracy = "average"   // 40-69
	AccuracyPoor      Accuracy = "poor"      // < 40
)

// PronunciationFeedback is the result of analysing a recorded attempt.
type PronunciationFeedback struct {
	Score          int      `json:"score"`
	Accuracy       Accuracy `json:"accuracy"`
	PhoneticErrors []string `json:"phoneticErrors"`
	Tips           string   `json:"tips"`
	TajwidRule     string   `json:"tajwidRule,omitempty"`
}

// AccuracyForScore maps a 0-100 score to its grade.
func AccuracyForScore(score int) Accuracy {
	switch {
	case score >= 90:
		return AccuracyExcellent
	case score >= 70:
		return AccuracyGood
	case score >= 40:
		return AccuracyAverage
	default:
		return AccuracyPoor
	}
}

// Recommendation suggests the next lesson to study.
type Recommendation struct {
	LessonID string `json:"lessonId"`
	Reason   string `json:"reason"`
	Message  string `json:"message"`
}
