package entities

// ExerciseType tags how an exercise is answered.
type ExerciseType string

const (
	ExerciseMultipleChoice ExerciseType = "MULTIPLE_CHOICE"
	ExerciseTranslation    ExerciseType = "TRANSLATION"
	ExerciseListening      ExerciseType = "LISTENING"
	ExerciseMatching       ExerciseType = "MATCHING"
	ExerciseSpeaking       ExerciseType = "SPEAKING"
	ExerciseScramble       ExerciseType = "MOOAZ_SCRAMBLE"
	ExerciseTrueFalse      ExerciseType = "TRUE_FALSE"
)

// Difficulty is the advertised difficulty of a level.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "BEGINNER"
	DifficultyIntermediate Difficulty = "INTERMEDIATE"
	DifficultyAdvanced     Difficulty = "ADVANCED"
	DifficultyExpert       Difficulty = "EXPERT"
)

// LessonKind distinguishes regular lessons from quizzes and true/false drills.
type LessonKind string

const (
	LessonKindLesson    LessonKind = "lesson"
	LessonKindQuiz      LessonKind = "quiz"
	LessonKindTrueFalse LessonKind = "true_false"
	LessonKindExam      LessonKind = "exam"
)

// Exercise is a single question inside a lesson.
type Exercise struct {
	ID             string       `json:"id"`
	Type           ExerciseType `json:"type"`
	Question       string       `json:"question"`
	ArabicQuestion string       `json:"arabicQuestion,omitempty"`
	Options        []string     `json:"options,omitempty"`
	CorrectAnswer  string       `json:"correctAnswer"`
	ScrambledWords []string     `json:"scrambledWords,omitempty"`
	AudioURL       string       `json:"audioUrl,omitempty"`
}

// Lesson is the unit of completion. Order is global across the whole path.
type Lesson struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Order       int        `json:"order"`
	XPReward    int        `json:"xpReward"`
	IsExam      bool       `json:"isExam,omitempty"`
	Kind        LessonKind `json:"type,omitempty"`
	Exercises   []Exercise `json:"exercises"`
}

// Unit groups lessons for display. It has no unlock rule of its own.
type Unit struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Color   string   `json:"color,omitempty"`
	Lessons []Lesson `json:"lessons"`
}

// Level groups units behind an experience threshold.
type Level struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Objective          string     `json:"objective,omitempty"`
	Difficulty         Difficulty `json:"difficulty,omitempty"`
	RequiredXPToUnlock int        `json:"requiredXpToUnlock"`
	Units              []Unit     `json:"units"`
}
