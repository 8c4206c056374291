package model

import (
	"time"

	"github.com/google/uuid"
)

// SessionQuestion is a question as served to a test-taker. It is built
// field-by-field from the bank question so the correct answer (and its image)
// can never leak into a session payload.
type SessionQuestion struct {
	QuestionID    uuid.UUID  `json:"question_id"`
	Text          string     `json:"text"`
	ImageURL      string     `json:"image_url,omitempty"`
	Options       []string   `json:"options"`
	Hint          string     `json:"hint,omitempty"`
	Difficulty    Difficulty `json:"difficulty"`
	Marks         float64    `json:"marks"`
	NegativeMarks float64    `json:"negative_marks"`
}

// TestPaper is the sanitized test view handed to a test-taker at session start.
type TestPaper struct {
	TestID          uuid.UUID         `json:"test_id"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	DurationMinutes int               `json:"duration_minutes"`
	TotalMarks      float64           `json:"total_marks"`
	TotalQuestions  int               `json:"total_questions"`
	Questions       []SessionQuestion `json:"questions"`
}

// AnswerSubmission is one submitted answer.
type AnswerSubmission struct {
	QuestionID     uuid.UUID `json:"question_id" binding:"required"`
	SelectedOption string    `json:"selected_option"`
}

// SubmitTestRequest is the payload for submitting a test attempt.
type SubmitTestRequest struct {
	Answers []AnswerSubmission `json:"answers" binding:"dive"`
}

// ScoreResult is the outcome of grading one submission. Stored reports whether
// this submission was persisted as the user's attempt; repeat submissions are
// graded but not stored.
type ScoreResult struct {
	Score       float64   `json:"score"`
	Correct     int       `json:"correct"`
	Wrong       int       `json:"wrong"`
	Total       int       `json:"total"`
	MaxMarks    float64   `json:"max_marks"`
	Stored      bool      `json:"stored"`
	SubmittedAt time.Time `json:"submitted_at"`
}
