package model

import (
	"time"

	"github.com/google/uuid"
)

// TestType enumerates the kinds of assembled tests.
type TestType string

const (
	TestTypePractice   TestType = "practice"
	TestTypeMock       TestType = "mock"
	TestTypeAssignment TestType = "assignment"
	TestTypeQuiz       TestType = "quiz"
	TestTypeExam       TestType = "exam"
)

// TestQuestion is one entry of a test's frozen question snapshot: a reference
// into the question bank plus the scoring metadata captured at assembly time.
type TestQuestion struct {
	QuestionID    uuid.UUID  `json:"question_id"`
	Difficulty    Difficulty `json:"difficulty"`
	Marks         float64    `json:"marks"`
	NegativeMarks float64    `json:"negative_marks"`
}

// Test is an assembled test. Questions is a snapshot taken when the test was
// created or last edited; it is never re-resolved against the live bank.
type Test struct {
	ID                   uuid.UUID      `json:"id"`
	Title                string         `json:"title"`
	Description          string         `json:"description"`
	SubjectID            int            `json:"subject_id"`
	TopicIDs             []int          `json:"topic_ids"`
	DurationMinutes      int            `json:"duration_minutes"`
	Type                 TestType       `json:"type"`
	AllowNegativeMarking bool           `json:"allow_negative_marking"`
	TotalMarks           float64        `json:"total_marks"`
	TotalQuestions       int            `json:"total_questions"`
	Questions            []TestQuestion `json:"questions"`
	IsActive             bool           `json:"is_active"`
	IsDeleted            bool           `json:"is_deleted"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
}

// TierValues carries a per-difficulty numeric setting (marks or penalties).
type TierValues struct {
	Easy   float64 `json:"easy" binding:"min=0"`
	Medium float64 `json:"medium" binding:"min=0"`
	Hard   float64 `json:"hard" binding:"min=0"`
}

// ForTier returns the value configured for the given tier.
func (t TierValues) ForTier(d Difficulty) float64 {
	switch d {
	case DifficultyMedium:
		return t.Medium
	case DifficultyHard:
		return t.Hard
	default:
		return t.Easy
	}
}

// TierCounts carries a per-difficulty question count.
type TierCounts struct {
	Easy   int `json:"easy" binding:"min=0"`
	Medium int `json:"medium" binding:"min=0"`
	Hard   int `json:"hard" binding:"min=0"`
}

// ForTier returns the count configured for the given tier.
func (t TierCounts) ForTier(d Difficulty) int {
	switch d {
	case DifficultyMedium:
		return t.Medium
	case DifficultyHard:
		return t.Hard
	default:
		return t.Easy
	}
}

// AssembleTestRequest is the payload for creating or re-assembling a test.
type AssembleTestRequest struct {
	Title                string     `json:"title" binding:"required,min=3,max=255"`
	Description          string     `json:"description" binding:"omitempty,max=2000"`
	Duration             int        `json:"duration" binding:"required,min=1,max=480"`
	Type                 string     `json:"type" binding:"omitempty,oneof=practice mock assignment quiz exam"`
	SubjectID            int        `json:"subject_id" binding:"required"`
	TopicID              int        `json:"topic_id" binding:"required"`
	AllowNegativeMarking bool       `json:"allow_negative_marking"`
	Marks                TierValues `json:"marks"`
	NegativeMarks        TierValues `json:"negative_marks"`
	QuestionCounts       TierCounts `json:"question_counts"`
	TotalMarks           float64    `json:"total_marks" binding:"required,gt=0"`
	TotalQuestions       int        `json:"total_questions" binding:"required,gt=0"`
}

// TestFilter narrows test listings.
type TestFilter struct {
	Search string
	Type   string // "all" or a TestType value
	// IncludeDeleted lists soft-deleted tests too (admin trash view).
	IncludeDeleted bool
}

// TestBreakdown is the per-difficulty view of a test's snapshot, reconstructed
// for the admin edit form.
type TestBreakdown struct {
	Marks          TierValues `json:"marks"`
	NegativeMarks  TierValues `json:"negative_marks"`
	QuestionCounts TierCounts `json:"question_counts"`
}
