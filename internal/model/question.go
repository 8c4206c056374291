package model

import (
	"time"

	"github.com/google/uuid"
)

// Difficulty is the stratification tier used by test assembly.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Tiers lists the difficulty tiers in assembly order.
var Tiers = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Valid reports whether d is a known difficulty tier.
func (d Difficulty) Valid() bool {
	return d == DifficultyEasy || d == DifficultyMedium || d == DifficultyHard
}

// Question is a single bank question. CorrectAnswer is serialized for admin
// endpoints only; test-takers receive SessionQuestion instead.
type Question struct {
	ID                 uuid.UUID  `json:"id"`
	SubjectID          int        `json:"subject_id"`
	TopicID            int        `json:"topic_id"`
	Text               string     `json:"text"`
	ImageURL           string     `json:"image_url,omitempty"`
	Options            []string   `json:"options"`
	CorrectAnswer      string     `json:"correct_answer"`
	CorrectAnswerImage string     `json:"correct_answer_image,omitempty"`
	Difficulty         Difficulty `json:"difficulty"`
	Hint               string     `json:"hint,omitempty"`
	Solution           string     `json:"solution,omitempty"`
	SolutionImage      string     `json:"solution_image,omitempty"`
	Active             bool       `json:"active"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// CreateQuestionRequest is the payload for adding a question to the bank.
type CreateQuestionRequest struct {
	SubjectID          int      `json:"subject_id" binding:"required"`
	TopicID            int      `json:"topic_id" binding:"required"`
	Text               string   `json:"text" binding:"required,min=1,max=2000"`
	ImageURL           string   `json:"image_url" binding:"omitempty,max=500"`
	Options            []string `json:"options" binding:"required,min=2,dive,required"`
	CorrectAnswer      string   `json:"correct_answer" binding:"required"`
	CorrectAnswerImage string   `json:"correct_answer_image" binding:"omitempty,max=500"`
	Difficulty         string   `json:"difficulty" binding:"required,oneof=easy medium hard"`
	Hint               string   `json:"hint" binding:"omitempty,max=2000"`
	Solution           string   `json:"solution" binding:"omitempty,max=5000"`
	SolutionImage      string   `json:"solution_image" binding:"omitempty,max=500"`
}

// UpdateQuestionRequest is the payload for editing an existing question.
type UpdateQuestionRequest struct {
	Text               string   `json:"text" binding:"required,min=1,max=2000"`
	ImageURL           string   `json:"image_url" binding:"omitempty,max=500"`
	Options            []string `json:"options" binding:"required,min=2,dive,required"`
	CorrectAnswer      string   `json:"correct_answer" binding:"required"`
	CorrectAnswerImage string   `json:"correct_answer_image" binding:"omitempty,max=500"`
	Difficulty         string   `json:"difficulty" binding:"required,oneof=easy medium hard"`
	Hint               string   `json:"hint" binding:"omitempty,max=2000"`
	Solution           string   `json:"solution" binding:"omitempty,max=5000"`
	SolutionImage      string   `json:"solution_image" binding:"omitempty,max=500"`
}

// QuestionFilter narrows question listings.
type QuestionFilter struct {
	SubjectID  *int
	TopicID    *int
	Difficulty *Difficulty
	Search     string
	// IncludeInactive lists soft-deleted questions too (admin trash view).
	IncludeInactive bool
}
