package model

import (
	"time"

	"github.com/google/uuid"
)

// Attempt is one scored submission for a (user, test) pair. At most one
// attempt per pair is ever persisted; the database enforces this with a
// unique constraint on (user_id, test_id).
type Attempt struct {
	ID          int64     `json:"id"`
	UserID      int       `json:"user_id"`
	TestID      uuid.UUID `json:"test_id"`
	Score       float64   `json:"score"`
	Correct     int       `json:"correct"`
	Wrong       int       `json:"wrong"`
	Total       int       `json:"total"`
	MaxMarks    float64   `json:"max_marks"`
	SubmittedAt time.Time `json:"submitted_at"`
}
