package model

import (
	"time"

	"github.com/google/uuid"
)

// TestLeaderboardEntry is one row of a per-test leaderboard: each user's
// single stored attempt for that test.
type TestLeaderboardEntry struct {
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	ProfilePicture string    `json:"profile_picture,omitempty"`
	Score          float64   `json:"score"`
	Correct        int       `json:"correct"`
	Wrong          int       `json:"wrong"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// OverallLeaderboardEntry aggregates a user's full attempt history.
type OverallLeaderboardEntry struct {
	UserID         int     `json:"user_id"`
	Name           string  `json:"name"`
	ProfilePicture string  `json:"profile_picture,omitempty"`
	TotalTests     int     `json:"total_tests"`
	TotalScore     float64 `json:"total_score"`
	AverageScore   float64 `json:"average_score"`
	TotalMarks     float64 `json:"total_marks"`
	Accuracy       float64 `json:"accuracy"`
}

// RecentAttempt is a compact view of one of a user's latest attempts.
type RecentAttempt struct {
	TestID      uuid.UUID `json:"test_id"`
	TestTitle   string    `json:"test_title"`
	Score       float64   `json:"score"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// DetailedLeaderboardEntry is a per-test row enriched with the user's
// cross-test profile: average score over all attempts and their three most
// recent attempts.
type DetailedLeaderboardEntry struct {
	UserID         int             `json:"user_id"`
	Name           string          `json:"name"`
	ProfilePicture string          `json:"profile_picture,omitempty"`
	TotalTests     int             `json:"total_tests"`
	Score          float64         `json:"score"`
	AverageScore   float64         `json:"average_score"`
	Correct        int             `json:"correct"`
	Wrong          int             `json:"wrong"`
	Total          int             `json:"total"`
	MaxMarks       float64         `json:"max_marks"`
	Accuracy       float64         `json:"accuracy"`
	SubmittedAt    time.Time       `json:"submitted_at"`
	RecentAttempts []RecentAttempt `json:"recent_attempts"`
}
