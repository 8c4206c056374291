package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/upgradist/eduquest-backend/internal/model"
)

// TestAttemptRow is one per-test leaderboard row straight from the join of
// attempts and users.
type TestAttemptRow struct {
	UserID         int
	Name           string
	Email          string
	ProfilePicture string
	Score          float64
	Correct        int
	Wrong          int
	Total          int
	MaxMarks       float64
	SubmittedAt    time.Time
}

// AttemptRecord is one attempt inside a user's history, carrying the test
// title for compact recent-history views.
type AttemptRecord struct {
	TestID      uuid.UUID `json:"test_id"`
	TestTitle   string    `json:"test_title"`
	Score       float64   `json:"score"`
	Correct     int       `json:"correct"`
	Wrong       int       `json:"wrong"`
	Total       int       `json:"total"`
	MaxMarks    float64   `json:"max_marks"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// UserAttempts groups a user's complete attempt history.
type UserAttempts struct {
	UserID         int
	Name           string
	Email          string
	ProfilePicture string
	Attempts       []AttemptRecord
}

// AttemptRepository handles attempt persistence and history scans.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

// Insert stores an attempt unless one already exists for the (user, test)
// pair. The unique constraint plus ON CONFLICT DO NOTHING makes the
// at-most-once guarantee hold even for concurrent submissions. The returned
// bool reports whether this call stored the attempt.
func (r *AttemptRepository) Insert(ctx context.Context, a *model.Attempt) (bool, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO attempts (user_id, test_id, score, correct, wrong, total, max_marks)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id, test_id) DO NOTHING
		 RETURNING id, submitted_at`,
		a.UserID, a.TestID, a.Score, a.Correct, a.Wrong, a.Total, a.MaxMarks,
	).Scan(&a.ID, &a.SubmittedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Conflict: a prior attempt already holds the slot.
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Exists reports whether the user already has a stored attempt for the test.
func (r *AttemptRepository) Exists(ctx context.Context, userID int, testID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM attempts WHERE user_id = $1 AND test_id = $2)`,
		userID, testID).Scan(&exists)
	return exists, err
}

// ListByTest retrieves every user's attempt for one test, joined with the
// user's public profile fields. Ordering is left to the aggregation layer.
func (r *AttemptRepository) ListByTest(ctx context.Context, testID uuid.UUID) ([]TestAttemptRow, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.name, u.email, u.profile_picture,
		        a.score, a.correct, a.wrong, a.total, a.max_marks, a.submitted_at
		 FROM attempts a
		 JOIN users u ON u.id = a.user_id
		 WHERE a.test_id = $1`, testID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []TestAttemptRow
	for rows.Next() {
		var row TestAttemptRow
		if err := rows.Scan(&row.UserID, &row.Name, &row.Email, &row.ProfilePicture,
			&row.Score, &row.Correct, &row.Wrong, &row.Total, &row.MaxMarks, &row.SubmittedAt); err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

// ListUsersWithAttempts retrieves the full attempt history of every user who
// has at least one stored attempt.
func (r *AttemptRepository) ListUsersWithAttempts(ctx context.Context) ([]UserAttempts, error) {
	return r.listGrouped(ctx,
		`SELECT u.id, u.name, u.email, u.profile_picture,
		        a.test_id, t.title, a.score, a.correct, a.wrong, a.total, a.max_marks, a.submitted_at
		 FROM attempts a
		 JOIN users u ON u.id = a.user_id
		 JOIN tests t ON t.id = a.test_id
		 ORDER BY u.id, a.submitted_at`)
}

// ListUsersByTest retrieves the full attempt history of every user who has a
// stored attempt for the given test. Used by the detailed per-test
// leaderboard, which needs cross-test averages alongside the test row.
func (r *AttemptRepository) ListUsersByTest(ctx context.Context, testID uuid.UUID) ([]UserAttempts, error) {
	return r.listGrouped(ctx,
		`SELECT u.id, u.name, u.email, u.profile_picture,
		        a.test_id, t.title, a.score, a.correct, a.wrong, a.total, a.max_marks, a.submitted_at
		 FROM attempts a
		 JOIN users u ON u.id = a.user_id
		 JOIN tests t ON t.id = a.test_id
		 WHERE u.id IN (SELECT user_id FROM attempts WHERE test_id = $1)
		 ORDER BY u.id, a.submitted_at`, testID)
}

// ListByUser retrieves one user's attempts, newest first.
func (r *AttemptRepository) ListByUser(ctx context.Context, userID int) ([]AttemptRecord, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT a.test_id, t.title, a.score, a.correct, a.wrong, a.total, a.max_marks, a.submitted_at
		 FROM attempts a
		 JOIN tests t ON t.id = a.test_id
		 WHERE a.user_id = $1
		 ORDER BY a.submitted_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []AttemptRecord
	for rows.Next() {
		var rec AttemptRecord
		if err := rows.Scan(&rec.TestID, &rec.TestTitle, &rec.Score, &rec.Correct,
			&rec.Wrong, &rec.Total, &rec.MaxMarks, &rec.SubmittedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *AttemptRepository) listGrouped(ctx context.Context, query string, args ...any) ([]UserAttempts, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []UserAttempts
	var current *UserAttempts

	for rows.Next() {
		var (
			userID                       int
			name, email, profilePicture  string
			rec                          AttemptRecord
		)
		if err := rows.Scan(&userID, &name, &email, &profilePicture,
			&rec.TestID, &rec.TestTitle, &rec.Score, &rec.Correct, &rec.Wrong,
			&rec.Total, &rec.MaxMarks, &rec.SubmittedAt); err != nil {
			return nil, err
		}

		if current == nil || current.UserID != userID {
			users = append(users, UserAttempts{
				UserID:         userID,
				Name:           name,
				Email:          email,
				ProfilePicture: profilePicture,
			})
			current = &users[len(users)-1]
		}
		current.Attempts = append(current.Attempts, rec)
	}
	return users, rows.Err()
}
