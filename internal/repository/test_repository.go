package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/upgradist/eduquest-backend/internal/model"
)

// TestRepository handles assembled-test data access. The questions snapshot
// is stored as a jsonb column and round-tripped through json encoding; the
// database never resolves it against the live question bank.
type TestRepository struct {
	pool *pgxpool.Pool
}

// NewTestRepository creates a new TestRepository.
func NewTestRepository(pool *pgxpool.Pool) *TestRepository {
	return &TestRepository{pool: pool}
}

const testColumns = `id, title, description, subject_id, topic_ids, duration_minutes,
	type, allow_negative_marking, total_marks, total_questions, questions,
	is_active, is_deleted, created_at, updated_at`

func scanTest(row interface{ Scan(dest ...any) error }, t *model.Test) error {
	var questionsJSON []byte
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.SubjectID, &t.TopicIDs,
		&t.DurationMinutes, &t.Type, &t.AllowNegativeMarking, &t.TotalMarks,
		&t.TotalQuestions, &questionsJSON, &t.IsActive, &t.IsDeleted,
		&t.CreatedAt, &t.UpdatedAt); err != nil {
		return err
	}
	return json.Unmarshal(questionsJSON, &t.Questions)
}

// Create inserts a newly assembled test.
func (r *TestRepository) Create(ctx context.Context, t *model.Test) error {
	questionsJSON, err := json.Marshal(t.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}

	return r.pool.QueryRow(ctx,
		`INSERT INTO tests (title, description, subject_id, topic_ids, duration_minutes,
		        type, allow_negative_marking, total_marks, total_questions, questions)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, is_active, is_deleted, created_at, updated_at`,
		t.Title, t.Description, t.SubjectID, t.TopicIDs, t.DurationMinutes,
		t.Type, t.AllowNegativeMarking, t.TotalMarks, t.TotalQuestions, questionsJSON,
	).Scan(&t.ID, &t.IsActive, &t.IsDeleted, &t.CreatedAt, &t.UpdatedAt)
}

// Replace overwrites a test wholesale, including its question snapshot.
func (r *TestRepository) Replace(ctx context.Context, t *model.Test) error {
	questionsJSON, err := json.Marshal(t.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE tests
		 SET title = $1, description = $2, subject_id = $3, topic_ids = $4,
		     duration_minutes = $5, type = $6, allow_negative_marking = $7,
		     total_marks = $8, total_questions = $9, questions = $10,
		     updated_at = NOW()
		 WHERE id = $11`,
		t.Title, t.Description, t.SubjectID, t.TopicIDs, t.DurationMinutes,
		t.Type, t.AllowNegativeMarking, t.TotalMarks, t.TotalQuestions,
		questionsJSON, t.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}

// GetByID retrieves a test by its UUID, soft-deleted ones included.
func (r *TestRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Test, error) {
	t := &model.Test{}
	err := scanTest(r.pool.QueryRow(ctx,
		`SELECT `+testColumns+` FROM tests WHERE id = $1`, id), t)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// SetDeleted toggles a test's soft-delete flag.
func (r *TestRepository) SetDeleted(ctx context.Context, id uuid.UUID, deleted bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tests SET is_deleted = $1, updated_at = NOW() WHERE id = $2`, deleted, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}

// List retrieves active tests matching the filter, newest first, paginated.
func (r *TestRepository) List(ctx context.Context, f model.TestFilter, limit, offset int) ([]model.Test, int, error) {
	where := ` WHERE is_active`
	var args []any
	if !f.IncludeDeleted {
		where += ` AND NOT is_deleted`
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where += fmt.Sprintf(` AND title ILIKE $%d`, len(args))
	}
	if f.Type != "" && f.Type != "all" {
		args = append(args, f.Type)
		where += fmt.Sprintf(` AND type = $%d`, len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM tests`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + testColumns + ` FROM tests` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tests []model.Test
	for rows.Next() {
		var t model.Test
		if err := scanTest(rows, &t); err != nil {
			return nil, 0, err
		}
		tests = append(tests, t)
	}
	return tests, total, rows.Err()
}
