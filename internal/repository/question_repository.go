package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/upgradist/eduquest-backend/internal/model"
)

// QuestionRepository handles question bank data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

const questionColumns = `id, subject_id, topic_id, text, image_url, options,
	correct_answer, correct_answer_image, difficulty, hint, solution,
	solution_image, active, created_at, updated_at`

func scanQuestion(row interface{ Scan(dest ...any) error }, q *model.Question) error {
	return row.Scan(&q.ID, &q.SubjectID, &q.TopicID, &q.Text, &q.ImageURL,
		&q.Options, &q.CorrectAnswer, &q.CorrectAnswerImage, &q.Difficulty,
		&q.Hint, &q.Solution, &q.SolutionImage, &q.Active, &q.CreatedAt, &q.UpdatedAt)
}

// Create inserts a new question.
func (r *QuestionRepository) Create(ctx context.Context, q *model.Question) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO questions (subject_id, topic_id, text, image_url, options,
		        correct_answer, correct_answer_image, difficulty, hint, solution, solution_image)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, active, created_at, updated_at`,
		q.SubjectID, q.TopicID, q.Text, q.ImageURL, q.Options,
		q.CorrectAnswer, q.CorrectAnswerImage, q.Difficulty, q.Hint, q.Solution, q.SolutionImage,
	).Scan(&q.ID, &q.Active, &q.CreatedAt, &q.UpdatedAt)
}

// Update modifies an existing question's content.
func (r *QuestionRepository) Update(ctx context.Context, q *model.Question) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE questions
		 SET text = $1, image_url = $2, options = $3, correct_answer = $4,
		     correct_answer_image = $5, difficulty = $6, hint = $7,
		     solution = $8, solution_image = $9, updated_at = NOW()
		 WHERE id = $10`,
		q.Text, q.ImageURL, q.Options, q.CorrectAnswer, q.CorrectAnswerImage,
		q.Difficulty, q.Hint, q.Solution, q.SolutionImage, q.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}

// SetActive toggles a question's soft-delete flag.
func (r *QuestionRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE questions SET active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}

// GetByID retrieves a question by its UUID.
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	q := &model.Question{}
	err := scanQuestion(r.pool.QueryRow(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = $1`, id), q)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// GetByIDs retrieves questions by id, keyed for scoring and paper assembly.
func (r *QuestionRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := make(map[uuid.UUID]model.Question, len(ids))
	for rows.Next() {
		var q model.Question
		if err := scanQuestion(rows, &q); err != nil {
			return nil, err
		}
		questions[q.ID] = q
	}
	return questions, rows.Err()
}

// SampleActive draws a uniform random sample of active questions for a
// (topic, difficulty) pair without replacement. Fewer than count rows come
// back when the bank runs short; the caller decides whether that aborts.
func (r *QuestionRepository) SampleActive(ctx context.Context, topicID int, difficulty model.Difficulty, count int) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+`
		 FROM questions
		 WHERE topic_id = $1 AND difficulty = $2 AND active
		 ORDER BY random()
		 LIMIT $3`, topicID, difficulty, count)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := scanQuestion(rows, &q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// List retrieves questions matching the filter, newest first, paginated.
func (r *QuestionRepository) List(ctx context.Context, f model.QuestionFilter, limit, offset int) ([]model.Question, int, error) {
	where := ` WHERE 1=1`
	var args []any
	if !f.IncludeInactive {
		where += ` AND active`
	}
	if f.SubjectID != nil {
		args = append(args, *f.SubjectID)
		where += fmt.Sprintf(` AND subject_id = $%d`, len(args))
	}
	if f.TopicID != nil {
		args = append(args, *f.TopicID)
		where += fmt.Sprintf(` AND topic_id = $%d`, len(args))
	}
	if f.Difficulty != nil {
		args = append(args, *f.Difficulty)
		where += fmt.Sprintf(` AND difficulty = $%d`, len(args))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where += fmt.Sprintf(` AND text ILIKE $%d`, len(args))
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM questions`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + questionColumns + ` FROM questions` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		if err := scanQuestion(rows, &q); err != nil {
			return nil, 0, err
		}
		questions = append(questions, q)
	}
	return questions, total, rows.Err()
}
