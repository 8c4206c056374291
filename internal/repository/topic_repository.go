package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/upgradist/eduquest-backend/internal/model"
)

type TopicRepository struct {
	pool *pgxpool.Pool
}

func NewTopicRepository(pool *pgxpool.Pool) *TopicRepository {
	return &TopicRepository{pool: pool}
}

func (r *TopicRepository) Create(ctx context.Context, t *model.Topic) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO topics (subject_id, name, description, slug) VALUES ($1, $2, $3, $4)
		 RETURNING id, questions_count, active, created_at, updated_at`,
		t.SubjectID, t.Name, t.Description, t.Slug,
	).Scan(&t.ID, &t.QuestionsCount, &t.Active, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TopicRepository) GetByID(ctx context.Context, id int) (*model.Topic, error) {
	t := &model.Topic{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, subject_id, name, description, slug, questions_count, active, created_at, updated_at
		 FROM topics WHERE id = $1`, id,
	).Scan(&t.ID, &t.SubjectID, &t.Name, &t.Description, &t.Slug, &t.QuestionsCount,
		&t.Active, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListBySubject lists a subject's topics, active ones only unless
// includeInactive is set. Pass subjectID=0 to list across subjects.
func (r *TopicRepository) ListBySubject(ctx context.Context, subjectID int, includeInactive bool) ([]model.Topic, error) {
	query := `SELECT id, subject_id, name, description, slug, questions_count, active, created_at, updated_at
	          FROM topics WHERE 1=1`
	var args []any
	if subjectID > 0 {
		args = append(args, subjectID)
		query += ` AND subject_id = $1`
	}
	if !includeInactive {
		query += ` AND active`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var topics []model.Topic
	for rows.Next() {
		var t model.Topic
		if err := rows.Scan(&t.ID, &t.SubjectID, &t.Name, &t.Description, &t.Slug,
			&t.QuestionsCount, &t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

func (r *TopicRepository) Update(ctx context.Context, t *model.Topic) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE topics SET name = $1, description = $2, updated_at = NOW() WHERE id = $3`,
		t.Name, t.Description, t.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}

// SetActive toggles a topic's soft-delete flag.
func (r *TopicRepository) SetActive(ctx context.Context, id int, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE topics SET active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}

// AdjustQuestionsCount shifts the denormalized question counter by delta.
func (r *TopicRepository) AdjustQuestionsCount(ctx context.Context, id, delta int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE topics SET questions_count = questions_count + $1, updated_at = NOW() WHERE id = $2`,
		delta, id)
	return err
}
