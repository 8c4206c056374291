package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/upgradist/eduquest-backend/internal/model"
)

type SubjectRepository struct {
	pool *pgxpool.Pool
}

func NewSubjectRepository(pool *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{pool: pool}
}

func (r *SubjectRepository) Create(ctx context.Context, s *model.Subject) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO subjects (name, description, slug) VALUES ($1, $2, $3)
		 RETURNING id, topics_count, active, created_at, updated_at`,
		s.Name, s.Description, s.Slug,
	).Scan(&s.ID, &s.TopicsCount, &s.Active, &s.CreatedAt, &s.UpdatedAt)
}

func (r *SubjectRepository) GetByID(ctx context.Context, id int) (*model.Subject, error) {
	s := &model.Subject{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, description, slug, topics_count, active, created_at, updated_at
		 FROM subjects WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.Description, &s.Slug, &s.TopicsCount, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// GetAll lists subjects, active ones only unless includeInactive is set.
func (r *SubjectRepository) GetAll(ctx context.Context, includeInactive bool) ([]model.Subject, error) {
	query := `SELECT id, name, description, slug, topics_count, active, created_at, updated_at
	          FROM subjects`
	if !includeInactive {
		query += ` WHERE active`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []model.Subject
	for rows.Next() {
		var s model.Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Slug, &s.TopicsCount,
			&s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

func (r *SubjectRepository) Update(ctx context.Context, s *model.Subject) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE subjects SET name = $1, description = $2, updated_at = NOW() WHERE id = $3`,
		s.Name, s.Description, s.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}

// SetActive toggles a subject's soft-delete flag.
func (r *SubjectRepository) SetActive(ctx context.Context, id int, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE subjects SET active = $1, updated_at = NOW() WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoRows
	}
	return nil
}

// AdjustTopicsCount shifts the denormalized topic counter by delta.
func (r *SubjectRepository) AdjustTopicsCount(ctx context.Context, id, delta int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE subjects SET topics_count = topics_count + $1, updated_at = NOW() WHERE id = $2`,
		delta, id)
	return err
}
