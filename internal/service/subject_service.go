package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/upgradist/eduquest-backend/internal/model"
	"github.com/upgradist/eduquest-backend/internal/repository"
)

// SubjectService manages the subject catalog.
type SubjectService struct {
	subjectRepo *repository.SubjectRepository
	log         zerolog.Logger
}

// NewSubjectService creates a new SubjectService.
func NewSubjectService(subjectRepo *repository.SubjectRepository, log zerolog.Logger) *SubjectService {
	return &SubjectService{
		subjectRepo: subjectRepo,
		log:         log.With().Str("component", "subject_service").Logger(),
	}
}

// Create adds a subject to the catalog.
func (s *SubjectService) Create(ctx context.Context, req *model.CreateSubjectRequest) (*model.Subject, error) {
	subject := &model.Subject{
		Name:        req.Name,
		Description: req.Description,
		Slug:        req.Slug,
	}
	if err := s.subjectRepo.Create(ctx, subject); err != nil {
		return nil, fmt.Errorf("create subject: %w", err)
	}
	s.log.Info().Int("subject_id", subject.ID).Str("slug", subject.Slug).Msg("Subject created")
	return subject, nil
}

// GetByID retrieves one subject.
func (s *SubjectService) GetByID(ctx context.Context, id int) (*model.Subject, error) {
	subject, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("get subject: %w", err)
	}
	return subject, nil
}

// List returns the subject catalog.
func (s *SubjectService) List(ctx context.Context, includeInactive bool) ([]model.Subject, error) {
	subjects, err := s.subjectRepo.GetAll(ctx, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	if subjects == nil {
		subjects = []model.Subject{}
	}
	return subjects, nil
}

// Update changes a subject's name and description. The slug is immutable once
// created.
func (s *SubjectService) Update(ctx context.Context, id int, req *model.UpdateSubjectRequest) (*model.Subject, error) {
	subject := &model.Subject{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.subjectRepo.Update(ctx, subject); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("update subject: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Deactivate soft-deletes a subject.
func (s *SubjectService) Deactivate(ctx context.Context, id int) error {
	return s.setActive(ctx, id, false)
}

// Activate restores a soft-deleted subject.
func (s *SubjectService) Activate(ctx context.Context, id int) error {
	return s.setActive(ctx, id, true)
}

func (s *SubjectService) setActive(ctx context.Context, id int, active bool) error {
	if err := s.subjectRepo.SetActive(ctx, id, active); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return ErrSubjectNotFound
		}
		return fmt.Errorf("set subject active: %w", err)
	}
	return nil
}
