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

// TopicService manages topics and keeps the subject's topic counter in step.
type TopicService struct {
	topicRepo   *repository.TopicRepository
	subjectRepo *repository.SubjectRepository
	log         zerolog.Logger
}

// NewTopicService creates a new TopicService.
func NewTopicService(topicRepo *repository.TopicRepository, subjectRepo *repository.SubjectRepository, log zerolog.Logger) *TopicService {
	return &TopicService{
		topicRepo:   topicRepo,
		subjectRepo: subjectRepo,
		log:         log.With().Str("component", "topic_service").Logger(),
	}
}

// Create adds a topic under an existing subject and bumps its topic counter.
func (s *TopicService) Create(ctx context.Context, req *model.CreateTopicRequest) (*model.Topic, error) {
	if _, err := s.subjectRepo.GetByID(ctx, req.SubjectID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("get subject: %w", err)
	}

	topic := &model.Topic{
		SubjectID:   req.SubjectID,
		Name:        req.Name,
		Description: req.Description,
		Slug:        req.Slug,
	}
	if err := s.topicRepo.Create(ctx, topic); err != nil {
		return nil, fmt.Errorf("create topic: %w", err)
	}

	if err := s.subjectRepo.AdjustTopicsCount(ctx, topic.SubjectID, 1); err != nil {
		s.log.Warn().Err(err).Int("subject_id", topic.SubjectID).Msg("Topic counter adjust failed")
	}

	s.log.Info().Int("topic_id", topic.ID).Int("subject_id", topic.SubjectID).Msg("Topic created")
	return topic, nil
}

// GetByID retrieves one topic.
func (s *TopicService) GetByID(ctx context.Context, id int) (*model.Topic, error) {
	topic, err := s.topicRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("get topic: %w", err)
	}
	return topic, nil
}

// List returns topics, optionally narrowed to one subject (subjectID > 0).
func (s *TopicService) List(ctx context.Context, subjectID int, includeInactive bool) ([]model.Topic, error) {
	topics, err := s.topicRepo.ListBySubject(ctx, subjectID, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	if topics == nil {
		topics = []model.Topic{}
	}
	return topics, nil
}

// Update changes a topic's name and description.
func (s *TopicService) Update(ctx context.Context, id int, req *model.UpdateTopicRequest) (*model.Topic, error) {
	topic := &model.Topic{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.topicRepo.Update(ctx, topic); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("update topic: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Deactivate soft-deletes a topic and decrements the subject's topic counter.
func (s *TopicService) Deactivate(ctx context.Context, id int) error {
	topic, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !topic.Active {
		return nil
	}
	if err := s.topicRepo.SetActive(ctx, id, false); err != nil {
		return fmt.Errorf("set topic active: %w", err)
	}
	if err := s.subjectRepo.AdjustTopicsCount(ctx, topic.SubjectID, -1); err != nil {
		s.log.Warn().Err(err).Int("subject_id", topic.SubjectID).Msg("Topic counter adjust failed")
	}
	return nil
}

// Activate restores a soft-deleted topic.
func (s *TopicService) Activate(ctx context.Context, id int) error {
	topic, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if topic.Active {
		return nil
	}
	if err := s.topicRepo.SetActive(ctx, id, true); err != nil {
		return fmt.Errorf("set topic active: %w", err)
	}
	if err := s.subjectRepo.AdjustTopicsCount(ctx, topic.SubjectID, 1); err != nil {
		s.log.Warn().Err(err).Int("subject_id", topic.SubjectID).Msg("Topic counter adjust failed")
	}
	return nil
}
