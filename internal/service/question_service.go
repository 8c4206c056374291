package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/upgradist/eduquest-backend/internal/model"
	"github.com/upgradist/eduquest-backend/internal/repository"
)

// QuestionService manages the question bank. Bank edits never touch existing
// test snapshots; a test keeps the marks layout it was assembled with until an
// admin re-assembles it.
type QuestionService struct {
	questionRepo *repository.QuestionRepository
	topicRepo    *repository.TopicRepository
	log          zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(questionRepo *repository.QuestionRepository, topicRepo *repository.TopicRepository, log zerolog.Logger) *QuestionService {
	return &QuestionService{
		questionRepo: questionRepo,
		topicRepo:    topicRepo,
		log:          log.With().Str("component", "question_service").Logger(),
	}
}

// Create adds a question to the bank and bumps the topic's question counter.
func (s *QuestionService) Create(ctx context.Context, req *model.CreateQuestionRequest) (*model.Question, error) {
	if _, err := s.topicRepo.GetByID(ctx, req.TopicID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("get topic: %w", err)
	}

	if err := validateCorrectAnswer(req.Options, req.CorrectAnswer); err != nil {
		return nil, err
	}

	question := &model.Question{
		SubjectID:          req.SubjectID,
		TopicID:            req.TopicID,
		Text:               req.Text,
		ImageURL:           req.ImageURL,
		Options:            req.Options,
		CorrectAnswer:      req.CorrectAnswer,
		CorrectAnswerImage: req.CorrectAnswerImage,
		Difficulty:         model.Difficulty(req.Difficulty),
		Hint:               req.Hint,
		Solution:           req.Solution,
		SolutionImage:      req.SolutionImage,
	}
	if err := s.questionRepo.Create(ctx, question); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}

	if err := s.topicRepo.AdjustQuestionsCount(ctx, question.TopicID, 1); err != nil {
		s.log.Warn().Err(err).Int("topic_id", question.TopicID).Msg("Question counter adjust failed")
	}

	s.log.Info().
		Str("question_id", question.ID.String()).
		Int("topic_id", question.TopicID).
		Str("difficulty", string(question.Difficulty)).
		Msg("Question created")
	return question, nil
}

// GetByID retrieves one question with its correct answer (admin view).
func (s *QuestionService) GetByID(ctx context.Context, id uuid.UUID) (*model.Question, error) {
	question, err := s.questionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("get question: %w", err)
	}
	return question, nil
}

// List pages through the bank with optional filters. Returns the page and the
// total match count.
func (s *QuestionService) List(ctx context.Context, f model.QuestionFilter, page, perPage int) ([]model.Question, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	questions, total, err := s.questionRepo.List(ctx, f, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, fmt.Errorf("list questions: %w", err)
	}
	if questions == nil {
		questions = []model.Question{}
	}
	return questions, total, nil
}

// Update replaces a question's editable fields. The subject and topic are
// fixed at creation.
func (s *QuestionService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateQuestionRequest) (*model.Question, error) {
	if err := validateCorrectAnswer(req.Options, req.CorrectAnswer); err != nil {
		return nil, err
	}

	question := &model.Question{
		ID:                 id,
		Text:               req.Text,
		ImageURL:           req.ImageURL,
		Options:            req.Options,
		CorrectAnswer:      req.CorrectAnswer,
		CorrectAnswerImage: req.CorrectAnswerImage,
		Difficulty:         model.Difficulty(req.Difficulty),
		Hint:               req.Hint,
		Solution:           req.Solution,
		SolutionImage:      req.SolutionImage,
	}
	if err := s.questionRepo.Update(ctx, question); err != nil {
		if errors.Is(err, repository.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("update question: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Deactivate removes a question from the sampling pool and decrements the
// topic's counter. Existing snapshots that reference it keep serving it.
func (s *QuestionService) Deactivate(ctx context.Context, id uuid.UUID) error {
	question, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !question.Active {
		return nil
	}
	if err := s.questionRepo.SetActive(ctx, id, false); err != nil {
		return fmt.Errorf("set question active: %w", err)
	}
	if err := s.topicRepo.AdjustQuestionsCount(ctx, question.TopicID, -1); err != nil {
		s.log.Warn().Err(err).Int("topic_id", question.TopicID).Msg("Question counter adjust failed")
	}
	return nil
}

// Activate returns a question to the sampling pool.
func (s *QuestionService) Activate(ctx context.Context, id uuid.UUID) error {
	question, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if question.Active {
		return nil
	}
	if err := s.questionRepo.SetActive(ctx, id, true); err != nil {
		return fmt.Errorf("set question active: %w", err)
	}
	if err := s.topicRepo.AdjustQuestionsCount(ctx, question.TopicID, 1); err != nil {
		s.log.Warn().Err(err).Int("topic_id", question.TopicID).Msg("Question counter adjust failed")
	}
	return nil
}

// ErrAnswerNotInOptions rejects a question whose correct answer is not one of
// its options.
var ErrAnswerNotInOptions = errors.New("correct answer must be one of the options")

func validateCorrectAnswer(options []string, answer string) error {
	for _, opt := range options {
		if opt == answer {
			return nil
		}
	}
	return ErrAnswerNotInOptions
}
